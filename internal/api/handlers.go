package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/dictionary"
	"github.com/FocuswithJustin/KanjiLens/core/errors"
	"github.com/FocuswithJustin/KanjiLens/core/kanji"
	"github.com/FocuswithJustin/KanjiLens/core/level"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
	"github.com/FocuswithJustin/KanjiLens/core/sqlite"
	"github.com/FocuswithJustin/KanjiLens/internal/engine"
	"github.com/FocuswithJustin/KanjiLens/internal/infopage"
	"github.com/FocuswithJustin/KanjiLens/internal/logging"
	"github.com/FocuswithJustin/KanjiLens/internal/server"
	"github.com/FocuswithJustin/KanjiLens/internal/store"
	"github.com/FocuswithJustin/KanjiLens/internal/style"
	"github.com/FocuswithJustin/KanjiLens/internal/validation"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status           string      `json:"status"`
	Version          string      `json:"version"`
	Uptime           string      `json:"uptime"`
	Dictionary       string      `json:"dictionary"`
	Fallback         string      `json:"fallback,omitempty"`
	WebSocketClients int         `json:"websocket_clients"`
	Storage          sqlite.Info `json:"storage"`
}

// AnnotateRequest is the request body of POST /annotate.
type AnnotateRequest struct {
	Text string `json:"text"`
}

// RunInfo is one run of an annotation result.
type RunInfo struct {
	Category string `json:"category"`
	Tag      string `json:"tag,omitempty"`
	Text     string `json:"text"`
}

// AnnotateResult is the annotation of one text.
type AnnotateResult struct {
	HTML    string    `json:"html"`
	Runs    []RunInfo `json:"runs"`
	Changed bool      `json:"changed"`
	Markers int       `json:"markers"`
}

// StatsInfo is the response of GET /stats.
type StatsInfo struct {
	Learned    int    `json:"learned"`
	Additional int    `json:"additional"`
	Known      int    `json:"known"`
	Seen       int    `json:"seen"`
	Unknown    int    `json:"unknown"`
	Summary    string `json:"summary"`
}

// KanjiList is the response of the /kanji endpoints.
type KanjiList struct {
	Kanji string `json:"kanji"`
	Count int    `json:"count"`
}

// SettingsUpdate is the request body of PUT /settings. Absent fields are
// left unchanged.
type SettingsUpdate struct {
	Level        *int    `json:"level,omitempty"`
	Render       *string `json:"render,omitempty"` // feature names, e.g. "all,-missing"
	Known        *string `json:"known_kanji,omitempty"`
	Seen         *string `json:"seen_kanji,omitempty"`
	InfoPage     *string `json:"info_page,omitempty"`
	InfoFallback *string `json:"info_fallback,omitempty"`
}

// DictionaryInfo describes the stored dictionary.
type DictionaryInfo struct {
	Name      string   `json:"name"`
	RankCount int      `json:"rank_count"`
	Kanji     int      `json:"kanji"`
	Groups    []string `json:"groups"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "KanjiLens API",
		"version": Version,
		"endpoints": []string{
			"GET /health",
			"POST /annotate",
			"GET /stats",
			"GET /kanji/known",
			"GET /kanji/unknown",
			"GET /info?text=",
			"GET /style.css",
			"GET /settings",
			"PUT /settings",
			"GET /dictionary",
			"PUT /dictionary",
			"DELETE /dictionary",
			"GET /metrics",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}

	respond(w, http.StatusOK, HealthInfo{
		Status:           "healthy",
		Version:          Version,
		Uptime:           time.Since(s.started).Round(time.Second).String(),
		Dictionary:       snap.Annotator.Sources()[0].Name,
		Fallback:         snap.Fallback,
		WebSocketClients: s.hub.Len(),
		Storage:          sqlite.GetInfo(),
	})
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if !server.ValidateContentType(r.Header.Get("Content-Type"), []string{"application/json"}) {
		respondError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type must be application/json")
		return
	}

	var req AnnotateRequest
	body := http.MaxBytesReader(w, r.Body, validation.MaxTextSize*2)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be {\"text\": \"...\"}")
		return
	}
	if err := validation.ValidateText(req.Text); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_TEXT", err.Error())
		return
	}

	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, s.annotate(r.Context(), snap, req.Text, "http"))
}

// annotate runs one annotation pass and records it.
func (s *Server) annotate(ctx context.Context, snap *engine.Snapshot, text, source string) AnnotateResult {
	start := time.Now()
	runs := snap.Annotator.Runs(text)
	html := markup.HTML(runs, markup.SpanMarker{Prefix: s.cfg.MarkerPrefix})
	elapsed := time.Since(start)

	res := AnnotateResult{HTML: html, Runs: make([]RunInfo, len(runs))}
	for i, run := range runs {
		res.Runs[i] = RunInfo{Category: run.Category.String(), Tag: run.Category.Tag(), Text: run.Text}
		if run.Category != classify.None {
			res.Markers++
		}
	}
	res.Changed = res.Markers > 0

	s.metrics.ObserveRuns(source, runs, elapsed)
	logging.AnnotationPass(ctx, kanji.Count(text), res.Markers, elapsed, "source", source)
	return res
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}

	st := snap.Annotator.Stats()
	respond(w, http.StatusOK, StatsInfo{
		Learned:    st.Learned,
		Additional: st.Additional,
		Known:      st.Known,
		Seen:       st.Seen,
		Unknown:    st.Unknown,
		Summary:    st.String(),
	})
}

func (s *Server) handleKanjiList(known bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		snap, ok := s.requireSnapshot(w, r)
		if !ok {
			return
		}

		list := snap.Annotator.UnknownList()
		if known {
			list = snap.Annotator.KnownList()
		}
		respond(w, http.StatusOK, KanjiList{Kanji: list, Count: kanji.Count(list)})
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	text := r.URL.Query().Get("text")
	if err := validation.ValidateText(text); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_TEXT", err.Error())
		return
	}
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}

	pages := infopage.Pages{Primary: snap.Settings.InfoPage, Fallback: snap.Settings.InfoFallback}
	links := pages.Links(text, func(c rune) level.Level { return snap.Annotator.Resolve(c).Level })
	if links == nil {
		links = []infopage.Link{}
	}
	respondList(w, links, len(links))
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.WriteString(w, style.CSS(s.cfg.StepCount, s.cfg.MarkerPrefix))
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.respondSettings(w, r)
	case http.MethodPut:
		s.updateSettings(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and PUT are allowed")
	}
}

func (s *Server) respondSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Settings(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, st)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, validation.MaxTextSize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid settings JSON")
		return
	}

	// Validate everything before the first write.
	var render classify.Feature
	if req.Render != nil {
		var err error
		if render, err = classify.ParseFeatures(*req.Render); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_SETTING", err.Error())
			return
		}
	}
	for _, t := range []*string{req.InfoPage, req.InfoFallback} {
		if t == nil {
			continue
		}
		if err := validation.ValidateTemplate(*t); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_SETTING", err.Error())
			return
		}
	}

	ctx := r.Context()
	err := func() error {
		if req.Level != nil {
			if _, err := s.store.SetLevel(ctx, *req.Level); err != nil {
				return err
			}
		}
		if req.Render != nil {
			if err := s.store.SetRender(ctx, render); err != nil {
				return err
			}
		}
		if req.Known != nil {
			if _, err := s.store.SetList(ctx, store.Known, *req.Known); err != nil {
				return err
			}
		}
		if req.Seen != nil {
			if _, err := s.store.SetList(ctx, store.Seen, *req.Seen); err != nil {
				return err
			}
		}
		if req.InfoPage != nil || req.InfoFallback != nil {
			primary, fallback, err := s.store.InfoPages(ctx)
			if err != nil {
				return err
			}
			if req.InfoPage != nil {
				primary = *req.InfoPage
			}
			if req.InfoFallback != nil {
				fallback = *req.InfoFallback
			}
			return s.store.SetInfoPages(ctx, primary, fallback)
		}
		return nil
	}()
	s.settingsChanged("settings")
	if err != nil {
		respondErr(w, err)
		return
	}
	s.respondSettings(w, r)
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		d, err := s.store.Dictionary(ctx)
		if err != nil {
			respondErr(w, err)
			return
		}
		respond(w, http.StatusOK, DictionaryInfo{Name: d.Name, RankCount: d.RankCount(), Kanji: d.Len(), Groups: d.Groups})

	case http.MethodPut:
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "uploaded"
		}
		d, err := readDictionary(http.MaxBytesReader(w, r.Body, dictionary.MaxFileSize), name)
		if err != nil {
			respondErr(w, err)
			return
		}
		if err := s.store.SetDictionary(ctx, d); err != nil {
			respondErr(w, err)
			return
		}
		s.settingsChanged("dictionary")
		logging.DictionaryLoaded(d.Name, d.RankCount(), d.Len(), "via", "api")
		respond(w, http.StatusOK, DictionaryInfo{Name: d.Name, RankCount: d.RankCount(), Kanji: d.Len(), Groups: d.Groups})

	case http.MethodDelete:
		if err := s.store.ResetDictionary(ctx); err != nil {
			respondErr(w, err)
			return
		}
		s.settingsChanged("dictionary")
		respond(w, http.StatusOK, map[string]string{"dictionary": dictionary.DefaultName})

	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET, PUT and DELETE are allowed")
	}
}

// readDictionary decodes an uploaded dictionary, which may be xz
// compressed JSON or text.
func readDictionary(r io.Reader, name string) (*dictionary.Dictionary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewValidation("body", err.Error())
	}

	if validation.DetectFileType(data) == validation.FileTypeXZ {
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &errors.DictionaryFormatError{Source: name, Group: -1, Message: "invalid xz stream", Err: err}
		}
		if data, err = io.ReadAll(io.LimitReader(xr, dictionary.MaxFileSize+1)); err != nil {
			return nil, &errors.DictionaryFormatError{Source: name, Group: -1, Message: "invalid xz stream", Err: err}
		}
	}

	var format dictionary.Format
	switch validation.DetectFileType(data) {
	case validation.FileTypeJSON:
		format = dictionary.FormatJSON
	case validation.FileTypeText:
		format = dictionary.FormatText
	default:
		return nil, errors.NewDictionaryFormat(name, -1, "not a JSON or text dictionary")
	}
	return dictionary.Read(bytes.NewReader(data), name, format)
}

// requireSnapshot fetches the current snapshot or writes a 500.
func (s *Server) requireSnapshot(w http.ResponseWriter, r *http.Request) (*engine.Snapshot, bool) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		logging.ErrorContext(r.Context(), "snapshot failed", "error", err)
		respondError(w, http.StatusInternalServerError, "ANNOTATOR_UNAVAILABLE", "Could not build the annotator")
		return nil, false
	}
	return snap, true
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only "+method+" is allowed")
	return false
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondList(w http.ResponseWriter, data interface{}, total int) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// respondErr maps domain errors to HTTP statuses.
func respondErr(w http.ResponseWriter, err error) {
	var (
		fe *errors.DictionaryFormatError
		ve *errors.ValidationError
		ce *errors.ConfigurationError
	)
	switch {
	case errors.As(err, &fe):
		respondError(w, http.StatusBadRequest, "INVALID_DICTIONARY", err.Error())
	case errors.As(err, &ve), errors.As(err, &ce):
		respondError(w, http.StatusBadRequest, "INVALID_SETTING", err.Error())
	default:
		logging.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
