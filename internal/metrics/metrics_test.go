package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func assertLine(t *testing.T, body, line string) {
	t.Helper()
	for _, l := range strings.Split(body, "\n") {
		if l == line {
			return
		}
	}
	t.Errorf("metrics output missing %q", line)
}

func TestObserveRuns(t *testing.T) {
	m := New()
	runs := []markup.Run{
		{Category: classify.Known, Text: "一二"},
		{Category: classify.None, Text: "と"},
		{Category: classify.UnknownStep(2), Text: "猫"},
	}
	m.ObserveRuns("http", runs, time.Millisecond)

	body := scrape(t, m)
	assertLine(t, body, `kanjilens_annotation_passes_total{source="http"} 1`)
	assertLine(t, body, `kanjilens_characters_total{category="known"} 2`)
	assertLine(t, body, `kanjilens_characters_total{category="unknown-2"} 1`)
	assertLine(t, body, `kanjilens_characters_total{category="none"} 1`)
	assertLine(t, body, `kanjilens_markers_total 2`)
	assertLine(t, body, `kanjilens_annotation_duration_seconds_count 1`)
}

func TestCounters(t *testing.T) {
	m := New()
	m.DictionaryFallback()
	m.CompileCache(true)
	m.CompileCache(false)
	m.CompileCache(false)
	m.WebSocketClients(3)

	body := scrape(t, m)
	assertLine(t, body, `kanjilens_dictionary_fallbacks_total 1`)
	assertLine(t, body, `kanjilens_compile_cache_lookups_total{result="hit"} 1`)
	assertLine(t, body, `kanjilens_compile_cache_lookups_total{result="miss"} 2`)
	assertLine(t, body, `kanjilens_websocket_clients 3`)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.DictionaryFallback()
	assertLine(t, scrape(t, b), `kanjilens_dictionary_fallbacks_total 0`)
	if a.Registry() == b.Registry() {
		t.Error("each Metrics must own its registry")
	}
}
