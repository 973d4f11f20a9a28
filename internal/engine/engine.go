// Package engine builds Annotator snapshots from the persisted settings
// and the configured extra sources.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FocuswithJustin/KanjiLens/core/cache"
	"github.com/FocuswithJustin/KanjiLens/core/dictionary"
	"github.com/FocuswithJustin/KanjiLens/core/errors"
	"github.com/FocuswithJustin/KanjiLens/core/highlight"
	"github.com/FocuswithJustin/KanjiLens/core/level"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
	"github.com/FocuswithJustin/KanjiLens/core/resolve"
	"github.com/FocuswithJustin/KanjiLens/internal/config"
	"github.com/FocuswithJustin/KanjiLens/internal/logging"
	"github.com/FocuswithJustin/KanjiLens/internal/store"
)

// Observer receives engine events. *metrics.Metrics implements it.
type Observer interface {
	DictionaryFallback()
	CompileCache(hit bool)
}

// Snapshot is an immutable view of the settings and the annotator built
// from them.
type Snapshot struct {
	Annotator *highlight.Annotator
	Settings  store.Settings
	// Fallback names the dictionary used in place of the stored one, or is
	// empty when the stored dictionary compiled.
	Fallback string
	Built    time.Time
}

// Engine builds snapshots. It is safe for concurrent use.
type Engine struct {
	store    *store.Store
	cfg      *config.Config
	cache    *cache.LevelCache
	observer Observer

	mu       sync.Mutex
	lastGood *resolve.Source
	extra    map[string]*dictionary.Dictionary
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver reports fallbacks and cache lookups to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithCache replaces the compile cache.
func WithCache(c *cache.LevelCache) Option {
	return func(e *Engine) { e.cache = c }
}

// New creates an Engine.
func New(st *store.Store, cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{
		store: st,
		cfg:   cfg,
		cache: cache.NewLevelCache(cache.DefaultConfig()),
		extra: make(map[string]*dictionary.Dictionary),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot reads the current settings and builds an annotator from them.
// A stored dictionary that fails to parse or compile is replaced by the
// last map that compiled, or by the built-in dictionary when there is
// none; the snapshot is still returned. Errors from extra sources and
// from the store itself are returned.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	settings, err := e.store.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	overrides, err := e.store.Overrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	primary, fallback, err := e.primary(ctx, overrides, settings.Level)
	if err != nil {
		return nil, err
	}
	sources := []resolve.Source{primary}

	for _, sc := range e.cfg.Sources {
		src, err := e.extraSource(sc, overrides)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	a, err := highlight.New(highlight.Config{
		Features:  settings.Render,
		StepCount: e.cfg.Render.StepCount,
		Marker:    markup.SpanMarker{Prefix: e.cfg.Render.MarkerPrefix},
	}, sources...)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Annotator: a, Settings: settings, Fallback: fallback, Built: time.Now()}, nil
}

func (e *Engine) primary(ctx context.Context, o dictionary.Overrides, threshold int) (resolve.Source, string, error) {
	d, err := e.store.Dictionary(ctx)
	if err == nil {
		var m level.Map
		if m, err = e.compile(d, o, threshold); err == nil {
			src := resolve.Source{Name: d.Name, Levels: m, Threshold: threshold, RankCount: d.RankCount()}
			e.mu.Lock()
			e.lastGood = &src
			e.mu.Unlock()
			return src, "", nil
		}
	}
	var fe *errors.DictionaryFormatError
	if !errors.As(err, &fe) {
		return resolve.Source{}, "", err
	}

	if e.observer != nil {
		e.observer.DictionaryFallback()
	}
	e.mu.Lock()
	last := e.lastGood
	e.mu.Unlock()
	if last != nil {
		logging.DictionaryFallback(fe.Source, "last-known-good", err)
		src := *last
		src.Threshold = threshold
		return src, "last-known-good", nil
	}

	logging.DictionaryFallback(fe.Source, dictionary.DefaultName, err)
	def := dictionary.Default()
	m, err := e.compile(def, o, threshold)
	if err != nil {
		return resolve.Source{}, "", err
	}
	return resolve.Source{Name: def.Name, Levels: m, Threshold: threshold, RankCount: def.RankCount()}, dictionary.DefaultName, nil
}

func (e *Engine) compile(d *dictionary.Dictionary, o dictionary.Overrides, threshold int) (level.Map, error) {
	m, hit, err := e.cache.GetOrCompile(d.CompileKey(o, threshold), func() (level.Map, error) {
		m, err := d.Compile(o, threshold)
		if err == nil {
			logging.DictionaryLoaded(d.Name, d.RankCount(), len(m))
		}
		return m, err
	})
	if e.observer != nil && err == nil {
		e.observer.CompileCache(hit)
	}
	return m, err
}

func (e *Engine) extraSource(sc config.Source, o dictionary.Overrides) (resolve.Source, error) {
	e.mu.Lock()
	d, ok := e.extra[sc.Dictionary]
	e.mu.Unlock()
	if !ok {
		var err error
		if d, err = dictionary.Load(sc.Dictionary); err != nil {
			return resolve.Source{}, fmt.Errorf("load source %s: %w", sc.Dictionary, err)
		}
		if sc.Name != "" {
			d.Name = sc.Name
		}
		e.mu.Lock()
		e.extra[sc.Dictionary] = d
		e.mu.Unlock()
	}

	m, err := e.compile(d, o, sc.Threshold)
	if err != nil {
		return resolve.Source{}, err
	}
	rankCount := sc.RankCount
	if rankCount == 0 {
		rankCount = d.RankCount()
	}
	return resolve.Source{Name: d.Name, Levels: m, Threshold: sc.Threshold, RankCount: rankCount}, nil
}

// Reload forgets cached extra dictionaries and compiled maps so the next
// Snapshot reads them again.
func (e *Engine) Reload() {
	e.mu.Lock()
	e.extra = make(map[string]*dictionary.Dictionary)
	e.mu.Unlock()
	e.cache.Clear()
}

// CacheStats returns compile cache statistics.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}
