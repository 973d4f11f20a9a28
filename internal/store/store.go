// Package store persists KanjiLens settings in a SQLite key/value table.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/dictionary"
	"github.com/FocuswithJustin/KanjiLens/core/errors"
	"github.com/FocuswithJustin/KanjiLens/core/kanji"
	"github.com/FocuswithJustin/KanjiLens/core/sqlite"
	"github.com/FocuswithJustin/KanjiLens/internal/logging"
)

// Setting keys.
const (
	KeyLevel          = "level"
	KeyLevelCount     = "levelCount"
	KeyRenderSettings = "renderSettings"
	KeyKnownKanji     = "knownKanji"
	KeySeenKanji      = "seenKanji"
	KeyInfoPage       = "infoPage"
	KeyInfoFallback   = "infoFallback"
	KeyDictionary     = "dictionary"
	KeyDictionaryName = "dictionaryName"

	// keyAdditionalKanji is the former name of KeyKnownKanji.
	keyAdditionalKanji = "additionalKanji"
)

// Default info page templates. $K is replaced by the kanji.
const (
	DefaultInfoPage     = "https://www.wanikani.com/kanji/$K"
	DefaultInfoFallback = "http://jisho.org/search/$K #kanji"
)

// List names a manually maintained kanji list.
type List string

// Override lists.
const (
	Known List = "known"
	Seen  List = "seen"
)

func (l List) key() (string, error) {
	switch l {
	case Known:
		return KeyKnownKanji, nil
	case Seen:
		return KeySeenKanji, nil
	}
	return "", errors.NewValidation("list", fmt.Sprintf("unknown list %q", string(l)))
}

var migrations = []string{
	`CREATE TABLE settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// Store is a settings store. Methods are safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the settings database at path. ":memory:" opens a
// private in-memory store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.NewIO("mkdir", filepath.Dir(path), err)
		}
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the schema and migrating legacy
// keys.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if err := sqlite.Migrate(ctx, db, migrations); err != nil {
		return nil, err
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrateLegacy(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrateLegacy(ctx context.Context) error {
	old, ok, err := s.Get(ctx, keyAdditionalKanji)
	if err != nil || !ok {
		return err
	}
	if err := s.Set(ctx, KeyKnownKanji, old); err != nil {
		return err
	}
	logging.Info("migrated legacy setting", "from", keyAdditionalKanji, "to", KeyKnownKanji)
	return s.Delete(ctx, keyAdditionalKanji)
}

// Get returns the raw value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	logging.SettingChanged(key)
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) getInt(ctx context.Context, key string, def int) (int, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, errors.NewValidation(key, fmt.Sprintf("stored value %q is not a number", v))
	}
	return n, nil
}

// LevelCount returns the highest selectable level, which follows the
// stored dictionary.
func (s *Store) LevelCount(ctx context.Context) (int, error) {
	return s.getInt(ctx, KeyLevelCount, dictionary.Default().RankCount())
}

// Level returns the mastery threshold, 1 when unset.
func (s *Store) Level(ctx context.Context) (int, error) {
	return s.getInt(ctx, KeyLevel, 1)
}

// SetLevel stores n clamped to [1, LevelCount] and returns the stored value.
func (s *Store) SetLevel(ctx context.Context, n int) (int, error) {
	count, err := s.LevelCount(ctx)
	if err != nil {
		return 0, err
	}
	n = clamp(n, 1, count)
	return n, s.Set(ctx, KeyLevel, strconv.Itoa(n))
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Render returns the feature mask, classify.DefaultFeatures when unset.
func (s *Store) Render(ctx context.Context) (classify.Feature, error) {
	n, err := s.getInt(ctx, KeyRenderSettings, int(classify.DefaultFeatures))
	if err != nil {
		return classify.DefaultFeatures, err
	}
	return classify.Feature(n), nil
}

// SetRender stores the feature mask.
func (s *Store) SetRender(ctx context.Context, f classify.Feature) error {
	return s.Set(ctx, KeyRenderSettings, strconv.Itoa(int(f)))
}

// ListText returns the stored kanji of list.
func (s *Store) ListText(ctx context.Context, l List) (string, error) {
	key, err := l.key()
	if err != nil {
		return "", err
	}
	v, _, err := s.Get(ctx, key)
	return v, err
}

// SetList replaces list with the kanji found in text. Any passage may be
// given; non-kanji are dropped and the result is sorted and deduplicated.
func (s *Store) SetList(ctx context.Context, l List, text string) (string, error) {
	key, err := l.key()
	if err != nil {
		return "", err
	}
	v := kanji.InString(text)
	return v, s.Set(ctx, key, v)
}

// AddToList adds the kanji in text to list.
func (s *Store) AddToList(ctx context.Context, l List, text string) (string, error) {
	cur, err := s.ListText(ctx, l)
	if err != nil {
		return "", err
	}
	return s.SetList(ctx, l, cur+text)
}

// RemoveFromList removes every kanji in text from list.
func (s *Store) RemoveFromList(ctx context.Context, l List, text string) (string, error) {
	cur, err := s.ListText(ctx, l)
	if err != nil {
		return "", err
	}
	set := kanji.ParseSet(cur)
	set.Remove(text)
	return s.SetList(ctx, l, set.String())
}

// ResetList empties list.
func (s *Store) ResetList(ctx context.Context, l List) error {
	_, err := s.SetList(ctx, l, "")
	return err
}

// Overrides returns both override lists as sets.
func (s *Store) Overrides(ctx context.Context) (dictionary.Overrides, error) {
	known, err := s.ListText(ctx, Known)
	if err != nil {
		return dictionary.Overrides{}, err
	}
	seen, err := s.ListText(ctx, Seen)
	if err != nil {
		return dictionary.Overrides{}, err
	}
	return dictionary.ParseOverrides(known, seen), nil
}

// InfoPages returns the primary and fallback info page templates.
func (s *Store) InfoPages(ctx context.Context) (primary, fallback string, err error) {
	primary, ok, err := s.Get(ctx, KeyInfoPage)
	if err != nil {
		return "", "", err
	}
	if !ok {
		primary = DefaultInfoPage
	}
	fallback, ok, err = s.Get(ctx, KeyInfoFallback)
	if err != nil {
		return "", "", err
	}
	if !ok {
		fallback = DefaultInfoFallback
	}
	return primary, fallback, nil
}

// SetInfoPages stores both templates. Empty values restore the defaults.
func (s *Store) SetInfoPages(ctx context.Context, primary, fallback string) error {
	if primary == "" {
		primary = DefaultInfoPage
	}
	if fallback == "" {
		fallback = DefaultInfoFallback
	}
	if err := s.Set(ctx, KeyInfoPage, primary); err != nil {
		return err
	}
	return s.Set(ctx, KeyInfoFallback, fallback)
}

// Dictionary returns the stored dictionary, or the default one when none
// is stored. A stored value that no longer parses fails with a
// DictionaryFormatError so the caller can fall back.
func (s *Store) Dictionary(ctx context.Context) (*dictionary.Dictionary, error) {
	v, ok, err := s.Get(ctx, KeyDictionary)
	if err != nil {
		return nil, err
	}
	if !ok {
		return dictionary.Default(), nil
	}
	name, ok, err := s.Get(ctx, KeyDictionaryName)
	if err != nil {
		return nil, err
	}
	if !ok || name == "" {
		name = unnamedDictionary
	}
	d, err := dictionary.ParseJSON(name, []byte(v))
	if err != nil {
		return nil, err
	}
	return d, nil
}

// unnamedDictionary names a stored dictionary saved without a name.
const unnamedDictionary = "stored"

// SetDictionary validates d and stores it together with its level count.
// The current level is clamped to the new range. Nothing is written when
// validation fails.
func (s *Store) SetDictionary(ctx context.Context, d *dictionary.Dictionary) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.RankCount() < 1 {
		return errors.NewDictionaryFormat(d.Name, -1, "dictionary has no ranks")
	}
	data, err := d.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode dictionary: %w", err)
	}
	if err := s.Set(ctx, KeyDictionary, string(data)); err != nil {
		return err
	}
	if err := s.Set(ctx, KeyDictionaryName, d.Name); err != nil {
		return err
	}
	if err := s.Set(ctx, KeyLevelCount, strconv.Itoa(d.RankCount())); err != nil {
		return err
	}
	level, err := s.Level(ctx)
	if err != nil {
		return err
	}
	_, err = s.SetLevel(ctx, level)
	return err
}

// ResetDictionary restores the built-in dictionary.
func (s *Store) ResetDictionary(ctx context.Context) error {
	return s.SetDictionary(ctx, dictionary.Default())
}

// Settings is a read-only view of every setting.
type Settings struct {
	Level        int              `json:"level"`
	LevelCount   int              `json:"level_count"`
	Render       classify.Feature `json:"render"`
	RenderNames  string           `json:"render_names"`
	Known        string           `json:"known_kanji"`
	Seen         string           `json:"seen_kanji"`
	InfoPage     string           `json:"info_page"`
	InfoFallback string           `json:"info_fallback"`
}

// Settings reads every setting, applying defaults.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	var st Settings
	var err error
	if st.Level, err = s.Level(ctx); err != nil {
		return st, err
	}
	if st.LevelCount, err = s.LevelCount(ctx); err != nil {
		return st, err
	}
	if st.Render, err = s.Render(ctx); err != nil {
		return st, err
	}
	st.RenderNames = st.Render.String()
	if st.Known, err = s.ListText(ctx, Known); err != nil {
		return st, err
	}
	if st.Seen, err = s.ListText(ctx, Seen); err != nil {
		return st, err
	}
	st.InfoPage, st.InfoFallback, err = s.InfoPages(ctx)
	return st, err
}
