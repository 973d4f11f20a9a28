// Command kanjilens is the CLI tool for KanjiLens.
// It annotates text and documents by kanji knowledge level, edits the
// persisted settings and serves the HTTP API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/dictionary"
	"github.com/FocuswithJustin/KanjiLens/core/level"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
	"github.com/FocuswithJustin/KanjiLens/core/xhtml"
	"github.com/FocuswithJustin/KanjiLens/internal/api"
	"github.com/FocuswithJustin/KanjiLens/internal/config"
	"github.com/FocuswithJustin/KanjiLens/internal/engine"
	"github.com/FocuswithJustin/KanjiLens/internal/infopage"
	"github.com/FocuswithJustin/KanjiLens/internal/logging"
	"github.com/FocuswithJustin/KanjiLens/internal/metrics"
	"github.com/FocuswithJustin/KanjiLens/internal/store"
	"github.com/FocuswithJustin/KanjiLens/internal/style"
	"github.com/FocuswithJustin/KanjiLens/internal/validation"
)

const version = "0.1.0"

// Globals are the flags shared by every command.
type Globals struct {
	Config    string `help:"Configuration file" default:"kanjilens.yaml" type:"path" env:"KANJILENS_CONFIG"`
	DB        string `name:"db" help:"Settings database (overrides store.path)" type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)"`
	LogFormat string `help:"Log format (text, json)"`
}

// CLI defines the command-line interface for kanjilens.
type CLI struct {
	Globals

	Annotate AnnotateCmd `cmd:"" help:"Highlight kanji in text or an XHTML document"`
	Level    LevelGroup  `cmd:"" help:"Show or change the current level"`
	Known    KnownCmd    `cmd:"" help:"Edit the manually known kanji"`
	Seen     SeenCmd     `cmd:"" help:"Edit the manually seen kanji"`
	Render   RenderGroup `cmd:"" help:"Show or change which categories are highlighted"`
	Dict     DictGroup   `cmd:"" help:"Dictionary import and export"`
	Stats    StatsCmd    `cmd:"" help:"Print knowledge statistics"`
	List     ListCmd     `cmd:"" help:"List known or unknown kanji"`
	Info     InfoCmd     `cmd:"" help:"Print info page links or change the templates"`
	CSS      CSSCmd      `cmd:"" name:"css" help:"Print the highlight stylesheet"`
	Serve    ServeCmd    `cmd:"" help:"Start the HTTP API server"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// App carries the state shared by commands. The configuration, store
// and engine are opened on first use.
type App struct {
	Globals

	ctx context.Context
	in  io.Reader
	out io.Writer

	cfg    *config.Config
	store  *store.Store
	engine *engine.Engine
}

func newApp(ctx context.Context, g Globals, in io.Reader, out io.Writer) *App {
	return &App{Globals: g, ctx: ctx, in: in, out: out}
}

// LoadConfig reads the configuration file and applies the flag overrides.
func (a *App) LoadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if a.DB != "" {
		cfg.Store.Path = a.DB
	}
	if a.LogLevel != "" {
		cfg.Logging.Level = a.LogLevel
	}
	if a.LogFormat != "" {
		cfg.Logging.Format = a.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyLogging()
	a.cfg = cfg
	return cfg, nil
}

// Store opens the settings database.
func (a *App) Store() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := a.LoadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(a.ctx, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	a.store = st
	return st, nil
}

// Snapshot builds an annotator from the current settings.
func (a *App) Snapshot() (*engine.Snapshot, error) {
	st, err := a.Store()
	if err != nil {
		return nil, err
	}
	if a.engine == nil {
		a.engine = engine.New(st, a.cfg)
	}
	return a.engine.Snapshot(a.ctx)
}

// Close releases the store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// AnnotateCmd highlights a file or standard input.
type AnnotateCmd struct {
	File     string `arg:"" optional:"" help:"File to annotate (default: standard input)" type:"path"`
	Out      string `short:"o" help:"Output file (default: standard output)" type:"path"`
	Document bool   `short:"d" help:"Treat the input as an XHTML document"`
	Undo     bool   `help:"Remove highlight markers instead of adding them"`
	Format   string `help:"Marker format for plain text" enum:"span,bracket" default:"span"`
}

func (c *AnnotateCmd) Run(app *App) error {
	data, err := c.read(app)
	if err != nil {
		return err
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	prefix := cfg.Render.MarkerPrefix

	var out []byte
	switch {
	case c.Undo && c.Document:
		var n int
		if out, n, err = xhtml.Undo(data, prefix); err != nil {
			return err
		}
		logging.Info("removed highlights", "spans", n)

	case c.Undo:
		if c.Format != "span" {
			return fmt.Errorf("--undo supports span markers only")
		}
		out = []byte(markup.Strip(string(data), prefix))

	case c.Document:
		snap, err := app.Snapshot()
		if err != nil {
			return err
		}
		var res xhtml.Result
		if out, res, err = xhtml.Highlight(data, snap.Annotator, prefix); err != nil {
			return err
		}
		logging.Info("highlighted document", "text_nodes", res.TextNodes, "changed", res.Changed, "spans", res.Spans)

	default:
		text := string(data)
		if err := validation.ValidateText(text); err != nil {
			return err
		}
		snap, err := app.Snapshot()
		if err != nil {
			return err
		}
		var marker markup.Marker = markup.SpanMarker{Prefix: prefix}
		if c.Format == "bracket" {
			marker = markup.BracketMarker{}
		}
		res := markup.Encoder{Marker: marker}.Encode(text, snap.Annotator.Category)
		out = []byte(res.Text)
	}

	if c.Out == "" {
		_, err = app.out.Write(out)
		return err
	}
	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	return os.WriteFile(c.Out, out, 0644)
}

func (c *AnnotateCmd) read(app *App) ([]byte, error) {
	if c.File == "" {
		return io.ReadAll(io.LimitReader(app.in, validation.MaxTextSize+1))
	}
	if err := validation.ValidatePath(c.File); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}
	return os.ReadFile(c.File)
}

// LevelGroup contains level operations.
type LevelGroup struct {
	Show LevelShowCmd `cmd:"" default:"1" help:"Print the current level"`
	Set  LevelSetCmd  `cmd:"" help:"Set the current level"`
}

type LevelShowCmd struct{}

func (c *LevelShowCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	settings, err := st.Settings(app.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Level %d of %d\n", settings.Level, settings.LevelCount)
	return nil
}

type LevelSetCmd struct {
	Level int `arg:"" help:"New level (clamped to the dictionary's range)"`
}

func (c *LevelSetCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	n, err := st.SetLevel(app.ctx, c.Level)
	if err != nil {
		return err
	}
	logging.SettingChanged(store.KeyLevel, "value", n)
	fmt.Fprintf(app.out, "Level %d\n", n)
	return nil
}

// KnownCmd edits the manually known list.
type KnownCmd struct {
	Action string   `arg:"" optional:"" enum:"show,set,add,remove,reset" default:"show" help:"One of show, set, add, remove, reset"`
	Text   []string `arg:"" optional:"" help:"Text containing the kanji"`
}

func (c *KnownCmd) Run(app *App) error {
	return editList(app, store.Known, c.Action, strings.Join(c.Text, ""))
}

// SeenCmd edits the manually seen list.
type SeenCmd struct {
	Action string   `arg:"" optional:"" enum:"show,set,add,remove,reset" default:"show" help:"One of show, set, add, remove, reset"`
	Text   []string `arg:"" optional:"" help:"Text containing the kanji"`
}

func (c *SeenCmd) Run(app *App) error {
	return editList(app, store.Seen, c.Action, strings.Join(c.Text, ""))
}

func editList(app *App, l store.List, action, text string) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	if (action == "add" || action == "remove") && text == "" {
		return fmt.Errorf("%s %s: no text given", l, action)
	}

	var list string
	switch action {
	case "show":
		list, err = st.ListText(app.ctx, l)
	case "set":
		list, err = st.SetList(app.ctx, l, text)
	case "add":
		list, err = st.AddToList(app.ctx, l, text)
	case "remove":
		list, err = st.RemoveFromList(app.ctx, l, text)
	case "reset":
		err = st.ResetList(app.ctx, l)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return err
	}
	if action != "show" {
		logging.SettingChanged(string(l), "action", action)
	}
	fmt.Fprintln(app.out, list)
	return nil
}

// RenderGroup contains render settings operations.
type RenderGroup struct {
	Show RenderShowCmd `cmd:"" default:"1" help:"Print the enabled categories"`
	Set  RenderSetCmd  `cmd:"" help:"Set the enabled categories, e.g. \"all,-missing\""`
}

type RenderShowCmd struct{}

func (c *RenderShowCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	f, err := st.Render(app.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "%s (%d)\n", f, f)
	return nil
}

type RenderSetCmd struct {
	Features string `arg:"" help:"Comma separated feature names: known, missing, unknown, add-known, add-seen, current, all, none"`
}

func (c *RenderSetCmd) Run(app *App) error {
	f, err := classify.ParseFeatures(c.Features)
	if err != nil {
		return err
	}
	st, err := app.Store()
	if err != nil {
		return err
	}
	if err := st.SetRender(app.ctx, f); err != nil {
		return err
	}
	logging.SettingChanged(store.KeyRenderSettings, "value", f.String())
	fmt.Fprintf(app.out, "%s (%d)\n", f, f)
	return nil
}

// DictGroup contains dictionary operations.
type DictGroup struct {
	Show   DictShowCmd   `cmd:"" default:"1" help:"Describe the stored dictionary"`
	Import DictImportCmd `cmd:"" help:"Import a dictionary file (.json, .txt, optionally .xz)"`
	Export DictExportCmd `cmd:"" help:"Export the stored dictionary"`
	Reset  DictResetCmd  `cmd:"" help:"Restore the built-in dictionary"`
}

type DictShowCmd struct{}

func (c *DictShowCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	d, err := st.Dictionary(app.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "%s: %d ranks, %d kanji\n", d.Name, d.RankCount(), d.Len())
	return nil
}

type DictImportCmd struct {
	File string `arg:"" help:"Dictionary file" type:"existingfile"`
	Name string `help:"Dictionary name (default: file name)"`
}

func (c *DictImportCmd) Run(app *App) error {
	if err := validation.ValidatePath(c.File); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	d, err := dictionary.Load(c.File)
	if err != nil {
		return err
	}
	if c.Name != "" {
		d.Name = c.Name
	}
	st, err := app.Store()
	if err != nil {
		return err
	}
	if err := st.SetDictionary(app.ctx, d); err != nil {
		return err
	}
	logging.DictionaryLoaded(d.Name, d.RankCount(), d.Len(), "path", c.File)
	fmt.Fprintf(app.out, "Imported %s: %d ranks, %d kanji\n", d.Name, d.RankCount(), d.Len())
	return nil
}

type DictExportCmd struct {
	File string `arg:"" help:"Output file; the extension picks the format" type:"path"`
}

func (c *DictExportCmd) Run(app *App) error {
	if err := validation.ValidatePath(c.File); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	st, err := app.Store()
	if err != nil {
		return err
	}
	d, err := st.Dictionary(app.ctx)
	if err != nil {
		return err
	}
	if err := dictionary.Save(c.File, d); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Exported %d ranks to %s\n", d.RankCount(), c.File)
	return nil
}

type DictResetCmd struct{}

func (c *DictResetCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	if err := st.ResetDictionary(app.ctx); err != nil {
		return err
	}
	logging.SettingChanged(store.KeyDictionary, "value", dictionary.DefaultName)
	fmt.Fprintf(app.out, "Restored %s\n", dictionary.DefaultName)
	return nil
}

// StatsCmd prints knowledge statistics.
type StatsCmd struct{}

func (c *StatsCmd) Run(app *App) error {
	snap, err := app.Snapshot()
	if err != nil {
		return err
	}
	st := snap.Annotator.Stats()
	fmt.Fprintln(app.out, st.String())
	fmt.Fprintf(app.out, "Not yet known: %d\n", st.Unknown)
	if snap.Fallback != "" {
		fmt.Fprintf(app.out, "Warning: stored dictionary unusable, using %s\n", snap.Fallback)
	}
	return nil
}

// ListCmd prints the known or unknown kanji.
type ListCmd struct {
	Which string `arg:"" enum:"known,unknown" help:"known or unknown"`
}

func (c *ListCmd) Run(app *App) error {
	snap, err := app.Snapshot()
	if err != nil {
		return err
	}
	if c.Which == "known" {
		fmt.Fprintln(app.out, snap.Annotator.KnownList())
	} else {
		fmt.Fprintln(app.out, snap.Annotator.UnknownList())
	}
	return nil
}

// InfoCmd prints an info page link per kanji, or changes the templates.
type InfoCmd struct {
	Text     []string `arg:"" optional:"" help:"Text containing the kanji"`
	Primary  string   `help:"Template for kanji the dictionary ranks ($K is the kanji)"`
	Fallback string   `help:"Template for every other kanji ($K is the kanji)"`
}

func (c *InfoCmd) Run(app *App) error {
	if c.Primary != "" || c.Fallback != "" {
		if err := c.setTemplates(app); err != nil {
			return err
		}
	}

	text := strings.Join(c.Text, " ")
	if text == "" {
		st, err := app.Store()
		if err != nil {
			return err
		}
		primary, fallback, err := st.InfoPages(app.ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.out, "primary:  %s\nfallback: %s\n", primary, fallback)
		return nil
	}

	snap, err := app.Snapshot()
	if err != nil {
		return err
	}
	pages := infopage.Pages{Primary: snap.Settings.InfoPage, Fallback: snap.Settings.InfoFallback}
	for _, l := range pages.Links(text, func(r rune) level.Level { return snap.Annotator.Resolve(r).Level }) {
		fmt.Fprintf(app.out, "%s\t%s\n", l.Kanji, l.URL)
	}
	return nil
}

func (c *InfoCmd) setTemplates(app *App) error {
	for _, t := range []string{c.Primary, c.Fallback} {
		if err := validation.ValidateTemplate(t); err != nil {
			return err
		}
	}
	st, err := app.Store()
	if err != nil {
		return err
	}
	primary, fallback, err := st.InfoPages(app.ctx)
	if err != nil {
		return err
	}
	if c.Primary != "" {
		primary = c.Primary
	}
	if c.Fallback != "" {
		fallback = c.Fallback
	}
	if err := st.SetInfoPages(app.ctx, primary, fallback); err != nil {
		return err
	}
	logging.SettingChanged(store.KeyInfoPage)
	return nil
}

// CSSCmd prints the stylesheet for the configured prefix and step count.
type CSSCmd struct{}

func (c *CSSCmd) Run(app *App) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	_, err = io.WriteString(app.out, style.CSS(cfg.Render.StepCount, cfg.Render.MarkerPrefix))
	return err
}

// ServeCmd runs the HTTP API until interrupted.
type ServeCmd struct {
	Port int `help:"HTTP server port (overrides server.port)"`
}

func (c *ServeCmd) Run(app *App) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	st, err := app.Store()
	if err != nil {
		return err
	}

	m := metrics.New()
	eng := engine.New(st, cfg, engine.WithObserver(m))
	s := api.New(api.ConfigFrom(cfg), st, eng, m)

	ctx, stop := signal.NotifyContext(app.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	fmt.Fprintf(app.out, "kanjilens version %s\n", version)
	return nil
}

func main() {
	api.Version = version

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("kanjilens"),
		kong.Description("KanjiLens - highlight kanji by how well you know them"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	app := newApp(context.Background(), cli.Globals, os.Stdin, os.Stdout)
	err := ctx.Run(app)
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	ctx.FatalIfErrorf(err)
}
