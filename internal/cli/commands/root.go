package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/inspector/internal/cli/config"
	"github.com/conduit-lang/inspector/internal/cli/ui"
	"github.com/conduit-lang/inspector/internal/logging"
	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/internal/store"
	"github.com/conduit-lang/inspector/runtime/document"
	"github.com/conduit-lang/inspector/runtime/metadata"
	"github.com/conduit-lang/inspector/runtime/widget"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// globals carries the persistent flags and what PersistentPreRunE builds
// from them.
type globals struct {
	configPath string
	format     string
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger

	// openStore and ask are replaced in tests
	openStore func(ctx context.Context, cfg store.Config) (store.Store, error)
	ask       widget.AskFunc
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&globals{openStore: store.Open})
}

func newRootCommand(g *globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inspector",
		Short: "Reflective field inspector for Go values",
		Long: color.CyanString(`Inspector - reflective field metadata, editing and serialization

Inspector lists the fields types register for editing, draws them as
widgets, applies widget inputs and serializes values into documents.

Features:
  • Per-type field registries built once and shared
  • Headless, terminal and interactive editors
  • JSON and YAML documents with optional nested fields
  • Snapshot store on memory, SQL or Redis
  • HTTP API with live websocket editing`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "Config file (default: ./inspector.yml)")
	flags.StringVar(&g.format, "format", "", "Output format: json or yaml (listings default to tables)")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newTypesCommand(g))
	rootCmd.AddCommand(newFieldsCommand(g))
	rootCmd.AddCommand(newSerializeCommand(g))
	rootCmd.AddCommand(newDrawCommand(g))
	rootCmd.AddCommand(newEditCommand(g, g.ask))
	rootCmd.AddCommand(newDepsCommand(g))
	rootCmd.AddCommand(newServeCommand(g))
	rootCmd.AddCommand(newTokenCommand(g))
	rootCmd.AddCommand(newSnapshotsCommand(g))
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

func (g *globals) init(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return &configError{err: err}
	}
	g.cfg = cfg

	if g.noColor {
		cfg.UI.NoColor = true
	}
	if cfg.UI.NoColor {
		color.NoColor = true
	}
	if g.format != "" {
		if _, err := document.ParseFormat(g.format); err != nil {
			return &configError{err: err}
		}
	}

	g.logger = logging.MustNew(cfg.Log)
	metadata.SetLogger(g.logger)
	return nil
}

// style maps the ui config onto editor defaults
func (g *globals) style() metadata.Style {
	s := metadata.DefaultStyle()
	if g.cfg == nil {
		return s
	}
	s.TextCapacity = g.cfg.UI.TextCapacity
	s.DragStep = float32(g.cfg.UI.DragStep)
	s.PreviewSize = widget.Vec2{X: float32(g.cfg.UI.PreviewWidth), Y: float32(g.cfg.UI.PreviewHeight)}
	return s
}

// documentFormat is the --format flag, else output.format
func (g *globals) documentFormat() document.Format {
	name := g.format
	if name == "" && g.cfg != nil {
		name = g.cfg.Output.Format
	}
	f, err := document.ParseFormat(name)
	if err != nil {
		return document.FormatJSON
	}
	return f
}

func (g *globals) indent() int {
	if g.cfg == nil {
		return 4
	}
	return g.cfg.Output.Indent
}

// structured reports whether listings should be encoded instead of
// rendered as tables
func (g *globals) structured() bool {
	return g.format != ""
}

// encode writes v as JSON or YAML following --format
func (g *globals) encode(w io.Writer, v any) error {
	if g.documentFormat() == document.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(max(g.indent(), 2))
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	if n := g.indent(); n > 0 {
		enc.SetIndent("", fmt.Sprintf("%*s", n, ""))
	}
	return enc.Encode(v)
}

func (g *globals) colorless() bool {
	return g.noColor || (g.cfg != nil && g.cfg.UI.NoColor)
}

// lookup resolves a type name against the demo catalog
func lookup(name string) (metadata.Instance, error) {
	return scene.New(name)
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the inspector version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			kv.AddRow("Inspector version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// inputError marks a malformed --set flag
type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

// RenderError writes err the way the CLI reports failures
func RenderError(w io.Writer, err error, noColor bool) {
	var (
		unknown *scene.UnknownTypeError
		unused  *scene.UnusedInputError
		cfgErr  *configError
		inErr   *inputError
		fieldEr *fieldError
		snapErr *snapshotNotFoundError
		stErr   *storeError
	)
	switch {
	case errors.As(err, &unknown):
		fmt.Fprint(w, ui.TypeNotFoundError(unknown.Name, unknown.Suggestions, noColor))
	case errors.As(err, &fieldEr):
		fmt.Fprint(w, ui.FieldNotFoundError(fieldEr.typeName, fieldEr.field, fieldEr.suggestions, noColor))
	case errors.As(err, &unused):
		var suggestions []string
		for _, key := range unused.Keys {
			suggestions = append(suggestions, unused.Suggestions[key]...)
		}
		fmt.Fprint(w, ui.FormatError(ui.ErrorOptions{
			Level:        ui.ErrorLevelError,
			Context:      "UNUSED INPUT",
			Problem:      err.Error(),
			Consequence:  "Inputs inside closed sections are ignored; pass --open-all to reach nested fields.",
			Suggestions:  suggestions,
			HelpCommands: []string{"List widget ids: inspector draw <type> --open-all --format json"},
			NoColor:      noColor,
		}))
	case errors.As(err, &inErr):
		fmt.Fprint(w, ui.InputError(inErr.msg, noColor))
	case errors.As(err, &cfgErr):
		fmt.Fprint(w, ui.ConfigError(cfgErr.Error(), nil, noColor))
	case errors.As(err, &snapErr):
		fmt.Fprint(w, ui.SnapshotNotFoundError(snapErr.id, noColor))
	case errors.As(err, &stErr):
		fmt.Fprint(w, ui.StoreError(stErr.Error(), noColor))
	default:
		errorColor := color.New(color.FgRed, color.Bold)
		if noColor {
			errorColor.DisableColor()
		}
		errorColor.Fprintf(w, "Error: %v\n", err)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		RenderError(rootCmd.ErrOrStderr(), err, color.NoColor)
		return err
	}
	return nil
}
