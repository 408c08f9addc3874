package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// paint returns a color that honours noColor
func paint(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	}
	return c
}

func (l ErrorLevel) style() (symbol string, fg color.Attribute) {
	switch l {
	case ErrorLevelWarning:
		return "⚠️", color.FgYellow
	case ErrorLevelInfo:
		return "ℹ️", color.FgCyan
	default:
		return "❌", color.FgRed
	}
}

// FormatError renders a message with optional suggestions and help commands
//
// Example output:
//
//	❌ TYPE NOT FOUND: Cannot find type 'Playr'.
//	   Cannot find type 'Playr'.
//
//	   Did you mean: Player?
//
//	   → See all types: inspector types
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	symbol, fg := opts.Level.style()
	header := paint(opts.NoColor, fg, color.Bold)
	body := paint(opts.NoColor, fg)

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
		if opts.Problem != "" {
			body.Fprintf(&b, "   %s\n", opts.Problem)
		}
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		body.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		paint(opts.NoColor, color.FgYellow).
			Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := paint(opts.NoColor, color.FgCyan)
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted message to w
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	return paint(noColor, color.FgGreen, color.Bold).Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to w
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// TypeNotFoundError reports an unknown inspectable type
func TypeNotFoundError(typeName string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "TYPE NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find type '%s'.", typeName),
		Suggestions: suggestions,
		HelpCommands: []string{
			"See all types: inspector types",
			"Get help: inspector --help",
		},
		NoColor: noColor,
	})
}

// FieldNotFoundError reports an unknown field of a known type
func FieldNotFoundError(typeName, field string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "FIELD NOT FOUND",
		Problem:      fmt.Sprintf("Type '%s' has no field '%s'.", typeName, field),
		Suggestions:  suggestions,
		HelpCommands: []string{"List fields: inspector fields " + typeName},
		NoColor:      noColor,
	})
}

// SnapshotNotFoundError reports a missing snapshot
func SnapshotNotFoundError(id string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "SNAPSHOT NOT FOUND",
		Problem:      fmt.Sprintf("No snapshot with id '%s'.", id),
		HelpCommands: []string{"List snapshots: inspector snapshots list"},
		NoColor:      noColor,
	})
}

// InputError reports a malformed widget input such as a bad --set value
func InputError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "INVALID INPUT",
		Problem:      message,
		Consequence:  "Inputs are written as <widget id>=<value>, e.g. Player/stats/strength=40.",
		HelpCommands: []string{"List widget ids: inspector draw <type> --open-all"},
		NoColor:      noColor,
	})
}

// StoreError reports a snapshot store failure
func StoreError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "STORE ERROR",
		Problem:      message,
		HelpCommands: []string{"Check the store section of inspector.yml"},
		NoColor:      noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "CONFIGURATION ERROR",
		Problem:     message,
		Suggestions: suggestions,
		HelpCommands: []string{
			"View config: cat inspector.yml",
			"Get help: inspector --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelWarning,
		Problem:     message,
		Suggestions: suggestions,
		NoColor:     noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{Level: ErrorLevelInfo, Problem: message, NoColor: noColor})
}
