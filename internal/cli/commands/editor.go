package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/inspector/internal/cli/ui"
	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/internal/store"
	"github.com/conduit-lang/inspector/runtime/metadata"
	"github.com/conduit-lang/inspector/runtime/widget"
)

// parseInputs turns repeated id=value flags into widget inputs
func parseInputs(sets []string) (map[string]any, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	values := make(map[string]any, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &inputError{msg: fmt.Sprintf("malformed input %q", s)}
		}
		values[key] = value
	}
	return values, nil
}

// editFlags are shared by the commands that apply widget inputs
type editFlags struct {
	id   string
	sets []string
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "Root widget id (default: the type name)")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "Widget input as <widget id>=<value> (repeatable)")
}

func (f *editFlags) rootID(typeName string) string {
	if f.id != "" {
		return f.id
	}
	return typeName
}

// prepare creates the instance and applies the --set inputs to it
func (g *globals) prepare(typeName string, f *editFlags, openAll bool) (metadata.Instance, widget.Frame, error) {
	inst, err := lookup(typeName)
	if err != nil {
		return nil, widget.Frame{}, err
	}
	values, err := parseInputs(f.sets)
	if err != nil {
		return nil, widget.Frame{}, err
	}

	frame, err := scene.Edit(inst, f.rootID(inst.TypeName()), g.style(), scene.Inputs{
		Values:  values,
		OpenAll: openAll,
	})
	if err != nil {
		return nil, frame, err
	}
	g.logger.Debug("applied inputs",
		zap.String("type", inst.TypeName()),
		zap.Int("inputs", len(values)))
	return inst, frame, nil
}

// save stores the JSON document of inst as a snapshot
func (g *globals) save(ctx context.Context, inst metadata.Instance, opts ...metadata.SerializeOption) (*store.Snapshot, error) {
	data, err := json.Marshal(inst.Document(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	snap := store.NewSnapshot(inst.TypeName(), data)
	err = g.withStore(ctx, func(s store.Store) error {
		if err := s.Save(ctx, snap); err != nil {
			return &storeError{err: fmt.Errorf("failed to save snapshot: %w", err)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.logger.Debug("snapshot saved", zap.String("id", snap.ID), zap.String("type", snap.Type))
	return snap, nil
}

func newSerializeCommand(g *globals) *cobra.Command {
	var (
		flags     editFlags
		recursive bool
		saveSnap  bool
	)
	cmd := &cobra.Command{
		Use:   "serialize <type>",
		Short: "Print the document of a value",
		Long: `Create a value of the given type, apply any widget inputs and print its
document. Nested fields are written as "{object}" unless --recursive is set.`,
		Example: `  inspector serialize Player
  inspector serialize Player --set Player/name=Alice --set Player/stats/strength=40
  inspector serialize Material --recursive --format yaml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTypes(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, _, err := g.prepare(args[0], &flags, true)
			if err != nil {
				return err
			}

			var opts []metadata.SerializeOption
			if recursive {
				opts = append(opts, metadata.Recursive())
			}
			if err := inst.Document(opts...).Encode(cmd.OutOrStdout(), g.documentFormat(), g.indent()); err != nil {
				return fmt.Errorf("failed to write document: %w", err)
			}

			if saveSnap {
				snap, err := g.save(cmd.Context(), inst, opts...)
				if err != nil {
					return err
				}
				ui.WriteSuccess(cmd.ErrOrStderr(), "saved snapshot "+snap.ID, g.colorless())
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Write nested fields under \"fields\"")
	cmd.Flags().BoolVar(&saveSnap, "save", false, "Also store the document as a snapshot")
	return cmd
}

func newDrawCommand(g *globals) *cobra.Command {
	var (
		flags   editFlags
		openAll bool
	)
	cmd := &cobra.Command{
		Use:   "draw <type>",
		Short: "Draw the editor of a value",
		Long: `Create a value of the given type, apply any widget inputs and draw its
editor. With --format the recorded widget frame is printed instead, which
lists every widget id --set accepts.`,
		Example: `  inspector draw Player
  inspector draw Material --open-all
  inspector draw Stats --set Stats/strength=250 --format json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTypes(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, frame, err := g.prepare(args[0], &flags, openAll)
			if err != nil {
				return err
			}
			if g.structured() {
				return g.encode(cmd.OutOrStdout(), frame)
			}

			term := widget.NewTerminal(cmd.OutOrStdout(), &widget.TerminalOptions{
				NoColor: g.colorless(),
				OpenAll: openAll,
			})
			inst.Draw(&metadata.Context{UI: term, Style: g.style()}, flags.rootID(inst.TypeName()))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&openAll, "open-all", false, "Expand nested sections")
	return cmd
}

// newEditCommand builds the interactive editor. A nil ask uses the terminal.
func newEditCommand(g *globals, ask widget.AskFunc) *cobra.Command {
	var (
		id       string
		saveSnap bool
	)
	cmd := &cobra.Command{
		Use:   "edit <type>",
		Short: "Edit a value interactively",
		Long: `Ask for every field of a new value of the given type, then print its
document. Sections are confirmed before their fields are asked.`,
		Example: `  inspector edit Player
  inspector edit Light --save`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTypes(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := lookup(args[0])
			if err != nil {
				return err
			}
			root := id
			if root == "" {
				root = inst.TypeName()
			}

			prompt := widget.NewPrompt(ask)
			inst.Draw(&metadata.Context{UI: prompt, Style: g.style()}, root)
			if err := prompt.Err(); err != nil {
				return fmt.Errorf("edit aborted: %w", err)
			}

			if err := inst.Document().Encode(cmd.OutOrStdout(), g.documentFormat(), g.indent()); err != nil {
				return fmt.Errorf("failed to write document: %w", err)
			}
			if saveSnap {
				snap, err := g.save(cmd.Context(), inst)
				if err != nil {
					return err
				}
				ui.WriteSuccess(cmd.ErrOrStderr(), "saved snapshot "+snap.ID, g.colorless())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Root widget id (default: the type name)")
	cmd.Flags().BoolVar(&saveSnap, "save", false, "Store the edited document as a snapshot")
	return cmd
}
