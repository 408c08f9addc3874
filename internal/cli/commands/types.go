package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/inspector/internal/cli/ui"
	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/runtime/metadata"
)

// fieldError reports an unknown field name of a known type
type fieldError struct {
	typeName    string
	field       string
	suggestions []string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("type %s has no field %q", e.typeName, e.field)
}

func newTypesCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List inspectable types",
		Long: `List every type in the catalog with its field count and the
nested types it reaches.`,
		Example: `  # List types as a table
  inspector types

  # Full schemas as JSON
  inspector types --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := scene.Catalog().Types()
			if g.structured() {
				return g.encode(cmd.OutOrStdout(), infos)
			}

			table := ui.NewTable(cmd.OutOrStdout(), []string{"TYPE", "FIELDS", "NESTED", "GO TYPE"},
				&ui.TableOptions{NoColor: g.colorless()})
			for _, info := range infos {
				var nested []string
				for _, f := range info.Fields {
					if f.Nested != "" {
						nested = append(nested, f.Nested)
					}
				}
				table.AddRow(info.Name, strconv.Itoa(len(info.Fields)), strings.Join(nested, ", "), info.GoType)
			}
			table.Render()
			return nil
		},
	}
}

func newFieldsCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <type> [field]",
		Short: "Show the registered fields of a type",
		Long: `Show the fields a type registers, in declaration order, with the
widget each one is edited with and its range when it has one.`,
		Example: `  inspector fields Stats
  inspector fields Player name
  inspector fields Material --format yaml`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeTypes(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := lookup(args[0])
			if err != nil {
				return err
			}
			info := inst.Describe()

			if len(args) == 2 {
				f, ok := info.Field(args[1])
				if !ok {
					return &fieldError{
						typeName:    info.Name,
						field:       args[1],
						suggestions: ui.FindSimilar(args[1], info.FieldNames(), nil),
					}
				}
				if g.structured() {
					return g.encode(cmd.OutOrStdout(), f)
				}
				kv := ui.NewKeyValueTable(cmd.OutOrStdout(), g.colorless())
				for _, row := range fieldRow(f) {
					kv.AddRow(row[0], row[1])
				}
				kv.Render()
				return nil
			}

			if g.structured() {
				return g.encode(cmd.OutOrStdout(), info)
			}
			ui.Header(cmd.OutOrStdout(), info.Name, g.colorless())
			table := ui.NewTable(cmd.OutOrStdout(), []string{"FIELD", "TYPE", "WIDGET", "RANGE", "NESTED"},
				&ui.TableOptions{NoColor: g.colorless()})
			for _, f := range info.Fields {
				table.AddRow(f.Name, f.Type, string(f.Widget), formatRange(f.Range), f.Nested)
			}
			table.Render()
			return nil
		},
	}
}

func fieldRow(f metadata.FieldInfo) [][2]string {
	rows := [][2]string{
		{"name", f.Name},
		{"type", f.Type},
		{"widget", string(f.Widget)},
	}
	if f.Range != nil {
		rows = append(rows, [2]string{"range", formatRange(f.Range)})
	}
	if f.Nested != "" {
		rows = append(rows, [2]string{"nested", f.Nested})
	}
	if f.Capacity > 0 {
		rows = append(rows, [2]string{"capacity", strconv.Itoa(f.Capacity)})
	}
	if f.Step > 0 {
		rows = append(rows, [2]string{"step", strconv.FormatFloat(float64(f.Step), 'g', -1, 32)})
	}
	return rows
}

func formatRange(r *metadata.Range) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("[%v, %v]", r.Min, r.Max)
}

func newDepsCommand(g *globals) *cobra.Command {
	var (
		reverse bool
		depth   int
	)
	cmd := &cobra.Command{
		Use:   "deps <type>",
		Short: "Show the types a type nests, or is nested in",
		Long: `Show the nesting graph around a type. By default the types it reaches
through nested fields are listed; --reverse lists the types that reach it.`,
		Example: `  inspector deps Material
  inspector deps Stats --reverse
  inspector deps Material --depth 1 --format json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTypes(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := scene.Catalog()
			if !c.Has(args[0]) {
				_, err := lookup(args[0])
				return err
			}
			sub, err := c.Dependencies(args[0], metadata.DependencyOptions{Depth: depth, Reverse: reverse})
			if err != nil {
				return err
			}
			cycles := metadata.DetectCycles(sub)

			if g.structured() {
				return g.encode(cmd.OutOrStdout(), struct {
					Nodes  map[string]*metadata.DependencyNode `json:"nodes" yaml:"nodes"`
					Edges  []metadata.DependencyEdge           `json:"edges" yaml:"edges"`
					Cycles [][]string                          `json:"cycles,omitempty" yaml:"cycles,omitempty"`
				}{sub.Nodes, sub.Edges, cycles})
			}

			w := cmd.OutOrStdout()
			title := "Dependencies of " + args[0]
			if reverse {
				title = "Dependents of " + args[0]
			}
			ui.Header(w, title, g.colorless())
			if len(sub.Edges) == 0 {
				fmt.Fprintln(w, "(none)")
			}
			list := ui.NewList(w, ui.ListOptions{NoColor: g.colorless()})
			for _, e := range sub.Edges {
				list.AddItem(fmt.Sprintf("%s.%s -> %s", e.From, e.Field, e.To))
			}
			list.Render()
			for _, cycle := range cycles {
				fmt.Fprint(w, ui.Warning("cycle: "+strings.Join(cycle, " -> "), nil, g.colorless()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "List types that nest this type")
	cmd.Flags().IntVar(&depth, "depth", 0, "Maximum depth (0 = unlimited)")
	return cmd
}
