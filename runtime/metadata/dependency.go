package metadata

import (
	"fmt"
	"slices"
	"sort"
)

// DependencyGraph captures which reflective types nest which.
type DependencyGraph struct {
	Nodes map[string]*DependencyNode `json:"nodes" yaml:"nodes"` // All nodes indexed by type name
	Edges []DependencyEdge           `json:"edges" yaml:"edges"` // One edge per nested field
}

// DependencyNode is one reflective type.
type DependencyNode struct {
	ID      string `json:"id" yaml:"id"`                               // Type name
	Name    string `json:"name" yaml:"name"`                           // Display name
	GoType  string `json:"go_type" yaml:"go_type"`                     // Fully qualified Go type
	Package string `json:"package,omitempty" yaml:"package,omitempty"` // Defining package
	Fields  int    `json:"fields" yaml:"fields"`                       // Number of declared fields
}

// DependencyEdge links an owner type to the type of one of its nested fields.
type DependencyEdge struct {
	From  string `json:"from" yaml:"from"`   // Owner type
	To    string `json:"to" yaml:"to"`       // Nested field type
	Field string `json:"field" yaml:"field"` // Field holding the nested value
}

// DependencyOptions configures dependency queries
type DependencyOptions struct {
	Depth   int  // Maximum traversal depth (0 = unlimited)
	Reverse bool // Reverse traversal (find what nests this type)
}

// BuildTypeGraph walks the nesting graph reachable from roots. Each type
// appears once even when several roots reach it.
func BuildTypeGraph(roots ...Schema) *DependencyGraph {
	graph := &DependencyGraph{
		Nodes: make(map[string]*DependencyNode),
		Edges: make([]DependencyEdge, 0),
	}

	queue := append([]Schema(nil), roots...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		name := current.TypeName()
		if _, seen := graph.Nodes[name]; seen {
			continue
		}
		info := current.Describe()
		graph.Nodes[name] = &DependencyNode{
			ID:      name,
			Name:    label(name),
			GoType:  info.GoType,
			Package: info.Package,
			Fields:  len(info.Fields),
		}

		nested := current.NestedSchemas()
		i := 0
		for _, f := range info.Fields {
			if f.Nested == "" {
				continue
			}
			graph.Edges = append(graph.Edges, DependencyEdge{From: name, To: f.Nested, Field: f.Name})
			if i < len(nested) {
				queue = append(queue, nested[i])
			}
			i++
		}
	}

	return graph
}

func label(name string) string {
	if name == "" {
		return unnamed
	}
	return name
}

// Dependencies returns the part of graph reachable from typeName: the types
// it nests, or with Reverse set, the types that nest it.
func Dependencies(graph *DependencyGraph, typeName string, opts DependencyOptions) (*DependencyGraph, error) {
	if graph == nil {
		return nil, fmt.Errorf("dependency graph is nil")
	}
	if _, ok := graph.Nodes[typeName]; !ok {
		return nil, fmt.Errorf("type not found: %s", typeName)
	}
	return graph.reachable(typeName, opts), nil
}

// pendingType is a type waiting to be expanded, with its distance from the
// starting type.
type pendingType struct {
	name  string
	level int
}

func (g *DependencyGraph) reachable(typeName string, opts DependencyOptions) *DependencyGraph {
	sub := &DependencyGraph{
		Nodes: map[string]*DependencyNode{typeName: g.Nodes[typeName]},
		Edges: make([]DependencyEdge, 0),
	}

	seen := map[string]bool{typeName: true}
	pending := []pendingType{{name: typeName}}
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]

		for _, edge := range g.linked(next.name, opts.Reverse) {
			sub.Edges = append(sub.Edges, edge)

			other := edge.To
			if opts.Reverse {
				other = edge.From
			}
			if seen[other] {
				continue
			}
			seen[other] = true
			if node, ok := g.Nodes[other]; ok {
				sub.Nodes[other] = node
			}
			// types at the depth limit are listed but not expanded
			if opts.Depth == 0 || next.level+1 < opts.Depth {
				pending = append(pending, pendingType{name: other, level: next.level + 1})
			}
		}
	}
	return sub
}

// linked returns the nested-field edges owned by typeName, or the edges
// pointing at it when owners is set.
func (g *DependencyGraph) linked(typeName string, owners bool) []DependencyEdge {
	var edges []DependencyEdge
	for _, edge := range g.Edges {
		end := edge.From
		if owners {
			end = edge.To
		}
		if end == typeName {
			edges = append(edges, edge)
		}
	}
	return edges
}

// DetectCycles reports nesting cycles. Value nesting cannot form one, but
// accessors that reach through pointers can, and drawing such a type
// would never terminate. Each cycle starts and ends with the same type.
func DetectCycles(graph *DependencyGraph) [][]string {
	names := make([]string, 0, len(graph.Nodes))
	for name := range graph.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		cycles  [][]string
		done    = make(map[string]bool)
		drawing []string
		active  = make(map[string]bool)
	)
	var visit func(name string)
	visit = func(name string) {
		done[name] = true
		active[name] = true
		drawing = append(drawing, name)

		for _, edge := range graph.linked(name, false) {
			switch {
			case active[edge.To]:
				start := slices.Index(drawing, edge.To)
				cycle := append(slices.Clone(drawing[start:]), edge.To)
				cycles = append(cycles, cycle)
			case !done[edge.To]:
				visit(edge.To)
			}
		}

		drawing = drawing[:len(drawing)-1]
		active[name] = false
	}

	for _, name := range names {
		if !done[name] {
			visit(name)
		}
	}
	return cycles
}

// NestingDepth returns the longest chain of nested types below typeName.
// Cycles are followed once.
func NestingDepth(graph *DependencyGraph, typeName string) (int, error) {
	sub, err := Dependencies(graph, typeName, DependencyOptions{})
	if err != nil {
		return 0, err
	}

	var walk func(id string, onPath map[string]bool) int
	walk = func(id string, onPath map[string]bool) int {
		onPath[id] = true
		defer delete(onPath, id)
		best := 0
		for _, edge := range sub.linked(id, false) {
			if onPath[edge.To] {
				continue
			}
			if d := 1 + walk(edge.To, onPath); d > best {
				best = d
			}
		}
		return best
	}
	return walk(typeName, make(map[string]bool)), nil
}
