package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table renders aligned columns under a highlighted header
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// TableOptions configures table behavior
type TableOptions struct {
	NoColor bool
}

// NewTable creates a table with the given headers
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	t := &Table{writer: w, headers: headers}
	if opts != nil {
		t.noColor = opts.NoColor
	}
	return t
}

// AddRow appends a row. Cells past the header count are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	header := paint(t.noColor, color.Bold, color.FgCyan)
	rule := paint(t.noColor, color.FgHiBlack)
	plain := paint(true)

	t.line(header, t.headers, widths)
	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	t.line(rule, rules, widths)
	for _, row := range t.rows {
		t.line(plain, row, widths)
	}
}

func (t *Table) line(c *color.Color, cells []string, widths []int) {
	n := min(len(cells), len(widths))
	for i := 0; i < n; i++ {
		cell := cells[i]
		if i < n-1 {
			cell = padRight(cell, widths[i]) + "  "
		}
		c.Fprint(t.writer, cell)
	}
	fmt.Fprintln(t.writer)
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// KeyValueTable renders aligned "key: value" lines
type KeyValueTable struct {
	writer  io.Writer
	rows    [][2]string
	noColor bool
}

// NewKeyValueTable creates a key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow adds a key-value pair
func (t *KeyValueTable) AddRow(key, value string) {
	t.rows = append(t.rows, [2]string{key, value})
}

// Render writes the table
func (t *KeyValueTable) Render() {
	width := 0
	for _, row := range t.rows {
		width = max(width, utf8.RuneCountInString(row[0])+1)
	}

	cyan := paint(t.noColor, color.FgCyan)
	for _, row := range t.rows {
		cyan.Fprint(t.writer, padRight(row[0]+":", width))
		fmt.Fprintf(t.writer, " %s\n", row[1])
	}
}

// List renders a bulleted or numbered list
type List struct {
	writer   io.Writer
	items    []string
	numbered bool
	noColor  bool
}

// ListOptions configures list behavior
type ListOptions struct {
	Numbered bool
	NoColor  bool
}

// NewList creates a list
func NewList(w io.Writer, opts ListOptions) *List {
	return &List{writer: w, numbered: opts.Numbered, noColor: opts.NoColor}
}

// AddItem appends an item
func (l *List) AddItem(item string) {
	l.items = append(l.items, item)
}

// Render writes the list
func (l *List) Render() {
	marker := paint(l.noColor, color.FgCyan)
	for i, item := range l.items {
		if l.numbered {
			marker.Fprintf(l.writer, "%d. ", i+1)
		} else {
			marker.Fprint(l.writer, "• ")
		}
		fmt.Fprintln(l.writer, item)
	}
}

// Divider renders a horizontal rule, 80 columns wide when width is 0
func Divider(w io.Writer, width int, noColor bool) {
	if width == 0 {
		width = 80
	}
	paint(noColor, color.FgHiBlack).Fprintln(w, strings.Repeat("─", width))
}

// Header renders a title underlined by a divider
func Header(w io.Writer, title string, noColor bool) {
	paint(noColor, color.Bold, color.FgCyan).Fprintln(w, title)
	Divider(w, utf8.RuneCountInString(title), noColor)
}
