// Package overlay displays the small set of named status strings the frame
// loop publishes (layout status, node and edge counts, selection).
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Entry names published by the frame loop.
const (
	EntryCalc   = "calc"
	EntryNodes  = "nodes"
	EntryEdges  = "edges"
	EntrySelect = "select"
)

// Entry is one named status string.
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Styles
var (
	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	calcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Board keeps the last published entries.
type Board struct {
	entries []Entry
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Publish replaces the displayed entries; order is preserved.
func (b *Board) Publish(entries []Entry) {
	b.entries = append(b.entries[:0], entries...)
}

// Entries returns a copy of the displayed entries.
func (b *Board) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Value returns the value published under name, or "".
func (b *Board) Value(name string) string {
	for _, e := range b.entries {
		if e.Name == name {
			return e.Value
		}
	}
	return ""
}

// Line joins the non-empty values with " | ".
func (b *Board) Line() string {
	var parts []string
	for _, e := range b.entries {
		if e.Value != "" {
			parts = append(parts, e.Value)
		}
	}
	return strings.Join(parts, " | ")
}

// View renders the entries as a styled terminal box.
func (b *Board) View() string {
	var parts []string
	for _, e := range b.entries {
		if e.Value == "" {
			continue
		}
		if e.Name == EntryCalc {
			parts = append(parts, calcStyle.Render(e.Value))
		} else {
			parts = append(parts, valueStyle.Render(e.Value))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return boxStyle.Render(strings.Join(parts, sepStyle.Render(" | ")))
}
