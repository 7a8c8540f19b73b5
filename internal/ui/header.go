package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled value. Slices of fields keep their order.
type Field struct {
	Key   string
	Value string
}

// Header is the banner printed before a command runs
type Header struct {
	Title   string  // e.g. "Scan"
	Command string  // e.g. "panelctl scan --prefix 10.0.0."
	Params  []Field // e.g. Range, Port, Timeout
	Width   int
}

// NewHeader creates a header sized to the terminal
func NewHeader(title, command string, params ...Field) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth overrides the rendering width
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)

	content := top
	if len(h.Params) > 0 {
		content = lipgloss.JoinVertical(lipgloss.Left,
			top,
			RenderDivider(width-6),
			renderFields(h.Params),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

func (h *Header) String() string {
	return h.Render()
}

// renderFields aligns keys to the longest one
func renderFields(fields []Field) string {
	keyWidth := 0
	for _, f := range fields {
		if len(f.Key) > keyWidth {
			keyWidth = len(f.Key)
		}
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		key := FieldKeyStyle.Render(f.Key + ":" + strings.Repeat(" ", keyWidth-len(f.Key)))
		lines = append(lines, key+" "+FieldValueStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}
