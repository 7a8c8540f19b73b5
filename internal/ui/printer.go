package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes rendered components to one output
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a printer for w, or stdout when w is nil
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// SetWidth overrides the detected width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the rendering width
func (p *Printer) Width() int {
	return p.width
}

// Println writes content and a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Printf writes formatted content
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Newline writes an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader writes a command header
func (p *Printer) PrintHeader(title, command string, params ...Field) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintResult writes a result box
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

// PrintSuccess writes a success box
func (p *Printer) PrintSuccess(title string, details ...Field) {
	p.PrintResult(NewSuccessResult(title, details...))
}

// PrintError writes a failure box. Delivery errors get their tips filled in.
func (p *Printer) PrintError(title string, err error) {
	p.PrintResult(NewDeliveryFailure(title, err))
}

// PrintPanels writes the panel table
func (p *Printer) PrintPanels(rows []PanelRow) {
	p.Println(RenderPanelTable(rows, p.width))
}
