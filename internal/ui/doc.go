// Package ui renders panelctl's one-shot terminal output.
//
// Commands print a Header describing what they are about to do, then a
// Result box or a PanelTable. Everything is rendered with lipgloss and sized
// to the terminal (via x/term), capped at MaxContentWidth.
//
// Logging is separate: zap stays silent unless PANELCTL_LOG_LEVEL or
// --log-level is set, so these boxes are the only output by default.
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Scan", "panelctl scan", ui.Field{Key: "Range", Value: "192.168.0.50-65"})
//	p.PrintPanels(rows)
package ui
