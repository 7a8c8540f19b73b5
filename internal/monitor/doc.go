// Package monitor is the live terminal view behind `panelctl monitor`.
//
// The model scans, shows a spinner until the scan returns, then lists every
// panel in a table. Button reports reach the model as ButtonsMsg, delivered
// by Program.Send from callbacks that the scan installs on the shared
// registry; the event listener invokes those callbacks. Pressing r rescans,
// q quits.
package monitor
