package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives the monitor until the user quits or ctx is cancelled. Any
// Notify in opts is replaced by one that forwards reports to the program.
func Run(ctx context.Context, opts Options) error {
	var p *tea.Program
	opts.Notify = func(address string, buttons []int) {
		p.Send(ButtonsMsg{Address: address, Buttons: buttons, At: time.Now()})
	}

	p = tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
