package listener

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/discovery"
	"github.com/muurk/panelctl/internal/logging"
)

type event struct {
	address  string
	buttons  []int
	callback discovery.Callback
}

// dispatcher runs callbacks off the receive loop, one ordered queue per
// panel. Only the receive loop calls dispatch and close.
type dispatcher struct {
	depth  int
	queues map[string]chan event
	wg     sync.WaitGroup
}

func newDispatcher(depth int) *dispatcher {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &dispatcher{depth: depth, queues: make(map[string]chan event)}
}

func (d *dispatcher) dispatch(ev event) {
	q, ok := d.queues[ev.address]
	if !ok {
		q = make(chan event, d.depth)
		d.queues[ev.address] = q
		d.wg.Add(1)
		go d.drain(q)
	}

	select {
	case q <- ev:
	default:
		logging.Debug("Callback queue full, dropping button report",
			zap.String("address", ev.address),
			zap.Int("depth", d.depth),
		)
	}
}

func (d *dispatcher) drain(q <-chan event) {
	defer d.wg.Done()
	for ev := range q {
		invoke(ev)
	}
}

// invoke shields the dispatcher from panicking callbacks
func invoke(ev event) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Button callback panicked",
				zap.String("address", ev.address),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	ev.callback(ev.address, ev.buttons)
}

// close stops accepting events and waits for queued callbacks to finish
func (d *dispatcher) close() {
	for addr, q := range d.queues {
		close(q)
		delete(d.queues, addr)
	}
	d.wg.Wait()
}
