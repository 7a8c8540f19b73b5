package bridge

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/logging"
)

// sendBuffer is the number of outbound messages queued per client
const sendBuffer = 64

type directMsg struct {
	client *client
	data   []byte
}

// hub owns the client set. Only run touches clients or closes send channels.
type hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	direct     chan directMsg

	snapshot func() []DeviceInfo
	clients  map[*client]bool
	count    atomic.Int32
}

func newHub(snapshot func() []DeviceInfo) *hub {
	return &hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, sendBuffer),
		direct:     make(chan directMsg, sendBuffer),
		snapshot:   snapshot,
		clients:    make(map[*client]bool),
	}
}

func (h *hub) run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			h.drop(c)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Add(1)
			logging.Info("Bridge client connected", zap.String("session", c.id))
			h.deliver(c, h.devicesEvent(c.id))

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				logging.Info("Bridge client disconnected", zap.String("session", c.id))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}

		case m := <-h.direct:
			if h.clients[m.client] {
				h.deliver(m.client, m.data)
			}
		}
	}
}

// deliver queues data for c, dropping c if its queue is full
func (h *hub) deliver(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		logging.Warn("Bridge client too slow, disconnecting", zap.String("session", c.id))
		h.drop(c)
	}
}

func (h *hub) drop(c *client) {
	delete(h.clients, c)
	h.count.Add(-1)
	close(c.send)
}

func (h *hub) devicesEvent(session string) []byte {
	devices := h.snapshot()
	if devices == nil {
		devices = []DeviceInfo{}
	}
	data, _ := json.Marshal(DevicesEvent{Type: TypeDevices, Session: session, Devices: devices})
	return data
}

// publish marshals v and queues it for every client
func (h *hub) publish(ctx context.Context, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to marshal bridge event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	case <-ctx.Done():
	}
}

// reply marshals v and queues it for one client
func (h *hub) reply(ctx context.Context, c *client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to marshal bridge reply", zap.Error(err))
		return
	}
	select {
	case h.direct <- directMsg{client: c, data: data}:
	case <-ctx.Done():
	}
}

// clientCount returns the number of connected clients
func (h *hub) clientCount() int {
	return int(h.count.Load())
}
