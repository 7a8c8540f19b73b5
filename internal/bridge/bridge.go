package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/command"
	"github.com/muurk/panelctl/internal/discovery"
	"github.com/muurk/panelctl/internal/logging"
	"github.com/muurk/panelctl/internal/protocol"
)

// DefaultAddr is the HTTP listen address
const DefaultAddr = ":8765"

// Commander delivers commands to panels. *command.Sender implements it.
type Commander interface {
	SendLCD(address string, x, y int, text string) error
	ClearLCD(address string) error
	SendBacklights(address string, states []bool) error
	SendLEDs(address string, colors []protocol.RGB) error
}

// Config holds the bridge settings
type Config struct {
	Addr      string // HTTP listen address
	Advertise bool   // Announce over mDNS
	Nickname  func(dip int) string
}

// Bridge serves the /ws endpoint
type Bridge struct {
	cfg      Config
	registry *discovery.Registry
	sender   Commander
	hub      *hub
	upgrader websocket.Upgrader

	// ctx is the serving context, set by Serve or Start
	mu  sync.Mutex
	ctx context.Context

	advertiser *advertiser
}

// New creates a bridge over the shared registry
func New(cfg Config, registry *discovery.Registry, sender Commander) *Bridge {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Nickname == nil {
		cfg.Nickname = func(int) string { return "" }
	}

	b := &Bridge{
		cfg:      cfg,
		registry: registry,
		sender:   sender,
		ctx:      context.Background(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	b.hub = newHub(b.devices)
	return b
}

// Handler returns the HTTP routes: /ws and /devices
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.serveWS)
	mux.HandleFunc("/devices", b.serveDevices)
	return mux
}

// Start runs the hub until ctx is done. Serve calls it; tests that mount
// Handler on their own server call it directly.
func (b *Bridge) Start(ctx context.Context) {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()
	go b.hub.run(ctx)
}

func (b *Bridge) context() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

// Serve listens on the configured address until ctx is cancelled
func (b *Bridge) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", b.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", b.cfg.Addr, err)
	}
	return b.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled
func (b *Bridge) ServeListener(ctx context.Context, ln net.Listener) error {
	b.Start(ctx)

	srv := &http.Server{
		Handler:           b.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if b.cfg.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		adv, err := advertise(port, b.registry.Len())
		if err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			b.mu.Lock()
			b.advertiser = adv
			b.mu.Unlock()
			defer adv.shutdown()
		}
	}

	logging.Info("Bridge listening", zap.String("addr", ln.Addr().String()))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Bridge shutdown incomplete", zap.Error(err))
		}
		logging.Info("Bridge stopped")
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("bridge server failed: %w", err)
	}
}

// Attach installs the bridge as the callback of every registered panel and
// refreshes the advertised device count
func (b *Bridge) Attach() int {
	devices := b.registry.All()
	for _, d := range devices {
		b.registry.SetCallback(d.Address, b.Notify)
	}

	b.mu.Lock()
	adv := b.advertiser
	b.mu.Unlock()
	if adv != nil {
		adv.setDevices(len(devices))
	}
	return len(devices)
}

// Notify broadcasts a button report. It matches discovery.Callback.
func (b *Bridge) Notify(address string, buttons []int) {
	ev := ButtonsEvent{
		Type:      TypeButtons,
		Address:   address,
		DIP:       -1,
		Buttons:   buttons,
		Timestamp: time.Now(),
	}
	if d, ok := b.registry.Get(address); ok {
		ev.DIP = d.DIP
	}
	b.hub.publish(b.context(), ev)
}

// Clients returns the number of connected sessions
func (b *Bridge) Clients() int {
	return b.hub.clientCount()
}

func (b *Bridge) devices() []DeviceInfo {
	all := b.registry.All()
	out := make([]DeviceInfo, len(all))
	for i, d := range all {
		out[i] = DeviceInfo{Address: d.Address, DIP: d.DIP, Nickname: b.cfg.Nickname(d.DIP)}
	}
	return out
}

func (b *Bridge) serveDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(DevicesEvent{Type: TypeDevices, Devices: b.devices()})
}

func (b *Bridge) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	ctx := b.context()
	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	select {
	case b.hub.register <- c:
	case <-ctx.Done():
		_ = conn.Close()
		return
	}

	go c.writePump()
	go b.readPump(ctx, c)
}

// handle executes one client request and builds its reply
func (b *Bridge) handle(data []byte) Reply {
	req, err := decodeRequest(data)
	if err != nil {
		return Reply{Type: TypeError, Request: req.Type, Address: req.Address, Error: err.Error()}
	}

	fail := func(err error) Reply {
		msg := err.Error()
		var de *command.DeliveryError
		if errors.As(err, &de) {
			msg = command.GetShortErrorMessage(err)
		}
		return Reply{Type: TypeError, Request: req.Type, Address: req.Address, Error: msg}
	}

	if _, ok := b.registry.Get(req.Address); !ok {
		return fail(fmt.Errorf("unknown panel %s", req.Address))
	}

	switch req.Type {
	case TypeLCD:
		err = b.sender.SendLCD(req.Address, req.X, req.Y, req.Text)
	case TypeClear:
		err = b.sender.ClearLCD(req.Address)
	case TypeBacklight:
		var states []bool
		if states, err = req.backlightStates(); err == nil {
			err = b.sender.SendBacklights(req.Address, states)
		}
	case TypeLED:
		var colors []protocol.RGB
		if colors, err = req.ledColors(); err == nil {
			err = b.sender.SendLEDs(req.Address, colors)
		}
	}
	if err != nil {
		logging.Debug("Bridge request failed",
			zap.String("request", req.Type),
			zap.String("address", req.Address),
			zap.Error(err),
		)
		return fail(err)
	}
	return Reply{Type: TypeOK, Request: req.Type, Address: req.Address}
}
