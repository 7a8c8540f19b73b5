package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/discovery"
	"github.com/muurk/panelctl/internal/logging"
	"github.com/muurk/panelctl/internal/protocol"
)

const (
	// DefaultBackoff is the pause after a failed receive
	DefaultBackoff = 100 * time.Millisecond

	// DefaultQueueDepth is the number of undelivered reports kept per panel
	DefaultQueueDepth = 32
)

var (
	// ErrAlreadyBound is returned when the port already has a listener in this process
	ErrAlreadyBound = errors.New("listener port already bound in this process")

	// ErrAlreadyRunning is returned when Run is called twice
	ErrAlreadyRunning = errors.New("listener is already running")
)

// Directory resolves a source address to its registered callback
type Directory interface {
	Callback(address string) (discovery.Callback, bool)
}

// State is the listener's position in its receive loop
type State int32

const (
	StateIdle State = iota
	StateAwaitingPacket
	StateDispatching
	StateStopped
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPacket:
		return "awaiting_packet"
	case StateDispatching:
		return "dispatching"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// packetConn is the part of *net.UDPConn the receive loop uses
type packetConn interface {
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
	LocalAddr() net.Addr
	Close() error
}

// Process-wide record of bound ports
var (
	boundMu    sync.Mutex
	boundPorts = make(map[int]bool)
)

// Listener owns the protocol port and demultiplexes button reports
type Listener struct {
	// Backoff is the pause after a failed receive
	Backoff time.Duration

	// QueueDepth bounds the reports waiting for one panel's callback
	QueueDepth int

	conn packetConn
	port int

	state   atomic.Int32
	running atomic.Bool

	mu       sync.Mutex
	cancel   context.CancelFunc
	closed   bool
	released bool
}

// Bind claims host:port for this process. An empty host binds all
// interfaces. Port 0 picks an ephemeral port.
func Bind(host string, port int) (*Listener, error) {
	boundMu.Lock()
	defer boundMu.Unlock()

	if port != 0 && boundPorts[port] {
		return nil, fmt.Errorf("%w: port %d", ErrAlreadyBound, port)
	}

	var ip net.IP
	if host != "" {
		if ip = net.ParseIP(host); ip == nil {
			return nil, fmt.Errorf("invalid listen address %q", host)
		}
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to bind listener port %d: %w", port, err)
	}

	actual := conn.LocalAddr().(*net.UDPAddr).Port
	boundPorts[actual] = true

	logging.Info("Listener bound", zap.String("addr", conn.LocalAddr().String()))

	return &Listener{
		Backoff:    DefaultBackoff,
		QueueDepth: DefaultQueueDepth,
		conn:       conn,
		port:       actual,
	}, nil
}

// Port returns the bound port
func (l *Listener) Port() int {
	return l.port
}

// Addr returns the bound local address
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// State returns the current loop state
func (l *Listener) State() State {
	return State(l.state.Load())
}

// Close stops a running loop and releases the port. Safe to call more than once.
func (l *Listener) Close() error {
	l.mu.Lock()
	l.closed = true
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
		return nil
	}
	return l.release()
}

// release closes the socket and frees the port for a later Bind
func (l *Listener) release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return nil
	}
	l.released = true

	err := l.conn.Close()

	boundMu.Lock()
	delete(boundPorts, l.port)
	boundMu.Unlock()

	l.state.Store(int32(StateStopped))
	return err
}

// Run receives until ctx is cancelled or Close is called, then releases the
// port and waits for in-flight callbacks. It returns nil on cancellation.
func (l *Listener) Run(ctx context.Context, dir Directory) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		cancel()
		return l.release()
	}
	l.cancel = cancel
	l.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = l.conn.Close() })
	defer stop()

	d := newDispatcher(l.QueueDepth)
	defer func() {
		cancel()
		d.close()
		_ = l.release()
		logging.Info("Listener stopped", zap.Int("port", l.port))
	}()

	logging.Info("Listener running", zap.Int("port", l.port))

	buf := make([]byte, discovery.MaxPacketSize)
	for {
		l.state.Store(int32(StateAwaitingPacket))
		n, src, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logging.Warn("Listener receive failed, backing off",
				zap.Error(err),
				zap.Duration("backoff", l.Backoff),
			)
			if !sleep(ctx, l.Backoff) {
				return nil
			}
			continue
		}

		l.state.Store(int32(StateDispatching))
		l.handle(d, dir, src, buf[:n])
	}
}

// handle decodes one datagram and queues it for the source panel's callback
func (l *Listener) handle(d *dispatcher, dir Directory, src *net.UDPAddr, packet []byte) {
	address := src.IP.String()
	logging.LogPacket("received", src.String(), packet)

	result := protocol.Decode(packet)
	if result.Kind != protocol.KindButtons {
		logging.Debug("Dropping non-button packet",
			zap.String("address", address),
			zap.Stringer("kind", result.Kind),
		)
		return
	}

	cb, ok := dir.Callback(address)
	if !ok {
		logging.Debug("Dropping button report from unregistered source",
			zap.String("address", address),
		)
		return
	}

	d.dispatch(event{address: address, buttons: result.Buttons, callback: cb})
}

// sleep waits for d or until ctx is done; it reports whether ctx is still live
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		d = DefaultBackoff
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
