package discovery

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/panelctl/internal/logging"
)

// responder simulates a panel bound to one loopback address
type responder struct {
	conn *net.UDPConn
}

// replyFunc returns the datagram to send back, or nil to stay silent
type replyFunc func(request []byte) []byte

// bindLoopback binds ip:port, skipping the test when the platform only
// routes 127.0.0.1
func bindLoopback(t *testing.T, ip string, port int) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.ParseIP(ip), Port: port})
	if err != nil {
		t.Skipf("cannot bind %s:%d (loopback aliases unavailable?): %v", ip, port, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// startResponder answers every request on conn. If via is non-nil the reply
// is sent from that socket instead, simulating a reply from another host.
func startResponder(t *testing.T, conn *net.UDPConn, reply replyFunc, via *net.UDPConn) *responder {
	t.Helper()
	go func() {
		buf := make([]byte, MaxPacketSize)
		for {
			n, src, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			out := reply(buf[:n])
			if out == nil {
				continue
			}
			sender := conn
			if via != nil {
				sender = via
			}
			_, _ = sender.WriteToUDP(out, src)
		}
	}()
	return &responder{conn: conn}
}

func (r *responder) port() int {
	return r.conn.LocalAddr().(*net.UDPAddr).Port
}

func replyWith(payload string) replyFunc {
	return func(request []byte) []byte {
		return []byte(payload)
	}
}

func TestNewProber(t *testing.T) {
	assert.Equal(t, DefaultPort, NewProber(0).Port)
	assert.Equal(t, 6000, NewProber(6000).Port)
}

func TestProber_Found(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.1", 0)
	got := make(chan string, 1)
	r := startResponder(t, conn, func(request []byte) []byte {
		got <- string(request)
		return []byte(`{"type":"controller","dip":7}`)
	}, nil)

	p := NewProber(r.port())
	out := p.Probe(context.Background(), "127.0.0.1", time.Second)

	assert.True(t, out.Found)
	assert.Equal(t, "127.0.0.1", out.Address)
	assert.Equal(t, 7, out.DIP)
	assert.Equal(t, "enum\n", <-got)
}

func TestProber_WrongShapeIsNotFound(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.1", 0)
	r := startResponder(t, conn, replyWith(`{"foo":1}`), nil)

	out := NewProber(r.port()).Probe(context.Background(), "127.0.0.1", time.Second)
	assert.False(t, out.Found)
}

func TestProber_MalformedIsNotFound(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.1", 0)
	r := startResponder(t, conn, replyWith(`not json`), nil)

	out := NewProber(r.port()).Probe(context.Background(), "127.0.0.1", time.Second)
	assert.False(t, out.Found)
}

func TestProber_TimeoutIsNotFound(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.1", 0)
	r := startResponder(t, conn, func([]byte) []byte { return nil }, nil)

	start := time.Now()
	out := NewProber(r.port()).Probe(context.Background(), "127.0.0.1", 200*time.Millisecond)

	assert.False(t, out.Found)
	assert.Less(t, time.Since(start), time.Second)
}

func TestProber_CrossTalkIsNotFound(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.60", 0)
	other := bindLoopback(t, "127.0.0.61", 0)
	r := startResponder(t, conn, replyWith(`{"type":"controller","dip":5}`), other)

	out := NewProber(r.port()).Probe(context.Background(), "127.0.0.60", time.Second)
	assert.False(t, out.Found, "reply from a different host must not count")
}

func TestProber_StrayDatagramThenGenuineReply(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.80", 0)
	other := bindLoopback(t, "127.0.0.81", 0)

	// A neighbour's button report lands on the probe socket first; the probed
	// panel answers a moment later.
	go func() {
		buf := make([]byte, MaxPacketSize)
		_, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		_, _ = other.WriteToUDP([]byte(`{"buttons":[0]}`), src)
		time.Sleep(20 * time.Millisecond)
		_, _ = conn.WriteToUDP([]byte(`{"type":"controller","dip":7}`), src)
	}()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	out := NewProber(port).Probe(context.Background(), "127.0.0.80", time.Second)

	assert.True(t, out.Found, "stray datagram must not end the wait")
	assert.Equal(t, "127.0.0.80", out.Address)
	assert.Equal(t, 7, out.DIP)
}

func TestProber_LogsEveryOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(nil)

	conn := bindLoopback(t, "127.0.0.1", 0)
	r := startResponder(t, conn, replyWith(`{"foo":1}`), nil)

	out := NewProber(r.port()).Probe(context.Background(), "127.0.0.1", time.Second)
	require.False(t, out.Found)

	missing := logs.FilterMessage("No panel at address").
		FilterField(zap.String("address", "127.0.0.1")).All()
	assert.Len(t, missing, 1, "wrong-shape reply must still log the probe outcome")
}

func TestProber_CancelledContext(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.1", 0)
	r := startResponder(t, conn, func([]byte) []byte { return nil }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	out := NewProber(r.port()).Probe(ctx, "127.0.0.1", 5*time.Second)

	assert.False(t, out.Found)
	assert.Less(t, time.Since(start), 2*time.Second, "cancel must abandon the wait")
}

func TestProber_InvalidAddress(t *testing.T) {
	out := NewProber(DefaultPort).Probe(context.Background(), "not-an-ip", time.Second)
	assert.False(t, out.Found)
}

func TestProber_QueryGeometry(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.1", 0)
	r := startResponder(t, conn, func(request []byte) []byte {
		if string(request) != "config\n" {
			return nil
		}
		return []byte(`{"geom": "linear", "num_leds": 16}`)
	}, nil)

	geom, err := NewProber(r.port()).QueryGeometry(context.Background(), "127.0.0.1", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "linear", geom.Geom)
	assert.Equal(t, 16, geom.NumLEDs)
}

func TestProber_QueryGeometryWrongReply(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.1", 0)
	r := startResponder(t, conn, replyWith(`{"type":"controller","dip":1}`), nil)

	_, err := NewProber(r.port()).QueryGeometry(context.Background(), "127.0.0.1", time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoGeometry))
}

func TestProber_ReleasesSockets(t *testing.T) {
	conn := bindLoopback(t, "127.0.0.1", 0)
	r := startResponder(t, conn, func([]byte) []byte { return nil }, nil)
	p := NewProber(r.port())

	// Repeated timeouts must not exhaust descriptors
	for i := 0; i < 200; i++ {
		p.Probe(context.Background(), "127.0.0.1", time.Millisecond)
	}

	out := NewProber(r.port()).Probe(context.Background(), "127.0.0.1", 10*time.Millisecond)
	assert.False(t, out.Found)
}
