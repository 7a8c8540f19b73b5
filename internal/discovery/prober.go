package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/logging"
	"github.com/muurk/panelctl/internal/protocol"
)

const (
	// DefaultPort is the panel protocol port
	DefaultPort = 5000

	// MaxPacketSize bounds a single inbound datagram
	MaxPacketSize = 1024
)

// ErrNoGeometry is returned when a panel answers a config query with
// something other than a geometry report
var ErrNoGeometry = errors.New("panel did not report its geometry")

// Outcome is the result of probing one address
type Outcome struct {
	Found   bool
	Address string
	DIP     int
}

// Prober sends a single request to a candidate address and correlates one
// reply under a deadline.
type Prober struct {
	// Port is the panel protocol port probes are sent to
	Port int

	// LocalAddr is the local IP the ephemeral socket binds to; nil binds all
	LocalAddr net.IP
}

// NewProber creates a prober targeting the given protocol port
func NewProber(port int) *Prober {
	if port <= 0 {
		port = DefaultPort
	}
	return &Prober{Port: port}
}

// Probe sends the discovery probe to address and reports whether a panel
// answered. Datagrams from other hosts are ignored while waiting. Every
// failure mode (timeout, wrong shape, socket errors, cancelled ctx) is
// reported as NotFound.
func (p *Prober) Probe(ctx context.Context, address string, deadline time.Duration) Outcome {
	start := time.Now()
	notFound := Outcome{Address: address}

	reply, err := p.exchange(ctx, address, protocol.EncodeEnum(), deadline)
	if err != nil {
		if !isTimeout(err) && ctx.Err() == nil {
			logging.Debug("Probe failed",
				zap.String("address", address),
				zap.Error(err),
			)
		}
		logging.LogProbe(address, false, 0, time.Since(start))
		return notFound
	}

	result := protocol.Decode(reply)
	if result.Kind != protocol.KindDiscovery {
		logging.Debug("Probe answered with wrong shape",
			zap.String("address", address),
			zap.Stringer("kind", result.Kind),
		)
		logging.LogProbe(address, false, 0, time.Since(start))
		return notFound
	}

	logging.LogProbe(address, true, result.DIP, time.Since(start))
	return Outcome{Found: true, Address: address, DIP: result.DIP}
}

// QueryGeometry asks the panel at address for its LED layout.
func (p *Prober) QueryGeometry(ctx context.Context, address string, deadline time.Duration) (protocol.Geometry, error) {
	reply, err := p.exchange(ctx, address, protocol.EncodeConfigQuery(), deadline)
	if err != nil {
		return protocol.Geometry{}, fmt.Errorf("geometry query to %s: %w", address, err)
	}

	result := protocol.Decode(reply)
	if result.Kind != protocol.KindGeometry {
		return protocol.Geometry{}, fmt.Errorf("%w: got %s reply from %s", ErrNoGeometry, result.Kind, address)
	}
	return result.Geometry, nil
}

// exchange sends request from a fresh ephemeral socket and returns the first
// datagram the target sends back. The socket is closed on every path; cancelling
// ctx closes it early, which unblocks the read.
func (p *Prober) exchange(ctx context.Context, address string, request []byte, deadline time.Duration) ([]byte, error) {
	target := net.ParseIP(address).To4()
	if target == nil {
		return nil, fmt.Errorf("invalid IPv4 address %q", address)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: p.LocalAddr, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("failed to open probe socket: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.SetReadDeadline(time.Now().Add(deadline)); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}

	dst := &net.UDPAddr{IP: target, Port: p.Port}
	if _, err := conn.WriteToUDP(request, dst); err != nil {
		return nil, fmt.Errorf("failed to send probe: %w", err)
	}
	logging.LogPacket("sent", dst.String(), request)

	// Datagrams from other hosts are discarded; only the probed address can
	// answer, until the read deadline passes or ctx ends.
	buf := make([]byte, MaxPacketSize)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
		logging.LogPacket("received", src.String(), buf[:n])

		if !src.IP.Equal(target) {
			logging.Debug("Ignoring reply from unexpected source",
				zap.String("probed", address),
				zap.String("source", src.IP.String()),
			)
			continue
		}
		return buf[:n], nil
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
