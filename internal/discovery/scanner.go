package discovery

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/logging"
)

const (
	// DefaultBasePrefix is the /24 prefix scanned when none is configured
	DefaultBasePrefix = "192.168.0."

	// DefaultRangeStart and DefaultRangeEnd bound the host suffixes scanned
	DefaultRangeStart = 50
	DefaultRangeEnd   = 65

	// DefaultScanTimeout is the default global discovery deadline
	DefaultScanTimeout = 2 * time.Second
)

// ProbeFunc probes one address under a per-probe deadline
type ProbeFunc func(ctx context.Context, address string, deadline time.Duration) Outcome

// Scanner fans out one probe per candidate address
type Scanner struct {
	// Probe is called once per candidate, concurrently
	Probe ProbeFunc

	// OnOutcome, if set, is called for every outcome that arrives before the
	// deadline. It runs on the Enumerate goroutine.
	OnOutcome func(Outcome)
}

// NewScanner creates a scanner that probes with p
func NewScanner(p *Prober) *Scanner {
	return &Scanner{Probe: p.Probe}
}

// Candidates builds one address per suffix in [start, end]. prefix may be
// given with or without its trailing dot. The range is clamped to 0..255 and
// addresses that do not parse as IPv4 are skipped.
func Candidates(prefix string, start, end int) []string {
	start = max(start, 0)
	end = min(end, 255)
	if start > end {
		return nil
	}
	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}

	candidates := make([]string, 0, end-start+1)
	for suffix := start; suffix <= end; suffix++ {
		addr := prefix + strconv.Itoa(suffix)
		if ip := net.ParseIP(addr); ip == nil || ip.To4() == nil {
			continue
		}
		candidates = append(candidates, addr)
	}
	return candidates
}

// Enumerate probes every candidate in [start, end] concurrently and
// returns a fresh Registry holding the panels that answered. Each probe gets
// timeout/2; the scan as a whole returns no later than timeout, abandoning
// probes that are still pending. Enumerate never fails.
func (s *Scanner) Enumerate(ctx context.Context, prefix string, start, end int, timeout time.Duration) *Registry {
	reg := NewRegistry()

	candidates := Candidates(prefix, start, end)
	if len(candidates) == 0 {
		logging.Warn("No candidate addresses to scan",
			zap.String("prefix", prefix),
			zap.Int("start", start),
			zap.Int("end", end),
		)
		return reg
	}
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	perProbe := timeout / 2
	began := time.Now()

	// Buffered so probes finishing after the deadline never block
	results := make(chan Outcome, len(candidates))
	for _, addr := range candidates {
		go func(addr string) {
			results <- s.Probe(ctx, addr, perProbe)
		}(addr)
	}

	for pending := len(candidates); pending > 0; pending-- {
		select {
		case out := <-results:
			if s.OnOutcome != nil {
				s.OnOutcome(out)
			}
			if out.Found {
				reg.Insert(out.Address, out.DIP)
			}
		case <-ctx.Done():
			logging.Debug("Scan deadline reached, abandoning pending probes",
				zap.Int("pending", pending),
			)
			return s.finish(reg, len(candidates), began)
		}
	}

	return s.finish(reg, len(candidates), began)
}

func (s *Scanner) finish(reg *Registry, probed int, began time.Time) *Registry {
	logging.Info("Scan complete",
		zap.Int("probed", probed),
		zap.Int("found", reg.Len()),
		zap.Duration("elapsed", time.Since(began)),
	)
	return reg
}
