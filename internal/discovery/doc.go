// Package discovery finds panel controllers on the local subnet.
//
// Discovery is an active UDP scan. For every host suffix in a configured
// range the Scanner launches a Prober, which sends "enum\n" to the
// candidate's protocol port from a fresh ephemeral socket and waits for one
// reply. A reply is accepted only if it comes from the probed address and
// decodes as {"type":"controller","dip":N}.
//
// # Deadlines
//
// The whole scan is bounded by a global timeout. Each probe gets half of
// it, so unanswered probes normally time out on their own before the scan
// deadline forces them to be abandoned. Abandoned probes close their
// sockets when the scan context is cancelled.
//
// Absence of a panel, a reply of the wrong shape, a reply from another host
// and timeouts are all normal outcomes. Enumerate never fails; an empty
// Registry is a valid result.
//
// # Usage Example
//
//	scanner := discovery.NewScanner(discovery.NewProber(5000))
//	reg := scanner.Enumerate(ctx, "192.168.0.", 50, 65, 2*time.Second)
//	for _, dev := range reg.All() {
//	    fmt.Println(dev)
//	}
//
// # Thread Safety
//
// Registry is safe for concurrent use. Scanner and Prober hold no mutable
// state and may be shared.
package discovery
