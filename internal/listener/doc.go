// Package listener receives unsolicited button reports from panels.
//
// Panels push {"buttons":[...]} datagrams to the protocol port of the host
// that drives them. Exactly one Listener may own that port per process:
// Bind refuses a second binding with ErrAlreadyBound instead of letting
// two sockets race for the same datagrams.
//
// Run reads one datagram at a time, decodes it and looks the source
// address up in a Directory (normally a *discovery.Registry). Reports from
// unknown panels, panels without a callback and packets of any other shape
// are dropped. Callbacks run on a per-panel dispatch goroutine so a slow
// callback never stalls the receive loop or other panels; reports for one
// panel are delivered in arrival order.
//
// Receive errors are retried after a short backoff. Run returns only when
// its context is cancelled or Close is called.
package listener
