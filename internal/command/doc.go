// Package command sends fire-and-forget commands to panel controllers.
//
// Every call encodes one command with the protocol package and writes it as
// a single UDP datagram to the panel's protocol port. Panels never
// acknowledge commands and the Sender never retries; a nil error only means
// the datagram was handed to the kernel. Callers that care about ordering
// to one panel must serialize their own calls.
//
// Transport failures come back as *DeliveryError, classified so the CLI can
// print a useful hint.
package command
