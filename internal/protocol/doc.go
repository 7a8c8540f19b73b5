// Package protocol implements the panel controller wire protocol.
//
// Panels speak a line-oriented text protocol over UDP. Commands sent to a
// panel are ASCII lines terminated by '\n'; everything a panel sends back is
// a single UTF-8 JSON object per datagram.
//
// # Outbound Commands
//
//	enum\n                       discovery probe
//	config\n                     LED geometry query
//	lcd:<x>:<y>:<text>\n         write text at column x, row y
//	lcd:clear\n                  clear the display
//	backlight:<b0>:...:<bN>\n    backlight zone states, each 0 or 1
//	led:<base64 frame>\n         RGB LED values
//
// The LED frame is binary: a little-endian uint16 count followed by one
// r, g, b byte triple per LED. The frame is base64 encoded so the command
// stays a single text line.
//
// # Inbound Packets
//
//	{"type":"controller","dip":3}          discovery response
//	{"buttons":[0,1,0,0]}                   button state report
//	{"geom":"linear","num_leds":16}         geometry response
//
// Decode never returns an error. Bad input is classified as KindMalformed
// (not JSON) or KindUnrecognized (JSON of an unknown shape) and callers drop
// it; panels on a shared subnet produce plenty of noise.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package protocol
