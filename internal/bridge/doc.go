// Package bridge exposes panels to WebSocket clients.
//
// Each client connecting to /ws gets a session id and the current device
// list, then every button report as it arrives:
//
//	{"type":"devices","session":"…","devices":[{"address":"192.168.0.50","dip":3}]}
//	{"type":"buttons","address":"192.168.0.50","dip":3,"buttons":[0,1,0]}
//
// Clients drive panels with requests of the same shape:
//
//	{"type":"lcd","address":"192.168.0.50","x":0,"y":1,"text":"hi"}
//	{"type":"clear","address":"192.168.0.50"}
//	{"type":"backlight","address":"192.168.0.50","states":[1,0,1]}
//	{"type":"led","address":"192.168.0.50","colors":[[255,0,0],[0,0,255]]}
//
// Every request is answered with {"type":"ok",…} or {"type":"error",…}.
// Requests for addresses the registry does not know are refused. Clients
// that stop reading are disconnected rather than allowed to stall others.
//
// With Advertise set the bridge announces itself over mDNS as
// _panelctl._tcp with a devices=<n> TXT record.
package bridge
