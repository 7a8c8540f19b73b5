package command

import (
	"fmt"
	"net"
	"sync"

	"github.com/muurk/panelctl/internal/logging"
	"github.com/muurk/panelctl/internal/protocol"
)

// DefaultPort is the panel protocol port
const DefaultPort = 5000

// Sender writes commands to panels from one shared unconnected UDP socket.
// It is safe for concurrent use.
type Sender struct {
	port int
	conn *net.UDPConn

	closeOnce sync.Once
}

// NewSender opens the outbound socket. port is the panel protocol port.
func NewSender(port int) (*Sender, error) {
	if port <= 0 {
		port = DefaultPort
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("failed to open command socket: %w", err)
	}
	return &Sender{port: port, conn: conn}, nil
}

// Port returns the destination protocol port
func (s *Sender) Port() int {
	return s.port
}

// Close releases the socket
func (s *Sender) Close() error {
	var err error
	s.closeOnce.Do(func() { err = s.conn.Close() })
	return err
}

// SendLCD writes text at column x, row y
func (s *Sender) SendLCD(address string, x, y int, text string) error {
	payload, err := protocol.EncodeLCD(x, y, text)
	if err != nil {
		return encodingError(protocol.CmdLCD, address, err)
	}
	return s.send(protocol.CmdLCD, address, payload)
}

// ClearLCD blanks the display
func (s *Sender) ClearLCD(address string) error {
	return s.send(protocol.CmdLCD, address, protocol.EncodeLCDClear())
}

// SendBacklights sets each backlight zone on or off, in order
func (s *Sender) SendBacklights(address string, states []bool) error {
	payload, err := protocol.EncodeBacklight(states)
	if err != nil {
		return encodingError(protocol.CmdBacklight, address, err)
	}
	return s.send(protocol.CmdBacklight, address, payload)
}

// SendLEDs sets the RGB LEDs, in order
func (s *Sender) SendLEDs(address string, colors []protocol.RGB) error {
	payload, err := protocol.EncodeLED(colors)
	if err != nil {
		return encodingError(protocol.CmdLED, address, err)
	}
	return s.send(protocol.CmdLED, address, payload)
}

func (s *Sender) send(command, address string, payload []byte) error {
	ip := net.ParseIP(address).To4()
	if ip == nil {
		return &DeliveryError{
			Type:    ErrTypeAddress,
			Command: command,
			Address: address,
			Err:     fmt.Errorf("not an IPv4 address"),
		}
	}

	dst := &net.UDPAddr{IP: ip, Port: s.port}
	if _, err := s.conn.WriteToUDP(payload, dst); err != nil {
		return ClassifyNetworkError(err, command, address)
	}
	logging.LogPacket("sent", dst.String(), payload)
	return nil
}

func encodingError(command, address string, err error) *DeliveryError {
	return &DeliveryError{
		Type:    ErrTypeEncoding,
		Command: command,
		Address: address,
		Err:     err,
	}
}
