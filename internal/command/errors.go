package command

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// ErrorType represents the category of a delivery failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a generic network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the write timed out
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates an ICMP port unreachable surfaced on the socket
	ErrTypeConnectionRefused
	// ErrTypeHostUnreachable indicates no route to the panel
	ErrTypeHostUnreachable
	// ErrTypeNetworkUnreachable indicates the panel's network is not reachable
	ErrTypeNetworkUnreachable
	// ErrTypeAddress indicates the panel address could not be parsed
	ErrTypeAddress
	// ErrTypeEncoding indicates the command arguments could not be encoded
	ErrTypeEncoding
	// ErrTypeClosed indicates the sender was already closed
	ErrTypeClosed
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeHostUnreachable:
		return "Host Unreachable"
	case ErrTypeNetworkUnreachable:
		return "Network Unreachable"
	case ErrTypeAddress:
		return "Invalid Address"
	case ErrTypeEncoding:
		return "Encoding Error"
	case ErrTypeClosed:
		return "Sender Closed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeliveryError reports that a command could not be handed to the transport
type DeliveryError struct {
	Type      ErrorType // Category of error
	Command   string    // Command token (e.g., "lcd")
	Address   string    // Panel address
	Err       error     // Underlying error
	Retryable bool      // Whether trying again may succeed
}

// Error implements the error interface
func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s to %s (caused by: %v)", e.Type, e.Command, e.Address, e.Err)
	}
	return fmt.Sprintf("%s: %s to %s", e.Type, e.Command, e.Address)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a socket error to a DeliveryError
func ClassifyNetworkError(err error, command, address string) *DeliveryError {
	if err == nil {
		return nil
	}

	de := &DeliveryError{
		Type:      ErrTypeNetwork,
		Command:   command,
		Address:   address,
		Err:       err,
		Retryable: true,
	}

	switch {
	case errors.Is(err, net.ErrClosed):
		de.Type = ErrTypeClosed
		de.Retryable = false
	case os.IsTimeout(err):
		de.Type = ErrTypeTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		de.Type = ErrTypeConnectionRefused
	case errors.Is(err, syscall.EHOSTUNREACH):
		de.Type = ErrTypeHostUnreachable
	case errors.Is(err, syscall.ENETUNREACH):
		de.Type = ErrTypeNetworkUnreachable
	}
	return de
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Retryable
	}
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) []string {
	var de *DeliveryError
	if !errors.As(err, &de) {
		return nil
	}

	switch de.Type {
	case ErrTypeHostUnreachable, ErrTypeNetworkUnreachable:
		return []string{
			"Verify the panel address is correct",
			"Check that this machine is on the panel's subnet",
			"Run 'panelctl scan' to list reachable panels",
		}
	case ErrTypeConnectionRefused:
		return []string{
			"Something at " + de.Address + " rejected the datagram",
			"Check the protocol port (--port, default 5000)",
		}
	case ErrTypeAddress:
		return []string{"Panel addresses are IPv4 literals such as 192.168.0.50"}
	case ErrTypeEncoding:
		return []string{"Check the command arguments"}
	default:
		return []string{
			"Check your network connection",
			"Ensure the panel is powered on",
		}
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var de *DeliveryError
	if !errors.As(err, &de) {
		return err.Error()
	}

	switch de.Type {
	case ErrTypeEncoding:
		return fmt.Sprintf("Invalid %s command: %v", de.Command, de.Err)
	case ErrTypeAddress:
		return fmt.Sprintf("Invalid panel address %q", de.Address)
	default:
		return fmt.Sprintf("Could not send %s to %s (%s)", de.Command, de.Address, de.Type)
	}
}
