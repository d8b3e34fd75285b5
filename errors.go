package v5serial

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("VEX device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrInvalidConfig    = errors.New("invalid serial configuration")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrNotConnected     = errors.New("no active connection")
	ErrConnectionClosed = errors.New("connection is closed")

	// USB-related errors
	ErrUSBInfoNotAvailable  = errors.New("USB device information not available")
	ErrUSBResetNotAvailable = errors.New("usbreset utility not available")
)

// EnumerationError reports a failed device query.
type EnumerationError struct {
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerating devices: %v", e.Err)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

// DeviceNotFoundError reports a port absent from a fresh enumeration.
type DeviceNotFoundError struct {
	Port string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("no VEX device found at port %s", e.Port)
}

// Is lets errors.Is(err, ErrDeviceNotFound) match.
func (e *DeviceNotFoundError) Is(target error) bool {
	return target == ErrDeviceNotFound
}

// ConnectionError reports a failed open of a device's system port.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
