package v5serial

import (
	"context"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortInfo is one serial port as reported by the operating system
type PortInfo struct {
	Name         string // system port identifier, e.g. /dev/ttyACM0 or COM3
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string

	// Filled from sysfs on Linux, empty elsewhere
	Interface    string
	BusNumber    string
	DeviceNumber string
}

// Enumerator queries the host for attached serial ports
type Enumerator interface {
	Ports(ctx context.Context) ([]PortInfo, error)
}

// EnumeratorFunc adapts a function to the Enumerator interface
type EnumeratorFunc func(ctx context.Context) ([]PortInfo, error)

func (f EnumeratorFunc) Ports(ctx context.Context) ([]PortInfo, error) {
	return f(ctx)
}

// allow tests to replace the OS query
var getDetailedPortsList = enumerator.GetDetailedPortsList

// SystemEnumerator lists USB serial ports through go.bug.st/serial.
type SystemEnumerator struct{}

var _ Enumerator = SystemEnumerator{}

func (SystemEnumerator) Ports(ctx context.Context) ([]PortInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	details, err := getDetailedPortsList()
	if err != nil {
		return nil, err
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil || !d.IsUSB {
			continue
		}
		info := PortInfo{
			Name:         d.Name,
			VendorID:     strings.ToLower(d.VID),
			ProductID:    strings.ToLower(d.PID),
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		}
		enrichUSBInfo(&info)
		ports = append(ports, info)
	}
	return ports, nil
}

// FindDevices runs a fresh enumeration and returns the VEX devices found,
// in enumeration order. An empty result is not an error.
func FindDevices(ctx context.Context, e Enumerator) ([]Device, error) {
	ports, err := e.Ports(ctx)
	if err != nil {
		return nil, &EnumerationError{Err: err}
	}
	return groupDevices(ports), nil
}

// SystemPorts extracts the connectable system ports of devices, preserving order.
func SystemPorts(devices []Device) []string {
	ports := make([]string, 0, len(devices))
	for _, d := range devices {
		if d.Connectable() {
			ports = append(ports, d.SystemPort)
		}
	}
	return ports
}
