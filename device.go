package v5serial

import "strings"

// VEX Robotics USB identifiers.
const (
	VendorID = "2888"

	ProductV5Brain       = "0501"
	ProductV5Controller  = "0503"
	ProductEXPBrain      = "0600"
	ProductEXPController = "0610"
)

// USB interface numbers of the two brain ports
const (
	systemInterface = "00"
	userInterface   = "02"
)

// DeviceKind classifies an attached VEX device
type DeviceKind int

const (
	KindUnknown DeviceKind = iota
	KindBrain
	KindController
)

func (k DeviceKind) String() string {
	switch k {
	case KindBrain:
		return "brain"
	case KindController:
		return "controller"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k DeviceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Device describes one attached VEX device. It is only valid for the
// enumeration call that produced it.
type Device struct {
	Kind         DeviceKind `json:"kind"`
	SystemPort   string     `json:"system_port"`
	UserPort     string     `json:"user_port,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	Product      string     `json:"product,omitempty"`
	VendorID     string     `json:"vid"`
	ProductID    string     `json:"pid"`
}

// Connectable reports whether the device exposes a system port.
func (d Device) Connectable() bool {
	return d.SystemPort != ""
}

func kindOf(productID string) DeviceKind {
	switch strings.ToLower(productID) {
	case ProductV5Brain, ProductEXPBrain:
		return KindBrain
	case ProductV5Controller, ProductEXPController:
		return KindController
	default:
		return KindUnknown
	}
}

func isVendorPort(p PortInfo) bool {
	return strings.EqualFold(p.VendorID, VendorID)
}

// portRole decides whether a brain port is the user port. The second result
// is false when nothing on the port identifies its role.
func portRole(p PortInfo) (user bool, known bool) {
	switch p.Interface {
	case systemInterface:
		return false, true
	case userInterface:
		return true, true
	}
	product := strings.ToLower(p.Product)
	switch {
	case strings.Contains(product, "user"):
		return true, true
	case strings.Contains(product, "communication"):
		return false, true
	}
	return false, false
}

// groupDevices folds vendor ports into devices, keeping the order in which
// each device was first seen. Brain ports sharing a serial number are paired.
func groupDevices(ports []PortInfo) []Device {
	devices := make([]Device, 0, len(ports))
	brains := make(map[string]int)

	for _, p := range ports {
		if !isVendorPort(p) {
			continue
		}

		kind := kindOf(p.ProductID)
		if kind != KindBrain {
			devices = append(devices, Device{
				Kind:         kind,
				SystemPort:   p.Name,
				SerialNumber: p.SerialNumber,
				Product:      p.Product,
				VendorID:     strings.ToLower(p.VendorID),
				ProductID:    strings.ToLower(p.ProductID),
			})
			continue
		}

		user, known := portRole(p)

		idx, seen := -1, false
		if p.SerialNumber != "" {
			idx, seen = brains[p.SerialNumber]
		}
		if !seen {
			d := Device{
				Kind:         KindBrain,
				SerialNumber: p.SerialNumber,
				Product:      p.Product,
				VendorID:     strings.ToLower(p.VendorID),
				ProductID:    strings.ToLower(p.ProductID),
			}
			if user {
				d.UserPort = p.Name
			} else {
				d.SystemPort = p.Name
			}
			devices = append(devices, d)
			if p.SerialNumber != "" {
				brains[p.SerialNumber] = len(devices) - 1
			}
			continue
		}

		d := &devices[idx]
		switch {
		case known && user:
			d.UserPort = p.Name
		case known:
			// An explicit system port wins over one placed by order.
			if d.SystemPort != "" && d.UserPort == "" {
				d.UserPort = d.SystemPort
			}
			d.SystemPort = p.Name
		case d.SystemPort == "":
			d.SystemPort = p.Name
		default:
			d.UserPort = p.Name
		}
	}

	return devices
}
