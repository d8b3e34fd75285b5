package v5serial

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// resetSettleDelay is how long a brain takes to re-enumerate after a reset
var resetSettleDelay = 2 * time.Second

// Reset performs a USB-level reset of the VEX device behind port. This can
// recover a brain that stopped answering without unplugging it. If the
// active connection is on any port of the same USB device it is closed first.
//
// Requirements:
// - Linux, with bus/device numbers available in sysfs
// - usbreset utility (usbutils package) and permission to use it
//
// The port name may change once the device re-enumerates.
func (m *Manager) Reset(ctx context.Context, port string) error {
	m.connectMu.Lock()
	defer m.connectMu.Unlock()

	ports, err := m.enum.Ports(ctx)
	if err != nil {
		return &EnumerationError{Err: err}
	}

	var target *PortInfo
	for i := range ports {
		if ports[i].Name == port && isVendorPort(ports[i]) {
			target = &ports[i]
			break
		}
	}
	if target == nil {
		return &DeviceNotFoundError{Port: port}
	}

	if cur := m.Current(); cur != nil && sameUSBDevice(ports, *target, cur.Port()) {
		if err := m.Disconnect(); err != nil {
			m.log.Warn("closing connection before reset", zap.Error(err))
		}
	}

	m.log.Info("resetting USB device", zap.String("port", port),
		zap.String("bus", target.BusNumber), zap.String("device", target.DeviceNumber))
	return m.reset(ctx, *target)
}

// sameUSBDevice reports whether name is target's port or another interface of
// the same USB device, matched by bus/device number or serial number
func sameUSBDevice(ports []PortInfo, target PortInfo, name string) bool {
	if name == target.Name {
		return true
	}
	for _, p := range ports {
		if p.Name != name || !isVendorPort(p) {
			continue
		}
		if target.BusNumber != "" && target.DeviceNumber != "" &&
			p.BusNumber == target.BusNumber && p.DeviceNumber == target.DeviceNumber {
			return true
		}
		if target.SerialNumber != "" && p.SerialNumber == target.SerialNumber {
			return true
		}
	}
	return false
}

func resetUSBDevice(ctx context.Context, info PortInfo) error {
	usbPath, err := usbDevicePath(info.BusNumber, info.DeviceNumber)
	if err != nil {
		return err
	}

	if !IsUSBResetAvailable() {
		return ErrUSBResetNotAvailable
	}

	cmd := exec.CommandContext(ctx, "usbreset", usbPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("usbreset failed: %w (output: %s)", err, string(output))
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(resetSettleDelay):
		return nil
	}
}

// usbDevicePath formats bus and device numbers the way usbreset expects (BBB/DDD)
func usbDevicePath(bus, device string) (string, error) {
	if bus == "" || device == "" {
		return "", ErrUSBInfoNotAvailable
	}
	b, err := strconv.Atoi(bus)
	if err != nil {
		return "", fmt.Errorf("%w: bus %q", ErrUSBInfoNotAvailable, bus)
	}
	d, err := strconv.Atoi(device)
	if err != nil {
		return "", fmt.Errorf("%w: device %q", ErrUSBInfoNotAvailable, device)
	}
	return fmt.Sprintf("%03d/%03d", b, d), nil
}

// IsUSBResetAvailable checks if usbreset utility is available in PATH
func IsUSBResetAvailable() bool {
	_, err := exec.LookPath("usbreset")
	return err == nil
}
