//go:build linux

package v5serial

import (
	"os"
	"path/filepath"
	"strings"
)

// sysfsRoot is swapped out by tests
var sysfsRoot = "/sys"

// readSysfsFile returns the trimmed content of a sysfs attribute, or "" when
// it cannot be read
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// enrichUSBInfo fills USB metadata from sysfs.
//
// /sys/class/tty/<name>/device links to the interface directory of the USB
// function; its parent is the USB device carrying idVendor, busnum and friends.
// Fields already set by the enumerator are kept.
func enrichUSBInfo(info *PortInfo) {
	name := filepath.Base(info.Name)
	devicePath := filepath.Join(sysfsRoot, "class", "tty", name, "device")

	interfacePath, err := filepath.EvalSymlinks(devicePath)
	if err != nil {
		return
	}
	info.Interface = readSysfsFile(filepath.Join(interfacePath, "bInterfaceNumber"))

	usbDevicePath := filepath.Dir(interfacePath)
	fill := func(dst *string, attr string) {
		if *dst == "" {
			*dst = readSysfsFile(filepath.Join(usbDevicePath, attr))
		}
	}
	fill(&info.VendorID, "idVendor")
	fill(&info.ProductID, "idProduct")
	fill(&info.SerialNumber, "serial")
	fill(&info.Product, "product")
	fill(&info.BusNumber, "busnum")
	fill(&info.DeviceNumber, "devnum")
}
