//go:build !linux

package v5serial

// The enumerator already reports everything available off Linux.
func enrichUSBInfo(info *PortInfo) {}
