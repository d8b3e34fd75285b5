//go:build !windows

package v5serial

import (
	"errors"

	"golang.org/x/sys/unix"
)

// checkAccess reports ErrPermissionDenied before an open is attempted, so the
// usual dialout/uucp group problem surfaces with a clear message. Any other
// failure is left for the open itself to report.
func checkAccess(path string) error {
	err := unix.Access(path, unix.R_OK|unix.W_OK)
	if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
		return ErrPermissionDenied
	}
	return nil
}
