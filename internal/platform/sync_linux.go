//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

//nolint:gosec // G115: fd values are small non-negative integers
func datasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
