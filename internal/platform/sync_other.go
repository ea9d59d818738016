//go:build !linux

package platform

import "os"

// datasync falls back to a full sync; fdatasync(2) is Linux-only.
func datasync(f *os.File) error {
	return f.Sync()
}
