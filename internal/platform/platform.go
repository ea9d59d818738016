// Package platform wraps the OS-specific parts of positioning and flushing
// the streams a transfer works on.
package platform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ErrSeekUnsupported reports a stream that cannot be positioned (a pipe,
// a socket, or a reader with no Seek method). Callers fall back to reading
// or writing through the distance instead.
var ErrSeekUnsupported = errors.New("stream does not support seeking")

// Advance moves s forward by off bytes from its current position.
func Advance(s any, off int64) error {
	if off == 0 {
		return nil
	}
	sk, ok := s.(io.Seeker)
	if !ok {
		return ErrSeekUnsupported
	}
	if _, err := sk.Seek(off, io.SeekCurrent); err != nil {
		if isSeekUnsupported(err) {
			return fmt.Errorf("%w: %w", ErrSeekUnsupported, err)
		}
		return err
	}
	return nil
}

// Position returns the current offset of s, or ErrSeekUnsupported.
func Position(s any) (int64, error) {
	sk, ok := s.(io.Seeker)
	if !ok {
		return 0, ErrSeekUnsupported
	}
	pos, err := sk.Seek(0, io.SeekCurrent)
	if err != nil && isSeekUnsupported(err) {
		return 0, fmt.Errorf("%w: %w", ErrSeekUnsupported, err)
	}
	return pos, err
}

func isSeekUnsupported(err error) bool {
	return errors.Is(err, unix.ESPIPE) || errors.Is(err, errors.ErrUnsupported)
}

// IsRegular reports whether f is a regular file. Truncation only makes sense
// for those; devices and pipes are left alone.
func IsRegular(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode().IsRegular()
}

// TruncateRegular sets the size of f if it is a regular file.
func TruncateRegular(f *os.File, size int64) error {
	if !IsRegular(f) {
		return nil
	}
	return f.Truncate(size)
}

// Sync flushes f to stable storage. With dataOnly, metadata that is not
// needed to read the data back (mtime) may be skipped where supported.
func Sync(f *os.File, dataOnly bool) error {
	if dataOnly {
		return datasync(f)
	}
	return f.Sync()
}
