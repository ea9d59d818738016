// Package size parses dd-style size operands ("512", "4K", "1MiB", "2kB")
// into exact byte counts.
package size

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

var (
	ErrEmptyInput    = errors.New("empty size")
	ErrInvalidFormat = errors.New("size must start with a decimal digit")
	ErrUnknownUnit   = errors.New("unknown size unit")
	ErrOverflow      = errors.New("size overflows 64 bits")
)

// units maps a suffix to its multiplier. Lookup is exact and case-sensitive:
// "kB" is decimal, "K" and "KiB" are binary, "Kb" is unknown.
var units = map[string]uint64{
	"":    1,
	"k":   1 << 10,
	"K":   1 << 10,
	"KiB": 1 << 10,
	"kB":  1e3,
	"M":   1 << 20,
	"MiB": 1 << 20,
	"MB":  1e6,
	"G":   1 << 30,
	"GiB": 1 << 30,
	"GB":  1e9,
	"T":   1 << 40,
	"TiB": 1 << 40,
	"TB":  1e12,
	"P":   1 << 50,
	"PiB": 1 << 50,
	"PB":  1e15,
	"E":   1 << 60,
	"EiB": 1 << 60,
	"EB":  1e18,
}

// Parse converts s into a byte count. The value is the leading decimal digit
// run multiplied by the unit named by the remainder of s. Nothing is rounded;
// a value that does not fit in a uint64 fails with ErrOverflow.
func Parse(s string) (uint64, error) {
	if s == "" {
		return 0, ErrEmptyInput
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	multiplier, ok := units[s[i:]]
	if !ok {
		return 0, fmt.Errorf("%w %q in %q", ErrUnknownUnit, s[i:], s)
	}

	n, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		// Only digits reach ParseUint, so the one possible failure is range.
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}

	v, err := Mul(n, multiplier)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return v, nil
}

// Mul returns a*b, or ErrOverflow if the product does not fit in a uint64.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// Offset converts a block count into a byte offset usable with io.Seeker.
func Offset(blocks, blockSize uint64) (int64, error) {
	v, err := Mul(blocks, blockSize)
	if err != nil || v > 1<<63-1 {
		return 0, fmt.Errorf("%w: %d blocks of %d bytes", ErrOverflow, blocks, blockSize)
	}
	return int64(v), nil
}
