// Package operand resolves dd-style key=value operands into a validated,
// read-only copy plan.
package operand

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bamsammich/ddx/internal/conv"
	"github.com/bamsammich/ddx/internal/size"
)

var (
	ErrInvalidBlockSize  = errors.New("invalid block size")
	ErrUnknownStatusMode = errors.New("unknown status mode")
)

const (
	// DefaultBlockSize applies to ibs, obs and cbs when not given.
	DefaultBlockSize = 512
	// MaxBlockSize bounds ibs, obs and cbs; buffers are allocated from them.
	MaxBlockSize = 1 << 30
)

// Status selects how much the transfer summary reports.
type Status int

const (
	StatusDefault  Status = iota // records and transfer summary
	StatusNone                   // nothing
	StatusNoXfer                 // records only
	StatusProgress               // everything, plus periodic progress
)

var statusNames = [...]string{
	StatusDefault:  "default",
	StatusNone:     "none",
	StatusNoXfer:   "noxfer",
	StatusProgress: "progress",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus maps a status= value to a Status.
func ParseStatus(v string) (Status, error) {
	switch v {
	case "none":
		return StatusNone, nil
	case "noxfer":
		return StatusNoXfer, nil
	case "progress":
		return StatusProgress, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownStatusMode, v)
	}
}

// Operands is a resolved copy plan. Sizes are in bytes; Skip, Seek and Count
// are in blocks of InputBlockSize (Skip, Count) and OutputBlockSize (Seek).
type Operands struct {
	InputPath  string // empty means standard input
	OutputPath string // empty means standard output

	InputBlockSize  uint64
	OutputBlockSize uint64
	ConvBlockSize   uint64

	Skip     uint64
	Seek     uint64
	Count    uint64
	HasCount bool

	Status      Status
	Conversions conv.Set

	// Unknown holds tokens that were not recognized. They are reported as
	// warnings rather than failing resolution.
	Unknown []string
}

// Default returns the plan used when no operands are given.
func Default() Operands {
	return Operands{
		InputBlockSize:  DefaultBlockSize,
		OutputBlockSize: DefaultBlockSize,
		ConvBlockSize:   DefaultBlockSize,
	}
}

// Resolve builds Operands from tokens of the form key=value. Tokens are
// applied in order and later values replace earlier ones, except that bs
// always overrides ibs and obs wherever it appears.
func Resolve(tokens []string) (Operands, error) {
	ops := Default()

	var (
		bs        uint64
		bsGiven   bool
		cbsGiven  bool
		convLists []string
	)

	for _, tok := range tokens {
		key, val, ok := strings.Cut(tok, "=")
		if !ok {
			ops.Unknown = append(ops.Unknown, tok)
			continue
		}

		var err error
		switch key {
		case "if":
			ops.InputPath = val
		case "of":
			ops.OutputPath = val
		case "bs":
			bs, err = blockSize(key, val)
			bsGiven = true
		case "ibs":
			ops.InputBlockSize, err = blockSize(key, val)
		case "obs":
			ops.OutputBlockSize, err = blockSize(key, val)
		case "cbs":
			ops.ConvBlockSize, err = sizeOperand(key, val)
			cbsGiven = true
		case "skip":
			ops.Skip, err = sizeOperand(key, val)
		case "seek":
			ops.Seek, err = sizeOperand(key, val)
		case "count":
			ops.Count, err = sizeOperand(key, val)
			ops.HasCount = true
		case "status":
			if ops.Status, err = ParseStatus(val); err != nil {
				err = fmt.Errorf("invalid status: %w", err)
			}
		case "conv":
			convLists = append(convLists, val)
		default:
			ops.Unknown = append(ops.Unknown, tok)
		}
		if err != nil {
			return Operands{}, err
		}
	}

	if bsGiven {
		ops.InputBlockSize = bs
		ops.OutputBlockSize = bs
	}

	set := conv.Set(0)
	for _, list := range convLists {
		var err error
		if set, err = set.Merge(list); err != nil {
			return Operands{}, fmt.Errorf("invalid conv: %w", err)
		}
	}
	if err := set.Validate(); err != nil {
		return Operands{}, fmt.Errorf("invalid conv: %w", err)
	}
	ops.Conversions = set

	if set.Reframes() {
		if ops.ConvBlockSize == 0 || ops.ConvBlockSize > MaxBlockSize {
			return Operands{}, fmt.Errorf("%w: cbs=%d", ErrInvalidBlockSize, ops.ConvBlockSize)
		}
	} else if cbsGiven && ops.ConvBlockSize > MaxBlockSize {
		return Operands{}, fmt.Errorf("%w: cbs=%d", ErrInvalidBlockSize, ops.ConvBlockSize)
	}

	return ops, nil
}

func sizeOperand(key, val string) (uint64, error) {
	n, err := size.Parse(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func blockSize(key, val string) (uint64, error) {
	n, err := sizeOperand(key, val)
	if err != nil {
		return 0, err
	}
	if n == 0 || n > MaxBlockSize {
		return 0, fmt.Errorf("%w: %s=%s", ErrInvalidBlockSize, key, val)
	}
	return n, nil
}
