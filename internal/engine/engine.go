// Package engine runs a single block copy: position both streams, move the
// input through the conversion pipeline one block at a time, and account for
// every record read and written.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bamsammich/ddx/internal/conv"
	"github.com/bamsammich/ddx/internal/event"
	"github.com/bamsammich/ddx/internal/operand"
	"github.com/bamsammich/ddx/internal/platform"
	"github.com/bamsammich/ddx/internal/stats"
)

var (
	ErrOpen  = errors.New("open failed")
	ErrRead  = errors.New("read failed")
	ErrWrite = errors.New("write failed")
)

// DefaultProgressEvery is the number of input blocks between progress events.
const DefaultProgressEvery = 2048

// Config describes a copy operation.
type Config struct {
	Operands operand.Operands

	// Stdin and Stdout are used when no input or output path is given.
	// They default to os.Stdin and os.Stdout and are never closed.
	Stdin  io.Reader
	Stdout io.Writer

	// Events, if set, receives state changes, progress and tolerated read
	// failures. Sends block, so the consumer must keep draining.
	Events        chan<- event.Event
	Stats         *stats.Collector
	ProgressEvery uint64

	BWLimit  int64 // output bytes per second, 0 for unlimited
	Checksum bool  // compute a BLAKE3 digest of the bytes written
}

// Result is the outcome of a copy operation.
type Result struct {
	Stats  stats.Snapshot
	State  State  // Done or Aborted
	Digest string // hex BLAKE3 of the output, when Config.Checksum is set
	Err    error
}

type run struct {
	cfg  Config
	ops  operand.Operands
	conv conv.Set
	ibs  int
	obs  int

	in      io.Reader
	out     io.Writer
	outFile *os.File
	sink    io.Writer
	owned   []*os.File

	converter *conv.Converter
	stats     *stats.Collector
	hash      *digest
	obuf      []byte

	sparse      bool
	pendingHole bool
	blocks      uint64
	state       State
}

// Run executes a copy operation, blocking until complete. Operands must
// already be resolved; Run performs no operand validation beyond what is
// needed to size its buffers.
func Run(ctx context.Context, cfg Config) Result {
	r := newRun(cfg)

	err := r.execute(ctx)
	if cerr := r.closeAll(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: close output: %w", ErrWrite, cerr)
	}
	r.stats.AddTruncated(r.converter.Truncated())
	snap := r.stats.Finish()

	res := Result{Stats: snap, Err: err}
	if err != nil {
		r.setState(Aborted)
		slog.Debug("copy aborted", "error", err, "stats", snap)
	} else {
		r.setState(Done)
	}
	res.State = r.state
	res.Digest = r.hash.Hex()
	return res
}

func newRun(cfg Config) *run {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}

	ops := cfg.Operands
	r := &run{
		cfg:    cfg,
		ops:    ops,
		conv:   ops.Conversions,
		ibs:    int(ops.InputBlockSize),  //nolint:gosec // G115: bounded by operand.MaxBlockSize
		obs:    int(ops.OutputBlockSize), //nolint:gosec // G115: bounded by operand.MaxBlockSize
		stats:  cfg.Stats,
		sparse: ops.Conversions.Has(conv.Sparse),
	}
	r.converter = conv.NewConverter(ops.Conversions, r.ibs, int(ops.ConvBlockSize)) //nolint:gosec // G115: bounded by operand.MaxBlockSize
	r.obuf = make([]byte, 0, r.obs)
	r.hash = newDigest(cfg.Checksum)
	return r
}

func (r *run) execute(ctx context.Context) error {
	r.setState(Positioning)
	if err := r.open(); err != nil {
		return err
	}
	if err := r.position(ctx); err != nil {
		return err
	}

	r.setState(Transferring)
	if err := r.transfer(ctx); err != nil {
		return err
	}

	r.setState(Finalizing)
	return r.finalize()
}

func (r *run) open() error {
	r.in = r.cfg.Stdin
	if r.ops.InputPath != "" {
		f, err := os.Open(r.ops.InputPath)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOpen, err)
		}
		r.owned = append(r.owned, f)
		r.in = f
	}

	r.out = r.cfg.Stdout
	if r.ops.OutputPath != "" {
		flags := os.O_WRONLY
		if !r.conv.Has(conv.NoCreat) {
			flags |= os.O_CREATE
		}
		if r.conv.Has(conv.Excl) {
			flags |= os.O_EXCL
		}
		f, err := os.OpenFile(r.ops.OutputPath, flags, 0o666)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOpen, err)
		}
		r.owned = append(r.owned, f)
		r.out = f
	}
	if f, ok := r.out.(*os.File); ok {
		r.outFile = f
	}

	r.sink = r.out
	if r.cfg.BWLimit > 0 {
		r.sink = newRateLimitedWriter(r.out, NewBWLimiter(r.cfg.BWLimit))
	}
	return nil
}

// closeAll closes the files Run opened. Only the output's close error is
// returned; it can carry a deferred write failure.
func (r *run) closeAll() error {
	var outErr error
	for _, f := range r.owned {
		err := f.Close()
		if f == r.outFile && r.ops.OutputPath != "" {
			outErr = err
		}
	}
	r.owned = nil
	return outErr
}

func (r *run) finalize() error {
	if len(r.obuf) > 0 {
		if err := r.writeBlock(r.obuf); err != nil {
			return err
		}
		r.obuf = r.obuf[:0]
	}

	if r.pendingHole {
		if err := r.settleHole(); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	if r.outFile != nil && (r.conv.Has(conv.FSync) || r.conv.Has(conv.FDataSync)) {
		if err := platform.Sync(r.outFile, !r.conv.Has(conv.FSync)); err != nil {
			return fmt.Errorf("%w: sync: %w", ErrWrite, err)
		}
	}
	return nil
}

func (r *run) setState(s State) {
	r.state = s
	slog.Debug("engine state", "state", s)
	r.send(event.Event{Type: event.StateChanged, State: s.String()})
}

func (r *run) send(ev event.Event) {
	if r.cfg.Events == nil {
		return
	}
	ev.Timestamp = time.Now()
	r.cfg.Events <- ev
}
