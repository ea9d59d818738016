package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/bamsammich/ddx/internal/conv"
	"github.com/bamsammich/ddx/internal/event"
	"github.com/bamsammich/ddx/internal/operand"
	"github.com/bamsammich/ddx/internal/platform"
)

// maxEmptyReads bounds consecutive (0, nil) reads before giving up, as
// bufio does.
const maxEmptyReads = 100

// chunk is one input block. data aliases the read buffer and is only valid
// until the sequence advances. n is the number of bytes actually read.
// substituted marks the NUL block standing in for a failed read under sync.
type chunk struct {
	data        []byte
	n           int
	substituted bool
}

func (r *run) transfer(ctx context.Context) error {
	for c, err := range r.chunks(ctx) {
		if err != nil {
			return err
		}
		if c.n > 0 || c.substituted {
			r.stats.AddIn(c.n, r.ibs)
		}
		if err := r.emit(r.converter.Apply(c.data, false)); err != nil {
			return err
		}
		r.blocks++
		if r.ops.Status == operand.StatusProgress && r.blocks%r.cfg.ProgressEvery == 0 {
			r.send(event.Event{
				Type:  event.Progress,
				Block: r.blocks,
				Bytes: r.stats.Snapshot().Bytes,
			})
		}
	}
	return r.emit(r.converter.Apply(nil, true))
}

// chunks yields input blocks until EOF or until Count records have been
// read. Each block comes from a single Read, so a short read is a partial
// block. A tolerated read failure only uses up a record when sync
// substitutes a block for it. A fatal error is yielded once and ends the
// sequence.
func (r *run) chunks(ctx context.Context) iter.Seq2[chunk, error] {
	return func(yield func(chunk, error) bool) {
		buf := make([]byte, r.ibs)
		var records uint64
		for !r.ops.HasCount || records < r.ops.Count {
			if err := ctx.Err(); err != nil {
				yield(chunk{}, err)
				return
			}

			block := records
			n, err := readBlock(r.in, buf)
			if n == 0 && isEOF(err) {
				return
			}
			if n > 0 {
				records++
				if !yield(chunk{data: buf[:n], n: n}, nil) {
					return
				}
			}
			if err == nil {
				continue
			}
			if isEOF(err) {
				return
			}

			if ferr := r.readFailed(block, n, err); ferr != nil {
				yield(chunk{}, ferr)
				return
			}
			if n == 0 && r.conv.Has(conv.Sync) {
				records++
				clear(buf)
				if !yield(chunk{data: buf, substituted: true}, nil) {
					return
				}
			}
		}
	}
}

// readFailed decides whether a read error on block is fatal. With noerror it
// is counted and reported, and a seekable input is moved past the rest of
// the block.
func (r *run) readFailed(block uint64, n int, err error) error {
	if !r.conv.Has(conv.NoError) {
		return fmt.Errorf("%w: block %d: %w", ErrRead, block, err)
	}
	r.stats.AddReadErrors(1)
	slog.Debug("read error tolerated", "block", block, "error", err)
	r.send(event.Event{Type: event.ReadFailed, Block: block, Error: err})

	if rest := r.ibs - n; rest > 0 {
		if serr := platform.Advance(r.in, int64(rest)); serr != nil && !errors.Is(serr, platform.ErrSeekUnsupported) {
			slog.Debug("cannot skip past bad block", "block", block, "error", serr)
		}
	}
	return nil
}

// emit feeds converted bytes into the output buffer and writes every full
// obs-sized block. The remainder stays buffered for finalize.
func (r *run) emit(data []byte) error {
	for len(data) > 0 {
		if len(r.obuf) == 0 && len(data) >= r.obs {
			if err := r.writeBlock(data[:r.obs]); err != nil {
				return err
			}
			data = data[r.obs:]
			continue
		}

		n := min(r.obs-len(r.obuf), len(data))
		r.obuf = append(r.obuf, data[:n]...)
		data = data[n:]
		if len(r.obuf) == r.obs {
			if err := r.writeBlock(r.obuf); err != nil {
				return err
			}
			r.obuf = r.obuf[:0]
		}
	}
	return nil
}

func (r *run) writeBlock(b []byte) error {
	r.hash.add(b)

	if r.sparse && isZero(b) {
		err := platform.Advance(r.out, int64(len(b)))
		switch {
		case err == nil:
			r.pendingHole = true
			r.stats.AddOut(len(b), r.obs)
			return nil
		case errors.Is(err, platform.ErrSeekUnsupported):
			slog.Debug("output not seekable, sparse disabled")
			r.sparse = false
		default:
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	if _, err := r.sink.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	r.pendingHole = false
	r.stats.AddOut(len(b), r.obs)
	return nil
}

// settleHole extends a regular output file whose last blocks were skipped
// as holes, so the file ends where the data would have.
func (r *run) settleHole() error {
	if r.outFile == nil || !platform.IsRegular(r.outFile) {
		return nil
	}
	pos, err := platform.Position(r.outFile)
	if err != nil {
		return err
	}
	info, err := r.outFile.Stat()
	if err != nil {
		return err
	}
	if info.Size() < pos {
		return r.outFile.Truncate(pos)
	}
	return nil
}

func readBlock(rd io.Reader, buf []byte) (int, error) {
	for range maxEmptyReads {
		n, err := rd.Read(buf)
		if n > 0 || err != nil {
			return n, err
		}
	}
	return 0, io.ErrNoProgress
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
