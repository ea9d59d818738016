package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bamsammich/ddx/internal/conv"
	"github.com/bamsammich/ddx/internal/platform"
	"github.com/bamsammich/ddx/internal/size"
)

// position skips Skip input blocks and Seek output blocks. Each side is
// seeked when the stream allows it and walked block by block otherwise.
func (r *run) position(ctx context.Context) error {
	if err := r.skipInput(ctx); err != nil {
		return err
	}
	return r.seekOutput(ctx)
}

func (r *run) skipInput(ctx context.Context) error {
	if r.ops.Skip == 0 {
		return nil
	}
	off, err := size.Offset(r.ops.Skip, r.ops.InputBlockSize)
	if err != nil {
		return fmt.Errorf("skip: %w", err)
	}

	err = platform.Advance(r.in, off)
	if err == nil {
		return nil
	}
	if !errors.Is(err, platform.ErrSeekUnsupported) {
		return fmt.Errorf("%w: skip: %w", ErrRead, err)
	}

	slog.Debug("input not seekable, reading through skip", "blocks", r.ops.Skip)
	buf := make([]byte, r.ibs)
	for i := uint64(0); i < r.ops.Skip; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := readBlock(r.in, buf)
		if n == 0 && isEOF(err) {
			// Input ended inside the skip; nothing is left to copy.
			return nil
		}
		if err != nil && !isEOF(err) {
			if ferr := r.readFailed(i, n, err); ferr != nil {
				return ferr
			}
		}
	}
	return nil
}

func (r *run) seekOutput(ctx context.Context) error {
	off, err := size.Offset(r.ops.Seek, r.ops.OutputBlockSize)
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	if r.ops.OutputPath != "" && !r.conv.Has(conv.NoTrunc) && r.outFile != nil {
		if err := platform.TruncateRegular(r.outFile, off); err != nil {
			return fmt.Errorf("%w: truncate: %w", ErrWrite, err)
		}
	}

	err = platform.Advance(r.out, off)
	if err == nil {
		return nil
	}
	if !errors.Is(err, platform.ErrSeekUnsupported) {
		return fmt.Errorf("%w: seek: %w", ErrWrite, err)
	}

	slog.Debug("output not seekable, writing zero blocks for seek", "blocks", r.ops.Seek)
	zero := make([]byte, r.obs)
	for range r.ops.Seek {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.out.Write(zero); err != nil {
			return fmt.Errorf("%w: seek: %w", ErrWrite, err)
		}
	}
	return nil
}
