package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter creates a rate.Limiter that caps output throughput to
// bytesPerSec. The burst is 1 MB, or the rate itself if lower.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := 1 << 20 // 1 MB
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// rateLimitedWriter wraps an io.Writer and waits for the limiter before
// each write. Every Write reaches the underlying writer as a single call so
// output blocks keep their size; tokens for blocks larger than the burst
// are taken in burst-sized steps first.
type rateLimitedWriter struct {
	w       io.Writer
	limiter *rate.Limiter
}

func newRateLimitedWriter(w io.Writer, limiter *rate.Limiter) *rateLimitedWriter {
	return &rateLimitedWriter{w: w, limiter: limiter}
}

func (rw *rateLimitedWriter) Write(p []byte) (int, error) {
	// Interruption is checked between blocks by the engine, so a
	// write in progress is allowed to finish.
	for need := len(p); need > 0; {
		n := min(need, rw.limiter.Burst())
		if err := rw.limiter.WaitN(context.Background(), n); err != nil {
			return 0, err
		}
		need -= n
	}
	return rw.w.Write(p)
}
