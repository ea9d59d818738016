package engine

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ddx/internal/operand"
)

func TestNewBWLimiter(t *testing.T) {
	t.Parallel()

	t.Run("burst capped to rate when rate < 1MB", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(1024)
		assert.Equal(t, 1024, lim.Burst())
	})

	t.Run("burst is 1MB when rate >= 1MB", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(10 * 1024 * 1024)
		assert.Equal(t, 1<<20, lim.Burst())
	})
}

func TestRateLimitedWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes all data", func(t *testing.T) {
		t.Parallel()
		var dst bytes.Buffer
		data := bytes.Repeat([]byte("x"), 4096)
		rw := newRateLimitedWriter(&dst, NewBWLimiter(1<<20))

		n, err := rw.Write(data)
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
		assert.Equal(t, data, dst.Bytes())
	})

	t.Run("block larger than burst is one write", func(t *testing.T) {
		t.Parallel()
		var dst countingWriter
		data := bytes.Repeat([]byte("y"), 3000)
		// Burst of 1000 bytes: a single WaitN(3000) would fail outright.
		rw := newRateLimitedWriter(&dst, NewBWLimiter(1000*1000))
		rw.limiter.SetBurst(1000)

		n, err := rw.Write(data)
		require.NoError(t, err)
		assert.Equal(t, 3000, n)
		assert.Equal(t, data, dst.buf.Bytes())
		assert.Equal(t, 1, dst.writes)
	})

	t.Run("enforces rate limit", func(t *testing.T) {
		t.Parallel()
		// 10 KB at 5 KB/s should take ~1s after the initial burst.
		var dst bytes.Buffer
		rw := newRateLimitedWriter(&dst, NewBWLimiter(5*1024))

		start := time.Now()
		for range 10 {
			_, err := rw.Write(bytes.Repeat([]byte("a"), 1024))
			require.NoError(t, err)
		}
		elapsed := time.Since(start)

		assert.Equal(t, 10*1024, dst.Len())
		assert.Greater(t, elapsed, 500*time.Millisecond,
			"rate limiter should slow writes to ~5KB/s")
	})
}

func TestRunBWLimitKeepsOutputBlocks(t *testing.T) {
	t.Parallel()

	ops := operand.Default()
	// Blocks larger than the limiter's burst.
	ops.InputBlockSize, ops.OutputBlockSize = 12000, 12000
	var dst countingWriter
	res := Run(context.Background(), Config{
		Operands: ops,
		Stdin:    strings.NewReader(strings.Repeat("z", 24000)),
		Stdout:   &dst,
		BWLimit:  10000,
	})
	require.NoError(t, res.Err)
	assert.Equal(t, "2+0", res.Stats.RecordsOut())
	assert.Equal(t, 2, dst.writes, "one write per output block")
	assert.Equal(t, 24000, dst.buf.Len())
}

type countingWriter struct {
	buf    bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.buf.Write(p)
}
