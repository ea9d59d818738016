package engine

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ddx/internal/operand"
)

type stalledReader struct{}

func (stalledReader) Read([]byte) (int, error) { return 0, nil }

func TestReadBlockNoProgress(t *testing.T) {
	t.Parallel()

	n, err := readBlock(stalledReader{}, make([]byte, 4))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.ErrNoProgress)
}

func TestChunksStopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	ops := operand.Default()
	ops.InputBlockSize = 2
	r := newRun(Config{Operands: ops, Stdin: strings.NewReader("aabbccdd")})
	r.in = r.cfg.Stdin

	var got []string
	for c, err := range r.chunks(context.Background()) {
		require.NoError(t, err)
		got = append(got, string(c.data))
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"aa", "bb"}, got)

	// The sequence is not restartable: the reader has moved on.
	rest, err := io.ReadAll(r.in)
	require.NoError(t, err)
	assert.Equal(t, "ccdd", string(rest))
}

func TestChunksHonoursCount(t *testing.T) {
	t.Parallel()

	ops := operand.Default()
	ops.InputBlockSize = 3
	ops.Count, ops.HasCount = 2, true
	r := newRun(Config{Operands: ops, Stdin: strings.NewReader("abcdefghi")})
	r.in = r.cfg.Stdin

	var n int
	for c, err := range r.chunks(context.Background()) {
		require.NoError(t, err)
		n += len(c.data)
	}
	assert.Equal(t, 6, n)
}

func TestIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, isZero(nil))
	assert.True(t, isZero(make([]byte, 16)))
	assert.False(t, isZero([]byte{0, 0, 1}))
}
