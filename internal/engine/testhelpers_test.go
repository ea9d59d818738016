package engine_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ddx/internal/operand"
)

var errFlaky = errors.New("flaky read")

// resolve builds operands from tokens, failing the test on error.
func resolve(t *testing.T, tokens ...string) operand.Operands {
	t.Helper()
	ops, err := operand.Resolve(tokens)
	require.NoError(t, err)
	return ops
}

// writeInput creates a file holding data and returns its path.
func writeInput(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "in")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// pipeReader hides any Seek method, like a pipe or socket.
type pipeReader struct{ r io.Reader }

func (p pipeReader) Read(b []byte) (int, error) { return p.r.Read(b) }

// flakyReader fails the read calls listed in failOn (1-based) without
// consuming any input.
type flakyReader struct {
	r      io.Reader
	failOn map[int]bool
	calls  int
}

func (f *flakyReader) Read(b []byte) (int, error) {
	f.calls++
	if f.failOn[f.calls] {
		return 0, errFlaky
	}
	return f.r.Read(b)
}

// failingWriter accepts limit bytes, then fails every write.
type failingWriter struct {
	buf   bytes.Buffer
	limit int
}

func (w *failingWriter) Write(b []byte) (int, error) {
	if w.buf.Len()+len(b) > w.limit {
		return 0, errors.New("disk full")
	}
	return w.buf.Write(b)
}
