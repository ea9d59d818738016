package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ddx/internal/conv"
)

func docsRoot(args ...string) *cobra.Command {
	root := &cobra.Command{
		Use:  "ddx [flags] [operand]...",
		Long: longHelp(),
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	root.AddCommand(newDocsCmd())
	root.SetArgs(append([]string{"gen-docs"}, args...))
	return root
}

func TestGenDocsMarkdown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, docsRoot("--dir", dir, "--format", "markdown").Execute())

	b, err := os.ReadFile(filepath.Join(dir, "ddx.md"))
	require.NoError(t, err)
	page := string(b)
	for _, want := range []string{"if=FILE", "bs=BYTES", "count=N", "conv=CONVS", "fdatasync", "KiB"} {
		assert.Contains(t, page, want)
	}

	// gen-docs is hidden and gets no page of its own.
	_, err = os.Stat(filepath.Join(dir, "ddx_gen-docs.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenDocsMan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, docsRoot("--dir", dir).Execute())

	b, err := os.ReadFile(filepath.Join(dir, "ddx.1"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"DDX"`)
	assert.Contains(t, string(b), "noxfer")
}

func TestGenDocsUnknownFormat(t *testing.T) {
	err := docsRoot("--dir", t.TempDir(), "--format", "pdf").Execute()
	assert.ErrorContains(t, err, `unknown format "pdf"`)
}

func TestLongHelpListsEveryConversion(t *testing.T) {
	help := longHelp()
	for _, c := range conv.All.List() {
		assert.Contains(t, help, c.String())
	}
	for _, line := range strings.Split(help, "\n") {
		if !strings.HasPrefix(line, "BYTES") {
			assert.LessOrEqual(t, len(line), 80, "line %q", line)
		}
	}
}

func TestWrapWords(t *testing.T) {
	got := wrapWords([]string{"ascii", "ebcdic", "ibm", "lcase"}, 14)
	assert.Equal(t, []string{"ascii, ebcdic,", "ibm, lcase"}, got)
	assert.Nil(t, wrapWords(nil, 10))
}
