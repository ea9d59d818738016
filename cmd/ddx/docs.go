package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/bamsammich/ddx/internal/conv"
	"github.com/bamsammich/ddx/internal/operand"
)

type operandDoc struct {
	usage string
	help  string
}

// operandDocs is the operand reference shown in --help and the man page.
var operandDocs = []operandDoc{
	{"if=FILE", "read from FILE instead of stdin"},
	{"of=FILE", "write to FILE instead of stdout"},
	{"bs=BYTES", "read and write BYTES at a time (overrides ibs and obs)"},
	{"ibs=BYTES", fmt.Sprintf("read BYTES at a time (default %d)", operand.DefaultBlockSize)},
	{"obs=BYTES", fmt.Sprintf("write BYTES at a time (default %d)", operand.DefaultBlockSize)},
	{"cbs=BYTES", "convert BYTES at a time (block, unblock)"},
	{"skip=N", "skip N ibs-sized blocks of input"},
	{"seek=N", "skip N obs-sized blocks of output"},
	{"count=N", "copy only N input blocks"},
	{"status=LEVEL", "none, noxfer or progress"},
	{"conv=CONVS", "comma separated list of conversions:"},
}

const sizeSuffixHelp = "BYTES and N may carry a suffix: k/K/KiB, kB, M/MiB, MB, G/GiB, GB, " +
	"T/TiB, TB, P/PiB, PB, E/EiB, EB."

// longHelp renders the root command description with the operand reference.
func longHelp() string {
	width := 0
	for _, d := range operandDocs {
		width = max(width, len(d.usage))
	}

	var b strings.Builder
	b.WriteString("Copy an input stream to an output stream in fixed-size blocks,\n")
	b.WriteString("converting each block on the way.\n\nOperands:\n")
	for _, d := range operandDocs {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, d.usage, d.help)
	}
	indent := strings.Repeat(" ", width+4)
	for _, line := range wrapWords(strings.Split(conv.All.String(), ","), 72-len(indent)) {
		b.WriteString(indent + line + "\n")
	}
	b.WriteString("\n" + sizeSuffixHelp)
	return b.String()
}

// wrapWords joins words with ", " into lines no wider than width.
func wrapWords(words []string, width int) []string {
	var lines []string
	var cur string
	for i, w := range words {
		if i < len(words)-1 {
			w += ","
		}
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) > width:
			lines = append(lines, cur)
			cur = w
		default:
			cur += " " + w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "gen-docs",
		Short:  "Generate the ddx man page or markdown reference",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")       //nolint:errcheck // flag name is hardcoded
			format, _ := cmd.Flags().GetString("format") //nolint:errcheck // flag name is hardcoded
			return genDocs(cmd.Root(), dir, format)
		},
	}
	cmd.Flags().String("dir", "docs", "output directory")
	cmd.Flags().String("format", "man", "output format (man or markdown)")
	return cmd
}

func genDocs(root *cobra.Command, dir, format string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	switch format {
	case "man":
		header := &doc.GenManHeader{
			Title:   "DDX",
			Section: "1",
			Source:  "ddx " + version,
			Manual:  "User Commands",
		}
		return doc.GenManTree(root, header, dir)
	case "markdown":
		return doc.GenMarkdownTree(root, dir)
	default:
		return fmt.Errorf("unknown format %q (use man or markdown)", format)
	}
}
