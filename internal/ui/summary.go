package ui

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"

	"github.com/bamsammich/ddx/internal/operand"
	"github.com/bamsammich/ddx/internal/stats"
)

// FormatSummary builds the end-of-transfer report:
//
//	3+1 records in
//	3+1 records out
//	1 truncated record
//	1700 bytes copied (1.7kB, 1.66KiB), 0.00121 s, 1.37 MB/s
//
// The bytes line is left out for noxfer and the whole report is empty for
// none. Every line ends in a newline.
func FormatSummary(snap stats.Snapshot, status operand.Status) string {
	if status == operand.StatusNone {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s records in\n", snap.RecordsIn())
	fmt.Fprintf(&b, "%s records out\n", snap.RecordsOut())
	switch snap.Truncated {
	case 0:
	case 1:
		b.WriteString("1 truncated record\n")
	default:
		fmt.Fprintf(&b, "%d truncated records\n", snap.Truncated)
	}
	if status == operand.StatusNoXfer {
		return b.String()
	}
	fmt.Fprintf(&b, "%d bytes copied (%s, %s), %s, %s\n",
		snap.Bytes,
		units.HumanSize(float64(snap.Bytes)),
		units.BytesSize(float64(snap.Bytes)),
		FormatDuration(snap.Elapsed),
		FormatRate(snap.Rate()),
	)
	return b.String()
}
