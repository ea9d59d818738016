package ui

import (
	"fmt"
	"time"
)

// FormatRate formats a bytes-per-second rate as a human-readable string.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	units := []string{"B/s", "KB/s", "MB/s", "GB/s", "TB/s"}
	val := bytesPerSec
	for _, u := range units {
		if val < 1024 {
			if val < 10 {
				return fmt.Sprintf("%.2f %s", val, u)
			}
			if val < 100 {
				return fmt.Sprintf("%.1f %s", val, u)
			}
			return fmt.Sprintf("%.0f %s", val, u)
		}
		val /= 1024
	}
	return fmt.Sprintf("%.1f PB/s", val)
}

// FormatDuration formats an elapsed time in seconds with up to six
// significant digits, e.g. "0.00121 s" or "12.5 s".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0 s"
	}
	return fmt.Sprintf("%.6g s", d.Seconds())
}
