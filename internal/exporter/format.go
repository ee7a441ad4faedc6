package exporter

import (
	"fmt"
	"math"
	"strings"
)

// formatFloat formats a value with a fixed number of decimals. NaN is an
// empty cell so spreadsheets read it as missing.
func formatFloat(f float64, prec int) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.*f", prec, f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// fileStem makes a trial name safe to use as a file name prefix. Unsafe
// bytes are percent-encoded, so distinct trial names never share a stem.
func fileStem(trial string) string {
	if trial == "" {
		return "%"
	}
	onlyDots := strings.Trim(trial, ".") == ""
	last := len(trial) - 1

	var b strings.Builder
	for i := 0; i < len(trial); i++ {
		c := trial[i]
		if unsafeFileByte(c) || (onlyDots && c == '.') || (c == ' ' && (i == 0 || i == last)) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func unsafeFileByte(c byte) bool {
	switch c {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '%':
		return true
	}
	return c < 0x20 || c == 0x7f
}
