package partition

import (
	"strconv"
	"strings"

	"github.com/oisee/sornarith/pkg/sornvalue"
)

func formatBinary(b uint64) string {
	return strconv.FormatUint(b, 2)
}

func formatHex(b uint64) string {
	return strings.ToUpper(strconv.FormatUint(b, 16))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatRanges(ranges []sornvalue.Value) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
