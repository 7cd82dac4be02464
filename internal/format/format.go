package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
)

// significantDigits is the precision kept for abbreviated counts.
const significantDigits = 2

var siSuffix = map[string]string{
	"k": "K",
	"M": "M",
	"G": "B",
}

var nextUnit = map[string]string{"K": "M", "M": "B"}

// Abbreviate renders n as a short human-readable count such as "999",
// "1.5K", "12K" or "2.5M". Counts of 1000 and above are rounded half-up to
// two significant digits before the unit is chosen, so 999999 becomes "1M".
func Abbreviate(n int) string {
	if n < 0 {
		// -(n+1) stays in range for math.MinInt.
		return "-" + abbreviate(uint64(-(n+1))+1)
	}
	return abbreviate(uint64(n))
}

func abbreviate(n uint64) string {
	if n < 1000 {
		return strconv.FormatUint(n, 10)
	}

	rounded := roundSignificant(n, significantDigits)
	value, prefix := humanize.ComputeSI(float64(rounded))
	unit, ok := siSuffix[prefix]
	if !ok {
		// Past billions the unit stays B.
		value, unit = float64(rounded)/1e9, "B"
	}
	if next, ok := nextUnit[unit]; ok && value >= 1000 {
		value, unit = value/1000, next
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + unit
}

func roundSignificant(n uint64, digits int) uint64 {
	width := len(strconv.FormatUint(n, 10))
	if width <= digits {
		return n
	}
	p := uint64(1)
	for i := 0; i < width-digits; i++ {
		p *= 10
	}
	return (n + p/2) / p * p
}

// WriteJSON writes indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}
