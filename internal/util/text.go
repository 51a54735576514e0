package util

import (
	"fmt"
	"math"
)

// IsTextData checks if a byte slice contains only printable ASCII text
func IsTextData(data []byte) bool {
	for _, b := range data {
		if b < 32 && b != 9 && b != 10 && b != 13 || b > 126 {
			return false
		}
	}
	return true
}

// FormatSI renders a measurement value with an SI prefix and unit,
// e.g. 5e-4 "s" -> "500 µs". NaN renders as a placeholder since the
// device uses it for "no value".
func FormatSI(value float64, unit string) string {
	if math.IsNaN(value) {
		return "--"
	}
	if value == 0 {
		return fmt.Sprintf("0 %s", unit)
	}
	prefixes := []struct {
		factor float64
		symbol string
	}{
		{1e9, "G"}, {1e6, "M"}, {1e3, "k"},
		{1, ""},
		{1e-3, "m"}, {1e-6, "µ"}, {1e-9, "n"}, {1e-12, "p"},
	}
	abs := math.Abs(value)
	for _, p := range prefixes {
		if abs >= p.factor {
			return fmt.Sprintf("%.4g %s%s", value/p.factor, p.symbol, unit)
		}
	}
	return fmt.Sprintf("%.4g %s", value, unit)
}

// PrintHexDump prints data in hex dump format
func PrintHexDump(data []byte) {
	for i := 0; i < len(data); i += 16 {
		fmt.Printf("%04x  ", i)

		for j := 0; j < 16; j++ {
			if i+j < len(data) {
				fmt.Printf("%02x ", data[i+j])
			} else {
				fmt.Print("   ")
			}
			if j == 7 {
				fmt.Print(" ")
			}
		}

		fmt.Print(" |")
		for j := 0; j < 16 && i+j < len(data); j++ {
			b := data[i+j]
			if b >= 32 && b < 127 {
				fmt.Printf("%c", b)
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println("|")
	}
}
