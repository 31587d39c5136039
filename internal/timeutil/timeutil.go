// Package timeutil provides time and number formatting for engine arguments.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatSeconds converts seconds to HH:MM:SS.MS format.
//
// Example:
//
//	FormatSeconds(0)      // "00:00:00.00"
//	FormatSeconds(90)     // "00:01:30.00"
//	FormatSeconds(3661)   // "01:01:01.00"
func FormatSeconds(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// ParseNumber parses user-entered numeric text such as "1.5", " -3 " or
// "1e2". Empty, malformed and non-finite input reports ok=false.
func ParseNumber(text string) (v float64, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatNumber renders v in the shortest plain decimal form: 1.5 -> "1.5",
// 2 -> "2", -0.25 -> "-0.25".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DateStamp renders t as YYYYMMDD in local time.
func DateStamp(t time.Time) string {
	return t.Format("20060102")
}
