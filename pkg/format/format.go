// Package format renders financial figures for tables.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	billion = 1e9
	million = 1e6
)

var printer = message.NewPrinter(language.English)

// Amount formats a currency value: $394.33B, $12.50M or $999,999.
func Amount(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	abs := math.Abs(v)

	// 999,999,000 rounds to 1000.00M; promote it to $1.00B.
	millions := fmt.Sprintf("%.2f", abs/million)
	switch {
	case abs >= billion || millions == "1000.00":
		return fmt.Sprintf("%s$%.2fB", sign, abs/billion)
	case abs >= million || math.Round(abs) >= million:
		return fmt.Sprintf("%s$%sM", sign, millions)
	default:
		return sign + "$" + Plain(abs)
	}
}

// Plain formats v rounded to an integer with thousands separators.
func Plain(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// EPS formats earnings per share with two decimals.
func EPS(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
