package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ParseMoney reads spreadsheet money cells like "$1,250.50" or "1.250,50".
// With both separators present the right-most one is the decimal point. A
// lone comma followed by one or two digits is a decimal comma; repeated dots
// group thousands. Anything unparseable is 0.
func ParseMoney(raw string) float64 {
	s := strings.NewReplacer("$", "", " ", "").Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s[:comma], ".", "") + "." + s[comma+1:]
		}
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if frac := len(s) - comma - 1; strings.Count(s, ",") == 1 && frac >= 1 && frac <= 2 {
			s = s[:comma] + "." + s[comma+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.Round(2).InexactFloat64()
}

// FormatMoney renders an amount as "$1,234.50".
func FormatMoney(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
