package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical product categories.
const (
	CategoryRefacciones = "Refacciones"
	CategoryAccesorios  = "Accesorios"
	CategoryConsumibles = "Consumibles"
	CategoryEquipo      = "Equipo"
)

// Checked in order; the first group with a matching keyword wins.
var categoryKeywords = []struct {
	label    string
	keywords []string
}{
	{CategoryRefacciones, []string{"refacc", "repuest", "refacción", "pieza", "parte"}},
	{CategoryAccesorios, []string{"accesor"}},
	{CategoryConsumibles, []string{"consumib", "insumo", "desechab"}},
	{CategoryEquipo, []string{"equipo", "equip"}},
}

// NormalizeCategory maps a free-text category onto one of the canonical labels,
// or the capitalized first word when no keyword matches. Import and catalog
// filtering both go through it, so it must stay pure.
func NormalizeCategory(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if label := matchCategory(s); label != "" {
		return label
	}
	word := capitalize(strings.Fields(s)[0])
	// case folding can surface a keyword (e.g. a dotless i); keep the result a fixed point
	if label := matchCategory(word); label != "" {
		return label
	}
	return word
}

func matchCategory(s string) string {
	lower := strings.ToLower(s)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.label
			}
		}
	}
	return ""
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// Categories lists the canonical labels in priority order.
func Categories() []string {
	out := make([]string, len(categoryKeywords))
	for i, g := range categoryKeywords {
		out[i] = g.label
	}
	return out
}
