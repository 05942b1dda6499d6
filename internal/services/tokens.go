package services

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.IntN(len(base36))]
	}
	return string(b)
}

// GenerateToken returns a base-36 millisecond timestamp followed by a random suffix.
// It is unique enough for generated SKUs but carries no collision guarantee.
func GenerateToken() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + randomSuffix(4)
}

// NewFolio returns a human-readable quote folio. Folios are not checked
// against existing quotes.
func NewFolio() string {
	return strings.ToUpper(GenerateToken())
}
