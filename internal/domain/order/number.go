package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// DefaultNumberPrefix prefixes every customer-facing order number
const DefaultNumberPrefix = "ORD"

// NumberGenerator produces customer-facing order numbers.
// Uniqueness is enforced by the storage constraint, not by the generator.
type NumberGenerator interface {
	Next(now time.Time) string
}

// TimestampNumberGenerator renders PREFIX + UTC timestamp + 6 random digits
type TimestampNumberGenerator struct {
	Prefix string
}

// Next returns a new order number such as ORD20261018093015042917
func (g TimestampNumberGenerator) Next(now time.Time) string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	return fmt.Sprintf("%s%s%06d", prefix, now.UTC().Format("20060102150405"), rand.IntN(1_000_000))
}
