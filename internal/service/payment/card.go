package payment

import (
	"strings"
	"time"
)

// NormalizeCardNumber strips spaces and dashes.
func NormalizeCardNumber(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// ValidLuhn reports whether number is 12-19 digits with a valid Luhn checksum.
func ValidLuhn(number string) bool {
	if len(number) < 12 || len(number) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// expired reports whether a card valid through month/year is expired at now.
// Two-digit years are taken as 20xx.
func expired(month, year int, now time.Time) bool {
	if year < 100 {
		year += 2000
	}
	// First instant after the expiry month.
	end := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return !now.UTC().Before(end)
}
