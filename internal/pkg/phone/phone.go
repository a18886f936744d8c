// Package phone canonicalises client WhatsApp numbers into the single key
// used to look clients up.
package phone

import "strings"

const countryCode = "595"

// Normalize strips every non-digit from raw and rewrites local Paraguayan
// formats into international form:
//
//	"0987 654-321"  → "595987654321"
//	"+595 0987..."  → "595987..."
//
// Anything else passes through as bare digits. Normalize never fails and is
// idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "09") {
		return countryCode + digits[1:]
	}
	// Repeated trunk zeros collapse fully, otherwise "59500981" would need
	// two passes to settle.
	for strings.HasPrefix(digits, countryCode+"0") {
		digits = countryCode + digits[len(countryCode)+1:]
	}
	return digits
}
