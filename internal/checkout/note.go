package checkout

import "strings"

// Vendor field limits. Free text is truncated, never rejected.
const (
	maxProductNameLen   = 200
	maxCustomerNameLen  = 100
	maxCustomerNotesLen = 200
	maxNoteLen          = 500
)

// BuildNote derives the payment note shown in the vendor dashboard from the
// optional free-text fields: non-empty parts are trimmed, capped to their
// individual limits and joined with " / ", then the whole note is capped to
// the vendor's note limit.
func BuildNote(productName, customerName, customerNotes string) string {
	var parts []string

	if v := Truncate(trim(productName), maxProductNameLen); v != "" {
		parts = append(parts, v)
	}
	if v := Truncate(trim(customerName), maxCustomerNameLen); v != "" {
		parts = append(parts, v)
	}
	if v := Truncate(trim(customerNotes), maxCustomerNotesLen); v != "" {
		parts = append(parts, v)
	}

	return Truncate(strings.Join(parts, " / "), maxNoteLen)
}

// Truncate caps s at n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
