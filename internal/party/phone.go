package party

import "strings"

// NormalizePhone reduces a free-form phone string to an international digit
// string suitable for WhatsApp links. Local numbers written as 0XXXXXXXXXX
// are mapped onto the configured country code; numbers already carrying a
// country prefix pass through; anything without digits normalizes to "".
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "0") {
		return countryCode + digits[1:]
	}
	return digits
}
