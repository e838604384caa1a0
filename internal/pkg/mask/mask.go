// Package mask produces partially-redacted display strings for contact
// fields whose disclosure was denied. It never decides whether to disclose;
// callers must pass the real value to the client only when disclosure was
// granted.
package mask

import "strings"

const maskChar = "*"

// Email keeps the first and last character of the local part and of every
// domain label except the TLD, replacing the interior with mask characters
// (at least one, even for two-character segments). The TLD stays unmasked.
//
//	Email("john.doe@example.com") == "j******e@e*****e.com"
func Email(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return maskSegment(email)
	}

	local := maskSegment(email[:at])
	domain := email[at+1:]

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return local + "@" + maskSegment(domain)
	}

	for i := 0; i < len(labels)-1; i++ {
		labels[i] = maskSegment(labels[i])
	}
	return local + "@" + strings.Join(labels, ".")
}

// Phone strips every non-digit character, then keeps the first three and
// last three digits when more than six remain; shorter numbers are masked
// entirely.
func Phone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if d == "" {
		return ""
	}
	if len(d) <= 6 {
		return strings.Repeat(maskChar, len(d))
	}

	return d[:3] + strings.Repeat(maskChar, len(d)-6) + d[len(d)-3:]
}

func maskSegment(s string) string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return maskChar
	case 2:
		return s[:1] + maskChar + s[1:]
	default:
		return s[:1] + strings.Repeat(maskChar, len(s)-2) + s[len(s)-1:]
	}
}
