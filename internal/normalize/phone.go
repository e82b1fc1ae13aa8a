package normalize

import "strings"

// NormalizePhone strips everything that is not a decimal digit. Empty or
// digit-free input yields "".
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DisplayPhone renders a raw identifier for the contact list: numbers with
// 10 or more digits split into country prefix, a 4-digit area block and a
// 4-digit local block ("+598 9624 3943"), shorter ones are shown as-is
// behind a plus sign.
func DisplayPhone(raw string) string {
	cleaned := NormalizePhone(raw)
	if cleaned == "" {
		return "Desconocido"
	}

	if len(cleaned) >= 10 {
		country := cleaned[:len(cleaned)-8]
		area := cleaned[len(cleaned)-8 : len(cleaned)-4]
		local := cleaned[len(cleaned)-4:]
		return "+" + country + " " + area + " " + local
	}

	return "+" + cleaned
}
