package normalize

import "strings"

// keySeparator splits a feed key into phone number and display name. Only
// the spaced form counts; a bare "|" inside a name is left alone.
const keySeparator = " | "

// ContactKey is a parsed contacts-feed key. Name is "" when the feed did not
// supply one.
type ContactKey struct {
	Number string
	Name   string
}

// ParseContactKey splits a raw contacts-feed key of the form
// "59896243943 | Lucas Perazzo" (or a bare number) into its normalized
// number and optional name. Splitting happens on the first separator only,
// so names containing " | " keep their tail intact.
func ParseContactKey(raw string) ContactKey {
	number, name, found := strings.Cut(raw, keySeparator)
	if !found {
		return ContactKey{Number: NormalizePhone(raw)}
	}
	return ContactKey{
		Number: NormalizePhone(number),
		Name:   strings.TrimSpace(name),
	}
}
