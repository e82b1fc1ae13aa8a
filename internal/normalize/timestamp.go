package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// timestampMarker precedes the digit run the upstream automation appends to
// every message body in lieu of a structured timestamp field.
const timestampMarker = '°'

// Role prefixes the upstream embeds at the start of message bodies. They
// identify the author and are stripped from display text.
const (
	PrefixCustomer  = "Cliente:"
	PrefixAssistant = "IA:"
)

// Extraction is the result of pulling the marker-encoded timestamp out of a
// raw message body. Found reports whether a marker was present at all;
// Valid whether its digit run converted to a usable instant. Timestamp is
// the zero time unless Found && Valid, so callers decide when to substitute
// their own "now".
type Extraction struct {
	Text      string
	Timestamp time.Time
	Found     bool
	Valid     bool
}

// ExtractTimestamp scans a message body for the trailing "°<digits>" marker
// and returns the body without it. The scan anchors at the very end of the
// string: trailing whitespace, then the digit run, then the marker rune,
// working backwards, so embedded newlines or stray markers mid-text never
// match. The role prefix is stripped from the returned text whether or not
// a marker was found.
//
// Unit inference is a reverse-engineered contract with the upstream
// encoder: runs of up to 10 digits are Unix seconds, exactly 13 digits are
// milliseconds, anything else is taken as milliseconds best-effort.
func ExtractTimestamp(raw string) Extraction {
	runes := []rune(raw)

	end := len(runes)
	for end > 0 && unicode.IsSpace(runes[end-1]) {
		end--
	}

	digitsEnd := end
	digitsStart := digitsEnd
	for digitsStart > 0 && runes[digitsStart-1] >= '0' && runes[digitsStart-1] <= '9' {
		digitsStart--
	}

	if digitsStart == digitsEnd || digitsStart == 0 || runes[digitsStart-1] != timestampMarker {
		return Extraction{Text: StripRolePrefix(raw)}
	}

	text := strings.TrimSpace(string(runes[:digitsStart-1]))
	digits := string(runes[digitsStart:digitsEnd])

	ts, ok := decodeEpoch(digits)
	return Extraction{
		Text:      StripRolePrefix(text),
		Timestamp: ts,
		Found:     true,
		Valid:     ok,
	}
}

func decodeEpoch(digits string) (time.Time, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Overflowing digit runs leave the message with an invalid instant.
		return time.Time{}, false
	}

	if len(digits) <= 10 {
		return time.Unix(n, 0), true
	}
	// 13 digits is the millisecond encoding; other lengths are decoded the
	// same way as a best effort.
	return time.UnixMilli(n), true
}

// StripRolePrefix removes a leading "Cliente:" or "IA:" marker (and the
// whitespace after it) from a message body. Matching is case-sensitive.
func StripRolePrefix(text string) string {
	for _, prefix := range []string{PrefixCustomer, PrefixAssistant} {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimLeftFunc(text[len(prefix):], unicode.IsSpace)
		}
	}
	return text
}
