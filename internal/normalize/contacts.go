package normalize

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/model"
)

// bodyFields are tried in order when a message record is an object rather
// than a bare string.
var bodyFields = []string{"mensaje", "message", "text"}

// minNumberLength is the shortest normalized identifier accepted as a real
// phone number; shorter keys are discarded as feed noise.
const minNumberLength = 8

// NormalizeContacts turns a raw contacts-feed body into a sorted contact
// list. Two upstream versions have been observed, so three payload shapes
// are supported, tried in this order:
//
//  1. an array whose elements are objects mapping contact key -> message
//     list (or bare identifier scalars),
//  2. an object with a "contacts" array of records carrying
//     number/wa_id/phone fields,
//  3. a plain object whose own keys are contact keys.
//
// Anything else yields an empty list. The result is sorted by last activity
// descending; ties keep first-appearance order. Duplicate numbers across
// keys are kept as delivered, matching the upstream behavior. now is used
// wherever the feed gives no usable activity timestamp, so results are
// reproducible under a fixed clock.
func NormalizeContacts(payload []byte, now time.Time) []model.Contact {
	value, err := decodePayload(payload)
	if err != nil {
		return nil
	}

	var contacts []model.Contact
	switch v := value.(type) {
	case []any:
		contacts = contactsFromList(v, now)
	case Object:
		if field, ok := v.Get("contacts"); ok {
			if records, ok := field.([]any); ok {
				contacts = contactsFromRecords(records, now)
				break
			}
		}
		contacts = contactsFromMembers(v, now)
	default:
		return nil
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].LastActivity.After(contacts[j].LastActivity)
	})
	return contacts
}

func contactsFromList(items []any, now time.Time) []model.Contact {
	var contacts []model.Contact
	for _, item := range items {
		switch v := item.(type) {
		case Object:
			contacts = append(contacts, contactsFromMembers(v, now)...)
		case string, json.Number:
			if c, ok := contactFromKey(stringify(v), nil, now); ok {
				contacts = append(contacts, c)
			}
		}
	}
	return contacts
}

func contactsFromMembers(obj Object, now time.Time) []model.Contact {
	var contacts []model.Contact
	for _, m := range obj {
		if c, ok := contactFromKey(m.Key, m.Value, now); ok {
			contacts = append(contacts, c)
		}
	}
	return contacts
}

// contactFromKey builds one contact from a raw feed key and, when the value
// under that key is a message list, derives its last activity from it.
func contactFromKey(rawKey string, value any, now time.Time) (model.Contact, bool) {
	key := ParseContactKey(rawKey)
	if len(key.Number) < minNumberLength {
		return model.Contact{}, false
	}

	display := DisplayPhone(key.Number)
	hasName := false
	if key.Name != "" {
		display = key.Name
		hasName = true
	}

	last := now
	if list, ok := value.([]any); ok {
		last = lastActivityOf(list, now)
	}

	return model.Contact{
		Number:       key.Number,
		DisplayName:  display,
		HasName:      hasName,
		OriginalKey:  rawKey,
		LastActivity: last,
	}, true
}

// contactsFromRecords handles the older feed version: structured records
// with a number under one of several field names and no display names.
func contactsFromRecords(records []any, now time.Time) []model.Contact {
	var contacts []model.Contact
	for _, record := range records {
		obj, ok := record.(Object)
		if !ok {
			continue
		}
		rawNumber, _ := obj.Get("number", "wa_id", "phone")
		raw := stringify(rawNumber)

		last := now
		if field, ok := obj.Get("lastActivity"); ok {
			if ts, err := time.Parse(time.RFC3339, stringify(field)); err == nil {
				last = ts
			}
		}

		contacts = append(contacts, model.Contact{
			Number:       NormalizePhone(raw),
			DisplayName:  DisplayPhone(raw),
			HasName:      false,
			OriginalKey:  raw,
			LastActivity: last,
		})
	}
	return contacts
}

// lastActivityOf walks a raw message list from newest to oldest and returns
// the largest valid marker timestamp. The feed is expected chronological,
// but scanning the whole tail tolerates out-of-order entries and entries
// whose marker is missing or unparseable. With no valid marker at all, the
// contact's activity is simply now.
func lastActivityOf(list []any, now time.Time) time.Time {
	var best time.Time
	for i := len(list) - 1; i >= 0; i-- {
		ex := ExtractTimestamp(messageBody(list[i]))
		if ex.Found && ex.Valid && ex.Timestamp.After(best) {
			best = ex.Timestamp
		}
	}
	if best.IsZero() {
		return now
	}
	return best
}

// messageBody pulls the text out of one raw message entry, which is either
// an object with a body field or already a scalar.
func messageBody(entry any) string {
	if obj, ok := entry.(Object); ok {
		for _, name := range bodyFields {
			if v, ok := obj.Get(name); ok {
				if s := stringify(v); s != "" {
					return s
				}
			}
		}
		return ""
	}
	return stringify(entry)
}
