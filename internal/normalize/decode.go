package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is a decoded JSON object that remembers the order its keys arrived
// in. The contacts feed uses object keys as contact identifiers and the
// sort over equal last-activity timestamps must preserve first-appearance
// order, which a map[string]any cannot guarantee.
type Object []Member

type Member struct {
	Key   string
	Value any
}

// Get returns the value of the first member whose key matches any of the
// given names, in the order the names are listed.
func (o Object) Get(names ...string) (any, bool) {
	for _, name := range names {
		for _, m := range o {
			if m.Key == name {
				return m.Value, true
			}
		}
	}
	return nil, false
}

// MarshalJSON re-encodes the object with its original key order, so raw
// records kept for diagnostics round-trip unchanged.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodePayload decodes a feed body into []any / Object / string /
// json.Number / bool / nil trees. Numbers stay json.Number so bare numeric
// contact identifiers keep their digits instead of going through float64.
func decodePayload(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		var obj Object
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key token: %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, Member{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unexpected delimiter: %v", delim)
}

// stringify renders a decoded scalar the way the feed meant it: strings
// as-is, numbers with their original digits.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}
