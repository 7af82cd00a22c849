package performance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"unicode"
)

// jsonObjectWriter builds a JSON object with fields in insertion order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append adds a key and its json.Marshal'ed value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	valBytes, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	w.appendRaw(key, valBytes)
	return w
}

func (w *jsonObjectWriter) appendRaw(key string, value []byte) {
	k, _ := json.Marshal(key)
	w.Write(k)
	w.WriteByte(':')
	w.Write(value)
	w.WriteByte(',')
}

// Optional is like Append but skips the zero value of value's type.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// PrefixFrom marshals v, which must be a JSON object, and appends each of its
// fields with the key prefixed and camel cased: "amount" with prefix "forex"
// becomes "forexAmount".
func (w *jsonObjectWriter) PrefixFrom(prefix string, v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	rawJSON, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal %q fields: %w", prefix, err)
		return w
	}
	dec := json.NewDecoder(bytes.NewReader(rawJSON))
	if t, err := dec.Token(); err != nil || t != json.Delim('{') {
		w.err = fmt.Errorf("cannot prefix %q fields of a non object: %s", prefix, rawJSON)
		return w
	}
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			w.err = err
			return w
		}
		key := []rune(t.(string))
		key[0] = unicode.ToUpper(key[0])
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			w.err = err
			return w
		}
		w.appendRaw(prefix+string(key), value)
	}
	return w
}

// MarshalJSON returns the object built so far, or the first error met.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')
	return final, nil
}
