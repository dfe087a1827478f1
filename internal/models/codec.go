package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Type tags used by the persisted encoding. Ordered maps and timestamps
// carry an explicit tag so decoding stays lossless and order-preserving;
// everything else passes through as plain JSON.
const (
	tagMap  = "Map"
	tagDate = "Date"
)

// Time is a second-precision UTC timestamp that serializes with an
// explicit Date tag. The truncation makes the encoding round-trip exact.
type Time struct {
	time.Time
}

// Now returns the current moment as a Time.
func Now() Time {
	return At(time.Now())
}

// At converts a time.Time into the persisted representation.
func At(t time.Time) Time {
	return Time{t.UTC().Truncate(time.Second)}
}

// Day truncates the timestamp to midnight UTC. Day-precision comparisons
// (event activity) go through this.
func (t Time) Day() time.Time {
	return t.Truncate(24 * time.Hour)
}

// MarshalJSON encodes the timestamp as {"__type":"Date","value":<RFC1123>}.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"__type"`
		Value string `json:"value"`
	}{tagDate, t.UTC().Format(time.RFC1123)})
}

// UnmarshalJSON decodes the tagged Date form.
func (t *Time) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  string `json:"__type"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type != tagDate {
		return fmt.Errorf("models: expected %q tag, got %q", tagDate, raw.Type)
	}
	parsed, err := time.Parse(time.RFC1123, raw.Value)
	if err != nil {
		return fmt.Errorf("models: bad timestamp %q: %w", raw.Value, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// EncodeTaggedMap writes an insertion-ordered map as
// {"__type":"Map","value":{...}} with keys emitted in the order yielded by
// next. next returns ok=false when exhausted.
func EncodeTaggedMap(next func() (key string, value any, ok bool)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"__type":"` + tagMap + `","value":{`)
	first := true
	for {
		key, value, ok := next()
		if !ok {
			break
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// DecodeTaggedMap parses the tagged Map form, invoking fn once per entry in
// document order.
func DecodeTaggedMap(data []byte, fn func(key string, value json.RawMessage) error) error {
	var raw struct {
		Type  string          `json:"__type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type != tagMap {
		return fmt.Errorf("models: expected %q tag, got %q", tagMap, raw.Type)
	}

	// encoding/json's map decoding loses key order, so walk tokens instead.
	dec := json.NewDecoder(bytes.NewReader(raw.Value))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("models: tagged map value is not an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("models: non-string key in tagged map")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	_, err = dec.Token() // closing brace
	return err
}
