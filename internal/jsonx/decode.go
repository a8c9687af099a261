package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decode parses data into dst keeping every untyped number as a json.Number,
// so interface{} payloads never pass through float64.
func Decode(data []byte, dst any) error {
	return DecodeReader(bytes.NewReader(data), dst)
}

// DecodeReader is Decode over a stream. Trailing garbage after the first value
// is rejected.
func DecodeReader(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// Normalize converts a typed value into its generic JSON form
// (map[string]any, []any, json.Number, string, bool, nil), preserving
// big integers exactly. It is the shape query engines operate on.
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var out any
	if err := Decode(data, &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}
