// Package jsonx holds JSON helpers for payloads from the OJ API, whose numeric
// identifiers are 64-bit longs that do not survive a float64 round trip.
package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ID is a numeric identifier kept as its exact decimal digits.
// It decodes from a JSON number or a JSON string and encodes back as a number
// literal with the same digits. The zero value is an absent identifier.
type ID string

var errInvalidID = errors.New("invalid numeric id")

// ParseID validates s as a signed decimal integer and returns it as an ID.
func ParseID(s string) (ID, error) {
	if !isInteger(s) {
		return "", fmt.Errorf("%w: %q", errInvalidID, s)
	}
	return ID(s), nil
}

// IDFromInt64 converts a native integer.
func IDFromInt64(n int64) ID { return ID(strconv.FormatInt(n, 10)) }

// String returns the exact digits.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool { return id == "" }

// Int64 converts the identifier when it fits in an int64.
func (id ID) Int64() (int64, error) {
	return strconv.ParseInt(string(id), 10, 64)
}

// MarshalJSON writes the digits as a bare number literal, or null when absent.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if !isInteger(string(id)) {
		return nil, fmt.Errorf("%w: %q", errInvalidID, string(id))
	}
	return []byte(id), nil
}

// UnmarshalJSON accepts 123, "123" and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		if s == "" {
			*id = ""
			return nil
		}
		raw = s
	}
	if !isInteger(raw) {
		return fmt.Errorf("%w: %s", errInvalidID, raw)
	}
	*id = ID(raw)
	return nil
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
