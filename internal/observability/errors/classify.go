package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strings"
)

// classifier is implemented by errors that know their own metric tag.
type classifier interface {
	ErrorClass() string
}

// Classify returns a normalized error class suitable for tagging metrics/logs.
// Errors in the chain that implement ErrorClass() win; context errors map to
// "timeout"/"canceled"; otherwise the innermost concrete type name is used,
// converted to snake_case-ish.
func Classify(err error) string {
	if err == nil {
		return "none"
	}

	var c classifier
	if goerrors.As(err, &c) {
		if class := c.ErrorClass(); class != "" {
			return class
		}
	}
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
