package util //nolint:revive // package name util hosts shared formatting helpers used across HTTP templates

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// SafeCellText converts any table cell value into display text without ever
// failing. nil renders empty; numbers and booleans render in decimal and
// true/false; strings (json.Number and jsonx.ID included) render as is, so
// large IDs keep every digit; maps, slices and structs render as JSON, with
// a %v fallback when JSON encoding fails. A panic while formatting renders "".
func SafeCellText(value any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()

	if value == nil {
		return ""
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Sprintf("%v", v.Interface())
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// FormatTimeCost formats a judge run time for display.
// Returns "—" for zero or negative durations, truncates to milliseconds for readability.
func FormatTimeCost(d time.Duration) string {
	switch {
	case d <= 0:
		return "—"
	case d < time.Millisecond:
		return d.String()
	default:
		return d.Truncate(time.Millisecond).String()
	}
}

// FormatMemory formats a memory figure reported in kilobytes.
func FormatMemory(kb int64) string {
	switch {
	case kb <= 0:
		return "—"
	case kb < 1024:
		return strconv.FormatInt(kb, 10) + " KB"
	default:
		return strconv.FormatFloat(float64(kb)/1024, 'f', 1, 64) + " MB"
	}
}
