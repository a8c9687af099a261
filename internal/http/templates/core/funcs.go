package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/group38/ojweb/internal/adapters/ojapi"
	"github.com/group38/ojweb/internal/util"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"cellText":     util.SafeCellText,
		"timeCost":     TimeCost,
		"memory":       Memory,
		"statusClass":  StatusClass,
		"statusLabel":  ojapi.SubmitStatusLabel,
		"truncateText": TruncateText,
		"fieldError":   FieldError,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		if deps.ContentTemplateFor == nil {
			return "", errors.New("content template mapping not configured")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - The HTML here is rendered by our own trusted templates (html/template),
		// and is embedded back into the same template set. User-provided values were already
		// auto-escaped during ExecuteTemplate above.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// TimeCost renders a judge run time reported in milliseconds.
func TimeCost(ms *int64) string {
	if ms == nil {
		return "—"
	}
	return util.FormatTimeCost(time.Duration(*ms) * time.Millisecond)
}

// Memory renders a judge memory figure reported in kilobytes.
func Memory(kb *int64) string {
	if kb == nil {
		return "—"
	}
	return util.FormatMemory(*kb)
}

// StatusClass maps a submission status label to a badge class.
func StatusClass(status string) string {
	switch strings.ToLower(status) {
	case "succeed", "accepted":
		return "badge-success"
	case "failed", "wrong answer", "compile error", "runtime error":
		return "badge-danger"
	case "running", "waiting":
		return "badge-info"
	default:
		return "badge-light"
	}
}

// FieldError returns the message for field from a field-error map, or "".
// errs may be absent from the page data.
func FieldError(errs any, field string) string {
	m, _ := errs.(map[string]string)
	return m[field]
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
// Adds an ellipsis (…) when truncated for visual clarity.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen > 1 {
		return string(runes[:maxLen-1]) + "…"
	}
	return string(runes[:1])
}
