// Package table builds display tables from API records using JMESPath column
// expressions, so page handlers declare columns instead of hand-writing cell
// accessors.
package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/group38/ojweb/internal/jsonx"
	"github.com/group38/ojweb/internal/util"
	jmespath "github.com/jmespath-community/go-jmespath"
)

// Column is one table column: a header and the JMESPath expression that
// extracts its cell from a record.
type Column struct {
	Title string
	Path  string
}

type compiledColumn struct {
	Column
	search func(any) (any, error)
}

// Spec is a validated, reusable column set.
type Spec struct {
	columns []compiledColumn
}

// NewSpec compiles every column expression.
func NewSpec(columns ...Column) (*Spec, error) {
	if len(columns) == 0 {
		return nil, errors.New("table: at least one column is required")
	}
	out := make([]compiledColumn, 0, len(columns))
	for _, c := range columns {
		path := strings.TrimSpace(c.Path)
		if path == "" {
			return nil, fmt.Errorf("table: column %q has an empty path", c.Title)
		}
		expr, err := jmespath.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("table: column %q: %w", c.Title, err)
		}
		out = append(out, compiledColumn{Column: c, search: expr.Search})
	}
	return &Spec{columns: out}, nil
}

// MustSpec is NewSpec for static column sets.
func MustSpec(columns ...Column) *Spec {
	s, err := NewSpec(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Table is rendered text: one header row and one text row per record.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Build extracts every column from every record. Records may be typed API
// models; they are normalized to JSON-shaped values first, keeping large
// integers exact. A column whose expression fails on a record renders "".
func (s *Spec) Build(records any) (Table, error) {
	normalized, err := jsonx.Normalize(records)
	if err != nil {
		return Table{}, fmt.Errorf("table: normalize records: %w", err)
	}

	t := Table{Headers: make([]string, len(s.columns))}
	for i, c := range s.columns {
		t.Headers[i] = c.Title
	}

	items, ok := normalized.([]any)
	if !ok {
		if normalized == nil {
			return t, nil
		}
		items = []any{normalized}
	}

	t.Rows = make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(s.columns))
		for i, c := range s.columns {
			v, searchErr := c.search(item)
			if searchErr != nil {
				continue
			}
			row[i] = util.SafeCellText(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
