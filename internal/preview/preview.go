// Package preview turns a raw downloaded or uploaded file into a bounded,
// renderable table.
//
// Format is chosen from the filename extension alone. CSV and JSON are
// supported; every other extension yields ErrUnsupportedFormat without
// looking at the content. No outcome panics: callers get either a Table or an
// *Error describing why the preview is unavailable.
package preview

import (
	"bytes"
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// MaxRows bounds the number of rows in any preview.
const MaxRows = 50

// Row maps column names to display values. Keys are always a subset of the
// owning Table's Columns.
type Row map[string]any

// Table is a bounded preview. Columns keep source order and are not
// deduplicated; Rows holds at most MaxRows records.
type Table struct {
	Columns []string
	Rows    []Row
}

// Clone returns a copy that shares nothing with t. Nested JSON values are
// shared; they are never modified after parsing.
func (t Table) Clone() Table {
	out := Table{Columns: slices.Clone(t.Columns)}
	if t.Rows != nil {
		out.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = maps.Clone(r)
		}
	}
	return out
}

// Kind classifies why a preview could not be built.
type Kind string

const (
	KindUnsupported   Kind = "unsupported"
	KindMalformedJSON Kind = "malformed_json"
	KindTooShort      Kind = "too_short"
)

// Sentinels for errors.Is.
var (
	ErrUnsupportedFormat = errors.New("preview not available for this format")
	ErrMalformedJSON     = errors.New("failed to parse JSON")
	ErrContentTooShort   = errors.New("content too short")
)

// Error is a recoverable preview failure with a human-readable reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindUnsupported:
		return target == ErrUnsupportedFormat
	case KindMalformedJSON:
		return target == ErrMalformedJSON
	case KindTooShort:
		return target == ErrContentTooShort
	}
	return false
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sniff builds a preview of content according to the extension of filename,
// compared case-insensitively.
func Sniff(filename string, content []byte) (Table, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	switch Extension(filename) {
	case "json":
		return sniffJSON(content)
	case "csv":
		return sniffCSV(string(content))
	default:
		return Table{}, &Error{Kind: KindUnsupported, Reason: ErrUnsupportedFormat.Error()}
	}
}

// Extension returns the lower-cased extension of name without the dot, or ""
// when there is none.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
