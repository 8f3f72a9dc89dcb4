package preview

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSniff_CSVScenario(t *testing.T) {
	tbl, err := Sniff("data.csv", []byte("a,b\n1,2\n3,4\n"))
	if err != nil {
		t.Fatalf("Sniff() error = %v", err)
	}

	if want := []string{"a", "b"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Errorf("Columns = %v, want %v", tbl.Columns, want)
	}
	want := []Row{{"a": "1", "b": "2"}, {"a": "3", "b": "4"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Rows = %v, want %v", tbl.Rows, want)
	}
}

func TestSniff_CSV(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCols []string
		wantRows []Row
	}{
		{
			name:     "quoted header and fields",
			content:  "\"name\", \"age\"\n\"Jean\", 25\n",
			wantCols: []string{"name", "age"},
			wantRows: []Row{{"name": "Jean", "age": "25"}},
		},
		{
			name:     "short row pads with empty strings",
			content:  "a,b,c\n1\n",
			wantCols: []string{"a", "b", "c"},
			wantRows: []Row{{"a": "1", "b": "", "c": ""}},
		},
		{
			name:     "long row drops extra fields",
			content:  "a,b\n1,2,3,4\n",
			wantCols: []string{"a", "b"},
			wantRows: []Row{{"a": "1", "b": "2"}},
		},
		{
			name:     "blank and whitespace lines skipped",
			content:  "\n  \na,b\n\n1,2\n   \n",
			wantCols: []string{"a", "b"},
			wantRows: []Row{{"a": "1", "b": "2"}},
		},
		{
			name:     "CRLF line endings",
			content:  "a,b\r\n1,2\r\n",
			wantCols: []string{"a", "b"},
			wantRows: []Row{{"a": "1", "b": "2"}},
		},
		{
			name:     "duplicate headers kept literally",
			content:  "a,a\n1,2\n",
			wantCols: []string{"a", "a"},
			wantRows: []Row{{"a": "2"}},
		},
		{
			name:     "quoted comma is not honored",
			content:  "a,b\n\"x,y\",z\n",
			wantCols: []string{"a", "b"},
			wantRows: []Row{{"a": "\"x", "b": "y\""}},
		},
		{
			name:     "only one quote is not stripped",
			content:  "a\n\"open\n",
			wantCols: []string{"a"},
			wantRows: []Row{{"a": "\"open"}},
		},
		{
			name:     "leading byte order mark",
			content:  "\ufeffid,v\n1,2\n",
			wantCols: []string{"id", "v"},
			wantRows: []Row{{"id": "1", "v": "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Sniff("x.csv", []byte(tt.content))
			if err != nil {
				t.Fatalf("Sniff() error = %v", err)
			}
			if !reflect.DeepEqual(tbl.Columns, tt.wantCols) {
				t.Errorf("Columns = %q, want %q", tbl.Columns, tt.wantCols)
			}
			if !reflect.DeepEqual(tbl.Rows, tt.wantRows) {
				t.Errorf("Rows = %v, want %v", tbl.Rows, tt.wantRows)
			}
		})
	}
}

func TestSniff_CSVRowCounts(t *testing.T) {
	for _, dataLines := range []int{1, 2, 49, 50, 51, 200} {
		t.Run(fmt.Sprintf("%d lines", dataLines), func(t *testing.T) {
			var b strings.Builder
			b.WriteString("x,y,z\n")
			for i := 0; i < dataLines; i++ {
				fmt.Fprintf(&b, "%d,%d,%d\n", i, i*2, i*3)
			}

			tbl, err := Sniff("rows.csv", []byte(b.String()))
			if err != nil {
				t.Fatalf("Sniff() error = %v", err)
			}
			if len(tbl.Columns) != 3 {
				t.Errorf("len(Columns) = %d, want 3", len(tbl.Columns))
			}
			if want := min(MaxRows, dataLines); len(tbl.Rows) != want {
				t.Errorf("len(Rows) = %d, want %d", len(tbl.Rows), want)
			}
			if tbl.Rows[0]["x"] != "0" {
				t.Errorf("first row x = %v, want 0", tbl.Rows[0]["x"])
			}
		})
	}
}

func TestSniff_CSVTooShort(t *testing.T) {
	for _, content := range []string{"", "\n\n", "a,b\n", "  a,b  \n \n"} {
		_, err := Sniff("short.csv", []byte(content))
		if !errors.Is(err, ErrContentTooShort) {
			t.Errorf("Sniff(%q) error = %v, want ErrContentTooShort", content, err)
		}
		var pe *Error
		if !errors.As(err, &pe) || pe.Kind != KindTooShort {
			t.Errorf("Sniff(%q) error kind = %v, want %q", content, err, KindTooShort)
		}
	}
}

func TestSniff_JSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCols []string
		wantRows []Row
	}{
		{
			name:     "single record is wrapped",
			content:  `{"x":1}`,
			wantCols: []string{"x"},
			wantRows: []Row{{"x": float64(1)}},
		},
		{
			name:     "key order of first element kept",
			content:  `[{"zeta":"a","alpha":2,"mid":true},{"zeta":"b","alpha":3,"mid":false}]`,
			wantCols: []string{"zeta", "alpha", "mid"},
			wantRows: []Row{
				{"zeta": "a", "alpha": float64(2), "mid": true},
				{"zeta": "b", "alpha": float64(3), "mid": false},
			},
		},
		{
			name:     "empty array",
			content:  `[]`,
			wantCols: []string{},
			wantRows: []Row{},
		},
		{
			name:     "keys outside first element are not columns",
			content:  `[{"a":1},{"a":2,"extra":3}]`,
			wantCols: []string{"a"},
			wantRows: []Row{{"a": float64(1)}, {"a": float64(2)}},
		},
		{
			name:     "null values survive",
			content:  `[{"a":null,"b":"x"}]`,
			wantCols: []string{"a", "b"},
			wantRows: []Row{{"a": nil, "b": "x"}},
		},
		{
			name:     "repeated key is one column, last value wins",
			content:  `[{"a":1,"a":2,"b":3}]`,
			wantCols: []string{"a", "b"},
			wantRows: []Row{{"a": float64(2), "b": float64(3)}},
		},
		{
			name:     "non-record elements become empty rows",
			content:  `[1, 2]`,
			wantCols: []string{},
			wantRows: []Row{{}, {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Sniff("data.json", []byte(tt.content))
			if err != nil {
				t.Fatalf("Sniff() error = %v", err)
			}
			if !reflect.DeepEqual(tbl.Columns, tt.wantCols) {
				t.Errorf("Columns = %q, want %q", tbl.Columns, tt.wantCols)
			}
			if !reflect.DeepEqual(tbl.Rows, tt.wantRows) {
				t.Errorf("Rows = %v, want %v", tbl.Rows, tt.wantRows)
			}
		})
	}
}

func TestSniff_JSONBoundsAndSubset(t *testing.T) {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 120; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":%d,"name":"n%d"}`, i, i)
	}
	b.WriteString("]")

	tbl, err := Sniff("many.JSON", []byte(b.String()))
	if err != nil {
		t.Fatalf("Sniff() error = %v", err)
	}
	if len(tbl.Rows) != MaxRows {
		t.Errorf("len(Rows) = %d, want %d", len(tbl.Rows), MaxRows)
	}

	cols := map[string]bool{}
	for _, c := range tbl.Columns {
		cols[c] = true
	}
	for i, row := range tbl.Rows {
		for k := range row {
			if !cols[k] {
				t.Errorf("row %d has key %q outside columns %v", i, k, tbl.Columns)
			}
		}
	}
}

func TestSniff_MalformedJSON(t *testing.T) {
	for _, content := range []string{"", "{", `[{"a":1},]`, "not json"} {
		_, err := Sniff("bad.json", []byte(content))
		if !errors.Is(err, ErrMalformedJSON) {
			t.Errorf("Sniff(%q) error = %v, want ErrMalformedJSON", content, err)
		}
	}
}

func TestSniff_Unsupported(t *testing.T) {
	for _, name := range []string{"book.xlsx", "feed.xml", "README", "archive.csv.gz", ".csv.bak", ""} {
		tbl, err := Sniff(name, []byte("a,b\n1,2\n"))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Sniff(%q) error = %v, want ErrUnsupportedFormat", name, err)
		}
		if err != nil && err.Error() != "preview not available for this format" {
			t.Errorf("Sniff(%q) reason = %q", name, err.Error())
		}
		if len(tbl.Columns) != 0 || len(tbl.Rows) != 0 {
			t.Errorf("Sniff(%q) returned a table alongside the error", name)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"a.CSV":           "csv",
		"dir.v2/a.Json":   "json",
		"processed_x":     "",
		"x.tar.gz":        "gz",
		"/tmp/report.Xls": "xls",
	}
	for in, want := range tests {
		if got := Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}
