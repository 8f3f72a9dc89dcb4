package preview

import (
	"encoding/json"
	"testing"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"whole float", 3.0, "3"},
		{"fraction rounds to four places", 3.14159, "3.1416"},
		{"fraction padded to four places", 0.5, "0.5000"},
		{"negative fraction", -2.25, "-2.2500"},
		{"large whole", 1234567.0, "1234567"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"json number", json.Number("2.5"), "2.5000"},
		{"string stays as-is", "3.0", "3.0"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"object", map[string]any{"k": "v"}, `{"k":"v"}`},
		{"array", []any{float64(1), "a"}, `[1,"a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
