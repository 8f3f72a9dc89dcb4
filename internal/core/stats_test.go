package core

import (
	"reflect"
	"testing"
)

func TestTotalMissing(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]int
		want int
	}{
		{name: "nil map", in: nil, want: 0},
		{name: "empty map", in: map[string]int{}, want: 0},
		{name: "two columns", in: map[string]int{"a": 3, "b": 2}, want: 5},
		{name: "zero counts", in: map[string]int{"a": 0, "b": 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalMissing(tt.in); got != tt.want {
				t.Errorf("TotalMissing(%v) = %d, want %d", tt.in, got, tt.want)
			}
			if got := TotalOutliers(tt.in); got != tt.want {
				t.Errorf("TotalOutliers(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestItems(t *testing.T) {
	m := map[string]int{"salary": 4, "age": 1, "city": 0}

	want := []Item{{Name: "age", Count: 1}, {Name: "city", Count: 0}, {Name: "salary", Count: 4}}
	if got := MissingItems(m); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingItems = %v, want %v", got, want)
	}
	if got := OutlierItems(m); !reflect.DeepEqual(got, want) {
		t.Errorf("OutlierItems = %v, want %v", got, want)
	}

	if got := MissingItems(nil); len(got) != 0 {
		t.Errorf("MissingItems(nil) = %v, want empty", got)
	}
}

func TestNormalizationLabel(t *testing.T) {
	tests := []struct {
		method Normalization
		want   string
	}{
		{NormalizationStandard, "Standardization (Z-score)"},
		{NormalizationMinMax, "Min-Max [0,1]"},
		{"bogus", "Standardization (Z-score)"},
		{"", "Standardization (Z-score)"},
	}

	for _, tt := range tests {
		if got := NormalizationLabel(tt.method); got != tt.want {
			t.Errorf("NormalizationLabel(%q) = %q, want %q", tt.method, got, tt.want)
		}
	}

	if NormalizationLabel("bogus") != NormalizationLabel(NormalizationStandard) {
		t.Error("unknown method should fall back to the standard label")
	}
}

func TestTotalProblems(t *testing.T) {
	if got := TotalProblems(nil); got != 0 {
		t.Errorf("TotalProblems(nil) = %d, want 0", got)
	}

	a := &AnalysisResult{
		MissingValues: map[string]int{"age": 2, "salary": 1},
		Duplicates:    4,
	}
	if got := TotalProblems(a); got != 7 {
		t.Errorf("TotalProblems = %d, want 7", got)
	}

	clean := &AnalysisResult{}
	if got := TotalProblems(clean); got != 0 {
		t.Errorf("TotalProblems(clean) = %d, want 0", got)
	}
}

func TestClone_DoesNotShareMaps(t *testing.T) {
	a := AnalysisResult{MissingValues: map[string]int{"x": 1}}
	c := a.Clone()
	c.MissingValues["x"] = 99
	if a.MissingValues["x"] != 1 {
		t.Errorf("original mutated through clone: %v", a.MissingValues)
	}

	s := ProcessingStats{Outliers: map[string]int{"y": 2}}
	sc := s.Clone()
	sc.Outliers["y"] = 0
	if s.Outliers["y"] != 2 {
		t.Errorf("original stats mutated through clone: %v", s.Outliers)
	}
}
