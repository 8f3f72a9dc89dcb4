package core

import "sort"

// Item is one (column, count) entry of a per-column tally.
type Item struct {
	Name  string
	Count int
}

// TotalMissing sums a per-column missing-value tally. Nil or empty is 0.
func TotalMissing(m map[string]int) int {
	return sum(m)
}

// TotalOutliers sums a per-column outlier tally. Nil or empty is 0.
func TotalOutliers(m map[string]int) int {
	return sum(m)
}

// MissingItems lists a missing-value tally as (name, count) pairs.
// Pairs come back sorted by column name; callers must not depend on any
// particular order.
func MissingItems(m map[string]int) []Item {
	return items(m)
}

// OutlierItems lists an outlier tally as (name, count) pairs, ordered like
// MissingItems.
func OutlierItems(m map[string]int) []Item {
	return items(m)
}

// NormalizationLabel returns the display label for a normalization method.
// Anything other than minmax falls back to the standard label.
func NormalizationLabel(method Normalization) string {
	if method == NormalizationMinMax {
		return "Min-Max [0,1]"
	}
	return "Standardization (Z-score)"
}

// TotalProblems is the missing-value total plus duplicate rows of an
// analysis. A nil analysis has no problems.
func TotalProblems(a *AnalysisResult) int {
	if a == nil {
		return 0
	}
	return TotalMissing(a.MissingValues) + a.Duplicates
}

func sum(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

func items(m map[string]int) []Item {
	out := make([]Item, 0, len(m))
	for name, n := range m {
		out = append(out, Item{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
