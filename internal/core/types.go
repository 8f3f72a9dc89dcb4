package core

import "maps"

// AnalysisResult is the remote quality profile of an uploaded file.
// Filename is the server-assigned handle of the upload, not the local name.
type AnalysisResult struct {
	Filename      string         `json:"filename"`
	TotalRows     int            `json:"total_rows"`
	TotalColumns  int            `json:"total_columns"`
	MissingValues map[string]int `json:"missing_values"`
	Duplicates    int            `json:"duplicates"`
}

// Clone returns a deep copy so callers never share the missing-value map.
func (a AnalysisResult) Clone() AnalysisResult {
	a.MissingValues = maps.Clone(a.MissingValues)
	return a
}

// ProcessingStats are the before/after statistics of a processing run.
type ProcessingStats struct {
	InitialRows         int            `json:"initial_rows"`
	FinalRows           int            `json:"final_rows"`
	RowsRemoved         int            `json:"rows_removed"`
	FinalColumns        int            `json:"final_columns"`
	MissingValues       map[string]int `json:"missing_values"`
	Outliers            map[string]int `json:"outliers"`
	DuplicatesFound     int            `json:"duplicates_found"`
	DuplicatesRemoved   int            `json:"duplicates_removed"`
	NormalizationMethod Normalization  `json:"normalization_method"`
}

// Clone returns a deep copy of the stats.
func (s ProcessingStats) Clone() ProcessingStats {
	s.MissingValues = maps.Clone(s.MissingValues)
	s.Outliers = maps.Clone(s.Outliers)
	return s
}

// ProcessingResult is what the processing service returns on success.
type ProcessingResult struct {
	Stats         ProcessingStats `json:"stats"`
	ProcessedFile string          `json:"processed_file"`
}

// ServiceStatus is the unauthenticated health answer of the remote API.
type ServiceStatus struct {
	Status           string   `json:"status"`
	SupportedFormats []string `json:"supported_formats"`
}
