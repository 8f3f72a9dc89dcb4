package workflow

import (
	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/history"
	"github.com/JonMunkholm/tidyflow/internal/preview"
)

// Completion messages. Gen is the wizard generation the command was issued
// under; Update ignores messages whose Gen no longer matches.

// AnalyzedMsg completes Analyze.
type AnalyzedMsg struct {
	Gen    uint64
	Result core.AnalysisResult
	Err    error
}

// ProcessedMsg completes SubmitOptions.
type ProcessedMsg struct {
	Gen    uint64
	Result core.ProcessingResult
	Err    error
}

type paneTarget int

const (
	rawPane paneTarget = iota
	resultPane
)

// PreviewMsg carries a sniffed table for the raw upload or the processed
// output.
type PreviewMsg struct {
	Gen    uint64
	target paneTarget
	Table  preview.Table
	Err    error
}

// DownloadedMsg completes RequestDownload.
type DownloadedMsg struct {
	Gen  uint64
	Path string
	Err  error
}

// RecordedMsg reports the outcome of journaling a run. It never changes
// state.
type RecordedMsg struct {
	Run history.Run
	Err error
}
