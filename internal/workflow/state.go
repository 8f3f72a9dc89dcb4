// Package workflow drives the Upload → Options → Results wizard.
//
// The wizard state is a tagged union: exactly one of Upload, Options or
// Results is current, and each carries only the data valid at that step.
// Intents (SelectFile, Analyze, ...) and completions (Update) are pure
// reducers returning a new Wizard plus an optional tea.Cmd; collaborator
// calls only ever run inside those commands.
//
// Every command is stamped with the wizard's generation. Each step
// transition bumps the generation, so a completion that arrives after the
// user has moved on carries an old stamp and is dropped.
package workflow

import (
	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/preview"
	"github.com/JonMunkholm/tidyflow/internal/selection"
)

// Step identifies the active wizard stage.
type Step int

const (
	StepUpload Step = iota
	StepOptions
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepOptions:
		return "options"
	case StepResults:
		return "results"
	default:
		return "unknown"
	}
}

// State is one of Upload, Options or Results.
type State interface {
	Step() Step
	isState()
}

// Upload is the initial step: pick a file and ask for its analysis.
type Upload struct {
	Selection *selection.Selection
	Analyzing bool
	Err       string
}

// Options holds a completed analysis while the user picks cleaning options.
type Options struct {
	Selection  selection.Selection
	Analysis   core.AnalysisResult
	Choice     core.ProcessingOptions
	Processing bool
	Err        string
	Raw        Pane
}

// Results holds a completed processing run.
type Results struct {
	SourceName     string
	AnalysisHandle string
	Choice         core.ProcessingOptions
	Stats          core.ProcessingStats
	ProcessedFile  string
	Preview        Pane
	Downloading    bool
	SavedTo        string
	Err            string
}

func (Upload) Step() Step  { return StepUpload }
func (Options) Step() Step { return StepOptions }
func (Results) Step() Step { return StepResults }

func (Upload) isState()  {}
func (Options) isState() {}
func (Results) isState() {}

// Pane is a preview slot. Table is never mutated once set.
type Pane struct {
	Enabled bool
	Loading bool
	Table   *preview.Table
	Err     string
}
