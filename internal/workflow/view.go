package workflow

import (
	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/selection"
)

// View is a read-only copy of the wizard for rendering. Nothing in it aliases
// wizard state.
type View struct {
	Step Step
	Err  string

	Analyzing   bool
	Processing  bool
	Downloading bool

	// Selection omits Content.
	Selection *selection.Selection
	Analysis  *core.AnalysisResult
	Options   core.ProcessingOptions
	Stats     *core.ProcessingStats

	ProcessedFile string
	SavedTo       string

	UploadPreview Pane
	ResultPreview Pane
}

// Snapshot returns a View of the current state.
func (w Wizard) Snapshot() View {
	v := View{Step: w.Step(), Options: core.DefaultOptions()}

	switch st := w.state.(type) {
	case Upload:
		v.Err = st.Err
		v.Analyzing = st.Analyzing
		if st.Selection != nil {
			v.Selection = selectionInfo(*st.Selection)
		}
	case Options:
		v.Err = st.Err
		v.Processing = st.Processing
		v.Selection = selectionInfo(st.Selection)
		a := st.Analysis.Clone()
		v.Analysis = &a
		v.Options = st.Choice
		v.UploadPreview = clonePane(st.Raw)
	case Results:
		v.Err = st.Err
		v.Downloading = st.Downloading
		s := st.Stats.Clone()
		v.Stats = &s
		v.Options = st.Choice
		v.ProcessedFile = st.ProcessedFile
		v.SavedTo = st.SavedTo
		v.ResultPreview = clonePane(st.Preview)
	}
	return v
}

func selectionInfo(sel selection.Selection) *selection.Selection {
	sel.Content = nil
	return &sel
}

func clonePane(p Pane) Pane {
	if p.Table != nil {
		t := p.Table.Clone()
		p.Table = &t
	}
	return p
}
