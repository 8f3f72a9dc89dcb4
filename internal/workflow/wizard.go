package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/history"
	"github.com/JonMunkholm/tidyflow/internal/preview"
	"github.com/JonMunkholm/tidyflow/internal/selection"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds each collaborator call when Deps.Timeout is zero.
const DefaultTimeout = 2 * time.Minute

var (
	// ErrWrongStep is returned for an intent the current step does not accept.
	ErrWrongStep = errors.New("action not available at this step")
	// ErrNoSelection is returned by Analyze before a file is selected.
	ErrNoSelection = errors.New("no file selected")
	// ErrBusy is returned when the same request is already outstanding. No
	// command is issued.
	ErrBusy = errors.New("request already in progress")
)

// Analyzer profiles an uploaded file.
type Analyzer interface {
	Analyze(ctx context.Context, sel selection.Selection) (core.AnalysisResult, error)
}

// Processor cleans an analyzed upload.
type Processor interface {
	Process(ctx context.Context, filename string, opts core.ProcessingOptions) (core.ProcessingResult, error)
}

// Retriever fetches the bytes behind a file handle.
type Retriever interface {
	Download(ctx context.Context, handle string) ([]byte, error)
}

// Sink stores a downloaded file and reports where it went.
type Sink interface {
	Save(name string, data []byte) (string, error)
}

// Deps are the wizard's collaborators.
type Deps struct {
	Analyzer  Analyzer
	Processor Processor
	Retriever Retriever
	Sink      Sink

	// Journal records completed runs. Nil means history.Nop.
	Journal history.Recorder

	Logger *slog.Logger

	// PreviewUpload sniffs the raw upload once analysis succeeds.
	PreviewUpload bool

	// Timeout bounds each collaborator call.
	Timeout time.Duration
}

// Wizard is an immutable snapshot of the workflow. Every method returns the
// next Wizard; the receiver is left untouched.
type Wizard struct {
	deps  *Deps
	state State
	gen   uint64
}

// New returns a wizard at the Upload step.
func New(deps Deps) Wizard {
	if deps.Journal == nil {
		deps.Journal = history.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultTimeout
	}
	return Wizard{deps: &deps, state: Upload{}, gen: 1}
}

// Step returns the active step.
func (w Wizard) Step() Step { return w.state.Step() }

// transition enters s and invalidates every outstanding command.
func (w Wizard) transition(s State) Wizard {
	w.state = s
	w.gen++
	return w
}

func (w Wizard) wrongStep(op string, want Step) error {
	return fmt.Errorf("%w: %s needs the %s step, wizard is at %s", ErrWrongStep, op, want, w.Step())
}

// SelectFile replaces the current selection and clears any error. An
// analysis still in flight for the previous file is abandoned.
func (w Wizard) SelectFile(sel selection.Selection) (Wizard, tea.Cmd, error) {
	if _, ok := w.state.(Upload); !ok {
		return w, nil, w.wrongStep("select file", StepUpload)
	}
	return w.transition(Upload{Selection: &sel}), nil, nil
}

// Analyze sends the selection to the analysis service.
func (w Wizard) Analyze() (Wizard, tea.Cmd, error) {
	st, ok := w.state.(Upload)
	if !ok {
		return w, nil, w.wrongStep("analyze", StepUpload)
	}
	if st.Selection == nil {
		return w, nil, ErrNoSelection
	}
	if st.Analyzing {
		return w, nil, ErrBusy
	}

	st.Analyzing = true
	st.Err = ""
	w.state = st
	return w, w.analyzeCmd(w.gen, *st.Selection), nil
}

// SubmitOptions asks the processing service to clean the analyzed upload.
// Invalid options are reported inline and no request is made.
func (w Wizard) SubmitOptions(opts core.ProcessingOptions) (Wizard, tea.Cmd, error) {
	st, ok := w.state.(Options)
	if !ok {
		return w, nil, w.wrongStep("submit options", StepOptions)
	}
	if st.Processing {
		return w, nil, ErrBusy
	}

	st.Choice = opts
	if err := opts.Validate(); err != nil {
		st.Err = err.Error()
		w.state = st
		return w, nil, err
	}

	st.Processing = true
	st.Err = ""
	w.state = st
	return w, w.processCmd(w.gen, st.Analysis.Filename, opts), nil
}

// GoBack returns to Upload, discarding the selection and the analysis.
func (w Wizard) GoBack() (Wizard, tea.Cmd, error) {
	if _, ok := w.state.(Options); !ok {
		return w, nil, w.wrongStep("go back", StepOptions)
	}
	return w.transition(Upload{}), nil, nil
}

// Reset starts over with another file.
func (w Wizard) Reset() (Wizard, tea.Cmd, error) {
	if _, ok := w.state.(Results); !ok {
		return w, nil, w.wrongStep("reset", StepResults)
	}
	return w.transition(Upload{}), nil, nil
}

// RequestDownload retrieves the processed file into the sink. The step never
// changes, even on failure.
func (w Wizard) RequestDownload() (Wizard, tea.Cmd, error) {
	st, ok := w.state.(Results)
	if !ok {
		return w, nil, w.wrongStep("download", StepResults)
	}
	if st.Downloading {
		return w, nil, ErrBusy
	}

	st.Downloading = true
	st.Err = ""
	st.SavedTo = ""
	w.state = st
	return w, w.downloadCmd(w.gen, st.ProcessedFile), nil
}

// Update applies a completion message. Messages from an older generation are
// dropped; unknown messages are ignored.
func (w Wizard) Update(msg tea.Msg) (Wizard, tea.Cmd) {
	switch msg := msg.(type) {
	case AnalyzedMsg:
		if w.stale("analyze", msg.Gen) {
			return w, nil
		}
		return w.analyzed(msg)
	case ProcessedMsg:
		if w.stale("process", msg.Gen) {
			return w, nil
		}
		return w.processed(msg)
	case PreviewMsg:
		if w.stale("preview", msg.Gen) {
			return w, nil
		}
		return w.previewed(msg), nil
	case DownloadedMsg:
		if w.stale("download", msg.Gen) {
			return w, nil
		}
		return w.downloaded(msg), nil
	case RecordedMsg:
		if msg.Err != nil {
			w.deps.Logger.Warn("failed to record run", "run_id", msg.Run.ID, "error", msg.Err)
		} else {
			w.deps.Logger.Debug("run recorded", "run_id", msg.Run.ID)
		}
	}
	return w, nil
}

func (w Wizard) stale(op string, gen uint64) bool {
	if gen == w.gen {
		return false
	}
	w.deps.Logger.Debug("discarding stale completion", "op", op, "gen", gen, "current_gen", w.gen)
	return true
}

func (w Wizard) analyzed(msg AnalyzedMsg) (Wizard, tea.Cmd) {
	st, ok := w.state.(Upload)
	if !ok || !st.Analyzing || st.Selection == nil {
		return w, nil
	}

	if msg.Err != nil {
		w.deps.Logger.Warn("analysis failed", "file", st.Selection.Name, "error", msg.Err)
		st.Analyzing = false
		st.Err = core.UserText(msg.Err)
		w.state = st
		return w, nil
	}

	next := Options{
		Selection: *st.Selection,
		Analysis:  msg.Result.Clone(),
		Choice:    core.DefaultOptions(),
		Raw:       Pane{Enabled: w.deps.PreviewUpload, Loading: w.deps.PreviewUpload},
	}
	w = w.transition(next)
	w.deps.Logger.Info("analysis complete", "file", next.Selection.Name, "handle", next.Analysis.Filename,
		"rows", next.Analysis.TotalRows, "columns", next.Analysis.TotalColumns)

	if !next.Raw.Enabled {
		return w, nil
	}
	return w, w.sniffUploadCmd(w.gen, next.Selection)
}

func (w Wizard) processed(msg ProcessedMsg) (Wizard, tea.Cmd) {
	st, ok := w.state.(Options)
	if !ok || !st.Processing {
		return w, nil
	}

	if msg.Err != nil {
		w.deps.Logger.Warn("processing failed", "handle", st.Analysis.Filename, "error", msg.Err)
		st.Processing = false
		st.Err = core.UserText(msg.Err)
		w.state = st
		return w, nil
	}

	next := Results{
		SourceName:     st.Selection.Name,
		AnalysisHandle: st.Analysis.Filename,
		Choice:         st.Choice,
		Stats:          msg.Result.Stats.Clone(),
		ProcessedFile:  msg.Result.ProcessedFile,
		Preview:        Pane{Enabled: true, Loading: true},
	}
	w = w.transition(next)
	w.deps.Logger.Info("processing complete", "handle", next.AnalysisHandle, "processed", next.ProcessedFile,
		"initial_rows", next.Stats.InitialRows, "final_rows", next.Stats.FinalRows)

	run := history.NewRun(next.SourceName, next.AnalysisHandle, next.ProcessedFile, next.Choice, next.Stats)
	return w, tea.Batch(
		w.fetchPreviewCmd(w.gen, next.ProcessedFile),
		w.recordCmd(run),
	)
}

func (w Wizard) previewed(msg PreviewMsg) Wizard {
	switch msg.target {
	case rawPane:
		if st, ok := w.state.(Options); ok {
			st.Raw = fillPane(st.Raw, msg)
			w.state = st
		}
	case resultPane:
		if st, ok := w.state.(Results); ok {
			st.Preview = fillPane(st.Preview, msg)
			w.state = st
		}
	}
	return w
}

func (w Wizard) downloaded(msg DownloadedMsg) Wizard {
	st, ok := w.state.(Results)
	if !ok || !st.Downloading {
		return w
	}

	st.Downloading = false
	if msg.Err != nil {
		w.deps.Logger.Warn("download failed", "processed", st.ProcessedFile, "error", msg.Err)
		st.Err = core.UserText(msg.Err)
	} else {
		st.SavedTo = msg.Path
	}
	w.state = st
	return w
}

func fillPane(p Pane, msg PreviewMsg) Pane {
	p.Loading = false
	if msg.Err != nil {
		p.Table = nil
		p.Err = paneError(msg.Err)
		return p
	}
	t := msg.Table
	p.Table = &t
	p.Err = ""
	return p
}

// paneError keeps parse failures verbatim and maps transport failures.
func paneError(err error) string {
	var perr *preview.Error
	if errors.As(err, &perr) {
		return perr.Reason
	}
	return core.UserText(err)
}
