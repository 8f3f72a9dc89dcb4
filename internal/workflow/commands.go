package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/history"
	"github.com/JonMunkholm/tidyflow/internal/preview"
	"github.com/JonMunkholm/tidyflow/internal/selection"
	tea "github.com/charmbracelet/bubbletea"
)

func (w Wizard) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), w.deps.Timeout)
}

func timedOut(op string, err error, limit time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %v: %w", op, limit, err)
	}
	return err
}

func (w Wizard) analyzeCmd(gen uint64, sel selection.Selection) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := w.callContext()
		defer cancel()

		res, err := w.deps.Analyzer.Analyze(ctx, sel)
		return AnalyzedMsg{Gen: gen, Result: res, Err: timedOut("analysis", err, w.deps.Timeout)}
	}
}

func (w Wizard) processCmd(gen uint64, handle string, opts core.ProcessingOptions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := w.callContext()
		defer cancel()

		res, err := w.deps.Processor.Process(ctx, handle, opts)
		return ProcessedMsg{Gen: gen, Result: res, Err: timedOut("processing", err, w.deps.Timeout)}
	}
}

func (w Wizard) sniffUploadCmd(gen uint64, sel selection.Selection) tea.Cmd {
	return func() tea.Msg {
		table, err := preview.Sniff(sel.Name, sel.Content)
		return PreviewMsg{Gen: gen, target: rawPane, Table: table, Err: err}
	}
}

func (w Wizard) fetchPreviewCmd(gen uint64, handle string) tea.Cmd {
	return func() tea.Msg {
		// Skip the round trip for formats that cannot be previewed.
		if _, err := preview.Sniff(handle, nil); errors.Is(err, preview.ErrUnsupportedFormat) {
			return PreviewMsg{Gen: gen, target: resultPane, Err: err}
		}

		ctx, cancel := w.callContext()
		defer cancel()

		data, err := w.deps.Retriever.Download(ctx, handle)
		if err != nil {
			return PreviewMsg{Gen: gen, target: resultPane, Err: timedOut("preview", err, w.deps.Timeout)}
		}
		table, err := preview.Sniff(handle, data)
		return PreviewMsg{Gen: gen, target: resultPane, Table: table, Err: err}
	}
}

func (w Wizard) downloadCmd(gen uint64, handle string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := w.callContext()
		defer cancel()

		data, err := w.deps.Retriever.Download(ctx, handle)
		if err != nil {
			return DownloadedMsg{Gen: gen, Err: timedOut("download", err, w.deps.Timeout)}
		}
		path, err := w.deps.Sink.Save(handle, data)
		if err != nil {
			return DownloadedMsg{Gen: gen, Err: fmt.Errorf("save %s: %w", handle, err)}
		}
		return DownloadedMsg{Gen: gen, Path: path}
	}
}

func (w Wizard) recordCmd(run history.Run) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := w.callContext()
		defer cancel()

		return RecordedMsg{Run: run, Err: w.deps.Journal.Record(ctx, run)}
	}
}
