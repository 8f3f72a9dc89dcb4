package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/history"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// runLister is satisfied by *history.PGStore.
type runLister interface {
	Recent(ctx context.Context, limit int) ([]history.Run, error)
}

func printHistory(w io.Writer, runs runLister, limit int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := runs.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}

	_, err = fmt.Fprintln(w, historyTable(list))
	return err
}

func historyTable(runs []history.Run) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WHEN", "SOURCE", "OUTPUT", "ROWS", "OPTIONS")
	for _, r := range runs {
		t.Row(
			r.RecordedAt.Local().Format("2006-01-02 15:04"),
			r.SourceName,
			r.ProcessedFile,
			strconv.Itoa(r.InitialRows)+" → "+strconv.Itoa(r.FinalRows),
			fmt.Sprintf("%s/%s/%s/%s/%s", r.Options.MissingStrategy, r.Options.OutlierMethod,
				r.Options.OutlierAction, r.Options.Normalization, r.Options.OutputFormat),
		)
	}
	return t
}
