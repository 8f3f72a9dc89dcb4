package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/history"
)

type fakeLister struct {
	runs []history.Run
	err  error
}

func (f fakeLister) Recent(context.Context, int) ([]history.Run, error) {
	return f.runs, f.err
}

func TestPrintHistory(t *testing.T) {
	run := history.NewRun("people.csv", "people_1.csv", "processed_people_1.csv", core.DefaultOptions(),
		core.ProcessingStats{InitialRows: 10, FinalRows: 8})
	run.RecordedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := printHistory(&buf, fakeLister{runs: []history.Run{run}}, 5); err != nil {
		t.Fatalf("printHistory() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SOURCE", "people.csv", "processed_people_1.csv", "10 → 8", "mean/iqr/cap/standard/csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := printHistory(&buf, fakeLister{}, 5); err != nil {
		t.Fatalf("printHistory() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No runs") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintHistory_Error(t *testing.T) {
	var buf bytes.Buffer
	err := printHistory(&buf, fakeLister{err: errors.New("db down")}, 5)
	if err == nil || buf.Len() != 0 {
		t.Errorf("printHistory() = %v, output %q", err, buf.String())
	}
}
