package store

import (
	"testing"

	"market-brief/internal/types"
)

func TestRunLogBoundedToThirty(t *testing.T) {
	s := NewTmpStore(t.TempDir())

	steps := []types.StepRecord{{Name: "fetch_news", Status: types.StepOK}}
	for i := 0; i < 35; i++ {
		if err := s.AppendRun("success", steps, ""); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ReadRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 30 {
		t.Fatalf("expected 30 retained runs, got %d", len(runs))
	}
}

func TestRunLogRecordsFailure(t *testing.T) {
	s := NewTmpStore(t.TempDir())

	steps := []types.StepRecord{
		{Name: "fetch_news", Status: types.StepOK, Counters: map[string]int{"articles": 12}},
		{Name: "generate_brief", Status: types.StepError, Error: "llm response malformed"},
	}
	if err := s.AppendRun("failed", steps, "llm response malformed"); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ReadRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != "failed" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if runs[0].Steps[1].Error != "llm response malformed" {
		t.Errorf("step error not preserved")
	}
	if runs[0].Steps[0].Counters["articles"] != 12 {
		t.Errorf("step counters not preserved")
	}
}

func TestReadRunsMissingFile(t *testing.T) {
	s := NewTmpStore(t.TempDir())
	runs, err := s.ReadRuns()
	if err != nil {
		t.Fatalf("missing run log should not error: %v", err)
	}
	if runs != nil {
		t.Errorf("expected nil runs, got %v", runs)
	}
}
