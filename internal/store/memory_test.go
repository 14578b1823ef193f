package store

import (
	"testing"
	"time"

	"market-brief/internal/types"
)

func TestDailySummaryStaleness(t *testing.T) {
	m := NewMemory(t.TempDir())
	now := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

	fresh := &types.DailySummary{Date: "2026-03-09", TLDR: []string{"a", "b", "c"}}
	if err := m.SaveDailySummary(fresh); err != nil {
		t.Fatal(err)
	}
	if got := m.LoadDailySummary(now); got == nil || got.Date != "2026-03-09" {
		t.Fatalf("expected fresh summary back, got %+v", got)
	}

	// Exactly 5 days old is still usable (covers a long weekend).
	if err := m.SaveDailySummary(&types.DailySummary{Date: "2026-03-05"}); err != nil {
		t.Fatal(err)
	}
	if m.LoadDailySummary(now) == nil {
		t.Error("5-day-old summary should still load")
	}

	// Older than 5 calendar days is treated as absent.
	if err := m.SaveDailySummary(&types.DailySummary{Date: "2026-03-04"}); err != nil {
		t.Fatal(err)
	}
	if m.LoadDailySummary(now) != nil {
		t.Error("6-day-old summary must be discarded")
	}
}

func TestLoadDailySummaryMissing(t *testing.T) {
	m := NewMemory(t.TempDir())
	if m.LoadDailySummary(time.Now()) != nil {
		t.Error("missing file should yield nil")
	}
}

func TestSentimentRowsBoundedToSeven(t *testing.T) {
	m := NewMemory(t.TempDir())

	for i := 1; i <= 9; i++ {
		row := types.SectorSentimentRow{
			Date:     time.Date(2026, 3, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			NiftyPct: "+0.50%",
			FIINet:   "1200",
			DIINet:   "-300",
			Gainers:  "Nifty IT:+1.2%",
			Losers:   "Nifty Metal:-0.8%",
		}
		if err := m.AppendSentimentRow(row); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := m.LoadSentimentRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows after truncation, got %d", len(rows))
	}
	if rows[0].Date != "2026-03-03" || rows[6].Date != "2026-03-09" {
		t.Errorf("unexpected window: first=%s last=%s", rows[0].Date, rows[6].Date)
	}
}

func TestSentimentSameDayOverwrite(t *testing.T) {
	m := NewMemory(t.TempDir())

	row := types.SectorSentimentRow{Date: "2026-03-09", NiftyPct: "+0.10%"}
	if err := m.AppendSentimentRow(row); err != nil {
		t.Fatal(err)
	}
	row.NiftyPct = "+0.90%"
	if err := m.AppendSentimentRow(row); err != nil {
		t.Fatal(err)
	}

	rows, err := m.LoadSentimentRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("same-day append must overwrite, got %d rows", len(rows))
	}
	if rows[0].NiftyPct != "+0.90%" {
		t.Errorf("expected latest value, got %s", rows[0].NiftyPct)
	}
}
