package brief

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"market-brief/internal/store"
	"market-brief/internal/types"
)

type stubCompleter struct {
	response string
	err      error
	gotSys   string
	gotUser  string
}

func (s *stubCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.gotSys = system
	s.gotUser = prompt
	return s.response, s.err
}

func synthNow() time.Time {
	return time.Date(2026, 8, 25, 2, 30, 0, 0, time.UTC)
}

func emptyPayloads() (*types.NewsPayload, *types.MarketPayload, *types.IPOPayload, *types.EarningsPayload) {
	return &types.NewsPayload{}, &types.MarketPayload{}, &types.IPOPayload{}, &types.EarningsPayload{}
}

func TestGenerateParsesAndPersistsSummary(t *testing.T) {
	mem := store.NewMemory(t.TempDir())
	stub := &stubCompleter{response: `{"tldr": ["quiet day"], "sector_spotlight": "IT"}`}
	s := NewSynthesizer(stub, mem, WithSynthClock(synthNow))

	news, _, ipo, earnings := emptyPayloads()
	market := &types.MarketPayload{
		Indices: map[string]types.IndexQuote{
			"^NSEI": {Name: "Nifty 50", Close: 25571.4, ChangePct: 0.81},
		},
		FIIDII: &types.FlowData{FIINet: "-2145.67", DIINet: "3012.40"},
	}

	b, err := s.Generate(context.Background(), news, market, ipo, earnings)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.TLDR) != 1 || b.TLDR[0] != "quiet day" {
		t.Errorf("brief not parsed: %+v", b)
	}
	if stub.gotSys != SystemPrompt {
		t.Error("system prompt not passed through")
	}

	saved := mem.LoadDailySummary(synthNow())
	if saved == nil {
		t.Fatal("daily summary not persisted")
	}
	if saved.Date != "2026-08-25" || saved.NiftyClose != 25571.4 || saved.FIINet != "-2145.67" {
		t.Errorf("summary fields wrong: %+v", saved)
	}
}

func TestGenerateFeedsMemoryIntoPrompt(t *testing.T) {
	mem := store.NewMemory(t.TempDir())
	if err := mem.SaveDailySummary(&types.DailySummary{
		Date: "2026-08-24", TLDR: []string{"FIIs sold heavily"}, NiftyClose: 25365.2,
	}); err != nil {
		t.Fatal(err)
	}
	for _, date := range []string{"2026-08-21", "2026-08-24"} {
		if err := mem.AppendSentimentRow(types.SectorSentimentRow{
			Date: date, NiftyPct: "-0.50%", FIINet: "-900", DIINet: "+400",
			Gainers: "Nifty IT:+1.00%", Losers: "Bank Nifty:-0.80%",
		}); err != nil {
			t.Fatal(err)
		}
	}

	stub := &stubCompleter{response: `{"tldr": ["x"]}`}
	s := NewSynthesizer(stub, mem, WithSynthClock(synthNow))

	news, market, ipo, earnings := emptyPayloads()
	if _, err := s.Generate(context.Background(), news, market, ipo, earnings); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(stub.gotUser, "YESTERDAY'S BRIEF (2026-08-24)") {
		t.Error("yesterday's summary missing from prompt")
	}
	if !strings.Contains(stub.gotUser, "2-DAY SECTOR TREND") {
		t.Error("sector trend missing from prompt")
	}
}

func TestGenerateCompleterErrorIsFatal(t *testing.T) {
	mem := store.NewMemory(t.TempDir())
	stub := &stubCompleter{err: errors.New("api down")}
	s := NewSynthesizer(stub, mem, WithSynthClock(synthNow))

	news, market, ipo, earnings := emptyPayloads()
	if _, err := s.Generate(context.Background(), news, market, ipo, earnings); err == nil {
		t.Fatal("completer failure must propagate")
	}
	if saved := mem.LoadDailySummary(synthNow()); saved != nil {
		t.Error("no summary should be written when generation fails")
	}
}

func TestUpdateSentimentWritesRow(t *testing.T) {
	mem := store.NewMemory(t.TempDir())
	s := NewSynthesizer(&stubCompleter{}, mem, WithSynthClock(synthNow))

	market := &types.MarketPayload{
		Indices: map[string]types.IndexQuote{
			"^NSEI": {Name: "Nifty 50", ChangePct: -0.42},
		},
		FIIDII: &types.FlowData{FIINet: "-1200.50", DIINet: "900.10"},
		Sectors: types.SectorPerformance{
			TopGainers: []types.IndexQuote{{Name: "Nifty IT", ChangePct: 1.2}},
			TopLosers:  []types.IndexQuote{{Name: "Bank Nifty", ChangePct: -0.8}},
		},
	}
	if err := s.UpdateSentiment(context.Background(), market); err != nil {
		t.Fatal(err)
	}

	rows, err := mem.LoadSentimentRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if row.Date != "2026-08-25" || row.NiftyPct != "-0.42%" {
		t.Errorf("row basics wrong: %+v", row)
	}
	if row.Gainers != "Nifty IT:+1.20%" || row.Losers != "Bank Nifty:-0.80%" {
		t.Errorf("sector encoding wrong: %+v", row)
	}
}

func TestUpdateSentimentNilMarket(t *testing.T) {
	mem := store.NewMemory(t.TempDir())
	s := NewSynthesizer(&stubCompleter{}, mem, WithSynthClock(synthNow))
	if err := s.UpdateSentiment(context.Background(), nil); err != nil {
		t.Errorf("nil market should be a no-op, got %v", err)
	}
}
