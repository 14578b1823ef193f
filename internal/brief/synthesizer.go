package brief

import (
	"context"
	"fmt"
	"strings"
	"time"

	"market-brief/internal/logger"
	"market-brief/internal/store"
	"market-brief/internal/types"
)

// Synthesizer turns the four stage payloads into the final brief. It
// owns the cross-run memory reads and writes so the pipeline only deals
// in payloads.
type Synthesizer struct {
	completer Completer
	memory    *store.Memory
	now       func() time.Time
}

type SynthOption func(*Synthesizer)

func WithSynthClock(now func() time.Time) SynthOption {
	return func(s *Synthesizer) { s.now = now }
}

func NewSynthesizer(completer Completer, memory *store.Memory, opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{
		completer: completer,
		memory:    memory,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds the prompt with yesterday's context and the sector
// trend, calls the model, and persists today's summary for tomorrow's
// run. A model or parse failure is fatal; a memory write failure is not.
func (s *Synthesizer) Generate(
	ctx context.Context,
	news *types.NewsPayload,
	market *types.MarketPayload,
	ipo *types.IPOPayload,
	earnings *types.EarningsPayload,
) (*types.Brief, error) {
	today := s.now().UTC()

	yesterday := s.memory.LoadDailySummary(today)
	if yesterday != nil {
		logger.Debug(ctx, "loaded yesterday's summary", "date", yesterday.Date)
	}

	trend := ""
	if rows, err := s.memory.LoadSentimentRows(); err != nil {
		logger.Warn(ctx, "sentiment history unreadable, skipping trend block", "error", err)
	} else {
		trend = SectorTrend(rows)
	}

	prompt := BuildPrompt(news, market, ipo, earnings, yesterday, trend, today)
	logger.Info(ctx, "calling model", "prompt_chars", len(prompt))

	raw, err := s.completer.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("brief generation: %w", err)
	}

	brief, err := ParseBrief(raw)
	if err != nil {
		return nil, err
	}

	if err := s.memory.SaveDailySummary(todaySummary(brief, market, today)); err != nil {
		logger.Warn(ctx, "failed to persist daily summary", "error", err)
	}
	return brief, nil
}

// UpdateSentiment appends today's sector row to the rolling CSV. Called
// right after the market fetch so the trend survives even when the
// model call later fails.
func (s *Synthesizer) UpdateSentiment(ctx context.Context, market *types.MarketPayload) error {
	if market == nil {
		return nil
	}
	row := sentimentRow(market, s.now().UTC())
	if err := s.memory.AppendSentimentRow(row); err != nil {
		return fmt.Errorf("update sector sentiment: %w", err)
	}
	logger.Debug(ctx, "sector sentiment updated", "date", row.Date)
	return nil
}

func todaySummary(b *types.Brief, market *types.MarketPayload, today time.Time) *types.DailySummary {
	s := &types.DailySummary{
		Date: today.Format("2006-01-02"),
		TLDR: b.TLDR,
	}
	if market == nil {
		return s
	}
	if nifty := findNifty(market.Indices); nifty != nil {
		s.NiftyClose = nifty.Close
		s.NiftyChangePct = nifty.ChangePct
	}
	s.TopSectorGainers = market.Sectors.TopGainers
	s.TopSectorLosers = market.Sectors.TopLosers
	if market.FIIDII != nil {
		s.FIINet = market.FIIDII.FIINet
		s.DIINet = market.FIIDII.DIINet
	}
	return s
}

// findNifty locates the headline Nifty 50 quote, skipping Bank Nifty
// and other derivatives.
func findNifty(indices map[string]types.IndexQuote) *types.IndexQuote {
	if q, ok := indices["^NSEI"]; ok {
		return &q
	}
	for _, q := range indices {
		upper := strings.ToUpper(q.Name)
		if strings.Contains(upper, "NIFTY") && !strings.Contains(upper, "BANK") {
			return &q
		}
	}
	return nil
}

func sentimentRow(market *types.MarketPayload, today time.Time) types.SectorSentimentRow {
	row := types.SectorSentimentRow{
		Date:     today.Format("2006-01-02"),
		NiftyPct: "N/A",
		FIINet:   "N/A",
		DIINet:   "N/A",
		Gainers:  "N/A",
		Losers:   "N/A",
	}
	if nifty := findNifty(market.Indices); nifty != nil {
		row.NiftyPct = fmt.Sprintf("%+.2f%%", nifty.ChangePct)
	}
	if market.FIIDII != nil && market.FIIDII.FIINet != "" {
		row.FIINet = market.FIIDII.FIINet
		row.DIINet = market.FIIDII.DIINet
	}
	if s := joinSectors(market.Sectors.TopGainers); s != "" {
		row.Gainers = s
	}
	if s := joinSectors(market.Sectors.TopLosers); s != "" {
		row.Losers = s
	}
	return row
}

// joinSectors encodes quotes as "Bank Nifty:+1.20%|Nifty IT:-0.40%".
func joinSectors(quotes []types.IndexQuote) string {
	parts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		parts = append(parts, fmt.Sprintf("%s:%+.2f%%", q.Name, q.ChangePct))
	}
	return strings.Join(parts, "|")
}
