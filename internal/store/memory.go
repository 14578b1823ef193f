package store

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"market-brief/internal/types"
)

// Memory is the only state that crosses runs: yesterday's summary JSON
// (overwritten daily) and the rolling sector sentiment CSV (last 7 rows).
type Memory struct {
	dir string
}

const (
	summaryFile      = "daily_summary.json"
	sentimentFile    = "sector_sentiment.csv"
	maxSentimentRows = 7
	maxSummaryAgeDay = 5
)

var sentimentHeader = []string{"date", "nifty_pct", "fii_net", "dii_net", "top_gainers", "top_losers"}

func NewMemory(dir string) *Memory {
	return &Memory{dir: dir}
}

// LoadDailySummary returns yesterday's persisted summary, or nil when it
// is missing, unreadable, or older than 5 calendar days (covers weekends
// plus one missed run).
func (m *Memory) LoadDailySummary(now time.Time) *types.DailySummary {
	b, err := os.ReadFile(filepath.Join(m.dir, summaryFile))
	if err != nil {
		return nil
	}
	var s types.DailySummary
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	d, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return nil
	}
	age := int(now.UTC().Truncate(24*time.Hour).Sub(d.Truncate(24*time.Hour)).Hours() / 24)
	if age > maxSummaryAgeDay {
		return nil
	}
	return &s
}

// SaveDailySummary overwrites the single summary record for tomorrow's run.
func (m *Memory) SaveDailySummary(s *types.DailySummary) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.dir, summaryFile), b, 0o644)
}

// LoadSentimentRows reads the rolling CSV. A missing file returns nil, nil.
func (m *Memory) LoadSentimentRows() ([]types.SectorSentimentRow, error) {
	f, err := os.Open(filepath.Join(m.dir, sentimentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	var rows []types.SectorSentimentRow
	for i, rec := range records {
		if i == 0 || len(rec) < 6 {
			continue
		}
		rows = append(rows, types.SectorSentimentRow{
			Date:     rec[0],
			NiftyPct: rec[1],
			FIINet:   rec[2],
			DIINet:   rec[3],
			Gainers:  rec[4],
			Losers:   rec[5],
		})
	}
	return rows, nil
}

// AppendSentimentRow appends today's row, replacing any existing row for
// the same date, and truncates to the most recent 7 rows.
func (m *Memory) AppendSentimentRow(row types.SectorSentimentRow) error {
	existing, err := m.LoadSentimentRows()
	if err != nil {
		// A corrupt file should not block the pipeline; start fresh.
		existing = nil
	}
	var rows []types.SectorSentimentRow
	for _, r := range existing {
		if r.Date != row.Date {
			rows = append(rows, r)
		}
	}
	rows = append(rows, row)
	if len(rows) > maxSentimentRows {
		rows = rows[len(rows)-maxSentimentRows:]
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(m.dir, sentimentFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(sentimentHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Date, r.NiftyPct, r.FIINet, r.DIINet, r.Gainers, r.Losers}); err != nil {
			return err
		}
	}
	return nil
}
