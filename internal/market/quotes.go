package market

import (
	"context"
	"fmt"
	"math"

	"market-brief/internal/types"
)

// Instrument pairs a Yahoo ticker with its display name. Order matters:
// fetches run sequentially with a politeness delay between tickers.
type Instrument struct {
	Ticker string
	Name   string
}

// MainIndices are the headline Indian quotes for the brief.
var MainIndices = []Instrument{
	{"^NSEI", "Nifty 50"},
	{"^BSESN", "Sensex"},
	{"^INDIAVIX", "India VIX"},
	{"USDINR=X", "USD/INR"},
}

// SectorIndices feed the sector performance ranking.
var SectorIndices = []Instrument{
	{"^NSEBANK", "Bank Nifty"},
	{"^CNXIT", "Nifty IT"},
	{"^CNXPHARMA", "Nifty Pharma"},
	{"^CNXAUTO", "Nifty Auto"},
	{"^CNXFMCG", "Nifty FMCG"},
	{"^CNXREALTY", "Nifty Realty"},
	{"^CNXENERGY", "Nifty Energy"},
	{"^CNXMETAL", "Nifty Metal"},
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// fetchQuote pulls the two most recent daily closes for one ticker from
// the Yahoo chart API and derives the day change.
func (f *Fetcher) fetchQuote(ctx context.Context, inst Instrument) (types.IndexQuote, error) {
	var chart yahooChartResponse
	err := f.http.GetJSON(ctx, f.yahooBase+"/v8/finance/chart/"+inst.Ticker, map[string]string{
		"range":    "5d",
		"interval": "1d",
	}, nil, &chart)
	if err != nil {
		return types.IndexQuote{}, err
	}
	if chart.Chart.Error != nil || len(chart.Chart.Result) == 0 {
		return types.IndexQuote{}, fmt.Errorf("yahoo chart %s: empty result", inst.Ticker)
	}

	result := chart.Chart.Result[0]
	var closes []float64
	if len(result.Indicators.Quote) > 0 {
		for _, c := range result.Indicators.Quote[0].Close {
			if c != 0 {
				closes = append(closes, c)
			}
		}
	}
	if len(closes) == 0 {
		return types.IndexQuote{}, fmt.Errorf("yahoo chart %s: no closes", inst.Ticker)
	}

	current := closes[len(closes)-1]
	prev := current
	if len(closes) >= 2 {
		prev = closes[len(closes)-2]
	} else if result.Meta.ChartPreviousClose != 0 {
		prev = result.Meta.ChartPreviousClose
	}

	change := current - prev
	var changePct float64
	if prev != 0 {
		changePct = change / prev * 100
	}

	return types.IndexQuote{
		Name:      inst.Name,
		Ticker:    inst.Ticker,
		Close:     round2(current),
		PrevClose: round2(prev),
		Change:    round2(change),
		ChangePct: round2(changePct),
	}, nil
}

// fetchQuotes fetches a set of instruments sequentially, pausing between
// tickers to stay under Yahoo's informal rate limits. Failed tickers are
// simply absent from the result.
func (f *Fetcher) fetchQuotes(ctx context.Context, instruments []Instrument) map[string]types.IndexQuote {
	results := make(map[string]types.IndexQuote)
	for i, inst := range instruments {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-f.sleep(f.tickerDelay):
			}
		}
		q, err := f.fetchQuote(ctx, inst)
		if err != nil {
			continue
		}
		results[inst.Ticker] = q
	}
	return results
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
