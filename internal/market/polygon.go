package market

import (
	"context"

	"market-brief/internal/types"
)

// USMarketTickers are ETF proxies for the major US indices. Polygon's
// free tier serves previous-session aggregates for ETFs but not the
// underlying index symbols.
var USMarketTickers = []Instrument{
	{"SPY", "S&P 500"},
	{"QQQ", "Nasdaq 100"},
	{"DIA", "Dow Jones"},
}

type polygonPrevResponse struct {
	Results []struct {
		Close float64 `json:"c"`
		Open  float64 `json:"o"`
	} `json:"results"`
}

// fetchUSMarkets pulls the previous US session close for each ETF proxy.
// The change is intraday (close vs open) since prev-day aggregates carry
// no prior close.
func (f *Fetcher) fetchUSMarkets(ctx context.Context) map[string]types.IndexQuote {
	if f.polygonKey == "" {
		return map[string]types.IndexQuote{}
	}

	results := make(map[string]types.IndexQuote)
	for _, inst := range USMarketTickers {
		var resp polygonPrevResponse
		err := f.http.GetJSON(ctx, f.polygonBase+"/v2/aggs/ticker/"+inst.Ticker+"/prev", map[string]string{
			"adjusted": "true",
			"apiKey":   f.polygonKey,
		}, nil, &resp)
		if err != nil || len(resp.Results) == 0 {
			continue
		}

		r := resp.Results[0]
		open := r.Open
		if open == 0 {
			open = r.Close
		}
		change := r.Close - open
		var changePct float64
		if open != 0 {
			changePct = change / open * 100
		}
		results[inst.Ticker] = types.IndexQuote{
			Name:      inst.Name,
			Ticker:    inst.Ticker,
			Close:     round2(r.Close),
			Change:    round2(change),
			ChangePct: round2(changePct),
		}
	}
	return results
}
