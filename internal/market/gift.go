package market

import (
	"context"

	"market-brief/internal/types"
)

// giftNiftyTickers are tried in order; neither is the real GIFT exchange
// future, so the closest tradeable proxy wins.
var giftNiftyTickers = []Instrument{
	{"NIFTY_FUT_NSE", "Gift Nifty (approx)"},
	{"NIFTYBEES.NS", "Gift Nifty (approx)"},
}

// fetchGiftNifty returns the best-effort pre-market signal, or nil when
// no proxy ticker resolves.
func (f *Fetcher) fetchGiftNifty(ctx context.Context) *types.FuturesProxy {
	for _, inst := range giftNiftyTickers {
		q, err := f.fetchQuote(ctx, inst)
		if err != nil || q.Close == 0 {
			continue
		}
		return &types.FuturesProxy{
			Name:   inst.Name,
			Ticker: inst.Ticker,
			Last:   q.Close,
			Note:   "Pre-market signal - if above Nifty close, expect gap-up open",
		}
	}
	return nil
}
