package market

import (
	"context"
	"strings"

	"market-brief/internal/types"
)

// calendarKeywords filter the Finnhub economic calendar down to events
// that move Indian markets.
var calendarKeywords = []string{
	"india", "rbi", "federal", "fed", "cpi", "gdp", "inflation",
	"interest rate", "fomc", "ecb", "china",
}

type economicCalendarResponse struct {
	EconomicCalendar []struct {
		Time    string `json:"time"`
		Country string `json:"country"`
		Event   string `json:"event"`
		Impact  string `json:"impact"`
	} `json:"economicCalendar"`
}

// fetchEconomicCalendar pulls the next 3 days of economic events and
// keeps the India-relevant ones.
func (f *Fetcher) fetchEconomicCalendar(ctx context.Context) ([]types.EconomicEvent, error) {
	if f.finnhubKey == "" {
		return nil, nil
	}

	today := f.now().UTC()
	var resp economicCalendarResponse
	err := f.http.GetJSON(ctx, f.finnhubBase+"/api/v1/calendar/economic", map[string]string{
		"from":  today.Format("2006-01-02"),
		"to":    today.AddDate(0, 0, 3).Format("2006-01-02"),
		"token": f.finnhubKey,
	}, nil, &resp)
	if err != nil {
		return nil, err
	}

	events := resp.EconomicCalendar
	if len(events) > 20 {
		events = events[:20]
	}

	var relevant []types.EconomicEvent
	for _, e := range events {
		haystack := strings.ToLower(e.Event + " " + e.Country)
		for _, k := range calendarKeywords {
			if strings.Contains(haystack, k) {
				relevant = append(relevant, types.EconomicEvent{
					Date:    e.Time,
					Country: e.Country,
					Event:   e.Event,
					Impact:  e.Impact,
				})
				break
			}
		}
	}
	return relevant, nil
}
