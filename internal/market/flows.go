package market

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"market-brief/internal/fetchutil"
	"market-brief/internal/logger"
	"market-brief/internal/types"
)

const flowNote = "Positive = bought, Negative = sold (in crores INR)"

type nseFlowRecord struct {
	Date        string `json:"date"`
	FIINetValue string `json:"fiiNetValue"`
	DIINetValue string `json:"diiNetValue"`
}

// fetchFlows returns provisional FII/DII net flows. The NSE API needs a
// warmed-up browser-like session to hand out its cookies; when it still
// refuses, the Moneycontrol stats page is scraped instead. Both failing
// yields nil, which the brief treats as "data unavailable".
func (f *Fetcher) fetchFlows(ctx context.Context) *types.FlowData {
	if flows := f.fetchFlowsNSE(ctx); flows != nil {
		return flows
	}
	logger.Warn(ctx, "NSE FII/DII unavailable, trying Moneycontrol fallback")
	return f.fetchFlowsMoneycontrol(ctx)
}

func (f *Fetcher) fetchFlowsNSE(ctx context.Context) *types.FlowData {
	headers := map[string]string{
		"User-Agent":      fetchutil.UserAgent,
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         f.nseBase + "/market-data/fii-dii-trade",
		"Origin":          f.nseBase,
	}

	r := f.http.Resty()
	warmup := []string{f.nseBase + "/", f.nseBase + "/market-data/fii-dii-trade"}
	for _, u := range warmup {
		if _, err := r.R().SetContext(ctx).SetHeaders(headers).Get(u); err != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-f.sleep(f.warmupDelay):
		}
	}

	resp, err := r.R().SetContext(ctx).SetHeaders(headers).Get(f.nseBase + "/api/fiidiiTradeReact")
	if err != nil || !resp.IsSuccess() {
		return nil
	}

	var records []nseFlowRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil || len(records) == 0 {
		return nil
	}

	latest := records[0]
	if latest.FIINetValue == "" && latest.DIINetValue == "" {
		return nil
	}
	return &types.FlowData{
		Date:   latest.Date,
		FIINet: latest.FIINetValue,
		DIINet: latest.DIINetValue,
		Note:   flowNote,
		Source: "NSE",
	}
}

// fetchFlowsMoneycontrol scans the Moneycontrol FII/DII activity tables
// for the net-value cells. No match returns nil rather than a partial
// record.
func (f *Fetcher) fetchFlowsMoneycontrol(ctx context.Context) *types.FlowData {
	var fii, dii string

	c := colly.NewCollector(colly.MaxDepth(1))
	c.SetRequestTimeout(12 * time.Second)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", fetchutil.UserAgent)
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})

	c.OnHTML("table tr", func(e *colly.HTMLElement) {
		cells := e.ChildTexts("td")
		if len(cells) < 3 {
			return
		}
		label := strings.TrimSpace(cells[0])
		value := cleanFlowValue(cells[len(cells)-1])
		if strings.Contains(label, "FII") {
			fii = value
		} else if strings.Contains(label, "DII") {
			dii = value
		}
	})

	if err := c.Visit(f.moneycontrolURL); err != nil {
		logger.SourceDown(ctx, "moneycontrol_fii_dii", err)
		return nil
	}
	c.Wait()

	if fii == "" || dii == "" {
		return nil
	}
	return &types.FlowData{
		Date:   f.now().UTC().Format("2006-01-02"),
		FIINet: fii,
		DIINet: dii,
		Note:   flowNote,
		Source: "Moneycontrol",
	}
}

func cleanFlowValue(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	return strings.TrimSpace(s)
}
