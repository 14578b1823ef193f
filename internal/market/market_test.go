package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"market-brief/internal/fetchutil"
	"market-brief/internal/types"
)

func testFetcher(opts ...Option) *Fetcher {
	base := []Option{
		WithHTTPClient(fetchutil.New(1, 5*time.Millisecond, 2*time.Second)),
		WithDelays(0, 0),
	}
	return NewFetcher("fh-key", "pg-key", append(base, opts...)...)
}

func chartJSON(closes []float64) string {
	parts := make([]string, len(closes))
	for i, c := range closes {
		parts[i] = fmt.Sprintf("%g", c)
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"regularMarketPrice":%g,"chartPreviousClose":%g},
		"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		closes[len(closes)-1], closes[0], strings.Join(parts, ","))
}

func TestFetchQuoteComputesChange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v8/finance/chart/") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(chartJSON([]float64{24800, 25000})))
	}))
	defer srv.Close()

	f := testFetcher(WithYahooBase(srv.URL))
	q, err := f.fetchQuote(context.Background(), Instrument{"^NSEI", "Nifty 50"})
	if err != nil {
		t.Fatal(err)
	}
	if q.Close != 25000 || q.PrevClose != 24800 {
		t.Errorf("closes wrong: %+v", q)
	}
	if q.Change != 200 || q.ChangePct != 0.81 {
		t.Errorf("change wrong: change=%v pct=%v", q.Change, q.ChangePct)
	}
}

func TestFetchQuoteSkipsZeroCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{},"indicators":{"quote":[{"close":[0,24800,0,25000]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	f := testFetcher(WithYahooBase(srv.URL))
	q, err := f.fetchQuote(context.Background(), Instrument{"^NSEI", "Nifty 50"})
	if err != nil {
		t.Fatal(err)
	}
	if q.PrevClose != 24800 {
		t.Errorf("zero closes should be ignored, prev=%v", q.PrevClose)
	}
}

func TestFetchUSMarketsParsesPolygon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/SPY/") {
			w.Write([]byte(`{"results":[{"c":502.5,"o":500}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := testFetcher(WithPolygonBase(srv.URL))
	us := f.fetchUSMarkets(context.Background())
	if len(us) != 1 {
		t.Fatalf("expected only SPY to resolve, got %d", len(us))
	}
	spy := us["SPY"]
	if spy.Close != 502.5 || spy.Change != 2.5 || spy.ChangePct != 0.5 {
		t.Errorf("SPY wrong: %+v", spy)
	}
}

func TestEconomicCalendarKeywordFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"economicCalendar":[
			{"time":"2026-08-26","country":"IN","event":"RBI Interest Rate Decision","impact":"high"},
			{"time":"2026-08-26","country":"US","event":"Retail Footfall Survey","impact":"low"},
			{"time":"2026-08-27","country":"US","event":"CPI YoY","impact":"high"}
		]}`))
	}))
	defer srv.Close()

	f := testFetcher(WithFinnhubBase(srv.URL))
	events, err := f.fetchEconomicCalendar(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 relevant events, got %d: %+v", len(events), events)
	}
	if events[0].Event != "RBI Interest Rate Decision" || events[1].Event != "CPI YoY" {
		t.Errorf("wrong events kept: %+v", events)
	}
}

func TestRankSectors(t *testing.T) {
	sectors := map[string]types.IndexQuote{}
	pcts := map[string]float64{
		"^NSEBANK":   0.5,
		"^CNXIT":     1.8,
		"^CNXPHARMA": -0.2,
		"^CNXAUTO":   0.9,
		"^CNXFMCG":   -1.1,
		"^CNXREALTY": 2.4,
		"^CNXENERGY": -0.7,
		"^CNXMETAL":  0.1,
	}
	for _, inst := range SectorIndices {
		sectors[inst.Ticker] = types.IndexQuote{Name: inst.Name, Ticker: inst.Ticker, ChangePct: pcts[inst.Ticker]}
	}

	perf := rankSectors(sectors)
	if len(perf.All) != 8 {
		t.Fatalf("expected all 8 sectors, got %d", len(perf.All))
	}
	if perf.TopGainers[0].Name != "Nifty Realty" || perf.TopGainers[1].Name != "Nifty IT" || perf.TopGainers[2].Name != "Nifty Auto" {
		t.Errorf("gainers wrong: %+v", perf.TopGainers)
	}
	// Losers are worst first.
	if perf.TopLosers[0].Name != "Nifty FMCG" || perf.TopLosers[1].Name != "Nifty Energy" || perf.TopLosers[2].Name != "Nifty Pharma" {
		t.Errorf("losers wrong: %+v", perf.TopLosers)
	}
}

func TestRankSectorsTooFewForLosers(t *testing.T) {
	sectors := map[string]types.IndexQuote{
		"^NSEBANK": {Name: "Bank Nifty", Ticker: "^NSEBANK", ChangePct: 0.4},
		"^CNXIT":   {Name: "Nifty IT", Ticker: "^CNXIT", ChangePct: -0.3},
	}
	perf := rankSectors(sectors)
	if len(perf.TopGainers) != 2 || len(perf.TopLosers) != 0 {
		t.Errorf("with 2 sectors want 2 gainers, 0 losers: %+v", perf)
	}
}

func TestFetchFlowsNSE(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/fiidiiTradeReact" {
			w.Write([]byte(`[{"date":"25-Aug-2026","fiiNetValue":"-1523.45","diiNetValue":"2210.87"}]`))
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := testFetcher(WithNSEBase(srv.URL))
	flows := f.fetchFlows(context.Background())
	if flows == nil {
		t.Fatal("expected flow data")
	}
	if flows.Source != "NSE" || flows.FIINet != "-1523.45" || flows.DIINet != "2210.87" {
		t.Errorf("unexpected flows: %+v", flows)
	}
}

func TestFetchFlowsMoneycontrolFallback(t *testing.T) {
	nse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer nse.Close()

	mc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><table>
			<tr><td>FII/FPI</td><td>12,340.00</td><td>13,863.45</td><td>-1,523.45</td></tr>
			<tr><td>DII</td><td>11,000.00</td><td>8,789.13</td><td>2,210.87</td></tr>
		</table></body></html>`))
	}))
	defer mc.Close()

	f := testFetcher(WithNSEBase(nse.URL), WithMoneycontrolURL(mc.URL))
	flows := f.fetchFlows(context.Background())
	if flows == nil {
		t.Fatal("expected fallback flow data")
	}
	if flows.Source != "Moneycontrol" {
		t.Errorf("expected Moneycontrol source, got %s", flows.Source)
	}
	if flows.FIINet != "-1523.45" || flows.DIINet != "2210.87" {
		t.Errorf("commas should be stripped: %+v", flows)
	}
}

func TestFetchFlowsAllSourcesDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	f := testFetcher(WithNSEBase(down.URL), WithMoneycontrolURL(down.URL))
	if flows := f.fetchFlows(context.Background()); flows != nil {
		t.Errorf("expected nil when every source fails, got %+v", flows)
	}
}
