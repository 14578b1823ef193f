package brief

import (
	"strings"
	"testing"
	"time"

	"market-brief/internal/types"
)

func sampleBrief() *types.Brief {
	return &types.Brief{
		TLDR: []string{"Fed stayed hawkish", "FIIs kept selling", "Watch 25,600 on Nifty", "A fourth point that should be dropped"},
		GlobalNews: []types.NewsItem{
			{Headline: "Fed holds rates", PublishedAtIST: "24 Aug, 11:30 PM IST", IndiaImpact: "FIIs may stay cautious.", Sentiment: "bearish"},
		},
		IndiaNews: []types.NewsItem{
			{Headline: "RBI pauses", Analysis: "Banks get breathing room.", Sentiment: "bullish"},
		},
		IPOCommentary: []types.IPOTake{
			{Name: "Tata Capital", IssuePrice: "₹310-326", GMP: "₹55 above issue price", Subscription: "2.1x", Take: "Strong GMP."},
			{Name: "Fizzle Ltd", GMP: "-₹10", Take: "Weak demand."},
		},
		WatchToday: []string{"Nifty above 25,600 means momentum is bullish."},
		StockWatch: types.StockWatch{
			Tailwinds: []types.StockNote{{Name: "TCS", Cap: "Large Cap", Reason: "US tech strength."}},
			Headwinds: []types.StockNote{{Name: "IndiGo", Cap: "Large Cap", Reason: "Crude above $80."}},
		},
	}
}

func sampleMarket() *types.MarketPayload {
	return &types.MarketPayload{
		Indices: map[string]types.IndexQuote{
			"^NSEI":     {Name: "Nifty 50", Ticker: "^NSEI", Close: 25571.4, ChangePct: 0.81},
			"^INDIAVIX": {Name: "India VIX", Ticker: "^INDIAVIX", Close: 13.42, ChangePct: -2.1},
			"USDINR=X":  {Name: "USD/INR", Ticker: "USDINR=X", Close: 88.15, ChangePct: 0},
		},
		USMarkets: map[string]types.IndexQuote{
			"SPY": {Name: "S&P 500", Ticker: "SPY", Close: 652.3, ChangePct: 0.5},
		},
		GiftNifty: &types.FuturesProxy{Last: 25640, Note: "Pre-market signal - if above Nifty close, expect gap-up open"},
		FIIDII:    &types.FlowData{FIINet: "-2,145.67", DIINet: "3,012.40"},
	}
}

func TestRenderHTMLMarketCards(t *testing.T) {
	html, err := RenderHTML(sampleBrief(), sampleMarket(), "Priya", time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Good Morning, Priya!",
		"Tuesday, 25 August 2026",
		"25,571",                              // Nifty as comma-thousands
		"13.42",                               // VIX as plain decimal
		"₹88.15",                              // USD/INR as rupee rate
		`market-change-up">▲ +0.81%`,          // Nifty up
		`market-change-down">▼ -2.10%`,        // VIX down
		`market-change-neutral">— +0.00%`,     // flat USD/INR
		"Gift Nifty: 25,640",                  // futures proxy line
		`color:#ef4444">₹-2,145.67 Cr`,        // FII net sellers in red
		`color:#22c55e">₹3,012.40 Cr`,         // DII net buyers in green
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderHTMLKeepsEveryFetchedIndex(t *testing.T) {
	market := &types.MarketPayload{
		Indices: map[string]types.IndexQuote{
			"^NSEI":    {Name: "Nifty 50", Ticker: "^NSEI", Close: 25571.4, ChangePct: 0.81},
			"^NSEBANK": {Name: "Bank Nifty", Ticker: "^NSEBANK", Close: 57210.9, ChangePct: -0.34},
			"^CNXIT":   {Name: "Nifty IT", Ticker: "^CNXIT", Close: 41832.1, ChangePct: 1.12},
		},
	}
	html, err := RenderHTML(sampleBrief(), market, "Priya", time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	// Every quote in the payload gets a card, not just the headline set.
	for _, want := range []string{"Nifty 50", "Bank Nifty", "Nifty IT", "57,211", "41,832"} {
		if !strings.Contains(html, want) {
			t.Errorf("market card for %q missing", want)
		}
	}
	// Preferred ordering: the headline index leads, extras follow by name.
	if strings.Index(html, "Nifty 50") > strings.Index(html, "Bank Nifty") {
		t.Error("Nifty 50 should render before the non-headline quotes")
	}
	if strings.Index(html, "Bank Nifty") > strings.Index(html, "Nifty IT") {
		t.Error("non-headline quotes should be sorted by name")
	}
}

func TestRenderHTMLSections(t *testing.T) {
	html, err := RenderHTML(sampleBrief(), sampleMarket(), "Priya", time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(html, "A fourth point that should be dropped") {
		t.Error("TLDR must be capped at three items")
	}
	if !strings.Contains(html, `news-sentiment bearish">Bearish`) {
		t.Error("global news sentiment badge missing")
	}
	if !strings.Contains(html, `news-sentiment bullish">Bullish`) {
		t.Error("india news sentiment badge missing")
	}
	if !strings.Contains(html, "FIIs may stay cautious.") {
		t.Error("india_impact should fill the analysis slot for global items")
	}
	if !strings.Contains(html, `ipo-gmp-up">₹55 above issue price`) {
		t.Error("positive GMP should be green")
	}
	if !strings.Contains(html, `ipo-gmp-down">-₹10`) {
		t.Error("negative GMP should be red")
	}
	if !strings.Contains(html, "LOOKS INTERESTING") || !strings.Contains(html, "APPROACH WITH CARE") {
		t.Error("stock watch headers missing")
	}
	// on_radar was empty in the fixture.
	if !strings.Contains(html, "Nothing specific today") {
		t.Error("empty stock watch column should show the placeholder")
	}
}

func TestRenderHTMLEmptyStates(t *testing.T) {
	b := &types.Brief{TLDR: []string{"Quiet day"}}
	html, err := RenderHTML(b, nil, "Priya", time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(html, "No major news today.") {
		t.Error("empty news sections should show the placeholder")
	}
	if !strings.Contains(html, "No active IPOs at the moment.") {
		t.Error("empty IPO section should show the placeholder")
	}
	if !strings.Contains(html, "No stock-specific signals today.") {
		t.Error("empty watch list should show the placeholder")
	}
	if strings.Contains(html, "Gift Nifty:") {
		t.Error("nil market payload should omit the Gift Nifty line")
	}
}

func TestSentimentClassDefaultsToNeutral(t *testing.T) {
	cases := map[string][2]string{
		"bullish":  {"bullish", "Bullish"},
		"Bearish":  {"bearish", "Bearish"},
		"watchful": {"watchful", "Watch"},
		"mixed":    {"neutral", "Neutral"},
		"":         {"neutral", "Neutral"},
	}
	for in, want := range cases {
		class, label := sentimentClass(in)
		if class != want[0] || label != want[1] {
			t.Errorf("sentimentClass(%q) = %q/%q, want %q/%q", in, class, label, want[0], want[1])
		}
	}
}

func TestGMPClass(t *testing.T) {
	cases := map[string]string{
		"₹55 above issue price": "ipo-gmp-up",
		"+₹12":                  "ipo-gmp-up",
		"-₹10":                  "ipo-gmp-down",
		"₹20 below issue price": "ipo-gmp-down",
		"N/A":                   "ipo-gmp-neutral",
	}
	for in, want := range cases {
		if got := gmpClass(in); got != want {
			t.Errorf("gmpClass(%q) = %q, want %q", in, got, want)
		}
	}
}
