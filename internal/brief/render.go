package brief

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-brief/internal/types"
)

var briefTmpl = template.Must(template.New("brief").Parse(emailTemplate))

// emailData is the flattened view model the template consumes. All the
// presentation decisions (arrows, colors, empty-state text) are made in
// Go so the template stays a dumb layout.
type emailData struct {
	Name    string
	DateStr string

	TLDR         []tldrItem
	MarketCards  []marketCard
	GiftNifty    *giftView
	FIIDII       *flowView
	GlobalNews   []newsView
	IndiaNews    []newsView
	IPOCards     []ipoView
	StockColumns []stockColumn
	WatchItems   []string
}

type tldrItem struct {
	Number int
	Text   string
}

type marketCard struct {
	Name        string
	Value       string
	Arrow       string
	ChangeClass string
	ChangePct   string
}

type giftView struct {
	Last string
	Note string
}

type flowView struct {
	FIINet   string
	FIIColor string
	DIINet   string
	DIIColor string
}

type newsView struct {
	Headline       string
	Time           string
	Analysis       string
	Sentiment      string
	SentimentLabel string
}

type ipoView struct {
	Name         string
	IssuePrice   string
	GMP          string
	GMPClass     string
	Subscription string
	Take         string
}

type stockColumn struct {
	Label       string
	HeaderClass string
	Stocks      []types.StockNote
}

// RenderHTML produces the final email body from the model's brief and
// the raw market payload. recipientName lands in the greeting; today
// drives the header date line.
func RenderHTML(b *types.Brief, market *types.MarketPayload, recipientName string, today time.Time) (string, error) {
	data := emailData{
		Name:    recipientName,
		DateStr: formatHeaderDate(today),
	}

	tldr := b.TLDR
	if len(tldr) > 3 {
		tldr = tldr[:3]
	}
	for i, text := range tldr {
		data.TLDR = append(data.TLDR, tldrItem{Number: i + 1, Text: text})
	}

	if market != nil {
		data.MarketCards = marketCards(market)
		if market.GiftNifty != nil && market.GiftNifty.Last > 0 {
			data.GiftNifty = &giftView{
				Last: formatThousands(market.GiftNifty.Last),
				Note: market.GiftNifty.Note,
			}
		}
		if f := market.FIIDII; f != nil && f.FIINet != "" {
			data.FIIDII = &flowView{
				FIINet:   f.FIINet,
				FIIColor: flowColor(f.FIINet),
				DIINet:   f.DIINet,
				DIIColor: flowColor(f.DIINet),
			}
		}
	}

	data.GlobalNews = newsViews(b.GlobalNews)
	data.IndiaNews = newsViews(b.IndiaNews)

	for _, ipo := range b.IPOCommentary {
		data.IPOCards = append(data.IPOCards, ipoView{
			Name:         ipo.Name,
			IssuePrice:   orNA(ipo.IssuePrice),
			GMP:          orNA(ipo.GMP),
			GMPClass:     gmpClass(ipo.GMP),
			Subscription: orNA(ipo.Subscription),
			Take:         ipo.Take,
		})
	}

	data.StockColumns = []stockColumn{
		{Label: "LOOKS INTERESTING", HeaderClass: "swh-green", Stocks: b.StockWatch.Tailwinds},
		{Label: "KEEP AN EYE ON", HeaderClass: "swh-amber", Stocks: b.StockWatch.OnRadar},
		{Label: "APPROACH WITH CARE", HeaderClass: "swh-red", Stocks: b.StockWatch.Headwinds},
	}

	data.WatchItems = b.WatchToday
	if len(data.WatchItems) == 0 {
		data.WatchItems = []string{"No stock-specific signals today."}
	}

	var buf bytes.Buffer
	if err := briefTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}

// formatHeaderDate gives "Tuesday, 25 August 2026".
func formatHeaderDate(t time.Time) string {
	return t.Format("Monday, 02 January 2006")
}

func marketCards(market *types.MarketPayload) []marketCard {
	var cards []marketCard

	appendQuote := func(q types.IndexQuote) {
		cards = append(cards, marketCard{
			Name:        q.Name,
			Value:       quoteValue(q),
			Arrow:       changeArrow(q.ChangePct),
			ChangeClass: changeClass(q.ChangePct),
			ChangePct:   fmt.Sprintf("%+.2f", q.ChangePct),
		})
	}

	// Every fetched quote gets a card: headline indices in display
	// order first, anything else (extra sector or proxy quotes) after.
	for _, q := range orderedQuotes(market.Indices, []string{"^NSEI", "^BSESN", "^INDIAVIX", "USDINR=X"}) {
		appendQuote(q)
	}
	for _, q := range orderedQuotes(market.USMarkets, []string{"SPY", "QQQ", "DIA"}) {
		appendQuote(q)
	}
	return cards
}

// orderedQuotes flattens a quote map without dropping entries: the
// preferred tickers come first in the given order, the rest follow
// sorted by name so output is stable across runs.
func orderedQuotes(quotes map[string]types.IndexQuote, preferred []string) []types.IndexQuote {
	out := make([]types.IndexQuote, 0, len(quotes))
	seen := make(map[string]bool, len(preferred))
	for _, ticker := range preferred {
		if q, ok := quotes[ticker]; ok {
			out = append(out, q)
			seen[ticker] = true
		}
	}
	var rest []types.IndexQuote
	for ticker, q := range quotes {
		if !seen[ticker] {
			rest = append(rest, q)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })
	return append(out, rest...)
}

// quoteValue picks the value format per instrument: the VIX is a small
// decimal, USD/INR is a rupee rate, everything else a points level.
func quoteValue(q types.IndexQuote) string {
	switch {
	case strings.Contains(q.Name, "VIX"):
		return fmt.Sprintf("%.2f", q.Close)
	case strings.Contains(q.Name, "USD/INR"):
		return fmt.Sprintf("₹%.2f", q.Close)
	default:
		return formatThousands(q.Close)
	}
}

func changeArrow(pct float64) string {
	switch {
	case pct > 0:
		return "▲"
	case pct < 0:
		return "▼"
	default:
		return "—"
	}
}

func changeClass(pct float64) string {
	switch {
	case pct > 0:
		return "market-change-up"
	case pct < 0:
		return "market-change-down"
	default:
		return "market-change-neutral"
	}
}

// flowColor is green for net buying, red otherwise. The value arrives
// as a string that may carry commas.
func flowColor(net string) string {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(net), ",", ""), 64)
	if err == nil && v > 0 {
		return "#22c55e"
	}
	return "#ef4444"
}

func newsViews(items []types.NewsItem) []newsView {
	var views []newsView
	for _, item := range items {
		analysis := item.Analysis
		if analysis == "" {
			analysis = item.IndiaImpact
		}
		sentiment, label := sentimentClass(item.Sentiment)
		views = append(views, newsView{
			Headline:       item.Headline,
			Time:           item.PublishedAtIST,
			Analysis:       analysis,
			Sentiment:      sentiment,
			SentimentLabel: label,
		})
	}
	return views
}

func sentimentClass(sentiment string) (class, label string) {
	switch strings.ToLower(strings.TrimSpace(sentiment)) {
	case "bullish":
		return "bullish", "Bullish"
	case "bearish":
		return "bearish", "Bearish"
	case "watchful":
		return "watchful", "Watch"
	default:
		return "neutral", "Neutral"
	}
}

// gmpClass colors the grey-market premium: green for a premium, red
// for a discount, muted when the signal is unreadable.
func gmpClass(gmp string) string {
	lower := strings.ToLower(gmp)
	switch {
	case strings.Contains(lower, "above"):
		return "ipo-gmp-up"
	case strings.Contains(lower, "below"):
		return "ipo-gmp-down"
	case strings.Contains(gmp, "-"):
		return "ipo-gmp-down"
	case strings.Contains(gmp, "+"):
		return "ipo-gmp-up"
	default:
		return "ipo-gmp-neutral"
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
