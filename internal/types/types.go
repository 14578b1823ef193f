package types

import "time"

// Article is one news item from any source. PublishedAt stays a raw
// ISO-8601 string because RSS and the headline APIs disagree on precision.
type Article struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	SourceName  string `json:"source_name"`
}

// IndexQuote is the latest close vs prior close for one tracked index or proxy.
type IndexQuote struct {
	Name      string  `json:"name"`
	Ticker    string  `json:"ticker"`
	Close     float64 `json:"close"`
	PrevClose float64 `json:"prev_close"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}

// FuturesProxy is the best-effort Gift Nifty pre-market signal.
type FuturesProxy struct {
	Name   string  `json:"name"`
	Ticker string  `json:"ticker"`
	Last   float64 `json:"last"`
	Note   string  `json:"note"`
}

// FlowData holds net FII/DII institutional flows in crores INR.
// Values stay strings: the sources mix signed numbers, commas and "N/A".
type FlowData struct {
	Date   string `json:"date"`
	FIINet string `json:"fii_net_crores"`
	DIINet string `json:"dii_net_crores"`
	Note   string `json:"note"`
	Source string `json:"source"`
}

type EconomicEvent struct {
	Date    string `json:"date"`
	Country string `json:"country"`
	Event   string `json:"event"`
	Impact  string `json:"impact"`
}

// SectorPerformance ranks the sector index quotes by change percent.
type SectorPerformance struct {
	All        []IndexQuote `json:"all"`
	TopGainers []IndexQuote `json:"top_gainers"`
	TopLosers  []IndexQuote `json:"top_losers"`
}

type IPORecord struct {
	Name           string `json:"name"`
	IssuePrice     string `json:"issue_price"`
	GMP            string `json:"gmp"`
	ListingGainPct string `json:"listing_gain_pct,omitempty"`
	Subscription   string `json:"subscription"`
	Dates          string `json:"dates,omitempty"`
	Type           string `json:"type,omitempty"`
	Size           string `json:"size,omitempty"`
}

type EarningsEvent struct {
	Symbol          string  `json:"symbol"`
	Company         string  `json:"company"`
	Context         string  `json:"context"`
	Date            string  `json:"date"`
	When            string  `json:"when"`
	EPSEstimate     float64 `json:"eps_estimate,omitempty"`
	RevenueEstimate float64 `json:"revenue_estimate,omitempty"`
	Hour            string  `json:"hour,omitempty"` // "bmo" before open, "amc" after close
}

// SourceReport records whether one best-effort sub-fetch succeeded, so
// "which sources degraded today" is data rather than a log side effect.
type SourceReport struct {
	Source string `json:"source"`
	OK     bool   `json:"ok"`
	Count  int    `json:"count"`
	Err    string `json:"err,omitempty"`
}

// ── Stage payloads (the .tmp intermediate documents) ──

type NewsPayload struct {
	FetchedAt    time.Time      `json:"fetched_at"`
	HoursBack    int            `json:"hours_back"`
	ArticleCount int            `json:"article_count"`
	Articles     []Article      `json:"articles"`
	Sources      []SourceReport `json:"sources,omitempty"`
}

type MarketPayload struct {
	FetchedAt        time.Time             `json:"fetched_at"`
	Indices          map[string]IndexQuote `json:"indices"`
	USMarkets        map[string]IndexQuote `json:"us_markets"`
	GiftNifty        *FuturesProxy         `json:"gift_nifty"`
	FIIDII           *FlowData             `json:"fii_dii"`
	Sectors          SectorPerformance     `json:"sector_performance"`
	EconomicCalendar []EconomicEvent       `json:"economic_calendar"`
	Sources          []SourceReport        `json:"sources,omitempty"`
}

type IPOPayload struct {
	FetchedAt time.Time   `json:"fetched_at"`
	Source    string      `json:"source"`
	IPOCount  int         `json:"ipo_count"`
	IPOs      []IPORecord `json:"ipos"`
	Note      string      `json:"note,omitempty"`
}

type EarningsPayload struct {
	FetchedAt  time.Time       `json:"fetched_at"`
	Window     string          `json:"window,omitempty"`
	EventCount int             `json:"event_count"`
	Events     []EarningsEvent `json:"events"`
	Note       string          `json:"note,omitempty"`
}

// ── LLM response schema ──

type Brief struct {
	TLDR            []string   `json:"tldr"`
	GlobalNews      []NewsItem `json:"global_news"`
	IndiaNews       []NewsItem `json:"india_news"`
	IPOCommentary   []IPOTake  `json:"ipo_commentary"`
	WatchToday      []string   `json:"watch_today"`
	StockWatch      StockWatch `json:"stock_watch"`
	SectorSpotlight string     `json:"sector_spotlight"`
}

type NewsItem struct {
	Headline       string `json:"headline"`
	PublishedAtIST string `json:"published_at_ist"`
	IndiaImpact    string `json:"india_impact,omitempty"`
	Analysis       string `json:"analysis,omitempty"`
	Sentiment      string `json:"sentiment"`
}

type IPOTake struct {
	Name         string `json:"name"`
	IssuePrice   string `json:"issue_price"`
	GMP          string `json:"gmp"`
	Subscription string `json:"subscription"`
	Take         string `json:"take"`
}

type StockWatch struct {
	Tailwinds []StockNote `json:"tailwinds"`
	OnRadar   []StockNote `json:"on_radar"`
	Headwinds []StockNote `json:"headwinds"`
}

type StockNote struct {
	Name   string `json:"name"`
	Cap    string `json:"cap"`
	Reason string `json:"reason"`
}

// ── Cross-run memory ──

type DailySummary struct {
	Date             string       `json:"date"`
	TLDR             []string     `json:"tldr"`
	NiftyClose       float64      `json:"nifty_close,omitempty"`
	NiftyChangePct   float64      `json:"nifty_change_pct,omitempty"`
	TopSectorGainers []IndexQuote `json:"top_sector_gainers"`
	TopSectorLosers  []IndexQuote `json:"top_sector_losers"`
	FIINet           string       `json:"fii_net_crores,omitempty"`
	DIINet           string       `json:"dii_net_crores,omitempty"`
}

// SectorSentimentRow is one day in the rolling 7-row sentiment CSV.
// Gainers/Losers are pipe-delimited "Sector:+1.2%" entries.
type SectorSentimentRow struct {
	Date     string
	NiftyPct string
	FIINet   string
	DIINet   string
	Gainers  string
	Losers   string
}

// ── Run log ──

const (
	StepPending = "pending"
	StepOK      = "ok"
	StepError   = "error"
	StepSkipped = "skipped"
)

type StepRecord struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Error    string         `json:"error,omitempty"`
	Counters map[string]int `json:"counters,omitempty"`
}

type RunRecord struct {
	Timestamp time.Time    `json:"timestamp"`
	Status    string       `json:"status"`
	Steps     []StepRecord `json:"steps"`
	Error     string       `json:"error,omitempty"`
}
