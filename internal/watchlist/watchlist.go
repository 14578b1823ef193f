// Package watchlist centralizes the high-signal topics the digest tracks.
// It drives two things: the news aggregator's search queries, and the
// priority context handed to the LLM so these topics are elevated when
// the day's articles are filtered.
package watchlist

// SearchQueries are the grouped query strings for keyword news search.
// Each entry becomes one API call; they are grouped to stay inside the
// NewsAPI free-tier daily limit (100 requests, one pipeline run per day).
var SearchQueries = []string{
	"RBI monetary policy repo rate CPI WPI inflation India",
	"India GDP IIP industrial production GST budget current account",
	"US Fed FOMC rate decision nonfarm payrolls CPI jobs report",
	"crude oil brent DXY dollar index China PMI VIX global",
	"India pharma FDA IT sector banking NPA credit auto sales monsoon",
	"India Pakistan geopolitical trade tariffs US China elections",
}

// Topic groups ordered for the prompt. Map iteration order is random,
// so the prompt builder ranges over this slice instead.
var TopicOrder = []string{
	"India Macro",
	"Corporate",
	"Global",
	"Geopolitical / One-off",
	"Sector-specific",
}

// Topics is the structured watchlist used to build the LLM priority block.
var Topics = map[string][]string{
	"India Macro": {
		"RBI Monetary Policy (repo rate, stance)",
		"CPI Inflation (monthly)",
		"WPI Inflation (monthly)",
		"GDP Growth (quarterly)",
		"IIP - Industrial Production (monthly)",
		"GST Collections (monthly)",
		"Union Budget (annual, February)",
		"FII/DII Flow Data (daily/monthly)",
		"Current Account Deficit",
		"INR/USD Exchange Rate",
		"Monsoon Progress (June-September)",
	},
	"Corporate": {
		"Quarterly Earnings Season (4 times/year)",
		"Credit Growth Data from RBI",
	},
	"Global": {
		"US Fed Rate Decision & FOMC Minutes",
		"US CPI & Jobs Report (Non-Farm Payrolls)",
		"Crude Oil Prices (Brent)",
		"US Dollar Index (DXY)",
		"China PMI & Economic Data",
		"Global PMI Data",
		"CBOE VIX (fear index)",
	},
	"Geopolitical / One-off": {
		"India-Pakistan / border tensions",
		"Global trade tariffs & sanctions",
		"US-China trade developments",
		"Elections (India general + state elections)",
	},
	"Sector-specific": {
		"IT: US tech spending, visa policies",
		"Banking: RBI credit policy, NPA data",
		"Pharma: US FDA approvals/warnings",
		"Auto: Monthly sales numbers",
		"Real Estate: Home sales, RBI rate signals",
	},
}

// RelevantTickers maps US symbols to why they matter for Indian markets.
// Big tech moves Indian IT stocks in sympathy, US bank earnings shift FII
// risk appetite, and oil majors signal the crude price India imports at.
var RelevantTickers = map[string]string{
	"AAPL":  "Apple (US tech bellwether - affects IT sector sentiment)",
	"MSFT":  "Microsoft (India IT's largest client vertical - cloud/enterprise)",
	"GOOGL": "Alphabet/Google (ad spend, cloud - affects IT sector)",
	"AMZN":  "Amazon (AWS cloud - affects Infosys, Wipro cloud deals)",
	"META":  "Meta (digital ad spend - affects IT outsourcing pipeline)",
	"NVDA":  "Nvidia (AI/semiconductor - drives IT sector AI narrative)",
	"JPM":   "JPMorgan (global bank health - affects FII risk appetite)",
	"GS":    "Goldman Sachs (investment bank - indicator of global deal flow)",
	"BAC":   "Bank of America (US consumer health)",
	"XOM":   "ExxonMobil (oil demand/supply signal - crude affects India)",
	"CVX":   "Chevron (oil sector health - India imports 85% of crude)",
}

// CompanyName returns the human name portion of a RelevantTickers entry.
func CompanyName(symbol string) string {
	v, ok := RelevantTickers[symbol]
	if !ok {
		return symbol
	}
	for i := 0; i < len(v); i++ {
		if v[i] == '(' {
			for i > 0 && v[i-1] == ' ' {
				i--
			}
			return v[:i]
		}
	}
	return v
}

// TickerContext returns the parenthesized rationale of a RelevantTickers
// entry, without the parentheses.
func TickerContext(symbol string) string {
	v, ok := RelevantTickers[symbol]
	if !ok {
		return ""
	}
	start := -1
	for i := 0; i < len(v); i++ {
		if v[i] == '(' {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}
	end := len(v)
	if v[end-1] == ')' {
		end--
	}
	return v[start:end]
}
