package brief

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"market-brief/internal/types"
	"market-brief/internal/watchlist"
)

// IST is fixed at UTC+5:30; India has no DST.
var IST = time.FixedZone("IST", (5*60+30)*60)

// SystemPrompt establishes the analyst persona, the jargon rule, the
// India market mental model and the output contract.
const SystemPrompt = `You are Arjun, a sharp and friendly Indian financial analyst writing a daily morning brief for amateur Indian retail investors - people who check their portfolio on Zerodha or Groww but don't follow Bloomberg all day.

=== YOUR PERSONALITY ===
- Warm, direct, conversational - like a smart friend texting you before market open, not a formal analyst
- Opinionated but honest: say "This looks bearish to me because..." not "markets may see pressure"
- Acknowledge uncertainty clearly: "It's too early to tell, but watch for..."
- Never fabricate data. If data wasn't provided, say "data not available today" - do not guess or invent numbers
- Never recommend buying or selling specific stocks. You CAN say sectors look strong or weak
- Write in present tense for current conditions, past tense for what happened overnight

=== JARGON RULE - NON-NEGOTIABLE ===
Every piece of financial jargon MUST be explained in plain language the first time it appears.
Format: term (plain English explanation)
Examples:
- "bond yields (the return on safe US government bonds) rose to 4.5% - this means safe investments are now paying more, making riskier assets like stocks relatively less attractive"
- "the Fed (US central bank) turned hawkish (signalled it will keep interest rates high for longer)"
- "FII outflows (foreign institutional investors pulled money out of Indian stocks)"
- "India VIX (the fear index - measures how much volatility traders expect) is above 15, signalling elevated uncertainty"
- "NIM (net interest margin - the profit banks make on loans vs what they pay depositors) is compressing"

=== YOUR MENTAL MODEL FOR INDIAN MARKETS ===
Use this framework to connect global events to Indian market impact:

US Fed hawkish (rates higher for longer) -> FIIs (foreign investors) pull money from India -> INR weakens -> negative for rate-sensitive sectors (banks, real estate, auto). Dovish Fed -> opposite, positive for India.

US Treasury yields rising -> global capital flows back to US -> negative for all emerging markets including India. Every 0.1% rise in US 10-year yield matters.

Crude oil rising -> very negative for India (India imports ~85% of its oil). Hurts: OMCs (IOC, BPCL, HPCL - they sell fuel below cost when prices spike), paints (Asian Paints uses crude derivatives), aviation (IndiGo fuel costs rise), tyre companies. Helps: ONGC, Oil India (they produce oil).

USD strengthening (DXY - the dollar index - going up) -> INR weakens -> import costs rise (bad for inflation). IT companies get a revenue boost in INR terms (they earn in dollars), but broader sentiment turns negative.

China stimulus / weakness -> mixed for India. Weak China reduces competition for commodities but hurts global demand. Strong China can divert FII flows away from India to Chinese markets.

Gold rising -> signals risk-off sentiment / uncertainty. Often correlates with geopolitical tension or dollar weakness. Not directly bearish for Nifty but reflects global caution.

FII selling + DII buying -> FIIs create selling pressure, DIIs (domestic mutual funds, LIC) provide a floor. Sustained FII outflows over multiple days -> bearish trend. DII buying alone usually can't sustain a rally.

RBI rate cut -> positive for banks (cheaper funding), NBFCs, real estate, auto (cheaper EMIs for buyers). Rate hold -> neutral.

India VIX above 15 -> elevated fear, expect choppy sessions. Above 20 -> significant uncertainty, consider reducing leveraged positions.

IT sector -> driven by US tech spending, BFSI (banking/financial services) client demand, and large deal pipeline. Strong US economy and corporate earnings = good for Indian IT.

Pharma -> driven by USFDA approvals or warning letters, US generic drug market pricing, and domestic formulation growth.

Banks -> watch credit growth, NPA (non-performing assets = bad loans) trends, RBI policy direction, and NIM (net interest margin) trends.

Auto -> rural demand recovery indicators, input costs (steel, aluminium), EV transition dynamics.

FMCG -> rural consumption recovery, commodity input costs, volume growth vs price growth mix.

=== CALENDAR AWARENESS ===
- Monday: briefly mention any significant weekend global developments
- Thursday: remind about weekly Nifty options expiry (every Thursday, F&O positions settle - can cause intraday volatility)
- Last week of month: mention monthly F&O expiry (larger impact, monthly positions unwind)

=== ABSOLUTE RULES ===
1. Pick only the 5-8 most market-moving stories - ruthlessly filter out noise
2. Every jargon term explained in plain language (see JARGON RULE above)
3. Every global story must be explicitly connected to Indian market impact
4. Never fabricate data. If something wasn't in the provided data, say so
5. Never recommend buying/selling specific stocks
6. Total output must stay under 1200 words across all sections
7. Be opinionated: "I'd watch this closely", "This is worth ignoring for now", "If this plays out, expect..."

IMPORTANT: Return ONLY valid JSON. No markdown, no code blocks, no explanation outside the JSON.`

// ToIST converts a UTC ISO-8601 string into a readable IST stamp like
// "22 Feb, 11:30 PM IST". Unparseable input becomes "".
func ToIST(utcStr string) string {
	if utcStr == "" {
		return ""
	}
	dt, err := time.Parse(time.RFC3339, utcStr)
	if err != nil {
		dt, err = time.Parse("2006-01-02T15:04:05", utcStr)
		if err != nil {
			return ""
		}
	}
	return dt.In(IST).Format("2 Jan, 3:04 PM") + " IST"
}

// promptArticle is the compact article form handed to the LLM.
type promptArticle struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Source         string `json:"source"`
	PublishedAtIST string `json:"published_at_ist"`
}

// quoteSummary is a name-keyed close/change pair for the prompt.
type quoteSummary struct {
	Close     float64 `json:"close"`
	ChangePct float64 `json:"change_pct"`
}

// calendarNote flags weekday-specific context: weekend catch-up on
// Mondays, weekly F&O expiry on Thursdays, monthly expiry in the last
// week of the month.
func calendarNote(today time.Time) string {
	var note string
	switch today.Weekday() {
	case time.Monday:
		note = "Today is MONDAY - mention any significant weekend global developments briefly."
	case time.Thursday:
		note = "Today is THURSDAY - remind readers about weekly Nifty F&O (futures & options) expiry. " +
			"F&O expiry means traders must settle their weekly bets today, which can cause intraday " +
			"volatility especially in the last hour."
	}

	lastDay := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if today.Day() >= lastDay-6 {
		note += " It is also the LAST WEEK OF THE MONTH - monthly F&O expiry is approaching (or today), " +
			"which is a larger event than weekly expiry and can cause significant swings."
	}
	return note
}

// yesterdayBlock renders the cross-run memory into prompt text so the
// brief can reference continuity ("FIIs remain net sellers").
func yesterdayBlock(y *types.DailySummary) string {
	if y == nil {
		return ""
	}

	niftyStr := "N/A"
	if y.NiftyClose != 0 {
		niftyStr = fmt.Sprintf("%s (%+.2f%%)", formatThousands(y.NiftyClose), y.NiftyChangePct)
	}

	sectorList := func(quotes []types.IndexQuote) string {
		if len(quotes) == 0 {
			return "N/A"
		}
		parts := make([]string, len(quotes))
		for i, q := range quotes {
			parts[i] = fmt.Sprintf("%s (%+.1f%%)", q.Name, q.ChangePct)
		}
		return strings.Join(parts, ", ")
	}

	var tldr strings.Builder
	for i, t := range y.TLDR {
		fmt.Fprintf(&tldr, "%d. %s\n", i+1, t)
	}

	fii := y.FIINet
	if fii == "" {
		fii = "N/A"
	}
	dii := y.DIINet
	if dii == "" {
		dii = "N/A"
	}

	return fmt.Sprintf(`
=== YESTERDAY'S BRIEF (%s) ===
Nifty closed at %s | FII net: ₹%s Cr | DII net: ₹%s Cr
Sector gainers: %s
Sector losers: %s
Yesterday's key points:
%sUse this for continuity. When today's Nifty or sector moves contrast with yesterday, say so explicitly - e.g. "Nifty fell 1.1%% yesterday but is recovering today" or "FIIs were net sellers yesterday and remain so." When a trend continues, flag it as such.
`, y.Date, niftyStr, fii, dii,
		sectorList(y.TopSectorGainers), sectorList(y.TopSectorLosers), tldr.String())
}

// activeIPOs keeps at most six IPOs with a real GMP signal, falling
// back to the first four rows when no GMP data scraped today.
func activeIPOs(ipos []types.IPORecord) []types.IPORecord {
	var active []types.IPORecord
	for _, ipo := range ipos {
		switch ipo.GMP {
		case "", "N/A", "₹0", "0":
			continue
		}
		active = append(active, ipo)
		if len(active) == 6 {
			break
		}
	}
	if len(active) == 0 && len(ipos) > 0 {
		if len(ipos) > 4 {
			return ipos[:4]
		}
		return ipos
	}
	return active
}

// BuildPrompt assembles the full user prompt from the day's payloads
// and cross-run memory. Numbers pass through verbatim from the fetched
// data; nothing is recomputed here.
func BuildPrompt(
	news *types.NewsPayload,
	market *types.MarketPayload,
	ipo *types.IPOPayload,
	earnings *types.EarningsPayload,
	yesterday *types.DailySummary,
	sectorTrend string,
	today time.Time,
) string {
	articles := news.Articles
	if len(articles) > 20 {
		articles = articles[:20]
	}
	articlesSummary := make([]promptArticle, 0, len(articles))
	for _, a := range articles {
		desc := a.Description
		if r := []rune(desc); len(r) > 200 {
			desc = string(r[:200])
		}
		articlesSummary = append(articlesSummary, promptArticle{
			Title:          a.Title,
			Description:    desc,
			Source:         a.SourceName,
			PublishedAtIST: ToIST(a.PublishedAt),
		})
	}

	marketSummary := make(map[string]quoteSummary, len(market.Indices))
	for _, q := range market.Indices {
		marketSummary[q.Name] = quoteSummary{Close: q.Close, ChangePct: q.ChangePct}
	}
	usSummary := make(map[string]quoteSummary, len(market.USMarkets))
	for _, q := range market.USMarkets {
		usSummary[q.Name] = quoteSummary{Close: q.Close, ChangePct: q.ChangePct}
	}

	topGainers := market.Sectors.TopGainers
	if len(topGainers) > 3 {
		topGainers = topGainers[:3]
	}
	topLosers := market.Sectors.TopLosers
	if len(topLosers) > 3 {
		topLosers = topLosers[:3]
	}

	economicCalendar := market.EconomicCalendar
	if len(economicCalendar) > 5 {
		economicCalendar = economicCalendar[:5]
	}

	var upcomingEarnings []types.EarningsEvent
	if earnings != nil {
		upcomingEarnings = earnings.Events
		if len(upcomingEarnings) > 8 {
			upcomingEarnings = upcomingEarnings[:8]
		}
	}

	var watchlistBlock strings.Builder
	for _, category := range watchlist.TopicOrder {
		watchlistBlock.WriteString(category + ":\n")
		for _, topic := range watchlist.Topics[category] {
			watchlistBlock.WriteString("  - " + topic + "\n")
		}
	}

	usBlock := "Not available today."
	if len(usSummary) > 0 {
		usBlock = mustJSON(usSummary)
	}
	earningsBlock := "No major earnings in the next 7 days."
	if len(upcomingEarnings) > 0 {
		earningsBlock = mustJSON(upcomingEarnings)
	}

	trendBlock := ""
	if sectorTrend != "" {
		trendBlock = "\n" + sectorTrend + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Here is today's raw market data. Your job is to transform it into a sharp, opinionated morning brief.

Today is %s, %s.
%s
%s%s
=== PRIORITY WATCHLIST ===
These are the high-signal topics this investor tracks. When any of these appear in the news data, elevate them - they get priority coverage in the brief. If multiple stories compete for the same slot, prefer the ones touching these topics.

%s
=== US MARKET DATA (previous session close) ===
%s
Note: This shows how US markets closed in their last session. S&P 500 and Nasdaq direction is a strong predictor of Nifty's opening gap.

=== INDIAN MARKET DATA (previous close) ===
%s

Top sector gainers (yesterday): %s
Top sector losers (yesterday): %s

FII/DII activity (yesterday): %s
Note: FII = Foreign Institutional Investors (foreign funds buying/selling Indian stocks). DII = Domestic Institutional Investors (Indian mutual funds, LIC etc.). Positive = net buyers, Negative = net sellers.

=== UPCOMING EARNINGS (next 7 days - US companies that affect Indian stocks) ===
%s
Note: When Apple/Microsoft/Google/Nvidia reports earnings, Indian IT stocks (TCS, Infosys, Wipro, HCL) often react in sympathy. Mention upcoming earnings in watch_today if relevant - e.g., "Nvidia reports tomorrow - watch for IT sector moves."

Upcoming economic events: %s

=== NEWS (last 24 hours - pick only the 5-8 most market-moving stories) ===
%s

=== IPO DATA ===
%s
Note: GMP = Grey Market Premium - unofficial price at which IPO shares trade before listing. Higher GMP = stronger expected listing gain. This is speculative, not guaranteed.
`,
		today.Weekday(), today.Format("02 January 2006"),
		calendarNote(today),
		yesterdayBlock(yesterday), trendBlock,
		watchlistBlock.String(),
		usBlock,
		mustJSON(marketSummary),
		mustJSON(topGainers), mustJSON(topLosers),
		mustJSON(market.FIIDII),
		earningsBlock,
		mustJSON(economicCalendar),
		mustJSON(articlesSummary),
		mustJSON(activeIPOs(ipo.IPOs)),
	)

	b.WriteString(taskBlock)
	return b.String()
}

// taskBlock is the JSON output contract appended to every prompt.
const taskBlock = `
=== YOUR TASK ===
Return ONLY this JSON structure. No other text, no markdown, no code blocks.

{
  "tldr": [
    "Sentence 1: The single biggest market-moving development right now and its direct Nifty implication",
    "Sentence 2: The most important India-specific story with its sector/market impact",
    "Sentence 3: The one thing to watch or be aware of today - practical and specific"
  ],
  "global_news": [
    {
      "headline": "Punchy headline under 10 words",
      "published_at_ist": "Copy exactly from the article's published_at_ist field - do not modify",
      "india_impact": "3-4 sentences. Explain what happened (past tense). Then explain the mechanism connecting it to Indian markets using plain English - no jargon without explanation. Then give your honest take on the likely impact on Nifty/sectors. Use the mental model: Fed rates, Treasury yields, crude oil, USD strength, China dynamics as appropriate.",
      "sentiment": "bullish|bearish|neutral|watchful"
    }
  ],
  "india_news": [
    {
      "headline": "Punchy headline under 10 words",
      "published_at_ist": "Copy exactly from the article's published_at_ist field - do not modify",
      "analysis": "3-4 sentences. Explain what happened. Explain which sectors or stocks are affected and why - mechanistically, not just 'this is good/bad'. Give your take. Explain any jargon used.",
      "sentiment": "bullish|bearish|neutral|watchful"
    }
  ],
  "ipo_commentary": [
    {
      "name": "IPO name",
      "issue_price": "Price band from data, e.g. Rs 216-227",
      "gmp": "GMP value from data - if Rs 15 above a Rs 227 issue price, say 'Rs 15 above issue price (6.6% estimated listing gain)'",
      "subscription": "Subscription status from data, or open/close dates",
      "take": "1-2 sentences: Is this worth applying for? What does the GMP signal? Be direct - 'strong GMP suggests solid listing' or 'flat GMP, wait for listing day action instead'."
    }
  ],
  "watch_today": [
    "3-5 items. Each must be one plain sentence with a clear action/implication. Format: [What's happening] -> [What you should do or look out for]. Examples: 'Nifty closed at 25,571 yesterday - if it opens above 25,600 and holds, momentum is bullish; below 25,450 would be a warning sign.' / 'Crude oil at $83/barrel - if you hold IndiGo or HPCL, watch for early selling pressure today.' / 'US markets rallied 0.8% overnight - Nifty likely to open gap-up around 25,650-25,700.' / 'No major India events scheduled today - direction will be driven by global cues and FII flow.' Keep language simple - no jargon unless explained."
  ],
  "stock_watch": {
    "tailwinds": [
      {
        "name": "Stock name (e.g. TCS, ICICI Bank)",
        "cap": "Large Cap or Mid Cap",
        "reason": "1 plain sentence: why today's news is a positive catalyst for this stock. Be specific about the mechanism."
      }
    ],
    "on_radar": [
      {
        "name": "Stock name",
        "cap": "Large Cap or Mid Cap",
        "reason": "1 plain sentence: why this stock is worth watching closely today - could go either way, or has news-driven volatility expected."
      }
    ],
    "headwinds": [
      {
        "name": "Stock name",
        "cap": "Large Cap or Mid Cap",
        "reason": "1 plain sentence: why today's news creates pressure or risk for this stock. Be specific."
      }
    ]
  },
  "sector_spotlight": "2-3 sentences on the single most interesting sector story today - what's moving, why, and what it means for retail investors holding those stocks."
}

stock_watch RULES:
- 2-4 stocks per category (tailwinds, on_radar, headwinds). Skip a category if nothing relevant.
- Only include stocks that are directly connected to today's news or market data. No guessing.
- Mix large cap and mid cap where relevant. Mention cap size.
- This is educational context, not investment advice. Focus on the connection between news and stock impact.
- If no specific stocks are relevant today, use an empty array [] for that category.

QUALITY CHECKLIST before finalising:
- Every jargon term explained in plain English on first use? YES/NO - if NO, fix it
- Every global story explicitly connected to Indian market mechanism? YES/NO - if NO, fix it
- Did I fabricate any data not provided? If yes, replace with 'data not available today'
- Total word count under 1200? If over, trim the least important items
- Am I being genuinely opinionated (not wishy-washy)? Good: 'This is clearly bearish for IT stocks'. Bad: 'IT stocks may see some pressure'`

func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(b)
}

// formatThousands renders 25571.4 as "25,571" for prompt readability.
func formatThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
