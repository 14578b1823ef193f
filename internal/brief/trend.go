package brief

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"market-brief/internal/types"
)

type sectorCount struct {
	Sector string
	Count  int
}

// SectorTrend formats the rolling sentiment CSV into a trend block for
// the prompt. Fewer than two days of history yields "", not a block
// that would over-weight a single session.
func SectorTrend(rows []types.SectorSentimentRow) string {
	if len(rows) < 2 {
		return ""
	}

	gainerCount := map[string]int{}
	loserCount := map[string]int{}
	for _, row := range rows {
		for _, sector := range splitSectors(row.Gainers) {
			gainerCount[sector]++
		}
		for _, sector := range splitSectors(row.Losers) {
			loserCount[sector]++
		}
	}

	nDays := len(rows)
	// Consistent = appeared on at least 40% of days, minimum 2.
	threshold := int(math.Round(float64(nDays) * 0.4))
	if threshold < 2 {
		threshold = 2
	}

	gainers := consistent(gainerCount, threshold)
	losers := consistent(loserCount, threshold)

	var b strings.Builder
	fmt.Fprintf(&b, "=== %d-DAY SECTOR TREND (rolling) ===\n", nDays)

	if len(gainers) > 0 {
		parts := make([]string, len(gainers))
		for i, g := range gainers {
			parts[i] = fmt.Sprintf("%s (positive %d/%d days)", g.Sector, g.Count, nDays)
		}
		b.WriteString("Consistent GAINERS: " + strings.Join(parts, ", ") + "\n")
	} else {
		b.WriteString("Consistent GAINERS: None - gains have been scattered this week\n")
	}

	if len(losers) > 0 {
		parts := make([]string, len(losers))
		for i, l := range losers {
			parts[i] = fmt.Sprintf("%s (negative %d/%d days)", l.Sector, l.Count, nDays)
		}
		b.WriteString("Consistent LOSERS: " + strings.Join(parts, ", ") + "\n")
	} else {
		b.WriteString("Consistent LOSERS: None - losses have been scattered this week\n")
	}

	b.WriteString("\nDaily breakdown (most recent last):\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s: Nifty %s | FII ₹%s Cr | Gainers: %s | Losers: %s\n",
			row.Date, row.NiftyPct, row.FIINet, row.Gainers, row.Losers)
	}

	b.WriteString("\nUse this trend data in your analysis. If a sector has been consistently " +
		"negative or positive for 3+ sessions, call it out as a developing trend - " +
		"not just today's noise. E.g., 'Banking has been in the red for 4 straight " +
		"sessions now - this is looking like a trend, not a one-day blip.'")

	return b.String()
}

// splitSectors parses "Banking:+1.2%|IT:-0.4%" into sector names.
func splitSectors(s string) []string {
	var sectors []string
	for _, entry := range strings.Split(s, "|") {
		sector := strings.TrimSpace(strings.SplitN(entry, ":", 2)[0])
		if sector != "" && sector != "N/A" {
			sectors = append(sectors, sector)
		}
	}
	return sectors
}

func consistent(counts map[string]int, threshold int) []sectorCount {
	var out []sectorCount
	for sector, count := range counts {
		if count >= threshold {
			out = append(out, sectorCount{sector, count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}
