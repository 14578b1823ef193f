package ipo

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"market-brief/internal/types"
)

// scrapeChittorgarhGMP parses the Chittorgarh grey-market-premium page.
// Column layout: name, issue price, GMP, expected listing gain, dates.
func (f *Fetcher) scrapeChittorgarhGMP(ctx context.Context) ([]types.IPORecord, error) {
	doc, err := f.getDocument(ctx, f.chittorgarhBase+"/ipo/ipo_gmp.asp")
	if err != nil {
		return nil, err
	}

	var ipos []types.IPORecord
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}
		header := strings.ToLower(rowText(rows.First()))
		if !containsAny(header, "ipo", "gmp", "price") {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := cellTexts(row)
			if len(cells) < 3 {
				return
			}
			name := cells[0]
			if name == "" || isHeaderLabel(name) {
				return
			}
			ipos = append(ipos, types.IPORecord{
				Name:           name,
				IssuePrice:     cellOr(cells, 1, "N/A"),
				GMP:            cellOr(cells, 2, "N/A"),
				ListingGainPct: cellOr(cells, 3, "N/A"),
				Dates:          cellOr(cells, 4, ""),
			})
		})
	})
	return ipos, nil
}

// scrapeChittorgarhSubscription parses the live subscription report. The
// oversubscription figure sits in different columns depending on the
// board, so the rightmost numeric-looking cell wins.
func (f *Fetcher) scrapeChittorgarhSubscription(ctx context.Context) ([]types.IPORecord, error) {
	doc, err := f.getDocument(ctx, f.chittorgarhBase+"/report/ipo-subscription-status/93/")
	if err != nil {
		return nil, err
	}

	var ipos []types.IPORecord
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}
		header := strings.ToLower(rowText(rows.First()))
		if !containsAny(header, "ipo", "subscription", "subscr") {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := cellTexts(row)
			if len(cells) < 2 {
				return
			}
			name := cells[0]
			if name == "" || isHeaderLabel(name) {
				return
			}
			var subscription string
			for i := len(cells) - 1; i > 0; i-- {
				if looksLikeSubscription(cells[i]) {
					subscription = cells[i]
					break
				}
			}
			if subscription == "" {
				subscription = "N/A"
			}
			ipos = append(ipos, types.IPORecord{Name: name, Subscription: subscription})
		})
	})
	return ipos, nil
}

// fetchChittorgarh merges the GMP and subscription scrapes by name key.
func (f *Fetcher) fetchChittorgarh(ctx context.Context) []types.IPORecord {
	gmp, gmpErr := f.scrapeChittorgarhGMP(ctx)
	<-f.sleep(f.pageDelay)
	subs, subErr := f.scrapeChittorgarhSubscription(ctx)
	if gmpErr != nil && subErr != nil {
		return nil
	}

	subByName := make(map[string]string, len(subs))
	for _, s := range subs {
		subByName[types.NameKey(s.Name)] = s.Subscription
	}

	var merged []types.IPORecord
	seen := make(map[string]struct{})
	for _, g := range gmp {
		key := types.NameKey(g.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rec := g
		rec.Subscription = "N/A"
		if sub, ok := subByName[key]; ok {
			rec.Subscription = sub
		}
		merged = append(merged, rec)
	}

	// Subscription-only IPOs that never showed up on the GMP page.
	for _, s := range subs {
		key := types.NameKey(s.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, types.IPORecord{
			Name:         s.Name,
			IssuePrice:   "N/A",
			GMP:          "N/A",
			Subscription: s.Subscription,
		})
	}
	return merged
}

func (f *Fetcher) getDocument(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := f.http.Get(ctx, url, nil, scrapeHeaders)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
}

func rowText(row *goquery.Selection) string {
	var parts []string
	row.Find("th, td").Each(func(_ int, c *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(c.Text()))
	})
	return strings.Join(parts, " ")
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(_ int, c *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(c.Text()))
	})
	return cells
}

func cellOr(cells []string, i int, fallback string) string {
	if i < len(cells) && cells[i] != "" {
		return cells[i]
	}
	return fallback
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isHeaderLabel(name string) bool {
	switch strings.ToLower(name) {
	case "ipo", "ipo name", "name":
		return true
	}
	return false
}

// looksLikeSubscription accepts "3.5x", "12 times" or a bare number.
func looksLikeSubscription(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "x") || strings.Contains(lower, "times") {
		return true
	}
	stripped := strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
