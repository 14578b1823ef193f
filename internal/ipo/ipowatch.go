package ipo

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"market-brief/internal/types"
)

// ipowatchListing is the homepage table: name, dates, type, size, price band.
type ipowatchListing struct {
	Name      string
	Dates     string
	Type      string
	Size      string
	PriceBand string
}

func (f *Fetcher) scrapeIpowatchListings(ctx context.Context) ([]ipowatchListing, error) {
	doc, err := f.getDocument(ctx, f.ipowatchBase+"/")
	if err != nil {
		return nil, err
	}

	var listings []ipowatchListing
	table := doc.Find("table").First()
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil, nil
	}
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) < 4 {
			return
		}
		listings = append(listings, ipowatchListing{
			Name:      cells[0],
			Dates:     cellOr(cells, 1, ""),
			Type:      cellOr(cells, 2, ""),
			Size:      cellOr(cells, 3, ""),
			PriceBand: cellOr(cells, 4, ""),
		})
	})
	return listings, nil
}

// scrapeIpowatchGMP parses the GMP page. Column order differs from
// Chittorgarh: name, GMP, issue price, listing gain, dates.
func (f *Fetcher) scrapeIpowatchGMP(ctx context.Context) ([]types.IPORecord, error) {
	doc, err := f.getDocument(ctx, f.ipowatchBase+"/ipo-grey-market-premium-latest-ipo-gmp/")
	if err != nil {
		return nil, err
	}

	var ipos []types.IPORecord
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}
		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := cellTexts(row)
			if len(cells) < 3 || cells[0] == "" {
				return
			}
			ipos = append(ipos, types.IPORecord{
				Name:           cells[0],
				GMP:            cellOr(cells, 1, "N/A"),
				IssuePrice:     cellOr(cells, 2, "N/A"),
				ListingGainPct: cellOr(cells, 3, "N/A"),
				Dates:          cellOr(cells, 4, ""),
			})
		})
	})
	return ipos, nil
}

// fetchIpowatch merges the homepage listings with the GMP page by name
// key, with listing metadata filling the gaps the GMP rows leave.
func (f *Fetcher) fetchIpowatch(ctx context.Context) []types.IPORecord {
	listings, _ := f.scrapeIpowatchListings(ctx)
	<-f.sleep(f.pageDelay)
	gmp, _ := f.scrapeIpowatchGMP(ctx)

	listingByName := make(map[string]ipowatchListing, len(listings))
	for _, l := range listings {
		listingByName[types.NameKey(l.Name)] = l
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
		if l, ok := listingByName[key]; ok {
			if rec.Dates == "" {
				rec.Dates = l.Dates
			}
			rec.Type = l.Type
			rec.Size = l.Size
			if rec.IssuePrice == "" || rec.IssuePrice == "N/A" {
				rec.IssuePrice = l.PriceBand
				if rec.IssuePrice == "" {
					rec.IssuePrice = "N/A"
				}
			}
		}
		merged = append(merged, rec)
	}

	for _, l := range listings {
		key := types.NameKey(l.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		price := l.PriceBand
		if price == "" {
			price = "N/A"
		}
		merged = append(merged, types.IPORecord{
			Name:       l.Name,
			GMP:        "N/A",
			IssuePrice: price,
			Dates:      l.Dates,
			Type:       l.Type,
			Size:       l.Size,
		})
	}
	return merged
}
