package news

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"market-brief/internal/types"
)

// Feed is one RSS source: display name plus URL.
type Feed struct {
	Name string
	URL  string
}

// DefaultFeeds are the major Indian and global financial publications.
// Free with no quota, so they run on every fetch as a supplement and as
// the safety net when the keyed APIs are down.
var DefaultFeeds = []Feed{
	{"Economic Times Markets", "https://economictimes.indiatimes.com/markets/rss.cms"},
	{"Business Standard", "https://www.business-standard.com/rss/markets-106.rss"},
	{"Reuters India", "https://feeds.reuters.com/reuters/INbusinessNews"},
	{"Moneycontrol", "https://www.moneycontrol.com/rss/MCtopnews.xml"},
	{"Mint Markets", "https://www.livemint.com/rss/markets"},
}

const (
	maxEntriesPerFeed = 15
	maxDescriptionLen = 300
)

// fetchFeed pulls one RSS feed and keeps entries inside the lookback
// window. Entries without a parseable date are kept; a stale feed is
// better than a silent gap.
func (a *Aggregator) fetchFeed(ctx context.Context, feed Feed, cutoff time.Time) ([]types.Article, error) {
	parsed, err := a.feedParser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, err
	}

	items := parsed.Items
	if len(items) > maxEntriesPerFeed {
		items = items[:maxEntriesPerFeed]
	}

	var articles []types.Article
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		var published string
		if item.PublishedParsed != nil {
			pub := item.PublishedParsed.UTC()
			if pub.Before(cutoff) {
				continue
			}
			published = pub.Format("2006-01-02T15:04:05Z")
		}

		articles = append(articles, types.Article{
			Source:      "rss",
			Title:       title,
			Description: cleanDescription(item.Description),
			URL:         item.Link,
			PublishedAt: published,
			SourceName:  feed.Name,
		})
	}
	return articles, nil
}

// cleanDescription strips HTML markup from a feed summary and bounds it
// so the LLM prompt stays compact.
func cleanDescription(desc string) string {
	if desc == "" {
		return ""
	}
	if strings.Contains(desc, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc)); err == nil {
			desc = doc.Text()
		}
	}
	desc = strings.Join(strings.Fields(desc), " ")
	// Rune-wise cap so ₹ and curly quotes never get split mid-sequence.
	if r := []rune(desc); len(r) > maxDescriptionLen {
		desc = string(r[:maxDescriptionLen])
	}
	return desc
}
