package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"market-brief/internal/types"
)

// MarketNewsSource abstracts the Finnhub general-news feed so the
// aggregator can be tested without the real API.
type MarketNewsSource interface {
	MarketNews(ctx context.Context, cutoff time.Time) ([]types.Article, error)
}

// FinnhubSource fetches the Finnhub "general" market news category.
type FinnhubSource struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubSource(apiKey string) *FinnhubSource {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &FinnhubSource{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

// MarketNews returns up to 30 general-market articles published after
// cutoff. Finnhub timestamps are unix seconds.
func (s *FinnhubSource) MarketNews(ctx context.Context, cutoff time.Time) ([]types.Article, error) {
	res, _, err := s.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	if len(res) > 30 {
		res = res[:30]
	}

	var articles []types.Article
	for _, n := range res {
		if n.Headline == nil || *n.Headline == "" || n.Datetime == nil {
			continue
		}
		pub := time.Unix(*n.Datetime, 0).UTC()
		if pub.Before(cutoff) {
			continue
		}

		a := types.Article{
			Source:      "finnhub",
			Title:       *n.Headline,
			PublishedAt: pub.Format("2006-01-02T15:04:05Z"),
			SourceName:  "Finnhub",
		}
		if n.Summary != nil {
			a.Description = *n.Summary
		}
		if n.Url != nil {
			a.URL = *n.Url
		}
		if n.Source != nil && *n.Source != "" {
			a.SourceName = *n.Source
		}
		articles = append(articles, a)
	}
	return articles, nil
}
