package news

import (
	"context"
	"encoding/json"
	"fmt"

	"market-brief/internal/types"
)

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// fetchGNewsIndia is the free fallback for Indian business headlines,
// useful on days the NewsAPI quota is gone.
func (a *Aggregator) fetchGNewsIndia(ctx context.Context) ([]types.Article, error) {
	query := map[string]string{
		"topic":   "business",
		"country": "in",
		"lang":    "en",
		"max":     "10",
	}
	if a.gnewsKey != "" {
		query["apikey"] = a.gnewsKey
	}

	resp, err := a.http.Resty().R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(a.gnewsBase + "/api/v4/top-headlines")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 403 {
		return nil, fmt.Errorf("gnews requires an API key")
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gnews: status %d", resp.StatusCode())
	}

	var out gnewsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("gnews: decode: %w", err)
	}

	var articles []types.Article
	for _, g := range out.Articles {
		articles = append(articles, types.Article{
			Source:      "gnews_india",
			Title:       g.Title,
			Description: g.Description,
			URL:         g.URL,
			PublishedAt: g.PublishedAt,
			SourceName:  g.Source.Name,
		})
	}
	return articles, nil
}
