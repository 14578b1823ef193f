package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"market-brief/internal/types"
)

// errQuotaExhausted marks NewsAPI's free-tier daily quota running out.
// The aggregator skips the remaining NewsAPI calls for the run but keeps
// every other source going.
var errQuotaExhausted = errors.New("newsapi quota exhausted")

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// newsAPIGet issues one NewsAPI request. Quota exhaustion arrives as a
// JSON body with code "rateLimited" (HTTP 429), so the body is decoded
// before the status code is judged.
func (a *Aggregator) newsAPIGet(ctx context.Context, endpoint string, query map[string]string) (*newsAPIResponse, error) {
	resp, err := a.http.Resty().R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(a.newsAPIBase + endpoint)
	if err != nil {
		return nil, err
	}

	var out newsAPIResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("newsapi %s: decode: %w", endpoint, err)
	}
	if out.Code == "rateLimited" {
		return nil, errQuotaExhausted
	}
	if resp.IsError() {
		return nil, fmt.Errorf("newsapi %s: status %d", endpoint, resp.StatusCode())
	}
	return &out, nil
}

func (r *newsAPIResponse) articles(source string) []types.Article {
	var out []types.Article
	for _, a := range r.Articles {
		if a.Title == "" || strings.Contains(a.Title, "[Removed]") {
			continue
		}
		out = append(out, types.Article{
			Source:      source,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			SourceName:  a.Source.Name,
		})
	}
	return out
}

// fetchNewsAPIGlobal pulls top global business headlines.
func (a *Aggregator) fetchNewsAPIGlobal(ctx context.Context) ([]types.Article, error) {
	resp, err := a.newsAPIGet(ctx, "/v2/top-headlines", map[string]string{
		"category": "business",
		"language": "en",
		"pageSize": "20",
		"apiKey":   a.newsAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return resp.articles("newsapi_global"), nil
}

// fetchNewsAPIIndia pulls top Indian business headlines.
func (a *Aggregator) fetchNewsAPIIndia(ctx context.Context) ([]types.Article, error) {
	resp, err := a.newsAPIGet(ctx, "/v2/top-headlines", map[string]string{
		"category": "business",
		"country":  "in",
		"pageSize": "20",
		"apiKey":   a.newsAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return resp.articles("newsapi_india"), nil
}

// fetchNewsAPISearch queries the "everything" endpoint for one watchlist
// topic group, looking back hoursBack hours.
func (a *Aggregator) fetchNewsAPISearch(ctx context.Context, query string, hoursBack int) ([]types.Article, error) {
	from := a.now().UTC().Add(-time.Duration(hoursBack) * time.Hour).Format("2006-01-02T15:04:05Z")
	resp, err := a.newsAPIGet(ctx, "/v2/everything", map[string]string{
		"q":        query,
		"language": "en",
		"sortBy":   "publishedAt",
		"from":     from,
		"pageSize": "10",
		"apiKey":   a.newsAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return resp.articles("newsapi_search:"+query), nil
}
