package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"market-brief/internal/fetchutil"
	"market-brief/internal/types"
)

func testClient() *fetchutil.Client {
	return fetchutil.New(1, 5*time.Millisecond, 2*time.Second)
}

type stubFinnhub struct {
	articles []types.Article
	err      error
}

func (s *stubFinnhub) MarketNews(ctx context.Context, cutoff time.Time) ([]types.Article, error) {
	return s.articles, s.err
}

func TestQuotaExhaustionShortCircuitsNewsAPIOnly(t *testing.T) {
	var newsAPIHits int32
	newsAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&newsAPIHits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":"error","code":"rateLimited","message":"too many requests"}`))
	}))
	defer newsAPI.Close()

	var gnewsHits int32
	gnews := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&gnewsHits, 1)
		w.Write([]byte(`{"articles":[{"title":"GNews fallback story","source":{"name":"GNews"}}]}`))
	}))
	defer gnews.Close()

	a := NewAggregator("key", "gkey", "",
		WithHTTPClient(testClient()),
		WithNewsAPIBase(newsAPI.URL),
		WithGNewsBase(gnews.URL),
		WithFeeds(nil),
	)

	payload := a.FetchAll(context.Background(), 24)

	// Only the first NewsAPI call should have gone out.
	if got := atomic.LoadInt32(&newsAPIHits); got != 1 {
		t.Errorf("expected 1 NewsAPI request after quota exhaustion, got %d", got)
	}
	if got := atomic.LoadInt32(&gnewsHits); got != 1 {
		t.Errorf("GNews should still run after NewsAPI quota exhaustion, hits=%d", got)
	}
	if payload.ArticleCount != 1 {
		t.Errorf("expected the GNews article to survive, got %d", payload.ArticleCount)
	}
}

func TestQuotaResponseIsNotRetried(t *testing.T) {
	var newsAPIHits int32
	newsAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&newsAPIHits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":"error","code":"rateLimited","message":"too many requests"}`))
	}))
	defer newsAPI.Close()

	gnews := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles":[]}`))
	}))
	defer gnews.Close()

	// Multi-attempt client with the production 429 exemption: the quota
	// response must come back after a single request, not per retry.
	client := fetchutil.New(3, 5*time.Millisecond, 2*time.Second, http.StatusTooManyRequests)
	a := NewAggregator("key", "", "",
		WithHTTPClient(client),
		WithNewsAPIBase(newsAPI.URL),
		WithGNewsBase(gnews.URL),
		WithFeeds(nil),
	)

	a.FetchAll(context.Background(), 24)

	if got := atomic.LoadInt32(&newsAPIHits); got != 1 {
		t.Errorf("429 quota response should not be retried, got %d requests", got)
	}
}

func TestFetchAllCollectsSourceReports(t *testing.T) {
	gnews := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer gnews.Close()

	fh := &stubFinnhub{articles: []types.Article{
		{Source: "finnhub", Title: "Fed holds rates steady", SourceName: "Reuters"},
	}}

	a := NewAggregator("", "", "",
		WithHTTPClient(testClient()),
		WithFinnhub(fh),
		WithGNewsBase(gnews.URL),
		WithFeeds(nil),
	)

	payload := a.FetchAll(context.Background(), 24)

	byName := map[string]types.SourceReport{}
	for _, r := range payload.Sources {
		byName[r.Source] = r
	}
	if r := byName["finnhub"]; !r.OK || r.Count != 1 {
		t.Errorf("finnhub report wrong: %+v", r)
	}
	if r := byName["gnews_india"]; r.OK || r.Err == "" {
		t.Errorf("gnews 403 should be a failed report with an error: %+v", r)
	}
	if payload.ArticleCount != 1 {
		t.Errorf("expected 1 article, got %d", payload.ArticleCount)
	}
}

func TestFetchFeedFiltersAndCleans(t *testing.T) {
	recent := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC1123Z)
	stale := time.Now().UTC().Add(-72 * time.Hour).Format(time.RFC1123Z)
	rss := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Test Feed</title>
<item><title>Sensex rallies 500 points</title><link>http://x/1</link>
<description>&lt;p&gt;Markets &lt;b&gt;surged&lt;/b&gt; today.&lt;/p&gt;</description>
<pubDate>` + recent + `</pubDate></item>
<item><title>Old story from last week</title><link>http://x/2</link>
<pubDate>` + stale + `</pubDate></item>
<item><title>Undated story stays in</title><link>http://x/3</link></item>
</channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rss))
	}))
	defer srv.Close()

	a := NewAggregator("", "", "",
		WithHTTPClient(testClient()),
		WithFeeds([]Feed{{Name: "Test Feed", URL: srv.URL}}),
	)

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	articles, err := a.fetchFeed(context.Background(), a.feeds[0], cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (stale one dropped), got %d", len(articles))
	}
	if articles[0].Description != "Markets surged today." {
		t.Errorf("HTML not stripped from description: %q", articles[0].Description)
	}
	if articles[1].Title != "Undated story stays in" {
		t.Errorf("undated entry should be kept, got %q", articles[1].Title)
	}
	if articles[0].SourceName != "Test Feed" {
		t.Errorf("source name not carried: %q", articles[0].SourceName)
	}
}

func TestDeduplicateByTitlePrefix(t *testing.T) {
	long := "RBI keeps repo rate unchanged at 6.5 percent as inflation stays within the tolerance band"
	articles := []types.Article{
		{Title: long + " - Economic Times"},
		{Title: long + " | Moneycontrol"},
		{Title: "Completely different story"},
	}
	unique := Deduplicate(articles)
	if len(unique) != 2 {
		t.Fatalf("expected 2 unique articles, got %d", len(unique))
	}
	if unique[0].Title != long+" - Economic Times" {
		t.Errorf("first occurrence should win, got %q", unique[0].Title)
	}
}

func TestCleanDescriptionTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "0123456789"
	}
	if got := cleanDescription(long); len(got) != maxDescriptionLen {
		t.Errorf("expected %d chars, got %d", maxDescriptionLen, len(got))
	}
	if got := cleanDescription("plain text"); got != "plain text" {
		t.Errorf("plain text should pass through, got %q", got)
	}
}

func TestCleanDescriptionTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("₹", maxDescriptionLen+50)
	got := cleanDescription(long)
	if !utf8.ValidString(got) {
		t.Fatal("truncated description is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != maxDescriptionLen {
		t.Errorf("expected %d runes, got %d", maxDescriptionLen, n)
	}
}
