package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"market-brief/internal/earnings"
	"market-brief/internal/fetchutil"
	"market-brief/internal/ipo"
	"market-brief/internal/logger"
	"market-brief/internal/market"
	"market-brief/internal/news"
	"market-brief/internal/store"
)

// fetch runs a single pipeline stage and writes its JSON document to
// the tmp dir, so sources can be debugged without a full run.
func main() {
	stage := flag.String("stage", "", "stage to run: news | market | ipo | earnings")
	hours := flag.Int("hours", 0, "news lookback window in hours (news stage only)")
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	secrets := store.SecretsFromEnv()
	tmp := store.NewTmpStore(cfg.TmpDir)

	ctx := context.Background()
	defer logger.Shutdown(ctx)

	httpClient := fetchutil.New(cfg.Fetch.MaxAttempts, cfg.RetryDelay(), cfg.Timeout())
	hoursBack := cfg.Fetch.NewsHoursBack
	if *hours > 0 {
		hoursBack = *hours
	}

	switch *stage {
	case "news":
		// 429 is a quota signal on NewsAPI, not a transient failure.
		newsClient := fetchutil.New(cfg.Fetch.MaxAttempts, cfg.RetryDelay(), cfg.Timeout(),
			http.StatusTooManyRequests)
		agg := news.NewAggregator(secrets.NewsAPIKey, secrets.GNewsKey, secrets.FinnhubKey,
			news.WithHTTPClient(newsClient))
		payload := agg.FetchAll(ctx, hoursBack)
		writeOut(ctx, tmp, store.NewsFile, payload)
		logger.Info(ctx, "news fetched", "articles", payload.ArticleCount)
	case "market":
		f := market.NewFetcher(secrets.FinnhubKey, secrets.PolygonKey,
			market.WithHTTPClient(httpClient),
			market.WithDelays(cfg.TickerDelay(), time.Second))
		payload := f.FetchAll(ctx)
		writeOut(ctx, tmp, store.MarketFile, payload)
		logger.Info(ctx, "market data fetched", "indices", len(payload.Indices))
	case "ipo":
		payload := ipo.NewFetcher().FetchAll(ctx)
		writeOut(ctx, tmp, store.IPOFile, payload)
		logger.Info(ctx, "ipo data fetched", "ipos", payload.IPOCount, "source", payload.Source)
	case "earnings":
		payload := earnings.NewFetcher(secrets.FinnhubKey).FetchAll(ctx)
		writeOut(ctx, tmp, store.EarningsFile, payload)
		logger.Info(ctx, "earnings fetched", "events", payload.EventCount)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func writeOut(ctx context.Context, tmp *store.TmpStore, name string, payload any) {
	if err := tmp.WriteJSON(name, payload); err != nil {
		logger.Error(ctx, "failed to write payload", "file", name, "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "payload written", "file", tmp.Path(name))
}
