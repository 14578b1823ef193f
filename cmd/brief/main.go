package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"market-brief/internal/brief"
	"market-brief/internal/earnings"
	"market-brief/internal/fetchutil"
	"market-brief/internal/ipo"
	"market-brief/internal/logger"
	"market-brief/internal/mailer"
	"market-brief/internal/market"
	"market-brief/internal/news"
	"market-brief/internal/pipeline"
	"market-brief/internal/store"
	"market-brief/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	noSend := flag.Bool("no-send", false, "run the full pipeline but skip email delivery")
	testMode := flag.Bool("test", false, "send with a [TEST] subject prefix")
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())

	cfg, err := store.LoadConfig(*configPath)
	must(err)
	secrets := store.SecretsFromEnv()

	ctx := context.Background()
	defer logger.Shutdown(ctx)

	if secrets.AnthropicKey == "" {
		logger.Error(ctx, "ANTHROPIC_API_KEY is not set, cannot generate a brief")
		os.Exit(1)
	}

	p := pipeline.New(store.NewTmpStore(cfg.TmpDir), buildStages(cfg, secrets, *testMode), *noSend)
	if err := p.Run(ctx); err != nil {
		logger.Error(ctx, "pipeline failed", "error", err)
		os.Exit(1)
	}
}

// buildStages wires the real fetchers, synthesizer and mailer into the
// pipeline. Tests inject their own Stages; this is the production set.
func buildStages(cfg *store.Config, secrets *store.Secrets, testMode bool) pipeline.Stages {
	httpClient := fetchutil.New(cfg.Fetch.MaxAttempts, cfg.RetryDelay(), cfg.Timeout())
	// NewsAPI signals quota exhaustion in a 429 body, so that status
	// must reach the caller instead of being retried away.
	newsClient := fetchutil.New(cfg.Fetch.MaxAttempts, cfg.RetryDelay(), cfg.Timeout(),
		http.StatusTooManyRequests)

	newsAgg := news.NewAggregator(secrets.NewsAPIKey, secrets.GNewsKey, secrets.FinnhubKey,
		news.WithHTTPClient(newsClient))
	marketFetcher := market.NewFetcher(secrets.FinnhubKey, secrets.PolygonKey,
		market.WithHTTPClient(httpClient),
		market.WithDelays(cfg.TickerDelay(), time.Second))
	ipoFetcher := ipo.NewFetcher()
	earningsFetcher := earnings.NewFetcher(secrets.FinnhubKey)

	memory := store.NewMemory(cfg.MemoryDir)
	completer := brief.NewAnthropicCompleter(secrets.AnthropicKey, cfg.LLM.Model, cfg.LLM.MaxTokens)
	synth := brief.NewSynthesizer(completer, memory)

	m := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, secrets.EmailFrom, secrets.EmailTo, secrets.EmailPassword)

	return pipeline.Stages{
		FetchNews: func(ctx context.Context) *types.NewsPayload {
			return newsAgg.FetchAll(ctx, cfg.Fetch.NewsHoursBack)
		},
		FetchMarket: func(ctx context.Context) *types.MarketPayload {
			return marketFetcher.FetchAll(ctx)
		},
		UpdateSentiment: synth.UpdateSentiment,
		FetchIPO: func(ctx context.Context) *types.IPOPayload {
			return ipoFetcher.FetchAll(ctx)
		},
		FetchEarnings: func(ctx context.Context) *types.EarningsPayload {
			return earningsFetcher.FetchAll(ctx)
		},
		Generate: synth.Generate,
		Render: func(b *types.Brief, mkt *types.MarketPayload) (string, error) {
			return brief.RenderHTML(b, mkt, secrets.RecipientName, time.Now().In(brief.IST))
		},
		Send: func(ctx context.Context, html string, tldr []string) error {
			subject := mailer.Subject(time.Now().In(brief.IST), testMode)
			return m.SendBrief(ctx, subject, html, tldr)
		},
		Alert: func(ctx context.Context, steps []types.StepRecord) error {
			return m.SendAlert(ctx, time.Now().In(brief.IST), steps)
		},
	}
}
