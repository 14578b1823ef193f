package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"market-brief/internal/brief"
	"market-brief/internal/logger"
	"market-brief/internal/mailer"
	"market-brief/internal/store"
)

// send delivers a previously rendered brief without re-running the
// pipeline. Useful after a send-stage failure: the HTML is already in
// the tmp dir.
func main() {
	file := flag.String("file", "", "HTML file to send (default: the last rendered brief)")
	testMode := flag.Bool("test", false, "send with a [TEST] subject prefix")
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

	ctx := context.Background()
	defer logger.Shutdown(ctx)

	var html string
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			logger.Error(ctx, "failed to read HTML file", "file", *file, "error", err)
			os.Exit(1)
		}
		html = string(b)
	} else {
		tmp := store.NewTmpStore(cfg.TmpDir)
		html, err = tmp.ReadHTML()
		if err != nil {
			logger.Error(ctx, "no rendered brief found, run the pipeline first", "error", err)
			os.Exit(1)
		}
	}

	m := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, secrets.EmailFrom, secrets.EmailTo, secrets.EmailPassword)
	subject := mailer.Subject(time.Now().In(brief.IST), *testMode)
	if err := m.SendBrief(ctx, subject, html, nil); err != nil {
		logger.Error(ctx, "send failed", "error", err)
		os.Exit(1)
	}
}
