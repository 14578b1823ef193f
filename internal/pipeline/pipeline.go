package pipeline

import (
	"context"
	"fmt"
	"time"

	"market-brief/internal/logger"
	"market-brief/internal/store"
	"market-brief/internal/trace"
	"market-brief/internal/types"
)

// Stages are the injectable units of work. The pipeline owns ordering,
// partial-failure policy and the run log; each stage owns its domain.
type Stages struct {
	FetchNews       func(ctx context.Context) *types.NewsPayload
	FetchMarket     func(ctx context.Context) *types.MarketPayload
	UpdateSentiment func(ctx context.Context, market *types.MarketPayload) error
	FetchIPO        func(ctx context.Context) *types.IPOPayload
	FetchEarnings   func(ctx context.Context) *types.EarningsPayload
	Generate        func(ctx context.Context, news *types.NewsPayload, market *types.MarketPayload, ipo *types.IPOPayload, earnings *types.EarningsPayload) (*types.Brief, error)
	Render          func(b *types.Brief, market *types.MarketPayload) (string, error)
	Send            func(ctx context.Context, html string, tldr []string) error
	Alert           func(ctx context.Context, steps []types.StepRecord) error
}

// Pipeline runs the daily brief end to end. Fetch stages are best
// effort: a dead source degrades the brief, it never kills the run.
// Generation and delivery are fatal: there is nothing to send without
// them.
type Pipeline struct {
	tmp    *store.TmpStore
	stages Stages
	noSend bool
}

func New(tmp *store.TmpStore, stages Stages, noSend bool) *Pipeline {
	return &Pipeline{tmp: tmp, stages: stages, noSend: noSend}
}

// Run executes the ordered steps, records each in the run log, and on a
// fatal failure sends a best-effort alert before returning the error.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()
	var steps []types.StepRecord

	record := func(name, status, errMsg string, counters map[string]int) {
		steps = append(steps, types.StepRecord{
			Name:     name,
			Status:   status,
			Error:    errMsg,
			Counters: counters,
		})
		logger.Step(ctx, name, status)
	}

	fail := func(name string, err error) error {
		record(name, types.StepError, err.Error(), nil)
		if logErr := p.tmp.AppendRun("failed", steps, err.Error()); logErr != nil {
			logger.Warn(ctx, "failed to write run log", "error", logErr)
		}
		if p.stages.Alert != nil {
			if alertErr := p.stages.Alert(ctx, steps); alertErr != nil {
				logger.Warn(ctx, "failure alert not delivered", "error", alertErr)
			}
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	news := p.fetchNews(ctx, record)
	market := p.fetchMarket(ctx, record)

	if p.stages.UpdateSentiment != nil {
		sctx, span := trace.StartStage(ctx, "update_sentiment")
		err := p.stages.UpdateSentiment(sctx, market)
		trace.EndStage(span, err)
		if err != nil {
			record("update_sentiment", types.StepError, err.Error(), nil)
		} else {
			record("update_sentiment", types.StepOK, "", nil)
		}
	}

	ipo := p.fetchIPO(ctx, record)
	earnings := p.fetchEarnings(ctx, record)

	gctx, genSpan := trace.StartStage(ctx, "generate_brief")
	brief, err := p.stages.Generate(gctx, news, market, ipo, earnings)
	if err != nil {
		trace.EndStage(genSpan, err)
		return fail("generate_brief", err)
	}
	html, err := p.stages.Render(brief, market)
	trace.EndStage(genSpan, err)
	if err != nil {
		return fail("generate_brief", err)
	}
	if err := p.tmp.WriteHTML(html); err != nil {
		logger.Warn(ctx, "failed to persist rendered email", "error", err)
	}
	record("generate_brief", types.StepOK, "", map[string]int{"html_bytes": len(html)})

	if p.noSend {
		record("send_email", types.StepSkipped, "", nil)
		logger.Info(ctx, "send skipped (no-send mode)", "html_bytes", len(html))
	} else {
		sctx, sendSpan := trace.StartStage(ctx, "send_email")
		err := p.stages.Send(sctx, html, brief.TLDR)
		trace.EndStage(sendSpan, err)
		if err != nil {
			return fail("send_email", err)
		}
		record("send_email", types.StepOK, "", nil)
	}

	if err := p.tmp.AppendRun("success", steps, ""); err != nil {
		logger.Warn(ctx, "failed to write run log", "error", err)
	}
	logger.Info(ctx, "pipeline complete", "duration", time.Since(started).Round(time.Millisecond).String())
	return nil
}

type recordFunc func(name, status, errMsg string, counters map[string]int)

// fetchNews never fails the run: an empty payload lets the model say
// "data not available today" instead of the reader getting no email.
func (p *Pipeline) fetchNews(ctx context.Context, record recordFunc) *types.NewsPayload {
	sctx, span := trace.StartStage(ctx, "fetch_news")
	defer span.End()
	payload := p.stages.FetchNews(sctx)
	if payload == nil {
		payload = &types.NewsPayload{FetchedAt: time.Now().UTC()}
	}
	if err := p.tmp.WriteJSON(store.NewsFile, payload); err != nil {
		logger.Warn(ctx, "failed to persist news payload", "error", err)
	}
	status, errMsg := types.StepOK, ""
	if payload.ArticleCount == 0 {
		status, errMsg = types.StepError, "no articles fetched"
	}
	record("fetch_news", status, errMsg, map[string]int{"articles": payload.ArticleCount})
	return payload
}

func (p *Pipeline) fetchMarket(ctx context.Context, record recordFunc) *types.MarketPayload {
	sctx, span := trace.StartStage(ctx, "fetch_market_data")
	defer span.End()
	payload := p.stages.FetchMarket(sctx)
	if payload == nil {
		payload = &types.MarketPayload{FetchedAt: time.Now().UTC()}
	}
	if err := p.tmp.WriteJSON(store.MarketFile, payload); err != nil {
		logger.Warn(ctx, "failed to persist market payload", "error", err)
	}
	status, errMsg := types.StepOK, ""
	if len(payload.Indices) == 0 {
		status, errMsg = types.StepError, "no market data fetched"
	}
	record("fetch_market_data", status, errMsg, map[string]int{"indices": len(payload.Indices)})
	return payload
}

func (p *Pipeline) fetchIPO(ctx context.Context, record recordFunc) *types.IPOPayload {
	sctx, span := trace.StartStage(ctx, "fetch_ipo_data")
	defer span.End()
	payload := p.stages.FetchIPO(sctx)
	if payload == nil {
		payload = &types.IPOPayload{FetchedAt: time.Now().UTC()}
	}
	if err := p.tmp.WriteJSON(store.IPOFile, payload); err != nil {
		logger.Warn(ctx, "failed to persist ipo payload", "error", err)
	}
	// Zero IPOs is a normal quiet week, not a source failure.
	record("fetch_ipo_data", types.StepOK, "", map[string]int{"ipos": payload.IPOCount})
	return payload
}

func (p *Pipeline) fetchEarnings(ctx context.Context, record recordFunc) *types.EarningsPayload {
	sctx, span := trace.StartStage(ctx, "fetch_earnings")
	defer span.End()
	payload := p.stages.FetchEarnings(sctx)
	if payload == nil {
		payload = &types.EarningsPayload{FetchedAt: time.Now().UTC()}
	}
	if err := p.tmp.WriteJSON(store.EarningsFile, payload); err != nil {
		logger.Warn(ctx, "failed to persist earnings payload", "error", err)
	}
	record("fetch_earnings", types.StepOK, "", map[string]int{"events": payload.EventCount})
	return payload
}
