package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "rate_desk/internal/adapters/http_server"
	"rate_desk/internal/adapters/llm"
	"rate_desk/internal/adapters/observability"
	"rate_desk/internal/app"
	"rate_desk/internal/domain"
	"rate_desk/internal/session"
	"rate_desk/internal/shared"
	"rate_desk/internal/storage/ratesheet"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	// rate sheet
	src, err := ratesheet.New(cfg.RatesEncoding, cfg.RatesDelimiter)
	if err != nil {
		log.Fatal().Err(err).Str("encoding", cfg.RatesEncoding).Msg("rate sheet loader init failed")
	}
	if t, err := src.Load(cfg.RatesPath); err != nil {
		// the page reports it on every pass; the sheet may appear later
		log.Warn().Err(err).Str("path", cfg.RatesPath).Msg("rate sheet not usable at startup")
	} else {
		log.Info().Str("path", cfg.RatesPath).Int("rows", len(t.Rows)).Msg("rate sheet ok")
	}

	// assistant
	var model domain.ChatModel
	client, err := llm.New(cfg.LLMBaseURL, cfg.LLMKey, cfg.LLMModel, cfg.LLMRPS, cfg.LLMTimeout)
	switch {
	case err == nil:
		model = client
	case errors.Is(err, domain.ErrAssistantDisabled) && !cfg.AssistantRequired:
		log.Warn().Msg("no API key configured, AI assistant disabled")
	default:
		log.Fatal().Err(err).Msg("AI assistant init failed")
	}
	scope, err := app.ParseScope(cfg.AssistantContext)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ASSISTANT_CONTEXT")
	}
	rates := app.NewAssistant(model, app.AssistantConfig{
		Tool:           "rates",
		Model:          cfg.LLMModel,
		Persona:        app.RatesPersona,
		Scope:          scope,
		IncludeHistory: cfg.AssistantIncludeHistory,
	})
	chat := app.NewAssistant(model, app.AssistantConfig{
		Tool:           "chat",
		Model:          cfg.LLMModel,
		Persona:        app.StaffPersona,
		Scope:          app.ScopeNone,
		IncludeHistory: true,
	})

	// http
	desk := app.NewDesk(src, cfg.RatesPath, rates, chat)
	sessions := session.NewStore(cfg.SessionIdle)

	srv := server.New(cfg.RequestTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(server.NewHandlers(desk, sessions), cfg.CORSOrigins)

	servers := []*http.Server{{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}}
	if cfg.MetricsAddr != "" {
		servers = append(servers, observability.NewMetricsServer(cfg.MetricsAddr, reg))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Str("addr", s.Addr).Msg("shutdown failed")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("stopped")
}
