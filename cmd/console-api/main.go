package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edvin/cdcadmin/internal/api"
	"github.com/edvin/cdcadmin/internal/cdc"
	"github.com/edvin/cdcadmin/internal/config"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/logging"
	"github.com/edvin/cdcadmin/internal/mcpserver"
	"github.com/edvin/cdcadmin/internal/metrics"
	"github.com/edvin/cdcadmin/internal/poller"
	"github.com/edvin/cdcadmin/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("console-api"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid dashboard timezone")
	}

	mcpCfg, err := mcpserver.LoadConfig(cfg.MCPConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load MCP config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := cdc.NewClient(cfg.CDCAPIURL, cfg.CDCAPIToken,
		cdc.WithTimeout(cfg.CDCAPITimeout),
		cdc.WithRateLimit(cfg.CDCAPIRateLimit),
	)
	st := store.New(ctx, logger)
	services := core.NewServices(client, st, loc)

	var p *poller.Poller
	if cfg.CDCAPIToken != "" {
		p = poller.New(logger, st, poller.ClampInterval(cfg.PollInterval), services.RefreshTasks()...)
		p.Start(ctx)
	} else {
		logger.Warn().Msg("CDC_API_TOKEN not set, background refresh disabled")
	}

	mcp := mcpserver.New(mcpCfg, services, cfg.PageSize, logger)
	srv := api.NewServer(logger, cfg, services, client, mcp)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket and MCP streams stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Str("cdc_api", cfg.CDCAPIURL).Msg("starting console API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	var metricsServer *http.Server
	if cfg.MetricsListenAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsListenAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	if p != nil {
		p.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	if metricsServer != nil {
		metricsServer.Shutdown(shutdownCtx)
	}
	cancel()
}
