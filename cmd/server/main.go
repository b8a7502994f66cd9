package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bizon-consulting/backend/internal/ai"
	"github.com/bizon-consulting/backend/internal/analysis"
	"github.com/bizon-consulting/backend/internal/codes"
	"github.com/bizon-consulting/backend/internal/config"
	"github.com/bizon-consulting/backend/internal/consulting"
	"github.com/bizon-consulting/backend/internal/geocode"
	httpapi "github.com/bizon-consulting/backend/internal/http"
	"github.com/bizon-consulting/backend/internal/sbiz"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "bizon-backend").Logger()

	if cfg.IsProduction() && cfg.AdminKey == "" {
		logger.Fatal().Msg("ADMIN_KEY is required in production")
	}

	resolver, err := codes.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load code tables")
	}
	demoTables, err := analysis.LoadDemoTables()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load demo tables")
	}
	consultingTables, err := consulting.LoadTables()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load consulting tables")
	}

	upstream := sbiz.NewClient(sbiz.BizonProvider{
		BaseURL:       cfg.Sbiz.BaseURL,
		SessionCookie: cfg.Sbiz.SessionCookie,
		Keys: map[string]string{
			sbiz.EndpointSimple:         cfg.Sbiz.SimpleKey,
			sbiz.EndpointFootTraffic:    cfg.Sbiz.SimpleKey,
			sbiz.EndpointIndustryBest:   cfg.Sbiz.SimpleKey,
			sbiz.EndpointStartupClimate: cfg.Sbiz.StartupClimateKey,
			sbiz.EndpointStoreStatus:    cfg.Sbiz.StoreStatusKey,
			sbiz.EndpointSalesTrend:     cfg.Sbiz.SalesTrendKey,
			sbiz.EndpointDelivery:       cfg.Sbiz.DeliveryKey,
			sbiz.EndpointHotPlace:       cfg.Sbiz.HotPlaceKey,
		},
	}, sbiz.Options{
		Timeout:         cfg.Sbiz.Timeout,
		FallbackTimeout: cfg.Sbiz.FallbackTimeout,
	}, logger)

	var geocoder geocode.Geocoder = geocode.TableGeocoder{Table: resolver}
	if strings.EqualFold(cfg.Geocoder, "nominatim") {
		geocoder = &geocode.NominatimGeocoder{
			BaseURL:  cfg.NominatimURL,
			Fallback: geocoder,
			Log:      logger,
		}
		logger.Info().Str("url", cfg.NominatimURL).Msg("using nominatim geocoder")
	}

	assistant, err := ai.New(ai.Config{
		Provider:        cfg.LLM.Provider,
		OpenAIAPIKey:    cfg.LLM.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.LLM.OpenAIBaseURL,
		OpenAIModel:     cfg.LLM.OpenAIModel,
		AnthropicAPIKey: cfg.LLM.AnthropicAPIKey,
		AnthropicModel:  cfg.LLM.AnthropicModel,
		Timeout:         cfg.LLM.Timeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure language model")
	}
	if assistant == nil {
		logger.Info().Msg("no language model key, using canned replies")
	}

	analyzer := analysis.NewService(analysis.Deps{
		Codes:    resolver,
		Upstream: upstream,
		Geocoder: geocoder,
		Demo:     analysis.NewGenerator(demoTables, nil),
		Log:      logger,
	})
	consultant := consulting.NewService(assistant, consultingTables, logger)

	router := httpapi.Router(cfg, httpapi.Services{
		Analysis:   analyzer,
		Consulting: consultant,
		Upstream:   upstream,
		Codes:      resolver,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
