// Package main is the entry point for the settlement feasibility engine.
// It wires together the market registry, holiday data plane, settlement
// engine, audit log, and notification feed, then starts the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/api"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/audit"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/calendar"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/config"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/holidaydata"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/notifications"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/registry"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/rules"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/settlement"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("starting settlement feasibility engine")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Market Registry (C1): loaded once, read-only for the process lifetime.
	reg, err := registry.Load(cfg.MarketsConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load market registry")
	}
	log.Info().Int("markets", len(reg.ListCodes())).Str("version", reg.Version()).Msg("market registry loaded")

	// Holiday Data Plane (C3): exchange-session + public-holiday adapters,
	// plus the manual-override store.
	exchangeAdapter, publicAdapter, err := holidaydata.LoadCalendar(cfg.HolidaysConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load holiday calendar")
	}

	overrides, err := holidaydata.LoadOverrideStore(cfg.OverridesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load manual override store")
	}

	plane := holidaydata.NewPlane(exchangeAdapter, publicAdapter, overrides)

	// Trading Calendar (C4/C5) over the data plane.
	cal := calendar.New(plane)

	// Audit log (A4): sqlite-backed record of checks and override events.
	auditLog, err := audit.NewStore(cfg.AuditDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open audit log")
	}
	defer auditLog.Close()

	// Notification feed (A5): in-process bounded history of override events.
	notificationManager := notifications.NewManager()

	// Both consumers subscribe to override mutations independently; the
	// override store has no knowledge of either.
	overrides.Subscribe(auditLog)
	overrides.Subscribe(notificationManager)

	// Special-Cases Advisor (C7) and the Settlement Feasibility Engine (C6).
	advisor := rules.NewAdvisor()
	engine := settlement.New(reg, cal, advisor, time.Now, cfg.CutOffWarningMinutes, cfg.MaxSettlementExtensionDays)

	router := api.NewRouter(cfg, reg, overrides, cal, engine, auditLog, notificationManager)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("API server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
