package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miyabe/wordage/internal/api"
	"github.com/miyabe/wordage/internal/bank"
	"github.com/miyabe/wordage/internal/config"
	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/phonetics"
	"github.com/miyabe/wordage/internal/quiz"
	"github.com/miyabe/wordage/internal/resultstore"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Wordage Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("bank_path=%s", cfg.BankPath)
	log.Debug("result_dir=%s", cfg.ResultDir)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("num_rounds=%d", cfg.NumRounds)
	log.Debug("window_width=%d", cfg.WindowWidth)
	log.Debug("start_rank=%d", cfg.StartRank)
	log.Debug("candidate_count=%d", cfg.CandidateCount)

	// Open the word bank
	wordBank, err := bank.Open(cfg.BankPath)
	if err != nil {
		log.Error("failed to open word bank: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing word bank")
		wordBank.Close()
	}()
	log.Info("word bank opened, %d records", wordBank.Size())

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	log.Debug("templates loaded successfully")

	// Result store
	results, err := resultstore.New(cfg.ResultDir)
	if err != nil {
		log.Error("failed to prepare result store: %v", err)
		os.Exit(1)
	}

	// Quiz engine
	sampler := quiz.NewSampler(phonetics.Default(), cfg.GlossLimit, cfg.SampleRetries)
	controller := quiz.NewController(wordBank, sampler, quiz.Config{
		NumRounds:      cfg.NumRounds,
		WindowWidth:    cfg.WindowWidth,
		StartRank:      cfg.StartRank,
		CandidateCount: cfg.CandidateCount,
		MinRank:        cfg.MinRank,
	})
	estimator := quiz.NewEstimator(cfg.NumRounds, cfg.MinAge, cfg.MaxAge)

	srv := &api.Server{
		Bank:          wordBank,
		Controller:    controller,
		Estimator:     estimator,
		Results:       results,
		Templates:     tmpl,
		SessionSecret: []byte(cfg.SessionSecret),
		NumRounds:     cfg.NumRounds,
		MaxNameLen:    cfg.MaxNameLen,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Wordage Server Stopped")
	log.Info("===========================================")
}
