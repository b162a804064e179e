package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rebalancer/internal/broker"
	"rebalancer/internal/config"
	"rebalancer/internal/engine"
	"rebalancer/internal/repository"
	"rebalancer/internal/scheduler"
	"rebalancer/internal/server"
	"rebalancer/pkg/logger"

	"github.com/spf13/cobra"
)

// rebalanceJob adapts the coordinator to the scheduler's Job interface.
type rebalanceJob struct {
	rebalancer *engine.Rebalancer
}

func (j *rebalanceJob) Name() string { return "weekly-rebalance" }

func (j *rebalanceJob) Run() error {
	_, err := j.rebalancer.Rebalance(context.Background())
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.Pretty})
	log.Info().Str("index", cfg.Index).Msg("Starting rebalancer")

	db, err := repository.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	portfolio, err := engine.NewPortfolio(cfg.InitialCash)
	if err != nil {
		return err
	}

	paper := broker.NewPaper(&db, log)
	rebalancer := engine.NewRebalancer(
		portfolio, &db, &db, paper,
		cfg.Index, cfg.MinOrderValue, log,
	).WithLedger(&db)

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.CronSpec(), &rebalanceJob{rebalancer: rebalancer}); err != nil {
		return fmt.Errorf("register rebalance job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	router := server.NewRouter(rebalancer, log)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Stopped")
	return nil
}
