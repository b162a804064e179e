package main

import (
	"context"
	"fmt"

	"rebalancer/internal/broker"
	"rebalancer/internal/config"
	"rebalancer/internal/engine"
	"rebalancer/internal/repository"
	"rebalancer/pkg/logger"

	"github.com/spf13/cobra"
)

func runRebalance(cmd *cobra.Command, args []string) error {
	csvPath, _ := cmd.Flags().GetString("csv")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.Pretty})

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

	report, err := rebalancer.Rebalance(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Planned:  %d orders\n", len(report.Planned))
	fmt.Printf("Executed: %d fills\n", len(report.Executed))
	fmt.Printf("Rejected: %d orders\n", len(report.Rejected))
	fmt.Printf("Skipped:  %d symbols\n", len(report.Skipped))
	for _, skip := range report.Skipped {
		fmt.Printf("  %-8s %s\n", skip.Symbol, skip.Reason)
	}

	if csvPath != "" {
		if err := engine.WriteFillsCSVFile(csvPath, report.Executed); err != nil {
			return fmt.Errorf("write fills csv: %w", err)
		}
		fmt.Printf("Fills written to %s\n", csvPath)
	}
	return nil
}
