package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"rebalancer/internal/config"
	"rebalancer/internal/repository"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func runSeed(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	index, _ := cmd.Flags().GetString("index")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if index == "" {
		index = cfg.Index
	}

	rows, err := readConstituentsCSV(file)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no constituent rows in %s", file)
	}

	db, err := repository.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	bar := initProgressBar(len(rows), index)
	err = db.ReplaceConstituents(context.Background(), index, rows, func() {
		_ = bar.Add(1)
	})
	if err != nil {
		return fmt.Errorf("seed %s: %w", index, err)
	}

	fmt.Printf("\nSeeded %d constituents for %s\n", len(rows), index)
	return nil
}

// readConstituentsCSV parses ticker,name,weight[,price] rows. A header row
// starting with "ticker" is skipped.
func readConstituentsCSV(path string) ([]repository.ConstituentSeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open constituents file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read constituents file: %w", err)
	}

	var rows []repository.ConstituentSeed
	for i, record := range records {
		if i == 0 && len(record) > 0 && strings.EqualFold(record[0], "ticker") {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("row %d: want at least ticker,name,weight", i+1)
		}

		weight, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid weight %q: %w", i+1, record[2], err)
		}
		row := repository.ConstituentSeed{
			Ticker: strings.TrimSpace(record[0]),
			Name:   strings.TrimSpace(record[1]),
			Weight: weight,
		}
		if len(record) > 3 && record[3] != "" {
			price, err := decimal.NewFromString(record[3])
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid price %q: %w", i+1, record[3], err)
			}
			row.Price = price
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func initProgressBar(maxTicks int, index string) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription(fmt.Sprintf("Seeding %s...", index)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
