package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName = "rebalancer"
	version = "v0.3.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Weekly index-tracking portfolio rebalancer",
		Version: version,
		Long: `Rebalancer keeps a cash/securities portfolio aligned with a target index
composition. Once a week it fetches the index weights, compares them with the
current allocation and submits the minimal whole-share order set, constrained
by available cash and a minimum order value.`,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and admin API",
		Long:  "Starts the weekly rebalance schedule and the HTTP API for deposits, snapshots and manual passes",
		RunE:  runServe,
	}

	rebalanceCmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Run a single rebalance pass and exit",
		RunE:  runRebalance,
	}
	rebalanceCmd.Flags().String("csv", "", "Write executed fills to this CSV file")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Bulk-load an index composition from a CSV file",
		Long:  "Reads ticker,name,weight[,price] rows and replaces the stored constituents of the index",
		RunE:  runSeed,
	}
	seedCmd.Flags().String("file", "", "CSV file with constituent rows (required)")
	seedCmd.Flags().String("index", "", "Index symbol to seed (defaults to INDEX_SYMBOL)")
	_ = seedCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(serveCmd, rebalanceCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
