package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	baseURL string
	timeout time.Duration
	json    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "moneybook-cli",
		Short:         "Moneybook CLI tool",
		Long:          `A command line interface for the Moneybook personal finance API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the Moneybook API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		newTransactionsCmd(opts),
		newCategoriesCmd(opts),
		newSummaryCmd(opts),
		newFilterCmd(opts),
		newChartsCmd(opts),
		newConsistencyCmd(opts),
	)

	return rootCmd
}
