package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		rawJSON bool
	)

	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "cashbook-cli",
		Short:         "Cashbook CLI tool",
		Long:          `A command line interface for interacting with the Cashbook API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.baseURL = baseURL
			client.timeout = timeout
			client.rawJSON = rawJSON
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Cashbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&rawJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(entriesCmd(client), statementCmd(client), ledgerCmd(client))

	return rootCmd
}
