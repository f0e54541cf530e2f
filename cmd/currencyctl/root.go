package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dalfonso89/currency-converter/internal/config"
	"github.com/dalfonso89/currency-converter/internal/logger"
	"github.com/dalfonso89/currency-converter/internal/webapp"
)

// options are the flags shared by every command
type options struct {
	apiBaseURL string
	timeout    time.Duration
	document   bool
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	defaults, err := config.Load()
	if err != nil {
		defaults = &config.Config{ClientAPIBaseURL: "http://localhost:3000/api", ClientTimeout: 5 * time.Second}
	}

	rootCmd := &cobra.Command{
		Use:   "currencyctl",
		Short: "Drive the currency converter client from a terminal",
		Long: `currencyctl runs the currency converter's single-page client against a
running proxy and prints the rendered page, so routes and forms can be
exercised without a browser.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiBaseURL, "api", defaults.ClientAPIBaseURL, "proxy API base URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaults.ClientTimeout, "client request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.document, "document", false, "print the whole entry page instead of the mount point")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log navigation to stderr")

	rootCmd.AddCommand(newVisitCommand(opts))
	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newHistoricalCommand(opts))

	return rootCmd
}

func newVisitCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "visit [path]",
		Short: "Load a page and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd, opts, path, nil)
		},
	}
}

func newConvertCommand(opts *options) *cobra.Command {
	var from, to, amount string

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Submit the exchange form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "/exchange", url.Values{
				"from":   {from},
				"to":     {to},
				"amount": {amount},
			})
		},
	}

	convertCmd.Flags().StringVar(&from, "from", "", "currency to convert from")
	convertCmd.Flags().StringVar(&to, "to", "", "currency to convert to")
	convertCmd.Flags().StringVar(&amount, "amount", "", "amount to convert")

	return convertCmd
}

func newHistoricalCommand(opts *options) *cobra.Command {
	var date string

	historicalCmd := &cobra.Command{
		Use:   "historical",
		Short: "Submit the historical rates form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "/historical", url.Values{"date": {date}})
		},
	}

	historicalCmd.Flags().StringVar(&date, "date", "", "date to fetch rates for (YYYY-MM-DD)")

	return historicalCmd
}

// run loads path in a fresh session, submits form when given, and prints the result
func run(cmd *cobra.Command, opts *options, path string, form url.Values) error {
	level := "error"
	if opts.verbose {
		level = "debug"
	}
	client := webapp.NewClient(webapp.NewAPIClient(opts.apiBaseURL, opts.timeout), logger.NewWithOutput(level, os.Stderr))

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*opts.timeout+time.Second)
	defer cancel()

	session := client.NewSession()
	defer session.Close()

	if err := session.Load(ctx, path).Wait(ctx); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	if form != nil {
		task, err := session.Submit(ctx, form)
		if err != nil {
			return fmt.Errorf("submitting %s: %w", path, err)
		}
		if err := task.Wait(ctx); err != nil {
			return fmt.Errorf("submitting %s: %w", path, err)
		}
	}

	if opts.document {
		return webapp.RenderDocument(cmd.OutOrStdout(), session.View())
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), session.View().Markup())
	return err
}
