package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ArticleIntel/internal/app"
	"ArticleIntel/internal/config"
	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          "articleintel",
		Short:        "Crawl, analyze and serve English reading material",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				return os.Setenv("ARTICLE_INTEL_CONFIG", cfgFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (overrides $ARTICLE_INTEL_CONFIG)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the crawl scheduler",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApplication(cmd.Context(), func(ctx context.Context, a *app.Application) error {
					return a.Serve(ctx)
				})
			},
		},
		newCrawlCommand(),
		&cobra.Command{
			Use:   "train",
			Short: "Retrain the category model from stored articles",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApplication(cmd.Context(), func(ctx context.Context, a *app.Application) error {
					result, err := a.Train(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, result)
				})
			},
		},
	)
	return root
}

func newCrawlCommand() *cobra.Command {
	var opts domain.FetchOptions

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Run one crawl-and-ingest cycle and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.MaxPerFeed < 0 {
				return errors.New("--max-items must not be negative")
			}
			return withApplication(cmd.Context(), func(ctx context.Context, a *app.Application) error {
				report, err := a.Crawl(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(cmd, report)
			})
		},
	}
	cmd.Flags().IntVar(&opts.MaxPerFeed, "max-items", 0, "items per feed (0 keeps the configured value)")
	cmd.Flags().StringSliceVar(&opts.Sites, "source", nil, "crawl only the named sites")
	return cmd
}

func withApplication(ctx context.Context, run func(context.Context, *app.Application) error) error {
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("application close failed", "error", err)
		}
	}()

	if err := run(ctx, application); err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
