package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vikiman365/scraper/internal/aggregate"
	"github.com/vikiman365/scraper/internal/collect"
	"github.com/vikiman365/scraper/internal/config"
	"github.com/vikiman365/scraper/internal/engine"
	"github.com/vikiman365/scraper/internal/extract"
	"github.com/vikiman365/scraper/internal/fetcher"
	"github.com/vikiman365/scraper/internal/handler"
	"github.com/vikiman365/scraper/internal/observability"
	"github.com/vikiman365/scraper/internal/pipeline"
	"github.com/vikiman365/scraper/internal/storage"
	"github.com/vikiman365/scraper/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	outputPath  string
	outputType  string
	depth       int
	concurrent  int
	delay       string
	maxProducts int
	maxRetries  int
	imageMode   string
	domain      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oncrawl",
		Short: "oncrawl — On Cloud storefront product crawler",
		Long: `oncrawl walks an On Cloud storefront from its homepage, discovers
category and product pages, and extracts structured product records.

Features:
  • Concurrent crawling with deduplicating URL frontier
  • Page-type dispatch (homepage, category listing, product detail)
  • Cascading CSS selector extraction with fallbacks
  • MXN price parsing (English and Spanish price labels)
  • Category roll-ups and run summary
  • JSON file and MongoDB export
  • Proxy rotation and User-Agent rotation
  • Prometheus metrics endpoint`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(crawlCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// crawlCmd creates the "crawl" subcommand.
func crawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl the storefront and export product data",
		Long:  "Crawl from the given start URL(s), or the configured defaults when none are given.",
		RunE:  runCrawl,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output directory for JSON export")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output type: json, mongo, both")
	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "maximum crawl depth (-1 = use config)")
	cmd.Flags().IntVarP(&concurrent, "concurrency", "n", 0, "number of concurrent workers (0 = use config)")
	cmd.Flags().StringVar(&delay, "delay", "", "delay between requests per worker")
	cmd.Flags().IntVarP(&maxProducts, "max-products", "m", -1, "maximum product records (-1 = use config)")
	cmd.Flags().IntVar(&maxRetries, "max-retries", -1, "max retries per failed request (-1 = use config)")
	cmd.Flags().StringVar(&imageMode, "image-mode", "", "image extraction mode: basic or thorough")
	cmd.Flags().StringVar(&domain, "allowed-domain", "", "domain to stay within")

	return cmd
}

// runCrawl executes the crawl command.
func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cfg, args)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(&cfg.Logging)

	logger.Info("starting crawl",
		"seeds", cfg.Crawl.StartURLs,
		"domain", cfg.Crawl.AllowedDomain,
		"depth", cfg.Crawl.MaxDepth,
		"concurrency", cfg.Crawl.MaxConcurrency,
		"max_products", cfg.Crawl.MaxProducts,
		"image_mode", cfg.Crawl.ImageMode,
		"output", cfg.Output.Type,
	)

	metrics := observability.NewMetrics()
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr, logger); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	// Output collections, one per dataset
	products := collect.New[*types.ProductRecord]("products")
	detailed := collect.New[*types.ProductRecord]("detailed-products")
	categories := collect.New[*types.CategoryRollup]("categories")
	errs := collect.New[*types.ErrorRecord]("errors")

	frontier := engine.NewFrontier(cfg.Crawl.AllowedDomain, cfg.Crawl.MaxDepth, metrics)

	dispatcher := handler.NewDispatcher(handler.Deps{
		Frontier:     frontier,
		Products:     products,
		Detailed:     detailed,
		Pipeline:     pipeline.Default(logger, cfg.Crawl.Currency),
		Metrics:      metrics,
		Logger:       logger,
		SiteToken:    cfg.Crawl.SiteToken(),
		DefaultBrand: cfg.Crawl.DefaultBrand,
		ImageMode:    extract.ImageMode(cfg.Crawl.ImageMode),
	}, cfg.Crawl.MaxProducts)

	httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer httpFetcher.Close()

	runner := engine.NewRunner(frontier, httpFetcher, dispatcher, errs, metrics, logger, engine.RunnerOptions{
		Concurrency:    cfg.Crawl.MaxConcurrency,
		RequestTimeout: cfg.Crawl.RequestTimeout,
		MaxRetries:     cfg.Crawl.MaxRetries,
		Delay:          cfg.Crawl.Delay,
	})

	// Seed the frontier
	var seedsAdded int
	for _, rawURL := range cfg.Crawl.StartURLs {
		if frontier.Enqueue(rawURL, types.LabelStart, 0, engine.EnqueueContext{}) {
			seedsAdded++
		} else {
			logger.Warn("seed rejected", "url", rawURL)
		}
	}
	if seedsAdded == 0 {
		return fmt.Errorf("all start URLs were rejected — check URLs and allowed_domain")
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down...", "signal", sig)
		frontier.Close()
		cancel()
	}()

	start := time.Now()
	runner.Run(ctx)
	elapsed := time.Since(start)

	// Post-crawl aggregation and reporting
	aggregate.NewAggregator(logger).Organize(products, categories)
	summary := aggregate.NewReporter(logger).Summarize(products, categories, detailed)

	exporter, err := storage.NewExporter(&cfg.Output, logger)
	if err != nil {
		return fmt.Errorf("create exporter: %w", err)
	}
	defer exporter.Close()

	if err := exporter.Export(&storage.RunOutput{
		Products:         products.Items(),
		DetailedProducts: detailed.Items(),
		Categories:       categories.Items(),
		Errors:           errs.Items(),
		Summary:          summary,
	}); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	logger.Info("crawl complete",
		"elapsed", elapsed,
		"products", summary.TotalProducts,
		"detailed", summary.DetailedProducts,
		"categories", summary.TotalCategories,
		"errors", errs.Count(),
	)

	fmt.Printf("\nCrawl complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("   Products:    %d listed, %d detailed\n", summary.TotalProducts, summary.DetailedProducts)
	fmt.Printf("   Categories:  %d\n", summary.TotalCategories)
	fmt.Printf("   Success:     %d%%\n", summary.SuccessRate)
	fmt.Printf("   Errors:      %d\n", errs.Count())
	if cfg.Output.Type == "json" || cfg.Output.Type == "both" {
		fmt.Printf("   Output:      %s\n", cfg.Output.Path)
	}

	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("oncrawl %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Crawl:\n")
			fmt.Printf("  Start URLs:       %v\n", cfg.Crawl.StartURLs)
			fmt.Printf("  Allowed Domain:   %s\n", cfg.Crawl.AllowedDomain)
			fmt.Printf("  Concurrency:      %d\n", cfg.Crawl.MaxConcurrency)
			fmt.Printf("  Max Depth:        %d\n", cfg.Crawl.MaxDepth)
			fmt.Printf("  Max Products:     %d\n", cfg.Crawl.MaxProducts)
			fmt.Printf("  Request Timeout:  %s\n", cfg.Crawl.RequestTimeout)
			fmt.Printf("  Max Retries:      %d\n", cfg.Crawl.MaxRetries)
			fmt.Printf("  Delay:            %s\n", cfg.Crawl.Delay)
			fmt.Printf("  Image Mode:       %s\n", cfg.Crawl.ImageMode)
			fmt.Printf("  Default Brand:    %s\n", cfg.Crawl.DefaultBrand)
			fmt.Printf("  Currency:         %s\n", cfg.Crawl.Currency)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Follow Redirects: %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Printf("  Max Body Size:    %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:      %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nProxy:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.Proxy.Enabled)
			fmt.Printf("  Count:            %d\n", len(cfg.Proxy.URLs))
			fmt.Printf("\nOutput:\n")
			fmt.Printf("  Type:             %s\n", cfg.Output.Type)
			fmt.Printf("  Path:             %s\n", cfg.Output.Path)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Addr:             %s\n", cfg.Metrics.Addr)
			return nil
		},
	}
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Crawl.StartURLs = args
	}
	if domain != "" {
		cfg.Crawl.AllowedDomain = strings.TrimSpace(domain)
	}
	if depth >= 0 {
		cfg.Crawl.MaxDepth = depth
	}
	if concurrent > 0 {
		cfg.Crawl.MaxConcurrency = concurrent
	}
	if delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			cfg.Crawl.Delay = d
		}
	}
	if maxProducts >= 0 {
		cfg.Crawl.MaxProducts = maxProducts
	}
	if maxRetries >= 0 {
		cfg.Crawl.MaxRetries = maxRetries
	}
	if imageMode != "" {
		cfg.Crawl.ImageMode = strings.ToLower(imageMode)
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if outputType != "" {
		cfg.Output.Type = strings.ToLower(outputType)
	}
}
