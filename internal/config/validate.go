package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if len(cfg.Crawl.StartURLs) == 0 {
		return fmt.Errorf("crawl.start_urls must not be empty")
	}
	for _, raw := range cfg.Crawl.StartURLs {
		if err := ValidateURL(raw); err != nil {
			return fmt.Errorf("crawl.start_urls: %w", err)
		}
	}
	if cfg.Crawl.MaxConcurrency < 1 {
		return fmt.Errorf("crawl.max_concurrency must be >= 1, got %d", cfg.Crawl.MaxConcurrency)
	}
	if cfg.Crawl.MaxConcurrency > 1000 {
		return fmt.Errorf("crawl.max_concurrency must be <= 1000, got %d", cfg.Crawl.MaxConcurrency)
	}
	if cfg.Crawl.MaxDepth < 0 {
		return fmt.Errorf("crawl.max_depth must be >= 0, got %d", cfg.Crawl.MaxDepth)
	}
	if cfg.Crawl.MaxProducts < 0 {
		return fmt.Errorf("crawl.max_products must be >= 0, got %d", cfg.Crawl.MaxProducts)
	}
	if cfg.Crawl.RequestTimeout <= 0 {
		return fmt.Errorf("crawl.request_timeout must be > 0")
	}
	if cfg.Crawl.MaxRetries < 0 {
		return fmt.Errorf("crawl.max_retries must be >= 0, got %d", cfg.Crawl.MaxRetries)
	}
	if cfg.Crawl.Delay < 0 {
		return fmt.Errorf("crawl.delay must be >= 0")
	}
	if cfg.Crawl.ImageMode != "basic" && cfg.Crawl.ImageMode != "thorough" {
		return fmt.Errorf("crawl.image_mode must be 'basic' or 'thorough', got %q", cfg.Crawl.ImageMode)
	}

	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Proxy.Enabled {
		if len(cfg.Proxy.URLs) == 0 {
			return fmt.Errorf("proxy.urls must not be empty when proxy is enabled")
		}
		for _, p := range cfg.Proxy.URLs {
			if _, err := url.Parse(p); err != nil {
				return fmt.Errorf("invalid proxy URL %q: %w", p, err)
			}
		}
	}

	switch cfg.Output.Type {
	case "json", "mongo", "both":
	default:
		return fmt.Errorf("output.type must be 'json', 'mongo', or 'both', got %q", cfg.Output.Type)
	}
	if cfg.Output.Type == "json" || cfg.Output.Type == "both" {
		if cfg.Output.Path == "" {
			return fmt.Errorf("output.path must be set for json output")
		}
	}
	if cfg.Output.Type == "mongo" || cfg.Output.Type == "both" {
		if cfg.Output.MongoURI == "" {
			return fmt.Errorf("output.mongo_uri must be set for mongo output")
		}
		if cfg.Output.MongoDatabase == "" {
			return fmt.Errorf("output.mongo_database must be set for mongo output")
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must be set when metrics are enabled")
	}

	return nil
}

// ValidateURL checks that a raw string parses as an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q must have a host", raw)
	}
	return nil
}
