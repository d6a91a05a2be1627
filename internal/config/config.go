package config

import (
	"strings"
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the crawler.
type Config struct {
	Crawl   CrawlConfig   `mapstructure:"crawl"   yaml:"crawl"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Proxy   ProxyConfig   `mapstructure:"proxy"   yaml:"proxy"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// CrawlConfig controls the crawl engine and handlers.
type CrawlConfig struct {
	StartURLs      []string      `mapstructure:"start_urls"      yaml:"start_urls"`
	AllowedDomain  string        `mapstructure:"allowed_domain"  yaml:"allowed_domain"`
	MaxConcurrency int           `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	MaxDepth       int           `mapstructure:"max_depth"       yaml:"max_depth"`
	MaxProducts    int           `mapstructure:"max_products"    yaml:"max_products"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"     yaml:"max_retries"`
	Delay          time.Duration `mapstructure:"delay"           yaml:"delay"`
	ImageMode      string        `mapstructure:"image_mode"      yaml:"image_mode"` // basic or thorough
	DefaultBrand   string        `mapstructure:"default_brand"   yaml:"default_brand"`
	Currency       string        `mapstructure:"currency"        yaml:"currency"`
}

// SiteToken returns the first label of the allowed domain, used to
// recognize the site's own URL and asset path segments.
func (c *CrawlConfig) SiteToken() string {
	domain := strings.TrimPrefix(c.AllowedDomain, "www.")
	if i := strings.Index(domain, "."); i > 0 {
		return domain[:i]
	}
	return domain
}

// FetcherConfig controls the HTTP fetch layer.
type FetcherConfig struct {
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// ProxyConfig is passed through to the fetch layer. Group and Country
// are opaque provider settings.
type ProxyConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	URLs    []string `mapstructure:"urls"    yaml:"urls"`
	Group   string   `mapstructure:"group"   yaml:"group"`
	Country string   `mapstructure:"country" yaml:"country"`
}

// OutputConfig controls where run output is exported.
type OutputConfig struct {
	Type          string `mapstructure:"type"           yaml:"type"` // json, mongo, or both
	Path          string `mapstructure:"path"           yaml:"path"`
	MongoURI      string `mapstructure:"mongo_uri"      yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr"    yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults for the
// target storefront.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			StartURLs:      []string{"https://oncloud.com.mx/"},
			AllowedDomain:  "oncloud.com.mx",
			MaxConcurrency: 10,
			MaxDepth:       5,
			MaxProducts:    500,
			RequestTimeout: 30 * time.Second,
			MaxRetries:     2,
			Delay:          500 * time.Millisecond,
			ImageMode:      "basic",
			DefaultBrand:   "On Cloud",
			Currency:       "MXN",
		},
		Fetcher: FetcherConfig{
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Proxy: ProxyConfig{
			Enabled: false,
			Group:   "RESIDENTIAL",
		},
		Output: OutputConfig{
			Type: "json",
			Path: "./output",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}
