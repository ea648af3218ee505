package config

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	apErrors "github.com/go-ap/errors"
	"gopkg.in/yaml.v3"

	"git.sr.ht/~mariusor/gni/events"
	"git.sr.ht/~mariusor/gni/source"
)

const (
	DefaultListen   = "localhost:3000"
	DefaultTimezone = "America/New_York"
	DefaultRefresh  = "@every 1h"
)

// Passes are the purchase links shown next to the concierge actions, empty values use the defaults.
type Passes struct {
	Lite    string `yaml:"lite" env:"GNI_PASS_LITE"`
	Deposit string `yaml:"deposit" env:"GNI_PASS_DEPOSIT"`
}

type Featured struct {
	Score int      `yaml:"score" env:"GNI_FEATURED_SCORE"`
	IDs   []string `yaml:"ids" env:"GNI_FEATURED_IDS" envSeparator:","`
}

// Config is the application configuration, read from a YAML file and then
// overridden by GNI_* environment variables.
type Config struct {
	Listen string `yaml:"listen" env:"GNI_LISTEN"`
	// Path is the directory holding the bolt database.
	Path string `yaml:"path" env:"GNI_PATH"`
	// Sources are CSV files or http(s) URLs, "embedded" is the bundled dataset.
	Sources  []string `yaml:"sources" env:"GNI_SOURCES" envSeparator:","`
	Timezone string   `yaml:"timezone" env:"GNI_TIMEZONE"`
	// Refresh is the cron schedule of the catalog reload, "-" disables it.
	Refresh      string `yaml:"refresh" env:"GNI_REFRESH"`
	ConciergeURL string `yaml:"concierge_url" env:"GNI_CONCIERGE_URL"`

	Featured Featured       `yaml:"featured"`
	Routes   []events.Route `yaml:"routes"`
	Passes   Passes         `yaml:"passes"`
}

func Default() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in the missing values with their defaults.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if len(c.Sources) == 0 {
		c.Sources = []string{source.Embedded}
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Refresh == "" {
		c.Refresh = DefaultRefresh
	}
	if c.Featured.Score <= 0 {
		c.Featured.Score = events.DefaultFeaturedScore
	}
	if c.Featured.IDs == nil {
		c.Featured.IDs = events.DefaultFeaturedIDs
	}
	if c.Routes == nil {
		c.Routes = events.DefaultRoutes()
	}
}

// Load reads the configuration at path. A missing file, or an empty path, results in the defaults.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, apErrors.Annotatef(err, "unable to read config %s", path)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, apErrors.Annotatef(err, "invalid config %s", path)
			}
		}
	}
	if err := env.Parse(c); err != nil {
		return nil, apErrors.Annotatef(err, "invalid environment")
	}
	c.Normalize()
	return c, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, apErrors.Annotatef(err, "invalid timezone %s", c.Timezone)
	}
	return loc, nil
}

func (c *Config) FeaturedEvents() events.Featured {
	return events.NewFeatured(c.Featured.Score, c.Featured.IDs...)
}

// ConciergeEndpoint returns the configured concierge URL, or the stub endpoint
// of a server listening on listen.
func (c *Config) ConciergeEndpoint(listen string) string {
	if c.ConciergeURL != "" {
		return c.ConciergeURL
	}
	if listen == "" {
		listen = c.Listen
	}
	return LocalConciergeURL(listen)
}

// LocalConciergeURL returns the URL of the concierge stub served on the listen address.
// Empty and unspecified hosts are reached through localhost.
func LocalConciergeURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		host, port = listen, ""
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	if port != "" {
		host = net.JoinHostPort(host, port)
	}
	return "http://" + host + "/api/concierge"
}

// RefreshEnabled reports if the catalog should be reloaded periodically.
func (c *Config) RefreshEnabled() bool {
	return c.Refresh != "-"
}

// Save writes the configuration as YAML.
func Save(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return apErrors.Annotatef(err, "unable to encode config")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return apErrors.Annotatef(err, "unable to write config %s", path)
	}
	return nil
}
