// Package config loads the process configuration from the environment
// and an optional .env file. All settings live under the ZAMMAD_
// prefix; there is no config file hierarchy because the server is
// usually launched by an MCP host that only passes environment
// variables.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zammad-tools/zammad-mcp/internal/zammad"
)

// Config holds everything needed to construct the Zammad client.
type Config struct {
	URL           string        `mapstructure:"url"`
	HTTPToken     string        `mapstructure:"http_token"`
	OAuth2Token   string        `mapstructure:"oauth2_token"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	AllowInternal bool          `mapstructure:"allow_internal_urls"`
	CacheDisabled bool          `mapstructure:"no_cache"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from the environment, merging in a .env
// file from the working directory when one exists. Environment
// variables win over .env entries.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path.
func LoadFile(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix("ZAMMAD")
	v.AutomaticEnv()
	for _, key := range []string{"url", "http_token", "oauth2_token", "username", "password", "allow_internal_urls", "no_cache", "timeout"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.SetDefault("timeout", 30*time.Second)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for the failures worth catching before the client
// constructor does: the variable renames people trip over.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("ZAMMAD_URL is required (e.g. https://helpdesk.example.com/api/v1)")
	}
	if c.HTTPToken == "" && os.Getenv("ZAMMAD_TOKEN") != "" {
		return fmt.Errorf("ZAMMAD_TOKEN is not read by this server; rename it to ZAMMAD_HTTP_TOKEN")
	}
	if c.HTTPToken == "" && c.OAuth2Token == "" && c.Username == "" && c.Password == "" {
		return fmt.Errorf("no credentials configured: set ZAMMAD_HTTP_TOKEN, ZAMMAD_OAUTH2_TOKEN, or ZAMMAD_USERNAME and ZAMMAD_PASSWORD")
	}
	return nil
}

// ClientOptions maps the configuration onto client options.
func (c *Config) ClientOptions() zammad.Options {
	return zammad.Options{
		URL:           c.URL,
		HTTPToken:     c.HTTPToken,
		OAuth2Token:   c.OAuth2Token,
		Username:      c.Username,
		Password:      c.Password,
		AllowInternal: c.AllowInternal,
		CacheDisabled: c.CacheDisabled,
		Timeout:       c.Timeout,
	}
}

// Watch invokes onChange whenever the .env file is rewritten. It
// returns a stop function. Credentials and the base URL are fixed for
// the life of the client, so the only consumer is cache invalidation.
func Watch(envFile string, onChange func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(envFile); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", envFile, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Printf("config: %s changed", event.Name)
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
