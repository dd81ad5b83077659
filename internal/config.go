package internal

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/starford/folio/internal/notion"
	"github.com/starford/folio/internal/pages"
	"github.com/starford/folio/internal/refresher"
)

// Environment variables read when the config file leaves them out.
const (
	EnvNotionToken     = "NOTION_TOKEN"
	EnvNotionContainer = "NOTION_RR_RESOURCES_ID"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Listing ListingConfig     `yaml:"listing"`
	Notion  NotionConfig      `yaml:"notion"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Content.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := c.Listing.Validate(); err != nil {
		return fmt.Errorf("listing: %w", err)
	}
	if err := c.Notion.Validate(); err != nil {
		return fmt.Errorf("notion: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig locates the content files. CacheFile and TILDir are
// relative to Root.
type ContentConfig struct {
	Root      string `yaml:"root"`
	CacheFile string `yaml:"cache_file"`
	TILDir    string `yaml:"til_dir"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.CacheFile, validation.Required, validation.By(relativePath)),
		validation.Field(&c.TILDir, validation.Required, validation.By(relativePath)),
	)
}

func relativePath(v any) error {
	s, _ := v.(string)
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "..") {
		return fmt.Errorf("must be relative to the content root")
	}
	return nil
}

// ListingConfig holds listing page settings.
type ListingConfig struct {
	PageSize int `yaml:"page_size"`
}

// Validate validates the listing configuration.
func (c *ListingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(500)),
	)
}

// NotionConfig holds the Notion API settings used by refresh. Token and
// ContainerID are checked when a refresh starts, not at load time.
type NotionConfig struct {
	Token       string  `yaml:"token"`
	ContainerID string  `yaml:"container_id"`
	Version     string  `yaml:"version"`
	BaseURL     string  `yaml:"base_url"`
	RateLimit   float64 `yaml:"rate_limit"`
}

// Validate validates the Notion configuration.
func (c *NotionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
	)
}

// ApplyEnv fills an empty Token and ContainerID from NOTION_TOKEN and
// NOTION_RR_RESOURCES_ID.
func (c *NotionConfig) ApplyEnv() {
	if c.Token == "" {
		c.Token = os.Getenv(EnvNotionToken)
	}
	if c.ContainerID == "" {
		c.ContainerID = os.Getenv(EnvNotionContainer)
	}
}

// Credentials returns the secrets a refresh needs.
func (c *NotionConfig) Credentials() refresher.Credentials {
	return refresher.Credentials{Token: c.Token, ContainerID: c.ContainerID}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Root:      ".",
			CacheFile: refresher.DefaultCachePath,
			TILDir:    "src/content/til",
		},
		Listing: ListingConfig{
			PageSize: pages.DefaultPageSize,
		},
		Notion: NotionConfig{
			Version:   notion.DefaultVersion,
			BaseURL:   notion.DefaultBaseURL,
			RateLimit: 3,
		},
	}
}
