package tableau

import (
	"strings"
	"time"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// APIVersion is the platform REST API version the client speaks.
const APIVersion = "3.20"

// Config holds the platform connection configuration for one site.
type Config struct {
	// ServerURL is the platform server base URL. A trailing slash is
	// stripped.
	ServerURL string

	// PATName and PATSecret are the Personal Access Token credentials
	// exchanged at sign-in for a session token.
	PATName   string
	PATSecret string

	// SiteName is the site content URL. Empty means the server's
	// default site.
	SiteName string

	// ProjectFilter restricts comprehensive fetches to these project
	// names. Empty means all projects.
	ProjectFilter []string

	// PageSize is the listing page size. Defaults to DefaultPageSize.
	PageSize int

	// MaxPages caps page requests per listing. Zero means unlimited.
	MaxPages int

	// RateLimitPerMinute is the request budget per rolling minute.
	// Defaults to DefaultRateLimit.
	RateLimitPerMinute int

	// Timeout bounds each HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// ConfigFromSettings builds a connector Config from application settings.
func ConfigFromSettings(settings domain.AppSettings) Config {
	return Config{
		ServerURL:          settings.Platform.ServerURL,
		PATName:            settings.Platform.PATName,
		PATSecret:          settings.Platform.PATSecret,
		SiteName:           settings.Platform.SiteName,
		ProjectFilter:      settings.Platform.ProjectFilter,
		PageSize:           settings.Index.PageSize,
		RateLimitPerMinute: settings.Index.RateLimitPerMinute,
	}
}

// normalize strips the trailing slash and applies defaults.
func (c *Config) normalize() {
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = DefaultRateLimit
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}
