package catalog

import "time"

// Config holds settings for the catalog sync.
type Config struct {
	// Path is the desired catalog file (YAML or JSON).
	Path string `mapstructure:"path" default:"iap_config.yaml"`
	// ScreenshotsDir is searched for a review screenshot when a subscription names none.
	ScreenshotsDir string `mapstructure:"screenshots_dir" default:"screenshots"`
	// BaseTerritory selects the base currency for price equalization.
	BaseTerritory string `mapstructure:"base_territory" default:"USA"`
	// PriceDelayMs spaces consecutive price writes.
	PriceDelayMs int `mapstructure:"price_delay_ms" default:"50"`
	// TokenRefreshSeconds re-mints the bearer token between subscriptions once it is this old.
	TokenRefreshSeconds int `mapstructure:"token_refresh_seconds" default:"900"`
}

// PriceDelay returns PriceDelayMs as a duration.
func (c Config) PriceDelay() time.Duration {
	return time.Duration(c.PriceDelayMs) * time.Millisecond
}

// TokenRefresh returns TokenRefreshSeconds as a duration.
func (c Config) TokenRefresh() time.Duration {
	return time.Duration(c.TokenRefreshSeconds) * time.Second
}
