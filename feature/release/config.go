package release

import "time"

// Config defines build polling and token refresh timing.
type Config struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" default:"30"`
	PollTimeoutSeconds  int `mapstructure:"poll_timeout_seconds" default:"2400"`
	TokenRefreshSeconds int `mapstructure:"token_refresh_seconds" default:"900"`
}

// PollInterval returns the pause between build lookups.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// PollTimeout returns the processing ceiling.
func (c Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// TokenRefresh returns the session age after which a new token is minted.
func (c Config) TokenRefresh() time.Duration {
	return time.Duration(c.TokenRefreshSeconds) * time.Second
}
