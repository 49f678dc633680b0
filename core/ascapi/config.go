package ascapi

import (
	"catalog-sync/core/errs"
)

// Config holds credentials and transport settings for the App Store Connect API.
type Config struct {
	// KeyID is the API key identifier (JWT kid header).
	KeyID string `mapstructure:"key_id" default:""`
	// IssuerID is the API key issuer (JWT iss claim).
	IssuerID string `mapstructure:"issuer_id" default:""`
	// PrivateKey is the inline contents of the .p8 key.
	PrivateKey string `mapstructure:"private_key" default:""`
	// PrivateKeyPath is read when PrivateKey is empty.
	PrivateKeyPath string `mapstructure:"private_key_path" default:""`
	// BundleID identifies the app whose catalog is managed.
	BundleID string `mapstructure:"bundle_id" default:""`
	// BaseURL is the API root including the version segment.
	BaseURL string `mapstructure:"base_url" default:"https://api.appstoreconnect.apple.com/v1"`
	// Platform is the store platform for versions and submissions.
	Platform string `mapstructure:"platform" default:"IOS"`
	// TimeoutSeconds bounds every request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// TokenTTLSeconds is the validity window of minted tokens.
	TokenTTLSeconds int `mapstructure:"token_ttl_seconds" default:"1200"`
}

// Validate reports every required field that is empty.
func (c Config) Validate() error {
	var missing []string
	if c.KeyID == "" {
		missing = append(missing, "APPSTORE_KEY_ID")
	}
	if c.IssuerID == "" {
		missing = append(missing, "APPSTORE_ISSUER_ID")
	}
	if c.PrivateKey == "" && c.PrivateKeyPath == "" {
		missing = append(missing, "APPSTORE_PRIVATE_KEY")
	}
	if c.BundleID == "" {
		missing = append(missing, "APPSTORE_BUNDLE_ID")
	}
	if len(missing) > 0 {
		return &errs.MissingConfigurationError{Fields: missing}
	}
	return nil
}
