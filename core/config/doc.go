// Package config loads application configuration.
//
// Values are resolved in this order: an optional .env file (overloading the
// process environment), defaults taken from `default:"..."` struct tags, and
// environment variables derived from the mapstructure path with dots replaced by
// underscores (appstore.key_id -> APPSTORE_KEY_ID).
//
// The App Store Connect credentials additionally accept the variable names used by
// older pipelines (APP_STORE_CONNECT_KEY_IDENTIFIER, APP_STORE_CONNECT_ISSUER_ID,
// APP_STORE_CONNECT_PRIVATE_KEY, BUNDLE_ID).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err := cfg.AppStore.Validate(); err != nil {
//	    return err
//	}
package config
