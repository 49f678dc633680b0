package config

import (
	"reflect"
	"strings"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/server"
	"catalog-sync/core/storage"
	"catalog-sync/feature/app"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/release"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// AppStore holds App Store Connect credentials and transport settings.
	AppStore ascapi.Config `mapstructure:"appstore"`
	// App holds the app record and its store-level settings.
	App app.Config `mapstructure:"app"`
	// Catalog holds settings for the catalog sync.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Release holds settings for version management and review submission.
	Release release.Config `mapstructure:"release"`
	// Server holds configuration for the runs HTTP API.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the report archive bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run journal.
	Database database.Config `mapstructure:"database"`
}

// envAliases maps config keys to environment names used by existing CI pipelines.
// The first, canonical name of each key takes precedence.
var envAliases = map[string][]string{
	"appstore.key_id":         {"APPSTORE_KEY_ID", "APP_STORE_CONNECT_KEY_IDENTIFIER"},
	"appstore.issuer_id":      {"APPSTORE_ISSUER_ID", "APP_STORE_CONNECT_ISSUER_ID"},
	"appstore.private_key":    {"APPSTORE_PRIVATE_KEY", "APP_STORE_CONNECT_PRIVATE_KEY"},
	"appstore.bundle_id":      {"APPSTORE_BUNDLE_ID", "BUNDLE_ID"},
	"app.sku":                 {"APP_SKU", "SKU"},
	"app.price_tier":          {"APP_PRICE_TIER", "PRICE_TIER"},
	"app.third_party_content": {"APP_THIRD_PARTY_CONTENT", "CONTENT_RIGHTS_THIRD_PARTY"},
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. CI)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
