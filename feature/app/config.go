package app

import "catalog-sync/core/ascapi"

// Config defines the app record and its store-level settings.
type Config struct {
	// Name is the store display name used when the record is created.
	Name string `mapstructure:"name" default:""`
	// SKU is the unique account-level identifier used when the record is created.
	SKU string `mapstructure:"sku" default:""`
	// PrimaryLocale is the record's primary language.
	PrimaryLocale string `mapstructure:"primary_locale" default:"en-US"`
	// PriceTier selects the app price; 0 is free.
	PriceTier int `mapstructure:"price_tier" default:"0"`
	// PriceTerritory is the base territory of the price schedule.
	PriceTerritory string `mapstructure:"price_territory" default:"USA"`
	// ThirdPartyContent declares that the app shows third-party content.
	ThirdPartyContent bool `mapstructure:"third_party_content" default:"false"`
}

// ContentRights returns the declaration matching ThirdPartyContent.
func (c Config) ContentRights() string {
	if c.ThirdPartyContent {
		return ascapi.ContentRightsThirdParty
	}
	return ascapi.ContentRightsNoThirdParty
}
