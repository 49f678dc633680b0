package pricing

import "sort"

// currencyTerritories maps a currency to the territory whose price points are in it.
// Shared currencies map to one representative territory.
var currencyTerritories = map[string]string{
	"AUD": "AUS",
	"BRL": "BRA",
	"CAD": "CAN",
	"CHF": "CHE",
	"CNY": "CHN",
	"DKK": "DNK",
	"EUR": "DEU",
	"GBP": "GBR",
	"HKD": "HKG",
	"IDR": "IDN",
	"INR": "IND",
	"JPY": "JPN",
	"KRW": "KOR",
	"MXN": "MEX",
	"NOK": "NOR",
	"NZD": "NZL",
	"PLN": "POL",
	"SEK": "SWE",
	"SGD": "SGP",
	"TRY": "TUR",
	"TWD": "TWN",
	"USD": "USA",
	"ZAR": "ZAF",
}

// TerritoryFor returns the territory used to price currency.
func TerritoryFor(currency string) (string, bool) {
	t, ok := currencyTerritories[currency]
	return t, ok
}

// CurrencyFor returns the currency priced in territory.
func CurrencyFor(territory string) (string, bool) {
	for c, t := range currencyTerritories {
		if t == territory {
			return c, true
		}
	}
	return "", false
}

// ResolveBase picks the base currency among authored prices: the currency of
// baseTerritory if present, otherwise the lexicographically first mapped one.
func ResolveBase(prices map[string]string, baseTerritory string) (currency, territory string, ok bool) {
	if c, found := CurrencyFor(baseTerritory); found {
		if _, authored := prices[c]; authored {
			return c, baseTerritory, true
		}
	}
	currencies := make([]string, 0, len(prices))
	for c := range prices {
		if _, mapped := currencyTerritories[c]; mapped {
			currencies = append(currencies, c)
		}
	}
	if len(currencies) == 0 {
		return "", "", false
	}
	sort.Strings(currencies)
	return currencies[0], currencyTerritories[currencies[0]], true
}
