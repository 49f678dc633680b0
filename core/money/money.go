package money

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// nanoDigits is the number of fractional digits carried by Nanos.
const nanoDigits = 9

// Tolerance is the absolute difference under which two prices are considered equal.
// The backend pads customer prices with trailing zeros, so exact string equality is not usable.
var Tolerance = decimal.RequireFromString("0.01")

// Money is a currency amount split into whole units and billionths.
type Money struct {
	CurrencyCode string `json:"currency_code,omitempty"`
	Units        string `json:"units"`
	Nanos        int32  `json:"nanos"`
}

// String renders the amount as a plain decimal string.
func (m Money) String() string {
	if m.Nanos == 0 {
		return m.Units
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", m.Nanos), "0")
	return m.Units + "." + frac
}

// Parse converts a decimal string such as "9.99" into units and nanos.
// The fraction is right-padded to nine digits and truncated beyond that.
func Parse(currency, amount string) (Money, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return Money{}, fmt.Errorf("empty amount")
	}

	units, frac, _ := strings.Cut(amount, ".")
	if units == "" {
		units = "0"
	}
	if !isDigits(units) || (frac != "" && !isDigits(frac)) {
		return Money{}, fmt.Errorf("invalid amount %q", amount)
	}

	var nanos int32
	if frac != "" {
		if len(frac) > nanoDigits {
			frac = frac[:nanoDigits]
		}
		frac += strings.Repeat("0", nanoDigits-len(frac))
		n, err := strconv.ParseInt(frac, 10, 32)
		if err != nil {
			return Money{}, fmt.Errorf("invalid fraction in %q: %w", amount, err)
		}
		nanos = int32(n)
	}

	return Money{CurrencyCode: currency, Units: units, Nanos: nanos}, nil
}

// Matches reports whether the backend price is within Tolerance of the target.
// Unparseable inputs never match.
func Matches(apiPrice, target string) bool {
	d, ok := distance(apiPrice, target)
	return ok && d.LessThan(Tolerance)
}

// Closest returns the index of the candidate nearest to target within Tolerance,
// or -1 when no candidate qualifies.
func Closest(candidates []string, target string) int {
	best := -1
	var bestDist decimal.Decimal
	for i, c := range candidates {
		d, ok := distance(c, target)
		if !ok || !d.LessThan(Tolerance) {
			continue
		}
		if best == -1 || d.LessThan(bestDist) {
			best, bestDist = i, d
		}
	}
	return best
}

func distance(a, b string) (decimal.Decimal, bool) {
	da, err := decimal.NewFromString(strings.TrimSpace(a))
	if err != nil {
		return decimal.Decimal{}, false
	}
	db, err := decimal.NewFromString(strings.TrimSpace(b))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return da.Sub(db).Abs(), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
