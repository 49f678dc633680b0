package catalog

import (
	"errors"
	"fmt"
	"os"

	"catalog-sync/core/money"
	"catalog-sync/feature/catalog/pricing"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"
)

// Load reads and validates a catalog file. JSON is accepted as a subset of YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog content.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.UnmarshalWithOptions(data, &cat, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate reports every problem in the catalog at once.
func (c *Catalog) Validate() error {
	var problems []error
	groups := map[string]bool{}
	products := map[string]bool{}

	for gi, g := range c.SubscriptionGroups {
		name := g.Name()
		if name == "" {
			problems = append(problems, fmt.Errorf("subscription_groups[%d]: reference_name is required", gi))
		} else if groups[name] {
			problems = append(problems, fmt.Errorf("subscription group %q is declared twice", name))
		}
		groups[name] = true

		for _, s := range g.Subscriptions {
			if s.ProductID == "" {
				problems = append(problems, fmt.Errorf("group %q: subscription without product_id", name))
				continue
			}
			if products[s.ProductID] {
				problems = append(problems, fmt.Errorf("product_id %q is declared twice", s.ProductID))
			}
			products[s.ProductID] = true
			problems = append(problems, s.validate()...)
		}
	}
	return errors.Join(problems...)
}

func (s Subscription) validate() []error {
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%s: "+format, append([]any{s.ProductID}, args...)...))
	}

	if _, ok := NormalizePeriod(s.Duration); !ok {
		fail("unknown duration %q", s.Duration)
	}
	for currency, amount := range s.Prices {
		if _, err := money.Parse(currency, amount); err != nil {
			fail("price %s: %v", currency, err)
		}
		if _, ok := pricing.TerritoryFor(currency); !ok {
			fail("price currency %s has no territory mapping", currency)
		}
	}
	for locale, l := range s.Localizations {
		if _, err := language.Parse(locale); err != nil {
			fail("invalid locale %q", locale)
		}
		if l.Name == "" {
			fail("localization %s: name is required", locale)
		}
	}
	for _, t := range s.Availability {
		if len(t) != 3 {
			fail("territory %q must be a three-letter code", t)
		}
	}
	if o := s.IntroductoryOffer; o != nil {
		if _, ok := NormalizeOfferMode(o.Type); !ok {
			fail("unknown introductory offer type %q", o.Type)
		}
		if _, ok := NormalizeOfferDuration(o.Duration); !ok {
			fail("unknown introductory offer duration %q", o.Duration)
		}
		if o.Paid() {
			if _, err := money.Parse("", o.Price); err != nil {
				fail("introductory offer price: %v", err)
			}
			if len(s.Prices) == 0 {
				fail("paid introductory offer requires prices")
			}
		}
	}
	return problems
}
