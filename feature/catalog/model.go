package catalog

import (
	"sort"
	"strings"
)

// Catalog is the desired state of the app's subscription catalog.
type Catalog struct {
	SubscriptionGroups []Group `yaml:"subscription_groups" json:"subscription_groups"`
}

// Group is a subscription group, matched remotely by ReferenceName.
type Group struct {
	ReferenceName string         `yaml:"reference_name" json:"reference_name"`
	GroupName     string         `yaml:"group_name" json:"group_name"`
	Subscriptions []Subscription `yaml:"subscriptions" json:"subscriptions"`
}

// Name returns the reference name, falling back to the legacy group_name key.
func (g Group) Name() string {
	if g.ReferenceName != "" {
		return g.ReferenceName
	}
	return g.GroupName
}

// Subscription is one auto-renewable subscription, matched remotely by ProductID.
type Subscription struct {
	ProductID         string                  `yaml:"product_id" json:"product_id"`
	ReferenceName     string                  `yaml:"reference_name" json:"reference_name"`
	Duration          string                  `yaml:"duration" json:"duration"`
	GroupLevel        int                     `yaml:"group_level" json:"group_level"`
	FamilySharable    bool                    `yaml:"family_sharable" json:"family_sharable"`
	ReviewNote        string                  `yaml:"review_note" json:"review_note"`
	Prices            map[string]string       `yaml:"prices" json:"prices"`
	Localizations     map[string]Localization `yaml:"localizations" json:"localizations"`
	Availability      []string                `yaml:"availability" json:"availability"`
	ReviewScreenshot  string                  `yaml:"review_screenshot" json:"review_screenshot"`
	IntroductoryOffer *IntroductoryOffer      `yaml:"introductory_offer" json:"introductory_offer"`
}

// Name returns the display reference name, defaulting to the product id.
func (s Subscription) Name() string {
	if s.ReferenceName != "" {
		return s.ReferenceName
	}
	return s.ProductID
}

// Level returns the group level, defaulting to 1.
func (s Subscription) Level() int {
	if s.GroupLevel <= 0 {
		return 1
	}
	return s.GroupLevel
}

// Period returns the store billing period for Duration.
func (s Subscription) Period() string {
	p, _ := NormalizePeriod(s.Duration)
	return p
}

// Locales returns the localization keys in sorted order.
func (s Subscription) Locales() []string {
	out := make([]string, 0, len(s.Localizations))
	for l := range s.Localizations {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Localization holds the display fields for one locale.
type Localization struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// IntroductoryOffer describes a free trial or discounted first periods.
type IntroductoryOffer struct {
	Type     string `yaml:"type" json:"type"`
	Duration string `yaml:"duration" json:"duration"`
	Periods  int    `yaml:"periods" json:"periods"`
	Price    string `yaml:"price" json:"price"`
}

// Mode returns the store offer mode for Type.
func (o IntroductoryOffer) Mode() string {
	m, _ := NormalizeOfferMode(o.Type)
	return m
}

// Paid reports whether the offer needs a price point.
func (o IntroductoryOffer) Paid() bool {
	return o.Mode() != OfferFreeTrial
}

// PeriodCount returns Periods, defaulting to 1.
func (o IntroductoryOffer) PeriodCount() int {
	if o.Periods <= 0 {
		return 1
	}
	return o.Periods
}

// OfferDuration returns the store offer duration for Duration.
func (o IntroductoryOffer) OfferDuration() string {
	d, _ := NormalizeOfferDuration(o.Duration)
	return d
}

const (
	OfferFreeTrial  = "FREE_TRIAL"
	OfferPayAsYouGo = "PAY_AS_YOU_GO"
	OfferPayUpFront = "PAY_UP_FRONT"
)

var periods = map[string]string{
	"P1W": "ONE_WEEK",
	"P1M": "ONE_MONTH",
	"P2M": "TWO_MONTHS",
	"P3M": "THREE_MONTHS",
	"P6M": "SIX_MONTHS",
	"P1Y": "ONE_YEAR",
}

var offerDurations = map[string]string{
	"P3D": "THREE_DAYS",
	"P1W": "ONE_WEEK",
	"P2W": "TWO_WEEKS",
	"P1M": "ONE_MONTH",
	"P2M": "TWO_MONTHS",
	"P3M": "THREE_MONTHS",
	"P6M": "SIX_MONTHS",
	"P1Y": "ONE_YEAR",
}

var offerModes = map[string]string{
	"FREE":          OfferFreeTrial,
	"FREE_TRIAL":    OfferFreeTrial,
	"PAY_AS_YOU_GO": OfferPayAsYouGo,
	"PAY_UP_FRONT":  OfferPayUpFront,
}

// NormalizePeriod maps ISO 8601 forms (P1M) and store names (ONE_MONTH) to
// the store billing period.
func NormalizePeriod(d string) (string, bool) {
	return normalize(periods, d)
}

// NormalizeOfferDuration maps an offer duration to the store enum.
func NormalizeOfferDuration(d string) (string, bool) {
	if d == "" {
		d = "P1W"
	}
	return normalize(offerDurations, d)
}

// NormalizeOfferMode maps an offer type to the store enum. Empty means free trial.
func NormalizeOfferMode(t string) (string, bool) {
	if t == "" {
		return OfferFreeTrial, true
	}
	m, ok := offerModes[strings.ToUpper(strings.TrimSpace(t))]
	return m, ok
}

func normalize(table map[string]string, d string) (string, bool) {
	d = strings.ToUpper(strings.TrimSpace(d))
	if v, ok := table[d]; ok {
		return v, true
	}
	for _, v := range table {
		if v == d {
			return v, true
		}
	}
	return d, false
}
