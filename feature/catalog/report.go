package catalog

import (
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog/pricing"
)

// Report is the JSON document a sync run prints.
type Report struct {
	RunID        string            `json:"run_id"`
	SyncedGroups []GroupReport     `json:"synced_groups"`
	Summary      reconcile.Summary `json:"summary"`

	results []reconcile.Result
}

// GroupReport is the outcome for one subscription group.
type GroupReport struct {
	Group         string               `json:"group"`
	GroupID       string               `json:"group_id,omitempty"`
	Action        reconcile.Action     `json:"action"`
	Submission    string               `json:"submission,omitempty"`
	Subscriptions []SubscriptionReport `json:"subscriptions"`
	Errors        []string             `json:"errors,omitempty"`
}

// SubscriptionReport is the outcome for one subscription and its children.
type SubscriptionReport struct {
	ProductID         string                      `json:"product_id"`
	ID                string                      `json:"id,omitempty"`
	Action            reconcile.Action            `json:"action"`
	Localizations     map[string]reconcile.Action `json:"localizations,omitempty"`
	Availability      reconcile.Action            `json:"availability,omitempty"`
	IntroductoryOffer reconcile.Action            `json:"introductory_offer,omitempty"`
	Pricing           *pricing.Result             `json:"pricing,omitempty"`
	Screenshot        string                      `json:"screenshot,omitempty"`
	Submission        string                      `json:"submission,omitempty"`
	Errors            []string                    `json:"errors,omitempty"`
}

// Results returns every entity-level result of the run, for the journal.
func (r *Report) Results() []reconcile.Result {
	return r.results
}

func (r *Report) record(res reconcile.Result) {
	r.results = append(r.results, res)
	r.Summary.Add(res.Action)
}

func (r *Report) recordPricing(productID string, p pricing.Result) {
	r.Summary.Created += p.Created
	r.Summary.Skipped += p.Skipped
	r.Summary.Failed += p.Failed
	action := reconcile.ActionSkipped
	switch {
	case p.Failed > 0:
		action = reconcile.ActionFailed
	case p.Created > 0:
		action = reconcile.ActionCreated
	}
	r.results = append(r.results, reconcile.Result{Kind: "pricing", Key: productID, ID: p.BasePricePointID, Action: action})
}

func (s *SubscriptionReport) fail(err error) {
	s.Errors = append(s.Errors, err.Error())
}
