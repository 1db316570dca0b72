// Package router picks the catalog builder that answers a question.
package router

import (
	"strings"

	"marigold-copilot/internal/copilot/catalog"
	"marigold-copilot/internal/models"
)

type rule struct {
	keywords []string
	topic    catalog.Topic
}

// Evaluated top to bottom over the raw lowercased question; first hit wins.
// Campaign names come first so that a named campaign outranks the generic
// topic words it usually appears next to.
var rules = []rule{
	{[]string{"spring newsletter", "adventure newsletter"}, catalog.TopicEngagement},
	{[]string{"winter gear", "winter sale"}, catalog.TopicRevenue},

	{[]string{"budget", "allocation", "spend"}, catalog.TopicBudget},
	{[]string{"pause", "optimize", "campaign"}, catalog.TopicCampaign},
	{[]string{"revenue", "sales", "income"}, catalog.TopicRevenue},
	{[]string{"customer", "churn", "retention"}, catalog.TopicCustomer},
	{[]string{"loyalty", "program", "reward", "redemption"}, catalog.TopicLoyalty},
	{[]string{"engagement", "click", "email", "open rate"}, catalog.TopicEngagement},
}

// Router maps questions onto an injected catalog.
type Router struct {
	catalog *catalog.Catalog
}

func New(cat *catalog.Catalog) *Router {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Router{catalog: cat}
}

// Topic returns the topic whose builder should answer query.
func Topic(query string) catalog.Topic {
	q := strings.ToLower(query)
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(q, k) {
				return r.topic
			}
		}
	}
	return catalog.TopicGeneral
}

// Route never fails; the general builder is the fallback.
func (r *Router) Route(query string) catalog.Builder {
	return r.catalog.Builder(Topic(query))
}

// Respond routes query and builds its response in one step.
func (r *Router) Respond(query string) (catalog.Topic, models.Response) {
	b := r.Route(query)
	return b.Topic(), b.Build(query)
}
