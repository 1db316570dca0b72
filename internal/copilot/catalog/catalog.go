// Package catalog holds the canned copilot responses, one builder per topic.
//
// Builders are pure: the same question always yields the same Response. Each
// builder re-analyzes the question to pick wording; routing to a builder is a
// separate, coarser decision made by the router package.
package catalog

import (
	"errors"
	"fmt"

	"marigold-copilot/internal/copilot/analyzer"
	"marigold-copilot/internal/models"
)

type Topic string

const (
	TopicRevenue    Topic = "revenue"
	TopicCustomer   Topic = "customer"
	TopicLoyalty    Topic = "loyalty"
	TopicEngagement Topic = "engagement"
	TopicBudget     Topic = "budget"
	TopicCampaign   Topic = "campaign"
	TopicGeneral    Topic = "general"
)

var ErrIncompleteCatalog = errors.New("INCOMPLETE_CATALOG")

// Topics lists every topic a catalog must cover.
func Topics() []Topic {
	return []Topic{
		TopicRevenue,
		TopicCustomer,
		TopicLoyalty,
		TopicEngagement,
		TopicBudget,
		TopicCampaign,
		TopicGeneral,
	}
}

// Builder produces the Response for one topic.
type Builder interface {
	Topic() Topic
	Build(query string) models.Response
}

// ComposeFunc writes a Response from the question and its analysis.
type ComposeFunc func(query string, intent models.Intent) models.Response

type funcBuilder struct {
	topic   Topic
	compose ComposeFunc
}

// NewBuilder wraps compose so that it receives the analyzed intent.
func NewBuilder(topic Topic, compose ComposeFunc) Builder {
	return &funcBuilder{topic: topic, compose: compose}
}

func (b *funcBuilder) Topic() Topic { return b.topic }

func (b *funcBuilder) Build(query string) models.Response {
	return b.compose(query, analyzer.Analyze(query)).Clone()
}

// Catalog is an immutable set of builders keyed by topic.
type Catalog struct {
	builders map[Topic]Builder
}

// New assembles a catalog. Every topic from Topics must be present exactly once.
func New(builders ...Builder) (*Catalog, error) {
	c := &Catalog{builders: make(map[Topic]Builder, len(builders))}
	for _, b := range builders {
		if b == nil {
			return nil, fmt.Errorf("%w: nil builder", ErrIncompleteCatalog)
		}
		if _, dup := c.builders[b.Topic()]; dup {
			return nil, fmt.Errorf("%w: duplicate builder for %s", ErrIncompleteCatalog, b.Topic())
		}
		c.builders[b.Topic()] = b
	}
	for _, t := range Topics() {
		if _, ok := c.builders[t]; !ok {
			return nil, fmt.Errorf("%w: missing builder for %s", ErrIncompleteCatalog, t)
		}
	}
	return c, nil
}

// Default returns the standard Marigold catalog.
func Default() *Catalog {
	c, err := New(
		NewBuilder(TopicRevenue, composeRevenue),
		NewBuilder(TopicCustomer, composeCustomer),
		NewBuilder(TopicLoyalty, composeLoyalty),
		NewBuilder(TopicEngagement, composeEngagement),
		NewBuilder(TopicBudget, composeBudget),
		NewBuilder(TopicCampaign, composeCampaign),
		NewBuilder(TopicGeneral, composeGeneral),
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Builder returns the builder for topic, falling back to the general builder.
func (c *Catalog) Builder(topic Topic) Builder {
	if b, ok := c.builders[topic]; ok {
		return b
	}
	return c.builders[TopicGeneral]
}
