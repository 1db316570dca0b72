package router

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marigold-copilot/internal/copilot/catalog"
	"marigold-copilot/internal/models"
)

func TestTopic_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  catalog.Topic
	}{
		{"campaign name outranks open rate", "how can I improve the spring newsletter's open rate", catalog.TopicEngagement},
		{"campaign name outranks campaign keyword", "pause the adventure newsletter campaign", catalog.TopicEngagement},
		{"winter sale routes to revenue", "how is the winter sale doing", catalog.TopicRevenue},
		{"winter gear outranks budget", "winter gear budget", catalog.TopicRevenue},
		{"budget outranks campaign", "what budget should each campaign get", catalog.TopicBudget},
		{"spend routes to budget", "where is my spend going", catalog.TopicBudget},
		{"campaign outranks revenue", "which campaign made the most revenue", catalog.TopicCampaign},
		{"optimize routes to campaign", "optimize everything", catalog.TopicCampaign},
		{"revenue outranks customer", "revenue per customer", catalog.TopicRevenue},
		{"churn routes to customer", "why is churn rising", catalog.TopicCustomer},
		{"customer outranks loyalty", "customer loyalty", catalog.TopicCustomer},
		{"reward routes to loyalty", "how are rewards doing", catalog.TopicLoyalty},
		{"program routes to loyalty", "how is the program going", catalog.TopicLoyalty},
		{"email routes to engagement", "how are my emails doing", catalog.TopicEngagement},
		{"open rate routes to engagement", "what's my open rate", catalog.TopicEngagement},
		{"no keyword falls back to general", "Why is Trail Essentials punch card failing so badly", catalog.TopicGeneral},
		{"empty falls back to general", "", catalog.TopicGeneral},
		{"case-insensitive", "REVENUE", catalog.TopicRevenue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Topic(tt.query))
		})
	}
}

func TestRouter_Respond(t *testing.T) {
	r := New(nil)

	topic, resp := r.Respond("What's my revenue?")

	assert.Equal(t, catalog.TopicRevenue, topic)
	assert.Contains(t, resp.DirectAnswer, "$3.24M")
	assert.Len(t, resp.SuggestedQuestions, 4)
}

func TestRouter_UsesInjectedCatalog(t *testing.T) {
	builders := make([]catalog.Builder, 0, len(catalog.Topics()))
	for _, topic := range catalog.Topics() {
		topic := topic
		builders = append(builders, catalog.NewBuilder(topic, func(query string, _ models.Intent) models.Response {
			return models.Response{
				Text:               string(topic) + ": " + strings.ToUpper(query),
				DirectAnswer:       string(topic),
				SuggestedQuestions: []string{"a", "b", "c", "d"},
			}
		}))
	}
	cat, err := catalog.New(builders...)
	require.NoError(t, err)

	r := New(cat)

	b := r.Route("reward points")
	assert.Equal(t, catalog.TopicLoyalty, b.Topic())
	assert.Equal(t, "loyalty: REWARD POINTS", b.Build("reward points").Text)
}

func TestRouter_Respond_Total(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  catalog.Topic
	}{
		{"very long keyword-free input", strings.Repeat("x", 1<<20), catalog.TopicGeneral},
		{"very long repeated question", strings.Repeat("Why did revenue drop last quarter? ", 200000), catalog.TopicRevenue},
		{"very long mixed input", strings.Repeat("winter gear spring newsletter budget urgent ", 50000), catalog.TopicEngagement},
		{"whitespace only", " \t\n ", catalog.TopicGeneral},
	}

	r := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, resp := r.Respond(tt.query)

			assert.Equal(t, tt.want, topic)
			assert.NotEmpty(t, resp.Text)
			assert.NotEmpty(t, resp.DirectAnswer)
			assert.LessOrEqual(t, len(resp.Recommendations), 2)
			assert.Len(t, resp.SuggestedQuestions, 4)
		})
	}
}

func TestRouter_Respond_UrgencyChangesText(t *testing.T) {
	tests := []struct {
		name   string
		urgent string
		calm   string
	}{
		{
			name:   "trail essentials punch card",
			urgent: "Why is Trail Essentials punch card failing so badly, I need this fixed immediately",
			calm:   "Why is Trail Essentials punch card failing so badly, I need this fixed",
		},
		{
			name:   "revenue asap",
			urgent: "What's my revenue, asap",
			calm:   "What's my revenue",
		},
	}

	r := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urgentTopic, urgent := r.Respond(tt.urgent)
			calmTopic, calm := r.Respond(tt.calm)

			assert.Equal(t, calmTopic, urgentTopic)
			assert.NotEqual(t, calm.Text, urgent.Text)
			assert.True(t, strings.HasSuffix(urgent.Text, calm.Text), "urgent text should lead into the calm answer")
			assert.Len(t, urgent.SuggestedQuestions, 4)
		})
	}
}
