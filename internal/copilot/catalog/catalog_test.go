package catalog

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marigold-copilot/internal/common/validation"
	"marigold-copilot/internal/models"
)

// ==========================
// Branch Coverage
// ==========================

var branchCases = []struct {
	name         string
	topic        Topic
	query        string
	directAnswer string
}{
	{"revenue winter gear", TopicRevenue, "winter gear revenue", "Winter Gear Sale is your top revenue driver"},
	{"revenue optimize", TopicRevenue, "how do I improve revenue", "fastest by re-engaging"},
	{"revenue analyze", TopicRevenue, "explain revenue by channel", "led by email"},
	{"revenue default", TopicRevenue, "what's my revenue", "Your total revenue is $3.24M"},

	{"customer churn", TopicCustomer, "why are customers churning", "Churn is 14.2%"},
	{"customer specific", TopicCustomer, "customers in the summit tier welcome", "worth about 1.7x"},
	{"customer default", TopicCustomer, "how many customers do I have", "48,600 active customers"},

	{"loyalty punch card", TopicLoyalty, "trail essentials punch card", "underperforming because"},
	{"loyalty summit", TopicLoyalty, "how is the summit tier", "Summit members are your most valuable tier"},
	{"loyalty redemption", TopicLoyalty, "reward redemption", "Redemption is 31%"},
	{"loyalty default", TopicLoyalty, "loyalty overview", "Loyalty is healthy overall"},

	{"engagement newsletter", TopicEngagement, "spring newsletter", "18.4% open rate trails"},
	{"engagement open rate", TopicEngagement, "what's my open rate", "Open rate averages 21.7%"},
	{"engagement clicks", TopicEngagement, "click rate", "Your click rate is 3.4%"},
	{"engagement default", TopicEngagement, "engagement overview", "Engagement is steady"},

	{"budget optimize", TopicBudget, "optimize budget", "Move about 15%"},
	{"budget specific", TopicBudget, "winter gear budget", "used $96K of budget"},
	{"budget default", TopicBudget, "budget status", "You have used $418K"},

	{"campaign pause", TopicCampaign, "pause a campaign", "Pause the Fall Clearance"},
	{"campaign launch", TopicCampaign, "launch a campaign", "Launch to loyalty members first"},
	{"campaign specific", TopicCampaign, "how is the summit tier welcome campaign", "all performing above target"},
	{"campaign default", TopicCampaign, "campaign overview", "Seven campaigns are active"},

	{"general punch card", TopicGeneral, "why is trail essentials failing", "main underperformer"},
	{"general specific", TopicGeneral, "winter gear", "on track"},
	{"general default", TopicGeneral, "hello", "Performance is strong overall"},
}

func TestBuilders_Branches(t *testing.T) {
	cat := Default()

	for _, tt := range branchCases {
		t.Run(tt.name, func(t *testing.T) {
			resp := cat.Builder(tt.topic).Build(tt.query)

			assert.Contains(t, resp.DirectAnswer, tt.directAnswer)
			assert.NotEmpty(t, resp.Text)
			assert.GreaterOrEqual(t, len(resp.Recommendations), 1)
			assert.LessOrEqual(t, len(resp.Recommendations), 2)
			assert.Len(t, resp.SuggestedQuestions, 4)

			result, err := validation.ValidateResponse(resp)
			require.NoError(t, err)
			assert.True(t, result.Valid, result.Summary())
		})
	}
}

func TestBuilders_Deterministic(t *testing.T) {
	cat := Default()
	for _, tt := range branchCases {
		b := cat.Builder(tt.topic)
		assert.Equal(t, b.Build(tt.query), b.Build(tt.query), tt.name)
	}
}

func TestBuilders_UrgencyEscalatesText(t *testing.T) {
	cat := Default()
	for _, topic := range Topics() {
		t.Run(string(topic), func(t *testing.T) {
			calm := cat.Builder(topic).Build("tell me more")
			urgent := cat.Builder(topic).Build("tell me more, this is urgent")

			assert.NotEqual(t, calm.Text, urgent.Text)
			assert.True(t, strings.HasSuffix(urgent.Text, calm.Text))
			assert.Equal(t, calm.DirectAnswer, urgent.DirectAnswer)
		})
	}
}

func TestBuilders_EmptyQueryUsesDefaultBranch(t *testing.T) {
	cat := Default()
	for _, topic := range Topics() {
		resp := cat.Builder(topic).Build("")
		assert.NotEmpty(t, resp.DirectAnswer, topic)
		assert.Len(t, resp.SuggestedQuestions, 4, topic)
	}
}

func TestRevenue_AlwaysQuotesTotal(t *testing.T) {
	b := Default().Builder(TopicRevenue)
	for _, q := range []string{"revenue", "winter gear", "optimize revenue", "revenue roi", "revenue this week"} {
		assert.Contains(t, b.Build(q).DirectAnswer, "$3.24M", q)
	}
}

var revenueFigure = regexp.MustCompile(`\$[0-9][0-9.,]*[MK]`)

func TestRevenue_QuotesNoOtherRevenueFigure(t *testing.T) {
	b := Default().Builder(TopicRevenue)
	for _, tc := range branchCases {
		if tc.topic != TopicRevenue {
			continue
		}
		for _, q := range []string{tc.query, tc.query + " urgently, asap"} {
			resp := b.Build(q)
			parts := []string{resp.Text, resp.DirectAnswer}
			for _, rec := range resp.Recommendations {
				parts = append(parts, rec.Description)
			}
			for _, figure := range revenueFigure.FindAllString(strings.Join(parts, " "), -1) {
				assert.Equal(t, "$3.24M", figure, q)
			}
		}
	}
	assert.Empty(t, revenueFigure.FindAllString(campaignInsights[models.CampaignWinterGearSale], -1))
}

func TestTimeframeLead(t *testing.T) {
	resp := Default().Builder(TopicRevenue).Build("what's my revenue this month")
	assert.True(t, strings.HasPrefix(resp.Text, "Month to date, total revenue is $3.24M"), resp.Text)

	resp = Default().Builder(TopicLoyalty).Build("trail essentials punch card this week")
	assert.True(t, strings.HasPrefix(resp.Text, "Over the past week, the Trail Essentials punch card"), resp.Text)
}

func TestCampaignContext_FollowsDetectionOrder(t *testing.T) {
	resp := Default().Builder(TopicGeneral).Build("summit tier welcome and winter gear")

	winter := strings.Index(resp.Text, "Winter Gear Sale brought in")
	summit := strings.Index(resp.Text, "Summit Tier Welcome series")
	require.NotEqual(t, -1, winter)
	require.NotEqual(t, -1, summit)
	assert.Less(t, winter, summit)
}

func TestBuild_ReturnsIndependentCopies(t *testing.T) {
	b := Default().Builder(TopicRevenue)

	first := b.Build("revenue")
	first.Recommendations[0].Title = "mutated"
	first.SuggestedQuestions[0] = "mutated"

	second := b.Build("revenue")
	assert.NotEqual(t, "mutated", second.Recommendations[0].Title)
	assert.NotEqual(t, "mutated", second.SuggestedQuestions[0])
}

// ==========================
// Catalog Assembly
// ==========================

func stubBuilder(topic Topic) Builder {
	return NewBuilder(topic, func(string, models.Intent) models.Response {
		return models.Response{Text: string(topic)}
	})
}

func TestNew(t *testing.T) {
	all := func() []Builder {
		out := []Builder{}
		for _, topic := range Topics() {
			out = append(out, stubBuilder(topic))
		}
		return out
	}

	tests := []struct {
		name     string
		builders []Builder
		wantErr  string
	}{
		{name: "complete", builders: all()},
		{name: "missing topic", builders: all()[1:], wantErr: "missing builder for revenue"},
		{name: "duplicate topic", builders: append(all(), stubBuilder(TopicBudget)), wantErr: "duplicate builder for budget"},
		{name: "nil builder", builders: append(all(), nil), wantErr: "nil builder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := New(tt.builders...)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "loyalty", cat.Builder(TopicLoyalty).Build("x").Text)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIncompleteCatalog)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalog_UnknownTopicFallsBackToGeneral(t *testing.T) {
	b := Default().Builder(Topic("weather"))
	assert.Equal(t, TopicGeneral, b.Topic())
}
