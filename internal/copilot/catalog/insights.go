package catalog

import (
	"strings"

	"marigold-copilot/internal/models"
)

var campaignInsights = map[string]string{
	models.CampaignWinterGearSale:            "The Winter Gear Sale brought in about a third of total revenue at a 280% ROI, the strongest return of any active campaign.",
	models.CampaignSpringAdventureNewsletter: "The Spring Adventure Newsletter is opening at 18.4%, well under the 24% benchmark for outdoor retail lists.",
	models.CampaignSummitTierWelcome:         "The Summit Tier Welcome series turns 12.6% of new Summit members into a second purchase within 30 days.",
}

var timeframeLeads = map[models.Timeframe]string{
	models.TimeframeDay:     "Looking at today's activity,",
	models.TimeframeWeek:    "Over the past week,",
	models.TimeframeMonth:   "Month to date,",
	models.TimeframeQuarter: "For the current quarter,",
}

// campaignContext returns one insight sentence per detected campaign, in detection order.
func campaignContext(intent models.Intent) string {
	parts := make([]string, 0, len(intent.Campaigns))
	for _, c := range intent.Campaigns {
		if s, ok := campaignInsights[c]; ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// timeframed prefixes text with a lead-in for the detected timeframe.
func timeframed(intent models.Intent, text string) string {
	lead, ok := timeframeLeads[intent.Timeframe]
	if !ok {
		return text
	}
	return lead + " " + lowerFirst(text)
}

// escalate prepends lead when the question was flagged urgent.
func escalate(intent models.Intent, lead, text string) string {
	if intent.Urgency != models.UrgencyHigh {
		return text
	}
	return lead + " " + text
}

func sentences(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Proper nouns that may open a sentence and must keep their capital.
var properNouns = map[string]bool{"Summit": true, "Fall": true, "Trail": true, "Winter": true, "Spring": true}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	word, _, _ := strings.Cut(s, " ")
	if properNouns[word] {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func recs(r ...models.Recommendation) []models.Recommendation { return r }

func questions(q1, q2, q3, q4 string) []string { return []string{q1, q2, q3, q4} }
