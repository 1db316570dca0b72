// Package analyzer turns a free-text copilot question into a models.Intent.
package analyzer

import (
	"strings"

	"marigold-copilot/internal/models"
)

type keywordGroup struct {
	value    string
	keywords []string
}

// Scan order matters: campaigns and metrics are appended in this order, and
// for timeframe and action the last matching group wins.
var (
	campaignGroups = []keywordGroup{
		{models.CampaignWinterGearSale, []string{"winter gear", "winter sale"}},
		{models.CampaignSpringAdventureNewsletter, []string{"spring newsletter", "adventure newsletter", "spring adventure"}},
		{models.CampaignSummitTierWelcome, []string{"summit tier", "summit welcome", "tier welcome"}},
	}

	metricGroups = []keywordGroup{
		{models.MetricOpenRate, []string{"open rate", "opens"}},
		{models.MetricROI, []string{"roi", "return on investment"}},
		{models.MetricConversion, []string{"conversion", "convert"}},
		{models.MetricRevenue, []string{"revenue", "sales", "income"}},
		{models.MetricBudget, []string{"budget", "spend", "allocation"}},
		{models.MetricRedemption, []string{"redemption", "redeem"}},
	}

	timeframeGroups = []keywordGroup{
		{string(models.TimeframeDay), []string{"today", "yesterday", "daily"}},
		{string(models.TimeframeWeek), []string{"week"}},
		{string(models.TimeframeMonth), []string{"month"}},
		{string(models.TimeframeQuarter), []string{"quarter", "q1", "q2", "q3", "q4"}},
	}

	urgencyKeywords = []string{"urgent", "immediately", "asap", "critical", "right now", "emergency"}

	actionGroups = []keywordGroup{
		{string(models.ActionOptimize), []string{"optimize", "improve", "fix", "boost"}},
		{string(models.ActionPause), []string{"pause", "stop"}},
		{string(models.ActionLaunch), []string{"launch", "start", "kick off"}},
		{string(models.ActionAnalyze), []string{"analyze", "why", "breakdown", "explain"}},
	}
)

// Analyze classifies query. It never fails: an empty query yields the default
// Intent with normal urgency and empty sequences.
func Analyze(query string) models.Intent {
	q := strings.ToLower(query)

	intent := models.Intent{
		Campaigns: []string{},
		Metrics:   []string{},
		Urgency:   models.UrgencyNormal,
	}
	if strings.TrimSpace(q) == "" {
		return intent
	}

	for _, g := range campaignGroups {
		if containsAny(q, g.keywords) {
			intent.Campaigns = append(intent.Campaigns, g.value)
			intent.IsSpecific = true
		}
	}

	for _, g := range metricGroups {
		if containsAny(q, g.keywords) {
			intent.Metrics = append(intent.Metrics, g.value)
		}
	}

	for _, g := range timeframeGroups {
		if containsAny(q, g.keywords) {
			intent.Timeframe = models.Timeframe(g.value)
		}
	}

	if containsAny(q, urgencyKeywords) {
		intent.Urgency = models.UrgencyHigh
	}

	for _, g := range actionGroups {
		if containsAny(q, g.keywords) {
			intent.Action = models.Action(g.value)
		}
	}

	return intent
}

// ContainsAny reports whether the lowercased query contains any keyword.
func ContainsAny(query string, keywords ...string) bool {
	return containsAny(strings.ToLower(query), keywords)
}

func containsAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
