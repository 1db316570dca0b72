// internal/models/copilot.go
package models

import "time"

type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

type Timeframe string

const (
	TimeframeNone    Timeframe = ""
	TimeframeDay     Timeframe = "day"
	TimeframeWeek    Timeframe = "week"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
)

type Action string

const (
	ActionNone     Action = ""
	ActionOptimize Action = "optimize"
	ActionPause    Action = "pause"
	ActionLaunch   Action = "launch"
	ActionAnalyze  Action = "analyze"
)

// Metric tags recognised by the analyzer.
const (
	MetricOpenRate   = "open_rate"
	MetricROI        = "roi"
	MetricConversion = "conversion"
	MetricRevenue    = "revenue"
	MetricBudget     = "budget"
	MetricRedemption = "redemption"
)

// Campaign names recognised by the analyzer.
const (
	CampaignWinterGearSale            = "Winter Gear Sale"
	CampaignSpringAdventureNewsletter = "Spring Adventure Newsletter"
	CampaignSummitTierWelcome         = "Summit Tier Welcome"
)

// Intent is the structured reading of a free-text question.
type Intent struct {
	IsSpecific bool      `json:"isSpecific"`
	Campaigns  []string  `json:"campaigns"`
	Metrics    []string  `json:"metrics"`
	Timeframe  Timeframe `json:"timeframe,omitempty"`
	Urgency    Urgency   `json:"urgency"`
	Action     Action    `json:"action,omitempty"`
}

// HasCampaign reports whether name was detected.
func (i Intent) HasCampaign(name string) bool {
	for _, c := range i.Campaigns {
		if c == name {
			return true
		}
	}
	return false
}

// HasMetric reports whether the metric tag was detected.
func (i Intent) HasMetric(tag string) bool {
	for _, m := range i.Metrics {
		if m == tag {
			return true
		}
	}
	return false
}

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

type Recommendation struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Impact       Impact `json:"impact"`
	EstimatedROI string `json:"estimatedROI"`
}

// Response is what the display surfaces render for one answered question.
type Response struct {
	Text               string           `json:"text"`
	DirectAnswer       string           `json:"directAnswer"`
	Recommendations    []Recommendation `json:"recommendations"`
	SuggestedQuestions []string         `json:"suggestedQuestions"`
}

// Clone returns a deep copy so callers cannot reach shared literal tables.
func (r Response) Clone() Response {
	out := r
	out.Recommendations = make([]Recommendation, len(r.Recommendations))
	copy(out.Recommendations, r.Recommendations)
	out.SuggestedQuestions = make([]string, len(r.SuggestedQuestions))
	copy(out.SuggestedQuestions, r.SuggestedQuestions)
	return out
}

type ConversationTurn struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Topic     string    `json:"topic"`
	Response  Response  `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
