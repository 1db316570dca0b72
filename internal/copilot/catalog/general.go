package catalog

import (
	"marigold-copilot/internal/copilot/analyzer"
	"marigold-copilot/internal/models"
)

var (
	generalRecFocus = models.Recommendation{
		Title:        "Focus on loyalty-driven revenue",
		Description:  "Loyalty members deliver 62% of revenue; growing the Summit tier is the highest-leverage move this quarter.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+200%",
	}
	generalRecNewsletter = models.Recommendation{
		Title:        "Refresh the Spring Adventure Newsletter",
		Description:  "Shorter, trail-specific subject lines could recover up to 5 points of open rate.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+110%",
	}
	generalRecProgramTriage = models.Recommendation{
		Title:        "Triage the weakest loyalty program",
		Description:  "Review completion rates for the Trail Essentials punch card and restructure its reward thresholds.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+170%",
	}
)

func composeGeneral(query string, intent models.Intent) models.Response {
	const urgentLead = "Understood, this is urgent. Here is the quickest path to a fix based on what the dashboard shows right now."

	switch {
	case analyzer.ContainsAny(query, "punch card", "trail essentials", "failing", "underperform", "problem"):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "The weakest area on the dashboard is the Trail Essentials punch card, where only 8.2% of members complete a card."),
				campaignContext(intent),
				"Members stall after the third stamp, and the long gap between qualifying purchases is the main cause.",
			)),
			DirectAnswer:    "The Trail Essentials punch card is the main underperformer, with an 8.2% completion rate.",
			Recommendations: recs(generalRecProgramTriage),
			SuggestedQuestions: questions(
				"How do I improve punch card completion?",
				"Which loyalty program performs best?",
				"What is my reward redemption rate?",
				"Should I retire the Trail Essentials punch card?",
			),
		}

	case intent.IsSpecific:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Here is a quick read on the campaigns you mentioned."),
				campaignContext(intent),
			)),
			DirectAnswer:    "The campaigns you mentioned are on track; ask about revenue, engagement or budget for more detail.",
			Recommendations: recs(generalRecFocus),
			SuggestedQuestions: questions(
				"How much revenue did these campaigns generate?",
				"How engaged is the audience for these campaigns?",
				"What budget have these campaigns used?",
				"Should I change anything about these campaigns?",
			),
		}

	default:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Your marketing program is performing well overall: "+revenueTotal+" in revenue, 17,050 active loyalty members, and a 21.7% average open rate."),
				"The clearest opportunities are growing the Summit tier and lifting newsletter engagement.",
			)),
			DirectAnswer:    "Performance is strong overall, with the biggest opportunities in loyalty tier growth and newsletter engagement.",
			Recommendations: recs(generalRecFocus, generalRecNewsletter),
			SuggestedQuestions: questions(
				"What's my revenue this quarter?",
				"How is my loyalty program performing?",
				"Which campaign should I optimize?",
				"How can I reduce customer churn?",
			),
		}
	}
}
