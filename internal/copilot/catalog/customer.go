package catalog

import (
	"marigold-copilot/internal/copilot/analyzer"
	"marigold-copilot/internal/models"
)

var (
	customerRecChurnSave = models.Recommendation{
		Title:        "Launch a churn-risk save series",
		Description:  "Send a three-step sequence with a tier-bonus offer to the 2,340 customers scored at high churn risk.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+190%",
	}
	customerRecSecondPurchase = models.Recommendation{
		Title:        "Nudge first-time buyers toward a second order",
		Description:  "Trigger a personalised product follow-up 14 days after the first purchase.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+135%",
	}
	customerRecVIP = models.Recommendation{
		Title:        "Create a VIP service lane",
		Description:  "Give the top 5% of customers by lifetime value priority support and early product drops.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+95%",
	}
)

func composeCustomer(query string, intent models.Intent) models.Response {
	const urgentLead = "This needs attention now: 2,340 customers are currently scored at high churn risk."

	churn := analyzer.ContainsAny(query, "churn", "retention", "lapsed", "losing")

	switch {
	case churn:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Your 90-day churn rate is 14.2%, up from 11.8% last period, concentrated among customers who joined through paid social."),
				campaignContext(intent),
				"Customers who redeem at least one loyalty reward churn at less than half that rate.",
			)),
			DirectAnswer:    "Churn is 14.2% and rising, driven mostly by paid-social acquisitions who never redeem a reward.",
			Recommendations: recs(customerRecChurnSave, customerRecSecondPurchase),
			SuggestedQuestions: questions(
				"Which customers are most likely to churn next month?",
				"How does loyalty membership affect retention?",
				"What win-back offer should I test?",
				"How does churn differ by acquisition channel?",
			),
		}

	case intent.IsSpecific:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Customers reached by the campaigns you mentioned skew toward repeat buyers with two or more orders."),
				campaignContext(intent),
				"Their average lifetime value is $412 compared with $238 across the full base.",
			)),
			DirectAnswer:    "The customers in those campaigns are worth about 1.7x your average customer.",
			Recommendations: recs(customerRecVIP),
			SuggestedQuestions: questions(
				"How many new customers did these campaigns acquire?",
				"What do these customers buy most often?",
				"How engaged are these customers with email?",
				"Which tier are most of these customers in?",
			),
		}

	default:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "You have 48,600 active customers, 35% of whom are loyalty members."),
				"Repeat purchase rate is 38%, and the top 5% of customers generate 29% of revenue.",
			)),
			DirectAnswer:    "You have 48,600 active customers with a 38% repeat purchase rate.",
			Recommendations: recs(customerRecSecondPurchase, customerRecVIP),
			SuggestedQuestions: questions(
				"What is my customer churn rate?",
				"Who are my most valuable customers?",
				"How many customers are loyalty members?",
				"Which segment is growing fastest?",
			),
		}
	}
}
