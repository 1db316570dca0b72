package catalog

import (
	"marigold-copilot/internal/copilot/analyzer"
	"marigold-copilot/internal/models"
)

var (
	loyaltyRecPunchCard = models.Recommendation{
		Title:        "Shorten the Trail Essentials punch card",
		Description:  "Drop the punch card from 10 to 6 purchases and add a mid-way bonus stamp to restart momentum.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+240%",
	}
	loyaltyRecRedemptionReminder = models.Recommendation{
		Title:        "Send reward-expiry reminders",
		Description:  "Email members 7 days before points or rewards expire, with a one-click redemption link.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+160%",
	}
	loyaltyRecSummitPerks = models.Recommendation{
		Title:        "Add experiential Summit tier perks",
		Description:  "Offer guided trail days and gear-care clinics to Summit members instead of deeper discounts.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+115%",
	}
	loyaltyRecTierUpgrade = models.Recommendation{
		Title:        "Prompt members close to the next tier",
		Description:  "Message the 1,870 Basecamp members within $75 of Summit status with a tier-up incentive.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+205%",
	}
)

func composeLoyalty(query string, intent models.Intent) models.Response {
	const urgentLead = "Escalating this one: the Trail Essentials punch card has the lowest completion rate of any program and is losing members every week."

	punchCard := analyzer.ContainsAny(query, "punch card", "trail essentials")

	switch {
	case punchCard:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "The Trail Essentials punch card has 9,400 enrolled members but only 8.2% have completed a card."),
				campaignContext(intent),
				"Most members stall after the third stamp, which is where the gap between purchases stretches beyond 60 days.",
			)),
			DirectAnswer:    "The Trail Essentials punch card is underperforming because only 8.2% of members ever complete it.",
			Recommendations: recs(loyaltyRecPunchCard, loyaltyRecRedemptionReminder),
			SuggestedQuestions: questions(
				"What would happen if I shortened the punch card?",
				"Which products do punch card members buy most?",
				"How does the punch card compare with the points program?",
				"Should I retire the Trail Essentials punch card?",
			),
		}

	case intent.HasCampaign(models.CampaignSummitTierWelcome) || analyzer.ContainsAny(query, "summit", "tier"):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Summit is your top tier with 4,120 members, and they spend 3.1x more per year than non-members."),
				campaignContext(intent),
				"Tier upgrades have slowed, with 1,870 Basecamp members sitting within $75 of Summit status.",
			)),
			DirectAnswer:    "Summit members are your most valuable tier, spending 3.1x more than non-members.",
			Recommendations: recs(loyaltyRecTierUpgrade, loyaltyRecSummitPerks),
			SuggestedQuestions: questions(
				"How many members upgraded to Summit this quarter?",
				"What perks do Summit members use most?",
				"How is the Summit Tier Welcome series performing?",
				"What is the retention rate for Summit members?",
			),
		}

	case intent.HasMetric(models.MetricRedemption):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Reward redemption is running at 31%, and $214K in issued rewards is due to expire in the next 60 days."),
				campaignContext(intent),
				"Members who redeem are 2.4x more likely to purchase again within 30 days.",
			)),
			DirectAnswer:    "Redemption is 31%, with $214K in rewards expiring in the next 60 days.",
			Recommendations: recs(loyaltyRecRedemptionReminder),
			SuggestedQuestions: questions(
				"Which rewards are redeemed most often?",
				"How much reward liability do I carry?",
				"Does redemption lead to repeat purchases?",
				"How can I increase redemption rates?",
			),
		}

	default:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Your loyalty program has 17,050 active members across three tiers, with 31% reward redemption."),
				campaignContext(intent),
				"Members generate 62% of revenue, and the Trail Essentials punch card is the weakest of the active programs.",
			)),
			DirectAnswer:    "Loyalty is healthy overall at 17,050 active members, but the Trail Essentials punch card is lagging.",
			Recommendations: recs(loyaltyRecTierUpgrade, loyaltyRecPunchCard),
			SuggestedQuestions: questions(
				"How is the Trail Essentials punch card performing?",
				"What is my reward redemption rate?",
				"How many members are in each tier?",
				"Which loyalty program has the best ROI?",
			),
		}
	}
}
