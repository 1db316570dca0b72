package catalog

import "marigold-copilot/internal/models"

const revenueTotal = "$3.24M"

var (
	revenueRecScaleWinter = models.Recommendation{
		Title:        "Extend the Winter Gear Sale to Summit members",
		Description:  "Offer a 48-hour early-access window to Summit tier members before the public sale reopens.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+280%",
	}
	revenueRecBundles = models.Recommendation{
		Title:        "Bundle slow-moving layers with best sellers",
		Description:  "Pair base layers with top-selling shell jackets to lift average order value.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+145%",
	}
	revenueRecWinback = models.Recommendation{
		Title:        "Win back lapsed high-value buyers",
		Description:  "Target customers with lifetime spend over $500 who have not purchased in 90 days.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+210%",
	}
	revenueRecPoints = models.Recommendation{
		Title:        "Run a double-points weekend",
		Description:  "Double loyalty points on orders over $150 to pull forward purchases from engaged members.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+125%",
	}
)

func composeRevenue(query string, intent models.Intent) models.Response {
	const urgentLead = "Flagging this as a priority: revenue is tracking 6% behind plan for the period, so the fastest levers are listed first."

	switch {
	case intent.HasCampaign(models.CampaignWinterGearSale):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Total attributed revenue stands at "+revenueTotal+", up 12.4% over the prior period."),
				campaignContext(intent),
				"Cold-weather outerwear made up 41% of Winter Gear Sale orders, and repeat buyers converted at nearly twice the rate of first-time shoppers.",
			)),
			DirectAnswer: "The Winter Gear Sale is your top revenue driver, contributing about a third of the " + revenueTotal + " total.",
			Recommendations: recs(revenueRecScaleWinter, revenueRecBundles),
			SuggestedQuestions: questions(
				"Which products sold best in the Winter Gear Sale?",
				"How did Summit members respond to the Winter Gear Sale?",
				"Should I extend the Winter Gear Sale another week?",
				"What is the ROI breakdown by channel for the Winter Gear Sale?",
			),
		}

	case intent.Action == models.ActionOptimize:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Revenue is "+revenueTotal+", and the biggest upside sits with lapsed high-value buyers and under-monetised loyalty members."),
				campaignContext(intent),
				"Closing half the gap on lapsed buyers alone would add roughly 5.5% to revenue.",
			)),
			DirectAnswer:    "You can grow revenue beyond " + revenueTotal + " fastest by re-engaging lapsed high-value buyers.",
			Recommendations: recs(revenueRecWinback, revenueRecPoints),
			SuggestedQuestions: questions(
				"How many lapsed high-value customers do I have?",
				"What offer works best for win-back campaigns?",
				"How much revenue comes from loyalty members?",
				"Which channel drives the highest order value?",
			),
		}

	case intent.Action == models.ActionAnalyze || intent.HasMetric(models.MetricROI):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Of the "+revenueTotal+" in revenue, email drives 46%, paid social 27%, and loyalty redemptions 18%."),
				campaignContext(intent),
				"Email has the highest ROI at 38:1, while paid social returns 4.2:1.",
			)),
			DirectAnswer:    "Revenue of " + revenueTotal + " is led by email, which drives 46% of the total.",
			Recommendations: recs(revenueRecBundles),
			SuggestedQuestions: questions(
				"Why is paid social ROI lower than email?",
				"How has revenue trended over the last quarter?",
				"Which customer segment spends the most?",
				"What share of revenue comes from repeat buyers?",
			),
		}

	default:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Total revenue is "+revenueTotal+", up 12.4% over the prior period, with average order value holding at $86."),
				campaignContext(intent),
				"Loyalty members account for 62% of revenue while representing 35% of customers.",
			)),
			DirectAnswer:    "Your total revenue is " + revenueTotal + ", up 12.4% over the prior period.",
			Recommendations: recs(revenueRecWinback, revenueRecBundles),
			SuggestedQuestions: questions(
				"Which campaigns drove the most revenue?",
				"How much revenue comes from loyalty members?",
				"What is my average order value by segment?",
				"How can I increase revenue next quarter?",
			),
		}
	}
}
