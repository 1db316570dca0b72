package catalog

import "marigold-copilot/internal/models"

var (
	budgetRecShiftToEmail = models.Recommendation{
		Title:        "Shift 15% of paid social budget to email and SMS",
		Description:  "Owned channels return 38:1 against 4.2:1 for paid social on the current mix.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+220%",
	}
	budgetRecLoyaltyFund = models.Recommendation{
		Title:        "Ring-fence a loyalty incentive fund",
		Description:  "Reserve $40K per quarter for tier-up and redemption incentives rather than blanket discounts.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+130%",
	}
	budgetRecCapSpend = models.Recommendation{
		Title:        "Cap spend on campaigns under 2:1 ROI",
		Description:  "Set an automatic spend ceiling on any campaign that falls below a 2:1 return for two consecutive weeks.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+160%",
	}
)

func composeBudget(query string, intent models.Intent) models.Response {
	const urgentLead = "Acting on this quickly matters: 23% of remaining budget is committed to campaigns returning under 2:1."

	switch {
	case intent.Action == models.ActionOptimize || intent.HasMetric(models.MetricROI):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "You have spent $418K of a $600K budget, and email and SMS are returning ten times more per dollar than paid social."),
				campaignContext(intent),
				"Rebalancing 15% of paid social spend toward owned channels would lift blended ROI without cutting reach among loyalty members.",
			)),
			DirectAnswer:    "Move about 15% of paid social budget into email and SMS to raise overall ROI.",
			Recommendations: recs(budgetRecShiftToEmail, budgetRecCapSpend),
			SuggestedQuestions: questions(
				"What is the ROI of each channel?",
				"Which campaigns should I cut spend on?",
				"How much budget is left this quarter?",
				"What happens if I move budget to loyalty incentives?",
			),
		}

	case intent.IsSpecific:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "The campaigns you mentioned account for $96K of the $418K spent so far."),
				campaignContext(intent),
				"All of them are returning above the 2:1 spend threshold.",
			)),
			DirectAnswer:    "Those campaigns have used $96K of budget and are all above the 2:1 return threshold.",
			Recommendations: recs(budgetRecLoyaltyFund),
			SuggestedQuestions: questions(
				"Should I increase budget for these campaigns?",
				"How does their spend compare with last year?",
				"What is the cost per acquisition for these campaigns?",
				"Which channel gets most of their budget?",
			),
		}

	default:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "You have spent $418K of your $600K marketing budget, 70% utilisation with five weeks remaining."),
				campaignContext(intent),
				"Paid social takes 44% of spend but returns only 4.2:1, while email takes 18% and returns 38:1.",
			)),
			DirectAnswer:    "You have used $418K of $600K (70%), with paid social consuming the largest share.",
			Recommendations: recs(budgetRecShiftToEmail, budgetRecLoyaltyFund),
			SuggestedQuestions: questions(
				"How should I reallocate the remaining budget?",
				"Which channel has the best return on spend?",
				"Am I on track to stay within budget?",
				"How much am I spending on loyalty incentives?",
			),
		}
	}
}
