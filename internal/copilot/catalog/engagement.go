package catalog

import (
	"marigold-copilot/internal/copilot/analyzer"
	"marigold-copilot/internal/models"
)

var (
	engagementRecSubjectLines = models.Recommendation{
		Title:        "A/B test trail-specific subject lines",
		Description:  "Replace generic subject lines with destination and weather hooks; outdoor lists respond to specificity.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+175%",
	}
	engagementRecSendTime = models.Recommendation{
		Title:        "Move the send to Thursday evening",
		Description:  "Opens peak between 6 and 8pm on Thursdays as subscribers plan weekend trips.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+90%",
	}
	engagementRecSunset = models.Recommendation{
		Title:        "Sunset unengaged subscribers",
		Description:  "Suppress the 11% of subscribers with no opens in 180 days to protect deliverability.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+70%",
	}
	engagementRecContentBlocks = models.Recommendation{
		Title:        "Lead with gear guides, not discounts",
		Description:  "Content-led hero blocks earn 1.8x the clicks of percentage-off banners in your recent sends.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+150%",
	}
)

func composeEngagement(query string, intent models.Intent) models.Response {
	const urgentLead = "Treating this as urgent: deliverability on your largest list is slipping, so fixes that protect inbox placement come first."

	switch {
	case intent.HasCampaign(models.CampaignSpringAdventureNewsletter):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "The Spring Adventure Newsletter reaches 62,000 subscribers with a 2.9% click rate."),
				campaignContext(intent),
				"Subject lines over 60 characters are truncated on mobile for 71% of the list, which suppresses opens before the content is seen.",
			)),
			DirectAnswer:    "The Spring Adventure Newsletter's 18.4% open rate trails the 24% benchmark, mostly due to long generic subject lines.",
			Recommendations: recs(engagementRecSubjectLines, engagementRecSendTime),
			SuggestedQuestions: questions(
				"Which subject lines performed best for the newsletter?",
				"What is the best send time for the Spring Adventure Newsletter?",
				"How many newsletter subscribers are loyalty members?",
				"Which newsletter content drives the most clicks?",
			),
		}

	case intent.HasMetric(models.MetricOpenRate):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Your average open rate across all sends is 21.7%, about 2 points under the outdoor retail benchmark."),
				campaignContext(intent),
				"Inactive subscribers drag the average down, and 11% of the list has not opened in 180 days.",
			)),
			DirectAnswer:    "Open rate averages 21.7%, held down by an 11% block of long-inactive subscribers.",
			Recommendations: recs(engagementRecSunset, engagementRecSubjectLines),
			SuggestedQuestions: questions(
				"Which campaigns have the highest open rate?",
				"How does open rate vary by device?",
				"Should I remove inactive subscribers?",
				"How does my open rate compare with last quarter?",
			),
		}

	case analyzer.ContainsAny(query, "click", "ctr") || intent.HasMetric(models.MetricConversion):
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Click-through rate averages 3.4%, and click-to-purchase conversion is 6.8%."),
				campaignContext(intent),
				"Content-led sends outperform discount-led sends on clicks, though discount sends convert slightly better once clicked.",
			)),
			DirectAnswer:    "Your click rate is 3.4%, with content-led emails earning the most clicks.",
			Recommendations: recs(engagementRecContentBlocks),
			SuggestedQuestions: questions(
				"Which email templates get the most clicks?",
				"How does click rate differ by segment?",
				"What content should I feature in the next send?",
				"How many clicks turn into purchases?",
			),
		}

	default:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Engagement is steady: 21.7% average open rate, 3.4% click rate, and 0.18% unsubscribes per send."),
				campaignContext(intent),
				"Loyalty members open at nearly twice the rate of non-members.",
			)),
			DirectAnswer:    "Engagement is steady at a 21.7% open rate and 3.4% click rate.",
			Recommendations: recs(engagementRecContentBlocks, engagementRecSendTime),
			SuggestedQuestions: questions(
				"How is the Spring Adventure Newsletter performing?",
				"Which segment is most engaged?",
				"How can I improve my open rate?",
				"What is my unsubscribe trend?",
			),
		}
	}
}
