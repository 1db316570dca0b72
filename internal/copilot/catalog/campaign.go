package catalog

import "marigold-copilot/internal/models"

var (
	campaignRecPauseLowROI = models.Recommendation{
		Title:        "Pause the Fall Clearance retargeting ads",
		Description:  "Retargeting has returned 1.3:1 for three weeks running; pausing frees $18K for higher-return channels.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+185%",
	}
	campaignRecReplicateWinter = models.Recommendation{
		Title:        "Clone the Winter Gear Sale structure for spring",
		Description:  "Reuse the early-access and bundle mechanics in a spring launch aimed at hiking gear.",
		Impact:       models.ImpactHigh,
		EstimatedROI: "+250%",
	}
	campaignRecFrequencyCap = models.Recommendation{
		Title:        "Apply a frequency cap across overlapping campaigns",
		Description:  "Limit subscribers to three promotional touches per week when campaigns overlap.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+80%",
	}
	campaignRecLaunchWelcome = models.Recommendation{
		Title:        "Launch with a loyalty-first audience",
		Description:  "Send the first wave to Summit and Basecamp members before opening to the full list.",
		Impact:       models.ImpactMedium,
		EstimatedROI: "+120%",
	}
)

func composeCampaign(query string, intent models.Intent) models.Response {
	const urgentLead = "Prioritising this: one active campaign is losing money each day it runs."

	switch {
	case intent.Action == models.ActionPause:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Fall Clearance retargeting is the only active campaign below a 2:1 return, at 1.3:1 over the past three weeks."),
				campaignContext(intent),
				"Pausing it would not affect loyalty members, who are already excluded from that audience.",
			)),
			DirectAnswer:    "Pause the Fall Clearance retargeting ads; they are the only campaign returning under 2:1.",
			Recommendations: recs(campaignRecPauseLowROI),
			SuggestedQuestions: questions(
				"What happens to revenue if I pause retargeting?",
				"Where should I move the paused budget?",
				"Which other campaigns are close to the threshold?",
				"Can I pause a campaign for one segment only?",
			),
		}

	case intent.Action == models.ActionLaunch:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Your strongest launches opened with loyalty members before the public send, and they converted 1.6x better."),
				campaignContext(intent),
				"Tuesday and Thursday launches have produced the highest first-48-hour revenue.",
			)),
			DirectAnswer:    "Launch to loyalty members first, on a Tuesday or Thursday, to maximise early conversion.",
			Recommendations: recs(campaignRecLaunchWelcome, campaignRecFrequencyCap),
			SuggestedQuestions: questions(
				"Which audience should I target first?",
				"What offer worked best in past launches?",
				"How long should the campaign run?",
				"What budget should I set for the launch?",
			),
		}

	case intent.IsSpecific:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "Here is how the campaigns you asked about are performing."),
				campaignContext(intent),
				"All three named campaigns are above the 2:1 return threshold.",
			)),
			DirectAnswer:    "The campaigns you mentioned are all performing above target.",
			Recommendations: recs(campaignRecReplicateWinter, campaignRecFrequencyCap),
			SuggestedQuestions: questions(
				"Which of these campaigns has the best ROI?",
				"How do these campaigns compare with last year?",
				"Should I extend any of these campaigns?",
				"Which audience responded best?",
			),
		}

	default:
		return models.Response{
			Text: escalate(intent, urgentLead, sentences(
				timeframed(intent, "You have 7 active campaigns; the Winter Gear Sale leads at 280% ROI and Fall Clearance retargeting trails at 1.3:1."),
				"Overlap between campaigns means 22% of subscribers received four or more promotions last week.",
			)),
			DirectAnswer:    "Seven campaigns are active; the Winter Gear Sale is your best performer and Fall Clearance retargeting your weakest.",
			Recommendations: recs(campaignRecReplicateWinter, campaignRecPauseLowROI),
			SuggestedQuestions: questions(
				"Which campaign should I pause?",
				"How can I optimize the Spring Adventure Newsletter?",
				"What made the Winter Gear Sale successful?",
				"How should I plan my next campaign?",
			),
		}
	}
}
