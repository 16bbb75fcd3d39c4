package assessment

import (
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// Recommendation is the static next-step template bound to a qualification
// level.
type Recommendation struct {
	Level        enums.QualificationLevel `json:"level"`
	Title        string                   `json:"title"`
	Summary      string                   `json:"summary"`
	Bullets      []string                 `json:"bullets"`
	PrimaryCTA   CallToAction             `json:"primary_cta"`
	SecondaryCTA *CallToAction            `json:"secondary_cta,omitempty"`
}

// CallToAction points the assessment taker at a concrete next step.
type CallToAction struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// BuildRecommendation returns the template for the level. The low template's
// summary shifts tone at a score of 80.
func BuildRecommendation(level enums.QualificationLevel, score int) Recommendation {
	switch level {
	case enums.QualificationHigh:
		return Recommendation{
			Level:   level,
			Title:   "A deeper look is warranted",
			Summary: "Your answers point to patterns that tend to respond best to structured, practitioner-guided support.",
			Bullets: []string{
				"Book a comprehensive intake so a practitioner can review your full history",
				"Functional testing can pinpoint what self-assessment cannot",
				"A dedicated wellness package covers testing, consults, and custom blends",
			},
			PrimaryCTA:   CallToAction{Label: "Book a comprehensive intake", Path: "/bookings/new?type=initial_consult"},
			SecondaryCTA: &CallToAction{Label: "Browse wellness packages", Path: "/packages"},
		}
	case enums.QualificationMedium:
		return Recommendation{
			Level:   level,
			Title:   "A focused consult would help",
			Summary: "You are in reasonable shape overall, with a few areas worth a closer conversation.",
			Bullets: []string{
				"A single consult can turn your results into a concrete plan",
				"A guided herbal blend targets the areas your answers flagged",
				"Re-take the assessment in 60 days to track your progress",
			},
			PrimaryCTA:   CallToAction{Label: "Book a consult", Path: "/bookings/new?type=initial_consult"},
			SecondaryCTA: &CallToAction{Label: "Build a guided blend", Path: "/compounds/guided"},
		}
	default:
		summary := "There is room to improve, and small consistent changes will carry you a long way."
		if score >= 80 {
			summary = "Your foundations look strong. Keep doing what you are doing and support it with good habits."
		}
		return Recommendation{
			Level:   enums.QualificationLow,
			Title:   "Keep building on your foundations",
			Summary: summary,
			Bullets: []string{
				"Explore our tea and tincture catalog for everyday support",
				"A guided blend is an easy way to try targeted herbs",
				"Re-take the assessment whenever your situation changes",
			},
			PrimaryCTA:   CallToAction{Label: "Shop the catalog", Path: "/shop"},
			SecondaryCTA: &CallToAction{Label: "Build a guided blend", Path: "/compounds/guided"},
		}
	}
}
