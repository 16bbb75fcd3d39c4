package assessment

import (
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// QualifyingInput carries the multiple-choice answers that accompany the
// questionnaire.
type QualifyingInput struct {
	PreferredSupport enums.SupportPreference
	CurrentSituation enums.CurrentSituation
	PregnancyStatus  enums.PregnancyStatus
	Medications      []string
}

var highTierSupport = map[enums.SupportPreference]bool{
	enums.SupportComprehensiveTesting: true,
	enums.SupportOngoing:              true,
	enums.SupportFullPartnership:      true,
}

var highTierSituations = map[enums.CurrentSituation]bool{
	enums.SituationManagingChronic: true,
	enums.SituationYearsNoResolve:  true,
	enums.SituationRecovering:      true,
}

var mediumTierSupport = map[enums.SupportPreference]bool{
	enums.SupportOneTimeConsult:       true,
	enums.SupportComprehensiveTesting: true,
}

// DetermineQualificationLevel maps a wellness score plus the qualifying
// answers to a coarse routing tier.
func DetermineQualificationLevel(input QualifyingInput, score int) enums.QualificationLevel {
	if score < 60 && highTierSupport[input.PreferredSupport] && highTierSituations[input.CurrentSituation] {
		return enums.QualificationHigh
	}
	if score >= 60 && score < 80 && mediumTierSupport[input.PreferredSupport] {
		return enums.QualificationMedium
	}
	return enums.QualificationLow
}
