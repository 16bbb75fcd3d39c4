package enums

import "fmt"

// AssessmentAnswer is the response to a single wellness questionnaire item.
type AssessmentAnswer string

const (
	AnswerYes       AssessmentAnswer = "yes"
	AnswerNo        AssessmentAnswer = "no"
	AnswerSometimes AssessmentAnswer = "sometimes"
)

var validAssessmentAnswers = []AssessmentAnswer{
	AnswerYes,
	AnswerNo,
	AnswerSometimes,
}

func (a AssessmentAnswer) String() string {
	return string(a)
}

func (a AssessmentAnswer) IsValid() bool {
	for _, candidate := range validAssessmentAnswers {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseAssessmentAnswer(value string) (AssessmentAnswer, error) {
	for _, candidate := range validAssessmentAnswers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assessment answer %q", value)
}

// WellnessCategory is the coarse banding of an assessment score.
type WellnessCategory string

const (
	CategoryStrong         WellnessCategory = "strong"
	CategoryModerate       WellnessCategory = "moderate"
	CategoryNeedsAttention WellnessCategory = "needs_attention"
)

func (c WellnessCategory) String() string {
	return string(c)
}

// InsightFlag marks a topic area as needing focus or already stable.
type InsightFlag string

const (
	InsightFocus  InsightFlag = "focus"
	InsightStable InsightFlag = "stable"
)

func (f InsightFlag) String() string {
	return string(f)
}

// QualificationLevel routes an assessment taker to an offering tier.
type QualificationLevel string

const (
	QualificationHigh   QualificationLevel = "high"
	QualificationMedium QualificationLevel = "medium"
	QualificationLow    QualificationLevel = "low"
)

func (l QualificationLevel) String() string {
	return string(l)
}

// SupportPreference is the taker's stated appetite for ongoing involvement.
type SupportPreference string

const (
	SupportOneTimeConsult       SupportPreference = "one_time_consult"
	SupportComprehensiveTesting SupportPreference = "comprehensive_testing"
	SupportOngoing              SupportPreference = "ongoing_support"
	SupportFullPartnership      SupportPreference = "full_service_partnership"
)

var validSupportPreferences = []SupportPreference{
	SupportOneTimeConsult,
	SupportComprehensiveTesting,
	SupportOngoing,
	SupportFullPartnership,
}

func (p SupportPreference) String() string {
	return string(p)
}

func (p SupportPreference) IsValid() bool {
	for _, candidate := range validSupportPreferences {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParseSupportPreference(value string) (SupportPreference, error) {
	for _, candidate := range validSupportPreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid support preference %q", value)
}

// CurrentSituation describes where the taker is in their health journey.
type CurrentSituation string

const (
	SituationJustBeginning    CurrentSituation = "just_beginning"
	SituationManagingChronic  CurrentSituation = "managing_chronic"
	SituationYearsNoResolve   CurrentSituation = "years_no_resolution"
	SituationRecovering       CurrentSituation = "recovering"
	SituationGeneralCuriosity CurrentSituation = "general_curiosity"
)

var validCurrentSituations = []CurrentSituation{
	SituationJustBeginning,
	SituationManagingChronic,
	SituationYearsNoResolve,
	SituationRecovering,
	SituationGeneralCuriosity,
}

func (s CurrentSituation) String() string {
	return string(s)
}

func (s CurrentSituation) IsValid() bool {
	for _, candidate := range validCurrentSituations {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseCurrentSituation(value string) (CurrentSituation, error) {
	for _, candidate := range validCurrentSituations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid current situation %q", value)
}

// PregnancyStatus gates pregnancy-sensitive herb warnings.
type PregnancyStatus string

const (
	PregnancyNotPregnant PregnancyStatus = "not_pregnant"
	PregnancyPregnant    PregnancyStatus = "pregnant"
	PregnancyNursing     PregnancyStatus = "nursing"
	PregnancyTrying      PregnancyStatus = "trying_to_conceive"
)

var validPregnancyStatuses = []PregnancyStatus{
	PregnancyNotPregnant,
	PregnancyPregnant,
	PregnancyNursing,
	PregnancyTrying,
}

func (p PregnancyStatus) String() string {
	return string(p)
}

func (p PregnancyStatus) IsValid() bool {
	for _, candidate := range validPregnancyStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParsePregnancyStatus(value string) (PregnancyStatus, error) {
	for _, candidate := range validPregnancyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pregnancy status %q", value)
}
