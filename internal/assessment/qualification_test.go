package assessment

import (
	"testing"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

func TestDetermineQualificationLevelHigh(t *testing.T) {
	input := QualifyingInput{
		PreferredSupport: enums.SupportOngoing,
		CurrentSituation: enums.SituationManagingChronic,
	}
	if level := DetermineQualificationLevel(input, 59); level != enums.QualificationHigh {
		t.Fatalf("expected high, got %s", level)
	}
}

func TestDetermineQualificationLevelScoreSixtyBoundary(t *testing.T) {
	// Exactly 60 is excluded from the high branch and included in medium.
	input := QualifyingInput{
		PreferredSupport: enums.SupportOneTimeConsult,
		CurrentSituation: enums.SituationJustBeginning,
	}
	if level := DetermineQualificationLevel(input, 60); level != enums.QualificationMedium {
		t.Fatalf("expected medium at score 60, got %s", level)
	}

	highInput := QualifyingInput{
		PreferredSupport: enums.SupportFullPartnership,
		CurrentSituation: enums.SituationYearsNoResolve,
	}
	if level := DetermineQualificationLevel(highInput, 60); level == enums.QualificationHigh {
		t.Fatal("score 60 must not qualify as high")
	}
}

func TestDetermineQualificationLevelMediumRequiresSupport(t *testing.T) {
	input := QualifyingInput{
		PreferredSupport: enums.SupportOngoing,
		CurrentSituation: enums.SituationJustBeginning,
	}
	if level := DetermineQualificationLevel(input, 70); level != enums.QualificationLow {
		t.Fatalf("expected low when support preference is outside the medium set, got %s", level)
	}
}

func TestDetermineQualificationLevelHighNeedsBothAnswers(t *testing.T) {
	input := QualifyingInput{
		PreferredSupport: enums.SupportComprehensiveTesting,
		CurrentSituation: enums.SituationGeneralCuriosity,
	}
	if level := DetermineQualificationLevel(input, 40); level == enums.QualificationHigh {
		t.Fatal("high tier requires both the support and situation answers")
	}
}

func TestDetermineQualificationLevelHighScoreIsLow(t *testing.T) {
	input := QualifyingInput{
		PreferredSupport: enums.SupportFullPartnership,
		CurrentSituation: enums.SituationRecovering,
	}
	if level := DetermineQualificationLevel(input, 85); level != enums.QualificationLow {
		t.Fatalf("expected low at score 85, got %s", level)
	}
}

func TestBuildRecommendationLowTone(t *testing.T) {
	strong := BuildRecommendation(enums.QualificationLow, 85)
	moderate := BuildRecommendation(enums.QualificationLow, 70)
	if strong.Summary == moderate.Summary {
		t.Fatal("expected the low template summary to shift tone at score 80")
	}
	if strong.Title != moderate.Title {
		t.Fatal("only the summary should change with score")
	}
}

func TestBuildRecommendationCoversAllLevels(t *testing.T) {
	for _, level := range []enums.QualificationLevel{
		enums.QualificationHigh,
		enums.QualificationMedium,
		enums.QualificationLow,
	} {
		rec := BuildRecommendation(level, 50)
		if rec.Title == "" || rec.Summary == "" || len(rec.Bullets) == 0 {
			t.Errorf("template for %s is incomplete: %+v", level, rec)
		}
		if rec.PrimaryCTA.Label == "" || rec.PrimaryCTA.Path == "" {
			t.Errorf("template for %s is missing a primary CTA", level)
		}
	}
}
