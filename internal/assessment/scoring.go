package assessment

import (
	"math"

	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// QuestionID identifies one of the ten fixed questionnaire items.
type QuestionID string

const (
	QuestionBloating          QuestionID = "bloating_discomfort"
	QuestionIrregularBowel    QuestionID = "irregular_bowel"
	QuestionFoodSensitivity   QuestionID = "food_sensitivities"
	QuestionProcessedDiet     QuestionID = "processed_diet"
	QuestionSkinIssues        QuestionID = "skin_issues"
	QuestionHeadachesBrainFog QuestionID = "headaches_brain_fog"
	QuestionChemicalExposure  QuestionID = "chemical_exposure"
	QuestionLowEnergy         QuestionID = "low_energy"
	QuestionPoorSleep         QuestionID = "poor_sleep"
	QuestionHighStress        QuestionID = "high_stress"
)

// Questions lists every questionnaire item in presentation order.
var Questions = []QuestionID{
	QuestionBloating,
	QuestionIrregularBowel,
	QuestionFoodSensitivity,
	QuestionProcessedDiet,
	QuestionSkinIssues,
	QuestionHeadachesBrainFog,
	QuestionChemicalExposure,
	QuestionLowEnergy,
	QuestionPoorSleep,
	QuestionHighStress,
}

// InsightTopic is one of the three areas the questionnaire flags.
type InsightTopic string

const (
	TopicGut       InsightTopic = "gut"
	TopicToxicLoad InsightTopic = "toxic_load"
	TopicLifestyle InsightTopic = "lifestyle"
)

// topicQuestions maps each insight topic to the questions that feed it. A
// question may feed more than one topic.
var topicQuestions = map[InsightTopic][]QuestionID{
	TopicGut:       {QuestionBloating, QuestionIrregularBowel, QuestionFoodSensitivity, QuestionProcessedDiet},
	TopicToxicLoad: {QuestionSkinIssues, QuestionHeadachesBrainFog, QuestionChemicalExposure},
	TopicLifestyle: {QuestionLowEnergy, QuestionPoorSleep, QuestionHighStress, QuestionProcessedDiet},
}

const (
	maxPointsPerQuestion = 10
	focusThreshold       = 1.5
)

// ScoreResult is the outcome of scoring one questionnaire submission.
type ScoreResult struct {
	Score        int
	Category     enums.WellnessCategory
	InsightFlags map[InsightTopic]enums.InsightFlag
}

// answerPoints maps an answer to wellness points. "yes" means the symptom is
// present, so it contributes nothing.
func answerPoints(answer enums.AssessmentAnswer) int {
	switch answer {
	case enums.AnswerNo:
		return 10
	case enums.AnswerSometimes:
		return 5
	default:
		return 0
	}
}

// concernWeight maps an answer to its contribution toward a topic flag.
func concernWeight(answer enums.AssessmentAnswer) float64 {
	switch answer {
	case enums.AnswerYes:
		return 1
	case enums.AnswerSometimes:
		return 0.5
	default:
		return 0
	}
}

// CalculateWellnessScore converts a complete set of answers into a 0-100
// score, a category label, and per-topic focus flags. Pure function.
func CalculateWellnessScore(answers map[QuestionID]enums.AssessmentAnswer) (ScoreResult, error) {
	if len(answers) != len(Questions) {
		return ScoreResult{}, pkgerrors.Newf(pkgerrors.CodeValidation, "expected %d answers, got %d", len(Questions), len(answers))
	}

	total := 0
	for _, question := range Questions {
		answer, ok := answers[question]
		if !ok {
			return ScoreResult{}, pkgerrors.Newf(pkgerrors.CodeValidation, "missing answer for question %q", question)
		}
		if !answer.IsValid() {
			return ScoreResult{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid answer %q for question %q", answer, question)
		}
		total += answerPoints(answer)
	}

	maxTotal := len(Questions) * maxPointsPerQuestion
	score := int(math.Round(float64(total) / float64(maxTotal) * 100))

	flags := make(map[InsightTopic]enums.InsightFlag, len(topicQuestions))
	for topic, questions := range topicQuestions {
		weight := 0.0
		for _, question := range questions {
			weight += concernWeight(answers[question])
		}
		if weight >= focusThreshold {
			flags[topic] = enums.InsightFocus
		} else {
			flags[topic] = enums.InsightStable
		}
	}

	return ScoreResult{
		Score:        score,
		Category:     categoryForScore(score),
		InsightFlags: flags,
	}, nil
}

func categoryForScore(score int) enums.WellnessCategory {
	switch {
	case score >= 80:
		return enums.CategoryStrong
	case score >= 50:
		return enums.CategoryModerate
	default:
		return enums.CategoryNeedsAttention
	}
}
