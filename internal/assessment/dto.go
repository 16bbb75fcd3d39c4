package assessment

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// SubmitInput is the validated questionnaire submission.
type SubmitInput struct {
	Answers          map[QuestionID]enums.AssessmentAnswer
	PreferredSupport enums.SupportPreference
	CurrentSituation enums.CurrentSituation
	PregnancyStatus  enums.PregnancyStatus
	Medications      []string
}

// storedAnswers is the JSON shape persisted on the assessment row.
type storedAnswers struct {
	Answers          map[QuestionID]enums.AssessmentAnswer `json:"answers"`
	PreferredSupport enums.SupportPreference               `json:"preferred_support"`
	CurrentSituation enums.CurrentSituation                `json:"current_situation"`
	PregnancyStatus  enums.PregnancyStatus                 `json:"pregnancy_status"`
	Medications      []string                              `json:"medications,omitempty"`
}

// AssessmentDTO is the scored submission returned to callers.
type AssessmentDTO struct {
	ID                 uuid.UUID                          `json:"id"`
	Score              int                                `json:"score"`
	Category           enums.WellnessCategory             `json:"category"`
	InsightFlags       map[InsightTopic]enums.InsightFlag `json:"insight_flags"`
	QualificationLevel enums.QualificationLevel           `json:"qualification_level"`
	Recommendation     Recommendation                     `json:"recommendation"`
	CreatedAt          time.Time                          `json:"created_at"`
}

// NewAssessmentDTO builds the response from the persisted row and the scoring
// outcome.
func NewAssessmentDTO(row *models.WellnessAssessment, result ScoreResult, recommendation Recommendation) *AssessmentDTO {
	return &AssessmentDTO{
		ID:                 row.ID,
		Score:              row.Score,
		Category:           row.Category,
		InsightFlags:       result.InsightFlags,
		QualificationLevel: row.QualificationLevel,
		Recommendation:     recommendation,
		CreatedAt:          row.CreatedAt,
	}
}
