package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// WellnessAssessment stores a submitted questionnaire with its derived
// score and qualification. Answers are immutable once scored.
type WellnessAssessment struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID             *uuid.UUID               `gorm:"column:user_id;type:uuid;index"`
	Email              *string                  `gorm:"column:email"`
	Answers            json.RawMessage          `gorm:"column:answers;type:jsonb"`
	Score              int                      `gorm:"column:score;not null"`
	Category           enums.WellnessCategory   `gorm:"column:category;not null"`
	QualificationLevel enums.QualificationLevel `gorm:"column:qualification_level;not null"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
}
