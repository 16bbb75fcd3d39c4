package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// Service exposes wellness assessment scoring and retrieval.
type Service interface {
	SubmitAssessment(ctx context.Context, userID *uuid.UUID, email *string, input SubmitInput) (*AssessmentDTO, error)
	GetAssessment(ctx context.Context, userID, assessmentID uuid.UUID) (*AssessmentDTO, error)
	ListAssessments(ctx context.Context, userID uuid.UUID) ([]AssessmentDTO, error)
}

type assessmentStore interface {
	Create(ctx context.Context, row *models.WellnessAssessment) (*models.WellnessAssessment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WellnessAssessment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WellnessAssessment, error)
}

type service struct {
	repo assessmentStore
	logg *logger.Logger
}

// NewService constructs an assessment service instance.
func NewService(repo assessmentStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assessment repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// SubmitAssessment scores the questionnaire, derives the qualification level,
// and persists the result. Anonymous submissions carry only an email.
func (s *service) SubmitAssessment(ctx context.Context, userID *uuid.UUID, email *string, input SubmitInput) (*AssessmentDTO, error) {
	if userID == nil && (email == nil || strings.TrimSpace(*email) == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a user or contact email is required")
	}
	if !input.PreferredSupport.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid support preference %q", input.PreferredSupport)
	}
	if !input.CurrentSituation.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid current situation %q", input.CurrentSituation)
	}
	if !input.PregnancyStatus.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid pregnancy status %q", input.PregnancyStatus)
	}

	result, err := CalculateWellnessScore(input.Answers)
	if err != nil {
		return nil, err
	}

	level := DetermineQualificationLevel(QualifyingInput{
		PreferredSupport: input.PreferredSupport,
		CurrentSituation: input.CurrentSituation,
		PregnancyStatus:  input.PregnancyStatus,
		Medications:      input.Medications,
	}, result.Score)

	stored := storedAnswers{
		Answers:          input.Answers,
		PreferredSupport: input.PreferredSupport,
		CurrentSituation: input.CurrentSituation,
		PregnancyStatus:  input.PregnancyStatus,
		Medications:      input.Medications,
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding assessment answers")
	}

	row := &models.WellnessAssessment{
		ID:                 uuid.New(),
		UserID:             userID,
		Email:              email,
		Answers:            payload,
		Score:              result.Score,
		Category:           result.Category,
		QualificationLevel: level,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert assessment")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"assessment_id": created.ID.String(),
		"score":         result.Score,
		"level":         level.String(),
	})
	s.logg.Info(logCtx, "wellness assessment scored")

	return NewAssessmentDTO(created, result, BuildRecommendation(level, result.Score)), nil
}

// GetAssessment loads one assessment owned by the caller.
func (s *service) GetAssessment(ctx context.Context, userID, assessmentID uuid.UUID) (*AssessmentDTO, error) {
	row, err := s.repo.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "assessment not found")
	}
	if row.UserID == nil || *row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assessment not found")
	}
	return s.hydrate(row)
}

// ListAssessments returns the caller's assessments newest-first.
func (s *service) ListAssessments(ctx context.Context, userID uuid.UUID) ([]AssessmentDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list assessments")
	}
	dtos := make([]AssessmentDTO, 0, len(rows))
	for i := range rows {
		dto, err := s.hydrate(&rows[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

// hydrate rebuilds the derived fields from the stored answers. Scoring is a
// pure function so this always reproduces the original result.
func (s *service) hydrate(row *models.WellnessAssessment) (*AssessmentDTO, error) {
	var stored storedAnswers
	if err := json.Unmarshal(row.Answers, &stored); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding assessment answers")
	}
	result, err := CalculateWellnessScore(stored.Answers)
	if err != nil {
		return nil, err
	}
	return NewAssessmentDTO(row, result, BuildRecommendation(row.QualificationLevel, row.Score)), nil
}
