package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/api/middleware"
	"github.com/willowrootwellness/willowroot-backend/api/responses"
	"github.com/willowrootwellness/willowroot-backend/api/validators"
	"github.com/willowrootwellness/willowroot-backend/internal/assessment"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// SubmitAssessment scores a wellness questionnaire. The endpoint is public:
// anonymous visitors may submit with just an email, while authenticated
// callers get the result attached to their account.
func SubmitAssessment(svc assessment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assessment service unavailable"))
			return
		}

		var payload submitAssessmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		email := payload.Email
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			parsed, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid user id"))
				return
			}
			userID = &parsed
			if ctxEmail := middleware.EmailFromContext(r.Context()); ctxEmail != "" {
				email = &ctxEmail
			}
		}

		result, err := svc.SubmitAssessment(r.Context(), userID, email, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AssessmentDetail returns one of the caller's scored assessments.
func AssessmentDetail(svc assessment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assessment service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assessmentID, err := parseUUIDParam(r, "assessmentId", "assessment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetAssessment(r.Context(), userID, assessmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListAssessments returns the caller's assessment history, newest first.
func ListAssessments(svc assessment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assessment service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListAssessments(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type submitAssessmentRequest struct {
	Answers          map[string]string `json:"answers" validate:"required,min=1"`
	PreferredSupport string            `json:"preferred_support" validate:"required"`
	CurrentSituation string            `json:"current_situation" validate:"required"`
	PregnancyStatus  string            `json:"pregnancy_status" validate:"required"`
	Medications      []string          `json:"medications,omitempty"`
	Email            *string           `json:"email,omitempty" validate:"omitempty,email"`
}

func (r submitAssessmentRequest) toInput() (assessment.SubmitInput, error) {
	answers := make(map[assessment.QuestionID]enums.AssessmentAnswer, len(r.Answers))
	for question, raw := range r.Answers {
		answer, err := enums.ParseAssessmentAnswer(strings.TrimSpace(raw))
		if err != nil {
			return assessment.SubmitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid answer").
				WithDetails(map[string]any{"question": question})
		}
		answers[assessment.QuestionID(question)] = answer
	}

	support, err := enums.ParseSupportPreference(strings.TrimSpace(r.PreferredSupport))
	if err != nil {
		return assessment.SubmitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid support preference")
	}

	situation, err := enums.ParseCurrentSituation(strings.TrimSpace(r.CurrentSituation))
	if err != nil {
		return assessment.SubmitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid current situation")
	}

	pregnancy, err := enums.ParsePregnancyStatus(strings.TrimSpace(r.PregnancyStatus))
	if err != nil {
		return assessment.SubmitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pregnancy status")
	}

	return assessment.SubmitInput{
		Answers:          answers,
		PreferredSupport: support,
		CurrentSituation: situation,
		PregnancyStatus:  pregnancy,
		Medications:      r.Medications,
	}, nil
}
