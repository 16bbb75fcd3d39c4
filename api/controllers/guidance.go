package controllers

import (
	"net/http"
	"strings"

	"github.com/willowrootwellness/willowroot-backend/api/responses"
	"github.com/willowrootwellness/willowroot-backend/api/validators"
	"github.com/willowrootwellness/willowroot-backend/internal/guidance"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// GuidedRecommendations suggests herbs and safe percentage ranges for the
// guided blend builder. Public: the storefront calls it before signup.
func GuidedRecommendations(svc guidance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guidance service unavailable"))
			return
		}

		var payload guidedRecommendationsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toPayload()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GenerateGuidedRecommendations(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type guidedRecommendationsRequest struct {
	Goals              []string `json:"goals" validate:"required,min=1,dive,required"`
	PregnancyStatus    string   `json:"pregnancy_status" validate:"required"`
	Medications        []string `json:"medications,omitempty"`
	AlcoholSensitivity bool     `json:"alcohol_sensitivity"`
}

func (r guidedRecommendationsRequest) toPayload() (guidance.GuidedPayload, error) {
	goals := make([]enums.HealthGoal, 0, len(r.Goals))
	for _, raw := range r.Goals {
		goal, err := enums.ParseHealthGoal(strings.TrimSpace(raw))
		if err != nil {
			return guidance.GuidedPayload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid health goal")
		}
		goals = append(goals, goal)
	}

	pregnancy, err := enums.ParsePregnancyStatus(strings.TrimSpace(r.PregnancyStatus))
	if err != nil {
		return guidance.GuidedPayload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pregnancy status")
	}

	return guidance.GuidedPayload{
		Goals:              goals,
		PregnancyStatus:    pregnancy,
		Medications:        r.Medications,
		AlcoholSensitivity: r.AlcoholSensitivity,
	}, nil
}
