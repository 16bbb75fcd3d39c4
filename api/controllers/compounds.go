package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/api/responses"
	"github.com/willowrootwellness/willowroot-backend/api/validators"
	"github.com/willowrootwellness/willowroot-backend/internal/compounds"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// SaveCompound persists a new custom blend for the caller and prices it.
func SaveCompound(svc compounds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compound service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saveCompoundRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		compound, err := svc.SaveCompound(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, compound)
	}
}

// ResaveCompound replaces the formula of an existing blend and reprices it.
func ResaveCompound(svc compounds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compound service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		compoundID, err := parseUUIDParam(r, "compoundId", "compound id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saveCompoundRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		compound, err := svc.ResaveCompound(r.Context(), userID, compoundID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, compound)
	}
}

// CompoundDetail returns one of the caller's saved blends.
func CompoundDetail(svc compounds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compound service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		compoundID, err := parseUUIDParam(r, "compoundId", "compound id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		compound, err := svc.GetCompound(r.Context(), userID, compoundID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, compound)
	}
}

// ListCompounds returns the caller's saved blends.
func ListCompounds(svc compounds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compound service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListCompounds(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// AdminRegisterBatch records a freshly prepared batch in the dispensary.
func AdminRegisterBatch(svc compounds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compound service unavailable"))
			return
		}

		var payload registerBatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.RegisterBatch(r.Context(), compounds.RegisterBatchInput{
			CompoundID:    payload.CompoundID,
			TotalVolumeML: payload.TotalVolumeML,
			PreparedAt:    payload.PreparedAt,
			Notes:         payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, batch)
	}
}

// AdminDiscardBatch retires a batch that failed quality control.
func AdminDiscardBatch(svc compounds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compound service unavailable"))
			return
		}

		batchID, err := parseUUIDParam(r, "batchId", "batch id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DiscardBatch(r.Context(), batchID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "discarded"})
	}
}

// AdminListBatches returns the batches of one compound, oldest first.
func AdminListBatches(svc compounds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compound service unavailable"))
			return
		}

		compoundID, err := parseUUIDParam(r, "compoundId", "compound id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListBatches(r.Context(), compoundID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type saveCompoundRequest struct {
	Name               string               `json:"name" validate:"required"`
	Tier               string               `json:"tier" validate:"required"`
	Type               string               `json:"type" validate:"required"`
	Formula            []formulaItemRequest `json:"formula" validate:"required,min=1,dive"`
	BottleVolumeML     float64              `json:"bottle_volume_ml" validate:"required,gt=0"`
	SourceBookingID    *uuid.UUID           `json:"source_booking_id,omitempty"`
	SourceAssessmentID *uuid.UUID           `json:"source_assessment_id,omitempty"`
}

type formulaItemRequest struct {
	HerbSlug   string  `json:"herb_slug" validate:"required"`
	HerbName   string  `json:"herb_name,omitempty"`
	Percentage float64 `json:"percentage" validate:"required,gt=0"`
}

func (r saveCompoundRequest) toInput() (compounds.SaveCompoundInput, error) {
	tier, err := enums.ParseCompoundTier(strings.TrimSpace(r.Tier))
	if err != nil {
		return compounds.SaveCompoundInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier")
	}

	compoundType, err := enums.ParseCompoundType(strings.TrimSpace(r.Type))
	if err != nil {
		return compounds.SaveCompoundInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
	}

	formula := make(types.Formula, 0, len(r.Formula))
	for _, item := range r.Formula {
		formula = append(formula, types.FormulaItem{
			HerbSlug:   strings.TrimSpace(item.HerbSlug),
			HerbName:   strings.TrimSpace(item.HerbName),
			Percentage: item.Percentage,
		})
	}

	return compounds.SaveCompoundInput{
		Name:               strings.TrimSpace(r.Name),
		Tier:               tier,
		Type:               compoundType,
		Formula:            formula,
		BottleVolumeML:     r.BottleVolumeML,
		SourceBookingID:    r.SourceBookingID,
		SourceAssessmentID: r.SourceAssessmentID,
	}, nil
}

type registerBatchRequest struct {
	CompoundID    uuid.UUID  `json:"compound_id" validate:"required"`
	TotalVolumeML float64    `json:"total_volume_ml" validate:"required,gt=0"`
	PreparedAt    *time.Time `json:"prepared_at,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}
