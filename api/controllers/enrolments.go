package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/api/responses"
	"github.com/willowrootwellness/willowroot-backend/api/validators"
	"github.com/willowrootwellness/willowroot-backend/internal/enrolments"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// ListPackages is the public wellness package catalog, cheapest first.
func ListPackages(svc enrolments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enrolment service unavailable"))
			return
		}

		list, err := svc.ListPackages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// Enrol buys the caller into a wellness package, granting its session credits.
func Enrol(svc enrolments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enrolment service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload enrolRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enrolment, err := svc.Enrol(r.Context(), userID, payload.PackageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, enrolment)
	}
}

// EnrolmentDetail returns one of the caller's enrolments with its ledger.
func EnrolmentDetail(svc enrolments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enrolment service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enrolmentID, err := parseUUIDParam(r, "enrolmentId", "enrolment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enrolment, err := svc.GetEnrolment(r.Context(), userID, enrolmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, enrolment)
	}
}

// ListEnrolments returns the caller's enrolments, newest first.
func ListEnrolments(svc enrolments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enrolment service unavailable"))
			return
		}

		userID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListEnrolments(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type enrolRequest struct {
	PackageID uuid.UUID `json:"package_id" validate:"required"`
}
