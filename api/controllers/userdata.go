package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/utmart-backend/api/middleware"
	"github.com/angelmondragon/utmart-backend/api/responses"
	"github.com/angelmondragon/utmart-backend/api/validators"
	"github.com/angelmondragon/utmart-backend/internal/userdata"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
)

type createUserDataRequest struct {
	UserID uint            `json:"userId" validate:"required"`
	Data   json.RawMessage `json:"data" validate:"required"`
}

type updateUserDataRequest struct {
	Data json.RawMessage `json:"data" validate:"required"`
}

// authorizeUser checks the authenticated user against the one addressed by
// the request.
func authorizeUser(r *http.Request, target uint) error {
	current := middleware.UserIDFromContext(r.Context())
	if current == 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if current != target {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's data")
	}
	return nil
}

func CreateUserData(svc userdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user data service unavailable"))
			return
		}

		var payload createUserDataRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := authorizeUser(r, payload.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), payload.UserID, payload.Data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func ListUserData(svc userdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user data service unavailable"))
			return
		}

		userID, err := validators.ParseIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := authorizeUser(r, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

func GetUserData(svc userdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user data service unavailable"))
			return
		}

		userID, id, err := userDataParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func UpdateUserData(svc userdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user data service unavailable"))
			return
		}

		userID, id, err := userDataParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateUserDataRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Update(r.Context(), userID, id, payload.Data); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "data updated successfully")
	}
}

func DeleteUserData(svc userdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user data service unavailable"))
			return
		}

		userID, id, err := userDataParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "data deleted successfully")
	}
}

func userDataParams(r *http.Request) (uint, uint, error) {
	userID, err := validators.ParseIDParam(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	if err := authorizeUser(r, userID); err != nil {
		return 0, 0, err
	}
	id, err := validators.ParseIDParam(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, id, nil
}
