package handler

import (
	"encoding/json"
	"net/http"

	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/delivery/http/middleware"
	"teleradiology-case-routing/internal/usecase"
	"teleradiology-case-routing/pkg/response"
	"teleradiology-case-routing/pkg/validator"
)

type RadiologistHandler struct {
	radiologistUsecase usecase.RadiologistUsecase
	validator          *validator.CustomValidator
}

func NewRadiologistHandler(radiologistUsecase usecase.RadiologistUsecase, validator *validator.CustomValidator) *RadiologistHandler {
	return &RadiologistHandler{
		radiologistUsecase: radiologistUsecase,
		validator:          validator,
	}
}

func (h *RadiologistHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	availability, err := h.radiologistUsecase.GetAvailability(r.Context(), userID)
	if err != nil {
		if err == usecase.ErrRadiologistNotFound {
			response.NotFound(w, "Radiologist not found")
			return
		}
		response.InternalServerError(w, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *RadiologistHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.radiologistUsecase.SetAvailability(r.Context(), userID, &req)
	if err != nil {
		if err == usecase.ErrRadiologistNotFound {
			response.NotFound(w, "Radiologist not found")
			return
		}
		response.InternalServerError(w, "Failed to update availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", availability)
}
