package handler

import (
	"encoding/json"
	"net/http"

	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/delivery/http/middleware"
	"teleradiology-case-routing/internal/usecase"
	"teleradiology-case-routing/pkg/response"
	"teleradiology-case-routing/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type CaseHandler struct {
	caseUsecase usecase.CaseUsecase
	validator   *validator.CustomValidator
}

func NewCaseHandler(caseUsecase usecase.CaseUsecase, validator *validator.CustomValidator) *CaseHandler {
	return &CaseHandler{
		caseUsecase: caseUsecase,
		validator:   validator,
	}
}

func (h *CaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	c, err := h.caseUsecase.CreateCase(r.Context(), userID, &req)
	if err != nil {
		writeCaseError(w, err, "Failed to create case")
		return
	}

	response.Success(w, http.StatusCreated, "Case created successfully", c)
}

func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	cases, err := h.caseUsecase.ListCases(r.Context(), userID, role)
	if err != nil {
		response.InternalServerError(w, "Failed to fetch cases")
		return
	}

	response.Success(w, http.StatusOK, "Cases retrieved successfully", dto.CaseListResponse{
		Cases: cases,
		Total: len(cases),
	})
}

func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	caseID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid case ID")
		return
	}

	c, err := h.caseUsecase.GetCase(r.Context(), caseID, userID, role)
	if err != nil {
		writeCaseError(w, err, "Failed to get case")
		return
	}

	response.Success(w, http.StatusOK, "Case retrieved successfully", c)
}

func (h *CaseHandler) CaseHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	caseID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid case ID")
		return
	}

	logs, err := h.caseUsecase.CaseHistory(r.Context(), caseID, userID, role)
	if err != nil {
		writeCaseError(w, err, "Failed to get case history")
		return
	}

	response.Success(w, http.StatusOK, "Case history retrieved successfully", dto.AuditLogListResponse{
		Logs:  logs,
		Total: len(logs),
	})
}

func (h *CaseHandler) AcceptCase(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	caseID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid case ID")
		return
	}

	c, err := h.caseUsecase.AcceptCase(r.Context(), caseID, userID)
	if err != nil {
		writeCaseError(w, err, "Failed to accept case")
		return
	}

	response.Success(w, http.StatusOK, "Case accepted successfully", c)
}

func (h *CaseHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	caseID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid case ID")
		return
	}

	var req dto.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	c, err := h.caseUsecase.SubmitReport(r.Context(), caseID, userID, &req)
	if err != nil {
		writeCaseError(w, err, "Failed to submit report")
		return
	}

	response.Success(w, http.StatusOK, "Report submitted successfully", c)
}

func writeCaseError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrInvalidCaseFields, usecase.ErrInvalidReport:
		response.BadRequest(w, err.Error())
	case usecase.ErrCaseNotFound:
		response.NotFound(w, "Case not found")
	case usecase.ErrCaseNotAvailable:
		response.NotFound(w, "Case not available")
	case usecase.ErrCaseForbidden:
		response.Forbidden(w, "Case is not assigned to you")
	default:
		response.InternalServerError(w, fallback)
	}
}
