package converter

import (
	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/entity"

	"github.com/google/uuid"
)

// CaseToResponse flattens a case and its preloaded creator, assignee and report into
// the joined case view.
func CaseToResponse(c *entity.Case) *dto.CaseResponse {
	if c == nil {
		return nil
	}

	response := &dto.CaseResponse{
		ID:              c.ID,
		PatientName:     c.PatientName,
		PatientAge:      c.PatientAge,
		Modality:        c.Modality,
		ImageURL:        c.ImageURL,
		ClinicalHistory: c.ClinicalHistory,
		Status:          string(c.Status),
		Priority:        string(c.Priority),
		CreatorID:       c.CreatorID,
		AssigneeID:      c.AssigneeID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if c.Creator.ID != uuid.Nil {
		response.CreatorEmail = c.Creator.Email
		if c.Creator.CenterProfile != nil {
			response.CenterName = c.Creator.CenterProfile.Name
		}
	}

	if c.Assignee != nil {
		response.AssigneeEmail = c.Assignee.Email
		if c.Assignee.RadiologistProfile != nil {
			response.RadiologistName = c.Assignee.RadiologistProfile.Name
		}
	}

	if c.Report != nil {
		response.Findings = c.Report.Findings
		response.Impression = c.Report.Impression
	}

	return response
}

// CasesToResponses converts a slice of Case entities to slice of CaseResponse DTOs
func CasesToResponses(cases []entity.Case) []dto.CaseResponse {
	responses := make([]dto.CaseResponse, len(cases))
	for i := range cases {
		responses[i] = *CaseToResponse(&cases[i])
	}
	return responses
}
