package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateCaseRequest struct {
	PatientName     string `json:"patient_name" validate:"required,min=1,max=255"`
	PatientAge      int    `json:"patient_age" validate:"gte=0,lte=150"`
	Modality        string `json:"modality" validate:"required,max=100"`
	ImageURL        string `json:"image_url" validate:"omitempty,url"`
	ClinicalHistory string `json:"clinical_history" validate:"omitempty"`
	Priority        string `json:"priority" validate:"required,oneof=ROUTINE URGENT EMERGENCY"`
}

type SubmitReportRequest struct {
	Findings   string `json:"findings" validate:"required"`
	Impression string `json:"impression" validate:"required"`
}

// Response DTOs

// CaseResponse is the joined case view shared by the REST API and live events.
type CaseResponse struct {
	ID              uuid.UUID  `json:"id"`
	PatientName     string     `json:"patient_name"`
	PatientAge      int        `json:"patient_age"`
	Modality        string     `json:"modality"`
	ImageURL        string     `json:"image_url,omitempty"`
	ClinicalHistory string     `json:"clinical_history,omitempty"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	CreatorID       uuid.UUID  `json:"creator_id"`
	CreatorEmail    string     `json:"creator_email,omitempty"`
	CenterName      string     `json:"center_name,omitempty"`
	AssigneeID      *uuid.UUID `json:"assignee_id,omitempty"`
	AssigneeEmail   string     `json:"assignee_email,omitempty"`
	RadiologistName string     `json:"radiologist_name,omitempty"`
	Findings        string     `json:"findings,omitempty"`
	Impression      string     `json:"impression,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CaseListResponse struct {
	Cases []CaseResponse `json:"cases"`
	Total int            `json:"total"`
}
