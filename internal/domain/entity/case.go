package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseStatus represents the lifecycle state of a case.
// It only moves forward: PENDING -> ASSIGNED -> COMPLETED.
type CaseStatus string

const (
	CaseStatusPending   CaseStatus = "PENDING"
	CaseStatusAssigned  CaseStatus = "ASSIGNED"
	CaseStatusCompleted CaseStatus = "COMPLETED"
)

// CasePriority represents how urgently a case should be read
type CasePriority string

const (
	CasePriorityRoutine   CasePriority = "ROUTINE"
	CasePriorityUrgent    CasePriority = "URGENT"
	CasePriorityEmergency CasePriority = "EMERGENCY"
)

// IsValid reports whether p is one of the known priorities.
func (p CasePriority) IsValid() bool {
	switch p {
	case CasePriorityRoutine, CasePriorityUrgent, CasePriorityEmergency:
		return true
	}
	return false
}

// Case represents an imaging study uploaded by a center for reporting
type Case struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	PatientName     string       `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientAge      int          `gorm:"not null" json:"patient_age"`
	Modality        string       `gorm:"type:varchar(100);not null;index" json:"modality"`
	ImageURL        string       `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	ClinicalHistory string       `gorm:"type:text" json:"clinical_history,omitempty"`
	Status          CaseStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Priority        CasePriority `gorm:"type:varchar(20);not null" json:"priority"`
	CreatorID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"creator_id"`
	AssigneeID      *uuid.UUID   `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	CreatedAt       time.Time    `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Creator  User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Report   *Report `gorm:"foreignKey:CaseID" json:"report,omitempty"`
}

func (Case) TableName() string {
	return "cases"
}

func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsPending checks if case is waiting for a radiologist
func (c *Case) IsPending() bool {
	return c.Status == CaseStatusPending
}

// IsAssigned checks if case has been accepted and awaits a report
func (c *Case) IsAssigned() bool {
	return c.Status == CaseStatusAssigned
}

// IsCompleted checks if case has a report
func (c *Case) IsCompleted() bool {
	return c.Status == CaseStatusCompleted
}

// IsAssignedTo reports whether userID is the case's assignee.
func (c *Case) IsAssignedTo(userID uuid.UUID) bool {
	return c.AssigneeID != nil && *c.AssigneeID == userID
}

// VisibleTo applies the listing rule to a single case: centers see their own cases,
// radiologists see pending cases and the ones assigned to them.
func (c *Case) VisibleTo(userID uuid.UUID, role Role) bool {
	switch role {
	case RoleCenter:
		return c.CreatorID == userID
	case RoleRadiologist:
		return c.IsPending() || c.IsAssignedTo(userID)
	}
	return false
}

// Assign moves a pending case to ASSIGNED for the given radiologist
func (c *Case) Assign(radiologistID uuid.UUID) bool {
	if !c.IsPending() {
		return false
	}
	c.Status = CaseStatusAssigned
	c.AssigneeID = &radiologistID
	return true
}

// Complete moves an assigned case to COMPLETED
func (c *Case) Complete() bool {
	if !c.IsAssigned() {
		return false
	}
	c.Status = CaseStatusCompleted
	return true
}
