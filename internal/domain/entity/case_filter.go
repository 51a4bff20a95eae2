package entity

import "github.com/google/uuid"

// CaseFilter is a domain-level filter for listing cases.
// Used by repository layer to avoid coupling with delivery DTOs.
type CaseFilter struct {
	ViewerID   uuid.UUID
	ViewerRole Role
}
