package dto

import "time"

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type RadiologistProfileResponse struct {
	Name           string    `json:"name"`
	Qualification  string    `json:"qualification,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	LicenseNumber  string    `json:"license_number"`
	Experience     int       `json:"experience"`
	Phone          string    `json:"phone,omitempty"`
	IsAvailable    bool      `json:"is_available"`
	LastActive     time.Time `json:"last_active"`
	Specialties    []string  `json:"specialties"`
}

type AvailabilityResponse struct {
	IsAvailable bool      `json:"is_available"`
	LastActive  time.Time `json:"last_active"`
}
