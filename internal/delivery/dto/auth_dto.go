package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// RegisterCenterRequest is the diagnostic center signup form
type RegisterCenterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2"`
	Address  string `json:"address" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,min=6,max=20"`
	License  string `json:"license_number" validate:"required"`
}

// RegisterRadiologistRequest is the radiologist signup form
type RegisterRadiologistRequest struct {
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,min=6"`
	Name           string   `json:"name" validate:"required,min=2"`
	Qualification  string   `json:"qualification" validate:"required"`
	Specialization string   `json:"specialization" validate:"required"`
	LicenseNumber  string   `json:"license_number" validate:"required"`
	Experience     int      `json:"experience" validate:"gte=0,lte=80"`
	Phone          string   `json:"phone" validate:"omitempty,min=6,max=20"`
	Specialties    []string `json:"specialties" validate:"required,min=1,dive,required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID                 uuid.UUID                   `json:"id"`
	Email              string                      `json:"email"`
	Name               string                      `json:"name"`
	Role               string                      `json:"role"`
	RadiologistProfile *RadiologistProfileResponse `json:"radiologist_profile,omitempty"`
	CenterProfile      *CenterProfileResponse      `json:"center_profile,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

type CenterProfileResponse struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	License string `json:"license_number"`
}
