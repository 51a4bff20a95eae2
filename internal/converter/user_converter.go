package converter

import (
	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
// Includes RadiologistProfile and CenterProfile if they are loaded
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.DisplayName(),
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.RadiologistProfile != nil {
		response.RadiologistProfile = RadiologistProfileToResponse(user.RadiologistProfile)
	}

	if user.CenterProfile != nil {
		response.CenterProfile = &dto.CenterProfileResponse{
			Name:    user.CenterProfile.Name,
			Address: user.CenterProfile.Address,
			Phone:   user.CenterProfile.Phone,
			License: user.CenterProfile.License,
		}
	}

	return response
}

func RadiologistProfileToResponse(profile *entity.RadiologistProfile) *dto.RadiologistProfileResponse {
	if profile == nil {
		return nil
	}

	specialties := []string(profile.Specialties)
	if specialties == nil {
		specialties = []string{}
	}

	return &dto.RadiologistProfileResponse{
		Name:           profile.Name,
		Qualification:  profile.Qualification,
		Specialization: profile.Specialization,
		LicenseNumber:  profile.LicenseNumber,
		Experience:     profile.Experience,
		Phone:          profile.Phone,
		IsAvailable:    profile.IsAvailable,
		LastActive:     profile.LastActive,
		Specialties:    specialties,
	}
}
