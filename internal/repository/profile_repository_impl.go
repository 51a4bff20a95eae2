package repository

import (
	"context"
	"errors"
	"time"

	"teleradiology-case-routing/internal/domain/entity"
	domainRepo "teleradiology-case-routing/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Radiologist Profile Repository

type radiologistProfileRepository struct{}

func NewRadiologistProfileRepository() domainRepo.RadiologistProfileRepository {
	return &radiologistProfileRepository{}
}

func (r *radiologistProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.RadiologistProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *radiologistProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.RadiologistProfile, error) {
	var profile entity.RadiologistProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAvailable returns every radiologist currently accepting cases.
// Specialty matching happens on the loaded rows, not in SQL.
func (r *radiologistProfileRepository) FindAvailable(ctx context.Context, db *gorm.DB) ([]entity.RadiologistProfile, error) {
	var profiles []entity.RadiologistProfile
	err := db.WithContext(ctx).Where("is_available = ?", true).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *radiologistProfileRepository) UpdateAvailability(ctx context.Context, db *gorm.DB, userID uuid.UUID, available bool) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.RadiologistProfile{}).
		Where("user_id = ?", userID).
		Update("is_available", available)
	return result.RowsAffected, result.Error
}

func (r *radiologistProfileRepository) TouchLastActive(ctx context.Context, db *gorm.DB, userID uuid.UUID, at time.Time) error {
	return db.WithContext(ctx).Model(&entity.RadiologistProfile{}).
		Where("user_id = ?", userID).
		Update("last_active", at).Error
}

// Center Profile Repository

type centerProfileRepository struct{}

func NewCenterProfileRepository() domainRepo.CenterProfileRepository {
	return &centerProfileRepository{}
}

func (r *centerProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.CenterProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *centerProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.CenterProfile, error) {
	var profile entity.CenterProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
