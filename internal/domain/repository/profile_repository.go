package repository

import (
	"context"
	"time"

	"teleradiology-case-routing/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RadiologistProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.RadiologistProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.RadiologistProfile, error)
	FindAvailable(ctx context.Context, db *gorm.DB) ([]entity.RadiologistProfile, error)
	UpdateAvailability(ctx context.Context, db *gorm.DB, userID uuid.UUID, available bool) (int64, error)
	TouchLastActive(ctx context.Context, db *gorm.DB, userID uuid.UUID, at time.Time) error
}

type CenterProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.CenterProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.CenterProfile, error)
}
