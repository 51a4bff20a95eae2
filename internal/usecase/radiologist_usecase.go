package usecase

import (
	"context"
	"errors"

	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/domain/repository"
	"teleradiology-case-routing/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrRadiologistNotFound = errors.New("radiologist not found")

type RadiologistUsecase interface {
	GetAvailability(ctx context.Context, userID uuid.UUID) (*dto.AvailabilityResponse, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error)
}

type radiologistUsecase struct {
	db                     *gorm.DB
	log                    *logrus.Logger
	radiologistProfileRepo repository.RadiologistProfileRepository
	auditService           service.AuditService
}

func NewRadiologistUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	radiologistProfileRepo repository.RadiologistProfileRepository,
	auditService service.AuditService,
) RadiologistUsecase {
	return &radiologistUsecase{
		db:                     db,
		log:                    log,
		radiologistProfileRepo: radiologistProfileRepo,
		auditService:           auditService,
	}
}

func (u *radiologistUsecase) GetAvailability(ctx context.Context, userID uuid.UUID) (*dto.AvailabilityResponse, error) {
	profile, err := u.radiologistProfileRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find radiologist profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrRadiologistNotFound
	}

	return &dto.AvailabilityResponse{
		IsAvailable: profile.IsAvailable,
		LastActive:  profile.LastActive,
	}, nil
}

// SetAvailability toggles whether the radiologist is offered new cases. Cases already
// assigned to them are unaffected.
func (u *radiologistUsecase) SetAvailability(ctx context.Context, userID uuid.UUID, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.radiologistProfileRepo.FindByUserID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find radiologist profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrRadiologistNotFound
	}

	available := *req.IsAvailable
	if _, err := u.radiologistProfileRepo.UpdateAvailability(ctx, tx, userID, available); err != nil {
		u.log.Warnf("Failed to update availability: %+v", err)
		return nil, err
	}

	if profile.IsAvailable != available {
		if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionRadiologistAvailability, entity.AuditEntityRadiologist, userID.String(),
			map[string]interface{}{"is_available": profile.IsAvailable},
			map[string]interface{}{"is_available": available},
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.AvailabilityResponse{
		IsAvailable: available,
		LastActive:  profile.LastActive,
	}, nil
}
