package repository

import (
	"context"
	"errors"

	"teleradiology-case-routing/internal/domain/entity"
	domainRepo "teleradiology-case-routing/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type caseRepository struct{}

func NewCaseRepository() domainRepo.CaseRepository {
	return &caseRepository{}
}

func (r *caseRepository) Create(ctx context.Context, db *gorm.DB, c *entity.Case) error {
	return db.WithContext(ctx).Omit("Creator", "Assignee", "Report").Create(c).Error
}

// withView preloads what the case view needs: creator and assignee with their
// profiles, and the report.
func withView(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Creator.CenterProfile").
		Preload("Assignee.RadiologistProfile").
		Preload("Report")
}

func (r *caseRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Case, error) {
	var c entity.Case
	err := withView(db.WithContext(ctx)).Where("cases.id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindAll lists the cases visible to the filter's viewer, newest first.
// Centers see their own cases; radiologists see every pending case plus the ones
// assigned to them. An unknown role sees nothing.
func (r *caseRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.CaseFilter) ([]entity.Case, error) {
	query := withView(db.WithContext(ctx))

	if filter != nil {
		switch filter.ViewerRole {
		case entity.RoleCenter:
			query = query.Where("cases.creator_id = ?", filter.ViewerID)
		case entity.RoleRadiologist:
			query = query.Where("(cases.status = ? OR cases.assignee_id = ?)", entity.CaseStatusPending, filter.ViewerID)
		default:
			return []entity.Case{}, nil
		}
	}

	var cases []entity.Case
	err := query.Order("cases.created_at DESC").Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

// Assign atomically claims a case ONLY if it is still pending.
// Returns affected rows: 1 = claimed, 0 = missing or already taken (prevents double-accept race).
func (r *caseRepository) Assign(ctx context.Context, db *gorm.DB, id, radiologistID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Case{}).
		Where("id = ? AND status = ?", id, entity.CaseStatusPending).
		Updates(map[string]interface{}{
			"status":      entity.CaseStatusAssigned,
			"assignee_id": radiologistID,
		})
	return result.RowsAffected, result.Error
}

// Complete atomically closes a case ONLY if it is assigned to the given radiologist.
// Returns affected rows: 1 = completed, 0 = wrong state or wrong assignee.
func (r *caseRepository) Complete(ctx context.Context, db *gorm.DB, id, radiologistID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Case{}).
		Where("id = ? AND assignee_id = ? AND status = ?", id, radiologistID, entity.CaseStatusAssigned).
		Update("status", entity.CaseStatusCompleted)
	return result.RowsAffected, result.Error
}
