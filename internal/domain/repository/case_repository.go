package repository

import (
	"context"

	"teleradiology-case-routing/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaseRepository interface {
	Create(ctx context.Context, db *gorm.DB, c *entity.Case) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Case, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.CaseFilter) ([]entity.Case, error)
	Assign(ctx context.Context, db *gorm.DB, id, radiologistID uuid.UUID) (int64, error)
	Complete(ctx context.Context, db *gorm.DB, id, radiologistID uuid.UUID) (int64, error)
}

type ReportRepository interface {
	Create(ctx context.Context, db *gorm.DB, report *entity.Report) error
	FindByCaseID(ctx context.Context, db *gorm.DB, caseID uuid.UUID) (*entity.Report, error)
}
