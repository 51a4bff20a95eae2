package repository

import (
	"context"
	"errors"

	"teleradiology-case-routing/internal/domain/entity"
	domainRepo "teleradiology-case-routing/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reportRepository struct{}

func NewReportRepository() domainRepo.ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) Create(ctx context.Context, db *gorm.DB, report *entity.Report) error {
	return db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindByCaseID(ctx context.Context, db *gorm.DB, caseID uuid.UUID) (*entity.Report, error) {
	var report entity.Report
	err := db.WithContext(ctx).Where("case_id = ?", caseID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}
