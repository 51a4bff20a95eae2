package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is the radiologist's read of a case. At most one per case.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"case_id"`
	Findings   string    `gorm:"type:text;not null" json:"findings"`
	Impression string    `gorm:"type:text;not null" json:"impression"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
