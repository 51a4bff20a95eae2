package entity

import "github.com/google/uuid"

// CenterProfile represents diagnostic center profile data.
// Rows are written once at signup and never updated.
type CenterProfile struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name    string    `gorm:"type:varchar(255);not null" json:"name"`
	Address string    `gorm:"type:text" json:"address,omitempty"`
	Phone   string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	License string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"license"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (CenterProfile) TableName() string {
	return "center_profiles"
}
