package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the immutable kind of account a user holds.
type Role string

const (
	RoleCenter      Role = "CENTER"
	RoleRadiologist Role = "RADIOLOGIST"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleCenter || r == RoleRadiologist
}

// User represents the centralized authentication table
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	RadiologistProfile *RadiologistProfile `gorm:"foreignKey:UserID" json:"radiologist_profile,omitempty"`
	CenterProfile      *CenterProfile      `gorm:"foreignKey:UserID" json:"center_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the profile name for the user's role, or the email when no
// profile is loaded.
func (u *User) DisplayName() string {
	switch {
	case u.RadiologistProfile != nil && u.RadiologistProfile.Name != "":
		return u.RadiologistProfile.Name
	case u.CenterProfile != nil && u.CenterProfile.Name != "":
		return u.CenterProfile.Name
	default:
		return u.Email
	}
}
