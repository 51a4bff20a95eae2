package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RadiologistProfile represents radiologist-specific profile data
type RadiologistProfile struct {
	UserID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name           string      `gorm:"type:varchar(255);not null" json:"name"`
	Qualification  string      `gorm:"type:varchar(255)" json:"qualification,omitempty"`
	Specialization string      `gorm:"type:varchar(100);index" json:"specialization,omitempty"`
	LicenseNumber  string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"license_number"`
	Experience     int         `gorm:"not null;default:0" json:"experience"`
	Phone          string      `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsAvailable    bool        `gorm:"not null;default:false;index" json:"is_available"`
	LastActive     time.Time   `gorm:"not null" json:"last_active"`
	Specialties    Specialties `gorm:"type:text" json:"specialties"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (RadiologistProfile) TableName() string {
	return "radiologist_profiles"
}

func (p *RadiologistProfile) BeforeCreate(tx *gorm.DB) error {
	if p.LastActive.IsZero() {
		p.LastActive = time.Now()
	}
	return nil
}

// CanReceive reports whether the radiologist should be offered a case of the given
// modality: they must be available and list the modality among their specialties.
func (p *RadiologistProfile) CanReceive(modality string) bool {
	return p.IsAvailable && p.Specialties.Contains(modality)
}

// Specialties is a set of specialty tags persisted as a JSON list in a text column.
type Specialties []string

// NormalizeSpecialty folds a tag to its comparison form: lower case, trimmed,
// inner whitespace collapsed to single spaces.
func NormalizeSpecialty(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// NewSpecialties trims the given tags and drops blanks and duplicates (compared in
// normalized form), keeping the first spelling seen.
func NewSpecialties(tags []string) Specialties {
	seen := make(map[string]struct{}, len(tags))
	out := make(Specialties, 0, len(tags))
	for _, tag := range tags {
		key := NormalizeSpecialty(tag)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.Join(strings.Fields(tag), " "))
	}
	return out
}

// Contains is an exact set-membership test on normalized tags.
// "CT Head" does not match "CT Head and Neck".
func (s Specialties) Contains(tag string) bool {
	key := NormalizeSpecialty(tag)
	if key == "" {
		return false
	}
	for _, have := range s {
		if NormalizeSpecialty(have) == key {
			return true
		}
	}
	return false
}

// Value returns json value, implement driver.Valuer interface
func (s Specialties) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan scan value into Specialties, implements sql.Scanner interface
func (s *Specialties) Scan(value interface{}) error {
	if value == nil {
		*s = Specialties{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal specialties value:", value))
	}

	if len(bytes) == 0 {
		*s = Specialties{}
		return nil
	}

	var tags []string
	if err := json.Unmarshal(bytes, &tags); err != nil {
		return err
	}
	*s = Specialties(tags)
	return nil
}
