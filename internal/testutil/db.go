// Package testutil holds fixtures shared by package tests. It is only imported from
// _test.go files.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with the full schema migrated.
// Unique violations surface as gorm.ErrDuplicatedKey.
// The pool is limited to one connection so concurrent transactions serialize the way
// row locks would on postgres.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewLogger returns a logger that discards everything below panic level.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// Password is the plain-text password of users created by the helpers below.
const Password = "password123"

func hash(t *testing.T) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(b)
}

// CreateCenter inserts a center user with its profile.
func CreateCenter(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, Password: hash(t), Role: entity.RoleCenter}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create center user: %v", err)
	}
	profile := &entity.CenterProfile{
		UserID:  user.ID,
		Name:    "Center " + email,
		Address: "1 Test Street",
		License: "LIC-" + uuid.NewString()[:8],
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create center profile: %v", err)
	}
	user.CenterProfile = profile
	return user
}

// CreateRadiologist inserts a radiologist user with its profile.
func CreateRadiologist(t *testing.T, db *gorm.DB, email string, available bool, specialties ...string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, Password: hash(t), Role: entity.RoleRadiologist}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create radiologist user: %v", err)
	}
	profile := &entity.RadiologistProfile{
		UserID:        user.ID,
		Name:          "Dr. " + email,
		LicenseNumber: "RAD-" + uuid.NewString()[:8],
		Experience:    5,
		LastActive:    time.Now().Add(-time.Hour),
		Specialties:   entity.NewSpecialties(specialties),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create radiologist profile: %v", err)
	}
	if available {
		if err := db.Model(profile).Update("is_available", true).Error; err != nil {
			t.Fatalf("set availability: %v", err)
		}
		profile.IsAvailable = true
	}
	user.RadiologistProfile = profile
	return user
}

// CreateCase inserts a case with the given status directly, bypassing the usecase.
func CreateCase(t *testing.T, db *gorm.DB, creatorID uuid.UUID, modality string, status entity.CaseStatus, assignee *uuid.UUID, createdAt time.Time) *entity.Case {
	t.Helper()

	c := &entity.Case{
		PatientName: "Patient " + modality,
		PatientAge:  40,
		Modality:    modality,
		Priority:    entity.CasePriorityRoutine,
		Status:      status,
		CreatorID:   creatorID,
		AssigneeID:  assignee,
		CreatedAt:   createdAt,
	}
	if err := db.WithContext(context.Background()).Omit("Creator", "Assignee", "Report").Create(c).Error; err != nil {
		t.Fatalf("create case: %v", err)
	}
	return c
}
