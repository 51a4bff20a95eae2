package database_test

import (
	"testing"

	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/infrastructure/database"
	"teleradiology-case-routing/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestSeed_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	first, err := database.Seed(db)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if first.Radiologists != 5 || first.Centers != 2 || first.Cases != 10 {
		t.Fatalf("unexpected first seed result: %+v", first)
	}

	second, err := database.Seed(db)
	if err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	if second.Radiologists != 0 || second.Centers != 0 || second.Cases != 0 {
		t.Fatalf("expected second run to insert nothing, got %+v", second)
	}

	var pending int64
	db.Model(&entity.Case{}).Where("status = ? AND assignee_id IS NULL", entity.CaseStatusPending).Count(&pending)
	if pending != 10 {
		t.Fatalf("expected 10 unassigned pending cases, got %d", pending)
	}

	var available int64
	db.Model(&entity.RadiologistProfile{}).Where("is_available = ?", true).Count(&available)
	if available != 0 {
		t.Fatalf("expected seeded radiologists to start unavailable, got %d", available)
	}

	var user entity.User
	if err := db.Where("role = ?", entity.RoleRadiologist).First(&user).Error; err != nil {
		t.Fatalf("load radiologist: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(database.SeedPassword)); err != nil {
		t.Fatal("expected seeded accounts to use the seed password")
	}
}
