package usecase

import (
	"context"
	"errors"
	"testing"

	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/repository"
	"teleradiology-case-routing/internal/service"
	"teleradiology-case-routing/internal/testutil"

	"github.com/google/uuid"
)

func TestRadiologistUsecase_SetAvailability(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	uc := NewRadiologistUsecase(db, log, repository.NewRadiologistProfileRepository(),
		service.NewAuditService(db, log, repository.NewAuditLogRepository()))
	ctx := context.Background()

	rad := testutil.CreateRadiologist(t, db, "rad@test.com", false, "MRI Brain")

	on := true
	got, err := uc.SetAvailability(ctx, rad.ID, &dto.SetAvailabilityRequest{IsAvailable: &on})
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if !got.IsAvailable {
		t.Fatal("expected available")
	}

	// Setting the same value again is a no-op for the audit trail.
	if _, err := uc.SetAvailability(ctx, rad.ID, &dto.SetAvailabilityRequest{IsAvailable: &on}); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}

	current, err := uc.GetAvailability(ctx, rad.ID)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if !current.IsAvailable {
		t.Fatal("expected availability to persist")
	}

	var audits int64
	db.Model(&entity.AuditLog{}).
		Where("entity = ? AND entity_id = ?", entity.AuditEntityRadiologist, rad.ID.String()).
		Count(&audits)
	if audits != 1 {
		t.Fatalf("expected one availability audit, got %d", audits)
	}

	if _, err := uc.GetAvailability(ctx, uuid.New()); !errors.Is(err, ErrRadiologistNotFound) {
		t.Fatalf("expected ErrRadiologistNotFound, got %v", err)
	}
}
