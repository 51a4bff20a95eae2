package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/infrastructure/realtime"
	"teleradiology-case-routing/internal/repository"
	"teleradiology-case-routing/internal/testutil"

	"github.com/google/uuid"
)

type recordingPublisher struct {
	mu     sync.Mutex
	online map[uuid.UUID]bool
	sent   map[uuid.UUID][]string
}

func newRecordingPublisher(online ...uuid.UUID) *recordingPublisher {
	p := &recordingPublisher{online: map[uuid.UUID]bool{}, sent: map[uuid.UUID][]string{}}
	for _, id := range online {
		p.online[id] = true
	}
	return p
}

func (p *recordingPublisher) Send(userID uuid.UUID, event realtime.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online[userID] {
		return false
	}
	p.sent[userID] = append(p.sent[userID], event.Type)
	return true
}

func TestNotificationService_NotifyNewCase(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	match := testutil.CreateRadiologist(t, db, "match@test.com", true, "  MRI   Brain ")
	offline := testutil.CreateRadiologist(t, db, "offline@test.com", true, "MRI Brain")
	away := testutil.CreateRadiologist(t, db, "away@test.com", false, "MRI Brain")
	other := testutil.CreateRadiologist(t, db, "other@test.com", true, "MRI Brain Spine")

	publisher := newRecordingPublisher(match.ID, away.ID, other.ID)
	svc := NewNotificationService(db, testutil.NewLogger(), publisher, repository.NewRadiologistProfileRepository())

	delivered, err := svc.NotifyNewCase(ctx, &dto.CaseResponse{ID: uuid.New(), Modality: "mri brain"})
	if err != nil {
		t.Fatalf("NotifyNewCase: %v", err)
	}
	if delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}
	if got := publisher.sent[match.ID]; len(got) != 1 || got[0] != realtime.EventNewCase {
		t.Fatalf("expected NEW_CASE for matching radiologist, got %v", got)
	}
	for _, id := range []uuid.UUID{offline.ID, away.ID, other.ID} {
		if len(publisher.sent[id]) != 0 {
			t.Errorf("expected no event for %s", id)
		}
	}
}

func TestNotificationService_NotifyCreatorAndDisconnect(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	center := testutil.CreateCenter(t, db, "center@test.com")
	rad := testutil.CreateRadiologist(t, db, "rad@test.com", true, "CT Head")

	publisher := newRecordingPublisher(center.ID)
	svc := NewNotificationService(db, testutil.NewLogger(), publisher, repository.NewRadiologistProfileRepository())

	view := &dto.CaseResponse{ID: uuid.New(), CreatorID: center.ID}
	if !svc.NotifyCaseAccepted(ctx, view) || !svc.NotifyReportCompleted(ctx, view) {
		t.Fatal("expected both events delivered to the connected center")
	}
	if got := publisher.sent[center.ID]; len(got) != 2 || got[0] != realtime.EventCaseAccepted || got[1] != realtime.EventReportCompleted {
		t.Fatalf("unexpected events %v", got)
	}

	if svc.NotifyCaseAccepted(ctx, &dto.CaseResponse{ID: uuid.New(), CreatorID: uuid.New()}) {
		t.Fatal("expected delivery to an offline center to report false")
	}

	before := rad.RadiologistProfile.LastActive
	if err := svc.RecordDisconnect(ctx, rad.ID); err != nil {
		t.Fatalf("RecordDisconnect: %v", err)
	}
	var profile entity.RadiologistProfile
	if err := db.First(&profile, "user_id = ?", rad.ID).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if !profile.LastActive.After(before) || time.Since(profile.LastActive) > time.Minute {
		t.Fatalf("expected last_active refreshed, got %s (was %s)", profile.LastActive, before)
	}
}
