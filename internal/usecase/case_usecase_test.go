package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/infrastructure/realtime"
	"teleradiology-case-routing/internal/repository"
	"teleradiology-case-routing/internal/service"
	"teleradiology-case-routing/internal/testutil"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type caseFixture struct {
	db      *gorm.DB
	hub     *realtime.Hub
	usecase CaseUsecase
}

func newCaseFixture(t *testing.T) *caseFixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	hub := realtime.NewHub(log)
	t.Cleanup(hub.Close)

	auditService := service.NewAuditService(db, log, repository.NewAuditLogRepository())
	notifier := service.NewNotificationService(db, log, hub, repository.NewRadiologistProfileRepository())

	return &caseFixture{
		db:  db,
		hub: hub,
		usecase: NewCaseUsecase(
			db,
			log,
			repository.NewCaseRepository(),
			repository.NewReportRepository(),
			auditService,
			notifier,
		),
	}
}

func (f *caseFixture) connect(userID uuid.UUID, role entity.Role) *realtime.Client {
	client := realtime.NewClient(userID, string(role), 16)
	f.hub.Register(client)
	return client
}

func receive(t *testing.T, client *realtime.Client) (string, dto.CaseResponse) {
	t.Helper()

	select {
	case data := <-client.Send:
		var msg struct {
			Type string           `json:"type"`
			Data dto.CaseResponse `json:"data"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		return msg.Type, msg.Data
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
	return "", dto.CaseResponse{}
}

func assertSilent(t *testing.T, client *realtime.Client) {
	t.Helper()

	select {
	case data := <-client.Send:
		t.Fatalf("expected no event, got %s", data)
	default:
	}
}

func mriRequest() *dto.CreateCaseRequest {
	return &dto.CreateCaseRequest{
		PatientName:     "John Doe",
		PatientAge:      45,
		Modality:        "MRI Brain",
		ClinicalHistory: "Headache",
		Priority:        "URGENT",
	}
}

func TestCaseUsecase_CreateCaseNotifiesEligibleRadiologists(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	center := testutil.CreateCenter(t, f.db, "center@test.com")
	neuro := testutil.CreateRadiologist(t, f.db, "neuro@test.com", true, "mri brain", "CT Head")
	testutil.CreateRadiologist(t, f.db, "offline@test.com", true, "MRI Brain")
	unavailable := testutil.CreateRadiologist(t, f.db, "away@test.com", false, "MRI Brain")
	cardiac := testutil.CreateRadiologist(t, f.db, "cardiac@test.com", true, "Cardiac CT", "MRI Brain and Spine")

	neuroConn := f.connect(neuro.ID, entity.RoleRadiologist)
	awayConn := f.connect(unavailable.ID, entity.RoleRadiologist)
	cardiacConn := f.connect(cardiac.ID, entity.RoleRadiologist)

	created, err := f.usecase.CreateCase(ctx, center.ID, mriRequest())
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if created.Status != string(entity.CaseStatusPending) || created.AssigneeID != nil {
		t.Fatalf("expected unassigned pending case, got %+v", created)
	}
	if created.CenterName != center.CenterProfile.Name || created.CreatorEmail != center.Email {
		t.Errorf("expected joined creator fields, got %+v", created)
	}

	eventType, data := receive(t, neuroConn)
	if eventType != realtime.EventNewCase || data.ID != created.ID {
		t.Fatalf("unexpected event %s for %s", eventType, data.ID)
	}
	assertSilent(t, awayConn)
	// "MRI Brain" is not a member of {"Cardiac CT", "MRI Brain and Spine"}.
	assertSilent(t, cardiacConn)
}

func TestCaseUsecase_CreateCaseValidation(t *testing.T) {
	f := newCaseFixture(t)
	center := testutil.CreateCenter(t, f.db, "center@test.com")

	tests := []struct {
		name   string
		mutate func(*dto.CreateCaseRequest)
	}{
		{"missing patient", func(r *dto.CreateCaseRequest) { r.PatientName = "  " }},
		{"missing modality", func(r *dto.CreateCaseRequest) { r.Modality = "" }},
		{"unknown priority", func(r *dto.CreateCaseRequest) { r.Priority = "LOW" }},
		{"negative age", func(r *dto.CreateCaseRequest) { r.PatientAge = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mriRequest()
			tt.mutate(req)
			if _, err := f.usecase.CreateCase(context.Background(), center.ID, req); !errors.Is(err, ErrInvalidCaseFields) {
				t.Fatalf("expected ErrInvalidCaseFields, got %v", err)
			}
		})
	}

	var count int64
	f.db.Model(&entity.Case{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no cases persisted, got %d", count)
	}
}

func TestCaseUsecase_Lifecycle(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	center := testutil.CreateCenter(t, f.db, "center@test.com")
	r1 := testutil.CreateRadiologist(t, f.db, "r1@test.com", true, "MRI Brain")
	r2 := testutil.CreateRadiologist(t, f.db, "r2@test.com", true, "MRI Brain")

	centerConn := f.connect(center.ID, entity.RoleCenter)
	r1Conn := f.connect(r1.ID, entity.RoleRadiologist)
	r2Conn := f.connect(r2.ID, entity.RoleRadiologist)

	created, err := f.usecase.CreateCase(ctx, center.ID, mriRequest())
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	receive(t, r1Conn)
	receive(t, r2Conn)

	accepted, err := f.usecase.AcceptCase(ctx, created.ID, r1.ID)
	if err != nil {
		t.Fatalf("AcceptCase: %v", err)
	}
	if accepted.Status != string(entity.CaseStatusAssigned) || accepted.AssigneeID == nil || *accepted.AssigneeID != r1.ID {
		t.Fatalf("expected case assigned to r1, got %+v", accepted)
	}
	if accepted.RadiologistName != r1.RadiologistProfile.Name {
		t.Errorf("expected radiologist name %q, got %q", r1.RadiologistProfile.Name, accepted.RadiologistName)
	}
	if eventType, _ := receive(t, centerConn); eventType != realtime.EventCaseAccepted {
		t.Fatalf("expected CASE_ACCEPTED, got %s", eventType)
	}

	if _, err := f.usecase.AcceptCase(ctx, created.ID, r2.ID); !errors.Is(err, ErrCaseNotAvailable) {
		t.Fatalf("expected ErrCaseNotAvailable for second accept, got %v", err)
	}

	report := &dto.SubmitReportRequest{Findings: "Normal study", Impression: "No acute findings"}
	if _, err := f.usecase.SubmitReport(ctx, created.ID, r2.ID, report); !errors.Is(err, ErrCaseForbidden) {
		t.Fatalf("expected ErrCaseForbidden for non-assignee, got %v", err)
	}

	completed, err := f.usecase.SubmitReport(ctx, created.ID, r1.ID, report)
	if err != nil {
		t.Fatalf("SubmitReport: %v", err)
	}
	if completed.Status != string(entity.CaseStatusCompleted) || completed.Findings != "Normal study" || completed.Impression != "No acute findings" {
		t.Fatalf("unexpected completed case: %+v", completed)
	}
	eventType, data := receive(t, centerConn)
	if eventType != realtime.EventReportCompleted || data.Findings != "Normal study" {
		t.Fatalf("expected REPORT_COMPLETED with findings, got %s %+v", eventType, data)
	}

	if _, err := f.usecase.SubmitReport(ctx, created.ID, r1.ID, report); !errors.Is(err, ErrCaseNotAvailable) {
		t.Fatalf("expected ErrCaseNotAvailable for second report, got %v", err)
	}
	if _, err := f.usecase.SubmitReport(ctx, uuid.New(), r1.ID, report); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}

	var reports int64
	f.db.Model(&entity.Report{}).Where("case_id = ?", created.ID).Count(&reports)
	if reports != 1 {
		t.Fatalf("expected exactly one report, got %d", reports)
	}

	history, err := f.usecase.CaseHistory(ctx, created.ID, center.ID, entity.RoleCenter)
	if err != nil {
		t.Fatalf("CaseHistory: %v", err)
	}
	wantActions := []string{entity.AuditActionCaseCreate, entity.AuditActionCaseAccept, entity.AuditActionReportSubmit}
	if len(history) != len(wantActions) {
		t.Fatalf("expected %d audit entries, got %d", len(wantActions), len(history))
	}
	for i, action := range wantActions {
		if history[i].Action != action {
			t.Errorf("entry %d: expected %s, got %s", i, action, history[i].Action)
		}
	}
}

func TestCaseUsecase_SubmitReportOnPendingCase(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	center := testutil.CreateCenter(t, f.db, "center@test.com")
	rad := testutil.CreateRadiologist(t, f.db, "rad@test.com", true, "MRI Brain")
	pending := testutil.CreateCase(t, f.db, center.ID, "MRI Brain", entity.CaseStatusPending, nil, time.Now())

	_, err := f.usecase.SubmitReport(ctx, pending.ID, rad.ID, &dto.SubmitReportRequest{Findings: "x", Impression: "y"})
	if !errors.Is(err, ErrCaseForbidden) {
		t.Fatalf("expected ErrCaseForbidden for unassigned case, got %v", err)
	}

	_, err = f.usecase.SubmitReport(ctx, pending.ID, rad.ID, &dto.SubmitReportRequest{Findings: " ", Impression: "y"})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
}

func TestCaseUsecase_ConcurrentAcceptHasOneWinner(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	center := testutil.CreateCenter(t, f.db, "center@test.com")
	pending := testutil.CreateCase(t, f.db, center.ID, "MRI Brain", entity.CaseStatusPending, nil, time.Now())

	const contenders = 8
	radiologists := make([]*entity.User, contenders)
	for i := range radiologists {
		radiologists[i] = testutil.CreateRadiologist(t, f.db, uuid.NewString()+"@test.com", true, "MRI Brain")
	}

	var wins, losses int32
	var winner atomic.Value
	g, gctx := errgroup.WithContext(ctx)
	for _, rad := range radiologists {
		rad := rad
		g.Go(func() error {
			view, err := f.usecase.AcceptCase(gctx, pending.ID, rad.ID)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
				winner.Store(*view.AssigneeID)
				return nil
			case errors.Is(err, ErrCaseNotAvailable):
				atomic.AddInt32(&losses, 1)
				return nil
			default:
				return err
			}
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected accept error: %v", err)
	}

	if wins != 1 || losses != contenders-1 {
		t.Fatalf("expected 1 win and %d losses, got %d and %d", contenders-1, wins, losses)
	}

	var stored entity.Case
	if err := f.db.First(&stored, "id = ?", pending.ID).Error; err != nil {
		t.Fatalf("reload case: %v", err)
	}
	if stored.AssigneeID == nil || *stored.AssigneeID != winner.Load().(uuid.UUID) {
		t.Fatalf("stored assignee does not match winner")
	}
}

func TestCaseUsecase_ListAndGetVisibility(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	center := testutil.CreateCenter(t, f.db, "center@test.com")
	otherCenter := testutil.CreateCenter(t, f.db, "other@test.com")
	rad := testutil.CreateRadiologist(t, f.db, "rad@test.com", true, "MRI Brain")
	otherRad := testutil.CreateRadiologist(t, f.db, "rad2@test.com", true, "MRI Brain")

	base := time.Now().Add(-time.Hour)
	pending := testutil.CreateCase(t, f.db, center.ID, "MRI Brain", entity.CaseStatusPending, nil, base)
	assigned := testutil.CreateCase(t, f.db, otherCenter.ID, "MRI Brain", entity.CaseStatusAssigned, &otherRad.ID, base.Add(time.Minute))

	cases, err := f.usecase.ListCases(ctx, center.ID, entity.RoleCenter)
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(cases) != 1 || cases[0].ID != pending.ID {
		t.Fatalf("expected only own case for center, got %d", len(cases))
	}

	cases, err = f.usecase.ListCases(ctx, rad.ID, entity.RoleRadiologist)
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(cases) != 1 || cases[0].ID != pending.ID {
		t.Fatalf("expected only the pending case for an unrelated radiologist, got %d", len(cases))
	}

	if _, err := f.usecase.GetCase(ctx, assigned.ID, rad.ID, entity.RoleRadiologist); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound for someone else's case, got %v", err)
	}
	if _, err := f.usecase.GetCase(ctx, assigned.ID, center.ID, entity.RoleCenter); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound for another center's case, got %v", err)
	}

	got, err := f.usecase.GetCase(ctx, assigned.ID, otherRad.ID, entity.RoleRadiologist)
	if err != nil {
		t.Fatalf("GetCase: %v", err)
	}
	if got.AssigneeEmail != otherRad.Email {
		t.Errorf("expected assignee email %q, got %q", otherRad.Email, got.AssigneeEmail)
	}
}
