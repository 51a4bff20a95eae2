package usecase

import (
	"context"
	"errors"
	"strings"

	"teleradiology-case-routing/internal/converter"
	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/domain/repository"
	"teleradiology-case-routing/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidCaseFields = errors.New("patient name, modality and a valid priority are required")
	ErrInvalidReport     = errors.New("findings and impression are required")
	ErrCaseNotFound      = errors.New("case not found")
	ErrCaseNotAvailable  = errors.New("case not available")
	ErrCaseForbidden     = errors.New("case is not assigned to you")
)

type CaseUsecase interface {
	CreateCase(ctx context.Context, creatorID uuid.UUID, req *dto.CreateCaseRequest) (*dto.CaseResponse, error)
	AcceptCase(ctx context.Context, caseID, radiologistID uuid.UUID) (*dto.CaseResponse, error)
	SubmitReport(ctx context.Context, caseID, radiologistID uuid.UUID, req *dto.SubmitReportRequest) (*dto.CaseResponse, error)
	ListCases(ctx context.Context, userID uuid.UUID, role entity.Role) ([]dto.CaseResponse, error)
	GetCase(ctx context.Context, caseID, userID uuid.UUID, role entity.Role) (*dto.CaseResponse, error)
	CaseHistory(ctx context.Context, caseID, userID uuid.UUID, role entity.Role) ([]dto.AuditLogResponse, error)
}

type caseUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	caseRepo     repository.CaseRepository
	reportRepo   repository.ReportRepository
	auditService service.AuditService
	notifier     service.NotificationService
}

func NewCaseUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	caseRepo repository.CaseRepository,
	reportRepo repository.ReportRepository,
	auditService service.AuditService,
	notifier service.NotificationService,
) CaseUsecase {
	return &caseUsecase{
		db:           db,
		log:          log,
		caseRepo:     caseRepo,
		reportRepo:   reportRepo,
		auditService: auditService,
		notifier:     notifier,
	}
}

func (u *caseUsecase) CreateCase(ctx context.Context, creatorID uuid.UUID, req *dto.CreateCaseRequest) (*dto.CaseResponse, error) {
	priority := entity.CasePriority(strings.ToUpper(strings.TrimSpace(req.Priority)))
	c := &entity.Case{
		PatientName:     strings.TrimSpace(req.PatientName),
		PatientAge:      req.PatientAge,
		Modality:        strings.TrimSpace(req.Modality),
		ImageURL:        strings.TrimSpace(req.ImageURL),
		ClinicalHistory: req.ClinicalHistory,
		Status:          entity.CaseStatusPending,
		Priority:        priority,
		CreatorID:       creatorID,
	}
	if c.PatientName == "" || c.Modality == "" || !priority.IsValid() || c.PatientAge < 0 || c.PatientAge > 150 {
		return nil, ErrInvalidCaseFields
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.caseRepo.Create(ctx, tx, c); err != nil {
		u.log.Warnf("Failed to create case: %+v", err)
		return nil, err
	}

	created, err := u.caseRepo.FindByID(ctx, tx, c.ID)
	if err != nil {
		u.log.Warnf("Failed to reload case: %+v", err)
		return nil, err
	}
	view := converter.CaseToResponse(created)

	if err := u.auditService.LogCreate(ctx, tx, &creatorID, entity.AuditActionCaseCreate, entity.AuditEntityCase, c.ID.String(), view); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Fan-out is best-effort once the case is committed.
	if _, err := u.notifier.NotifyNewCase(ctx, view); err != nil {
		u.log.Warnf("Failed to notify radiologists about case %s: %+v", c.ID, err)
	}

	return view, nil
}

// AcceptCase claims a pending case for the radiologist. Of any number of concurrent
// accepts for the same case exactly one succeeds; the rest get ErrCaseNotAvailable.
func (u *caseUsecase) AcceptCase(ctx context.Context, caseID, radiologistID uuid.UUID) (*dto.CaseResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.caseRepo.Assign(ctx, tx, caseID, radiologistID)
	if err != nil {
		u.log.Warnf("Failed to assign case: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCaseNotAvailable
	}

	accepted, err := u.caseRepo.FindByID(ctx, tx, caseID)
	if err != nil {
		u.log.Warnf("Failed to reload case: %+v", err)
		return nil, err
	}
	if accepted == nil {
		return nil, ErrCaseNotFound
	}
	view := converter.CaseToResponse(accepted)

	if err := u.auditService.LogUpdate(ctx, tx, &radiologistID, entity.AuditActionCaseAccept, entity.AuditEntityCase, caseID.String(),
		map[string]interface{}{"status": entity.CaseStatusPending},
		map[string]interface{}{"status": entity.CaseStatusAssigned, "assignee_id": radiologistID},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notifier.NotifyCaseAccepted(ctx, view)

	return view, nil
}

func (u *caseUsecase) SubmitReport(ctx context.Context, caseID, radiologistID uuid.UUID, req *dto.SubmitReportRequest) (*dto.CaseResponse, error) {
	findings := strings.TrimSpace(req.Findings)
	impression := strings.TrimSpace(req.Impression)
	if findings == "" || impression == "" {
		return nil, ErrInvalidReport
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	c, err := u.caseRepo.FindByID(ctx, tx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find case: %+v", err)
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	if !c.IsAssignedTo(radiologistID) {
		return nil, ErrCaseForbidden
	}
	if !c.IsAssigned() {
		return nil, ErrCaseNotAvailable
	}

	affected, err := u.caseRepo.Complete(ctx, tx, caseID, radiologistID)
	if err != nil {
		u.log.Warnf("Failed to complete case: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCaseNotAvailable
	}

	report := &entity.Report{
		CaseID:     caseID,
		Findings:   findings,
		Impression: impression,
	}
	if err := u.reportRepo.Create(ctx, tx, report); err != nil {
		if isDuplicateKeyError(err, "case_id") {
			return nil, ErrCaseNotAvailable
		}
		u.log.Warnf("Failed to create report: %+v", err)
		return nil, err
	}

	completed, err := u.caseRepo.FindByID(ctx, tx, caseID)
	if err != nil {
		u.log.Warnf("Failed to reload case: %+v", err)
		return nil, err
	}
	view := converter.CaseToResponse(completed)

	if err := u.auditService.LogUpdate(ctx, tx, &radiologistID, entity.AuditActionReportSubmit, entity.AuditEntityCase, caseID.String(),
		map[string]interface{}{"status": entity.CaseStatusAssigned},
		map[string]interface{}{"status": entity.CaseStatusCompleted, "report_id": report.ID},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notifier.NotifyReportCompleted(ctx, view)

	return view, nil
}

func (u *caseUsecase) ListCases(ctx context.Context, userID uuid.UUID, role entity.Role) ([]dto.CaseResponse, error) {
	cases, err := u.caseRepo.FindAll(ctx, u.db, &entity.CaseFilter{
		ViewerID:   userID,
		ViewerRole: role,
	})
	if err != nil {
		u.log.Warnf("Failed to list cases: %+v", err)
		return nil, err
	}

	return converter.CasesToResponses(cases), nil
}

func (u *caseUsecase) GetCase(ctx context.Context, caseID, userID uuid.UUID, role entity.Role) (*dto.CaseResponse, error) {
	c, err := u.findVisible(ctx, caseID, userID, role)
	if err != nil {
		return nil, err
	}
	return converter.CaseToResponse(c), nil
}

func (u *caseUsecase) CaseHistory(ctx context.Context, caseID, userID uuid.UUID, role entity.Role) ([]dto.AuditLogResponse, error) {
	if _, err := u.findVisible(ctx, caseID, userID, role); err != nil {
		return nil, err
	}

	logs, err := u.auditService.History(ctx, entity.AuditEntityCase, caseID.String())
	if err != nil {
		return nil, err
	}

	return converter.AuditLogsToResponses(logs), nil
}

// findVisible hides cases the viewer may not list behind ErrCaseNotFound.
func (u *caseUsecase) findVisible(ctx context.Context, caseID, userID uuid.UUID, role entity.Role) (*entity.Case, error) {
	c, err := u.caseRepo.FindByID(ctx, u.db, caseID)
	if err != nil {
		u.log.Warnf("Failed to find case: %+v", err)
		return nil, err
	}
	if c == nil || !c.VisibleTo(userID, role) {
		return nil, ErrCaseNotFound
	}
	return c, nil
}
