package service

import (
	"context"
	"time"

	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/repository"
	"teleradiology-case-routing/internal/infrastructure/realtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Publisher delivers an event to a user's live connection, if any.
// *realtime.Hub satisfies it.
type Publisher interface {
	Send(userID uuid.UUID, event realtime.Event) bool
}

// NotificationService pushes case lifecycle events to connected users. Every push is
// best-effort: an offline or slow recipient simply misses the event.
type NotificationService interface {
	NotifyNewCase(ctx context.Context, view *dto.CaseResponse) (int, error)
	NotifyCaseAccepted(ctx context.Context, view *dto.CaseResponse) bool
	NotifyReportCompleted(ctx context.Context, view *dto.CaseResponse) bool
	RecordDisconnect(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	db              *gorm.DB
	log             *logrus.Logger
	publisher       Publisher
	radiologistRepo repository.RadiologistProfileRepository
}

func NewNotificationService(db *gorm.DB, log *logrus.Logger, publisher Publisher, radiologistRepo repository.RadiologistProfileRepository) NotificationService {
	return &notificationService{
		db:              db,
		log:             log,
		publisher:       publisher,
		radiologistRepo: radiologistRepo,
	}
}

// NotifyNewCase offers a fresh case to every available radiologist whose
// specialties include the case modality. It returns how many live connections
// accepted the event.
func (s *notificationService) NotifyNewCase(ctx context.Context, view *dto.CaseResponse) (int, error) {
	profiles, err := s.radiologistRepo.FindAvailable(ctx, s.db)
	if err != nil {
		s.log.Warnf("Failed to find available radiologists: %+v", err)
		return 0, err
	}

	event := realtime.Event{Type: realtime.EventNewCase, Data: view}
	delivered := 0
	for i := range profiles {
		if !profiles[i].CanReceive(view.Modality) {
			continue
		}
		if s.publisher.Send(profiles[i].UserID, event) {
			delivered++
		}
	}

	s.log.WithFields(logrus.Fields{
		"case_id":   view.ID,
		"modality":  view.Modality,
		"delivered": delivered,
	}).Info("New case notification sent")

	return delivered, nil
}

func (s *notificationService) NotifyCaseAccepted(ctx context.Context, view *dto.CaseResponse) bool {
	return s.notifyCreator(realtime.EventCaseAccepted, view)
}

func (s *notificationService) NotifyReportCompleted(ctx context.Context, view *dto.CaseResponse) bool {
	return s.notifyCreator(realtime.EventReportCompleted, view)
}

func (s *notificationService) notifyCreator(eventType string, view *dto.CaseResponse) bool {
	sent := s.publisher.Send(view.CreatorID, realtime.Event{Type: eventType, Data: view})
	if !sent {
		s.log.Debugf("Center %s not connected, %s for case %s dropped", view.CreatorID, eventType, view.ID)
	}
	return sent
}

// RecordDisconnect stamps the radiologist's last_active when their live connection
// closes.
func (s *notificationService) RecordDisconnect(ctx context.Context, userID uuid.UUID) error {
	if err := s.radiologistRepo.TouchLastActive(ctx, s.db, userID, time.Now()); err != nil {
		s.log.Warnf("Failed to update last active: %+v", err)
		return err
	}
	return nil
}
