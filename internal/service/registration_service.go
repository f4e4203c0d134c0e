package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/audit"
	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/repository"
)

// RegistrationService manages the registration lifecycle. A registration
// starts pending; the event's organizer or an administrator approves or
// rejects it. The owner may cancel before the event takes place regardless
// of status, whereas Remove deletes by id with no date guard.
type RegistrationService interface {
	Create(ctx context.Context, actor *domain.User, userID, eventID int64, meta dto.AccessMeta) (*domain.Registration, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Registration, error)
	List(ctx context.Context, actor *domain.User, page dto.Pagination) ([]*domain.Registration, int64, error)
	ListMine(ctx context.Context, actor *domain.User) ([]*domain.Registration, error)
	ListByEvent(ctx context.Context, actor *domain.User, eventID int64, status string) ([]*domain.Registration, error)
	Verify(ctx context.Context, actor *domain.User, eventID int64) (*domain.Registration, error)
	Approve(ctx context.Context, actor *domain.User, id int64) (*domain.Registration, error)
	Reject(ctx context.Context, actor *domain.User, id int64) (*domain.Registration, error)
	Cancel(ctx context.Context, actor *domain.User, eventID int64) error
	Remove(ctx context.Context, actor *domain.User, id int64) error
}

type registrationService struct {
	registrations repository.RegistrationRepository
	events        repository.EventRepository
	users         repository.UserRepository
	recorder      audit.Recorder
	logger        *zap.Logger
	now           func() time.Time
}

// NewRegistrationService creates the registration service.
func NewRegistrationService(
	registrations repository.RegistrationRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	recorder audit.Recorder,
	logger *zap.Logger,
) RegistrationService {
	return &registrationService{
		registrations: registrations,
		events:        events,
		users:         users,
		recorder:      recorder,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *registrationService) getEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}

func (s *registrationService) Create(ctx context.Context, actor *domain.User, userID, eventID int64, meta dto.AccessMeta) (*domain.Registration, error) {
	// An administrator may register on another user's behalf; everyone
	// else only registers themselves.
	target := actor
	if userID != 0 && userID != actor.ID {
		if !canManageAny(actor) {
			return nil, ErrForbidden
		}
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, ErrNotFound
		}
		target = u
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsUpcoming(s.now()) {
		return nil, ErrEventStarted
	}

	existing, err := s.registrations.GetByUserAndEvent(ctx, target.ID, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	reg := &domain.Registration{
		UserID:  target.ID,
		EventID: eventID,
		Status:  domain.StatusPending,
	}
	if reg, err = s.registrations.Create(ctx, reg); err != nil {
		// The unique constraint closes the race between the pre-check
		// and the insert.
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	reg.UserName = target.Name
	reg.UserEmail = target.Email
	reg.EventTitle = event.Title
	reg.EventDate = &event.EventDate

	s.logger.Info("registration created",
		zap.Int64("registration_id", reg.ID),
		zap.Int64("event_id", eventID),
		zap.Int64("user_id", target.ID),
	)
	s.recorder.Record(target.ID, eventID, domain.AccessTypeRegistration, meta)
	return reg, nil
}

func (s *registrationService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Registration, error) {
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrNotFound
	}
	event, err := s.getEvent(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if !canReadRegistration(actor, reg, event) {
		return nil, ErrForbidden
	}
	return reg, nil
}

// List returns every registration for administrators and only those on the
// caller's own events for organizers.
func (s *registrationService) List(ctx context.Context, actor *domain.User, page dto.Pagination) ([]*domain.Registration, int64, error) {
	page.Normalize()
	if canManageAny(actor) {
		regs, err := s.registrations.List(ctx, page.Limit, page.Offset())
		if err != nil {
			return nil, 0, err
		}
		total, err := s.registrations.Count(ctx)
		if err != nil {
			return nil, 0, err
		}
		return regs, total, nil
	}

	regs, err := s.registrations.ListByOrganizer(ctx, actor.ID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	total, err := s.registrations.CountByOrganizer(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (s *registrationService) ListMine(ctx context.Context, actor *domain.User) ([]*domain.Registration, error) {
	return s.registrations.ListByUserWithCertificates(ctx, actor.ID)
}

func (s *registrationService) ListByEvent(ctx context.Context, actor *domain.User, eventID int64, status string) ([]*domain.Registration, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, event) {
		return nil, ErrForbidden
	}
	return s.registrations.ListByEvent(ctx, eventID, status)
}

// Verify reports whether the caller holds a registration for the event.
// A nil registration with a nil error means they do not.
func (s *registrationService) Verify(ctx context.Context, actor *domain.User, eventID int64) (*domain.Registration, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.registrations.GetByUserAndEvent(ctx, actor.ID, eventID)
}

// setStatus is the shared approve/reject path: only the event's organizer
// or an administrator may decide, and only on a pending registration.
func (s *registrationService) setStatus(ctx context.Context, actor *domain.User, id int64, status string) (*domain.Registration, error) {
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrNotFound
	}
	event, err := s.getEvent(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, event) {
		return nil, ErrForbidden
	}
	if reg.Status != domain.StatusPending {
		return nil, ErrNotPending
	}
	if err := s.registrations.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	reg.Status = status
	s.logger.Info("registration decided",
		zap.Int64("registration_id", id),
		zap.String("status", status),
		zap.Int64("actor_id", actor.ID),
	)
	return reg, nil
}

func (s *registrationService) Approve(ctx context.Context, actor *domain.User, id int64) (*domain.Registration, error) {
	return s.setStatus(ctx, actor, id, domain.StatusApproved)
}

func (s *registrationService) Reject(ctx context.Context, actor *domain.User, id int64) (*domain.Registration, error) {
	return s.setStatus(ctx, actor, id, domain.StatusRejected)
}

// Cancel withdraws the caller's own registration for an event. Any status
// may be cancelled, but only while the event has not started. Remove is the
// counterpart without the date guard.
func (s *registrationService) Cancel(ctx context.Context, actor *domain.User, eventID int64) error {
	reg, err := s.registrations.GetByUserAndEvent(ctx, actor.ID, eventID)
	if err != nil {
		return err
	}
	if reg == nil {
		return ErrNotFound
	}
	if reg.EventDate != nil && !reg.EventDate.After(s.now()) {
		return ErrEventStarted
	}
	deleted, err := s.registrations.Delete(ctx, reg.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("registration cancelled", zap.Int64("registration_id", reg.ID), zap.Int64("user_id", actor.ID))
	return nil
}

// Remove deletes a registration by id. Only the owning user or an
// administrator may do so; the event date is not checked.
func (s *registrationService) Remove(ctx context.Context, actor *domain.User, id int64) error {
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reg == nil {
		return ErrNotFound
	}
	if reg.UserID != actor.ID && !canManageAny(actor) {
		return ErrForbidden
	}
	deleted, err := s.registrations.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("registration removed", zap.Int64("registration_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}
