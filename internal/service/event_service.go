package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/repository"
)

// EventService manages events. Mutations are restricted to the organizer
// who owns the event or an administrator.
type EventService interface {
	Create(ctx context.Context, actor *domain.User, req dto.CreateEventRequest) (*domain.Event, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, filter dto.EventFilter, page dto.Pagination) ([]*domain.Event, int64, error)
	ListMine(ctx context.Context, actor *domain.User) ([]*domain.Event, error)
	ListMineWithRegistrationCounts(ctx context.Context, actor *domain.User) ([]*domain.Event, error)
	Update(ctx context.Context, actor *domain.User, id int64, req dto.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

type eventService struct {
	events     repository.EventRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewEventService creates the event service.
func NewEventService(events repository.EventRepository, categories repository.CategoryRepository, logger *zap.Logger) EventService {
	return &eventService{events: events, categories: categories, logger: logger, now: time.Now}
}

func (s *eventService) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	category, err := s.categories.GetByID(ctx, *categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, actor *domain.User, req dto.CreateEventRequest) (*domain.Event, error) {
	if !req.EventDate.After(s.now()) {
		return nil, ErrEventInPast
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		OrganizerID: actor.ID,
		CategoryID:  req.CategoryID,
	}
	event, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	event.OrganizerName = actor.Name
	s.logger.Info("event created", zap.Int64("event_id", event.ID), zap.Int64("organizer_id", actor.ID))
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, filter dto.EventFilter, page dto.Pagination) ([]*domain.Event, int64, error) {
	page.Normalize()
	events, err := s.events.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	total, err := s.events.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *eventService) ListMine(ctx context.Context, actor *domain.User) ([]*domain.Event, error) {
	return s.events.ListByOrganizer(ctx, actor.ID)
}

func (s *eventService) ListMineWithRegistrationCounts(ctx context.Context, actor *domain.User) ([]*domain.Event, error) {
	return s.events.ListWithRegistrationCounts(ctx, actor.ID)
}

func (s *eventService) Update(ctx context.Context, actor *domain.User, id int64, req dto.UpdateEventRequest) (*domain.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, event) {
		return nil, ErrForbidden
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.EventDate != nil {
		if !req.EventDate.After(s.now()) {
			return nil, ErrEventInPast
		}
		event.EventDate = *req.EventDate
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		event.CategoryID = req.CategoryID
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canManageEvent(actor, event) {
		return ErrForbidden
	}
	deleted, err := s.events.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("event deleted", zap.Int64("event_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}
