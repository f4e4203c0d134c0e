package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/repository"
)

// AccessLogService serves the audit trail. Entries have no referential
// integrity against the relational store, so reads enrich them with user and
// event names where those rows still exist and leave null references where
// they do not. All methods degrade to ErrAuditUnavailable when the document
// store was not connected at startup.
type AccessLogService interface {
	List(ctx context.Context, filter dto.AccessLogFilter, page dto.Pagination) ([]*domain.EnrichedAccessEntry, int64, error)
	Get(ctx context.Context, id string) (*domain.EnrichedAccessEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.EnrichedAccessEntry, error)
	Update(ctx context.Context, id string, req dto.UpdateAccessLogRequest) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.AccessStats, error)
}

type accessLogService struct {
	accessLogs repository.AccessLogRepository
	users      repository.UserRepository
	events     repository.EventRepository
	logger     *zap.Logger
}

// NewAccessLogService creates the access log service. accessLogs may be nil
// when the document store is unavailable.
func NewAccessLogService(
	accessLogs repository.AccessLogRepository,
	users repository.UserRepository,
	events repository.EventRepository,
	logger *zap.Logger,
) AccessLogService {
	return &accessLogService{accessLogs: accessLogs, users: users, events: events, logger: logger}
}

// enrich joins entries against the relational store in two batched lookups.
func (s *accessLogService) enrich(ctx context.Context, entries []*domain.AccessEntry) ([]*domain.EnrichedAccessEntry, error) {
	userIDs := make([]int64, 0, len(entries))
	eventIDs := make([]int64, 0, len(entries))
	seenUsers := make(map[int64]bool)
	seenEvents := make(map[int64]bool)
	for _, e := range entries {
		if e.UserID > 0 && !seenUsers[e.UserID] {
			seenUsers[e.UserID] = true
			userIDs = append(userIDs, e.UserID)
		}
		if e.EventID > 0 && !seenEvents[e.EventID] {
			seenEvents[e.EventID] = true
			eventIDs = append(eventIDs, e.EventID)
		}
	}

	userRefs, err := s.users.GetRefsByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	eventRefs, err := s.events.GetRefsByIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]*domain.EnrichedAccessEntry, len(entries))
	for i, e := range entries {
		enriched[i] = &domain.EnrichedAccessEntry{
			AccessEntry: *e,
			User:        userRefs[e.UserID],
			Event:       eventRefs[e.EventID],
		}
	}
	return enriched, nil
}

func (s *accessLogService) List(ctx context.Context, filter dto.AccessLogFilter, page dto.Pagination) ([]*domain.EnrichedAccessEntry, int64, error) {
	if s.accessLogs == nil {
		return nil, 0, ErrAuditUnavailable
	}
	page.Normalize()
	entries, err := s.accessLogs.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accessLogs.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	enriched, err := s.enrich(ctx, entries)
	if err != nil {
		return nil, 0, err
	}
	return enriched, total, nil
}

func (s *accessLogService) Get(ctx context.Context, id string) (*domain.EnrichedAccessEntry, error) {
	if s.accessLogs == nil {
		return nil, ErrAuditUnavailable
	}
	entry, err := s.accessLogs.GetByID(ctx, id)
	if errors.Is(err, repository.ErrInvalidObjectID) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	enriched, err := s.enrich(ctx, []*domain.AccessEntry{entry})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

func (s *accessLogService) ListRecent(ctx context.Context, limit int) ([]*domain.EnrichedAccessEntry, error) {
	if s.accessLogs == nil {
		return nil, ErrAuditUnavailable
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := s.accessLogs.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, entries)
}

func (s *accessLogService) Update(ctx context.Context, id string, req dto.UpdateAccessLogRequest) error {
	if s.accessLogs == nil {
		return ErrAuditUnavailable
	}
	details := make(map[string]string)
	if req.Status != "" {
		details["status"] = req.Status
	}
	if req.Device != "" {
		details["device"] = req.Device
	}
	updated, err := s.accessLogs.Update(ctx, id, details)
	if errors.Is(err, repository.ErrInvalidObjectID) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

func (s *accessLogService) Delete(ctx context.Context, id string) error {
	if s.accessLogs == nil {
		return ErrAuditUnavailable
	}
	deleted, err := s.accessLogs.Delete(ctx, id)
	if errors.Is(err, repository.ErrInvalidObjectID) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("access entry deleted", zap.String("entry_id", id))
	return nil
}

func (s *accessLogService) Stats(ctx context.Context) (*domain.AccessStats, error) {
	if s.accessLogs == nil {
		return nil, ErrAuditUnavailable
	}
	return s.accessLogs.Stats(ctx, time.Now().UTC())
}
