package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/repository"
)

// AdminSummary is the platform-wide dashboard.
type AdminSummary struct {
	UsersByRole          map[string]int64    `json:"users_by_role"`
	TotalEvents          int64               `json:"total_events"`
	UpcomingEvents       int64               `json:"upcoming_events"`
	RegistrationsByState map[string]int64    `json:"registrations_by_status"`
	TotalCertificates    int64               `json:"total_certificates"`
	AccessStats          *domain.AccessStats `json:"access_stats,omitempty"`
}

// OrganizerSummary is the organizer's dashboard of their own events.
type OrganizerSummary struct {
	Events             []*domain.Event `json:"events"`
	TotalEvents        int             `json:"total_events"`
	TotalRegistrations int64           `json:"total_registrations"`
}

// ParticipantSummary is the participant's dashboard of their own activity.
type ParticipantSummary struct {
	Registrations []*domain.Registration `json:"registrations"`
	ByStatus      map[string]int64       `json:"by_status"`
	Certificates  int64                  `json:"certificates"`
}

// DashboardService builds per-role summaries.
type DashboardService interface {
	AdminSummary(ctx context.Context) (*AdminSummary, error)
	OrganizerSummary(ctx context.Context, actor *domain.User) (*OrganizerSummary, error)
	ParticipantSummary(ctx context.Context, actor *domain.User) (*ParticipantSummary, error)
}

type dashboardService struct {
	users         repository.UserRepository
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	certificates  repository.CertificateRepository
	accessLogs    repository.AccessLogRepository
	logger        *zap.Logger
}

// NewDashboardService creates the dashboard service. accessLogs may be nil;
// the admin summary then simply omits access stats.
func NewDashboardService(
	users repository.UserRepository,
	events repository.EventRepository,
	registrations repository.RegistrationRepository,
	certificates repository.CertificateRepository,
	accessLogs repository.AccessLogRepository,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		users:         users,
		events:        events,
		registrations: registrations,
		certificates:  certificates,
		accessLogs:    accessLogs,
		logger:        logger,
	}
}

func (s *dashboardService) AdminSummary(ctx context.Context) (*AdminSummary, error) {
	summary := &AdminSummary{}

	var err error
	if summary.UsersByRole, err = s.users.CountByRole(ctx); err != nil {
		return nil, err
	}
	if summary.TotalEvents, err = s.events.CountAll(ctx); err != nil {
		return nil, err
	}
	if summary.UpcomingEvents, err = s.events.CountUpcoming(ctx, time.Now()); err != nil {
		return nil, err
	}
	if summary.RegistrationsByState, err = s.registrations.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if summary.TotalCertificates, err = s.certificates.Count(ctx); err != nil {
		return nil, err
	}

	if s.accessLogs != nil {
		stats, err := s.accessLogs.Stats(ctx, time.Now().UTC())
		if err != nil {
			// The dashboard stays useful without the audit store.
			s.logger.Warn("access stats unavailable", zap.Error(err))
		} else {
			summary.AccessStats = stats
		}
	}
	return summary, nil
}

func (s *dashboardService) OrganizerSummary(ctx context.Context, actor *domain.User) (*OrganizerSummary, error) {
	events, err := s.events.ListWithRegistrationCounts(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	summary := &OrganizerSummary{Events: events, TotalEvents: len(events)}
	for _, e := range events {
		summary.TotalRegistrations += e.RegistrationCount
	}
	return summary, nil
}

func (s *dashboardService) ParticipantSummary(ctx context.Context, actor *domain.User) (*ParticipantSummary, error) {
	regs, err := s.registrations.ListByUserWithCertificates(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	summary := &ParticipantSummary{
		Registrations: regs,
		ByStatus:      make(map[string]int64),
	}
	for _, r := range regs {
		summary.ByStatus[r.Status]++
		if r.CertificateID != nil {
			summary.Certificates++
		}
	}
	return summary, nil
}
