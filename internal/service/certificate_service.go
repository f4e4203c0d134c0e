package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/audit"
	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/repository"
)

// CertificateService issues and serves certificates. Issuance is strictly
// once per registration; a second attempt is an error, not an idempotent
// success.
type CertificateService interface {
	Issue(ctx context.Context, actor *domain.User, registrationID int64, meta dto.AccessMeta) (*domain.Certificate, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Certificate, error)
	View(ctx context.Context, actor *domain.User, id int64, meta dto.AccessMeta) (*domain.Certificate, error)
	GetByRegistration(ctx context.Context, actor *domain.User, registrationID int64) (*domain.Certificate, error)
	List(ctx context.Context, page dto.Pagination) ([]*domain.Certificate, int64, error)
	ListMine(ctx context.Context, actor *domain.User) ([]*domain.Certificate, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

type certificateService struct {
	certificates  repository.CertificateRepository
	registrations repository.RegistrationRepository
	events        repository.EventRepository
	recorder      audit.Recorder
	logger        *zap.Logger
}

// NewCertificateService creates the certificate service.
func NewCertificateService(
	certificates repository.CertificateRepository,
	registrations repository.RegistrationRepository,
	events repository.EventRepository,
	recorder audit.Recorder,
	logger *zap.Logger,
) CertificateService {
	return &certificateService{
		certificates:  certificates,
		registrations: registrations,
		events:        events,
		recorder:      recorder,
		logger:        logger,
	}
}

func (s *certificateService) Issue(ctx context.Context, actor *domain.User, registrationID int64, meta dto.AccessMeta) (*domain.Certificate, error) {
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrNotFound
	}
	event, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	if !canManageEvent(actor, event) {
		return nil, ErrForbidden
	}

	existing, err := s.certificates.GetByRegistrationID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCertificateExists
	}

	cert := &domain.Certificate{RegistrationID: registrationID}
	if cert, err = s.certificates.Create(ctx, cert); err != nil {
		// The unique constraint closes the race between the pre-check
		// and the insert.
		if repository.IsUniqueViolation(err) {
			return nil, ErrCertificateExists
		}
		return nil, err
	}
	cert.UserID = reg.UserID
	cert.EventID = reg.EventID
	cert.UserName = reg.UserName
	cert.EventTitle = reg.EventTitle
	cert.EventDate = reg.EventDate

	s.logger.Info("certificate issued",
		zap.Int64("certificate_id", cert.ID),
		zap.Int64("registration_id", registrationID),
		zap.Int64("actor_id", actor.ID),
	)
	s.recorder.Record(reg.UserID, reg.EventID, domain.AccessTypeCertificate, meta)
	return cert, nil
}

// visible enforces the read gate: the certificate's participant, the
// event's organizer, or an administrator.
func (s *certificateService) visible(ctx context.Context, actor *domain.User, cert *domain.Certificate) error {
	if cert.UserID == actor.ID || canManageAny(actor) {
		return nil
	}
	event, err := s.events.GetByID(ctx, cert.EventID)
	if err != nil {
		return err
	}
	if event == nil || !canManageEvent(actor, event) {
		return ErrForbidden
	}
	return nil
}

func (s *certificateService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Certificate, error) {
	cert, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrNotFound
	}
	if err := s.visible(ctx, actor, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// View is Get plus an access-log trace of the viewing. The trace carries
// the certificate owner's id, not the viewer's, matching the shape of the
// issuance entry.
func (s *certificateService) View(ctx context.Context, actor *domain.User, id int64, meta dto.AccessMeta) (*domain.Certificate, error) {
	cert, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(cert.UserID, cert.EventID, domain.AccessTypeCertificate, meta)
	return cert, nil
}

func (s *certificateService) GetByRegistration(ctx context.Context, actor *domain.User, registrationID int64) (*domain.Certificate, error) {
	cert, err := s.certificates.GetByRegistrationID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrNotFound
	}
	if err := s.visible(ctx, actor, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

func (s *certificateService) List(ctx context.Context, page dto.Pagination) ([]*domain.Certificate, int64, error) {
	page.Normalize()
	certs, err := s.certificates.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	total, err := s.certificates.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return certs, total, nil
}

func (s *certificateService) ListMine(ctx context.Context, actor *domain.User) ([]*domain.Certificate, error) {
	return s.certificates.ListByUser(ctx, actor.ID)
}

func (s *certificateService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	cert, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cert == nil {
		return ErrNotFound
	}
	if !canManageAny(actor) {
		event, err := s.events.GetByID(ctx, cert.EventID)
		if err != nil {
			return err
		}
		if event == nil || !canManageEvent(actor, event) {
			return ErrForbidden
		}
	}
	deleted, err := s.certificates.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("certificate deleted", zap.Int64("certificate_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}
