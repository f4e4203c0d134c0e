package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventup-dev/eventup/internal/audit"
	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/repository"
	"github.com/eventup-dev/eventup/pkg/token"
)

// AuthService handles registration, login and the caller's own account.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest, meta dto.AccessMeta) (*domain.User, string, error)
	Login(ctx context.Context, req dto.LoginRequest, meta dto.AccessMeta) (*domain.User, string, error)
	Logout(ctx context.Context, actor *domain.User, meta dto.AccessMeta)
	Renew(ctx context.Context, actor *domain.User) (string, error)
	UpdateProfile(ctx context.Context, actor *domain.User, req dto.UpdateProfileRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, actor *domain.User, req dto.ChangePasswordRequest) error
}

type authService struct {
	users    repository.UserRepository
	tokens   *token.Manager
	recorder audit.Recorder
	logger   *zap.Logger
}

// NewAuthService creates the authentication service.
func NewAuthService(users repository.UserRepository, tokens *token.Manager, recorder audit.Recorder, logger *zap.Logger) AuthService {
	return &authService{users: users, tokens: tokens, recorder: recorder, logger: logger}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, meta dto.AccessMeta) (*domain.User, string, error) {
	role := req.Role
	if role == "" {
		role = domain.RoleParticipant
	}
	if !domain.ValidRole(role) {
		return nil, "", ErrInvalidRole
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if user, err = s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	s.recorder.Record(user.ID, domain.SentinelEventID, domain.AccessTypeRegistration, meta)
	return user, signed, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, meta dto.AccessMeta) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.recorder.Record(user.ID, domain.SentinelEventID, domain.AccessTypeRegistration, meta)
	return user, signed, nil
}

func (s *authService) Logout(ctx context.Context, actor *domain.User, meta dto.AccessMeta) {
	// Tokens are stateless; logout only leaves an audit trace.
	s.recorder.Record(actor.ID, domain.SentinelEventID, domain.AccessTypeRegistration, meta)
}

func (s *authService) Renew(ctx context.Context, actor *domain.User) (string, error) {
	return s.tokens.Issue(actor.ID)
}

func (s *authService) UpdateProfile(ctx context.Context, actor *domain.User, req dto.UpdateProfileRequest) (*domain.User, error) {
	if req.Name != "" {
		actor.Name = req.Name
	}
	if req.Email != "" && req.Email != actor.Email {
		existing, err := s.users.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		actor.Email = req.Email
	}
	if err := s.users.Update(ctx, actor); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return actor, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor *domain.User, req dto.ChangePasswordRequest) error {
	if bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, actor.ID, string(hash))
}
