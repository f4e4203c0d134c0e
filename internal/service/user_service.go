package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/repository"
)

// UserService is the administrator-facing account management surface.
type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page dto.Pagination) ([]*domain.User, int64, error)
	Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (*domain.User, error)
	UpdateRole(ctx context.Context, actor *domain.User, id int64, role string) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

type userService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService creates the user management service.
func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	if !domain.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if user, err = s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, page dto.Pagination) ([]*domain.User, int64, error) {
	page.Normalize()
	users, err := s.users.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *userService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		user.Email = req.Email
	}
	if err := s.users.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, actor *domain.User, id int64, role string) (*domain.User, error) {
	if actor.ID == id {
		return nil, ErrSelfRoleChange
	}
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	user.Role = role
	s.logger.Info("user role changed",
		zap.Int64("user_id", id),
		zap.String("role", role),
		zap.Int64("actor_id", actor.ID),
	)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if actor.ID == id {
		return ErrSelfDelete
	}
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}
