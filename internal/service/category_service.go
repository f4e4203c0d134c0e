package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/repository"
)

// CategoryService manages event categories.
type CategoryService interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListWithEventCounts(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryService creates the category service.
func NewCategoryService(categories repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{categories: categories, logger: logger}
}

func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	existing, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryNameTaken
	}
	category, err := s.categories.Create(ctx, &domain.Category{Name: name})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCategoryNameTaken
		}
		return nil, err
	}
	s.logger.Info("category created", zap.Int64("category_id", category.ID))
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) ListWithEventCounts(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListWithEventCounts(ctx)
}

func (s *categoryService) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrCategoryNameTaken
	}
	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCategoryNameTaken
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
