package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventup-dev/eventup/internal/domain"
)

// CategoryRepository persists event categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListWithEventCounts(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type postgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCategoryRepository creates a PostgreSQL-backed category repository.
func NewPostgresCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &postgresCategoryRepository{pool: pool}
}

func (r *postgresCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, category.Name).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE id = $1`, id)
	return r.scanOne(row)
}

func (r *postgresCategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE lower(name) = lower($1)`, name)
	return r.scanOne(row)
}

func (r *postgresCategoryRepository) scanOne(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return &c, nil
}

func (r *postgresCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *postgresCategoryRepository) ListWithEventCounts(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.created_at, count(e.id)
		FROM categories c
		LEFT JOIN events e ON e.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories with counts: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.EventCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *postgresCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, err := r.pool.Exec(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, category.Name, category.ID); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
