package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventup-dev/eventup/internal/domain"
)

// RegistrationRepository persists event registrations. The unique constraint
// on (user_id, event_id) backs the one-registration-per-event rule.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *domain.Registration) (*domain.Registration, error)
	GetByID(ctx context.Context, id int64) (*domain.Registration, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID int64) (*domain.Registration, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Registration, error)
	Count(ctx context.Context) (int64, error)
	ListByEvent(ctx context.Context, eventID int64, status string) ([]*domain.Registration, error)
	ListByOrganizer(ctx context.Context, organizerID int64, limit, offset int) ([]*domain.Registration, error)
	CountByOrganizer(ctx context.Context, organizerID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Registration, error)
	ListByUserWithCertificates(ctx context.Context, userID int64) ([]*domain.Registration, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type postgresRegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRegistrationRepository creates a PostgreSQL-backed registration repository.
func NewPostgresRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &postgresRegistrationRepository{pool: pool}
}

const registrationColumns = `
	r.id, r.user_id, r.event_id, r.status, r.created_at,
	u.name, u.email, e.title, e.event_date
`

const registrationJoins = `
	FROM registrations r
	JOIN users u ON u.id = r.user_id
	JOIN events e ON e.id = r.event_id
`

func (r *postgresRegistrationRepository) Create(ctx context.Context, registration *domain.Registration) (*domain.Registration, error) {
	query := `
		INSERT INTO registrations (user_id, event_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		registration.UserID, registration.EventID, registration.Status).
		Scan(&registration.ID, &registration.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return registration, nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + registrationJoins + ` WHERE r.id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRegistrationRepository) GetByUserAndEvent(ctx context.Context, userID, eventID int64) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + registrationJoins + ` WHERE r.user_id = $1 AND r.event_id = $2`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID, eventID))
}

func (r *postgresRegistrationRepository) scanOne(row pgx.Row) (*domain.Registration, error) {
	var reg domain.Registration
	err := row.Scan(
		&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &reg.CreatedAt,
		&reg.UserName, &reg.UserEmail, &reg.EventTitle, &reg.EventDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + registrationJoins + ` ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func (r *postgresRegistrationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM registrations`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return total, nil
}

func (r *postgresRegistrationRepository) ListByEvent(ctx context.Context, eventID int64, status string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + registrationJoins + ` WHERE r.event_id = $1`
	args := []any{eventID}
	if status != "" {
		query += ` AND r.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY r.created_at`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations by event: %w", err)
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func (r *postgresRegistrationRepository) ListByOrganizer(ctx context.Context, organizerID int64, limit, offset int) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + registrationJoins + `
		WHERE e.organizer_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, organizerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list registrations by organizer: %w", err)
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func (r *postgresRegistrationRepository) CountByOrganizer(ctx context.Context, organizerID int64) (int64, error) {
	query := `
		SELECT count(*)
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE e.organizer_id = $1
	`
	var total int64
	if err := r.pool.QueryRow(ctx, query, organizerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count registrations by organizer: %w", err)
	}
	return total, nil
}

func (r *postgresRegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + registrationJoins + ` WHERE r.user_id = $1 ORDER BY e.event_date`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations by user: %w", err)
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func (r *postgresRegistrationRepository) ListByUserWithCertificates(ctx context.Context, userID int64) ([]*domain.Registration, error) {
	query := `
		SELECT r.id, r.user_id, r.event_id, r.status, r.created_at,
			u.name, u.email, e.title, e.event_date,
			c.id, c.issued_at
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN events e ON e.id = r.event_id
		LEFT JOIN certificates c ON c.registration_id = r.id
		WHERE r.user_id = $1
		ORDER BY e.event_date
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations with certificates: %w", err)
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		var reg domain.Registration
		err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &reg.CreatedAt,
			&reg.UserName, &reg.UserEmail, &reg.EventTitle, &reg.EventDate,
			&reg.CertificateID, &reg.CertificateIssuedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, &reg)
	}
	return regs, rows.Err()
}

func scanRegistrations(rows pgx.Rows) ([]*domain.Registration, error) {
	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		var reg domain.Registration
		err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &reg.CreatedAt,
			&reg.UserName, &reg.UserEmail, &reg.EventTitle, &reg.EventDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, &reg)
	}
	return regs, rows.Err()
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE registrations SET status = $1 WHERE id = $2`, status, id); err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete registration: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRegistrationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM registrations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count registrations by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
