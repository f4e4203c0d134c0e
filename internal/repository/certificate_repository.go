package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventup-dev/eventup/internal/domain"
)

// CertificateRepository persists certificates. The unique constraint on
// registration_id backs the one-certificate-per-registration rule.
type CertificateRepository interface {
	Create(ctx context.Context, certificate *domain.Certificate) (*domain.Certificate, error)
	GetByID(ctx context.Context, id int64) (*domain.Certificate, error)
	GetByRegistrationID(ctx context.Context, registrationID int64) (*domain.Certificate, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Certificate, error)
	Count(ctx context.Context) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Certificate, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type postgresCertificateRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCertificateRepository creates a PostgreSQL-backed certificate repository.
func NewPostgresCertificateRepository(pool *pgxpool.Pool) CertificateRepository {
	return &postgresCertificateRepository{pool: pool}
}

const certificateColumns = `
	c.id, c.registration_id, c.issued_at,
	r.user_id, r.event_id, u.name, e.title, e.event_date
`

const certificateJoins = `
	FROM certificates c
	JOIN registrations r ON r.id = c.registration_id
	JOIN users u ON u.id = r.user_id
	JOIN events e ON e.id = r.event_id
`

func (r *postgresCertificateRepository) Create(ctx context.Context, certificate *domain.Certificate) (*domain.Certificate, error) {
	query := `INSERT INTO certificates (registration_id) VALUES ($1) RETURNING id, issued_at`
	err := r.pool.QueryRow(ctx, query, certificate.RegistrationID).
		Scan(&certificate.ID, &certificate.IssuedAt)
	if err != nil {
		return nil, fmt.Errorf("insert certificate: %w", err)
	}
	return certificate, nil
}

func (r *postgresCertificateRepository) GetByID(ctx context.Context, id int64) (*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + certificateJoins + ` WHERE c.id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresCertificateRepository) GetByRegistrationID(ctx context.Context, registrationID int64) (*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + certificateJoins + ` WHERE c.registration_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, registrationID))
}

func (r *postgresCertificateRepository) scanOne(row pgx.Row) (*domain.Certificate, error) {
	var c domain.Certificate
	err := row.Scan(
		&c.ID, &c.RegistrationID, &c.IssuedAt,
		&c.UserID, &c.EventID, &c.UserName, &c.EventTitle, &c.EventDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan certificate: %w", err)
	}
	return &c, nil
}

func (r *postgresCertificateRepository) List(ctx context.Context, limit, offset int) ([]*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + certificateJoins + ` ORDER BY c.issued_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()
	return scanCertificates(rows)
}

func (r *postgresCertificateRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM certificates`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count certificates: %w", err)
	}
	return total, nil
}

func (r *postgresCertificateRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + certificateJoins + ` WHERE r.user_id = $1 ORDER BY c.issued_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates by user: %w", err)
	}
	defer rows.Close()
	return scanCertificates(rows)
}

func scanCertificates(rows pgx.Rows) ([]*domain.Certificate, error) {
	certs := make([]*domain.Certificate, 0)
	for rows.Next() {
		var c domain.Certificate
		err := rows.Scan(
			&c.ID, &c.RegistrationID, &c.IssuedAt,
			&c.UserID, &c.EventID, &c.UserName, &c.EventTitle, &c.EventDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, &c)
	}
	return certs, rows.Err()
}

func (r *postgresCertificateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete certificate: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
