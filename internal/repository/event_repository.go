package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
)

// EventRepository persists events. Read queries join the organizer name and
// category name so list responses need no extra round trips.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, filter dto.EventFilter, limit, offset int) ([]*domain.Event, error)
	Count(ctx context.Context, filter dto.EventFilter) (int64, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]*domain.Event, error)
	ListWithRegistrationCounts(ctx context.Context, organizerID int64) ([]*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int64) (bool, error)
	GetRefsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.EventRef, error)
	CountAll(ctx context.Context) (int64, error)
	CountUpcoming(ctx context.Context, now time.Time) (int64, error)
}

type postgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a PostgreSQL-backed event repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) EventRepository {
	return &postgresEventRepository{pool: pool}
}

const eventColumns = `
	e.id, e.title, e.description, e.event_date, e.organizer_id, e.category_id, e.created_at,
	u.name, c.name
`

const eventJoins = `
	FROM events e
	JOIN users u ON u.id = e.organizer_id
	LEFT JOIN categories c ON c.id = e.category_id
`

func (r *postgresEventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	query := `
		INSERT INTO events (title, description, event_date, organizer_id, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		event.Title, event.Description, event.EventDate, event.OrganizerID, event.CategoryID).
		Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + eventJoins + ` WHERE e.id = $1`
	var e domain.Event
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.EventDate, &e.OrganizerID, &e.CategoryID, &e.CreatedAt,
		&e.OrganizerName, &e.CategoryName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}

// buildFilter renders the filter into WHERE clauses and positional args,
// continuing the numbering after any args already present.
func buildFilter(filter dto.EventFilter, args []interface{}) (string, []interface{}) {
	clauses := make([]string, 0, 4)
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(e.title ILIKE $%d OR e.description ILIKE $%d)", len(args), len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("e.category_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("e.event_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("e.event_date <= $%d", len(args)))
	}
	if filter.Upcoming {
		clauses = append(clauses, "e.event_date > now()")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *postgresEventRepository) List(ctx context.Context, filter dto.EventFilter, limit, offset int) ([]*domain.Event, error) {
	where, args := buildFilter(filter, nil)
	args = append(args, limit, offset)
	query := `SELECT ` + eventColumns + eventJoins + where +
		fmt.Sprintf(" ORDER BY e.event_date LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *postgresEventRepository) Count(ctx context.Context, filter dto.EventFilter) (int64, error) {
	where, args := buildFilter(filter, nil)
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM events e`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

func (r *postgresEventRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + eventJoins + ` WHERE e.organizer_id = $1 ORDER BY e.event_date`
	rows, err := r.pool.Query(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *postgresEventRepository) ListWithRegistrationCounts(ctx context.Context, organizerID int64) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.event_date, e.organizer_id, e.category_id, e.created_at,
			u.name, c.name, count(reg.id)
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		LEFT JOIN categories c ON c.id = e.category_id
		LEFT JOIN registrations reg ON reg.event_id = e.id
		WHERE e.organizer_id = $1
		GROUP BY e.id, u.name, c.name
		ORDER BY e.event_date
	`
	rows, err := r.pool.Query(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events with counts: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.EventDate, &e.OrganizerID, &e.CategoryID, &e.CreatedAt,
			&e.OrganizerName, &e.CategoryName, &e.RegistrationCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.EventDate, &e.OrganizerID, &e.CategoryID, &e.CreatedAt,
			&e.OrganizerName, &e.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, event_date = $3, category_id = $4
		WHERE id = $5
	`
	_, err := r.pool.Exec(ctx, query,
		event.Title, event.Description, event.EventDate, event.CategoryID, event.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresEventRepository) GetRefsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.EventRef, error) {
	refs := make(map[int64]*domain.EventRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, title FROM events WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get event refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref domain.EventRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan event ref: %w", err)
		}
		refs[ref.ID] = &ref
	}
	return refs, rows.Err()
}

func (r *postgresEventRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM events`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

func (r *postgresEventRepository) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM events WHERE event_date > $1`, now).Scan(&total); err != nil {
		return 0, fmt.Errorf("count upcoming events: %w", err)
	}
	return total, nil
}
