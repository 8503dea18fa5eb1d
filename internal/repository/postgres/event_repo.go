package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventhub/internal/domain"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

const eventColumns = `
		e.id, e.name, e.description, e.date, to_char(e.time, 'HH24:MI'), e.location,
		e.category_id, c.name, e.image, e.created_by,
		(SELECT COUNT(*) FROM event_participants p WHERE p.event_id = e.id),
		e.created_at, e.updated_at`

const eventFrom = `
		FROM events e
		JOIN categories c ON c.id = e.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var createdBy sql.NullString
	err := s.Scan(
		&e.ID, &e.Name, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.CategoryID, &e.CategoryName, &e.Image, &createdBy,
		&e.ParticipantCount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		e.CreatedBy = &createdBy.String
	}
	return e, nil
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, date, time, location, category_id, image, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Date, e.Time, e.Location, e.CategoryID, e.Image, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return mapConstraintError(err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT` + eventColumns + eventFrom + `
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List returns one page of events matching filter and the total match count.
func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	var where []string
	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		add("e.name ILIKE $%d", "%"+escapeLike(q)+"%")
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		add("c.name ILIKE $%d", escapeLike(c))
	}
	if filter.StartDate != nil {
		add("e.date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("e.date <= $%d", *filter.EndDate)
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "\n\t\tWHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+eventFrom+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT` + eventColumns + eventFrom + whereSQL + `
		ORDER BY e.date, e.time, e.name`
	if p := filter.Pagination; p.Limited() {
		args = append(args, p.PageSize, p.Offset())
		query += fmt.Sprintf("\n\t\tLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	events, err := r.queryEvents(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `SELECT` + eventColumns + eventFrom + `
		WHERE e.created_by = $1
		ORDER BY e.date, e.time, e.name
	`
	return r.queryEvents(ctx, query, userID)
}

func (r *eventRepository) ListByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `SELECT` + eventColumns + eventFrom + `
		JOIN event_participants ep ON ep.event_id = e.id
		WHERE ep.user_id = $1
		ORDER BY e.date, e.time, e.name
	`
	return r.queryEvents(ctx, query, userID)
}

func (r *eventRepository) ListImagesByCategoryID(ctx context.Context, categoryID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT image FROM events WHERE category_id = $1`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var images []string
	for rows.Next() {
		var image string
		if err := rows.Scan(&image); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, u domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}
	if u.Date != nil {
		set("date", *u.Date)
	}
	if u.Time != nil {
		set("time", *u.Time)
	}
	if u.Location != nil {
		set("location", *u.Location)
	}
	if u.CategoryID != nil {
		set("category_id", *u.CategoryID)
	}
	if len(args) == 0 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), len(args))
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, eventID)
}

// UpdateImage writes only the image column so concurrent field edits are not overwritten.
func (r *eventRepository) UpdateImage(ctx context.Context, eventID, image string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE events SET image = $1 WHERE id = $2`, image, eventID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) AddParticipant(ctx context.Context, eventID, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)`, eventID, userID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) {
			switch perr.Code {
			case pqUniqueViolation:
				return domain.ErrAlreadyRSVPed
			case pqForeignKeyViolation:
				return domain.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (r *eventRepository) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotRSVPed
	}
	return nil
}

func (r *eventRepository) Stats(ctx context.Context, createdBy *string, today time.Time) (*domain.EventStats, error) {
	args := []any{today}
	scope := ""
	if createdBy != nil {
		args = append(args, *createdBy)
		scope = "WHERE e.created_by = $2"
	}
	query := fmt.Sprintf(`
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE e.date = $1),
			COUNT(*) FILTER (WHERE e.date > $1),
			COUNT(*) FILTER (WHERE e.date < $1),
			COALESCE(SUM(pc.n), 0)
		FROM events e
		LEFT JOIN (SELECT event_id, COUNT(*) AS n FROM event_participants GROUP BY event_id) pc ON pc.event_id = e.id
		%s
	`, scope)
	s := &domain.EventStats{}
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&s.Total, &s.Today, &s.Upcoming, &s.Past, &s.Participants); err != nil {
		return nil, err
	}
	return s, nil
}

// mapConstraintError turns a foreign key violation (unknown category) into ErrInvalidInput.
func mapConstraintError(err error) error {
	var perr *pq.Error
	if errors.As(err, &perr) && perr.Code == pqForeignKeyViolation {
		return fmt.Errorf("%w: unknown category", domain.ErrInvalidInput)
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
