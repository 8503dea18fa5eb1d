package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventhub/internal/domain"
)

type categoryRepository struct {
	DB *sql.DB
}

// NewCategoryRepository returns a domain.CategoryRepository implemented with Postgres.
func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{DB: db}
}

const categorySelect = `
		SELECT c.id, c.name, c.description,
			(SELECT COUNT(*) FROM events e WHERE e.category_id = c.id)
		FROM categories c`

func scanCategory(s rowScanner) (*domain.Category, error) {
	c := &domain.Category{}
	var desc sql.NullString
	if err := s.Scan(&c.ID, &c.Name, &desc, &c.EventCount); err != nil {
		return nil, err
	}
	if desc.Valid {
		c.Description = &desc.String
	}
	return c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Description,
	).Scan(&c.ID)
	return mapDuplicateCategory(err, c.Name)
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(r.DB.QueryRowContext(ctx, categorySelect+`
		WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, categorySelect+`
		ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Update(ctx context.Context, id string, name, description *string) (*domain.Category, error) {
	var setClauses []string
	var args []any
	if name != nil {
		args = append(args, *name)
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", len(args)))
	}
	if description != nil {
		args = append(args, *description)
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), len(args))
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		n := ""
		if name != nil {
			n = *name
		}
		return nil, mapDuplicateCategory(err, n)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapDuplicateCategory(err error, name string) error {
	var perr *pq.Error
	if errors.As(err, &perr) && perr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCategory, name)
	}
	return err
}
