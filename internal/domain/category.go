package domain

import "context"

// Category groups events
// swagger:model Category
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	EventCount  int     `json:"event_count"`
}

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, id string, name, description *string) (*Category, error)
	// Delete removes the category; its events are removed by the foreign key cascade.
	Delete(ctx context.Context, id string) error
}

// CategoryService defines the business logic for categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, callerID string, category *Category) error
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, id, callerID string, name, description *string) (*Category, error)
	DeleteCategory(ctx context.Context, id, callerID string) error
}
