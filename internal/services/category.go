package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	eventRepo      domain.EventRepository
	roleRepo       domain.RoleRepository
	storage        domain.MediaStorage
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewCategoryService(categoryRepo domain.CategoryRepository,
	eventRepo domain.EventRepository,
	roleRepo domain.RoleRepository,
	storage domain.MediaStorage,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CategoryService {
	return &categoryService{
		categoryRepo:   categoryRepo,
		eventRepo:      eventRepo,
		roleRepo:       roleRepo,
		storage:        storage,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, callerID string, category *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := requireManager(ctx, s.roleRepo, callerID); err != nil {
		return err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicateCategory) {
			return err
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *categoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id, callerID string, name, description *string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := requireManager(ctx, s.roleRepo, callerID); err != nil {
		return nil, err
	}
	c, err := s.categoryRepo.Update(ctx, id, name, description)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateCategory) {
			return nil, err
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes the category, its events and their uploaded image files.
func (s *categoryService) DeleteCategory(ctx context.Context, id, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := requireManager(ctx, s.roleRepo, callerID); err != nil {
		return err
	}
	images, err := s.eventRepo.ListImagesByCategoryID(ctx, id)
	if err != nil {
		return fmt.Errorf("list category images: %w", err)
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	for _, image := range images {
		if image == "" || image == domain.DefaultEventImage {
			continue
		}
		if err := s.storage.Remove(image); err != nil {
			s.logger.WarnContext(ctx, "event image not removed", "image", image, "category_id", id, "err", err)
		}
	}
	return nil
}
