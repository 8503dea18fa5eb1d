package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"eventhub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	roleRepo       domain.RoleRepository
	storage        domain.MediaStorage
	normalizer     domain.ImageNormalizer
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	roleRepo domain.RoleRepository,
	storage domain.MediaStorage,
	normalizer domain.ImageNormalizer,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		roleRepo:       roleRepo,
		storage:        storage,
		normalizer:     normalizer,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, callerID string, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := requireManager(ctx, s.roleRepo, callerID); err != nil {
		return err
	}

	now := s.now()
	event.CreatedBy = &callerID
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Image == "" {
		event.Image = domain.DefaultEventImage
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, 0, fmt.Errorf("%w: end_date before start_date", domain.ErrInvalidInput)
	}
	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// loadForChange returns the event when callerID may modify it: admins, or the
// organizer who created it.
func (s *eventService) loadForChange(ctx context.Context, id, callerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	role, err := requireManager(ctx, s.roleRepo, callerID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && (event.CreatedBy == nil || *event.CreatedBy != callerID) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id, callerID string, update domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.loadForChange(ctx, id, callerID); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadForChange(ctx, id, callerID)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.removeImage(ctx, event.Image)
	return nil
}

// SetEventImage stores an upload as the event's image. The original is saved and
// referenced first; normalization then replaces it with a WebP rendition. A failed
// normalization leaves the original in place and is not an error.
func (s *eventService) SetEventImage(ctx context.Context, id, callerID string, upload *domain.ImageUpload) (*domain.Event, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	event, err := s.loadForChange(dbCtx, id, callerID)
	cancel()
	if err != nil {
		return nil, err
	}

	decoded, err := s.normalizer.Validate(upload.Content)
	if err != nil {
		return nil, err
	}

	name, err := s.storage.Save(ctx, domain.EventImageDir, upload.Filename, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	if err := s.updateImage(ctx, id, name); err != nil {
		if rmErr := s.storage.Remove(name); rmErr != nil {
			s.logger.WarnContext(ctx, "orphaned upload not removed", "image", name, "err", rmErr)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event image: %w", err)
	}
	if event.Image != name {
		s.removeImage(ctx, event.Image)
	}

	commit := func(ctx context.Context, newName string) error {
		return s.updateImage(ctx, id, newName)
	}
	if !s.normalizer.Normalize(ctx, name, decoded, commit) {
		s.logger.InfoContext(ctx, "serving original event image", "event_id", id, "image", name)
	}

	return s.GetEvent(ctx, id)
}

func (s *eventService) updateImage(ctx context.Context, id, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.UpdateImage(ctx, id, name)
}

// removeImage deletes an uploaded image file. The shared default is never removed.
func (s *eventService) removeImage(ctx context.Context, image string) {
	if image == "" || image == domain.DefaultEventImage {
		return
	}
	if err := s.storage.Remove(image); err != nil {
		s.logger.WarnContext(ctx, "event image not removed", "image", image, "err", err)
	}
}

func (s *eventService) RSVP(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.eventRepo.AddParticipant(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrAlreadyRSVPed) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func (s *eventService) CancelRSVP(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.RemoveParticipant(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotRSVPed) {
			return err
		}
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

// Dashboard returns the caller's events split around today. Admins see every
// event, organizers their own, everyone else the events they RSVPed to.
func (s *eventService) Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	role, err := resolveRole(ctx, s.roleRepo, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var events []*domain.Event
	var stats *domain.EventStats
	switch role {
	case domain.RoleAdmin:
		events, _, err = s.eventRepo.List(ctx, domain.EventFilter{})
		if err == nil {
			stats, err = s.eventRepo.Stats(ctx, nil, today)
		}
	case domain.RoleOrganizer:
		events, err = s.eventRepo.ListByCreator(ctx, userID)
		if err == nil {
			stats, err = s.eventRepo.Stats(ctx, &userID, today)
		}
	default:
		events, err = s.eventRepo.ListByParticipant(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	d := &domain.Dashboard{
		Role:     role,
		Stats:    stats,
		Today:    []*domain.Event{},
		Upcoming: []*domain.Event{},
		Past:     []*domain.Event{},
	}
	for _, e := range events {
		day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
		switch {
		case day.Equal(today):
			d.Today = append(d.Today, e)
		case day.After(today):
			d.Upcoming = append(d.Upcoming, e)
		default:
			d.Past = append(d.Past, e)
		}
	}
	// most recent first
	slices.Reverse(d.Past)
	return d, nil
}
