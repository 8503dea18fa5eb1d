package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"time"

	"eventhub/internal/domain"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID           map[string]*domain.Event
	participants   map[string]map[string]bool
	nextID         int
	err            error // if set, Create returns this error
	updateImageErr error
	imageUpdates   []string
	stats          *domain.EventStats
	statsScope     *string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:         make(map[string]*domain.Event),
		participants: make(map[string]map[string]bool),
		nextID:       1,
	}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	if e.Image == "" {
		e.Image = domain.DefaultEventImage
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if filter.Query != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, e)
	}
	sortByDate(out)
	return out, len(out), nil
}

func (f *fakeEventRepo) ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.CreatedBy != nil && *e.CreatedBy == userID {
			out = append(out, e)
		}
	}
	sortByDate(out)
	return out, nil
}

func (f *fakeEventRepo) ListByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0)
	for id, users := range f.participants {
		if users[userID] {
			out = append(out, f.byID[id])
		}
	}
	sortByDate(out)
	return out, nil
}

func (f *fakeEventRepo) ListImagesByCategoryID(ctx context.Context, categoryID string) ([]string, error) {
	var out []string
	for _, e := range f.byID {
		if e.CategoryID == categoryID {
			out = append(out, e.Image)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, u domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	return e, nil
}

func (f *fakeEventRepo) UpdateImage(ctx context.Context, id, image string) error {
	if f.updateImageErr != nil {
		return f.updateImageErr
	}
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Image = image
	f.imageUpdates = append(f.imageUpdates, image)
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) AddParticipant(ctx context.Context, eventID, userID string) error {
	if f.participants[eventID] == nil {
		f.participants[eventID] = make(map[string]bool)
	}
	if f.participants[eventID][userID] {
		return domain.ErrAlreadyRSVPed
	}
	f.participants[eventID][userID] = true
	return nil
}

func (f *fakeEventRepo) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	if !f.participants[eventID][userID] {
		return domain.ErrNotRSVPed
	}
	delete(f.participants[eventID], userID)
	return nil
}

func (f *fakeEventRepo) Stats(ctx context.Context, createdBy *string, today time.Time) (*domain.EventStats, error) {
	f.statsScope = createdBy
	if f.stats == nil {
		return &domain.EventStats{}, nil
	}
	return f.stats, nil
}

func sortByDate(events []*domain.Event) {
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			if events[j].Date.Before(events[i].Date) {
				events[i], events[j] = events[j], events[i]
			}
		}
	}
}

// fakeRoleRepo maps user IDs to role codes.
type fakeRoleRepo struct {
	codes map[string][]string
	err   error
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	roles := make([]*domain.Role, 0)
	for i, c := range f.codes[userID] {
		roles = append(roles, domain.NewRole(fmt.Sprintf("r-%d", i), c))
	}
	return roles, nil
}

func standardRoles() *fakeRoleRepo {
	return &fakeRoleRepo{codes: map[string][]string{
		"admin":     {"admin"},
		"org":       {"organizer"},
		"org2":      {"organizer", "participant"},
		"guest":     {"participant"},
		"anonymous": nil,
	}}
}

// fakeStorage keeps saved files in memory.
type fakeStorage struct {
	files     map[string][]byte
	removed   []string
	saveErr   error
	removeErr error
	n         int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (f *fakeStorage) Save(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.n++
	ext := filename[strings.LastIndex(filename, "."):]
	name := fmt.Sprintf("%s/upload-%d%s", dir, f.n, ext)
	f.files[name] = data
	return name, nil
}

func (f *fakeStorage) Path(name string) string { return "/media/" + name }

func (f *fakeStorage) Remove(name string) error {
	f.removed = append(f.removed, name)
	if f.removeErr != nil {
		return f.removeErr
	}
	if _, ok := f.files[name]; !ok {
		return nil
	}
	delete(f.files, name)
	return nil
}

// fakeNormalizer renames the stored file to .webp when ok is set.
type fakeNormalizer struct {
	storage     *fakeStorage
	validateErr error
	ok          bool
	commitErr   error
	calls       []string
}

func (f *fakeNormalizer) Validate(r io.ReadSeeker) (image.Image, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func (f *fakeNormalizer) Normalize(ctx context.Context, name string, decoded image.Image, commit domain.ImageCommitFunc) bool {
	f.calls = append(f.calls, name)
	if !f.ok {
		return false
	}
	newName := strings.TrimSuffix(name, name[strings.LastIndex(name, "."):]) + ".webp"
	f.storage.files[newName] = []byte("webp")
	if err := commit(ctx, newName); err != nil {
		delete(f.storage.files, newName)
		return false
	}
	if newName != name {
		delete(f.storage.files, name)
	}
	return true
}

var errDB = errors.New("db down")
