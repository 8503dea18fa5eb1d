package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

var fixedNow = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

func newTestEventService(repo *fakeEventRepo, roles *fakeRoleRepo, storage *fakeStorage, norm *fakeNormalizer) *eventService {
	svc := NewEventService(repo, roles, storage, norm, discardLogger, time.Second).(*eventService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func owned(id, owner string, date time.Time) *domain.Event {
	return &domain.Event{ID: id, Name: "Event " + id, Date: date, Time: "18:00", CategoryID: "cat-1", CreatedBy: &owner}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  string
		repoErr error
		roles   *fakeRoleRepo
		wantErr error
	}{
		{name: "admin", caller: "admin", roles: standardRoles()},
		{name: "organizer", caller: "org", roles: standardRoles()},
		{name: "participant forbidden", caller: "guest", roles: standardRoles(), wantErr: domain.ErrForbidden},
		{name: "no groups forbidden", caller: "anonymous", roles: standardRoles(), wantErr: domain.ErrForbidden},
		{name: "role lookup fails", caller: "admin", roles: &fakeRoleRepo{err: errDB}, wantErr: errDB},
		{name: "repo fails", caller: "admin", roles: standardRoles(), repoErr: errDB, wantErr: errDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			repo.err = tt.repoErr
			svc := newTestEventService(repo, tt.roles, newFakeStorage(), &fakeNormalizer{})

			e := domain.NewEvent("Gig", "", fixedNow, "19:00", "Hall", "cat-1", time.Time{}, time.Time{})
			e.Image = ""
			err := svc.CreateEvent(ctx, tt.caller, e)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.byID)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, e.ID)
			require.NotNil(t, e.CreatedBy)
			assert.Equal(t, tt.caller, *e.CreatedBy)
			assert.Equal(t, domain.DefaultEventImage, e.Image)
			assert.Equal(t, fixedNow, e.CreatedAt)
		})
	}
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	newName := "Renamed"

	tests := []struct {
		name    string
		caller  string
		id      string
		wantErr error
	}{
		{name: "creator", caller: "org", id: "ev-1"},
		{name: "admin edits any", caller: "admin", id: "ev-1"},
		{name: "other organizer", caller: "org2", id: "ev-1", wantErr: domain.ErrForbidden},
		{name: "participant", caller: "guest", id: "ev-1", wantErr: domain.ErrForbidden},
		{name: "missing event", caller: "admin", id: "ev-404", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			repo.add(owned("ev-1", "org", fixedNow))
			svc := newTestEventService(repo, standardRoles(), newFakeStorage(), &fakeNormalizer{})

			got, err := svc.UpdateEvent(ctx, tt.id, tt.caller, domain.EventUpdate{Name: &newName})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Event ev-1", repo.byID["ev-1"].Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Renamed", got.Name)
		})
	}
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("removes uploaded image", func(t *testing.T) {
		repo := newFakeEventRepo()
		e := repo.add(owned("ev-1", "org", fixedNow))
		e.Image = "events_img/a.webp"
		storage := newFakeStorage()
		storage.files["events_img/a.webp"] = []byte("x")
		svc := newTestEventService(repo, standardRoles(), storage, &fakeNormalizer{})

		require.NoError(t, svc.DeleteEvent(ctx, "ev-1", "org"))
		assert.Empty(t, repo.byID)
		assert.Equal(t, []string{"events_img/a.webp"}, storage.removed)
	})

	t.Run("default image kept", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(owned("ev-1", "org", fixedNow))
		storage := newFakeStorage()
		svc := newTestEventService(repo, standardRoles(), storage, &fakeNormalizer{})

		require.NoError(t, svc.DeleteEvent(ctx, "ev-1", "admin"))
		assert.Empty(t, storage.removed)
	})

	t.Run("file removal failure is not fatal", func(t *testing.T) {
		repo := newFakeEventRepo()
		e := repo.add(owned("ev-1", "org", fixedNow))
		e.Image = "events_img/a.webp"
		storage := newFakeStorage()
		storage.removeErr = errDB
		svc := newTestEventService(repo, standardRoles(), storage, &fakeNormalizer{})

		require.NoError(t, svc.DeleteEvent(ctx, "ev-1", "org"))
	})

	t.Run("forbidden", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(owned("ev-1", "org", fixedNow))
		svc := newTestEventService(repo, standardRoles(), newFakeStorage(), &fakeNormalizer{})

		require.ErrorIs(t, svc.DeleteEvent(ctx, "ev-1", "guest"), domain.ErrForbidden)
		assert.Len(t, repo.byID, 1)
	})
}

func upload() *domain.ImageUpload {
	data := []byte("jpeg-bytes")
	return &domain.ImageUpload{Filename: "party.jpg", Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func TestEventService_SetEventImage(t *testing.T) {
	ctx := context.Background()

	t.Run("normalized", func(t *testing.T) {
		repo := newFakeEventRepo()
		e := repo.add(owned("ev-1", "org", fixedNow))
		e.Image = "events_img/old.webp"
		storage := newFakeStorage()
		storage.files["events_img/old.webp"] = []byte("old")
		norm := &fakeNormalizer{storage: storage, ok: true}
		svc := newTestEventService(repo, standardRoles(), storage, norm)

		got, err := svc.SetEventImage(ctx, "ev-1", "org", upload())
		require.NoError(t, err)
		assert.Equal(t, "events_img/upload-1.webp", got.Image)
		assert.Equal(t, []string{"events_img/upload-1.jpg", "events_img/upload-1.webp"}, repo.imageUpdates)
		assert.Equal(t, []string{"events_img/upload-1.jpg"}, norm.calls)
		assert.Equal(t, []string{"events_img/old.webp"}, storage.removed)
		assert.Len(t, storage.files, 1)
		assert.Contains(t, storage.files, "events_img/upload-1.webp")
	})

	t.Run("normalization failure keeps original", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(owned("ev-1", "org", fixedNow))
		storage := newFakeStorage()
		norm := &fakeNormalizer{storage: storage, ok: false}
		svc := newTestEventService(repo, standardRoles(), storage, norm)

		got, err := svc.SetEventImage(ctx, "ev-1", "admin", upload())
		require.NoError(t, err)
		assert.Equal(t, "events_img/upload-1.jpg", got.Image)
		assert.Equal(t, []byte("jpeg-bytes"), storage.files["events_img/upload-1.jpg"])
		assert.Empty(t, storage.removed, "default image is never removed")
	})

	t.Run("invalid image rejected before saving", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(owned("ev-1", "org", fixedNow))
		storage := newFakeStorage()
		verr := &domain.ImageValidationError{Reason: domain.ErrImageTooLarge}
		norm := &fakeNormalizer{storage: storage, validateErr: verr}
		svc := newTestEventService(repo, standardRoles(), storage, norm)

		_, err := svc.SetEventImage(ctx, "ev-1", "org", upload())
		require.ErrorIs(t, err, domain.ErrImageTooLarge)
		assert.Empty(t, storage.files)
		assert.Empty(t, repo.imageUpdates)
		assert.Empty(t, norm.calls)
		assert.Equal(t, domain.DefaultEventImage, repo.byID["ev-1"].Image)
	})

	t.Run("reference update failure removes upload", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(owned("ev-1", "org", fixedNow))
		repo.updateImageErr = errDB
		storage := newFakeStorage()
		norm := &fakeNormalizer{storage: storage, ok: true}
		svc := newTestEventService(repo, standardRoles(), storage, norm)

		_, err := svc.SetEventImage(ctx, "ev-1", "org", upload())
		require.ErrorIs(t, err, errDB)
		assert.Empty(t, storage.files)
		assert.Empty(t, norm.calls)
	})

	t.Run("forbidden", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(owned("ev-1", "org", fixedNow))
		storage := newFakeStorage()
		svc := newTestEventService(repo, standardRoles(), storage, &fakeNormalizer{storage: storage})

		_, err := svc.SetEventImage(ctx, "ev-1", "org2", upload())
		require.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, storage.files)
	})
}

func TestEventService_RSVP(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	repo.add(owned("ev-1", "org", fixedNow))
	svc := newTestEventService(repo, standardRoles(), newFakeStorage(), &fakeNormalizer{})

	require.NoError(t, svc.RSVP(ctx, "ev-1", "guest"))
	require.ErrorIs(t, svc.RSVP(ctx, "ev-1", "guest"), domain.ErrAlreadyRSVPed)
	require.ErrorIs(t, svc.RSVP(ctx, "ev-404", "guest"), domain.ErrNotFound)

	require.NoError(t, svc.CancelRSVP(ctx, "ev-1", "guest"))
	require.ErrorIs(t, svc.CancelRSVP(ctx, "ev-1", "guest"), domain.ErrNotRSVPed)
}

func TestEventService_ListEvents_invalidRange(t *testing.T) {
	svc := newTestEventService(newFakeEventRepo(), standardRoles(), newFakeStorage(), &fakeNormalizer{})
	start := fixedNow
	end := fixedNow.AddDate(0, 0, -1)

	_, _, err := svc.ListEvents(context.Background(), domain.EventFilter{StartDate: &start, EndDate: &end})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEventService_Dashboard(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	seed := func() *fakeEventRepo {
		repo := newFakeEventRepo()
		repo.add(owned("past-old", "org", today.AddDate(0, -1, 0)))
		repo.add(owned("past-recent", "org", today.AddDate(0, 0, -1)))
		repo.add(owned("today", "org2", today))
		repo.add(owned("soon", "org", today.AddDate(0, 0, 3)))
		repo.stats = &domain.EventStats{Total: 4}
		return repo
	}

	t.Run("admin sees all with stats", func(t *testing.T) {
		repo := seed()
		svc := newTestEventService(repo, standardRoles(), newFakeStorage(), &fakeNormalizer{})

		d, err := svc.Dashboard(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, d.Role)
		require.NotNil(t, d.Stats)
		assert.Nil(t, repo.statsScope)
		require.Len(t, d.Today, 1)
		assert.Equal(t, "today", d.Today[0].ID)
		require.Len(t, d.Upcoming, 1)
		require.Len(t, d.Past, 2)
		assert.Equal(t, "past-recent", d.Past[0].ID)
	})

	t.Run("organizer sees own events", func(t *testing.T) {
		repo := seed()
		svc := newTestEventService(repo, standardRoles(), newFakeStorage(), &fakeNormalizer{})

		d, err := svc.Dashboard(ctx, "org")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleOrganizer, d.Role)
		require.NotNil(t, repo.statsScope)
		assert.Equal(t, "org", *repo.statsScope)
		assert.Empty(t, d.Today)
		assert.Len(t, d.Upcoming, 1)
		assert.Len(t, d.Past, 2)
	})

	t.Run("participant sees rsvps", func(t *testing.T) {
		repo := seed()
		require.NoError(t, repo.AddParticipant(ctx, "soon", "guest"))
		svc := newTestEventService(repo, standardRoles(), newFakeStorage(), &fakeNormalizer{})

		d, err := svc.Dashboard(ctx, "guest")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleParticipant, d.Role)
		assert.Nil(t, d.Stats)
		require.Len(t, d.Upcoming, 1)
		assert.Equal(t, "soon", d.Upcoming[0].ID)
		assert.Empty(t, d.Past)
	})

	t.Run("plain user", func(t *testing.T) {
		svc := newTestEventService(seed(), standardRoles(), newFakeStorage(), &fakeNormalizer{})
		d, err := svc.Dashboard(ctx, "anonymous")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, d.Role)
		assert.Empty(t, d.Upcoming)
	})
}
