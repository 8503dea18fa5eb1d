package domain

import (
	"context"
	"time"
)

// DefaultEventImage is the image reference carried by events without an upload.
const DefaultEventImage = "default.webp"

// EventImageDir is the storage directory for uploaded event images.
const EventImageDir = "events_img"

// DateLayout and TimeLayout are the wire formats for Event.Date and Event.Time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Event represents a scheduled event
// swagger:model Event
type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Time             string    `json:"time"`
	Location         string    `json:"location"`
	CategoryID       string    `json:"category_id"`
	CategoryName     string    `json:"category_name,omitempty"`
	Image            string    `json:"image"`
	CreatedBy        *string   `json:"created_by"`
	ParticipantCount int       `json:"participant_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name, description string, date time.Time, clock, location, categoryID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:        name,
		Description: description,
		Date:        date,
		Time:        clock,
		Location:    location,
		CategoryID:  categoryID,
		Image:       DefaultEventImage,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// HasUploadedImage reports whether the event references an uploaded file rather than the shared default.
func (e *Event) HasUploadedImage() bool {
	return e.Image != "" && e.Image != DefaultEventImage
}

// EventFilter narrows event listings. Zero values mean "no filter".
type EventFilter struct {
	Query      string
	Category   string
	StartDate  *time.Time
	EndDate    *time.Time
	Pagination PaginationParams
}

// EventUpdate carries a partial update; nil fields are left unchanged.
type EventUpdate struct {
	Name        *string
	Description *string
	Date        *time.Time
	Time        *string
	Location    *string
	CategoryID  *string
}

// IsEmpty reports whether no field is set.
func (u EventUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Date == nil &&
		u.Time == nil && u.Location == nil && u.CategoryID == nil
}

// EventStats are the dashboard counters.
type EventStats struct {
	Total        int `json:"total"`
	Today        int `json:"today"`
	Upcoming     int `json:"upcoming"`
	Past         int `json:"past"`
	Participants int `json:"participants"`
}

// Dashboard is the role-filtered view returned by GET /dashboard.
// swagger:model Dashboard
type Dashboard struct {
	Role     UserRole    `json:"role"`
	Stats    *EventStats `json:"stats,omitempty"`
	Today    []*Event    `json:"today"`
	Upcoming []*Event    `json:"upcoming"`
	Past     []*Event    `json:"past"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, int, error)
	ListByCreator(ctx context.Context, userID string) ([]*Event, error)
	ListByParticipant(ctx context.Context, userID string) ([]*Event, error)
	ListImagesByCategoryID(ctx context.Context, categoryID string) ([]string, error)
	Update(ctx context.Context, id string, update EventUpdate) (*Event, error)
	// UpdateImage writes only the image column.
	UpdateImage(ctx context.Context, id, image string) error
	Delete(ctx context.Context, id string) error
	AddParticipant(ctx context.Context, eventID, userID string) error
	RemoveParticipant(ctx context.Context, eventID, userID string) error
	// Stats counts events relative to today, optionally scoped to one creator.
	Stats(ctx context.Context, createdBy *string, today time.Time) (*EventStats, error)
}

// EventService defines the business logic for events, their images and RSVPs.
type EventService interface {
	CreateEvent(ctx context.Context, callerID string, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, id, callerID string, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id, callerID string) error
	SetEventImage(ctx context.Context, id, callerID string, upload *ImageUpload) (*Event, error)
	RSVP(ctx context.Context, eventID, userID string) error
	CancelRSVP(ctx context.Context, eventID, userID string) error
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}
