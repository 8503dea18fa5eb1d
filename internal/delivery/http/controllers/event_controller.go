package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// multipartOverhead is allowed on top of the image size limit for form framing.
const multipartOverhead = 1 << 20

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date" example:"2025-06-01"`
	Time        string `json:"time" example:"18:30"`
	Location    string `json:"location"`
	CategoryID  string `json:"category_id"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	errs = helpers.CheckLength(errs, "name", c.Name, 100)
	if c.Date == "" {
		errs = append(errs, "date is required")
	} else {
		errs = helpers.CheckLayout(errs, "date", c.Date, domain.DateLayout, "YYYY-MM-DD")
	}
	if c.Time == "" {
		errs = append(errs, "time is required")
	} else {
		errs = helpers.CheckLayout(errs, "time", c.Time, domain.TimeLayout, "HH:MM")
	}
	if strings.TrimSpace(c.Location) == "" {
		errs = append(errs, "location is required")
	}
	errs = helpers.CheckLength(errs, "location", c.Location, 200)
	if c.CategoryID == "" {
		errs = append(errs, "category_id is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Date        *string `json:"date" example:"2025-06-01"`
	Time        *string `json:"time" example:"18:30"`
	Location    *string `json:"location"`
	CategoryID  *string `json:"category_id"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			errs = append(errs, "name cannot be empty")
		}
		errs = helpers.CheckLength(errs, "name", *u.Name, 100)
	}
	if u.Date != nil {
		errs = helpers.CheckLayout(errs, "date", *u.Date, domain.DateLayout, "YYYY-MM-DD")
	}
	if u.Time != nil {
		errs = helpers.CheckLayout(errs, "time", *u.Time, domain.TimeLayout, "HH:MM")
	}
	if u.Location != nil {
		if strings.TrimSpace(*u.Location) == "" {
			errs = append(errs, "location cannot be empty")
		}
		errs = helpers.CheckLength(errs, "location", *u.Location, 200)
	}
	if u.CategoryID != nil && *u.CategoryID == "" {
		errs = append(errs, "category_id cannot be empty")
	}
	return errs
}

func (u UpdateEventRequest) toDomain() domain.EventUpdate {
	upd := domain.EventUpdate{
		Name:        u.Name,
		Description: u.Description,
		Time:        u.Time,
		Location:    u.Location,
		CategoryID:  u.CategoryID,
	}
	if u.Date != nil {
		d, _ := time.Parse(domain.DateLayout, *u.Date)
		upd.Date = &d
	}
	return upd
}

// EventSuccessResponse is the success envelope for single-event responses.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListResponse is the data payload for GET /events.
type EventListResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// EventListSuccessResponse is the success envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data  EventListResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger         *slog.Logger
	Service        domain.EventService
	MaxUploadBytes int64
}

func NewEventController(logger *slog.Logger, svc domain.EventService, maxUploadBytes int64) *EventController {
	return &EventController{
		Logger:         logger,
		Service:        svc,
		MaxUploadBytes: maxUploadBytes,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Admins and organizers create events. The caller is recorded as creator and the image starts as default.webp.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	date, _ := time.Parse(domain.DateLayout, req.Date)
	event := domain.NewEvent(strings.TrimSpace(req.Name), req.Description, date, req.Time,
		strings.TrimSpace(req.Location), req.CategoryID, time.Time{}, time.Time{})
	if err := c.Service.CreateEvent(r.Context(), userID, event); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events
// @Description Lists events ordered by date. Filters combine with AND; the date range is inclusive and may be open on either side.
// @Tags events
// @Produce json
// @Param query query string false "Case-insensitive substring of the event name"
// @Param category query string false "Category name"
// @Param start_date query string false "Earliest date (YYYY-MM-DD)"
// @Param end_date query string false "Latest date (YYYY-MM-DD)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Query:      q.Get("query"),
		Category:   q.Get("category"),
		Pagination: helpers.ParsePagination(r),
	}
	for _, p := range []struct {
		key  string
		dest **time.Time
	}{{"start_date", &filter.StartDate}, {"end_date", &filter.EndDate}} {
		s := q.Get(p.key)
		if s == "" {
			continue
		}
		d, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, p.key+" must be YYYY-MM-DD")
			return
		}
		*p.dest = &d
	}

	events, total, err := c.Service.ListEvents(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(filter.Pagination, total),
	})
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Partial update. Only admins and the organizer who created the event may update it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), r.PathValue("eventID"), userID, req.toDomain())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and its uploaded image. Only admins and the creating organizer.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.status: deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), r.PathValue("eventID"), userID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeletedResponse{Status: "deleted"})
}

// UploadImage godoc
// @Summary Upload the event image
// @Description Accepts JPEG, PNG, GIF, BMP, TIFF or WebP up to the configured size. The image is stored, then
// @Description downscaled to fit 1920x1080, flattened onto white and re-encoded as WebP. If optimization fails
// @Description the original upload is kept and the request still succeeds.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param image formData file true "Image file"
// @Success 200 {object} controllers.EventSuccessResponse "data.image is the stored reference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_image"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/image [put]
func (c *EventController) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidImage, domain.ErrImageTooLarge.Error())
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "multipart field \"image\" is required")
		return
	}
	defer file.Close()

	upload := &domain.ImageUpload{Filename: header.Filename, Size: header.Size, Content: file}
	event, err := c.Service.SetEventImage(r.Context(), r.PathValue("eventID"), userID, upload)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// RSVPResponse is the data payload for RSVP endpoints.
type RSVPResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

// RSVP godoc
// @Summary RSVP to an event
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} helpers.APIResponse "data.status: registered"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [post]
func (c *EventController) RSVP(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID := r.PathValue("eventID")
	if err := c.Service.RSVP(r.Context(), eventID, userID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, RSVPResponse{EventID: eventID, Status: "registered"})
}

// CancelRSVP godoc
// @Summary Cancel an RSVP
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.status: cancelled"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no RSVP)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [delete]
func (c *EventController) CancelRSVP(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID := r.PathValue("eventID")
	if err := c.Service.CancelRSVP(r.Context(), eventID, userID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RSVPResponse{EventID: eventID, Status: "cancelled"})
}

// DashboardSuccessResponse is the success envelope for GET /dashboard (200).
type DashboardSuccessResponse struct {
	Data  *domain.Dashboard `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Dashboard godoc
// @Summary Role-based dashboard
// @Description Admins see all events with stats, organizers their own events with stats,
// @Description everyone else the events they RSVPed to. Events are split into today, upcoming and past.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DashboardSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard [get]
func (c *EventController) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	d, err := c.Service.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, d)
}
