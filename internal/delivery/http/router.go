package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "eventhub/docs"
	"eventhub/internal/delivery/http/controllers"
)

// Routes groups what NewRouter mounts.
type Routes struct {
	Events      *controllers.EventController
	Categories  *controllers.CategoryController
	System      *controllers.SystemController
	Media       http.Handler
	RequireAuth func(http.HandlerFunc) http.HandlerFunc
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()
	auth := rt.RequireAuth

	// Events
	mux.HandleFunc("GET /events", rt.Events.ListEvents)
	mux.HandleFunc("POST /events", auth(rt.Events.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", rt.Events.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", auth(rt.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(rt.Events.DeleteEvent))
	mux.HandleFunc("PUT /events/{eventID}/image", auth(rt.Events.UploadImage))
	mux.HandleFunc("POST /events/{eventID}/rsvp", auth(rt.Events.RSVP))
	mux.HandleFunc("DELETE /events/{eventID}/rsvp", auth(rt.Events.CancelRSVP))
	mux.HandleFunc("GET /dashboard", auth(rt.Events.Dashboard))

	// Categories
	mux.HandleFunc("GET /categories", rt.Categories.ListCategories)
	mux.HandleFunc("POST /categories", auth(rt.Categories.CreateCategory))
	mux.HandleFunc("GET /categories/{categoryID}", rt.Categories.GetCategory)
	mux.HandleFunc("PATCH /categories/{categoryID}", auth(rt.Categories.UpdateCategory))
	mux.HandleFunc("DELETE /categories/{categoryID}", auth(rt.Categories.DeleteCategory))

	// Media and probes
	mux.Handle("GET /media/{path...}", rt.Media)
	mux.HandleFunc("GET /health", rt.System.Health)
	mux.HandleFunc("GET /ready", rt.System.Ready)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
