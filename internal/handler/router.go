package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	artworkHandler "github.com/lordsmuseum/ally/backend/internal/handler/artwork"
	bookingHandler "github.com/lordsmuseum/ally/backend/internal/handler/booking"
	feedHandler "github.com/lordsmuseum/ally/backend/internal/handler/feed"
	sessionHandler "github.com/lordsmuseum/ally/backend/internal/handler/session"
	middlewarePkg "github.com/lordsmuseum/ally/backend/internal/middleware"
	artworkModel "github.com/lordsmuseum/ally/backend/internal/model/artwork"
	bookingService "github.com/lordsmuseum/ally/backend/internal/service/booking"
	sessionService "github.com/lordsmuseum/ally/backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(artworks artworkModel.Store, sessionSvc *sessionService.Service, bookingSvc *bookingService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		sessionHandler.New(sessionSvc).RegisterRoutes(api)
		artworkHandler.New(artworks).RegisterRoutes(api)
		bookingHandler.New(bookingSvc).RegisterRoutes(api)
		feedHandler.New(sessionSvc).RegisterRoutes(api)
	})

	return r
}
