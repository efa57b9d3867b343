package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nadhirah/mindcare/backend/internal/auth"
	"github.com/nadhirah/mindcare/backend/internal/config"
	analyticsHandler "github.com/nadhirah/mindcare/backend/internal/handler/analytics"
	authHandler "github.com/nadhirah/mindcare/backend/internal/handler/auth"
	bookingHandler "github.com/nadhirah/mindcare/backend/internal/handler/booking"
	chatHandler "github.com/nadhirah/mindcare/backend/internal/handler/chat"
	checkinHandler "github.com/nadhirah/mindcare/backend/internal/handler/checkin"
	resourceHandler "github.com/nadhirah/mindcare/backend/internal/handler/resource"
	middlewarePkg "github.com/nadhirah/mindcare/backend/internal/middleware"
	aiService "github.com/nadhirah/mindcare/backend/internal/service/ai"
	analyticsService "github.com/nadhirah/mindcare/backend/internal/service/analytics"
	bookingService "github.com/nadhirah/mindcare/backend/internal/service/booking"
	chatService "github.com/nadhirah/mindcare/backend/internal/service/chat"
	checkinService "github.com/nadhirah/mindcare/backend/internal/service/checkin"
	"github.com/nadhirah/mindcare/backend/internal/store"
	"github.com/nadhirah/mindcare/backend/pkg/utils"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Store     store.Store
	Tokens    *auth.TokenIssuer
	AI        *aiService.Service
	Ledger    *chatService.Service
	Checkins  *checkinService.Service
	Bookings  *bookingService.Service
	Analytics *analyticsService.Service
	CORS      config.CORSConfig
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.CORS.Origins))

	authH := authHandler.New(deps.Store, deps.Tokens)
	chatH := chatHandler.New(deps.AI, deps.Ledger)
	checkinH := checkinHandler.New(deps.Checkins)
	bookingH := bookingHandler.New(deps.Bookings)
	analyticsH := analyticsHandler.New(deps.Analytics)
	resourceH := resourceHandler.New(deps.Store)

	r.Route("/api", func(api chi.Router) {
		// Public routes.
		authH.RegisterRoutes(api)
		chatH.RegisterRoutes(api)
		bookingH.RegisterRoutes(api)
		resourceH.RegisterRoutes(api)

		api.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})

		// Routes below require a verified identity.
		api.Group(func(protected chi.Router) {
			protected.Use(middlewarePkg.Authenticator(deps.Tokens, deps.Store))

			authH.RegisterProtectedRoutes(protected)
			chatH.RegisterProtectedRoutes(protected)
			checkinH.RegisterProtectedRoutes(protected)
			bookingH.RegisterProtectedRoutes(protected)
			analyticsH.RegisterProtectedRoutes(protected)
		})
	})

	return r
}
