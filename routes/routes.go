package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/swiss-tournament/docs" // регистрирует swagger-спецификацию
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/services"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Player     *handlers.PlayerHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Logger)
	organizerOnly := middleware.Authorize(services.RoleOrganizer)

	router.Get("/healthz", h.Health.Healthz)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Post("/auth/token", h.Auth.Token)

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", h.Player.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Post("/", h.Player.CreateHandler)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/players/count", h.Tournament.CountPlayersHandler)
		r.Get("/{tournamentID}/standings", h.Tournament.StandingsHandler)
		r.Get("/{tournamentID}/pairings", h.Tournament.PairingsHandler)
		r.Get("/{tournamentID}/matches", h.Match.ListHandler)
		r.Get("/{tournamentID}/snapshot", h.Tournament.SnapshotHandler)

		// Изменения только для организатора
		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Post("/", h.Tournament.CreateHandler)
			r.Post("/{tournamentID}/registrations", h.Tournament.RegisterPlayerHandler)
			r.Post("/{tournamentID}/matches", h.Match.RecordHandler)
			r.Delete("/{tournamentID}", h.Tournament.ResetHandler)
		})
	})
}
