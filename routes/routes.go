package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/bracketview/handlers"
	"github.com/Dosada05/bracketview/middleware"
	"github.com/Dosada05/bracketview/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Events      *handlers.EventHandler
	Leagues     *handlers.LeagueHandler
	Teams       *handlers.TeamHandler
	Participant *handlers.ParticipantHandler
	Seeding     *handlers.SeedingHandler
	Brackets    *handlers.BracketHandler
	Matches     *handlers.MatchHandler
	Dashboard   *handlers.DashboardHandler
	Formats     *handlers.FormatHandler
	WebSocket   *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	// PreviewLimiter throttles the seeding preview endpoints; nil disables it.
	PreviewLimiter *middleware.IPRateLimiter
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	preview := func(next http.Handler) http.Handler { return next }
	if opts.PreviewLimiter != nil {
		preview = opts.PreviewLimiter.Handler
	}

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/ws/events/{eventID}", h.WebSocket.ServeWs)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.With(authenticate).Get("/auth/me", h.Auth.Me)

		r.Get("/formats", h.Formats.ListFormats)

		r.Route("/leagues", func(r chi.Router) {
			r.Get("/", h.Leagues.ListLeagues)
			r.Get("/{leagueID}", h.Leagues.GetLeague)
			r.With(authenticate).Post("/", h.Leagues.CreateLeague)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/{teamID}", h.Teams.GetTeam)
			r.With(authenticate).Post("/", h.Teams.CreateTeam)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.Events.ListEvents)
			r.With(authenticate).Post("/", h.Events.CreateEvent)

			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", h.Events.GetEvent)
				r.Get("/editors", h.Events.ListEditors)
				r.Get("/participants", h.Participant.ListParticipants)
				r.Get("/seeding", h.Seeding.GetSeeds)
				r.With(preview).Get("/seeding/preview", h.Seeding.Preview)
				r.With(preview).Post("/seeding/preview", h.Seeding.Preview)
				r.Get("/bracket", h.Brackets.GetBracket)
				r.Get("/matches", h.Matches.ListMatches)
				r.Get("/table", h.Matches.RoundRobinTable)

				r.Group(func(r chi.Router) {
					r.Use(authenticate)
					r.Patch("/", h.Events.UpdateEvent)
					r.Delete("/", h.Events.DeleteEvent)
					r.Patch("/status", h.Events.UpdateStatus)
					r.Put("/editors/{userID}", h.Events.AddEditor)
					r.Delete("/editors/{userID}", h.Events.RemoveEditor)
					r.Post("/participants", h.Participant.Register)
					r.Put("/seeding", h.Seeding.ReplaceSeeds)
					r.Post("/bracket", h.Brackets.Generate)
					r.Post("/snapshots", h.Brackets.PublishSnapshot)
				})
			})
		})

		r.Route("/participants/{participantID}", func(r chi.Router) {
			r.Use(authenticate)
			r.Patch("/status", h.Participant.UpdateStatus)
			r.Delete("/", h.Participant.Withdraw)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.Matches.GetMatch)
			r.With(authenticate).Put("/result", h.Matches.ReportResult)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))
			r.Get("/dashboard", h.Dashboard.Stats)
		})
	})
}
