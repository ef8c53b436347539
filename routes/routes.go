package routes

import (
	"github.com/clubmatch/tournament-engine/handlers"
	"github.com/clubmatch/tournament-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Setup wires the full HTTP surface. Reads are public; every mutating
// route sits behind organizer authentication.
func Setup(
	router *chi.Mux,
	jwtSecret string,
	allowedOrigins []string,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/auth/me", authHandler.Me)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.List)
		r.Get("/{playerID}", playerHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", playerHandler.Create)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.Get)
		r.Get("/{tournamentID}/standings", tournamentHandler.Standings)
		r.Get("/{tournamentID}/matches", matchHandler.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", tournamentHandler.Create)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)

			r.Post("/{tournamentID}/teams", tournamentHandler.FormTeams)
			r.Post("/{tournamentID}/pools", tournamentHandler.AssignPools)
			r.Post("/{tournamentID}/bracket", tournamentHandler.GenerateBracket)
			r.Delete("/{tournamentID}/bracket", tournamentHandler.ResetBracket)
			r.Post("/{tournamentID}/logo", tournamentHandler.UploadLogo)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{matchID}/result", matchHandler.SubmitResult)
			r.Delete("/{matchID}/result", matchHandler.ResetResult)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
