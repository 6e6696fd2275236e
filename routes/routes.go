package routes

import (
	"net/http"

	_ "github.com/Dosada05/cup-simulator/docs"
	"github.com/Dosada05/cup-simulator/handlers"
	"github.com/Dosada05/cup-simulator/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	tokens middleware.TokenParser,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Post("/auth/login", authHandler.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/qualifiers", tournamentHandler.ListQualifierGroupsHandler())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))

			r.Post("/", tournamentHandler.CreateHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
			r.Post("/{tournamentID}/qualifiers/draw", tournamentHandler.RegenerateQualifiersHandler())
			r.Post("/{tournamentID}/world-cup", tournamentHandler.StartWorldCupHandler())
			r.Post("/{tournamentID}/world-cup/draw", tournamentHandler.RegenerateWorldCupHandler())
			r.Post("/{tournamentID}/knockout", tournamentHandler.StartKnockoutHandler())
			r.Post("/{tournamentID}/knockout/draw", tournamentHandler.RegenerateKnockoutHandler())
			r.Post("/{tournamentID}/knockout/simulate-round", tournamentHandler.SimulateKnockoutRoundHandler())
			r.Post("/{tournamentID}/knockout/matches/{matchID}/result", tournamentHandler.RecordKnockoutResultHandler)
			r.Post("/{tournamentID}/advance", tournamentHandler.AdvanceHandler())
			r.Post("/{tournamentID}/simulate-stage", tournamentHandler.SimulateStageHandler())
			r.Post("/{tournamentID}/groups/{groupID}/matches/{matchID}/result", tournamentHandler.RecordGroupResultHandler)
			r.Post("/{tournamentID}/groups/{groupID}/matches/{matchID}/simulate", tournamentHandler.SimulateGroupMatchHandler)
			r.Post("/{tournamentID}/groups/{groupID}/simulate", tournamentHandler.SimulateGroupHandler)
			r.Post("/{tournamentID}/export", tournamentHandler.ExportHandler())
		})
	})
}
