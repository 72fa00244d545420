package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// public routes here
		r.Get("/health", h.HealthHandler)

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)
			r.Use(TenantResolver)

			r.Route("/games", func(r chi.Router) {
				r.Get("/", h.GetGames)
				r.Post("/", h.CreateGame)
				r.Get("/{id}", h.GetGame)
				r.Get("/code/{code}", h.GetGameByCode)
				r.Delete("/{id}", h.DeactivateGame)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", h.CreateSession)
				r.Get("/{id}", h.GetSession)
				r.Post("/{id}/start", h.StartSession)
				r.Post("/{id}/next-round", h.StartNextRound)
				r.Post("/{id}/end", h.EndSession)
				r.Get("/{id}/questions", h.GetSessionQuestions)

				r.Get("/join/{code}", h.LookupByCode)
				r.Post("/join/{code}", h.JoinByCode)

				r.Post("/{id}/teams", h.CreateTeam)
				r.Get("/{id}/teams", h.GetTeams)

				r.Get("/{id}/players", h.GetPlayers)

				r.Post("/{id}/invites", h.CreateInvites)
				r.Get("/{id}/invites", h.GetInvites)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Put("/{id}/score", h.UpdateTeamScore)
				r.Delete("/{id}", h.DeleteTeam)
			})

			r.Route("/players", func(r chi.Router) {
				r.Put("/{id}/team", h.AssignTeam)
				r.Delete("/{id}", h.RemovePlayer)
			})

			r.Route("/rounds", func(r chi.Router) {
				r.Post("/{id}/answers", h.SubmitAnswer)
				r.Get("/{id}/answers", h.GetAnswers)
			})

			r.Route("/answers", func(r chi.Router) {
				r.Put("/{id}/evaluate", h.EvaluateAnswer)
			})

			r.Put("/invites/used", h.MarkInvitesUsed)
		})
	})
}
