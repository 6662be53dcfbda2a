package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/vncsmyrnk/voting/internal/adapters/handler/http/docs"
)

// @title Voting API
// @version 1.0
// @description Votings with scheduled activation and closing.
// @BasePath /
func NewHandler(votingHandler *VotingHandler, voteHandler *VoteHandler, candidateHandler *CandidateHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/votings", func(r chi.Router) {
			r.Get("/", votingHandler.ListVotings)
			r.Get("/{id}", votingHandler.GetVoting)
			r.Post("/{id}/candidates/{candidateID}/votes", voteHandler.SubmitVote)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/votings", votingHandler.CreateVoting)
		r.Put("/votings/{id}", votingHandler.UpdateVoting)
		r.Post("/candidates", candidateHandler.CreateCandidate)
	})

	return r
}
