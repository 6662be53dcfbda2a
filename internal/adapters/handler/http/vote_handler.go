package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

// SubmitVote godoc
// @Summary Vote for a candidate
// @Tags votes
// @Produce json
// @Param id path string true "Voting id"
// @Param candidateID path string true "Candidate id"
// @Success 201 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Failure 409 {object} messageResponse
// @Router /api/votings/{id}/candidates/{candidateID}/votes [post]
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	votingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, domain.ErrVotingNotFound.Error())
		return
	}
	candidateID, err := uuid.Parse(chi.URLParam(r, "candidateID"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, domain.ErrCandidateNotFound.Error())
		return
	}

	result, err := h.service.SubmitVote(r.Context(), ports.VoteInput{
		VotingID:    votingID,
		CandidateID: candidateID,
		VoterIP:     clientIP(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	switch result.Outcome {
	case domain.VoteRecorded:
		writeMessage(w, http.StatusCreated, "Thank you for your vote!")
	case domain.VoteDuplicateVoter:
		writeMessage(w, http.StatusConflict, "You already participated in the vote:(")
	default:
		writeMessage(w, http.StatusConflict, fmt.Sprintf("Sorry, voting '%s' is over:(", result.Voting.Title))
	}
}

// clientIP prefers the first X-Forwarded-For entry over the peer address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
