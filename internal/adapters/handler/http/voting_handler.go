package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

type VotingHandler struct {
	query     ports.VotingQueryService
	lifecycle ports.LifecycleService
}

func NewVotingHandler(query ports.VotingQueryService, lifecycle ports.LifecycleService) *VotingHandler {
	return &VotingHandler{
		query:     query,
		lifecycle: lifecycle,
	}
}

type saveVotingRequest struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	StartDate    *time.Time  `json:"start_date"`
	EndDate      *time.Time  `json:"end_date"`
	MaxVotes     int         `json:"max_votes"`
	Draft        bool        `json:"draft"`
	CandidateIDs []uuid.UUID `json:"candidates"`
}

func (req saveVotingRequest) input(id *uuid.UUID) ports.SaveVotingInput {
	return ports.SaveVotingInput{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MaxVotes:     req.MaxVotes,
		Draft:        req.Draft,
		CandidateIDs: req.CandidateIDs,
	}
}

// publicStatuses expands the listing shorthand. Without a status, or with an
// empty one, only active votings are listed.
func publicStatuses(raw []string) []string {
	statuses := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		switch {
		case s == "":
			continue
		case strings.EqualFold(s, "all"):
			statuses = append(statuses, domain.StatusActive.String(), domain.StatusFinished.String())
		default:
			statuses = append(statuses, s)
		}
	}
	if len(statuses) == 0 {
		return []string{domain.StatusActive.String()}
	}
	return statuses
}

// ListVotings godoc
// @Summary List votings
// @Tags votings
// @Produce json
// @Param status query string false "active, finished or all"
// @Param from query string false "Start date lower bound, YYYY-MM-DD"
// @Param to query string false "End date upper bound, YYYY-MM-DD"
// @Param sort query string false "Comma separated columns, prefix with - for descending"
// @Success 200 {array} domain.Voting
// @Failure 400 {object} map[string]any
// @Router /api/votings [get]
func (h *VotingHandler) ListVotings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	votings, err := h.query.ListVotings(r.Context(), ports.VotingQueryInput{
		Statuses:       publicStatuses(q["status"]),
		From:           q.Get("from"),
		To:             q.Get("to"),
		Sort:           q.Get("sort"),
		RestrictStatus: true,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if votings == nil {
		votings = []*domain.Voting{}
	}
	writeJSON(w, http.StatusOK, votings)
}

// GetVoting godoc
// @Summary Voting details with candidate standings
// @Tags votings
// @Produce json
// @Param id path string true "Voting id"
// @Success 200 {object} domain.VotingDetails
// @Failure 400 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Router /api/votings/{id} [get]
func (h *VotingHandler) GetVoting(w http.ResponseWriter, r *http.Request) {
	details, err := h.query.GetVotingDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// CreateVoting godoc
// @Summary Create a voting
// @Tags admin
// @Accept json
// @Produce json
// @Param voting body saveVotingRequest true "Voting"
// @Success 201 {object} domain.Voting
// @Failure 422 {object} domain.ValidationError
// @Router /admin/votings [post]
func (h *VotingHandler) CreateVoting(w http.ResponseWriter, r *http.Request) {
	var req saveVotingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	voting, err := h.lifecycle.SaveVoting(r.Context(), req.input(nil))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, voting)
}

// UpdateVoting godoc
// @Summary Update a voting
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Voting id"
// @Param voting body saveVotingRequest true "Voting"
// @Success 200 {object} domain.Voting
// @Failure 404 {object} messageResponse
// @Failure 422 {object} domain.ValidationError
// @Router /admin/votings/{id} [put]
func (h *VotingHandler) UpdateVoting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, domain.ErrInvalidVotingID)
		return
	}

	var req saveVotingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	voting, err := h.lifecycle.SaveVoting(r.Context(), req.input(&id))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voting)
}
