package http

import (
	"encoding/json"
	"net/http"

	"github.com/vncsmyrnk/voting/internal/core/ports"
)

type CandidateHandler struct {
	service ports.CandidateService
}

func NewCandidateHandler(service ports.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		service: service,
	}
}

type createCandidateRequest struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	Age        int    `json:"age"`
	Biography  string `json:"biography"`
	Photo      string `json:"photo"`
}

// CreateCandidate godoc
// @Summary Create a candidate
// @Tags admin
// @Accept json
// @Produce json
// @Param candidate body createCandidateRequest true "Candidate"
// @Success 201 {object} domain.Candidate
// @Failure 422 {object} domain.ValidationError
// @Router /admin/candidates [post]
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidate, err := h.service.CreateCandidate(r.Context(), ports.CreateCandidateInput{
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		Age:        req.Age,
		Biography:  req.Biography,
		Photo:      req.Photo,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, candidate)
}
