package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/voting/internal/core/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var inputErr *domain.InvalidInputError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, validationErr)
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, inputErr.ToMap())
	case errors.Is(err, domain.ErrInvalidVotingID):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrVotingNotFound),
		errors.Is(err, domain.ErrCandidateNotFound),
		errors.Is(err, domain.ErrPairingNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, domain.ErrInternal.Error())
	}
}
