package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrVotingNotFound    = errors.New("voting not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrPairingNotFound   = errors.New("candidate does not take part in this voting")
	ErrInvalidVotingID   = errors.New("invalid voting id")
	ErrJobExists         = errors.New("a job with this id is already scheduled")
	ErrInternal          = errors.New("internal server error")
)

// NonFieldErrors is the field name used for errors not tied to one input.
const NonFieldErrors = "__all__"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field-scoped problem found while validating
// a voting or candidate. It is user-correctable and never a system fault.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Errors) == 0
}

// Fields returns the messages reported for one field.
func (e *ValidationError) Fields(field string) []string {
	var messages []string
	for _, fe := range e.Errors {
		if fe.Field == field {
			messages = append(messages, fe.Message)
		}
	}
	return messages
}

// OrNil returns nil when nothing was reported so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// InvalidInputError rejects malformed query arguments before storage is touched.
type InvalidInputError struct {
	Field   string
	Message string
	Details map[string]string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Message)
}

// ToMap renders the error the way the listing endpoint reports it.
func (e *InvalidInputError) ToMap() map[string]any {
	out := make(map[string]any, len(e.Details)+3)
	for k, v := range e.Details {
		out[k] = v
	}
	out["field"] = e.Field
	out["message"] = e.Message
	out["status"] = false
	return out
}
