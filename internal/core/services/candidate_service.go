package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

const maxNameLength = 30

type candidateService struct {
	repo ports.CandidateRepository
}

func NewCandidateService(repo ports.CandidateRepository) ports.CandidateService {
	return &candidateService{
		repo: repo,
	}
}

func (s *candidateService) CreateCandidate(ctx context.Context, input ports.CreateCandidateInput) (*domain.Candidate, error) {
	verr := &domain.ValidationError{}
	names := map[string]string{
		"last_name":   input.LastName,
		"first_name":  input.FirstName,
		"middle_name": input.MiddleName,
	}
	for _, field := range []string{"last_name", "first_name", "middle_name"} {
		value := strings.TrimSpace(names[field])
		if value == "" {
			verr.Add(field, "This field is required")
		} else if utf8.RuneCountInString(value) > maxNameLength {
			verr.Add(field, fmt.Sprintf("Ensure this value has at most %d characters", maxNameLength))
		}
	}
	if input.Age <= 0 {
		verr.Add("age", "Age must be a positive number")
	}
	if utf8.RuneCountInString(input.Biography) > maxDescriptionLength {
		verr.Add("biography", fmt.Sprintf("Ensure this value has at most %d characters", maxDescriptionLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	photo := input.Photo
	if photo == "" {
		photo = domain.DefaultCandidatePhoto
	}

	now := time.Now()
	candidate := &domain.Candidate{
		ID:         uuid.New(),
		LastName:   strings.TrimSpace(input.LastName),
		FirstName:  strings.TrimSpace(input.FirstName),
		MiddleName: strings.TrimSpace(input.MiddleName),
		Age:        input.Age,
		Biography:  input.Biography,
		Photo:      photo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Save(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}
