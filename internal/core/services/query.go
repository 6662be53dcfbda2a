package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vncsmyrnk/voting/internal/core/domain"
	"github.com/vncsmyrnk/voting/internal/core/ports"
)

const queryDateLayout = "2006-01-02"

var (
	statusSeparators = regexp.MustCompile(`[\s_]+`)

	sortableColumns = map[string]bool{
		"id":          true,
		"title":       true,
		"description": true,
		"start_date":  true,
		"end_date":    true,
		"max_votes":   true,
		"status":      true,
		"created":     true,
		"modified":    true,
	}
)

// ParseVotingQuery validates raw listing arguments into a filter. Every
// problem is reported as a *domain.InvalidInputError naming the argument.
func ParseVotingQuery(input ports.VotingQueryInput) (ports.VotingFilter, error) {
	var filter ports.VotingFilter

	statuses, err := parseStatuses(input.Statuses, input.RestrictStatus)
	if err != nil {
		return filter, err
	}
	filter.Statuses = statuses

	from, err := parseQueryDate("from", input.From)
	if err != nil {
		return filter, err
	}
	to, err := parseQueryDate("to", input.To)
	if err != nil {
		return filter, err
	}
	if from != nil && to != nil && from.After(*to) {
		return filter, &domain.InvalidInputError{Field: "to", Message: "must be less or equal from"}
	}
	filter.StartFrom = from
	if to != nil {
		// the whole "to" day is included
		endOfDay := to.Add(24*time.Hour - time.Microsecond)
		filter.EndTo = &endOfDay
	}

	sort, err := parseSort(input.Sort)
	if err != nil {
		return filter, err
	}
	filter.Sort = sort

	return filter, nil
}

func parseStatuses(raw []string, restrict bool) ([]domain.VotingStatus, error) {
	tokens := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, t := range strings.Split(r, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tokens = append(tokens, t)
			}
		}
	}

	var statuses []domain.VotingStatus
	if len(tokens) == 0 {
		if len(raw) > 0 {
			return nil, &domain.InvalidInputError{Field: "status", Message: "required argument not supplied"}
		}
		statuses = domain.AllStatuses()
	}

	for _, token := range tokens {
		status, ok := parseStatusToken(token)
		if !ok {
			return nil, &domain.InvalidInputError{Field: "status", Message: "invalid argument value"}
		}
		statuses = append(statuses, status)
	}

	if restrict {
		for _, status := range statuses {
			if status != domain.StatusActive && status != domain.StatusFinished {
				return nil, &domain.InvalidInputError{
					Field:   "status",
					Message: "invalid argument value",
					Details: map[string]string{
						"must be": fmt.Sprintf("ACTIVE[%d] or FINISHED[%d]", domain.StatusActive, domain.StatusFinished),
					},
				}
			}
		}
	}
	return statuses, nil
}

func parseStatusToken(token string) (domain.VotingStatus, bool) {
	if code, err := strconv.Atoi(token); err == nil {
		status := domain.VotingStatus(code)
		return status, status.Valid()
	}
	name := strings.ToUpper(strings.TrimSpace(statusSeparators.ReplaceAllString(token, " ")))
	return domain.StatusByName(name)
}

func parseQueryDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, _, _ := strings.Cut(raw, " ")
	parsed, err := time.Parse(queryDateLayout, day)
	if err != nil {
		return nil, &domain.InvalidInputError{
			Field:   field,
			Message: "invalid argument value",
			Details: map[string]string{"format": queryDateLayout},
		}
	}
	return &parsed, nil
}

func parseSort(raw string) ([]ports.SortField, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var fields []ports.SortField
	for _, col := range strings.Split(raw, ",") {
		col = strings.ToLower(strings.TrimSpace(col))
		if col == "" {
			return nil, &domain.InvalidInputError{Field: "sort", Message: "invalid argument"}
		}
		desc := false
		switch col[0] {
		case '-':
			desc = true
			col = col[1:]
		case '+':
			col = col[1:]
		}
		if !sortableColumns[col] {
			return nil, &domain.InvalidInputError{Field: "sort", Message: fmt.Sprintf("invalid argument value[%s]", col)}
		}
		fields = append(fields, ports.SortField{Column: col, Desc: desc})
	}
	return fields, nil
}
