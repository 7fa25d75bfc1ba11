// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInput builds an aggregated validation error, or nil when fe is empty.
// Handlers use it too, so parse failures share the service error shape.
func NewInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var v interface{ Fields() []FieldError }
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// TeamService defines team-oriented use cases.
type TeamService interface {
	CreateTeam(ctx context.Context, name string) (model.Team, error)
	GetTeam(ctx context.Context, id int64) (model.Team, error)
	ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error)
}

// MemberService defines member-oriented use cases, the filtered search included.
type MemberService interface {
	CreateMember(ctx context.Context, in CreateMemberInput) (model.Member, error)
	GetMember(ctx context.Context, id int64) (model.Member, error)

	SearchMembers(ctx context.Context, cond model.MemberSearchCondition) ([]model.MemberTeam, error)
	SearchMembersPage(ctx context.Context, cond model.MemberSearchCondition, page repository.Page) (repository.PageResult[model.MemberTeam], error)
	SearchMembersPageOptimized(ctx context.Context, cond model.MemberSearchCondition, page repository.Page) (repository.PageResult[model.MemberTeam], error)

	AgeSummary(ctx context.Context) (model.AgeSummary, error)
	TeamAverageAges(ctx context.Context) ([]model.TeamAverageAge, error)
	AgeBands(ctx context.Context) ([]model.AgeBand, error)
	OldestMembers(ctx context.Context) ([]model.Member, error)
	MembersAtLeastAverageAge(ctx context.Context) ([]model.Member, error)
}

// CreateMemberInput carries the client-supplied member fields.
type CreateMemberInput struct {
	Username *string
	Age      int
	TeamID   *int64
}
