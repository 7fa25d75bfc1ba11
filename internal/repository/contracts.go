package repository

import (
	"context"

	"github.com/maxviazov/member-search-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// TeamRepository declares persistence operations for teams.
type TeamRepository interface {
	Create(ctx context.Context, t model.Team) (model.Team, error)
	GetByID(ctx context.Context, id int64) (model.Team, error)
	List(ctx context.Context, p Page) (PageResult[model.Team], error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// MemberSearcher is the filtered page query surface over members left-joined
// with teams. Absent condition fields never constrain the result.
type MemberSearcher interface {
	// Search returns every matching row without pagination.
	Search(ctx context.Context, cond model.MemberSearchCondition) ([]model.MemberTeam, error)
	// SearchPage returns one page and always runs the count query.
	SearchPage(ctx context.Context, cond model.MemberSearchCondition, p Page) (PageResult[model.MemberTeam], error)
	// SearchPageOptimizedCount skips the count query when the first page
	// already holds fewer rows than requested.
	SearchPageOptimizedCount(ctx context.Context, cond model.MemberSearchCondition, p Page) (PageResult[model.MemberTeam], error)
}

// MemberRepository declares persistence and read operations for members.
type MemberRepository interface {
	MemberSearcher

	Create(ctx context.Context, m model.Member) (model.Member, error)
	GetByID(ctx context.Context, id int64) (model.Member, error)
	FindAll(ctx context.Context) ([]model.Member, error)
	FindByUsername(ctx context.Context, username string) ([]model.Member, error)

	AgeSummary(ctx context.Context) (model.AgeSummary, error)
	TeamAverageAges(ctx context.Context) ([]model.TeamAverageAge, error)
	// AgeBands counts members per age band, youngest band first.
	AgeBands(ctx context.Context) ([]model.AgeBand, error)
	// FindOldest returns every member whose age equals the maximum age.
	FindOldest(ctx context.Context) ([]model.Member, error)
	// FindAtLeastAverageAge returns members aged at or above the average, youngest first.
	FindAtLeastAverageAge(ctx context.Context) ([]model.Member, error)
}
