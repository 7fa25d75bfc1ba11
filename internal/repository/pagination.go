package repository

import "context"

// SortField names a column a member search may be ordered by.
type SortField string

const (
	SortByMemberID SortField = "memberId"
	SortByUsername SortField = "username"
	SortByAge      SortField = "age"
	SortByTeamName SortField = "teamName"
)

// Valid reports whether f is one of the known sort fields.
func (f SortField) Valid() bool {
	switch f {
	case SortByMemberID, SortByUsername, SortByAge, SortByTeamName:
		return true
	}
	return false
}

// Order is one ORDER BY term.
type Order struct {
	Field SortField
	Desc  bool
}

// Page represents a limit/offset window with an optional ordering.
type Page struct {
	Limit  int
	Offset int
	Sort   []Order
}

// PageResult carries one page of items plus the total count matching the query.
type PageResult[T any] struct {
	Items    []T `json:"items"`
	Offset   int `json:"offset"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// CountFunc lazily runs the count query for a page.
type CountFunc func(ctx context.Context) (int, error)

// NewPageResult always calls count to fill Total.
func NewPageResult[T any](ctx context.Context, items []T, p Page, count CountFunc) (PageResult[T], error) {
	total, err := count(ctx)
	if err != nil {
		return PageResult[T]{}, err
	}
	return PageResult[T]{Items: items, Offset: p.Offset, PageSize: p.Limit, Total: total}, nil
}

// NewPageResultSkippingCount derives Total locally when the first page came
// back short: in that case every matching row is already in items. Otherwise
// it falls back to count. Content and count are separate reads, so under
// concurrent writes Total is only as consistent as the isolation level allows.
func NewPageResultSkippingCount[T any](ctx context.Context, items []T, p Page, count CountFunc) (PageResult[T], error) {
	if p.Offset == 0 && len(items) < p.Limit {
		return PageResult[T]{Items: items, Offset: p.Offset, PageSize: p.Limit, Total: p.Offset + len(items)}, nil
	}
	return NewPageResult(ctx, items, p, count)
}
