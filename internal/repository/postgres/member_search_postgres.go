package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
)

func scanMemberTeam(row pgx.CollectableRow) (model.MemberTeam, error) {
	var it model.MemberTeam
	err := row.Scan(&it.MemberID, &it.Username, &it.Age, &it.TeamID, &it.TeamName)
	return it, err
}

// Search returns every row of members LEFT JOIN teams matching cond.
func (r *memberRepository) Search(ctx context.Context, cond model.MemberSearchCondition) ([]model.MemberTeam, error) {
	return r.fetch(ctx, cond, nil)
}

func (r *memberRepository) SearchPage(ctx context.Context, cond model.MemberSearchCondition, p repository.Page) (repository.PageResult[model.MemberTeam], error) {
	p = sanitizePage(p)
	items, err := r.fetch(ctx, cond, &p)
	if err != nil {
		return repository.PageResult[model.MemberTeam]{}, err
	}
	return repository.NewPageResult(ctx, items, p, r.counter(cond))
}

func (r *memberRepository) SearchPageOptimizedCount(ctx context.Context, cond model.MemberSearchCondition, p repository.Page) (repository.PageResult[model.MemberTeam], error) {
	p = sanitizePage(p)
	items, err := r.fetch(ctx, cond, &p)
	if err != nil {
		return repository.PageResult[model.MemberTeam]{}, err
	}
	return repository.NewPageResultSkippingCount(ctx, items, p, r.counter(cond))
}

func (r *memberRepository) fetch(ctx context.Context, cond model.MemberSearchCondition, p *repository.Page) ([]model.MemberTeam, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	sql, args, err := buildSearchQuery(cond, p)
	if err != nil {
		return nil, fmt.Errorf("build member search query: %w", err)
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	items, err := pgx.CollectRows(rows, scanMemberTeam)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return items, nil
}

// counter defers the count query until page assembly decides it is needed.
func (r *memberRepository) counter(cond model.MemberSearchCondition) repository.CountFunc {
	return func(ctx context.Context) (int, error) {
		sql, args, err := buildCountQuery(cond)
		if err != nil {
			return 0, fmt.Errorf("build member count query: %w", err)
		}
		var total int64
		if err := getQ(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
			return 0, repository.MapPgError(err)
		}
		return int(total), nil
	}
}
