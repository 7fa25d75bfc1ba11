package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
)

type memberRepository struct{ pool *pgxpool.Pool }

func NewMemberRepository(pool *pgxpool.Pool) repository.MemberRepository {
	return &memberRepository{pool: pool}
}

const memberColumns = `id, username, age, team_id, created_at, updated_at`

func scanMember(row pgx.CollectableRow) (model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.Username, &m.Age, &m.TeamID, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *memberRepository) Create(ctx context.Context, m model.Member) (model.Member, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Member{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO members (username, age, team_id) VALUES ($1, $2, $3)
		 RETURNING `+memberColumns,
		m.Username, m.Age, m.TeamID,
	)
	var out model.Member
	if err := row.Scan(&out.ID, &out.Username, &out.Age, &out.TeamID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Member{}, repository.MapPgError(err)
	}
	return out, nil
}

// GetByID surfaces a missing row as ErrNotFound rather than a driver error.
func (r *memberRepository) GetByID(ctx context.Context, id int64) (model.Member, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Member{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	var out model.Member
	if err := row.Scan(&out.ID, &out.Username, &out.Age, &out.TeamID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Member{}, repository.ErrNotFound
		}
		return model.Member{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *memberRepository) FindAll(ctx context.Context) ([]model.Member, error) {
	return r.queryMembers(ctx, `SELECT `+memberColumns+` FROM members ORDER BY id`)
}

// FindByUsername matches exactly; a NULL username never matches.
func (r *memberRepository) FindByUsername(ctx context.Context, username string) ([]model.Member, error) {
	return r.queryMembers(ctx, `SELECT `+memberColumns+` FROM members WHERE username = $1 ORDER BY id`, username)
}

func (r *memberRepository) FindOldest(ctx context.Context) ([]model.Member, error) {
	sql, args, err := buildOldestQuery()
	if err != nil {
		return nil, fmt.Errorf("build oldest members query: %w", err)
	}
	return r.queryMembers(ctx, sql, args...)
}

func (r *memberRepository) FindAtLeastAverageAge(ctx context.Context) ([]model.Member, error) {
	sql, args, err := buildAtLeastAverageAgeQuery()
	if err != nil {
		return nil, fmt.Errorf("build above average age query: %w", err)
	}
	return r.queryMembers(ctx, sql, args...)
}

func (r *memberRepository) AgeSummary(ctx context.Context) (model.AgeSummary, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.AgeSummary{}, err
	}
	sql, args, err := buildAgeSummaryQuery()
	if err != nil {
		return model.AgeSummary{}, fmt.Errorf("build age summary query: %w", err)
	}
	var s model.AgeSummary
	// aggregates without GROUP BY always yield exactly one row
	if err := getQ(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&s.Count, &s.Sum, &s.Avg, &s.Max, &s.Min); err != nil {
		return model.AgeSummary{}, repository.MapPgError(err)
	}
	return s, nil
}

func (r *memberRepository) TeamAverageAges(ctx context.Context) ([]model.TeamAverageAge, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	sql, args, err := buildTeamAverageAgesQuery()
	if err != nil {
		return nil, fmt.Errorf("build team average ages query: %w", err)
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TeamAverageAge, error) {
		var it model.TeamAverageAge
		err := row.Scan(&it.TeamName, &it.AvgAge)
		return it, err
	})
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *memberRepository) AgeBands(ctx context.Context) ([]model.AgeBand, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	sql, args, err := buildAgeBandsQuery()
	if err != nil {
		return nil, fmt.Errorf("build age bands query: %w", err)
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.AgeBand, error) {
		var it model.AgeBand
		err := row.Scan(&it.Band, &it.Count)
		return it, err
	})
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *memberRepository) queryMembers(ctx context.Context, sql string, args ...any) ([]model.Member, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	out, err := pgx.CollectRows(rows, scanMember)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.MemberRepository = (*memberRepository)(nil)
