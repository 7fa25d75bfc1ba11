package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
)

type teamRepository struct{ pool *pgxpool.Pool }

func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, t model.Team) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO teams (name) VALUES ($1)
		 RETURNING id, name, created_at, updated_at`,
		t.Name,
	)
	var out model.Team
	if err := row.Scan(&out.ID, &out.Name, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Team{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM teams WHERE id = $1`, id,
	)
	var out model.Team
	if err := row.Scan(&out.ID, &out.Name, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Team{}, repository.ErrNotFound
		}
		return model.Team{}, repository.MapPgError(err)
	}
	return out, nil
}

// List reads the page and its total in one round trip via a window count.
// An offset past the end returns no rows, so Total is then reported as 0.
func (r *teamRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Team]{}, err
	}
	p = sanitizePage(p)
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT id, name, created_at, updated_at, COUNT(*) OVER() AS total
		 FROM teams
		 ORDER BY id
		 LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Team]{Items: make([]model.Team, 0, p.Limit), Offset: p.Offset, PageSize: p.Limit}
	for rows.Next() {
		var t model.Team
		var total int64
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return repository.PageResult[model.Team]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, t)
		res.Total = int(total)
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	return res, nil
}

// Exists performs a lightweight check to see if a team with the given ID exists.
func (r *teamRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

var _ repository.TeamRepository = (*teamRepository)(nil)
