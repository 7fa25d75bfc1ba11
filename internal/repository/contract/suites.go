// Package contract holds storage-agnostic behaviour suites. Each backend wires
// its own factories and runs the same scenarios.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
)

type TeamFactory func(t *testing.T) (repository.TeamRepository, func())

// MemberFactory returns a member repository plus the team repository sharing
// its storage, so suites can seed both sides of the join.
type MemberFactory func(t *testing.T) (members repository.MemberRepository, teams repository.TeamRepository, cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, teams repository.TeamRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunTeamRepositoryContract(t *testing.T, makeRepo TeamFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Team{Name: "teamA"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != created.Name {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := repo.Create(ctx, model.Team{Name: fmt.Sprintf("team-%d", i)}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		res2, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 6})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(res2.Items) != 1 || res2.Total != 7 || res2.Offset != 6 {
			t.Fatalf("unexpected page2: len=%d total=%d offset=%d", len(res2.Items), res2.Total, res2.Offset)
		}
	})

	t.Run("exists", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Team{Name: "teamB"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		ok, err := repo.Exists(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("expected existing team, got ok=%v err=%v", ok, err)
		}
		ok, err = repo.Exists(ctx, created.ID+1000)
		if err != nil || ok {
			t.Fatalf("expected missing team, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("create_duplicate_name_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Team{Name: "Dup"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, model.Team{Name: "Dup"})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

// memberFixture is the canonical data set: two teams, four members.
type memberFixture struct {
	teamA, teamB model.Team
	members      []model.Member
}

func seedMembers(t *testing.T, members repository.MemberRepository, teams repository.TeamRepository) memberFixture {
	t.Helper()
	ctx := context.Background()
	var f memberFixture
	var err error
	if f.teamA, err = teams.Create(ctx, model.Team{Name: "teamA"}); err != nil {
		t.Fatalf("seed teamA: %v", err)
	}
	if f.teamB, err = teams.Create(ctx, model.Team{Name: "teamB"}); err != nil {
		t.Fatalf("seed teamB: %v", err)
	}
	rows := []struct {
		name string
		age  int
		team int64
	}{
		{"member1", 10, f.teamA.ID},
		{"member2", 20, f.teamA.ID},
		{"member3", 30, f.teamB.ID},
		{"member4", 40, f.teamB.ID},
	}
	for _, r := range rows {
		name, team := r.name, r.team
		m, err := members.Create(ctx, model.Member{Username: &name, Age: r.age, TeamID: &team})
		if err != nil {
			t.Fatalf("seed %s: %v", r.name, err)
		}
		f.members = append(f.members, m)
	}
	return f
}

func intPtr(v int) *int { return &v }

func ages(items []model.MemberTeam) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.Age)
	}
	return out
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func RunMemberRepositoryContract(t *testing.T, makeRepo MemberFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		f := seedMembers(t, repo, teams)
		got, err := repo.GetByID(context.Background(), f.members[0].ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Username == nil || *got.Username != "member1" || got.Age != 10 {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 42424242)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("create_fk_violation_conflict", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		missing := int64(9999999)
		_, err := repo.Create(context.Background(), model.Member{Age: 1, TeamID: &missing})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict on FK violation, got %v", err)
		}
	})

	t.Run("search_combined_filters", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		got, err := repo.Search(context.Background(), model.MemberSearchCondition{
			AgeGoe: intPtr(20), AgeLoe: intPtr(40), TeamName: "teamB",
		})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if !sameInts(ages(got), []int{30, 40}) {
			t.Fatalf("expected ages [30 40], got %v", ages(got))
		}
		for _, it := range got {
			if it.TeamName == nil || *it.TeamName != "teamB" {
				t.Fatalf("unexpected team on %+v", it)
			}
		}
	})

	t.Run("search_empty_condition_returns_all", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		got, err := repo.Search(context.Background(), model.MemberSearchCondition{})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if !sameInts(ages(got), []int{10, 20, 30, 40}) {
			t.Fatalf("expected all members in id order, got %v", ages(got))
		}
	})

	t.Run("search_blank_strings_are_absent", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		ctx := context.Background()
		blank, err := repo.Search(ctx, model.MemberSearchCondition{Username: "  ", TeamName: "", AgeGoe: intPtr(20)})
		if err != nil {
			t.Fatalf("blank search: %v", err)
		}
		absent, err := repo.Search(ctx, model.MemberSearchCondition{AgeGoe: intPtr(20)})
		if err != nil {
			t.Fatalf("absent search: %v", err)
		}
		if !sameInts(ages(blank), ages(absent)) || len(absent) != 3 {
			t.Fatalf("blank %v differs from absent %v", ages(blank), ages(absent))
		}
	})

	t.Run("search_inverted_bounds_empty", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		got, err := repo.Search(context.Background(), model.MemberSearchCondition{AgeGoe: intPtr(40), AgeLoe: intPtr(20)})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty result, got %v", ages(got))
		}
	})

	t.Run("search_includes_members_without_team", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Member{Age: 55}); err != nil {
			t.Fatalf("seed teamless: %v", err)
		}
		all, err := repo.Search(ctx, model.MemberSearchCondition{AgeGoe: intPtr(50)})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(all) != 1 || all[0].TeamName != nil || all[0].Username != nil {
			t.Fatalf("expected one teamless member, got %+v", all)
		}
		byTeam, err := repo.Search(ctx, model.MemberSearchCondition{TeamName: "teamA"})
		if err != nil {
			t.Fatalf("search by team: %v", err)
		}
		if len(byTeam) != 2 {
			t.Fatalf("team filter should exclude teamless members, got %v", ages(byTeam))
		}
	})

	t.Run("search_page_counts_total", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		res, err := repo.SearchPage(context.Background(), model.MemberSearchCondition{}, repository.Page{Limit: 2})
		if err != nil {
			t.Fatalf("search page: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 4 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		res2, err := repo.SearchPage(context.Background(), model.MemberSearchCondition{}, repository.Page{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("search page 2: %v", err)
		}
		if !sameInts(ages(res2.Items), []int{30, 40}) || res2.Total != 4 {
			t.Fatalf("unexpected page 2: %v total=%d", ages(res2.Items), res2.Total)
		}
	})

	t.Run("search_page_past_end", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		ctx := context.Background()
		page := repository.Page{Limit: 2, Offset: 10}
		res, err := repo.SearchPage(ctx, model.MemberSearchCondition{}, page)
		if err != nil {
			t.Fatalf("search page: %v", err)
		}
		if len(res.Items) != 0 || res.Total != 4 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		opt, err := repo.SearchPageOptimizedCount(ctx, model.MemberSearchCondition{}, page)
		if err != nil {
			t.Fatalf("optimized page: %v", err)
		}
		if len(opt.Items) != 0 || opt.Total != 4 {
			t.Fatalf("optimized must count past the end: len=%d total=%d", len(opt.Items), opt.Total)
		}
	})

	t.Run("optimized_short_first_page", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		ctx := context.Background()
		cond := model.MemberSearchCondition{TeamName: "teamB"}
		res, err := repo.SearchPageOptimizedCount(ctx, cond, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("optimized page: %v", err)
		}
		all, err := repo.Search(ctx, cond)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if res.Total != len(all) || len(res.Items) != 2 {
			t.Fatalf("expected total %d, got len=%d total=%d", len(all), len(res.Items), res.Total)
		}
	})

	t.Run("optimized_full_page_counts", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		res, err := repo.SearchPageOptimizedCount(context.Background(), model.MemberSearchCondition{}, repository.Page{Limit: 2})
		if err != nil {
			t.Fatalf("optimized page: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 4 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
	})

	t.Run("search_page_sorted", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		res, err := repo.SearchPage(context.Background(), model.MemberSearchCondition{}, repository.Page{
			Limit: 3,
			Sort:  []repository.Order{{Field: repository.SortByAge, Desc: true}},
		})
		if err != nil {
			t.Fatalf("search page: %v", err)
		}
		if !sameInts(ages(res.Items), []int{40, 30, 20}) {
			t.Fatalf("expected descending ages, got %v", ages(res.Items))
		}
	})

	t.Run("find_by_username", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		got, err := repo.FindByUsername(context.Background(), "member3")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(got) != 1 || got[0].Age != 30 {
			t.Fatalf("unexpected result: %+v", got)
		}
		all, err := repo.FindAll(context.Background())
		if err != nil {
			t.Fatalf("find all: %v", err)
		}
		if len(all) != 4 || all[0].Age != 10 {
			t.Fatalf("unexpected find all: %+v", all)
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		repo, teams, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seedMembers(t, repo, teams)
		ctx := context.Background()

		sum, err := repo.AgeSummary(ctx)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		want := model.AgeSummary{Count: 4, Sum: 100, Avg: 25, Max: 40, Min: 10}
		if sum != want {
			t.Fatalf("summary mismatch: %+v", sum)
		}

		byTeam, err := repo.TeamAverageAges(ctx)
		if err != nil {
			t.Fatalf("team averages: %v", err)
		}
		if len(byTeam) != 2 || byTeam[0].TeamName != "teamA" || byTeam[0].AvgAge != 15 || byTeam[1].AvgAge != 35 {
			t.Fatalf("team averages mismatch: %+v", byTeam)
		}

		oldest, err := repo.FindOldest(ctx)
		if err != nil {
			t.Fatalf("oldest: %v", err)
		}
		if len(oldest) != 1 || oldest[0].Age != 40 {
			t.Fatalf("oldest mismatch: %+v", oldest)
		}

		bands, err := repo.AgeBands(ctx)
		if err != nil {
			t.Fatalf("age bands: %v", err)
		}
		wantBands := []model.AgeBand{
			{Band: model.BandUpTo20, Count: 2},
			{Band: model.Band21To30, Count: 1},
			{Band: model.BandOther, Count: 1},
		}
		if len(bands) != len(wantBands) {
			t.Fatalf("age bands mismatch: %+v", bands)
		}
		for i := range wantBands {
			if bands[i] != wantBands[i] {
				t.Fatalf("age bands mismatch: %+v", bands)
			}
		}

		above, err := repo.FindAtLeastAverageAge(ctx)
		if err != nil {
			t.Fatalf("at least average: %v", err)
		}
		if len(above) != 2 || above[0].Age != 30 || above[1].Age != 40 {
			t.Fatalf("at least average mismatch: %+v", above)
		}
	})

	t.Run("aggregates_empty_table", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		sum, err := repo.AgeSummary(context.Background())
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if sum != (model.AgeSummary{}) {
			t.Fatalf("expected zero summary, got %+v", sum)
		}
		bands, err := repo.AgeBands(context.Background())
		if err != nil || len(bands) != 0 {
			t.Fatalf("expected no age bands, got %+v err=%v", bands, err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := teams.Create(ctx, model.Team{Name: "TxCommit"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := teams.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := teams.Create(ctx, model.Team{Name: "TxRollback"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := teams.GetByID(ctx, createdID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
