package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
	"github.com/maxviazov/member-search-service/internal/service"
)

type memberRepoMock struct {
	mock.Mock
}

func (m *memberRepoMock) Create(ctx context.Context, in model.Member) (model.Member, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Member), args.Error(1)
}

func (m *memberRepoMock) GetByID(ctx context.Context, id int64) (model.Member, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Member), args.Error(1)
}

func (m *memberRepoMock) FindAll(ctx context.Context) ([]model.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *memberRepoMock) FindByUsername(ctx context.Context, username string) ([]model.Member, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *memberRepoMock) AgeSummary(ctx context.Context) (model.AgeSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.AgeSummary), args.Error(1)
}

func (m *memberRepoMock) TeamAverageAges(ctx context.Context) ([]model.TeamAverageAge, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.TeamAverageAge), args.Error(1)
}

func (m *memberRepoMock) AgeBands(ctx context.Context) ([]model.AgeBand, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.AgeBand), args.Error(1)
}

func (m *memberRepoMock) FindOldest(ctx context.Context) ([]model.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *memberRepoMock) FindAtLeastAverageAge(ctx context.Context) ([]model.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *memberRepoMock) Search(ctx context.Context, cond model.MemberSearchCondition) ([]model.MemberTeam, error) {
	args := m.Called(ctx, cond)
	return args.Get(0).([]model.MemberTeam), args.Error(1)
}

func (m *memberRepoMock) SearchPage(ctx context.Context, cond model.MemberSearchCondition, p repository.Page) (repository.PageResult[model.MemberTeam], error) {
	args := m.Called(ctx, cond, p)
	return args.Get(0).(repository.PageResult[model.MemberTeam]), args.Error(1)
}

func (m *memberRepoMock) SearchPageOptimizedCount(ctx context.Context, cond model.MemberSearchCondition, p repository.Page) (repository.PageResult[model.MemberTeam], error) {
	args := m.Called(ctx, cond, p)
	return args.Get(0).(repository.PageResult[model.MemberTeam]), args.Error(1)
}

var _ repository.MemberRepository = (*memberRepoMock)(nil)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
func i64Ptr(v int64) *int64   { return &v }

// inlineTx runs the unit of work directly and counts boundaries.
type inlineTx struct{ calls int }

func (tx *inlineTx) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	tx.calls++
	return fn(ctx)
}

func newMemberService(members *memberRepoMock, teams *fakeTeamRepo) service.MemberService {
	return service.NewMemberService(members, teams, &inlineTx{}, zerolog.New(io.Discard))
}

func TestMemberService_CreateMember_Validation(t *testing.T) {
	cases := []struct {
		name       string
		in         service.CreateMemberInput
		wantFields []string
	}{
		{"negative age", service.CreateMemberInput{Age: -1}, []string{"age"}},
		{"long username", service.CreateMemberInput{Username: strPtr(strings.Repeat("u", 51)), Age: 1}, []string{"username"}},
		{"bad team id", service.CreateMemberInput{Age: 1, TeamID: i64Ptr(0)}, []string{"team_id"}},
		{"aggregated", service.CreateMemberInput{Username: strPtr(strings.Repeat("u", 51)), Age: -3, TeamID: i64Ptr(-1)}, []string{"username", "age", "team_id"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			members := &memberRepoMock{}
			_, err := newMemberService(members, newFakeTeamRepo()).CreateMember(context.Background(), tc.in)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			fields := service.FieldErrors(err)
			require.Len(t, fields, len(tc.wantFields))
			for _, f := range tc.wantFields {
				assert.True(t, hasField(fields, f), "missing field %s in %+v", f, fields)
			}
			members.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestMemberService_CreateMember_UnknownTeam(t *testing.T) {
	members := &memberRepoMock{}
	_, err := newMemberService(members, newFakeTeamRepo()).CreateMember(context.Background(),
		service.CreateMemberInput{Age: 10, TeamID: i64Ptr(99)})

	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.True(t, hasField(service.FieldErrors(err), "team_id"))
	members.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMemberService_CreateMember_TeamLookupErrorPropagates(t *testing.T) {
	teams := newFakeTeamRepo()
	boom := errors.New("db down")
	teams.existsErr = boom
	_, err := newMemberService(&memberRepoMock{}, teams).CreateMember(context.Background(),
		service.CreateMemberInput{Age: 10, TeamID: i64Ptr(1)})
	assert.ErrorIs(t, err, boom)
}

func TestMemberService_CreateMember_NormalizesUsername(t *testing.T) {
	teams := newFakeTeamRepo()
	team, err := teams.Create(context.Background(), model.Team{Name: "teamA"})
	require.NoError(t, err)

	cases := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil stays nil", nil, nil},
		{"blank becomes nil", strPtr("   "), nil},
		{"trimmed", strPtr(" member1 "), strPtr("member1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			members := &memberRepoMock{}
			want := model.Member{Username: tc.want, Age: 10, TeamID: &team.ID}
			members.On("Create", mock.Anything, want).Return(model.Member{ID: 1, Username: tc.want, Age: 10, TeamID: &team.ID}, nil).Once()

			out, err := newMemberService(members, teams).CreateMember(context.Background(),
				service.CreateMemberInput{Username: tc.in, Age: 10, TeamID: &team.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), out.ID)
			members.AssertExpectations(t)
		})
	}
}

func TestMemberService_CreateMember_RunsInTransaction(t *testing.T) {
	members := &memberRepoMock{}
	members.On("Create", mock.Anything, model.Member{Age: 3}).Return(model.Member{ID: 9, Age: 3}, nil).Once()
	tx := &inlineTx{}
	svc := service.NewMemberService(members, newFakeTeamRepo(), tx, zerolog.New(io.Discard))

	out, err := svc.CreateMember(context.Background(), service.CreateMemberInput{Age: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
	assert.Equal(t, 1, tx.calls)

	_, err = svc.CreateMember(context.Background(), service.CreateMemberInput{Age: -3})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, 1, tx.calls, "validation failures never open a transaction")
}

func TestMemberService_GetMember(t *testing.T) {
	members := &memberRepoMock{}
	members.On("GetByID", mock.Anything, int64(5)).Return(model.Member{}, repository.ErrNotFound)
	svc := newMemberService(members, newFakeTeamRepo())

	_, err := svc.GetMember(context.Background(), -1)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.GetMember(context.Background(), 5)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemberService_SearchMembers_PassesConditionThrough(t *testing.T) {
	cond := model.MemberSearchCondition{Username: "  ", AgeGoe: intPtr(40), AgeLoe: intPtr(-20)}
	rows := []model.MemberTeam{{MemberID: 1, Age: 30}}

	members := &memberRepoMock{}
	members.On("Search", mock.Anything, cond).Return(rows, nil).Once()

	got, err := newMemberService(members, newFakeTeamRepo()).SearchMembers(context.Background(), cond)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	members.AssertExpectations(t)
}

func TestMemberService_SearchPages_NormalizeAndRoute(t *testing.T) {
	cond := model.MemberSearchCondition{TeamName: "teamB"}
	normalized := repository.Page{Limit: 20, Offset: 0}
	res := repository.PageResult[model.MemberTeam]{Items: []model.MemberTeam{{MemberID: 3}}, PageSize: 20, Total: 1}

	t.Run("counting", func(t *testing.T) {
		members := &memberRepoMock{}
		members.On("SearchPage", mock.Anything, cond, normalized).Return(res, nil).Once()

		got, err := newMemberService(members, newFakeTeamRepo()).
			SearchMembersPage(context.Background(), cond, repository.Page{Limit: 0, Offset: -4})
		require.NoError(t, err)
		assert.Equal(t, res, got)
		members.AssertExpectations(t)
		members.AssertNotCalled(t, "SearchPageOptimizedCount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("optimized", func(t *testing.T) {
		members := &memberRepoMock{}
		members.On("SearchPageOptimizedCount", mock.Anything, cond, normalized).Return(res, nil).Once()

		got, err := newMemberService(members, newFakeTeamRepo()).
			SearchMembersPageOptimized(context.Background(), cond, repository.Page{})
		require.NoError(t, err)
		assert.Equal(t, res, got)
		members.AssertNotCalled(t, "SearchPage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMemberService_SearchPage_RejectsUnknownSort(t *testing.T) {
	members := &memberRepoMock{}
	_, err := newMemberService(members, newFakeTeamRepo()).SearchMembersPage(context.Background(),
		model.MemberSearchCondition{}, repository.Page{Sort: []repository.Order{{Field: "password"}}})

	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.True(t, hasField(service.FieldErrors(err), "sort"))
	members.AssertNotCalled(t, "SearchPage", mock.Anything, mock.Anything, mock.Anything)
}

func TestMemberService_SearchPage_ErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	members := &memberRepoMock{}
	members.On("SearchPage", mock.Anything, mock.Anything, mock.Anything).
		Return(repository.PageResult[model.MemberTeam]{}, boom)

	_, err := newMemberService(members, newFakeTeamRepo()).SearchMembersPage(context.Background(),
		model.MemberSearchCondition{}, repository.Page{Limit: 5})
	assert.ErrorIs(t, err, boom)
}

func TestMemberService_Stats(t *testing.T) {
	members := &memberRepoMock{}
	summary := model.AgeSummary{Count: 4, Sum: 100, Avg: 25, Max: 40, Min: 10}
	oldest := []model.Member{{ID: 4, Age: 40}}
	above := []model.Member{{ID: 3, Age: 30}, {ID: 4, Age: 40}}
	byTeam := []model.TeamAverageAge{{TeamName: "teamA", AvgAge: 15}}
	members.On("AgeSummary", mock.Anything).Return(summary, nil)
	members.On("FindOldest", mock.Anything).Return(oldest, nil)
	members.On("FindAtLeastAverageAge", mock.Anything).Return(above, nil)
	members.On("TeamAverageAges", mock.Anything).Return(byTeam, nil)
	bands := []model.AgeBand{{Band: model.BandUpTo20, Count: 2}, {Band: model.Band21To30, Count: 1}}
	members.On("AgeBands", mock.Anything).Return(bands, nil)

	svc := newMemberService(members, newFakeTeamRepo())
	ctx := context.Background()

	gotSummary, err := svc.AgeSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, summary, gotSummary)

	gotOldest, err := svc.OldestMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, oldest, gotOldest)

	gotAbove, err := svc.MembersAtLeastAverageAge(ctx)
	require.NoError(t, err)
	assert.Equal(t, above, gotAbove)

	gotByTeam, err := svc.TeamAverageAges(ctx)
	require.NoError(t, err)
	assert.Equal(t, byTeam, gotByTeam)

	gotBands, err := svc.AgeBands(ctx)
	require.NoError(t, err)
	assert.Equal(t, bands, gotBands)
}
