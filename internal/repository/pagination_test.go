package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/member-search-service/internal/repository"
)

type countMock struct{ mock.Mock }

func (m *countMock) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewPageResult_AlwaysCounts(t *testing.T) {
	ctx := context.Background()
	counter := &countMock{}
	counter.On("Count", ctx).Return(4, nil).Once()

	res, err := repository.NewPageResult(ctx, []int{1}, repository.Page{Limit: 10}, counter.Count)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 10, res.PageSize)
	assert.Equal(t, []int{1}, res.Items)
	counter.AssertExpectations(t)
}

func TestNewPageResultSkippingCount(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		items     []int
		page      repository.Page
		wantCount bool
		wantTotal int
	}{
		{"short first page", []int{1, 2, 3}, repository.Page{Limit: 5}, false, 3},
		{"empty first page", nil, repository.Page{Limit: 5}, false, 0},
		{"full first page", []int{1, 2}, repository.Page{Limit: 2}, true, 4},
		{"short page at offset", []int{1}, repository.Page{Limit: 2, Offset: 2}, true, 4},
		{"empty page at offset", nil, repository.Page{Limit: 2, Offset: 8}, true, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			counter := &countMock{}
			if tc.wantCount {
				counter.On("Count", ctx).Return(4, nil).Once()
			}

			res, err := repository.NewPageResultSkippingCount(ctx, tc.items, tc.page, counter.Count)
			require.NoError(t, err)
			assert.Equal(t, tc.wantTotal, res.Total)
			assert.Equal(t, tc.page.Offset, res.Offset)
			assert.Equal(t, tc.page.Limit, res.PageSize)
			if tc.wantCount {
				counter.AssertExpectations(t)
			} else {
				counter.AssertNotCalled(t, "Count", mock.Anything)
			}
		})
	}
}

func TestNewPageResult_CountErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	failing := func(context.Context) (int, error) { return 0, boom }

	_, err := repository.NewPageResult(context.Background(), []int{1, 2}, repository.Page{Limit: 2}, failing)
	assert.ErrorIs(t, err, boom)

	_, err = repository.NewPageResultSkippingCount(context.Background(), []int{1, 2}, repository.Page{Limit: 2}, failing)
	assert.ErrorIs(t, err, boom)
}

func TestSortField_Valid(t *testing.T) {
	for _, f := range []repository.SortField{repository.SortByMemberID, repository.SortByUsername, repository.SortByAge, repository.SortByTeamName} {
		assert.True(t, f.Valid(), string(f))
	}
	assert.False(t, repository.SortField("password").Valid())
	assert.False(t, repository.SortField("").Valid())
}
