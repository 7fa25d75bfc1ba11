package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
)

type memberService struct {
	members repository.MemberRepository
	teams   repository.TeamRepository
	tx      repository.TxManager
	log     zerolog.Logger
}

func NewMemberService(members repository.MemberRepository, teams repository.TeamRepository, tx repository.TxManager, logger zerolog.Logger) MemberService {
	l := logger.With().Str("module", "service").Str("component", "member").Logger()
	return &memberService{members: members, teams: teams, tx: tx, log: l}
}

// CreateMember trims the username and stores a blank one as NULL.
func (s *memberService) CreateMember(ctx context.Context, in CreateMemberInput) (model.Member, error) {
	start := time.Now()

	var ferrs []FieldError
	var username *string
	if in.Username != nil {
		if u := strings.TrimSpace(*in.Username); u != "" {
			if len([]rune(u)) > maxUsernameLen {
				ferrs = append(ferrs, FieldError{Field: "username", Message: "length must be at most 50"})
			}
			username = &u
		}
	}
	if in.Age < 0 {
		ferrs = append(ferrs, FieldError{Field: "age", Message: "must be >= 0"})
	}
	if in.TeamID != nil && *in.TeamID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "team_id", Message: "must be > 0"})
	}
	if err := NewInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("member validation failed")
		return model.Member{}, err
	}

	// the team check and the insert share one transaction
	var out model.Member
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if in.TeamID != nil {
			ok, err := s.teams.Exists(ctx, *in.TeamID)
			if err != nil {
				s.log.Error().Err(err).Int64("team_id", *in.TeamID).Msg("team lookup failed")
				return err
			}
			if !ok {
				return NewInvalidInput([]FieldError{{Field: "team_id", Message: "team does not exist"}})
			}
		}
		var err error
		out, err = s.members.Create(ctx, model.Member{Username: username, Age: in.Age, TeamID: in.TeamID})
		if err != nil {
			s.log.Error().Err(err).Msg("create member failed")
		}
		return err
	})
	if err != nil {
		return model.Member{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("member_id", out.ID).Msg("member created")
	return out, nil
}

func (s *memberService) GetMember(ctx context.Context, id int64) (model.Member, error) {
	if err := positiveID("id", id); err != nil {
		return model.Member{}, err
	}
	return s.members.GetByID(ctx, id)
}

// SearchMembers passes the condition through untouched: every combination,
// inverted or negative age bounds included, is a legal query.
func (s *memberService) SearchMembers(ctx context.Context, cond model.MemberSearchCondition) ([]model.MemberTeam, error) {
	out, err := s.members.Search(ctx, cond)
	if err != nil {
		s.log.Error().Err(err).Interface("condition", cond).Msg("member search failed")
		return nil, err
	}
	return out, nil
}

func (s *memberService) SearchMembersPage(ctx context.Context, cond model.MemberSearchCondition, page repository.Page) (repository.PageResult[model.MemberTeam], error) {
	return s.searchPage(ctx, cond, page, s.members.SearchPage)
}

func (s *memberService) SearchMembersPageOptimized(ctx context.Context, cond model.MemberSearchCondition, page repository.Page) (repository.PageResult[model.MemberTeam], error) {
	return s.searchPage(ctx, cond, page, s.members.SearchPageOptimizedCount)
}

type pageSearch func(context.Context, model.MemberSearchCondition, repository.Page) (repository.PageResult[model.MemberTeam], error)

func (s *memberService) searchPage(ctx context.Context, cond model.MemberSearchCondition, page repository.Page, run pageSearch) (repository.PageResult[model.MemberTeam], error) {
	p, err := normalizePage(page)
	if err != nil {
		return repository.PageResult[model.MemberTeam]{}, err
	}
	res, err := run(ctx, cond, p)
	if err != nil {
		s.log.Error().Err(err).Interface("condition", cond).Int("limit", p.Limit).Int("offset", p.Offset).Msg("member page search failed")
		return repository.PageResult[model.MemberTeam]{}, err
	}
	return res, nil
}

func (s *memberService) AgeSummary(ctx context.Context) (model.AgeSummary, error) {
	return s.members.AgeSummary(ctx)
}

func (s *memberService) TeamAverageAges(ctx context.Context) ([]model.TeamAverageAge, error) {
	return s.members.TeamAverageAges(ctx)
}

func (s *memberService) AgeBands(ctx context.Context) ([]model.AgeBand, error) {
	return s.members.AgeBands(ctx)
}

func (s *memberService) OldestMembers(ctx context.Context) ([]model.Member, error) {
	return s.members.FindOldest(ctx)
}

func (s *memberService) MembersAtLeastAverageAge(ctx context.Context) ([]model.Member, error) {
	return s.members.FindAtLeastAverageAge(ctx)
}
