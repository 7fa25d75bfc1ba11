package postgres

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the dialect
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
	"github.com/maxviazov/member-search-service/internal/repository/predicate"
)

const (
	tableMembers = "members"
	tableTeams   = "teams"
	aliasMember  = "m"
	aliasTeam    = "t"
	aliasSub     = "sub"
	aliasAvgAge  = "avg_age"
	aliasBand    = "band"
	castFloat    = "DOUBLE PRECISION"
)

var (
	dialect = goqu.Dialect("postgres")

	colMemberID       = goqu.I("m.id")
	colMemberUsername = goqu.I("m.username")
	colMemberAge      = goqu.I("m.age")
	colMemberTeamID   = goqu.I("m.team_id")
	colMemberCreated  = goqu.I("m.created_at")
	colMemberUpdated  = goqu.I("m.updated_at")
	colTeamID         = goqu.I("t.id")
	colTeamName       = goqu.I("t.name")
	colSubAge         = goqu.I("sub.age")
)

// memberCols is the column list scanned by scanMember, in order.
func memberCols() []interface{} {
	return []interface{}{colMemberID, colMemberUsername, colMemberAge, colMemberTeamID, colMemberCreated, colMemberUpdated}
}

// memberTeamCols is the projection scanned by scanMemberTeam, in order.
func memberTeamCols() []interface{} {
	return []interface{}{colMemberID, colMemberUsername, colMemberAge, colTeamID, colTeamName}
}

func fromMembers() *goqu.SelectDataset {
	return dialect.From(goqu.T(tableMembers).As(aliasMember)).Prepared(true)
}

// fromMembersLeftJoinTeams is the relation every search runs against:
// members without a team still appear, with NULL team columns.
func fromMembersLeftJoinTeams() *goqu.SelectDataset {
	return fromMembers().LeftJoin(
		goqu.T(tableTeams).As(aliasTeam),
		goqu.On(colMemberTeamID.Eq(colTeamID)),
	)
}

func usernameEq(username string) predicate.Optional {
	return predicate.When(predicate.HasText(username), func() exp.Expression {
		return colMemberUsername.Eq(username)
	})
}

func teamNameEq(teamName string) predicate.Optional {
	return predicate.When(predicate.HasText(teamName), func() exp.Expression {
		return colTeamName.Eq(teamName)
	})
}

func ageGoe(age *int) predicate.Optional {
	return predicate.When(age != nil, func() exp.Expression {
		return colMemberAge.Gte(*age)
	})
}

func ageLoe(age *int) predicate.Optional {
	return predicate.When(age != nil, func() exp.Expression {
		return colMemberAge.Lte(*age)
	})
}

// memberSearchWhere folds the four condition filters; order is irrelevant.
func memberSearchWhere(cond model.MemberSearchCondition) exp.ExpressionList {
	return predicate.All(
		usernameEq(cond.Username),
		teamNameEq(cond.TeamName),
		ageGoe(cond.AgeGoe),
		ageLoe(cond.AgeLoe),
	)
}

func applyWhere(ds *goqu.SelectDataset, where exp.ExpressionList) *goqu.SelectDataset {
	if where.IsEmpty() {
		return ds
	}
	return ds.Where(where)
}

// orderBy translates sort requests; text columns put NULLs last. The member
// id is always appended as a tie-breaker so pages never overlap.
func orderBy(sort []repository.Order) ([]exp.OrderedExpression, error) {
	out := make([]exp.OrderedExpression, 0, len(sort)+1)
	hasID := false
	for _, o := range sort {
		var col exp.IdentifierExpression
		nullsLast := false
		switch o.Field {
		case repository.SortByMemberID:
			col, hasID = colMemberID, true
		case repository.SortByUsername:
			col, nullsLast = colMemberUsername, true
		case repository.SortByAge:
			col = colMemberAge
		case repository.SortByTeamName:
			col, nullsLast = colTeamName, true
		default:
			return nil, fmt.Errorf("unsupported sort field %q", o.Field)
		}
		ord := col.Asc()
		if o.Desc {
			ord = col.Desc()
		}
		if nullsLast {
			ord = ord.NullsLast()
		}
		out = append(out, ord)
	}
	if !hasID {
		out = append(out, colMemberID.Asc())
	}
	return out, nil
}

// buildSearchQuery renders the content query. A nil page means unbounded.
func buildSearchQuery(cond model.MemberSearchCondition, p *repository.Page) (string, []interface{}, error) {
	ds := applyWhere(fromMembersLeftJoinTeams().Select(memberTeamCols()...), memberSearchWhere(cond))

	var sort []repository.Order
	if p != nil {
		sort = p.Sort
	}
	order, err := orderBy(sort)
	if err != nil {
		return "", nil, err
	}
	ds = ds.Order(order...)

	if p != nil {
		ds = ds.Limit(uint(p.Limit)).Offset(uint(p.Offset))
	}
	return ds.ToSQL()
}

// buildCountQuery counts over the same join and predicates as the content query.
func buildCountQuery(cond model.MemberSearchCondition) (string, []interface{}, error) {
	ds := fromMembersLeftJoinTeams().Select(goqu.COUNT(colMemberID))
	return applyWhere(ds, memberSearchWhere(cond)).ToSQL()
}

func buildAgeSummaryQuery() (string, []interface{}, error) {
	return fromMembers().Select(
		goqu.COUNT(colMemberID),
		goqu.COALESCE(goqu.SUM(colMemberAge), 0),
		goqu.COALESCE(goqu.Cast(goqu.AVG(colMemberAge), castFloat), 0),
		goqu.COALESCE(goqu.MAX(colMemberAge), 0),
		goqu.COALESCE(goqu.MIN(colMemberAge), 0),
	).ToSQL()
}

func buildTeamAverageAgesQuery() (string, []interface{}, error) {
	return fromMembers().
		InnerJoin(goqu.T(tableTeams).As(aliasTeam), goqu.On(colMemberTeamID.Eq(colTeamID))).
		Select(colTeamName, goqu.Cast(goqu.AVG(colMemberAge), castFloat).As(aliasAvgAge)).
		GroupBy(colTeamName).
		Order(colTeamName.Asc()).
		ToSQL()
}

// subAges is the correlated-free subquery source used by the age comparisons.
func subAges(agg func(interface{}) exp.SQLFunctionExpression) *goqu.SelectDataset {
	return dialect.From(goqu.T(tableMembers).As(aliasSub)).Select(agg(colSubAge))
}

// buildOldestQuery compares against the scalar subquery directly; Eq on a
// dataset would render as IN.
func buildOldestQuery() (string, []interface{}, error) {
	return fromMembers().
		Select(memberCols()...).
		Where(exp.NewBooleanExpression(exp.EqOp, colMemberAge, subAges(goqu.MAX))).
		Order(colMemberID.Asc()).
		ToSQL()
}

func buildAtLeastAverageAgeQuery() (string, []interface{}, error) {
	return fromMembers().
		Select(memberCols()...).
		Where(colMemberAge.Gte(subAges(goqu.AVG))).
		Order(colMemberAge.Asc(), colMemberID.Asc()).
		ToSQL()
}

func ageBandCase() exp.CaseExpression {
	return goqu.Case().
		When(colMemberAge.Between(goqu.Range(0, 20)), model.BandUpTo20).
		When(colMemberAge.Between(goqu.Range(21, 30)), model.Band21To30).
		Else(model.BandOther)
}

// buildAgeBandsQuery groups by the CASE alias. The labels are bound
// parameters, so repeating the expression in GROUP BY would not match.
func buildAgeBandsQuery() (string, []interface{}, error) {
	return fromMembers().
		Select(ageBandCase().As(aliasBand), goqu.COUNT(colMemberID)).
		GroupBy(goqu.I(aliasBand)).
		Order(goqu.MIN(colMemberAge).Asc()).
		ToSQL()
}
