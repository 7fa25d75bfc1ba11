// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Team is the "one" side of the member relation.
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member belongs to at most one team. Username is nullable in storage.
type Member struct {
	ID        int64     `json:"id"`
	Username  *string   `json:"username"`
	Age       int       `json:"age"`
	TeamID    *int64    `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberSearchCondition is a sparse filter. An empty (or whitespace-only)
// string and a nil bound mean "no constraint", never "match NULL".
type MemberSearchCondition struct {
	Username string `json:"username,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	AgeGoe   *int   `json:"age_goe,omitempty"`
	AgeLoe   *int   `json:"age_loe,omitempty"`
}

// MemberTeam is a flattened read-only view of a member joined with its team.
// Team fields are pointers because members without a team are left-joined.
type MemberTeam struct {
	MemberID int64   `json:"member_id"`
	Username *string `json:"username"`
	Age      int     `json:"age"`
	TeamID   *int64  `json:"team_id"`
	TeamName *string `json:"team_name"`
}

// AgeSummary aggregates member ages across the whole table.
type AgeSummary struct {
	Count int64   `json:"count"`
	Sum   int64   `json:"sum"`
	Avg   float64 `json:"avg"`
	Max   int     `json:"max"`
	Min   int     `json:"min"`
}

// TeamAverageAge is one row of the per-team age grouping.
type TeamAverageAge struct {
	TeamName string  `json:"team_name"`
	AvgAge   float64 `json:"avg_age"`
}

// Age band labels; any age outside the first two bands is BandOther.
const (
	BandUpTo20 = "0-20"
	Band21To30 = "21-30"
	BandOther  = "other"
)

// AgeBand is one row of the member count per age band. Empty bands are omitted.
type AgeBand struct {
	Band  string `json:"band"`
	Count int64  `json:"count"`
}
