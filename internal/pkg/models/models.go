package models

import (
	"time"
)

// ProviderKind identifies the fantasy platform a league lives on.
type ProviderKind string

const (
	ProviderESPN    ProviderKind = "espn"
	ProviderSleeper ProviderKind = "sleeper"
)

// ScoringFormat is the league scoring format. It is set once at league
// registration and never mutated; switching formats means recomputing
// projections, not editing the league row.
type ScoringFormat string

const (
	ScoringStandard ScoringFormat = "standard"
	ScoringHalfPPR  ScoringFormat = "half-point-ppr"
	ScoringPPR      ScoringFormat = "ppr"
)

// PlayerStatus is the canonical injury/availability status. Provider
// vocabularies are mapped into this set by the adapters; anything a
// provider reports that has no mapping degrades to StatusUnknown.
type PlayerStatus string

const (
	StatusActive       PlayerStatus = "ACTIVE"
	StatusQuestionable PlayerStatus = "QUESTIONABLE"
	StatusDoubtful     PlayerStatus = "DOUBTFUL"
	StatusOut          PlayerStatus = "OUT"
	StatusIR           PlayerStatus = "IR"
	StatusUnknown      PlayerStatus = "UNKNOWN"
)

// Sidelined reports whether the player will not take the field this week.
func (s PlayerStatus) Sidelined() bool {
	return s == StatusOut || s == StatusIR
}

// Highlighted reports whether the status should be visually flagged on the
// scoreboard. Presentational only: a questionable player still projects
// normally.
func (s PlayerStatus) Highlighted() bool {
	return s == StatusQuestionable || s == StatusDoubtful || s == StatusOut || s == StatusIR
}

// PlayState classifies a player's real-world game relative to now.
type PlayState string

const (
	PlayFuture PlayState = "future"  // game later this week
	PlayToday  PlayState = "today"   // game later today
	PlayLive   PlayState = "playing" // game underway
	PlayFinal  PlayState = "played"  // game over
	PlayBye    PlayState = "bye"     // no game this week
)

// League is one registered fantasy league for a profile.
type League struct {
	Profile   string        `json:"profile"`
	Name      string        `json:"name"`
	Provider  ProviderKind  `json:"platform"`
	Scoring   ScoringFormat `json:"scoring"`
	LeagueID  int64         `json:"league_id"`
	TeamID    int           `json:"team_id"`
	StartYear int           `json:"start_year"`

	// ESPN private-league credentials; empty for Sleeper.
	SWID string `json:"-"`
	S2   string `json:"-"`
}

// Team is one fantasy roster within a league.
type Team struct {
	LeagueID int64  `json:"league_id"`
	TeamID   int    `json:"team_id"`
	Name     string `json:"team"`
	Owner    string `json:"owner"`
}

// Player is the provider-scoped identity of an NFL player. Players are
// referenced from rosters, never owned by them: the same player shows up on
// any number of fantasy teams across leagues.
type Player struct {
	Name     string       `json:"name"`
	NFLTeam  string       `json:"team"`
	Position string       `json:"position"`
	Status   PlayerStatus `json:"status"`
}

// PlayerScore is one roster row for a (league, team, week): the player, the
// slot they occupy, and their current live point total. Points only ever
// grow within a week as the row is re-ingested.
type PlayerScore struct {
	LeagueID int64 `json:"league_id"`
	TeamID   int   `json:"team_id"`
	Week     int   `json:"week"`
	Player

	Slot      string    `json:"slot"`
	Points    float64   `json:"points"`
	PlayState PlayState `json:"play_status"`
	Gametime  time.Time `json:"gametime"`
	Updated   time.Time `json:"updated"`
}

// Matchup pairs two teams of the same league for one week. Rows are stored
// in both directions so either side can be looked up as home.
type Matchup struct {
	LeagueID int64 `json:"league_id"`
	Week     int   `json:"week"`
	Home     int   `json:"home"`
	Away     int   `json:"away"`
}

// Projection is the baseline expected point total for a player in a week,
// per scoring format, as supplied by the external projections feed.
type Projection struct {
	Player   string    `json:"player"`
	NFLTeam  string    `json:"team"`
	Week     int       `json:"week"`
	Standard float64   `json:"standard"`
	HalfPPR  float64   `json:"half-point-ppr"`
	PPR      float64   `json:"ppr"`
	Updated  time.Time `json:"updated"`
}

// ForFormat selects the baseline value matching a league's scoring format.
func (p Projection) ForFormat(f ScoringFormat) float64 {
	switch f {
	case ScoringHalfPPR:
		return p.HalfPPR
	case ScoringPPR:
		return p.PPR
	default:
		return p.Standard
	}
}

// GameProgress tracks how far along one NFL team's real-world game is.
// Elapsed runs 0.0 (not started) to 1.0 (final).
type GameProgress struct {
	Year    int     `json:"year"`
	Week    int     `json:"week"`
	NFLTeam string  `json:"team"`
	Elapsed float64 `json:"progress"`
	Display string  `json:"display"`
	Final   bool    `json:"final"`
}

// Change records a projection swing that crossed the monitor threshold.
// The changes table is append-only.
type Change struct {
	Player  string        `json:"player"`
	NFLTeam string        `json:"team"`
	Scoring ScoringFormat `json:"scoring"`
	Old     float64       `json:"old"`
	New     float64       `json:"new"`
	Updated time.Time     `json:"updated"`
}

// Delta is the signed projection move.
func (c Change) Delta() float64 {
	return c.New - c.Old
}
