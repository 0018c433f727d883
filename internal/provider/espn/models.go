package espn

// Wire shapes for the lm-api-reads fantasy v3 API. Only the fields the
// adapter reads are declared; the responses carry far more.

type leagueResponse struct {
	ID              int64           `json:"id"`
	Members         []member        `json:"members"`
	Teams           []teamEntry     `json:"teams"`
	Schedule        []scheduleEntry `json:"schedule"`
	ScoringPeriodID int             `json:"scoringPeriodId"`
}

type member struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type teamEntry struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbrev"`
	Owners       []string `json:"owners"`
	Roster       roster   `json:"roster"`
}

type roster struct {
	Entries []rosterEntry `json:"entries"`
}

type rosterEntry struct {
	LineupSlotID    int             `json:"lineupSlotId"`
	PlayerPoolEntry playerPoolEntry `json:"playerPoolEntry"`
}

type playerPoolEntry struct {
	ID     int64      `json:"id"`
	Player playerInfo `json:"player"`
}

type playerInfo struct {
	FullName          string       `json:"fullName"`
	DefaultPositionID int          `json:"defaultPositionId"`
	ProTeamID         int          `json:"proTeamId"`
	InjuryStatus      string       `json:"injuryStatus"`
	Stats             []playerStat `json:"stats"`
}

type playerStat struct {
	ScoringPeriodID int     `json:"scoringPeriodId"`
	StatSourceID    int     `json:"statSourceId"`
	AppliedTotal    float64 `json:"appliedTotal"`
}

type scheduleEntry struct {
	ID              int          `json:"id"`
	MatchupPeriodID int          `json:"matchupPeriodId"`
	Home            scheduleSide `json:"home"`
	Away            scheduleSide `json:"away"`
}

type scheduleSide struct {
	TeamID int `json:"teamId"`
}
