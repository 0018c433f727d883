package sleeper

// Wire shapes for the public Sleeper v1 API.

type playerInfo struct {
	FullName         string   `json:"full_name"`
	LastName         string   `json:"last_name"`
	Team             string   `json:"team"`
	InjuryStatus     string   `json:"injury_status"`
	FantasyPositions []string `json:"fantasy_positions"`
}

type matchupEntry struct {
	RosterID      int                `json:"roster_id"`
	MatchupID     int                `json:"matchup_id"`
	Players       []string           `json:"players"`
	Starters      []string           `json:"starters"`
	PlayersPoints map[string]float64 `json:"players_points"`
}

type rosterEntry struct {
	RosterID int    `json:"roster_id"`
	OwnerID  string `json:"owner_id"`
}

type userEntry struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Metadata    userMetadata `json:"metadata"`
}

type userMetadata struct {
	TeamName string `json:"team_name"`
}
