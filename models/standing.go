package models

// PoolStanding is one row of a pool's ranking table. Ranking key,
// descending: match wins, set-win ratio, set difference, and finally
// the team's insertion position in the pool so ties are never
// ambiguous.
type PoolStanding struct {
	PoolID     int     `json:"pool_id"`
	TeamID     int     `json:"team_id"`
	Rank       int     `json:"rank"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	SetsWon    int     `json:"sets_won"`
	SetsLost   int     `json:"sets_lost"`
	SetsPlayed int     `json:"sets_played"`
	SetRatio   float64 `json:"set_ratio"`
	SetDiff    int     `json:"set_diff"`

	Team *Team `json:"team,omitempty"`
}
