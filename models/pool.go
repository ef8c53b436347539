package models

// Pool is a round-robin mini-group of 3 or 4 teams.
type Pool struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"` // "A", "B", ...
	Position     int    `json:"position" db:"position"`

	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}
