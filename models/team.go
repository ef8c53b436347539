package models

// TeamKind distinguishes singles entries from doubles pairs.
type TeamKind string

const (
	TeamKindSingle TeamKind = "single"
	TeamKindDouble TeamKind = "double"
)

// Team is owned by exactly one tournament and never mutated after
// its first match is recorded.
type Team struct {
	ID           int      `json:"id" db:"id"`
	TournamentID int      `json:"tournament_id" db:"tournament_id"`
	Kind         TeamKind `json:"kind" db:"kind"`
	Player1ID    int      `json:"player1_id" db:"player1_id"`
	Player2ID    *int     `json:"player2_id,omitempty" db:"player2_id"`
	PoolID       *int     `json:"pool_id,omitempty" db:"pool_id"`

	Player1 *Player `json:"player1,omitempty" db:"-"`
	Player2 *Player `json:"player2,omitempty" db:"-"`
}

func (t *Team) DisplayName() string {
	if t.Player1 == nil {
		return ""
	}
	if t.Kind == TeamKindDouble && t.Player2 != nil {
		return t.Player1.Name + " / " + t.Player2.Name
	}
	return t.Player1.Name
}
