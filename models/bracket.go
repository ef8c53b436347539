package models

// BracketKind separates the main knockout tree from the consolation
// tree built from first-round losers.
type BracketKind string

const (
	BracketMain        BracketKind = "main"
	BracketConsolation BracketKind = "consolation"
)

// BracketNode is one slot in a single-elimination tree, stored
// arena-style: nodes are addressed by (round, position) instead of
// pointers, which keeps them trivial to persist and compare.
//
// Occupant states:
//   - TeamID set:            resolved to a concrete team
//   - Bye true:              empty slot, the paired team advances for free
//   - MatchUID set, no team: pending winner of that match
type BracketNode struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Bracket      BracketKind `json:"bracket" db:"bracket"`
	Round        int         `json:"round" db:"round"`
	Position     int         `json:"position" db:"position"`
	TeamID       *int        `json:"team_id,omitempty" db:"team_id"`
	Bye          bool        `json:"bye" db:"bye"`
	MatchUID     *string     `json:"match_uid,omitempty" db:"match_uid"`
}
