package models

import (
	"encoding/json"
	"time"
)

type MatchPhase string

const (
	PhasePool        MatchPhase = "pool"
	PhaseKnockout    MatchPhase = "knockout"
	PhaseConsolation MatchPhase = "consolation"
)

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusComplete MatchStatus = "completed"
)

// SetScore is one set of a match. Who won the set is derived by
// comparing A and B, never stored.
type SetScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Match references its two participants by team ID. In knockout play a
// side may be nil until the feeding match resolves.
type Match struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Phase        MatchPhase `json:"phase" db:"phase"`
	PoolID       *int       `json:"pool_id,omitempty" db:"pool_id"`

	Team1ID *int `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID *int `json:"team2_id,omitempty" db:"team2_id"`

	// Knockout bookkeeping; nil for pool matches.
	Round        *int    `json:"round,omitempty" db:"round"`
	OrderInRound *int    `json:"order_in_round,omitempty" db:"order_in_round"`
	BracketUID   *string `json:"bracket_uid,omitempty" db:"bracket_uid"`

	Sets         []SetScore  `json:"sets" db:"-"` // persisted as sets_json
	Status       MatchStatus `json:"status" db:"status"`
	WinnerTeamID *int        `json:"winner_team_id,omitempty" db:"winner_team_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// SetsWon counts sets with a decisive winner. Drawn sets count for
// neither side.
func (m *Match) SetsWon() (team1 int, team2 int) {
	for _, s := range m.Sets {
		switch {
		case s.A > s.B:
			team1++
		case s.B > s.A:
			team2++
		}
	}
	return team1, team2
}

// LoserTeamID is the counterpart of WinnerTeamID for a completed match.
func (m *Match) LoserTeamID() *int {
	if m.WinnerTeamID == nil || m.Team1ID == nil || m.Team2ID == nil {
		return nil
	}
	if *m.WinnerTeamID == *m.Team1ID {
		return m.Team2ID
	}
	return m.Team1ID
}

// EncodeSets serializes the set list for storage.
func (m *Match) EncodeSets() (*string, error) {
	if len(m.Sets) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m.Sets)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}

// DecodeSets restores the set list from its stored form.
func (m *Match) DecodeSets(raw *string) error {
	if raw == nil || *raw == "" {
		m.Sets = nil
		return nil
	}
	return json.Unmarshal([]byte(*raw), &m.Sets)
}

// SetsEqual reports whether two score sheets are identical, including
// set order.
func SetsEqual(a, b []SetScore) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
