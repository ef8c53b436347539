package models

import "time"

// TournamentType selects the competition format.
type TournamentType string

const (
	// TypeClubChampionship runs pools of 3-4, then a single-elimination
	// bracket for the top two of each pool, optionally followed by a
	// consolation bracket for first-round losers.
	TypeClubChampionship TournamentType = "club_championship"
	// TypeRoundRobin is the informal format: everyone plays everyone,
	// no knockout phase.
	TypeRoundRobin TournamentType = "round_robin"
)

// TournamentStatus follows the phase state machine. Transitions are
// monotonic; going back requires an explicit reset that discards the
// descendant phase's state.
type TournamentStatus string

const (
	StatusCreated               TournamentStatus = "created"
	StatusTeamsFormed           TournamentStatus = "teams_formed"
	StatusPoolsAssigned         TournamentStatus = "pools_assigned"
	StatusPoolPhaseComplete     TournamentStatus = "pool_phase_complete"
	StatusBracketGenerated      TournamentStatus = "bracket_generated"
	StatusKnockoutInProgress    TournamentStatus = "knockout_in_progress"
	StatusConsolationInProgress TournamentStatus = "consolation_in_progress"
	StatusCompleted             TournamentStatus = "completed"
)

// nextStatuses lists the allowed forward transitions.
var nextStatuses = map[TournamentStatus][]TournamentStatus{
	StatusCreated:               {StatusTeamsFormed},
	StatusTeamsFormed:           {StatusPoolsAssigned},
	StatusPoolsAssigned:         {StatusPoolPhaseComplete},
	StatusPoolPhaseComplete:     {StatusBracketGenerated, StatusCompleted},
	StatusBracketGenerated:      {StatusKnockoutInProgress},
	StatusKnockoutInProgress:    {StatusConsolationInProgress, StatusCompleted},
	StatusConsolationInProgress: {StatusCompleted},
}

// CanTransitionTo reports whether moving to next respects the
// monotonic phase order.
func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	for _, allowed := range nextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AtLeast reports whether s is at or past the given phase in the
// lifecycle order. Consolation is an optional detour between knockout
// and completed; it compares as equal to knockout_in_progress plus one.
func (s TournamentStatus) AtLeast(phase TournamentStatus) bool {
	return statusOrder(s) >= statusOrder(phase)
}

func statusOrder(s TournamentStatus) int {
	switch s {
	case StatusCreated:
		return 0
	case StatusTeamsFormed:
		return 1
	case StatusPoolsAssigned:
		return 2
	case StatusPoolPhaseComplete:
		return 3
	case StatusBracketGenerated:
		return 4
	case StatusKnockoutInProgress:
		return 5
	case StatusConsolationInProgress:
		return 6
	case StatusCompleted:
		return 7
	}
	return -1
}

// Tournament is the aggregate root owning teams, pools, matches and
// bracket nodes for one competition.
type Tournament struct {
	ID             int            `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	Sport          string         `json:"sport" db:"sport"`
	Type           TournamentType `json:"type" db:"type"`
	TeamSize       int            `json:"team_size" db:"team_size"`
	HasConsolation bool           `json:"has_consolation" db:"has_consolation"`

	Status                    TournamentStatus `json:"status" db:"status"`
	ChampionTeamID            *int             `json:"champion_team_id,omitempty" db:"champion_team_id"`
	ConsolationChampionTeamID *int             `json:"consolation_champion_team_id,omitempty" db:"consolation_champion_team_id"`
	CreatedAt                 time.Time        `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Teams              []Team        `json:"teams,omitempty" db:"-"`
	Pools              []Pool        `json:"pools,omitempty" db:"-"`
	Matches            []Match       `json:"matches,omitempty" db:"-"`
	Bracket            []BracketNode `json:"bracket,omitempty" db:"-"`
	ConsolationBracket []BracketNode `json:"consolation_bracket,omitempty" db:"-"`
}
