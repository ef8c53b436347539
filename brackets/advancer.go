package brackets

import (
	"github.com/clubmatch/tournament-engine/models"
)

// AdvanceOutcome describes everything a completed knockout match
// changed, so the caller can persist and broadcast without re-deriving
// engine state.
type AdvanceOutcome struct {
	Match        *models.Match
	WinnerTeamID int
	LoserTeamID  int
	DecidedNode  *models.BracketNode
	NextMatch    *models.Match // nil when the final was decided
	Champion     *int          // set when the final was decided
	NoOp         bool          // identical resubmission of a completed match

	// FeedsConsolation marks a first-round main-bracket match: its
	// loser is a consolation entrant. Byes never produce one.
	FeedsConsolation bool
}

// ResetOutcome lists the state discarded by a cascading reset.
type ResetOutcome struct {
	ClearedMatchUIDs []string
	ChampionCleared  bool
	// ConsolationAffected means a first-round result was discarded, so
	// a consolation bracket built from it is stale and must be
	// discarded by the caller as well.
	ConsolationAffected bool
}

// RecordResult applies a score sheet to the knockout match with the
// given UID and advances the winner into the parent slot. The nodes
// and matches must belong to a single bracket (main or consolation).
func RecordResult(kind models.BracketKind, nodes []models.BracketNode, matches []models.Match, uid string, sets []models.SetScore) (*AdvanceOutcome, error) {
	m := findMatch(matches, uid)
	if m == nil {
		return nil, ErrMatchNotFound
	}

	noop, err := ApplyResult(m, sets)
	if err != nil {
		return nil, err
	}

	out := &AdvanceOutcome{
		Match:            m,
		WinnerTeamID:     *m.WinnerTeamID,
		LoserTeamID:      *m.LoserTeamID(),
		NoOp:             noop,
		FeedsConsolation: kind == models.BracketMain && *m.Round == 1,
	}
	if noop {
		return out, nil
	}

	round := *m.Round
	pos := *m.OrderInRound - 1

	decided := findNode(nodes, round+1, pos)
	if decided != nil {
		winner := out.WinnerTeamID
		decided.TeamID = &winner
		out.DecidedNode = decided
	}

	if round+1 == maxRound(nodes) {
		champion := out.WinnerTeamID
		out.Champion = &champion
		return out, nil
	}

	next := findMatch(matches, matchUID(kind, round+1, pos/2+1))
	if next != nil {
		winner := out.WinnerTeamID
		if pos%2 == 0 {
			next.Team1ID = &winner
		} else {
			next.Team2ID = &winner
		}
		out.NextMatch = next
	}
	return out, nil
}

// ResetResult discards a recorded result and every piece of state
// derived from it: the decided slot, the winner's placement downstream
// and, recursively, any results already recorded there. Resetting a
// pending match is a no-op.
func ResetResult(kind models.BracketKind, nodes []models.BracketNode, matches []models.Match, uid string) (*ResetOutcome, error) {
	m := findMatch(matches, uid)
	if m == nil {
		return nil, ErrMatchNotFound
	}
	out := &ResetOutcome{}
	resetCascade(kind, nodes, matches, m, out)
	return out, nil
}

func resetCascade(kind models.BracketKind, nodes []models.BracketNode, matches []models.Match, m *models.Match, out *ResetOutcome) {
	if m.Status != models.MatchStatusComplete {
		return
	}
	winner := *m.WinnerTeamID
	round := *m.Round
	pos := *m.OrderInRound - 1

	if round+1 == maxRound(nodes) {
		out.ChampionCleared = true
	} else if next := findMatch(matches, matchUID(kind, round+1, pos/2+1)); next != nil {
		resetCascade(kind, nodes, matches, next, out)
		if pos%2 == 0 && next.Team1ID != nil && *next.Team1ID == winner {
			next.Team1ID = nil
		} else if pos%2 == 1 && next.Team2ID != nil && *next.Team2ID == winner {
			next.Team2ID = nil
		}
	}

	if decided := findNode(nodes, round+1, pos); decided != nil {
		decided.TeamID = nil
	}
	ClearResult(m)
	out.ClearedMatchUIDs = append(out.ClearedMatchUIDs, *m.BracketUID)
	if kind == models.BracketMain && round == 1 {
		out.ConsolationAffected = true
	}
}

func findMatch(matches []models.Match, uid string) *models.Match {
	for i := range matches {
		if matches[i].BracketUID != nil && *matches[i].BracketUID == uid {
			return &matches[i]
		}
	}
	return nil
}

func findNode(nodes []models.BracketNode, round, position int) *models.BracketNode {
	for i := range nodes {
		if nodes[i].Round == round && nodes[i].Position == position {
			return &nodes[i]
		}
	}
	return nil
}

func maxRound(nodes []models.BracketNode) int {
	top := 0
	for i := range nodes {
		if nodes[i].Round > top {
			top = nodes[i].Round
		}
	}
	return top
}
