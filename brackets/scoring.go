package brackets

import "github.com/clubmatch/tournament-engine/models"

// ApplyResult writes a score sheet onto a match and marks it complete.
// Resubmitting the identical sheet to a completed match is a no-op
// (noop true); a different sheet is rejected until the caller issues an
// explicit reset. A sheet without a decisive set winner is rejected:
// the engine never applies tiebreak heuristics to set scores. Negative
// scores are rejected outright.
func ApplyResult(m *models.Match, sets []models.SetScore) (noop bool, err error) {
	if m.Team1ID == nil || m.Team2ID == nil {
		return false, ErrMatchNotReady
	}
	for _, set := range sets {
		if set.A < 0 || set.B < 0 {
			return false, ErrInvalidSetScore
		}
	}
	if m.Status == models.MatchStatusComplete {
		if models.SetsEqual(m.Sets, sets) {
			return true, nil
		}
		return false, ErrResultAlreadyRecorded
	}

	probe := models.Match{Sets: sets}
	w1, w2 := probe.SetsWon()
	if w1 == w2 {
		return false, ErrIndeterminateResult
	}

	m.Sets = make([]models.SetScore, len(sets))
	copy(m.Sets, sets)
	m.Status = models.MatchStatusComplete
	if w1 > w2 {
		m.WinnerTeamID = m.Team1ID
	} else {
		m.WinnerTeamID = m.Team2ID
	}
	return false, nil
}

// ClearResult reverts a match to pending, keeping its participants.
func ClearResult(m *models.Match) {
	m.Sets = nil
	m.WinnerTeamID = nil
	m.Status = models.MatchStatusPending
}
