package brackets

import (
	"github.com/clubmatch/tournament-engine/models"
)

// Qualifiers selects the top two teams of every pool once the whole
// pool phase is complete, returning team IDs in seed order: all pool
// winners in pool order, then all runners-up in pool order. For two
// pools this reproduces the classic A1-B2 / B1-A2 cross.
func Qualifiers(poolList []models.Pool) ([]int, error) {
	firsts := make([]int, 0, len(poolList))
	seconds := make([]int, 0, len(poolList))

	for _, pool := range poolList {
		if len(pool.Matches) == 0 {
			return nil, ErrPoolPhaseIncomplete
		}
		for _, m := range pool.Matches {
			if m.Status != models.MatchStatusComplete {
				return nil, ErrPoolPhaseIncomplete
			}
		}

		rows := Standings(pool)
		if len(rows) >= 1 {
			firsts = append(firsts, rows[0].TeamID)
		}
		if len(rows) >= 2 {
			seconds = append(seconds, rows[1].TeamID)
		}
	}

	seeds := append(firsts, seconds...)
	if len(seeds) < 2 {
		return nil, ErrInsufficientQualifiers
	}
	return seeds, nil
}

// SeedBracket validates the pool phase and lays out the main knockout
// tree. Bracket size is the next power of two above the qualifier
// count; the shortfall becomes byes on the top seeds.
func SeedBracket(tournamentID int, poolList []models.Pool) ([]models.BracketNode, []models.Match, error) {
	seeds, err := Qualifiers(poolList)
	if err != nil {
		return nil, nil, err
	}
	return Build(tournamentID, models.BracketMain, seeds)
}
