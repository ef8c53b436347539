package brackets

import (
	"sort"

	"github.com/clubmatch/tournament-engine/models"
)

// Standings derives the ranked table for one pool from its completed
// matches. Recomputed in full on every call; safe to call at any point
// of the pool phase, including before any match is played.
//
// Ranking key, descending: match wins, set-win ratio, set difference,
// then original pool insertion order. A team with no sets played ranks
// below any team with a positive ratio.
func Standings(pool models.Pool) []models.PoolStanding {
	rows := make([]models.PoolStanding, len(pool.Teams))
	index := make(map[int]int, len(pool.Teams))
	for i := range pool.Teams {
		team := pool.Teams[i]
		index[team.ID] = i
		rows[i] = models.PoolStanding{
			PoolID: pool.ID,
			TeamID: team.ID,
			Team:   &pool.Teams[i],
		}
	}

	for _, m := range pool.Matches {
		if m.Status != models.MatchStatusComplete || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		w1, w2 := m.SetsWon()

		if i, ok := index[*m.Team1ID]; ok {
			rows[i].SetsWon += w1
			rows[i].SetsLost += w2
			if w1 > w2 {
				rows[i].Wins++
			} else {
				rows[i].Losses++
			}
		}
		if i, ok := index[*m.Team2ID]; ok {
			rows[i].SetsWon += w2
			rows[i].SetsLost += w1
			if w2 > w1 {
				rows[i].Wins++
			} else {
				rows[i].Losses++
			}
		}
	}

	for i := range rows {
		rows[i].SetsPlayed = rows[i].SetsWon + rows[i].SetsLost
		rows[i].SetDiff = rows[i].SetsWon - rows[i].SetsLost
		if rows[i].SetsPlayed > 0 {
			rows[i].SetRatio = float64(rows[i].SetsWon) / float64(rows[i].SetsPlayed)
		}
	}

	// Stable sort over insertion order makes the final tie-break
	// deterministic without an explicit fourth key.
	sort.SliceStable(rows, func(a, b int) bool {
		ra, rb := rows[a], rows[b]
		if ra.Wins != rb.Wins {
			return ra.Wins > rb.Wins
		}
		if ka, kb := ratioKey(ra), ratioKey(rb); ka != kb {
			return ka > kb
		}
		return ra.SetDiff > rb.SetDiff
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// ratioKey orders zero-played teams below every team that has played
// a set.
func ratioKey(s models.PoolStanding) float64 {
	if s.SetsPlayed == 0 {
		return -1
	}
	return s.SetRatio
}
