package brackets

import (
	"sort"

	"github.com/clubmatch/tournament-engine/models"
)

// FirstRoundLosers returns the losers of the main bracket's round-one
// matches, ordered by the seed they held in the main draw. Teams that
// advanced on a bye produced no loser and are not represented. All
// round-one matches must be complete first.
func FirstRoundLosers(mainNodes []models.BracketNode, mainMatches []models.Match) ([]int, error) {
	seedOf := make(map[int]int)
	for i := range mainNodes {
		n := mainNodes[i]
		if n.Round != 1 || n.TeamID == nil {
			continue
		}
		seedOf[*n.TeamID] = leafSeed(mainNodes, n.Position)
	}

	losers := make([]int, 0)
	for i := range mainMatches {
		m := mainMatches[i]
		if m.Round == nil || *m.Round != 1 {
			continue
		}
		if m.Status != models.MatchStatusComplete {
			return nil, ErrFirstRoundIncomplete
		}
		losers = append(losers, *m.LoserTeamID())
	}

	sort.Slice(losers, func(a, b int) bool {
		return seedOf[losers[a]] < seedOf[losers[b]]
	})
	return losers, nil
}

// BuildConsolation lays out the secondary bracket from the main
// bracket's first-round losers, reusing the bye and pairing rules of
// the main draw. Its progression is independent: it produces its own
// champion and never feeds back into the main tree.
func BuildConsolation(tournamentID int, mainNodes []models.BracketNode, mainMatches []models.Match) ([]models.BracketNode, []models.Match, error) {
	losers, err := FirstRoundLosers(mainNodes, mainMatches)
	if err != nil {
		return nil, nil, err
	}
	if len(losers) < 2 {
		return nil, nil, ErrInsufficientQualifiers
	}
	return Build(tournamentID, models.BracketConsolation, losers)
}

// leafSeed recovers the seed number a round-one position was assigned.
func leafSeed(nodes []models.BracketNode, position int) int {
	leaves := 0
	for i := range nodes {
		if nodes[i].Round == 1 {
			leaves++
		}
	}
	order := seedPositions(leaves)
	if position < len(order) {
		return order[position]
	}
	return position + 1
}
