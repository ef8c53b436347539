package brackets

import (
	"fmt"

	"github.com/clubmatch/tournament-engine/models"
)

// matchUID names a knockout match within its bracket, e.g. "R2M1".
// Consolation matches carry a "C" prefix so the two trees never share
// identifiers.
func matchUID(kind models.BracketKind, round, order int) string {
	if kind == models.BracketConsolation {
		return fmt.Sprintf("CR%dM%d", round, order)
	}
	return fmt.Sprintf("R%dM%d", round, order)
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// seedPositions returns the seed number occupying each leaf of a
// bracket of the given size (a power of two). Adjacent leaves pair in
// round one, so the layout realizes the classic placement: seed 1
// against the lowest seed, seed 2 against the next-lowest, recursively.
// Seeds beyond the entrant count become byes, which lands every bye on
// a top seed first.
func seedPositions(size int) []int {
	order := []int{1}
	for len(order) < size {
		next := make([]int, 0, len(order)*2)
		mirror := len(order)*2 + 1
		for _, s := range order {
			next = append(next, s, mirror-s)
		}
		order = next
	}
	return order
}

// Build lays out a single-elimination tree for the seed list (seeds[0]
// is seed 1). It returns every slot of the tree plus the pending
// matches deciding them. A bye pairing auto-resolves: the team is
// placed straight into the next round's slot and no match is created
// for it.
func Build(tournamentID int, kind models.BracketKind, seeds []int) ([]models.BracketNode, []models.Match, error) {
	if len(seeds) < 2 {
		return nil, nil, ErrInsufficientQualifiers
	}

	size := nextPowerOfTwo(len(seeds))
	phase := models.PhaseKnockout
	if kind == models.BracketConsolation {
		phase = models.PhaseConsolation
	}

	leaves := make([]models.BracketNode, size)
	for pos, seedNum := range seedPositions(size) {
		node := models.BracketNode{
			TournamentID: tournamentID,
			Bracket:      kind,
			Round:        1,
			Position:     pos,
		}
		if seedNum <= len(seeds) {
			teamID := seeds[seedNum-1]
			node.TeamID = &teamID
		} else {
			node.Bye = true
		}
		leaves[pos] = node
	}

	nodes := leaves
	matches := make([]models.Match, 0, size-1)

	current := leaves
	for round := 1; len(current) > 1; round++ {
		parents := make([]models.BracketNode, len(current)/2)
		for p := range parents {
			left := current[2*p]
			right := current[2*p+1]
			parent := models.BracketNode{
				TournamentID: tournamentID,
				Bracket:      kind,
				Round:        round + 1,
				Position:     p,
			}

			switch {
			case left.TeamID != nil && right.Bye:
				teamID := *left.TeamID
				parent.TeamID = &teamID
			case right.TeamID != nil && left.Bye:
				teamID := *right.TeamID
				parent.TeamID = &teamID
			case left.Bye && right.Bye:
				// Cannot happen for a next-power-of-two bracket,
				// byes never outnumber entrants.
				parent.Bye = true
			default:
				uid := matchUID(kind, round, p+1)
				r := round
				ord := p + 1
				match := models.Match{
					TournamentID: tournamentID,
					Phase:        phase,
					Round:        &r,
					OrderInRound: &ord,
					BracketUID:   &uid,
					Status:       models.MatchStatusPending,
				}
				if left.TeamID != nil {
					teamID := *left.TeamID
					match.Team1ID = &teamID
				}
				if right.TeamID != nil {
					teamID := *right.TeamID
					match.Team2ID = &teamID
				}
				matches = append(matches, match)
				parent.MatchUID = &uid
			}
			parents[p] = parent
		}
		nodes = append(nodes, parents...)
		current = parents
	}

	return nodes, matches, nil
}
