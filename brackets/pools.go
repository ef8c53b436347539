package brackets

import (
	"fmt"

	"github.com/clubmatch/tournament-engine/models"
)

// Distribute splits n teams into pool sizes of 3 and 4, preferring 4.
// It picks the split with the fewest size-3 pools, breaking ties by
// fewest pools overall. Some counts have no valid split (n < 3 and
// n == 5) and are rejected.
func Distribute(n int) ([]int, error) {
	if n < 3 {
		return nil, ErrInsufficientTeams
	}
	for threes := 0; threes*3 <= n; threes++ {
		rest := n - threes*3
		if rest%4 != 0 {
			continue
		}
		sizes := make([]int, 0, rest/4+threes)
		for i := 0; i < rest/4; i++ {
			sizes = append(sizes, 4)
		}
		for i := 0; i < threes; i++ {
			sizes = append(sizes, 3)
		}
		return sizes, nil
	}
	return nil, ErrInsufficientTeams
}

// PoolName returns "A", "B", ... for a zero-based pool index.
func PoolName(idx int) string {
	if idx < 26 {
		return string(rune('A' + idx))
	}
	return fmt.Sprintf("A%d", idx-25)
}

// AssignPools partitions the teams into pools in input order (no
// shuffling, so the layout is reproducible) and generates the full
// round-robin match list inside each pool, all matches pending.
func AssignPools(tournamentID int, teams []models.Team) ([]models.Pool, error) {
	sizes, err := Distribute(len(teams))
	if err != nil {
		return nil, err
	}

	pools := make([]models.Pool, 0, len(sizes))
	offset := 0
	for idx, size := range sizes {
		pool := models.Pool{
			TournamentID: tournamentID,
			Name:         PoolName(idx),
			Position:     idx,
			Teams:        make([]models.Team, size),
		}
		copy(pool.Teams, teams[offset:offset+size])

		for _, pair := range RoundRobinPairs(size) {
			t1 := pool.Teams[pair[0]].ID
			t2 := pool.Teams[pair[1]].ID
			pool.Matches = append(pool.Matches, models.Match{
				TournamentID: tournamentID,
				Phase:        models.PhasePool,
				Team1ID:      &t1,
				Team2ID:      &t2,
				Status:       models.MatchStatusPending,
			})
		}

		pools = append(pools, pool)
		offset += size
	}
	return pools, nil
}

// RoundRobinPairs lists every unordered pair of n participants exactly
// once, as index pairs in deterministic order.
func RoundRobinPairs(n int) [][2]int {
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}
