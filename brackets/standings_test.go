package brackets

import (
	"testing"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolOf(teamIDs ...int) models.Pool {
	p := models.Pool{ID: 1}
	for _, id := range teamIDs {
		p.Teams = append(p.Teams, models.Team{ID: id})
	}
	return p
}

// played builds a completed match with a derived winner.
func played(team1, team2 int, sets ...models.SetScore) models.Match {
	m := models.Match{
		Phase:   models.PhasePool,
		Team1ID: &team1,
		Team2ID: &team2,
		Sets:    sets,
		Status:  models.MatchStatusComplete,
	}
	w1, w2 := m.SetsWon()
	if w1 > w2 {
		m.WinnerTeamID = &team1
	} else {
		m.WinnerTeamID = &team2
	}
	return m
}

// sweep is a straight 3-0 in sets for team1.
func sweep() []models.SetScore {
	return []models.SetScore{{A: 11, B: 5}, {A: 11, B: 7}, {A: 11, B: 9}}
}

func TestStandingsByWins(t *testing.T) {
	pool := poolOf(1, 2, 3)
	pool.Matches = []models.Match{
		played(1, 2, sweep()...),
		played(1, 3, sweep()...),
		played(3, 2, sweep()...),
	}

	rows := Standings(pool)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID})
	assert.Equal(t, 2, rows[0].Wins)
	assert.Equal(t, 1, rows[1].Wins)
	assert.Equal(t, 0, rows[2].Wins)
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

// With a three-way tie on wins, the set-win ratio decides.
func TestStandingsSetRatioTieBreak(t *testing.T) {
	threeTwo := []models.SetScore{{A: 11, B: 5}, {A: 5, B: 11}, {A: 11, B: 5}, {A: 5, B: 11}, {A: 11, B: 5}}

	pool := poolOf(1, 2, 3)
	pool.Matches = []models.Match{
		played(1, 2, sweep()...),    // 1 wins 3-0
		played(2, 3, threeTwo...),   // 2 wins 3-2
		played(3, 1, threeTwo...),   // 3 wins 3-2
	}

	rows := Standings(pool)
	require.Len(t, rows, 3)
	// All on one win; ratios: team1 5/8, team3 5/10, team2 3/8.
	assert.Equal(t, []int{1, 3, 2}, []int{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID})
	assert.InDelta(t, 0.625, rows[0].SetRatio, 1e-9)
	assert.InDelta(t, 0.5, rows[1].SetRatio, 1e-9)
	assert.InDelta(t, 0.375, rows[2].SetRatio, 1e-9)
}

func TestStandingsZeroPlayedRanksBelowPositiveRatio(t *testing.T) {
	pool := poolOf(1, 2, 3)
	pool.Matches = []models.Match{
		played(1, 2, models.SetScore{A: 11, B: 5}, models.SetScore{A: 5, B: 11},
			models.SetScore{A: 11, B: 5}, models.SetScore{A: 11, B: 5}), // 1 wins 3-1
	}

	rows := Standings(pool)
	require.Len(t, rows, 3)
	// Team 2 lost but won a set; team 3 has not played and ranks last.
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID})
	assert.Zero(t, rows[2].SetsPlayed)
}

// Before any result, everyone ties at zero and pool insertion order is
// the ranking.
func TestStandingsAllPending(t *testing.T) {
	pool := poolOf(7, 5, 9, 3)
	for _, pair := range RoundRobinPairs(4) {
		t1, t2 := pool.Teams[pair[0]].ID, pool.Teams[pair[1]].ID
		pool.Matches = append(pool.Matches, models.Match{
			Phase: models.PhasePool, Team1ID: &t1, Team2ID: &t2,
			Status: models.MatchStatusPending,
		})
	}

	rows := Standings(pool)
	require.Len(t, rows, 4)
	assert.Equal(t, []int{7, 5, 9, 3}, []int{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID, rows[3].TeamID})
}

func TestStandingsRecomputationIsIdempotent(t *testing.T) {
	pool := poolOf(1, 2, 3)
	pool.Matches = []models.Match{
		played(1, 2, sweep()...),
		played(3, 1, sweep()...),
	}

	first := Standings(pool)
	second := Standings(pool)
	assert.Equal(t, first, second)
}
