package brackets

import (
	"testing"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		n     int
		sizes []int
	}{
		{3, []int{3}},
		{4, []int{4}},
		{6, []int{3, 3}},
		{7, []int{4, 3}},
		{8, []int{4, 4}},
		{9, []int{3, 3, 3}},
		{10, []int{4, 3, 3}},
		{11, []int{4, 4, 3}},
		{12, []int{4, 4, 4}},
		{13, []int{4, 3, 3, 3}},
		{16, []int{4, 4, 4, 4}},
		{23, []int{4, 4, 4, 4, 4, 3}},
	}
	for _, tt := range tests {
		sizes, err := Distribute(tt.n)
		require.NoError(t, err, "n=%d", tt.n)
		assert.Equal(t, tt.sizes, sizes, "n=%d", tt.n)
	}
}

func TestDistributeRejectsImpossibleCounts(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		_, err := Distribute(n)
		assert.ErrorIs(t, err, ErrInsufficientTeams, "n=%d", n)
	}
}

// Every split must cover all teams with pools of 3 or 4 only, using
// as few size-3 pools as possible.
func TestDistributeProperties(t *testing.T) {
	for n := 3; n <= 64; n++ {
		if n == 5 {
			continue
		}
		sizes, err := Distribute(n)
		require.NoError(t, err, "n=%d", n)

		total, threes := 0, 0
		for _, s := range sizes {
			require.Contains(t, []int{3, 4}, s, "n=%d", n)
			total += s
			if s == 3 {
				threes++
			}
		}
		assert.Equal(t, n, total, "n=%d", n)

		for fewer := 0; fewer < threes; fewer++ {
			assert.NotZero(t, (n-fewer*3)%4,
				"n=%d: a split with %d size-3 pools exists", n, fewer)
		}
	}
}

func TestAssignPools(t *testing.T) {
	teams := make([]models.Team, 7)
	for i := range teams {
		teams[i] = models.Team{ID: i + 1}
	}

	pools, err := AssignPools(42, teams)
	require.NoError(t, err)
	require.Len(t, pools, 2)

	assert.Equal(t, "A", pools[0].Name)
	assert.Equal(t, "B", pools[1].Name)
	assert.Len(t, pools[0].Teams, 4)
	assert.Len(t, pools[1].Teams, 3)

	// Input order, no shuffling.
	assert.Equal(t, 1, pools[0].Teams[0].ID)
	assert.Equal(t, 4, pools[0].Teams[3].ID)
	assert.Equal(t, 5, pools[1].Teams[0].ID)

	// Full round-robin: C(4,2)=6 and C(3,2)=3 matches, all pending.
	assert.Len(t, pools[0].Matches, 6)
	assert.Len(t, pools[1].Matches, 3)
	for _, pool := range pools {
		seen := map[[2]int]int{}
		for _, m := range pool.Matches {
			assert.Equal(t, models.MatchStatusPending, m.Status)
			assert.Equal(t, models.PhasePool, m.Phase)
			key := [2]int{*m.Team1ID, *m.Team2ID}
			seen[key]++
		}
		for pair, count := range seen {
			assert.Equal(t, 1, count, "pair %v scheduled more than once", pair)
			assert.NotEqual(t, pair[0], pair[1])
		}
		assert.Len(t, seen, len(pool.Teams)*(len(pool.Teams)-1)/2)
	}
}

func TestAssignPoolsInsufficientTeams(t *testing.T) {
	teams := []models.Team{{ID: 1}, {ID: 2}}
	_, err := AssignPools(1, teams)
	assert.ErrorIs(t, err, ErrInsufficientTeams)

	// Five teams have no 3/4 split and must be rejected outright,
	// never forced into a malformed pool.
	teams = append(teams, models.Team{ID: 3}, models.Team{ID: 4}, models.Team{ID: 5})
	_, err = AssignPools(1, teams)
	assert.ErrorIs(t, err, ErrInsufficientTeams)
}
