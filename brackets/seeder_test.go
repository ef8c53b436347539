package brackets

import (
	"testing"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completedPool plays out a full round-robin where the team listed
// first always beats the team listed later, fixing the final order.
func completedPool(poolID int, teamIDs ...int) models.Pool {
	pool := poolOf(teamIDs...)
	pool.ID = poolID
	for _, pair := range RoundRobinPairs(len(teamIDs)) {
		pool.Matches = append(pool.Matches,
			played(teamIDs[pair[0]], teamIDs[pair[1]], sweep()...))
	}
	return pool
}

func TestQualifiersPoolPhaseIncomplete(t *testing.T) {
	pool := completedPool(1, 1, 2, 3)
	pool.Matches[2].Status = models.MatchStatusPending
	pool.Matches[2].Sets = nil
	pool.Matches[2].WinnerTeamID = nil

	_, err := Qualifiers([]models.Pool{pool})
	assert.ErrorIs(t, err, ErrPoolPhaseIncomplete)
}

func TestQualifiersSeedOrder(t *testing.T) {
	pools := []models.Pool{
		completedPool(1, 1, 2, 3),
		completedPool(2, 4, 5, 6),
	}

	seeds, err := Qualifiers(pools)
	require.NoError(t, err)
	// Pool winners first in pool order, then runners-up in pool order.
	assert.Equal(t, []int{1, 4, 2, 5}, seeds)
}

func TestSeedBracketFourQualifiers(t *testing.T) {
	pools := []models.Pool{
		completedPool(1, 1, 2, 3),
		completedPool(2, 4, 5, 6),
	}

	nodes, matches, err := SeedBracket(99, pools)
	require.NoError(t, err)

	// Size 4: two semifinal slots feed one final slot plus champion.
	require.Len(t, nodes, 7)
	require.Len(t, matches, 3)

	byUID := map[string]models.Match{}
	for _, m := range matches {
		byUID[*m.BracketUID] = m
	}

	// A1 vs B2 and B1 vs A2.
	semi1 := byUID["R1M1"]
	assert.Equal(t, 1, *semi1.Team1ID)
	assert.Equal(t, 5, *semi1.Team2ID)
	semi2 := byUID["R1M2"]
	assert.Equal(t, 4, *semi2.Team1ID)
	assert.Equal(t, 2, *semi2.Team2ID)

	final := byUID["R2M1"]
	assert.Nil(t, final.Team1ID)
	assert.Nil(t, final.Team2ID)
	assert.Equal(t, models.PhaseKnockout, final.Phase)
}

// Six qualifiers: bracket of eight, byes straight to the semifinal for
// the top two seeds, two playable first-round matches.
func TestSeedBracketSixQualifiersByes(t *testing.T) {
	pools := []models.Pool{
		completedPool(1, 1, 2, 3),
		completedPool(2, 4, 5, 6),
		completedPool(3, 7, 8, 9),
	}

	nodes, matches, err := SeedBracket(99, pools)
	require.NoError(t, err)

	// Seeds are [1 4 7 2 5 8]; bracket size 8 -> 15 nodes.
	require.Len(t, nodes, 15)

	byes := 0
	for _, n := range nodes {
		if n.Round == 1 && n.Bye {
			byes++
		}
	}
	assert.Equal(t, 2, byes)

	// Seeds 1 and 2 (teams 1 and 4) sit in the semifinal already.
	require.NotNil(t, findNode(nodes, 2, 0).TeamID)
	assert.Equal(t, 1, *findNode(nodes, 2, 0).TeamID)
	require.NotNil(t, findNode(nodes, 2, 2).TeamID)
	assert.Equal(t, 4, *findNode(nodes, 2, 2).TeamID)

	// No matches exist for the bye pairings; 2 first-round matches,
	// 2 quarterfinal-to-semifinal matches and the final remain.
	require.Len(t, matches, 5)

	firstRound := 0
	for _, m := range matches {
		if *m.Round == 1 {
			firstRound++
			assert.NotNil(t, m.Team1ID)
			assert.NotNil(t, m.Team2ID)
		}
	}
	assert.Equal(t, 2, firstRound)
}

func TestSeedBracketBracketSizeIsNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		qualifiers int
		size       int
	}{
		{2, 2}, {3, 4}, {4, 4}, {5, 8}, {6, 8}, {8, 8}, {9, 16},
	}
	for _, tt := range tests {
		seeds := make([]int, tt.qualifiers)
		for i := range seeds {
			seeds[i] = i + 1
		}
		nodes, _, err := Build(1, models.BracketMain, seeds)
		require.NoError(t, err)

		leaves, byes := 0, 0
		for _, n := range nodes {
			if n.Round == 1 {
				leaves++
				if n.Bye {
					byes++
				}
			}
		}
		assert.Equal(t, tt.size, leaves, "qualifiers=%d", tt.qualifiers)
		assert.Equal(t, tt.size-tt.qualifiers, byes, "qualifiers=%d", tt.qualifiers)
	}
}

func TestBuildRejectsSingleQualifier(t *testing.T) {
	_, _, err := Build(1, models.BracketMain, []int{7})
	assert.ErrorIs(t, err, ErrInsufficientQualifiers)
}
