package brackets

import (
	"testing"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sixTeamBracket seeds 1..6 into a bracket of eight: seeds 1 and 2 get
// byes, R1M2 pairs seeds 4/5 and R1M4 pairs seeds 3/6.
func sixTeamBracket(t *testing.T) ([]models.BracketNode, []models.Match) {
	t.Helper()
	nodes, matches, err := Build(1, models.BracketMain, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	return nodes, matches
}

func TestBuildConsolationRequiresFirstRound(t *testing.T) {
	nodes, matches := sixTeamBracket(t)

	_, _, err := BuildConsolation(1, nodes, matches)
	assert.ErrorIs(t, err, ErrFirstRoundIncomplete)

	_, err = RecordResult(models.BracketMain, nodes, matches, "R1M2", winBySets(3, 0))
	require.NoError(t, err)

	// One of two first-round matches still pending.
	_, _, err = BuildConsolation(1, nodes, matches)
	assert.ErrorIs(t, err, ErrFirstRoundIncomplete)
}

func TestBuildConsolationFromFirstRoundLosers(t *testing.T) {
	nodes, matches := sixTeamBracket(t)

	// Seeds 4 and 6 lose their first-round matches.
	_, err := RecordResult(models.BracketMain, nodes, matches, "R1M2", winBySets(0, 3)) // 4 vs 5: 5 wins
	require.NoError(t, err)
	_, err = RecordResult(models.BracketMain, nodes, matches, "R1M4", winBySets(3, 0)) // 3 vs 6: 3 wins
	require.NoError(t, err)

	losers, err := FirstRoundLosers(nodes, matches)
	require.NoError(t, err)
	// Ordered by original seed: seed 4 before seed 6.
	assert.Equal(t, []int{4, 6}, losers)

	cNodes, cMatches, err := BuildConsolation(1, nodes, matches)
	require.NoError(t, err)

	// Two losers, one consolation final, its own UID space.
	require.Len(t, cMatches, 1)
	assert.Equal(t, "CR1M1", *cMatches[0].BracketUID)
	assert.Equal(t, models.PhaseConsolation, cMatches[0].Phase)
	assert.Equal(t, 4, *cMatches[0].Team1ID)
	assert.Equal(t, 6, *cMatches[0].Team2ID)

	for _, n := range cNodes {
		assert.Equal(t, models.BracketConsolation, n.Bracket)
	}
}

// Byes produce no consolation entrant, and later-round losers stay out.
func TestConsolationExcludesByesAndLaterRounds(t *testing.T) {
	nodes, matches := sixTeamBracket(t)

	_, err := RecordResult(models.BracketMain, nodes, matches, "R1M2", winBySets(0, 3))
	require.NoError(t, err)
	_, err = RecordResult(models.BracketMain, nodes, matches, "R1M4", winBySets(3, 0))
	require.NoError(t, err)
	// Semifinal: seed 1 (bye) vs seed 5. Seed 5 loses in round two.
	_, err = RecordResult(models.BracketMain, nodes, matches, "R2M1", winBySets(3, 1))
	require.NoError(t, err)

	losers, err := FirstRoundLosers(nodes, matches)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, losers, "bye teams 1/2 and round-two loser 5 excluded")
}

func TestConsolationRunsItsOwnProgression(t *testing.T) {
	nodes, matches := sixTeamBracket(t)

	_, err := RecordResult(models.BracketMain, nodes, matches, "R1M2", winBySets(0, 3))
	require.NoError(t, err)
	_, err = RecordResult(models.BracketMain, nodes, matches, "R1M4", winBySets(3, 0))
	require.NoError(t, err)

	cNodes, cMatches, err := BuildConsolation(1, nodes, matches)
	require.NoError(t, err)

	out, err := RecordResult(models.BracketConsolation, cNodes, cMatches, "CR1M1", winBySets(3, 2))
	require.NoError(t, err)

	require.NotNil(t, out.Champion)
	assert.Equal(t, 4, *out.Champion)
	assert.False(t, out.FeedsConsolation, "consolation losers are out for good")

	// The main bracket is untouched by consolation progression.
	assert.Nil(t, findNode(nodes, 4, 0).TeamID)
}
