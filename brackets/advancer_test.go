package brackets

import (
	"testing"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourTeamBracket builds a size-4 main bracket seeded 1..4.
func fourTeamBracket(t *testing.T) ([]models.BracketNode, []models.Match) {
	t.Helper()
	nodes, matches, err := Build(1, models.BracketMain, []int{1, 2, 3, 4})
	require.NoError(t, err)
	return nodes, matches
}

func winBySets(a, b int) []models.SetScore {
	sets := make([]models.SetScore, 0, a+b)
	for i := 0; i < a; i++ {
		sets = append(sets, models.SetScore{A: 11, B: 6})
	}
	for i := 0; i < b; i++ {
		sets = append(sets, models.SetScore{A: 6, B: 11})
	}
	return sets
}

func TestRecordResultAdvancesWinner(t *testing.T) {
	nodes, matches := fourTeamBracket(t)

	// R1M1 is seed 1 vs seed 4.
	out, err := RecordResult(models.BracketMain, nodes, matches, "R1M1", winBySets(3, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, out.WinnerTeamID)
	assert.Equal(t, 4, out.LoserTeamID)
	assert.True(t, out.FeedsConsolation)
	assert.Nil(t, out.Champion)

	require.NotNil(t, out.DecidedNode)
	assert.Equal(t, 2, out.DecidedNode.Round)
	assert.Equal(t, 0, out.DecidedNode.Position)
	assert.Equal(t, 1, *out.DecidedNode.TeamID)

	require.NotNil(t, out.NextMatch)
	assert.Equal(t, "R2M1", *out.NextMatch.BracketUID)
	assert.Equal(t, 1, *out.NextMatch.Team1ID)
	assert.Nil(t, out.NextMatch.Team2ID)
}

func TestRecordResultIdempotence(t *testing.T) {
	nodes, matches := fourTeamBracket(t)

	_, err := RecordResult(models.BracketMain, nodes, matches, "R1M1", winBySets(3, 1))
	require.NoError(t, err)

	// Identical resubmission is a no-op.
	out, err := RecordResult(models.BracketMain, nodes, matches, "R1M1", winBySets(3, 1))
	require.NoError(t, err)
	assert.True(t, out.NoOp)

	// A different score needs an explicit reset first.
	_, err = RecordResult(models.BracketMain, nodes, matches, "R1M1", winBySets(2, 3))
	assert.ErrorIs(t, err, ErrResultAlreadyRecorded)
}

func TestRecordResultIndeterminate(t *testing.T) {
	nodes, matches := fourTeamBracket(t)

	_, err := RecordResult(models.BracketMain, nodes, matches, "R1M1", winBySets(2, 2))
	assert.ErrorIs(t, err, ErrIndeterminateResult)

	_, err = RecordResult(models.BracketMain, nodes, matches, "R1M1", nil)
	assert.ErrorIs(t, err, ErrIndeterminateResult)
}

func TestRecordResultUnknownAndUnready(t *testing.T) {
	nodes, matches := fourTeamBracket(t)

	_, err := RecordResult(models.BracketMain, nodes, matches, "R9M9", winBySets(3, 0))
	assert.ErrorIs(t, err, ErrMatchNotFound)

	// The final has no participants until the semifinals resolve.
	_, err = RecordResult(models.BracketMain, nodes, matches, "R2M1", winBySets(3, 0))
	assert.ErrorIs(t, err, ErrMatchNotReady)
}

func TestRecordResultCrownsChampion(t *testing.T) {
	nodes, matches := fourTeamBracket(t)

	_, err := RecordResult(models.BracketMain, nodes, matches, "R1M1", winBySets(3, 0))
	require.NoError(t, err)
	_, err = RecordResult(models.BracketMain, nodes, matches, "R1M2", winBySets(3, 0))
	require.NoError(t, err)

	// Final: seed 1 vs seed 2 (winner of 2v3 pairing is team 2).
	out, err := RecordResult(models.BracketMain, nodes, matches, "R2M1", winBySets(3, 2))
	require.NoError(t, err)

	require.NotNil(t, out.Champion)
	assert.Equal(t, 1, *out.Champion)
	assert.False(t, out.FeedsConsolation, "final losers never enter consolation")
	assert.Nil(t, out.NextMatch)
	assert.Equal(t, 1, *findNode(nodes, 3, 0).TeamID)
}

func TestResetResultCascades(t *testing.T) {
	nodes, matches := fourTeamBracket(t)

	_, err := RecordResult(models.BracketMain, nodes, matches, "R1M1", winBySets(3, 0))
	require.NoError(t, err)
	_, err = RecordResult(models.BracketMain, nodes, matches, "R1M2", winBySets(3, 0))
	require.NoError(t, err)
	_, err = RecordResult(models.BracketMain, nodes, matches, "R2M1", winBySets(3, 2))
	require.NoError(t, err)

	out, err := ResetResult(models.BracketMain, nodes, matches, "R1M1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"R1M1", "R2M1"}, out.ClearedMatchUIDs)
	assert.True(t, out.ChampionCleared)
	assert.True(t, out.ConsolationAffected)

	// Semifinal slot, final slot and champion slot are vacated...
	assert.Nil(t, findNode(nodes, 2, 0).TeamID)
	assert.Nil(t, findNode(nodes, 3, 0).TeamID)

	// ...the other semifinal result is untouched...
	assert.Equal(t, 2, *findNode(nodes, 2, 1).TeamID)

	// ...and the final keeps the surviving participant only.
	final := findMatch(matches, "R2M1")
	assert.Equal(t, models.MatchStatusPending, final.Status)
	assert.Nil(t, final.Team1ID)
	assert.Equal(t, 2, *final.Team2ID)

	// The match can now be rescored with the corrected sheet.
	res, err := RecordResult(models.BracketMain, nodes, matches, "R1M1", winBySets(1, 3))
	require.NoError(t, err)
	assert.Equal(t, 4, res.WinnerTeamID)
}

func TestResetResultOnPendingMatchIsNoOp(t *testing.T) {
	nodes, matches := fourTeamBracket(t)

	out, err := ResetResult(models.BracketMain, nodes, matches, "R1M1")
	require.NoError(t, err)
	assert.Empty(t, out.ClearedMatchUIDs)
	assert.False(t, out.ChampionCleared)
}
