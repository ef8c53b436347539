package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubmatch/tournament-engine/models"
)

func pendingMatch(t1, t2 int) *models.Match {
	return &models.Match{
		Team1ID: &t1,
		Team2ID: &t2,
		Status:  models.MatchStatusPending,
	}
}

func TestApplyResultRejectsNegativeScores(t *testing.T) {
	for _, sets := range [][]models.SetScore{
		{{A: -1, B: -3}},
		{{A: 11, B: 7}, {A: -2, B: 11}},
		{{A: 11, B: -7}},
	} {
		m := pendingMatch(1, 2)

		_, err := ApplyResult(m, sets)
		assert.ErrorIs(t, err, ErrInvalidSetScore)
		assert.Equal(t, models.MatchStatusPending, m.Status)
		assert.Nil(t, m.WinnerTeamID)
	}
}

func TestApplyResultRejectsTiedSheet(t *testing.T) {
	m := pendingMatch(1, 2)

	_, err := ApplyResult(m, []models.SetScore{{A: 11, B: 7}, {A: 5, B: 11}})
	assert.ErrorIs(t, err, ErrIndeterminateResult)
	assert.Equal(t, models.MatchStatusPending, m.Status)
}

func TestApplyResultRequiresParticipants(t *testing.T) {
	one := 1
	m := &models.Match{Team1ID: &one, Status: models.MatchStatusPending}

	_, err := ApplyResult(m, []models.SetScore{{A: 11, B: 7}})
	assert.ErrorIs(t, err, ErrMatchNotReady)
}

func TestApplyResultRecordsWinner(t *testing.T) {
	m := pendingMatch(1, 2)

	noop, err := ApplyResult(m, []models.SetScore{{A: 7, B: 11}, {A: 11, B: 9}, {A: 3, B: 11}})
	require.NoError(t, err)
	assert.False(t, noop)
	assert.Equal(t, models.MatchStatusComplete, m.Status)
	require.NotNil(t, m.WinnerTeamID)
	assert.Equal(t, 2, *m.WinnerTeamID)

	// The identical sheet is a no-op; a different one needs a reset.
	noop, err = ApplyResult(m, []models.SetScore{{A: 7, B: 11}, {A: 11, B: 9}, {A: 3, B: 11}})
	require.NoError(t, err)
	assert.True(t, noop)

	_, err = ApplyResult(m, []models.SetScore{{A: 11, B: 7}, {A: 11, B: 9}})
	assert.ErrorIs(t, err, ErrResultAlreadyRecorded)
}
