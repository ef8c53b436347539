package brackets

import (
	"testing"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTeamsSingles(t *testing.T) {
	players := []models.Player{
		{ID: 10, Name: "Anke"},
		{ID: 11, Name: "Bram"},
		{ID: 12, Name: "Chris"},
	}

	teams, err := BuildTeams(1, players, 1)
	require.NoError(t, err)
	require.Len(t, teams, 3)

	for i, team := range teams {
		assert.Equal(t, models.TeamKindSingle, team.Kind)
		assert.Equal(t, players[i].ID, team.Player1ID, "input order preserved")
		assert.Nil(t, team.Player2ID)
	}
	assert.Equal(t, "Anke", teams[0].DisplayName())
}

func TestBuildTeamsDoubles(t *testing.T) {
	players := []models.Player{
		{ID: 10, Name: "Anke"},
		{ID: 11, Name: "Bram"},
		{ID: 12, Name: "Chris"},
		{ID: 13, Name: "Daan"},
	}

	teams, err := BuildTeams(1, players, 2)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	assert.Equal(t, models.TeamKindDouble, teams[0].Kind)
	assert.Equal(t, 10, teams[0].Player1ID)
	require.NotNil(t, teams[0].Player2ID)
	assert.Equal(t, 11, *teams[0].Player2ID)
	assert.Equal(t, "Anke / Bram", teams[0].DisplayName())
	assert.Equal(t, "Chris / Daan", teams[1].DisplayName())
}

func TestBuildTeamsInvalidComposition(t *testing.T) {
	players := []models.Player{{ID: 1}, {ID: 2}, {ID: 3}}

	// Odd player count cannot form doubles pairs.
	_, err := BuildTeams(1, players, 2)
	assert.ErrorIs(t, err, ErrInvalidTeamComposition)

	// A player cannot appear twice.
	dup := []models.Player{{ID: 1}, {ID: 1}}
	_, err = BuildTeams(1, dup, 2)
	assert.ErrorIs(t, err, ErrInvalidTeamComposition)

	// Team size is 1 or 2, nothing else.
	_, err = BuildTeams(1, players, 3)
	assert.ErrorIs(t, err, ErrInvalidTeamComposition)

	_, err = BuildTeams(1, nil, 1)
	assert.ErrorIs(t, err, ErrInvalidTeamComposition)
}
