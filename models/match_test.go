package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetsWonIgnoresDrawnSets(t *testing.T) {
	m := Match{Sets: []SetScore{{A: 11, B: 6}, {A: 9, B: 9}, {A: 3, B: 11}, {A: 11, B: 8}}}

	t1, t2 := m.SetsWon()
	assert.Equal(t, 2, t1)
	assert.Equal(t, 1, t2)
}

func TestLoserTeamID(t *testing.T) {
	one, two := 1, 2
	m := Match{Team1ID: &one, Team2ID: &two, WinnerTeamID: &two}

	require.NotNil(t, m.LoserTeamID())
	assert.Equal(t, 1, *m.LoserTeamID())

	m.WinnerTeamID = nil
	assert.Nil(t, m.LoserTeamID())
}

func TestEncodeDecodeSets(t *testing.T) {
	m := Match{Sets: []SetScore{{A: 11, B: 6}, {A: 7, B: 11}}}

	raw, err := m.EncodeSets()
	require.NoError(t, err)
	require.NotNil(t, raw)

	var restored Match
	require.NoError(t, restored.DecodeSets(raw))
	assert.Equal(t, m.Sets, restored.Sets)

	// Empty sheets round-trip as nil, not "[]".
	empty := Match{}
	raw, err = empty.EncodeSets()
	require.NoError(t, err)
	assert.Nil(t, raw)
	require.NoError(t, restored.DecodeSets(nil))
	assert.Nil(t, restored.Sets)
}

func TestSetsEqual(t *testing.T) {
	a := []SetScore{{A: 11, B: 6}, {A: 11, B: 9}}
	b := []SetScore{{A: 11, B: 6}, {A: 11, B: 9}}
	assert.True(t, SetsEqual(a, b))

	// Order matters: the sheet records sets as they were played.
	assert.False(t, SetsEqual(a, []SetScore{{A: 11, B: 9}, {A: 11, B: 6}}))
	assert.False(t, SetsEqual(a, a[:1]))
}
