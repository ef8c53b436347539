package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusCreated.CanTransitionTo(StatusTeamsFormed))
	assert.True(t, StatusPoolPhaseComplete.CanTransitionTo(StatusBracketGenerated))
	assert.True(t, StatusPoolPhaseComplete.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusKnockoutInProgress.CanTransitionTo(StatusConsolationInProgress))
	assert.True(t, StatusKnockoutInProgress.CanTransitionTo(StatusCompleted))

	// Phases never skip forward or walk backward on their own.
	assert.False(t, StatusCreated.CanTransitionTo(StatusPoolsAssigned))
	assert.False(t, StatusTeamsFormed.CanTransitionTo(StatusCreated))
	assert.False(t, StatusBracketGenerated.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusKnockoutInProgress))
}

func TestStatusAtLeast(t *testing.T) {
	assert.True(t, StatusKnockoutInProgress.AtLeast(StatusBracketGenerated))
	assert.True(t, StatusCompleted.AtLeast(StatusConsolationInProgress))
	assert.False(t, StatusPoolsAssigned.AtLeast(StatusBracketGenerated))
}
