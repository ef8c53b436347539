package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubmatch/tournament-engine/live"
	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/repositories"
)

type stubMatchRepo struct {
	repositories.MatchRepository
	match models.Match
}

func (s *stubMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m := s.match
	return &m, nil
}

func newGuardedMatchService(tournament models.Tournament, match models.Match) MatchService {
	logger := testLogger()
	return NewMatchService(
		nil,
		&stubTournamentRepo{tournament: tournament},
		&stubMatchRepo{match: match},
		nil, // poolRepo
		nil, // teamRepo
		nil, // bracketRepo
		live.NewHub(logger),
		NewTournamentLocks(),
		logger,
	)
}

func TestSubmitPoolResultFrozenAfterBracketGeneration(t *testing.T) {
	one, two := 1, 2
	svc := newGuardedMatchService(
		models.Tournament{
			ID:     1,
			Type:   models.TypeClubChampionship,
			Status: models.StatusBracketGenerated,
		},
		models.Match{
			ID:           10,
			TournamentID: 1,
			Phase:        models.PhasePool,
			Team1ID:      &one,
			Team2ID:      &two,
			Status:       models.MatchStatusPending,
		},
	)

	_, err := svc.SubmitResult(context.Background(), 10, []models.SetScore{{A: 11, B: 7}})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestResetPoolResultFrozenAfterBracketGeneration(t *testing.T) {
	one, two := 1, 2
	svc := newGuardedMatchService(
		models.Tournament{
			ID:     1,
			Type:   models.TypeClubChampionship,
			Status: models.StatusKnockoutInProgress,
		},
		models.Match{
			ID:           10,
			TournamentID: 1,
			Phase:        models.PhasePool,
			Team1ID:      &one,
			Team2ID:      &two,
			WinnerTeamID: &one,
			Sets:         []models.SetScore{{A: 11, B: 7}},
			Status:       models.MatchStatusComplete,
		},
	)

	err := svc.ResetResult(context.Background(), 10)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}
