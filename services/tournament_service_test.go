package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubmatch/tournament-engine/live"
	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/repositories"
)

// stubTournamentRepo serves one fixed tournament. The embedded
// interface panics on any other call, which is exactly what the guard
// paths under test must never reach.
type stubTournamentRepo struct {
	repositories.TournamentRepository
	tournament models.Tournament
}

func (s *stubTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t := s.tournament
	return &t, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGuardedTournamentService(tournament models.Tournament) TournamentService {
	logger := testLogger()
	return NewTournamentService(
		nil,
		&stubTournamentRepo{tournament: tournament},
		nil, // playerRepo
		nil, // teamRepo
		nil, // poolRepo
		nil, // matchRepo
		nil, // bracketRepo
		nil, // uploader
		live.NewHub(logger),
		NewTournamentLocks(),
		logger,
	)
}

func TestGenerateBracketRequiresCompletedPoolPhase(t *testing.T) {
	// Once the bracket exists, seeding again without an explicit reset
	// must be refused; same for any earlier phase.
	for _, status := range []models.TournamentStatus{
		models.StatusPoolsAssigned,
		models.StatusBracketGenerated,
		models.StatusKnockoutInProgress,
		models.StatusCompleted,
	} {
		svc := newGuardedTournamentService(models.Tournament{
			ID:     1,
			Type:   models.TypeClubChampionship,
			Status: status,
		})

		_, err := svc.GenerateBracket(context.Background(), 1)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition, "status %s", status)
	}
}

func TestGenerateBracketRejectsRoundRobin(t *testing.T) {
	svc := newGuardedTournamentService(models.Tournament{
		ID:     1,
		Type:   models.TypeRoundRobin,
		Status: models.StatusPoolPhaseComplete,
	})

	_, err := svc.GenerateBracket(context.Background(), 1)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAssignPoolsRequiresFormedTeams(t *testing.T) {
	for _, status := range []models.TournamentStatus{
		models.StatusCreated,
		models.StatusPoolsAssigned,
		models.StatusCompleted,
	} {
		svc := newGuardedTournamentService(models.Tournament{
			ID:     1,
			Type:   models.TypeClubChampionship,
			Status: status,
		})

		_, err := svc.AssignPools(context.Background(), 1)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition, "status %s", status)
	}
}

func TestFormTeamsBlockedAfterPoolsAssigned(t *testing.T) {
	svc := newGuardedTournamentService(models.Tournament{
		ID:     1,
		Type:   models.TypeClubChampionship,
		Status: models.StatusPoolsAssigned,
	})

	_, err := svc.FormTeams(context.Background(), 1, []int{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestResetBracketRequiresBracket(t *testing.T) {
	svc := newGuardedTournamentService(models.Tournament{
		ID:     1,
		Type:   models.TypeClubChampionship,
		Status: models.StatusPoolsAssigned,
	})

	err := svc.ResetBracket(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}
