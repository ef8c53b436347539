package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clubmatch/tournament-engine/brackets"
	"github.com/clubmatch/tournament-engine/live"
	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/repositories"
)

type MatchService interface {
	GetByID(ctx context.Context, matchID int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	SubmitResult(ctx context.Context, matchID int, sets []models.SetScore) (*models.Match, error)
	ResetResult(ctx context.Context, matchID int) error
}

type matchService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	poolRepo       repositories.PoolRepository
	teamRepo       repositories.TeamRepository
	bracketRepo    repositories.BracketRepository
	hub            *live.Hub
	locks          *TournamentLocks
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	poolRepo repositories.PoolRepository,
	teamRepo repositories.TeamRepository,
	bracketRepo repositories.BracketRepository,
	hub *live.Hub,
	locks *TournamentLocks,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		poolRepo:       poolRepo,
		teamRepo:       teamRepo,
		bracketRepo:    bracketRepo,
		hub:            hub,
		locks:          locks,
		logger:         logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, matchID int) (*models.Match, error) {
	return s.matchRepo.GetByID(ctx, matchID)
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, tournamentID)
}

// SubmitResult records a score sheet. Identical resubmission of an
// already-recorded result is accepted as a no-op; a conflicting one is
// rejected until the result is explicitly reset.
func (s *matchService) SubmitResult(ctx context.Context, matchID int, sets []models.SetScore) (*models.Match, error) {
	peek, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(peek.TournamentID)
	defer unlock()

	// Re-read under the lock; a concurrent submission may have landed.
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}

	if match.Phase == models.PhasePool {
		return s.submitPoolResult(ctx, tournament, match, sets)
	}
	return s.submitKnockoutResult(ctx, tournament, match, sets)
}

func (s *matchService) submitPoolResult(ctx context.Context, tournament *models.Tournament, match *models.Match, sets []models.SetScore) (*models.Match, error) {
	noop, err := brackets.ApplyResult(match, sets)
	if err != nil {
		return nil, err
	}
	if noop {
		return match, nil
	}
	// Pool results are frozen once the bracket is seeded from them.
	if tournament.Status.AtLeast(models.StatusBracketGenerated) {
		return nil, fmt.Errorf("%w: pool results are frozen after bracket generation", ErrInvalidStatusTransition)
	}

	// The in-flight result is not visible to reads inside the
	// transaction, so completion is derived from the prior state plus
	// the match being recorded now.
	done, err := s.poolPhaseCompleteWith(ctx, tournament.ID, match.ID)
	if err != nil {
		return nil, err
	}

	statusAfter := tournament.Status
	var champion *int

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
			return err
		}

		if !done || !tournament.Status.CanTransitionTo(models.StatusPoolPhaseComplete) {
			return nil
		}

		statusAfter = models.StatusPoolPhaseComplete
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, statusAfter); err != nil {
			return err
		}

		// A round_robin tournament is decided by the table alone.
		if tournament.Type == models.TypeRoundRobin {
			winner, err := s.roundRobinWinner(ctx, tournament.ID, match)
			if err != nil {
				return err
			}
			if err := s.tournamentRepo.UpdateChampion(ctx, tx, tournament.ID, models.BracketMain, &winner); err != nil {
				return err
			}
			champion = &winner
			statusAfter = models.StatusCompleted
			return s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, statusAfter)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pool result recorded",
		"tournament_id", tournament.ID,
		"match_id", match.ID,
		"winner_team_id", match.WinnerTeamID,
	)
	s.hub.Broadcast(tournament.ID, live.EventMatchUpdated, match)
	s.hub.Broadcast(tournament.ID, live.EventStandingsUpdated, map[string]interface{}{
		"pool_id": match.PoolID,
	})
	if statusAfter != tournament.Status {
		s.hub.Broadcast(tournament.ID, live.EventTournamentUpdated, map[string]interface{}{
			"status":           statusAfter,
			"champion_team_id": champion,
		})
	}
	return match, nil
}

func (s *matchService) submitKnockoutResult(ctx context.Context, tournament *models.Tournament, match *models.Match, sets []models.SetScore) (*models.Match, error) {
	kind := models.BracketMain
	if match.Phase == models.PhaseConsolation {
		kind = models.BracketConsolation
	}

	nodes, matches, err := s.loadBracket(ctx, tournament.ID, kind)
	if err != nil {
		return nil, err
	}

	out, err := brackets.RecordResult(kind, nodes, matches, *match.BracketUID, sets)
	if err != nil {
		return nil, err
	}
	if out.NoOp {
		return out.Match, nil
	}

	statusAfter := tournament.Status
	var consolationBuilt bool

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.UpdateResult(ctx, tx, out.Match); err != nil {
			return err
		}
		if out.DecidedNode != nil {
			if err := s.bracketRepo.UpdateTeam(ctx, tx, out.DecidedNode.ID, out.DecidedNode.TeamID); err != nil {
				return err
			}
		}
		if out.NextMatch != nil {
			if err := s.matchRepo.UpdateParticipants(ctx, tx, out.NextMatch); err != nil {
				return err
			}
		}

		if statusAfter == models.StatusBracketGenerated {
			statusAfter = models.StatusKnockoutInProgress
			if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, statusAfter); err != nil {
				return err
			}
		}

		if kind == models.BracketMain && out.FeedsConsolation && tournament.HasConsolation {
			built, err := s.maybeBuildConsolation(ctx, tx, tournament.ID, nodes, matches)
			if err != nil {
				return err
			}
			consolationBuilt = built
		}

		if out.Champion != nil {
			next, err := s.recordChampion(ctx, tx, tournament, kind, *out.Champion)
			if err != nil {
				return err
			}
			if next != statusAfter {
				statusAfter = next
				if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, statusAfter); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("knockout result recorded",
		"tournament_id", tournament.ID,
		"bracket", kind,
		"match_uid", *out.Match.BracketUID,
		"winner_team_id", out.WinnerTeamID,
	)
	s.hub.Broadcast(tournament.ID, live.EventMatchUpdated, out.Match)
	s.hub.Broadcast(tournament.ID, live.EventBracketUpdated, map[string]interface{}{
		"bracket":            kind,
		"consolation_built":  consolationBuilt,
		"champion_team_id":   out.Champion,
		"decided_match_uids": []string{*out.Match.BracketUID},
	})
	if statusAfter != tournament.Status {
		s.hub.Broadcast(tournament.ID, live.EventTournamentUpdated, map[string]interface{}{
			"status": statusAfter,
		})
	}
	return out.Match, nil
}

// maybeBuildConsolation seeds the consolation bracket as soon as the
// main first round is fully decided. Too few eligible losers (a
// two-team main draw) means there is nothing to build.
func (s *matchService) maybeBuildConsolation(ctx context.Context, tx *sql.Tx, tournamentID int, mainNodes []models.BracketNode, mainMatches []models.Match) (bool, error) {
	existing, err := s.bracketRepo.ListByTournament(ctx, tournamentID, models.BracketConsolation)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	cNodes, cMatches, err := brackets.BuildConsolation(tournamentID, mainNodes, mainMatches)
	if err != nil {
		if errors.Is(err, brackets.ErrFirstRoundIncomplete) || errors.Is(err, brackets.ErrInsufficientQualifiers) {
			return false, nil
		}
		return false, err
	}

	if err := s.bracketRepo.CreateBatch(ctx, tx, cNodes); err != nil {
		return false, err
	}
	if err := s.matchRepo.CreateBatch(ctx, tx, cMatches); err != nil {
		return false, err
	}
	s.logger.Info("consolation bracket built", "tournament_id", tournamentID, "matches", len(cMatches))
	return true, nil
}

// recordChampion persists a bracket winner and decides the lifecycle
// phase that follows.
func (s *matchService) recordChampion(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, kind models.BracketKind, champion int) (models.TournamentStatus, error) {
	if err := s.tournamentRepo.UpdateChampion(ctx, tx, tournament.ID, kind, &champion); err != nil {
		return tournament.Status, err
	}

	if kind == models.BracketConsolation {
		tournament.ConsolationChampionTeamID = &champion
		if tournament.ChampionTeamID != nil {
			return models.StatusCompleted, nil
		}
		return tournament.Status, nil
	}

	tournament.ChampionTeamID = &champion
	if tournament.HasConsolation && tournament.ConsolationChampionTeamID == nil {
		cNodes, err := s.bracketRepo.ListByTournament(ctx, tournament.ID, models.BracketConsolation)
		if err != nil {
			return tournament.Status, err
		}
		if len(cNodes) > 0 {
			return models.StatusConsolationInProgress, nil
		}
	}
	return models.StatusCompleted, nil
}

// ResetResult discards a recorded result. In knockout play the reset
// cascades: every downstream result derived from the discarded one is
// cleared too, and a consolation bracket fed by it is torn down.
func (s *matchService) ResetResult(ctx context.Context, matchID int) error {
	peek, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(peek.TournamentID)
	defer unlock()

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return err
	}

	if match.Phase == models.PhasePool {
		return s.resetPoolResult(ctx, tournament, match)
	}
	return s.resetKnockoutResult(ctx, tournament, match)
}

func (s *matchService) resetPoolResult(ctx context.Context, tournament *models.Tournament, match *models.Match) error {
	if tournament.Type == models.TypeClubChampionship && tournament.Status.AtLeast(models.StatusBracketGenerated) {
		return fmt.Errorf("%w: reset the bracket before editing pool results", ErrInvalidStatusTransition)
	}
	if match.Status != models.MatchStatusComplete {
		return nil
	}

	statusAfter := tournament.Status
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		brackets.ClearResult(match)
		if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
			return err
		}

		// Reopening the pool phase walks the lifecycle back.
		if tournament.Status == models.StatusPoolPhaseComplete || tournament.Status == models.StatusCompleted {
			if tournament.Type == models.TypeRoundRobin && tournament.ChampionTeamID != nil {
				if err := s.tournamentRepo.UpdateChampion(ctx, tx, tournament.ID, models.BracketMain, nil); err != nil {
					return err
				}
			}
			statusAfter = models.StatusPoolsAssigned
			return s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, statusAfter)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("pool result reset", "tournament_id", tournament.ID, "match_id", match.ID)
	s.hub.Broadcast(tournament.ID, live.EventMatchUpdated, match)
	s.hub.Broadcast(tournament.ID, live.EventStandingsUpdated, map[string]interface{}{
		"pool_id": match.PoolID,
	})
	if statusAfter != tournament.Status {
		s.hub.Broadcast(tournament.ID, live.EventTournamentUpdated, map[string]interface{}{
			"status": statusAfter,
		})
	}
	return nil
}

func (s *matchService) resetKnockoutResult(ctx context.Context, tournament *models.Tournament, match *models.Match) error {
	kind := models.BracketMain
	if match.Phase == models.PhaseConsolation {
		kind = models.BracketConsolation
	}

	nodes, matches, err := s.loadBracket(ctx, tournament.ID, kind)
	if err != nil {
		return err
	}

	out, err := brackets.ResetResult(kind, nodes, matches, *match.BracketUID)
	if err != nil {
		return err
	}
	if len(out.ClearedMatchUIDs) == 0 {
		return nil
	}

	statusAfter := tournament.Status
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// The cascade touches an arbitrary subtree; persisting every
		// match and non-leaf slot of the bracket is simpler than
		// tracking exactly which ones changed.
		for i := range matches {
			if err := s.matchRepo.UpdateResult(ctx, tx, &matches[i]); err != nil {
				return err
			}
			if err := s.matchRepo.UpdateParticipants(ctx, tx, &matches[i]); err != nil {
				return err
			}
		}
		for i := range nodes {
			if nodes[i].Round == 1 {
				continue
			}
			if err := s.bracketRepo.UpdateTeam(ctx, tx, nodes[i].ID, nodes[i].TeamID); err != nil {
				return err
			}
		}

		if out.ChampionCleared {
			if err := s.tournamentRepo.UpdateChampion(ctx, tx, tournament.ID, kind, nil); err != nil {
				return err
			}
		}

		consolationDiscarded := false
		if kind == models.BracketMain && out.ConsolationAffected {
			discarded, err := s.discardConsolation(ctx, tx, tournament.ID)
			if err != nil {
				return err
			}
			consolationDiscarded = discarded
		}

		statusAfter = statusAfterKnockoutReset(tournament.Status, kind, out.ChampionCleared, consolationDiscarded)
		if statusAfter != tournament.Status {
			return s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, statusAfter)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("knockout result reset",
		"tournament_id", tournament.ID,
		"bracket", kind,
		"cleared", out.ClearedMatchUIDs,
	)
	s.hub.Broadcast(tournament.ID, live.EventBracketUpdated, map[string]interface{}{
		"bracket":            kind,
		"cleared_match_uids": out.ClearedMatchUIDs,
	})
	if statusAfter != tournament.Status {
		s.hub.Broadcast(tournament.ID, live.EventTournamentUpdated, map[string]interface{}{
			"status": statusAfter,
		})
	}
	return nil
}

// statusAfterKnockoutReset walks the lifecycle back just far enough to
// reflect what the reset discarded.
func statusAfterKnockoutReset(current models.TournamentStatus, kind models.BracketKind, championCleared, consolationDiscarded bool) models.TournamentStatus {
	switch kind {
	case models.BracketMain:
		if (championCleared || consolationDiscarded) &&
			(current == models.StatusConsolationInProgress || current == models.StatusCompleted) {
			return models.StatusKnockoutInProgress
		}
	case models.BracketConsolation:
		if championCleared && current == models.StatusCompleted {
			return models.StatusConsolationInProgress
		}
	}
	return current
}

func (s *matchService) discardConsolation(ctx context.Context, tx *sql.Tx, tournamentID int) (bool, error) {
	existing, err := s.bracketRepo.ListByTournament(ctx, tournamentID, models.BracketConsolation)
	if err != nil {
		return false, err
	}
	if len(existing) == 0 {
		return false, nil
	}

	if err := s.matchRepo.DeleteByPhase(ctx, tx, tournamentID, models.PhaseConsolation); err != nil {
		return false, err
	}
	if err := s.bracketRepo.DeleteByTournament(ctx, tx, tournamentID, models.BracketConsolation); err != nil {
		return false, err
	}
	if err := s.tournamentRepo.UpdateChampion(ctx, tx, tournamentID, models.BracketConsolation, nil); err != nil {
		return false, err
	}
	s.logger.Info("consolation bracket discarded", "tournament_id", tournamentID)
	return true, nil
}

func (s *matchService) loadBracket(ctx context.Context, tournamentID int, kind models.BracketKind) ([]models.BracketNode, []models.Match, error) {
	nodes, err := s.bracketRepo.ListByTournament(ctx, tournamentID, kind)
	if err != nil {
		return nil, nil, err
	}

	phase := models.PhaseKnockout
	if kind == models.BracketConsolation {
		phase = models.PhaseConsolation
	}
	matches, err := s.matchRepo.ListByPhase(ctx, tournamentID, phase)
	if err != nil {
		return nil, nil, err
	}
	return nodes, matches, nil
}

// poolPhaseCompleteWith checks whether every pool match is complete,
// treating the match with justRecordedID as already done.
func (s *matchService) poolPhaseCompleteWith(ctx context.Context, tournamentID, justRecordedID int) (bool, error) {
	matches, err := s.matchRepo.ListByPhase(ctx, tournamentID, models.PhasePool)
	if err != nil {
		return false, err
	}
	if len(matches) == 0 {
		return false, nil
	}
	for _, m := range matches {
		if m.ID == justRecordedID {
			continue
		}
		if m.Status != models.MatchStatusComplete {
			return false, nil
		}
	}
	return true, nil
}

// roundRobinWinner tops the single-pool table once every match is in.
// The just-recorded match replaces its stale stored copy.
func (s *matchService) roundRobinWinner(ctx context.Context, tournamentID int, recorded *models.Match) (int, error) {
	pools, err := s.poolRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return 0, err
	}
	if len(pools) == 0 {
		return 0, ErrPoolNotFound
	}
	pool := pools[0]

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return 0, err
	}
	for _, team := range teams {
		if team.PoolID != nil && *team.PoolID == pool.ID {
			pool.Teams = append(pool.Teams, team)
		}
	}
	pool.Matches, err = s.matchRepo.ListByPool(ctx, pool.ID)
	if err != nil {
		return 0, err
	}
	for i := range pool.Matches {
		if pool.Matches[i].ID == recorded.ID {
			pool.Matches[i] = *recorded
		}
	}

	rows := brackets.Standings(pool)
	if len(rows) == 0 {
		return 0, ErrPoolNotFound
	}
	return rows[0].TeamID, nil
}
