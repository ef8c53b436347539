package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/clubmatch/tournament-engine/brackets"
	"github.com/clubmatch/tournament-engine/live"
	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/repositories"
	"github.com/clubmatch/tournament-engine/storage"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentInput struct {
	Name           string                `json:"name"`
	Sport          string                `json:"sport"`
	Type           models.TournamentType `json:"type"`
	TeamSize       int                   `json:"team_size"`
	HasConsolation bool                  `json:"has_consolation"`
}

// PoolStandingsView is one pool's ranking table as served to clients.
type PoolStandingsView struct {
	PoolID   int                   `json:"pool_id"`
	PoolName string                `json:"pool_name"`
	Rows     []models.PoolStanding `json:"rows"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Delete(ctx context.Context, id int) error

	FormTeams(ctx context.Context, tournamentID int, playerIDs []int) ([]models.Team, error)
	AssignPools(ctx context.Context, tournamentID int) ([]models.Pool, error)
	GenerateBracket(ctx context.Context, tournamentID int) ([]models.BracketNode, error)
	ResetBracket(ctx context.Context, tournamentID int) error

	PoolStandings(ctx context.Context, tournamentID int) ([]PoolStandingsView, error)
	Snapshot(ctx context.Context, tournamentID int) (*models.Tournament, error)

	UploadLogo(ctx context.Context, tournamentID int, contentType string, file io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	teamRepo       repositories.TeamRepository
	poolRepo       repositories.PoolRepository
	matchRepo      repositories.MatchRepository
	bracketRepo    repositories.BracketRepository
	uploader       storage.FileUploader // nil when object storage is not configured
	hub            *live.Hub
	locks          *TournamentLocks
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	poolRepo repositories.PoolRepository,
	matchRepo repositories.MatchRepository,
	bracketRepo repositories.BracketRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	locks *TournamentLocks,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		poolRepo:       poolRepo,
		matchRepo:      matchRepo,
		bracketRepo:    bracketRepo,
		uploader:       uploader,
		hub:            hub,
		locks:          locks,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := normalizeName(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.Type != models.TypeClubChampionship && input.Type != models.TypeRoundRobin {
		return nil, fmt.Errorf("%w: unknown tournament type %q", ErrValidationFailed, input.Type)
	}
	if input.TeamSize != 1 && input.TeamSize != 2 {
		return nil, fmt.Errorf("%w: team size must be 1 (singles) or 2 (doubles)", ErrValidationFailed)
	}

	tournament := &models.Tournament{
		Name:           name,
		Sport:          normalizeName(input.Sport),
		Type:           input.Type,
		TeamSize:       input.TeamSize,
		HasConsolation: input.HasConsolation,
		Status:         models.StatusCreated,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		s.populateLogoURL(&tournaments[i])
	}
	return tournaments, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	unlock := s.locks.lock(id)
	defer unlock()

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteByTournament(ctx, tx, id); err != nil {
			return err
		}
		if err := s.bracketRepo.DeleteByTournament(ctx, tx, id, models.BracketMain); err != nil {
			return err
		}
		if err := s.bracketRepo.DeleteByTournament(ctx, tx, id, models.BracketConsolation); err != nil {
			return err
		}
		if err := s.teamRepo.DeleteByTournament(ctx, tx, id); err != nil {
			return err
		}
		if err := s.poolRepo.DeleteByTournament(ctx, tx, id); err != nil {
			return err
		}
		return s.tournamentRepo.Delete(ctx, tx, id)
	})
}

// FormTeams pairs the given players into this tournament's teams. It
// may be called again before pools are assigned; the previous
// formation is replaced wholesale.
func (s *tournamentService) FormTeams(ctx context.Context, tournamentID int, playerIDs []int) ([]models.Team, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	// Re-forming while still in teams_formed replaces the previous
	// formation; any later phase requires a reset first.
	if tournament.Status != models.StatusTeamsFormed && !tournament.Status.CanTransitionTo(models.StatusTeamsFormed) {
		return nil, fmt.Errorf("%w: cannot form teams in status %q", ErrInvalidStatusTransition, tournament.Status)
	}

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	teams, err := brackets.BuildTeams(tournamentID, players, tournament.TeamSize)
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.teamRepo.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.teamRepo.CreateBatch(ctx, tx, teams); err != nil {
			return err
		}
		if tournament.Status == models.StatusCreated {
			return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusTeamsFormed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("teams formed", "tournament_id", tournamentID, "teams", len(teams))
	s.hub.Broadcast(tournamentID, live.EventTournamentUpdated, map[string]interface{}{
		"status": models.StatusTeamsFormed,
	})
	return teams, nil
}

// AssignPools splits the formed teams into round-robin pools and
// creates the full pool match schedule. A round_robin tournament gets
// a single pool holding everyone.
func (s *tournamentService) AssignPools(ctx context.Context, tournamentID int) ([]models.Pool, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !tournament.Status.CanTransitionTo(models.StatusPoolsAssigned) {
		return nil, fmt.Errorf("%w: cannot assign pools in status %q", ErrInvalidStatusTransition, tournament.Status)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var pools []models.Pool
	if tournament.Type == models.TypeRoundRobin {
		pools, err = singlePool(tournamentID, teams)
	} else {
		pools, err = brackets.AssignPools(tournamentID, teams)
	}
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.poolRepo.CreateBatch(ctx, tx, pools); err != nil {
			return err
		}
		for i := range pools {
			pool := &pools[i]
			for j := range pool.Teams {
				if err := s.teamRepo.UpdatePool(ctx, tx, pool.Teams[j].ID, &pool.ID); err != nil {
					return err
				}
				pool.Teams[j].PoolID = &pool.ID
			}
			for j := range pool.Matches {
				pool.Matches[j].PoolID = &pool.ID
			}
			if err := s.matchRepo.CreateBatch(ctx, tx, pool.Matches); err != nil {
				return err
			}
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusPoolsAssigned)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pools assigned", "tournament_id", tournamentID, "pools", len(pools))
	s.hub.Broadcast(tournamentID, live.EventTournamentUpdated, map[string]interface{}{
		"status": models.StatusPoolsAssigned,
	})
	return pools, nil
}

// singlePool is the round_robin layout: one pool, everyone plays
// everyone.
func singlePool(tournamentID int, teams []models.Team) ([]models.Pool, error) {
	if len(teams) < 2 {
		return nil, brackets.ErrInsufficientTeams
	}

	pool := models.Pool{
		TournamentID: tournamentID,
		Name:         brackets.PoolName(0),
		Position:     0,
		Teams:        teams,
	}
	for _, pair := range brackets.RoundRobinPairs(len(teams)) {
		t1 := teams[pair[0]].ID
		t2 := teams[pair[1]].ID
		pool.Matches = append(pool.Matches, models.Match{
			TournamentID: tournamentID,
			Phase:        models.PhasePool,
			Team1ID:      &t1,
			Team2ID:      &t2,
			Status:       models.MatchStatusPending,
		})
	}
	return []models.Pool{pool}, nil
}

// GenerateBracket seeds the main knockout tree from the completed pool
// phase.
func (s *tournamentService) GenerateBracket(ctx context.Context, tournamentID int) ([]models.BracketNode, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Type != models.TypeClubChampionship {
		return nil, fmt.Errorf("%w: tournament type %q has no knockout phase", ErrValidationFailed, tournament.Type)
	}
	if !tournament.Status.CanTransitionTo(models.StatusBracketGenerated) {
		return nil, fmt.Errorf("%w: cannot generate bracket in status %q", ErrInvalidStatusTransition, tournament.Status)
	}

	pools, err := s.loadPoolsWithState(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	nodes, matches, err := brackets.SeedBracket(tournamentID, pools)
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bracketRepo.CreateBatch(ctx, tx, nodes); err != nil {
			return err
		}
		if err := s.matchRepo.CreateBatch(ctx, tx, matches); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusBracketGenerated)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		"tournament_id", tournamentID,
		"nodes", len(nodes),
		"matches", len(matches),
	)
	s.hub.Broadcast(tournamentID, live.EventBracketUpdated, map[string]interface{}{
		"bracket": models.BracketMain,
	})
	return nodes, nil
}

// ResetBracket discards the whole knockout phase (both brackets, their
// matches, recorded champions) and reopens the tournament at
// pool_phase_complete so pool results can be corrected and the bracket
// regenerated.
func (s *tournamentService) ResetBracket(ctx context.Context, tournamentID int) error {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if !tournament.Status.AtLeast(models.StatusBracketGenerated) {
		return fmt.Errorf("%w: no bracket to reset in status %q", ErrInvalidStatusTransition, tournament.Status)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteByPhase(ctx, tx, tournamentID, models.PhaseKnockout); err != nil {
			return err
		}
		if err := s.matchRepo.DeleteByPhase(ctx, tx, tournamentID, models.PhaseConsolation); err != nil {
			return err
		}
		if err := s.bracketRepo.DeleteByTournament(ctx, tx, tournamentID, models.BracketMain); err != nil {
			return err
		}
		if err := s.bracketRepo.DeleteByTournament(ctx, tx, tournamentID, models.BracketConsolation); err != nil {
			return err
		}
		if err := s.tournamentRepo.UpdateChampion(ctx, tx, tournamentID, models.BracketMain, nil); err != nil {
			return err
		}
		if err := s.tournamentRepo.UpdateChampion(ctx, tx, tournamentID, models.BracketConsolation, nil); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusPoolPhaseComplete)
	})
	if err != nil {
		return err
	}

	s.logger.Info("bracket reset", "tournament_id", tournamentID)
	s.hub.Broadcast(tournamentID, live.EventTournamentUpdated, map[string]interface{}{
		"status": models.StatusPoolPhaseComplete,
	})
	return nil
}

// PoolStandings recomputes every pool's ranking table from the match
// results currently on record.
func (s *tournamentService) PoolStandings(ctx context.Context, tournamentID int) ([]PoolStandingsView, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}

	pools, err := s.loadPoolsWithState(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	views := make([]PoolStandingsView, 0, len(pools))
	for _, pool := range pools {
		views = append(views, PoolStandingsView{
			PoolID:   pool.ID,
			PoolName: pool.Name,
			Rows:     brackets.Standings(pool),
		})
	}
	return views, nil
}

// Snapshot assembles the full aggregate in parallel: teams, pools,
// matches and both bracket trees.
func (s *tournamentService) Snapshot(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gctx, tournamentID)
		if err != nil {
			return err
		}
		tournament.Teams = teams
		return nil
	})
	g.Go(func() error {
		pools, err := s.poolRepo.ListByTournament(gctx, tournamentID)
		if err != nil {
			return err
		}
		tournament.Pools = pools
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, tournamentID)
		if err != nil {
			return err
		}
		tournament.Matches = matches
		return nil
	})
	g.Go(func() error {
		nodes, err := s.bracketRepo.ListByTournament(gctx, tournamentID, models.BracketMain)
		if err != nil {
			return err
		}
		tournament.Bracket = nodes
		return nil
	})
	g.Go(func() error {
		nodes, err := s.bracketRepo.ListByTournament(gctx, tournamentID, models.BracketConsolation)
		if err != nil {
			return err
		}
		tournament.ConsolationBracket = nodes
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, tournamentID int, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrLogoStorageDisabled
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, err
	}

	key := "tournaments/" + strconv.Itoa(tournamentID) + "/logo" + ext
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("upload logo: %w", err)
	}

	if err := s.tournamentRepo.UpdateLogoKey(ctx, tournamentID, &key); err != nil {
		return nil, err
	}
	tournament.LogoKey = &key
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) populateLogoURL(t *models.Tournament) {
	if s.uploader == nil || t.LogoKey == nil || *t.LogoKey == "" {
		return
	}
	if url := s.uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

// loadPoolsWithState attaches each pool's teams and matches, the shape
// the standings and seeding code works on.
func (s *tournamentService) loadPoolsWithState(ctx context.Context, tournamentID int) ([]models.Pool, error) {
	pools, err := s.poolRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByPhase(ctx, tournamentID, models.PhasePool)
	if err != nil {
		return nil, err
	}

	for i := range pools {
		pool := &pools[i]
		for _, team := range teams {
			if team.PoolID != nil && *team.PoolID == pool.ID {
				pool.Teams = append(pool.Teams, team)
			}
		}
		for _, match := range matches {
			if match.PoolID != nil && *match.PoolID == pool.ID {
				pool.Matches = append(pool.Matches, match)
			}
		}
	}
	return pools, nil
}
