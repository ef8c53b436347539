package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubmatch/tournament-engine/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	ListByPhase(ctx context.Context, tournamentID int, phase models.MatchPhase) ([]models.Match, error)
	ListByPool(ctx context.Context, poolID int) ([]models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateParticipants(ctx context.Context, exec SQLExecutor, match *models.Match) error
	DeleteByPhase(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.MatchPhase) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, phase, pool_id, team1_id, team2_id,
	round, order_in_round, bracket_uid, sets_json, status, winner_team_id, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	var setsJSON *string
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Phase,
		&m.PoolID,
		&m.Team1ID,
		&m.Team2ID,
		&m.Round,
		&m.OrderInRound,
		&m.BracketUID,
		&setsJSON,
		&m.Status,
		&m.WinnerTeamID,
		&m.CreatedAt,
	)
	if err != nil {
		return err
	}
	return m.DecodeSets(setsJSON)
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) error {
	query := `
		INSERT INTO matches (tournament_id, phase, pool_id, team1_id, team2_id,
			round, order_in_round, bracket_uid, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	e := r.getExecutor(exec)
	for i := range matches {
		m := &matches[i]
		err := e.QueryRowContext(ctx, query,
			m.TournamentID, m.Phase, m.PoolID, m.Team1ID, m.Team2ID,
			m.Round, m.OrderInRound, m.BracketUID, m.Status,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := scanMatch(rows, &m); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY id ASC`
	return r.listQuery(ctx, query, tournamentID)
}

func (r *postgresMatchRepository) ListByPhase(ctx context.Context, tournamentID int, phase models.MatchPhase) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE tournament_id = $1 AND phase = $2
		ORDER BY round ASC NULLS FIRST, order_in_round ASC NULLS FIRST, id ASC`
	return r.listQuery(ctx, query, tournamentID, phase)
}

func (r *postgresMatchRepository) ListByPool(ctx context.Context, poolID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE pool_id = $1 ORDER BY id ASC`
	return r.listQuery(ctx, query, poolID)
}

// UpdateResult persists the score sheet, status and winner of a match.
func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	setsJSON, err := match.EncodeSets()
	if err != nil {
		return err
	}

	query := `UPDATE matches SET sets_json = $1, status = $2, winner_team_id = $3 WHERE id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, setsJSON, match.Status, match.WinnerTeamID, match.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdateParticipants rewrites the sides of a knockout match after a
// feeding match resolves or is reset.
func (r *postgresMatchRepository) UpdateParticipants(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `UPDATE matches SET team1_id = $1, team2_id = $2 WHERE id = $3`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, match.Team1ID, match.Team2ID, match.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByPhase(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.MatchPhase) error {
	query := `DELETE FROM matches WHERE tournament_id = $1 AND phase = $2`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID, phase)
	return err
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `DELETE FROM matches WHERE tournament_id = $1`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID)
	return err
}
