package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/lib/pq"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, teams []models.Team) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
	UpdatePool(ctx context.Context, exec SQLExecutor, teamID int, poolID *int) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch inserts the teams in slice order and fills the generated
// ids back in. Order matters: it defines the deterministic team order
// used for pool assignment.
func (r *postgresTeamRepository) CreateBatch(ctx context.Context, exec SQLExecutor, teams []models.Team) error {
	query := `
		INSERT INTO teams (tournament_id, kind, player1_id, player2_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	e := r.getExecutor(exec)
	for i := range teams {
		t := &teams[i]
		err := e.QueryRowContext(ctx, query, t.TournamentID, t.Kind, t.Player1ID, t.Player2ID).Scan(&t.ID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
				return ErrPlayerNotFound
			}
			return err
		}
	}
	return nil
}

// ListByTournament returns teams with both player rows joined in,
// ordered by id so the formation order is stable across reads.
func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	query := `
		SELECT t.id, t.tournament_id, t.kind, t.player1_id, t.player2_id, t.pool_id,
			p1.id, p1.name, p1.created_at,
			p2.id, p2.name, p2.created_at
		FROM teams t
		JOIN players p1 ON p1.id = t.player1_id
		LEFT JOIN players p2 ON p2.id = t.player2_id
		WHERE t.tournament_id = $1
		ORDER BY t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		var p1 models.Player
		var p2ID sql.NullInt64
		var p2Name sql.NullString
		var p2Created sql.NullTime

		scanErr := rows.Scan(
			&t.ID, &t.TournamentID, &t.Kind, &t.Player1ID, &t.Player2ID, &t.PoolID,
			&p1.ID, &p1.Name, &p1.CreatedAt,
			&p2ID, &p2Name, &p2Created,
		)
		if scanErr != nil {
			return nil, scanErr
		}

		t.Player1 = &p1
		if p2ID.Valid {
			t.Player2 = &models.Player{
				ID:        int(p2ID.Int64),
				Name:      p2Name.String,
				CreatedAt: p2Created.Time,
			}
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdatePool(ctx context.Context, exec SQLExecutor, teamID int, poolID *int) error {
	query := `UPDATE teams SET pool_id = $1 WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, poolID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `DELETE FROM teams WHERE tournament_id = $1`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID)
	return err
}
