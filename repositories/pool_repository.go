package repositories

import (
	"context"
	"database/sql"

	"github.com/clubmatch/tournament-engine/models"
)

type PoolRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, pools []models.Pool) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Pool, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresPoolRepository struct {
	db *sql.DB
}

func NewPostgresPoolRepository(db *sql.DB) PoolRepository {
	return &postgresPoolRepository{db: db}
}

func (r *postgresPoolRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPoolRepository) CreateBatch(ctx context.Context, exec SQLExecutor, pools []models.Pool) error {
	query := `
		INSERT INTO pools (tournament_id, name, position)
		VALUES ($1, $2, $3)
		RETURNING id`

	e := r.getExecutor(exec)
	for i := range pools {
		p := &pools[i]
		if err := e.QueryRowContext(ctx, query, p.TournamentID, p.Name, p.Position).Scan(&p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresPoolRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Pool, error) {
	query := `
		SELECT id, tournament_id, name, position
		FROM pools
		WHERE tournament_id = $1
		ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pools := make([]models.Pool, 0)
	for rows.Next() {
		var p models.Pool
		if scanErr := rows.Scan(&p.ID, &p.TournamentID, &p.Name, &p.Position); scanErr != nil {
			return nil, scanErr
		}
		pools = append(pools, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return pools, nil
}

func (r *postgresPoolRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `DELETE FROM pools WHERE tournament_id = $1`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID)
	return err
}
