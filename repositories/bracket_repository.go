package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubmatch/tournament-engine/models"
)

var ErrBracketNodeNotFound = errors.New("bracket node not found")

type BracketRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, nodes []models.BracketNode) error
	ListByTournament(ctx context.Context, tournamentID int, kind models.BracketKind) ([]models.BracketNode, error)
	UpdateTeam(ctx context.Context, exec SQLExecutor, nodeID int, teamID *int) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, kind models.BracketKind) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBracketRepository) CreateBatch(ctx context.Context, exec SQLExecutor, nodes []models.BracketNode) error {
	query := `
		INSERT INTO bracket_nodes (tournament_id, bracket, round, position, team_id, bye, match_uid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	e := r.getExecutor(exec)
	for i := range nodes {
		n := &nodes[i]
		err := e.QueryRowContext(ctx, query,
			n.TournamentID, n.Bracket, n.Round, n.Position, n.TeamID, n.Bye, n.MatchUID,
		).Scan(&n.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresBracketRepository) ListByTournament(ctx context.Context, tournamentID int, kind models.BracketKind) ([]models.BracketNode, error) {
	query := `
		SELECT id, tournament_id, bracket, round, position, team_id, bye, match_uid
		FROM bracket_nodes
		WHERE tournament_id = $1 AND bracket = $2
		ORDER BY round ASC, position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make([]models.BracketNode, 0)
	for rows.Next() {
		var n models.BracketNode
		scanErr := rows.Scan(&n.ID, &n.TournamentID, &n.Bracket, &n.Round, &n.Position, &n.TeamID, &n.Bye, &n.MatchUID)
		if scanErr != nil {
			return nil, scanErr
		}
		nodes = append(nodes, n)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *postgresBracketRepository) UpdateTeam(ctx context.Context, exec SQLExecutor, nodeID int, teamID *int) error {
	query := `UPDATE bracket_nodes SET team_id = $1 WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, teamID, nodeID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNodeNotFound)
}

func (r *postgresBracketRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, kind models.BracketKind) error {
	query := `DELETE FROM bracket_nodes WHERE tournament_id = $1 AND bracket = $2`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID, kind)
	return err
}
