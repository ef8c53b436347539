package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrOrganizerNotFound      = errors.New("organizer not found")
	ErrOrganizerEmailConflict = errors.New("organizer email already registered")
)

type OrganizerRepository interface {
	Create(ctx context.Context, organizer *models.Organizer) error
	GetByID(ctx context.Context, id int) (*models.Organizer, error)
	GetByEmail(ctx context.Context, email string) (*models.Organizer, error)
}

type postgresOrganizerRepository struct {
	db *sql.DB
}

func NewPostgresOrganizerRepository(db *sql.DB) OrganizerRepository {
	return &postgresOrganizerRepository{db: db}
}

func (r *postgresOrganizerRepository) Create(ctx context.Context, o *models.Organizer) error {
	query := `
		INSERT INTO organizers (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, o.Name, o.Email, o.PasswordHash).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrOrganizerEmailConflict
		}
		return err
	}
	return nil
}

func (r *postgresOrganizerRepository) GetByID(ctx context.Context, id int) (*models.Organizer, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM organizers WHERE id = $1`

	o := &models.Organizer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.Name, &o.Email, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizerNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresOrganizerRepository) GetByEmail(ctx context.Context, email string) (*models.Organizer, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM organizers WHERE LOWER(email) = LOWER($1)`

	o := &models.Organizer{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&o.ID, &o.Name, &o.Email, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizerNotFound
		}
		return nil, err
	}
	return o, nil
}
