package services

import (
	"context"
	"fmt"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/repositories"
)

// PlayerService is the club-wide player registry.
type PlayerService interface {
	Register(ctx context.Context, name string) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{playerRepo: playerRepo}
}

func (s *playerService) Register(ctx context.Context, name string) (*models.Player, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}

	player := &models.Player{Name: name}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return s.playerRepo.GetByID(ctx, id)
}

func (s *playerService) List(ctx context.Context) ([]models.Player, error) {
	return s.playerRepo.List(ctx)
}
