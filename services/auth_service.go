package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Claims is the JWT payload issued to organizers.
type Claims struct {
	OrganizerID int `json:"organizer_id"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Organizer, string, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Organizer, string, error)
	Profile(ctx context.Context, organizerID int) (*models.Organizer, error)
}

type authService struct {
	organizerRepo repositories.OrganizerRepository
	jwtSecret     []byte
	tokenTTL      time.Duration
}

func NewAuthService(organizerRepo repositories.OrganizerRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		organizerRepo: organizerRepo,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Organizer, string, error) {
	name := normalizeName(input.Name)
	if name == "" || input.Email == "" {
		return nil, "", fmt.Errorf("%w: name and email are required", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	organizer := &models.Organizer{
		Name:         name,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.organizerRepo.Create(ctx, organizer); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(organizer.ID)
	if err != nil {
		return nil, "", err
	}
	organizer.PasswordHash = ""
	return organizer, token, nil
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.Organizer, string, error) {
	organizer, err := s.organizerRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrOrganizerNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find organizer by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(organizer.PasswordHash), []byte(creds.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("compare password hash: %w", err)
	}

	token, err := s.issueToken(organizer.ID)
	if err != nil {
		return nil, "", err
	}
	organizer.PasswordHash = ""
	return organizer, token, nil
}

// Profile returns the organizer behind a validated token.
func (s *authService) Profile(ctx context.Context, organizerID int) (*models.Organizer, error) {
	organizer, err := s.organizerRepo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	organizer.PasswordHash = ""
	return organizer, nil
}

func (s *authService) issueToken(organizerID int) (string, error) {
	now := time.Now()
	claims := Claims{
		OrganizerID: organizerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
