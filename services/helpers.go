package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
)

// TournamentLocks serializes mutating operations per tournament.
// Reads don't take the lock; they see the last committed state.
type TournamentLocks struct {
	mu sync.Map // tournament id -> *sync.Mutex
}

func NewTournamentLocks() *TournamentLocks {
	return &TournamentLocks{}
}

func (l *TournamentLocks) lock(tournamentID int) func() {
	v, _ := l.mu.LoadOrStore(tournamentID, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// runInTx executes fn inside a transaction, rolling back on error or
// panic.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func imageExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("%w: unsupported image content type %q", ErrValidationFailed, contentType)
	}
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
