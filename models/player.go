package models

import "time"

// Player is a club-wide registry entry, reusable across tournaments.
// Immutable once created; the engine only ever references players by ID.
type Player struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
