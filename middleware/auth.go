package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/clubmatch/tournament-engine/services"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const organizerContextKey contextKey = "organizer_id"

// Authenticate validates the bearer token and stores the organizer id
// in the request context. Everything behind it is organizer-only.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := &services.Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !token.Valid || claims.OrganizerID <= 0 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), organizerContextKey, claims.OrganizerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OrganizerIDFromContext returns the authenticated organizer's id.
func OrganizerIDFromContext(ctx context.Context) (int, error) {
	id, ok := ctx.Value(organizerContextKey).(int)
	if !ok || id <= 0 {
		return 0, errors.New("organizer id not found in context")
	}
	return id, nil
}
