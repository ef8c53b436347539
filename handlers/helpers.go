package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/clubmatch/tournament-engine/brackets"
	"github.com/clubmatch/tournament-engine/repositories"
	"github.com/clubmatch/tournament-engine/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, message interface{}) {
	if err := writeJSON(w, status, jsonResponse{"error": message}, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func serverErrorResponse(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// mapServiceError translates sentinel errors from the service and
// engine layers into HTTP responses.
func mapServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Missing resources.
	case errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrTeamNotFound),
		errors.Is(err, repositories.ErrMatchNotFound),
		errors.Is(err, repositories.ErrOrganizerNotFound),
		errors.Is(err, brackets.ErrMatchNotFound),
		errors.Is(err, services.ErrPoolNotFound):
		errorResponse(w, http.StatusNotFound, "the requested resource could not be found")

	// Conflicting state.
	case errors.Is(err, repositories.ErrTournamentNameConflict),
		errors.Is(err, repositories.ErrPlayerNameConflict),
		errors.Is(err, repositories.ErrOrganizerEmailConflict),
		errors.Is(err, brackets.ErrResultAlreadyRecorded),
		errors.Is(err, services.ErrInvalidStatusTransition):
		errorResponse(w, http.StatusConflict, err.Error())

	// Requests the engine cannot act on.
	case errors.Is(err, brackets.ErrInvalidTeamComposition),
		errors.Is(err, brackets.ErrInsufficientTeams),
		errors.Is(err, brackets.ErrPoolPhaseIncomplete),
		errors.Is(err, brackets.ErrInsufficientQualifiers),
		errors.Is(err, brackets.ErrInvalidSetScore),
		errors.Is(err, brackets.ErrIndeterminateResult),
		errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, brackets.ErrFirstRoundIncomplete):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		errorResponse(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrLogoStorageDisabled):
		errorResponse(w, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(logger, w, r, err)
	}
}
