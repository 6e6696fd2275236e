package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/cup-simulator/brackets"
	"github.com/Dosada05/cup-simulator/services"
)

type jsonResponse map[string]interface{}

// Request bodies are scores, penalties or a team subset; 64 KiB covers the full catalog of ids.
const maxRequestBodyBytes = 64 << 10

var errMalformedBody = errors.New("malformed request body")

// readJSON decodes exactly one JSON value into dst and rejects unknown fields.
// Every failure wraps errMalformedBody.
func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", errMalformedBody, describeDecodeError(err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body must only contain a single JSON value", errMalformedBody)
	}
	return nil
}

func describeDecodeError(err error) string {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		tooLargeErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "body must not be empty"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "body contains badly-formed JSON"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("body contains incorrect JSON type for field %q", typeErr.Field)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("body contains incorrect JSON type (at character %d)", typeErr.Offset)
	case errors.As(err, &tooLargeErr):
		return fmt.Sprintf("body must not be larger than %d bytes", tooLargeErr.Limit)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "body contains unknown key " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	}
	return err.Error()
}

// writeJSON encodes into a buffer first so an encoding failure can still become a 500.
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "\t")
	if err := enc.Encode(data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusNotFound, err.Error())
}

func conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusConflict, err.Error())
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusServiceUnavailable, err.Error())
}

// mapServiceErrorToHTTP translates service and engine errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, brackets.ErrMatchNotFound):
		notFoundResponse(w, r, err)

	case errors.Is(err, services.ErrInvalidStatusTransition),
		errors.Is(err, services.ErrStageClosed),
		errors.Is(err, services.ErrStageIncomplete),
		errors.Is(err, services.ErrQualifiedCountMismatch),
		errors.Is(err, services.ErrDrawLocked),
		errors.Is(err, brackets.ErrMatchAlreadyPlayed),
		errors.Is(err, brackets.ErrBracketLocked):
		conflictResponse(w, r, err)

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrInvalidTeamCount),
		errors.Is(err, brackets.ErrNegativeScore),
		errors.Is(err, brackets.ErrUnresolvedWinner):
		failedValidationResponse(w, r, err)

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAuthenticationFailed):
		unauthorizedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrExportUnavailable),
		errors.Is(err, services.ErrTeamCatalogUnavailable):
		serviceUnavailableResponse(w, r, err)

	default:
		serverErrorResponse(w, r, err)
	}
}
