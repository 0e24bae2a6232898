package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkrupp/foro/internal/domain"
)

const (
	// MaxRequestBodyBytes bounds JSON request bodies.
	MaxRequestBodyBytes = 1 << 20

	contentTypeJSON = "application/json"
)

var (
	// ErrRouteNotFound is returned for requests to unknown paths.
	ErrRouteNotFound = errors.New("route not found")
	// ErrMethodNotAllowed is returned for known paths requested with an unsupported method.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// StatusForError maps an error to its HTTP status code.
// Unauthorized and unauthenticated errors share 401.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidPageRequest),
		errors.Is(err, domain.ErrInvalidTopicStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrNoAuthToken),
		errors.Is(err, domain.ErrInvalidAuthToken),
		errors.Is(err, domain.ErrExpiredAuthToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTopicNotFound),
		errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes the JSON error body for err. The body carries only the
// status text and, for validation failures, the offending fields; causes stay
// in the logs.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusForError(err)

	//nolint:exhaustruct
	resp := ErrorResponse{Error: http.StatusText(status)}

	if status == http.StatusBadRequest {
		if fieldErrs, ok := domain.ValidationErrors(err); ok {
			resp.Fields = make(map[string]string, len(fieldErrs))
			for field, fieldErr := range fieldErrs {
				resp.Fields[field] = fieldErr.Error()
			}
		}
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	_ = WriteJSON(w, status, resp)
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// DecodeJSON reads a JSON request body into v. Unknown fields are ignored.
// Malformed bodies yield an error matching domain.ErrValidation.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Join(domain.ErrValidation, fmt.Errorf("decode request body: %w", err))
	}

	return nil
}

// NotFoundHandler answers unknown routes with a JSON 404.
func NotFoundHandler(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, ErrRouteNotFound)
}

// MethodNotAllowedHandler answers unsupported methods with a JSON 405.
func MethodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, ErrMethodNotAllowed)
}
