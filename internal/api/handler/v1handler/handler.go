// Package v1handler implements the version 1 HTTP handlers of the blog
// generation API. Handlers translate between the JSON wire format and the
// generator service, and map semantic errors to HTTP status codes and
// machine-readable error codes.
package v1handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"blogbrain/internal/generator"
	"blogbrain/pkg/logger"
	"blogbrain/pkg/serrors"
)

// Deps carries the dependencies of the v1 handlers.
type Deps struct {
	Generator generator.Generator
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Mux returns a ServeMux with all v1 routes registered. Paths are absolute
// (including the /v1 prefix) so the mux can be mounted on the root server.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/posts", h.CreatePost)
	mux.HandleFunc("GET /v1/posts", h.ListPosts)
	mux.HandleFunc("GET /v1/posts/{id}", h.GetPost)
	mux.HandleFunc("DELETE /v1/posts/{id}", h.DeletePost)
	mux.HandleFunc("GET /v1/health", h.Health)

	return mux
}

// ErrorResponse is the JSON error envelope shared by all v1 endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusForKind maps a semantic error kind to an HTTP status code.
func statusForKind(k serrors.Kind) int {
	switch k {
	case serrors.ErrValidation:
		return http.StatusBadRequest
	case serrors.ErrNotFound:
		return http.StatusNotFound
	case serrors.ErrConflict:
		return http.StatusConflict
	case serrors.ErrRateLimited:
		return http.StatusTooManyRequests
	case serrors.ErrAPIKey:
		return http.StatusBadGateway
	case serrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	case serrors.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs the error and writes the JSON error envelope. Errors without
// a semantic kind are masked as internal so their details never leak to
// clients.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error(r.Context(), err.Error())

	code := serrors.ErrInternal
	message := "internal error"

	var sErr *serrors.Error
	if errors.As(err, &sErr) && sErr.Kind() != nil && sErr.Kind() != serrors.ErrInternal {
		code = sErr.Kind()
		message = sErr.Message()
		if message == "" {
			message = sErr.Error()
		}
	}

	writeJSON(w, statusForKind(code), ErrorResponse{
		Code:    code.Error(),
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ServiceName and ServiceVersion identify the service in the health payload.
const (
	ServiceName    = "blogbrain"
	ServiceVersion = "1.0.0"
)

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}
