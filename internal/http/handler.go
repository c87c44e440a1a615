package httpapp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cesargomez89/mdlookup/internal/app"
	"github.com/cesargomez89/mdlookup/internal/http/dto"
	"github.com/cesargomez89/mdlookup/internal/logger"
	"github.com/cesargomez89/mdlookup/internal/provider"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Lookups *app.LookupService
	Logger  *logger.Logger
}

func NewHandler(lookups *app.LookupService, log *logger.Logger) *Handler {
	return &Handler{
		Lookups: lookups,
		Logger:  log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.SearchByFields)
		r.Post("/search", h.Search)
		r.Post("/search/batch", h.SearchBatch)
		r.Get("/compile", h.CompileByFields)
		r.Post("/compile", h.Compile)
		r.Get("/history", h.History)
		r.Get("/providers", h.Providers)
		r.Post("/provider/default", h.SetDefaultProvider)
	})
	r.Handle("/metrics", promhttp.Handler())
}

// NewRouter returns a chi router with the standard middleware, then extra,
// and every route registered.
func NewRouter(h *Handler, extra ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(extra...)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	h.writeJSON(w, http.StatusBadRequest, dto.ErrorBody{
		Error:  dto.ToResponse(errs),
		Fields: dto.ToMap(errs),
	})
}

// writeError maps service errors to HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Warn("Request failed", "status", status, "error", err)
	}
	h.writeJSON(w, status, body)
}

func errorResponse(err error) (int, dto.ErrorBody) {
	body := dto.ErrorBody{Error: err.Error()}

	var pe *provider.Error
	switch {
	case errors.Is(err, provider.ErrUnknownProvider):
		return http.StatusNotFound, body
	case errors.Is(err, context.DeadlineExceeded):
		body.Origin = provider.KindTransport.String()
		return http.StatusGatewayTimeout, body
	case errors.As(err, &pe):
		body.Origin = pe.Kind.String()
		body.StatusCode = pe.StatusCode
		return http.StatusBadGateway, body
	default:
		return http.StatusInternalServerError, body
	}
}

// decodeBody reads a JSON request body into dst.
func decodeBody(r *http.Request, dst any) []dto.ValidationError {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return []dto.ValidationError{{Field: "body", Message: "could not be read"}}
	}
	if len(data) > maxBodyBytes {
		return []dto.ValidationError{{Field: "body", Message: "too large"}}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return []dto.ValidationError{{Field: "body", Message: err.Error()}}
	}
	return nil
}
