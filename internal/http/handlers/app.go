package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/azulcreative/server/internal/creative"
	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/gallery"
	"github.com/azulcreative/server/internal/i18n"
	"github.com/azulcreative/server/internal/infra"
	"github.com/azulcreative/server/internal/middleware"
)

// CreativeGenerator produces image batches.
type CreativeGenerator interface {
	Generate(ctx context.Context, req creative.Request) ([]domain.Creative, error)
}

// CopyAssistant covers the text-model helpers.
type CopyAssistant interface {
	EnhancePrompt(ctx context.Context, description, category, style string) (string, error)
	GenerateSocialCaption(ctx context.Context, imageDataURL, niche, objective string) (string, error)
	AnalyzeBrandAssets(ctx context.Context, images []creative.ImageInput) (creative.BrandProfile, error)
}

// App carries the wired dependencies for every HTTP handler.
type App struct {
	Logger    zerolog.Logger
	Config    *infra.Config
	Gallery   *gallery.Service
	Generator CreativeGenerator
	Assistant CopyAssistant
	Users     domain.UserStore
	DB        Pinger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// error writes a structured error with a message localized to the request
// locale.
func (a *App) error(w http.ResponseWriter, r *http.Request, code int, slug, messageKey string) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, code, errorBody{Error: slug, Message: i18n.T(locale, messageKey)})
}

// domainError maps a domain failure onto an HTTP response.
func (a *App) domainError(w http.ResponseWriter, r *http.Request, err error) {
	key := i18n.KeyForError(err)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, r, http.StatusUnauthorized, "unauthorized", key)
	case errors.Is(err, domain.ErrUserPending), errors.Is(err, domain.ErrUserBlocked), errors.Is(err, domain.ErrPermissionDenied):
		a.error(w, r, http.StatusForbidden, "forbidden", key)
	case errors.Is(err, domain.ErrUserExists):
		a.error(w, r, http.StatusConflict, "conflict", key)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusNotFound, "not_found", key)
	case errors.Is(err, domain.ErrQuotaExhausted), errors.Is(err, domain.ErrRateLimited):
		a.error(w, r, http.StatusTooManyRequests, "quota_exhausted", key)
	case errors.Is(err, domain.ErrEmptyGenerationResult):
		a.error(w, r, http.StatusUnprocessableEntity, "empty_result", key)
	case errors.Is(err, domain.ErrKeyRevoked), errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrServiceOverloaded):
		a.error(w, r, http.StatusBadGateway, "upstream_error", key)
	case errors.Is(err, domain.ErrConfigurationMissing):
		// Distinct code so the client can prompt for configuration
		// instead of showing a generic failure.
		a.error(w, r, http.StatusServiceUnavailable, "config_missing", key)
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("handler: unexpected error")
		a.error(w, r, http.StatusInternalServerError, "internal", i18n.KeyInternal)
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
