package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/azulcreative/server/internal/http/handlers"
	"github.com/azulcreative/server/internal/middleware"
)

// NewRouter assembles the full API surface. lookup may be nil when GeoIP
// locale detection is not configured.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.Origins()),
		middleware.I18N(app.Config.DefaultLocale, lookup),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Get("/v1/me", app.Me)

		r.Route("/v1/creatives", func(r chi.Router) {
			r.Post("/generate", app.GenerateCreatives)
			r.Get("/", app.ListCreatives)
			r.Get("/export", app.ExportGallery)
			r.Patch("/{id}/caption", app.UpdateCaption)
			r.Delete("/{id}", app.DeleteCreative)
		})

		r.Route("/v1/prompts", func(r chi.Router) {
			r.Post("/enhance", app.EnhancePrompt)
			r.Post("/caption", app.GenerateSocialCaption)
		})
		r.Post("/v1/brand/analyze", app.AnalyzeBrand)

		r.Route("/v1/admin/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", app.AdminListUsers)
			r.Post("/", app.AdminCreateUser)
			r.Patch("/{id}/status", app.AdminUpdateStatus)
			r.Patch("/{id}/role", app.AdminUpdateRole)
			r.Delete("/{id}", app.AdminDeleteUser)
		})
	})

	return r
}
