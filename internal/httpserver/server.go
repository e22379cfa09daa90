// Package httpserver wires the routes, middleware and page handlers of the site.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"prognocore.com/web/internal/backend"
	"prognocore.com/web/internal/cms"
	"prognocore.com/web/internal/config"
	"prognocore.com/web/internal/content"
	"prognocore.com/web/internal/forms"
	"prognocore.com/web/internal/handlers"
	"prognocore.com/web/internal/i18n"
	mw "prognocore.com/web/internal/middleware"
	"prognocore.com/web/internal/observability"
	"prognocore.com/web/internal/theme"
)

const (
	maxFormBytes   = 64 << 10
	requestTimeout = 30 * time.Second
)

// SubmitLimit submissions per SubmitWindow are accepted from one client.
const (
	SubmitLimit  = 10
	SubmitWindow = time.Minute
)

// Submitter forwards a validated submission and reports the outcome.
type Submitter interface {
	Submit(ctx context.Context, endpoint backend.Endpoint, payload any) forms.Status
}

// Deps are the collaborators of the router. Zero values fall back to the
// embedded defaults, except Submitter which must be set.
type Deps struct {
	Site      config.SiteConfig
	Analytics handlers.Analytics
	Logger    *zap.Logger
	Submitter Submitter
	Registry  *content.Registry
	Pages     *cms.Library
	Bundle    *i18n.Bundle
	Sessions  *mw.Sessions
	Limiter   *mw.RateLimiter
}

// ErrNoSubmitter is returned when Deps lacks a Submitter.
var ErrNoSubmitter = errors.New("httpserver: submitter is required")

type server struct {
	site      config.SiteConfig
	analytics handlers.Analytics
	logger    *zap.Logger
	submitter Submitter
	registry  *content.Registry
	pages     *cms.Library
	bundle    *i18n.Bundle
	views     *renderer
	secure    bool
}

// NewRouter builds the chi router serving the whole site.
func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Submitter == nil {
		return nil, ErrNoSubmitter
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Registry == nil {
		deps.Registry = content.Default()
	}
	if deps.Pages == nil {
		deps.Pages = cms.Default()
	}
	if deps.Bundle == nil {
		b, err := i18n.Default()
		if err != nil {
			return nil, err
		}
		deps.Bundle = b
	}
	secure := deps.Site.Prod()
	if deps.Sessions == nil {
		deps.Sessions = mw.NewSessions("", secure)
	}
	if deps.Limiter == nil {
		deps.Limiter = mw.NewRateLimiter(SubmitLimit, SubmitWindow)
	}
	views, err := newRenderer(deps.Site.TemplatesDir, deps.Site.Dev)
	if err != nil {
		return nil, err
	}

	s := &server{
		site:      deps.Site,
		analytics: deps.Analytics,
		logger:    deps.Logger,
		submitter: deps.Submitter,
		registry:  deps.Registry,
		pages:     deps.Pages,
		bundle:    deps.Bundle,
		views:     views,
		secure:    secure,
	}

	headers := mw.DefaultHeaders()
	if secure {
		headers.HSTS = "max-age=63072000; includeSubDomains"
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; only run behind a proxy that sets it.
	r.Use(chimw.RealIP)
	r.Use(observability.RequestLogger(deps.Logger))
	r.Use(observability.Recoverer(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(mw.SecurityHeaders(headers))

	r.Get("/healthz", s.healthz)
	r.Get("/robots.txt", s.robots)
	r.Get("/sitemap.xml", s.sitemap)
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(deps.Site.PublicDir, "assets"), deps.Site.Dev)))

	r.Group(func(r chi.Router) {
		r.Use(mw.MaxFormBody(maxFormBytes))
		r.Use(deps.Sessions.Middleware)
		r.Use(mw.HTMX)
		r.Use(mw.CSRF(secure))
		r.Use(deps.Bundle.Middleware)
		r.Use(theme.Provide(secure))

		r.Get("/", s.home)
		r.Get("/services", s.services)
		r.Get("/services/*", s.serviceDetail)
		r.Get("/industries", s.industries)
		r.Get("/industries/*", s.industryDetail)
		r.Get("/about", s.markdownPage("about"))
		r.Get("/learn-more", s.markdownPage("learn-more"))
		r.Get("/privacy", s.markdownPage("privacy"))
		r.Get("/terms", s.markdownPage("terms"))
		r.Get("/contact", s.contactPage)

		r.Post("/theme/toggle", s.toggleTheme)
		r.Post("/consent", s.recordConsent)
		r.With(deps.Limiter.Middleware).Post("/contact", s.submitContact)
		r.With(deps.Limiter.Middleware).Post("/newsletter", s.submitNewsletter)

		r.NotFound(s.notFound)
	})
	return r, nil
}

// New returns an http.Server for cfg serving handler.
func New(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
