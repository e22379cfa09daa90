package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"prognocore.com/web/internal/cms"
	"prognocore.com/web/internal/consent"
	"prognocore.com/web/internal/fragments"
	"prognocore.com/web/internal/handlers"
	"prognocore.com/web/internal/i18n"
	mw "prognocore.com/web/internal/middleware"
	"prognocore.com/web/internal/nav"
	"prognocore.com/web/internal/observability"
	"prognocore.com/web/internal/prefs"
	"prognocore.com/web/internal/seo"
	"prognocore.com/web/internal/theme"
)

func (s *server) translator(r *http.Request) fragments.Translator {
	lang := i18n.Lang(r.Context())
	return func(key string) string { return s.bundle.T(lang, key) }
}

// basePage fills the layout fields shared by every page.
func (s *server) basePage(w http.ResponseWriter, r *http.Request, title, description, image string) handlers.PageData {
	ctx := r.Context()
	ctl := theme.FromContext(ctx)
	t := s.translator(r)
	csrf := mw.CSRFToken(r)
	state := consent.Read(prefs.NewCookieStore(w, r, s.secure))

	p := handlers.NewPageData(s.bundle, i18n.Lang(ctx), r.URL.Path)
	p.Title = title
	p.SEO = seo.New(s.site.BaseURL, r.URL.Path, title, description, image)
	p.Theme = ctl.Attribute()
	p.Logo = ctl.Logo()
	p.CSRFToken = csrf
	p.ThemeToggle = s.fragment(ctx, fragments.ThemeToggle(ctl.Current(), csrf, t))
	p.ConsentBanner = s.fragment(ctx, fragments.ConsentBanner(state, csrf, t))
	p.Analytics = s.analytics.ForConsent(state)
	p.JSONLD = []template.JS{seo.Script(s.breadcrumbLD(p))}
	return p
}

func (s *server) breadcrumbLD(p handlers.PageData) map[string]any {
	items := make([]seo.BreadcrumbItem, 0, len(p.Breadcrumbs))
	for _, c := range p.Breadcrumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = p.T(c.LabelKey)
		}
		items = append(items, seo.BreadcrumbItem{Name: name, Item: seo.Absolute(s.site.BaseURL, c.Href)})
	}
	return seo.BreadcrumbList(items)
}

// fragment renders c for embedding in a page template.
func (s *server) fragment(ctx context.Context, c templ.Component) template.HTML {
	html, err := templ.ToGoHTML(ctx, c)
	if err != nil {
		observability.FromContext(ctx).Error("render fragment", zap.Error(err))
		return ""
	}
	return html
}

func (s *server) render(w http.ResponseWriter, r *http.Request, page string, status int, data handlers.PageData) {
	if err := s.views.render(w, page, status, data); err != nil {
		s.fail(w, r, err)
	}
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("request failed", zap.Error(err))
	mw.WriteError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func (s *server) home(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, http.StatusOK, fragments.NewsletterFormData{})
}

func (s *server) renderHome(w http.ResponseWriter, r *http.Request, status int, form fragments.NewsletterFormData) {
	p := s.basePage(w, r, "", "", theme.LogoOnLight)
	home := handlers.BuildHomeData(s.registry)
	p.Home = &home
	form.CSRFToken = p.CSRFToken
	p.Newsletter = s.fragment(r.Context(), fragments.NewsletterForm(form, s.translator(r)))
	sameAs := []string{"https://linkedin.com/company/prognocore", "https://twitter.com/prognocore", "https://instagram.com/prognocore"}
	p.JSONLD = []template.JS{
		seo.Script(seo.Organization(seo.SiteName, seo.Absolute(s.site.BaseURL, "/"), seo.Absolute(s.site.BaseURL, theme.LogoOnLight), sameAs)),
		seo.Script(seo.WebSite(seo.SiteName, seo.Absolute(s.site.BaseURL, "/"))),
	}
	s.render(w, r, "home", status, p)
}

func (s *server) markdownPage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.pages.Page(slug)
		if err != nil {
			if errors.Is(err, cms.ErrNotFound) {
				s.notFound(w, r)
				return
			}
			s.fail(w, r, err)
			return
		}
		p := s.basePage(w, r, page.Title, firstNonEmpty(page.SEO.Description, page.Summary), "")
		if page.SEO.Title != "" {
			p.SEO.Title = page.SEO.Title
		}
		p.Content = page
		s.render(w, r, "page", http.StatusOK, p)
	}
}

func (s *server) notFound(w http.ResponseWriter, r *http.Request) {
	t := s.translator(r)
	p := s.basePage(w, r, t("error.not_found"), "", "")
	p.Breadcrumbs = nav.Breadcrumbs("/", "")
	p.NotFound = t("error.not_found_body")
	s.render(w, r, "not_found", http.StatusNotFound, p)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
