package httpserver

import (
	"html/template"
	"net/http"

	"prognocore.com/web/internal/nav"
	"prognocore.com/web/internal/seo"
)

func (s *server) services(w http.ResponseWriter, r *http.Request) {
	t := s.translator(r)
	p := s.basePage(w, r, t("nav.services"), t("services.lead"), "")
	p.Services = s.registry.Services()
	s.render(w, r, "services", http.StatusOK, p)
}

// serviceDetail resolves the slug from the last segment of the escaped path,
// so it is unescaped exactly once. Unknown slugs keep the layout and answer
// 404 with the not-found block.
func (s *server) serviceDetail(w http.ResponseWriter, r *http.Request) {
	slug := nav.Slug(r.URL.EscapedPath())
	svc, ok := s.registry.Service(slug)
	if !ok {
		t := s.translator(r)
		p := s.basePage(w, r, t("service.not_found"), "", "")
		p.NotFound = t("service.not_found")
		s.render(w, r, "service_detail", http.StatusNotFound, p)
		return
	}
	p := s.basePage(w, r, svc.Title, svc.Subtitle, svc.Image)
	p.Breadcrumbs = nav.Breadcrumbs(r.URL.EscapedPath(), svc.Title)
	p.Service = svc
	p.JSONLD = []template.JS{
		seo.Script(s.breadcrumbLD(p)),
		seo.Script(seo.Service(svc.Title, svc.Description, seo.Absolute(s.site.BaseURL, svc.Path()), svc.Image, seo.SiteName)),
	}
	s.render(w, r, "service_detail", http.StatusOK, p)
}

func (s *server) industries(w http.ResponseWriter, r *http.Request) {
	t := s.translator(r)
	p := s.basePage(w, r, t("nav.industries"), t("industries.lead"), "")
	p.Industries = s.registry.Industries()
	s.render(w, r, "industries", http.StatusOK, p)
}

func (s *server) industryDetail(w http.ResponseWriter, r *http.Request) {
	slug := nav.Slug(r.URL.EscapedPath())
	ind, ok := s.registry.Industry(slug)
	if !ok {
		t := s.translator(r)
		p := s.basePage(w, r, t("industry.not_found"), "", "")
		p.NotFound = t("industry.not_found")
		s.render(w, r, "industry_detail", http.StatusNotFound, p)
		return
	}
	p := s.basePage(w, r, ind.Title, ind.Subtitle, ind.Image)
	p.Breadcrumbs = nav.Breadcrumbs(r.URL.EscapedPath(), ind.Title)
	p.Industry = ind
	p.JSONLD = []template.JS{seo.Script(s.breadcrumbLD(p))}
	s.render(w, r, "industry_detail", http.StatusOK, p)
}
