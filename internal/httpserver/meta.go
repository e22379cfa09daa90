package httpserver

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"prognocore.com/web/internal/seo"
)

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *server) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "User-agent: *\nAllow: /\nSitemap: %s\n", seo.Absolute(s.site.BaseURL, "/sitemap.xml"))
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapPaths lists every public page in navigation order.
func (s *server) sitemapPaths() []string {
	paths := []string{"/", "/services"}
	for _, svc := range s.registry.Services() {
		paths = append(paths, svc.Path())
	}
	paths = append(paths, "/industries")
	for _, ind := range s.registry.Industries() {
		paths = append(paths, ind.Path())
	}
	for _, slug := range s.pages.Slugs() {
		paths = append(paths, "/"+slug)
	}
	return append(paths, "/contact")
}

func (s *server) sitemap(w http.ResponseWriter, r *http.Request) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range s.sitemapPaths() {
		set.URLs = append(set.URLs, sitemapURL{Loc: seo.Absolute(s.site.BaseURL, p)})
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		s.fail(w, r, err)
	}
}
