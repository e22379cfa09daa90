// Package handlers holds the view models the page templates render.
package handlers

import (
	"html/template"

	"prognocore.com/web/internal/i18n"
	"prognocore.com/web/internal/nav"
	"prognocore.com/web/internal/seo"
)

// PageData is the view model for every page using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	JSONLD    []template.JS
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	Theme         string
	Logo          string
	CSRFToken     string
	ThemeToggle   template.HTML
	ConsentBanner template.HTML

	// Optional per-page view model payloads
	Home       *HomeData
	Service    any
	Services   any
	Industry   any
	Industries any
	Content    any
	Contact    template.HTML
	Newsletter template.HTML
	NotFound   string

	bundle *i18n.Bundle
}

// NewPageData returns the layout fields common to every page.
func NewPageData(bundle *i18n.Bundle, lang, path string) PageData {
	return PageData{
		Lang:        lang,
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: nav.Breadcrumbs(path, ""),
		bundle:      bundle,
	}
}

// T translates key for the page language; templates call it as {{$.T "nav.home"}}.
func (p PageData) T(key string) string {
	if p.bundle == nil {
		return key
	}
	return p.bundle.T(p.Lang, key)
}
