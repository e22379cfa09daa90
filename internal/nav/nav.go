// Package nav resolves route slugs and builds the navigation and breadcrumb view models.
package nav

import (
	"net/url"
	"path"
	"strings"
)

// Slug returns the last segment of the escaped path p after one round of URL
// unescaping. Pass url.URL.EscapedPath, not the already decoded Path. A
// segment with an invalid escape is returned raw. Trailing slashes are
// ignored.
func Slug(p string) string {
	trimmed := strings.TrimRight(p, "/")
	seg := trimmed
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		seg = trimmed[i+1:]
	}
	if u, err := url.PathUnescape(seg); err == nil {
		return u
	}
	return seg
}

// Item represents a top-level navigation item.
type Item struct {
	Path     string
	LabelKey string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home"},
	{Path: "/services", LabelKey: "nav.services"},
	{Path: "/industries", LabelKey: "nav.industries"},
	{Path: "/about", LabelKey: "nav.about"},
	{Path: "/learn-more", LabelKey: "nav.learn_more"},
	{Path: "/contact", LabelKey: "nav.contact"},
}

// sections that are not in Main but still get a labelled crumb
var extra = map[string]string{
	"/privacy": "footer.privacy",
	"/terms":   "footer.terms",
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds entries from the current path, starting at Home. When
// leaf is non-empty it labels the deepest crumb (e.g. a service title).
func Breadcrumbs(currentPath, leaf string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		href += "/" + part
		c := Crumb{Href: href, Label: titleFromSegment(Slug(part)), Active: i == len(parts)-1}
		if i == 0 {
			c.LabelKey = labelKeyFor(href)
		}
		if c.Active && leaf != "" {
			c.LabelKey = ""
			c.Label = leaf
		}
		crumbs = append(crumbs, c)
	}
	return crumbs
}

func labelKeyFor(top string) string {
	for _, it := range Main {
		if it.Path == top {
			return it.LabelKey
		}
	}
	return extra[top]
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
