// Package seo builds page metadata and schema.org JSON-LD payloads.
package seo

import (
	"net/url"
	"strings"
)

// SiteName is used for title suffixes and structured data.
const SiteName = "PrognoCore"

// DefaultDescription is the fallback meta description.
const DefaultDescription = "PrognoCore delivers AI-powered predictive maintenance solutions that predict equipment failures, prevent downtime and optimize industrial performance."

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// New fills a Meta for a page at path. An empty title yields the bare site name.
func New(baseURL, path, title, description, image string) Meta {
	full := SiteName
	if title != "" && title != SiteName {
		full = title + " | " + SiteName
	}
	if description == "" {
		description = DefaultDescription
	}
	canonical := Absolute(baseURL, path)
	img := image
	if img != "" && !strings.HasPrefix(img, "http") {
		img = Absolute(baseURL, img)
	}
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Image:       img,
			Type:        "website",
			URL:         canonical,
		},
		Twitter: Twitter{Card: "summary_large_image", Site: "@prognocore", Image: img},
	}
}

// Absolute joins baseURL and p. It returns p unchanged when baseURL is not a valid URL.
func Absolute(baseURL, p string) string {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Host == "" {
		return p
	}
	if p == "" || p == "/" {
		return base.String() + "/"
	}
	ref, err := url.Parse(p)
	if err != nil {
		return p
	}
	return base.ResolveReference(ref).String()
}
