// Package cms renders the long-form markdown pages (about, learn-more and the legal pages).
package cms

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"
)

//go:embed pages/*.md
var pagesFS embed.FS

// ErrNotFound is returned when no markdown file exists for a slug.
var ErrNotFound = errors.New("cms: page not found")

// Page is a rendered markdown page.
type Page struct {
	Slug          string
	Title         string
	Summary       string
	Body          template.HTML
	EffectiveDate time.Time
	TOC           []Heading
	SEO           SEO
}

// Heading is a second-level heading anchor.
type Heading struct {
	ID   string
	Text string
}

// SEO holds optional metadata overrides.
type SEO struct {
	Title       string
	Description string
}

type frontMatter struct {
	Title         string `yaml:"title"`
	Summary       string `yaml:"summary"`
	EffectiveDate string `yaml:"effective_date"`
	TOC           bool   `yaml:"toc"`
	SEO           struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"seo"`
}

// Library loads pages from a filesystem of <slug>.md files and caches the rendered result.
type Library struct {
	fsys   fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Option configures a Library.
type Option func(*Library)

// WithCacheTTL expires rendered pages after d. Zero or negative keeps them forever.
func WithCacheTTL(d time.Duration) Option {
	return func(l *Library) { l.ttl = d }
}

// New builds a Library reading from fsys.
func New(fsys fs.FS, opts ...Option) *Library {
	l := &Library{
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy: newPagePolicy(),
		now:    time.Now,
		items:  map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Default returns a Library over the embedded pages.
func Default(opts ...Option) *Library {
	sub, err := fs.Sub(pagesFS, "pages")
	if err != nil {
		panic(fmt.Sprintf("cms: embedded pages: %v", err))
	}
	return New(sub, opts...)
}

// Slugs lists the available page slugs in lexical order.
func (l *Library) Slugs() []string {
	matches, err := fs.Glob(l.fsys, "*.md")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSuffix(path.Base(m), ".md"))
	}
	sort.Strings(out)
	return out
}

// Page returns the rendered page for slug.
func (l *Library) Page(slug string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}
	if p, ok := l.cached(slug); ok {
		return p, nil
	}
	p, err := l.load(slug)
	if err != nil {
		return Page{}, err
	}
	l.store(slug, p)
	return clonePage(p), nil
}

func (l *Library) load(slug string) (Page, error) {
	raw, err := fs.ReadFile(l.fsys, slug+".md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}
	fm, body := splitFrontMatter(string(raw))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("cms: parse front matter %s: %w", slug, err)
		}
	}

	var buf bytes.Buffer
	if err := l.md.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("cms: render %s: %w", slug, err)
	}
	safe := l.policy.SanitizeBytes(buf.Bytes())

	p := Page{
		Slug:          slug,
		Title:         firstNonEmpty(strings.TrimSpace(front.Title), prettifySlug(slug)),
		Summary:       strings.TrimSpace(front.Summary),
		Body:          template.HTML(safe),
		EffectiveDate: parseContentDate(front.EffectiveDate),
		SEO: SEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
		},
	}
	if front.TOC {
		p.TOC = headings(safe)
	}
	return p, nil
}

func (l *Library) cached(slug string) (Page, bool) {
	l.mu.RLock()
	entry, ok := l.items[slug]
	l.mu.RUnlock()
	if !ok {
		return Page{}, false
	}
	if !entry.expires.IsZero() && l.now().After(entry.expires) {
		return Page{}, false
	}
	return clonePage(entry.page), true
}

func (l *Library) store(slug string, p Page) {
	entry := cacheEntry{page: clonePage(p)}
	if l.ttl > 0 {
		entry.expires = l.now().Add(l.ttl)
	}
	l.mu.Lock()
	l.items[slug] = entry
	l.mu.Unlock()
}

// headings collects h2 anchors from rendered HTML.
func headings(doc []byte) []Heading {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil
	}
	var out []Heading
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.H2 {
			id := attr(n, "id")
			if text := strings.TrimSpace(textOf(n)); id != "" && text != "" {
				out = append(out, Heading{ID: id, Text: text})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textOf(c))
	}
	return sb.String()
}

func newPagePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("loading").OnElements("img")
	policy.AllowAttrs("align").OnElements("th", "td")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(strings.TrimSpace(slug), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func clonePage(src Page) Page {
	cp := src
	if src.TOC != nil {
		cp.TOC = append([]Heading(nil), src.TOC...)
	}
	return cp
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
