// Package i18n holds the UI copy bundles and picks a language per request.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sort"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localesFS embed.FS

// Bundle maps language -> key -> text.
type Bundle struct {
	dict     map[string]map[string]string
	fallback string
	tags     []language.Tag
	names    []string
	matcher  language.Matcher
}

// Default loads the embedded English bundle.
func Default() (*Bundle, error) {
	sub, err := fs.Sub(localesFS, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub, "en", []string{"en"})
}

// Load reads <lang>.json for each supported language from fsys. Only the
// fallback is required to exist.
func Load(fsys fs.FS, fallback string, supported []string) (*Bundle, error) {
	b := &Bundle{dict: map[string]map[string]string{}, fallback: fallback}
	// the fallback goes first so the matcher prefers it on ties
	ordered := append([]string{fallback}, supported...)
	seen := map[string]bool{}
	for _, l := range ordered {
		if seen[l] {
			continue
		}
		seen[l] = true
		raw, err := fs.ReadFile(fsys, l+".json")
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("i18n: load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", l, err)
		}
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("i18n: bad language %s: %w", l, err)
		}
		b.dict[l] = m
		b.tags = append(b.tags, tag)
		b.names = append(b.names, l)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Supported lists the loaded languages.
func (b *Bundle) Supported() []string {
	out := append([]string(nil), b.names...)
	sort.Strings(out)
	return out
}

// Fallback returns the default language.
func (b *Bundle) Fallback() string { return b.fallback }

// T returns the text for key in lang, falling back to the default language and finally the key.
func (b *Bundle) T(lang, key string) string {
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := b.dict[b.fallback][key]; ok {
		return v
	}
	return key
}

// Resolve picks the best loaded language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(b.names) {
		return b.fallback
	}
	return b.names[idx]
}

type langKey struct{}

// Lang returns the request language, or "" outside Middleware.
func Lang(ctx context.Context) string {
	v, _ := ctx.Value(langKey{}).(string)
	return v
}

// WithLang stores lang in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// Middleware resolves the language from Accept-Language and sets Content-Language.
func (b *Bundle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := b.Resolve(r.Header.Get("Accept-Language"))
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}
