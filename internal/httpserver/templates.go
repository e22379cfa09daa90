package httpserver

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// layoutFiles are parsed into every page set.
var layoutFiles = []string{"layout.tmpl", "partials.tmpl"}

var funcMap = template.FuncMap{
	"now": time.Now,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2006")
	},
}

// renderer executes page templates. Each page file is parsed on top of a
// clone of the shared layout so every page can define its own "content".
type renderer struct {
	dir string
	dev bool

	mu    sync.RWMutex
	pages map[string]*template.Template
}

func newRenderer(dir string, dev bool) (*renderer, error) {
	r := &renderer{dir: dir, dev: dev}
	pages, err := parseTemplates(dir)
	if err != nil {
		return nil, err
	}
	r.pages = pages
	return r, nil
}

func parseTemplates(dir string) (map[string]*template.Template, error) {
	base := template.New("_root").Funcs(funcMap)
	for _, name := range layoutFiles {
		if _, err := base.ParseFiles(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("httpserver: parse %s: %w", name, err)
		}
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		for _, l := range layoutFiles {
			if d.Name() == l {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("httpserver: no templates found under %s", dir)
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFiles(f)
		if err != nil {
			return nil, fmt.Errorf("httpserver: parse %s: %w", f, err)
		}
		pages[strings.TrimSuffix(filepath.Base(f), ".tmpl")] = t
	}
	return pages, nil
}

func (r *renderer) lookup(page string) (*template.Template, error) {
	if r.dev {
		pages, err := parseTemplates(r.dir)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.pages = pages
		r.mu.Unlock()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("httpserver: unknown template %q: %w", page, os.ErrNotExist)
	}
	return t, nil
}

// render executes the base layout for page into a buffer first so a
// template error never leaves a half-written 200.
func (r *renderer) render(w http.ResponseWriter, page string, status int, data any) error {
	t, err := r.lookup(page)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("httpserver: execute %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
