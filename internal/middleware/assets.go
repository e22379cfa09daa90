package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

const assetCacheControl = "public, max-age=604800, stale-while-revalidate=86400"

// etagIndex maps "/css/site.css" style paths to weak content hashes.
type etagIndex map[string]string

func indexAssets(fsys fs.FS) etagIndex {
	idx := etagIndex{}
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if tag, err := hashFile(fsys, p); err == nil {
			idx["/"+p] = tag
		}
		return nil
	})
	return idx
}

// AssetsWithCache serves dir with Cache-Control and ETag handling. Requests
// arrive with the /assets prefix already stripped. In dev mode files are
// served uncached and no index is built, so edits show up on reload.
func AssetsWithCache(dir string, dev bool) http.Handler {
	fsys := os.DirFS(dir)
	files := http.FileServer(http.FS(fsys))
	var idx etagIndex
	if !dev {
		idx = indexAssets(fsys)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Add("Vary", "Accept-Encoding")
		if dev {
			w.Header().Set("Cache-Control", "no-cache")
			files.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Cache-Control", assetCacheControl)
		if tag, ok := idx[r.URL.Path]; ok {
			w.Header().Set("ETag", tag)
			if r.Header.Get("If-None-Match") == tag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

func hashFile(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return `W/"` + hex.EncodeToString(h.Sum(nil)) + `"`, nil
}
