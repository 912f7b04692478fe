package view

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin/render"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Renderer parses resolved templates and plugs them into gin as its HTML renderer.
// Theme files named partial_*.html are available to every page.
type Renderer struct {
	loader *Loader
	parsed *lru.Cache[string, *template.Template]
	funcs  template.FuncMap
}

func NewRenderer(l *Loader) (*Renderer, error) {
	size := l.opts.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *template.Template](size)
	if err != nil {
		return nil, fmt.Errorf("view renderer cache: %w", err)
	}
	return &Renderer{loader: l, parsed: cache, funcs: Funcs()}, nil
}

func (r *Renderer) Loader() *Loader { return r.loader }

// Funcs are the helpers exposed to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}
}

// Template resolves and parses name, reusing earlier parses until Purge.
func (r *Renderer) Template(name string) (*template.Template, error) {
	p, err := r.loader.Find(name)
	if err != nil {
		return nil, err
	}
	if t, ok := r.parsed.Get(p); ok {
		return t, nil
	}

	t, err := template.New(filepath.Base(p)).Funcs(r.funcs).ParseFiles(p)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	partials, _ := filepath.Glob(filepath.Join(r.loader.opts.ThemeDir, "html", "partial_*.html"))
	if len(partials) > 0 {
		if t, err = t.ParseFiles(partials...); err != nil {
			return nil, fmt.Errorf("parse partials for %s: %w", name, err)
		}
	}
	r.parsed.Add(p, t)
	return t, nil
}

// Purge drops parsed templates and the loader's path cache.
func (r *Renderer) Purge() {
	r.loader.Purge()
	r.parsed.Purge()
}

// Instance implements gin's render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, err := r.Template(name)
	if err != nil {
		return errorRender{err: err}
	}
	return render.HTML{Template: t, Name: t.Name(), Data: data}
}

// errorRender surfaces lookup failures through gin's error list.
type errorRender struct{ err error }

func (e errorRender) Render(http.ResponseWriter) error { return e.err }

func (e errorRender) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

var _ render.HTMLRender = (*Renderer)(nil)
