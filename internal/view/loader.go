// Package view resolves admin area template names to files and renders them.
//
// A name is looked up in the active theme first (<theme>/html/<name>) and then,
// when it carries a module segment (mod_<module>_<page>), in the module's own
// templates (<modules>/<Module>/html_<type>/<name>). Names ending in icon.svg fall
// back to the module's icon. Resolved paths are cached until Purge.
package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// ErrTemplateNotFound is returned when no search path holds the requested template.
var ErrTemplateNotFound = errors.New("template not found")

// NotFoundError lists the directories a failed lookup searched.
type NotFoundError struct {
	Name       string
	LookedInto []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to find template %q (looked into: %s)", e.Name, strings.Join(e.LookedInto, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrTemplateNotFound }

const defaultCacheSize = 512

// Options configures a Loader. All three paths are required.
type Options struct {
	ModulesDir string `validate:"required"`
	ThemeDir   string `validate:"required"`
	Type       string `validate:"required"`
	CacheSize  int    `validate:"min=0"`
}

// Loader maps template names onto files. It is safe for concurrent use.
type Loader struct {
	opts  Options
	paths *lru.Cache[string, string]
	log   zerolog.Logger
}

func NewLoader(opts Options, logger zerolog.Logger) (*Loader, error) {
	if err := validator.New().Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("view loader: missing %s option", verrs[0].Field())
		}
		return nil, fmt.Errorf("view loader: %w", err)
	}
	size := opts.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("view loader cache: %w", err)
	}
	l := logger.With().Str("module", "view").Str("component", "loader").Logger()
	return &Loader{opts: opts, paths: cache, log: l}, nil
}

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// NormalizeName converts backslashes to slashes and collapses repeated slashes.
func NormalizeName(name string) string {
	return repeatedSlashes.ReplaceAllString(strings.ReplaceAll(name, `\`, "/"), "/")
}

// SearchPaths returns the directories consulted for name, in order.
func (l *Loader) SearchPaths(name string) []string {
	paths := []string{filepath.Join(l.opts.ThemeDir, "html")}
	if parts := strings.Split(name, "_"); len(parts) > 1 {
		paths = append(paths, filepath.Join(l.opts.ModulesDir, upperFirst(parts[1]), "html_"+l.opts.Type))
	}
	return paths
}

// Find resolves name to a readable file path.
func (l *Loader) Find(name string) (string, error) {
	name = NormalizeName(name)
	if p, ok := l.paths.Get(name); ok {
		return p, nil
	}

	paths := l.SearchPaths(name)
	if strings.Contains(name, "..") {
		return "", &NotFoundError{Name: name, LookedInto: paths}
	}
	for _, dir := range paths {
		candidate := filepath.Join(dir, filepath.FromSlash(name))
		if isFile(candidate) {
			l.paths.Add(name, candidate)
			return candidate, nil
		}
		if strings.HasSuffix(name, "icon.svg") {
			icon := filepath.Join(filepath.Dir(dir), "icon.svg")
			if isFile(icon) {
				l.paths.Add(name, icon)
				return icon, nil
			}
		}
	}
	l.log.Debug().Str("template", name).Strs("looked_into", paths).Msg("template not found")
	return "", &NotFoundError{Name: name, LookedInto: paths}
}

// Purge drops every cached lookup.
func (l *Loader) Purge() {
	l.paths.Purge()
}

// WatchDirs lists the existing directories templates can be served from.
func (l *Loader) WatchDirs() []string {
	var dirs []string
	theme := filepath.Join(l.opts.ThemeDir, "html")
	if isDir(theme) {
		dirs = append(dirs, theme)
	}
	mods, _ := filepath.Glob(filepath.Join(l.opts.ModulesDir, "*", "html_"+l.opts.Type))
	for _, m := range mods {
		if isDir(m) {
			dirs = append(dirs, m)
		}
	}
	return dirs
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
