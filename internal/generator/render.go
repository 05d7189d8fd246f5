package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer parses and executes templates, caching parsed templates by source.
// It is safe for concurrent use.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with the built-in helper functions.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderFS renders a template read from fsys (usually an embed.FS).
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) ([]byte, error) {
	tmpl, err := r.load("fs:"+path, path, func() ([]byte, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return r.execute(tmpl, data)
}

// RenderFile renders a template from disk (user supplied overrides).
func (r *Renderer) RenderFile(path string, data any) ([]byte, error) {
	tmpl, err := r.load("file:"+path, path, func() ([]byte, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file '%s': %w", path, err)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return r.execute(tmpl, data)
}

func (r *Renderer) load(cacheKey, name string, read func() ([]byte, error)) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[cacheKey]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	src, err := read()
	if err != nil {
		return nil, err
	}
	tmpl, err = template.New(name).Funcs(r.funcMap).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	r.mu.Lock()
	r.cache[cacheKey] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func (r *Renderer) execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"quote":     Quote,     // welcome.msg → "welcome.msg"
		"snakeCase": SnakeCase, // TextKeys → text_keys
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"join":      strings.Join,
	}
}

// Quote renders s as a Go string literal.
func Quote(s string) string {
	return strconv.Quote(s)
}

// SnakeCase converts PascalCase or camelCase to snake_case, keeping acronyms
// together: TextKeys → text_keys, HTTPErrorKeys → http_error_keys.
func SnakeCase(s string) string {
	if strings.Contains(s, "_") {
		return strings.ToLower(s)
	}

	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
