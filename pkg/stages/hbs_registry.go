package stages

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
	"github.com/mailgun/raymond/v2"
)

// TplRegistry is the core's surface over the handlebars engine: named
// templates, cross-registered as partials so any template can include any
// other.
type TplRegistry struct {
	templates map[string]*raymond.Template
}

// NewTplRegistry returns an empty registry; it also makes sure the global
// pipeline helpers are registered.
func NewTplRegistry() *TplRegistry {
	registerHelpers()
	return &TplRegistry{templates: map[string]*raymond.Template{}}
}

// Register parses source and stores it under name.
func (r *TplRegistry) Register(name, source string) error {
	tpl, err := raymond.Parse(source)
	if err != nil {
		return errors.WrapRender(err, fmt.Sprintf("parse template %s", name))
	}
	r.templates[name] = tpl
	return nil
}

// Has reports whether a template with the given name is registered.
func (r *TplRegistry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// LinkPartials registers every template as a partial of every other, so
// `{{> header}}` style inclusion works across the whole directory. Called
// once after discovery.
func (r *TplRegistry) LinkPartials() {
	for name, tpl := range r.templates {
		for otherName, other := range r.templates {
			if name != otherName {
				tpl.RegisterPartialTemplate(otherName, other)
			}
		}
	}
}

// Render executes a named template against ctx.
func (r *TplRegistry) Render(name string, ctx any) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", errors.ElementNotFound(name)
	}
	out, err := tpl.Exec(ctx)
	if err != nil {
		return "", errors.WrapRender(err, fmt.Sprintf("render template %s", name))
	}
	return out, nil
}

// RenderString executes a one-off template string (path patterns) against
// ctx.
func RenderString(pattern string, ctx any) (string, error) {
	registerHelpers()
	tpl, err := raymond.Parse(pattern)
	if err != nil {
		return "", errors.WrapRender(err, "parse template string")
	}
	out, err := tpl.Exec(ctx)
	if err != nil {
		return "", errors.WrapRender(err, "render template string")
	}
	return out, nil
}

// jsonCtx round-trips a value through JSON so template contexts expose the
// serialized snake_case key shape rather than Go field names.
func jsonCtx(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// indexRefKey is the hidden context key carrying the live-index handle that
// helpers use to run queries against the typed bundle index.
const indexRefKey = "__index_ref"

type liveIndexRegistry struct {
	mu      sync.Mutex
	seq     uint64
	entries map[string]*pages.BundleIndex
}

var liveIndexes = &liveIndexRegistry{entries: map[string]*pages.BundleIndex{}}

func (r *liveIndexRegistry) register(idx *pages.BundleIndex) (string, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("idx-%d", r.seq)
	r.entries[id] = idx
	return id, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.entries, id)
	}
}

func (r *liveIndexRegistry) lookup(id string) *pages.BundleIndex {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id]
}

// indexCtx projects a bundle index for a template context: the serialized
// map plus the hidden handle for query helpers.
func indexCtx(idx *pages.BundleIndex, ref string) any {
	ctx, ok := jsonCtx(idx).(map[string]any)
	if !ok {
		ctx = map[string]any{}
	}
	ctx[indexRefKey] = ref
	return ctx
}
