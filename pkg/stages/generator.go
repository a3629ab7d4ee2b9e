package stages

import (
	"sync"

	"github.com/abissens/elepages/pkg/pages"
)

// PageGenerator is a deferred page producer. Generators registered during
// the pipeline run are invoked by the driver once the final bundle index is
// known, so their pages can reflect the full post-pipeline state.
type PageGenerator interface {
	YieldPages(outIndex *pages.BundleIndex, env *pages.Env) ([]pages.Page, error)
}

// PageGeneratorBag is the per-run registry of deferred generators.
type PageGeneratorBag interface {
	Push(g PageGenerator) error
	All() []PageGenerator
}

type generatorBag struct {
	mu         sync.Mutex
	generators []PageGenerator
}

// NewPageGeneratorBag returns an empty mutex-guarded bag.
func NewPageGeneratorBag() PageGeneratorBag {
	return &generatorBag{}
}

func (b *generatorBag) Push(g PageGenerator) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generators = append(b.generators, g)
	return nil
}

func (b *generatorBag) All() []PageGenerator {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PageGenerator, len(b.generators))
	copy(out, b.generators)
	return out
}
