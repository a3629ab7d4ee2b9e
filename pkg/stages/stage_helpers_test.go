package stages

import (
	"time"

	"github.com/abissens/elepages/pkg/pages"
	"github.com/abissens/elepages/pkg/pages/pagetest"
)

// emitStage ignores its input and emits fixed pages.
type emitStage struct {
	name  string
	pages []pages.Page
	err   error
	delay time.Duration
}

func (s *emitStage) Name() string { return s.name }

func (s *emitStage) Process(_ pages.PageBundle, _ *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, nil, s.err
	}
	start := time.Now()
	return pages.NewBundle(s.pages...), &ProcessingResult{StageName: s.name, Start: start, End: time.Now()}, nil
}

// prefixStage relocates every input page under a prefix segment.
type prefixStage struct {
	name   string
	prefix string
}

func (s *prefixStage) Name() string { return s.name }

func (s *prefixStage) Process(bundle pages.PageBundle, _ *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	result := &pages.VecBundle{}
	for _, p := range bundle.Pages() {
		result.P = append(result.P, pages.ChangePath(p, append([]string{s.prefix}, p.Path()...)))
	}
	return result, &ProcessingResult{StageName: s.name, Start: start, End: time.Now()}, nil
}

// identityStage passes its input through.
type identityStage struct {
	name string
}

func (s *identityStage) Name() string { return s.name }

func (s *identityStage) Process(bundle pages.PageBundle, _ *pages.Env, _ PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	return bundle, &ProcessingResult{StageName: s.name, Start: start, End: time.Now()}, nil
}

func testBundle(paths ...string) pages.PageBundle {
	b := &pages.VecBundle{}
	for _, path := range paths {
		b.P = append(b.P, pagetest.New(path))
	}
	return b
}

func testEnv() *pages.Env { return pages.NewEnv() }
