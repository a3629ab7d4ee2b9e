// Package maker interprets a declarative stage-tree configuration value
// into a runnable stage, resolving named stages and selectors through
// pluggable registries.
package maker

import (
	"fmt"
	"regexp"

	"github.com/abissens/elepages/pkg/config"
	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
	"github.com/abissens/elepages/pkg/stages"
)

// StageMaker builds a named stage from its configuration and the env.
type StageMaker interface {
	Make(cfg config.Value, env *pages.Env) (stages.Stage, error)
}

// SelectorMaker builds a named sub-set selector from its configuration.
type SelectorMaker interface {
	Make(cfg config.Value) (stages.SubSetSelector, error)
}

// Maker resolves stage-tree configuration values. The zero value is not
// usable; start from Default and extend the registries as needed.
type Maker struct {
	NamedStageMakers    map[string]StageMaker
	NamedSelectorMakers map[string]SelectorMaker
}

// Default returns a maker with the built-in stages (shadow, git_metadata,
// md, indexes, handlebars, path_generator) and selectors (prefix, regex,
// ext, path, tag, publishing).
func Default() *Maker {
	return &Maker{
		NamedStageMakers: map[string]StageMaker{
			"shadow":         stageMakerFunc(makeShadow),
			"git_metadata":   stageMakerFunc(makeGitMetadata),
			"md":             stageMakerFunc(makeMd),
			"indexes":        stageMakerFunc(makeIndexes),
			"handlebars":     stageMakerFunc(makeHandlebars),
			"path_generator": stageMakerFunc(makePathGenerator),
		},
		NamedSelectorMakers: map[string]SelectorMaker{
			"prefix":     selectorMakerFunc(makePrefixSelector),
			"regex":      selectorMakerFunc(makeRegexSelector),
			"ext":        selectorMakerFunc(makeExtSelector),
			"path":       selectorMakerFunc(makePathSubSetSelector),
			"tag":        selectorMakerFunc(makeTagSubSetSelector),
			"publishing": selectorMakerFunc(makePublishingSubSetSelector),
		},
	}
}

type stageMakerFunc func(cfg config.Value, env *pages.Env) (stages.Stage, error)

func (f stageMakerFunc) Make(cfg config.Value, env *pages.Env) (stages.Stage, error) {
	return f(cfg, env)
}

type selectorMakerFunc func(cfg config.Value) (stages.SubSetSelector, error)

func (f selectorMakerFunc) Make(cfg config.Value) (stages.SubSetSelector, error) {
	return f(cfg)
}

// Make builds the stage described by a configuration value.
func (m *Maker) Make(value config.Value, env *pages.Env) (stages.Stage, error) {
	switch v := config.Normalize(value).(type) {
	case string:
		return m.makeNamed(v, nil, env)
	case []config.Value:
		return m.makeSequence(v, env)
	case map[string]config.Value:
		return m.makeFromMap(v, env)
	default:
		return nil, errors.ValueParsing(fmt.Sprintf("invalid stage configuration of type %T", value))
	}
}

func (m *Maker) makeSequence(values []config.Value, env *pages.Env) (stages.Stage, error) {
	inner := make([]stages.Stage, 0, len(values))
	for _, value := range values {
		stage, err := m.Make(value, env)
		if err != nil {
			return nil, err
		}
		inner = append(inner, stage)
	}
	return &stages.SequenceStage{StageName: "sequence", Stages: inner}, nil
}

func (m *Maker) makeFromMap(v map[string]config.Value, env *pages.Env) (stages.Stage, error) {
	if raw, ok := v["union"]; ok {
		values, err := config.AsSlice(raw)
		if err != nil {
			return nil, err
		}
		inner := make([]stages.Stage, 0, len(values))
		for _, value := range values {
			stage, err := m.Make(value, env)
			if err != nil {
				return nil, err
			}
			inner = append(inner, stage)
		}
		return &stages.UnionStage{StageName: "union", Stages: inner}, nil
	}

	if raw, ok := v["compose"]; ok {
		return m.makeCompose(raw, env)
	}

	if rawName, ok := v["name"]; ok {
		label, err := config.AsString(rawName)
		if err != nil {
			return nil, err
		}
		inner, err := m.Make(v["stage"], env)
		if err != nil {
			return nil, err
		}
		return &renamedStage{label: label, inner: inner}, nil
	}

	if rawStage, ok := v["stage"]; ok {
		name, err := config.AsString(rawStage)
		if err != nil {
			return nil, err
		}
		return m.makeNamed(name, v["config"], env)
	}

	if raw, ok := v["copy"]; ok {
		return m.makeCopyCut(stages.ModeCopy, "copy", raw, v["dest"])
	}
	if raw, ok := v["move"]; ok {
		return m.makeCopyCut(stages.ModeMove, "move", raw, v["dest"])
	}
	if raw, ok := v["ignore"]; ok {
		selector, err := m.makeSelector(raw)
		if err != nil {
			return nil, err
		}
		return stages.NewIgnore("ignore", &stages.SelectorSubSet{Selector: selector}), nil
	}
	if raw, ok := v["append"]; ok {
		inner, err := m.Make(raw, env)
		if err != nil {
			return nil, err
		}
		return &stages.AppendStage{StageName: "append", Inner: inner}, nil
	}
	if raw, ok := v["replace"]; ok {
		selector, err := m.makeSelector(raw)
		if err != nil {
			return nil, err
		}
		inner, err := m.Make(v["by"], env)
		if err != nil {
			return nil, err
		}
		return &stages.ReplaceStage{StageName: "replace", Inner: inner, Selector: selector}, nil
	}

	return nil, errors.ValueParsing("unrecognised stage configuration shape")
}

func (m *Maker) makeCopyCut(mode stages.CopyCutMode, name string, rawSelector, rawDest config.Value) (stages.Stage, error) {
	selector, err := m.makeSelector(rawSelector)
	if err != nil {
		return nil, err
	}
	dest, err := config.AsString(rawDest)
	if err != nil {
		return nil, err
	}
	subSet := &stages.SelectorSubSet{Selector: selector}
	destPath := pages.NewPathSelector(dest).Query
	if mode == stages.ModeCopy {
		return stages.NewCopy(name, subSet, destPath), nil
	}
	return stages.NewMove(name, subSet, destPath), nil
}

func (m *Maker) makeCompose(raw config.Value, env *pages.Env) (stages.Stage, error) {
	values, err := config.AsSlice(raw)
	if err != nil {
		return nil, err
	}
	units := make([]*stages.ComposeUnit, 0, len(values))
	for _, value := range values {
		unit, err := m.makeComposeUnit(value, env)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return &stages.ComposeStage{StageName: "compose", Units: units, Parallel: true}, nil
}

// makeComposeUnit accepts a bare stage value (CreateNewSet) or a map with
// `inner` and `selector`, where the selector is either a `[name, config]`
// pair or a single-entry `{name: config}` map.
func (m *Maker) makeComposeUnit(value config.Value, env *pages.Env) (*stages.ComposeUnit, error) {
	if doc, ok := config.Normalize(value).(map[string]config.Value); ok {
		if rawInner, isReplace := doc["inner"]; isReplace {
			selector, err := m.makeNamedSelector(doc["selector"])
			if err != nil {
				return nil, err
			}
			inner, err := m.Make(rawInner, env)
			if err != nil {
				return nil, err
			}
			return stages.ReplaceSubSet(selector, inner), nil
		}
	}
	inner, err := m.Make(value, env)
	if err != nil {
		return nil, err
	}
	return stages.CreateNewSet(inner), nil
}

func (m *Maker) makeNamedSelector(value config.Value) (stages.SubSetSelector, error) {
	var name string
	var cfg config.Value
	switch v := config.Normalize(value).(type) {
	case []config.Value:
		if len(v) != 2 {
			return nil, errors.ValueParsing("selector pair requires [name, config]")
		}
		n, err := config.AsString(v[0])
		if err != nil {
			return nil, err
		}
		name, cfg = n, v[1]
	case map[string]config.Value:
		if len(v) != 1 {
			return nil, errors.ValueParsing("selector map requires a single entry")
		}
		for k, e := range v {
			name, cfg = k, e
		}
	default:
		return nil, errors.ValueParsing(fmt.Sprintf("invalid selector configuration of type %T", value))
	}

	selectorMaker, ok := m.NamedSelectorMakers[name]
	if !ok {
		return nil, errors.ElementNotFound(fmt.Sprintf("selector %s", name))
	}
	return selectorMaker.Make(cfg)
}

func (m *Maker) makeNamed(name string, cfg config.Value, env *pages.Env) (stages.Stage, error) {
	stageMaker, ok := m.NamedStageMakers[name]
	if !ok {
		return nil, errors.ElementNotFound(fmt.Sprintf("stage %s", name))
	}
	return stageMaker.Make(cfg, env)
}

// renamedStage wraps an inner stage, overriding its display name.
type renamedStage struct {
	label string
	inner stages.Stage
}

func (s *renamedStage) Name() string { return s.label }

func (s *renamedStage) Process(bundle pages.PageBundle, env *pages.Env, bag stages.PageGeneratorBag) (pages.PageBundle, *stages.ProcessingResult, error) {
	out, result, err := s.inner.Process(bundle, env, bag)
	if err != nil {
		return nil, nil, err
	}
	result.StageName = s.label
	return out, result, nil
}

func makeShadow(_ config.Value, _ *pages.Env) (stages.Stage, error) {
	return stages.NewShadowStage("shadow"), nil
}

func makeGitMetadata(_ config.Value, env *pages.Env) (stages.Stage, error) {
	rootPath, err := env.GetString(pages.EnvRootPath)
	if err != nil {
		return nil, err
	}
	return &stages.GitMetadataStage{StageName: "git_metadata", RepoPath: rootPath}, nil
}

func makeMd(_ config.Value, _ *pages.Env) (stages.Stage, error) {
	return &stages.MdStage{StageName: "md"}, nil
}

func makeIndexes(_ config.Value, _ *pages.Env) (stages.Stage, error) {
	return &stages.IndexStage{StageName: "indexes"}, nil
}

func makeHandlebars(cfg config.Value, env *pages.Env) (stages.Stage, error) {
	switch v := config.Normalize(cfg).(type) {
	case string:
		return &stages.HbsStage{StageName: "handlebars", TplPath: v}, nil
	case map[string]config.Value:
		tplPath, err := config.AsString(v["path"])
		if err != nil {
			return nil, err
		}
		return &stages.HbsStage{StageName: "handlebars", TplPath: tplPath}, nil
	}
	rootPath, err := env.GetString(pages.EnvRootPath)
	if err != nil {
		return nil, err
	}
	return &stages.HbsStage{StageName: "handlebars", TplPath: rootPath}, nil
}

func makePathGenerator(_ config.Value, _ *pages.Env) (stages.Stage, error) {
	return &stages.PathGeneratorStage{StageName: "path_generator"}, nil
}

func makePrefixSelector(cfg config.Value) (stages.SubSetSelector, error) {
	prefix, err := config.AsString(cfg)
	if err != nil {
		return nil, err
	}
	return stages.NewPrefixSelector(prefix), nil
}

func makeRegexSelector(cfg config.Value) (stages.SubSetSelector, error) {
	expr, err := config.AsString(cfg)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.WrapValueParsing(err, "invalid selector regex")
	}
	return &stages.RegexSelector{Regex: re}, nil
}

func makeExtSelector(cfg config.Value) (stages.SubSetSelector, error) {
	ext, err := config.AsString(cfg)
	if err != nil {
		return nil, err
	}
	return &stages.SelectorSubSet{Selector: &pages.ExtSelector{Ext: ext}}, nil
}

func makePathSubSetSelector(cfg config.Value) (stages.SubSetSelector, error) {
	path, err := config.AsString(cfg)
	if err != nil {
		return nil, err
	}
	return &stages.SelectorSubSet{Selector: pages.NewPathSelector(path)}, nil
}

func makeTagSubSetSelector(cfg config.Value) (stages.SubSetSelector, error) {
	tag, err := config.AsString(cfg)
	if err != nil {
		return nil, err
	}
	return &stages.SelectorSubSet{Selector: &pages.TagSelector{Tag: tag}}, nil
}

func makePublishingSubSetSelector(cfg config.Value) (stages.SubSetSelector, error) {
	query, err := pages.ParseDateQuery(cfg)
	if err != nil {
		return nil, err
	}
	return &stages.SelectorSubSet{Selector: &pages.PublishingDateSelector{Query: query}}, nil
}
