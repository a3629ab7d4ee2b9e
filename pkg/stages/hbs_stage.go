package stages

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abissens/elepages/internal/util/sets"
	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
)

// HbsStage builds a template model from a template directory, binds every
// input page to its template, and registers the model as a deferred page
// generator so static and template-driven assets materialise against the
// final bundle index.
//
// Pages with no matching template are dropped unless their metadata marks
// them raw (`data.isRaw: true`).
type HbsStage struct {
	StageName string
	TplPath   string
}

func (s *HbsStage) Name() string { return s.StageName }

func (s *HbsStage) Process(bundle pages.PageBundle, env *pages.Env, bag PageGeneratorBag) (pages.PageBundle, *ProcessingResult, error) {
	start := time.Now()
	env.PrintVV("stage "+s.StageName, "handlebars processing started")

	model, err := s.makeTplModel()
	if err != nil {
		return nil, nil, err
	}
	if err := bag.Push(model); err != nil {
		return nil, nil, err
	}

	result := &pages.VecBundle{}
	for _, page := range bundle.Pages() {
		if bound := model.Fetch(page); bound != nil {
			result.P = append(result.P, bound)
			continue
		}
		if page.Metadata().DataBool("isRaw") {
			result.P = append(result.P, page)
		}
	}

	env.PrintVV("stage "+s.StageName, "handlebars processing ended")
	return result, &ProcessingResult{
		StageName: s.StageName,
		Start:     start,
		End:       time.Now(),
	}, nil
}

// makeTplModel scans the template directory: `page.hbs` and `page.<name>.hbs`
// files become page templates, `asset.<name>.hbs` files become template assets (with their
// optional `.yaml` sidecar), other `.hbs` files become partials and
// everything else becomes a static asset. Hidden entries are skipped.
func (s *HbsStage) makeTplModel() (*TplModel, error) {
	model := &TplModel{
		Registry:      NewTplRegistry(),
		PagesTplNames: sets.New[string](),
	}

	err := visitDir(s.TplPath, func(entryPath string) error {
		rel, err := filepath.Rel(s.TplPath, entryPath)
		if err != nil {
			return errors.WrapIO(err, "template path outside template root")
		}
		relSlash := filepath.ToSlash(rel)
		name := filepath.Base(entryPath)

		switch {
		case strings.HasSuffix(name, ".hbs.yaml"):
			// Asset sidecars are consumed with their template.
			return nil
		case strings.HasPrefix(name, "page.") && strings.HasSuffix(name, ".hbs"):
			tplName := strings.TrimSuffix(relSlash, ".hbs")
			if err := s.registerFile(model, tplName, entryPath); err != nil {
				return err
			}
			model.PagesTplNames.Add(tplName)
		case strings.HasPrefix(name, "asset.") && strings.HasSuffix(name, ".hbs") && len(name) > len("asset.")+len(".hbs"):
			assetName := name[len("asset.") : len(name)-len(".hbs")]
			assetPath := strings.Split(relSlash, "/")
			assetPath[len(assetPath)-1] = assetName
			tplName := strings.Join(assetPath, "/")
			if err := s.registerFile(model, tplName, entryPath); err != nil {
				return err
			}
			asset := &TplAsset{Kind: AssetTpl, AssetPath: assetPath, TplName: tplName}
			if sidecar, err := os.ReadFile(entryPath + ".yaml"); err == nil {
				metadata, err := ParseTplAssetMetadata(sidecar)
				if err != nil {
					return err
				}
				asset.Metadata = metadata
			}
			model.Assets = append(model.Assets, asset)
		case strings.HasSuffix(name, ".hbs"):
			tplName := strings.TrimSuffix(relSlash, ".hbs")
			if err := s.registerFile(model, tplName, entryPath); err != nil {
				return err
			}
		default:
			model.Assets = append(model.Assets, &TplAsset{
				Kind:     AssetStatic,
				BasePath: s.TplPath,
				FilePath: entryPath,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	model.Registry.LinkPartials()
	return model, nil
}

func (s *HbsStage) registerFile(model *TplModel, tplName, filePath string) error {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return errors.WrapIO(err, "read template file")
	}
	return model.Registry.Register(tplName, string(source))
}

// visitDir walks dir recursively in name order, skipping hidden entries,
// and calls visit for every file.
func visitDir(dir string, visit func(entryPath string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.WrapIO(err, "read template directory")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		entryPath := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := visitDir(entryPath, visit); err != nil {
				return err
			}
			continue
		}
		if err := visit(entryPath); err != nil {
			return err
		}
	}
	return nil
}
