package scaffold

import (
	"path"
	"strings"

	"github.com/cartdark/cartkit/pkg/cart/schema"
)

// Template identifiers.
const (
	TemplateMinimal          = "minimal"
	TemplateLayeredBootstrap = "layered-bootstrap"
)

// templateAliases maps identifiers used by older IDE builds.
var templateAliases = map[string]string{
	"blank":       TemplateMinimal,
	"cartdark_os": TemplateLayeredBootstrap,
}

// seedFile is a template-specific file written after the descriptor and
// manifest.
type seedFile struct {
	rel     string
	content string
}

// blueprint is everything that differs between templates. The shared
// creation steps live in Scaffolder.build.
type blueprint struct {
	id        string
	dirs      []string
	entry     string
	chunks    func() []schema.Chunk
	bootstrap func() *schema.Bootstrap
	seeds     func(name string, b *schema.Bootstrap) ([]seedFile, error)
}

var blueprints = map[string]blueprint{
	TemplateMinimal:          minimalBlueprint(),
	TemplateLayeredBootstrap: layeredBootstrapBlueprint(),
}

// Templates lists the canonical template identifiers.
func Templates() []string {
	return []string{TemplateMinimal, TemplateLayeredBootstrap}
}

func lookupBlueprint(id string) (blueprint, bool) {
	if canonical, ok := templateAliases[id]; ok {
		id = canonical
	}
	bp, ok := blueprints[id]
	return bp, ok
}

func minimalBlueprint() blueprint {
	return blueprint{
		id:    TemplateMinimal,
		dirs:  []string{schema.ResourceDir},
		entry: schema.DefaultEntryPath,
		chunks: func() []schema.Chunk {
			return []schema.Chunk{
				schema.NewManifestChunk(schema.InlineMetaSource, schema.ManifestOutputName),
				schema.NewCodeChunk("script/**/*.lua", "main/", "script/", schema.ExcludeDSStore),
				schema.CanonicalResourceChunk(),
			}
		},
	}
}

func layeredBootstrapBlueprint() blueprint {
	return blueprint{
		id:    TemplateLayeredBootstrap,
		dirs:  []string{"board", "input", "main", schema.ResourceDir, "script"},
		entry: strings.TrimPrefix(schema.DefaultLayer0Path, "/"),
		chunks: func() []schema.Chunk {
			return []schema.Chunk{
				schema.NewManifestChunk(schema.InlineMetaSource, schema.ManifestOutputName),
				schema.NewResourceChunk("main/**/*", "main/", "main/", schema.ExcludeDSStore),
				schema.NewResourceChunk("input/**/*", "input/", "input/", schema.ExcludeDSStore),
				schema.CanonicalResourceChunk(),
			}
		},
		bootstrap: schema.DefaultBootstrap,
		seeds:     layeredSeeds,
	}
}

// layeredSeeds writes the input binding and pin map stubs plus one empty
// collection per bootstrap layer.
func layeredSeeds(name string, b *schema.Bootstrap) ([]seedFile, error) {
	binding, err := render(inputBindingTemplate, name)
	if err != nil {
		return nil, err
	}
	seeds := []seedFile{
		{rel: "input/game.input_binding", content: binding},
		{rel: "board/pins.json", content: pinsText},
	}

	for _, layer := range b.Layers {
		rel := strings.TrimPrefix(layer.CollectionPath, "/")
		layerName := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		collection, err := render(collectionTemplate, layerName)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seedFile{rel: rel, content: collection})
	}
	return seeds, nil
}
