// Package loader reads project descriptors from disk, upgrading older
// shapes in memory.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/cartdark/cartkit/pkg/cart"
	cerrors "github.com/cartdark/cartkit/pkg/cart/errors"
	"github.com/cartdark/cartkit/pkg/cart/schema"
	"github.com/cartdark/cartkit/pkg/logging"
)

// legacyCollectionKeys are the single-collection fields written before
// bootstrap sections carried a layer list, newest first.
var legacyCollectionKeys = []string{"main_collection", "collection"}

// Loader loads descriptors and logs what it did.
type Loader struct {
	logger hclog.Logger
}

// New returns a Loader. A nil logger discards output.
func New(logger hclog.Logger) *Loader {
	return &Loader{logger: logging.OrNull(logger)}
}

// Load reads the descriptor at path with a silent Loader.
func Load(path string) (*schema.Descriptor, error) {
	return New(nil).Load(path)
}

// LocateDescriptor finds the descriptor in projectRoot with a silent Loader.
func LocateDescriptor(projectRoot string) (string, error) {
	return New(nil).LocateDescriptor(projectRoot)
}

// Load reads, upgrades and validates the descriptor at path. Unknown
// top-level fields are dropped. Every failure is a *LoadError.
func (l *Loader) Load(path string) (*schema.Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(path, cerrors.ErrDescriptorMissing, nil)
		}
		return nil, newLoadError(path, cerrors.ErrDescriptorUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return nil, newLoadError(path, cerrors.ErrDescriptorMissing, fmt.Errorf("not a regular file"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newLoadError(path, cerrors.ErrDescriptorUnreadable, err)
	}
	l.logger.Debug("📄 Read descriptor", "path", path, "size", len(data))

	if !json.Valid(data) {
		var scratch any
		cause := json.Unmarshal(data, &scratch)
		return nil, newLoadError(path, cerrors.ErrDescriptorSyntax, cause)
	}

	top, err := objectSections(data)
	if err != nil {
		return nil, newLoadError(path, cerrors.ErrDescriptorMalformed, err)
	}

	desc, err := schema.DecodeDescriptor(data)
	if err != nil {
		return nil, newLoadError(path, cerrors.ErrDescriptorMalformed, err)
	}

	if desc.Name == "" {
		desc.Name = filepath.Base(filepath.Dir(path))
	}

	if raw, ok := top["bootstrap"]; ok && desc.Bootstrap != nil {
		upgraded, err := upgradeBootstrap(desc.Bootstrap, raw)
		if err != nil {
			return nil, newLoadError(path, cerrors.ErrDescriptorMalformed, err)
		}
		if upgraded {
			l.logger.Info("⬆️ Upgraded legacy bootstrap section", "path", path, "layers", len(desc.Bootstrap.Layers))
		}
	}

	if err := desc.Validate(); err != nil {
		return nil, newLoadError(path, cerrors.ErrDescriptorMalformed, err)
	}

	l.logger.Debug("✅ Descriptor loaded", "name", desc.Name, "template", desc.TemplateID)
	return desc, nil
}

// LocateDescriptor returns the single *.cart file directly inside
// projectRoot. Zero or several candidates is an error; it never picks one.
func (l *Loader) LocateDescriptor(projectRoot string) (string, error) {
	if !cart.IsDir(projectRoot) {
		return "", newLoadError(projectRoot, cerrors.ErrNotADirectory, nil)
	}

	entries, err := os.ReadDir(projectRoot)
	if err != nil {
		return "", newLoadError(projectRoot, cerrors.ErrDescriptorUnreadable, err)
	}

	var candidates []string
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), schema.DescriptorExtension) {
			continue
		}
		if cart.IsFile(filepath.Join(projectRoot, entry.Name())) {
			candidates = append(candidates, entry.Name())
		}
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 0:
		return "", newLoadError(projectRoot, cerrors.ErrDescriptorNotFound, nil)
	case 1:
		path := filepath.Join(projectRoot, candidates[0])
		l.logger.Debug("🔍 Located descriptor", "path", path)
		return path, nil
	default:
		l.logger.Warn("⚠️ Ambiguous project root", "root", projectRoot, "candidates", candidates)
		e := newLoadError(projectRoot, cerrors.ErrDescriptorAmbiguous, nil)
		e.Candidates = candidates
		return "", e
	}
}

// objectSections checks that the document is an object whose known sections
// are objects (or null), and returns its top-level members.
func objectSections(data []byte) (map[string]json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, fmt.Errorf("top level must be an object")
	}
	for _, key := range []string{"project", "display", "bootstrap"} {
		raw, ok := top[key]
		if !ok || isNull(raw) {
			continue
		}
		if !isObject(raw) {
			return nil, fmt.Errorf("%s must be an object", key)
		}
	}
	return top, nil
}

// upgradeBootstrap synthesizes the two-layer stack for sections written
// before "layers" existed. Layer 0 takes the legacy single collection path;
// layer 1 always takes the default. The file on disk is not touched.
func upgradeBootstrap(b *schema.Bootstrap, raw json.RawMessage) (bool, error) {
	var section map[string]json.RawMessage
	if err := json.Unmarshal(raw, &section); err != nil {
		return false, err
	}
	if layers, ok := section["layers"]; ok && !isNull(layers) {
		return false, nil
	}

	first := schema.DefaultLayer0Path
	for _, key := range legacyCollectionKeys {
		var legacy string
		if v, ok := section[key]; ok && json.Unmarshal(v, &legacy) == nil && legacy != "" {
			first = legacy
			break
		}
	}
	if !strings.HasPrefix(first, "/") {
		first = "/" + first
	}

	b.Layers = schema.DefaultLayers()
	b.Layers[0].CollectionPath = first
	return true, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
