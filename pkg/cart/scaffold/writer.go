package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/cartdark/cartkit/pkg/cart"
	"github.com/cartdark/cartkit/pkg/cart/schema"
)

// fileWriter writes project files below one root. Every template uses it by
// value; it knows nothing about any particular template.
type fileWriter struct {
	paths    *cart.Paths
	fileMode os.FileMode
	dirMode  os.FileMode
	logger   hclog.Logger
}

func (w fileWriter) mkdirs(rels ...string) error {
	if err := os.MkdirAll(w.paths.Root(), w.dirMode); err != nil {
		return err
	}
	for _, rel := range rels {
		if err := os.MkdirAll(w.paths.Abs(rel), w.dirMode); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", rel, err)
		}
	}
	return nil
}

func (w fileWriter) write(path string, data []byte) error {
	if err := os.WriteFile(path, data, w.fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	w.logger.Trace("✍️ Wrote file", "path", path, "size", len(data))
	return nil
}

func (w fileWriter) writeText(rel, content string) error {
	return w.write(w.paths.Abs(rel), []byte(content))
}

func (w fileWriter) writeDescriptor(d *schema.Descriptor) error {
	data, err := schema.EncodeDescriptor(d)
	if err != nil {
		return err
	}
	return w.write(w.paths.Descriptor(d.Name), data)
}

func (w fileWriter) writeManifest(m *schema.Manifest) error {
	data, err := schema.EncodeManifest(m)
	if err != nil {
		return err
	}
	return w.write(w.paths.Manifest(), data)
}

// writeCommon writes the README and ignore file when opts ask for them.
func (w fileWriter) writeCommon(name string, opts FileOptions) error {
	if opts.Readme {
		readme, err := render(readmeTemplate, name)
		if err != nil {
			return err
		}
		if err := w.write(w.paths.Readme(), []byte(readme)); err != nil {
			return err
		}
	}
	if opts.IgnoreFile {
		if err := w.write(w.paths.IgnoreFile(), []byte(ignoreFileText)); err != nil {
			return err
		}
	}
	return nil
}
