// Package scaffold creates new cart projects on disk from a named template.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/go-hclog"

	"github.com/cartdark/cartkit/pkg/cart"
	cerrors "github.com/cartdark/cartkit/pkg/cart/errors"
	"github.com/cartdark/cartkit/pkg/cart/schema"
	"github.com/cartdark/cartkit/pkg/logging"
	"github.com/cartdark/cartkit/pkg/utils/permissions"
)

var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileOptions controls the optional files and the modes of created entries.
// Zero modes fall back to the permissions package defaults.
type FileOptions struct {
	Readme     bool
	IgnoreFile bool
	FileMode   os.FileMode
	DirMode    os.FileMode
}

// DefaultFileOptions writes both optional files with default modes.
func DefaultFileOptions() FileOptions {
	return FileOptions{
		Readme:     true,
		IgnoreFile: true,
		FileMode:   permissions.FileMode(permissions.DefaultFilePerms),
		DirMode:    permissions.FileMode(permissions.DefaultDirPerms),
	}
}

// Scaffolder creates projects.
type Scaffolder struct {
	logger hclog.Logger
}

// New returns a Scaffolder. A nil logger discards output.
func New(logger hclog.Logger) *Scaffolder {
	return &Scaffolder{logger: logging.OrNull(logger)}
}

// Create creates a project with a silent Scaffolder.
func Create(templateID, projectName, parentDir string, display schema.Display, files FileOptions) (string, error) {
	return New(nil).Create(templateID, projectName, parentDir, display, files)
}

// Create materializes parentDir/projectName from the template and returns
// the project root. Zero display fields take their defaults. Every failure is
// an *Error; a filesystem failure part way through leaves what was already
// created on disk.
func (s *Scaffolder) Create(templateID, projectName, parentDir string, display schema.Display, files FileOptions) (string, error) {
	root := filepath.Join(parentDir, projectName)

	if !projectNamePattern.MatchString(projectName) {
		return "", &Error{Root: root, Kind: cerrors.ErrInvalidOptions,
			Err: fmt.Errorf("project name %q must match %s", projectName, projectNamePattern)}
	}

	if _, err := os.Lstat(root); err == nil {
		return "", &Error{Root: root, Kind: cerrors.ErrAlreadyExists}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", &Error{Root: root, Kind: cerrors.ErrFilesystem, Err: err}
	}

	bp, ok := lookupBlueprint(templateID)
	if !ok {
		return "", &Error{Root: root, Kind: cerrors.ErrUnknownTemplate, Err: fmt.Errorf("template %q", templateID)}
	}

	display = withDisplayDefaults(display)
	if err := display.Validate(); err != nil {
		return "", &Error{Root: root, Kind: cerrors.ErrInvalidOptions, Err: err}
	}

	s.logger.Info("🏗️ Creating project", "template", bp.id, "name", projectName, "root", root)
	if err := s.build(bp, projectName, root, display, files); err != nil {
		s.logger.Error("❌ Project creation failed", "root", root, "error", err)
		return "", &Error{Root: root, Kind: cerrors.ErrFilesystem, Err: err}
	}
	s.logger.Info("✅ Project created", "root", root)

	return cart.NewPaths(root).Root(), nil
}

// build runs the creation steps shared by every template.
func (s *Scaffolder) build(bp blueprint, name, root string, display schema.Display, files FileOptions) error {
	w := fileWriter{
		paths:    cart.NewPaths(root),
		fileMode: orMode(files.FileMode, permissions.DefaultFilePerms),
		dirMode:  orMode(files.DirMode, permissions.DefaultDirPerms),
		logger:   s.logger,
	}

	projectID, err := schema.NewProjectID()
	if err != nil {
		return err
	}
	cartID, err := schema.NewCartID()
	if err != nil {
		return err
	}

	if err := w.mkdirs(bp.dirs...); err != nil {
		return err
	}

	desc := schema.NewDescriptor(name, bp.id, projectID)
	desc.Display = display
	if bp.bootstrap != nil {
		desc.Bootstrap = bp.bootstrap()
	}
	if err := w.writeDescriptor(desc); err != nil {
		return err
	}
	s.logger.Debug("📄 Wrote descriptor", "project_id", projectID)

	manifest := schema.NewManifest(name, cartID, bp.entry, bp.chunks()...)
	if err := w.writeManifest(manifest); err != nil {
		return err
	}
	s.logger.Debug("📦 Wrote manifest", "cart_id", cartID, "chunks", len(manifest.Chunks))

	if bp.seeds != nil {
		seeds, err := bp.seeds(name, desc.Bootstrap)
		if err != nil {
			return err
		}
		for _, seed := range seeds {
			if err := w.writeText(seed.rel, seed.content); err != nil {
				return err
			}
		}
	}

	return w.writeCommon(name, files)
}

func withDisplayDefaults(d schema.Display) schema.Display {
	def := schema.DefaultDisplay()
	if d.Width == 0 {
		d.Width = def.Width
	}
	if d.Height == 0 {
		d.Height = def.Height
	}
	if d.PixelFormat == "" {
		d.PixelFormat = def.PixelFormat
	}
	return d
}

func orMode(mode os.FileMode, fallback uint16) os.FileMode {
	if mode == 0 {
		return permissions.FileMode(fallback)
	}
	return mode
}
