// Package pkg is the entry point used by editors and the cartkit CLI: it
// opens, creates and checks cart projects.
package pkg

import (
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/cartdark/cartkit/pkg/cart"
	"github.com/cartdark/cartkit/pkg/cart/loader"
	"github.com/cartdark/cartkit/pkg/cart/packsync"
	"github.com/cartdark/cartkit/pkg/cart/scaffold"
	"github.com/cartdark/cartkit/pkg/cart/schema"
	"github.com/cartdark/cartkit/pkg/logging"
)

// Project is an opened project.
type Project struct {
	Root           string
	DescriptorPath string
	Descriptor     *schema.Descriptor
}

// Paths returns the well-known paths of the project.
func (p *Project) Paths() *cart.Paths {
	return cart.NewPaths(p.Root)
}

// OpenProject locates the single descriptor in root and loads it.
func OpenProject(root string) (*Project, error) {
	return OpenProjectWithLogger(root, nil)
}

func OpenProjectWithLogger(root string, logger hclog.Logger) (*Project, error) {
	l := loader.New(logger)
	path, err := l.LocateDescriptor(root)
	if err != nil {
		return nil, err
	}
	return openDescriptor(l, path)
}

// OpenProjectFromDescriptor loads the descriptor at path; the project root
// is its directory.
func OpenProjectFromDescriptor(path string) (*Project, error) {
	return OpenProjectFromDescriptorWithLogger(path, nil)
}

func OpenProjectFromDescriptorWithLogger(path string, logger hclog.Logger) (*Project, error) {
	return openDescriptor(loader.New(logger), path)
}

func openDescriptor(l *loader.Loader, path string) (*Project, error) {
	desc, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Project{
		Root:           filepath.Dir(path),
		DescriptorPath: path,
		Descriptor:     desc,
	}, nil
}

// CreateProject scaffolds a project and opens it.
func CreateProject(templateID, name, parentDir string, display schema.Display, files scaffold.FileOptions, logger hclog.Logger) (*Project, error) {
	root, err := scaffold.New(logger).Create(templateID, name, parentDir, display, files)
	if err != nil {
		return nil, err
	}
	return OpenProjectWithLogger(root, logger)
}

// NewSynchronizer returns the manifest synchronizer for project events.
func NewSynchronizer(logger hclog.Logger) *packsync.Synchronizer {
	return packsync.New(logger)
}

// DefaultLogger builds the package logger from the environment.
func DefaultLogger(name string) hclog.Logger {
	return logging.NewLogger(name, logging.GetLogLevel(), nil)
}
