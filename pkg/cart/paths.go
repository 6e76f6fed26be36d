// Package cart holds helpers shared by the cart project packages.
package cart

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cartdark/cartkit/pkg/cart/schema"
)

// Paths resolves the well-known files of one project root.
type Paths struct {
	root string
}

// NewPaths returns Paths for root, made absolute when possible.
func NewPaths(root string) *Paths {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Paths{root: filepath.Clean(root)}
}

// ==================== Project Files ====================

// Root returns the absolute project root.
func (p *Paths) Root() string {
	return p.root
}

// Manifest returns the pack.json path.
func (p *Paths) Manifest() string {
	return filepath.Join(p.root, schema.ManifestFileName)
}

// Descriptor returns the descriptor path for a project called name.
func (p *Paths) Descriptor(name string) string {
	return filepath.Join(p.root, name+schema.DescriptorExtension)
}

// ResourceDir returns the resource subtree root.
func (p *Paths) ResourceDir() string {
	return filepath.Join(p.root, schema.ResourceDir)
}

func (p *Paths) Readme() string {
	return filepath.Join(p.root, "README.md")
}

func (p *Paths) IgnoreFile() string {
	return filepath.Join(p.root, ".gitignore")
}

// ==================== Conversion ====================

// Rel converts path to a project-root-relative path with forward slashes.
// Paths outside the root come back with leading "../" segments.
func (p *Paths) Rel(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(p.root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Abs resolves a project-root-relative, slash-separated path.
func (p *Paths) Abs(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}

// InResourceTree reports whether path lies strictly below the resource
// directory. The directory itself is not inside.
func (p *Paths) InResourceTree(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(abs, p.ResourceDir()+string(filepath.Separator))
}

// ==================== Utility Methods ====================

// ManifestExists reports whether pack.json is a regular file.
func (p *Paths) ManifestExists() bool {
	return IsFile(p.Manifest())
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
