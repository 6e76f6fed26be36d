// Package packsync keeps pack.json path references consistent with changes
// made to the project tree. Every operation re-reads the manifest, edits the
// keys it understands and writes the whole document back with every other
// key preserved in place.
package packsync

import (
	"github.com/hashicorp/go-hclog"

	"github.com/cartdark/cartkit/pkg/cart"
	cerrors "github.com/cartdark/cartkit/pkg/cart/errors"
	"github.com/cartdark/cartkit/pkg/logging"
)

// Synchronizer applies filesystem events and maintenance commands to a
// project's manifest. It holds no manifest state between calls.
type Synchronizer struct {
	logger hclog.Logger
}

// New returns a Synchronizer. A nil logger discards output.
func New(logger hclog.Logger) *Synchronizer {
	return &Synchronizer{logger: logging.OrNull(logger)}
}

// update runs one locked read-modify-write cycle. edit reports whether the
// document must be written. found is false when there is no manifest.
func (s *Synchronizer) update(paths *cart.Paths, op string, edit func(d *document) (bool, error)) (found, written bool, err error) {
	manifest := paths.Manifest()
	unlock := lockManifest(manifest)
	defer unlock()

	doc, err := readDocument(manifest)
	if err != nil {
		s.logger.Warn("⚠️ Manifest not loaded", "op", op, "error", err)
		return false, false, err
	}
	if doc == nil {
		s.logger.Debug("⏭️ No manifest, skipping", "op", op, "root", paths.Root())
		return false, false, nil
	}

	write, err := edit(doc)
	if err != nil {
		s.logger.Warn("⚠️ Manifest not updated", "op", op, "error", err)
		return true, false, &SyncError{Path: manifest, Kind: cerrors.ErrManifestParse, Err: err}
	}
	if !write {
		s.logger.Trace("Manifest unchanged", "op", op)
		return true, false, nil
	}
	if err := doc.save(s.logger); err != nil {
		s.logger.Error("❌ Manifest write failed", "op", op, "error", err)
		return true, false, err
	}
	s.logger.Info("🔄 Manifest updated", "op", op, "path", manifest)
	return true, true, nil
}

// relPaths converts absolute paths to project-root-relative form.
func (s *Synchronizer) relPaths(paths *cart.Paths, abs ...string) ([]string, bool) {
	rels := make([]string, len(abs))
	for i, p := range abs {
		rel, err := paths.Rel(p)
		if err != nil {
			s.logger.Debug("Path not relative to project", "path", p, "error", err)
			return nil, false
		}
		rels[i] = rel
	}
	return rels, true
}

// OnFileRenamed follows a rename or move of oldAbs to newAbs. Only entries
// that were inside the resource subtree are tracked. Exact references in
// icon.path, meta.entry and the script lists move with the entry; when
// newAbs is a directory, chunk glob, name_prefix and strip_prefix values
// under the old directory get the new prefix. Globs are not re-checked.
func (s *Synchronizer) OnFileRenamed(projectRoot, oldAbs, newAbs string) (bool, error) {
	paths := cart.NewPaths(projectRoot)
	if !paths.InResourceTree(oldAbs) {
		s.logger.Trace("Rename outside resource tree", "path", oldAbs)
		return false, nil
	}
	rels, ok := s.relPaths(paths, oldAbs, newAbs)
	if !ok {
		return false, nil
	}
	isDir := cart.IsDir(newAbs)

	_, changed, err := s.update(paths, "rename", func(d *document) (bool, error) {
		return d.rename(rels[0], rels[1], isDir), nil
	})
	return changed, err
}

// OnFileDeleted follows the removal of abs. Inside the resource subtree,
// icon.path and meta.entry naming it are set to "". Anywhere in the project,
// script list entries naming it or lying below it are removed.
func (s *Synchronizer) OnFileDeleted(projectRoot, abs string) (bool, error) {
	paths := cart.NewPaths(projectRoot)
	rels, ok := s.relPaths(paths, abs)
	if !ok {
		return false, nil
	}
	rel := rels[0]
	inResources := paths.InResourceTree(abs)

	_, changed, err := s.update(paths, "delete", func(d *document) (bool, error) {
		changed := false
		if inResources {
			changed = d.clearReferences(rel)
		}
		return d.dropScripts(rel) || changed, nil
	})
	return changed, err
}

// FormatOnly rewrites the manifest in canonical form without changing its
// content. It reports whether the manifest was rewritten.
func (s *Synchronizer) FormatOnly(projectRoot string) (bool, error) {
	_, written, err := s.update(cart.NewPaths(projectRoot), "format", func(*document) (bool, error) {
		return true, nil
	})
	return written, err
}

// RegenerateResourceChunks resets the RES chunks rooted in res/ to the
// single canonical definition. Other chunks are untouched. It needs the
// resource directory to exist.
func (s *Synchronizer) RegenerateResourceChunks(projectRoot string) (bool, error) {
	paths := cart.NewPaths(projectRoot)
	if !cart.IsDir(paths.ResourceDir()) {
		s.logger.Debug("⏭️ No resource directory, skipping", "dir", paths.ResourceDir())
		return false, nil
	}
	_, written, err := s.update(paths, "regenerate", func(d *document) (bool, error) {
		d.resetResourceChunks()
		return true, nil
	})
	return written, err
}

// AddScriptToManifest puts abs in the script list, creating the script
// chunk if needed. It reports whether the path is listed afterwards; an
// already listed path leaves the file as it was.
func (s *Synchronizer) AddScriptToManifest(projectRoot, abs string) (bool, error) {
	paths := cart.NewPaths(projectRoot)
	rels, ok := s.relPaths(paths, abs)
	if !ok {
		return false, nil
	}
	found, _, err := s.update(paths, "add-script", func(d *document) (bool, error) {
		return d.addScript(rels[0])
	})
	return found && err == nil, err
}

// RemoveScriptFromManifest drops abs from every script list and reports
// whether anything was removed.
func (s *Synchronizer) RemoveScriptFromManifest(projectRoot, abs string) (bool, error) {
	paths := cart.NewPaths(projectRoot)
	rels, ok := s.relPaths(paths, abs)
	if !ok {
		return false, nil
	}
	_, changed, err := s.update(paths, "remove-script", func(d *document) (bool, error) {
		return d.removeScript(rels[0]), nil
	})
	return changed, err
}
