package packsync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cartdark/cartkit/pkg/cart"
	"github.com/cartdark/cartkit/pkg/cart/schema"
)

// Issue is one problem found by Validate.
type Issue struct {
	// Field is the manifest location, e.g. "icon.path" or "chunks[2].glob".
	Field string
	// Path is the offending value, when there is one.
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Field, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Field, i.Message, i.Path)
}

var errGlobMatched = errors.New("glob matched")

// Validate reports every inconsistency between the manifest and the project
// tree. It never fails; an absent or unparsable manifest is itself an issue.
func (s *Synchronizer) Validate(projectRoot string) []Issue {
	paths := cart.NewPaths(projectRoot)
	manifest := paths.Manifest()

	if !cart.IsFile(manifest) {
		return []Issue{{Field: schema.ManifestFileName, Message: "manifest does not exist"}}
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		return []Issue{{Field: schema.ManifestFileName, Message: "manifest unreadable: " + err.Error()}}
	}
	root, err := parseManifest(data)
	if err != nil {
		return []Issue{{Field: schema.ManifestFileName, Message: "manifest parse failed: " + err.Error()}}
	}
	doc := &document{path: manifest, root: root}

	var issues []Issue
	checkFile := func(section, key string) {
		rel, _ := doc.root.Map(section).String(key)
		if rel != "" && !cart.IsFile(paths.Abs(rel)) {
			issues = append(issues, Issue{Field: section + "." + key, Path: rel, Message: "file does not exist"})
		}
	}
	checkFile(keyIcon, keyPath)
	checkFile(keyMeta, keyEntry)

	fsys := os.DirFS(paths.Root())
	for i, item := range doc.root.Array(keyChunks).Items() {
		glob, _ := item.AsMap().String(keyGlob)
		if glob == "" {
			continue
		}
		field := fmt.Sprintf("chunks[%d].glob", i)
		matched, err := globMatchesFile(fsys, glob)
		switch {
		case err != nil:
			issues = append(issues, Issue{Field: field, Path: glob, Message: "invalid glob: " + err.Error()})
		case !matched:
			issues = append(issues, Issue{Field: field, Path: glob, Message: "glob matches no files"})
		}
	}

	for _, issue := range issues {
		s.logger.Debug("🔍 Manifest issue", "field", issue.Field, "path", issue.Path, "message", issue.Message)
	}
	return issues
}

// globMatchesFile reports whether pattern, rooted at fsys, matches at least
// one regular file. The walk stops at the first match.
func globMatchesFile(fsys fs.FS, pattern string) (bool, error) {
	pattern = strings.TrimPrefix(pattern, "/")
	if !doublestar.ValidatePattern(pattern) {
		return false, doublestar.ErrBadPattern
	}
	err := doublestar.GlobWalk(fsys, pattern, func(string, fs.DirEntry) error {
		return errGlobMatched
	}, doublestar.WithFilesOnly())
	if errors.Is(err, errGlobMatched) {
		return true, nil
	}
	return false, err
}
