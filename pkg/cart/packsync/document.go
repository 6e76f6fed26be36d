package packsync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	cerrors "github.com/cartdark/cartkit/pkg/cart/errors"
	"github.com/cartdark/cartkit/pkg/cart/schema"
	"github.com/cartdark/cartkit/pkg/utils/ordjson"
)

// Manifest keys the synchronizer reads or writes. Everything else is carried
// through untouched.
const (
	keyIcon        = "icon"
	keyMeta        = "meta"
	keyPath        = "path"
	keyEntry       = "entry"
	keyChunks      = "chunks"
	keyType        = "type"
	keyCompress    = "compress"
	keySource      = "source"
	keyGlob        = "glob"
	keyStripPrefix = "strip_prefix"
	keyNamePrefix  = "name_prefix"
	keyExclude     = "exclude"
	keyRes         = "res"
)

// prefixFields are the chunk fields rewritten on a directory rename.
var prefixFields = []string{keyGlob, keyStripPrefix, keyNamePrefix}

// manifestLocks serializes read-modify-write cycles per manifest path within
// this process. Other processes are not excluded.
var manifestLocks sync.Map

func lockManifest(path string) func() {
	v, _ := manifestLocks.LoadOrStore(path, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// document is one manifest held as an ordered tree.
type document struct {
	path string
	mode os.FileMode
	root *ordjson.Map
}

// readDocument loads the manifest at path. A missing manifest, or one that
// is not a regular file, yields (nil, nil).
func readDocument(path string) (*document, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &SyncError{Path: path, Kind: cerrors.ErrManifestRead, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SyncError{Path: path, Kind: cerrors.ErrManifestRead, Err: err}
	}
	root, err := parseManifest(data)
	if err != nil {
		return nil, &SyncError{Path: path, Kind: cerrors.ErrManifestParse, Err: err}
	}
	return &document{path: path, mode: info.Mode().Perm(), root: root}, nil
}

func parseManifest(data []byte) (*ordjson.Map, error) {
	v, err := ordjson.Parse(data)
	if err != nil {
		return nil, err
	}
	root := v.AsMap()
	if root == nil {
		return nil, fmt.Errorf("top-level value is %s, not an object", v.Kind())
	}
	return root, nil
}

// save writes the tree to a temporary file next to the manifest and moves
// it into place, so readers see either the old or the new manifest.
func (d *document) save(logger hclog.Logger) error {
	data, err := ordjson.Marshal(ordjson.NewObject(d.root))
	if err != nil {
		return &SyncError{Path: d.path, Kind: cerrors.ErrManifestEncode, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".pack-*.json.tmp")
	if err != nil {
		return &SyncError{Path: d.path, Kind: cerrors.ErrManifestWrite, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &SyncError{Path: d.path, Kind: cerrors.ErrManifestWrite, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &SyncError{Path: d.path, Kind: cerrors.ErrManifestWrite, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &SyncError{Path: d.path, Kind: cerrors.ErrManifestWrite, Err: err}
	}
	if err := os.Chmod(tmpPath, d.mode); err != nil {
		return &SyncError{Path: d.path, Kind: cerrors.ErrManifestWrite, Err: err}
	}
	if err := atomicReplace(tmpPath, d.path, logger); err != nil {
		return &SyncError{Path: d.path, Kind: cerrors.ErrManifestWrite, Err: err}
	}
	committed = true
	return nil
}

// ==================== Accessors ====================

// chunks returns the chunk objects in order. Non-object items are skipped.
func (d *document) chunks() []*ordjson.Map {
	var out []*ordjson.Map
	for _, item := range d.root.Array(keyChunks).Items() {
		if m := item.AsMap(); m != nil {
			out = append(out, m)
		}
	}
	return out
}

func chunkType(c *ordjson.Map) string {
	t, _ := c.String(keyType)
	return t
}

func (d *document) scriptChunks() []*ordjson.Map {
	var out []*ordjson.Map
	for _, c := range d.chunks() {
		if chunkType(c) == string(schema.ChunkScriptList) {
			out = append(out, c)
		}
	}
	return out
}

// replaceExact sets section.key to to when it currently equals from.
func (d *document) replaceExact(section, key, from, to string) bool {
	m := d.root.Map(section)
	if cur, ok := m.String(key); ok && cur == from {
		m.Set(key, ordjson.NewString(to))
		return true
	}
	return false
}

// editScriptLists applies edit to every string in every script list. edit
// returns the replacement and whether to keep the entry. Non-string entries
// are kept as they are.
func (d *document) editScriptLists(edit func(string) (string, bool)) bool {
	changed := false
	for _, c := range d.scriptChunks() {
		list := c.Array(keyRes)
		if list == nil {
			continue
		}
		items := list.Items()
		kept := make([]*ordjson.Value, 0, len(items))
		for _, item := range items {
			s, ok := item.AsString()
			if !ok {
				kept = append(kept, item)
				continue
			}
			next, keep := edit(s)
			if !keep {
				changed = true
				continue
			}
			if next != s {
				changed = true
				item = ordjson.NewString(next)
			}
			kept = append(kept, item)
		}
		list.SetItems(kept)
	}
	return changed
}

// ==================== Mutations ====================

func dirPrefix(rel string) string {
	return strings.TrimSuffix(rel, "/") + "/"
}

// rename moves every exact and prefix reference from oldRel to newRel.
// Chunk prefix fields are only rewritten when the renamed entry is a
// directory.
func (d *document) rename(oldRel, newRel string, isDir bool) bool {
	changed := d.replaceExact(keyIcon, keyPath, oldRel, newRel)
	changed = d.replaceExact(keyMeta, keyEntry, oldRel, newRel) || changed

	oldPrefix, newPrefix := dirPrefix(oldRel), dirPrefix(newRel)
	if isDir {
		for _, c := range d.chunks() {
			for _, field := range prefixFields {
				if v, ok := c.String(field); ok && strings.HasPrefix(v, oldPrefix) {
					c.Set(field, ordjson.NewString(newPrefix+v[len(oldPrefix):]))
					changed = true
				}
			}
		}
	}

	return d.editScriptLists(func(s string) (string, bool) {
		switch {
		case s == oldRel:
			return newRel, true
		case strings.HasPrefix(s, oldPrefix):
			return newPrefix + s[len(oldPrefix):], true
		}
		return s, true
	}) || changed
}

// clearReferences empties icon.path and meta.entry when they name rel. The
// keys stay in place.
func (d *document) clearReferences(rel string) bool {
	changed := d.replaceExact(keyIcon, keyPath, rel, "")
	return d.replaceExact(keyMeta, keyEntry, rel, "") || changed
}

// dropScripts removes rel and everything below it from every script list.
func (d *document) dropScripts(rel string) bool {
	prefix := dirPrefix(rel)
	return d.editScriptLists(func(s string) (string, bool) {
		return s, s != rel && !strings.HasPrefix(s, prefix)
	})
}

// removeScript removes exact matches of rel from every script list.
func (d *document) removeScript(rel string) bool {
	return d.editScriptLists(func(s string) (string, bool) {
		return s, s != rel
	})
}

// resetResourceChunks rewrites the first RES chunk rooted in the resource
// subtree to the canonical definition and drops the later ones. Unknown keys
// of the kept chunk survive.
func (d *document) resetResourceChunks() {
	list := d.root.Array(keyChunks)
	if list == nil {
		return
	}
	canonical := schema.CanonicalResourceChunk()
	seen := false

	items := list.Items()
	kept := make([]*ordjson.Value, 0, len(items))
	for _, item := range items {
		c := item.AsMap()
		glob, _ := c.String(keyGlob)
		if c == nil || chunkType(c) != string(schema.ChunkResource) || !strings.HasPrefix(glob, schema.ResourcePrefix) {
			kept = append(kept, item)
			continue
		}
		if seen {
			continue
		}
		seen = true
		c.Set(keyGlob, ordjson.NewString(canonical.Glob))
		c.Set(keyStripPrefix, ordjson.NewString(canonical.StripPrefix))
		c.Set(keyNamePrefix, ordjson.NewString(canonical.OutputPrefix))
		c.Set(keyExclude, ordjson.NewStrings(canonical.Exclude...))
		kept = append(kept, item)
	}
	list.SetItems(kept)
}

// addScript appends rel to the first script list, creating the script chunk
// after the manifest chunk when there is none.
func (d *document) addScript(rel string) (bool, error) {
	list := d.root.Get(keyChunks)
	switch list.Kind() {
	case ordjson.Null:
		list = ordjson.NewArray()
		d.root.Set(keyChunks, list)
	case ordjson.Array:
	default:
		return false, fmt.Errorf("%s is %s, not an array", keyChunks, list.Kind())
	}

	changed := false
	var script *ordjson.Map
	for _, c := range d.scriptChunks() {
		script = c
		break
	}
	if script == nil {
		script = newScriptChunk()
		list.SetItems(insertAt(list.Items(), scriptInsertPos(list.Items()), ordjson.NewObject(script)))
		changed = true
	}

	res := script.Get(keyRes)
	switch res.Kind() {
	case ordjson.Null:
		res = ordjson.NewArray()
		script.Set(keyRes, res)
		changed = true
	case ordjson.Array:
	default:
		return false, fmt.Errorf("script %s is %s, not an array", keyRes, res.Kind())
	}

	for _, item := range res.Items() {
		if s, ok := item.AsString(); ok && s == rel {
			return changed, nil
		}
	}
	res.SetItems(append(res.Items(), ordjson.NewString(rel)))
	return true, nil
}

func newScriptChunk() *ordjson.Map {
	def := schema.NewScriptListChunk()
	m := &ordjson.Map{}
	m.Set(keyType, ordjson.NewString(string(def.Type)))
	m.Set(keyCompress, ordjson.NewString(def.Compress))
	m.Set(keySource, ordjson.NewString(def.Source))
	m.Set(keyRes, ordjson.NewStrings(def.Res...))
	m.Set(keyExclude, ordjson.NewStrings(def.Exclude...))
	return m
}

// scriptInsertPos is the slot after the first manifest chunk, or 1 when
// there is none.
func scriptInsertPos(items []*ordjson.Value) int {
	for i, item := range items {
		if chunkType(item.AsMap()) == string(schema.ChunkManifest) {
			return i + 1
		}
	}
	return min(1, len(items))
}

func insertAt(items []*ordjson.Value, pos int, v *ordjson.Value) []*ordjson.Value {
	items = append(items, nil)
	copy(items[pos+1:], items[pos:])
	items[pos] = v
	return items
}
