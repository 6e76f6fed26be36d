package scaffold

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/cartdark/cartkit/pkg/cart/errors"
	"github.com/cartdark/cartkit/pkg/cart/loader"
	"github.com/cartdark/cartkit/pkg/cart/schema"
)

func testScaffolder() *Scaffolder {
	return New(hclog.New(&hclog.LoggerOptions{
		Name:  "scaffold_test",
		Level: hclog.Trace,
	}))
}

func listTree(t *testing.T, root string) []string {
	t.Helper()
	var entries []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(entries)
	return entries
}

func readManifest(t *testing.T, root string) *schema.Manifest {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, schema.ManifestFileName))
	require.NoError(t, err)
	m, err := schema.DecodeManifest(data)
	require.NoError(t, err)
	return m
}

func TestCreateMinimal(t *testing.T) {
	parent := t.TempDir()

	root, err := testScaffolder().Create("minimal", "Demo", parent, schema.Display{}, DefaultFileOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(parent, "Demo"), root)

	assert.Equal(t, []string{".", ".gitignore", "Demo.cart", "README.md", "pack.json", "res"}, listTree(t, root))

	desc, err := loader.Load(filepath.Join(root, "Demo.cart"))
	require.NoError(t, err)
	assert.Equal(t, "Demo", desc.Name)
	assert.Equal(t, TemplateMinimal, desc.TemplateID)
	assert.Equal(t, schema.DefaultDisplay(), desc.Display)
	assert.Nil(t, desc.Bootstrap)
	parsed, err := uuid.Parse(desc.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())

	m := readManifest(t, root)
	assert.Equal(t, "Demo", m.Meta.Title)
	assert.True(t, schema.IsCartID(m.Meta.CartID), "cart id %q", m.Meta.CartID)
	assert.Equal(t, schema.DefaultEntryPath, m.Meta.Entry)
	require.Len(t, m.Chunks, 3)
	assert.Equal(t, schema.ChunkManifest, m.Chunks[0].Type)
	assert.Equal(t, schema.ChunkCode, m.Chunks[1].Type)
	assert.Equal(t, "main/", m.Chunks[1].OutputPrefix)
	assert.Equal(t, schema.CanonicalResourceChunk(), m.Chunks[2])

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "# Demo")
	assert.Contains(t, string(readme), "Demo.cart")
}

func TestCreateTwiceFailsWithoutTouchingDisk(t *testing.T) {
	parent := t.TempDir()
	s := testScaffolder()

	root, err := s.Create("minimal", "Demo", parent, schema.Display{}, DefaultFileOptions())
	require.NoError(t, err)
	before := listTree(t, parent)

	_, err = s.Create("minimal", "Demo", parent, schema.Display{}, DefaultFileOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrAlreadyExists)

	var scaffoldErr *Error
	require.ErrorAs(t, err, &scaffoldErr)
	assert.Equal(t, root, scaffoldErr.Root)
	assert.Equal(t, before, listTree(t, parent))
}

func TestCreateLayeredBootstrap(t *testing.T) {
	parent := t.TempDir()
	display := schema.Display{Width: 1024, Height: 600, PixelFormat: schema.PixelRGB565}

	root, err := testScaffolder().Create("layered-bootstrap", "Board", parent, display, DefaultFileOptions())
	require.NoError(t, err)

	for _, rel := range []string{
		"board/pins.json",
		"input/game.input_binding",
		"main/Layer0.collection",
		"main/Layer1.collection",
		"res",
		"script",
		"Board.cart",
		"pack.json",
	} {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		assert.NoError(t, err, "expected %s", rel)
	}

	desc, err := loader.Load(filepath.Join(root, "Board.cart"))
	require.NoError(t, err)
	assert.Equal(t, TemplateLayeredBootstrap, desc.TemplateID)
	assert.Equal(t, display, desc.Display)
	require.NotNil(t, desc.Bootstrap)
	assert.Equal(t, schema.DefaultLayers(), desc.Bootstrap.Layers)

	m := readManifest(t, root)
	assert.Equal(t, "main/Layer0.collection", m.Meta.Entry)
	require.Len(t, m.Chunks, 4)
	assert.Equal(t, schema.ChunkManifest, m.Chunks[0].Type)
	assert.Equal(t, "main/**/*", m.Chunks[1].Glob)
	assert.Equal(t, "input/**/*", m.Chunks[2].Glob)
	assert.Equal(t, schema.ResourceGlob, m.Chunks[3].Glob)
	for _, c := range m.Chunks[1:] {
		assert.Equal(t, schema.ChunkResource, c.Type)
	}

	binding, err := os.ReadFile(filepath.Join(root, "input", "game.input_binding"))
	require.NoError(t, err)
	assert.Contains(t, string(binding), `"name": "Board"`)

	collection, err := os.ReadFile(filepath.Join(root, "main", "Layer1.collection"))
	require.NoError(t, err)
	assert.Contains(t, string(collection), `"name": "Layer1"`)
}

func TestCreateFileOptions(t *testing.T) {
	parent := t.TempDir()
	opts := FileOptions{FileMode: 0o600, DirMode: 0o700}

	root, err := testScaffolder().Create("blank", "Bare", parent, schema.Display{}, opts)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(root, "README.md"))
	assert.NoFileExists(t, filepath.Join(root, ".gitignore"))

	info, err := os.Stat(filepath.Join(root, "pack.json"))
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&0o077, "mode %v", info.Mode().Perm())

	desc, err := loader.Load(filepath.Join(root, "Bare.cart"))
	require.NoError(t, err)
	assert.Equal(t, TemplateMinimal, desc.TemplateID, "aliases resolve to the canonical id")
}

func TestCreateErrors(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	testCases := []struct {
		name     string
		template string
		project  string
		parent   string
		display  schema.Display
		wantErr  error
	}{
		{name: "unknown_template", template: "rpg", project: "Demo", parent: parent, wantErr: cerrors.ErrUnknownTemplate},
		{name: "bad_name", template: "minimal", project: "my project", parent: parent, wantErr: cerrors.ErrInvalidOptions},
		{name: "path_in_name", template: "minimal", project: "../escape", parent: parent, wantErr: cerrors.ErrInvalidOptions},
		{name: "bad_display", template: "minimal", project: "Wide", parent: parent, display: schema.Display{Width: 5000}, wantErr: cerrors.ErrInvalidOptions},
		{name: "bad_format", template: "minimal", project: "Fmt", parent: parent, display: schema.Display{PixelFormat: "YUV"}, wantErr: cerrors.ErrInvalidOptions},
		{name: "parent_is_file", template: "minimal", project: "Demo", parent: blocker, wantErr: cerrors.ErrFilesystem},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testScaffolder().Create(tc.template, tc.project, tc.parent, tc.display, DefaultFileOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	_, err := os.Stat(filepath.Join(parent, "Demo"))
	assert.True(t, os.IsNotExist(err), "failed creations must not create the project root")
}

func TestCreateGeneratesFreshIdentifiers(t *testing.T) {
	parent := t.TempDir()

	first, err := Create("minimal", "One", parent, schema.Display{}, DefaultFileOptions())
	require.NoError(t, err)
	second, err := Create("minimal", "Two", parent, schema.Display{}, DefaultFileOptions())
	require.NoError(t, err)

	d1, err := loader.Load(filepath.Join(first, "One.cart"))
	require.NoError(t, err)
	d2, err := loader.Load(filepath.Join(second, "Two.cart"))
	require.NoError(t, err)
	assert.NotEqual(t, d1.ProjectID, d2.ProjectID)
	assert.NotEqual(t, readManifest(t, first).Meta.CartID, readManifest(t, second).Meta.CartID)
}
