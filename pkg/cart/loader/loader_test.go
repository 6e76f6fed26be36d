package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/cartdark/cartkit/pkg/cart/errors"
	"github.com/cartdark/cartkit/pkg/cart/schema"
)

func testLoader() *Loader {
	return New(hclog.New(&hclog.LoggerOptions{
		Name:  "loader_test",
		Level: hclog.Trace,
	}))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	plain := schema.NewDescriptor("Demo", "minimal", "0b7f2c7e-4c1e-4d5b-8f5a-3a2b1c0d9e8f")
	boot := schema.NewDescriptor("Board", "layered-bootstrap", "1c8e3d9f-5d2f-4e6c-9a6b-4b3c2d1e0f9a")
	boot.Display = schema.Display{Width: 1024, Height: 600, PixelFormat: schema.PixelRGB888}
	boot.Bootstrap = schema.DefaultBootstrap()
	boot.Bootstrap.Layers[1].Alpha = 64

	for _, d := range []*schema.Descriptor{plain, boot} {
		t.Run(d.Name, func(t *testing.T) {
			data, err := schema.EncodeDescriptor(d)
			require.NoError(t, err)
			path := filepath.Join(dir, d.Name+schema.DescriptorExtension)
			writeFile(t, path, string(data))

			got, err := testLoader().Load(path)
			require.NoError(t, err)
			assert.Equal(t, d, got)
		})
	}
}

func TestLoadUpgradesLegacyBootstrap(t *testing.T) {
	testCases := []struct {
		name      string
		bootstrap string
		wantFirst string
	}{
		{
			name:      "main_collection",
			bootstrap: `{"mode": "LTDC", "main_collection": "/main/Layer0.collection"}`,
			wantFirst: "/main/Layer0.collection",
		},
		{
			name:      "custom_path",
			bootstrap: `{"main_collection": "/main/Title.collection"}`,
			wantFirst: "/main/Title.collection",
		},
		{
			name:      "relative_legacy_path",
			bootstrap: `{"collection": "main/Intro.collection"}`,
			wantFirst: "/main/Intro.collection",
		},
		{
			name:      "no_legacy_field",
			bootstrap: `{"mode": "LTDC"}`,
			wantFirst: schema.DefaultLayer0Path,
		},
		{
			name:      "null_layers",
			bootstrap: `{"layers": null}`,
			wantFirst: schema.DefaultLayer0Path,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "Legacy.cart")
			before := `{"format": "CART_PROJECT", "version": 1, "project": {"name": "Legacy", "template": "layered-bootstrap", "id": "x"}, "bootstrap": ` + tc.bootstrap + `}`
			writeFile(t, path, before)

			d, err := testLoader().Load(path)
			require.NoError(t, err)
			require.NotNil(t, d.Bootstrap)
			require.Len(t, d.Bootstrap.Layers, 2)

			assert.Equal(t, schema.Layer{ID: 0, CollectionPath: tc.wantFirst, Alpha: 255, Enabled: true}, d.Bootstrap.Layers[0])
			assert.Equal(t, schema.Layer{ID: 1, CollectionPath: schema.DefaultLayer1Path, Alpha: 255, Enabled: true}, d.Bootstrap.Layers[1])

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, before, string(after), "upgrade must not rewrite the file")
		})
	}
}

func TestLoadKeepsExplicitLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Three.cart")
	writeFile(t, path, `{"project": {"name": "Three"}, "bootstrap": {"layers": [
		{"id": 0, "collection": "/main/A.collection"},
		{"id": 1, "collection": "/main/B.collection", "alpha": 10},
		{"id": 2, "collection": "/main/C.collection", "enabled": false}
	]}}`)

	d, err := testLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, d.Bootstrap.Layers, 3)
	assert.Equal(t, "/main/C.collection", d.Bootstrap.Layers[2].CollectionPath)
	assert.Equal(t, 10, d.Bootstrap.Layers[1].Alpha)
	assert.False(t, d.Bootstrap.Layers[2].Enabled)
}

func TestLoadDefaultsNameFromDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Nameless")
	path := filepath.Join(root, "x.cart")
	writeFile(t, path, `{"format": "CART_PROJECT", "unknown_extension": {"a": 1}}`)

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Nameless", d.Name)
	assert.Equal(t, schema.DefaultDisplay(), d.Display)
	assert.Nil(t, d.Bootstrap)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		setup   func() string
		wantErr error
	}{
		{
			name:    "missing",
			setup:   func() string { return filepath.Join(dir, "nope.cart") },
			wantErr: cerrors.ErrDescriptorMissing,
		},
		{
			name: "directory",
			setup: func() string {
				p := filepath.Join(dir, "dir.cart")
				require.NoError(t, os.MkdirAll(p, 0o755))
				return p
			},
			wantErr: cerrors.ErrDescriptorMissing,
		},
		{
			name: "syntax",
			setup: func() string {
				p := filepath.Join(dir, "syntax.cart")
				writeFile(t, p, `{"format": `)
				return p
			},
			wantErr: cerrors.ErrDescriptorSyntax,
		},
		{
			name: "array_top_level",
			setup: func() string {
				p := filepath.Join(dir, "array.cart")
				writeFile(t, p, `[1, 2, 3]`)
				return p
			},
			wantErr: cerrors.ErrDescriptorMalformed,
		},
		{
			name: "null_top_level",
			setup: func() string {
				p := filepath.Join(dir, "null.cart")
				writeFile(t, p, `null`)
				return p
			},
			wantErr: cerrors.ErrDescriptorMalformed,
		},
		{
			name: "project_not_object",
			setup: func() string {
				p := filepath.Join(dir, "project.cart")
				writeFile(t, p, `{"project": "Demo"}`)
				return p
			},
			wantErr: cerrors.ErrDescriptorMalformed,
		},
		{
			name: "wrong_field_type",
			setup: func() string {
				p := filepath.Join(dir, "width.cart")
				writeFile(t, p, `{"display": {"width": "wide"}}`)
				return p
			},
			wantErr: cerrors.ErrDescriptorMalformed,
		},
		{
			name: "invalid_pixel_format",
			setup: func() string {
				p := filepath.Join(dir, "format.cart")
				writeFile(t, p, `{"display": {"format": "YUV"}}`)
				return p
			},
			wantErr: cerrors.ErrDescriptorMalformed,
		},
		{
			name: "foreign_format",
			setup: func() string {
				p := filepath.Join(dir, "foreign.cart")
				writeFile(t, p, `{"format": "XHGC_PACK", "version": 1}`)
				return p
			},
			wantErr: cerrors.ErrDescriptorMalformed,
		},
		{
			name: "future_version",
			setup: func() string {
				p := filepath.Join(dir, "future.cart")
				writeFile(t, p, `{"format": "CART_PROJECT", "version": 99}`)
				return p
			},
			wantErr: cerrors.ErrDescriptorMalformed,
		},
		{
			name: "empty_layers",
			setup: func() string {
				p := filepath.Join(dir, "layers.cart")
				writeFile(t, p, `{"format": "CART_PROJECT", "bootstrap": {"mode": "LTDC", "layers": []}}`)
				return p
			},
			wantErr: cerrors.ErrDescriptorMalformed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testLoader().Load(tc.setup())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tc.wantErr, loadErr.Kind)
		})
	}
}

func TestLocateDescriptor(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "pack.json"), "{}")
		_, err := LocateDescriptor(root)
		assert.ErrorIs(t, err, cerrors.ErrDescriptorNotFound)
	})

	t.Run("one", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "Demo.cart"), "{}")
		require.NoError(t, os.MkdirAll(filepath.Join(root, "nested.cart"), 0o755))
		writeFile(t, filepath.Join(root, "sub", "Other.cart"), "{}")

		path, err := LocateDescriptor(root)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "Demo.cart"), path)
	})

	t.Run("two", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "B.cart"), "{}")
		writeFile(t, filepath.Join(root, "A.cart"), "{}")

		_, err := testLoader().LocateDescriptor(root)
		require.ErrorIs(t, err, cerrors.ErrDescriptorAmbiguous)
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, []string{"A.cart", "B.cart"}, loadErr.Candidates)
	})

	t.Run("not_a_directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, file, "x")
		_, err := LocateDescriptor(file)
		assert.ErrorIs(t, err, cerrors.ErrNotADirectory)
	})
}
