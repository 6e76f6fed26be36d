// Package schema defines the in-memory model of a cart project: the project
// descriptor (<name>.cart) and the package manifest (pack.json).
//
// The package is pure data plus serialization. Encoders omit fields that
// equal their documented default, decoders fill every omitted field back in.
package schema

// File kinds and format tags. These never change for a given schema version.
const (
	DescriptorFormat    = "CART_PROJECT"
	DescriptorExtension = ".cart"
	DescriptorVersion   = 1

	ManifestFormat   = "XHGC_PACK"
	ManifestFileName = "pack.json"
	ManifestVersion  = 1

	// ResourceDir is the project subtree whose files are tracked by exact
	// reference in the manifest.
	ResourceDir = "res"
)

// PixelFormat is the framebuffer format of the target display.
type PixelFormat string

const (
	PixelARGB8888 PixelFormat = "ARGB8888"
	PixelRGB888   PixelFormat = "RGB888"
	PixelRGB565   PixelFormat = "RGB565"
	PixelRGB555   PixelFormat = "RGB555"
)

// PixelFormats lists every supported pixel format in display order.
var PixelFormats = []PixelFormat{PixelARGB8888, PixelRGB888, PixelRGB565, PixelRGB555}

// Valid reports whether f is one of the supported pixel formats.
func (f PixelFormat) Valid() bool {
	for _, known := range PixelFormats {
		if f == known {
			return true
		}
	}
	return false
}

// BootstrapMode selects how bootstrap layers are composited.
type BootstrapMode string

const (
	BootstrapLTDC BootstrapMode = "LTDC"
)

// ChunkType is the `type` discriminator of a manifest chunk.
type ChunkType string

const (
	ChunkManifest   ChunkType = "MANF"
	ChunkCode       ChunkType = "LUA"
	ChunkResource   ChunkType = "RES"
	ChunkScriptList ChunkType = "script"
)
