package schema

// =================================
// Descriptor defaults
// =================================
const (
	DefaultTemplateID    = "minimal"
	DefaultWidth         = 800
	DefaultHeight        = 480
	DefaultPixelFormat   = PixelARGB8888
	DefaultLayerAlpha    = 255
	DefaultLayer0Path    = "/main/Layer0.collection"
	DefaultLayer1Path    = "/main/Layer1.collection"
	DefaultBootstrapMode = BootstrapLTDC
	MaxDisplaySize       = 4096
)

// =================================
// Manifest meta defaults
// =================================
const (
	DefaultMetaVersion = "0.1.0"
	DefaultEntryPath   = "main/main.lua"
	DefaultCategory    = "app"
)

// =================================
// Icon defaults
// =================================
const (
	DefaultIconPath       = "res/icon.png"
	DefaultIconFormat     = PixelARGB8888
	DefaultIconSize       = 200
	DefaultIconMode       = "contain"
	DefaultIconBackground = "#000000"
	DefaultIconResample   = "lanczos"
)

// =================================
// Build policy defaults
// =================================
const (
	DefaultAlignmentBytes = 4096
	DefaultDeterministic  = true
	DefaultFailOnConflict = true
)

// =================================
// Chunk defaults
// =================================
const (
	DefaultCompress     = "none"
	DefaultOrder        = "lex"
	InlineMetaSource    = "inline_meta"
	ManifestOutputName  = "meta/manifest.bin"
	ResourceGlob        = ResourceDir + "/**/*"
	ResourcePrefix      = ResourceDir + "/"
	ExcludeDSStore      = "**/.DS_Store"
	ExcludePhotoshopPSD = "**/*.psd"
)

// DefaultDisplay returns the display configuration used when none is given.
func DefaultDisplay() Display {
	return Display{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		PixelFormat: DefaultPixelFormat,
	}
}

// DefaultLayers returns the two-layer stack of a fresh bootstrap section.
func DefaultLayers() []Layer {
	return []Layer{
		{ID: 0, CollectionPath: DefaultLayer0Path, Alpha: DefaultLayerAlpha, Enabled: true},
		{ID: 1, CollectionPath: DefaultLayer1Path, Alpha: DefaultLayerAlpha, Enabled: true},
	}
}

// DefaultBootstrap returns a bootstrap section with the default layer stack.
func DefaultBootstrap() *Bootstrap {
	return &Bootstrap{Mode: DefaultBootstrapMode, Layers: DefaultLayers()}
}

// DefaultMeta returns manifest metadata with every documented default set.
func DefaultMeta() Meta {
	return Meta{
		Version:  DefaultMetaVersion,
		Entry:    DefaultEntryPath,
		Category: DefaultCategory,
	}
}

// DefaultIcon returns the icon section with every documented default set.
func DefaultIcon() Icon {
	return Icon{
		Path:   DefaultIconPath,
		Format: DefaultIconFormat,
		Width:  DefaultIconSize,
		Height: DefaultIconSize,
		Preprocess: IconPreprocess{
			Mode:       DefaultIconMode,
			Background: DefaultIconBackground,
			Resample:   DefaultIconResample,
		},
	}
}

// DefaultHash enables only the header checksum.
func DefaultHash() Hash {
	return Hash{HeaderCRC32: true}
}

// DefaultBuild returns the default build-tool policy.
func DefaultBuild() Build {
	return Build{
		AlignmentBytes: DefaultAlignmentBytes,
		Deterministic:  DefaultDeterministic,
		FailOnConflict: DefaultFailOnConflict,
	}
}

// DefaultResourceExcludes are the exclusions of the canonical RES chunk.
func DefaultResourceExcludes() []string {
	return []string{ExcludeDSStore, ExcludePhotoshopPSD}
}
