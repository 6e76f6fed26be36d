package schema

import "encoding/json"

// Manifest is the typed view of pack.json. The synchronizer never uses it:
// it edits pack.json as an ordered tree so unknown keys survive.
type Manifest struct {
	Format      string  `json:"format"`
	PackVersion int     `json:"pack_version"`
	Meta        Meta    `json:"meta"`
	Icon        Icon    `json:"icon"`
	Hash        Hash    `json:"hash"`
	Build       Build   `json:"build"`
	Chunks      []Chunk `json:"chunks"`
}

// Meta is the manifest's identity block. CartID is generated once per
// project and never regenerated.
type Meta struct {
	Title       string            `json:"title"`
	Version     string            `json:"version"`
	CartID      string            `json:"cart_id"`
	Entry       string            `json:"entry"`
	TitleZh     string            `json:"title_zh,omitempty"`
	Publisher   string            `json:"publisher,omitempty"`
	MinFirmware string            `json:"min_fw,omitempty"`
	ID          string            `json:"id,omitempty"`
	Description map[string]string `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Author      map[string]string `json:"author,omitempty"`
}

// Icon describes the cart icon and how the build tool preprocesses it.
type Icon struct {
	Path       string         `json:"path"`
	Format     PixelFormat    `json:"format"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Preprocess IconPreprocess `json:"preprocess"`
}

type IconPreprocess struct {
	Mode       string `json:"mode"`
	Background string `json:"background"`
	Resample   string `json:"resample"`
}

// Hash selects which integrity checksums the build tool computes.
type Hash struct {
	HeaderCRC32   bool `json:"header_crc32"`
	ImageCRC32    bool `json:"image_crc32"`
	PerChunkCRC32 bool `json:"per_chunk_crc32"`
	PerFileCRC32  bool `json:"per_file_crc32"`
}

// Build holds build-tool policy flags. They are opaque to this module.
type Build struct {
	AlignmentBytes int  `json:"alignment_bytes"`
	Deterministic  bool `json:"deterministic"`
	FailOnConflict bool `json:"fail_on_conflict"`
}

// Chunk is one ordered entry of the manifest. Type selects which of the
// remaining fields are meaningful:
//
//	MANF   Source, OutputName
//	LUA    Glob, OutputPrefix, StripPrefix, Exclude, Order
//	RES    Glob, OutputPrefix, StripPrefix, Exclude, Order
//	script Source, Res, Exclude
type Chunk struct {
	Type         ChunkType `json:"type"`
	Compress     string    `json:"compress"`
	Source       string    `json:"source,omitempty"`
	OutputName   string    `json:"name,omitempty"`
	Glob         string    `json:"glob,omitempty"`
	OutputPrefix string    `json:"name_prefix,omitempty"`
	StripPrefix  string    `json:"strip_prefix,omitempty"`
	Exclude      []string  `json:"exclude,omitempty"`
	Order        string    `json:"order,omitempty"`
	Res          []string  `json:"res,omitempty"`
}

// NewManifest returns a manifest with every section at its default and the
// given identity.
func NewManifest(title, cartID, entry string, chunks ...Chunk) *Manifest {
	meta := DefaultMeta()
	meta.Title = title
	meta.CartID = cartID
	meta.Entry = entry
	return &Manifest{
		Format:      ManifestFormat,
		PackVersion: ManifestVersion,
		Meta:        meta,
		Icon:        DefaultIcon(),
		Hash:        DefaultHash(),
		Build:       DefaultBuild(),
		Chunks:      chunks,
	}
}

// NewManifestChunk returns the MANF chunk that carries inline metadata.
func NewManifestChunk(source, outputName string) Chunk {
	return Chunk{Type: ChunkManifest, Compress: DefaultCompress, Source: source, OutputName: outputName, Order: DefaultOrder}
}

// NewCodeChunk returns a LUA chunk matching glob.
func NewCodeChunk(glob, outputPrefix, stripPrefix string, exclude ...string) Chunk {
	return globChunk(ChunkCode, glob, outputPrefix, stripPrefix, exclude)
}

// NewResourceChunk returns a RES chunk matching glob.
func NewResourceChunk(glob, outputPrefix, stripPrefix string, exclude ...string) Chunk {
	return globChunk(ChunkResource, glob, outputPrefix, stripPrefix, exclude)
}

// NewScriptListChunk returns a script chunk listing exact paths.
func NewScriptListChunk(res ...string) Chunk {
	return Chunk{
		Type:     ChunkScriptList,
		Compress: DefaultCompress,
		Source:   InlineMetaSource,
		Res:      res,
		Exclude:  []string{ExcludeDSStore},
		Order:    DefaultOrder,
	}
}

// CanonicalResourceChunk is the RES definition used when the resource tree
// is regenerated.
func CanonicalResourceChunk() Chunk {
	return NewResourceChunk(ResourceGlob, ResourcePrefix, ResourcePrefix, DefaultResourceExcludes()...)
}

func globChunk(t ChunkType, glob, outputPrefix, stripPrefix string, exclude []string) Chunk {
	if len(exclude) == 0 {
		exclude = nil
	}
	return Chunk{
		Type:         t,
		Compress:     DefaultCompress,
		Glob:         glob,
		OutputPrefix: outputPrefix,
		StripPrefix:  stripPrefix,
		Exclude:      exclude,
		Order:        DefaultOrder,
	}
}

// UnmarshalJSON fills every omitted section with its default.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type alias Manifest
	a := alias{
		Format:      ManifestFormat,
		PackVersion: ManifestVersion,
		Meta:        DefaultMeta(),
		Icon:        DefaultIcon(),
		Hash:        DefaultHash(),
		Build:       DefaultBuild(),
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Manifest(a)
	return nil
}

// MarshalJSON drops the category only when it is the default, so an
// explicit empty category survives a round trip.
func (m Meta) MarshalJSON() ([]byte, error) {
	type alias Meta
	var category *string
	if m.Category != DefaultCategory {
		category = &m.Category
	}
	return marshalCompact(struct {
		alias
		Category *string          `json:"category,omitempty"`
		Tags     []string          `json:"tags,omitempty"`
		Author   map[string]string `json:"author,omitempty"`
	}{alias(m), category, m.Tags, m.Author})
}

func (m *Meta) UnmarshalJSON(data []byte) error {
	type alias Meta
	a := alias(DefaultMeta())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Meta(a)
	return nil
}

func (i *Icon) UnmarshalJSON(data []byte) error {
	type alias Icon
	a := alias(DefaultIcon())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = Icon(a)
	return nil
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	type alias Hash
	a := alias(DefaultHash())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*h = Hash(a)
	return nil
}

func (b *Build) UnmarshalJSON(data []byte) error {
	type alias Build
	a := alias(DefaultBuild())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Build(a)
	return nil
}

// MarshalJSON drops the order only when it is the default. Script chunks
// always carry their res list, even when empty.
func (c Chunk) MarshalJSON() ([]byte, error) {
	type alias Chunk
	var order *string
	if c.Order != DefaultOrder {
		order = &c.Order
	}
	if c.Type != ChunkScriptList {
		return marshalCompact(struct {
			alias
			Order *string  `json:"order,omitempty"`
			Res   []string `json:"res,omitempty"`
		}{alias(c), order, c.Res})
	}
	res := c.Res
	if res == nil {
		res = []string{}
	}
	return marshalCompact(struct {
		alias
		Order *string  `json:"order,omitempty"`
		Res   []string `json:"res"`
	}{alias(c), order, res})
}

func (c *Chunk) UnmarshalJSON(data []byte) error {
	type alias Chunk
	a := alias{Compress: DefaultCompress, Order: DefaultOrder}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Chunk(a)
	return nil
}
