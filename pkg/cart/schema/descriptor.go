package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Descriptor is the project descriptor stored as <name>.cart at the project
// root. ProjectID is generated once at creation and never regenerated.
type Descriptor struct {
	Format        string
	SchemaVersion int
	Name          string
	TemplateID    string
	ProjectID     string
	Display       Display
	Bootstrap     *Bootstrap
}

// Display describes the target screen.
type Display struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	PixelFormat PixelFormat `json:"format"`
}

// Bootstrap is the optional multi-layer boot configuration. Layers are in
// compositing order: Layers[0] is drawn first.
type Bootstrap struct {
	Mode   BootstrapMode `json:"mode"`
	Layers []Layer       `json:"layers"`
}

// Layer is one entry of the bootstrap composite. CollectionPath is
// project-root relative and begins with "/".
type Layer struct {
	ID             int    `json:"id"`
	CollectionPath string `json:"collection"`
	Alpha          int    `json:"alpha"`
	Enabled        bool   `json:"enabled"`
}

// NewDescriptor returns a descriptor with the format tag, schema version and
// display defaults filled in.
func NewDescriptor(name, templateID, projectID string) *Descriptor {
	return &Descriptor{
		Format:        DescriptorFormat,
		SchemaVersion: DescriptorVersion,
		Name:          name,
		TemplateID:    templateID,
		ProjectID:     projectID,
		Display:       DefaultDisplay(),
	}
}

type descriptorWire struct {
	Format    string      `json:"format"`
	Version   int         `json:"version"`
	Project   projectWire `json:"project"`
	Display   Display     `json:"display"`
	Bootstrap *Bootstrap  `json:"bootstrap,omitempty"`
}

type projectWire struct {
	Name     string `json:"name"`
	Template string `json:"template"`
	ID       string `json:"id"`
}

// MarshalJSON writes the nested on-disk shape of the descriptor.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return marshalCompact(descriptorWire{
		Format:  d.Format,
		Version: d.SchemaVersion,
		Project: projectWire{
			Name:     d.Name,
			Template: d.TemplateID,
			ID:       d.ProjectID,
		},
		Display:   d.Display,
		Bootstrap: d.Bootstrap,
	})
}

// UnmarshalJSON reads the on-disk shape, filling omitted fields with their
// defaults. A bootstrap section without a layers key decodes with nil Layers;
// upgrading legacy sections is the loader's job.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	wire := descriptorWire{
		Format:  DescriptorFormat,
		Version: DescriptorVersion,
		Project: projectWire{Template: DefaultTemplateID},
		Display: DefaultDisplay(),
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = Descriptor{
		Format:        wire.Format,
		SchemaVersion: wire.Version,
		Name:          wire.Project.Name,
		TemplateID:    wire.Project.Template,
		ProjectID:     wire.Project.ID,
		Display:       wire.Display,
		Bootstrap:     wire.Bootstrap,
	}
	return nil
}

// UnmarshalJSON fills width, height and format defaults.
func (d *Display) UnmarshalJSON(data []byte) error {
	type alias Display
	a := alias(DefaultDisplay())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Display(a)
	return nil
}

// UnmarshalJSON fills the mode default.
func (b *Bootstrap) UnmarshalJSON(data []byte) error {
	type alias Bootstrap
	a := alias{Mode: DefaultBootstrapMode}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Bootstrap(a)
	return nil
}

// UnmarshalJSON makes omitted layers fully opaque and enabled.
func (l *Layer) UnmarshalJSON(data []byte) error {
	type alias Layer
	a := alias{Alpha: DefaultLayerAlpha, Enabled: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = Layer(a)
	return nil
}

// Validate checks the invariants a loaded or freshly built descriptor must
// hold. A bootstrap section always carries at least one layer.
func (d *Descriptor) Validate() error {
	if d.Format != DescriptorFormat {
		return fmt.Errorf("format %q is not %s", d.Format, DescriptorFormat)
	}
	if d.SchemaVersion < 1 || d.SchemaVersion > DescriptorVersion {
		return fmt.Errorf("version %d is not supported (max %d)", d.SchemaVersion, DescriptorVersion)
	}
	if err := d.Display.Validate(); err != nil {
		return err
	}
	if d.Bootstrap == nil {
		return nil
	}
	if d.Bootstrap.Mode != BootstrapLTDC {
		return fmt.Errorf("bootstrap.mode %q is not supported", d.Bootstrap.Mode)
	}
	if len(d.Bootstrap.Layers) == 0 {
		return fmt.Errorf("bootstrap.layers must not be empty")
	}
	seen := make(map[int]bool, len(d.Bootstrap.Layers))
	for i, layer := range d.Bootstrap.Layers {
		if layer.ID < 0 {
			return fmt.Errorf("bootstrap.layers[%d].id must not be negative", i)
		}
		if seen[layer.ID] {
			return fmt.Errorf("bootstrap.layers[%d].id %d is duplicated", i, layer.ID)
		}
		seen[layer.ID] = true
		if layer.Alpha < 0 || layer.Alpha > 255 {
			return fmt.Errorf("bootstrap.layers[%d].alpha %d out of range 0-255", i, layer.Alpha)
		}
		if !strings.HasPrefix(layer.CollectionPath, "/") {
			return fmt.Errorf("bootstrap.layers[%d].collection %q must begin with /", i, layer.CollectionPath)
		}
	}
	return nil
}

// Validate checks the display dimensions and pixel format.
func (d Display) Validate() error {
	if d.Width < 1 || d.Width > MaxDisplaySize {
		return fmt.Errorf("display.width %d out of range 1-%d", d.Width, MaxDisplaySize)
	}
	if d.Height < 1 || d.Height > MaxDisplaySize {
		return fmt.Errorf("display.height %d out of range 1-%d", d.Height, MaxDisplaySize)
	}
	if !d.PixelFormat.Valid() {
		return fmt.Errorf("display.format %q is not supported", d.PixelFormat)
	}
	return nil
}
