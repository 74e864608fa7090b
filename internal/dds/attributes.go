package dds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/globeviz/texstore/internal/dxt"
)

// Format selects the block compression written into the container.
type Format int

const (
	// FormatAuto picks DXT1 for fully opaque images and DXT3
	// otherwise.
	FormatAuto Format = iota
	FormatDXT1
	FormatDXT3
)

func (f Format) String() string {
	switch f {
	case FormatDXT1:
		return "DXT1"
	case FormatDXT3:
		return "DXT3"
	default:
		return "auto"
	}
}

// CompressionAttributes configures full-image compression.
type CompressionAttributes struct {
	// Format forces a block codec; FormatAuto selects by alpha
	// presence.
	Format Format
	// BuildMipMaps stores a full mipmap chain after the base image.
	BuildMipMaps bool
	// PremultiplyAlpha premultiplies color channels before
	// downsampling so transparent pixels do not bleed into mip
	// levels.
	PremultiplyAlpha bool
	// EnableDXT1Alpha encodes DXT1 blocks containing translucent
	// pixels in the 3-color transparent layout.
	EnableDXT1Alpha bool
	// AlphaThreshold is the alpha below which a DXT1 3-color pixel
	// encodes as transparent.
	AlphaThreshold uint8
	// ColorSelection picks the reference color heuristic.
	ColorSelection dxt.ColorSelection
}

// DefaultCompressionAttributes returns the configuration used when
// callers pass nil attributes.
func DefaultCompressionAttributes() *CompressionAttributes {
	return &CompressionAttributes{
		Format:           FormatAuto,
		BuildMipMaps:     true,
		PremultiplyAlpha: true,
		AlphaThreshold:   dxt.DefaultAlphaThreshold,
		ColorSelection:   dxt.SelectEuclidean,
	}
}

func (a *CompressionAttributes) blockAttributes() *dxt.Attributes {
	return &dxt.Attributes{
		Selection:      a.ColorSelection,
		AlphaThreshold: a.AlphaThreshold,
	}
}

// attributesFile is the YAML shape of a compression preset. Absent
// fields keep their defaults.
type attributesFile struct {
	Format           *string `yaml:"format"`
	MipMaps          *bool   `yaml:"mipmaps"`
	PremultiplyAlpha *bool   `yaml:"premultiply_alpha"`
	DXT1Alpha        *bool   `yaml:"dxt1_alpha"`
	AlphaThreshold   *int    `yaml:"alpha_threshold"`
	ColorSelector    *string `yaml:"color_selector"`
}

// LoadAttributes reads a YAML compression preset, applying the file's
// fields over the defaults.
func LoadAttributes(path string) (*CompressionAttributes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset %q: %w", path, err)
	}

	var file attributesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse preset %q: %w", path, err)
	}

	attrs := DefaultCompressionAttributes()
	if file.Format != nil {
		switch *file.Format {
		case "auto":
			attrs.Format = FormatAuto
		case "dxt1":
			attrs.Format = FormatDXT1
		case "dxt3":
			attrs.Format = FormatDXT3
		default:
			return nil, fmt.Errorf("preset %q: unknown format %q", path, *file.Format)
		}
	}
	if file.MipMaps != nil {
		attrs.BuildMipMaps = *file.MipMaps
	}
	if file.PremultiplyAlpha != nil {
		attrs.PremultiplyAlpha = *file.PremultiplyAlpha
	}
	if file.DXT1Alpha != nil {
		attrs.EnableDXT1Alpha = *file.DXT1Alpha
	}
	if file.AlphaThreshold != nil {
		if *file.AlphaThreshold < 0 || *file.AlphaThreshold > 255 {
			return nil, fmt.Errorf("preset %q: alpha_threshold %d out of range", path, *file.AlphaThreshold)
		}
		attrs.AlphaThreshold = uint8(*file.AlphaThreshold)
	}
	if file.ColorSelector != nil {
		switch *file.ColorSelector {
		case "euclidean":
			attrs.ColorSelection = dxt.SelectEuclidean
		case "box":
			attrs.ColorSelection = dxt.SelectBoundingBox
		case "luminance":
			attrs.ColorSelection = dxt.SelectLuminance
		default:
			return nil, fmt.Errorf("preset %q: unknown color_selector %q", path, *file.ColorSelector)
		}
	}
	return attrs, nil
}
