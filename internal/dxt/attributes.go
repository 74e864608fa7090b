package dxt

import "errors"

// ErrBadArgument is returned when a nil block, nil attributes or nil
// destination is passed to a codec entry point.
var ErrBadArgument = errors.New("dxt: bad argument")

// ColorSelection picks the heuristic used to choose the two reference
// colors for a block.
type ColorSelection int

const (
	// SelectEuclidean picks the farthest pair of pixels by squared
	// RGB distance, examining all 120 pairs.
	SelectEuclidean ColorSelection = iota
	// SelectBoundingBox takes the componentwise bounding box, flips
	// its diagonal toward the block's covariance and insets both
	// corners by 1/16 of the box extent.
	SelectBoundingBox
	// SelectLuminance picks the pixels with minimum and maximum
	// r + g + 2b luminance.
	SelectLuminance
)

// DefaultAlphaThreshold is the alpha value below which a pixel is
// encoded as transparent in a DXT1 3-color block.
const DefaultAlphaThreshold = 128

// Attributes configures block compression.
type Attributes struct {
	Selection      ColorSelection
	AlphaThreshold uint8
}

// DefaultAttributes returns the configuration used when callers pass
// no explicit preferences.
func DefaultAttributes() *Attributes {
	return &Attributes{
		Selection:      SelectEuclidean,
		AlphaThreshold: DefaultAlphaThreshold,
	}
}
