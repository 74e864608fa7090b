package dxt

// CompressorDXT1 compresses 4x4 color blocks into packed DXT1 blocks.
// The zero value is ready to use. Instances reuse internal scratch
// buffers and must not be shared between goroutines.
type CompressorDXT1 struct {
	minColor Color32
	maxColor Color32
	palette  [4]Color32
}

// CompressBlockDXT1 encodes block as an opaque 4-color DXT1 block,
// ignoring alpha entirely.
func (c *CompressorDXT1) CompressBlockDXT1(block *ColorBlock, attrs *Attributes, dst *BlockDXT1) error {
	if block == nil || attrs == nil || dst == nil {
		return ErrBadArgument
	}

	chooseMinMaxColors(block, attrs, &c.minColor, &c.maxColor)
	color0 := Pack565(&c.maxColor)
	color1 := Pack565(&c.minColor)
	// color0 > color1 selects the 4-color palette on decode.
	if color0 < color1 {
		color0, color1 = color1, color0
	}

	c.buildPalette4(color0, color1)
	dst.Color0 = color0
	dst.Color1 = color1
	dst.IndexMask = c.paletteIndices4(block)
	return nil
}

// CompressBlockDXT1a encodes block as a 3-color DXT1 block whose
// fourth palette entry is transparent black. Pixels with alpha below
// attrs.AlphaThreshold encode as transparent.
func (c *CompressorDXT1) CompressBlockDXT1a(block *ColorBlock, attrs *Attributes, dst *BlockDXT1) error {
	if block == nil || attrs == nil || dst == nil {
		return ErrBadArgument
	}

	chooseMinMaxColors(block, attrs, &c.minColor, &c.maxColor)
	color0 := Pack565(&c.maxColor)
	color1 := Pack565(&c.minColor)
	// color0 <= color1 selects the 3-color palette on decode.
	if color0 > color1 {
		color0, color1 = color1, color0
	}

	c.buildPalette3(color0, color1)
	dst.Color0 = color0
	dst.Color1 = color1
	dst.IndexMask = c.paletteIndices3(block, attrs.AlphaThreshold)
	return nil
}

// buildPalette4 fills the scratch palette with the two reference
// colors and their 1/3 and 2/3 interpolations.
func (c *CompressorDXT1) buildPalette4(color0, color1 uint16) {
	Unpack565(color0, &c.palette[0])
	Unpack565(color1, &c.palette[1])
	c.palette[2] = Color32{
		A: 255,
		R: uint8((2*int(c.palette[0].R) + int(c.palette[1].R)) / 3),
		G: uint8((2*int(c.palette[0].G) + int(c.palette[1].G)) / 3),
		B: uint8((2*int(c.palette[0].B) + int(c.palette[1].B)) / 3),
	}
	c.palette[3] = Color32{
		A: 255,
		R: uint8((int(c.palette[0].R) + 2*int(c.palette[1].R)) / 3),
		G: uint8((int(c.palette[0].G) + 2*int(c.palette[1].G)) / 3),
		B: uint8((int(c.palette[0].B) + 2*int(c.palette[1].B)) / 3),
	}
}

// buildPalette3 fills the scratch palette with the two reference
// colors, their midpoint and transparent black.
func (c *CompressorDXT1) buildPalette3(color0, color1 uint16) {
	Unpack565(color0, &c.palette[0])
	Unpack565(color1, &c.palette[1])
	c.palette[2] = Color32{
		A: 255,
		R: uint8((int(c.palette[0].R) + int(c.palette[1].R)) / 2),
		G: uint8((int(c.palette[0].G) + int(c.palette[1].G)) / 2),
		B: uint8((int(c.palette[0].B) + int(c.palette[1].B)) / 2),
	}
	c.palette[3] = Color32{}
}

// greaterThan returns 1 when a > b and 0 otherwise, without branching.
// Distances are bounded by 3*255*255 so int32 arithmetic cannot
// overflow.
func greaterThan(a, b int32) uint32 {
	return uint32(b-a) >> 31
}

// paletteIndices4 derives each pixel's 2-bit palette index from five
// pairwise distance comparisons and packs the sixteen indices into a
// 32-bit mask, pixel 0 in the low bits.
func (c *CompressorDXT1) paletteIndices4(block *ColorBlock) uint32 {
	var mask uint32
	for i := range block.Color {
		d0 := int32(distanceSquared(&c.palette[0], &block.Color[i]))
		d1 := int32(distanceSquared(&c.palette[1], &block.Color[i]))
		d2 := int32(distanceSquared(&c.palette[2], &block.Color[i]))
		d3 := int32(distanceSquared(&c.palette[3], &block.Color[i]))

		b0 := greaterThan(d0, d3)
		b1 := greaterThan(d1, d2)
		b2 := greaterThan(d0, d2)
		b3 := greaterThan(d1, d3)
		b4 := greaterThan(d2, d3)

		x0 := b1 & b2
		x1 := b0 & b3
		x2 := b0 & b4
		index := x2 | (x0|x1)<<1

		mask |= index << (uint(i) * 2)
	}
	return mask
}

// paletteIndices3 assigns index 3 (transparent) to pixels under the
// alpha threshold and otherwise the nearest of the three opaque
// palette entries, ties resolved toward the lower index.
func (c *CompressorDXT1) paletteIndices3(block *ColorBlock, threshold uint8) uint32 {
	var mask uint32
	for i := range block.Color {
		var index uint32
		if block.Color[i].A < threshold {
			index = 3
		} else {
			d0 := distanceSquared(&c.palette[0], &block.Color[i])
			d1 := distanceSquared(&c.palette[1], &block.Color[i])
			d2 := distanceSquared(&c.palette[2], &block.Color[i])
			switch {
			case d0 <= d1 && d0 <= d2:
				index = 0
			case d1 <= d2:
				index = 1
			default:
				index = 2
			}
		}
		mask |= index << (uint(i) * 2)
	}
	return mask
}

// CompressorDXT3 compresses 4x4 color blocks into packed DXT3 blocks.
// The zero value is ready to use. Not safe for concurrent use.
type CompressorDXT3 struct {
	color CompressorDXT1
}

// CompressBlockDXT3 encodes block with explicit 4-bit per-pixel alpha
// followed by an opaque DXT1 color block.
func (c *CompressorDXT3) CompressBlockDXT3(block *ColorBlock, attrs *Attributes, dst *BlockDXT3) error {
	if block == nil || attrs == nil || dst == nil {
		return ErrBadArgument
	}

	var alpha uint64
	for i := range block.Color {
		alpha |= uint64(block.Color[i].A>>4) << (uint(i) * 4)
	}
	dst.Alpha.Values = alpha

	return c.color.CompressBlockDXT1(block, attrs, &dst.Color)
}
