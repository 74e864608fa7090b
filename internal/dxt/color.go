// Package dxt implements DXT1 and DXT3 block compression and
// decompression for 4x4 pixel tiles.
//
// Compressor and decompressor instances own scratch buffers that are
// reused across calls, so a single instance must not be shared between
// goroutines. Use one instance per goroutine or guard calls with a
// mutex.
package dxt

import "image"

// Color32 is an 8-bit-per-channel ARGB color value.
type Color32 struct {
	A, R, G, B uint8
}

// CopyFrom overwrites c with the channels of other.
func (c *Color32) CopyFrom(other *Color32) {
	c.A = other.A
	c.R = other.R
	c.G = other.G
	c.B = other.B
}

// minColors stores the componentwise minimum of a and b in dst.
func minColors(dst, a, b *Color32) {
	dst.A = min(a.A, b.A)
	dst.R = min(a.R, b.R)
	dst.G = min(a.G, b.G)
	dst.B = min(a.B, b.B)
}

// maxColors stores the componentwise maximum of a and b in dst.
func maxColors(dst, a, b *Color32) {
	dst.A = max(a.A, b.A)
	dst.R = max(a.R, b.R)
	dst.G = max(a.G, b.G)
	dst.B = max(a.B, b.B)
}

// distanceSquared returns the squared euclidean distance between a and
// b over the R, G and B channels. Alpha is excluded: transparency is
// classified separately from color matching.
func distanceSquared(a, b *Color32) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// luminance returns the r + g + 2b luminance approximation.
func luminance(c *Color32) int {
	return int(c.R) + int(c.G) + 2*int(c.B)
}

// ColorBlock is a 4x4 tile of pixels, row major, pixel (0,0) first.
type ColorBlock struct {
	Color [16]Color32
}

// HasTranslucency reports whether any pixel's alpha is below threshold.
func (b *ColorBlock) HasTranslucency(threshold uint8) bool {
	for i := range b.Color {
		if b.Color[i].A < threshold {
			return true
		}
	}
	return false
}

// ExtractBlock fills dst with the 4x4 region of img whose top-left
// corner is (x, y). Coordinates past the image edge are clamped to the
// nearest edge pixel, so partial edge blocks repeat their border.
func ExtractBlock(img *image.RGBA, x, y int, dst *ColorBlock) {
	bounds := img.Bounds()
	i := 0
	for dy := 0; dy < 4; dy++ {
		sy := min(y+dy, bounds.Max.Y-1)
		for dx := 0; dx < 4; dx++ {
			sx := min(x+dx, bounds.Max.X-1)
			off := (sy-bounds.Min.Y)*img.Stride + (sx-bounds.Min.X)*4
			dst.Color[i] = Color32{
				R: img.Pix[off+0],
				G: img.Pix[off+1],
				B: img.Pix[off+2],
				A: img.Pix[off+3],
			}
			i++
		}
	}
}
