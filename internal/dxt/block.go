package dxt

import "encoding/binary"

// Block sizes in bytes for one compressed 4x4 tile.
const (
	BlockSizeDXT1 = 8
	BlockSizeDXT3 = 16
)

// BlockDXT1 is a packed DXT1 color block: two 565 reference colors and
// a 2-bit-per-pixel palette index mask, pixel 0 in the low bits.
//
// When Color0 > Color1 the block decodes with the opaque 4-color
// palette; otherwise with the 3-color palette whose fourth entry is
// transparent black.
type BlockDXT1 struct {
	Color0    uint16
	Color1    uint16
	IndexMask uint32
}

// AppendTo appends the block's 8-byte little-endian wire form to dst.
func (b *BlockDXT1) AppendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, b.Color0)
	dst = binary.LittleEndian.AppendUint16(dst, b.Color1)
	dst = binary.LittleEndian.AppendUint32(dst, b.IndexMask)
	return dst
}

// ReadFrom fills the block from the first 8 bytes of src.
func (b *BlockDXT1) ReadFrom(src []byte) {
	b.Color0 = binary.LittleEndian.Uint16(src[0:2])
	b.Color1 = binary.LittleEndian.Uint16(src[2:4])
	b.IndexMask = binary.LittleEndian.Uint32(src[4:8])
}

// AlphaBlockDXT3 holds sixteen explicit 4-bit alpha values, pixel 0 in
// the low nibble.
type AlphaBlockDXT3 struct {
	Values uint64
}

// AppendTo appends the 8-byte little-endian alpha block to dst.
func (a *AlphaBlockDXT3) AppendTo(dst []byte) []byte {
	return binary.LittleEndian.AppendUint64(dst, a.Values)
}

// ReadFrom fills the alpha block from the first 8 bytes of src.
func (a *AlphaBlockDXT3) ReadFrom(src []byte) {
	a.Values = binary.LittleEndian.Uint64(src[0:8])
}

// BlockDXT3 is a packed DXT3 block: explicit 4-bit alpha followed by a
// DXT1-style opaque color block.
type BlockDXT3 struct {
	Alpha AlphaBlockDXT3
	Color BlockDXT1
}

// AppendTo appends the block's 16-byte little-endian wire form to dst.
func (b *BlockDXT3) AppendTo(dst []byte) []byte {
	dst = b.Alpha.AppendTo(dst)
	return b.Color.AppendTo(dst)
}

// ReadFrom fills the block from the first 16 bytes of src.
func (b *BlockDXT3) ReadFrom(src []byte) {
	b.Alpha.ReadFrom(src[0:8])
	b.Color.ReadFrom(src[8:16])
}

// mul8bit computes round(a*b/255) without division. The (t>>8)
// refinement term reproduces the reference encoder's rounding exactly.
func mul8bit(a, b int) int {
	t := a*b + 128
	return (t + (t >> 8)) >> 8
}

// Pack565 quantizes an 8-bit RGB color to a 16-bit 565 value.
func Pack565(c *Color32) uint16 {
	r := mul8bit(int(c.R), 31)
	g := mul8bit(int(c.G), 63)
	b := mul8bit(int(c.B), 31)
	return uint16(r<<11 | g<<5 | b)
}

// Unpack565 expands a 16-bit 565 value to 8-bit channels, replicating
// each field's high bits into the low bits. Alpha is set opaque.
func Unpack565(v uint16, dst *Color32) {
	r5 := uint8(v >> 11 & 0x1f)
	g6 := uint8(v >> 5 & 0x3f)
	b5 := uint8(v & 0x1f)
	dst.A = 255
	dst.R = r5<<3 | r5>>2
	dst.G = g6<<2 | g6>>4
	dst.B = b5<<3 | b5>>2
}
