package dxt

// DecompressorDXT1 expands packed DXT1 blocks back into 4x4 color
// blocks. The zero value is ready to use. Not safe for concurrent use.
type DecompressorDXT1 struct {
	palette [4]Color32
}

// DecompressBlockDXT1 expands src into dst, rebuilding the 4-color or
// 3-color palette according to the stored reference color order.
func (d *DecompressorDXT1) DecompressBlockDXT1(src *BlockDXT1, dst *ColorBlock) error {
	if src == nil || dst == nil {
		return ErrBadArgument
	}
	d.buildPalette(src)
	mask := src.IndexMask
	for i := range dst.Color {
		dst.Color[i] = d.palette[mask&3]
		mask >>= 2
	}
	return nil
}

func (d *DecompressorDXT1) buildPalette(src *BlockDXT1) {
	Unpack565(src.Color0, &d.palette[0])
	Unpack565(src.Color1, &d.palette[1])
	if src.Color0 > src.Color1 {
		// Opaque 4-color layout: 1/3 and 2/3 interpolations.
		d.palette[2] = Color32{
			A: 255,
			R: uint8((2*int(d.palette[0].R) + int(d.palette[1].R)) / 3),
			G: uint8((2*int(d.palette[0].G) + int(d.palette[1].G)) / 3),
			B: uint8((2*int(d.palette[0].B) + int(d.palette[1].B)) / 3),
		}
		d.palette[3] = Color32{
			A: 255,
			R: uint8((int(d.palette[0].R) + 2*int(d.palette[1].R)) / 3),
			G: uint8((int(d.palette[0].G) + 2*int(d.palette[1].G)) / 3),
			B: uint8((int(d.palette[0].B) + 2*int(d.palette[1].B)) / 3),
		}
	} else {
		// 3-color layout: midpoint plus transparent black.
		d.palette[2] = Color32{
			A: 255,
			R: uint8((int(d.palette[0].R) + int(d.palette[1].R)) / 2),
			G: uint8((int(d.palette[0].G) + int(d.palette[1].G)) / 2),
			B: uint8((int(d.palette[0].B) + int(d.palette[1].B)) / 2),
		}
		d.palette[3] = Color32{}
	}
}

// DecompressorDXT3 expands packed DXT3 blocks. The zero value is ready
// to use. Not safe for concurrent use.
type DecompressorDXT3 struct {
	color DecompressorDXT1
}

// DecompressBlockDXT3 expands src into dst. The explicit alpha nibbles
// override whatever alpha the color palette produced.
func (d *DecompressorDXT3) DecompressBlockDXT3(src *BlockDXT3, dst *ColorBlock) error {
	if src == nil || dst == nil {
		return ErrBadArgument
	}
	if err := d.color.DecompressBlockDXT1(&src.Color, dst); err != nil {
		return err
	}
	alpha := src.Alpha.Values
	for i := range dst.Color {
		nibble := uint8(alpha & 0xf)
		dst.Color[i].A = nibble<<4 | nibble
		alpha >>= 4
	}
	return nil
}
