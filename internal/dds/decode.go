package dds

import (
	"fmt"
	"image"
	"os"

	"github.com/globeviz/texstore/internal/dxt"
)

// Extent is the geographic bounding box a decompressed raster covers.
// The codec does not interpret it; it is threaded through to the
// produced rasters for the caller's benefit.
type Extent struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Raster is one decompressed image level and the extent it covers.
type Raster struct {
	Image  *image.RGBA
	Extent Extent
}

// Decompress parses a DDS buffer and expands its pixel data. The
// result has one raster per stored mipmap level, full resolution
// first; files without a mipmap chain yield a single raster. The
// extent is required and copied onto every produced raster.
//
// Callers may hand in a memory-mapped region; the buffer is only read.
func Decompress(data []byte, extent *Extent) ([]*Raster, error) {
	if data == nil || extent == nil {
		return nil, fmt.Errorf("%w: nil data or extent", ErrBadArgument)
	}

	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	var size int
	switch header.PixelFormat.FourCC {
	case FourCCDXT1:
		size = dxt.BlockSizeDXT1
	case FourCCDXT3:
		size = dxt.BlockSizeDXT3
	default:
		return nil, fmt.Errorf("%w: fourCC %q", ErrUnsupportedFormat, FourCCString(header.PixelFormat.FourCC))
	}

	levels := int(header.MipMapCount)
	if levels == 0 {
		levels = 1
	}

	payload := data[HeaderBytes:]
	width := int(header.Width)
	height := int(header.Height)
	offset := 0

	rasters := make([]*Raster, 0, levels)
	for level := 0; level < levels; level++ {
		if level > 0 && (width < minMipDimension || height < minMipDimension) {
			break
		}
		length := CompressedSize(width, height, size)
		if offset+length > len(payload) {
			return nil, fmt.Errorf("%w: mip level %d needs %d bytes, %d remain",
				ErrMalformedHeader, level, length, len(payload)-offset)
		}

		img, err := decompressLevel(payload[offset:offset+length], width, height, header.PixelFormat.FourCC)
		if err != nil {
			return nil, fmt.Errorf("decompress mip level %d: %w", level, err)
		}
		rasters = append(rasters, &Raster{Image: img, Extent: *extent})

		// Standard mip progression: each level is a quarter of the
		// previous.
		offset += length
		width /= 2
		height /= 2
	}
	return rasters, nil
}

// DecompressFile reads and decompresses a DDS file. Read failures are
// reported as wrapped I/O errors, distinguishable from header and
// argument errors.
func DecompressFile(path string, extent *Extent) ([]*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	rasters, err := Decompress(data, extent)
	if err != nil {
		return nil, fmt.Errorf("decompress %q: %w", path, err)
	}
	return rasters, nil
}

func decompressLevel(payload []byte, width, height int, cc uint32) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	var block dxt.ColorBlock
	var dec1 dxt.DecompressorDXT1
	var dec3 dxt.DecompressorDXT3
	var packed1 dxt.BlockDXT1
	var packed3 dxt.BlockDXT3

	off := 0
	for by := 0; by < height; by += 4 {
		for bx := 0; bx < width; bx += 4 {
			var err error
			if cc == FourCCDXT3 {
				packed3.ReadFrom(payload[off:])
				err = dec3.DecompressBlockDXT3(&packed3, &block)
				off += dxt.BlockSizeDXT3
			} else {
				packed1.ReadFrom(payload[off:])
				err = dec1.DecompressBlockDXT1(&packed1, &block)
				off += dxt.BlockSizeDXT1
			}
			if err != nil {
				return nil, err
			}
			writeBlock(img, bx, by, &block)
		}
	}
	return img, nil
}

func writeBlock(img *image.RGBA, x, y int, block *dxt.ColorBlock) {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	i := 0
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 4; dx++ {
			px := x + dx
			py := y + dy
			if px < width && py < height {
				off := py*img.Stride + px*4
				img.Pix[off+0] = block.Color[i].R
				img.Pix[off+1] = block.Color[i].G
				img.Pix[off+2] = block.Color[i].B
				img.Pix[off+3] = block.Color[i].A
			}
			i++
		}
	}
}
