package dds

import (
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/globeviz/texstore/internal/dxt"
)

// CompressedSize returns the byte size of one image level compressed
// with 4x4 blocks of blockSize bytes.
func CompressedSize(width, height, blockSize int) int {
	return ((width + 3) / 4) * ((height + 3) / 4) * blockSize
}

func blockSize(format Format) int {
	if format == FormatDXT3 {
		return dxt.BlockSizeDXT3
	}
	return dxt.BlockSizeDXT1
}

func fourCC(format Format) uint32 {
	if format == FormatDXT3 {
		return FourCCDXT3
	}
	return FourCCDXT1
}

// Compress encodes img as a DDS byte buffer. Image dimensions must be
// powers of two. attrs may be nil, which means the default
// configuration.
func Compress(img image.Image, attrs *CompressionAttributes) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrBadArgument)
	}
	if attrs == nil {
		attrs = DefaultCompressionAttributes()
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if !isPowerOfTwo(width) || !isPowerOfTwo(height) {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotPowerOfTwo, width, height)
	}

	rgba := toRGBA(img, attrs.PremultiplyAlpha)

	format := attrs.Format
	if format == FormatAuto {
		if hasAlpha(rgba) {
			format = FormatDXT3
		} else {
			format = FormatDXT1
		}
	}

	levels := []*image.RGBA{rgba}
	if attrs.BuildMipMaps {
		levels = BuildMipMaps(rgba)
	}

	size := blockSize(format)
	total := 0
	for _, level := range levels {
		total += CompressedSize(level.Bounds().Dx(), level.Bounds().Dy(), size)
	}

	var mipMapCount uint32
	if attrs.BuildMipMaps && len(levels) > 1 {
		mipMapCount = uint32(len(levels))
	}

	header := NewHeader(
		uint32(width), uint32(height),
		uint32(CompressedSize(width, height, size)),
		fourCC(format), mipMapCount,
	)
	out := make([]byte, 0, HeaderBytes+total)
	out = header.AppendTo(out)

	// One compressor per goroutine; block codec scratch buffers are
	// not safe to share.
	compressed := make([][]byte, len(levels))
	g := new(errgroup.Group)
	g.SetLimit(4)
	for i, level := range levels {
		g.Go(func() error {
			data, err := compressLevel(level, format, attrs)
			if err != nil {
				return fmt.Errorf("compress mip level %d: %w", i, err)
			}
			compressed[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, data := range compressed {
		out = append(out, data...)
	}
	return out, nil
}

func compressLevel(level *image.RGBA, format Format, attrs *CompressionAttributes) ([]byte, error) {
	width := level.Bounds().Dx()
	height := level.Bounds().Dy()
	out := make([]byte, 0, CompressedSize(width, height, blockSize(format)))

	battrs := attrs.blockAttributes()
	var block dxt.ColorBlock
	var comp1 dxt.CompressorDXT1
	var comp3 dxt.CompressorDXT3
	var packed1 dxt.BlockDXT1
	var packed3 dxt.BlockDXT3

	for by := 0; by < height; by += 4 {
		for bx := 0; bx < width; bx += 4 {
			dxt.ExtractBlock(level, bx, by, &block)

			switch format {
			case FormatDXT3:
				if err := comp3.CompressBlockDXT3(&block, battrs, &packed3); err != nil {
					return nil, err
				}
				out = packed3.AppendTo(out)
			default:
				var err error
				if attrs.EnableDXT1Alpha && block.HasTranslucency(attrs.AlphaThreshold) {
					err = comp1.CompressBlockDXT1a(&block, battrs, &packed1)
				} else {
					err = comp1.CompressBlockDXT1(&block, battrs, &packed1)
				}
				if err != nil {
					return nil, err
				}
				out = packed1.AppendTo(out)
			}
		}
	}
	return out, nil
}
