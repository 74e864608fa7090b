package dds

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// minMipDimension is the smallest mip level edge stored; chain
// generation stops before either dimension drops below it.
const minMipDimension = 4

// BuildMipMaps returns src followed by successively half-resolution
// levels. Levels are resampled with a bilinear kernel in premultiplied
// space (image.RGBA is premultiplied by definition), so transparent
// pixels do not bleed color into smaller levels.
func BuildMipMaps(src *image.RGBA) []*image.RGBA {
	levels := []*image.RGBA{src}
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	prev := src
	for w/2 >= minMipDimension && h/2 >= minMipDimension {
		w /= 2
		h /= 2
		next := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(next, next.Bounds(), prev, prev.Bounds(), xdraw.Src, nil)
		levels = append(levels, next)
		prev = next
	}
	return levels
}

// toRGBA returns img as *image.RGBA anchored at the origin. When
// premultiply is false and the source carries non-premultiplied
// channels, the raw channel values are copied through unchanged;
// otherwise the standard draw conversion premultiplies.
func toRGBA(img image.Image, premultiply bool) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == image.Pt(0, 0) {
		return rgba
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if nrgba, ok := img.(*image.NRGBA); ok && !premultiply {
		for y := 0; y < bounds.Dy(); y++ {
			srcOff := y * nrgba.Stride
			dstOff := y * dst.Stride
			copy(dst.Pix[dstOff:dstOff+bounds.Dx()*4], nrgba.Pix[srcOff:srcOff+bounds.Dx()*4])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// hasAlpha reports whether any pixel is not fully opaque.
func hasAlpha(img *image.RGBA) bool {
	bounds := img.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+bounds.Dx()*4]
		for x := 3; x < len(row); x += 4 {
			if row[x] != 255 {
				return true
			}
		}
	}
	return false
}
