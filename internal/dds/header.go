// Package dds reads and writes the DDS container format around the
// DXT block codec: a 4-byte magic, a 124-byte little-endian header
// with an embedded 32-byte pixel format, then compressed block data
// for the full image and any mipmap levels in decreasing size order.
package dds

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic is the little-endian "DDS " marker at offset 0.
	Magic = 0x20534444

	headerSize      = 124
	pixelFormatSize = 32

	// HeaderBytes is the total size of magic plus header; pixel data
	// starts at this offset.
	HeaderBytes = 4 + headerSize

	// pixel format offset within the 124-byte header
	pfOffset = 72
)

// Header flag bits.
const (
	DDSD_CAPS        = 0x1
	DDSD_HEIGHT      = 0x2
	DDSD_WIDTH       = 0x4
	DDSD_PITCH       = 0x8
	DDSD_PIXELFORMAT = 0x1000
	DDSD_MIPMAPCOUNT = 0x20000
	DDSD_LINEARSIZE  = 0x80000
	DDSD_DEPTH       = 0x800000
)

// Pixel format and caps flag bits.
const (
	DDPF_FOURCC = 0x4

	DDSCAPS_COMPLEX = 0x8
	DDSCAPS_TEXTURE = 0x1000
	DDSCAPS_MIPMAP  = 0x400000
)

// Four-character compression codes, packed little-endian.
const (
	FourCCDXT1 = 0x31545844 // "DXT1"
	FourCCDXT3 = 0x33545844 // "DXT3"
)

var (
	// ErrBadArgument reports a nil or invalid caller argument.
	ErrBadArgument = errors.New("dds: bad argument")
	// ErrNotPowerOfTwo reports image dimensions the container cannot
	// carry.
	ErrNotPowerOfTwo = errors.New("dds: image dimensions must be powers of two")
	// ErrMalformedHeader reports a truncated or structurally invalid
	// header.
	ErrMalformedHeader = errors.New("dds: malformed header")
	// ErrUnsupportedFormat reports a pixel format this codec does not
	// decode.
	ErrUnsupportedFormat = errors.New("dds: unsupported pixel format")
)

// FourCCString renders a packed four-character code for error
// messages.
func FourCCString(cc uint32) string {
	return string([]byte{byte(cc), byte(cc >> 8), byte(cc >> 16), byte(cc >> 24)})
}

// PixelFormat mirrors the 32-byte pixel format sub-block embedded at
// a fixed offset within the header.
type PixelFormat struct {
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RMask       uint32
	GMask       uint32
	BMask       uint32
	AMask       uint32
}

// Header mirrors the 124-byte DDS header. The size fields of the
// header and pixel format are fixed by the format and written
// implicitly.
type Header struct {
	Flags       uint32
	Height      uint32
	Width       uint32
	LinearSize  uint32
	Depth       uint32
	MipMapCount uint32
	PixelFormat PixelFormat
	Caps        uint32
	Caps2       uint32
	Caps3       uint32
	Caps4       uint32
}

// NewHeader builds a header for a compressed texture. mipMapCount is
// the total number of levels including the full image; pass 0 when no
// mipmap chain is stored.
func NewHeader(width, height, linearSize, fourCC, mipMapCount uint32) *Header {
	h := &Header{
		Flags:      DDSD_CAPS | DDSD_HEIGHT | DDSD_WIDTH | DDSD_PIXELFORMAT | DDSD_LINEARSIZE,
		Height:     height,
		Width:      width,
		LinearSize: linearSize,
		PixelFormat: PixelFormat{
			Flags:  DDPF_FOURCC,
			FourCC: fourCC,
		},
		Caps: DDSCAPS_TEXTURE,
	}
	if mipMapCount > 0 {
		h.Flags |= DDSD_MIPMAPCOUNT
		h.MipMapCount = mipMapCount
		h.Caps |= DDSCAPS_COMPLEX | DDSCAPS_MIPMAP
	}
	return h
}

// AppendTo appends the magic and the full 124-byte header to dst.
func (h *Header) AppendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, Magic)

	var raw [headerSize]byte
	put := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(raw[off:], v)
	}
	put(0, headerSize)
	put(4, h.Flags)
	put(8, h.Height)
	put(12, h.Width)
	put(16, h.LinearSize)
	put(20, h.Depth)
	put(24, h.MipMapCount)
	// 28..71: reserved

	put(pfOffset+0, pixelFormatSize)
	put(pfOffset+4, h.PixelFormat.Flags)
	put(pfOffset+8, h.PixelFormat.FourCC)
	put(pfOffset+12, h.PixelFormat.RGBBitCount)
	put(pfOffset+16, h.PixelFormat.RMask)
	put(pfOffset+20, h.PixelFormat.GMask)
	put(pfOffset+24, h.PixelFormat.BMask)
	put(pfOffset+28, h.PixelFormat.AMask)

	put(104, h.Caps)
	put(108, h.Caps2)
	put(112, h.Caps3)
	put(116, h.Caps4)
	// 120..123: reserved

	return append(dst, raw[:]...)
}

// ParseHeader reads and validates the magic and header at the start of
// data.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderBytes {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d", ErrMalformedHeader, len(data), HeaderBytes)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != Magic {
		return nil, fmt.Errorf("%w: missing \"DDS \" magic", ErrMalformedHeader)
	}

	raw := data[4 : 4+headerSize]
	get := func(off int) uint32 {
		return binary.LittleEndian.Uint32(raw[off:])
	}
	if get(0) != headerSize {
		return nil, fmt.Errorf("%w: header size %d, want %d", ErrMalformedHeader, get(0), headerSize)
	}

	h := &Header{
		Flags:       get(4),
		Height:      get(8),
		Width:       get(12),
		LinearSize:  get(16),
		Depth:       get(20),
		MipMapCount: get(24),
		PixelFormat: PixelFormat{
			Flags:       get(pfOffset + 4),
			FourCC:      get(pfOffset + 8),
			RGBBitCount: get(pfOffset + 12),
			RMask:       get(pfOffset + 16),
			GMask:       get(pfOffset + 20),
			BMask:       get(pfOffset + 24),
			AMask:       get(pfOffset + 28),
		},
		Caps:  get(104),
		Caps2: get(108),
		Caps3: get(112),
		Caps4: get(116),
	}

	if h.Flags&DDSD_PIXELFORMAT == 0 || get(pfOffset) != pixelFormatSize {
		return nil, fmt.Errorf("%w: missing pixel format block", ErrMalformedHeader)
	}
	if !isPowerOfTwo(int(h.Width)) || !isPowerOfTwo(int(h.Height)) {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotPowerOfTwo, h.Width, h.Height)
	}
	if h.PixelFormat.Flags&DDPF_FOURCC == 0 {
		return nil, fmt.Errorf("%w: no compression code", ErrUnsupportedFormat)
	}
	return h, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
