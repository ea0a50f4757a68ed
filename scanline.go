package dds

import (
	"encoding/binary"
	"fmt"
)

// ScanlineFlags modifies scanline operations.
type ScanlineFlags uint8

// Scanline flags.
const (
	ScanlineNone ScanlineFlags = 0
	// ScanlineSetAlpha writes an opaque alpha value.
	ScanlineSetAlpha ScanlineFlags = 0x1
	// ScanlineLegacy enables legacy-source conversions such as the
	// 10:10:10:2 red/blue exchange.
	ScanlineLegacy ScanlineFlags = 0x2
)

// Palette is a 256-entry lookup table. Entries are used verbatim as
// R8G8B8A8 words (0xAABBGGRR).
type Palette [paletteEntries]uint32

// LegacyFormat identifies a legacy source layout that ExpandLegacyScanline
// widens.
type LegacyFormat uint8

// Legacy source layouts.
const (
	LegacyUnknown LegacyFormat = iota
	LegacyR8G8B8
	LegacyR3G3B2
	LegacyA8R3G3B2
	LegacyP8
	LegacyA8P8
	LegacyA4L4
	LegacyB4G4R4A4
)

func (f LegacyFormat) String() string {
	switch f {
	case LegacyR8G8B8:
		return "R8G8B8"
	case LegacyR3G3B2:
		return "R3G3B2"
	case LegacyA8R3G3B2:
		return "A8R3G3B2"
	case LegacyP8:
		return "P8"
	case LegacyA8P8:
		return "A8P8"
	case LegacyA4L4:
		return "A4L4"
	case LegacyB4G4R4A4:
		return "B4G4R4A4"
	default:
		return "UNKNOWN"
	}
}

// legacyFormatOf picks the legacy layout recorded in conversion flags.
func legacyFormatOf(conv ConversionFlags) LegacyFormat {
	switch {
	case conv&ConvPal8 != 0:
		if conv&ConvFormatA8P8 != 0 {
			return LegacyA8P8
		}
		return LegacyP8
	case conv&ConvFormat888 != 0:
		return LegacyR8G8B8
	case conv&ConvFormat332 != 0:
		return LegacyR3G3B2
	case conv&ConvFormat8332 != 0:
		return LegacyA8R3G3B2
	case conv&ConvFormat44 != 0:
		return LegacyA4L4
	case conv&ConvFormat4444 != 0:
		return LegacyB4G4R4A4
	default:
		return LegacyUnknown
	}
}

var le = binary.LittleEndian

// CopyScanline copies min(len(dst), len(src)) bytes of a row. With
// ScanlineSetAlpha the alpha channel of every copied pixel is set to the
// format's opaque value and the color bits are kept. dst and src may be the
// same slice.
func CopyScanline(dst, src []byte, format Format, flags ScanlineFlags) {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])
	if flags&ScanlineSetAlpha != 0 {
		setOpaqueAlpha(dst[:n], format)
	}
}

// setOpaqueAlpha rewrites the alpha channel of each whole pixel in row.
// Formats without an alpha channel are left untouched.
func setOpaqueAlpha(row []byte, format Format) {
	switch format {
	case FormatR32G32B32A32Typeless, FormatR32G32B32A32Float,
		FormatR32G32B32A32UInt, FormatR32G32B32A32SInt:
		alpha := uint32(0xffffffff)
		switch format {
		case FormatR32G32B32A32Float:
			alpha = 0x3f800000
		case FormatR32G32B32A32SInt:
			alpha = 0x7fffffff
		}
		for i := 0; i+16 <= len(row); i += 16 {
			le.PutUint32(row[i+12:], alpha)
		}

	case FormatR16G16B16A16Typeless, FormatR16G16B16A16Float,
		FormatR16G16B16A16UNorm, FormatR16G16B16A16UInt,
		FormatR16G16B16A16SNorm, FormatR16G16B16A16SInt:
		alpha := uint16(0xffff)
		switch format {
		case FormatR16G16B16A16Float:
			alpha = 0x3c00
		case FormatR16G16B16A16SNorm, FormatR16G16B16A16SInt:
			alpha = 0x7fff
		}
		for i := 0; i+8 <= len(row); i += 8 {
			le.PutUint16(row[i+6:], alpha)
		}

	case FormatR10G10B10A2Typeless, FormatR10G10B10A2UNorm,
		FormatR10G10B10A2UInt, FormatR10G10B10XRBiasA2UNorm:
		for i := 0; i+4 <= len(row); i += 4 {
			le.PutUint32(row[i:], le.Uint32(row[i:])|0xc0000000)
		}

	case FormatR8G8B8A8Typeless, FormatR8G8B8A8UNorm, FormatR8G8B8A8UNormSRGB,
		FormatR8G8B8A8UInt, FormatR8G8B8A8SNorm, FormatR8G8B8A8SInt,
		FormatB8G8R8A8UNorm, FormatB8G8R8A8Typeless, FormatB8G8R8A8UNormSRGB:
		alpha := uint32(0xff000000)
		if format == FormatR8G8B8A8SNorm || format == FormatR8G8B8A8SInt {
			alpha = 0x7f000000
		}
		for i := 0; i+4 <= len(row); i += 4 {
			le.PutUint32(row[i:], le.Uint32(row[i:])&0x00ffffff|alpha)
		}

	case FormatB5G5R5A1UNorm:
		for i := 0; i+2 <= len(row); i += 2 {
			le.PutUint16(row[i:], le.Uint16(row[i:])|0x8000)
		}

	case FormatB4G4R4A4UNorm:
		for i := 0; i+2 <= len(row); i += 2 {
			le.PutUint16(row[i:], le.Uint16(row[i:])|0xf000)
		}

	case FormatA8UNorm:
		for i := range row {
			row[i] = 0xff
		}
	}
}

// SwizzleScanline exchanges the red and blue channels of a row of 32bpp
// RGBA/BGRA pixels, or of 10:10:10:2 pixels when ScanlineLegacy is set.
// Other formats are copied unchanged. dst and src may be the same slice.
func SwizzleScanline(dst, src []byte, format Format, flags ScanlineFlags) {
	n := min(len(dst), len(src))

	switch format {
	case FormatR10G10B10A2Typeless, FormatR10G10B10A2UNorm,
		FormatR10G10B10A2UInt, FormatR10G10B10XRBiasA2UNorm:
		if flags&ScanlineLegacy == 0 {
			break
		}
		for i := 0; i+4 <= n; i += 4 {
			t := le.Uint32(src[i:])
			t1 := (t & 0x3ff00000) >> 20
			t2 := (t & 0x000003ff) << 20
			t3 := t & 0x000ffc00
			ta := t & 0xc0000000
			if flags&ScanlineSetAlpha != 0 {
				ta = 0xc0000000
			}
			le.PutUint32(dst[i:], t1|t2|t3|ta)
		}
		copy(dst[n&^3:n], src[n&^3:n])
		return

	case FormatR8G8B8A8Typeless, FormatR8G8B8A8UNorm, FormatR8G8B8A8UNormSRGB,
		FormatB8G8R8A8UNorm, FormatB8G8R8X8UNorm, FormatB8G8R8A8Typeless,
		FormatB8G8R8A8UNormSRGB, FormatB8G8R8X8Typeless, FormatB8G8R8X8UNormSRGB:
		for i := 0; i+4 <= n; i += 4 {
			t := le.Uint32(src[i:])
			t1 := (t & 0x00ff0000) >> 16
			t2 := (t & 0x000000ff) << 16
			t3 := t & 0x0000ff00
			ta := t & 0xff000000
			if flags&ScanlineSetAlpha != 0 {
				ta = 0xff000000
			}
			le.PutUint32(dst[i:], t1|t2|t3|ta)
		}
		copy(dst[n&^3:n], src[n&^3:n])
		return
	}

	copy(dst[:n], src[:n])
}

// ExpandScanline widens a row of 16bpp B5G6R5, B5G5R5A1 or B4G4R4A4 pixels
// into R8G8B8A8. Channels are widened by bit replication. The row may be
// expanded in place when dst and src start at the same address.
func ExpandScanline(dst, src []byte, inFormat Format, flags ScanlineFlags) error {
	n := min(len(src)/2, len(dst)/4)
	setAlpha := flags&ScanlineSetAlpha != 0

	switch inFormat {
	case FormatB5G6R5UNorm:
		for i := n - 1; i >= 0; i-- {
			t := uint32(le.Uint16(src[i*2:]))
			t1 := ((t & 0xf800) >> 8) | ((t & 0xe000) >> 13)
			t2 := ((t & 0x07e0) << 5) | ((t & 0x0600) >> 1)
			t3 := ((t & 0x001f) << 19) | ((t & 0x001c) << 14)
			le.PutUint32(dst[i*4:], t1|t2|t3|0xff000000)
		}

	case FormatB5G5R5A1UNorm:
		for i := n - 1; i >= 0; i-- {
			t := uint32(le.Uint16(src[i*2:]))
			t1 := ((t & 0x7c00) >> 7) | ((t & 0x7000) >> 12)
			t2 := ((t & 0x03e0) << 6) | ((t & 0x0380) << 1)
			t3 := ((t & 0x001f) << 19) | ((t & 0x001c) << 14)
			var ta uint32
			if setAlpha || t&0x8000 != 0 {
				ta = 0xff000000
			}
			le.PutUint32(dst[i*4:], t1|t2|t3|ta)
		}

	case FormatB4G4R4A4UNorm:
		for i := n - 1; i >= 0; i-- {
			le.PutUint32(dst[i*4:], expand4444(uint32(le.Uint16(src[i*2:])), setAlpha))
		}

	default:
		return fmt.Errorf("%w: expand %v", ErrUnsupportedConversion, inFormat)
	}

	return nil
}

func expand4444(t uint32, setAlpha bool) uint32 {
	t1 := ((t & 0x0f00) >> 4) | ((t & 0x0f00) >> 8)
	t2 := ((t & 0x00f0) << 8) | ((t & 0x00f0) << 4)
	t3 := ((t & 0x000f) << 20) | ((t & 0x000f) << 16)
	ta := ((t & 0xf000) << 16) | ((t & 0xf000) << 12)
	if setAlpha {
		ta = 0xff000000
	}

	return t1 | t2 | t3 | ta
}

func expand332(t uint32) uint32 {
	t1 := (t & 0xe0) | ((t & 0xe0) >> 3) | ((t & 0xc0) >> 6)
	t2 := ((t & 0x1c) << 11) | ((t & 0x1c) << 8) | ((t & 0x18) << 5)
	t3 := ((t & 0x03) << 22) | ((t & 0x03) << 20) | ((t & 0x03) << 18) | ((t & 0x03) << 16)

	return t1 | t2 | t3
}

// ExpandLegacyScanline widens a row of a legacy layout into outFormat.
// Supported pairs are R8G8B8, A8R3G3B2, P8, A8P8, A4L4 and B4G4R4A4 into
// R8G8B8A8_UNORM, and R3G3B2 into R8G8B8A8_UNORM or B5G6R5_UNORM. Palette
// layouts need pal. The row may be expanded in place when dst and src start
// at the same address.
func ExpandLegacyScanline(dst []byte, outFormat Format, src []byte, inFormat LegacyFormat, pal *Palette, flags ScanlineFlags) error {
	setAlpha := flags&ScanlineSetAlpha != 0

	if outFormat == FormatB5G6R5UNorm && inFormat == LegacyR3G3B2 {
		n := min(len(src), len(dst)/2)
		for i := n - 1; i >= 0; i-- {
			t := uint32(src[i])
			t1 := ((t & 0xe0) << 8) | ((t & 0xc0) << 5)
			t2 := ((t & 0x1c) << 6) | ((t & 0x1c) << 3)
			t3 := ((t & 0x03) << 3) | ((t & 0x03) << 1) | ((t & 0x02) >> 1)
			le.PutUint16(dst[i*2:], uint16(t1|t2|t3))
		}
		return nil
	}
	if outFormat != FormatR8G8B8A8UNorm {
		return fmt.Errorf("%w: %v to %v", ErrUnsupportedConversion, inFormat, outFormat)
	}

	switch inFormat {
	case LegacyR8G8B8:
		// 24bpp files store B, G, R in memory order
		n := min(len(src)/3, len(dst)/4)
		for i := n - 1; i >= 0; i-- {
			s := src[i*3 : i*3+3]
			t := uint32(s[0])<<16 | uint32(s[1])<<8 | uint32(s[2])
			le.PutUint32(dst[i*4:], t|0xff000000)
		}

	case LegacyR3G3B2:
		n := min(len(src), len(dst)/4)
		for i := n - 1; i >= 0; i-- {
			le.PutUint32(dst[i*4:], expand332(uint32(src[i]))|0xff000000)
		}

	case LegacyA8R3G3B2:
		n := min(len(src)/2, len(dst)/4)
		for i := n - 1; i >= 0; i-- {
			t := uint32(le.Uint16(src[i*2:]))
			ta := (t & 0xff00) << 16
			if setAlpha {
				ta = 0xff000000
			}
			le.PutUint32(dst[i*4:], expand332(t)|ta)
		}

	case LegacyP8:
		if pal == nil {
			return fmt.Errorf("%w: P8 source", ErrMissingPalette)
		}
		n := min(len(src), len(dst)/4)
		for i := n - 1; i >= 0; i-- {
			le.PutUint32(dst[i*4:], pal[src[i]])
		}

	case LegacyA8P8:
		if pal == nil {
			return fmt.Errorf("%w: A8P8 source", ErrMissingPalette)
		}
		n := min(len(src)/2, len(dst)/4)
		for i := n - 1; i >= 0; i-- {
			t := uint32(le.Uint16(src[i*2:]))
			ta := (t & 0xff00) << 16
			if setAlpha {
				ta = 0xff000000
			}
			le.PutUint32(dst[i*4:], pal[t&0xff]|ta)
		}

	case LegacyA4L4:
		n := min(len(src), len(dst)/4)
		for i := n - 1; i >= 0; i-- {
			t := uint32(src[i])
			t1 := ((t & 0x0f) << 4) | (t & 0x0f)
			ta := ((t & 0xf0) << 24) | ((t & 0xf0) << 20)
			if setAlpha {
				ta = 0xff000000
			}
			le.PutUint32(dst[i*4:], t1|t1<<8|t1<<16|ta)
		}

	case LegacyB4G4R4A4:
		n := min(len(src)/2, len(dst)/4)
		for i := n - 1; i >= 0; i-- {
			le.PutUint32(dst[i*4:], expand4444(uint32(le.Uint16(src[i*2:])), setAlpha))
		}

	default:
		return fmt.Errorf("%w: %v to %v", ErrUnsupportedConversion, inFormat, outFormat)
	}

	return nil
}
