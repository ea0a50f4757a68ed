package dds

import (
	"fmt"
	"strconv"
)

// PixelFormat is the DDS_PIXELFORMAT sub-header embedded in the base header.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Pixel format flags.
const (
	PFAlphaPixels = 0x00000001
	PFAlpha       = 0x00000002
	PFFourCC      = 0x00000004
	PFPal8        = 0x00000020
	PFRGB         = 0x00000040
	PFRGBA        = PFRGB | PFAlphaPixels
	PFLuminance   = 0x00020000
	PFLuminanceA  = PFLuminance | PFAlphaPixels
)

// ConversionFlags describes transforms discovered while decoding a header.
type ConversionFlags uint32

// Conversion flags.
const (
	ConvNone ConversionFlags = 0
	// ConvExpand marks a source narrower than the canonical format.
	ConvExpand ConversionFlags = 0x1
	// ConvNoAlpha marks a source without alpha; alpha is forced opaque.
	ConvNoAlpha ConversionFlags = 0x2
	// ConvSwizzle marks a red/blue exchange.
	ConvSwizzle    ConversionFlags = 0x4
	ConvPal8       ConversionFlags = 0x8
	ConvFormat888  ConversionFlags = 0x10
	ConvFormat565  ConversionFlags = 0x20
	ConvFormat5551 ConversionFlags = 0x40
	ConvFormat4444 ConversionFlags = 0x80
	ConvFormat44   ConversionFlags = 0x100
	ConvFormat332  ConversionFlags = 0x200
	ConvFormat8332 ConversionFlags = 0x400
	ConvFormatA8P8 ConversionFlags = 0x800
	// ConvCopyMemory forces the decoded image to own a copy of the pixels.
	ConvCopyMemory ConversionFlags = 0x1000
	// ConvDX10 marks the presence of the DX10 extension header.
	ConvDX10 ConversionFlags = 0x10000
)

var convFlagNames = []struct {
	flag ConversionFlags
	name string
}{
	{ConvExpand, "Expand"},
	{ConvNoAlpha, "NoAlpha"},
	{ConvSwizzle, "Swizzle"},
	{ConvPal8, "Pal8"},
	{ConvFormat888, "Format888"},
	{ConvFormat565, "Format565"},
	{ConvFormat5551, "Format5551"},
	{ConvFormat4444, "Format4444"},
	{ConvFormat44, "Format44"},
	{ConvFormat332, "Format332"},
	{ConvFormat8332, "Format8332"},
	{ConvFormatA8P8, "FormatA8P8"},
	{ConvCopyMemory, "CopyMemory"},
	{ConvDX10, "DX10"},
}

// Has reports whether all bits of mask are set.
func (f ConversionFlags) Has(mask ConversionFlags) bool {
	return f&mask == mask
}

func (f ConversionFlags) String() string {
	if f == ConvNone {
		return "None"
	}
	s := ""
	for _, n := range convFlagNames {
		if f&n.flag == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}

	return s
}

// MakeFourCC packs four characters into a little-endian code.
func MakeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// FourCCString renders a four-character code; numeric D3DFMT codes are
// rendered as decimal.
func FourCCString(value uint32) string {
	b := []byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return strconv.FormatUint(uint64(value), 10)
		}
	}

	return string(b)
}

var fourCCDX10 = MakeFourCC('D', 'X', '1', '0')

func fourCCPF(code uint32) PixelFormat {
	return PixelFormat{Size: pixelFormatSize, Flags: PFFourCC, FourCC: code}
}

func maskPF(flags, bitCount, r, g, b, a uint32) PixelFormat {
	return PixelFormat{Size: pixelFormatSize, Flags: flags, RGBBitCount: bitCount, RBitMask: r, GBitMask: g, BBitMask: b, ABitMask: a}
}

// Well-known legacy pixel formats.
var (
	PixelFormatDXT1     = fourCCPF(MakeFourCC('D', 'X', 'T', '1'))
	PixelFormatDXT2     = fourCCPF(MakeFourCC('D', 'X', 'T', '2'))
	PixelFormatDXT3     = fourCCPF(MakeFourCC('D', 'X', 'T', '3'))
	PixelFormatDXT4     = fourCCPF(MakeFourCC('D', 'X', 'T', '4'))
	PixelFormatDXT5     = fourCCPF(MakeFourCC('D', 'X', 'T', '5'))
	PixelFormatBC4UNorm = fourCCPF(MakeFourCC('B', 'C', '4', 'U'))
	PixelFormatBC4SNorm = fourCCPF(MakeFourCC('B', 'C', '4', 'S'))
	PixelFormatBC5UNorm = fourCCPF(MakeFourCC('B', 'C', '5', 'U'))
	PixelFormatBC5SNorm = fourCCPF(MakeFourCC('B', 'C', '5', 'S'))
	PixelFormatATI1     = fourCCPF(MakeFourCC('A', 'T', 'I', '1'))
	PixelFormatATI2     = fourCCPF(MakeFourCC('A', 'T', 'I', '2'))
	PixelFormatR8G8B8G8 = fourCCPF(MakeFourCC('R', 'G', 'B', 'G'))
	PixelFormatG8R8G8B8 = fourCCPF(MakeFourCC('G', 'R', 'G', 'B'))
	PixelFormatDX10     = fourCCPF(fourCCDX10)

	PixelFormatA8R8G8B8 = maskPF(PFRGBA, 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000)
	PixelFormatX8R8G8B8 = maskPF(PFRGB, 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0x00000000)
	PixelFormatA8B8G8R8 = maskPF(PFRGBA, 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000)
	PixelFormatX8B8G8R8 = maskPF(PFRGB, 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0x00000000)
	PixelFormatG16R16   = maskPF(PFRGB, 32, 0x0000ffff, 0xffff0000, 0x00000000, 0x00000000)
	PixelFormatR5G6B5   = maskPF(PFRGB, 16, 0xf800, 0x07e0, 0x001f, 0x0000)
	PixelFormatA1R5G5B5 = maskPF(PFRGBA, 16, 0x7c00, 0x03e0, 0x001f, 0x8000)
	PixelFormatA4R4G4B4 = maskPF(PFRGBA, 16, 0x0f00, 0x00f0, 0x000f, 0xf000)
	PixelFormatR8G8B8   = maskPF(PFRGB, 24, 0xff0000, 0x00ff00, 0x0000ff, 0x000000)
	PixelFormatL8       = maskPF(PFLuminance, 8, 0xff, 0x00, 0x00, 0x00)
	PixelFormatL16      = maskPF(PFLuminance, 16, 0xffff, 0x0000, 0x0000, 0x0000)
	PixelFormatA8L8     = maskPF(PFLuminanceA, 16, 0x00ff, 0x0000, 0x0000, 0xff00)
	PixelFormatA8       = maskPF(PFAlpha, 8, 0x00, 0x00, 0x00, 0xff)
)

// D3DFMT enumeration values that D3DX stores in the fourCC field.
const (
	d3dfmtA16B16G16R16  = 36
	d3dfmtQ16W16V16U16  = 110
	d3dfmtR16F          = 111
	d3dfmtG16R16F       = 112
	d3dfmtA16B16G16R16F = 113
	d3dfmtR32F          = 114
	d3dfmtG32R32F       = 115
	d3dfmtA32B32G32R32F = 116
)

// LegacyFormatEntry maps a legacy pixel format to a canonical format.
type LegacyFormatEntry struct {
	Format      Format
	Conversion  ConversionFlags
	PixelFormat PixelFormat
}

// legacyFormats is scanned top to bottom and the first match wins. The order
// is part of the contract: the two 10:10:10:2 entries are both plausible for
// a mask-reversing writer and the first one is assumed.
var legacyFormats = [...]LegacyFormatEntry{
	{FormatBC1UNorm, ConvNone, PixelFormatDXT1},
	{FormatBC2UNorm, ConvNone, PixelFormatDXT3},
	{FormatBC3UNorm, ConvNone, PixelFormatDXT5},

	// premultiplied alpha is ignored
	{FormatBC2UNorm, ConvNone, PixelFormatDXT2},
	{FormatBC3UNorm, ConvNone, PixelFormatDXT4},

	{FormatBC4UNorm, ConvNone, PixelFormatBC4UNorm},
	{FormatBC4SNorm, ConvNone, PixelFormatBC4SNorm},
	{FormatBC5UNorm, ConvNone, PixelFormatBC5UNorm},
	{FormatBC5SNorm, ConvNone, PixelFormatBC5SNorm},

	{FormatBC4UNorm, ConvNone, PixelFormatATI1},
	{FormatBC5UNorm, ConvNone, PixelFormatATI2},

	{FormatR8G8B8G8UNorm, ConvNone, PixelFormatR8G8B8G8},
	{FormatG8R8G8B8UNorm, ConvNone, PixelFormatG8R8G8B8},

	{FormatB8G8R8A8UNorm, ConvNone, PixelFormatA8R8G8B8},
	{FormatB8G8R8X8UNorm, ConvNone, PixelFormatX8R8G8B8},
	{FormatR8G8B8A8UNorm, ConvNone, PixelFormatA8B8G8R8},
	{FormatR8G8B8A8UNorm, ConvNoAlpha, PixelFormatX8B8G8R8},
	{FormatR16G16UNorm, ConvNone, PixelFormatG16R16},

	// D3DFMT_A2R10G10B10 as written by D3DX (reversed masks)
	{FormatR10G10B10A2UNorm, ConvSwizzle, maskPF(PFRGB, 32, 0x000003ff, 0x000ffc00, 0x3ff00000, 0xc0000000)},
	// D3DFMT_A2B10G10R10 as written by D3DX (reversed masks)
	{FormatR10G10B10A2UNorm, ConvNone, maskPF(PFRGB, 32, 0x3ff00000, 0x000ffc00, 0x000003ff, 0xc0000000)},

	{FormatR8G8B8A8UNorm, ConvExpand | ConvNoAlpha | ConvFormat888, PixelFormatR8G8B8},

	{FormatB5G6R5UNorm, ConvFormat565, PixelFormatR5G6B5},
	{FormatB5G5R5A1UNorm, ConvFormat5551, PixelFormatA1R5G5B5},
	{FormatB5G5R5A1UNorm, ConvFormat5551 | ConvNoAlpha, maskPF(PFRGB, 16, 0x7c00, 0x03e0, 0x001f, 0x0000)},

	// D3DFMT_A8R3G3B2
	{FormatR8G8B8A8UNorm, ConvExpand | ConvFormat8332, maskPF(PFRGB, 16, 0x00e0, 0x001c, 0x0003, 0xff00)},
	// D3DFMT_R3G3B2
	{FormatB5G6R5UNorm, ConvExpand | ConvFormat332, maskPF(PFRGB, 8, 0xe0, 0x1c, 0x03, 0x00)},

	{FormatR8UNorm, ConvNone, PixelFormatL8},
	{FormatR16UNorm, ConvNone, PixelFormatL16},
	{FormatR8G8UNorm, ConvNone, PixelFormatA8L8},

	{FormatA8UNorm, ConvNone, PixelFormatA8},

	{FormatR16G16B16A16UNorm, ConvNone, fourCCPF(d3dfmtA16B16G16R16)},
	{FormatR16G16B16A16SNorm, ConvNone, fourCCPF(d3dfmtQ16W16V16U16)},
	{FormatR16Float, ConvNone, fourCCPF(d3dfmtR16F)},
	{FormatR16G16Float, ConvNone, fourCCPF(d3dfmtG16R16F)},
	{FormatR16G16B16A16Float, ConvNone, fourCCPF(d3dfmtA16B16G16R16F)},
	{FormatR32Float, ConvNone, fourCCPF(d3dfmtR32F)},
	{FormatR32G32Float, ConvNone, fourCCPF(d3dfmtG32R32F)},
	{FormatR32G32B32A32Float, ConvNone, fourCCPF(d3dfmtA32B32G32R32F)},

	// D3DFMT_R32F written as a mask (D3DX uses fourCC 114)
	{FormatR32Float, ConvNone, maskPF(PFRGB, 32, 0xffffffff, 0x00000000, 0x00000000, 0x00000000)},

	// D3DFMT_A8P8
	{FormatR8G8B8A8UNorm, ConvExpand | ConvPal8 | ConvFormatA8P8, maskPF(PFPal8, 16, 0, 0, 0, 0)},
	// D3DFMT_P8
	{FormatR8G8B8A8UNorm, ConvExpand | ConvPal8, maskPF(PFPal8, 8, 0, 0, 0, 0)},

	// D3DFMT_A4R4G4B4
	{FormatR8G8B8A8UNorm, ConvExpand | ConvFormat4444, PixelFormatA4R4G4B4},
	// D3DFMT_X4R4G4B4
	{FormatR8G8B8A8UNorm, ConvExpand | ConvNoAlpha | ConvFormat4444, maskPF(PFRGB, 16, 0x0f00, 0x00f0, 0x000f, 0x0000)},
	// D3DFMT_A4L4
	{FormatR8G8B8A8UNorm, ConvExpand | ConvFormat44, maskPF(PFLuminance, 8, 0x0f, 0x00, 0x00, 0xf0)},
}

// LegacyFormats returns a copy of the ordered legacy format table.
func LegacyFormats() []LegacyFormatEntry {
	out := make([]LegacyFormatEntry, len(legacyFormats))
	copy(out, legacyFormats[:])

	return out
}

func (e *LegacyFormatEntry) matches(pf *PixelFormat) bool {
	want := &e.PixelFormat
	if pf.Flags&want.Flags == 0 {
		return false
	}

	switch {
	case want.Flags&PFFourCC != 0:
		return pf.FourCC == want.FourCC
	case want.Flags&PFPal8 != 0:
		return pf.RGBBitCount == want.RGBBitCount
	case pf.RGBBitCount == want.RGBBitCount:
		// RGB, RGBA, alpha, luminance
		return pf.RBitMask == want.RBitMask &&
			pf.GBitMask == want.GBitMask &&
			pf.BBitMask == want.BBitMask &&
			pf.ABitMask == want.ABitMask
	default:
		return false
	}
}

// ResolveLegacyFormat maps a legacy pixel format record to a canonical format
// and the conversions needed to reach it. Formats that need expansion fail
// with ErrUnsupportedPixelFormat when NoLegacyExpansion is set.
func ResolveLegacyFormat(pf PixelFormat, opts DecodeOptions) (Format, ConversionFlags, error) {
	for i := range legacyFormats {
		entry := &legacyFormats[i]
		if !entry.matches(&pf) {
			continue
		}

		conv := entry.Conversion
		if conv&ConvExpand != 0 && opts.NoLegacyExpansion {
			return FormatUnknown, ConvNone, fmt.Errorf("%w: %s needs legacy expansion", ErrUnsupportedPixelFormat, describePixelFormat(pf))
		}
		if entry.Format == FormatR10G10B10A2UNorm && opts.NoR10G10B10A2Fixup {
			conv ^= ConvSwizzle
		}

		return entry.Format, conv, nil
	}

	return FormatUnknown, ConvNone, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, describePixelFormat(pf))
}

func describePixelFormat(pf PixelFormat) string {
	if pf.Flags&PFFourCC != 0 {
		return fmt.Sprintf("fourCC %q", FourCCString(pf.FourCC))
	}

	return fmt.Sprintf("flags 0x%x bits %d masks %08x/%08x/%08x/%08x",
		pf.Flags, pf.RGBBitCount, pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask)
}
