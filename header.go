package dds

import "fmt"

// Magic is the little-endian "DDS " value every DDS stream starts with.
const Magic uint32 = 0x20534444

const (
	magicSize       = 4
	headerSize      = 124
	pixelFormatSize = 32
	headerDX10Size  = 20

	// HeaderSize is the size of the magic value plus the base header.
	HeaderSize = magicSize + headerSize
	// HeaderDX10Size is HeaderSize plus the DX10 extension header.
	HeaderDX10Size = HeaderSize + headerDX10Size

	paletteEntries = 256
	paletteSize    = paletteEntries * 4
)

// Header flags.
const (
	FlagCaps        = 0x00000001
	FlagHeight      = 0x00000002
	FlagWidth       = 0x00000004
	FlagPitch       = 0x00000008
	FlagPixelFormat = 0x00001000
	FlagMipmapCount = 0x00020000
	FlagLinearSize  = 0x00080000
	FlagDepth       = 0x00800000

	FlagTexture = FlagCaps | FlagHeight | FlagWidth | FlagPixelFormat
	FlagVolume  = FlagDepth
)

// Surface (caps) flags.
const (
	CapsComplex = 0x00000008
	CapsTexture = 0x00001000
	CapsMipmap  = 0x00400000

	surfaceMipmap  = CapsComplex | CapsMipmap
	surfaceCubemap = CapsComplex
)

// Cubemap (caps2) flags.
const (
	Caps2Cubemap          = 0x00000200
	Caps2CubemapPositiveX = 0x00000400
	Caps2CubemapNegativeX = 0x00000800
	Caps2CubemapPositiveY = 0x00001000
	Caps2CubemapNegativeY = 0x00002000
	Caps2CubemapPositiveZ = 0x00004000
	Caps2CubemapNegativeZ = 0x00008000
	Caps2Volume           = 0x00200000

	Caps2CubemapAllFaces = Caps2Cubemap |
		Caps2CubemapPositiveX | Caps2CubemapNegativeX |
		Caps2CubemapPositiveY | Caps2CubemapNegativeY |
		Caps2CubemapPositiveZ | Caps2CubemapNegativeZ
)

// DX10 resource dimensions and misc flags.
const (
	resourceDimensionTexture1D = 2
	resourceDimensionTexture2D = 3
	resourceDimensionTexture3D = 4

	miscTextureCube = 0x4
)

// Header is the fixed DDS_HEADER that follows the magic value.
type Header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// HeaderDX10 is the DDS_HEADER_DXT10 extension.
type HeaderDX10 struct {
	Format            Format
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// Dimension is the texture dimension of a description.
type Dimension uint8

// Texture dimensions.
const (
	Texture1D Dimension = iota + 1
	Texture2D
	Texture3D
	TextureCube
)

func (d Dimension) String() string {
	switch d {
	case Texture1D:
		return "1D"
	case Texture2D:
		return "2D"
	case Texture3D:
		return "3D"
	case TextureCube:
		return "Cube"
	default:
		return fmt.Sprintf("Dimension(%d)", uint8(d))
	}
}

// Description is the geometry and format of a texture. For cubemaps
// ArraySize counts faces, so it is a multiple of 6.
type Description struct {
	Width     int
	Height    int
	Depth     int
	ArraySize int
	MipLevels int
	Dimension Dimension
	Format    Format
}

// Validate checks the structural invariants of d.
func (d Description) Validate() error {
	if d.Width < 1 || d.Height < 1 || d.Depth < 1 {
		return fmt.Errorf("%w: extent %dx%dx%d", ErrInvalidGeometry, d.Width, d.Height, d.Depth)
	}
	if d.ArraySize < 1 {
		return fmt.Errorf("%w: array size %d", ErrInvalidGeometry, d.ArraySize)
	}
	if d.MipLevels < 1 || d.MipLevels > CalculateMipLevels(d.Width, d.Height, d.Depth) {
		return fmt.Errorf("%w: mip levels %d", ErrInvalidGeometry, d.MipLevels)
	}
	switch d.Dimension {
	case Texture1D:
		if d.Height != 1 || d.Depth != 1 {
			return fmt.Errorf("%w: 1D texture with extent %dx%dx%d", ErrInvalidGeometry, d.Width, d.Height, d.Depth)
		}
	case Texture2D:
		if d.Depth != 1 {
			return fmt.Errorf("%w: 2D texture with depth %d", ErrInvalidGeometry, d.Depth)
		}
	case TextureCube:
		if d.Depth != 1 || d.ArraySize%6 != 0 {
			return fmt.Errorf("%w: cubemap with depth %d and array size %d", ErrInvalidGeometry, d.Depth, d.ArraySize)
		}
	case Texture3D:
		if d.ArraySize != 1 {
			return fmt.Errorf("%w: 3D texture with array size %d", ErrInvalidGeometry, d.ArraySize)
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, d.Dimension)
	}
	if !d.Format.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, d.Format)
	}

	return nil
}

// DecodeOptions configures header resolution and image assembly.
type DecodeOptions struct {
	// ForceRGB remaps BGR formats to their RGB equivalents and swizzles.
	ForceRGB bool
	// No16Bpp expands 16bpp formats to R8G8B8A8.
	No16Bpp bool
	// NoLegacyExpansion rejects legacy formats that need expansion.
	NoLegacyExpansion bool
	// NoR10G10B10A2Fixup disables the 10:10:10:2 mask reversal workaround.
	NoR10G10B10A2Fixup bool
	// LegacyDword rounds source row pitch up to 4 bytes, as old writers did.
	LegacyDword bool
	// InPlace declares the input safe to rewrite: swizzle and alpha fixups
	// on a zero-copy decode then run in the caller's buffer.
	InPlace bool
}

// EncodeOptions configures header encoding.
type EncodeOptions struct {
	// ForceDX10 always writes the DX10 extension header.
	ForceDX10 bool
}

// parseHeader reads the base header that follows the magic value.
func parseHeader(b []byte) Header {
	var h Header
	h.Size = le.Uint32(b[0:])
	h.Flags = le.Uint32(b[4:])
	h.Height = le.Uint32(b[8:])
	h.Width = le.Uint32(b[12:])
	h.PitchOrLinearSize = le.Uint32(b[16:])
	h.Depth = le.Uint32(b[20:])
	h.MipMapCount = le.Uint32(b[24:])
	for i := range h.Reserved1 {
		h.Reserved1[i] = le.Uint32(b[28+i*4:])
	}
	pf := b[72:]
	h.PixelFormat = PixelFormat{
		Size:        le.Uint32(pf[0:]),
		Flags:       le.Uint32(pf[4:]),
		FourCC:      le.Uint32(pf[8:]),
		RGBBitCount: le.Uint32(pf[12:]),
		RBitMask:    le.Uint32(pf[16:]),
		GBitMask:    le.Uint32(pf[20:]),
		BBitMask:    le.Uint32(pf[24:]),
		ABitMask:    le.Uint32(pf[28:]),
	}
	h.Caps = le.Uint32(b[104:])
	h.Caps2 = le.Uint32(b[108:])
	h.Caps3 = le.Uint32(b[112:])
	h.Caps4 = le.Uint32(b[116:])
	h.Reserved2 = le.Uint32(b[120:])

	return h
}

func (h *Header) put(b []byte) {
	le.PutUint32(b[0:], h.Size)
	le.PutUint32(b[4:], h.Flags)
	le.PutUint32(b[8:], h.Height)
	le.PutUint32(b[12:], h.Width)
	le.PutUint32(b[16:], h.PitchOrLinearSize)
	le.PutUint32(b[20:], h.Depth)
	le.PutUint32(b[24:], h.MipMapCount)
	for i, v := range h.Reserved1 {
		le.PutUint32(b[28+i*4:], v)
	}
	pf := b[72:]
	le.PutUint32(pf[0:], h.PixelFormat.Size)
	le.PutUint32(pf[4:], h.PixelFormat.Flags)
	le.PutUint32(pf[8:], h.PixelFormat.FourCC)
	le.PutUint32(pf[12:], h.PixelFormat.RGBBitCount)
	le.PutUint32(pf[16:], h.PixelFormat.RBitMask)
	le.PutUint32(pf[20:], h.PixelFormat.GBitMask)
	le.PutUint32(pf[24:], h.PixelFormat.BBitMask)
	le.PutUint32(pf[28:], h.PixelFormat.ABitMask)
	le.PutUint32(b[104:], h.Caps)
	le.PutUint32(b[108:], h.Caps2)
	le.PutUint32(b[112:], h.Caps3)
	le.PutUint32(b[116:], h.Caps4)
	le.PutUint32(b[120:], h.Reserved2)
}

func parseHeaderDX10(b []byte) HeaderDX10 {
	return HeaderDX10{
		Format:            Format(le.Uint32(b[0:])),
		ResourceDimension: le.Uint32(b[4:]),
		MiscFlag:          le.Uint32(b[8:]),
		ArraySize:         le.Uint32(b[12:]),
		MiscFlags2:        le.Uint32(b[16:]),
	}
}

func (h *HeaderDX10) put(b []byte) {
	le.PutUint32(b[0:], uint32(h.Format))
	le.PutUint32(b[4:], h.ResourceDimension)
	le.PutUint32(b[8:], h.MiscFlag)
	le.PutUint32(b[12:], h.ArraySize)
	le.PutUint32(b[16:], h.MiscFlags2)
}

// ReadHeaders parses the magic value, the base header and, when present,
// the DX10 extension. It performs structural checks only.
func ReadHeaders(data []byte) (*Header, *HeaderDX10, error) {
	if len(data) < magicSize || le.Uint32(data) != Magic {
		return nil, nil, ErrNotThisFormat
	}
	if len(data) < HeaderSize {
		return nil, nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedBuffer, HeaderSize, len(data))
	}

	header := parseHeader(data[magicSize:])
	if header.Size != headerSize {
		return nil, nil, fmt.Errorf("%w: header size %d", ErrMalformedHeader, header.Size)
	}
	if header.PixelFormat.Size != pixelFormatSize {
		return nil, nil, fmt.Errorf("%w: pixel format size %d", ErrMalformedHeader, header.PixelFormat.Size)
	}

	if header.PixelFormat.Flags&PFFourCC == 0 || header.PixelFormat.FourCC != fourCCDX10 {
		return &header, nil, nil
	}
	if len(data) < HeaderDX10Size {
		return nil, nil, fmt.Errorf("%w: DX10 header needs %d bytes, have %d", ErrTruncatedBuffer, HeaderDX10Size, len(data))
	}
	dx10 := parseHeaderDX10(data[HeaderSize:])

	return &header, &dx10, nil
}

// DecodeHeader decodes the DDS headers at the start of data into a
// description and the conversions needed to reach its format.
func DecodeHeader(data []byte, opts DecodeOptions) (Description, ConversionFlags, error) {
	header, dx10, err := ReadHeaders(data)
	if err != nil {
		return Description{}, ConvNone, err
	}

	return describe(header, dx10, opts)
}

func describe(header *Header, dx10 *HeaderDX10, opts DecodeOptions) (Description, ConversionFlags, error) {
	var desc Description
	conv := ConvNone

	mips, err := intFromU32(header.MipMapCount)
	if err != nil {
		return Description{}, ConvNone, err
	}
	desc.MipLevels = max(mips, 1)

	width, err := intFromU32(header.Width)
	if err != nil {
		return Description{}, ConvNone, err
	}
	height, err := intFromU32(header.Height)
	if err != nil {
		return Description{}, ConvNone, err
	}
	depth, err := intFromU32(header.Depth)
	if err != nil {
		return Description{}, ConvNone, err
	}
	desc.Width, desc.Height, desc.Depth = width, height, 1

	if dx10 != nil {
		conv |= ConvDX10

		arraySize, err := intFromU32(dx10.ArraySize)
		if err != nil {
			return Description{}, ConvNone, err
		}
		if arraySize == 0 {
			return Description{}, ConvNone, fmt.Errorf("%w: DX10 array size 0", ErrInvalidGeometry)
		}
		desc.ArraySize = arraySize

		desc.Format = dx10.Format
		if !desc.Format.IsValid() {
			return Description{}, ConvNone, fmt.Errorf("%w: DX10 format %v", ErrUnsupportedPixelFormat, dx10.Format)
		}

		switch dx10.ResourceDimension {
		case resourceDimensionTexture1D:
			// D3DX writes 1D textures with a fixed height of 1
			if header.Flags&FlagHeight != 0 && header.Height != 1 {
				return Description{}, ConvNone, fmt.Errorf("%w: 1D texture with height %d", ErrInvalidGeometry, header.Height)
			}
			desc.Height = 1
			desc.Dimension = Texture1D

		case resourceDimensionTexture2D:
			desc.Dimension = Texture2D
			if dx10.MiscFlag&miscTextureCube != 0 {
				if desc.ArraySize, err = mulInt(desc.ArraySize, 6); err != nil {
					return Description{}, ConvNone, err
				}
				desc.Dimension = TextureCube
			}

		case resourceDimensionTexture3D:
			if header.Flags&FlagVolume == 0 {
				return Description{}, ConvNone, fmt.Errorf("%w: 3D texture without volume flag", ErrInvalidGeometry)
			}
			if desc.ArraySize > 1 {
				return Description{}, ConvNone, fmt.Errorf("%w: 3D texture with array size %d", ErrInvalidGeometry, desc.ArraySize)
			}
			desc.Depth = depth
			desc.Dimension = Texture3D

		default:
			return Description{}, ConvNone, fmt.Errorf("%w: resource dimension %d", ErrMalformedHeader, dx10.ResourceDimension)
		}
	} else {
		desc.ArraySize = 1

		switch {
		case header.Flags&FlagVolume != 0:
			desc.Depth = depth
			desc.Dimension = Texture3D

		case header.Caps2&Caps2CubemapAllFaces != 0:
			if header.Caps2&Caps2CubemapAllFaces != Caps2CubemapAllFaces {
				return Description{}, ConvNone, fmt.Errorf("%w: cubemap faces 0x%x, all six required", ErrInvalidGeometry, header.Caps2&Caps2CubemapAllFaces)
			}
			desc.ArraySize = 6
			desc.Dimension = TextureCube

		default:
			// legacy headers cannot express a 1D texture
			desc.Dimension = Texture2D
		}

		desc.Format, conv, err = ResolveLegacyFormat(header.PixelFormat, opts)
		if err != nil {
			return Description{}, ConvNone, err
		}
	}

	if desc.Width == 0 || desc.Height == 0 || desc.Depth == 0 {
		return Description{}, ConvNone, fmt.Errorf("%w: extent %dx%dx%d", ErrInvalidGeometry, desc.Width, desc.Height, desc.Depth)
	}
	if full := CalculateMipLevels(desc.Width, desc.Height, desc.Depth); desc.MipLevels > full {
		return Description{}, ConvNone, fmt.Errorf("%w: %d mip levels, chain has %d", ErrInvalidGeometry, desc.MipLevels, full)
	}

	if opts.ForceRGB {
		desc.Format, conv = forceRGB(desc.Format, conv)
	}
	if opts.No16Bpp {
		desc.Format, conv = expand16Bpp(desc.Format, conv)
	}

	return desc, conv, nil
}

// forceRGB maps BGR DXGI 1.1 formats onto RGB ones.
func forceRGB(format Format, conv ConversionFlags) (Format, ConversionFlags) {
	switch format {
	case FormatB8G8R8A8UNorm:
		return FormatR8G8B8A8UNorm, conv | ConvSwizzle
	case FormatB8G8R8X8UNorm:
		return FormatR8G8B8A8UNorm, conv | ConvSwizzle | ConvNoAlpha
	case FormatB8G8R8A8Typeless:
		return FormatR8G8B8A8Typeless, conv | ConvSwizzle
	case FormatB8G8R8A8UNormSRGB:
		return FormatR8G8B8A8UNormSRGB, conv | ConvSwizzle
	case FormatB8G8R8X8Typeless:
		return FormatR8G8B8A8Typeless, conv | ConvSwizzle | ConvNoAlpha
	case FormatB8G8R8X8UNormSRGB:
		return FormatR8G8B8A8UNormSRGB, conv | ConvSwizzle | ConvNoAlpha
	default:
		return format, conv
	}
}

// expand16Bpp upgrades 16bpp color formats to R8G8B8A8. The source layout
// flag is recorded so the assembler can pick the expansion.
func expand16Bpp(format Format, conv ConversionFlags) (Format, ConversionFlags) {
	switch format {
	case FormatB5G6R5UNorm:
		if conv&ConvExpand != 0 {
			// already an 8bpp legacy source, expanded straight to 32bpp
			return FormatR8G8B8A8UNorm, conv
		}
		return FormatR8G8B8A8UNorm, conv | ConvExpand | ConvNoAlpha | ConvFormat565
	case FormatB5G5R5A1UNorm:
		return FormatR8G8B8A8UNorm, conv | ConvExpand | ConvFormat5551
	case FormatB4G4R4A4UNorm:
		return FormatR8G8B8A8UNorm, conv | ConvExpand | ConvFormat4444
	default:
		return format, conv
	}
}

// EncodeHeader writes the magic value, base header and optional DX10 header
// for desc into dst and returns the number of bytes needed. A nil dst only
// sizes the header, so callers can allocate and call again.
func EncodeHeader(desc Description, opts EncodeOptions, dst []byte) (int, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}

	width, err := u32FromInt(desc.Width)
	if err != nil {
		return 0, err
	}
	height, err := u32FromInt(desc.Height)
	if err != nil {
		return 0, err
	}
	depth, err := u32FromInt(desc.Depth)
	if err != nil {
		return 0, err
	}
	mips, err := u32FromInt(desc.MipLevels)
	if err != nil {
		return 0, err
	}

	forceDX10 := opts.ForceDX10 || desc.Dimension == Texture1D
	if desc.ArraySize > 1 && (desc.Dimension != TextureCube || desc.ArraySize != 6) {
		forceDX10 = true
	}

	var ddpf PixelFormat
	legacy := false
	if !forceDX10 {
		ddpf, legacy = legacyPixelFormat(desc.Format)
	}

	required := HeaderSize
	if !legacy {
		required = HeaderDX10Size
	}
	if dst == nil {
		return required, nil
	}
	if len(dst) < required {
		return required, fmt.Errorf("%w: header needs %d bytes, have %d", ErrBufferTooSmall, required, len(dst))
	}

	header := Header{
		Size:        headerSize,
		Flags:       FlagTexture | FlagMipmapCount,
		MipMapCount: mips,
		Caps:        CapsTexture,
	}
	if desc.MipLevels > 1 {
		header.Caps |= surfaceMipmap
	}

	switch desc.Dimension {
	case Texture1D:
		header.Width = width
		header.Height = 1
		header.Depth = 1
	case Texture2D, TextureCube:
		header.Width = width
		header.Height = height
		header.Depth = 1
		if desc.Dimension == TextureCube {
			header.Caps |= surfaceCubemap
			header.Caps2 |= Caps2CubemapAllFaces
		}
	case Texture3D:
		header.Flags |= FlagVolume
		header.Caps2 |= Caps2Volume
		header.Width = width
		header.Height = height
		header.Depth = depth
	}

	rowPitch, slicePitch, err := ComputePitch(desc.Format, desc.Width, desc.Height, PitchNone)
	if err != nil {
		return 0, err
	}
	if desc.Format.IsCompressed() {
		header.Flags |= FlagLinearSize
		if header.PitchOrLinearSize, err = u32FromInt(slicePitch); err != nil {
			return 0, err
		}
	} else {
		header.Flags |= FlagPitch
		if header.PitchOrLinearSize, err = u32FromInt(rowPitch); err != nil {
			return 0, err
		}
	}

	clear(dst[:required])
	le.PutUint32(dst, Magic)

	if legacy {
		header.PixelFormat = ddpf
		header.put(dst[magicSize:])
		return required, nil
	}

	header.PixelFormat = PixelFormatDX10
	header.put(dst[magicSize:])

	ext := HeaderDX10{Format: desc.Format}
	switch desc.Dimension {
	case Texture1D:
		ext.ResourceDimension = resourceDimensionTexture1D
	case Texture2D, TextureCube:
		ext.ResourceDimension = resourceDimensionTexture2D
	case Texture3D:
		ext.ResourceDimension = resourceDimensionTexture3D
	}
	arraySize := desc.ArraySize
	if desc.Dimension == TextureCube {
		ext.MiscFlag |= miscTextureCube
		arraySize /= 6
	}
	if ext.ArraySize, err = u32FromInt(arraySize); err != nil {
		return 0, err
	}
	ext.put(dst[HeaderSize:])

	return required, nil
}

// legacyPixelFormat returns the pre-DX10 pixel format that decodes back to
// format without conversion, if there is one.
func legacyPixelFormat(format Format) (PixelFormat, bool) {
	switch format {
	case FormatR8G8B8A8UNorm:
		return PixelFormatA8B8G8R8, true
	case FormatR16G16UNorm:
		return PixelFormatG16R16, true
	case FormatR8G8UNorm:
		return PixelFormatA8L8, true
	case FormatR16UNorm:
		return PixelFormatL16, true
	case FormatR8UNorm:
		return PixelFormatL8, true
	case FormatA8UNorm:
		return PixelFormatA8, true
	case FormatR8G8B8G8UNorm:
		return PixelFormatR8G8B8G8, true
	case FormatG8R8G8B8UNorm:
		return PixelFormatG8R8G8B8, true
	case FormatBC1UNorm:
		return PixelFormatDXT1, true
	case FormatBC2UNorm:
		return PixelFormatDXT3, true
	case FormatBC3UNorm:
		return PixelFormatDXT5, true
	case FormatBC4UNorm:
		return PixelFormatBC4UNorm, true
	case FormatBC4SNorm:
		return PixelFormatBC4SNorm, true
	case FormatBC5UNorm:
		return PixelFormatBC5UNorm, true
	case FormatBC5SNorm:
		return PixelFormatBC5SNorm, true
	case FormatB5G6R5UNorm:
		return PixelFormatR5G6B5, true
	case FormatB5G5R5A1UNorm:
		return PixelFormatA1R5G5B5, true
	case FormatB8G8R8A8UNorm:
		return PixelFormatA8R8G8B8, true
	case FormatB8G8R8X8UNorm:
		return PixelFormatX8R8G8B8, true
	case FormatR32G32B32A32Float:
		return fourCCPF(d3dfmtA32B32G32R32F), true
	case FormatR16G16B16A16Float:
		return fourCCPF(d3dfmtA16B16G16R16F), true
	case FormatR16G16B16A16UNorm:
		return fourCCPF(d3dfmtA16B16G16R16), true
	case FormatR16G16B16A16SNorm:
		return fourCCPF(d3dfmtQ16W16V16U16), true
	case FormatR32G32Float:
		return fourCCPF(d3dfmtG32R32F), true
	case FormatR16G16Float:
		return fourCCPF(d3dfmtG16R16F), true
	case FormatR32Float:
		return fourCCPF(d3dfmtR32F), true
	case FormatR16Float:
		return fourCCPF(d3dfmtR16F), true
	default:
		return PixelFormat{}, false
	}
}
