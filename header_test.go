package dds

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func TestReadHeadersBoundaries(t *testing.T) {
	c := qt.New(t)

	valid := buildFile(newHeader(4, 4, PixelFormatDXT1), nil)

	c.Run("empty", func(c *qt.C) {
		_, _, err := ReadHeaders(nil)
		c.Assert(err, qt.ErrorIs, ErrNotThisFormat)
	})
	c.Run("short magic", func(c *qt.C) {
		_, _, err := ReadHeaders([]byte("DDS"))
		c.Assert(err, qt.ErrorIs, ErrNotThisFormat)
	})
	c.Run("wrong magic", func(c *qt.C) {
		data := append([]byte("PNG "), valid[4:]...)
		_, _, err := ReadHeaders(data)
		c.Assert(err, qt.ErrorIs, ErrNotThisFormat)
	})
	c.Run("one byte short", func(c *qt.C) {
		_, _, err := ReadHeaders(valid[:HeaderSize-1])
		c.Assert(err, qt.ErrorIs, ErrTruncatedBuffer)
	})
	c.Run("exact", func(c *qt.C) {
		h, ext, err := ReadHeaders(valid[:HeaderSize])
		c.Assert(err, qt.IsNil)
		c.Assert(ext, qt.IsNil)
		c.Assert(h.Width, qt.Equals, uint32(4))
	})
	c.Run("bad header size", func(c *qt.C) {
		h := newHeader(4, 4, PixelFormatDXT1)
		h.Size = 100
		_, _, err := ReadHeaders(buildFile(h, nil))
		c.Assert(err, qt.ErrorIs, ErrMalformedHeader)
	})
	c.Run("bad pixel format size", func(c *qt.C) {
		data := buildFile(newHeader(4, 4, PixelFormatDXT1), nil)
		le.PutUint32(data[magicSize+72:], 24)
		_, _, err := ReadHeaders(data)
		c.Assert(err, qt.ErrorIs, ErrMalformedHeader)
	})
	c.Run("DX10 one byte short", func(c *qt.C) {
		data := dx10File(4, 4, FormatBC7UNorm)
		_, _, err := ReadHeaders(data[:HeaderDX10Size-1])
		c.Assert(err, qt.ErrorIs, ErrTruncatedBuffer)

		_, ext, err := ReadHeaders(data)
		c.Assert(err, qt.IsNil)
		c.Assert(ext.Format, qt.Equals, FormatBC7UNorm)
	})
}

func TestDecodeHeaderLegacy(t *testing.T) {
	c := qt.New(t)

	c.Run("mip chain", func(c *qt.C) {
		h := newHeader(64, 32, PixelFormatDXT1)
		h.Flags |= FlagMipmapCount
		h.MipMapCount = 7
		desc, conv, err := DecodeHeader(buildFile(h, nil), DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(conv, qt.Equals, ConvNone)
		c.Assert(desc, qt.DeepEquals, Description{
			Width: 64, Height: 32, Depth: 1, ArraySize: 1, MipLevels: 7,
			Dimension: Texture2D, Format: FormatBC1UNorm,
		})
	})

	c.Run("zero mip count", func(c *qt.C) {
		desc, _, err := DecodeHeader(buildFile(newHeader(8, 8, PixelFormatL8), nil), DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(desc.MipLevels, qt.Equals, 1)
	})

	c.Run("mip count beyond chain", func(c *qt.C) {
		h := newHeader(8, 8, PixelFormatL8)
		h.MipMapCount = 5
		_, _, err := DecodeHeader(buildFile(h, nil), DecodeOptions{})
		c.Assert(err, qt.ErrorIs, ErrInvalidGeometry)
	})

	c.Run("cubemap", func(c *qt.C) {
		h := newHeader(16, 16, PixelFormatA8R8G8B8)
		h.Caps2 = Caps2CubemapAllFaces
		desc, _, err := DecodeHeader(buildFile(h, nil), DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(desc.Dimension, qt.Equals, TextureCube)
		c.Assert(desc.ArraySize, qt.Equals, 6)
	})

	c.Run("partial cubemap", func(c *qt.C) {
		h := newHeader(16, 16, PixelFormatA8R8G8B8)
		h.Caps2 = Caps2Cubemap | Caps2CubemapPositiveX | Caps2CubemapNegativeX
		_, _, err := DecodeHeader(buildFile(h, nil), DecodeOptions{})
		c.Assert(err, qt.ErrorIs, ErrInvalidGeometry)
	})

	c.Run("volume", func(c *qt.C) {
		h := newHeader(8, 4, PixelFormatL8)
		h.Flags |= FlagVolume
		h.Depth = 3
		desc, _, err := DecodeHeader(buildFile(h, nil), DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(desc.Dimension, qt.Equals, Texture3D)
		c.Assert(desc.Depth, qt.Equals, 3)
	})

	c.Run("zero width", func(c *qt.C) {
		_, _, err := DecodeHeader(buildFile(newHeader(0, 4, PixelFormatL8), nil), DecodeOptions{})
		c.Assert(err, qt.ErrorIs, ErrInvalidGeometry)
	})

	c.Run("unknown pixel format", func(c *qt.C) {
		_, _, err := DecodeHeader(buildFile(newHeader(4, 4, fourCCPF(MakeFourCC('B', 'A', 'D', '!'))), nil), DecodeOptions{})
		c.Assert(err, qt.ErrorIs, ErrUnsupportedPixelFormat)
	})
}

func TestDecodeHeaderDX10(t *testing.T) {
	c := qt.New(t)

	build := func(height, depth uint32, flags uint32, ext HeaderDX10) []byte {
		h := newHeader(8, 1, PixelFormatDX10)
		h.Height = height
		h.Depth = depth
		h.Flags |= flags
		return buildFile(h, &ext)
	}

	tests := []struct {
		name string
		data []byte
		want Description
		err  error
	}{
		{
			name: "1D",
			data: build(1, 0, 0, HeaderDX10{Format: FormatR8UNorm, ResourceDimension: resourceDimensionTexture1D, ArraySize: 4}),
			want: Description{Width: 8, Height: 1, Depth: 1, ArraySize: 4, MipLevels: 1, Dimension: Texture1D, Format: FormatR8UNorm},
		},
		{
			name: "1D with height",
			data: build(2, 0, 0, HeaderDX10{Format: FormatR8UNorm, ResourceDimension: resourceDimensionTexture1D, ArraySize: 1}),
			err:  ErrInvalidGeometry,
		},
		{
			name: "2D cube array",
			data: build(8, 0, 0, HeaderDX10{Format: FormatBC7UNorm, ResourceDimension: resourceDimensionTexture2D, MiscFlag: miscTextureCube, ArraySize: 2}),
			want: Description{Width: 8, Height: 8, Depth: 1, ArraySize: 12, MipLevels: 1, Dimension: TextureCube, Format: FormatBC7UNorm},
		},
		{
			name: "3D",
			data: build(4, 2, FlagVolume, HeaderDX10{Format: FormatR16Float, ResourceDimension: resourceDimensionTexture3D, ArraySize: 1}),
			want: Description{Width: 8, Height: 4, Depth: 2, ArraySize: 1, MipLevels: 1, Dimension: Texture3D, Format: FormatR16Float},
		},
		{
			name: "3D without volume flag",
			data: build(4, 2, 0, HeaderDX10{Format: FormatR16Float, ResourceDimension: resourceDimensionTexture3D, ArraySize: 1}),
			err:  ErrInvalidGeometry,
		},
		{
			name: "3D array",
			data: build(4, 2, FlagVolume, HeaderDX10{Format: FormatR16Float, ResourceDimension: resourceDimensionTexture3D, ArraySize: 2}),
			err:  ErrInvalidGeometry,
		},
		{
			name: "zero array size",
			data: build(4, 0, 0, HeaderDX10{Format: FormatR8UNorm, ResourceDimension: resourceDimensionTexture2D}),
			err:  ErrInvalidGeometry,
		},
		{
			name: "unknown format",
			data: build(4, 0, 0, HeaderDX10{Format: 200, ResourceDimension: resourceDimensionTexture2D, ArraySize: 1}),
			err:  ErrUnsupportedPixelFormat,
		},
		{
			name: "unknown dimension",
			data: build(4, 0, 0, HeaderDX10{Format: FormatR8UNorm, ResourceDimension: 7, ArraySize: 1}),
			err:  ErrMalformedHeader,
		},
	}

	for _, tc := range tests {
		c.Run(tc.name, func(c *qt.C) {
			desc, conv, err := DecodeHeader(tc.data, DecodeOptions{})
			if tc.err != nil {
				c.Assert(err, qt.ErrorIs, tc.err)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(conv, qt.Equals, ConvDX10)
			c.Assert(cmp.Diff(tc.want, desc), qt.Equals, "")
		})
	}
}

func TestDecodeHeaderOptions(t *testing.T) {
	c := qt.New(t)

	c.Run("force RGB", func(c *qt.C) {
		desc, conv, err := DecodeHeader(dx10File(4, 4, FormatB8G8R8X8UNormSRGB), DecodeOptions{ForceRGB: true})
		c.Assert(err, qt.IsNil)
		c.Assert(desc.Format, qt.Equals, FormatR8G8B8A8UNormSRGB)
		c.Assert(conv, qt.Equals, ConvDX10|ConvSwizzle|ConvNoAlpha)
	})

	c.Run("force RGB leaves RGB alone", func(c *qt.C) {
		desc, conv, err := DecodeHeader(dx10File(4, 4, FormatR8G8B8A8UNorm), DecodeOptions{ForceRGB: true})
		c.Assert(err, qt.IsNil)
		c.Assert(desc.Format, qt.Equals, FormatR8G8B8A8UNorm)
		c.Assert(conv, qt.Equals, ConvDX10)
	})

	c.Run("no 16bpp 565", func(c *qt.C) {
		desc, conv, err := DecodeHeader(buildFile(newHeader(4, 4, PixelFormatR5G6B5), nil), DecodeOptions{No16Bpp: true})
		c.Assert(err, qt.IsNil)
		c.Assert(desc.Format, qt.Equals, FormatR8G8B8A8UNorm)
		c.Assert(conv, qt.Equals, ConvExpand|ConvNoAlpha|ConvFormat565)
	})

	c.Run("no 16bpp 4444", func(c *qt.C) {
		desc, conv, err := DecodeHeader(dx10File(4, 4, FormatB4G4R4A4UNorm), DecodeOptions{No16Bpp: true})
		c.Assert(err, qt.IsNil)
		c.Assert(desc.Format, qt.Equals, FormatR8G8B8A8UNorm)
		c.Assert(conv, qt.Equals, ConvDX10|ConvExpand|ConvFormat4444)
	})

	c.Run("no 16bpp 332", func(c *qt.C) {
		pf := maskPF(PFRGB, 8, 0xe0, 0x1c, 0x03, 0)
		desc, conv, err := DecodeHeader(buildFile(newHeader(4, 4, pf), nil), DecodeOptions{No16Bpp: true})
		c.Assert(err, qt.IsNil)
		c.Assert(desc.Format, qt.Equals, FormatR8G8B8A8UNorm)
		c.Assert(conv, qt.Equals, ConvExpand|ConvFormat332)
	})
}

func TestEncodeHeaderRoundTrip(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		desc Description
		opts EncodeOptions
		size int
	}{
		{
			name: "2D RGBA8 legacy",
			desc: Description{Width: 7, Height: 5, Depth: 1, ArraySize: 1, MipLevels: 3, Dimension: Texture2D, Format: FormatR8G8B8A8UNorm},
			size: HeaderSize,
		},
		{
			name: "2D RGBA8 forced DX10",
			desc: Description{Width: 7, Height: 5, Depth: 1, ArraySize: 1, MipLevels: 3, Dimension: Texture2D, Format: FormatR8G8B8A8UNorm},
			opts: EncodeOptions{ForceDX10: true},
			size: HeaderDX10Size,
		},
		{
			name: "2D BC7",
			desc: Description{Width: 256, Height: 128, Depth: 1, ArraySize: 1, MipLevels: 9, Dimension: Texture2D, Format: FormatBC7UNormSRGB},
			size: HeaderDX10Size,
		},
		{
			name: "2D array",
			desc: Description{Width: 16, Height: 16, Depth: 1, ArraySize: 3, MipLevels: 1, Dimension: Texture2D, Format: FormatBC1UNorm},
			size: HeaderDX10Size,
		},
		{
			name: "cube legacy",
			desc: Description{Width: 32, Height: 32, Depth: 1, ArraySize: 6, MipLevels: 6, Dimension: TextureCube, Format: FormatBC3UNorm},
			size: HeaderSize,
		},
		{
			name: "cube array",
			desc: Description{Width: 32, Height: 32, Depth: 1, ArraySize: 12, MipLevels: 1, Dimension: TextureCube, Format: FormatBC3UNorm},
			size: HeaderDX10Size,
		},
		{
			name: "1D",
			desc: Description{Width: 64, Height: 1, Depth: 1, ArraySize: 1, MipLevels: 7, Dimension: Texture1D, Format: FormatR8UNorm},
			size: HeaderDX10Size,
		},
		{
			name: "3D legacy",
			desc: Description{Width: 8, Height: 8, Depth: 8, ArraySize: 1, MipLevels: 4, Dimension: Texture3D, Format: FormatR8UNorm},
			size: HeaderSize,
		},
		{
			name: "3D DX10",
			desc: Description{Width: 8, Height: 8, Depth: 4, ArraySize: 1, MipLevels: 1, Dimension: Texture3D, Format: FormatR11G11B10Float},
			size: HeaderDX10Size,
		},
		{
			name: "B5G6R5 legacy",
			desc: Description{Width: 4, Height: 4, Depth: 1, ArraySize: 1, MipLevels: 1, Dimension: Texture2D, Format: FormatB5G6R5UNorm},
			size: HeaderSize,
		},
	}

	for _, tc := range tests {
		c.Run(tc.name, func(c *qt.C) {
			n, err := EncodeHeader(tc.desc, tc.opts, nil)
			c.Assert(err, qt.IsNil)
			c.Assert(n, qt.Equals, tc.size)

			buf := make([]byte, n)
			written, err := EncodeHeader(tc.desc, tc.opts, buf)
			c.Assert(err, qt.IsNil)
			c.Assert(written, qt.Equals, n)

			got, _, err := DecodeHeader(buf, DecodeOptions{})
			c.Assert(err, qt.IsNil)
			c.Assert(cmp.Diff(tc.desc, got), qt.Equals, "")
		})
	}
}

func TestEncodeHeaderErrors(t *testing.T) {
	c := qt.New(t)

	desc := Description{Width: 4, Height: 4, Depth: 1, ArraySize: 1, MipLevels: 1, Dimension: Texture2D, Format: FormatBC7UNorm}

	n, err := EncodeHeader(desc, EncodeOptions{}, make([]byte, HeaderSize))
	c.Assert(err, qt.ErrorIs, ErrBufferTooSmall)
	c.Assert(n, qt.Equals, HeaderDX10Size)

	bad := desc
	bad.ArraySize = 0
	_, err = EncodeHeader(bad, EncodeOptions{}, nil)
	c.Assert(err, qt.ErrorIs, ErrInvalidGeometry)

	bad = desc
	bad.Dimension = TextureCube
	_, err = EncodeHeader(bad, EncodeOptions{}, nil)
	c.Assert(err, qt.ErrorIs, ErrInvalidGeometry)

	bad = desc
	bad.Format = FormatUnknown
	_, err = EncodeHeader(bad, EncodeOptions{}, nil)
	c.Assert(err, qt.ErrorIs, ErrUnsupportedPixelFormat)
}

func TestEncodeHeaderFields(t *testing.T) {
	c := qt.New(t)

	desc := Description{Width: 10, Height: 6, Depth: 1, ArraySize: 1, MipLevels: 2, Dimension: Texture2D, Format: FormatBC1UNorm}
	buf := make([]byte, HeaderSize)
	_, err := EncodeHeader(desc, EncodeOptions{}, buf)
	c.Assert(err, qt.IsNil)

	h, ext, err := ReadHeaders(buf)
	c.Assert(err, qt.IsNil)
	c.Assert(ext, qt.IsNil)
	c.Assert(h.Flags&FlagLinearSize, qt.Not(qt.Equals), uint32(0))
	// 3x2 blocks of 8 bytes
	c.Assert(h.PitchOrLinearSize, qt.Equals, uint32(48))
	c.Assert(h.Caps&CapsMipmap, qt.Not(qt.Equals), uint32(0))
	c.Assert(h.PixelFormat, qt.Equals, PixelFormatDXT1)
}
