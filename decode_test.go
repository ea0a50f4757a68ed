package dds

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func sequence(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}

	return out
}

func TestDecodeZeroCopy(t *testing.T) {
	c := qt.New(t)

	pixels := words(0x11223344, 0x55667788, 0x99aabbcc, 0xddeeff00)
	data := dx10File(2, 2, FormatR8G8B8A8UNorm, pixels)

	img, err := Decode(data, false, DecodeOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(img.Ownership(), qt.Equals, Borrowed)
	c.Assert(img.OwnsData(), qt.IsFalse)
	c.Assert(img.Buffers, qt.HasLen, 1)
	c.Assert(&img.Bytes()[0] == &data[HeaderDX10Size], qt.IsTrue)

	pb := img.Buffers[0]
	c.Assert(pb.RowStride, qt.Equals, 8)
	c.Assert(pb.BufferStride, qt.Equals, 16)
	c.Assert(pb.Rows(), qt.Equals, 2)
	c.Assert(pb.Row(1), qt.DeepEquals, pixels[8:])
}

func TestDecodeMakeCopy(t *testing.T) {
	c := qt.New(t)

	pixels := sequence(16)
	data := dx10File(2, 2, FormatR8G8B8A8UNorm, pixels)

	img, err := Decode(data, true, DecodeOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(img.Ownership(), qt.Equals, Owned)
	c.Assert(img.Bytes(), qt.DeepEquals, pixels)
	c.Assert(&img.Bytes()[0] == &data[HeaderDX10Size], qt.IsFalse)

	// trailing bytes are not part of the image
	data = dx10File(2, 2, FormatR8G8B8A8UNorm, pixels, []byte{0xee})
	img, err = Decode(data, false, DecodeOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(img.Bytes(), qt.HasLen, 16)
	c.Assert(cap(img.Bytes()), qt.Equals, 16)
}

func TestDecodeForceRGB(t *testing.T) {
	c := qt.New(t)

	pixels := words(0x11223344, 0x00aabbcc)
	want := words(0x11443322, 0x00ccbbaa)

	c.Run("copy leaves input", func(c *qt.C) {
		data := buildFile(newHeader(2, 1, PixelFormatA8R8G8B8), nil, pixels)
		orig := bytes.Clone(data)

		img, err := Decode(data, false, DecodeOptions{ForceRGB: true})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Description.Format, qt.Equals, FormatR8G8B8A8UNorm)
		c.Assert(img.Ownership(), qt.Equals, Owned)
		c.Assert(img.Bytes(), qt.DeepEquals, want)
		c.Assert(data, qt.DeepEquals, orig)
	})

	c.Run("in place rewrites input", func(c *qt.C) {
		data := buildFile(newHeader(2, 1, PixelFormatA8R8G8B8), nil, pixels)

		img, err := Decode(data, false, DecodeOptions{ForceRGB: true, InPlace: true})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Ownership(), qt.Equals, Borrowed)
		c.Assert(img.Bytes(), qt.DeepEquals, want)
		c.Assert(data[HeaderSize:], qt.DeepEquals, want)
	})

	c.Run("no alpha", func(c *qt.C) {
		data := buildFile(newHeader(2, 1, PixelFormatX8R8G8B8), nil, pixels)

		img, err := Decode(data, false, DecodeOptions{ForceRGB: true})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Bytes(), qt.DeepEquals, words(0xff443322, 0xffccbbaa))
	})
}

func TestDecodeLegacyExpansion(t *testing.T) {
	c := qt.New(t)

	c.Run("24bpp", func(c *qt.C) {
		data := buildFile(newHeader(1, 1, PixelFormatR8G8B8), nil, []byte{0x10, 0x20, 0x30})

		img, err := Decode(data, false, DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Description.Format, qt.Equals, FormatR8G8B8A8UNorm)
		c.Assert(img.Ownership(), qt.Equals, Owned)
		c.Assert(img.Bytes(), qt.DeepEquals, words(0xff102030))
	})

	c.Run("16bpp", func(c *qt.C) {
		data := buildFile(newHeader(2, 1, PixelFormatR5G6B5), nil, halfwords(0xf800, 0x001f))

		img, err := Decode(data, false, DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Description.Format, qt.Equals, FormatB5G6R5UNorm)
		c.Assert(img.Ownership(), qt.Equals, Borrowed)

		img, err = Decode(data, false, DecodeOptions{No16Bpp: true})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Description.Format, qt.Equals, FormatR8G8B8A8UNorm)
		c.Assert(img.Bytes(), qt.DeepEquals, words(0xff0000ff, 0xffff0000))
	})

	c.Run("legacy dword", func(c *qt.C) {
		data := buildFile(newHeader(3, 2, PixelFormatL8), nil, []byte{1, 2, 3, 0xee, 4, 5, 6, 0xee})

		img, err := Decode(data, false, DecodeOptions{LegacyDword: true})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Ownership(), qt.Equals, Owned)
		c.Assert(img.Bytes(), qt.DeepEquals, []byte{1, 2, 3, 4, 5, 6})
	})

	c.Run("rejected", func(c *qt.C) {
		data := buildFile(newHeader(1, 1, PixelFormatR8G8B8), nil, []byte{0x10, 0x20, 0x30})

		_, err := Decode(data, false, DecodeOptions{NoLegacyExpansion: true})
		c.Assert(err, qt.ErrorIs, ErrUnsupportedPixelFormat)
	})
}

func TestDecodePalette(t *testing.T) {
	c := qt.New(t)

	pal := make([]uint32, paletteEntries)
	pal[0] = 0xff000000
	pal[1] = 0xff0000ff
	header := newHeader(2, 1, maskPF(PFPal8, 8, 0, 0, 0, 0))

	data := buildFile(header, nil, words(pal...), []byte{1, 0})
	img, err := Decode(data, false, DecodeOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(img.Description.Format, qt.Equals, FormatR8G8B8A8UNorm)
	c.Assert(img.Bytes(), qt.DeepEquals, words(0xff0000ff, 0xff000000))

	_, err = Decode(buildFile(header, nil, make([]byte, 100)), false, DecodeOptions{})
	c.Assert(err, qt.ErrorIs, ErrTruncatedBuffer)

	// palette present but no index data
	_, err = Decode(buildFile(header, nil, words(pal...)), false, DecodeOptions{})
	c.Assert(err, qt.ErrorIs, ErrTruncatedBuffer)
}

func TestDecodeErrors(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, ErrNotThisFormat},
		{"wrong magic", make([]byte, HeaderDX10Size), ErrNotThisFormat},
		{"short header", dx10File(2, 2, FormatR8UNorm)[:HeaderSize-1], ErrTruncatedBuffer},
		{"short pixels", dx10File(4, 4, FormatR8G8B8A8UNorm, make([]byte, 63)), ErrTruncatedBuffer},
		{"no pixels", dx10File(4, 4, FormatBC1UNorm), ErrTruncatedBuffer},
		{"unknown format", dx10File(4, 4, Format(200), make([]byte, 64)), ErrUnsupportedPixelFormat},
	}

	for _, tc := range tests {
		c.Run(tc.name, func(c *qt.C) {
			_, err := Decode(tc.data, false, DecodeOptions{})
			c.Assert(err, qt.ErrorIs, tc.err)
		})
	}
}

func TestDecodeSliceOrder(t *testing.T) {
	c := qt.New(t)

	c.Run("array with mips", func(c *qt.C) {
		h := newHeader(4, 4, PixelFormatDX10)
		h.Flags |= FlagMipmapCount
		h.MipMapCount = 2
		ext := &HeaderDX10{Format: FormatR8UNorm, ResourceDimension: resourceDimensionTexture2D, ArraySize: 2}
		data := buildFile(h, ext, sequence(40))

		img, err := Decode(data, false, DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Buffers, qt.HasLen, 4)

		got := make([][2]int, len(img.Buffers))
		for i, pb := range img.Buffers {
			got[i] = [2]int{pb.Width, int(pb.Data[0])}
		}
		want := [][2]int{{4, 0}, {2, 16}, {4, 20}, {2, 36}}
		if diff := cmp.Diff(want, got); diff != "" {
			c.Fatalf("slices mismatch (-want +got):\n%s", diff)
		}

		pb, err := img.PixelBuffer(1, 1, 0)
		c.Assert(err, qt.IsNil)
		c.Assert(pb.Data, qt.DeepEquals, sequence(40)[36:])

		_, err = img.PixelBuffer(2, 0, 0)
		c.Assert(err, qt.ErrorIs, ErrSliceIndex)
		_, err = img.PixelBuffer(0, 2, 0)
		c.Assert(err, qt.ErrorIs, ErrSliceIndex)
		_, err = img.PixelBuffer(0, 0, 1)
		c.Assert(err, qt.ErrorIs, ErrSliceIndex)
	})

	c.Run("volume", func(c *qt.C) {
		h := newHeader(4, 4, PixelFormatL8)
		h.Flags |= FlagVolume | FlagMipmapCount
		h.Depth = 4
		h.MipMapCount = 3
		data := buildFile(h, nil, sequence(16*4+4*2+1))

		img, err := Decode(data, false, DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Description.Dimension, qt.Equals, Texture3D)
		c.Assert(img.Buffers, qt.HasLen, 7)

		i, err := img.Index(0, 1, 1)
		c.Assert(err, qt.IsNil)
		c.Assert(i, qt.Equals, 5)
		c.Assert(img.Buffers[i].Data[0], qt.Equals, byte(16*4+4))

		i, err = img.Index(0, 2, 0)
		c.Assert(err, qt.IsNil)
		c.Assert(i, qt.Equals, 6)

		_, err = img.Index(0, 2, 1)
		c.Assert(err, qt.ErrorIs, ErrSliceIndex)
	})

	c.Run("cubemap", func(c *qt.C) {
		h := newHeader(2, 2, PixelFormatL8)
		h.Caps |= CapsComplex
		h.Caps2 = Caps2CubemapAllFaces
		data := buildFile(h, nil, sequence(24))

		img, err := Decode(data, false, DecodeOptions{})
		c.Assert(err, qt.IsNil)
		c.Assert(img.Description.Dimension, qt.Equals, TextureCube)
		c.Assert(img.Buffers, qt.HasLen, 6)

		pb, err := img.PixelBuffer(5, 0, 0)
		c.Assert(err, qt.IsNil)
		c.Assert(pb.Data, qt.DeepEquals, sequence(24)[20:])
	})
}

func TestImageClone(t *testing.T) {
	c := qt.New(t)

	data := dx10File(2, 1, FormatR8G8UNorm, []byte{1, 2, 3, 4})
	img, err := Decode(data, false, DecodeOptions{})
	c.Assert(err, qt.IsNil)

	clone := img.Clone()
	c.Assert(clone.Ownership(), qt.Equals, Owned)
	c.Assert(clone.Description, qt.Equals, img.Description)
	c.Assert(clone.Bytes(), qt.DeepEquals, img.Bytes())

	clone.Buffers[0].Data[0] = 0xff
	c.Assert(clone.Bytes()[0], qt.Equals, byte(0xff))
	c.Assert(img.Bytes()[0], qt.Equals, byte(1))
}

func TestNewImage(t *testing.T) {
	c := qt.New(t)

	desc := Description{Width: 8, Height: 8, Depth: 1, ArraySize: 1, MipLevels: 4, Dimension: Texture2D, Format: FormatBC1UNorm}
	img, err := NewImage(desc)
	c.Assert(err, qt.IsNil)
	c.Assert(img.Ownership(), qt.Equals, Owned)
	c.Assert(img.Buffers, qt.HasLen, 4)

	size, err := RequiredSize(desc)
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 32+8+8+8)
	c.Assert(img.Bytes(), qt.HasLen, size)

	desc.MipLevels = 0
	_, err = NewImage(desc)
	c.Assert(err, qt.ErrorIs, ErrInvalidGeometry)
}

func TestReadFile(t *testing.T) {
	c := qt.New(t)

	data := buildFile(newHeader(2, 1, PixelFormatA8R8G8B8), nil, words(0x11223344, 0x00aabbcc))
	path := filepath.Join(c.TempDir(), "tex.dds")
	c.Assert(os.WriteFile(path, data, 0o600), qt.IsNil)

	img, err := ReadFile(path, DecodeOptions{ForceRGB: true})
	c.Assert(err, qt.IsNil)
	c.Assert(img.Ownership(), qt.Equals, Owned)
	c.Assert(img.Bytes(), qt.DeepEquals, words(0x11443322, 0x00ccbbaa))

	img, err = Read(bytes.NewReader(data), DecodeOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(img.Ownership(), qt.Equals, Owned)
	c.Assert(img.Description.Format, qt.Equals, FormatB8G8R8A8UNorm)

	desc, err := ReadConfig(bytes.NewReader(data), DecodeOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(desc.Width, qt.Equals, 2)

	_, err = ReadConfig(bytes.NewReader(nil), DecodeOptions{})
	c.Assert(err, qt.ErrorIs, ErrNotThisFormat)

	_, err = ReadFile(filepath.Join(c.TempDir(), "missing.dds"), DecodeOptions{})
	c.Assert(err, qt.ErrorIs, ErrOpenFile)
}
