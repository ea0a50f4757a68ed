package dds

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gogpu/gputypes"
)

func TestGPUFormat(t *testing.T) {
	c := qt.New(t)

	c.Assert(FormatR8UNorm.GPUFormat(), qt.Equals, gputypes.TextureFormatR8Unorm)
	c.Assert(FormatR8G8B8A8UNorm.GPUFormat(), qt.Equals, gputypes.TextureFormatRGBA8Unorm)
	c.Assert(FormatB8G8R8A8UNorm.GPUFormat(), qt.Equals, gputypes.TextureFormatBGRA8Unorm)
	c.Assert(FormatB5G6R5UNorm.GPUFormat(), qt.Equals, gputypes.TextureFormatUndefined)

	// 16bpp sources become uploadable once expanded
	data := buildFile(newHeader(1, 1, PixelFormatR5G6B5), nil, halfwords(0xffff))
	img, err := Decode(data, false, DecodeOptions{No16Bpp: true})
	c.Assert(err, qt.IsNil)
	c.Assert(img.GPUFormat(), qt.Equals, gputypes.TextureFormatRGBA8Unorm)
}
