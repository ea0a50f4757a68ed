package dds

import "github.com/gogpu/gputypes"

// GPUFormat returns the WebGPU texture format a slice of f can be uploaded
// as without conversion, or gputypes.TextureFormatUndefined.
func (f Format) GPUFormat() gputypes.TextureFormat {
	switch f {
	case FormatR8UNorm:
		return gputypes.TextureFormatR8Unorm
	case FormatR8G8B8A8UNorm:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatB8G8R8A8UNorm:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

// GPUFormat returns the upload format of the image, see Format.GPUFormat.
func (img *Image) GPUFormat() gputypes.TextureFormat {
	return img.Description.Format.GPUFormat()
}
