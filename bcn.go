package dds

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/woozymasta/bcn"
)

func init() {
	image.RegisterFormat("dds", "DDS ", DecodeImage, DecodeImageConfig)
}

// BCNFormat returns the bcn codec format for f, or bcn.FormatUnknown.
func (f Format) BCNFormat() bcn.Format {
	switch f {
	case FormatBC1Typeless, FormatBC1UNorm, FormatBC1UNormSRGB:
		return bcn.FormatDXT1
	case FormatBC2Typeless, FormatBC2UNorm, FormatBC2UNormSRGB:
		return bcn.FormatDXT3
	case FormatBC3Typeless, FormatBC3UNorm, FormatBC3UNormSRGB:
		return bcn.FormatDXT5
	case FormatBC4Typeless, FormatBC4UNorm:
		return bcn.FormatBC4
	case FormatBC5Typeless, FormatBC5UNorm:
		return bcn.FormatBC5
	case FormatR8G8B8A8Typeless, FormatR8G8B8A8UNorm, FormatR8G8B8A8UNormSRGB:
		return bcn.FormatRGBA8
	case FormatB8G8R8A8Typeless, FormatB8G8R8A8UNorm, FormatB8G8R8A8UNormSRGB:
		return bcn.FormatBGRA8
	default:
		return bcn.FormatUnknown
	}
}

// FormatFromBCN returns the UNORM format matching a bcn codec format.
func FormatFromBCN(f bcn.Format) (Format, error) {
	switch f {
	case bcn.FormatDXT1:
		return FormatBC1UNorm, nil
	case bcn.FormatDXT3:
		return FormatBC2UNorm, nil
	case bcn.FormatDXT5:
		return FormatBC3UNorm, nil
	case bcn.FormatBC4:
		return FormatBC4UNorm, nil
	case bcn.FormatBC5:
		return FormatBC5UNorm, nil
	case bcn.FormatRGBA8:
		return FormatR8G8B8A8UNorm, nil
	case bcn.FormatBGRA8:
		return FormatB8G8R8A8UNorm, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: bcn %v", ErrUnsupportedPixelFormat, f)
	}
}

// colorModel returns the color model ToImage produces for f.
func colorModel(f Format) (color.Model, bool) {
	switch f {
	case FormatR8UNorm:
		return color.GrayModel, true
	case FormatA8UNorm:
		return color.AlphaModel, true
	}
	if f.BCNFormat() != bcn.FormatUnknown {
		return color.NRGBAModel, true
	}

	return nil, false
}

// ToImage converts one slice to an image.Image. Block-compressed and
// 32bpp RGBA/BGRA slices go through the bcn codec; R8 and A8 map onto
// image.Gray and image.Alpha.
func (pb *PixelBuffer) ToImage(opts *bcn.DecodeOptions) (image.Image, error) {
	switch pb.Format {
	case FormatR8UNorm:
		img := image.NewGray(image.Rect(0, 0, pb.Width, pb.Height))
		for y := range pb.Height {
			copy(img.Pix[y*img.Stride:], pb.Row(y)[:pb.Width])
		}
		return img, nil

	case FormatA8UNorm:
		img := image.NewAlpha(image.Rect(0, 0, pb.Width, pb.Height))
		for y := range pb.Height {
			copy(img.Pix[y*img.Stride:], pb.Row(y)[:pb.Width])
		}
		return img, nil
	}

	format := pb.Format.BCNFormat()
	if format == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, pb.Format)
	}
	img, err := bcn.DecodeImageWithOptions(pb.Data[:pb.BufferStride], pb.Width, pb.Height, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}

	return img, nil
}

// ToImage converts the first depth layer of an array item and mip level.
func (img *Image) ToImage(array, mip int, opts *bcn.DecodeOptions) (image.Image, error) {
	pb, err := img.PixelBuffer(array, mip, 0)
	if err != nil {
		return nil, err
	}

	return pb.ToImage(opts)
}

// FromImageOptions configures FromImage.
type FromImageOptions struct {
	// MaxMipLevels limits the generated chain; 0 keeps the full chain.
	MaxMipLevels int
	// EncodeOptions are passed to the bcn encoder.
	EncodeOptions *bcn.EncodeOptions
}

// FromImage encodes src into a 2D texture of the given format with a
// generated mip chain.
func FromImage(src image.Image, format Format, opts *FromImageOptions) (*Image, error) {
	bf := format.BCNFormat()
	if bf == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, format)
	}
	if opts == nil {
		opts = &FromImageOptions{}
	}

	bounds := src.Bounds()
	desc := Description{
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Depth:     1,
		ArraySize: 1,
		MipLevels: CalculateMipLevels(bounds.Dx(), bounds.Dy(), 1),
		Dimension: Texture2D,
		Format:    format,
	}
	if opts.MaxMipLevels > 0 && opts.MaxMipLevels < desc.MipLevels {
		desc.MipLevels = opts.MaxMipLevels
	}

	mips := []image.Image{src}
	if desc.MipLevels > 1 {
		mips = bcn.GenerateMipmaps(src, false)
	}
	if len(mips) < desc.MipLevels {
		desc.MipLevels = len(mips)
	}

	out, err := NewImage(desc)
	if err != nil {
		return nil, err
	}
	for i := range desc.MipLevels {
		data, _, _, err := bcn.EncodeImageWithOptions(mips[i], bf, opts.EncodeOptions)
		if err != nil {
			return nil, fmt.Errorf("%w: mip %d: %v", ErrEncodeImage, i, err)
		}
		pb := &out.Buffers[i]
		if len(data) != pb.BufferStride {
			return nil, fmt.Errorf("%w: mip %d: %d bytes, want %d", ErrEncodeImage, i, len(data), pb.BufferStride)
		}
		copy(pb.Data, data)
	}

	return out, nil
}

// DecodeImage decodes the top mip level of the first array item of a DDS
// stream. It is registered with the image package under "dds".
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := Read(r, DecodeOptions{})
	if err != nil {
		return nil, err
	}

	return img.ToImage(0, 0, nil)
}

// DecodeImageConfig returns the size and color model of a DDS stream.
func DecodeImageConfig(r io.Reader) (image.Config, error) {
	desc, err := ReadConfig(r, DecodeOptions{})
	if err != nil {
		return image.Config{}, err
	}
	model, ok := colorModel(desc.Format)
	if !ok {
		return image.Config{}, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, desc.Format)
	}

	return image.Config{
		Width:      desc.Width,
		Height:     desc.Height,
		ColorModel: model,
	}, nil
}

// EncodeImage writes src to w as a single-level DDS texture.
func EncodeImage(w io.Writer, src image.Image, format Format) error {
	img, err := FromImage(src, format, &FromImageOptions{MaxMipLevels: 1})
	if err != nil {
		return err
	}

	return img.Encode(w, EncodeOptions{})
}
