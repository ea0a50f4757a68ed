package edds

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/dds"
)

// enfusionTag marks the reserved area of EDDS headers ("ENF1").
const enfusionTag = 0x31464e45

// enfusionTagOffset is the file offset of the second reserved header word.
const enfusionTagOffset = 4 + 28 + 4

// WriteOptions configures EDDS writing.
type WriteOptions struct {
	// Format is the pixel format for WriteImage. Zero means B8G8R8A8_UNORM.
	Format dds.Format
	// MaxMipLevels limits the chain WriteImage generates; 0 keeps it all.
	MaxMipLevels int
	// Uncompressed stores every block as COPY.
	Uncompressed bool
	// EncodeOptions are passed to the BCn encoder by WriteImage.
	EncodeOptions *bcn.EncodeOptions
}

// Encode writes tex to w as an EDDS stream.
func Encode(w io.Writer, tex *dds.Image, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	desc := tex.Description
	if desc.Dimension != dds.Texture2D || desc.ArraySize != 1 {
		return fmt.Errorf("%w: %v texture with %d items", ErrUnsupportedLayout, desc.Dimension, desc.ArraySize)
	}
	if len(tex.Buffers) != desc.MipLevels {
		return fmt.Errorf("%w: %d buffers for %d mip levels", ErrUnsupportedLayout, len(tex.Buffers), desc.MipLevels)
	}

	n, err := dds.EncodeHeader(desc, dds.EncodeOptions{}, nil)
	if err != nil {
		return err
	}
	header := make([]byte, n)
	if _, err := dds.EncodeHeader(desc, dds.EncodeOptions{}, header); err != nil {
		return err
	}
	le.PutUint32(header[enfusionTagOffset:], enfusionTag)

	// file order is smallest mip first
	blocks := make([]block, desc.MipLevels)
	for mip := range desc.MipLevels {
		pb := &tex.Buffers[mip]
		b, err := encodeBlock(pb.Data[:pb.BufferStride], !opts.Uncompressed)
		if err != nil {
			return fmt.Errorf("mip %d: %w", mip, err)
		}
		blocks[desc.MipLevels-1-mip] = b
	}

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w: header: %v", ErrWrite, err)
	}
	if err := writeBlockTable(w, blocks); err != nil {
		return err
	}
	for i, b := range blocks {
		if _, err := w.Write(b.payload); err != nil {
			return fmt.Errorf("%w: block %d: %v", ErrWrite, i, err)
		}
	}

	dds.Logger().Debug("edds encoded",
		"width", desc.Width,
		"height", desc.Height,
		"mipLevels", desc.MipLevels,
		"format", desc.Format,
	)

	return nil
}

// WriteFile writes tex to an EDDS file at path.
func WriteFile(path string, tex *dds.Image, opts *WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, tex, opts); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return f.Close()
}

// WriteImage encodes img with a generated mip chain and writes it to path.
func WriteImage(path string, img image.Image, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	format := opts.Format
	if format == dds.FormatUnknown {
		format = dds.FormatB8G8R8A8UNorm
	}

	tex, err := dds.FromImage(img, format, &dds.FromImageOptions{
		MaxMipLevels:  opts.MaxMipLevels,
		EncodeOptions: opts.EncodeOptions,
	})
	if err != nil {
		return err
	}

	return WriteFile(path, tex, opts)
}
