package edds

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/dds"
)

// ReadOptions configures EDDS reading.
type ReadOptions struct {
	// DecodeOptions are passed to the BCn decoder by the image.Image helpers.
	DecodeOptions *bcn.DecodeOptions
}

// ReadConfig reads the texture description without touching block data.
func ReadConfig(path string) (dds.Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return dds.Description{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return dds.ReadConfig(f, dds.DecodeOptions{})
}

// ReadFile reads an EDDS file into a texture with its full mip chain.
func ReadFile(path string) (*dds.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	return Decode(data)
}

// Read reads a whole EDDS stream from r.
func Read(r io.Reader) (*dds.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadData, err)
	}

	return Decode(data)
}

// ReadImage reads an EDDS file and decodes its largest mip level.
func ReadImage(path string, opts *ReadOptions) (image.Image, error) {
	tex, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	var decOpts *bcn.DecodeOptions
	if opts != nil {
		decOpts = opts.DecodeOptions
	}

	return tex.ToImage(0, 0, decOpts)
}

// Decode parses an EDDS file held in data.
func Decode(data []byte) (*dds.Image, error) {
	header, dx10, err := dds.ReadHeaders(data)
	if err != nil {
		return nil, err
	}
	desc, conv, err := dds.DecodeHeader(data, dds.DecodeOptions{})
	if err != nil {
		return nil, err
	}
	if conv&^dds.ConvDX10 != 0 {
		return nil, fmt.Errorf("%w: %v needs %v", ErrUnsupportedFormat, desc.Format, conv)
	}
	if desc.Dimension != dds.Texture2D || desc.ArraySize != 1 {
		return nil, fmt.Errorf("%w: %v texture with %d items", ErrUnsupportedLayout, desc.Dimension, desc.ArraySize)
	}
	if header.Caps&dds.CapsMipmap == 0 {
		desc.MipLevels = 1
	}

	offset := dds.HeaderSize
	if dx10 != nil {
		offset = dds.HeaderDX10Size
	}

	tex, err := decodeBlocks(data[offset:], desc)
	if err == nil {
		return tex, nil
	}

	dds.Logger().Debug("edds block table unreadable, trying single block", "error", err)
	tex, fallbackErr := decodeSingleBlock(data[offset:], desc)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: %w", err, fallbackErr)
	}

	return tex, nil
}

// decodeBlocks reads the block table and one block per mip level.
func decodeBlocks(body []byte, desc dds.Description) (*dds.Image, error) {
	r := bytes.NewReader(body)
	table, err := readBlockTable(r, desc.MipLevels)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, entry := range table {
		total += int(entry.size)
	}
	if total > r.Len() {
		return nil, fmt.Errorf("%w: blocks need %d bytes, have %d", ErrBlockBody, total, r.Len())
	}

	tex, err := dds.NewImage(desc)
	if err != nil {
		return nil, err
	}

	// table and bodies run from the smallest mip to the largest
	for i, entry := range table {
		mip := desc.MipLevels - 1 - i
		b, err := readBlockBody(r, entry)
		if err != nil {
			return nil, fmt.Errorf("mip %d: %w", mip, err)
		}
		pb := &tex.Buffers[mip]
		raw, err := decodeBlock(b, pb.BufferStride)
		if err != nil {
			return nil, fmt.Errorf("mip %d: %w", mip, err)
		}
		copy(pb.Data, raw)
	}

	return tex, nil
}

// decodeSingleBlock handles older files that store the top mip as one
// untabled blob, either an LZ4 chunk stream or raw pixels.
func decodeSingleBlock(body []byte, desc dds.Description) (*dds.Image, error) {
	desc.MipLevels = 1
	tex, err := dds.NewImage(desc)
	if err != nil {
		return nil, err
	}
	pb := &tex.Buffers[0]

	raw, err := decodeChunkStream(body, pb.BufferStride)
	switch {
	case err == nil:
		copy(pb.Data, raw)
	case len(body) == pb.BufferStride:
		copy(pb.Data, body)
	default:
		return nil, fmt.Errorf("%w: %v", ErrSingleBlock, err)
	}

	return tex, nil
}
