package dds

import (
	"fmt"
	"io"
)

// checkBuffers verifies buffers covers every slice of desc.
func checkBuffers(buffers []PixelBuffer, desc Description) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	count, err := sliceCount(desc)
	if err != nil {
		return err
	}
	if len(buffers) != count {
		return fmt.Errorf("%w: %d slices, description needs %d", ErrSliceIndex, len(buffers), count)
	}
	for i := range buffers {
		if len(buffers[i].Data) < buffers[i].BufferStride {
			return fmt.Errorf("%w: slice %d has %d of %d bytes", ErrBufferTooSmall, i, len(buffers[i].Data), buffers[i].BufferStride)
		}
	}

	return nil
}

// EncodedSize returns the size of the DDS file Encode would write.
func EncodedSize(buffers []PixelBuffer, desc Description, opts EncodeOptions) (int, error) {
	if err := checkBuffers(buffers, desc); err != nil {
		return 0, err
	}
	total, err := EncodeHeader(desc, opts, nil)
	if err != nil {
		return 0, err
	}
	for i := range buffers {
		if total, err = addInt(total, buffers[i].BufferStride); err != nil {
			return 0, err
		}
	}

	return total, nil
}

// EncodeInto writes a DDS file into dst and returns its size. A nil dst only
// returns the size. The pixel data of each slice is written using its own
// BufferStride, in the order of buffers.
func EncodeInto(dst []byte, buffers []PixelBuffer, desc Description, opts EncodeOptions) (int, error) {
	total, err := EncodedSize(buffers, desc, opts)
	if err != nil {
		return 0, err
	}
	if dst == nil {
		return total, nil
	}
	if len(dst) < total {
		return total, fmt.Errorf("%w: file needs %d bytes, have %d", ErrBufferTooSmall, total, len(dst))
	}

	n, err := EncodeHeader(desc, opts, dst)
	if err != nil {
		return 0, err
	}
	for i := range buffers {
		n += copy(dst[n:], buffers[i].Data[:buffers[i].BufferStride])
	}

	return n, nil
}

// Encode writes a DDS file to w.
func Encode(w io.Writer, buffers []PixelBuffer, desc Description, opts EncodeOptions) error {
	if err := checkBuffers(buffers, desc); err != nil {
		return err
	}

	var header [HeaderDX10Size]byte
	n, err := EncodeHeader(desc, opts, header[:])
	if err != nil {
		return err
	}
	if _, err := w.Write(header[:n]); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	for i := range buffers {
		if _, err := w.Write(buffers[i].Data[:buffers[i].BufferStride]); err != nil {
			return fmt.Errorf("%w: slice %d: %v", ErrWriteSlice, i, err)
		}
	}

	Logger().Debug("dds encoded",
		"dimension", desc.Dimension,
		"format", desc.Format,
		"slices", len(buffers),
		"dx10", n == HeaderDX10Size,
	)

	return nil
}

// Encode writes img as a DDS file to w.
func (img *Image) Encode(w io.Writer, opts EncodeOptions) error {
	return Encode(w, img.Buffers, img.Description, opts)
}

// MarshalBinary encodes img as a DDS file with default options.
func (img *Image) MarshalBinary() ([]byte, error) {
	size, err := EncodeInto(nil, img.Buffers, img.Description, EncodeOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	if _, err := EncodeInto(out, img.Buffers, img.Description, EncodeOptions{}); err != nil {
		return nil, err
	}

	return out, nil
}
