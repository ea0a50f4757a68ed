package dds

import "fmt"

// Ownership reports who keeps the pixel memory of an Image alive.
type Ownership uint8

// Ownership values.
const (
	// Borrowed images alias the caller's input buffer. The caller must keep
	// that buffer alive and unchanged for as long as the image is used.
	Borrowed Ownership = iota
	// Owned images hold a buffer allocated by this package.
	Owned
)

func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}

	return "borrowed"
}

// PixelBuffer is one 2D slice of an Image: one depth layer of one mip level
// of one array item.
type PixelBuffer struct {
	Width  int
	Height int
	Format Format
	// RowStride is the byte distance between scanlines. Block formats count
	// rows of 4x4 blocks.
	RowStride int
	// BufferStride is the byte size of the slice.
	BufferStride int
	// Data holds exactly BufferStride bytes.
	Data []byte
}

// Rows returns the number of stored scanlines.
func (pb *PixelBuffer) Rows() int {
	if pb.RowStride == 0 {
		return 0
	}

	return pb.BufferStride / pb.RowStride
}

// Row returns scanline y.
func (pb *PixelBuffer) Row(y int) []byte {
	return pb.Data[y*pb.RowStride : (y+1)*pb.RowStride]
}

// Image is a decoded texture: a description plus its slices ordered array
// item, then mip level, then depth layer.
type Image struct {
	Description Description
	Buffers     []PixelBuffer

	data      []byte
	ownership Ownership
}

// sliceLayout is the placement of one slice inside a contiguous buffer.
type sliceLayout struct {
	offset     int
	width      int
	height     int
	rowPitch   int
	slicePitch int
}

// sliceCount returns how many 2D slices desc stores.
func sliceCount(desc Description) (int, error) {
	perItem := 0
	for mip := range desc.MipLevels {
		var err error
		if perItem, err = addInt(perItem, mipDepth(desc, mip)); err != nil {
			return 0, err
		}
	}

	return mulInt(perItem, desc.ArraySize)
}

func mipDepth(desc Description, mip int) int {
	if desc.Dimension != Texture3D {
		return 1
	}

	return mipDimension(desc.Depth, mip)
}

// computeLayout places every slice of desc into one buffer. limit bounds the
// total size; a layout that does not fit reports ErrTruncatedBuffer before
// any per-slice allocation.
func computeLayout(desc Description, format Format, flags PitchFlags, limit int) ([]sliceLayout, int, error) {
	count, err := sliceCount(desc)
	if err != nil {
		return nil, 0, err
	}
	// every slice takes at least one byte
	if count > limit {
		return nil, 0, fmt.Errorf("%w: %d slices in %d bytes", ErrTruncatedBuffer, count, limit)
	}

	layout := make([]sliceLayout, 0, count)
	total := 0
	for range desc.ArraySize {
		for mip := range desc.MipLevels {
			w := mipDimension(desc.Width, mip)
			h := mipDimension(desc.Height, mip)
			rowPitch, slicePitch, err := ComputePitch(format, w, h, flags)
			if err != nil {
				return nil, 0, err
			}
			for range mipDepth(desc, mip) {
				if total > limit-slicePitch {
					return nil, 0, fmt.Errorf("%w: pixel data exceeds %d bytes", ErrTruncatedBuffer, limit)
				}
				layout = append(layout, sliceLayout{
					offset:     total,
					width:      w,
					height:     h,
					rowPitch:   rowPitch,
					slicePitch: slicePitch,
				})
				total += slicePitch
			}
		}
	}

	return layout, total, nil
}

// RequiredSize returns the byte size of the pixel data of desc without
// padding.
func RequiredSize(desc Description) (int, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	_, total, err := computeLayout(desc, desc.Format, PitchNone, maxInt)

	return total, err
}

// NewImage allocates a zeroed, owned image for desc.
func NewImage(desc Description) (*Image, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	layout, total, err := computeLayout(desc, desc.Format, PitchNone, maxInt)
	if err != nil {
		return nil, err
	}

	return newImage(desc, layout, make([]byte, total), Owned), nil
}

func newImage(desc Description, layout []sliceLayout, data []byte, ownership Ownership) *Image {
	img := &Image{
		Description: desc,
		Buffers:     make([]PixelBuffer, len(layout)),
		data:        data,
		ownership:   ownership,
	}
	for i, s := range layout {
		img.Buffers[i] = PixelBuffer{
			Width:        s.width,
			Height:       s.height,
			Format:       desc.Format,
			RowStride:    s.rowPitch,
			BufferStride: s.slicePitch,
			Data:         data[s.offset : s.offset+s.slicePitch : s.offset+s.slicePitch],
		}
	}

	return img
}

// Ownership reports whether the image aliases caller memory.
func (img *Image) Ownership() Ownership {
	return img.ownership
}

// OwnsData reports whether the image holds its own pixel buffer.
func (img *Image) OwnsData() bool {
	return img.ownership == Owned
}

// Bytes returns the contiguous pixel data of all slices.
func (img *Image) Bytes() []byte {
	return img.data
}

// Index returns the position in Buffers of the given slice.
func (img *Image) Index(array, mip, z int) (int, error) {
	desc := img.Description
	if array < 0 || array >= desc.ArraySize || mip < 0 || mip >= desc.MipLevels {
		return 0, fmt.Errorf("%w: array %d mip %d", ErrSliceIndex, array, mip)
	}
	if z < 0 || z >= mipDepth(desc, mip) {
		return 0, fmt.Errorf("%w: depth %d at mip %d", ErrSliceIndex, z, mip)
	}

	perItem, before := 0, 0
	for m := range desc.MipLevels {
		if m == mip {
			before = perItem
		}
		perItem += mipDepth(desc, m)
	}

	return array*perItem + before + z, nil
}

// PixelBuffer returns the slice for an array item, mip level and depth
// layer.
func (img *Image) PixelBuffer(array, mip, z int) (*PixelBuffer, error) {
	i, err := img.Index(array, mip, z)
	if err != nil {
		return nil, err
	}

	return &img.Buffers[i], nil
}

// Clone returns an owned deep copy of img.
func (img *Image) Clone() *Image {
	data := make([]byte, len(img.data))
	copy(data, img.data)

	out := &Image{
		Description: img.Description,
		Buffers:     make([]PixelBuffer, len(img.Buffers)),
		data:        data,
		ownership:   Owned,
	}
	offset := 0
	for i, pb := range img.Buffers {
		out.Buffers[i] = pb
		out.Buffers[i].Data = data[offset : offset+pb.BufferStride : offset+pb.BufferStride]
		offset += pb.BufferStride
	}

	return out
}
