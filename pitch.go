package dds

import "fmt"

// PitchFlags adjusts row pitch computation.
type PitchFlags uint8

// Pitch flags.
const (
	PitchNone PitchFlags = 0
	// PitchLegacyDword rounds rows up to a multiple of 4 bytes.
	PitchLegacyDword PitchFlags = 1 << iota
	// PitchBpp24 overrides the format size with 24 bits per pixel.
	PitchBpp24
	// PitchBpp16 overrides the format size with 16 bits per pixel.
	PitchBpp16
	// PitchBpp8 overrides the format size with 8 bits per pixel.
	PitchBpp8
)

// ComputePitch returns the row pitch and slice pitch of a width x height
// surface. Block formats count rows of 4x4 blocks.
func ComputePitch(format Format, width, height int, flags PitchFlags) (rowPitch, slicePitch int, err error) {
	if width < 1 || height < 1 {
		return 0, 0, fmt.Errorf("%w: extent %dx%d", ErrInvalidGeometry, width, height)
	}

	rowPitch, err = rowPitchOf(format, width, flags)
	if err != nil {
		return 0, 0, err
	}
	slicePitch, err = mulInt(rowPitch, scanlineCount(format, height))
	if err != nil {
		return 0, 0, err
	}

	return rowPitch, slicePitch, nil
}

func rowPitchOf(format Format, width int, flags PitchFlags) (int, error) {
	switch {
	case format.IsCompressed():
		return mulInt(max(1, (width+3)/4), format.BlockSize())

	case format.IsPacked():
		return mulInt((width+1)>>1, 4)
	}

	bpp := format.BitsPerPixel()
	switch {
	case flags&PitchBpp24 != 0:
		bpp = 24
	case flags&PitchBpp16 != 0:
		bpp = 16
	case flags&PitchBpp8 != 0:
		bpp = 8
	}
	if bpp == 0 {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, format)
	}

	bits, err := mulInt(width, bpp)
	if err != nil {
		return 0, err
	}
	if flags&PitchLegacyDword != 0 {
		// rows padded to whole DWORDs
		if bits > maxInt-31 {
			return 0, ErrSizeOverflow
		}
		return ((bits + 31) / 32) * 4, nil
	}
	if bits > maxInt-7 {
		return 0, ErrSizeOverflow
	}

	return (bits + 7) / 8, nil
}

// scanlineCount returns the number of rows a surface is stored as.
func scanlineCount(format Format, height int) int {
	if format.IsCompressed() {
		return max(1, (height+3)/4)
	}

	return height
}
