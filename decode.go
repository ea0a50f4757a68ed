package dds

import "fmt"

// Decode assembles an Image from a complete DDS file held in data.
//
// When no conversion is needed and makeCopy is false the result borrows
// data. Swizzle or alpha fixups rewrite data itself only when
// opts.InPlace is set; otherwise they go to a fresh owned buffer, as does
// every expansion.
func Decode(data []byte, makeCopy bool, opts DecodeOptions) (*Image, error) {
	header, dx10, err := ReadHeaders(data)
	if err != nil {
		return nil, err
	}
	desc, conv, err := describe(header, dx10, opts)
	if err != nil {
		return nil, err
	}
	if makeCopy {
		conv |= ConvCopyMemory
	}

	offset := HeaderSize
	if dx10 != nil {
		offset = HeaderDX10Size
	}

	var pal *Palette
	if conv&ConvPal8 != 0 {
		if len(data)-offset < paletteSize {
			return nil, fmt.Errorf("%w: palette needs %d bytes, have %d", ErrTruncatedBuffer, paletteSize, len(data)-offset)
		}
		pal = new(Palette)
		for i := range pal {
			pal[i] = le.Uint32(data[offset+i*4:])
		}
		offset += paletteSize
	}

	plan, err := PlanConversion(desc, conv, opts)
	if err != nil {
		return nil, err
	}

	pixels := data[offset:]
	srcLayout, srcSize, err := computeLayout(desc, desc.Format, plan.SourcePitch, len(pixels))
	if err != nil {
		return nil, err
	}
	pixels = pixels[:srcSize:srcSize]

	var img *Image
	if plan.Copy {
		img, err = NewImage(desc)
		if err != nil {
			return nil, err
		}
	} else {
		img = newImage(desc, srcLayout, pixels, Borrowed)
	}

	if plan.Op != OpNone {
		if err := assemble(img, srcLayout, pixels, &plan, pal); err != nil {
			return nil, err
		}
	}

	Logger().Debug("dds decoded",
		"dimension", desc.Dimension,
		"width", desc.Width,
		"height", desc.Height,
		"depth", desc.Depth,
		"arraySize", desc.ArraySize,
		"mipLevels", desc.MipLevels,
		"format", desc.Format,
		"conversion", conv,
		"op", plan.Op,
		"ownership", img.ownership,
	)

	return img, nil
}

// assemble converts each source slice into the matching image buffer.
func assemble(img *Image, srcLayout []sliceLayout, pixels []byte, plan *ConversionPlan, pal *Palette) error {
	format := img.Description.Format

	for i, s := range srcLayout {
		src := pixels[s.offset : s.offset+s.slicePitch]
		dst := &img.Buffers[i]

		if plan.Op == OpRawCopy {
			copy(dst.Data, src)
			continue
		}

		for y := range dst.Height {
			srcRow := src[y*s.rowPitch : (y+1)*s.rowPitch]
			if err := plan.convertRow(dst.Row(y), srcRow, format, pal); err != nil {
				return fmt.Errorf("slice %d row %d: %w", i, y, err)
			}
		}
	}

	return nil
}
