package dds

// newHeader returns a minimal legacy 2D header.
func newHeader(width, height int, pf PixelFormat) Header {
	pf.Size = pixelFormatSize
	return Header{
		Size:        headerSize,
		Flags:       FlagTexture,
		Width:       uint32(width),
		Height:      uint32(height),
		PixelFormat: pf,
		Caps:        CapsTexture,
	}
}

// buildFile serializes headers and appends the given tails.
func buildFile(h Header, dx10 *HeaderDX10, tails ...[]byte) []byte {
	size := HeaderSize
	if dx10 != nil {
		size = HeaderDX10Size
	}
	out := make([]byte, size)
	le.PutUint32(out, Magic)
	h.put(out[magicSize:])
	if dx10 != nil {
		dx10.put(out[HeaderSize:])
	}
	for _, tail := range tails {
		out = append(out, tail...)
	}

	return out
}

// dx10File builds a DX10 file for a 2D texture of format.
func dx10File(width, height int, format Format, tails ...[]byte) []byte {
	h := newHeader(width, height, PixelFormatDX10)
	ext := &HeaderDX10{
		Format:            format,
		ResourceDimension: resourceDimensionTexture2D,
		ArraySize:         1,
	}

	return buildFile(h, ext, tails...)
}

// words serializes little-endian 32-bit values.
func words(values ...uint32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		le.PutUint32(out[i*4:], v)
	}

	return out
}

// halfwords serializes little-endian 16-bit values.
func halfwords(values ...uint16) []byte {
	out := make([]byte, 2*len(values))
	for i, v := range values {
		le.PutUint16(out[i*2:], v)
	}

	return out
}
