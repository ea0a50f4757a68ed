package dds

import "errors"

var (
	// ErrNotThisFormat indicates the input does not start with the DDS magic.
	// Callers should try another codec.
	ErrNotThisFormat = errors.New("not a DDS stream")
	// ErrTruncatedBuffer indicates the input is shorter than its declared structures.
	ErrTruncatedBuffer = errors.New("truncated buffer")
	// ErrMalformedHeader indicates a structurally invalid DDS header.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrInvalidGeometry indicates self-contradictory texture dimensions.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrUnsupportedPixelFormat indicates a recognized but unsupported pixel format.
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
	// ErrUnsupportedConversion indicates a conversion the scanline engine does not implement.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	// ErrMissingPalette indicates a palette format was expanded without a palette.
	ErrMissingPalette = errors.New("missing palette")
	// ErrBufferTooSmall indicates an encode destination or source slice is too small.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrOpenFile indicates DDS file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrReadData indicates reading the input stream failed.
	ErrReadData = errors.New("reading DDS data failed")
	// ErrWriteHeader indicates DDS header write failed.
	ErrWriteHeader = errors.New("writing DDS header failed")
	// ErrWriteSlice indicates slice data write failed.
	ErrWriteSlice = errors.New("writing slice data failed")
	// ErrDecodeImage indicates conversion of a slice to image.Image failed.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrEncodeImage indicates encoding an image.Image into a format failed.
	ErrEncodeImage = errors.New("encode image failed")
	// ErrSliceIndex indicates an out of range array, mip or depth index.
	ErrSliceIndex = errors.New("slice index out of range")
)
