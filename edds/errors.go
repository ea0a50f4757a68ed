package edds

import "errors"

var (
	// ErrSizeOverflow indicates a block exceeds the int32 size field.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrUnsupportedLayout indicates a texture EDDS cannot store, such as
	// arrays, cubemaps or volumes.
	ErrUnsupportedLayout = errors.New("unsupported texture layout")
	// ErrUnsupportedFormat indicates a pixel format that needs conversion on load.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrChunkStream indicates a malformed LZ4 chunk stream.
	ErrChunkStream = errors.New("malformed LZ4 chunk stream")
	// ErrDecodedSizeMismatch indicates a block decoded to the wrong size.
	ErrDecodedSizeMismatch = errors.New("decoded size mismatch")
	// ErrBlockTable indicates the block table could not be read.
	ErrBlockTable = errors.New("invalid block table")
	// ErrBlockBody indicates a block body could not be read.
	ErrBlockBody = errors.New("invalid block body")
	// ErrSingleBlock indicates the legacy single-block fallback failed too.
	ErrSingleBlock = errors.New("failed to parse single block")
	// ErrOpenFile indicates EDDS file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrReadData indicates reading the input stream failed.
	ErrReadData = errors.New("reading EDDS data failed")
	// ErrWrite indicates writing the EDDS stream failed.
	ErrWrite = errors.New("writing EDDS data failed")
)
