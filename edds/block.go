package edds

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the uncompressed size of one LZ4 chunk and of the
	// rolling dictionary.
	ChunkSize = 64 * 1024

	// payloads below this size are always stored raw
	minCompressSize = 1024
	// compressed output above this share of the input is stored raw
	maxCompressRatio = 0.85

	chunkLast    = 0x80
	maxChunkSize = 0x7fffff
)

// block is one mip level as stored in the file. For LZ4 blocks payload
// starts with the uncompressed size.
type block struct {
	magic   string
	payload []byte
}

// tableEntry is one row of the block table.
type tableEntry struct {
	magic string
	size  int32
}

var le = binary.LittleEndian

// encodeBlock stores raw as an LZ4 chunk stream when that pays off, and as a
// COPY block otherwise.
func encodeBlock(raw []byte, compress bool) (block, error) {
	rawSize, err := i32FromInt(len(raw))
	if err != nil {
		return block{}, err
	}
	stored := block{magic: BlockMagicCOPY, payload: raw}
	if !compress || len(raw) < minCompressSize {
		return stored, nil
	}

	limit := int(float64(len(raw)) * maxCompressRatio)
	payload := make([]byte, 4, 4+len(raw)/2)
	le.PutUint32(payload, uint32(rawSize))
	scratch := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for start := 0; start < len(raw); start += ChunkSize {
		chunk := raw[start:min(start+ChunkSize, len(raw))]

		n, err := lz4.CompressBlockHC(chunk, scratch, 0, nil, nil)
		if err != nil {
			return block{}, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*maxCompressRatio {
			return stored, nil
		}
		if n > maxChunkSize {
			return block{}, fmt.Errorf("%w: chunk of %d bytes", ErrLZ4Compress, n)
		}

		flags := byte(0)
		if start+len(chunk) == len(raw) {
			flags = chunkLast
		}
		payload = append(payload, byte(n), byte(n>>8), byte(n>>16), flags)
		payload = append(payload, scratch[:n]...)
		if len(payload) > limit {
			return stored, nil
		}
	}
	if _, err := i32FromInt(len(payload)); err != nil {
		return block{}, err
	}

	return block{magic: BlockMagicLZ4, payload: payload}, nil
}

// decodeBlock inflates a block body into exactly want bytes.
func decodeBlock(b block, want int) ([]byte, error) {
	switch b.magic {
	case BlockMagicCOPY:
		if len(b.payload) != want {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, want, len(b.payload))
		}
		out := make([]byte, want)
		copy(out, b.payload)
		return out, nil

	case BlockMagicLZ4:
		return decodeChunkStream(b.payload, want)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, b.magic)
	}
}

// decodeChunkStream decodes LZ4 chunks, each compressed against the last
// ChunkSize bytes of output. The leading uncompressed size is optional.
func decodeChunkStream(data []byte, want int) ([]byte, error) {
	if want <= 0 {
		return nil, fmt.Errorf("%w: target size %d", ErrChunkStream, want)
	}
	if len(data) >= 8 {
		prefix := int(le.Uint32(data))
		first := int(data[4]) | int(data[5])<<8 | int(data[6])<<16
		if prefix == want && first > 0 && first < 1<<20 {
			data = data[4:]
		}
	}

	out := make([]byte, want)
	pos := 0
	for {
		if len(data) < 4 {
			return nil, fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStream, len(data))
		}
		size := int(data[0]) | int(data[1])<<8 | int(data[2])<<16
		flags := data[3]
		data = data[4:]
		if flags&^chunkLast != 0 {
			return nil, fmt.Errorf("%w: flags 0x%02x", ErrChunkStream, flags)
		}
		if size <= 0 || size > len(data) {
			return nil, fmt.Errorf("%w: chunk size %d (remaining %d)", ErrChunkStream, size, len(data))
		}
		if pos >= want {
			return nil, fmt.Errorf("%w: output overrun", ErrChunkStream)
		}

		dict := out[max(0, pos-ChunkSize):pos]
		dst := out[pos:min(pos+ChunkSize, want)]
		n, err := lz4.UncompressBlockWithDict(data[:size], dst, dict)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		pos += n
		data = data[size:]

		if flags&chunkLast != 0 {
			break
		}
	}

	if pos != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, want, pos)
	}
	if len(data) != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrChunkStream, len(data))
	}

	return out, nil
}

// readBlockTable reads count table entries.
func readBlockTable(r io.Reader, count int) ([]tableEntry, error) {
	table := make([]tableEntry, count)
	var raw [8]byte
	for i := range table {
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrBlockTable, i, err)
		}
		entry := tableEntry{magic: string(raw[:4]), size: int32(le.Uint32(raw[4:]))}
		if entry.magic != BlockMagicCOPY && entry.magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: entry %d: %w %q", ErrBlockTable, i, ErrUnknownBlockMagic, entry.magic)
		}
		if entry.size < 0 {
			return nil, fmt.Errorf("%w: entry %d: size %d", ErrBlockTable, i, entry.size)
		}
		table[i] = entry
	}

	return table, nil
}

// readBlockBody reads the body a table entry describes.
func readBlockBody(r io.Reader, entry tableEntry) (block, error) {
	payload := make([]byte, entry.size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return block{}, fmt.Errorf("%w: %s: %v", ErrBlockBody, entry.magic, err)
	}

	return block{magic: entry.magic, payload: payload}, nil
}

// writeBlockTable writes the table entries for blocks in file order.
func writeBlockTable(w io.Writer, blocks []block) error {
	var raw [8]byte
	for i, b := range blocks {
		size, err := i32FromInt(len(b.payload))
		if err != nil {
			return err
		}
		copy(raw[:4], b.magic)
		le.PutUint32(raw[4:], uint32(size))
		if _, err := w.Write(raw[:]); err != nil {
			return fmt.Errorf("%w: table entry %d: %v", ErrWrite, i, err)
		}
	}

	return nil
}
