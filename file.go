package dds

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Read reads a whole DDS stream from r and decodes it. The returned image
// always owns its memory.
func Read(r io.Reader, opts DecodeOptions) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadData, err)
	}

	return decodeOwned(data, opts)
}

// ReadFile reads and decodes a DDS file.
func ReadFile(path string, opts DecodeOptions) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	return decodeOwned(data, opts)
}

// decodeOwned decodes a buffer nobody else holds, so fixups may run in it
// and a borrowed result is owned after all.
func decodeOwned(data []byte, opts DecodeOptions) (*Image, error) {
	opts.InPlace = true
	img, err := Decode(data, false, opts)
	if err != nil {
		return nil, err
	}
	img.ownership = Owned

	return img, nil
}

// ReadConfig decodes only the headers at the start of r.
func ReadConfig(r io.Reader, opts DecodeOptions) (Description, error) {
	buf := make([]byte, HeaderDX10Size)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return Description{}, ErrNotThisFormat
		}
		return Description{}, fmt.Errorf("%w: %v", ErrReadData, err)
	}

	desc, _, err := DecodeHeader(buf[:n], opts)

	return desc, err
}

// WriteFile encodes img into a DDS file at path.
func WriteFile(path string, img *Image, opts EncodeOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if err := img.Encode(w, opts); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteSlice, err)
	}

	return f.Close()
}
