package edds

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/dds"
)

// benchMainFlowImage builds a deterministic image used by IO benchmarks.
func benchMainFlowImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// mixed low and high frequencies
			img.Set(x, y, color.NRGBA{
				R: uint8((x*7 + y*3) & 0xff),        //nolint:gosec // bounded by mask
				G: uint8((x*13 + y*5) & 0xff),       //nolint:gosec // bounded by mask
				B: uint8((x ^ y ^ (x >> 2)) & 0xff), //nolint:gosec // bounded by mask
				A: 255,
			})
		}
	}
	return img
}

func benchWriteOptionsDXT5() *WriteOptions {
	return &WriteOptions{
		Format: dds.FormatBC3UNorm,
		EncodeOptions: &bcn.EncodeOptions{
			QualityLevel: bcn.QualityLevelFast,
		},
	}
}

func benchWriteOptionsBGRA8() *WriteOptions {
	return &WriteOptions{Format: dds.FormatB8G8R8A8UNorm}
}

// benchTexture pre-encodes a texture used by container-only benchmarks.
func benchTexture(b *testing.B, img image.Image, opts *WriteOptions) *dds.Image {
	b.Helper()

	tex, err := dds.FromImage(img, opts.Format, &dds.FromImageOptions{
		MaxMipLevels:  opts.MaxMipLevels,
		EncodeOptions: opts.EncodeOptions,
	})
	if err != nil {
		b.Fatalf("prepare texture: %v", err)
	}

	return tex
}

func benchInputPath(b *testing.B, img image.Image, opts *WriteOptions) string {
	b.Helper()

	path := filepath.Join(b.TempDir(), "main_flow_input.edds")
	if err := WriteImage(path, img, opts); err != nil {
		b.Fatalf("prepare input file: %v", err)
	}

	return path
}

func BenchmarkMainFlowWriteDXT5(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	path := filepath.Join(b.TempDir(), "main_flow_write_dxt5.edds")
	opts := benchWriteOptionsDXT5()

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))
	b.ResetTimer()

	for b.Loop() {
		if err := WriteImage(path, img, opts); err != nil {
			b.Fatalf("write: %v", err)
		}
	}
}

func BenchmarkMainFlowWriteBGRA8(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	path := filepath.Join(b.TempDir(), "main_flow_write_bgra8.edds")
	opts := benchWriteOptionsBGRA8()

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))
	b.ResetTimer()

	for b.Loop() {
		if err := WriteImage(path, img, opts); err != nil {
			b.Fatalf("write: %v", err)
		}
	}
}

func BenchmarkContainerWriteDXT5(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	tex := benchTexture(b, img, benchWriteOptionsDXT5())
	payloadBytes := int64(len(tex.Bytes()))
	path := filepath.Join(b.TempDir(), "container_write.edds")

	b.Run("COPY", func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(payloadBytes)
		b.ResetTimer()

		for b.Loop() {
			if err := WriteFile(path, tex, &WriteOptions{Uncompressed: true}); err != nil {
				b.Fatalf("write (COPY): %v", err)
			}
		}
	})

	b.Run("LZ4", func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(payloadBytes)
		b.ResetTimer()

		for b.Loop() {
			if err := WriteFile(path, tex, nil); err != nil {
				b.Fatalf("write (LZ4): %v", err)
			}
		}
	})
}

func BenchmarkMainFlowReadDXT5(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	path := benchInputPath(b, img, benchWriteOptionsDXT5())

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))
	b.ResetTimer()

	for b.Loop() {
		if _, err := ReadImage(path, nil); err != nil {
			b.Fatalf("read: %v", err)
		}
	}
}

func BenchmarkMainFlowReadBGRA8(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	path := benchInputPath(b, img, benchWriteOptionsBGRA8())

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))
	b.ResetTimer()

	for b.Loop() {
		if _, err := ReadImage(path, nil); err != nil {
			b.Fatalf("read: %v", err)
		}
	}
}
