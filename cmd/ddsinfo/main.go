// Command ddsinfo prints the layout of DDS and EDDS textures and converts
// between DDS, EDDS and PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/woozymasta/dds"
	"github.com/woozymasta/dds/edds"
)

func main() {
	var (
		out       = flag.String("o", "", "write the texture to `path` (.dds, .edds or .png)")
		forceRGB  = flag.Bool("force-rgb", false, "remap BGR formats to RGB")
		no16Bpp   = flag.Bool("no-16bpp", false, "expand 16bpp formats to R8G8B8A8")
		noExpand  = flag.Bool("no-legacy-expansion", false, "reject legacy formats that need expansion")
		dword     = flag.Bool("legacy-dword", false, "read rows padded to 4 bytes")
		forceDX10 = flag.Bool("dx10", false, "always write the DX10 header")
		verbose   = flag.Bool("v", false, "log decode details to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: ddsinfo [flags] <input.dds|input.edds>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		dds.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := dds.DecodeOptions{
		ForceRGB:          *forceRGB,
		No16Bpp:           *no16Bpp,
		NoLegacyExpansion: *noExpand,
		LegacyDword:       *dword,
	}
	input := flag.Arg(0)

	tex, err := load(input, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}
	describe(input, tex)

	if *out == "" {
		return
	}
	if err := save(*out, tex, dds.EncodeOptions{ForceDX10: *forceDX10}); err != nil {
		fmt.Fprintln(os.Stderr, "write error:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *out)
}

func load(path string, opts dds.DecodeOptions) (*dds.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".edds") {
		return edds.ReadFile(path)
	}

	return dds.ReadFile(path, opts)
}

func save(path string, tex *dds.Image, opts dds.EncodeOptions) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".edds":
		return edds.WriteFile(path, tex, nil)

	case ".png":
		img, err := tex.ToImage(0, 0, nil)
		if err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := png.Encode(f, img); err != nil {
			return err
		}
		return f.Close()

	default:
		return dds.WriteFile(path, tex, opts)
	}
}

func describe(path string, tex *dds.Image) {
	desc := tex.Description
	fmt.Printf("%s\n", path)
	fmt.Printf("  dimension:  %v\n", desc.Dimension)
	fmt.Printf("  size:       %dx%dx%d\n", desc.Width, desc.Height, desc.Depth)
	fmt.Printf("  array size: %d\n", desc.ArraySize)
	fmt.Printf("  mip levels: %d\n", desc.MipLevels)
	fmt.Printf("  format:     %v\n", desc.Format)
	if gpu := desc.Format.GPUFormat(); gpu != gputypes.TextureFormatUndefined {
		fmt.Printf("  gpu format: %v\n", gpu)
	}
	fmt.Printf("  slices:     %d (%d bytes)\n", len(tex.Buffers), len(tex.Bytes()))
	for mip := range desc.MipLevels {
		pb, err := tex.PixelBuffer(0, mip, 0)
		if err != nil {
			break
		}
		fmt.Printf("    mip %d: %dx%d row %d slice %d\n", mip, pb.Width, pb.Height, pb.RowStride, pb.BufferStride)
	}
}
