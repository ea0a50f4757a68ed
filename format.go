package dds

import "strconv"

// Format is the canonical pixel format. Values follow DXGI_FORMAT numbering
// so they can be stored verbatim in the DX10 extension header.
type Format uint32

// Canonical formats.
const (
	FormatUnknown                  Format = 0
	FormatR32G32B32A32Typeless     Format = 1
	FormatR32G32B32A32Float        Format = 2
	FormatR32G32B32A32UInt         Format = 3
	FormatR32G32B32A32SInt         Format = 4
	FormatR32G32B32Typeless        Format = 5
	FormatR32G32B32Float           Format = 6
	FormatR32G32B32UInt            Format = 7
	FormatR32G32B32SInt            Format = 8
	FormatR16G16B16A16Typeless     Format = 9
	FormatR16G16B16A16Float        Format = 10
	FormatR16G16B16A16UNorm        Format = 11
	FormatR16G16B16A16UInt         Format = 12
	FormatR16G16B16A16SNorm        Format = 13
	FormatR16G16B16A16SInt         Format = 14
	FormatR32G32Typeless           Format = 15
	FormatR32G32Float              Format = 16
	FormatR32G32UInt               Format = 17
	FormatR32G32SInt               Format = 18
	FormatR32G8X24Typeless         Format = 19
	FormatD32FloatS8X24UInt        Format = 20
	FormatR32FloatX8X24Typeless    Format = 21
	FormatX32TypelessG8X24UInt     Format = 22
	FormatR10G10B10A2Typeless      Format = 23
	FormatR10G10B10A2UNorm         Format = 24
	FormatR10G10B10A2UInt          Format = 25
	FormatR11G11B10Float           Format = 26
	FormatR8G8B8A8Typeless         Format = 27
	FormatR8G8B8A8UNorm            Format = 28
	FormatR8G8B8A8UNormSRGB        Format = 29
	FormatR8G8B8A8UInt             Format = 30
	FormatR8G8B8A8SNorm            Format = 31
	FormatR8G8B8A8SInt             Format = 32
	FormatR16G16Typeless           Format = 33
	FormatR16G16Float              Format = 34
	FormatR16G16UNorm              Format = 35
	FormatR16G16UInt               Format = 36
	FormatR16G16SNorm              Format = 37
	FormatR16G16SInt               Format = 38
	FormatR32Typeless              Format = 39
	FormatD32Float                 Format = 40
	FormatR32Float                 Format = 41
	FormatR32UInt                  Format = 42
	FormatR32SInt                  Format = 43
	FormatR24G8Typeless            Format = 44
	FormatD24UNormS8UInt           Format = 45
	FormatR24UNormX8Typeless       Format = 46
	FormatX24TypelessG8UInt        Format = 47
	FormatR8G8Typeless             Format = 48
	FormatR8G8UNorm                Format = 49
	FormatR8G8UInt                 Format = 50
	FormatR8G8SNorm                Format = 51
	FormatR8G8SInt                 Format = 52
	FormatR16Typeless              Format = 53
	FormatR16Float                 Format = 54
	FormatD16UNorm                 Format = 55
	FormatR16UNorm                 Format = 56
	FormatR16UInt                  Format = 57
	FormatR16SNorm                 Format = 58
	FormatR16SInt                  Format = 59
	FormatR8Typeless               Format = 60
	FormatR8UNorm                  Format = 61
	FormatR8UInt                   Format = 62
	FormatR8SNorm                  Format = 63
	FormatR8SInt                   Format = 64
	FormatA8UNorm                  Format = 65
	FormatR1UNorm                  Format = 66
	FormatR9G9B9E5SharedExp        Format = 67
	FormatR8G8B8G8UNorm            Format = 68
	FormatG8R8G8B8UNorm            Format = 69
	FormatBC1Typeless              Format = 70
	FormatBC1UNorm                 Format = 71
	FormatBC1UNormSRGB             Format = 72
	FormatBC2Typeless              Format = 73
	FormatBC2UNorm                 Format = 74
	FormatBC2UNormSRGB             Format = 75
	FormatBC3Typeless              Format = 76
	FormatBC3UNorm                 Format = 77
	FormatBC3UNormSRGB             Format = 78
	FormatBC4Typeless              Format = 79
	FormatBC4UNorm                 Format = 80
	FormatBC4SNorm                 Format = 81
	FormatBC5Typeless              Format = 82
	FormatBC5UNorm                 Format = 83
	FormatBC5SNorm                 Format = 84
	FormatB5G6R5UNorm              Format = 85
	FormatB5G5R5A1UNorm            Format = 86
	FormatB8G8R8A8UNorm            Format = 87
	FormatB8G8R8X8UNorm            Format = 88
	FormatR10G10B10XRBiasA2UNorm   Format = 89
	FormatB8G8R8A8Typeless         Format = 90
	FormatB8G8R8A8UNormSRGB        Format = 91
	FormatB8G8R8X8Typeless         Format = 92
	FormatB8G8R8X8UNormSRGB        Format = 93
	FormatBC6HTypeless             Format = 94
	FormatBC6HUF16                 Format = 95
	FormatBC6HSF16                 Format = 96
	FormatBC7Typeless              Format = 97
	FormatBC7UNorm                 Format = 98
	FormatBC7UNormSRGB             Format = 99
	FormatB4G4R4A4UNorm            Format = 115
	formatCount                           = 116
)

type formatKind uint8

const (
	kindInvalid formatKind = iota
	kindLinear
	kindPacked
	kindBlock
)

type formatInfo struct {
	name string
	bpp  int // bits per pixel, or bytes per 4x4 block for kindBlock
	kind formatKind
}

var formatInfos = [formatCount]formatInfo{
	FormatR32G32B32A32Typeless:   {"R32G32B32A32_TYPELESS", 128, kindLinear},
	FormatR32G32B32A32Float:      {"R32G32B32A32_FLOAT", 128, kindLinear},
	FormatR32G32B32A32UInt:       {"R32G32B32A32_UINT", 128, kindLinear},
	FormatR32G32B32A32SInt:       {"R32G32B32A32_SINT", 128, kindLinear},
	FormatR32G32B32Typeless:      {"R32G32B32_TYPELESS", 96, kindLinear},
	FormatR32G32B32Float:         {"R32G32B32_FLOAT", 96, kindLinear},
	FormatR32G32B32UInt:          {"R32G32B32_UINT", 96, kindLinear},
	FormatR32G32B32SInt:          {"R32G32B32_SINT", 96, kindLinear},
	FormatR16G16B16A16Typeless:   {"R16G16B16A16_TYPELESS", 64, kindLinear},
	FormatR16G16B16A16Float:      {"R16G16B16A16_FLOAT", 64, kindLinear},
	FormatR16G16B16A16UNorm:      {"R16G16B16A16_UNORM", 64, kindLinear},
	FormatR16G16B16A16UInt:       {"R16G16B16A16_UINT", 64, kindLinear},
	FormatR16G16B16A16SNorm:      {"R16G16B16A16_SNORM", 64, kindLinear},
	FormatR16G16B16A16SInt:       {"R16G16B16A16_SINT", 64, kindLinear},
	FormatR32G32Typeless:         {"R32G32_TYPELESS", 64, kindLinear},
	FormatR32G32Float:            {"R32G32_FLOAT", 64, kindLinear},
	FormatR32G32UInt:             {"R32G32_UINT", 64, kindLinear},
	FormatR32G32SInt:             {"R32G32_SINT", 64, kindLinear},
	FormatR32G8X24Typeless:       {"R32G8X24_TYPELESS", 64, kindLinear},
	FormatD32FloatS8X24UInt:      {"D32_FLOAT_S8X24_UINT", 64, kindLinear},
	FormatR32FloatX8X24Typeless:  {"R32_FLOAT_X8X24_TYPELESS", 64, kindLinear},
	FormatX32TypelessG8X24UInt:   {"X32_TYPELESS_G8X24_UINT", 64, kindLinear},
	FormatR10G10B10A2Typeless:    {"R10G10B10A2_TYPELESS", 32, kindLinear},
	FormatR10G10B10A2UNorm:       {"R10G10B10A2_UNORM", 32, kindLinear},
	FormatR10G10B10A2UInt:        {"R10G10B10A2_UINT", 32, kindLinear},
	FormatR11G11B10Float:         {"R11G11B10_FLOAT", 32, kindLinear},
	FormatR8G8B8A8Typeless:       {"R8G8B8A8_TYPELESS", 32, kindLinear},
	FormatR8G8B8A8UNorm:          {"R8G8B8A8_UNORM", 32, kindLinear},
	FormatR8G8B8A8UNormSRGB:      {"R8G8B8A8_UNORM_SRGB", 32, kindLinear},
	FormatR8G8B8A8UInt:           {"R8G8B8A8_UINT", 32, kindLinear},
	FormatR8G8B8A8SNorm:          {"R8G8B8A8_SNORM", 32, kindLinear},
	FormatR8G8B8A8SInt:           {"R8G8B8A8_SINT", 32, kindLinear},
	FormatR16G16Typeless:         {"R16G16_TYPELESS", 32, kindLinear},
	FormatR16G16Float:            {"R16G16_FLOAT", 32, kindLinear},
	FormatR16G16UNorm:            {"R16G16_UNORM", 32, kindLinear},
	FormatR16G16UInt:             {"R16G16_UINT", 32, kindLinear},
	FormatR16G16SNorm:            {"R16G16_SNORM", 32, kindLinear},
	FormatR16G16SInt:             {"R16G16_SINT", 32, kindLinear},
	FormatR32Typeless:            {"R32_TYPELESS", 32, kindLinear},
	FormatD32Float:               {"D32_FLOAT", 32, kindLinear},
	FormatR32Float:               {"R32_FLOAT", 32, kindLinear},
	FormatR32UInt:                {"R32_UINT", 32, kindLinear},
	FormatR32SInt:                {"R32_SINT", 32, kindLinear},
	FormatR24G8Typeless:          {"R24G8_TYPELESS", 32, kindLinear},
	FormatD24UNormS8UInt:         {"D24_UNORM_S8_UINT", 32, kindLinear},
	FormatR24UNormX8Typeless:     {"R24_UNORM_X8_TYPELESS", 32, kindLinear},
	FormatX24TypelessG8UInt:      {"X24_TYPELESS_G8_UINT", 32, kindLinear},
	FormatR8G8Typeless:           {"R8G8_TYPELESS", 16, kindLinear},
	FormatR8G8UNorm:              {"R8G8_UNORM", 16, kindLinear},
	FormatR8G8UInt:               {"R8G8_UINT", 16, kindLinear},
	FormatR8G8SNorm:              {"R8G8_SNORM", 16, kindLinear},
	FormatR8G8SInt:               {"R8G8_SINT", 16, kindLinear},
	FormatR16Typeless:            {"R16_TYPELESS", 16, kindLinear},
	FormatR16Float:               {"R16_FLOAT", 16, kindLinear},
	FormatD16UNorm:               {"D16_UNORM", 16, kindLinear},
	FormatR16UNorm:               {"R16_UNORM", 16, kindLinear},
	FormatR16UInt:                {"R16_UINT", 16, kindLinear},
	FormatR16SNorm:               {"R16_SNORM", 16, kindLinear},
	FormatR16SInt:                {"R16_SINT", 16, kindLinear},
	FormatR8Typeless:             {"R8_TYPELESS", 8, kindLinear},
	FormatR8UNorm:                {"R8_UNORM", 8, kindLinear},
	FormatR8UInt:                 {"R8_UINT", 8, kindLinear},
	FormatR8SNorm:                {"R8_SNORM", 8, kindLinear},
	FormatR8SInt:                 {"R8_SINT", 8, kindLinear},
	FormatA8UNorm:                {"A8_UNORM", 8, kindLinear},
	FormatR1UNorm:                {"R1_UNORM", 1, kindLinear},
	FormatR9G9B9E5SharedExp:      {"R9G9B9E5_SHAREDEXP", 32, kindLinear},
	FormatR8G8B8G8UNorm:          {"R8G8_B8G8_UNORM", 16, kindPacked},
	FormatG8R8G8B8UNorm:          {"G8R8_G8B8_UNORM", 16, kindPacked},
	FormatBC1Typeless:            {"BC1_TYPELESS", 8, kindBlock},
	FormatBC1UNorm:               {"BC1_UNORM", 8, kindBlock},
	FormatBC1UNormSRGB:           {"BC1_UNORM_SRGB", 8, kindBlock},
	FormatBC2Typeless:            {"BC2_TYPELESS", 16, kindBlock},
	FormatBC2UNorm:               {"BC2_UNORM", 16, kindBlock},
	FormatBC2UNormSRGB:           {"BC2_UNORM_SRGB", 16, kindBlock},
	FormatBC3Typeless:            {"BC3_TYPELESS", 16, kindBlock},
	FormatBC3UNorm:               {"BC3_UNORM", 16, kindBlock},
	FormatBC3UNormSRGB:           {"BC3_UNORM_SRGB", 16, kindBlock},
	FormatBC4Typeless:            {"BC4_TYPELESS", 8, kindBlock},
	FormatBC4UNorm:               {"BC4_UNORM", 8, kindBlock},
	FormatBC4SNorm:               {"BC4_SNORM", 8, kindBlock},
	FormatBC5Typeless:            {"BC5_TYPELESS", 16, kindBlock},
	FormatBC5UNorm:               {"BC5_UNORM", 16, kindBlock},
	FormatBC5SNorm:               {"BC5_SNORM", 16, kindBlock},
	FormatB5G6R5UNorm:            {"B5G6R5_UNORM", 16, kindLinear},
	FormatB5G5R5A1UNorm:          {"B5G5R5A1_UNORM", 16, kindLinear},
	FormatB8G8R8A8UNorm:          {"B8G8R8A8_UNORM", 32, kindLinear},
	FormatB8G8R8X8UNorm:          {"B8G8R8X8_UNORM", 32, kindLinear},
	FormatR10G10B10XRBiasA2UNorm: {"R10G10B10_XR_BIAS_A2_UNORM", 32, kindLinear},
	FormatB8G8R8A8Typeless:       {"B8G8R8A8_TYPELESS", 32, kindLinear},
	FormatB8G8R8A8UNormSRGB:      {"B8G8R8A8_UNORM_SRGB", 32, kindLinear},
	FormatB8G8R8X8Typeless:       {"B8G8R8X8_TYPELESS", 32, kindLinear},
	FormatB8G8R8X8UNormSRGB:      {"B8G8R8X8_UNORM_SRGB", 32, kindLinear},
	FormatBC6HTypeless:           {"BC6H_TYPELESS", 16, kindBlock},
	FormatBC6HUF16:               {"BC6H_UF16", 16, kindBlock},
	FormatBC6HSF16:               {"BC6H_SF16", 16, kindBlock},
	FormatBC7Typeless:            {"BC7_TYPELESS", 16, kindBlock},
	FormatBC7UNorm:               {"BC7_UNORM", 16, kindBlock},
	FormatBC7UNormSRGB:           {"BC7_UNORM_SRGB", 16, kindBlock},
	FormatB4G4R4A4UNorm:          {"B4G4R4A4_UNORM", 16, kindLinear},
}

func (f Format) info() formatInfo {
	if f >= formatCount {
		return formatInfo{}
	}

	return formatInfos[f]
}

// IsValid reports whether the codec knows the layout of f.
func (f Format) IsValid() bool {
	return f.info().kind != kindInvalid
}

// IsCompressed reports whether f is stored as 4x4 blocks.
func (f Format) IsCompressed() bool {
	return f.info().kind == kindBlock
}

// IsPacked reports whether f stores two pixels per 32-bit word (4:2:2).
func (f Format) IsPacked() bool {
	return f.info().kind == kindPacked
}

// BitsPerPixel returns the storage size of one pixel, or 0 for block
// formats and unknown formats.
func (f Format) BitsPerPixel() int {
	info := f.info()
	if info.kind == kindBlock {
		return 0
	}

	return info.bpp
}

// BlockSize returns the byte size of one 4x4 block, or 0 for non-block formats.
func (f Format) BlockSize() int {
	info := f.info()
	if info.kind != kindBlock {
		return 0
	}

	return info.bpp
}

func (f Format) String() string {
	if info := f.info(); info.name != "" {
		return info.name
	}
	if f == FormatUnknown {
		return "UNKNOWN"
	}

	return "Format(" + strconv.FormatUint(uint64(f), 10) + ")"
}
