package dds

import "fmt"

// ScanlineOp is the per-row operation chosen for a decode.
type ScanlineOp uint8

// Scanline operations.
const (
	// OpNone returns the source memory as-is.
	OpNone ScanlineOp = iota
	// OpRawCopy copies whole slices; used for block-compressed data.
	OpRawCopy
	// OpCopy copies rows, optionally forcing alpha opaque.
	OpCopy
	// OpSwizzle exchanges red and blue, optionally forcing alpha opaque.
	OpSwizzle
	// OpExpand widens 16bpp rows with ExpandScanline.
	OpExpand
	// OpLegacyExpand widens legacy rows with ExpandLegacyScanline.
	OpLegacyExpand
)

func (op ScanlineOp) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpRawCopy:
		return "raw-copy"
	case OpCopy:
		return "copy"
	case OpSwizzle:
		return "swizzle"
	case OpExpand:
		return "expand"
	case OpLegacyExpand:
		return "legacy-expand"
	default:
		return fmt.Sprintf("ScanlineOp(%d)", uint8(op))
	}
}

// ConversionPlan is the outcome of PlanConversion.
type ConversionPlan struct {
	Op    ScanlineOp
	Flags ScanlineFlags
	// SourcePitch describes how source rows are laid out.
	SourcePitch PitchFlags
	// Copy reports that the result owns a freshly allocated buffer.
	Copy bool
	// ExpandFrom is the 16bpp source format for OpExpand.
	ExpandFrom Format
	// Legacy is the source layout for OpLegacyExpand.
	Legacy LegacyFormat
}

// PlanConversion decides how the pixel data of a decoded header becomes the
// pixel data of desc.
func PlanConversion(desc Description, conv ConversionFlags, opts DecodeOptions) (ConversionPlan, error) {
	var plan ConversionPlan

	if opts.LegacyDword {
		plan.SourcePitch |= PitchLegacyDword
	}
	if conv&ConvExpand != 0 {
		switch {
		case conv&ConvFormat888 != 0:
			plan.SourcePitch |= PitchBpp24
		case conv&(ConvFormat565|ConvFormat5551|ConvFormat4444|ConvFormat8332|ConvFormatA8P8) != 0:
			plan.SourcePitch |= PitchBpp16
		case conv&(ConvFormat44|ConvFormat332|ConvPal8) != 0:
			plan.SourcePitch |= PitchBpp8
		}
	}

	plan.Copy = conv&(ConvExpand|ConvCopyMemory) != 0 || opts.LegacyDword

	if conv&ConvNoAlpha != 0 {
		plan.Flags |= ScanlineSetAlpha
	}
	if conv&ConvSwizzle != 0 {
		plan.Flags |= ScanlineLegacy
	}

	if desc.Format.IsCompressed() {
		if conv&ConvExpand != 0 {
			return ConversionPlan{}, fmt.Errorf("%w: expand %v", ErrUnsupportedConversion, desc.Format)
		}
		// per-pixel fixups do not apply to block data
		plan.Flags = ScanlineNone
		if plan.Copy {
			plan.Op = OpRawCopy
		}
		return plan, nil
	}

	if !plan.Copy && conv&(ConvSwizzle|ConvNoAlpha) == 0 {
		plan.Op = OpNone
		return plan, nil
	}
	if !plan.Copy && !opts.InPlace {
		plan.Copy = true
	}

	switch {
	case conv&ConvExpand != 0:
		if conv&(ConvFormat565|ConvFormat5551|ConvFormat4444) != 0 {
			plan.Op = OpExpand
			switch {
			case conv&ConvFormat565 != 0:
				plan.ExpandFrom = FormatB5G6R5UNorm
			case conv&ConvFormat5551 != 0:
				plan.ExpandFrom = FormatB5G5R5A1UNorm
			default:
				plan.ExpandFrom = FormatB4G4R4A4UNorm
			}
			if desc.Format != FormatR8G8B8A8UNorm {
				return ConversionPlan{}, fmt.Errorf("%w: %v to %v", ErrUnsupportedConversion, plan.ExpandFrom, desc.Format)
			}
			return plan, nil
		}

		plan.Op = OpLegacyExpand
		plan.Legacy = legacyFormatOf(conv)
		if !legacyExpandSupported(plan.Legacy, desc.Format) {
			return ConversionPlan{}, fmt.Errorf("%w: %v to %v", ErrUnsupportedConversion, plan.Legacy, desc.Format)
		}

	case conv&ConvSwizzle != 0:
		plan.Op = OpSwizzle

	default:
		plan.Op = OpCopy
	}

	return plan, nil
}

func legacyExpandSupported(in LegacyFormat, out Format) bool {
	switch in {
	case LegacyUnknown:
		return false
	case LegacyR3G3B2:
		return out == FormatR8G8B8A8UNorm || out == FormatB5G6R5UNorm
	default:
		return out == FormatR8G8B8A8UNorm
	}
}

// convertRow applies the planned operation to one scanline.
func (p *ConversionPlan) convertRow(dst, src []byte, format Format, pal *Palette) error {
	switch p.Op {
	case OpCopy:
		CopyScanline(dst, src, format, p.Flags)
	case OpSwizzle:
		SwizzleScanline(dst, src, format, p.Flags)
	case OpExpand:
		return ExpandScanline(dst, src, p.ExpandFrom, p.Flags)
	case OpLegacyExpand:
		return ExpandLegacyScanline(dst, format, src, p.Legacy, pal, p.Flags)
	case OpRawCopy:
		copy(dst, src)
	}

	return nil
}
