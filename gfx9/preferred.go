package gfx9

import "fmt"

// ForbiddenBlocks removes block classes from preferred-setting selection.
type ForbiddenBlocks struct {
	Micro     bool // 256B
	Macro4KB  bool
	Macro64KB bool
	Var       bool
}

// SwizzleCategory is the micro-swizzle flavour of a mode.
type SwizzleCategory uint8

// Swizzle categories. CategoryAuto derives the category from the surface
// flags.
const (
	CategoryAuto SwizzleCategory = iota
	CategoryZ
	CategoryS
	CategoryD
	CategoryR
)

// PreferredSettingInput describes a surface whose swizzle mode should be
// chosen by the library.
type PreferredSettingInput struct {
	Surface   SurfaceInfoInput
	Forbidden ForbiddenBlocks
	Category  SwizzleCategory
	NoXor     bool
}

// PreferredSetting is the outcome of GetPreferredSurfaceSetting.
type PreferredSetting struct {
	SwizzleMode  SwizzleMode
	ResourceType ResourceType
	// CanXor reports whether the chosen mode takes a pipe-bank XOR.
	CanXor bool
}

// GetPreferredSurfaceSetting picks the first swizzle mode that validates,
// trying 64KB, then 4KB, then 256B blocks, XOR variants first.
func (l *Lib) GetPreferredSurfaceSetting(in PreferredSettingInput) (PreferredSetting, error) {
	s := normalizeSurfaceInput(in.Surface)
	if err := l.ValidateNonSwModeParams(s); err != nil {
		return PreferredSetting{}, err
	}
	out := PreferredSetting{ResourceType: s.ResourceType}

	if s.ResourceType == ResourceTex1D {
		out.SwizzleMode = SwLinear
		return out, nil
	}

	fb := in.Forbidden
	if fb.Micro && fb.Macro4KB && fb.Macro64KB {
		if !fb.Var {
			return PreferredSetting{}, fmt.Errorf("%w: variable block selection", ErrNotSupported)
		}
		return PreferredSetting{}, invalidf("every block size forbidden")
	}

	cat := in.Category
	if cat > CategoryR {
		return PreferredSetting{}, invalidf("swizzle category %d", cat)
	}
	if cat == CategoryAuto {
		switch {
		case s.Flags.Depth || s.Flags.Stencil || s.Flags.Fmask:
			cat = CategoryZ
		case s.Flags.Display || (s.ResourceType == ResourceTex3D && s.Flags.View3dAs2dArray):
			cat = CategoryD
		default:
			cat = CategoryS
		}
	}

	for _, sw := range preferredCandidates(fb, cat, s.Flags.Prt, in.NoXor) {
		s.SwizzleMode = sw
		if err := l.ValidateSwModeParams(s); err != nil {
			continue
		}
		out.SwizzleMode = sw
		out.CanXor = sw.IsXor()
		l.log.Debug("gfx9: preferred swizzle", "swizzle", sw, "resource", s.ResourceType)
		return out, nil
	}

	s.SwizzleMode = SwLinear
	if err := l.ValidateSwModeParams(s); err != nil {
		l.log.Warn("gfx9: no swizzle mode fits", "resource", s.ResourceType, "bpp", s.Bpp)
		return PreferredSetting{}, invalidf("no swizzle mode fits the surface")
	}
	out.SwizzleMode = SwLinear
	return out, nil
}

// preferredCandidates lists modes in selection order.
func preferredCandidates(fb ForbiddenBlocks, cat SwizzleCategory, prt, noXor bool) []SwizzleMode {
	idx := SwizzleMode(cat - CategoryZ)
	var out []SwizzleMode
	if !fb.Macro64KB {
		switch {
		case prt:
			out = append(out, Sw64KBZT+idx, Sw64KBZ+idx)
		case noXor:
			out = append(out, Sw64KBZ+idx)
		default:
			out = append(out, Sw64KBZX+idx, Sw64KBZ+idx)
		}
	}
	if !fb.Macro4KB && !prt {
		if !noXor {
			out = append(out, Sw4KBZX+idx)
		}
		out = append(out, Sw4KBZ+idx)
	}
	if !fb.Micro && !prt && cat != CategoryZ {
		// 256B modes have no Z flavour; S, D and R sit at 1, 2 and 3.
		out = append(out, Sw256BS+idx-1)
	}
	return out
}
