package gfx9

import "fmt"

// validBpp reports whether bpp is a supported element size: 8 to 128 bits
// in powers of two.
func validBpp(bpp uint32) bool {
	return isPow2(bpp) && bpp >= 8 && bpp <= 128
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...)
}

// ValidateNonSwModeParams checks the parts of a surface description that
// do not depend on the swizzle mode.
func (l *Lib) ValidateNonSwModeParams(in SurfaceInfoInput) error {
	if !validBpp(in.Bpp) {
		return invalidf("bpp %d", in.Bpp)
	}
	if in.Width == 0 {
		return invalidf("zero width")
	}
	if in.NumFrags > 8 || in.NumSamples > 16 || !isPow2(max(in.NumSamples, 1)) || !isPow2(max(in.NumFrags, 1)) {
		return invalidf("%d samples %d fragments", in.NumSamples, in.NumFrags)
	}
	if in.NumFrags > max(in.NumSamples, 1) {
		return invalidf("more fragments (%d) than samples (%d)", in.NumFrags, in.NumSamples)
	}
	if in.NumMipLevels > maxMipLevels {
		return invalidf("%d mip levels", in.NumMipLevels)
	}

	f := in.Flags
	mipmap := in.NumMipLevels > 1
	msaa := in.NumFrags > 1
	zbuffer := f.Depth || f.Stencil
	display := f.Display || f.Rotated

	switch in.ResourceType {
	case ResourceTex1D:
		if msaa || zbuffer || display || f.QbStereo || f.BlockCompressed || f.Fmask {
			return invalidf("1D surface with msaa, depth, display, stereo, bc or fmask")
		}
	case ResourceTex2D:
		if (msaa && mipmap) || (f.QbStereo && msaa) || (f.QbStereo && mipmap) {
			return invalidf("2D surface combines msaa, mips or stereo")
		}
	case ResourceTex3D:
		if msaa || zbuffer || display || f.QbStereo || f.Fmask {
			return invalidf("3D surface with msaa, depth, display, stereo or fmask")
		}
	default:
		return invalidf("resource type %d", in.ResourceType)
	}
	return nil
}

// ValidateSwModeParams checks that the swizzle mode suits the surface.
func (l *Lib) ValidateSwModeParams(in SurfaceInfoInput) error {
	sw := in.SwizzleMode
	if !l.IsValidSwizzleMode(sw) {
		return invalidf("swizzle mode %v", sw)
	}

	f := in.Flags
	msaa := in.NumFrags > 1
	zbuffer := f.Depth || f.Stencil
	prt := f.Prt
	tex3d := in.ResourceType == ResourceTex3D

	switch in.ResourceType {
	case ResourceTex1D:
		if !sw.IsLinear() {
			return invalidf("1D surface needs a linear mode, got %v", sw)
		}
	case ResourceTex2D:
		if prt && !isPrtCapable(sw) {
			return invalidf("prt surface with %v", sw)
		}
		if f.Fmask && !sw.IsZOrder() {
			return invalidf("fmask with %v", sw)
		}
	case ResourceTex3D:
		if sw.IsRotate() || sw.IsBlock256B() {
			return invalidf("3D surface with %v", sw)
		}
		if prt && (!isPrtCapable(sw) || sw.IsDisplay()) {
			return invalidf("prt 3D surface with %v", sw)
		}
		if f.View3dAs2dArray && !sw.IsDisplay() {
			return invalidf("3D surface viewed as 2D array needs a D mode, got %v", sw)
		}
	}

	switch {
	case sw.IsLinear():
		if zbuffer || msaa || f.BlockCompressed {
			return invalidf("linear mode with depth, msaa or bc")
		}
		if prt && sw == SwLinearGeneral {
			return invalidf("prt surface with %v", sw)
		}
	case sw.IsZOrder():
		if msaa && l.BlockSize(sw) < l.cfg.PipeInterleaveBytes*in.NumFrags {
			return invalidf("%v too small for %d fragments", sw, in.NumFrags)
		}
	case sw.IsStandard(), sw.IsDisplay():
		if zbuffer || msaa {
			return invalidf("%v with depth or msaa", sw)
		}
	case sw.IsRotate():
		if zbuffer || msaa || tex3d || in.Bpp > 64 {
			return invalidf("%v with depth, msaa, 3D or %d bpp", sw, in.Bpp)
		}
	}

	if sw.IsBlock256B() && (zbuffer || tex3d || msaa) {
		return invalidf("256B mode with depth, 3D or msaa")
	}
	if f.Display && !l.isValidDisplaySwizzleMode(sw, in.Bpp) {
		return invalidf("display engine cannot scan out %v at %d bpp", sw, in.Bpp)
	}
	return nil
}

// isPrtCapable reports whether partially resident surfaces may use sw:
// the 64KB modes without XOR and the PRT variants.
func isPrtCapable(sw SwizzleMode) bool {
	return sw.IsBlock64KB() && (!sw.IsXor() || sw.IsPrt())
}

// isValidDisplaySwizzleMode reports whether the display engine can scan
// out a surface. With neither engine configured every mode passes.
func (l *Lib) isValidDisplaySwizzleMode(sw SwizzleMode, bpp uint32) bool {
	switch {
	case l.cfg.Chip.IsDce12:
		switch sw {
		case Sw256BD, Sw256BR:
			return bpp == 32
		case SwLinear, Sw4KBD, Sw4KBR, Sw64KBD, Sw64KBR, SwVarD, SwVarR,
			Sw4KBDX, Sw4KBRX, Sw64KBDX, Sw64KBRX, SwVarDX, SwVarRX:
			return bpp <= 64
		}
		return false
	case l.cfg.Chip.IsDcn1:
		switch sw {
		case Sw4KBD, Sw64KBD, SwVarD, Sw64KBDT, Sw4KBDX, Sw64KBDX, SwVarDX:
			return bpp == 64
		case SwLinear, Sw4KBS, Sw64KBS, SwVarS, Sw64KBST, Sw4KBSX, Sw64KBSX, SwVarSX:
			return bpp <= 64
		}
		return false
	}
	return true
}

// FmaskBpp returns the bits per pixel of an fmask surface for the given
// sample and fragment counts.
func FmaskBpp(numSamples, numFrags uint32) uint32 {
	numSamples = max(numSamples, 1)
	if numFrags == 0 {
		numFrags = numSamples
	}
	bpp := log2(numFrags)
	if numSamples > numFrags {
		bpp++
	}
	if bpp == 3 {
		bpp = 4
	}
	return max(8, bpp*numSamples)
}
