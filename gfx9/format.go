package gfx9

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// elementBits holds the uncompressed formats this package lays out.
// Block-compressed formats and combined 32-bit depth with stencil, which
// lives in two planes, are left out.
var elementBits = map[gputypes.TextureFormat]uint32{
	gputypes.TextureFormatR8Unorm: 8,
	gputypes.TextureFormatR8Snorm: 8,
	gputypes.TextureFormatR8Uint:  8,
	gputypes.TextureFormatR8Sint:  8,

	gputypes.TextureFormatR16Unorm:     16,
	gputypes.TextureFormatR16Snorm:     16,
	gputypes.TextureFormatR16Uint:      16,
	gputypes.TextureFormatR16Sint:      16,
	gputypes.TextureFormatR16Float:     16,
	gputypes.TextureFormatRG8Unorm:     16,
	gputypes.TextureFormatRG8Snorm:     16,
	gputypes.TextureFormatRG8Uint:      16,
	gputypes.TextureFormatRG8Sint:      16,
	gputypes.TextureFormatDepth16Unorm: 16,

	gputypes.TextureFormatR32Float:            32,
	gputypes.TextureFormatR32Uint:             32,
	gputypes.TextureFormatR32Sint:             32,
	gputypes.TextureFormatRG16Unorm:           32,
	gputypes.TextureFormatRG16Snorm:           32,
	gputypes.TextureFormatRG16Uint:            32,
	gputypes.TextureFormatRG16Sint:            32,
	gputypes.TextureFormatRG16Float:           32,
	gputypes.TextureFormatRGBA8Unorm:          32,
	gputypes.TextureFormatRGBA8UnormSrgb:      32,
	gputypes.TextureFormatRGBA8Snorm:          32,
	gputypes.TextureFormatRGBA8Uint:           32,
	gputypes.TextureFormatRGBA8Sint:           32,
	gputypes.TextureFormatBGRA8Unorm:          32,
	gputypes.TextureFormatBGRA8UnormSrgb:      32,
	gputypes.TextureFormatRGB10A2Uint:         32,
	gputypes.TextureFormatRGB10A2Unorm:        32,
	gputypes.TextureFormatRG11B10Ufloat:       32,
	gputypes.TextureFormatRGB9E5Ufloat:        32,
	gputypes.TextureFormatDepth24Plus:         32,
	gputypes.TextureFormatDepth24PlusStencil8: 32,
	gputypes.TextureFormatDepth32Float:        32,

	gputypes.TextureFormatRG32Float:   64,
	gputypes.TextureFormatRG32Uint:    64,
	gputypes.TextureFormatRG32Sint:    64,
	gputypes.TextureFormatRGBA16Unorm: 64,
	gputypes.TextureFormatRGBA16Snorm: 64,
	gputypes.TextureFormatRGBA16Uint:  64,
	gputypes.TextureFormatRGBA16Sint:  64,
	gputypes.TextureFormatRGBA16Float: 64,

	gputypes.TextureFormatRGBA32Float: 128,
	gputypes.TextureFormatRGBA32Uint:  128,
	gputypes.TextureFormatRGBA32Sint:  128,
}

// ElementBits returns the bits per element of a texture format. Formats
// without a layout here yield ErrNotSupported.
func ElementBits(f gputypes.TextureFormat) (uint32, error) {
	bits, ok := elementBits[f]
	if !ok {
		return 0, fmt.Errorf("%w: texture format %v", ErrNotSupported, f)
	}
	return bits, nil
}

// ParseTextureFormat looks a supported format up by its name, e.g.
// "RGBA16Float". Case is ignored.
func ParseTextureFormat(name string) (gputypes.TextureFormat, error) {
	for f := range elementBits {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: texture format %q", ErrNotSupported, name)
}

// ResourceTypeFromDimension maps a texture dimension to a resource type.
func ResourceTypeFromDimension(d gputypes.TextureDimension) (ResourceType, error) {
	switch d {
	case gputypes.TextureDimension1D:
		return ResourceTex1D, nil
	case gputypes.TextureDimension2D:
		return ResourceTex2D, nil
	case gputypes.TextureDimension3D:
		return ResourceTex3D, nil
	}
	return 0, fmt.Errorf("%w: texture dimension %v", ErrInvalidParams, d)
}

// TextureDesc is the subset of a texture descriptor that shapes its layout.
type TextureDesc struct {
	Format        gputypes.TextureFormat
	Dimension     gputypes.TextureDimension
	Size          gputypes.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	// Display marks swap-chain images.
	Display bool
}

// SurfaceInputFromTexture builds a SurfaceInfoInput for a texture. The
// swizzle mode is left linear; pick one with GetPreferredSurfaceSetting.
func SurfaceInputFromTexture(d TextureDesc) (SurfaceInfoInput, error) {
	bpp, err := ElementBits(d.Format)
	if err != nil {
		return SurfaceInfoInput{}, err
	}
	rt, err := ResourceTypeFromDimension(d.Dimension)
	if err != nil {
		return SurfaceInfoInput{}, err
	}
	in := SurfaceInfoInput{
		ResourceType: rt,
		Bpp:          bpp,
		Width:        d.Size.Width,
		Height:       max(d.Size.Height, 1),
		NumSlices:    max(d.Size.DepthOrArrayLayers, 1),
		NumMipLevels: max(d.MipLevelCount, 1),
		NumSamples:   max(d.SampleCount, 1),
	}
	in.NumFrags = in.NumSamples
	if d.Format.HasDepth() {
		in.Flags.Depth = true
		in.Flags.Stencil = d.Format.HasStencil()
	} else {
		in.Flags.Color = true
		in.Flags.Texture = true
		in.Flags.Display = d.Display
	}
	return in, nil
}
