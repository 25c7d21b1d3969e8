package gfx9

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestElementBits(t *testing.T) {
	tests := []struct {
		f       gputypes.TextureFormat
		want    uint32
		wantErr error
	}{
		{gputypes.TextureFormatR8Unorm, 8, nil},
		{gputypes.TextureFormatR16Float, 16, nil},
		{gputypes.TextureFormatDepth16Unorm, 16, nil},
		{gputypes.TextureFormatRG16Float, 32, nil},
		{gputypes.TextureFormatR32Float, 32, nil},
		{gputypes.TextureFormatRGBA8Unorm, 32, nil},
		{gputypes.TextureFormatBGRA8Unorm, 32, nil},
		{gputypes.TextureFormatDepth24PlusStencil8, 32, nil},
		{gputypes.TextureFormatDepth32Float, 32, nil},
		{gputypes.TextureFormatRG32Float, 64, nil},
		{gputypes.TextureFormatRGBA16Float, 64, nil},
		{gputypes.TextureFormatRGBA32Float, 128, nil},
		{gputypes.TextureFormatUndefined, 0, ErrNotSupported},
		{gputypes.TextureFormatBC1RGBAUnorm, 0, ErrNotSupported},
		{gputypes.TextureFormatDepth32FloatStencil8, 0, ErrNotSupported},
	}
	for _, tt := range tests {
		got, err := ElementBits(tt.f)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ElementBits(%v) error = %v, want %v", tt.f, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ElementBits(%v) = %d, want %d", tt.f, got, tt.want)
		}
	}
}

func TestParseTextureFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    gputypes.TextureFormat
		wantErr error
	}{
		{"RGBA16Float", gputypes.TextureFormatRGBA16Float, nil},
		{"depth32float", gputypes.TextureFormatDepth32Float, nil},
		{"BGRA8Unorm", gputypes.TextureFormatBGRA8Unorm, nil},
		{"BC7RGBAUnorm", gputypes.TextureFormatUndefined, ErrNotSupported},
		{"", gputypes.TextureFormatUndefined, ErrNotSupported},
	}
	for _, tt := range tests {
		got, err := ParseTextureFormat(tt.name)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseTextureFormat(%q) error = %v, want %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseTextureFormat(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSurfaceInputFromTexture(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	tests := []struct {
		name  string
		desc  TextureDesc
		depth bool
		want  SwizzleMode
	}{
		{
			name: "sampled color",
			desc: TextureDesc{
				Format:    gputypes.TextureFormatRGBA8Unorm,
				Dimension: gputypes.TextureDimension2D,
				Size:      gputypes.Extent3D{Width: 1024, Height: 768, DepthOrArrayLayers: 1},
			},
			want: Sw64KBSX,
		},
		{
			name: "swap chain",
			desc: TextureDesc{
				Format:    gputypes.TextureFormatBGRA8Unorm,
				Dimension: gputypes.TextureDimension2D,
				Size:      gputypes.Extent3D{Width: 1920, Height: 1080, DepthOrArrayLayers: 1},
				Display:   true,
			},
			want: Sw64KBDX,
		},
		{
			name: "depth",
			desc: TextureDesc{
				Format:      gputypes.TextureFormatDepth24PlusStencil8,
				Dimension:   gputypes.TextureDimension2D,
				Size:        gputypes.Extent3D{Width: 800, Height: 600, DepthOrArrayLayers: 1},
				SampleCount: 4,
			},
			depth: true,
			want:  Sw64KBZX,
		},
		{
			name: "float depth",
			desc: TextureDesc{
				Format:    gputypes.TextureFormatDepth32Float,
				Dimension: gputypes.TextureDimension2D,
				Size:      gputypes.Extent3D{Width: 1024, Height: 768, DepthOrArrayLayers: 1},
			},
			depth: true,
			want:  Sw64KBZX,
		},
		{
			name: "half float color",
			desc: TextureDesc{
				Format:    gputypes.TextureFormatRGBA16Float,
				Dimension: gputypes.TextureDimension2D,
				Size:      gputypes.Extent3D{Width: 1024, Height: 768, DepthOrArrayLayers: 1},
			},
			want: Sw64KBSX,
		},
		{
			name: "volume",
			desc: TextureDesc{
				Format:        gputypes.TextureFormatR8Unorm,
				Dimension:     gputypes.TextureDimension3D,
				Size:          gputypes.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 64},
				MipLevelCount: 7,
			},
			want: Sw64KBSX,
		},
		{
			name: "1D",
			desc: TextureDesc{
				Format:    gputypes.TextureFormatRGBA8Unorm,
				Dimension: gputypes.TextureDimension1D,
				Size:      gputypes.Extent3D{Width: 4096},
			},
			want: SwLinear,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := SurfaceInputFromTexture(tt.desc)
			if err != nil {
				t.Fatalf("SurfaceInputFromTexture() error = %v", err)
			}
			if in.Flags.Depth != tt.depth || in.Flags.Color == tt.depth {
				t.Errorf("flags = %+v, want depth %v", in.Flags, tt.depth)
			}
			if in.Flags.Stencil != tt.desc.Format.HasStencil() {
				t.Errorf("Stencil = %v, want %v", in.Flags.Stencil, tt.desc.Format.HasStencil())
			}
			set, err := l.GetPreferredSurfaceSetting(PreferredSettingInput{Surface: in})
			if err != nil {
				t.Fatalf("GetPreferredSurfaceSetting() error = %v", err)
			}
			if set.SwizzleMode != tt.want {
				t.Errorf("SwizzleMode = %v, want %v", set.SwizzleMode, tt.want)
			}
			in.SwizzleMode = set.SwizzleMode
			if _, err := l.ComputeSurfaceInfo(in); err != nil {
				t.Errorf("ComputeSurfaceInfo() error = %v", err)
			}
		})
	}
}

func TestSurfaceInputFromTextureUnknownFormat(t *testing.T) {
	_, err := SurfaceInputFromTexture(TextureDesc{
		Format:    gputypes.TextureFormatUndefined,
		Dimension: gputypes.TextureDimension2D,
		Size:      gputypes.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1},
	})
	if !errors.Is(err, ErrNotSupported) {
		t.Errorf("SurfaceInputFromTexture(undefined) error = %v, want ErrNotSupported", err)
	}
}
