package gfx9

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestComputeSurfaceInfo1080p(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	info, err := l.ComputeSurfaceInfo(SurfaceInfoInput{
		Flags:        SurfaceFlags{Color: true, Display: true},
		SwizzleMode:  Sw64KBDX,
		ResourceType: ResourceTex2D,
		Bpp:          32,
		Width:        1920,
		Height:       1080,
		NumSlices:    1,
		NumMipLevels: 1,
		NumSamples:   1,
	})
	if err != nil {
		t.Fatalf("ComputeSurfaceInfo() error = %v", err)
	}
	want := SurfaceInfo{
		Pitch:            1920,
		Height:           1152,
		NumSlices:        1,
		MipChainPitch:    1920,
		MipChainHeight:   1152,
		MipChainSlice:    1,
		SliceSize:        1920 * 1152 * 4,
		SurfSize:         1920 * 1152 * 4,
		BaseAlign:        64 * 1024,
		BlockWidth:       128,
		BlockHeight:      128,
		BlockSlices:      1,
		FirstMipIdInTail: 1,
	}
	if diff := cmp.Diff(want, info, cmpopts.IgnoreFields(SurfaceInfo{}, "MipInfo")); diff != "" {
		t.Errorf("ComputeSurfaceInfo() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSurfaceInfoLinear(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	tests := []struct {
		name      string
		in        SurfaceInfoInput
		pitch     uint32
		sliceSize uint64
		baseAlign uint32
	}{
		{
			name:      "linear 2D",
			in:        SurfaceInfoInput{SwizzleMode: SwLinear, ResourceType: ResourceTex2D, Bpp: 32, Width: 100, Height: 10},
			pitch:     128,
			sliceSize: 128 * 10 * 4,
			baseAlign: 256,
		},
		{
			name:      "linear general",
			in:        SurfaceInfoInput{SwizzleMode: SwLinearGeneral, ResourceType: ResourceTex2D, Bpp: 32, Width: 100, Height: 10},
			pitch:     100,
			sliceSize: 100 * 10 * 4,
			baseAlign: 4,
		},
		{
			name:      "linear 1D",
			in:        SurfaceInfoInput{SwizzleMode: SwLinear, ResourceType: ResourceTex1D, Bpp: 32, Width: 100},
			pitch:     128,
			sliceSize: 128 * 4,
			baseAlign: 256,
		},
		{
			name:      "custom pitch and slice",
			in:        SurfaceInfoInput{SwizzleMode: SwLinear, ResourceType: ResourceTex2D, Bpp: 32, Width: 100, Height: 10, PitchInElement: 192, SliceAlign: 192 * 4 * 16},
			pitch:     192,
			sliceSize: 192 * 16 * 4,
			baseAlign: 256,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := l.ComputeSurfaceInfo(tt.in)
			if err != nil {
				t.Fatalf("ComputeSurfaceInfo() error = %v", err)
			}
			if info.Pitch != tt.pitch {
				t.Errorf("Pitch = %d, want %d", info.Pitch, tt.pitch)
			}
			if info.SliceSize != tt.sliceSize {
				t.Errorf("SliceSize = %d, want %d", info.SliceSize, tt.sliceSize)
			}
			if info.BaseAlign != tt.baseAlign {
				t.Errorf("BaseAlign = %d, want %d", info.BaseAlign, tt.baseAlign)
			}
		})
	}
}

func TestComputeSurfaceInfoMipChain(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	info, err := l.ComputeSurfaceInfo(SurfaceInfoInput{
		SwizzleMode:  Sw64KBS,
		ResourceType: ResourceTex2D,
		Bpp:          32,
		Width:        256,
		Height:       256,
		NumMipLevels: 9,
	})
	if err != nil {
		t.Fatalf("ComputeSurfaceInfo() error = %v", err)
	}
	if info.FirstMipIdInTail != 2 {
		t.Errorf("FirstMipIdInTail = %d, want 2", info.FirstMipIdInTail)
	}
	if info.MipChainPitch != 256 || info.MipChainHeight != 384 {
		t.Errorf("mip chain %dx%d, want 256x384", info.MipChainPitch, info.MipChainHeight)
	}
	if !info.EpitchIsHeight {
		t.Error("EpitchIsHeight = false for an x-major chain")
	}
	if info.SliceSize != 256*384*4 {
		t.Errorf("SliceSize = %d, want %d", info.SliceSize, 256*384*4)
	}

	wantMips := []struct {
		pitch, height uint32
		macro         uint64
		tail          uint32
	}{
		{256, 256, 0, 0},
		{128, 128, 4 << 16, 0},
		{64, 128, 5 << 16, 32 * 1024},
		{32, 64, 5 << 16, 16 * 1024},
	}
	for i, w := range wantMips {
		got := info.MipInfo[i]
		if got.Pitch != w.pitch || got.Height != w.height {
			t.Errorf("mip %d padded to %dx%d, want %dx%d", i, got.Pitch, got.Height, w.pitch, w.height)
		}
		if got.MacroBlockOffset != w.macro || got.MipTailOffset != w.tail {
			t.Errorf("mip %d at block %#x + %#x, want %#x + %#x",
				i, got.MacroBlockOffset, got.MipTailOffset, w.macro, w.tail)
		}
	}
}

func TestComputeSurfaceInfoChainInTail(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	info, err := l.ComputeSurfaceInfo(SurfaceInfoInput{
		SwizzleMode:  Sw64KBS,
		ResourceType: ResourceTex2D,
		Bpp:          32,
		Width:        32,
		Height:       32,
		NumMipLevels: 3,
	})
	if err != nil {
		t.Fatalf("ComputeSurfaceInfo() error = %v", err)
	}
	if !info.MipChainInTail || info.FirstMipIdInTail != 0 {
		t.Errorf("MipChainInTail = %v, FirstMipIdInTail = %d, want true, 0", info.MipChainInTail, info.FirstMipIdInTail)
	}
	if info.SliceSize != 64*1024 {
		t.Errorf("SliceSize = %d, want one 64KB block", info.SliceSize)
	}
}

func TestComputeSurfaceInfoPitchOverride(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	in := SurfaceInfoInput{SwizzleMode: Sw64KBSX, ResourceType: ResourceTex2D, Bpp: 32, Width: 1920, Height: 1080}

	in.PitchInElement = 2048
	info, err := l.ComputeSurfaceInfo(in)
	if err != nil {
		t.Fatalf("ComputeSurfaceInfo(pitch 2048) error = %v", err)
	}
	if info.Pitch != 2048 {
		t.Errorf("Pitch = %d, want 2048", info.Pitch)
	}

	in.PitchInElement = 1930
	if _, err := l.ComputeSurfaceInfo(in); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("ComputeSurfaceInfo(pitch 1930) error = %v, want ErrInvalidParams", err)
	}
}

func TestComputeSurfaceInfoPrtAlign(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	info, err := l.ComputeSurfaceInfo(SurfaceInfoInput{
		Flags:        SurfaceFlags{Prt: true},
		SwizzleMode:  Sw64KBST,
		ResourceType: ResourceTex2D,
		Bpp:          32,
		Width:        64,
		Height:       64,
	})
	if err != nil {
		t.Fatalf("ComputeSurfaceInfo() error = %v", err)
	}
	if info.BaseAlign != prtAlignment {
		t.Errorf("BaseAlign = %d, want %d", info.BaseAlign, prtAlignment)
	}
}

func TestComputeBlockDimension(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	tests := []struct {
		bpp     uint32
		samples uint32
		rt      ResourceType
		sw      SwizzleMode
		want    Dim3d
	}{
		{8, 1, ResourceTex2D, Sw64KBS, Dim3d{256, 256, 1}},
		{32, 1, ResourceTex2D, Sw4KBZ, Dim3d{32, 32, 1}},
		{128, 1, ResourceTex2D, Sw256BS, Dim3d{4, 4, 1}},
		{32, 1, ResourceTex3D, Sw64KBS, Dim3d{32, 32, 16}},
		{32, 1, ResourceTex3D, Sw4KBZ, Dim3d{8, 16, 8}},
		{64, 1, ResourceTex3D, Sw64KBZ, Dim3d{32, 16, 16}},
		{32, 1, ResourceTex3D, Sw64KBD, Dim3d{128, 128, 1}},
		{32, 4, ResourceTex2D, Sw64KBZ, Dim3d{64, 64, 1}},
		{32, 2, ResourceTex2D, Sw64KBZ, Dim3d{64, 128, 1}},
		{32, 8, ResourceTex2D, Sw64KBZ, Dim3d{32, 64, 1}},
	}
	for _, tt := range tests {
		got, err := l.ComputeBlockDimensionForSurf(tt.bpp, tt.samples, tt.rt, tt.sw)
		if err != nil {
			t.Errorf("ComputeBlockDimensionForSurf(%d, %d, %v, %v) error = %v", tt.bpp, tt.samples, tt.rt, tt.sw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ComputeBlockDimensionForSurf(%d, %d, %v, %v) = %+v, want %+v",
				tt.bpp, tt.samples, tt.rt, tt.sw, got, tt.want)
		}
	}
}

func TestMipTailDim(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	tests := []struct {
		rt   ResourceType
		sw   SwizzleMode
		blk  Dim3d
		want Dim3d
	}{
		{ResourceTex2D, Sw64KBS, Dim3d{128, 128, 1}, Dim3d{64, 128, 1}},
		{ResourceTex2D, Sw4KBS, Dim3d{32, 32, 1}, Dim3d{16, 32, 1}},
		{ResourceTex3D, Sw64KBS, Dim3d{32, 32, 16}, Dim3d{16, 32, 16}},
		{ResourceTex3D, Sw4KBS, Dim3d{8, 16, 8}, Dim3d{8, 8, 8}},
	}
	for _, tt := range tests {
		if got := l.MipTailDim(tt.rt, tt.sw, tt.blk); got != tt.want {
			t.Errorf("MipTailDim(%v, %v, %+v) = %+v, want %+v", tt.rt, tt.sw, tt.blk, got, tt.want)
		}
	}
}

func TestMajorModeOf(t *testing.T) {
	tests := []struct {
		rt      ResourceType
		sw      SwizzleMode
		w, h, d uint32
		want    MajorMode
	}{
		{ResourceTex2D, Sw64KBS, 4, 2, 1, MajorX},
		{ResourceTex2D, Sw64KBS, 2, 2, 1, MajorX},
		{ResourceTex2D, Sw64KBS, 2, 4, 1, MajorY},
		{ResourceTex3D, Sw64KBZ, 2, 2, 4, MajorZ},
		{ResourceTex3D, Sw64KBZ, 2, 4, 3, MajorY},
	}
	for _, tt := range tests {
		if got := MajorModeOf(tt.rt, tt.sw, tt.w, tt.h, tt.d); got != tt.want {
			t.Errorf("MajorModeOf(%v, %d, %d, %d) = %d, want %d", tt.rt, tt.w, tt.h, tt.d, got, tt.want)
		}
	}
}

func TestComputeSurfaceInfoRejects(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	base := SurfaceInfoInput{SwizzleMode: Sw64KBS, ResourceType: ResourceTex2D, Bpp: 32, Width: 64, Height: 64}
	tests := []struct {
		name string
		edit func(*SurfaceInfoInput)
	}{
		{"24 bpp", func(in *SurfaceInfoInput) { in.Bpp = 24 }},
		{"zero width", func(in *SurfaceInfoInput) { in.Width = 0 }},
		{"more frags than samples", func(in *SurfaceInfoInput) { in.NumSamples = 2; in.NumFrags = 4 }},
		{"too many mips", func(in *SurfaceInfoInput) { in.NumMipLevels = 17 }},
		{"1D tiled", func(in *SurfaceInfoInput) { in.ResourceType = ResourceTex1D }},
		{"msaa with mips", func(in *SurfaceInfoInput) {
			in.Flags.Depth = true
			in.SwizzleMode = Sw64KBZX
			in.NumSamples = 4
			in.NumMipLevels = 2
		}},
		{"stereo msaa", func(in *SurfaceInfoInput) {
			in.Flags.QbStereo = true
			in.SwizzleMode = Sw64KBZX
			in.NumSamples = 2
		}},
		{"3D rotated", func(in *SurfaceInfoInput) { in.ResourceType = ResourceTex3D; in.SwizzleMode = Sw64KBR }},
		{"3D 256B", func(in *SurfaceInfoInput) { in.ResourceType = ResourceTex3D; in.SwizzleMode = Sw256BS }},
		{"3D as 2D array on S", func(in *SurfaceInfoInput) {
			in.ResourceType = ResourceTex3D
			in.Flags.View3dAs2dArray = true
		}},
		{"depth on S", func(in *SurfaceInfoInput) { in.Flags.Depth = true }},
		{"depth linear", func(in *SurfaceInfoInput) { in.Flags.Depth = true; in.SwizzleMode = SwLinear }},
		{"rotated 128 bpp", func(in *SurfaceInfoInput) { in.Bpp = 128; in.SwizzleMode = Sw64KBR }},
		{"prt with xor", func(in *SurfaceInfoInput) { in.Flags.Prt = true; in.SwizzleMode = Sw64KBSX }},
		{"fmask on S", func(in *SurfaceInfoInput) { in.Flags.Fmask = true }},
		{"display on S", func(in *SurfaceInfoInput) { in.Flags.Display = true }},
		{"var without var block", func(in *SurfaceInfoInput) { in.SwizzleMode = SwVarS }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.edit(&in)
			if _, err := l.ComputeSurfaceInfo(in); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("ComputeSurfaceInfo() error = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestComputeSurfaceInfoAccepts(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	tests := []struct {
		name string
		in   SurfaceInfoInput
	}{
		{"prt", SurfaceInfoInput{Flags: SurfaceFlags{Prt: true}, SwizzleMode: Sw64KBST, ResourceType: ResourceTex2D, Bpp: 32, Width: 64, Height: 64}},
		{"3D as 2D array on D", SurfaceInfoInput{Flags: SurfaceFlags{View3dAs2dArray: true}, SwizzleMode: Sw64KBDX, ResourceType: ResourceTex3D, Bpp: 32, Width: 64, Height: 64, NumSlices: 8}},
		{"msaa depth", SurfaceInfoInput{Flags: SurfaceFlags{Depth: true}, SwizzleMode: Sw64KBZX, ResourceType: ResourceTex2D, Bpp: 32, Width: 64, Height: 64, NumSamples: 8}},
		{"fmask", SurfaceInfoInput{Flags: SurfaceFlags{Fmask: true}, SwizzleMode: Sw64KBZX, ResourceType: ResourceTex2D, Bpp: 8, Width: 64, Height: 64}},
		{"display 4KB", SurfaceInfoInput{Flags: SurfaceFlags{Display: true}, SwizzleMode: Sw4KBDX, ResourceType: ResourceTex2D, Bpp: 64, Width: 64, Height: 64}},
	}
	for _, tt := range tests {
		if _, err := l.ComputeSurfaceInfo(tt.in); err != nil {
			t.Errorf("%s: ComputeSurfaceInfo() error = %v", tt.name, err)
		}
	}
}

func TestDisplayEngines(t *testing.T) {
	dcn := DefaultConfig()
	dcn.Chip.IsDce12 = false
	dcn.Chip.IsDcn1 = true
	none := DefaultConfig()
	none.Chip.IsDce12 = false

	in := SurfaceInfoInput{Flags: SurfaceFlags{Display: true}, SwizzleMode: Sw64KBSX, ResourceType: ResourceTex2D, Bpp: 32, Width: 64, Height: 64}
	if _, err := newTestLib(t, DefaultConfig()).ComputeSurfaceInfo(in); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("DCE12 S display error = %v, want ErrInvalidParams", err)
	}
	if _, err := newTestLib(t, dcn).ComputeSurfaceInfo(in); err != nil {
		t.Errorf("DCN1 S display error = %v", err)
	}
	in.SwizzleMode = Sw64KBDX
	if _, err := newTestLib(t, dcn).ComputeSurfaceInfo(in); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("DCN1 D display at 32 bpp error = %v, want ErrInvalidParams", err)
	}
	in.SwizzleMode = Sw64KBZX
	if _, err := newTestLib(t, none).ComputeSurfaceInfo(in); err != nil {
		t.Errorf("no display engine: error = %v", err)
	}
}

func TestFmaskBpp(t *testing.T) {
	tests := []struct {
		samples, frags, want uint32
	}{
		{1, 1, 8},
		{2, 2, 8},
		{4, 2, 8},
		{4, 4, 8},
		{8, 4, 32},
		{8, 8, 32},
		{16, 8, 64},
		{16, 16, 64},
		{4, 0, 8},
	}
	for _, tt := range tests {
		if got := FmaskBpp(tt.samples, tt.frags); got != tt.want {
			t.Errorf("FmaskBpp(%d, %d) = %d, want %d", tt.samples, tt.frags, got, tt.want)
		}
	}
}
