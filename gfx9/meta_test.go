package gfx9

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func htileParams(widthLog2 uint32) MetaEqParams {
	return MetaEqParams{
		ElementBytesLog2:  2,
		Flags:             MetaFlags{PipeAligned: true, RbAligned: true},
		DataType:          DataDepthStencil,
		SwizzleMode:       Sw64KBZX,
		ResourceType:      ResourceTex2D,
		MetaBlkWidthLog2:  widthLog2,
		MetaBlkHeightLog2: 9,
		CompBlkWidthLog2:  3,
		CompBlkHeightLog2: 3,
	}
}

func TestMetaEquationMatchesGenerated(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	p := htileParams(10)

	first := l.MetaEquation(p)
	cached := l.MetaEquation(p)
	fresh := l.GenMetaEquation(p)
	if !first.Equal(&cached) {
		t.Errorf("cached equation %s differs from first %s", cached.String(), first.String())
	}
	if !first.Equal(&fresh) {
		t.Errorf("generated equation %s differs from cached %s", fresh.String(), first.String())
	}
	for _, pt := range [][3]uint32{{0, 0, 0}, {8, 16, 1}, {1000, 500, 3}} {
		if a, b := first.Solve(pt[0], pt[1], pt[2], 0, 7), fresh.Solve(pt[0], pt[1], pt[2], 0, 7); a != b {
			t.Errorf("Solve(%v) = %#x cached, %#x generated", pt, a, b)
		}
	}
}

func TestMetaEquationLogsCacheMisses(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := newTestLib(t, DefaultConfig(), WithLogger(logger))

	l.MetaEquation(htileParams(10))
	l.MetaEquation(htileParams(10))
	l.MetaEquation(htileParams(9))

	out := buf.String()
	if n := strings.Count(out, "meta equation generated"); n != 2 {
		t.Errorf("logged %d generations, want 2:\n%s", n, out)
	}
	if !strings.Contains(out, "cacheHits=1 cacheMisses=2") {
		t.Errorf("log output = %q, want the second miss after one hit", out)
	}
}

func TestMetaEquationRoundRobin(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	p1, p2, p3, p4 := htileParams(6), htileParams(7), htileParams(8), htileParams(9)

	l.MetaEquation(p1)
	l.MetaEquation(p2)
	if got := l.metaEq.Slot(p1); got != 0 {
		t.Errorf("p1 slot = %d, want 0", got)
	}
	if got := l.metaEq.Slot(p2); got != 1 {
		t.Errorf("p2 slot = %d, want 1", got)
	}

	// A hit does not protect p1 from eviction.
	l.MetaEquation(p1)
	l.MetaEquation(p3)
	if got := l.metaEq.Slot(p1); got != -1 {
		t.Errorf("p1 slot = %d after third entry, want evicted", got)
	}
	if got := l.metaEq.Slot(p3); got != 0 {
		t.Errorf("p3 slot = %d, want 0", got)
	}

	l.MetaEquation(p4)
	if got := l.metaEq.Slot(p2); got != -1 {
		t.Errorf("p2 slot = %d after fourth entry, want evicted", got)
	}
	if got := l.metaEq.Slot(p4); got != 1 {
		t.Errorf("p4 slot = %d, want 1", got)
	}
}

func TestMetaEquationCacheSize(t *testing.T) {
	l := newTestLib(t, DefaultConfig(), WithMetaEquationCache(4))
	for w := uint32(6); w < 10; w++ {
		l.MetaEquation(htileParams(w))
	}
	if got := l.metaEq.Stats().Len; got != 4 {
		t.Errorf("cache holds %d equations, want 4", got)
	}
}

func TestHtileInfoSingleRb(t *testing.T) {
	l := newTestLib(t, singleConfig())
	info, err := l.ComputeHtileInfo(HtileInfoInput{
		SwizzleMode:     Sw64KBZ,
		UnalignedWidth:  1000,
		UnalignedHeight: 600,
		NumSlices:       1,
		NumMipLevels:    1,
	})
	if err != nil {
		t.Fatalf("ComputeHtileInfo() error = %v", err)
	}
	widthAmp := log2(info.MetaBlkWidth) - 3
	heightAmp := log2(info.MetaBlkHeight) - 3
	if widthAmp+heightAmp != 10 {
		t.Errorf("meta block %dx%d, want widthAmp+heightAmp == 10", info.MetaBlkWidth, info.MetaBlkHeight)
	}
	if info.MetaBlkWidth != 8<<widthAmp || info.MetaBlkHeight != 8<<heightAmp {
		t.Errorf("meta block %dx%d is not 8<<amp", info.MetaBlkWidth, info.MetaBlkHeight)
	}
	if info.Pitch < 1000 || info.Height < 600 {
		t.Errorf("htile covers %dx%d, want at least 1000x600", info.Pitch, info.Height)
	}
	if info.HtileBytes%info.BaseAlign != 0 {
		t.Errorf("HtileBytes %d not aligned to %d", info.HtileBytes, info.BaseAlign)
	}
}

func TestHtileRejectsNonZ(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	_, err := l.ComputeHtileInfo(HtileInfoInput{SwizzleMode: Sw64KBS, UnalignedWidth: 64, UnalignedHeight: 64})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("ComputeHtileInfo(64KB_S) error = %v, want ErrInvalidParams", err)
	}
}

func TestLinearMetadataNotImplemented(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	linear := MetaFlags{PipeAligned: true, Linear: true}

	if _, err := l.ComputeHtileInfo(HtileInfoInput{Flags: linear, SwizzleMode: Sw64KBZX, UnalignedWidth: 64, UnalignedHeight: 64}); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("linear htile error = %v, want ErrNotImplemented", err)
	}
	if _, err := l.ComputeCmaskInfo(CmaskInfoInput{Flags: linear, ResourceType: ResourceTex2D, SwizzleMode: Sw64KBZX, UnalignedWidth: 64, UnalignedHeight: 64}); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("linear cmask error = %v, want ErrNotImplemented", err)
	}
	if _, err := l.ComputeDccInfo(DccInfoInput{Flags: linear, ResourceType: ResourceTex2D, SwizzleMode: Sw64KBSX, Bpp: 32, UnalignedWidth: 64, UnalignedHeight: 64}); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("linear dcc error = %v, want ErrNotImplemented", err)
	}
}

func TestCmaskNeedsPipeAligned(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	_, err := l.ComputeCmaskInfo(CmaskInfoInput{ResourceType: ResourceTex2D, SwizzleMode: Sw64KBZX, UnalignedWidth: 64, UnalignedHeight: 64})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("ComputeCmaskInfo(!pipeAligned) error = %v, want ErrInvalidParams", err)
	}
}

func TestDccInfo(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	info, err := l.ComputeDccInfo(DccInfoInput{
		Flags:           MetaFlags{PipeAligned: true, RbAligned: true},
		ResourceType:    ResourceTex2D,
		SwizzleMode:     Sw64KBSX,
		Bpp:             32,
		UnalignedWidth:  1920,
		UnalignedHeight: 1080,
		NumSlices:       1,
		NumFrags:        1,
		NumMipLevels:    1,
	})
	if err != nil {
		t.Fatalf("ComputeDccInfo() error = %v", err)
	}
	want := Dim3d{W: 8, H: 8, D: 1}
	got := Dim3d{W: info.CompressBlkWidth, H: info.CompressBlkHeight, D: info.CompressBlkDepth}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("compress block mismatch (-want +got):\n%s", diff)
	}
	if info.Pitch < 1920 || info.Height < 1080 {
		t.Errorf("dcc covers %dx%d, want at least 1920x1080", info.Pitch, info.Height)
	}
	if info.DccRamSize == 0 || info.FastClearSizePerSlice == 0 {
		t.Errorf("DccRamSize = %d, FastClearSizePerSlice = %d, want both non-zero",
			info.DccRamSize, info.FastClearSizePerSlice)
	}
}

func TestDccCompressBlk(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	tests := []struct {
		rt   ResourceType
		sw   SwizzleMode
		bpp  uint32
		want Dim3d
	}{
		{ResourceTex2D, Sw64KBSX, 8, Dim3d{16, 16, 1}},
		{ResourceTex2D, Sw64KBSX, 128, Dim3d{4, 4, 1}},
		{ResourceTex3D, Sw64KBSX, 32, Dim3d{4, 4, 4}},
		{ResourceTex3D, Sw64KBZX, 64, Dim3d{4, 2, 4}},
		{ResourceTex3D, Sw64KBDX, 32, Dim3d{8, 8, 1}},
	}
	for _, tt := range tests {
		if got := l.DccCompressBlk(tt.rt, tt.sw, tt.bpp); got != tt.want {
			t.Errorf("DccCompressBlk(%v, %v, %d) = %+v, want %+v", tt.rt, tt.sw, tt.bpp, got, tt.want)
		}
	}
}

func TestMetaMipInfoTail(t *testing.T) {
	l := newTestLib(t, DefaultConfig())
	info, err := l.ComputeHtileInfo(HtileInfoInput{
		Flags:           MetaFlags{PipeAligned: true, RbAligned: true},
		SwizzleMode:     Sw64KBZX,
		UnalignedWidth:  2048,
		UnalignedHeight: 2048,
		NumSlices:       1,
		NumMipLevels:    12,
	})
	if err != nil {
		t.Fatalf("ComputeHtileInfo() error = %v", err)
	}
	if len(info.MipInfo) != 12 {
		t.Fatalf("len(MipInfo) = %d, want 12", len(info.MipInfo))
	}
	if info.MipInfo[0].InMiptail {
		t.Error("mip 0 of a 2048x2048 surface placed in the tail")
	}
	if !info.MipInfo[11].InMiptail {
		t.Error("mip 11 not placed in the tail")
	}
	for i := 1; i < len(info.MipInfo); i++ {
		if info.MipInfo[i-1].InMiptail && !info.MipInfo[i].InMiptail {
			t.Errorf("mip %d left the tail", i)
		}
	}
}

func BenchmarkGenMetaEquation(b *testing.B) {
	l := newTestLib(b, DefaultConfig())
	p := htileParams(10)
	b.ReportAllocs()
	for b.Loop() {
		_ = l.GenMetaEquation(p)
	}
}
