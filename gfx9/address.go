package gfx9

import (
	"fmt"

	"github.com/gogpu/addrlib/coord"
)

// HtileAddrInput locates one 8x8 tile of a depth surface's HTile.
type HtileAddrInput struct {
	HtileInfoInput
	X, Y, Slice, MipId uint32
	PipeXor            uint32
}

// HtileCoordInput is an HTile byte address to translate back.
type HtileCoordInput struct {
	HtileInfoInput
	Addr    uint64
	PipeXor uint32
}

// HtileCoord is the pixel position covered by an HTile entry.
type HtileCoord struct {
	X, Y, Slice, MipId uint32
}

// CmaskAddrInput locates one 8x8 tile of a color surface's CMask.
type CmaskAddrInput struct {
	CmaskInfoInput
	NumSamples  uint32
	NumFrags    uint32
	X, Y, Slice uint32
	PipeXor     uint32
}

// CmaskCoordInput is a CMask byte address and nibble position.
type CmaskCoordInput struct {
	CmaskInfoInput
	NumSamples  uint32
	NumFrags    uint32
	Addr        uint64
	BitPosition uint32
	PipeXor     uint32
}

// CmaskCoord is the pixel position covered by a CMask nibble.
type CmaskCoord struct {
	X, Y, Slice uint32
}

// DccAddrInput locates the DCC key of one compression block.
type DccAddrInput struct {
	DccInfoInput
	X, Y, Slice, Sample, MipId uint32
	PipeXor                    uint32
}

// metaBlockIndex numbers metadata blocks row-major within a slice.
func metaBlockIndex(x, y, z, blkW, blkH, blkD, pitch, height uint32) uint32 {
	pitchInBlk := pitch / blkW
	sliceInBlk := (height / blkH) * pitchInBlk
	return (z/blkD)*sliceInBlk + (y/blkH)*pitchInBlk + x/blkW
}

func (l *Lib) metaPipeXor(pipeAligned bool, sw SwizzleMode, pipeXor uint32) uint64 {
	bits := l.pipeLog2ForMetaAddressing(pipeAligned, sw)
	return uint64(pipeXor&(1<<bits-1)) << l.pipeInterleaveLog2
}

func (l *Lib) htileEquation(in HtileInfoInput, info HtileInfo) coord.Eq {
	return l.MetaEquation(MetaEqParams{
		MaxMip:            max(in.NumMipLevels, 1) - 1,
		ElementBytesLog2:  2,
		NumSamplesLog2:    log2(max(in.NumSamples, 1)),
		Flags:             in.Flags,
		DataType:          DataDepthStencil,
		SwizzleMode:       in.SwizzleMode,
		ResourceType:      ResourceTex2D,
		MetaBlkWidthLog2:  log2(info.MetaBlkWidth),
		MetaBlkHeightLog2: log2(info.MetaBlkHeight),
		CompBlkWidthLog2:  3,
		CompBlkHeightLog2: 3,
	})
}

// ComputeHtileAddrFromCoord returns the byte address of the HTile entry
// covering (X, Y, Slice).
func (l *Lib) ComputeHtileAddrFromCoord(in HtileAddrInput) (uint64, error) {
	if in.NumMipLevels > 1 {
		return 0, fmt.Errorf("%w: mip-mapped htile addressing", ErrNotImplemented)
	}
	info, err := l.ComputeHtileInfo(in.HtileInfoInput)
	if err != nil {
		return 0, err
	}
	eq := l.htileEquation(in.HtileInfoInput, info)
	m := metaBlockIndex(in.X, in.Y, in.Slice, info.MetaBlkWidth, info.MetaBlkHeight, 1, info.Pitch, info.Height)
	nibble := eq.Solve(in.X, in.Y, in.Slice, 0, m)
	return (nibble >> 1) ^ l.metaPipeXor(in.Flags.PipeAligned, in.SwizzleMode, in.PipeXor), nil
}

// ComputeHtileCoordFromAddr returns the top-left pixel of the tile whose
// HTile entry lives at Addr.
func (l *Lib) ComputeHtileCoordFromAddr(in HtileCoordInput) (HtileCoord, error) {
	if in.NumMipLevels > 1 {
		return HtileCoord{}, fmt.Errorf("%w: mip-mapped htile addressing", ErrNotImplemented)
	}
	info, err := l.ComputeHtileInfo(in.HtileInfoInput)
	if err != nil {
		return HtileCoord{}, err
	}
	eq := l.htileEquation(in.HtileInfoInput, info)

	nibble := (in.Addr ^ l.metaPipeXor(in.Flags.PipeAligned, in.SwizzleMode, in.PipeXor)) << 1
	pitchInBlk := info.Pitch / info.MetaBlkWidth
	sliceInBlk := (info.Height / info.MetaBlkHeight) * pitchInBlk
	p := eq.SolveAddr(nibble, sliceInBlk)

	return HtileCoord{
		X:     (p.M%pitchInBlk)*info.MetaBlkWidth + p.X,
		Y:     ((p.M%sliceInBlk)/pitchInBlk)*info.MetaBlkHeight + p.Y,
		Slice: p.M / sliceInBlk,
	}, nil
}

func (l *Lib) cmaskEquation(in CmaskInfoInput, numSamples, numFrags uint32, info CmaskInfo) coord.Eq {
	return l.MetaEquation(MetaEqParams{
		ElementBytesLog2:  log2(FmaskBpp(numSamples, numFrags) >> 3),
		Flags:             in.Flags,
		DataType:          DataFmask,
		SwizzleMode:       in.SwizzleMode,
		ResourceType:      in.ResourceType,
		MetaBlkWidthLog2:  log2(info.MetaBlkWidth),
		MetaBlkHeightLog2: log2(info.MetaBlkHeight),
		CompBlkWidthLog2:  3,
		CompBlkHeightLog2: 3,
	})
}

// ComputeCmaskAddrFromCoord returns the byte address and the bit position
// of the CMask nibble covering (X, Y, Slice).
func (l *Lib) ComputeCmaskAddrFromCoord(in CmaskAddrInput) (addr uint64, bitPosition uint32, err error) {
	info, err := l.ComputeCmaskInfo(in.CmaskInfoInput)
	if err != nil {
		return 0, 0, err
	}
	eq := l.cmaskEquation(in.CmaskInfoInput, in.NumSamples, in.NumFrags, info)
	m := metaBlockIndex(in.X, in.Y, in.Slice, info.MetaBlkWidth, info.MetaBlkHeight, 1, info.Pitch, info.Height)
	nibble := eq.Solve(in.X, in.Y, in.Slice, 0, m)

	addr = (nibble >> 1) ^ l.metaPipeXor(in.Flags.PipeAligned, in.SwizzleMode, in.PipeXor)
	return addr, uint32(nibble&1) << 2, nil
}

// ComputeCmaskCoordFromAddr returns the top-left pixel of the tile whose
// CMask nibble lives at Addr and BitPosition.
func (l *Lib) ComputeCmaskCoordFromAddr(in CmaskCoordInput) (CmaskCoord, error) {
	info, err := l.ComputeCmaskInfo(in.CmaskInfoInput)
	if err != nil {
		return CmaskCoord{}, err
	}
	eq := l.cmaskEquation(in.CmaskInfoInput, in.NumSamples, in.NumFrags, info)

	nibble := (in.Addr^l.metaPipeXor(in.Flags.PipeAligned, in.SwizzleMode, in.PipeXor))<<1 |
		uint64(in.BitPosition>>2&1)
	pitchInBlk := info.Pitch / info.MetaBlkWidth
	sliceInBlk := (info.Height / info.MetaBlkHeight) * pitchInBlk
	p := eq.SolveAddr(nibble, sliceInBlk)

	return CmaskCoord{
		X:     (p.M%pitchInBlk)*info.MetaBlkWidth + p.X,
		Y:     ((p.M%sliceInBlk)/pitchInBlk)*info.MetaBlkHeight + p.Y,
		Slice: p.M / sliceInBlk,
	}, nil
}

// ComputeDccAddrFromCoord returns the byte address of the DCC key for the
// compression block holding (X, Y, Slice, Sample).
func (l *Lib) ComputeDccAddrFromCoord(in DccAddrInput) (uint64, error) {
	if in.NumMipLevels > 1 || in.MipId > 1 || in.Flags.Linear || in.SwizzleMode.IsLinear() {
		return 0, fmt.Errorf("%w: dcc addressing for mips or linear keys", ErrNotImplemented)
	}
	info, err := l.ComputeDccInfo(in.DccInfoInput)
	if err != nil {
		return 0, err
	}
	eq := l.MetaEquation(MetaEqParams{
		MaxMip:            in.MipId,
		ElementBytesLog2:  log2(in.Bpp >> 3),
		NumSamplesLog2:    log2(max(in.NumFrags, 1)),
		Flags:             in.Flags,
		DataType:          DataColor,
		SwizzleMode:       in.SwizzleMode,
		ResourceType:      in.ResourceType,
		MetaBlkWidthLog2:  log2(info.MetaBlkWidth),
		MetaBlkHeightLog2: log2(info.MetaBlkHeight),
		MetaBlkDepthLog2:  log2(info.MetaBlkDepth),
		CompBlkWidthLog2:  log2(info.CompressBlkWidth),
		CompBlkHeightLog2: log2(info.CompressBlkHeight),
		CompBlkDepthLog2:  log2(info.CompressBlkDepth),
	})
	m := metaBlockIndex(in.X, in.Y, in.Slice, info.MetaBlkWidth, info.MetaBlkHeight, info.MetaBlkDepth,
		info.Pitch, info.Height)
	nibble := eq.Solve(in.X, in.Y, in.Slice, in.Sample, m)
	return (nibble >> 1) ^ l.metaPipeXor(in.Flags.PipeAligned, in.SwizzleMode, in.PipeXor), nil
}
