package gfx9

import (
	"fmt"

	"github.com/gogpu/addrlib/coord"
)

// SurfaceAddrInput locates one element of a surface.
type SurfaceAddrInput struct {
	Surface SurfaceInfoInput
	X       uint32
	Y       uint32
	Slice   uint32
	Sample  uint32
	MipId   uint32
	// PipeBankXor salts the pipe and bank bits of XOR modes.
	PipeBankXor uint32
}

// SurfaceCoordInput is a byte offset into a surface to translate back.
type SurfaceCoordInput struct {
	Surface     SurfaceInfoInput
	Addr        uint64
	PipeBankXor uint32
}

// SurfaceCoord is the element an address belongs to.
type SurfaceCoord struct {
	X, Y, Slice, Sample, MipId uint32
}

func dataTypeOf(f SurfaceFlags) DataType {
	switch {
	case f.Depth || f.Stencil:
		return DataDepthStencil
	case f.Fmask:
		return DataFmask
	}
	return DataColor
}

// ComputeSurfaceAddrFromCoord returns the byte offset of an element from
// the surface base.
func (l *Lib) ComputeSurfaceAddrFromCoord(in SurfaceAddrInput) (uint64, error) {
	s := normalizeSurfaceInput(in.Surface)
	info, err := l.ComputeSurfaceInfo(s)
	if err != nil {
		return 0, err
	}
	if in.MipId >= s.NumMipLevels || in.Sample >= s.NumSamples || in.Slice >= s.NumSlices {
		return 0, fmt.Errorf("%w: coordinate outside surface (mip %d sample %d slice %d)",
			ErrInvalidParams, in.MipId, in.Sample, in.Slice)
	}
	if s.SwizzleMode.IsLinear() {
		return linearAddr(s, info, in), nil
	}

	sw, rt := s.SwizzleMode, s.ResourceType
	blk := l.BlockSizeLog2(sw)
	elemLog2 := log2(s.Bpp >> 3)
	samplesLog2 := log2(s.NumFrags)
	eq := l.surfaceBlockEquation(dataTypeOf(s.Flags), sw, rt, elemLog2, samplesLog2)

	mip := info.MipInfo[in.MipId]
	x, y, z := in.X, in.Y, in.Slice
	var sliceOffset uint64
	if !isThick(rt, sw) {
		sliceOffset = uint64(in.Slice) * info.SliceSize
		z = 0
	}
	if s.NumMipLevels > 1 && in.MipId >= info.FirstMipIdInTail {
		origin := l.mipTailOrigin(sw, rt, elemLog2, mip.MipTailOffset)
		x += origin.X
		y += origin.Y
		z += origin.Z
	}

	pitchInBlk := info.MipChainPitch / info.BlockWidth
	sliceInBlk := (info.MipChainHeight / info.BlockHeight) * pitchInBlk
	blockIndex := uint64(z/info.BlockSlices)*uint64(sliceInBlk) +
		uint64(y/info.BlockHeight)*uint64(pitchInBlk) + uint64(x/info.BlockWidth)

	inBlock := eq.Solve(x, y, z, in.Sample, 0) ^
		(uint64(in.PipeBankXor)<<l.pipeInterleaveLog2)&l.pipeBankMask(sw)
	return sliceOffset + mip.MacroBlockOffset + blockIndex<<blk + inBlock, nil
}

// mipTailOrigin returns the element position, relative to the tail block,
// where the mip at tailOffset bytes starts.
func (l *Lib) mipTailOrigin(sw SwizzleMode, rt ResourceType, elemLog2, tailOffset uint32) coord.Point {
	plain := l.DataEquation(DataColor, sw, rt, elemLog2, 0)
	plain.Resize(int(l.BlockSizeLog2(sw)))
	return plain.SolveAddr(uint64(tailOffset), 0)
}

func linearAddr(s SurfaceInfoInput, info SurfaceInfo, in SurfaceAddrInput) uint64 {
	bytes := uint64(s.Bpp >> 3)
	mip := info.MipInfo[in.MipId]
	return uint64(in.Slice)*info.SliceSize + mip.Offset +
		(uint64(in.Y)*uint64(mip.Pitch)+uint64(in.X))*bytes
}

// ComputeSurfaceCoordFromAddr returns the element stored at a byte offset
// from the surface base. Tiled surfaces with more than one mip are not
// supported.
func (l *Lib) ComputeSurfaceCoordFromAddr(in SurfaceCoordInput) (SurfaceCoord, error) {
	s := normalizeSurfaceInput(in.Surface)
	info, err := l.ComputeSurfaceInfo(s)
	if err != nil {
		return SurfaceCoord{}, err
	}
	if in.Addr >= info.SurfSize {
		return SurfaceCoord{}, fmt.Errorf("%w: address %#x beyond surface size %#x",
			ErrInvalidParams, in.Addr, info.SurfSize)
	}
	if s.SwizzleMode.IsLinear() {
		return linearCoord(s, info, in.Addr), nil
	}
	if s.NumMipLevels > 1 {
		return SurfaceCoord{}, fmt.Errorf("%w: coordinates of mip-mapped tiled surfaces", ErrNotImplemented)
	}

	sw, rt := s.SwizzleMode, s.ResourceType
	blk := l.BlockSizeLog2(sw)
	eq := l.surfaceBlockEquation(dataTypeOf(s.Flags), sw, rt, log2(s.Bpp>>3), log2(s.NumFrags))

	addr := in.Addr
	var out SurfaceCoord
	if !isThick(rt, sw) {
		out.Slice = uint32(addr / info.SliceSize)
		addr %= info.SliceSize
	}

	blockIndex := uint32(addr >> blk)
	offset := (addr & (1<<blk - 1)) ^ (uint64(in.PipeBankXor)<<l.pipeInterleaveLog2)&l.pipeBankMask(sw)

	pitchInBlk := info.MipChainPitch / info.BlockWidth
	sliceInBlk := (info.MipChainHeight / info.BlockHeight) * pitchInBlk
	baseX := (blockIndex % pitchInBlk) * info.BlockWidth
	baseY := ((blockIndex % sliceInBlk) / pitchInBlk) * info.BlockHeight
	baseZ := (blockIndex / sliceInBlk) * info.BlockSlices

	// Bits sourced from above the block are fixed by the block position:
	// fold their values into the offset so only in-block unknowns remain.
	lim := [3]int8{int8(log2(info.BlockWidth)), int8(log2(info.BlockHeight)), int8(log2(info.BlockSlices))}
	for i := 0; i < eq.Size(); i++ {
		t := eq.Bit(i)
		for _, c := range t.Coords() {
			var ord int8
			switch c.Dim {
			case coord.AxisX:
				ord = lim[0]
			case coord.AxisY:
				ord = lim[1]
			case coord.AxisZ:
				ord = lim[2]
			default:
				continue
			}
			if c.Ord >= ord {
				offset ^= uint64(c.IsOn(baseX, baseY, baseZ, 0, 0)) << uint(i)
				t.Remove(c)
			}
		}
	}

	p := eq.SolveAddr(offset, 0)
	out.X = baseX + p.X
	out.Y = baseY + p.Y
	out.Sample = p.S
	if isThick(rt, sw) {
		out.Slice = baseZ + p.Z
	}
	return out, nil
}

func linearCoord(s SurfaceInfoInput, info SurfaceInfo, addr uint64) SurfaceCoord {
	bytes := uint64(s.Bpp >> 3)
	var out SurfaceCoord
	out.Slice = uint32(addr / info.SliceSize)
	rem := addr % info.SliceSize

	mip := len(info.MipInfo) - 1
	for mip > 0 && info.MipInfo[mip].Offset > rem {
		mip--
	}
	out.MipId = uint32(mip)
	rem -= info.MipInfo[mip].Offset
	row := uint64(info.MipInfo[mip].Pitch) * bytes
	out.Y = uint32(rem / row)
	out.X = uint32(rem % row / bytes)
	return out
}
