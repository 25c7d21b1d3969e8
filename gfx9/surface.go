package gfx9

import "fmt"

// mipTailOffset256B is the offset, in 256-byte units, of each mip inside a
// 1MB mip tail. Smaller blocks index further in.
var mipTailOffset256B = [...]uint32{2048, 1024, 512, 256, 128, 64, 32, 16, 8, 6, 5, 4, 3, 2, 1, 0}

// maxMipLevels bounds the mip count of any surface.
const maxMipLevels = 16

// SurfaceFlags describe how a surface is used.
type SurfaceFlags struct {
	Color    bool
	Depth    bool
	Stencil  bool
	Fmask    bool
	Texture  bool
	Display  bool
	Rotated  bool
	Prt      bool
	QbStereo bool
	// View3dAs2dArray marks a 3D surface also viewed as a 2D array.
	View3dAs2dArray bool
	// BlockCompressed marks BCn/ASTC formats.
	BlockCompressed bool
	// MacroPixelPacked marks 4:2:2 formats.
	MacroPixelPacked bool
}

// SurfaceInfoInput describes a surface to lay out.
type SurfaceInfoInput struct {
	Flags        SurfaceFlags
	SwizzleMode  SwizzleMode
	ResourceType ResourceType
	// Bpp is bits per element.
	Bpp          uint32
	Width        uint32
	Height       uint32
	NumSlices    uint32
	NumMipLevels uint32
	NumSamples   uint32
	// NumFrags defaults to NumSamples.
	NumFrags uint32
	// PitchInElement overrides the padded pitch of single-mip surfaces.
	PitchInElement uint32
	// SliceAlign overrides the slice size of single-mip linear surfaces.
	SliceAlign uint32
}

// MipInfo locates one mip level of a surface.
type MipInfo struct {
	Pitch  uint32
	Height uint32
	Depth  uint32
	// Offset is the byte offset of the mip in a compact mip chain.
	Offset uint64
	// MacroBlockOffset is the byte offset of the block holding the mip.
	MacroBlockOffset uint64
	// MipTailOffset is the byte offset of the mip inside the mip tail block.
	MipTailOffset uint32
}

// SurfaceInfo is the layout of a surface.
type SurfaceInfo struct {
	Pitch     uint32
	Height    uint32
	NumSlices uint32

	MipChainPitch  uint32
	MipChainHeight uint32
	MipChainSlice  uint32

	SliceSize uint64
	SurfSize  uint64
	BaseAlign uint32

	BlockWidth  uint32
	BlockHeight uint32
	BlockSlices uint32

	// EpitchIsHeight reports that the hardware epitch field holds the
	// height rather than the pitch.
	EpitchIsHeight   bool
	MipChainInTail   bool
	FirstMipIdInTail uint32

	MipInfo []MipInfo
}

// ComputeSurfaceInfo validates in and computes the surface layout.
func (l *Lib) ComputeSurfaceInfo(in SurfaceInfoInput) (SurfaceInfo, error) {
	in = normalizeSurfaceInput(in)
	if err := l.ValidateNonSwModeParams(in); err != nil {
		l.log.Warn("gfx9: surface rejected", "err", err)
		return SurfaceInfo{}, err
	}
	if err := l.ValidateSwModeParams(in); err != nil {
		l.log.Warn("gfx9: surface rejected", "err", err)
		return SurfaceInfo{}, err
	}
	if in.SwizzleMode.IsLinear() {
		return l.computeSurfaceInfoLinear(in)
	}
	return l.computeSurfaceInfoTiled(in)
}

func normalizeSurfaceInput(in SurfaceInfoInput) SurfaceInfoInput {
	in.Height = max(in.Height, 1)
	in.NumSlices = max(in.NumSlices, 1)
	in.NumMipLevels = max(in.NumMipLevels, 1)
	in.NumSamples = max(in.NumSamples, 1)
	if in.NumFrags == 0 {
		in.NumFrags = in.NumSamples
	}
	return in
}

// ComputeBlockDimension returns the block footprint in elements of a
// single-sample surface.
func (l *Lib) ComputeBlockDimension(bpp uint32, rt ResourceType, sw SwizzleMode) (Dim3d, error) {
	idx := log2(bpp >> 3)
	if idx >= maxElementBytesLog2 {
		return Dim3d{}, fmt.Errorf("%w: %d bpp", ErrInvalidParams, bpp)
	}
	blk := l.BlockSizeLog2(sw)
	switch {
	case isThin(rt, sw):
		in256 := blk - 8
		widthAmp := in256 / 2
		heightAmp := in256 - widthAmp
		b := block256_2d[idx]
		return Dim3d{W: b.W << widthAmp, H: b.H << heightAmp, D: 1}, nil
	case isThick(rt, sw):
		in1K := blk - 10
		avg, rest := in1K/3, in1K%3
		b := block1K_3d[idx]
		d := b.D << avg
		if rest != 0 {
			d <<= 1
		}
		return Dim3d{W: b.W << avg, H: b.H << (avg + rest/2), D: d}, nil
	}
	return Dim3d{}, fmt.Errorf("%w: no block for %v %v", ErrInvalidParams, rt, sw)
}

// ComputeBlockDimensionForSurf returns the block footprint in pixels,
// shrunk for MSAA thin surfaces whose samples share the block.
func (l *Lib) ComputeBlockDimensionForSurf(bpp, numSamples uint32, rt ResourceType, sw SwizzleMode) (Dim3d, error) {
	d, err := l.ComputeBlockDimension(bpp, rt, sw)
	if err != nil || numSamples <= 1 || !isThin(rt, sw) {
		return d, err
	}
	ls := log2(numSamples)
	q, r := ls>>1, ls&1
	if l.BlockSizeLog2(sw)&1 == 1 {
		d.W >>= q
		d.H >>= q + r
	} else {
		d.W >>= q + r
		d.H >>= q
	}
	return d, nil
}

// MipTailDim returns the largest mip that fits in the mip tail.
func (l *Lib) MipTailDim(rt ResourceType, sw SwizzleMode, blk Dim3d) Dim3d {
	out := blk
	log2blk := l.BlockSizeLog2(sw)
	if isThick(rt, sw) {
		switch log2blk % 3 {
		case 0:
			out.H >>= 1
		case 1:
			out.W >>= 1
		default:
			out.D >>= 1
		}
	} else if log2blk&1 == 1 {
		out.H >>= 1
	} else {
		out.W >>= 1
	}
	return out
}

// isInMipTail reports whether a mip of the given size lives in the tail.
// 256-byte blocks have no mip tail.
func (l *Lib) isInMipTail(rt ResourceType, sw SwizzleMode, tail Dim3d, w, h, d uint32) bool {
	if sw.IsBlock256B() {
		return false
	}
	return w <= tail.W && h <= tail.H && (isThin(rt, sw) || d <= tail.D)
}

// MajorModeOf returns the axis along which mips after mip 1 are placed.
func MajorModeOf(rt ResourceType, sw SwizzleMode, wBlk, hBlk, dBlk uint32) MajorMode {
	yMajor := wBlk < hBlk
	xMajor := !yMajor
	if isThick(rt, sw) {
		yMajor = yMajor && hBlk >= dBlk
		xMajor = xMajor && wBlk >= dBlk
	}
	switch {
	case xMajor:
		return MajorX
	case yMajor:
		return MajorY
	}
	return MajorZ
}

// mipChainInfo pads every mip to the block, packs small mips into the tail
// and returns the first mip in the tail (numMips if none).
func (l *Lib) mipChainInfo(rt ResourceType, sw SwizzleMode, bpp, w, h, d uint32, blk Dim3d, numMips uint32, info []MipInfo) uint32 {
	tail := l.MipTailDim(rt, sw, blk)
	thick := isThick(rt, sw)
	thin3d := rt == ResourceTex3D && !thick
	bytes := bpp >> 3

	mipPitch, mipHeight := w, h
	mipDepth := uint32(1)
	if rt == ResourceTex3D {
		mipDepth = d
	}
	var offset uint64
	firstInTail := numMips
	inTail, finalDim := false, false

	for mip := uint32(0); mip < numMips; mip++ {
		if inTail {
			if !finalDim {
				size := mipPitch * mipHeight * bytes
				if thick {
					size *= mipDepth
				}
				if size <= 256 {
					idx := log2(bytes)
					if thick {
						b := block256_3dZ[idx]
						mipPitch, mipHeight, mipDepth = b.W, b.H, b.D
					} else {
						b := block256_2d[idx]
						mipPitch, mipHeight = b.W, b.H
					}
					finalDim = true
				}
			}
		} else {
			inTail = l.isInMipTail(rt, sw, tail, mipPitch, mipHeight, mipDepth)
			if inTail {
				firstInTail = mip
				mipPitch, mipHeight = tail.W, tail.H
				if thick {
					mipDepth = tail.D
				}
			} else {
				mipPitch = powTwoAlign(mipPitch, blk.W)
				mipHeight = powTwoAlign(mipHeight, blk.H)
				if thick {
					mipDepth = powTwoAlign(mipDepth, blk.D)
				}
			}
		}

		if info != nil {
			info[mip].Pitch = mipPitch
			info[mip].Height = mipHeight
			info[mip].Depth = mipDepth
			info[mip].Offset = offset
		}
		offset += uint64(mipPitch) * uint64(mipHeight) * uint64(mipDepth) * uint64(bytes)

		if finalDim {
			if thin3d {
				mipDepth = max(mipDepth>>1, 1)
			}
		} else {
			mipPitch = max(mipPitch>>1, 1)
			mipHeight = max(mipHeight>>1, 1)
			if rt == ResourceTex3D {
				mipDepth = max(mipDepth>>1, 1)
			}
		}
	}
	return firstInTail
}

// MipStartPos returns the block position of mip inside the mip chain and,
// for mips in the tail, their byte offset inside the tail block.
func (l *Lib) MipStartPos(rt ResourceType, sw SwizzleMode, w, h, d uint32, blk Dim3d, mip uint32) (Dim3d, uint32) {
	var pos Dim3d
	tail := l.MipTailDim(rt, sw, blk)
	log2blk := l.BlockSizeLog2(sw)

	inMipTail := l.isInMipTail(rt, sw, tail, w, h, d)
	indexInTail := mip

	if !inMipTail {
		wb, hb, db := w/blk.W, h/blk.H, d/blk.D
		major := MajorModeOf(rt, sw, wb, hb, db)
		endingMip := mip + 1

		for i := uint32(1); i <= mip; i++ {
			if i == 1 || i == 3 {
				if major == MajorY {
					pos.W += wb
				} else {
					pos.H += hb
				}
			} else {
				switch major {
				case MajorX:
					pos.W += wb
				case MajorY:
					pos.H += hb
				default:
					pos.D += db
				}
			}

			var inTail bool
			switch {
			case sw.IsBlock256B():
			case isThick(rt, sw):
				switch log2blk % 3 {
				case 0:
					inTail = wb <= 2 && hb == 1 && db <= 2
				case 1:
					inTail = wb == 1 && hb <= 2 && db <= 2
				default:
					inTail = wb <= 2 && hb <= 2 && db == 1
				}
			case log2blk&1 == 1:
				inTail = wb <= 2 && hb == 1
			default:
				inTail = wb == 1 && hb <= 2
			}
			if inTail {
				endingMip = i
				break
			}

			wb, hb, db = roundHalf(wb), roundHalf(hb), roundHalf(db)
		}

		if mip >= endingMip {
			inMipTail = true
			indexInTail = mip - endingMip
		}
	}

	if !inMipTail {
		return pos, 0
	}
	idx := int(indexInTail) + maxMacroBits - int(log2blk)
	l.assert(idx >= 0 && idx < len(mipTailOffset256B), "mip tail index out of range", "index", idx)
	idx = min(max(idx, 0), len(mipTailOffset256B)-1)
	return pos, mipTailOffset256B[idx] << 8
}

func (l *Lib) computeSurfaceInfoTiled(in SurfaceInfoInput) (SurfaceInfo, error) {
	blk, err := l.ComputeBlockDimensionForSurf(in.Bpp, in.NumFrags, in.ResourceType, in.SwizzleMode)
	if err != nil {
		return SurfaceInfo{}, err
	}

	out := SurfaceInfo{
		BlockWidth:  blk.W,
		BlockHeight: blk.H,
		BlockSlices: blk.D,
	}

	pitchAlign := blk.W
	if in.ResourceType == ResourceTex2D && (in.Flags.Display || in.Flags.Rotated) &&
		in.NumMipLevels <= 1 && in.NumSamples <= 1 && in.NumFrags <= 1 {
		// The display engine needs a 32-pixel aligned pitch.
		pitchAlign = powTwoAlign(pitchAlign, 32)
	}

	out.Pitch = powTwoAlign(in.Width, pitchAlign)
	if in.NumMipLevels <= 1 && in.PitchInElement > 0 {
		if in.PitchInElement%pitchAlign != 0 || in.PitchInElement < out.Pitch {
			return SurfaceInfo{}, fmt.Errorf("%w: pitch %d, want a multiple of %d >= %d",
				ErrInvalidParams, in.PitchInElement, pitchAlign, out.Pitch)
		}
		out.Pitch = in.PitchInElement
	}

	out.Height = powTwoAlign(in.Height, blk.H)
	out.NumSlices = powTwoAlign(in.NumSlices, blk.D)
	out.FirstMipIdInTail = in.NumMipLevels
	out.MipChainPitch = out.Pitch
	out.MipChainHeight = out.Height
	out.MipChainSlice = out.NumSlices
	out.MipInfo = make([]MipInfo, in.NumMipLevels)

	thick := isThick(in.ResourceType, in.SwizzleMode)
	if in.NumMipLevels > 1 {
		out.FirstMipIdInTail = l.mipChainInfo(in.ResourceType, in.SwizzleMode, in.Bpp,
			in.Width, in.Height, in.NumSlices, blk, in.NumMipLevels, out.MipInfo)

		endingMip := min(out.FirstMipIdInTail, in.NumMipLevels-1)
		if endingMip == 0 {
			tail := l.MipTailDim(in.ResourceType, in.SwizzleMode, blk)
			out.EpitchIsHeight = true
			out.Pitch = tail.W
			out.Height = tail.H
			if thick {
				out.NumSlices = tail.D
			} else {
				out.NumSlices = in.NumSlices
			}
			out.MipChainInTail = true
		} else {
			wb := out.Pitch / blk.W
			hb := out.Height / blk.H
			major := MajorModeOf(in.ResourceType, in.SwizzleMode, wb, hb, out.NumSlices/blk.D)
			if major == MajorY {
				mip1 := roundHalf(wb)
				if mip1 == 1 && endingMip > 2 {
					mip1++
				}
				out.MipChainPitch += mip1 * blk.W
			} else {
				mip1 := roundHalf(hb)
				if mip1 == 1 && endingMip > 2 {
					mip1++
				}
				out.MipChainHeight += mip1 * blk.H
				out.EpitchIsHeight = true
			}
		}

		blkLog2 := l.BlockSizeLog2(in.SwizzleMode)
		pitchInBlk := out.MipChainPitch / blk.W
		sliceInBlk := (out.MipChainHeight / blk.H) * pitchInBlk
		for i := uint32(0); i < in.NumMipLevels; i++ {
			pos, tailOffset := l.MipStartPos(in.ResourceType, in.SwizzleMode,
				out.Pitch, out.Height, out.NumSlices, blk, i)
			blockIndex := uint64(pos.D)*uint64(sliceInBlk) + uint64(pos.H)*uint64(pitchInBlk) + uint64(pos.W)
			out.MipInfo[i].MacroBlockOffset = blockIndex << blkLog2
			out.MipInfo[i].MipTailOffset = tailOffset
		}
	} else {
		out.MipInfo[0].Pitch = out.Pitch
		out.MipInfo[0].Height = out.Height
		out.MipInfo[0].Depth = 1
		if in.ResourceType == ResourceTex3D {
			out.MipInfo[0].Depth = out.NumSlices
		}
	}

	out.SliceSize = uint64(out.MipChainPitch) * uint64(out.MipChainHeight) * uint64(in.Bpp>>3) * uint64(in.NumFrags)
	out.SurfSize = out.SliceSize * uint64(out.MipChainSlice)
	out.BaseAlign = l.surfaceBaseAlignTiled(in.SwizzleMode)
	if in.Flags.Prt {
		out.BaseAlign = max(out.BaseAlign, prtAlignment)
	}
	return out, nil
}

// surfaceBaseAlignTiled is the block size for XOR modes, capped at the bits
// the pipe-bank XOR reaches, and 256 bytes otherwise.
func (l *Lib) surfaceBaseAlignTiled(sw SwizzleMode) uint32 {
	if !sw.IsXor() {
		return 256
	}
	blk := l.BlockSizeLog2(sw)
	return 1 << min(blk, l.pipeInterleaveLog2+l.pipeXorBits(blk)+l.bankXorBits(blk))
}

func (l *Lib) computeSurfaceInfoLinear(in SurfaceInfoInput) (SurfaceInfo, error) {
	bytes := in.Bpp >> 3
	alignment := uint32(256)
	if in.Flags.Prt {
		alignment = prtAlignment
	}

	var (
		pitch, height uint32
		mipInfo       = make([]MipInfo, in.NumMipLevels)
		err           error
	)
	if in.ResourceType == ResourceTex1D {
		if in.Height > 1 {
			return SurfaceInfo{}, fmt.Errorf("%w: 1D surface with height %d", ErrInvalidParams, in.Height)
		}
		pitchAlign := alignment / bytes
		pitch = powTwoAlign(in.Width, pitchAlign)
		height = in.NumMipLevels
		if !in.Flags.Prt {
			if pitch, height, err = applyCustomizedPitchHeight(in, bytes, pitchAlign, pitch, height); err != nil {
				return SurfaceInfo{}, err
			}
		}
		for i := range mipInfo {
			mipInfo[i] = MipInfo{
				Offset: uint64(pitch) * uint64(bytes) * uint64(i),
				Pitch:  pitch,
				Height: 1,
				Depth:  1,
			}
		}
	} else {
		if pitch, height, err = linearPadding(in, mipInfo); err != nil {
			return SurfaceInfo{}, err
		}
	}
	if pitch == 0 || height == 0 {
		return SurfaceInfo{}, fmt.Errorf("%w: empty linear surface", ErrInvalidParams)
	}

	out := SurfaceInfo{
		Pitch:          pitch,
		Height:         in.Height,
		NumSlices:      in.NumSlices,
		MipChainPitch:  pitch,
		MipChainHeight: height,
		MipChainSlice:  in.NumSlices,
		EpitchIsHeight: in.NumMipLevels > 1,
		SliceSize:      uint64(pitch) * uint64(height) * uint64(bytes),
		BaseAlign:      alignment,
		BlockWidth:     256 / bytes,
		BlockHeight:    1,
		BlockSlices:    1,
		MipInfo:        mipInfo,
	}
	out.FirstMipIdInTail = in.NumMipLevels
	out.SurfSize = out.SliceSize * uint64(out.NumSlices)
	if in.SwizzleMode == SwLinearGeneral {
		out.BaseAlign = in.Bpp / 8
		out.BlockWidth = 1
	}
	return out, nil
}

// linearPadding pads the pitch of a 2D/3D linear surface and stacks its
// mips vertically.
func linearPadding(in SurfaceInfoInput, mipInfo []MipInfo) (pitch, height uint32, err error) {
	bytes := in.Bpp >> 3
	pitchAlign := 256 / bytes
	if in.SwizzleMode == SwLinearGeneral {
		pitchAlign = 1
	}

	pitch = powTwoAlign(in.Width, pitchAlign)
	height = in.Height
	if pitch, height, err = applyCustomizedPitchHeight(in, bytes, pitchAlign, pitch, height); err != nil {
		return 0, 0, err
	}

	var chainHeight uint32
	mipHeight := in.Height
	mipDepth := uint32(1)
	if in.ResourceType == ResourceTex3D {
		mipDepth = in.NumSlices
	}
	for i := range mipInfo {
		mipInfo[i] = MipInfo{
			Offset: uint64(pitch) * uint64(chainHeight) * uint64(bytes),
			Pitch:  pitch,
			Height: mipHeight,
			Depth:  mipDepth,
		}
		chainHeight += mipHeight
		mipHeight = max(roundHalf(mipHeight), 1)
	}
	if in.NumMipLevels > 1 {
		height = chainHeight
	}
	return pitch, height, nil
}

// applyCustomizedPitchHeight honours caller-supplied pitch and slice
// alignment for single-mip surfaces.
func applyCustomizedPitchHeight(in SurfaceInfoInput, bytes, pitchAlign, pitch, height uint32) (uint32, uint32, error) {
	if in.NumMipLevels > 1 {
		return pitch, height, nil
	}
	if in.PitchInElement > 0 {
		if in.PitchInElement%pitchAlign != 0 || in.PitchInElement < pitch {
			return 0, 0, fmt.Errorf("%w: pitch %d, want a multiple of %d >= %d",
				ErrInvalidParams, in.PitchInElement, pitchAlign, pitch)
		}
		pitch = in.PitchInElement
	}
	if in.SliceAlign > 0 {
		custom := in.SliceAlign / bytes / pitch
		switch {
		case custom*bytes*pitch != in.SliceAlign:
			return 0, 0, fmt.Errorf("%w: slice align %d is not a whole number of rows", ErrInvalidParams, in.SliceAlign)
		case in.NumSlices > 1 && height != custom:
			return 0, 0, fmt.Errorf("%w: slice align %d does not match height %d", ErrInvalidParams, in.SliceAlign, height)
		}
		height = custom
	}
	return pitch, height, nil
}
