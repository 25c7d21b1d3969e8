package gfx9

import "fmt"

// Dim3d is a width/height/depth triple in elements (or pixels).
type Dim3d struct {
	W, H, D uint32
}

// Micro-tile footprints of a 256-byte block and of a 1KB thick block,
// indexed by log2 of the element size in bytes.
var (
	block256_2d  = [maxElementBytesLog2]Dim3d{{16, 16, 1}, {16, 8, 1}, {8, 8, 1}, {8, 4, 1}, {4, 4, 1}}
	block256_3dS = [maxElementBytesLog2]Dim3d{{16, 4, 4}, {8, 4, 4}, {4, 4, 4}, {2, 4, 4}, {1, 4, 4}}
	block256_3dZ = [maxElementBytesLog2]Dim3d{{8, 4, 8}, {4, 4, 8}, {4, 4, 4}, {4, 2, 4}, {2, 2, 4}}
	block1K_3d   = [maxElementBytesLog2]Dim3d{{16, 8, 8}, {8, 8, 8}, {8, 8, 4}, {8, 4, 4}, {4, 4, 4}}
)

// MetaMipInfo locates one mip level inside a metadata surface.
type MetaMipInfo struct {
	InMiptail bool
	StartX    uint32
	StartY    uint32
	StartZ    uint32
	Width     uint32
	Height    uint32
	Depth     uint32
}

// HtileInfoInput describes a depth surface whose HTile is requested.
type HtileInfoInput struct {
	Flags           MetaFlags
	SwizzleMode     SwizzleMode
	UnalignedWidth  uint32
	UnalignedHeight uint32
	NumSlices       uint32
	NumMipLevels    uint32
	// NumSamples is the sample count of the depth surface. Zero means one.
	NumSamples      uint32
}

// HtileInfo is the layout of an HTile surface.
type HtileInfo struct {
	Pitch              uint32
	Height             uint32
	BaseAlign          uint32
	SliceSize          uint32
	HtileBytes         uint32
	MetaBlkWidth       uint32
	MetaBlkHeight      uint32
	MetaBlkNumPerSlice uint32
	MipInfo            []MetaMipInfo
}

// compressBlkPerMetaBlkLog2 returns log2 of the compression blocks held by
// one metadata block when the metadata is striped across pipes or RBs.
func (l *Lib) compressBlkPerMetaBlkLog2() uint32 {
	thin := uint32(10)
	if l.cfg.Chip.ApplyAliasFix {
		thin = max(thin, l.pipeInterleaveLog2)
	}
	return l.seLog2 + l.rbPerSeLog2 + thin
}

// ComputeHtileInfo computes the HTile layout for a depth surface. Each
// 8x8 pixel tile takes 4 bytes.
func (l *Lib) ComputeHtileInfo(in HtileInfoInput) (HtileInfo, error) {
	if !in.SwizzleMode.IsZOrder() || !l.IsValidSwizzleMode(in.SwizzleMode) {
		l.log.Warn("gfx9: htile needs a Z swizzle", "swizzle", in.SwizzleMode)
		return HtileInfo{}, fmt.Errorf("%w: htile on %v", ErrInvalidParams, in.SwizzleMode)
	}
	if s := max(in.NumSamples, 1); s > 16 || !isPow2(s) {
		return HtileInfo{}, fmt.Errorf("%w: htile with %d samples", ErrInvalidParams, in.NumSamples)
	}
	if in.Flags.Linear {
		return HtileInfo{}, fmt.Errorf("%w: linear htile", ErrNotImplemented)
	}
	w := max(in.UnalignedWidth, 1)
	h := max(in.UnalignedHeight, 1)
	slices := max(in.NumSlices, 1)
	mips := max(in.NumMipLevels, 1)

	numPipeTotal := l.pipeNumForMetaAddressing(in.Flags.PipeAligned, in.SwizzleMode)
	numRbTotal := uint32(1)
	if in.Flags.RbAligned {
		numRbTotal = l.numRbTotal()
	}

	var n uint32
	if numPipeTotal == 1 && numRbTotal == 1 {
		n = 10
	} else {
		n = l.compressBlkPerMetaBlkLog2()
	}

	widthAmp := roundHalf(n)
	if mips > 1 {
		widthAmp = n >> 1
	}
	heightAmp := n - widthAmp
	blk := Dim3d{W: 8 << widthAmp, H: 8 << heightAmp, D: 1}

	nx, ny, nz, mipInfo := l.metaMipInfo(mips, blk, false, w, h, slices)

	metaBlkSize := uint32(1) << (n + 2)
	align := numPipeTotal * numRbTotal * l.cfg.PipeInterleaveBytes
	if !in.SwizzleMode.IsXor() && numPipeTotal > 2 {
		align *= numPipeTotal >> 1
	}
	align = max(align, metaBlkSize)
	if l.cfg.Chip.MetaBaseAlignFix {
		align = max(align, l.BlockSize(in.SwizzleMode))
	}
	if l.cfg.Chip.HtileAlignFix {
		const htileCachelineSizeLog2 = 11
		metaBlkSizeLog2 := int(n) + 2
		maxRbMaskBits := 1 + int(log2(numPipeTotal)) + int(log2(numRbTotal))
		if pad := htileCachelineSizeLog2 - (metaBlkSizeLog2 - maxRbMaskBits); pad > 0 {
			align <<= uint(pad)
		}
	}

	out := HtileInfo{
		Pitch:              nx * blk.W,
		Height:             ny * blk.H,
		SliceSize:          nx * ny * metaBlkSize,
		MetaBlkWidth:       blk.W,
		MetaBlkHeight:      blk.H,
		MetaBlkNumPerSlice: nx * ny,
		BaseAlign:          align,
		MipInfo:            mipInfo,
	}
	out.HtileBytes = powTwoAlign(out.SliceSize*nz, align)
	return out, nil
}

// CmaskInfoInput describes a color surface whose CMask is requested.
type CmaskInfoInput struct {
	Flags           MetaFlags
	ResourceType    ResourceType
	SwizzleMode     SwizzleMode
	UnalignedWidth  uint32
	UnalignedHeight uint32
	NumSlices       uint32
}

// CmaskInfo is the layout of a CMask surface.
type CmaskInfo struct {
	Pitch              uint32
	Height             uint32
	BaseAlign          uint32
	SliceSize          uint32
	CmaskBytes         uint32
	MetaBlkWidth       uint32
	MetaBlkHeight      uint32
	MetaBlkNumPerSlice uint32
}

// ComputeCmaskInfo computes the CMask layout for a 2D color surface. Each
// 8x8 pixel tile takes one nibble.
func (l *Lib) ComputeCmaskInfo(in CmaskInfoInput) (CmaskInfo, error) {
	if in.ResourceType != ResourceTex2D || !in.Flags.PipeAligned ||
		in.SwizzleMode.IsLinear() || !l.IsValidSwizzleMode(in.SwizzleMode) {
		l.log.Warn("gfx9: cmask rejected", "resource", in.ResourceType, "swizzle", in.SwizzleMode,
			"pipeAligned", in.Flags.PipeAligned)
		return CmaskInfo{}, fmt.Errorf("%w: cmask needs a pipe-aligned tiled 2D surface", ErrInvalidParams)
	}
	if in.Flags.Linear {
		return CmaskInfo{}, fmt.Errorf("%w: linear cmask", ErrNotImplemented)
	}
	w := max(in.UnalignedWidth, 1)
	h := max(in.UnalignedHeight, 1)
	slices := max(in.NumSlices, 1)

	numPipeTotal := l.pipeNumForMetaAddressing(in.Flags.PipeAligned, in.SwizzleMode)
	numRbTotal := uint32(1)
	if in.Flags.RbAligned {
		numRbTotal = l.numRbTotal()
	}

	n := uint32(13)
	if numPipeTotal > 1 || numRbTotal > 1 {
		n = max(l.compressBlkPerMetaBlkLog2(), 13)
	}
	numCompressBlk := uint32(1) << n

	heightAmp := n >> 1
	widthAmp := n - heightAmp
	bw, bh := uint32(8)<<widthAmp, uint32(8)<<heightAmp

	nx := (w + bw - 1) / bw
	ny := (h + bh - 1) / bh

	sizeAlign := numPipeTotal * numRbTotal * l.cfg.PipeInterleaveBytes
	if l.cfg.Chip.MetaBaseAlignFix {
		sizeAlign = max(sizeAlign, l.BlockSize(in.SwizzleMode))
	}

	out := CmaskInfo{
		Pitch:              nx * bw,
		Height:             ny * bh,
		SliceSize:          (nx * ny * numCompressBlk) >> 1,
		MetaBlkWidth:       bw,
		MetaBlkHeight:      bh,
		MetaBlkNumPerSlice: nx * ny,
		BaseAlign:          max(numCompressBlk>>1, sizeAlign),
	}
	out.CmaskBytes = powTwoAlign(out.SliceSize*slices, sizeAlign)
	if l.cfg.Chip.MetaBaseAlignFix {
		out.BaseAlign = max(out.BaseAlign, l.BlockSize(in.SwizzleMode))
	}
	return out, nil
}

// DccInfoInput describes a color surface whose DCC key is requested.
type DccInfoInput struct {
	Flags           MetaFlags
	ResourceType    ResourceType
	SwizzleMode     SwizzleMode
	Bpp             uint32
	UnalignedWidth  uint32
	UnalignedHeight uint32
	NumSlices       uint32
	NumFrags        uint32
	NumMipLevels    uint32
}

// DccInfo is the layout of a DCC key surface.
type DccInfo struct {
	Pitch                 uint32
	Height                uint32
	Depth                 uint32
	CompressBlkWidth      uint32
	CompressBlkHeight     uint32
	CompressBlkDepth      uint32
	MetaBlkWidth          uint32
	MetaBlkHeight         uint32
	MetaBlkDepth          uint32
	DccRamSize            uint32
	DccRamBaseAlign       uint32
	MetaBlkNumPerSlice    uint32
	FastClearSizePerSlice uint32
	MipInfo               []MetaMipInfo
}

// ComputeDccInfo computes the DCC key layout. One key byte covers one
// 256-byte compression block.
func (l *Lib) ComputeDccInfo(in DccInfoInput) (DccInfo, error) {
	if !validBpp(in.Bpp) || in.ResourceType == ResourceTex1D || in.ResourceType >= numResourceTypes ||
		!l.IsValidSwizzleMode(in.SwizzleMode) {
		l.log.Warn("gfx9: dcc rejected", "bpp", in.Bpp, "resource", in.ResourceType, "swizzle", in.SwizzleMode)
		return DccInfo{}, fmt.Errorf("%w: dcc on %v %v %d bpp", ErrInvalidParams, in.ResourceType, in.SwizzleMode, in.Bpp)
	}
	if in.Flags.Linear || in.SwizzleMode.IsLinear() {
		// Linear metadata was removed on this generation.
		return DccInfo{}, fmt.Errorf("%w: linear dcc", ErrNotImplemented)
	}

	dataThick := isThick(in.ResourceType, in.SwizzleMode)
	numFrags := max(in.NumFrags, 1)
	slices := max(in.NumSlices, 1)
	mips := max(in.NumMipLevels, 1)

	numPipeTotal := l.pipeNumForMetaAddressing(in.Flags.PipeAligned, in.SwizzleMode)
	numRbTotal := uint32(1)
	if in.Flags.RbAligned {
		numRbTotal = l.numRbTotal()
	}

	minMetaBlkSize := uint32(4096)
	if dataThick {
		minMetaBlkSize = 65536
	}
	numCompressBlk := minMetaBlkSize / numFrags

	if numPipeTotal > 1 || numRbTotal > 1 {
		thinBlkSize := uint32(1) << 10
		if l.cfg.Chip.ApplyAliasFix {
			thinBlkSize = 1 << max(10, l.pipeInterleaveLog2)
		}
		perRb := thinBlkSize
		if dataThick {
			perRb = 262144
		}
		numCompressBlk = max(numCompressBlk, l.numRbTotal()*perRb)
		numCompressBlk = min(numCompressBlk, 65536*in.Bpp)
	}

	compBlk := l.DccCompressBlk(in.ResourceType, in.SwizzleMode, in.Bpp)
	metaBlk := compBlk
	for i := uint32(1); i < numCompressBlk; i <<= 1 {
		if metaBlk.H < metaBlk.W || (mips > 1 && metaBlk.H == metaBlk.W) {
			if !dataThick || metaBlk.H <= metaBlk.D {
				metaBlk.H <<= 1
			} else {
				metaBlk.D <<= 1
			}
		} else {
			if !dataThick || metaBlk.W <= metaBlk.D {
				metaBlk.W <<= 1
			} else {
				metaBlk.D <<= 1
			}
		}
	}

	w := max(in.UnalignedWidth, 1)
	h := max(in.UnalignedHeight, 1)
	nx, ny, nz, mipInfo := l.metaMipInfo(mips, metaBlk, dataThick, w, h, slices)

	sizeAlign := numPipeTotal * numRbTotal * l.cfg.PipeInterleaveBytes
	if numFrags > l.cfg.MaxCompFrags {
		sizeAlign *= numFrags / l.cfg.MaxCompFrags
	}
	if l.cfg.Chip.MetaBaseAlignFix {
		sizeAlign = max(sizeAlign, l.BlockSize(in.SwizzleMode))
	}

	out := DccInfo{
		Pitch:              nx * metaBlk.W,
		Height:             ny * metaBlk.H,
		Depth:              nz * metaBlk.D,
		CompressBlkWidth:   compBlk.W,
		CompressBlkHeight:  compBlk.H,
		CompressBlkDepth:   compBlk.D,
		MetaBlkWidth:       metaBlk.W,
		MetaBlkHeight:      metaBlk.H,
		MetaBlkDepth:       metaBlk.D,
		MetaBlkNumPerSlice: nx * ny,
		DccRamBaseAlign:    max(numCompressBlk, sizeAlign),
		MipInfo:            mipInfo,
	}
	out.DccRamSize = powTwoAlign(nx*ny*nz*numCompressBlk*numFrags, sizeAlign)
	if l.cfg.Chip.MetaBaseAlignFix {
		out.DccRamBaseAlign = max(out.DccRamBaseAlign, l.BlockSize(in.SwizzleMode))
	}
	out.FastClearSizePerSlice = out.MetaBlkNumPerSlice * numCompressBlk * min(numFrags, l.cfg.MaxCompFrags)
	return out, nil
}

// DccCompressBlk returns the pixel footprint of one 256-byte DCC
// compression block.
func (l *Lib) DccCompressBlk(rt ResourceType, sw SwizzleMode, bpp uint32) Dim3d {
	idx := min(log2(bpp>>3), maxElementBytesLog2-1)
	switch {
	case isThin(rt, sw):
		return block256_2d[idx]
	case isStandardSwizzle(rt, sw):
		return block256_3dS[idx]
	default:
		return block256_3dZ[idx]
	}
}

// metaMipInfo counts the metadata blocks covering the mip chain and places
// every mip inside them.
func (l *Lib) metaMipInfo(numMips uint32, blk Dim3d, thick bool, w, h, d uint32) (nx, ny, nz uint32, info []MetaMipInfo) {
	nx = (w + blk.W - 1) / blk.W
	ny = (h + blk.H - 1) / blk.H
	nz = (d + blk.D - 1) / blk.D

	tailW, tailH, tailD := blk.W, blk.H>>1, blk.D
	inTail := false
	major := MajorX

	fits := func(w, h, d uint32) bool {
		return w <= tailW && h <= tailH && (!thick || d <= tailD)
	}

	if numMips > 1 {
		switch {
		case thick && nz > nx && nz > ny:
			major = MajorZ
		case nx >= ny:
			major = MajorX
		default:
			major = MajorY
		}

		inTail = fits(w, h, d)
		if !inTail {
			var mipDim, orderDim *uint32
			orderLimit := uint32(4)
			switch major {
			case MajorZ:
				mipDim, orderDim = &ny, &nz
			case MajorX:
				mipDim, orderDim = &ny, &nx
			default:
				mipDim, orderDim = &nx, &ny
				orderLimit = 2
			}
			if *mipDim < 3 && *orderDim > orderLimit && numMips > 3 {
				*mipDim += 2
			} else {
				*mipDim += *mipDim/2 + *mipDim&1
			}
		}
	}

	info = make([]MetaMipInfo, numMips)
	mipW, mipH, mipD := w, h, d
	var pos Dim3d
	for mip := uint32(0); mip < numMips; mip++ {
		if inTail {
			metaMiptailInfo(info[mip:], pos, blk)
			break
		}
		mipW = powTwoAlign(mipW, blk.W)
		mipH = powTwoAlign(mipH, blk.H)
		mipD = powTwoAlign(mipD, blk.D)

		info[mip] = MetaMipInfo{
			StartX: pos.W,
			StartY: pos.H,
			StartZ: pos.D,
			Width:  mipW,
			Height: mipH,
			Depth:  1,
		}
		if thick {
			info[mip].Depth = mipD
		}

		// Mips 1 and 2 grow across the minor axis, the rest along the major.
		if mip >= 3 || mip&1 == 1 {
			switch major {
			case MajorX:
				pos.W += mipW
			case MajorY:
				pos.H += mipH
			case MajorZ:
				pos.D += mipD
			}
		} else {
			switch major {
			case MajorX, MajorZ:
				pos.H += mipH
			case MajorY:
				pos.W += mipW
			}
		}

		mipW = max(mipW>>1, 1)
		mipH = max(mipH>>1, 1)
		mipD = max(mipD>>1, 1)
		inTail = fits(mipW, mipH, mipD)
	}
	return nx, ny, nz, info
}

// metaMiptailInfo packs the remaining mips into the metadata mip tail,
// filling one entry per element of info.
func metaMiptailInfo(info []MetaMipInfo, pos Dim3d, blk Dim3d) {
	thick := blk.D > 1
	mipW, mipH, mipD := blk.W, blk.H>>1, blk.D

	var minInc uint32
	switch {
	case thick && blk.H >= 512:
		minInc = 128
	case thick && blk.H == 256:
		minInc = 64
	case thick:
		minInc = 32
	case blk.H >= 1024:
		minInc = 256
	case blk.H == 512:
		minInc = 128
	default:
		minInc = 64
	}

	blk32 := -1
	for mip := range info {
		info[mip] = MetaMipInfo{
			InMiptail: true,
			StartX:    pos.W,
			StartY:    pos.H,
			StartZ:    pos.D,
			Width:     mipW,
			Height:    mipH,
			Depth:     mipD,
		}

		if mipW <= 32 {
			if blk32 < 0 {
				blk32 = mip
			}
			pos = Dim3d{info[blk32].StartX, info[blk32].StartY, info[blk32].StartZ}
			// 16x16 down to 1x1, then the sub-pixel block-compressed mips.
			switch mip - blk32 {
			case 0:
				pos.W += 32
			case 1:
				pos.H += 32
			case 2:
				pos.H += 32
				pos.W += 16
			case 3:
				pos.H += 32
				pos.W += 32
			case 4:
				pos.H += 32
				pos.W += 48
			case 5:
				pos.H += 48
			case 6:
				pos.H += 48
				pos.W += 16
			case 7:
				pos.H += 48
				pos.W += 32
			case 8:
				pos.H += 48
				pos.W += 48
			}

			mipW = 8
			if mip == blk32 {
				mipW = 16
			}
			mipH = mipW
			if thick {
				mipD = mipW
			}
			continue
		}

		if mipW <= minInc {
			if thick {
				pos.D += mipD
			} else if mipW*2 == minInc {
				// Two mips below the increment: back in x, down in y.
				pos.W -= minInc
				pos.H += minInc
			} else {
				pos.W += minInc
			}
		} else if mip&1 == 1 {
			pos.W += mipW
		} else {
			pos.H += mipH
		}

		mipW >>= 1
		mipH = mipW
		if thick {
			mipD = mipW
		}
	}
}
