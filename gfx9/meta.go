package gfx9

import "github.com/gogpu/addrlib/coord"

// metaEqBits is the width of a metadata nibble address.
const metaEqBits = 49

// MetaFlags describe how a metadata surface is distributed.
type MetaFlags struct {
	// PipeAligned stripes the metadata across pipes like its data surface.
	PipeAligned bool
	// RbAligned stripes the metadata across render backends.
	RbAligned bool
	// Linear requests linear metadata, which GFX9 does not support.
	Linear bool
}

// MetaEqParams identifies one metadata equation. Equal params always
// produce the same equation.
type MetaEqParams struct {
	MaxMip           uint32
	ElementBytesLog2 uint32
	NumSamplesLog2   uint32
	Flags            MetaFlags
	DataType         DataType
	SwizzleMode      SwizzleMode
	ResourceType     ResourceType

	MetaBlkWidthLog2  uint32
	MetaBlkHeightLog2 uint32
	MetaBlkDepthLog2  uint32
	CompBlkWidthLog2  uint32
	CompBlkHeightLog2 uint32
	CompBlkDepthLog2  uint32
}

// MetaEquation returns the metadata equation for p, from the cache when a
// previous call used equal params. The equation is returned by value.
func (l *Lib) MetaEquation(p MetaEqParams) coord.Eq {
	eq, hit := l.metaEq.GetOrCreate(p, func() coord.Eq {
		return l.GenMetaEquation(p)
	})
	if !hit {
		st := l.metaEq.Stats()
		l.log.Debug("gfx9: meta equation generated",
			"swizzle", p.SwizzleMode, "dataType", p.DataType, "bits", eq.Size(),
			"cacheHits", st.Hits, "cacheMisses", st.Misses)
	}
	return eq
}

// GenMetaEquation derives the equation mapping (x, y, z, sample, macro
// block index) to a metadata nibble address. It never consults the cache.
func (l *Lib) GenMetaEquation(p MetaEqParams) coord.Eq {
	sw, rt, dt := p.SwizzleMode, p.ResourceType, p.DataType
	blk := l.BlockSizeLog2(sw)
	pil := int(l.pipeInterleaveLog2)

	dataEq := l.DataEquation(dt, sw, rt, p.ElementBytesLog2, p.NumSamplesLog2)
	pipeEq := PipeEquation(&dataEq, l.pipeInterleaveLog2,
		l.pipeLog2ForMetaAddressing(p.Flags.PipeAligned, sw),
		p.NumSamplesLog2, dt, sw, rt, blk)
	numPipeLog2 := pipeEq.Size()

	var meta coord.Eq
	if p.Flags.Linear {
		l.assert(false, "linear metadata requested")
		l.assert(dt == DataColor, "linear metadata on non-color surface")
		dataEq.Copy(&meta, 0, coord.All)
		if sw.IsLinear() {
			if p.Flags.PipeAligned {
				meta.Shift(-numPipeLog2, pil)
			}
			// Divide by the 256-byte compression block.
			meta.Shift(-8, 0)
			if p.Flags.PipeAligned {
				meta.Shift(numPipeLog2, pil)
				for i := 0; i < numPipeLog2; i++ {
					pipeEq.Bit(i).CopyTo(meta.Bit(pil + i))
				}
			}
		}
		meta.Shift(1, 0)
		return meta
	}

	compFragLog2 := p.NumSamplesLog2
	if dt == DataColor && p.NumSamplesLog2 > l.maxCompFragLog2 {
		compFragLog2 = l.maxCompFragLog2
	}
	uncompFragLog2 := int(p.NumSamplesLog2 - compFragLog2)

	meta.Resize(27)
	cx := coord.C(coord.AxisX, 0)
	cy := coord.C(coord.AxisY, 0)
	if isThick(rt, sw) {
		cz := coord.C(coord.AxisZ, 0)
		if p.MaxMip > 0 {
			meta.Mort3d(&cy, &cx, &cz, 0, 0)
		} else {
			meta.Mort3d(&cx, &cy, &cz, 0, 0)
		}
	} else {
		if p.MaxMip > 0 {
			meta.Mort2d(&cy, &cx, int(compFragLog2), 0)
		} else {
			meta.Mort2d(&cx, &cy, int(compFragLog2), 0)
		}
		// Compressed fragments sit at the LSBs; uncompressed ones go above
		// the pipe and RB bits.
		for s := 0; s < int(compFragLog2); s++ {
			meta.Bit(s).Add(coord.C(coord.AxisS, s))
		}
	}

	origPipeEq := pipeEq.Clone()

	// Drop everything inside one compression block.
	meta.Filter('<', coord.C(coord.AxisX, int(p.CompBlkWidthLog2)), 0, coord.AxisX)
	meta.Filter('<', coord.C(coord.AxisY, int(p.CompBlkHeightLog2)), 0, coord.AxisY)
	meta.Filter('<', coord.C(coord.AxisZ, int(p.CompBlkDepthLog2)), 0, coord.AxisZ)

	if dt != DataColor {
		meta.Filter('<', coord.C(coord.AxisX, 0), 0, coord.AxisS)
	}

	// Drop everything beyond one metadata block, in the pipe bits too.
	for _, f := range []struct {
		axis byte
		log2 uint32
	}{
		{coord.AxisX, p.MetaBlkWidthLog2},
		{coord.AxisY, p.MetaBlkHeightLog2},
		{coord.AxisZ, p.MetaBlkDepthLog2},
	} {
		ref := coord.C(f.axis, int(f.log2)-1)
		meta.Filter('>', ref, 0, f.axis)
		pipeEq.Filter('>', ref, 0, f.axis)
	}

	l.assert(pipeEq.Size() == numPipeLog2, "pipe bits lost to metadata block filter",
		"want", numPipeLog2, "got", pipeEq.Size())
	for i := 0; i < numPipeLog2; i++ {
		t := pipeEq.Bit(i)
		for j := 0; j < t.Size(); j++ {
			l.assert(meta.Exists(t.At(j)), "pipe coordinate missing from metadata", "coord", t.At(j))
		}
	}

	var seLog2, rbPerSeLog2 uint32
	if p.Flags.RbAligned {
		seLog2, rbPerSeLog2 = l.seLog2, l.rbPerSeLog2
	}
	numRbLog2 := int(seLog2 + rbPerSeLog2)
	aliasFix := l.cfg.Chip.ApplyAliasFix
	origRbEq := RbEquation(rbPerSeLog2, seLog2, aliasFix)
	rbEq := origRbEq.Clone()

	for i := 0; i < numRbLog2; i++ {
		t := rbEq.Bit(i)
		for j := 0; j < t.Size(); j++ {
			l.assert(meta.Exists(t.At(j)), "rb coordinate missing from metadata", "coord", t.At(j))
		}
	}

	noZ := coord.C(coord.AxisZ, -1)

	// RB bits already selected by a pipe bit need no separate encoding.
	for i := 0; i < numRbLog2; i++ {
		for j := 0; j < numPipeLog2; j++ {
			pipeTerm := *pipeEq.Bit(j)
			if aliasFix {
				pipeTerm.Filter('>', noZ, 0, coord.AxisZ)
			}
			if rbEq.Bit(i).Equal(&pipeTerm) {
				rbEq.Bit(i).Clear()
			}
		}
	}

	var rbAppended [8]bool

	// Consume the smallest coordinate of every pipe bit.
	for i := 0; i < numPipeLog2; i++ {
		co := pipeEq.Bit(i).Smallest()
		before := meta.Size()
		after := meta.Filter('=', co, 0, coord.AxisAny)
		l.assert(after == before-1, "pipe bit did not consume one metadata bit", "coord", co)

		pipeEq.Remove(co)
		for j := 0; j < numRbLog2; j++ {
			if rbEq.Bit(j).Remove(co) {
				rbEq.Bit(j).AddTerm(pipeEq.Bit(i))
				if pipeEq.Bit(i).Size() > 0 {
					rbAppended[j] = true
				}
			}
		}
	}

	rbLeft := func(i int) bool {
		if aliasFix && rbAppended[i] {
			return rbEq.Bit(i).Size() > 1
		}
		return rbEq.Bit(i).Size() > 0
	}

	// Consume the smallest coordinate of every remaining RB bit.
	rbBitsLeft := 0
	for i := 0; i < numRbLog2; i++ {
		if !rbLeft(i) {
			continue
		}
		rbBitsLeft++
		co := rbEq.Bit(i).Smallest()
		before := meta.Size()
		after := meta.Filter('=', co, 0, coord.AxisAny)
		l.assert(after == before-1, "rb bit did not consume one metadata bit", "coord", co)

		for j := i + 1; j < numRbLog2; j++ {
			if rbEq.Bit(j).Remove(co) {
				rest := *rbEq.Bit(i)
				rest.Remove(co)
				rbEq.Bit(j).AddTerm(&rest)
				if rest.Size() > 0 {
					rbAppended[j] = rbAppended[j] || rbAppended[i]
				}
			}
		}
	}

	// Macro block index above the in-block bits, as a nibble address.
	metaSize := meta.Size()
	meta.Resize(metaEqBits)
	cm := coord.C(coord.AxisM, 0)
	for i := metaSize; i < metaEqBits; i++ {
		meta.Bit(i).Add(cm)
		cm.Inc()
	}

	switch dt {
	case DataColor:
		meta.Shift(1, 0)
	case DataDepthStencil:
		meta.Shift(3, 0)
	}

	// Open room above the pipe interleave (plus one: nibble address) for the
	// pipe bits, the remaining RB bits and the uncompressed fragments.
	base := pil + 1
	meta.Shift(numPipeLog2+rbBitsLeft+uncompFragLog2, base)

	for i := 0; i < numPipeLog2; i++ {
		origPipeEq.Bit(i).CopyTo(meta.Bit(base + i))
	}
	j := 0
	for i := 0; i < numRbLog2 && j < rbBitsLeft; i++ {
		if rbLeft(i) {
			origRbEq.Bit(i).CopyTo(meta.Bit(base + numPipeLog2 + j))
			j++
		}
	}
	for i := 0; i < uncompFragLog2; i++ {
		meta.Bit(base + numPipeLog2 + rbBitsLeft + i).Add(coord.C(coord.AxisS, int(compFragLog2)+i))
	}
	return meta
}
