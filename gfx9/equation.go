package gfx9

import "github.com/gogpu/addrlib/coord"

// dataEqBits is the working width of data equations: enough for a 64KB
// block plus eleven bits of macro address.
const dataEqBits = 27

// DataEquation returns the equation mapping (x, y, z, sample) to the byte
// address of an element inside the data surface.
//
// Linear modes map the macro index straight through. Thick 3D modes use the
// per-element-size S and Z micro tables, thin modes fill a 256-byte micro
// tile and then Morton-interleave y/x with the sample bits inserted at the
// tile split. Depth, stencil and fmask place samples at the bottom.
func (l *Lib) DataEquation(dt DataType, sw SwizzleMode, rt ResourceType, elemLog2, samplesLog2 uint32) coord.Eq {
	var eq coord.Eq
	eq.Resize(dataEqBits)

	cx := coord.C(coord.AxisX, 0)
	cy := coord.C(coord.AxisY, 0)
	cz := coord.C(coord.AxisZ, 0)
	e := int(elemLog2)
	ns := int(samplesLog2)

	if dt != DataColor {
		ymajStart := 6 + ns
		for s := 0; s < ns; s++ {
			eq.Bit(e + s).Add(coord.C(coord.AxisS, s))
		}
		// x-major below the split, y-major above it.
		eq.Mort2d(&cx, &cy, e+ns, ymajStart)
		eq.Mort2d(&cy, &cx, ymajStart, 0)
		return eq
	}

	switch {
	case sw.IsLinear():
		eq.Resize(49)
		cm := coord.C(coord.AxisM, 0)
		for i := 0; i < 49; i++ {
			eq.Bit(i).Add(cm)
			cm.Inc()
		}

	case isThick(rt, sw):
		if isStandardSwizzle(rt, sw) {
			thickStandardMicro(&eq, e, &cx, &cy, &cz)
		} else {
			thickZMicro(&eq, e, &cx, &cy, &cz)
		}
		eq.Mort3d(&cz, &cy, &cx, 10, 0)

	case isThin(rt, sw):
		blk := int(l.BlockSizeLog2(sw))
		tileSplitStart := blk - ns

		if sw.IsZOrder() {
			eq.Mort2d(&cx, &cy, e, 8)
		} else {
			microYBits := (8 - e) / 2
			for i := e; i < 4; i++ {
				eq.Bit(i).Add(cx)
				cx.Inc()
			}
			for i := 4; i < 4+microYBits; i++ {
				eq.Bit(i).Add(cy)
				cy.Inc()
			}
			for i := 4 + microYBits; i < 8; i++ {
				eq.Bit(i).Add(cx)
				cx.Inc()
			}
		}

		eq.Mort2d(&cy, &cx, 8, tileSplitStart)
		for s := 0; s < ns; s++ {
			eq.Bit(tileSplitStart + s).Add(coord.C(coord.AxisS, s))
		}
		if (ns&1)^(blk&1) != 0 {
			eq.Mort2d(&cx, &cy, blk, 0)
		} else {
			eq.Mort2d(&cy, &cx, blk, 0)
		}

	default:
		l.assert(false, "no data equation", "swizzle", sw, "resource", rt)
	}
	return eq
}

// thickStandardMicro fills the 1KB micro block of a 3D S-swizzled surface.
func thickStandardMicro(eq *coord.Eq, e int, cx, cy, cz *coord.Coordinate) {
	for i := e; i < 4; i++ {
		eq.Bit(i).Add(*cx)
		cx.Inc()
	}
	for i := 4; i < 6; i++ {
		eq.Bit(i).Add(*cy)
		cy.Inc()
	}
	for i := 6; i < 8; i++ {
		eq.Bit(i).Add(*cz)
		cz.Inc()
	}
	switch {
	case e < 2:
		eq.Bit(8).Add(*cz)
		eq.Bit(9).Add(*cy)
		cz.Inc()
		cy.Inc()
	case e == 2:
		eq.Bit(8).Add(*cy)
		eq.Bit(9).Add(*cx)
		cy.Inc()
		cx.Inc()
	default:
		eq.Bit(8).Add(*cx)
		cx.Inc()
		eq.Bit(9).Add(*cx)
		cx.Inc()
	}
}

// thickZMicro fills the 1KB micro block of a 3D Z-swizzled surface.
func thickZMicro(eq *coord.Eq, e int, cx, cy, cz *coord.Coordinate) {
	m2dEnd := 4
	switch {
	case e == 0:
		m2dEnd = 3
	case e == 4:
		m2dEnd = 5
	}
	numZs := 1
	switch e {
	case 0, 4:
		numZs = 2
	case 1:
		numZs = 3
	}

	eq.Mort2d(cx, cy, e, m2dEnd+1)
	for i := m2dEnd + 1; i <= m2dEnd+numZs; i++ {
		eq.Bit(i).Add(*cz)
		cz.Inc()
	}
	switch e {
	case 0, 3:
		eq.Bit(6).Add(*cx)
		eq.Bit(7).Add(*cz)
		cx.Inc()
		cz.Inc()
	case 2:
		eq.Bit(6).Add(*cy)
		eq.Bit(7).Add(*cz)
		cy.Inc()
		cz.Inc()
	}
	eq.Bit(8).Add(*cy)
	eq.Bit(9).Add(*cx)
	cy.Inc()
	cx.Inc()
}

// RbEquation returns the equation selecting the render backend that owns a
// pixel. RBs are distributed on 16x16 regions, or 32x32 when each shader
// engine has a single RB. With one RB in total the equation is empty.
// aliasFix folds one extra y bit into the first bit when each SE has two RBs.
func RbEquation(rbPerSeLog2, seLog2 uint32, aliasFix bool) coord.Eq {
	region := 4
	if rbPerSeLog2 == 0 {
		region = 5
	}
	cx := coord.C(coord.AxisX, region)
	cy := coord.C(coord.AxisY, region)

	total := int(rbPerSeLog2 + seLog2)
	var eq coord.Eq
	eq.Resize(total)

	start := 0
	if seLog2 > 0 && rbPerSeLog2 == 1 {
		eq.Bit(0).Add(cx)
		eq.Bit(0).Add(cy)
		cx.Inc()
		cy.Inc()
		if aliasFix {
			eq.Bit(0).Add(cy)
		}
		start++
	}

	numBits := 2 * (total - start)
	for i := 0; i < numBits; i++ {
		idx := start + i
		if start+i >= total {
			idx = start + 2*(total-start) - i - 1
		}
		if i%2 == 1 {
			eq.Bit(idx).Add(cx)
			cx.Inc()
		} else {
			eq.Bit(idx).Add(cy)
			cy.Inc()
		}
	}
	return eq
}

// PipeEquation extracts the pipe-select bits from a data equation.
//
// The pipe bits start at the pipe interleave. For non-color surfaces they are
// moved up past any bit below an 8-pixel boundary so compression blocks never
// straddle pipes. XOR modes fold higher address bits, reversed, into them.
func PipeEquation(dataEq *coord.Eq, pipeInterleaveLog2, numPipeLog2, samplesLog2 uint32,
	dt DataType, sw SwizzleMode, rt ResourceType, blockSizeLog2 uint32) coord.Eq {
	pil := int(pipeInterleaveLog2)
	np := int(numPipeLog2)

	data := dataEq.Clone()
	if dt == DataColor {
		data.Shift(-int(samplesLog2), int(blockSizeLog2-samplesLog2))
	}

	var pipe coord.Eq
	data.Copy(&pipe, pil, np)

	pipeStart := 0
	if dt != DataColor {
		tileMin := coord.C(coord.AxisX, 3)
		for pil+pipeStart < data.Size() {
			t := data.Bit(pil + pipeStart)
			if t.Size() == 0 || !t.Smallest().Less(tileMin) {
				break
			}
			pipeStart++
		}
		if pipeStart != 0 {
			for i := 0; i < np; i++ {
				data.Bit(pil + pipeStart + i).CopyTo(pipe.Bit(i))
			}
		}
	}

	if sw.IsPrt() {
		// Nothing above the block takes part in PRT pipe selection.
		data.Resize(int(blockSizeLog2))
		data.Resize(48)
	}

	if sw.IsXor() {
		var mask coord.Eq
		if isThick(rt, sw) {
			var pairs coord.Eq
			data.Copy(&pairs, pil+np, 2*np)
			mask.Resize(np)
			for i := 0; i < np; i++ {
				mask.Bit(i).AddTerm(pairs.Bit(2 * i))
				mask.Bit(i).AddTerm(pairs.Bit(2*i + 1))
			}
		} else {
			data.Copy(&mask, pil+pipeStart+np, np)
			if samplesLog2 == 0 && !sw.IsPrt() {
				var zs coord.Eq
				zs.Resize(np)
				for i := 0; i < np; i++ {
					zs.Bit(i).Add(coord.C(coord.AxisZ, np-1-i))
				}
				pipe.XorIn(&zs, 0)
			}
		}
		mask.Reverse(0, coord.All)
		pipe.XorIn(&mask, 0)
	}
	return pipe
}
