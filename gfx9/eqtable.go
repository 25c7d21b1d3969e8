package gfx9

import (
	"fmt"

	"github.com/gogpu/addrlib/coord"
)

// InvalidEquationIndex marks a table entry with no equation.
const InvalidEquationIndex = ^uint32(0)

// IsEquationSupported reports whether single-sample color surfaces of the
// given resource type, mode and element size have a fixed block equation.
func (l *Lib) IsEquationSupported(rt ResourceType, sw SwizzleMode, elemLog2 uint32) bool {
	if elemLog2 >= maxElementBytesLog2 || !l.IsValidSwizzleMode(sw) || sw.IsLinear() {
		return false
	}
	switch rt {
	case ResourceTex2D:
		return elemLog2 < 4 || (!sw.IsRotate() && !sw.IsZOrder())
	case ResourceTex3D:
		return !sw.IsRotate() && !sw.IsBlock256B()
	}
	return false
}

// initEquationTable builds the block equation of every supported
// single-sample color combination.
func (l *Lib) initEquationTable() {
	for rt := range l.eqIndex {
		for sw := range l.eqIndex[rt] {
			for e := range l.eqIndex[rt][sw] {
				l.eqIndex[rt][sw][e] = InvalidEquationIndex
				if !l.IsEquationSupported(ResourceType(rt), SwizzleMode(sw), uint32(e)) {
					continue
				}
				eq := l.blockEquation(DataColor, SwizzleMode(sw), ResourceType(rt), uint32(e), 0)
				l.eqIndex[rt][sw][e] = uint32(len(l.equations))
				l.equations = append(l.equations, eq)
			}
		}
	}
}

// EquationIndex returns the table index of the block equation for the given
// combination, or InvalidEquationIndex.
func (l *Lib) EquationIndex(rt ResourceType, sw SwizzleMode, elemLog2 uint32) uint32 {
	if rt >= numResourceTypes || sw >= NumSwizzleModes || elemLog2 >= maxElementBytesLog2 {
		return InvalidEquationIndex
	}
	return l.eqIndex[rt][sw][elemLog2]
}

// NumEquations returns the number of entries in the equation table.
func (l *Lib) NumEquations() int { return len(l.equations) }

// Equation returns table entry idx.
func (l *Lib) Equation(idx uint32) (coord.Eq, error) {
	if idx >= uint32(len(l.equations)) {
		return coord.Eq{}, fmt.Errorf("%w: equation index %d", ErrInvalidParams, idx)
	}
	return l.equations[idx], nil
}

// blockEquation maps in-block coordinates to a byte offset inside one block.
//
// It is the data equation cut at the block size. In XOR modes the pipe bits,
// then the bank bits, are each XORed with the equally wide group of raw data
// bits right above them, reversed. Those groups may lie above the block, in
// which case the equation picks up x/y/z bits beyond the block footprint.
func (l *Lib) blockEquation(dt DataType, sw SwizzleMode, rt ResourceType, elemLog2, samplesLog2 uint32) coord.Eq {
	data := l.DataEquation(dt, sw, rt, elemLog2, samplesLog2)
	blk := l.BlockSizeLog2(sw)

	eq := data.Clone()
	eq.Resize(int(blk))
	if !sw.IsXor() {
		return eq
	}

	pipeStart := int(l.pipeInterleaveLog2)
	pipeBits := int(l.pipeXorBits(blk))
	bankStart := pipeStart + pipeBits
	bankBits := int(l.bankXorBits(blk))

	xorGroup := func(start, n int) {
		if n == 0 {
			return
		}
		var src coord.Eq
		data.Copy(&src, start+n, n)
		src.Reverse(0, coord.All)
		eq.XorIn(&src, start)
	}
	xorGroup(pipeStart, pipeBits)
	xorGroup(bankStart, bankBits)
	return eq
}

// surfaceBlockEquation returns the block equation for a surface, from the
// table when one exists.
func (l *Lib) surfaceBlockEquation(dt DataType, sw SwizzleMode, rt ResourceType, elemLog2, samplesLog2 uint32) coord.Eq {
	if dt == DataColor && samplesLog2 == 0 {
		if idx := l.EquationIndex(rt, sw, elemLog2); idx != InvalidEquationIndex {
			return l.equations[idx]
		}
	}
	return l.blockEquation(dt, sw, rt, elemLog2, samplesLog2)
}

// pipeBankMask returns the in-block bits a pipe-bank XOR value may touch.
func (l *Lib) pipeBankMask(sw SwizzleMode) uint64 {
	if !sw.IsXor() {
		return 0
	}
	blk := l.BlockSizeLog2(sw)
	n := l.pipeXorBits(blk) + l.bankXorBits(blk)
	return ((1 << n) - 1) << l.pipeInterleaveLog2
}
