package gfx9

import (
	"fmt"
	"strings"
)

// SwizzleMode selects a tiling scheme: block size class, micro-swizzle
// category and XOR/PRT variant.
type SwizzleMode uint32

// Swizzle modes, numbered as the hardware enumerates them.
const (
	SwLinear SwizzleMode = iota
	Sw256BS
	Sw256BD
	Sw256BR
	Sw4KBZ
	Sw4KBS
	Sw4KBD
	Sw4KBR
	Sw64KBZ
	Sw64KBS
	Sw64KBD
	Sw64KBR
	SwVarZ
	SwVarS
	SwVarD
	SwVarR
	Sw64KBZT
	Sw64KBST
	Sw64KBDT
	Sw64KBRT
	Sw4KBZX
	Sw4KBSX
	Sw4KBDX
	Sw4KBRX
	Sw64KBZX
	Sw64KBSX
	Sw64KBDX
	Sw64KBRX
	SwVarZX
	SwVarSX
	SwVarDX
	SwVarRX
	SwLinearGeneral

	// NumSwizzleModes is the number of defined swizzle modes.
	NumSwizzleModes
)

type blockClass uint8

const (
	blockNone blockClass = iota
	block256B
	block4KB
	block64KB
	blockVar
)

type swizzleInfo struct {
	name   string
	block  blockClass
	linear bool
	z      bool
	std    bool
	disp   bool
	rot    bool
	xor    bool
	prt    bool
}

var swizzleTable = [NumSwizzleModes]swizzleInfo{
	SwLinear:        {name: "LINEAR", linear: true},
	Sw256BS:         {name: "256B_S", block: block256B, std: true},
	Sw256BD:         {name: "256B_D", block: block256B, disp: true},
	Sw256BR:         {name: "256B_R", block: block256B, rot: true},
	Sw4KBZ:          {name: "4KB_Z", block: block4KB, z: true},
	Sw4KBS:          {name: "4KB_S", block: block4KB, std: true},
	Sw4KBD:          {name: "4KB_D", block: block4KB, disp: true},
	Sw4KBR:          {name: "4KB_R", block: block4KB, rot: true},
	Sw64KBZ:         {name: "64KB_Z", block: block64KB, z: true},
	Sw64KBS:         {name: "64KB_S", block: block64KB, std: true},
	Sw64KBD:         {name: "64KB_D", block: block64KB, disp: true},
	Sw64KBR:         {name: "64KB_R", block: block64KB, rot: true},
	SwVarZ:          {name: "VAR_Z", block: blockVar, z: true},
	SwVarS:          {name: "VAR_S", block: blockVar, std: true},
	SwVarD:          {name: "VAR_D", block: blockVar, disp: true},
	SwVarR:          {name: "VAR_R", block: blockVar, rot: true},
	Sw64KBZT:        {name: "64KB_Z_T", block: block64KB, z: true, xor: true, prt: true},
	Sw64KBST:        {name: "64KB_S_T", block: block64KB, std: true, xor: true, prt: true},
	Sw64KBDT:        {name: "64KB_D_T", block: block64KB, disp: true, xor: true, prt: true},
	Sw64KBRT:        {name: "64KB_R_T", block: block64KB, rot: true, xor: true, prt: true},
	Sw4KBZX:         {name: "4KB_Z_X", block: block4KB, z: true, xor: true},
	Sw4KBSX:         {name: "4KB_S_X", block: block4KB, std: true, xor: true},
	Sw4KBDX:         {name: "4KB_D_X", block: block4KB, disp: true, xor: true},
	Sw4KBRX:         {name: "4KB_R_X", block: block4KB, rot: true, xor: true},
	Sw64KBZX:        {name: "64KB_Z_X", block: block64KB, z: true, xor: true},
	Sw64KBSX:        {name: "64KB_S_X", block: block64KB, std: true, xor: true},
	Sw64KBDX:        {name: "64KB_D_X", block: block64KB, disp: true, xor: true},
	Sw64KBRX:        {name: "64KB_R_X", block: block64KB, rot: true, xor: true},
	SwVarZX:         {name: "VAR_Z_X", block: blockVar, z: true, xor: true},
	SwVarSX:         {name: "VAR_S_X", block: blockVar, std: true, xor: true},
	SwVarDX:         {name: "VAR_D_X", block: blockVar, disp: true, xor: true},
	SwVarRX:         {name: "VAR_R_X", block: blockVar, rot: true, xor: true},
	SwLinearGeneral: {name: "LINEAR_GENERAL", linear: true},
}

func (m SwizzleMode) info() swizzleInfo {
	if m >= NumSwizzleModes {
		return swizzleInfo{}
	}
	return swizzleTable[m]
}

// String returns the conventional mode name, e.g. "64KB_D_X".
func (m SwizzleMode) String() string {
	if m >= NumSwizzleModes {
		return fmt.Sprintf("SwizzleMode(%d)", uint32(m))
	}
	return swizzleTable[m].name
}

// ParseSwizzleMode returns the mode whose String form matches name,
// ignoring case.
func ParseSwizzleMode(name string) (SwizzleMode, error) {
	for m := range NumSwizzleModes {
		if strings.EqualFold(swizzleTable[m].name, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown swizzle mode %q", ErrInvalidParams, name)
}

// IsLinear reports whether m is one of the two linear modes.
func (m SwizzleMode) IsLinear() bool { return m.info().linear }

// IsZOrder reports a Z (Morton) micro-swizzle.
func (m SwizzleMode) IsZOrder() bool { return m.info().z }

// IsStandard reports an S micro-swizzle.
func (m SwizzleMode) IsStandard() bool { return m.info().std }

// IsDisplay reports a D micro-swizzle.
func (m SwizzleMode) IsDisplay() bool { return m.info().disp }

// IsRotate reports an R micro-swizzle.
func (m SwizzleMode) IsRotate() bool { return m.info().rot }

// IsXor reports whether pipe and bank bits are XOR-interleaved. PRT modes
// are XOR modes too.
func (m SwizzleMode) IsXor() bool { return m.info().xor }

// IsPrt reports a partially-resident-texture mode.
func (m SwizzleMode) IsPrt() bool { return m.info().prt }

// IsNonPrtXor reports an XOR mode that is not a PRT mode.
func (m SwizzleMode) IsNonPrtXor() bool { return m.info().xor && !m.info().prt }

// IsBlock256B reports the 256-byte micro-tile block class.
func (m SwizzleMode) IsBlock256B() bool { return m.info().block == block256B }

// IsBlock4KB reports the 4KB macro-tile block class.
func (m SwizzleMode) IsBlock4KB() bool { return m.info().block == block4KB }

// IsBlock64KB reports the 64KB macro-tile block class.
func (m SwizzleMode) IsBlock64KB() bool { return m.info().block == block64KB }

// IsBlockVar reports the variable-size block class.
func (m SwizzleMode) IsBlockVar() bool { return m.info().block == blockVar }

// ResourceType is the dimensionality of a surface.
type ResourceType uint32

// Resource types.
const (
	ResourceTex1D ResourceType = iota
	ResourceTex2D
	ResourceTex3D

	numResourceTypes
)

func (r ResourceType) String() string {
	switch r {
	case ResourceTex1D:
		return "1D"
	case ResourceTex2D:
		return "2D"
	case ResourceTex3D:
		return "3D"
	}
	return fmt.Sprintf("ResourceType(%d)", uint32(r))
}

// DataType selects which data layout a metadata equation is derived from.
type DataType uint32

// Data surface types.
const (
	DataColor DataType = iota
	DataDepthStencil
	DataFmask
)

// MajorMode is the axis along which a mip chain grows.
type MajorMode uint32

// Major modes.
const (
	MajorX MajorMode = iota
	MajorY
	MajorZ
)

// isThin reports whether slices of r are tiled independently under m.
func isThin(r ResourceType, m SwizzleMode) bool {
	return r == ResourceTex2D || (r == ResourceTex3D && !m.IsZOrder() && !m.IsStandard())
}

// isThick reports whether r is tiled in 3D blocks under m.
func isThick(r ResourceType, m SwizzleMode) bool {
	return r == ResourceTex3D && (m.IsZOrder() || m.IsStandard())
}

// isStandardSwizzle treats D as S for 3D resources.
func isStandardSwizzle(r ResourceType, m SwizzleMode) bool {
	return m.IsStandard() || (r == ResourceTex3D && m.IsDisplay())
}

func isDisplaySwizzle(r ResourceType, m SwizzleMode) bool {
	return r == ResourceTex2D && m.IsDisplay()
}
