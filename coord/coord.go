// Package coord implements the coordinate-equation algebra used to describe
// GPU surface address functions.
//
// An address bit is modelled as the XOR of a handful of input bits, each input
// bit being one bit (an ordinal) of one axis: x, y, z, sample (s) or
// macro-block index (m). A [Coordinate] names one such input bit, a [Term] is
// the XOR of up to [MaxTermCoords] coordinates, and an [Eq] is an ordered list
// of up to [MaxBits] terms, one per output bit.
//
// All types are plain values with fixed-capacity backing arrays; copying an
// Eq copies the whole equation.
package coord

import "strconv"

// Axis tags understood by [Coordinate.IsOn].
const (
	AxisX byte = 'x'
	AxisY byte = 'y'
	AxisZ byte = 'z'
	AxisS byte = 's'
	AxisM byte = 'm'

	// AxisAny disables axis restriction in Filter.
	AxisAny byte = 0
)

// Coordinate identifies bit Ord of axis Dim.
type Coordinate struct {
	Dim byte
	Ord int8
}

// C returns the coordinate for bit ord of axis dim.
func C(dim byte, ord int) Coordinate {
	return Coordinate{Dim: dim, Ord: int8(ord)}
}

// Set reassigns both fields. No validation is performed.
func (c *Coordinate) Set(dim byte, ord int) {
	c.Dim = dim
	c.Ord = int8(ord)
}

// Inc advances the ordinal in place and returns the updated coordinate.
func (c *Coordinate) Inc() Coordinate {
	c.Ord++
	return *c
}

// IsOn returns bit Ord of the axis value selected by Dim, or 0 when Dim names
// no known axis or the ordinal is out of range.
func (c Coordinate) IsOn(x, y, z, s, m uint32) uint32 {
	if c.Ord < 0 || c.Ord >= 32 {
		return 0
	}
	var v uint32
	switch c.Dim {
	case AxisX:
		v = x
	case AxisY:
		v = y
	case AxisZ:
		v = z
	case AxisS:
		v = s
	case AxisM:
		v = m
	default:
		return 0
	}
	return (v >> uint(c.Ord)) & 1
}

// Less reports whether c orders before b.
//
// Sample coordinates order before everything else and macro-index coordinates
// after everything else. Between x, y and z the ordinal is compared first and
// the axis letter breaks ties, so bits of equal weight sit next to each other.
func (c Coordinate) Less(b Coordinate) bool {
	if c.Dim == b.Dim {
		return c.Ord < b.Ord
	}
	switch {
	case c.Dim == AxisS || b.Dim == AxisM:
		return true
	case b.Dim == AxisS || c.Dim == AxisM:
		return false
	case c.Ord == b.Ord:
		return c.Dim < b.Dim
	default:
		return c.Ord < b.Ord
	}
}

// Greater reports whether c orders after b.
func (c Coordinate) Greater(b Coordinate) bool {
	return !c.Less(b) && c != b
}

// String returns the coordinate in its conventional short form, e.g. "x3".
func (c Coordinate) String() string {
	if c.Dim == 0 {
		return "?" + strconv.Itoa(int(c.Ord))
	}
	return string(rune(c.Dim)) + strconv.Itoa(int(c.Ord))
}
