package coord

import "strings"

// MaxTermCoords is the number of coordinates a Term can hold.
const MaxTermCoords = 8

// Term is the XOR of a set of coordinates; it describes one output bit.
//
// Coordinates are kept sorted by [Coordinate.Less], so Smallest is the first
// element. Adding a coordinate that is already present removes it.
type Term struct {
	coords [MaxTermCoords]Coordinate
	n      int
}

// T builds a term from the given coordinates, XOR-merging duplicates.
func T(cs ...Coordinate) Term {
	var t Term
	for _, c := range cs {
		t.Add(c)
	}
	return t
}

// Clear empties the term.
func (t *Term) Clear() { t.n = 0 }

// Size returns the number of coordinates in the term.
func (t *Term) Size() int { return t.n }

// At returns the i-th coordinate in sort order.
func (t *Term) At(i int) Coordinate {
	if i < 0 || i >= t.n {
		panic("coord: term index out of range")
	}
	return t.coords[i]
}

// Coords returns a copy of the coordinates in sort order.
func (t *Term) Coords() []Coordinate {
	out := make([]Coordinate, t.n)
	copy(out, t.coords[:t.n])
	return out
}

// Add XORs c into the term: c is inserted in order if absent, removed if
// present. Exceeding MaxTermCoords panics.
func (t *Term) Add(c Coordinate) {
	i := 0
	for ; i < t.n; i++ {
		if t.coords[i] == c {
			t.removeAt(i)
			return
		}
		if t.coords[i].Greater(c) {
			break
		}
	}
	if t.n == MaxTermCoords {
		panic("coord: term capacity exceeded")
	}
	copy(t.coords[i+1:t.n+1], t.coords[i:t.n])
	t.coords[i] = c
	t.n++
}

// AddTerm XORs every coordinate of o into the term.
func (t *Term) AddTerm(o *Term) {
	// o may alias t.
	src := *o
	for i := 0; i < src.n; i++ {
		t.Add(src.coords[i])
	}
}

// Remove deletes c if present and reports whether it was.
func (t *Term) Remove(c Coordinate) bool {
	for i := 0; i < t.n; i++ {
		if t.coords[i] == c {
			t.removeAt(i)
			return true
		}
	}
	return false
}

func (t *Term) removeAt(i int) {
	copy(t.coords[i:t.n-1], t.coords[i+1:t.n])
	t.n--
}

// Exists reports whether c is part of the term.
func (t *Term) Exists(c Coordinate) bool {
	for i := 0; i < t.n; i++ {
		if t.coords[i] == c {
			return true
		}
	}
	return false
}

// CopyTo replaces the contents of dst with the contents of t.
func (t *Term) CopyTo(dst *Term) { *dst = *t }

// Xor evaluates the term: the XOR of every coordinate's input bit.
func (t *Term) Xor(x, y, z, s, m uint32) uint32 {
	var out uint32
	for i := 0; i < t.n; i++ {
		out ^= t.coords[i].IsOn(x, y, z, s, m)
	}
	return out
}

// Smallest returns the least coordinate of the term. The term must not be
// empty.
func (t *Term) Smallest() Coordinate {
	if t.n == 0 {
		panic("coord: smallest of empty term")
	}
	return t.coords[0]
}

// Filter removes, starting at index start, every coordinate c for which
// "c op ref" holds, op being '<', '>' or '='. When axis is not AxisAny only
// coordinates on that axis are considered. It returns the remaining size.
func (t *Term) Filter(op byte, ref Coordinate, start int, axis byte) int {
	for i := start; i < t.n; {
		c := t.coords[i]
		match := (op == '<' && c.Less(ref)) ||
			(op == '>' && c.Greater(ref)) ||
			(op == '=' && c == ref)
		if match && (axis == AxisAny || axis == c.Dim) {
			t.removeAt(i)
		} else {
			i++
		}
	}
	return t.n
}

// Equal reports whether both terms hold the same set of coordinates.
func (t *Term) Equal(o *Term) bool {
	if t.n != o.n {
		return false
	}
	for i := 0; i < t.n; i++ {
		if t.coords[i] != o.coords[i] {
			return false
		}
	}
	return true
}

// ExceedRange reports whether any coordinate has an ordinal at or beyond the
// bit-width cap of its axis. Macro-index coordinates always exceed.
func (t *Term) ExceedRange(xBits, yBits, zBits, sBits int) bool {
	for i := 0; i < t.n; i++ {
		c := t.coords[i]
		var limit int
		switch c.Dim {
		case AxisX:
			limit = xBits
		case AxisY:
			limit = yBits
		case AxisZ:
			limit = zBits
		case AxisS:
			limit = sBits
		}
		if int(c.Ord) >= limit {
			return true
		}
	}
	return false
}

// String formats the term as its coordinates joined by '^'.
func (t *Term) String() string {
	if t.n == 0 {
		return "0"
	}
	parts := make([]string, t.n)
	for i := 0; i < t.n; i++ {
		parts[i] = t.coords[i].String()
	}
	return strings.Join(parts, "^")
}
