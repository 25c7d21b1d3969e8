package coord

import "strings"

// MaxBits is the number of output bits an Eq can describe.
const MaxBits = 64

// All selects the whole equation in Copy and Reverse.
const All = -1

// Eq is a bit-vector function of (x, y, z, s, m): output bit i is the XOR of
// the coordinates in term i.
type Eq struct {
	bits [MaxBits]Term
	n    int
}

// Size returns the number of output bits.
func (e *Eq) Size() int { return e.n }

// Resize sets the number of output bits. Growing exposes empty terms,
// shrinking drops the high bits.
func (e *Eq) Resize(n int) {
	if n < 0 || n > MaxBits {
		panic("coord: equation size out of range")
	}
	for i := e.n; i < n; i++ {
		e.bits[i].Clear()
	}
	e.n = n
}

// Bit returns a pointer to term i so it can be edited in place. Indices up to
// MaxBits are addressable regardless of Size.
func (e *Eq) Bit(i int) *Term {
	return &e.bits[i]
}

// term returns term i, or an empty term past the equation size.
func (e *Eq) term(i int) Term {
	if i < 0 || i >= e.n {
		return Term{}
	}
	return e.bits[i]
}

// Remove deletes c from every term.
func (e *Eq) Remove(c Coordinate) {
	for i := 0; i < e.n; i++ {
		e.bits[i].Remove(c)
	}
}

// Exists reports whether c appears in any term.
func (e *Eq) Exists(c Coordinate) bool {
	for i := 0; i < e.n; i++ {
		if e.bits[i].Exists(c) {
			return true
		}
	}
	return false
}

// Copy writes count bits of e starting at start into dst, starting at dst's
// bit 0, and sets dst's size to count. A count of All copies e.Size() bits.
func (e *Eq) Copy(dst *Eq, start, count int) {
	if count == All {
		count = e.n
	}
	src := *e
	dst.n = count
	for i := 0; i < count; i++ {
		dst.bits[i] = src.term(start + i)
	}
}

// Clone returns a copy of the whole equation.
func (e *Eq) Clone() Eq { return *e }

// Reverse reverses the bit order of count bits starting at start. A count of
// All reverses e.Size() bits.
func (e *Eq) Reverse(start, count int) {
	if count == All {
		count = e.n
	}
	for i := 0; i < count/2; i++ {
		a, b := start+i, start+count-1-i
		e.bits[a], e.bits[b] = e.bits[b], e.bits[a]
	}
}

// XorIn merges every bit of o into e, o's bit i landing on e's bit start+i.
// Bits of o past e's size are ignored.
func (e *Eq) XorIn(o *Eq, start int) {
	n := e.n - start
	if n > o.n {
		n = o.n
	}
	src := *o
	for i := 0; i < n; i++ {
		e.bits[start+i].AddTerm(&src.bits[i])
	}
}

// Filter applies [Term.Filter] to every bit from start on and drops bits that
// become empty, compacting the equation. It returns the new size.
func (e *Eq) Filter(op byte, ref Coordinate, start int, axis byte) int {
	for i := start; i < e.n; {
		if e.bits[i].Filter(op, ref, 0, axis) == 0 {
			copy(e.bits[i:e.n-1], e.bits[i+1:e.n])
			e.n--
		} else {
			i++
		}
	}
	return e.n
}

// Shift moves the bits at and above start by amount positions: up for a
// positive amount, down for a negative one. The size is unchanged; vacated
// bits become empty and bits moved past the top are lost.
func (e *Eq) Shift(amount, start int) {
	if amount == 0 {
		return
	}
	n := e.n
	if amount > 0 {
		for i := n - 1; i >= start; i-- {
			if src := i - amount; src >= start {
				e.bits[i] = e.bits[src]
			} else {
				e.bits[i].Clear()
			}
		}
		return
	}
	for i := start; i < n; i++ {
		if src := i - amount; src < n {
			e.bits[i] = e.bits[src]
		} else {
			e.bits[i].Clear()
		}
	}
}

// Mort2d fills bits [start, end) alternately with c0 and c1, advancing each
// after use, beginning with c0. An end of 0 means e.Size().
func (e *Eq) Mort2d(c0, c1 *Coordinate, start, end int) {
	if end == 0 {
		end = e.n
	}
	for i := start; i < end; i++ {
		c := c0
		if (i-start)%2 == 1 {
			c = c1
		}
		e.bits[i].Add(*c)
		c.Inc()
	}
}

// Mort3d fills bits [start, end) round-robin with c0, c1 and c2, advancing
// each after use. An end of 0 means e.Size().
func (e *Eq) Mort3d(c0, c1, c2 *Coordinate, start, end int) {
	if end == 0 {
		end = e.n
	}
	for i := start; i < end; i++ {
		var c *Coordinate
		switch (i - start) % 3 {
		case 0:
			c = c0
		case 1:
			c = c1
		default:
			c = c2
		}
		e.bits[i].Add(*c)
		c.Inc()
	}
}

// Solve evaluates the equation.
func (e *Eq) Solve(x, y, z, s, m uint32) uint64 {
	var out uint64
	for i := 0; i < e.n; i++ {
		if e.bits[i].Xor(x, y, z, s, m) != 0 {
			out |= 1 << uint(i)
		}
	}
	return out
}

// Point is one (x, y, z, sample, macro-index) input of an equation.
type Point struct {
	X, Y, Z, S, M uint32
}

// SolveAddr inverts the equation for addr.
//
// Single-coordinate bits are read directly. Multi-coordinate bits are then
// reduced repeatedly, XOR-ing out coordinates already known, until every bit
// is resolved. When sliceInM is non-zero, z is seeded with M/sliceInM taken
// from the macro-index bits read so far. The result is only meaningful for
// equations that are bijective on their domain; for others the reduction stops
// once it can make no further progress.
func (e *Eq) SolveAddr(addr uint64, sliceInM uint32) Point {
	var (
		p     Point
		valid [5]uint64
		tmp   = *e
	)
	vals := [5]*uint32{&p.X, &p.Y, &p.Z, &p.S, &p.M}

	resolve := func(i int) {
		c := tmp.bits[i].coords[0]
		tmp.bits[i].Clear()
		a := axisIndex(c.Dim)
		if a < 0 || c.Ord < 0 || c.Ord >= 32 {
			return
		}
		bit := uint32(addr>>uint(i)) & 1
		valid[a] |= 1 << uint(c.Ord)
		*vals[a] |= bit << uint(c.Ord)
	}

	left := 0
	for i := 0; i < tmp.n; i++ {
		switch sz := tmp.bits[i].n; {
		case sz == 1:
			resolve(i)
		case sz > 1:
			left++
		}
	}
	if left == 0 {
		return p
	}
	if sliceInM != 0 {
		p.Z = p.M / sliceInM
		valid[2] = 0xffffffff
	}

	for {
		left = 0
		progress := false
		for i := 0; i < tmp.n; i++ {
			t := &tmp.bits[i]
			switch {
			case t.n == 1:
				resolve(i)
				progress = true
			case t.n > 1:
				reduced := *t
				for j := 0; j < t.n; j++ {
					c := t.coords[j]
					a := axisIndex(c.Dim)
					if a < 0 || c.Ord < 0 || c.Ord >= 32 {
						continue
					}
					if valid[a]&(1<<uint(c.Ord)) != 0 {
						addr ^= uint64((*vals[a]>>uint(c.Ord))&1) << uint(i)
						reduced.Remove(c)
						progress = true
					}
				}
				*t = reduced
				left++
			}
		}
		if left == 0 || !progress {
			return p
		}
	}
}

func axisIndex(dim byte) int {
	switch dim {
	case AxisX:
		return 0
	case AxisY:
		return 1
	case AxisZ:
		return 2
	case AxisS:
		return 3
	case AxisM:
		return 4
	}
	return -1
}

// Equal reports whether both equations have the same size and terms.
func (e *Eq) Equal(o *Eq) bool {
	if e.n != o.n {
		return false
	}
	for i := 0; i < e.n; i++ {
		if !e.bits[i].Equal(&o.bits[i]) {
			return false
		}
	}
	return true
}

// String formats the equation from bit 0 upwards, one term per bit.
func (e *Eq) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < e.n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.bits[i].String())
	}
	sb.WriteByte(']')
	return sb.String()
}
