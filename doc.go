// Package addrlib computes memory layouts and address mappings for tiled GPU
// surfaces.
//
// # Overview
//
// GPUs store textures and render targets in swizzled tile layouts rather than
// row-major order, and keep per-tile compression metadata (HTile for depth,
// CMask and DCC for color) in side buffers with their own swizzles. A driver
// must know, for a given surface description, how large every buffer is, how
// it must be aligned, where each mip level starts, and which byte holds a given
// texel or metadata element.
//
// The library models every such mapping as a coordinate equation: each
// address bit is the XOR of a few bits of the x, y, z, sample and macro-block
// index inputs. See package coord for the algebra and package gfx9 for the
// equations and size rules of the GFX9 ("Vega") family.
//
// # Quick Start
//
//	lib, err := gfx9.New(gfx9.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	out, err := lib.ComputeSurfaceInfo(gfx9.SurfaceInfoInput{
//		SwizzleMode:  gfx9.Sw64KBDX,
//		ResourceType: gfx9.ResourceTex2D,
//		Bpp:          32,
//		Width:        1920,
//		Height:       1080,
//		NumSlices:    1,
//		NumMipLevels: 1,
//		NumSamples:   1,
//	})
//
// # Logging
//
// Nothing is logged by default. Use [SetLogger] to route diagnostics to any
// [log/slog] handler.
//
// # Thread Safety
//
// A gfx9.Lib may be shared between goroutines. Its only mutable state, the
// metadata-equation cache, is guarded by a mutex and hands out copies.
package addrlib

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
