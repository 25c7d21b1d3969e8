// Package gfx9 computes tiled surface layouts, compression metadata layouts
// and address mappings for GFX9-family GPUs.
//
// A [Lib] is created once per device from its decoded topology. It builds the
// per-mode equation table at creation time and keeps a small cache of
// metadata equations; both are safe to use from multiple goroutines.
package gfx9

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/addrlib"
	"github.com/gogpu/addrlib/coord"
	"github.com/gogpu/addrlib/internal/cache"
)

const (
	// maxElementBytesLog2 bounds element sizes: 2^4 = 16 bytes (128 bpp).
	maxElementBytesLog2 = 5
	// maxMacroBits is the log2 of the largest supported block.
	maxMacroBits = 20
	// prtAlignment is the base alignment of partially resident surfaces.
	prtAlignment = 64 * 1024
	// defaultMetaEqSlots matches the hardware driver's two-entry cache.
	defaultMetaEqSlots = 2
)

// Lib is a GFX9 addressing-library instance for one device topology.
type Lib struct {
	cfg Config
	log *slog.Logger

	pipesLog2          uint32
	seLog2             uint32
	rbPerSeLog2        uint32
	banksLog2          uint32
	pipeInterleaveLog2 uint32
	maxCompFragLog2    uint32
	blockVarSizeLog2   uint32

	eqIndex   [numResourceTypes][NumSwizzleModes][maxElementBytesLog2]uint32
	equations []coord.Eq

	metaEq *cache.Ring[MetaEqParams, coord.Eq]
}

// New creates a Lib for cfg and builds its equation table.
func New(cfg Config, opts ...Option) (*Lib, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = addrlib.Logger()
	}

	l := &Lib{
		cfg:                cfg,
		log:                o.logger,
		pipesLog2:          log2(cfg.NumPipes),
		seLog2:             log2(cfg.NumShaderEngines),
		rbPerSeLog2:        log2(cfg.NumRbPerSe),
		banksLog2:          log2(cfg.NumBanks),
		pipeInterleaveLog2: log2(cfg.PipeInterleaveBytes),
		maxCompFragLog2:    log2(cfg.MaxCompFrags),
		blockVarSizeLog2:   cfg.VarBlockSizeLog2,
		metaEq:             cache.NewRing[MetaEqParams, coord.Eq](o.metaSlots),
	}
	l.initEquationTable()

	l.log.Info("gfx9: library created",
		"pipes", cfg.NumPipes,
		"shaderEngines", cfg.NumShaderEngines,
		"rbPerSe", cfg.NumRbPerSe,
		"banks", cfg.NumBanks,
		"pipeInterleave", cfg.PipeInterleaveBytes,
		"equations", len(l.equations))
	return l, nil
}

// Config returns the topology the Lib was created with.
func (l *Lib) Config() Config { return l.cfg }

func (l *Lib) numPipes() uint32   { return 1 << l.pipesLog2 }
func (l *Lib) numRbTotal() uint32 { return 1 << (l.seLog2 + l.rbPerSeLog2) }

// assert records a broken internal invariant. It panics in addrdebug builds
// and otherwise logs and lets the computation continue.
func (l *Lib) assert(ok bool, msg string, args ...any) {
	if ok {
		return
	}
	if debugAsserts {
		panic(fmt.Sprintf("gfx9: assertion failed: %s %v", msg, args))
	}
	l.log.Debug("gfx9: assertion failed: "+msg, args...)
}

// BlockSizeLog2 returns log2 of the block size in bytes for m, or 0 for
// linear modes.
func (l *Lib) BlockSizeLog2(m SwizzleMode) uint32 {
	switch m.info().block {
	case block256B:
		return 8
	case block4KB:
		return 12
	case block64KB:
		return 16
	case blockVar:
		return l.blockVarSizeLog2
	}
	return 0
}

// BlockSize returns the block size in bytes for m (1 for linear modes).
func (l *Lib) BlockSize(m SwizzleMode) uint32 {
	return 1 << l.BlockSizeLog2(m)
}

// IsValidSwizzleMode reports whether m exists on this device.
func (l *Lib) IsValidSwizzleMode(m SwizzleMode) bool {
	if m >= NumSwizzleModes {
		return false
	}
	return !m.IsBlockVar() || l.blockVarSizeLog2 != 0
}

// pipeXorBits is the number of pipe and shader-engine bits that can be
// XOR-salted inside a block of the given size.
func (l *Lib) pipeXorBits(blockSizeLog2 uint32) uint32 {
	l.assert(blockSizeLog2 >= l.pipeInterleaveLog2, "block smaller than pipe interleave",
		"blockSizeLog2", blockSizeLog2)
	if blockSizeLog2 < l.pipeInterleaveLog2 {
		return 0
	}
	return min(blockSizeLog2-l.pipeInterleaveLog2, l.pipesLog2+l.seLog2)
}

// bankXorBits is the number of bank bits above the pipe bits inside a block.
func (l *Lib) bankXorBits(blockSizeLog2 uint32) uint32 {
	pipeBits := l.pipeXorBits(blockSizeLog2)
	if blockSizeLog2 < pipeBits+l.pipeInterleaveLog2 {
		return 0
	}
	return min(blockSizeLog2-pipeBits-l.pipeInterleaveLog2, l.banksLog2)
}

// pipeLog2ForMetaAddressing returns how many pipe bits a metadata surface is
// striped across.
func (l *Lib) pipeLog2ForMetaAddressing(pipeAligned bool, m SwizzleMode) uint32 {
	var n uint32
	if pipeAligned {
		n = min(l.pipesLog2+l.seLog2, 5)
	}
	if m.IsXor() {
		blk := l.BlockSizeLog2(m)
		maxPipeLog2 := uint32(0)
		if blk > l.pipeInterleaveLog2 {
			maxPipeLog2 = blk - l.pipeInterleaveLog2
		}
		n = min(n, maxPipeLog2)
	}
	return n
}

func (l *Lib) pipeNumForMetaAddressing(pipeAligned bool, m SwizzleMode) uint32 {
	return 1 << l.pipeLog2ForMetaAddressing(pipeAligned, m)
}
