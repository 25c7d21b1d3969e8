package gfx9

import (
	"fmt"
	"math/bits"

	"github.com/BurntSushi/toml"
)

// Config is the decoded GPU topology a Lib computes layouts for.
type Config struct {
	// NumPipes is the number of memory pipes (channels) per shader engine.
	NumPipes uint32 `toml:"num_pipes"`
	// NumShaderEngines is the number of shader engines.
	NumShaderEngines uint32 `toml:"num_shader_engines"`
	// NumRbPerSe is the number of render backends per shader engine.
	NumRbPerSe uint32 `toml:"num_rb_per_se"`
	// NumBanks is the number of DRAM banks used for bank XOR.
	NumBanks uint32 `toml:"num_banks"`
	// PipeInterleaveBytes is the contiguous run below the pipe bits.
	PipeInterleaveBytes uint32 `toml:"pipe_interleave_bytes"`
	// MaxCompFrags is the number of compressed color fragments.
	MaxCompFrags uint32 `toml:"max_comp_frags"`
	// VarBlockSizeLog2 enables the VAR swizzle modes with this block size.
	// Zero disables them.
	VarBlockSizeLog2 uint32 `toml:"var_block_size_log2"`

	Chip ChipSettings `toml:"chip"`
}

// ChipSettings carries per-revision hardware erratum switches.
type ChipSettings struct {
	ApplyAliasFix    bool `toml:"apply_alias_fix"`
	MetaBaseAlignFix bool `toml:"meta_base_align_fix"`
	HtileAlignFix    bool `toml:"htile_align_fix"`
	IsDce12          bool `toml:"is_dce12"`
	IsDcn1           bool `toml:"is_dcn1"`
}

// DefaultConfig returns a 4-SE, 4-pipe, 2-RB-per-SE part with 256-byte pipe
// interleave and a DCE 12 display engine.
func DefaultConfig() Config {
	return Config{
		NumPipes:            4,
		NumShaderEngines:    4,
		NumRbPerSe:          2,
		NumBanks:            16,
		PipeInterleaveBytes: 256,
		MaxCompFrags:        4,
		Chip: ChipSettings{
			ApplyAliasFix:    true,
			MetaBaseAlignFix: true,
			IsDce12:          true,
		},
	}
}

// LoadConfig reads a Config from a TOML file. Keys that are absent keep the
// DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("gfx9: load config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks that every count is a power of two within the range the
// hardware supports.
func (c Config) Validate() error {
	checks := []struct {
		name      string
		v, lo, hi uint32
	}{
		{"num_pipes", c.NumPipes, 1, 32},
		{"num_shader_engines", c.NumShaderEngines, 1, 8},
		{"num_rb_per_se", c.NumRbPerSe, 1, 4},
		{"num_banks", c.NumBanks, 1, 16},
		{"pipe_interleave_bytes", c.PipeInterleaveBytes, 256, 2048},
		{"max_comp_frags", c.MaxCompFrags, 1, 8},
	}
	for _, ck := range checks {
		if ck.v < ck.lo || ck.v > ck.hi || !isPow2(ck.v) {
			return fmt.Errorf("%w: %s = %d, want a power of two in [%d, %d]",
				ErrInvalidParams, ck.name, ck.v, ck.lo, ck.hi)
		}
	}
	if c.VarBlockSizeLog2 != 0 && (c.VarBlockSizeLog2 < 16 || c.VarBlockSizeLog2 > 20) {
		return fmt.Errorf("%w: var_block_size_log2 = %d, want 0 or 16..20",
			ErrInvalidParams, c.VarBlockSizeLog2)
	}
	if c.Chip.IsDce12 && c.Chip.IsDcn1 {
		return fmt.Errorf("%w: is_dce12 and is_dcn1 are exclusive", ErrInvalidParams)
	}
	return nil
}

func isPow2(v uint32) bool { return v != 0 && v&(v-1) == 0 }

// log2 returns floor(log2(v)); log2(0) is 0.
func log2(v uint32) uint32 {
	if v == 0 {
		return 0
	}
	return uint32(bits.Len32(v) - 1)
}

func powTwoAlign(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}

func powTwoAlign64(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}

func roundHalf(v uint32) uint32 {
	return (v + 1) >> 1
}
