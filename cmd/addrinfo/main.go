// Command addrinfo prints the layout of a gfx9 surface and, optionally, the
// byte offset of one element in it.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/addrlib"
	"github.com/gogpu/addrlib/gfx9"
)

func main() {
	var (
		config  = flag.String("config", "", "chip configuration TOML file (default: built-in 4-SE part)")
		swizzle = flag.String("swizzle", "64KB_S_X", "swizzle mode, e.g. 64KB_D_X, or \"auto\"")
		dim     = flag.Int("dim", 2, "resource dimension: 1, 2 or 3")
		format  = flag.String("format", "", "texture format, e.g. RGBA16Float; overrides -bpp and -depth")
		bpp     = flag.Uint("bpp", 32, "bits per element")
		width   = flag.Uint("width", 1920, "width in elements")
		height  = flag.Uint("height", 1080, "height in elements")
		slices  = flag.Uint("slices", 1, "array slices or depth")
		mips    = flag.Uint("mips", 1, "mip levels")
		samples = flag.Uint("samples", 1, "samples per pixel")
		depth   = flag.Bool("depth", false, "depth-stencil surface")
		display = flag.Bool("display", false, "scanout surface")
		x       = flag.Int("x", -1, "element x to translate (negative: skip)")
		y       = flag.Uint("y", 0, "element y to translate")
		slice   = flag.Uint("slice", 0, "slice to translate")
		mip     = flag.Uint("mip", 0, "mip level to translate")
		xor     = flag.Uint("pipebankxor", 0, "pipe-bank XOR salt")
		verbose = flag.Bool("v", false, "log library diagnostics to stderr")
		version = flag.Bool("version", false, "print the library version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("addrinfo", addrlib.Version)
		return
	}

	if *verbose {
		addrlib.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := gfx9.DefaultConfig()
	if *config != "" {
		var err error
		if cfg, err = gfx9.LoadConfig(*config); err != nil {
			log.Fatal(err)
		}
	}
	lib, err := gfx9.New(cfg)
	if err != nil {
		log.Fatalf("create library: %v", err)
	}

	var in gfx9.SurfaceInfoInput
	if *format != "" {
		in, err = textureInput(*format, *dim, uint32(*width), uint32(*height), uint32(*slices),
			uint32(*mips), uint32(*samples), *display)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		rt := gfx9.ResourceTex2D
		switch *dim {
		case 1:
			rt = gfx9.ResourceTex1D
		case 3:
			rt = gfx9.ResourceTex3D
		}
		in = gfx9.SurfaceInfoInput{
			Flags: gfx9.SurfaceFlags{
				Color:   !*depth,
				Depth:   *depth,
				Stencil: *depth,
				Display: *display,
			},
			ResourceType: rt,
			Bpp:          uint32(*bpp),
			Width:        uint32(*width),
			Height:       uint32(*height),
			NumSlices:    uint32(*slices),
			NumMipLevels: uint32(*mips),
			NumSamples:   uint32(*samples),
		}
	}

	if *swizzle == "auto" {
		set, err := lib.GetPreferredSurfaceSetting(gfx9.PreferredSettingInput{Surface: in})
		if err != nil {
			log.Fatalf("preferred setting: %v", err)
		}
		in.SwizzleMode = set.SwizzleMode
	} else if in.SwizzleMode, err = gfx9.ParseSwizzleMode(*swizzle); err != nil {
		log.Fatal(err)
	}

	info, err := lib.ComputeSurfaceInfo(in)
	if err != nil {
		log.Fatalf("surface info: %v", err)
	}
	printInfo(in, info)

	if *x < 0 {
		return
	}
	addr, err := lib.ComputeSurfaceAddrFromCoord(gfx9.SurfaceAddrInput{
		Surface:     in,
		X:           uint32(*x),
		Y:           uint32(*y),
		Slice:       uint32(*slice),
		MipId:       uint32(*mip),
		PipeBankXor: uint32(*xor),
	})
	if err != nil {
		log.Fatalf("address: %v", err)
	}
	fmt.Printf("\n(%d, %d) slice %d mip %d -> %#x\n", *x, *y, *slice, *mip, addr)
}

// textureInput describes the surface through its texture format, which
// decides the element size and whether it is a depth surface.
func textureInput(name string, dim int, width, height, slices, mips, samples uint32, display bool) (gfx9.SurfaceInfoInput, error) {
	f, err := gfx9.ParseTextureFormat(name)
	if err != nil {
		return gfx9.SurfaceInfoInput{}, err
	}
	d := gputypes.TextureDimension2D
	switch dim {
	case 1:
		d = gputypes.TextureDimension1D
	case 3:
		d = gputypes.TextureDimension3D
	}
	return gfx9.SurfaceInputFromTexture(gfx9.TextureDesc{
		Format:        f,
		Dimension:     d,
		Size:          gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: slices},
		MipLevelCount: mips,
		SampleCount:   samples,
		Display:       display,
	})
}

func printInfo(in gfx9.SurfaceInfoInput, info gfx9.SurfaceInfo) {
	fmt.Printf("swizzle     %v (%v, %d bpp)\n", in.SwizzleMode, in.ResourceType, in.Bpp)
	fmt.Printf("block       %dx%dx%d\n", info.BlockWidth, info.BlockHeight, info.BlockSlices)
	fmt.Printf("padded      %dx%d, %d slices\n", info.Pitch, info.Height, info.NumSlices)
	fmt.Printf("mip chain   %dx%d, %d slices\n", info.MipChainPitch, info.MipChainHeight, info.MipChainSlice)
	fmt.Printf("slice size  %d\n", info.SliceSize)
	fmt.Printf("size        %d (align %d)\n", info.SurfSize, info.BaseAlign)
	if len(info.MipInfo) > 1 {
		fmt.Printf("first tail  mip %d\n", info.FirstMipIdInTail)
		for i, m := range info.MipInfo {
			fmt.Printf("  mip %2d  %5dx%-5d block %#x tail %#x\n",
				i, m.Pitch, m.Height, m.MacroBlockOffset, m.MipTailOffset)
		}
	}
}
