package boards

import "go.trai.ch/forge/internal/core/domain"

const (
	toolchainGnueabihf = "arm-linux-gnueabihf"
	toolchainXilinx    = "arm-xilinx-linux-gnueabi"
	toolchainNoneEABI  = "arm-none-eabi"
)

// builtin is the table of boards shipped with forge. The baseline flags every
// board starts from live in the composer, not here.
var builtin = []domain.BoardSpec{
	{
		Name: "sitl",
		Delta: domain.EnvDelta{
			domain.Define("CONFIG_HAL_BOARD", "HAL_BOARD_SITL"),
			domain.Define("CONFIG_HAL_BOARD_SUBTYPE", "HAL_BOARD_SUBTYPE_NONE"),
			domain.Append(domain.VarCXXFlags, "-O3"),
			domain.Append(domain.VarLib, "m"),
			domain.Append(domain.VarLinkFlags, "-pthread"),
			domain.Append(domain.VarAPLibraries, "AP_HAL_SITL", "SITL"),
		},
	},
	{
		Name: "linux",
		Delta: domain.EnvDelta{
			domain.Define("CONFIG_HAL_BOARD", "HAL_BOARD_LINUX"),
			domain.Define("CONFIG_HAL_BOARD_SUBTYPE", "HAL_BOARD_SUBTYPE_LINUX_NONE"),
			domain.Append(domain.VarCXXFlags, "-O3"),
			domain.Append(domain.VarLib, "m", "rt"),
			domain.Append(domain.VarLinkFlags, "-pthread"),
			domain.Set(domain.VarAPLibraries, "AP_HAL_Linux"),
		},
	},
	linuxBoard("minlure", "", "HAL_BOARD_SUBTYPE_LINUX_MINLURE"),
	linuxBoard("erleboard", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_ERLEBOARD"),
	linuxBoard("navio", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_NAVIO"),
	linuxBoard("zynq", toolchainXilinx, "HAL_BOARD_SUBTYPE_LINUX_ZYNQ"),
	linuxBoard("bbbmini", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_BBBMINI"),
	linuxBoard("pxf", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_PXF"),
	withOps(
		linuxBoard("bebop", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_BEBOP"),
		domain.Set(domain.VarStaticLink, "true"),
	),
	linuxBoard("raspilot", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_RASPILOT"),
	linuxBoard("erlebrain2", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_ERLEBRAIN2"),
	linuxBoard("bhat", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_BH"),
	linuxBoard("pxfmini", toolchainGnueabihf, "HAL_BOARD_SUBTYPE_LINUX_PXFMINI"),
	{
		Name: "px4",
		Delta: domain.EnvDelta{
			domain.Set(domain.VarToolchain, toolchainNoneEABI),
			domain.Define("CONFIG_HAL_BOARD", "HAL_BOARD_PX4"),
			domain.Append(domain.VarCXXFlags, "-Os"),
			domain.Set(domain.VarAPLibraries, "AP_HAL_PX4"),
		},
	},
	px4Board("1"),
	px4Board("2"),
	px4Board("4"),
}

func linuxBoard(name, toolchain, subtype string) domain.BoardSpec {
	spec := domain.BoardSpec{Name: name, Parent: "linux"}
	if toolchain != "" {
		spec.Delta = append(spec.Delta, domain.Set(domain.VarToolchain, toolchain))
	}
	spec.Delta = append(spec.Delta, domain.Define("CONFIG_HAL_BOARD_SUBTYPE", subtype))
	return spec
}

func px4Board(version string) domain.BoardSpec {
	return domain.BoardSpec{
		Name:   "px4-v" + version,
		Parent: "px4",
		Delta: domain.EnvDelta{
			domain.Set(domain.VarPX4Version, version),
		},
	}
}

func withOps(spec domain.BoardSpec, ops ...domain.EnvOp) domain.BoardSpec {
	spec.Delta = append(spec.Delta, ops...)
	return spec
}

// Builtin returns a registry holding every board shipped with forge.
func Builtin() *Registry {
	r := NewRegistry()
	for _, spec := range builtin {
		if err := r.Register(spec); err != nil {
			// The table is static; a duplicate is a programming error.
			panic(err)
		}
	}
	return r
}
