package composer

import "go.trai.ch/forge/internal/core/domain"

var baselineCFlags = []string{
	"-ffunction-sections",
	"-fdata-sections",
	"-fsigned-char",

	"-Wall",
	"-Wextra",
	"-Wformat",
	"-Wshadow",
	"-Wpointer-arith",
	"-Wcast-align",
	"-Wundef",
	"-Wno-missing-field-initializers",
	"-Wno-unused-parameter",
	"-Wno-redundant-decls",
}

var baselineCXXFlags = []string{
	"-std=gnu++11",

	"-fdata-sections",
	"-ffunction-sections",
	"-fno-exceptions",
	"-fsigned-char",

	"-Wall",
	"-Wextra",
	"-Wformat",
	"-Wshadow",
	"-Wpointer-arith",
	"-Wcast-align",
	"-Wundef",
	"-Wno-unused-parameter",
	"-Wno-missing-field-initializers",
	"-Wno-reorder",
	"-Wno-redundant-decls",
	"-Werror=format-security",
	"-Werror=array-bounds",
	"-Werror=unused-but-set-variable",
	"-Werror=uninitialized",
	"-Werror=init-self",
	"-Wfatal-errors",
}

var baselineLinkFlags = []string{
	"-Wl,--gc-sections",
}

// Baseline returns a fresh environment holding the flags every board starts
// from and an empty DEFINES mapping.
func Baseline() *domain.Environment {
	env := domain.NewEnvironment()
	env.InitDefines(domain.VarDefines)
	env.Append(domain.VarCFlags, baselineCFlags...)
	env.Append(domain.VarCXXFlags, baselineCXXFlags...)
	env.Append(domain.VarLinkFlags, baselineLinkFlags...)
	return env
}
