// Package options assembles the parsed command line into the flag
// categories handed opaquely to the compiler backend.
package options

import "pyaot/internal/args"

// CompilerOptions groups backend flags by category. A category is present
// only when it holds at least one flag: the backend applies its own
// defaults to absent categories, so a missing key and an empty slice are
// not the same thing.
type CompilerOptions map[string][]string

// Category keys understood by the backend.
const (
	CppFlags = "cppflags" // preprocessor flags
	CxxFlags = "cxxflags" // codegen flags
	LdFlags  = "ldflags"  // linker flags
	Opts     = "opts"     // optimization pass names
)

// Assemble builds CompilerOptions from parsed arguments. It is pure:
// identical input always yields identical output, and the input is never
// modified.
func Assemble(a *args.Arguments) CompilerOptions {
	var cpp []string
	for _, v := range a.Includes {
		cpp = append(cpp, "-I"+v)
	}
	for _, v := range a.Defines {
		cpp = append(cpp, "-D"+v)
	}

	var cxx []string
	for _, v := range a.Optimize {
		cxx = append(cxx, "-O"+v)
	}
	for _, v := range a.MFlags {
		cxx = append(cxx, "-m"+v)
	}
	for _, v := range a.FFlags {
		cxx = append(cxx, "-f"+v)
	}
	if a.Debug {
		cxx = append(cxx, "-g")
	}

	// TODO: library search directories are rendered with an -f prefix, not
	// -L. This matches the long-observed behavior; confirm with the backend
	// maintainers before switching the prefix.
	var ld []string
	for _, v := range a.LibDirs {
		ld = append(ld, "-f"+v)
	}

	opts := CompilerOptions{}
	if len(cpp) > 0 {
		opts[CppFlags] = cpp
	}
	if len(cxx) > 0 {
		opts[CxxFlags] = cxx
	}
	if len(ld) > 0 {
		opts[LdFlags] = ld
	}
	if len(a.Passes) > 0 {
		opts[Opts] = append([]string(nil), a.Passes...)
	}
	return opts
}
