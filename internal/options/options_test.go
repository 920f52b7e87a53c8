package options

import (
	"reflect"
	"testing"

	"pyaot/internal/args"
)

// TestAssembleDefaultOptimization tests that the default -O level comes
// through as exactly one cxxflags entry
func TestAssembleDefaultOptimization(t *testing.T) {
	a := &args.Arguments{Optimize: []string{"2"}}

	opts := Assemble(a)

	if !reflect.DeepEqual(opts[CxxFlags], []string{"-O2"}) {
		t.Errorf("Expected cxxflags [-O2], got %v", opts[CxxFlags])
	}
}

// TestAssembleCppFlagsOrder tests include-then-define ordering
func TestAssembleCppFlagsOrder(t *testing.T) {
	a := &args.Arguments{
		Includes: []string{"/a", "/b"},
		Defines:  []string{"x"},
	}

	opts := Assemble(a)

	want := []string{"-I/a", "-I/b", "-Dx"}
	if !reflect.DeepEqual(opts[CppFlags], want) {
		t.Errorf("Expected cppflags %v, got %v", want, opts[CppFlags])
	}
}

// TestAssembleCxxFlagsOrder tests the O, m, f, g concatenation order
func TestAssembleCxxFlagsOrder(t *testing.T) {
	a := &args.Arguments{
		Optimize: []string{"0"},
		MFlags:   []string{"avx"},
		FFlags:   []string{"openmp"},
		Debug:    true,
	}

	opts := Assemble(a)

	want := []string{"-O0", "-mavx", "-fopenmp", "-g"}
	if !reflect.DeepEqual(opts[CxxFlags], want) {
		t.Errorf("Expected cxxflags %v, got %v", want, opts[CxxFlags])
	}
}

// TestAssembleLibDirsKeepObservedPrefix pins down the -f rendering of -L
// values; see the TODO in Assemble before changing this
func TestAssembleLibDirsKeepObservedPrefix(t *testing.T) {
	a := &args.Arguments{LibDirs: []string{"/usr/local/lib"}}

	opts := Assemble(a)

	want := []string{"-f/usr/local/lib"}
	if !reflect.DeepEqual(opts[LdFlags], want) {
		t.Errorf("Expected ldflags %v, got %v", want, opts[LdFlags])
	}
}

// TestAssemblePassesPassThrough tests that pass names are forwarded untouched
func TestAssemblePassesPassThrough(t *testing.T) {
	a := &args.Arguments{Passes: []string{"inline", "unroll"}}

	opts := Assemble(a)

	if !reflect.DeepEqual(opts[Opts], []string{"inline", "unroll"}) {
		t.Errorf("Expected opts [inline unroll], got %v", opts[Opts])
	}
}

// TestAssembleOmitsEmptyCategories tests that absent categories have no key
// at all; the backend treats a missing key differently from an empty list
func TestAssembleOmitsEmptyCategories(t *testing.T) {
	a := &args.Arguments{}

	opts := Assemble(a)

	if len(opts) != 0 {
		t.Errorf("Expected no categories for empty arguments, got %v", opts)
	}
	for _, key := range []string{CppFlags, CxxFlags, LdFlags, Opts} {
		if _, present := opts[key]; present {
			t.Errorf("Expected key %q to be absent", key)
		}
	}
}

// TestAssembleDeterministic tests that two runs over the same input agree
func TestAssembleDeterministic(t *testing.T) {
	a := &args.Arguments{
		Includes: []string{"/a"},
		Defines:  []string{"NDEBUG"},
		Optimize: []string{"3"},
		MFlags:   []string{"tune=native"},
		FFlags:   []string{"fast-math"},
		LibDirs:  []string{"/lib"},
		Passes:   []string{"inline"},
		Debug:    true,
	}

	first := Assemble(a)
	second := Assemble(a)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical output, got %v and %v", first, second)
	}
}

// TestAssembleDoesNotAliasInput tests that the result owns its slices
func TestAssembleDoesNotAliasInput(t *testing.T) {
	a := &args.Arguments{Passes: []string{"inline"}}

	opts := Assemble(a)
	opts[Opts][0] = "mutated"

	if a.Passes[0] != "inline" {
		t.Errorf("Expected input to stay untouched, got %v", a.Passes)
	}
}
