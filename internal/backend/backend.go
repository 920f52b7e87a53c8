// Package backend declares the interface to the compiler backend and the
// failure kinds it may raise.
//
// The backend proper (translating the source module, running optimization
// passes, emitting and compiling native code) lives behind this interface;
// the driver only selects which entry point to call and interprets what
// comes back.
package backend

import (
	"fmt"

	"pyaot/internal/options"
)

// Backend is the compiler reached through two entry points. Each entry
// point is invoked at most once per process and blocks until the work is
// done or fails.
type Backend interface {
	// CompileCxx compiles an already-translated C++ module into a native
	// extension at output.
	CompileCxx(input, output string, opts options.CompilerOptions) error

	// CompileModule translates a Python module and, unless cppOnly is set,
	// compiles the result into a native extension at output. With cppOnly
	// the translated C++ is the output. rawTranslateOnly additionally omits
	// the Python binding glue normally emitted alongside the translation.
	CompileModule(input, output string, cppOnly, rawTranslateOnly bool, opts options.CompilerOptions) error
}

// CompileError reports that the native toolchain rejected the generated
// code.
type CompileError struct {
	Output string // toolchain stderr, if any was captured
	Err    error
}

func (e *CompileError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("compilation failed: %v\n%s", e.Err, e.Output)
	}
	return fmt.Sprintf("compilation failed: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// EnvironmentError reports a missing or unusable toolchain component.
type EnvironmentError struct {
	Component string
	Err       error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("toolchain component %q is not available: %v", e.Component, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// IOError reports a filesystem failure while driving the backend.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// UnimplementedError reports a source construct the translator cannot
// handle yet. The driver deliberately lets this one crash the process so
// the full failure context survives into a bug report.
type UnimplementedError struct {
	Detail string
}

func (e *UnimplementedError) Error() string {
	return "not implemented: " + e.Detail
}
