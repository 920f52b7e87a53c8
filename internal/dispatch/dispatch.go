// Package dispatch validates a compilation request and hands it to exactly
// one backend entry point.
//
// A request moves through a strict linear sequence: input check, extension
// check, output derivation, mode/extension compatibility check, then a
// single backend call. The first failure wins and nothing is retried.
package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/op/go-logging.v1"

	"pyaot/internal/args"
	"pyaot/internal/backend"
	"pyaot/internal/options"
)

// Mode selects how far the backend takes the input module.
type Mode int

const (
	FullCompile      Mode = iota // translate and build the native extension
	TranslateOnly                // emit translated C++ only
	TranslateOnlyRaw             // emit translated C++ without binding glue
)

func (m Mode) String() string {
	switch m {
	case TranslateOnly:
		return "translate-only"
	case TranslateOnlyRaw:
		return "translate-only, no glue"
	default:
		return "full compile"
	}
}

// NativeSuffix is the extension given to a compiled extension module.
const NativeSuffix = "so"

// Request is a fully validated, single-shot compilation request. It is
// constructed by Prepare, consumed by exactly one Run, and never mutated.
type Request struct {
	Input   string
	Output  string
	Mode    Mode
	Options options.CompilerOptions
}

// InputNotFoundError reports an input path that does not exist as a
// readable file.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// UnsupportedExtensionError reports an input whose extension the driver
// does not understand.
type UnsupportedExtensionError struct {
	Path string
	Ext  string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported input extension %q (want .py or .cpp): %s", e.Ext, e.Path)
}

// InvalidCombinationError reports a C++ input combined with a translate-only
// mode: the input is already translated.
type InvalidCombinationError struct {
	Path string
}

func (e *InvalidCombinationError) Error() string {
	return fmt.Sprintf("%s is already C++; translating it again makes no sense", e.Path)
}

// Dispatcher validates requests against the filesystem and invokes the
// backend. The backend and logger are injected once at startup.
type Dispatcher struct {
	Backend backend.Backend
	Log     *logging.Logger
}

func New(b backend.Backend, log *logging.Logger) *Dispatcher {
	return &Dispatcher{Backend: b, Log: log}
}

// Prepare runs the validation and derivation sequence against the parsed
// arguments and produces a Request. Steps run in order; the first failure
// terminates the sequence and no backend call is made.
func (d *Dispatcher) Prepare(a *args.Arguments, opts options.CompilerOptions) (*Request, error) {
	input := a.Positional.Input

	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		return nil, &InputNotFoundError{Path: input}
	}

	base := filepath.Base(input)
	ext := filepath.Ext(base)
	moduleName := strings.TrimSuffix(base, ext)

	if ext != ".py" && ext != ".cpp" {
		return nil, &UnsupportedExtensionError{Path: input, Ext: ext}
	}

	mode := FullCompile
	switch {
	case a.RawTranslateOnly:
		mode = TranslateOnlyRaw
	case a.TranslateOnly:
		mode = TranslateOnly
	}

	output := a.Output
	if output == "" {
		suffix := NativeSuffix
		if mode != FullCompile {
			suffix = "cpp"
		}
		output = moduleName + "." + suffix
	}

	if ext == ".cpp" && mode != FullCompile {
		return nil, &InvalidCombinationError{Path: input}
	}

	return &Request{
		Input:   input,
		Output:  output,
		Mode:    mode,
		Options: opts,
	}, nil
}

// Run invokes exactly one backend entry point for the request, selected by
// the input extension. It blocks until the backend is done.
func (d *Dispatcher) Run(req *Request) error {
	d.Log.Debugf("dispatching %s -> %s (%s)", req.Input, req.Output, req.Mode)

	if filepath.Ext(req.Input) == ".cpp" {
		return d.Backend.CompileCxx(req.Input, req.Output, req.Options)
	}

	cppOnly := req.Mode != FullCompile
	rawGlue := req.Mode == TranslateOnlyRaw
	return d.Backend.CompileModule(req.Input, req.Output, cppOnly, rawGlue, req.Options)
}
