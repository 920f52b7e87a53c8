// Package toolchain is the exec-based backend adapter. It drives the
// external translator executable and the system C++ compiler, and maps
// their failures onto the backend taxonomy.
package toolchain

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/op/go-logging.v1"

	"pyaot/internal/backend"
	"pyaot/internal/options"
)

const (
	cxxEnv        = "CXX"
	translatorEnv = "PYAOT_TRANSLATE"

	defaultCxx        = "c++"
	defaultTranslator = "pyaot-translate"
)

// unimplementedMarker prefixes translator stderr lines for constructs it
// cannot translate. These are surfaced as UnimplementedError so the driver
// can crash loudly instead of printing a friendly message.
const unimplementedMarker = "not implemented:"

// Toolchain runs the translator and C++ compiler found on PATH (or named
// by $PYAOT_TRANSLATE and $CXX).
type Toolchain struct {
	log *logging.Logger
}

func New(log *logging.Logger) *Toolchain {
	return &Toolchain{log: log}
}

// CompileCxx compiles a translated C++ module into a shared native
// extension at output.
func (t *Toolchain) CompileCxx(input, output string, opts options.CompilerOptions) error {
	cxx, err := lookup(cxxEnv, defaultCxx)
	if err != nil {
		return err
	}

	argv := make([]string, 0, 8)
	argv = append(argv, opts[options.CppFlags]...)
	argv = append(argv, opts[options.CxxFlags]...)
	argv = append(argv, "-shared", "-fPIC", input, "-o", output)
	argv = append(argv, opts[options.LdFlags]...)

	return t.run(cxx, argv)
}

// CompileModule translates a Python module and, unless cppOnly is set,
// compiles the translation into a native extension at output.
func (t *Toolchain) CompileModule(input, output string, cppOnly, rawTranslateOnly bool, opts options.CompilerOptions) error {
	translator, err := lookup(translatorEnv, defaultTranslator)
	if err != nil {
		return err
	}

	cxxPath := output
	if !cppOnly {
		tmpDir, err := os.MkdirTemp("", "pyaot-")
		if err != nil {
			return &backend.IOError{Path: os.TempDir(), Err: err}
		}
		defer os.RemoveAll(tmpDir)

		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		cxxPath = filepath.Join(tmpDir, base+".cpp")
	}

	argv := []string{input, "-o", cxxPath}
	if rawTranslateOnly {
		argv = append(argv, "--no-glue")
	}
	for _, pass := range opts[options.Opts] {
		argv = append(argv, "-p", pass)
	}

	if err := t.run(translator, argv); err != nil {
		return err
	}
	if cppOnly {
		return nil
	}

	return t.CompileCxx(cxxPath, output, opts)
}

// lookup resolves an executable named by an environment override or its
// default name. A miss is an environment failure, not a compile failure.
func lookup(env, fallback string) (string, error) {
	name := os.Getenv(env)
	if name == "" {
		name = fallback
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", &backend.EnvironmentError{Component: name, Err: err}
	}
	return path, nil
}

// run executes one toolchain command, capturing stderr for diagnostics.
func (t *Toolchain) run(path string, argv []string) error {
	t.log.Debugf("exec: %s %s", path, strings.Join(argv, " "))

	cmd := exec.Command(path, argv...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return &backend.IOError{Path: path, Err: err}
	}

	if detail, ok := unimplementedDetail(stderr.String()); ok {
		return &backend.UnimplementedError{Detail: detail}
	}
	return &backend.CompileError{Output: stderr.String(), Err: err}
}

// unimplementedDetail extracts the detail line the translator emits for a
// construct it cannot handle.
func unimplementedDetail(stderr string) (string, bool) {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, unimplementedMarker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
