// Package args declares the driver's flag grammar and turns a raw argument
// vector into a parsed Arguments value.
//
// Parsing happens in two steps: response-file references (@file tokens) are
// expanded into the argument vector first, then the flattened vector is
// matched against the grammar. Anything malformed is reported as an
// ArgumentError before any compilation work begins.
package args

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"
)

// ResponseSigil marks an argument token whose remainder names a response
// file. The token is replaced in place by the whitespace-split contents of
// that file.
const ResponseSigil = '@'

// Arguments is the raw, parsed form of one driver invocation.
//
// Multi-valued flags keep their left-to-right order of appearance, across
// direct arguments and response-file expansions alike. The value is built
// once per invocation and not modified afterwards.
type Arguments struct {
	Output string `short:"o" value-name:"FILE" description:"Place the output into FILE"`

	TranslateOnly    bool `short:"E" description:"Only translate the module to C++, do not compile it"`
	RawTranslateOnly bool `short:"e" description:"Like -E, but omit the Python binding glue"`

	Verbose bool `short:"v" description:"Verbose output"`
	Debug   bool `short:"g" description:"Compile the generated code with debug information"`

	Passes   []string `short:"p" value-name:"PASS" description:"Optimization pass to run, in order of appearance"`
	FFlags   []string `short:"f" value-name:"FLAG" description:"Extra -f codegen flag for the C++ compiler"`
	MFlags   []string `short:"m" value-name:"FLAG" description:"Extra -m machine flag for the C++ compiler"`
	Includes []string `short:"I" value-name:"DIR" description:"Extra include search directory"`
	LibDirs  []string `short:"L" value-name:"DIR" description:"Extra library search directory"`
	Defines  []string `short:"D" value-name:"MACRO" description:"Extra preprocessor definition"`
	Optimize []string `short:"O" value-name:"LEVEL" default:"2" description:"Optimization level for the C++ compiler"`

	Positional struct {
		Input string `positional-arg-name:"input_file" required:"true" description:"Module to compile (.py or .cpp)"`
	} `positional-args:"true"`
}

// TranslateRequested reports whether any translate-only mode was asked for.
// -e implies -E.
func (a *Arguments) TranslateRequested() bool {
	return a.TranslateOnly || a.RawTranslateOnly
}

// ArgumentError reports malformed command-line input. It is raised before
// any backend work begins and is not part of the backend failure taxonomy:
// the driver prints the usage text and exits immediately.
type ArgumentError struct {
	Usage string // rendered help text for the grammar
	Help  bool   // the user explicitly asked for the help text
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Err == nil {
		return "invalid arguments"
	}
	return e.Err.Error()
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// Parse expands response files in argv and parses the result against the
// flag grammar. argv excludes the program name. On failure the returned
// error is always an *ArgumentError.
func Parse(argv []string) (*Arguments, error) {
	expanded, err := ExpandResponseFiles(argv)
	if err != nil {
		return nil, &ArgumentError{Err: err}
	}

	var parsed Arguments
	parser := flags.NewParser(&parsed, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[OPTIONS] input_file"

	rest, err := parser.ParseArgs(expanded)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return nil, &ArgumentError{Usage: usageText(parser), Help: true}
		}
		return nil, &ArgumentError{Usage: usageText(parser), Err: err}
	}
	if len(rest) > 0 {
		return nil, &ArgumentError{
			Usage: usageText(parser),
			Err:   fmt.Errorf("unexpected argument %q", rest[0]),
		}
	}

	return &parsed, nil
}

// maxResponseDepth bounds nested response-file expansion so a
// self-referencing file fails cleanly instead of recursing forever.
const maxResponseDepth = 16

// ExpandResponseFiles replaces every @file token in argv with the
// whitespace-split contents of the named file, discarding blank tokens.
// Expansion recurses: a token read from a response file may itself name
// another response file.
func ExpandResponseFiles(argv []string) ([]string, error) {
	return expandResponseFiles(argv, 0)
}

func expandResponseFiles(argv []string, depth int) ([]string, error) {
	if depth > maxResponseDepth {
		return nil, fmt.Errorf("response files nested more than %d levels deep; is one referencing itself?", maxResponseDepth)
	}

	expanded := make([]string, 0, len(argv))
	for _, tok := range argv {
		if len(tok) == 0 || tok[0] != ResponseSigil {
			expanded = append(expanded, tok)
			continue
		}

		name := tok[1:]
		content, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("cannot read response file %s: %w", name, err)
		}

		nested, err := expandResponseFiles(strings.Fields(string(content)), depth+1)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, nested...)
	}
	return expanded, nil
}

func usageText(p *flags.Parser) string {
	var buf bytes.Buffer
	p.WriteHelp(&buf)
	return buf.String()
}
