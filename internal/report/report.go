// Package report turns driver and backend failures into user-facing log
// output and an exit decision, and owns construction of the process logger.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/op/go-logging.v1"

	"pyaot/internal/args"
	"pyaot/internal/backend"
	"pyaot/internal/dispatch"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// logFormat renders (severity, message) events. The format is the only
// place that knows about rendering; swapping it swaps the presentation.
var logFormat = logging.MustStringFormatter(
	`%{color}%{level:.4s}%{color:reset} %{message}`,
)

// NewLogger builds the process logger. The level is fixed here, once,
// before any work begins, and never changes afterwards.
func NewLogger(verbose bool) *logging.Logger {
	return newLogger(os.Stderr, !color.NoColor, verbose)
}

func newLogger(w io.Writer, colored, verbose bool) *logging.Logger {
	log := logging.MustGetLogger("pyaot")

	be := logging.NewLogBackend(w, "", 0)
	be.Color = colored

	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(be, logFormat))
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.INFO, "")
	}

	log.SetBackend(leveled)
	return log
}

// Decision is what the reporter decided for one failure: the message to
// log at critical severity, and whether the failure should propagate
// instead of exiting cleanly.
type Decision struct {
	Message   string
	Propagate bool
}

// Decide maps a failure to its user-facing message and exit behavior.
// Every kind is absorbed into a clean exit-1 message, except unimplemented
// translator features: those propagate so the process dies with the full
// failure context attached for a bug report.
func Decide(err error) Decision {
	var (
		notFound      *dispatch.InputNotFoundError
		badExt        *dispatch.UnsupportedExtensionError
		badCombo      *dispatch.InvalidCombinationError
		unimplemented *backend.UnimplementedError
		compileErr    *backend.CompileError
		environment   *backend.EnvironmentError
		ioErr         *backend.IOError
	)

	switch {
	case errors.As(err, &unimplemented):
		return Decision{
			Message:   "the translator hit a construct it cannot compile yet; please report this: " + unimplemented.Detail,
			Propagate: true,
		}
	case errors.As(err, &notFound):
		return Decision{Message: notFound.Error()}
	case errors.As(err, &badExt):
		return Decision{Message: badExt.Error()}
	case errors.As(err, &badCombo):
		return Decision{Message: badCombo.Error()}
	case errors.As(err, &compileErr):
		msg := "the C++ toolchain rejected the generated code: " + compileErr.Err.Error()
		if compileErr.Output != "" {
			msg += "\n" + strings.TrimRight(compileErr.Output, "\n")
		}
		return Decision{Message: msg}
	case errors.As(err, &environment):
		return Decision{Message: environment.Error() + "; check your toolchain installation"}
	case errors.As(err, &ioErr):
		return Decision{Message: "filesystem error: " + ioErr.Error()}
	default:
		return Decision{Message: err.Error()}
	}
}

// Fail logs the failure and terminates the process according to Decide.
// It does not return.
func Fail(log *logging.Logger, err error) {
	d := Decide(err)
	log.Critical(d.Message)
	if d.Propagate {
		panic(err)
	}
	os.Exit(ExitFailure)
}

// FailUsage reports a malformed command line: the offending detail in red,
// the usage text, and an immediate exit. A help request prints the usage
// text alone and exits successfully.
func FailUsage(argErr *args.ArgumentError) {
	if argErr.Help {
		fmt.Fprint(os.Stdout, argErr.Usage)
		os.Exit(ExitSuccess)
	}

	fmt.Fprintln(os.Stderr, color.RedString("error: %s", argErr.Error()))
	if argErr.Usage != "" {
		fmt.Fprint(os.Stderr, argErr.Usage)
	}
	os.Exit(ExitFailure)
}
