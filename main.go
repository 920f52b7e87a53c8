// pyaot is the command-line driver for an ahead-of-time Python compiler:
// it turns one Python module (or an already-translated C++ module) into a
// native extension, or stops at the translated C++ when asked to.
//
// The driver itself only parses arguments, assembles backend options,
// validates the request and dispatches it; all translation and native code
// generation happens behind the backend interface.
package main

import (
	"errors"
	"os"

	"pyaot/internal/args"
	"pyaot/internal/backend/toolchain"
	"pyaot/internal/dispatch"
	"pyaot/internal/options"
	"pyaot/internal/report"
)

func main() {
	parsed, err := args.Parse(os.Args[1:])
	if err != nil {
		var argErr *args.ArgumentError
		if !errors.As(err, &argErr) {
			argErr = &args.ArgumentError{Err: err}
		}
		report.FailUsage(argErr)
	}

	// The logger is configured exactly once, before any work begins, and
	// passed by reference from here on.
	log := report.NewLogger(parsed.Verbose)

	d := dispatch.New(toolchain.New(log), log)

	req, err := d.Prepare(parsed, options.Assemble(parsed))
	if err != nil {
		report.Fail(log, err)
	}

	if err := d.Run(req); err != nil {
		report.Fail(log, err)
	}

	log.Infof("wrote %s", req.Output)
}
