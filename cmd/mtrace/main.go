// mtrace: agent trace inspector. Feeds a captured mercury-agent trace through
// the response extractor and prints what the server would return, which makes
// extractor regressions reproducible from saved traces.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mercurylabs/mercury/internal/domain/agent"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("mtrace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	tracePath := fs.String("file", "", "Trace file to inspect (default: stdin)")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, "usage: mtrace [--file trace.log]") //nolint:errcheck
		return 2
	}

	trace, err := readTrace(*tracePath, in)
	if err != nil {
		fmt.Fprintf(errOut, "mtrace: %v\n", err) //nolint:errcheck
		return 1
	}

	text, err := agent.Extract(string(trace))
	if err != nil {
		if errors.Is(err, agent.ErrUnrecognizedFormat) {
			fmt.Fprintln(errOut, "mtrace: no workflow result found in trace") //nolint:errcheck
		} else {
			fmt.Fprintf(errOut, "mtrace: %v\n", err) //nolint:errcheck
		}
		return 1
	}

	fmt.Fprintln(out, text) //nolint:errcheck
	return 0
}

func readTrace(path string, in io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(in)
	}
	return os.ReadFile(path)
}
