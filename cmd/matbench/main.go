package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

func main() {
	defer reportPanic(os.Stderr)
	Execute()
}

// reportPanic must be deferred directly so that recover sees the panic.
func reportPanic(w io.Writer) {
	r := recover()
	if r == nil {
		return
	}
	fmt.Fprintf(w, "matbench: unexpected panic: %v\n\n%s\n", r, debug.Stack())
	fmt.Fprintln(w, "Rows already written to the CSV output are complete.")
	exit(1)
}
