package convert

import (
	"fmt"
	"io"
)

// Reporter receives the outcome of every matched input file.
type Reporter interface {
	Converted(src, dst string)
	Failed(src, dst string, err error)
}

// TextReporter prints one line per file: successes to Out, failures to Err.
type TextReporter struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool // suppress success lines
}

// Converted implements Reporter.
func (r *TextReporter) Converted(src, dst string) {
	if r.Quiet {
		return
	}
	fmt.Fprintf(r.Out, "converted: %s -> %s\n", src, dst)
}

// Failed implements Reporter.
func (r *TextReporter) Failed(src, dst string, err error) {
	fmt.Fprintf(r.Err, "failed: %s -> %s: %v\n", src, dst, err)
}
