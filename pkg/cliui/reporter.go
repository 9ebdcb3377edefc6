package cliui

import (
	"fmt"
	"io"
)

// Reporter prints name matcher notices to a terminal, one marked line each.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) Success(msg string) { r.print(SuccessMark, msg) }
func (r *Reporter) Info(msg string)    { r.print(InfoMark, msg) }
func (r *Reporter) Warn(msg string)    { r.print(WarnMark, msg) }
func (r *Reporter) Error(msg string)   { r.print(FailMark, msg) }

func (r *Reporter) print(mark, msg string) {
	fmt.Fprintf(r.w, "  %s %s\n", mark, msg)
}
