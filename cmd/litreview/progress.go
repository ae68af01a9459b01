package main

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// reporter provides progress feedback during batch extraction.
type reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// newReporter returns a terminal progress bar, or line-by-line output when
// running under CI.
func newReporter(w io.Writer) reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &lineReporter{w: w}
	}
	return &barReporter{w: w}
}

// barReporter displays a progress bar in the terminal.
type barReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *barReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *barReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// lineReporter prints line-by-line progress suitable for CI logs.
type lineReporter struct {
	w     io.Writer
	total int
}

func (r *lineReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.w, "Extracting %d items\n", total)
}

func (r *lineReporter) Update(current int, message string) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *lineReporter) Finish() {
	fmt.Fprintln(r.w, "Extraction complete")
}
