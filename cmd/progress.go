package cmd

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
)

// showProgress reports whether the languages command draws a progress bar.
// JSON piped into another program gets no bar.
func showProgress(quiet bool, output string, stdoutIsTerminal bool) bool {
	if quiet {
		return false
	}
	return output != outputJSON || stdoutIsTerminal
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// barProgress draws a progress bar while languages are fetched.
type barProgress struct {
	w   io.Writer
	bar *pb.ProgressBar
}

func newBarProgress(w io.Writer) *barProgress {
	return &barProgress{w: w}
}

func (p *barProgress) Start(total int) {
	if total == 0 {
		return
	}
	p.bar = pb.New(total).SetWriter(p.w).Set("prefix", "Fetching languages ").Start()
}

func (p *barProgress) Step(repo string, err error) {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *barProgress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
