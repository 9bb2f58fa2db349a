// Package progress renders terminal progress bars for long-running phases.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker receives progress updates for a single phase.
type Tracker interface {
	Add(n int)
	Finish()
}

// Factory creates a Tracker for a phase of known size.
type Factory func(description string, total int) Tracker

// Noop is a Factory whose trackers discard all updates.
func Noop(string, int) Tracker { return noop{} }

type noop struct{}

func (noop) Add(int) {}
func (noop) Finish() {}

// Bars returns a Factory that renders bars to stderr.
func Bars() Factory {
	return BarsTo(os.Stderr)
}

// BarsTo returns a Factory that renders bars to w.
func BarsTo(w io.Writer) Factory {
	return func(description string, total int) Tracker {
		return &bar{pb: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
		)}
	}
}

type bar struct {
	pb *progressbar.ProgressBar
}

func (b *bar) Add(n int) { _ = b.pb.Add(n) }
func (b *bar) Finish()   { _ = b.pb.Finish() }
