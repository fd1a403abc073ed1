// Package progress renders a textual progress indicator for long fetch loops.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar counts completed items and draws a progress bar to a writer.
type Bar struct {
	bar     *progressbar.ProgressBar
	out     io.Writer
	total   int64
	current int64
	start   time.Time
}

// New creates a bar for total items. A nil writer discards all output.
func New(total int64, description string, w io.Writer) *Bar {
	if w == nil {
		w = io.Discard
	}
	return &Bar{
		bar: progressbar.NewOptions64(
			total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("req"),
			progressbar.OptionSetRenderBlankState(true),
		),
		out:   w,
		total: total,
		start: time.Now(),
	}
}

// Add advances the bar by n items.
func (b *Bar) Add(n int64) {
	b.current += n
	_ = b.bar.Add64(n)
}

// Current returns the number of completed items.
func (b *Bar) Current() int64 { return b.current }

// Total returns the expected number of items.
func (b *Bar) Total() int64 { return b.total }

// Finish completes the bar and prints a summary line.
func (b *Bar) Finish() {
	_ = b.bar.Finish()
	elapsed := time.Since(b.start)
	fmt.Fprintf(b.out, "\nFetched %d/%d in %s\n", b.current, b.total, elapsed.Round(time.Millisecond))
}
