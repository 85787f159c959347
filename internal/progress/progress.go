package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"vidsum/internal/services/ytdlp"
)

const spinnerInterval = 120 * time.Millisecond

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Download renders yt-dlp progress as a percentage bar.
type Download struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewDownload returns a download bar writing to w. The bar stays silent when
// enabled is false.
func NewDownload(w io.Writer, enabled bool) *Download {
	if !enabled {
		return &Download{}
	}
	return &Download{bar: progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("downloading audio"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)}
}

// Update moves the bar to the reported percentage. It matches the callback
// accepted by acquisition.WithProgress.
func (d *Download) Update(update ytdlp.ProgressUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bar == nil {
		return
	}
	percent := int(update.Percent)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	_ = d.bar.Set(percent)
}

// Finish clears the bar from the terminal.
func (d *Download) Finish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bar == nil {
		return
	}
	_ = d.bar.Finish()
	d.bar = nil
}

// WaitIndicator returns a function that starts a spinner for model and
// returns its stop function. It matches summarization.WithWaitIndicator.
func WaitIndicator(w io.Writer, enabled bool) func(model string) func() {
	return func(model string) func() {
		if !enabled {
			return func() {}
		}
		return startSpinner(w, fmt.Sprintf("generating summary with %s", model))
	}
}

func startSpinner(w io.Writer, description string) func() {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			_ = bar.Finish()
		})
	}
}
