package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	collectionuc "github.com/raviX007/natural-language-wine-search/internal/usecase/collection"
)

// newProgress returns a ProgressFunc that draws a bar on w. The bar is created on the
// first report, so nothing is drawn when there is nothing to insert.
func newProgress(w io.Writer, description string) collectionuc.ProgressFunc {
	var (
		bar *progressbar.ProgressBar
		mu  sync.Mutex
	)
	return func(done, total int) {
		mu.Lock()
		defer mu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					_, _ = fmt.Fprintln(w)
				}),
			)
		}
		_ = bar.Set(done)
	}
}
