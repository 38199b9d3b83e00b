package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"setupam/internal/ledger"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldColorize(writer io.Writer) bool {
	return isTerminal(writer)
}

func colorStatus(status ledger.Status, colorize bool) string {
	label := string(status)
	if !colorize {
		return label
	}
	switch status {
	case ledger.StatusCompleted:
		return text.FgGreen.Sprint(label)
	case ledger.StatusFailed:
		return text.FgRed.Sprint(label)
	default:
		return text.FgYellow.Sprint(label)
	}
}

// copyProgress adapts a progress bar to the compiler's tick interface. Each
// split adds its total to the bar.
type copyProgress struct {
	bar *progressbar.ProgressBar
	max int
}

func newCopyProgress(w io.Writer) *copyProgress {
	bar := progressbar.NewOptions(0,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("copying audio"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	return &copyProgress{bar: bar}
}

func (p *copyProgress) ChangeMax(n int) {
	p.max += n
	p.bar.ChangeMax(p.max)
}

func (p *copyProgress) Add(n int) error {
	return p.bar.Add(n)
}

func (p *copyProgress) Finish() {
	_ = p.bar.Finish()
}
