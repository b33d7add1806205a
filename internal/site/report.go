package site

import (
	"fmt"
	"time"
)

// Report summarises a successful Generate.
type Report struct {
	BuildID   string
	OutputDir string
	Overwrite bool
	Pages     int
	Entries   int
	Assets    int
	Duration  time.Duration
}

// Summary returns a one-line human readable description.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d pages, %d blog entries, %d assets written to %s in %s",
		r.Pages, r.Entries, r.Assets, r.OutputDir, r.Duration.Round(time.Millisecond))
}
