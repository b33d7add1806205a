package preview

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/browser"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

func openInBrowser(url string) error {
	return browser.OpenURL(url)
}

// openAfter opens url once delay has passed, unless ctx ends first.
func openAfter(ctx context.Context, url string, delay time.Duration, open func(string) error, logger *slog.Logger) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	if err := open(url); err != nil {
		logger.Warn("Failed to open browser", logfields.URL(url), logfields.Error(err))
		return
	}
	logger.Debug("Opened browser", logfields.URL(url))
}
