package site

import (
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Clean removes the output root and everything below it. An absent output
// root is reported as a NotFoundError.
func (b *Builder) Clean() error {
	out := b.cfg.Paths.Output
	return metrics.TimeStage(b.recorder, metrics.StageClean, func() error {
		start := time.Now()
		exists, err := b.fs.Exists(out)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat output directory").
				WithContext("path", out).
				Build()
		}
		if !exists {
			return errors.NotFoundError("output directory does not exist").
				WithContext("path", out).
				Build()
		}
		if err := b.fs.RemoveAll(out); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to remove output directory").
				WithContext("path", out).
				Build()
		}
		b.logger.Info("Output removed", logfields.Path(out),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		return nil
	})
}
