package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySource     = "source"
	KeyOutput     = "output"
	KeySlug       = "slug"
	KeyDate       = "date"
	KeyCount      = "count"
	KeyOverwrite  = "overwrite"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr        { return slog.String(KeySource, p) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Date(d string) slog.Attr          { return slog.String(KeyDate, d) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Overwrite(enabled bool) slog.Attr { return slog.Bool(KeyOverwrite, enabled) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
