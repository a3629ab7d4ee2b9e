// Package logfields provides canonical log field names and helpers for
// structured logging across the pipeline.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyPages      = "pages"
	KeyDurationMS = "duration_ms"
	KeyTemplate   = "template"
	KeyError      = "error"
)

func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }     // Stage returns a slog.Attr for a stage name.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }       // RunID returns a slog.Attr for a pipeline run id.
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }           // Pages returns a slog.Attr for a page count.
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) } // DurationMS returns a slog.Attr for a duration in ms.
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }  // Template returns a slog.Attr for a template name.

// Path returns a slog.Attr for a joined page path.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// Error returns a slog.Attr for an error, or an empty string if nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
