package tensor

import "log/slog"

// logger receives debug records about allocations and materialized selections.
// It discards everything until SetLogger is called.
var logger = slog.New(slog.DiscardHandler)

// SetLogger installs l as the package logger. A nil logger restores the discarding default.
// Not safe to call concurrently with other operations of this package.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger = l
}
