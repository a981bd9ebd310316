package logger

import "log/slog"

// Error returns a standard attribute for error values.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Component tags a record with the subsystem that produced it.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
