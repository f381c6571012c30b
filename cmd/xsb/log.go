package main

import (
	"io"
	"log/slog"
	"os"
)

// logLevel is lowered to debug by -v.
var logLevel = new(slog.LevelVar)

var theLog = newLog(os.Stderr)

func newLog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// logger returns the log of the running subcommand.
func (cfg *MainConfig) logger() *slog.Logger {
	if cfg.log == nil {
		return theLog
	}
	return cfg.log
}
