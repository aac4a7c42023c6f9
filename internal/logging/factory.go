package logging

import (
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/zap"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the named backend. Zap output always goes to
// stderr through its production config; w is used by the slog backend only.
// The returned func flushes buffered output.
func New(backend string, w io.Writer) (Logger, func(), error) {
	switch backend {
	case "", BackendSlog:
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
		return NewSlogLogger(slog.New(h)), func() {}, nil
	case BackendZap:
		zl, err := zap.NewProduction()
		if err != nil {
			return nil, nil, fmt.Errorf("zap init: %w", err)
		}
		l := NewZapLogger(zl)
		return l, func() { _ = l.Sync() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
