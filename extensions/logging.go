package extensions

import (
	"log/slog"
	"time"

	treectx "github.com/treectx/treectx-go"
)

// LoggingExtension logs every resolve, dispatch, and notify operation
// through a slog handler.
//
// Usage:
//
//	handler := slog.NewJSONHandler(os.Stdout, nil)
//	t := treectx.NewTree(treectx.WithExtension(extensions.NewLoggingExtension(handler)))
type LoggingExtension struct {
	treectx.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a logging extension writing to handler
func NewLoggingExtension(handler slog.Handler) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: treectx.NewBaseExtension("logging"),
		logger:        slog.New(handler),
	}
}

func (e *LoggingExtension) Wrap(next func() (any, error), op *treectx.Operation) (any, error) {
	start := time.Now()
	result, err := next()
	duration := time.Since(start)

	attrs := []any{
		slog.String("op", string(op.Kind)),
		slog.Duration("duration", duration),
	}
	if op.Key != "" {
		attrs = append(attrs, slog.String("key", op.Key))
	}
	if op.Store != nil {
		attrs = append(attrs, slog.String("store", op.Store.Label()))
	}
	if op.Kind == treectx.OpResolve {
		attrs = append(attrs, slog.Int("node", int(op.Node)))
	}

	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		e.logger.Error("operation failed", attrs...)
	} else {
		e.logger.Debug("operation completed", attrs...)
	}

	return result, err
}
