package handoff

import (
	"log/slog"

	"github.com/randomizedcoder/shiftbuf/internal/logging"
)

type options struct {
	capacity int
	logger   *slog.Logger
}

// Option configures a Buffer.
type Option func(*options)

// WithCapacity bounds the number of pending entries. The ring storage
// rounds n up to a power of two. n <= 0 means unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger used for debug tracing of rejected pushes
// and wakeups.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func defaultOptions() options {
	return options{
		logger: logging.Discard(),
	}
}
