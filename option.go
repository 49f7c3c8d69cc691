package thumborurl

import (
	"github.com/cshum/thumborurl/metrics/instrumentation"
	"go.uber.org/zap"
)

type Option func(b *URLBuilder)

func WithLogger(logger *zap.Logger) Option {
	return func(b *URLBuilder) {
		if logger != nil {
			b.Logger = logger
		}
	}
}

// WithKey secret key shared with the thumbor server, empty for unsafe URLs
func WithKey(key string) Option {
	return func(b *URLBuilder) {
		if err := b.SetKey(key); err != nil {
			b.Logger.Error("key", zap.Error(err))
		}
	}
}

func WithDebug(debug bool) Option {
	return func(b *URLBuilder) {
		b.Debug = debug
	}
}

// WithLegacy generates legacy encrypted URLs for all Options
func WithLegacy(legacy bool) Option {
	return func(b *URLBuilder) {
		b.Legacy = legacy
	}
}

func WithBatchConcurrency(concurrency int) Option {
	return func(b *URLBuilder) {
		if concurrency > 0 {
			b.BatchConcurrency = concurrency
		}
	}
}

func WithInstrumentation(i *instrumentation.Instrumentation) Option {
	return func(b *URLBuilder) {
		b.Instrumentation = i
	}
}
