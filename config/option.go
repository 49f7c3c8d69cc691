package config

import (
	"flag"

	"github.com/cshum/thumborurl"
	"go.uber.org/zap"
)

// Callback parses the flag set once every Option registered its flags
type Callback func() (logger *zap.Logger, isDebug bool)

// Option registers flags on fs, calls cb to parse them,
// then returns the URLBuilder option they configure
type Option func(fs *flag.FlagSet, cb Callback) thumborurl.Option

// ApplyOptions runs options in reverse order so that every flag is registered
// before the innermost cb parses the flag set
func ApplyOptions(fs *flag.FlagSet, cb Callback, options ...Option) (opts []thumborurl.Option) {
	opts, _, _ = applyOptions(fs, cb, options...)
	return
}

func applyOptions(
	fs *flag.FlagSet, cb Callback, options ...Option,
) (opts []thumborurl.Option, logger *zap.Logger, isDebug bool) {
	if len(options) == 0 {
		logger, isDebug = cb()
		return
	}
	var last = len(options) - 1
	var called bool
	if options[last] == nil {
		return applyOptions(fs, cb, options[:last]...)
	}
	opt := options[last](fs, func() (*zap.Logger, bool) {
		opts, logger, isDebug = applyOptions(fs, cb, options[:last]...)
		called = true
		return logger, isDebug
	})
	opts = append(opts, opt)
	if !called {
		var inner []thumborurl.Option
		inner, logger, isDebug = applyOptions(fs, cb, options[:last]...)
		opts = append(inner, opts...)
	}
	return
}

// WithThumbor registers the key and URL scheme flags
func WithThumbor(fs *flag.FlagSet, cb Callback) thumborurl.Option {
	var (
		thumborSecret = fs.String("thumbor-secret", "",
			"Secret key shared with the thumbor server. Unsafe URLs are generated if empty")
		thumborLegacy = fs.Bool("thumbor-legacy", false,
			"Generate legacy AES encrypted URLs. Weak, for old thumbor servers only")
		thumborBatchConcurrency = fs.Int("thumbor-batch-concurrency", 16,
			"Max concurrency of batch URL generation")
	)
	logger, isDebug := cb()
	options := []thumborurl.Option{
		thumborurl.WithLogger(logger),
		thumborurl.WithDebug(isDebug),
		thumborurl.WithKey(*thumborSecret),
		thumborurl.WithLegacy(*thumborLegacy),
		thumborurl.WithBatchConcurrency(*thumborBatchConcurrency),
	}
	return func(b *thumborurl.URLBuilder) {
		for _, option := range options {
			option(b)
		}
	}
}
