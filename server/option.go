package server

import (
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Option Server option
type Option func(s *Server)

// WithAddr sets the listen address, taking precedence over WithAddress and WithPort
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.Addr = addr
	}
}

func WithAddress(address string) Option {
	return func(s *Server) {
		s.Address = address
	}
}

func WithPort(port int) Option {
	return func(s *Server) {
		if port > 0 {
			s.Port = port
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.Debug = debug
	}
}

func WithMiddleware(middleware Middleware) Option {
	return func(s *Server) {
		if middleware != nil {
			s.Handler = middleware(s.Handler)
		}
	}
}

func WithPathPrefix(prefix string) Option {
	return func(s *Server) {
		s.PathPrefix = prefix
	}
}

func WithCORS(enabled bool) Option {
	return func(s *Server) {
		if enabled {
			s.Handler = cors.Default().Handler(s.Handler)
		}
	}
}

func WithAccessLog(enabled bool) Option {
	return func(s *Server) {
		s.AccessLog = enabled
	}
}

func WithStripQueryString(enabled bool) Option {
	return func(s *Server) {
		s.StripQueryString = enabled
	}
}

func WithSentry(dsn string) Option {
	return func(s *Server) {
		s.SentryDsn = dsn
	}
}

func WithTLS(certFile, keyFile string) Option {
	return func(s *Server) {
		s.CertFile = certFile
		s.KeyFile = keyFile
	}
}

// WithMaxBodyBytes limits the size of JSON request bodies
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.MaxBodyBytes = n
		}
	}
}

func WithStartupTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.StartupTimeout = timeout
		}
	}
}

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.ShutdownTimeout = timeout
		}
	}
}

func WithMetrics(metrics Metrics) Option {
	return func(s *Server) {
		s.Metrics = metrics
	}
}
