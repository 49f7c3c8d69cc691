package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cshum/thumborurl"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Metrics server lifecycle and request instrumentation
type Metrics interface {
	Startup(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Handle(next http.Handler) http.Handler
}

// Server thumbor URL signing HTTP server
type Server struct {
	http.Server
	App              *thumborurl.URLBuilder
	Logger           *zap.Logger
	Debug            bool
	Address          string
	Port             int
	CertFile         string
	KeyFile          string
	PathPrefix       string
	SentryDsn        string
	AccessLog        bool
	StripQueryString bool
	MaxBodyBytes     int64
	StartupTimeout   time.Duration
	ShutdownTimeout  time.Duration
	Metrics          Metrics
}

// New create new Server
func New(app *thumborurl.URLBuilder, options ...Option) *Server {
	s := &Server{}
	s.App = app
	s.Port = 8000
	s.ReadTimeout = time.Second * 30
	s.MaxHeaderBytes = 1 << 20
	s.MaxBodyBytes = 1 << 20
	s.StartupTimeout = time.Second * 10
	s.ShutdownTimeout = time.Second * 10
	s.Logger = zap.NewNop()
	s.Handler = s.routes()

	for _, option := range options {
		option(s)
	}
	if s.Addr == "" {
		s.Addr = s.Address + ":" + strconv.Itoa(s.Port)
	}
	if s.PathPrefix != "" {
		s.Handler = http.StripPrefix(s.PathPrefix, s.Handler)
	}
	if s.StripQueryString {
		// wraps StripPrefix so the redirect keeps the prefix
		s.Handler = stripQueryStringHandler(s.Handler, s.PathPrefix+"/sign")
	}
	if s.AccessLog {
		s.Handler = s.accessLogHandler(s.Handler)
	}
	if !isNil(s.Metrics) {
		s.Handler = s.Metrics.Handle(s.Handler)
	}
	s.Handler = s.panicHandler(s.Handler)
	s.ErrorLog = newServerErrorLog(s.Logger)
	return s
}

// Run server that terminates on SIGINT, SIGTERM signals
func (s *Server) Run() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	s.RunContext(ctx)
}

// RunContext run server with context
func (s *Server) RunContext(ctx context.Context) {
	if s.SentryDsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:     s.SentryDsn,
			Release: thumborurl.Version,
		}); err != nil {
			s.Logger.Error("sentry init", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	s.startup(ctx)

	go func() {
		if err := s.listenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Fatal("listen", zap.Error(err))
		}
	}()
	s.Logger.Info("listen", zap.String("addr", s.Addr), zap.Bool("unsafe", s.App.Unsafe()))
	<-ctx.Done()

	s.shutdown(context.Background())
}

func (s *Server) startup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.StartupTimeout)
	defer cancel()
	if !isNil(s.Metrics) {
		if err := s.Metrics.Startup(ctx); err != nil {
			s.Logger.Fatal("metrics-startup", zap.Error(err))
		}
	}
}

func (s *Server) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.ShutdownTimeout)
	defer cancel()
	s.Logger.Info("shutdown")
	if err := s.Shutdown(ctx); err != nil {
		s.Logger.Error("server-shutdown", zap.Error(err))
	}
	if !isNil(s.Metrics) {
		if err := s.Metrics.Shutdown(ctx); err != nil {
			s.Logger.Error("metrics-shutdown", zap.Error(err))
		}
	}
}

func (s *Server) listenAndServe() error {
	if s.CertFile != "" && s.KeyFile != "" {
		return s.ListenAndServeTLS(s.CertFile, s.KeyFile)
	}
	return s.ListenAndServe()
}

func (s *Server) panicHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub.Recover(rec)
				}
				s.Logger.Error("panic", zap.Error(err))
				resError(w, err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type serverErrorLogWriter struct {
	Logger *zap.Logger
}

func (w *serverErrorLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if strings.HasPrefix(msg, "http: TLS handshake error") ||
		strings.HasPrefix(msg, "http: URL query contains semicolon") {
		w.Logger.Debug("server", zap.String("log", msg))
	} else {
		w.Logger.Warn("server", zap.String("log", msg))
	}
	return len(p), nil
}

func newServerErrorLog(logger *zap.Logger) *log.Logger {
	return log.New(&serverErrorLogWriter{Logger: logger}, "", 0)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
