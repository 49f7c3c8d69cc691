package prometheusmetrics

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildInfo constant 1 labelled with the running version
var BuildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "thumborurl_build_info",
		Help: "Build information of the thumbor URL signing service",
	},
	[]string{"version"},
)

// RequestDuration HTTP request latency of the signing service
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "thumborurl_http_request_duration_seconds",
		Help:    "HTTP request latency of the thumbor URL signing service",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"code", "method"},
)

func init() {
	prometheus.MustRegister(BuildInfo, RequestDuration)
}

// Server serves prometheus metrics on its own listener
type Server struct {
	http.Server

	Host    string
	Port    int
	Path    string
	Version string
	Logger  *zap.Logger
}

// New create new metrics Server
func New(options ...Option) *Server {
	s := &Server{
		Port:   9000,
		Path:   "/metrics",
		Logger: zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}

	s.Addr = s.Host + ":" + strconv.Itoa(s.Port)
	if s.Version != "" {
		BuildInfo.WithLabelValues(s.Version).Set(1)
	}

	mux := http.NewServeMux()
	mux.Handle(s.Path, promhttp.Handler())
	if s.Path != "/" {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, s.Path, http.StatusPermanentRedirect)
		})
	}
	s.Handler = mux

	return s
}

// Startup starts listening in background
func (s *Server) Startup(_ context.Context) error {
	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal("prometheus listen", zap.Error(err))
		}
	}()
	s.Logger.Info("prometheus listen", zap.String("addr", s.Addr), zap.String("path", s.Path))
	return nil
}

// Handle instruments next with RequestDuration
func (s *Server) Handle(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(RequestDuration, next)
}

// Shutdown stops the metrics listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

// Option Server option
type Option func(s *Server)

// WithHost with server address option
func WithHost(address string) Option {
	return func(s *Server) {
		s.Host = address
	}
}

// WithAddr sets host and port from a "host:port" bind address, ignored if malformed
func WithAddr(addr string) Option {
	return func(s *Server) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return
		}
		s.Host = host
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			s.Port = n
		}
	}
}

// WithPort with port option
func WithPort(port int) Option {
	return func(s *Server) {
		if port > 0 {
			s.Port = port
		}
	}
}

// WithPath with path option
func WithPath(path string) Option {
	return func(s *Server) {
		if path != "" {
			s.Path = path
		}
	}
}

// WithVersion sets the version reported by thumborurl_build_info
func WithVersion(version string) Option {
	return func(s *Server) {
		s.Version = version
	}
}

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}
