package config

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/cshum/thumborurl"
	"github.com/cshum/thumborurl/metrics/prometheusmetrics"
	"github.com/cshum/thumborurl/server"
	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CreateServer parses args and env into a signing Server, nil if -version
func CreateServer(args []string, options ...Option) (srv *server.Server) {
	var (
		fs     = flag.NewFlagSet("thumborurl", flag.ExitOnError)
		logger *zap.Logger
		err    error

		debug        = fs.Bool("debug", false, "Debug mode")
		version      = fs.Bool("version", false, "thumborurl version")
		port         = fs.Int("port", 8000, "Server port")
		bind         = fs.String("bind", "", "Server address and port to bind, e.g. :8000. Overrides -server-address and -port")
		goMaxProcess = fs.Int("gomaxprocs", 0, "GOMAXPROCS")

		_ = fs.String("config", ".env", "Retrieve configuration from the given file")

		serverAddress = fs.String("server-address", "",
			"Server address")
		serverPathPrefix = fs.String("server-path-prefix", "",
			"Server path prefix")
		serverCORS = fs.Bool("server-cors", false,
			"Enable CORS")
		serverStripQueryString = fs.Bool("server-strip-query-string", false,
			"Enable strip query string redirection")
		serverAccessLog = fs.Bool("server-access-log", false,
			"Enable server access log")
		serverMaxBodyBytes = fs.Int64("server-max-body-bytes", 1<<20,
			"Max size of JSON request bodies")

		prometheusBind = fs.String("prometheus-bind", "", "Specify address and port to enable Prometheus metrics, e.g. :5000, prom:7000")
		prometheusPath = fs.String("prometheus-path", "/metrics", "Prometheus metrics path")

		sentryDsn = fs.String("sentry-dsn", "", "Sentry DSN for error and panic reporting")
	)

	appOptions, logger, _ := applyOptions(fs, func() (*zap.Logger, bool) {
		if err = ff.Parse(fs, args,
			ff.WithEnvVars(),
			ff.WithConfigFileFlag("config"),
			ff.WithIgnoreUndefined(true),
			ff.WithAllowMissingConfigFile(true),
			ff.WithConfigFileParser(ff.EnvParser),
		); err != nil {
			panic(err)
		}
		if logger, err = newLogger(*debug, *sentryDsn); err != nil {
			panic(err)
		}
		return logger, *debug
	}, append(options, WithThumbor)...)

	if *version {
		fmt.Println(thumborurl.Version)
		return
	}

	if *goMaxProcess > 0 {
		logger.Debug("GOMAXPROCS", zap.Int("count", *goMaxProcess))
		runtime.GOMAXPROCS(*goMaxProcess)
	}

	app := thumborurl.New(appOptions...)

	serverOptions := []server.Option{
		server.WithAddress(*serverAddress),
		server.WithPort(*port),
		server.WithAddr(*bind),
		server.WithPathPrefix(*serverPathPrefix),
		server.WithCORS(*serverCORS),
		server.WithStripQueryString(*serverStripQueryString),
		server.WithAccessLog(*serverAccessLog),
		server.WithMaxBodyBytes(*serverMaxBodyBytes),
		server.WithSentry(*sentryDsn),
		server.WithLogger(logger),
		server.WithDebug(*debug),
	}
	if *prometheusBind != "" {
		serverOptions = append(serverOptions, server.WithMetrics(prometheusmetrics.New(
			prometheusmetrics.WithAddr(*prometheusBind),
			prometheusmetrics.WithPath(*prometheusPath),
			prometheusmetrics.WithVersion(thumborurl.Version),
			prometheusmetrics.WithLogger(logger),
		)))
	}
	return server.New(app, serverOptions...)
}

// newLogger production or development zap logger,
// with error level entries also sent to Sentry if sentryDsn is set
func newLogger(debug bool, sentryDsn string) (logger *zap.Logger, err error) {
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil || sentryDsn == "" {
		return
	}
	core, err := zapsentry.NewCore(zapsentry.Configuration{
		Level:             zapcore.ErrorLevel,
		EnableBreadcrumbs: true,
		BreadcrumbLevel:   zapcore.InfoLevel,
		Tags:              map[string]string{"component": "thumborurl"},
	}, zapsentry.NewSentryClientFromDSN(sentryDsn))
	if err != nil {
		return
	}
	return zapsentry.AttachCoreToLogger(core, logger), nil
}
