// Package run contains the command to run a Canopy server.
package run

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	goruntime "runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/canopyhq/canopy/internal/build"
	"github.com/canopyhq/canopy/pkg/authn"
	"github.com/canopyhq/canopy/pkg/authn/local"
	"github.com/canopyhq/canopy/pkg/authn/oidc"
	"github.com/canopyhq/canopy/pkg/authn/presharedkey"
	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/password"
	"github.com/canopyhq/canopy/pkg/server"
	"github.com/canopyhq/canopy/pkg/server/commands"
	serverconfig "github.com/canopyhq/canopy/pkg/server/config"
	canopyhttp "github.com/canopyhq/canopy/pkg/server/http"
	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/memory"
	"github.com/canopyhq/canopy/pkg/storage/mysql"
	"github.com/canopyhq/canopy/pkg/storage/postgres"
	"github.com/canopyhq/canopy/pkg/storage/sqlcommon"
	"github.com/canopyhq/canopy/pkg/storage/sqlite"
	"github.com/canopyhq/canopy/pkg/storage/storagewrappers"
	"github.com/canopyhq/canopy/pkg/telemetry"
)

const (
	readHeaderTimeout = 30 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Canopy server",
		Long:  "Run the Canopy server.",
		Run:   run,
		Args:  cobra.NoArgs,
	}

	defaultConfig := serverconfig.DefaultConfig()
	flags := cmd.Flags()

	flags.Duration("request-timeout", defaultConfig.RequestTimeout, "the maximum time spent serving a single request. 0 disables the limit")

	flags.String("http-addr", defaultConfig.HTTP.Addr, "the host:port address to serve the HTTP server on")

	flags.Bool("http-tls-enabled", defaultConfig.HTTP.TLS.Enabled, "enable/disable transport layer security (TLS)")

	flags.String("http-tls-cert", defaultConfig.HTTP.TLS.CertPath, "the (absolute) file path of the certificate to use for the TLS connection")

	flags.String("http-tls-key", defaultConfig.HTTP.TLS.KeyPath, "the (absolute) file path of the TLS key that should be used for the TLS connection")

	cmd.MarkFlagsRequiredTogether("http-tls-enabled", "http-tls-cert", "http-tls-key")

	flags.StringSlice("http-cors-allowed-origins", defaultConfig.HTTP.CORSAllowedOrigins, "specifies the CORS allowed origins")

	flags.StringSlice("http-cors-allowed-headers", defaultConfig.HTTP.CORSAllowedHeaders, "specifies the CORS allowed headers")

	flags.String("authn-method", defaultConfig.Authn.Method, "the authentication method to use. One of 'none', 'local', 'oidc' or 'preshared'")

	flags.String("authn-local-signing-key", defaultConfig.Authn.Local.SigningKey, "the HS256 key signing the tokens issued on login and registration. An ephemeral key is generated when empty")

	flags.String("authn-local-issuer", defaultConfig.Authn.Local.Issuer, "the issuer of the tokens issued on login and registration")

	flags.String("authn-local-audience", defaultConfig.Authn.Local.Audience, "the audience of the tokens issued on login and registration")

	flags.Duration("authn-local-token-ttl", defaultConfig.Authn.Local.TokenTTL, "the lifetime of the tokens issued on login and registration")

	flags.Int("authn-local-bcrypt-cost", defaultConfig.Authn.Local.BcryptCost, "the bcrypt cost used to hash passwords")

	flags.String("authn-oidc-issuer", defaultConfig.Authn.OIDC.Issuer, "the OIDC issuer (authorization server) signing the tokens")

	flags.StringSlice("authn-oidc-issuer-aliases", defaultConfig.Authn.OIDC.IssuerAliases, "the OIDC issuer DNS aliases that will be accepted as valid when verifying the `iss` field of the JWTs.")

	flags.String("authn-oidc-audience", defaultConfig.Authn.OIDC.Audience, "the OIDC audience of the tokens being signed by the authorization server")

	flags.String("authn-oidc-role-claim", defaultConfig.Authn.OIDC.RoleClaim, "the claim holding the role of the caller")

	flags.StringSlice("authn-preshared-keys", defaultConfig.Authn.Preshared.Keys, "one or more preshared keys to use for authentication")

	flags.String("authn-preshared-role", defaultConfig.Authn.Preshared.Role, "the role granted to callers presenting a preshared key")

	flags.Int64("authn-claims-cache-size", defaultConfig.Authn.ClaimsCacheSize, "the number of validated tokens kept in memory")

	flags.String("datastore-engine", defaultConfig.Datastore.Engine, "the datastore engine that will be used for persistence")

	flags.String("datastore-uri", defaultConfig.Datastore.URI, "the connection uri to use to connect to the datastore (for any engine other than 'memory')")

	flags.String("datastore-username", "", "the connection username to use to connect to the datastore (overwrites any username provided in the connection uri)")

	flags.String("datastore-password", "", "the connection password to use to connect to the datastore (overwrites any password provided in the connection uri)")

	flags.Int("datastore-max-open-conns", defaultConfig.Datastore.MaxOpenConns, "the maximum number of open connections to the datastore")

	flags.Int("datastore-max-idle-conns", defaultConfig.Datastore.MaxIdleConns, "the maximum number of connections to the datastore in the idle connection pool")

	flags.Duration("datastore-conn-max-idle-time", defaultConfig.Datastore.ConnMaxIdleTime, "the maximum amount of time a connection to the datastore may be idle")

	flags.Duration("datastore-conn-max-lifetime", defaultConfig.Datastore.ConnMaxLifetime, "the maximum amount of time a connection to the datastore may be reused")

	flags.Uint32("datastore-max-concurrent-reads", defaultConfig.Datastore.MaxConcurrentReads, "the maximum number of read transactions in flight. 0 means unbounded")

	flags.Uint32("datastore-max-concurrent-writes", defaultConfig.Datastore.MaxConcurrentWrites, "the maximum number of write transactions in flight. 0 means unbounded")

	flags.Int("datastore-max-tx-retries", defaultConfig.Datastore.MaxTxRetries, "the number of times a conflicting write transaction is re-run")

	flags.Bool("datastore-metrics-enabled", defaultConfig.Datastore.Metrics.Enabled, "enable/disable sql metrics")

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in")

	flags.String("log-level", defaultConfig.Log.Level, "the log level to use")

	flags.String("log-timestamp-format", defaultConfig.Log.TimestampFormat, "the timestamp format to use for log messages")

	flags.Bool("trace-enabled", defaultConfig.Trace.Enabled, "enable tracing")

	flags.String("trace-otlp-endpoint", defaultConfig.Trace.OTLP.Endpoint, "the endpoint of the trace collector")

	flags.Bool("trace-otlp-tls-enabled", defaultConfig.Trace.OTLP.TLS.Enabled, "use TLS connection for trace collector")

	flags.Float64("trace-sample-ratio", defaultConfig.Trace.SampleRatio, "the fraction of traces to sample. 1 means all, 0 means none.")

	flags.String("trace-service-name", defaultConfig.Trace.ServiceName, "the service name included in sampled traces.")

	flags.Bool("metrics-enabled", defaultConfig.Metrics.Enabled, "enable/disable prometheus metrics on the '/metrics' endpoint")

	flags.String("metrics-addr", defaultConfig.Metrics.Addr, "the host:port address to serve the prometheus metrics server on")

	flags.Bool("seed-enabled", defaultConfig.Seed.Enabled, "register a default admin and user account on start-up when no account exists")

	flags.String("seed-admin-username", defaultConfig.Seed.AdminUsername, "the username of the seeded admin account")

	flags.String("seed-admin-password", defaultConfig.Seed.AdminPassword, "the password of the seeded admin account")

	flags.String("seed-user-username", defaultConfig.Seed.UserUsername, "the username of the seeded user account")

	flags.String("seed-user-password", defaultConfig.Seed.UserPassword, "the password of the seeded user account")

	// NOTE: if you add a new flag here, update the function below, too

	cmd.PreRun = bindRunFlagsFunc(flags)

	return cmd
}

// ReadConfig returns the Canopy server configuration based on the values provided in the server's 'config.yaml' file.
// The 'config.yaml' file is loaded from '/etc/canopy', '$HOME/.canopy', or the current working directory. If no configuration
// file is present, the default values are returned.
func ReadConfig() (*serverconfig.Config, error) {
	config := serverconfig.DefaultConfig()

	viper.SetTypeByDefaultValue(true)
	err := viper.ReadInConfig()
	if err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to load server config: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server config: %w", err)
	}

	return config, nil
}

func run(_ *cobra.Command, _ []string) {
	config, err := ReadConfig()
	if err != nil {
		panic(err)
	}

	if err := config.Verify(); err != nil {
		panic(err)
	}

	logger := logger.MustNewLogger(config.Log.Format, config.Log.Level, config.Log.TimestampFormat)
	serverCtx := &ServerContext{Logger: logger}
	if err := serverCtx.Run(context.Background(), config); err != nil {
		panic(err)
	}
}

type ServerContext struct {
	Logger logger.Logger
}

// telemetryConfig returns the function that must be called to shut down tracing.
func (s *ServerContext) telemetryConfig(config *serverconfig.Config) func() error {
	if config.Trace.Enabled {
		s.Logger.Info(fmt.Sprintf("🕵 tracing enabled: sampling ratio is %v and sending traces to '%s', tls: %t", config.Trace.SampleRatio, config.Trace.OTLP.Endpoint, config.Trace.OTLP.TLS.Enabled))

		options := []telemetry.TracerOption{
			telemetry.WithOTLPEndpoint(config.Trace.OTLP.Endpoint),
			telemetry.WithAttributes(
				attribute.String("service.name", config.Trace.ServiceName),
				attribute.String("service.version", build.Version),
			),
			telemetry.WithSamplingRatio(config.Trace.SampleRatio),
		}

		if !config.Trace.OTLP.TLS.Enabled {
			options = append(options, telemetry.WithOTLPInsecure())
		}

		tp := telemetry.MustNewTracerProvider(options...)
		return func() error {
			// the batch span processor can take up to 5 seconds to export
			ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
			defer cancel()
			return tp.Close(ctx)
		}
	}

	otel.SetTracerProvider(telemetry.Noop())
	return func() error {
		return nil
	}
}

func (s *ServerContext) datastoreConfig(config *serverconfig.Config) (storage.Datastore, error) {
	datastoreOptions := []sqlcommon.DatastoreOption{
		sqlcommon.WithUsername(config.Datastore.Username),
		sqlcommon.WithPassword(config.Datastore.Password),
		sqlcommon.WithLogger(s.Logger),
		sqlcommon.WithMaxOpenConns(config.Datastore.MaxOpenConns),
		sqlcommon.WithMaxIdleConns(config.Datastore.MaxIdleConns),
		sqlcommon.WithConnMaxIdleTime(config.Datastore.ConnMaxIdleTime),
		sqlcommon.WithConnMaxLifetime(config.Datastore.ConnMaxLifetime),
		sqlcommon.WithMaxTxRetries(config.Datastore.MaxTxRetries),
	}

	if config.Datastore.Metrics.Enabled {
		datastoreOptions = append(datastoreOptions, sqlcommon.WithMetrics())
	}

	dsCfg := sqlcommon.NewConfig(datastoreOptions...)

	var datastore storage.Datastore
	var err error
	switch config.Datastore.Engine {
	case "memory":
		datastore = memory.New()
	case "mysql":
		datastore, err = mysql.New(config.Datastore.URI, dsCfg)
		if err != nil {
			return nil, fmt.Errorf("initialize mysql datastore: %w", err)
		}
	case "postgres":
		datastore, err = postgres.New(config.Datastore.URI, dsCfg)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres datastore: %w", err)
		}
	case "sqlite":
		datastore, err = sqlite.New(config.Datastore.URI, dsCfg)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite datastore: %w", err)
		}
	default:
		return nil, fmt.Errorf("storage engine '%s' is unsupported", config.Datastore.Engine)
	}

	s.Logger.Info(fmt.Sprintf("using '%v' storage engine", config.Datastore.Engine))

	if config.Datastore.MaxConcurrentReads > 0 || config.Datastore.MaxConcurrentWrites > 0 {
		datastore = storagewrappers.NewBoundedConcurrencyDatastore(
			datastore,
			config.Datastore.MaxConcurrentReads,
			config.Datastore.MaxConcurrentWrites,
		)
	}

	return datastore, nil
}

// tokenIssuerConfig returns the issuer of the tokens handed out on login and registration.
// It also validates those tokens when the 'local' method is configured.
func (s *ServerContext) tokenIssuerConfig(config *serverconfig.Config) (*local.Authenticator, error) {
	signingKey := config.Authn.Local.SigningKey
	if signingKey == "" {
		s.Logger.Warn("'authn.local.signingKey' is not set, tokens are signed with an ephemeral key and will not survive a restart")

		b := make([]byte, local.MinSigningKeyLength)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("failed to generate a signing key: %w", err)
		}
		signingKey = hex.EncodeToString(b)
	}

	issuer, err := local.NewAuthenticator(local.Config{
		SigningKey: signingKey,
		Issuer:     config.Authn.Local.Issuer,
		Audience:   config.Authn.Local.Audience,
		TokenTTL:   config.Authn.Local.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	return issuer, nil
}

func (s *ServerContext) authenticatorConfig(config *serverconfig.Config, issuer *local.Authenticator) (authn.Authenticator, error) {
	var authenticator authn.Authenticator
	var err error

	switch config.Authn.Method {
	case "none":
		s.Logger.Warn("authentication is disabled, every caller is an anonymous admin")
		return authn.NoopAuthenticator{}, nil
	case "local":
		s.Logger.Info("using 'local' authentication")
		authenticator = issuer
	case "preshared":
		s.Logger.Info("using 'preshared' authentication")
		authenticator, err = presharedkey.NewPresharedKeyAuthenticator(
			config.Authn.Preshared.Keys,
			authn.ParseRole(config.Authn.Preshared.Role),
		)
	case "oidc":
		s.Logger.Info("using 'oidc' authentication")
		authenticator, err = oidc.NewRemoteOidcAuthenticator(oidc.Config{
			IssuerURL:     config.Authn.OIDC.Issuer,
			IssuerAliases: config.Authn.OIDC.IssuerAliases,
			Audience:      config.Authn.OIDC.Audience,
			RoleClaim:     config.Authn.OIDC.RoleClaim,
		})
	default:
		return nil, fmt.Errorf("unsupported authentication method '%v'", config.Authn.Method)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authenticator: %w", err)
	}

	if config.Authn.ClaimsCacheSize <= 0 {
		return authenticator, nil
	}

	cached, err := authn.NewCachedAuthenticator(authenticator, config.Authn.ClaimsCacheSize)
	if err != nil {
		authenticator.Close()
		return nil, fmt.Errorf("failed to initialize claims cache: %w", err)
	}

	return cached, nil
}

func (s *ServerContext) seedUsers(ctx context.Context, svr *server.Server, config *serverconfig.Config) error {
	created, err := svr.SeedUsers(ctx, []commands.RegisterRequest{
		{Username: config.Seed.AdminUsername, Password: config.Seed.AdminPassword, Role: string(authn.RoleAdmin)},
		{Username: config.Seed.UserUsername, Password: config.Seed.UserPassword, Role: string(authn.RoleUser)},
	})
	if err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}

	if created > 0 {
		s.Logger.Info("seeded default accounts", zap.Int("accounts", created))
	}

	return nil
}

func (s *ServerContext) Run(ctx context.Context, config *serverconfig.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerProviderCloser := s.telemetryConfig(config)
	defer func() {
		if err := tracerProviderCloser(); err != nil {
			s.Logger.Error("failed to shutdown tracing", zap.Error(err))
		}
	}()

	datastore, err := s.datastoreConfig(config)
	if err != nil {
		return err
	}
	defer datastore.Close()

	issuer, err := s.tokenIssuerConfig(config)
	if err != nil {
		return err
	}

	authenticator, err := s.authenticatorConfig(config, issuer)
	if err != nil {
		return err
	}

	svr := server.MustNewServerWithOpts(
		server.WithDatastore(datastore),
		server.WithLogger(s.Logger),
		server.WithTokenIssuer(issuer),
		server.WithAuthenticator(authenticator),
		server.WithPasswordHasher(password.NewHasher(config.Authn.Local.BcryptCost)),
	)
	defer svr.Close()

	if config.Seed.Enabled {
		if err := s.seedUsers(ctx, svr, config); err != nil {
			return err
		}
	}

	router := canopyhttp.NewRouter(svr,
		canopyhttp.WithLogger(s.Logger),
		canopyhttp.WithRequestTimeout(config.RequestTimeout),
		canopyhttp.WithServiceName(config.Trace.ServiceName),
	)

	httpServer := &http.Server{
		Addr: config.HTTP.Addr,
		Handler: canopyhttp.NewHandler(router, canopyhttp.CORSOptions{
			AllowedOrigins: config.HTTP.CORSAllowedOrigins,
			AllowedHeaders: config.HTTP.CORSAllowedHeaders,
		}, s.Logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	listener, err := net.Listen("tcp", config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	var metricsServer *http.Server
	if config.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		metricsServer = &http.Server{Addr: config.Metrics.Addr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
	}

	s.Logger.Info(
		"starting canopy service...",
		zap.String("version", build.Version),
		zap.String("date", build.Date),
		zap.String("commit", build.Commit),
		zap.String("go-version", goruntime.Version()),
		zap.String("datastore", config.Datastore.Engine),
		zap.String("authn", config.Authn.Method),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tlsEnabled := config.HTTP.TLS != nil && config.HTTP.TLS.Enabled

		var err error
		if tlsEnabled {
			s.Logger.Info("HTTP TLS is enabled, serving connections using the provided certificate")
			s.Logger.Info(fmt.Sprintf("🚀 starting HTTP server on '%s'...", listener.Addr().String()))
			err = httpServer.ServeTLS(listener, config.HTTP.TLS.CertPath, config.HTTP.TLS.KeyPath)
		} else {
			s.Logger.Warn("HTTP TLS is disabled, serving connections using insecure plaintext")
			s.Logger.Info(fmt.Sprintf("🚀 starting HTTP server on '%s'...", listener.Addr().String()))
			err = httpServer.Serve(listener)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server closed with unexpected error: %w", err)
		}
		s.Logger.Info("HTTP server shut down.")
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			s.Logger.Info(fmt.Sprintf("📈 starting prometheus metrics server on '%s'", config.Metrics.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to start prometheus metrics server: %w", err)
			}
			s.Logger.Info("metrics server shut down.")
			return nil
		})
	}

	g.Go(func() error {
		// wait for cancellation signal or for one of the servers to fail
		<-gctx.Done()
		s.Logger.Info("attempting to shutdown gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.Logger.Info("failed to shutdown the http server", zap.Error(err))
		}

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				s.Logger.Info("failed to shutdown the prometheus metrics server", zap.Error(err))
			}
		}

		return nil
	})

	err = g.Wait()

	s.Logger.Info("server exited. goodbye 👋")

	return err
}
