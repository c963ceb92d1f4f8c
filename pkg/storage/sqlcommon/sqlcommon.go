package sqlcommon

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/canopyhq/canopy/internal/build"
	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/storage"
)

var tracer = otel.Tracer("canopy/pkg/storage/sqlcommon")

func startTrace(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "sqlcommon."+name)
}

const (
	// DefaultMaxTxRetries is the number of times a write transaction is re-run after a
	// serialization conflict before the conflict is returned to the caller.
	DefaultMaxTxRetries = 10
	// DefaultTxRetryMaxElapsedTime bounds the total time spent retrying one write transaction.
	DefaultTxRetryMaxElapsedTime = 5 * time.Second
)

// Config defines the configuration parameters
// for setting up and managing a sql connection.
type Config struct {
	Username string
	Password string
	Logger   logger.Logger

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	MaxTxRetries          int
	TxRetryMaxElapsedTime time.Duration

	ExportMetrics bool
}

// DatastoreOption defines a function type
// used for configuring a Config object.
type DatastoreOption func(*Config)

// WithUsername returns a DatastoreOption that sets the username in the Config.
func WithUsername(username string) DatastoreOption {
	return func(config *Config) {
		config.Username = username
	}
}

// WithPassword returns a DatastoreOption that sets the password in the Config.
func WithPassword(password string) DatastoreOption {
	return func(config *Config) {
		config.Password = password
	}
}

// WithLogger returns a DatastoreOption that sets the Logger in the Config.
func WithLogger(l logger.Logger) DatastoreOption {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// WithMaxOpenConns returns a DatastoreOption that sets the
// maximum number of open connections in the Config.
func WithMaxOpenConns(c int) DatastoreOption {
	return func(cfg *Config) {
		cfg.MaxOpenConns = c
	}
}

// WithMaxIdleConns returns a DatastoreOption that sets the
// maximum number of idle connections in the Config.
func WithMaxIdleConns(c int) DatastoreOption {
	return func(cfg *Config) {
		cfg.MaxIdleConns = c
	}
}

// WithConnMaxIdleTime returns a DatastoreOption that sets
// the maximum idle time for a connection in the Config.
func WithConnMaxIdleTime(d time.Duration) DatastoreOption {
	return func(cfg *Config) {
		cfg.ConnMaxIdleTime = d
	}
}

// WithConnMaxLifetime returns a DatastoreOption that sets
// the maximum lifetime for a connection in the Config.
func WithConnMaxLifetime(d time.Duration) DatastoreOption {
	return func(cfg *Config) {
		cfg.ConnMaxLifetime = d
	}
}

// WithMaxTxRetries returns a DatastoreOption that sets how many times a conflicting
// write transaction is re-run.
func WithMaxTxRetries(n int) DatastoreOption {
	return func(cfg *Config) {
		cfg.MaxTxRetries = n
	}
}

// WithTxRetryMaxElapsedTime returns a DatastoreOption that bounds the time spent
// retrying a single write transaction.
func WithTxRetryMaxElapsedTime(d time.Duration) DatastoreOption {
	return func(cfg *Config) {
		cfg.TxRetryMaxElapsedTime = d
	}
}

// WithMetrics returns a DatastoreOption that
// enables the export of metrics in the Config.
func WithMetrics() DatastoreOption {
	return func(cfg *Config) {
		cfg.ExportMetrics = true
	}
}

// NewConfig creates a new Config instance with default values
// and applies any provided DatastoreOption modifications.
func NewConfig(opts ...DatastoreOption) *Config {
	cfg := &Config{}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoopLogger()
	}

	if cfg.MaxTxRetries == 0 {
		cfg.MaxTxRetries = DefaultMaxTxRetries
	}

	if cfg.TxRetryMaxElapsedTime == 0 {
		cfg.TxRetryMaxElapsedTime = DefaultTxRetryMaxElapsedTime
	}

	return cfg
}

type errorHandlerFn func(error) error

// DBInfo encapsulates DB information for use in common method.
type DBInfo struct {
	db             *sql.DB
	stbl           sq.StatementBuilderType
	HandleSQLError errorHandlerFn

	// returningID is set for drivers that cannot report the last inserted id.
	returningID bool

	readTxOptions  *sql.TxOptions
	writeTxOptions *sql.TxOptions

	maxTxRetries          int
	txRetryMaxElapsedTime time.Duration
	logger                logger.Logger
}

// DBInfoOption customises a [DBInfo].
type DBInfoOption func(*DBInfo)

// WithReturningID makes inserts read the assigned id through a RETURNING clause
// instead of sql.Result.LastInsertId.
func WithReturningID() DBInfoOption {
	return func(d *DBInfo) {
		d.returningID = true
	}
}

// WithReadTxOptions sets the options used to begin read transactions.
func WithReadTxOptions(opts *sql.TxOptions) DBInfoOption {
	return func(d *DBInfo) {
		d.readTxOptions = opts
	}
}

// WithWriteTxOptions sets the options used to begin write transactions.
func WithWriteTxOptions(opts *sql.TxOptions) DBInfoOption {
	return func(d *DBInfo) {
		d.writeTxOptions = opts
	}
}

// NewDBInfo constructs a [DBInfo] object.
func NewDBInfo(
	db *sql.DB,
	stbl sq.StatementBuilderType,
	errorHandler errorHandlerFn,
	dialect string,
	cfg *Config,
	opts ...DBInfoOption,
) *DBInfo {
	if err := goose.SetDialect(dialect); err != nil {
		panic("failed to set database dialect: " + err.Error())
	}

	d := &DBInfo{
		db:                    db,
		stbl:                  stbl,
		HandleSQLError:        errorHandler,
		maxTxRetries:          cfg.MaxTxRetries,
		txRetryMaxElapsedTime: cfg.TxRetryMaxElapsedTime,
		logger:                cfg.Logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// IsReady returns true if connection to datastore is successful AND
// (the datastore has the latest migration applied OR skipVersionCheck).
func IsReady(ctx context.Context, skipVersionCheck bool, db *sql.DB) (storage.ReadinessStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// do ping first to ensure we have better error message
	// if error is due to connection issue.
	if pingErr := db.PingContext(ctx); pingErr != nil {
		return storage.ReadinessStatus{}, pingErr
	}

	if skipVersionCheck {
		return storage.ReadinessStatus{
			IsReady: true,
		}, nil
	}

	revision, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return storage.ReadinessStatus{}, err
	}

	if revision < build.MinimumSupportedDatastoreSchemaRevision {
		return storage.ReadinessStatus{
			Message: "datastore requires migrations: at revision '" +
				strconv.FormatInt(revision, 10) +
				"', but requires '" +
				strconv.FormatInt(build.MinimumSupportedDatastoreSchemaRevision, 10) +
				"'. Run 'canopy migrate'.",
			IsReady: false,
		}, nil
	}
	return storage.ReadinessStatus{
		IsReady: true,
	}, nil
}
