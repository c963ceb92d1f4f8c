package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/memory"
	"github.com/canopyhq/canopy/pkg/storage/mysql"
	"github.com/canopyhq/canopy/pkg/storage/postgres"
	"github.com/canopyhq/canopy/pkg/storage/sqlcommon"
	"github.com/canopyhq/canopy/pkg/storage/sqlite"
)

// DatastoreTestContainer represents a runnable database for testing specific datastore engines.
type DatastoreTestContainer interface {
	// GetConnectionURI returns a connection string to the datastore instance.
	GetConnectionURI() string

	// GetDatabaseSchemaVersion returns the last migration applied when the database was created.
	GetDatabaseSchemaVersion() int64
}

type memoryTestContainer struct{}

func (m memoryTestContainer) GetConnectionURI() string {
	return ""
}

func (m memoryTestContainer) GetDatabaseSchemaVersion() int64 {
	return 0
}

// externalTestContainer points at a database provisioned outside the test run through
// an environment variable, such as a service container in CI.
type externalTestContainer struct {
	uri     string
	version int64
}

func (e *externalTestContainer) GetConnectionURI() string {
	return e.uri
}

func (e *externalTestContainer) GetDatabaseSchemaVersion() int64 {
	return e.version
}

// ExternalURIEnv maps the engines that cannot be started in-process to the environment
// variable holding the connection uri of a database reserved for tests.
var ExternalURIEnv = map[string]string{
	"postgres": "CANOPY_TEST_POSTGRES_URI",
	"mysql":    "CANOPY_TEST_MYSQL_URI",
}

func runExternalTestDatabase(t testing.TB, engine string, provider storage.MigrationProvider) DatastoreTestContainer {
	uri := os.Getenv(ExternalURIEnv[engine])
	if uri == "" {
		t.Skipf("%s is not set, skipping %s datastore tests", ExternalURIEnv[engine], engine)
	}

	cfg := storage.MigrationConfig{Engine: engine, URI: uri, Timeout: 30 * time.Second}
	require.NoError(t, provider.RunMigrations(context.Background(), cfg))

	version, err := provider.GetCurrentVersion(context.Background(), cfg)
	require.NoError(t, err)

	return &externalTestContainer{uri: uri, version: version}
}

// RunDatastoreTestContainer constructs and runs a specific DatastoreTestContainer for the provided
// datastore engine. If applicable, it also runs all existing database migrations.
// The resources used by the test engine will be cleaned up after the test has finished.
func RunDatastoreTestContainer(t testing.TB, engine string) DatastoreTestContainer {
	switch engine {
	case "sqlite":
		return NewSqliteTestContainer().RunSqliteTestDatabase(t)
	case "postgres":
		return runExternalTestDatabase(t, engine, postgres.NewMigrationProvider())
	case "mysql":
		return runExternalTestDatabase(t, engine, mysql.NewMigrationProvider())
	case "memory":
		return memoryTestContainer{}
	default:
		t.Fatalf("'%s' engine is not supported by RunDatastoreTestContainer", engine)
		return nil
	}
}

// MustBootstrapDatastore returns a migrated, ready to use datastore of the given engine
// that is closed when the test finishes.
func MustBootstrapDatastore(t testing.TB, engine string) storage.Datastore {
	testDatastore := RunDatastoreTestContainer(t, engine)

	uri := testDatastore.GetConnectionURI()

	var ds storage.Datastore
	var err error

	switch engine {
	case "memory":
		ds = memory.New()
	case "sqlite":
		ds, err = sqlite.New(uri, sqlcommon.NewConfig())
	case "postgres":
		ds, err = postgres.New(uri, sqlcommon.NewConfig())
	case "mysql":
		ds, err = mysql.New(uri, sqlcommon.NewConfig())
	default:
		t.Fatalf("'%s' is not a supported datastore engine", engine)
	}
	require.NoError(t, err)

	t.Cleanup(ds.Close)

	return ds
}
