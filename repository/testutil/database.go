package testutil

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"nexus/database"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// templateDatabase holds the migrated schema every test database is cloned from
const templateDatabase = "nexus_template"

// TestDatabase is a freshly migrated database owned by one test
type TestDatabase struct {
	DB   *database.DB
	Name string
	URL  string
}

// sharedServer is one Postgres container per test binary. Ryuk removes it when
// the binary exits.
var sharedServer struct {
	once     sync.Once
	mu       sync.Mutex
	baseURL  *url.URL
	err      error
	sequence atomic.Int64
}

func startServer(ctx context.Context) (*url.URL, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(templateDatabase),
		postgres.WithUsername("nexus"),
		postgres.WithPassword("nexus"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":    "nexus-repository",
			"cleanup": "auto",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}
	if err := database.MigrateUp(connStr); err != nil {
		return nil, fmt.Errorf("failed to migrate template: %w", err)
	}

	base, err := url.Parse(connStr)
	if err != nil {
		return nil, err
	}

	// Nothing may stay connected to a template while it is being copied
	err = adminExec(ctx, base, fmt.Sprintf(
		"ALTER DATABASE %s WITH IS_TEMPLATE true ALLOW_CONNECTIONS false", templateDatabase))
	return base, err
}

func databaseURL(base *url.URL, name string) string {
	u := *base
	u.Path = "/" + name
	return u.String()
}

// adminExec runs a statement against the maintenance database
func adminExec(ctx context.Context, base *url.URL, sql string) error {
	conn, err := pgx.Connect(ctx, databaseURL(base, "postgres"))
	if err != nil {
		return fmt.Errorf("failed to connect to maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to run %q: %w", sql, err)
	}
	return nil
}

// SetupTestDatabase clones the migrated template into a database of its own and
// drops it when the test ends
func SetupTestDatabase(t *testing.T) *TestDatabase {
	ctx := context.Background()

	sharedServer.once.Do(func() {
		sharedServer.baseURL, sharedServer.err = startServer(ctx)
	})
	require.NoError(t, sharedServer.err)
	base := sharedServer.baseURL

	name := fmt.Sprintf("nexus_test_%d", sharedServer.sequence.Add(1))

	// Postgres refuses two copies of one template at the same time
	sharedServer.mu.Lock()
	err := adminExec(ctx, base, fmt.Sprintf("CREATE DATABASE %s TEMPLATE %s", name, templateDatabase))
	sharedServer.mu.Unlock()
	require.NoError(t, err)

	connStr := databaseURL(base, name)
	db, err := database.NewConnection(ctx, connStr)
	require.NoError(t, err)

	testDB := &TestDatabase{DB: db, Name: name, URL: connStr}
	t.Cleanup(func() {
		testDB.DB.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := adminExec(ctx, base, fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", name)); err != nil {
			t.Logf("Warning: Failed to drop test database %s: %v", name, err)
		}
	})

	return testDB
}
