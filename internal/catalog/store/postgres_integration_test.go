//go:build integration

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"product-catalog/internal/catalog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDBName = "test_catalog"
	testDBUser = "test"
	testDBPass = "test"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17-alpine"),
		postgres.WithDatabase(testDBName),
		postgres.WithUsername(testDBUser),
		postgres.WithPassword(testDBPass),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	m, err := migrate.New("file://"+migrationsDir(t), connStr)
	if err != nil {
		t.Fatalf("init migrate: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("run migrations: %v", err)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		t.Fatalf("close migrate source: %v", srcErr)
	}
	if dbErr != nil {
		t.Fatalf("close migrate db: %v", dbErr)
	}

	return db
}

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations", "catalog")
}

func TestPostgresStore_LoadAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("no row reads as empty", func(t *testing.T) {
		items, err := NewPostgres(db, "empty", true, discardLogger()).LoadAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("document of the wrong shape is malformed", func(t *testing.T) {
		_, err := db.ExecContext(ctx,
			`INSERT INTO catalog_documents (name, document) VALUES ('broken', '{"not":"a list"}')`)
		require.NoError(t, err)

		_, err = NewPostgres(db, "broken", true, discardLogger()).LoadAll(ctx)
		assert.ErrorIs(t, err, catalog.ErrMalformedStore)

		items, err := NewPostgres(db, "broken", false, discardLogger()).LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestPostgresStore_SaveAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewPostgres(db, "products", true, discardLogger())

	t.Run("round trip keeps order", func(t *testing.T) {
		want := sampleProducts()
		require.NoError(t, s.SaveAll(ctx, want))

		got, err := s.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID)
			assert.True(t, want[i].UpdatedAt.Equal(got[i].UpdatedAt))
		}
	})

	t.Run("save replaces the whole document", func(t *testing.T) {
		require.NoError(t, s.SaveAll(ctx, sampleProducts()[1:]))

		got, err := s.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].ID)

		var rows int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_documents WHERE name = 'products'`).Scan(&rows))
		assert.Equal(t, 1, rows)
	})

	t.Run("documents are isolated by name", func(t *testing.T) {
		other := NewPostgres(db, "other", true, discardLogger())
		require.NoError(t, other.SaveAll(ctx, nil))

		got, err := other.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestPostgresStore_Health(t *testing.T) {
	db := setupTestDB(t)

	if err := NewPostgres(db, "products", true, discardLogger()).Health(); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}
