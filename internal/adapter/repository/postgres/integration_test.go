//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/config"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/migrations"

	pgpkg "github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/pkg/postgres"
)

func setupPostgres(t testing.TB) config.Postgres {
	t.Helper()

	ctx := context.Background()

	pgUser := "test"
	pgPassword := "test"
	pgDB := "links"

	pgCont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDB,
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgCont.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate postgres container: %v", err)
		}
	})

	pgHost, err := pgCont.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	pgPort, err := pgCont.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return config.Postgres{
		User:     pgUser,
		Password: pgPassword,
		Host:     pgHost,
		Port:     pgPort.Int(),
		DB:       pgDB,
		SSLMode:  "disable",
	}
}

func setupDB(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := setupPostgres(t)

	if err := pgpkg.RunMigrations(migrations.FS, cfg.DSN()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := pgpkg.New(context.Background(), cfg.DSN())
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("Failed to close database: %v", err)
		}
	})

	return db
}

func TestRepositories_Integration(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	links := NewLinkRepository(db)
	clicks := NewClickRepository(db)

	first, err := links.Save(ctx, &entity.Link{ShortCode: "abc123", OriginalURL: "https://example.com/1", OwnerID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Empty(t, first.CustomAlias)

	second, err := links.Save(ctx, &entity.Link{ShortCode: "promo", OriginalURL: "https://example.com/2", OwnerID: "u1", CustomAlias: "promo"})
	require.NoError(t, err)
	assert.Equal(t, "promo", second.CustomAlias)

	t.Run("duplicate short code", func(t *testing.T) {
		_, err := links.Save(ctx, &entity.Link{ShortCode: "abc123", OriginalURL: "https://example.com/3", OwnerID: "u2"})

		assert.ErrorIs(t, err, entity.ErrShortCodeExists)
	})

	t.Run("exists by short code", func(t *testing.T) {
		exists, err := links.ExistsByShortCode(ctx, "abc123")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = links.ExistsByShortCode(ctx, "zzzzzz")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list by owner newest first", func(t *testing.T) {
		got, err := links.ListByOwner(ctx, "u1", true)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, links.IncrementClickCount(ctx, first.ID, 1))
			}()
		}
		wg.Wait()

		got, err := links.RetrieveByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), got.ClickCount)
	})

	t.Run("clicks", func(t *testing.T) {
		ts := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

		for i := range 3 {
			_, err := clicks.Save(ctx, &entity.Click{
				LinkID:    first.ID,
				OwnerID:   "u1",
				Timestamp: ts.Add(time.Duration(i) * time.Minute),
				Date:      "2024-01-02",
			})
			require.NoError(t, err)
		}

		got, err := clicks.ListByLink(ctx, first.ID, true)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, ts.Add(2*time.Minute), got[0].Timestamp)
		assert.Equal(t, "2024-01-02", got[0].Date)

		for _, c := range got {
			require.NoError(t, clicks.Remove(ctx, c.ID))
		}

		got, err = clicks.ListByLink(ctx, first.ID, false)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, links.Remove(ctx, second.ID))
		require.NoError(t, links.Remove(ctx, second.ID))

		_, err := links.RetrieveByShortCode(ctx, "promo")
		assert.ErrorIs(t, err, entity.ErrLinkNotFound)
	})
}
