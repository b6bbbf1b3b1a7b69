package store

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Runs only when ROUTES_TEST_POSTGRES_DSN points at a disposable database.
func TestPostgres_Contract(t *testing.T) {
	dsn := os.Getenv("ROUTES_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ROUTES_TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	repo := NewPostgres(db)
	require.NoError(t, repo.Migrate())

	testRepository(t, repo, "pg"+strconv.FormatInt(time.Now().UnixNano(), 36))
}
