package postgres

import (
	"testing"

	"quill/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var userColumns = []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}

var postColumns = []string{"id", "author_id", "title", "body", "published", "created_at", "updated_at"}

// newMockDB opens gorm over sqlmock with the same settings as production.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := open(postgres.New(postgres.Config{Conn: sqlDB}), logger.Discard)
	require.NoError(t, err)

	return db, mock
}

func TestBuildDSN(t *testing.T) {
	cfg := &config.PostgresConfig{
		ConnectionConfig: config.ConnectionConfig{Host: "db", Port: "5432", UserName: "quill", Password: "p@ss word"},
		Database:         "blog",
		SSLMode:          "require",
	}

	assert.Equal(t, "postgres://quill:p%40ss%20word@db:5432/blog?sslmode=require", buildDSN(cfg, cfg.ConnectionConfig))
	assert.Equal(t, buildDSN(cfg, cfg.ConnectionConfig), PrimaryDSN(cfg))

	replica := config.ConnectionConfig{Host: "replica", Port: "5433", UserName: "reader"}
	assert.Equal(t, "postgres://reader:@replica:5433/blog?sslmode=require", buildDSN(cfg, replica))
}
