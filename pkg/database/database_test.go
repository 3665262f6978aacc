package database

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"invoice-ocr/pkg/config"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	// gorm pings once while opening
	mock.ExpectPing()

	dialector := postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true})
	db, err := openDialector(dialector, &gorm.Config{Logger: gormlogger.Discard},
		config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 2}, zap.NewNop())
	require.NoError(t, err)
	return db, mock
}

func TestDatabase_PingAndClose(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectPing()
	require.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, db.Ping(context.Background()))

	mock.ExpectClose()
	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{
		"000001_create_ocr_results.down.sql",
		"000001_create_ocr_results.up.sql",
		"000002_create_invoice_items.down.sql",
		"000002_create_invoice_items.up.sql",
	}, names)

	up, err := fs.ReadFile(migrationsFS, "migrations/000002_create_invoice_items.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "ON DELETE CASCADE")
	assert.Contains(t, string(up), "'faktur', 'invoice', 'nota'")
	assert.Contains(t, string(up), "'tunai', 'transfer', 'kredit'")
}

type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = 1
	return nil
}

type fakeQuerier struct {
	rowErr  error
	execErr error
	execs   []string
}

func (q *fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{err: q.rowErr}
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	return pgconn.NewCommandTag("CREATE DATABASE"), q.execErr
}

func TestEnsureDatabase(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("existing database is left alone", func(t *testing.T) {
		q := &fakeQuerier{}
		created, err := ensureDatabase(ctx, q, "ocr_db", log)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, q.execs)
	})

	t.Run("missing database is created with a quoted identifier", func(t *testing.T) {
		q := &fakeQuerier{rowErr: pgx.ErrNoRows}
		created, err := ensureDatabase(ctx, q, `ocr"db`, log)
		require.NoError(t, err)
		assert.True(t, created)
		require.Len(t, q.execs, 1)
		assert.Equal(t, `CREATE DATABASE "ocr""db"`, q.execs[0])
	})

	t.Run("lookup failure", func(t *testing.T) {
		q := &fakeQuerier{rowErr: errors.New("permission denied")}
		_, err := ensureDatabase(ctx, q, "ocr_db", log)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "permission denied"))
		assert.Empty(t, q.execs)
	})

	t.Run("create failure", func(t *testing.T) {
		q := &fakeQuerier{rowErr: pgx.ErrNoRows, execErr: errors.New("must be owner")}
		created, err := ensureDatabase(ctx, q, "ocr_db", log)
		assert.Error(t, err)
		assert.False(t, created)
	})
}
