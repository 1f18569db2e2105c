package seeddb

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/nsqlite/nsqliteseed/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() log.Logger {
	return log.NewLogger(io.Discard, slog.LevelDebug)
}

func scriptOf(content string) Script {
	return Script{
		FS:   fstest.MapFS{"seed.sql": {Data: []byte(content)}},
		Name: "seed.sql",
	}
}

func openTestDB(t *testing.T, script Script) *Database {
	t.Helper()
	db, err := Open(context.Background(), Config{
		Logger:   testLogger(),
		Location: filepath.Join(t.TempDir(), "test.sqlite"),
		Script:   script,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if db.IsOpen() {
			_ = db.Close()
		}
	})
	return db
}

func TestOpen(t *testing.T) {
	t.Run("ValidPath", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.sqlite")
		db, err := Open(context.Background(), Config{
			Logger:   testLogger(),
			Location: dbPath,
		})
		require.NoError(t, err)
		assert.True(t, db.IsOpen())
		assert.Equal(t, DefaultScript().Name, db.Script.Name)

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
		assert.NoError(t, db.Close())
	})

	t.Run("InMemory", func(t *testing.T) {
		db, err := Open(context.Background(), Config{
			Logger:   testLogger(),
			Location: ":memory:",
		})
		require.NoError(t, err)
		assert.True(t, db.IsOpen())
		assert.NoError(t, db.Close())
	})

	t.Run("ForeignKeysEnabled", func(t *testing.T) {
		db := openTestDB(t, Script{})
		res, err := db.Query(context.Background(), "PRAGMA foreign_keys")
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		assert.EqualValues(t, 1, res.Rows[0][0])
	})

	t.Run("LoggerRequired", func(t *testing.T) {
		db, err := Open(context.Background(), Config{Location: ":memory:"})
		assert.Error(t, err)
		assert.Nil(t, db)

		var connErr *ConnectionError
		assert.NotErrorAs(t, err, &connErr)
	})

	tmp := t.TempDir()
	tests := []struct {
		name     string
		location string
	}{
		{name: "empty location", location: "  "},
		{name: "directory", location: tmp},
		{name: "missing parent directory", location: filepath.Join(tmp, "missing", "test.sqlite")},
		{name: "unknown access mode", location: "file:" + filepath.Join(tmp, "mode.sqlite") + "?mode=bogus"},
		{name: "malformed query", location: "file:test.sqlite?%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Open(context.Background(), Config{
				Logger:   testLogger(),
				Location: tt.location,
			})
			assert.Nil(t, db)

			var connErr *ConnectionError
			require.ErrorAs(t, err, &connErr)
			assert.Equal(t, tt.location, connErr.Location)
		})
	}
}

func TestOpenUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}

	readOnlyFile := func(t *testing.T) string {
		path := filepath.Join(t.TempDir(), "readonly.sqlite")
		require.NoError(t, os.WriteFile(path, nil, 0444))
		return path
	}

	readOnlyDir := func(t *testing.T) string {
		dir := filepath.Join(t.TempDir(), "readonly")
		require.NoError(t, os.Mkdir(dir, 0555))
		t.Cleanup(func() { _ = os.Chmod(dir, 0755) })
		return filepath.Join(dir, "test.sqlite")
	}

	tests := []struct {
		name     string
		location func(t *testing.T) string
	}{
		{name: "read-only file", location: readOnlyFile},
		{name: "read-only parent directory", location: readOnlyDir},
	}

	for _, tt := range tests {
		for _, disableOptimizations := range []bool{false, true} {
			name := fmt.Sprintf("%s/disableOptimizations=%t", tt.name, disableOptimizations)
			t.Run(name, func(t *testing.T) {
				location := tt.location(t)
				db, err := Open(context.Background(), Config{
					Logger:               testLogger(),
					Location:             location,
					DisableOptimizations: disableOptimizations,
				})
				assert.Nil(t, db)

				var connErr *ConnectionError
				require.ErrorAs(t, err, &connErr)
				assert.Equal(t, location, connErr.Location)
			})
		}
	}
}

func TestOpenReadOnlyMode(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.sqlite")

	db, err := Open(ctx, Config{
		Logger:               testLogger(),
		Location:             dbPath,
		Script:               scriptOf("CREATE TABLE t(id INTEGER);"),
		DisableOptimizations: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Seed(ctx))
	require.NoError(t, db.Close())

	db, err = Open(ctx, Config{
		Logger:               testLogger(),
		Location:             "file:" + dbPath + "?mode=ro",
		Script:               scriptOf("INSERT INTO t VALUES (1);"),
		DisableOptimizations: true,
	})
	require.NoError(t, err)
	defer db.Close()

	tables, err := db.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TableInfo{{Name: "t"}}, tables)

	var execErr *ScriptExecutionError
	err = db.Seed(ctx)
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, err.Error(), "readonly")
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("BundledScript", func(t *testing.T) {
		db := openTestDB(t, Script{})
		require.NoError(t, db.Seed(ctx))

		tables, err := db.Tables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []TableInfo{
			{Name: "file"},
			{Name: "file_revision"},
			{Name: "page"},
			{Name: "page_revision"},
			{Name: "site"},
			{Name: "user"},
		}, tables)
	})

	t.Run("BundledScriptIsIdempotent", func(t *testing.T) {
		db := openTestDB(t, Script{})
		require.NoError(t, db.Seed(ctx))
		require.NoError(t, db.Seed(ctx))

		tables, err := db.Tables(ctx)
		require.NoError(t, err)
		assert.Len(t, tables, 6)
	})

	t.Run("EndToEnd", func(t *testing.T) {
		db := openTestDB(t, scriptOf("CREATE TABLE t(id INTEGER); INSERT INTO t VALUES (1);"))
		require.NoError(t, db.Seed(ctx))

		res, err := db.Query(ctx, "SELECT id FROM t")
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, res.Columns)
		assert.Equal(t, [][]any{{int64(1)}}, res.Rows)
	})

	t.Run("FileOrder", func(t *testing.T) {
		db := openTestDB(t, scriptOf(`
			CREATE TABLE t(id INTEGER);
			INSERT INTO t VALUES (1);
			INSERT INTO t VALUES (2);
			UPDATE t SET id = id * 10 WHERE id = 1;
		`))
		require.NoError(t, db.Seed(ctx))

		res, err := db.Query(ctx, "SELECT id FROM t ORDER BY rowid")
		require.NoError(t, err)
		assert.Equal(t, [][]any{{int64(10)}, {int64(2)}}, res.Rows)
	})

	t.Run("NonIdempotentScriptFailsOnSecondRun", func(t *testing.T) {
		db := openTestDB(t, scriptOf("CREATE TABLE t(id INTEGER); INSERT INTO t VALUES (1);"))
		require.NoError(t, db.Seed(ctx))

		var execErr *ScriptExecutionError
		require.ErrorAs(t, db.Seed(ctx), &execErr)
		assert.Contains(t, execErr.Error(), "already exists")

		res, err := db.Query(ctx, "SELECT COUNT(*) FROM t")
		require.NoError(t, err)
		assert.Equal(t, [][]any{{int64(1)}}, res.Rows)
	})

	t.Run("FailureRollsBackWholeScript", func(t *testing.T) {
		db := openTestDB(t, scriptOf(`
			CREATE TABLE a(id INTEGER);
			INSERT INTO a VALUES (1);
			INSERT INTO missing VALUES (1);
		`))

		var execErr *ScriptExecutionError
		require.ErrorAs(t, db.Seed(ctx), &execErr)
		assert.Equal(t, "embedded:seed.sql", execErr.Script)

		tables, err := db.Tables(ctx)
		require.NoError(t, err)
		assert.Empty(t, tables)
	})

	t.Run("EmptyScript", func(t *testing.T) {
		db := openTestDB(t, scriptOf(" \n\t"))
		require.NoError(t, db.Seed(ctx))

		tables, err := db.Tables(ctx)
		require.NoError(t, err)
		assert.Empty(t, tables)
	})

	t.Run("ScriptNotFound", func(t *testing.T) {
		db := openTestDB(t, Script{FS: fstest.MapFS{}, Name: "seed.sql"})

		var notFound *ScriptNotFoundError
		err := db.Seed(ctx)
		require.ErrorAs(t, err, &notFound)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("ScriptFromMissingFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope.sql")
		db := openTestDB(t, ScriptFromFile(path))

		var notFound *ScriptNotFoundError
		require.ErrorAs(t, db.Seed(ctx), &notFound)
		assert.Equal(t, path, notFound.Script)
	})

	t.Run("InMemoryKeepsState", func(t *testing.T) {
		db, err := Open(ctx, Config{
			Logger:   testLogger(),
			Location: ":memory:",
			Script:   scriptOf("CREATE TABLE t(id INTEGER); INSERT INTO t VALUES (7);"),
		})
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, db.Seed(ctx))
		res, err := db.Query(ctx, "SELECT id FROM t")
		require.NoError(t, err)
		assert.Equal(t, [][]any{{int64(7)}}, res.Rows)
	})

	t.Run("PersistsAcrossHandles", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "persist.sqlite")
		config := Config{Logger: testLogger(), Location: dbPath}

		db, err := Open(ctx, config)
		require.NoError(t, err)
		require.NoError(t, db.Seed(ctx))
		require.NoError(t, db.Close())

		db, err = Open(ctx, config)
		require.NoError(t, err)
		defer db.Close()

		tables, err := db.Tables(ctx)
		require.NoError(t, err)
		assert.Len(t, tables, 6)
	})
}

func TestTables(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, scriptOf(`
		CREATE TABLE "odd ""name"""(id INTEGER);
		CREATE TABLE b(id INTEGER);
		INSERT INTO b VALUES (1), (2), (3);
	`))
	require.NoError(t, db.Seed(ctx))

	tables, err := db.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TableInfo{
		{Name: "b", Rows: 3},
		{Name: `odd "name"`, Rows: 0},
	}, tables)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, Script{})

	require.NoError(t, db.Close())
	assert.False(t, db.IsOpen())

	assert.ErrorIs(t, db.Close(), ErrClosed)
	assert.ErrorIs(t, db.Seed(ctx), ErrClosed)

	_, err := db.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = db.Tables(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
