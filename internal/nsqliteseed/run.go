package nsqliteseed

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nsqlite/nsqliteseed/internal/log"
	"github.com/nsqlite/nsqliteseed/internal/nsqliteseed/config"
	"github.com/nsqlite/nsqliteseed/internal/nsqliteseed/repl"
	"github.com/nsqlite/nsqliteseed/internal/seeddb"
	"github.com/nsqlite/nsqliteseed/internal/version"
)

// Run runs the nsqliteseed CLI.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewLogger(os.Stderr, conf.Level())
	logger.InfoNs(log.NsCli, "starting nsqliteseed", log.KV{
		"version": version.Version,
	})

	if err := ensureParentDir(conf.Database); err != nil {
		return fmt.Errorf("error preparing database directory: %w", err)
	}

	script := seeddb.DefaultScript()
	if conf.SeederPath != "" {
		script = seeddb.ScriptFromFile(conf.SeederPath)
	}

	db, err := seeddb.Open(ctx, seeddb.Config{
		Logger:               logger,
		Location:             conf.Database,
		Script:               script,
		DisableOptimizations: conf.DisableOptimizations,
	})
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.ErrorNs(log.NsCli, "error closing database", log.KV{"error": err})
		}
	}()

	if conf.RunSeeder {
		if err := db.Seed(ctx); err != nil {
			return fmt.Errorf("error seeding database: %w", err)
		}
	} else {
		logger.InfoNs(log.NsCli, "seeder disabled, skipping seed script")
	}

	tables, err := db.Tables(ctx)
	if err != nil {
		return fmt.Errorf("error listing tables: %w", err)
	}
	fmt.Println(renderTables(tables))

	if !conf.Interactive {
		return nil
	}

	fmt.Println(version.Banner())
	fmt.Println()
	if err := repl.NewRepl(ctx, db, os.Stdout).Start(); err != nil {
		return fmt.Errorf("error running shell: %w", err)
	}
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}

// ensureParentDir creates the directory holding a plain database path.
// In-memory databases and "file:" URIs are left to the engine.
func ensureParentDir(location string) error {
	if location == ":memory:" || strings.HasPrefix(location, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(location), 0755)
}
