package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/nsqliteseed/internal/version"
)

// Config represents the configuration for nsqliteseed.
type Config struct {
	Database             string `arg:"-d,--database,env:NSQLITESEED_DATABASE" help:"Path, :memory: or file: URI of the SQLite database" default:"./data/database.sqlite"`
	RunSeeder            bool   `arg:"--run-seeder,env:NSQLITESEED_RUN_SEEDER" help:"Run the seed script after opening the database (use --run-seeder=false to skip)" default:"true"`
	SeederPath           string `arg:"--seeder-path,env:NSQLITESEED_SEEDER_PATH" help:"Read the seed script from this file instead of the bundled one"`
	DisableOptimizations bool   `arg:"--disable-optimizations,env:NSQLITESEED_DISABLE_OPTIMIZATIONS" help:"Disable WAL journal and relaxed sync for the connection" default:"false"`
	Interactive          bool   `arg:"-i,--interactive,env:NSQLITESEED_INTERACTIVE" help:"Open an interactive SQL shell once the database is ready" default:"false"`
	LogLevel             string `arg:"--log-level,env:NSQLITESEED_LOG_LEVEL" help:"Log level (debug, info, warn, error)" default:"info"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.Banner())
}

func (Config) Description() string {
	return "Opens a local SQLite database and initializes it with a seed script."
}

// Level returns the slog level for the configured LogLevel. MustParse
// guarantees the value is valid.
func (c Config) Level() slog.Level {
	level, _ := parseLogLevel(c.LogLevel)
	return level
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "nsqliteseed"},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := validate(cfg); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// validate checks the cross-field rules of a parsed Config.
func validate(cfg Config) error {
	if err := validateDatabase(cfg.Database); err != nil {
		return err
	}

	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	if !cfg.RunSeeder && cfg.SeederPath != "" {
		return errors.New("seeder path is set but the seeder is disabled")
	}

	return nil
}

// validateDatabase validates that a database location was provided.
func validateDatabase(database string) error {
	if strings.TrimSpace(database) == "" {
		return errors.New("database location is required")
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// parseLogLevel maps a log level name to its slog level.
func parseLogLevel(level string) (slog.Level, error) {
	if l, ok := logLevels[level]; ok {
		return l, nil
	}

	return slog.LevelInfo, fmt.Errorf(
		"invalid log level, valid values are: %s",
		"debug, info, warn, error",
	)
}
