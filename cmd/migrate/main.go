// Command migrate applies or rolls back the embedded schema migrations.
//
// Usage: migrate [-log-level level] up|down|version
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"invoice-ocr/pkg/config"
	"invoice-ocr/pkg/database"
	"invoice-ocr/pkg/logger"
)

var commands = map[string]bool{"up": true, "down": true, "version": true}

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 || !commands[args[0]] {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := config.LoadEnvFile(); err != nil {
		log.Warn("could not read .env file", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	m, err := database.NewMigrator(cfg.Database.DSN(), log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("failed to close migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = m.Version()
		if err == nil {
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-log-level level] <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up       Apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  down     Roll back all migrations")
	fmt.Fprintln(os.Stderr, "  version  Print the current schema version")
}
