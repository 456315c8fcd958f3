package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/menswear/backend/internal/infrastructure/datamigration"
	"github.com/menswear/backend/internal/infrastructure/logger"
	"github.com/menswear/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage(nil)
		os.Exit(1)
	}
	script := os.Args[1]

	fs := flag.NewFlagSet(script, flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Run inside a transaction and roll it back")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	file := fs.String("file", "", "Input file for import scripts")
	email := fs.String("email", "", "Email for seed-admin")
	password := fs.String("password", "", "Password for seed-admin")
	name := fs.String("name", "", "Display name for seed-admin")
	_ = fs.Parse(os.Args[2:])

	log, err := logger.New(&logger.Config{
		Level:  *logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		logger.Sync(log)
	}()

	registry := datamigration.DefaultRegistry(log)
	if script == "list" {
		printUsage(registry)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Scripts write, so they never touch the replica
	dbCfg := cfg.Database
	dbCfg.Replica.Enabled = false
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(*logLevel))
	pool, err := persistence.OpenDBPool(&dbCfg, gormLog, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := registry.Run(ctx, pool.Writer(), script, datamigration.Options{
		DryRun: *dryRun,
		Params: map[string]string{
			"file":     *file,
			"email":    *email,
			"password": *password,
			"name":     *name,
		},
	})
	if err != nil {
		log.Error("Data migration failed", zap.Error(err))
		os.Exit(1)
	}
	if result.DryRun {
		log.Info("Dry run rolled back; rerun without --dry-run to apply", zap.Int("would_change", result.Changed))
	}
}

func printUsage(registry *datamigration.Registry) {
	fmt.Println(`Menswear data migration tool

Usage:
  datamigrate <script> [flags]
  datamigrate list

Flags:
  --dry-run          Roll back after running and only report
  --file string      Input file (import-customers)
  --email string     Admin email (seed-admin)
  --password string  Admin password (seed-admin)
  --name string      Admin display name (seed-admin)
  --log-level string Log level (default: info)`)

	if registry == nil {
		return
	}
	fmt.Println("\nScripts:")
	for _, s := range registry.Scripts() {
		fmt.Printf("  %-18s %s\n", s.Name(), s.Description())
	}
}
