package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"quill/config"
	"quill/internal/infra/persistence/migrations"
	"quill/internal/infra/persistence/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Supported subcommands:
// - up:      Apply every pending migration
// - down:    Roll back the last N migrations
// - version: Print the applied schema version

func main() {
	upCmd := flag.NewFlagSet("up", flag.ExitOnError)
	downCmd := flag.NewFlagSet("down", flag.ExitOnError)
	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)

	downSteps := downCmd.Int("steps", 1, "Number of migrations to roll back")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	flags := migrateFlags{
		Up:      upCmd,
		Version: versionCmd,
		Down: downFlags{
			cmd:   downCmd,
			steps: downSteps,
		},
	}

	if err := runSubcommand(&flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type migrateFlags struct {
	Up      *flag.FlagSet
	Down    downFlags
	Version *flag.FlagSet
}

type downFlags struct {
	cmd   *flag.FlagSet
	steps *int
}

func runSubcommand(flags *migrateFlags) error {
	var cmd *flag.FlagSet
	switch os.Args[1] {
	case "up":
		cmd = flags.Up
	case "down":
		cmd = flags.Down.cmd
	case "version":
		cmd = flags.Version
	default:
		printUsage()

		return errors.New("unknown subcommand")
	}

	if err := cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrapf(err, "failed to parse %s flags", cmd.Name())
	}

	db, err := openPrimary()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	switch cmd.Name() {
	case "up":
		return migrations.Up(db, logger)
	case "down":
		return migrations.Down(db, *flags.Down.steps, logger)
	default:
		version, dirty, err := migrations.Version(db)
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)

		return nil
	}
}

func openPrimary() (*sql.DB, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if cfg.Postgres == nil {
		return nil, errors.New("postgres is not configured")
	}

	db, err := sql.Open("pgx", postgres.PrimaryDSN(cfg.Postgres))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	return db, nil
}

func printUsage() {
	fmt.Println("Usage: migrate <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  up         Apply every pending migration")
	fmt.Println("  down       Roll back migrations (-steps N, default 1)")
	fmt.Println("  version    Print the applied schema version")
}
