// Mercury - voice-enabled multi-model chat server. Entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mercurylabs/mercury/internal/infra/config"
	"github.com/mercurylabs/mercury/internal/infra/sqlite"
	"github.com/mercurylabs/mercury/internal/server"
	"github.com/mercurylabs/mercury/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("mercury", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config", "", "Path to mercury.yml")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	if err := serve(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "mercury: %v\n", err)
		return 1
	}
	return 0
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := sqlite.NewDB(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close()
		return err
	}

	srv := server.NewServer(cfg, db)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-sigc:
		fmt.Printf("received %s, shutting down\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func printHelp(out io.Writer) {
	helpText := `Mercury - voice-enabled multi-model chat server

Usage:
  mercury [options]

Options:
  --config PATH  Path to mercury.yml (default: ./mercury.yml)
  --version      Show version information
  --help         Show this help message

Environment:
  NVIDIA_API_KEY         API key for NVIDIA-hosted model families
  OPENAI_API_KEY         API key for the OpenAI family
  PORT                   Listen port (default 5000)
  JWT_SECRET             Enables operator login when set with MERCURY_PASSWORD_HASH
  MERCURY_PASSWORD_HASH  bcrypt hash of the operator password
  MERCURY_DB             SQLite database path (default mercury.db)

Examples:
  mercury
  mercury --config /etc/mercury/mercury.yml
  mercury --version`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
