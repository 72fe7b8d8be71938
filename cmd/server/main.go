package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "dorm-booking",
		Short:         "Dorm rental booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		serveCmd(),
		consumeCmd(),
		migrateCmd(),
		auditCmd(),
		tokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns the process logger; echo shares it.
func newLogger(env string) *log.Logger {
	lg := log.New("dorm-booking")
	lg.SetHeader(`${time_rfc3339} ${level} ${short_file}:${line}`)
	if env == "dev" {
		lg.SetLevel(log.DEBUG)
	} else {
		lg.SetLevel(log.INFO)
	}
	return lg
}
