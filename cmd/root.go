package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/archivekit/go-itss"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	cacheSize int
)

var rootCmd = &cobra.Command{
	Use:   "itsscat",
	Short: "Inspect and extract entries from ITSS compound archives",
	Long: `itsscat opens a legacy ITSS/CHM compound archive and lets you enumerate
its directory, inspect its compression metadata, and extract entry
contents to stdout.

It drives an LZX codec through this package's LZXCodec interface; since
no LZX implementation ships with itsscat itself, compressed entries are
only readable when a codec has been wired in by whatever builds this
binary. Uncompressed entries are always readable.`,
	Version:           "0.1.0",
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cfg, err := LoadCLIConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", cfg.CacheSize, "decompressed block cache capacity")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := parseLogLevel(logLevel)
	handler := tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	itss.SetDebugPrinter(itss.SlogDebugPrinter(logger))
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
