package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom"
)

var (
	// Global flags
	verbose        bool
	quiet          bool
	jsonOut        bool
	logFile        string
	ignoreChecksum bool
	initiallyFree  bool

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "romctl",
	Short: "Inspect and patch banked ROM images",
	Long: `romctl applies text and IPS patches to a ROM image while tracking which
byte ranges are used and free, lists free space, finds room for new data and
packs or unpacks compressed blobs.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append structured logs to this file")
	rootCmd.PersistentFlags().
		BoolVar(&ignoreChecksum, "ignore-checksum", false, "Accept images that are not the vanilla ROM")
	rootCmd.PersistentFlags().
		BoolVar(&initiallyFree, "free", false, "Start with the whole image marked free")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging routes library warnings to stderr, or to --log-file, unless
// --quiet is set.
func setupLogging(cmd *cobra.Command, args []string) error {
	opts := logger.Options{
		Enabled: !quiet || logFile != "",
		Path:    logFile,
		JSON:    jsonOut && logFile != "",
		Level:   slog.LevelWarn,
	}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	closer, err := logger.Init(opts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	closeLog = closer
	return nil
}

// openROM loads an image with the global loading flags applied.
func openROM(path string) (*rom.ROM, error) {
	opts := rom.DefaultOptions()
	opts.IgnoreChecksum = ignoreChecksum
	opts.InitiallyFree = initiallyFree
	printVerbose("Opening image: %s\n", path)
	return rom.Open(path, opts)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// parseNumber accepts decimal or 0x-prefixed hexadecimal.
func parseNumber(s string) (int, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative number %q", s)
	}
	return int(v), nil
}
