package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/quoteparse/quote-extractor/internal/config"
	"github.com/quoteparse/quote-extractor/internal/convert"
	"github.com/quoteparse/quote-extractor/internal/docsource"
	"github.com/quoteparse/quote-extractor/internal/mcp"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the process logger. Logs always go to stderr so
// stdio-mode MCP traffic on stdout stays clean; in stdio mode anything
// below warn is dropped unless debug is enabled.
func setupLogging(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var w io.Writer = os.Stderr
	if cfg.IsStdioMode() && !cfg.IsDebug() && level < slog.LevelWarn {
		level = slog.LevelWarn
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// runConvertMode performs a single PDF-to-XLSX conversion and exits.
func runConvertMode(cfg *config.Config, svc *convert.Service, logger *slog.Logger) {
	out, err := svc.ConvertFile(cfg.InputPath, cfg.OutputPath, cfg.MasterPath)
	if err != nil {
		logger.Error("conversion failed", "input", cfg.InputPath, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Converted %s -> %s (%s, %d items)\n",
		cfg.InputPath, out.OutputPath, out.Kind, out.Items)
}

// runStdioMode serves the MCP tools until the parent closes stdin.
func runStdioMode(ctx context.Context, server *mcp.Server, logger *slog.Logger) {
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		logger.Debug("starting", "config", cfg.String())
	}

	loader := docsource.NewLoader(cfg.MaxFileSize)
	svc := convert.NewService(loader, logger)

	if cfg.IsConvertMode() {
		runConvertMode(cfg, svc, logger)
		return
	}

	server, err := mcp.NewServer(cfg, svc)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runStdioMode(ctx, server, logger)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Quote Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
