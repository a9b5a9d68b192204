package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio   = "stdio"
	ModeConvert = "convert"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the quote extractor
type Config struct {
	// Run mode: "stdio" exposes the MCP tool server, "convert" runs one
	// PDF-to-XLSX conversion and exits
	Mode string

	// Convert mode inputs
	InputPath  string
	OutputPath string
	MasterPath string

	// Working directory for quotation PDFs (stdio mode)
	QuoteDirectory string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:           ModeStdio, // Default to stdio mode for MCP compatibility
		QuoteDirectory: currentDir,
		Version:        "1.0.0",
		ServerName:     "quote-extractor",
		LogLevel:       DefaultLogLevel,
		MaxFileSize:    DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.QuoteDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.QuoteDirectory); err == nil {
			cfg.QuoteDirectory = expandedPath
		}
	}

	// A convert run without an explicit output writes next to the input
	if cfg.Mode == ModeConvert && cfg.OutputPath == "" && cfg.InputPath != "" {
		cfg.OutputPath = DeriveOutputPath(cfg.InputPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DeriveOutputPath maps an input PDF path to its default workbook path.
func DeriveOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".xlsx"
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("QUOTE")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("input", cfg.InputPath)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("master", cfg.MasterPath)
	viper.SetDefault("dir", cfg.QuoteDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'stdio' for the MCP tool server, 'convert' for a one-shot conversion")
	pflag.String("input", cfg.InputPath, "Quotation PDF to convert (convert mode)")
	pflag.String("output", cfg.OutputPath, "Workbook output path (convert mode, defaults next to input)")
	pflag.String("master", cfg.MasterPath, "Master price list (CSV or XLSX) used to correct descriptions")
	pflag.String("dir", cfg.QuoteDirectory, "Directory containing quotation PDF files")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("input", pflag.Lookup("input"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("master", pflag.Lookup("master"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nQuote Extractor - converts vendor quotation PDFs to styled XLSX quotations\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio MCP mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=convert --input=quote.pdf          # one-shot conversion\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=convert --input=quote.pdf --master=prices.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_INPUT        Input PDF path\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_OUTPUT       Output workbook path\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_MASTER       Master price list path\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_DIR          Quotation PDF directory\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.InputPath = viper.GetString("input")
	cfg.OutputPath = viper.GetString("output")
	cfg.MasterPath = viper.GetString("master")
	cfg.QuoteDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeConvert {
		return errors.New("mode must be either 'stdio' or 'convert'")
	}

	if c.Mode == ModeConvert {
		if c.InputPath == "" {
			return errors.New("convert mode requires an input path")
		}
		if c.OutputPath == "" {
			return errors.New("convert mode requires an output path")
		}
	}

	if c.QuoteDirectory == "" {
		return errors.New("quote directory cannot be empty")
	}

	// Create the working directory if it does not exist yet
	if _, err := os.Stat(c.QuoteDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.QuoteDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create quote directory %s: %w", c.QuoteDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access quote directory %s: %w", c.QuoteDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, Output: %s, Master: %s, Dir: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.InputPath, c.OutputPath, c.MasterPath, c.QuoteDirectory, c.LogLevel, c.MaxFileSize)
}

// IsConvertMode returns true when running a one-shot conversion
func (c *Config) IsConvertMode() bool {
	return c.Mode == ModeConvert
}

// IsStdioMode returns true when running the MCP tool server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
