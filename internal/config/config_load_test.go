package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("QUOTE_MODE")
	os.Unsetenv("QUOTE_INPUT")
	os.Unsetenv("QUOTE_OUTPUT")
	os.Unsetenv("QUOTE_MASTER")
	os.Unsetenv("QUOTE_DIR")
	os.Unsetenv("QUOTE_LOGLEVEL")
	os.Unsetenv("QUOTE_MAXFILESIZE")
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"quote-extractor"})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 100*1024*1024)
	}
	if cfg.QuoteDirectory == "" {
		t.Error("LoadFromFlags() QuoteDirectory should not be empty")
	}
}

func TestLoadFromFlags_ConvertMode(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{
		"quote-extractor",
		"--mode=convert",
		"--input=quote.pdf",
		"--master=prices.csv",
		"--dir=" + tempDir,
	})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeConvert {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, ModeConvert)
	}
	if cfg.InputPath != "quote.pdf" {
		t.Errorf("LoadFromFlags() InputPath = %v, want quote.pdf", cfg.InputPath)
	}
	if cfg.MasterPath != "prices.csv" {
		t.Errorf("LoadFromFlags() MasterPath = %v, want prices.csv", cfg.MasterPath)
	}
	// output defaults next to the input when not given
	if cfg.OutputPath != "quote.xlsx" {
		t.Errorf("LoadFromFlags() OutputPath = %v, want quote.xlsx", cfg.OutputPath)
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"quote-extractor"})
	resetFlags()
	clearEnvVars()

	os.Setenv("QUOTE_LOGLEVEL", "debug")
	os.Setenv("QUOTE_DIR", tempDir)

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.QuoteDirectory != tempDir {
		t.Errorf("LoadFromFlags() QuoteDirectory = %v, want %v", cfg.QuoteDirectory, tempDir)
	}
}

func TestLoadFromFlags_InvalidMode(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"quote-extractor", "--mode=server"})
	resetFlags()
	clearEnvVars()

	if _, err := LoadFromFlags(); err == nil {
		t.Fatal("LoadFromFlags() expected error for invalid mode")
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"quote-extractor", "--version"})
	resetFlags()
	clearEnvVars()

	if _, err := LoadFromFlags(); err == nil {
		t.Fatal("LoadFromFlags() expected version-requested error")
	}
}
