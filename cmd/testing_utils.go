// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments,
// capturing output, and building a fresh CLI per test.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/lockd/internal/configs"
	logger "github.com/PolarWolf314/lockd/internal/logging"

	"github.com/spf13/cobra"
)

// setupTestEnvironment changes into tempDir and points the user settings at tempUserDir.
func setupTestEnvironment(t *testing.T, tempDir, tempUserDir string) {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	originalUserSettings := configs.UserLockdSettings

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Cleanup function to restore original state
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserLockdSettings = originalUserSettings
		ResetGlobalState()
	})

	// Override user settings to use temp directory
	configs.UserLockdSettings = &configs.UserSettings{
		ConfigPath: filepath.Join(tempUserDir, "config"),
		DataPath:   filepath.Join(tempUserDir, "data"),
		Username:   "testuser",
	}
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// createTestCLI creates a complete CLI instance for testing with the given arguments.
// Verbose mode keeps the spinner from drawing over captured output.
func createTestCLI(args []string, verboseFlag, debugFlag bool) *cobra.Command {
	ResetGlobalState()

	// Initialize the logger with the test flags
	Logger = logger.Logger{
		Verbose: verboseFlag,
		Debug:   debugFlag,
	}

	rootCmd := &cobra.Command{
		Use:          "lockd",
		Short:        "lockd - local encrypted notes and files.",
		SilenceUsage: true,
	}
	Attach(rootCmd)

	flags := append([]string{}, args...)
	if verboseFlag {
		flags = append(flags, "--verbose")
	}
	if debugFlag {
		flags = append(flags, "--debug")
	}
	rootCmd.SetArgs(flags)

	return rootCmd
}

// runCLI runs the CLI with args in verbose mode and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		return createTestCLI(args, true, false).Execute()
	})
}

// withStdin replaces os.Stdin with a file holding content for the duration of the test.
func withStdin(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write stdin file: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open stdin file: %v", err)
	}

	original := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = original
		f.Close()
	})
}

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
