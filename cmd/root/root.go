// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/swift-mt/internal/config"
	"fjacquet/swift-mt/internal/container"
	"fjacquet/swift-mt/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "swift-mt",
		Short: "A CLI tool to parse, validate and convert SWIFT MT messages.",
		Long: `swift-mt is a CLI tool that parses SWIFT MT messages (MT103, MT103 STP,
MT202, MT202 COV, MT900, MT910, MT940, MT950 and more) into structured JSON,
checks them against the SWIFT network validated rules and converts statement
messages to CSV or Excel.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to swift-mt!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
		SilenceUsage:      true,
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	mu           sync.RWMutex
	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file (- or empty for stdin)")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (- or empty for stdout)")
		Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")
	})
}

// initialize loads the configuration and wires the container once per process.
func initialize(cmd *cobra.Command, args []string) error {
	if GetContainer() != nil {
		return nil
	}
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	SetContainer(c)
	return nil
}

// SetContainer replaces the application container and the shared logger.
func SetContainer(c *container.Container) {
	mu.Lock()
	defer mu.Unlock()
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}

// GetContainer returns the application container, or nil before the root
// command has run.
func GetContainer() *container.Container {
	mu.RLock()
	defer mu.RUnlock()
	return appContainer
}

// GetLogger returns the shared command logger.
func GetLogger() logging.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return Log
}

// RequireContainer returns the application container, or an error when the
// root command has not initialized it.
func RequireContainer() (*container.Container, error) {
	c := GetContainer()
	if c == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return c, nil
}
