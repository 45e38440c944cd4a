// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/bank-tally/internal/config"
	"fjacquet/bank-tally/internal/container"
	"fjacquet/bank-tally/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// container's logger once configuration is loaded.
	Log = logging.NewDefault()

	// AppContainer is built in PersistentPreRunE from the loaded configuration.
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bank-tally",
		Short: "Convert bank statements into Tally voucher import sheets.",
		Long: `bank-tally reads a bank statement (DATE, NARRATION, DEBIT, CREDIT),
assigns each row a ledger from narration overrides, the bank charges rule and
fuzzy matching against a ledger master, and writes a voucher sheet ready for
import into Tally.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Bank statement file (.xlsx or .csv)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (.xlsx or .csv)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.bank-tally, .bank-tally or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
}

// Setup loads the environment and configuration, applies flag overrides and
// builds AppContainer.
func Setup() error {
	envFile, envErr := config.LoadEnv()

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()

	if envErr != nil {
		Log.WithError(envErr).Warn("Error loading .env file")
	} else if envFile != "" {
		Log.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
	}
	return nil
}
