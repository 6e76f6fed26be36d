package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/cartdark/cartkit/internal/config"
	"github.com/cartdark/cartkit/internal/settings"
	"github.com/cartdark/cartkit/pkg/logging"
)

const version = "0.1.0"

var (
	configPath  string
	logLevel    string
	versionFlag bool
	rootCmd     *cobra.Command

	// Set by loadRuntime before any subcommand runs.
	cfg    *config.Config
	logger hclog.Logger
	store  settings.Store
)

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "cartkit",
		Short: "Create and maintain CartDark cart projects",
		Long: `cartkit creates cart projects, opens their .cart descriptors and keeps
pack.json consistent with the files under the project.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				printVersion(cmd)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (defaults to the user config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(newCmd, openCmd, locateCmd, validateCmd, fmtCmd, regenResCmd, syncCmd, scriptCmd)
}

// loadRuntime resolves the configuration, logger and settings store.
func loadRuntime(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger = logging.NewLoggerWithFormat("cartkit", level, cfg.Log.JSON, cmd.ErrOrStderr())

	store = settings.NewMemoryStore()
	if cfg.Settings.Path != "" {
		fileStore, err := settings.OpenFileStore(cfg.Settings.Path)
		if err != nil {
			logger.Warn("⚠️ Settings not loaded, using defaults", "path", cfg.Settings.Path, "error", err)
		} else {
			store = fileStore
		}
	}
	logger.Debug("🔧 Runtime ready", "config", configPath, "level", level, "settings", cfg.Settings.Path)
	return nil
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "cartkit %s\n", version)
	fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", getBuildTimestamp())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
