package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yesilw0rks/airnote/internal/platform"
)

var (
	verbose bool
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "airnote",
	Short: "Notes that sync to the cloud and stay readable offline",
	Long: `AirNote keeps your notes in a remote PostgREST table and a local cache.
Reads fall back to the cache when the remote is unreachable and writes are
uploaded in the background, so nothing typed offline is lost.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&cfgFile, "config", "", "Config file (default: airnote.yaml in the project root or working directory)")
	flags.String("cache-dir", "", "Local cache directory (default: .airnote in the project root or the user cache dir)")
	flags.String("cache-ext", ".json", "Local cache format (.json or .yaml)")
	flags.String("url", "", "PostgREST project URL")
	flags.String("key", "", "PostgREST anon key")
	flags.String("token", "", "Access token of the signed-in user")
	flags.String("table", "", "Remote notes table")
	flags.String("remote", "", "Remote service: postgrest, memory or offline (default: postgrest when --url is set)")
	flags.Duration("timeout", 0, "Per-request timeout for the remote")
	flags.Duration("poll", 0, "Background refresh interval")
	flags.Bool("no-welcome", false, "Do not seed the welcome note for new guests")

	for _, name := range []string{"cache-dir", "cache-ext", "url", "key", "token", "table", "remote", "timeout", "poll", "no-welcome"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig reads AIRNOTE_* variables and the optional airnote.yaml.
func initConfig() error {
	viper.SetEnvPrefix("AIRNOTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(strings.TrimSuffix(platform.ConfigFileName, ".yaml"))
		viper.SetConfigType("yaml")
		if wd, err := os.Getwd(); err == nil {
			if root, err := platform.FindRoot(wd); err == nil {
				viper.AddConfigPath(root)
			}
		}
		viper.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "airnote"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	}
	slog.Debug("loaded config", "file", viper.ConfigFileUsed())
	return nil
}
