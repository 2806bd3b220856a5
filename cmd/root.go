package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/unicode/norm"

	"scour/internal/search"
)

var version = "0.1.0"

// rootCmd runs a one-shot search: walk the tree under <path> and
// report every name match and every content-match offset for <query>.
var rootCmd = &cobra.Command{
	Use:   "scour [flags] <path> <query>",
	Short: "Parallel find+grep over a directory tree",
	Long: `scour recursively walks a directory tree and reports, for every entry,
whether its name matches the query and - for regular files - every byte
offset where the query occurs in the file's contents.

Content matches print as "<path>::<offset>", name matches as "<path>".
Per-path errors go to the log sink, never to standard output.`,
	Version:       version,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := buildLogger()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		defer logger.Sync()

		opts := search.Options{
			NumWorkers: viper.GetInt("workers"),
			Output:     os.Stdout,
			Logger:     logger,
		}
		// Normalize the CLI argument; the engine itself matches exact bytes.
		query := norm.NFC.String(args[1])

		if err := search.Run(args[0], query, opts); err != nil {
			logger.Error("unrecoverable error", zap.Error(err))
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().IntP("workers", "w", search.DefaultWorkers, "Number of concurrent file-scan workers")
	rootCmd.PersistentFlags().String("log-level", "", "Log level printed to stderr (trace|debug|info|warn|error), off if absent")
	rootCmd.PersistentFlags().String("debug-file", "", "Debug log file, none if absent")

	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("debug-file", rootCmd.PersistentFlags().Lookup("debug-file"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".scour")
	}

	viper.SetEnvPrefix("scour")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// buildLogger assembles the log sinks: a stderr console core at the
// configured level (off when no level is given) plus, when a debug
// file is configured, a JSON file core pinned at debug. Standard
// output stays reserved for matches.
func buildLogger() (*zap.Logger, error) {
	var cores []zapcore.Core

	if lvl, enabled := parseLevel(viper.GetString("log-level")); enabled {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl))
	}

	if debugFile := viper.GetString("debug-file"); debugFile != "" {
		f, err := os.Create(debugFile)
		if err != nil {
			return nil, search.Startupf("could not open debug file %s: %v", debugFile, err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.DebugLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// parseLevel maps a --log-level value onto a zap level. An empty or
// unrecognized value disables the stderr core entirely.
func parseLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(s) {
	case "trace", "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InvalidLevel, false
	}
}
