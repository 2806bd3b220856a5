package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"scour/internal/search"
)

// watchCmd searches the tree once, then keeps re-scanning files as
// they are created or modified until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch [flags] <path> <query>",
	Short: "Search a tree and keep re-scanning files as they change",
	Long: `watch performs a full search of <path> for <query>, then watches the
tree for changes: created or modified files are scanned again, and new
directories join the watch set. Runs until interrupted.`,
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

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := search.Options{
			NumWorkers: viper.GetInt("workers"),
			Output:     os.Stdout,
			Logger:     logger,
		}
		query := norm.NFC.String(args[1])

		if err := search.Watch(ctx, args[0], query, opts); err != nil {
			logger.Error("unrecoverable error", zap.Error(err))
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
