package main

import (
	"context"
	"os"

	"github.com/aretw0/charter"
	"github.com/aretw0/charter/internal/cli"
	"github.com/aretw0/charter/internal/presentation/tui"
	"github.com/aretw0/charter/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill a card interactively in the terminal",
	Long: `Runs the booking wizard against stdin/stdout. Buttons are listed with numbers:
type the number to press one, "@token" to send a raw callback, "/cancel" to start over
and "exit" to quit. The finished card is saved to --out.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		if !cmd.Flags().Changed("log-level") && !cfg.Debug {
			cfg.LogLevel = "warn"
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		outDir, _ := cmd.Flags().GetString("out")
		userID, _ := cmd.Flags().GetString("user")
		resume, _ := cmd.Flags().GetBool("resume")

		logger := newLogger(cfg)
		ctx := context.Background()

		app, err := cli.NewApp(ctx, cfg, logger, cli.AppOptions{})
		exitOnError("initializing", err)
		defer app.Close()

		var handler runner.IOHandler
		if jsonMode {
			handler = runner.NewJSONHandler(os.Stdin, os.Stdout)
		} else {
			text := runner.NewTextHandler(os.Stdin, os.Stdout,
				runner.WithOutputDir(outDir),
				runner.WithTextHandlerRenderer(tui.NewRenderer()),
			)
			if text.Interactive() {
				tui.PrintBanner(os.Stdout, charter.Version)
			}
			handler = text
		}

		opts := []runner.Option{
			runner.WithInputHandler(handler),
			runner.WithLogger(logger),
			runner.WithUserID(userID),
		}
		if resume {
			opts = append(opts, runner.WithoutStart())
		}
		exitOnError("running session", runner.NewRunner(opts...).Run(ctx, app.Engine))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().StringP("out", "o", ".", "Directory the finished card is written to")
	runCmd.Flags().StringP("user", "u", runner.DefaultUserID, "User ID the session runs as")
	runCmd.Flags().Bool("resume", false, "Continue the stored session instead of sending /start")
}
