package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/beetlebot/award-finder/cmd/awards/commands"
	"github.com/beetlebot/award-finder/internal/output"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "awards",
		Short:         "Award flight search across credit card transfer partners",
		Long:          "Searches seats.aero award availability for the airline programs a credit card transfers to, normalizes taxes to USD, and ranks the results by miles, total cost, cents-per-point or date.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("mode", "", "Provider mode: mock, live, hybrid (default from config/env)")
	root.PersistentFlags().Bool("json", false, "Output as JSON")
	root.PersistentFlags().String("config", "", "Path to YAML config (default $AWARDS_CONFIG or ./config.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logging on stderr")
	root.PersistentFlags().String("log-format", "", "Diagnostic log format: text or json")

	root.AddCommand(commands.SearchCmd())
	root.AddCommand(commands.CardsCmd())
	root.AddCommand(commands.ProgramsCmd())
	root.AddCommand(commands.ProvidersCmd())
	root.AddCommand(commands.DoctorCmd())
	root.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		if asJSON, _ := root.PersistentFlags().GetBool("json"); asJSON {
			output.JSONError(err)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print awards CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(output.Writer, "awards", version)
		},
	}
}
