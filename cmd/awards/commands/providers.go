package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/beetlebot/award-finder/internal/output"
	"github.com/spf13/cobra"
)

func ProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List award search providers",
	}
	cmd.AddCommand(providersListCmd())
	return cmd
}

func providersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all registered providers and their status for the current mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			infos := buildRouter(cfg, buildLogger(cfg)).ProviderInfos()

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.JSON(infos)
			}
			tw := tabwriter.NewWriter(output.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Provider\tTier\tStatus\tCapabilities\tReason")
			for _, p := range infos {
				caps := make([]string, len(p.Capabilities))
				for i, c := range p.Capabilities {
					caps[i] = string(c)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Tier, p.Status, strings.Join(caps, ","), p.Reason)
			}
			return tw.Flush()
		},
	}
	return cmd
}
