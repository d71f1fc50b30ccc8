package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/beetlebot/award-finder/internal/catalog"
	"github.com/beetlebot/award-finder/internal/output"
	"github.com/spf13/cobra"
)

func CardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Inspect credit card transfer partners",
	}
	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsShowCmd())
	return cmd
}

func cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported credit cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cards := catalog.Cards()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.JSON(cards)
			}
			tw := tabwriter.NewWriter(output.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCard\tPartners")
			for _, c := range cards {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ID, c.DisplayName, len(c.Partners))
			}
			return tw.Flush()
		},
	}
}

type cardPartners struct {
	Card     catalog.Card      `json:"card"`
	Programs []catalog.Program `json:"programs"`
}

func cardsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <card>",
		Short: "Show the loyalty programs a card transfers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partners, err := catalog.PartnersFor(args[0])
			if err != nil {
				return err
			}
			id := strings.ToLower(strings.TrimSpace(args[0]))
			res := cardPartners{Card: catalog.Card{ID: id, DisplayName: catalog.CardName(id), Partners: partners}}
			for _, p := range partners {
				res.Programs = append(res.Programs, catalog.Program{ID: p, DisplayName: catalog.ProgramName(p)})
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.JSON(res)
			}
			fmt.Fprintf(output.Writer, "%s\n\n", res.Card.DisplayName)
			tw := tabwriter.NewWriter(output.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Source\tProgram")
			for _, p := range res.Programs {
				fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.DisplayName)
			}
			return tw.Flush()
		},
	}
}

func ProgramsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs",
		Short: "Inspect airline loyalty programs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known loyalty programs and their seats.aero source ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			programs := catalog.Programs()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.JSON(programs)
			}
			tw := tabwriter.NewWriter(output.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Source\tProgram")
			for _, p := range programs {
				fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.DisplayName)
			}
			return tw.Flush()
		},
	})
	return cmd
}
