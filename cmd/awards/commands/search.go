package commands

import (
	"strings"

	"github.com/beetlebot/award-finder/internal/config"
	"github.com/beetlebot/award-finder/internal/core"
	"github.com/beetlebot/award-finder/internal/output"
	"github.com/spf13/cobra"
)

// searchFlags override the config file field by field when set.
type searchFlags struct {
	origin, destination, cabin string
	start, end                 string
	card                       string
	sources                    []string
	sortBy                     string
	nonstop                    bool
	max                        int
	cashPrice                  float64
	segments                   bool
}

func (f *searchFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("origin") {
		cfg.Search.Origin = f.origin
	}
	if set("destination") {
		cfg.Search.Destination = f.destination
	}
	if set("cabin") {
		cfg.Search.Cabin = f.cabin
	}
	if set("start") {
		cfg.Search.StartDate = f.start
	}
	if set("end") {
		cfg.Search.EndDate = f.end
	}
	if set("card") {
		cfg.Search.CreditCard = f.card
		cfg.Search.Sources = nil
	}
	if set("sources") {
		cfg.Search.Sources = f.sources
		if !set("card") {
			cfg.Search.CreditCard = ""
		}
	}
	if set("sort") {
		cfg.Output.SortBy = f.sortBy
	}
	if set("nonstop") {
		cfg.Output.NonstopOnly = f.nonstop
	}
	if set("max") && f.max > 0 {
		cfg.Search.MaxResults = f.max
	}
	if set("cash-price") {
		price := f.cashPrice
		cfg.Valuation.BaselineCashPrice = &price
	}
	if set("segments") {
		cfg.Output.ShowSegments = f.segments
	}
}

func SearchCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search award availability across a card's transfer partners",
		Example: `  awards search                                  # everything from config.yaml
  awards search --origin JFK --destination LHR --cabin business \
      --start 2026-06-01 --end 2026-06-07 --card chase --sort cpp --cash-price 2400
  awards search --sources aeroplan,united --nonstop --json --mode mock`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			logger := buildLogger(cfg)

			orch, closeRates := buildOrchestrator(cmd.Context(), cfg, logger)
			defer closeRates()

			result, err := orch.Search(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.JSON(result)
			}
			return output.Table(result)
		},
	}

	cmd.Flags().StringVar(&f.origin, "origin", "", "Origin airport code")
	cmd.Flags().StringVar(&f.destination, "destination", "", "Destination airport code")
	cmd.Flags().StringVar(&f.cabin, "cabin", "", "Cabin: economy, premium, business, first")
	cmd.Flags().StringVar(&f.start, "start", "", "First departure date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "Last departure date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.card, "card", "", "Credit card whose transfer partners to search (see: awards cards list)")
	cmd.Flags().StringSliceVar(&f.sources, "sources", nil, "Explicit mileage programs, comma separated")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "Sort by: "+strategyNames())
	cmd.Flags().BoolVar(&f.nonstop, "nonstop", false, "Only show nonstop flights")
	cmd.Flags().IntVar(&f.max, "max", 0, "Maximum results to show")
	cmd.Flags().Float64Var(&f.cashPrice, "cash-price", 0, "Baseline cash fare in USD, enables CPP")
	cmd.Flags().BoolVar(&f.segments, "segments", false, "Show per-segment details")

	return cmd
}

func strategyNames() string {
	var names []string
	for _, s := range core.Strategies() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
