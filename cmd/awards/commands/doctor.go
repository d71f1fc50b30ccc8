package commands

import (
	"fmt"
	"strings"

	"github.com/beetlebot/award-finder/internal/config"
	"github.com/beetlebot/award-finder/internal/core"
	"github.com/beetlebot/award-finder/internal/output"
	"github.com/spf13/cobra"
)

func DoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration, credentials, and provider health",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := core.DoctorReport{}

			cfg, path, err := loadConfig(cmd)
			if err != nil {
				report.ConfigError = err.Error()
				cfg = config.FromEnv()
				modeFlag, _ := cmd.Flags().GetString("mode")
				cfg.WithMode(modeFlag)
			} else if verr := cfg.Validate(); verr != nil && path != "" {
				report.ConfigError = verr.Error()
			}
			report.ConfigPath = path
			report.Mode = cfg.Mode

			logger := buildLogger(cfg)
			rates, backend := buildRateCache(cmd.Context(), cfg, logger)
			defer rates.Close()
			report.RateCache = backend

			router := buildRouter(cfg, logger)
			report.Providers = router.ProviderInfos()

			var issues []string
			if _, err := router.Active(); err != nil {
				issues = append(issues, err.Error())
			}
			for _, p := range report.Providers {
				if p.Status == "no_credentials" {
					issues = append(issues, fmt.Sprintf("%s: missing credentials", p.Name))
				}
			}
			if report.ConfigError != "" {
				issues = append(issues, "config: "+report.ConfigError)
			}

			active := 0
			for _, p := range report.Providers {
				if p.Status == "active" {
					active++
				}
			}
			report.Healthy = active > 0 && report.ConfigError == ""
			report.Summary = fmt.Sprintf("%d/%d providers active (mode=%s, rates=%s)",
				active, len(report.Providers), cfg.Mode, backend)
			if len(issues) > 0 {
				report.Summary += " | issues: " + strings.Join(issues, "; ")
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.JSON(report)
			}
			fmt.Fprintln(output.Writer, report.Summary)
			return nil
		},
	}
	return cmd
}
