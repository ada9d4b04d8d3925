package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edvin/cdcadmin/internal/cli"
	"github.com/edvin/cdcadmin/internal/poller"
)

const clearScreen = "\x1b[H\x1b[2J"

func (a *app) dashboardCmd() *cobra.Command {
	var (
		follow   bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show connection and pipeline counts with the last seven days of activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svcs, err := a.services(ctx)
			if err != nil {
				return err
			}
			show := func() error {
				d, err := svcs.Dashboard.Get(ctx)
				if err != nil {
					return err
				}
				if follow && !a.jsonOut {
					fmt.Fprint(cmd.OutOrStdout(), clearScreen)
				}
				return a.printer.Value(d, func() string { return cli.DashboardView(d) })
			}
			if err := show(); err != nil || !follow {
				return err
			}

			ticker := time.NewTicker(poller.ClampInterval(interval))
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := show(); err != nil {
						a.printer.Warn(err.Error())
					}
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep refreshing until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "refresh interval when following (10s to 30s)")
	return cmd
}
