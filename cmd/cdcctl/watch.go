package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edvin/cdcadmin/internal/cli"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/poller"
	"github.com/edvin/cdcadmin/internal/store"
)

var watchViews = []string{"connections", "pipelines", "runs", "users"}

func (a *app) watchCmd() *cobra.Command {
	var (
		interval time.Duration
		lf       listFlags
	)
	cmd := &cobra.Command{
		Use:       "watch [VIEW]",
		Short:     "Poll the backend and redraw a list whenever it changes",
		Long:      "Polls connections, pipelines, runs and users on an interval and redraws VIEW (default connections).",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: watchViews,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := "connections"
			if len(args) == 1 {
				view = args[0]
			}

			ctx := cmd.Context()
			svcs, err := a.services(ctx)
			if err != nil {
				return err
			}
			updates, unsubscribe := svcs.Store.Subscribe()
			defer unsubscribe()

			p := poller.New(a.logger, svcs.Store, poller.ClampInterval(interval), svcs.RefreshTasks()...)
			p.Start(ctx)
			defer p.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case st, ok := <-updates:
					if !ok {
						return nil
					}
					if a.jsonOut {
						if err := a.printer.Value(st, nil); err != nil {
							return err
						}
						continue
					}
					fmt.Fprint(cmd.OutOrStdout(), clearScreen+renderState(view, st, lf))
				}
			}
		},
	}
	lf.bind(cmd, false)
	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "poll interval (10s to 30s)")
	return cmd
}

func renderState(view string, st store.State, lf listFlags) string {
	var b strings.Builder
	switch view {
	case "pipelines":
		b.WriteString(cli.PipelinesTable(apply(st.Pipelines, lf, listview.PipelineFields, nil)))
	case "runs":
		b.WriteString(cli.RunsTable(apply(st.Runs, lf, listview.RunFields, nil)))
	case "users":
		b.WriteString(cli.UsersTable(apply(st.Users, lf, listview.UserFields, nil)))
	default:
		b.WriteString(cli.ConnectionsTable(apply(st.Connections, lf, listview.ConnectionFields, nil)))
	}
	b.WriteString("\n")

	tasks := make([]string, 0, len(st.Errors))
	for task := range st.Errors {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	for _, task := range tasks {
		fmt.Fprintf(&b, "refresh of %s failed: %s\n", task, st.Errors[task])
	}
	fmt.Fprintf(&b, "updated %s, press Ctrl+C to stop\n", st.UpdatedAt.Local().Format(time.TimeOnly))
	return b.String()
}
