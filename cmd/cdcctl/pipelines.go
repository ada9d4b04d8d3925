package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/cli"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

func (a *app) pipelinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pipelines",
		Aliases: []string{"pl"},
		Short:   "Manage ETL pipelines",
	}
	cmd.AddCommand(
		a.pipelinesListCmd(),
		a.pipelinesCreateCmd(),
		a.pipelinesRunCmd(),
		a.pipelinesDeleteCmd(),
	)
	return cmd
}

func (a *app) pipelinesListCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipelines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			items, err := svcs.Pipeline.List(cmd.Context(), true)
			if err != nil {
				return err
			}
			pg := apply(items, lf, listview.PipelineFields, func(p model.ETLPipeline) string { return p.Status })
			return a.printer.Value(pg, func() string { return cli.PipelinesTable(pg) })
		},
	}
	lf.bind(cmd, true)
	return cmd
}

// jsonObject decodes a flag holding a JSON object. Empty means nil.
func jsonObject(flag, raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("--%s must be a JSON object: %w", flag, err)
	}
	return out, nil
}

func (a *app) pipelinesCreateCmd() *cobra.Command {
	var (
		form           request.PipelineForm
		sourceConfig   string
		targetConfig   string
		scheduleConfig string
		transforms     []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pipeline between stored connections or manual endpoints",
		Example: `  cdcctl pipelines create --name orders-sync \
    --source-type connection --source-connection 3 \
    --target-type s3 --target-config '{"bucket":"lake"}'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if form.SourceConfig, err = jsonObject("source-config", sourceConfig); err != nil {
				return err
			}
			if form.TargetConfig, err = jsonObject("target-config", targetConfig); err != nil {
				return err
			}
			if form.ScheduleConfig, err = jsonObject("schedule-config", scheduleConfig); err != nil {
				return err
			}
			for _, id := range transforms {
				form.TransformationIDs = append(form.TransformationIDs, model.ID(id))
			}

			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			p, err := svcs.Pipeline.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			return a.printer.Value(p, func() string {
				return fmt.Sprintf("Created pipeline %q (id %s)", p.Name, p.ID)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&form.Name, "name", "", "pipeline name")
	flags.StringVar(&form.Description, "description", "", "free-form description")
	flags.StringVar(&form.SourceType, "source-type", model.EndpointModeConnection, "source kind; \"connection\" uses --source-connection")
	flags.StringVar(&form.SourceConnectionID, "source-connection", "", "stored connection ID for the source")
	flags.StringVar(&sourceConfig, "source-config", "", "manual source config as a JSON object")
	flags.StringVar(&form.TargetType, "target-type", model.EndpointModeConnection, "target kind; \"connection\" uses --target-connection")
	flags.StringVar(&form.TargetConnectionID, "target-connection", "", "stored connection ID for the target")
	flags.StringVar(&targetConfig, "target-config", "", "manual target config as a JSON object")
	flags.StringVar(&scheduleConfig, "schedule-config", "", "schedule as a JSON object")
	flags.StringSliceVar(&transforms, "transformation", nil, "transformation IDs to apply, in order")
	return cmd
}

func (a *app) pipelinesRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run ID",
		Short: "Start a pipeline run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			run, err := svcs.Pipeline.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer.Value(run, func() string {
				return fmt.Sprintf("Started run %s of pipeline %s (%s)", run.ID, args[0], cli.Status(run.Status))
			})
		},
	}
}

func (a *app) pipelinesDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := cli.Confirm(fmt.Sprintf("Delete pipeline %s?", args[0]))
				if err != nil || !ok {
					return err
				}
			}
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svcs.Pipeline.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printer.Success("Deleted pipeline " + args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) runsCmd() *cobra.Command {
	var (
		lf         listFlags
		pipelineID string
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List pipeline runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			runs, err := svcs.Pipeline.Runs(cmd.Context(), pipelineID, true)
			if err != nil {
				return err
			}
			pg := apply(runs, lf, listview.RunFields, func(r model.ETLRun) string { return r.Status })
			return a.printer.Value(pg, func() string { return cli.RunsTable(pg) })
		},
	}
	lf.bind(cmd, true)
	cmd.Flags().StringVar(&pipelineID, "pipeline", "", "only runs of this pipeline")
	return cmd
}
