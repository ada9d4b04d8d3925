package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/cli"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

func (a *app) connectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conn", "c"},
		Short:   "Manage database connections",
	}
	cmd.AddCommand(
		a.connectionsListCmd(),
		a.connectionsCreateCmd(),
		a.connectionsTestCmd(),
		a.connectionsDeleteCmd(),
	)
	return cmd
}

func (a *app) connectionsListCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			conns, err := svcs.Connection.List(cmd.Context(), true)
			if err != nil {
				return err
			}
			pg := apply(conns, lf, listview.ConnectionFields, func(c model.Connection) string { return c.LastTestStatus })
			return a.printer.Value(pg, func() string { return cli.ConnectionsTable(pg) })
		},
	}
	lf.bind(cmd, true)
	return cmd
}

// bindConnectionForm registers one flag per editor field.
func bindConnectionForm(cmd *cobra.Command, f *request.ConnectionForm) {
	flags := cmd.Flags()
	flags.StringVar(&f.Name, "name", "", "connection name")
	flags.StringVar(&f.Engine, "engine", "", "database engine (mysql, mariadb, postgres, mssql, oracle, mongodb)")
	flags.StringVar(&f.ConnectionType, "role", model.RoleSource, "source or target")
	flags.StringVar(&f.Host, "host", "", "database host")
	flags.StringVar(&f.Port, "port", "", "database port (default 3306)")
	flags.StringVar(&f.Database, "database", "", "database name")
	flags.StringVar(&f.Username, "username", "", "database user")
	flags.StringVar(&f.Password, "password", "", "database password")
	flags.BoolVar(&f.SSLEnabled, "ssl", false, "connect with TLS")
	flags.StringVar(&f.Description, "description", "", "free-form description")
	flags.StringVar(&f.SchemaName, "schema", "", "schema name")
}

func (a *app) connectionsCreateCmd() *cobra.Command {
	var (
		form        request.ConnectionForm
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a connection from flags or an interactive form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interactive {
				if err := cli.ConnectionEditor(&form).Run(); err != nil {
					return err
				}
			}
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			conn, err := svcs.Connection.Save(cmd.Context(), "", form)
			if err != nil {
				return err
			}
			return a.printer.Value(conn, func() string {
				return fmt.Sprintf("Created connection %q (id %s)", conn.Name, conn.ID)
			})
		},
	}
	bindConnectionForm(cmd, &form)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "fill the connection in a form")
	return cmd
}

func (a *app) connectionsTestCmd() *cobra.Command {
	var (
		form    request.ConnectionForm
		unsaved bool
	)
	cmd := &cobra.Command{
		Use:   "test [ID]",
		Short: "Test a stored connection, or the one described by flags with --unsaved",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := core.TestTarget{Form: &form, Key: "cli"}
			label := form.Name
			if !unsaved {
				if len(args) != 1 {
					return fmt.Errorf("a connection ID is required unless --unsaved is set")
				}
				target = core.TestTarget{ID: args[0]}
				label = "connection " + args[0]
			}

			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svcs.Connection.Test(cmd.Context(), target)
			if err != nil {
				return err
			}
			if err := a.printer.Value(res, func() string { return cli.TestResultLine(label, res) }); err != nil {
				return err
			}
			if res.State != model.TestSuccess {
				return fmt.Errorf("connection test failed")
			}
			return nil
		},
	}
	bindConnectionForm(cmd, &form)
	cmd.Flags().BoolVar(&unsaved, "unsaved", false, "test the connection given by flags without saving it")
	return cmd
}

func (a *app) connectionsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := cli.Confirm(fmt.Sprintf("Delete connection %s?", args[0]))
				if err != nil || !ok {
					return err
				}
			}
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svcs.Connection.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printer.Success("Deleted connection " + args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
