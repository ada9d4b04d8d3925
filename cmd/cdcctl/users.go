package main

import (
	"github.com/spf13/cobra"

	"github.com/edvin/cdcadmin/internal/cli"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

func (a *app) usersCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List console users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			users, err := svcs.User.List(cmd.Context(), true)
			if err != nil {
				return err
			}
			pg := apply(users, lf, listview.UserFields, func(u model.User) string { return u.Status })
			return a.printer.Value(pg, func() string { return cli.UsersTable(pg) })
		},
	}
	lf.bind(cmd, true)

	cmd.AddCommand(&cobra.Command{
		Use:   "roles",
		Short: "List assignable roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			roles, err := svcs.User.Roles(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(roles))
			for _, r := range roles {
				rows = append(rows, []string{r.ID.String(), r.Name, r.Description})
			}
			return a.printer.Value(roles, func() string {
				return cli.Table([]string{"ID", "NAME", "DESCRIPTION"}, rows)
			})
		},
	})
	return cmd
}
