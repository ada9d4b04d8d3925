package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/cli"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/token"
)

func (a *app) loginCmd() *cobra.Command {
	var (
		name     string
		apiURL   string
		email    string
		password string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a CDC backend and save the session as a profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if apiURL == "" {
				return fmt.Errorf("--url is required")
			}
			if email == "" || password == "" {
				if err := cli.LoginForm(&email, &password).Run(); err != nil {
					return err
				}
			}

			auth := core.NewAuthService(a.client(apiURL, ""))
			session, err := auth.Login(cmd.Context(), request.LoginForm{Email: email, Password: password})
			if err != nil {
				return err
			}

			profiles, err := a.loadProfiles()
			if err != nil {
				return err
			}
			saved := profiles.Put(cli.Profile{Name: name, APIURL: apiURL, Token: session.AccessToken, Email: email})
			if err := profiles.SetActive(saved); err != nil {
				return err
			}
			if err := profiles.Save(); err != nil {
				return err
			}
			a.printer.Success(fmt.Sprintf("Signed in as %s (profile %q)", email, saved))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "default", "profile name")
	cmd.Flags().StringVar(&apiURL, "url", "", "CDC backend base URL")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account of the current profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prof, err := a.profile()
			if err != nil {
				return err
			}
			info := token.Inspect(prof.Token)

			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			user, err := svcs.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}

			out := struct {
				Profile string     `json:"profile"`
				APIURL  string     `json:"api_url"`
				User    any        `json:"user"`
				Token   token.Info `json:"token"`
			}{prof.Name, prof.APIURL, user, info}
			return a.printer.Value(out, func() string {
				text := fmt.Sprintf("%s (%s) on %s\nprofile %s", user.Email, user.RoleName, prof.APIURL, prof.Name)
				if info.ExpiresAt != nil {
					text += "\ntoken expires " + info.ExpiresAt.Local().Format("2006-01-02 15:04")
				}
				return cli.Box(text)
			})
		},
	}
}

func (a *app) profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List and select saved profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := a.loadProfiles()
			if err != nil {
				return err
			}
			type entry struct {
				Name   string `json:"name"`
				APIURL string `json:"api_url"`
				Email  string `json:"email,omitempty"`
				Active bool   `json:"active"`
			}
			var entries []entry
			var rows [][]string
			for _, name := range profiles.Names() {
				p := profiles.Profiles[name]
				e := entry{Name: name, APIURL: p.APIURL, Email: p.Email, Active: name == profiles.Active}
				entries = append(entries, e)
				marker := ""
				if e.Active {
					marker = "*"
				}
				rows = append(rows, []string{marker, name, p.APIURL, p.Email})
			}
			return a.printer.Value(entries, func() string {
				return cli.Table([]string{"", "NAME", "API URL", "EMAIL"}, rows)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "use NAME",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := a.loadProfiles()
			if err != nil {
				return err
			}
			if err := profiles.SetActive(args[0]); err != nil {
				return err
			}
			if err := profiles.Save(); err != nil {
				return err
			}
			a.printer.Success(fmt.Sprintf("Active profile set to %q", args[0]))
			return nil
		},
	}, &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := a.loadProfiles()
			if err != nil {
				return err
			}
			if err := profiles.Delete(args[0]); err != nil {
				return err
			}
			if err := profiles.Save(); err != nil {
				return err
			}
			a.printer.Success(fmt.Sprintf("Deleted profile %q", args[0]))
			return nil
		},
	})
	return cmd
}
