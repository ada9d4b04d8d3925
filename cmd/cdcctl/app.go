package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edvin/cdcadmin/internal/cdc"
	"github.com/edvin/cdcadmin/internal/cli"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/store"
)

// app carries the global flags and the state derived from them.
type app struct {
	profileName  string
	profilesPath string
	verbose      bool
	jsonOut      bool
	timeout      time.Duration

	printer *cli.Printer
	logger  zerolog.Logger
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		printer: &cli.Printer{Out: out, Err: errOut},
		logger:  zerolog.Nop(),
	}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cdcctl",
		Short:         "Manage CDC connections and ETL pipelines from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.printer.JSON = a.jsonOut
			level := zerolog.WarnLevel
			if a.verbose {
				level = zerolog.DebugLevel
			}
			a.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
				With().Timestamp().Logger().Level(level)
			if a.profilesPath == "" {
				path, err := cli.DefaultProfilesPath()
				if err != nil {
					return err
				}
				a.profilesPath = path
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.profileName, "profile", "p", "", "profile to use (default: the active profile)")
	flags.StringVar(&a.profilesPath, "profiles-file", "", "path of the profiles file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log backend calls to stderr")
	flags.BoolVar(&a.jsonOut, "json", false, "print results as JSON")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "backend request timeout")

	cmd.AddCommand(
		a.loginCmd(),
		a.whoamiCmd(),
		a.profilesCmd(),
		a.connectionsCmd(),
		a.pipelinesCmd(),
		a.runsCmd(),
		a.usersCmd(),
		a.dashboardCmd(),
		a.watchCmd(),
	)
	return cmd
}

func (a *app) loadProfiles() (*cli.Profiles, error) {
	return cli.LoadProfiles(a.profilesPath)
}

func (a *app) profile() (*cli.Profile, error) {
	profiles, err := a.loadProfiles()
	if err != nil {
		return nil, err
	}
	prof, err := profiles.Get(a.profileName)
	if err != nil {
		return nil, fmt.Errorf("%w (run `cdcctl login` first)", err)
	}
	return prof, nil
}

func (a *app) client(baseURL, token string) *cdc.Client {
	return cdc.NewClient(baseURL, token, cdc.WithTimeout(a.timeout))
}

// services builds the in-process console against the selected profile. The
// store lives until ctx ends.
func (a *app) services(ctx context.Context) (*core.Services, error) {
	prof, err := a.profile()
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("profile", prof.Name).Str("api_url", prof.APIURL).Msg("using profile")
	st := store.New(ctx, a.logger)
	return core.NewServices(a.client(prof.APIURL, prof.Token), st, time.Local), nil
}
