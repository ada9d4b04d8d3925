package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/model"
)

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// ConnectionEditor returns the inputs of the interactive connection
// editor bound to f. Values already in f are shown as defaults.
func ConnectionEditor(f *request.ConnectionForm) *huh.Form {
	if f.Engine == "" {
		f.Engine = model.DatabaseMySQL
	}
	if f.ConnectionType == "" {
		f.ConnectionType = model.RoleSource
	}
	if f.Port == "" {
		f.Port = "3306"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name).Validate(required("Connection name is required")),
			huh.NewSelect[string]().Title("Engine").Options(
				huh.NewOption("MySQL / MariaDB", model.DatabaseMySQL),
				huh.NewOption("PostgreSQL", model.DatabasePostgreSQL),
				huh.NewOption("SQL Server", model.DatabaseSQLServer),
				huh.NewOption("Oracle", model.DatabaseOracle),
				huh.NewOption("MongoDB", model.DatabaseMongoDB),
			).Value(&f.Engine),
			huh.NewSelect[string]().Title("Role").Options(
				huh.NewOption("Source", model.RoleSource),
				huh.NewOption("Target", model.RoleTarget),
			).Value(&f.ConnectionType),
		),
		huh.NewGroup(
			huh.NewInput().Title("Host").Value(&f.Host).Validate(required("Host is required")),
			huh.NewInput().Title("Port").Value(&f.Port),
			huh.NewInput().Title("Database").Value(&f.Database).Validate(required("Database name is required")),
			huh.NewInput().Title("Schema").Value(&f.SchemaName),
		),
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&f.Username).Validate(required("Username is required")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.Password).Validate(required("Password is required")),
			huh.NewConfirm().Title("Use SSL?").Value(&f.SSLEnabled),
			huh.NewText().Title("Description").Value(&f.Description),
		),
	)
}

// LoginForm asks for missing credentials.
func LoginForm(email, password *string) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(email).Validate(required("Email is required")),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).Validate(required("Password is required")),
	))
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().Title(question).Affirmative("Yes").Negative("No").Value(&ok).Run()
	return ok, err
}
