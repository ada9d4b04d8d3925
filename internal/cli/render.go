package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

func ConnectionsTable(pg listview.Page[model.Connection]) string {
	rows := make([][]string, 0, len(pg.Items))
	for _, c := range pg.Items {
		rows = append(rows, []string{
			c.ID.String(),
			c.Name,
			model.DatabaseTypeLabel(c.DatabaseType),
			c.ConnectionType,
			c.Host + ":" + strconv.Itoa(c.Port),
			c.Database,
			Status(c.LastTestStatus),
		})
	}
	return Table([]string{"ID", "NAME", "ENGINE", "ROLE", "ADDRESS", "DATABASE", "LAST TEST"}, rows) +
		"\n" + PageFooter(pg.Page, pg.TotalPages, pg.Total)
}

func PipelinesTable(pg listview.Page[model.ETLPipeline]) string {
	rows := make([][]string, 0, len(pg.Items))
	for _, p := range pg.Items {
		rows = append(rows, []string{
			p.ID.String(),
			p.Name,
			endpointLabel(p.SourceType, p.SourceConfig),
			endpointLabel(p.TargetType, p.TargetConfig),
			Status(p.Status),
		})
	}
	return Table([]string{"ID", "NAME", "SOURCE", "TARGET", "STATUS"}, rows) +
		"\n" + PageFooter(pg.Page, pg.TotalPages, pg.Total)
}

func RunsTable(pg listview.Page[model.ETLRun]) string {
	rows := make([][]string, 0, len(pg.Items))
	for _, r := range pg.Items {
		rows = append(rows, []string{
			r.ID.String(),
			firstNonEmpty(r.PipelineName, r.PipelineID.String()),
			Status(r.Status),
			formatTime(r.StartedAt),
			formatTime(r.FinishedAt),
			strconv.FormatInt(r.RowsProcessed, 10),
			r.ErrorMessage,
		})
	}
	return Table([]string{"ID", "PIPELINE", "STATUS", "STARTED", "FINISHED", "ROWS", "ERROR"}, rows) +
		"\n" + PageFooter(pg.Page, pg.TotalPages, pg.Total)
}

func UsersTable(pg listview.Page[model.User]) string {
	rows := make([][]string, 0, len(pg.Items))
	for _, u := range pg.Items {
		active := "no"
		if u.IsActive {
			active = "yes"
		}
		rows = append(rows, []string{u.ID.String(), u.Email, u.FullName, u.RoleName, active})
	}
	return Table([]string{"ID", "EMAIL", "NAME", "ROLE", "ACTIVE"}, rows) +
		"\n" + PageFooter(pg.Page, pg.TotalPages, pg.Total)
}

// TestResultLine renders a connection test outcome.
func TestResultLine(name string, res model.TestResult) string {
	return fmt.Sprintf("%s %s: %s", Status(string(res.State)), name, res.Message)
}

// DashboardView renders headline counts, the seven-day table and recent
// events.
func DashboardView(d *core.Dashboard) string {
	s := d.Summary
	var b strings.Builder
	b.WriteString(Box(fmt.Sprintf(
		"Connections %d (%d source, %d target, %d failing)\nPipelines   %d (%d active)\nReplicated  %d   Synced %d   Errors %d",
		s.Connections, s.SourceConnections, s.TargetConnections, s.FailedTests,
		s.Pipelines, s.ActivePipelines,
		s.Replicated, s.Synced, s.Errors,
	)))
	b.WriteString("\n")

	rows := make([][]string, 0, len(d.Days))
	for _, day := range d.Days {
		rows = append(rows, []string{
			day.Label,
			strconv.FormatInt(day.Replicated, 10),
			strconv.FormatInt(day.Synced, 10),
			strconv.FormatInt(day.Errors, 10),
			strconv.Itoa(day.Events),
		})
	}
	b.WriteString(Table([]string{"DAY", "REPLICATED", "SYNCED", "ERRORS", "EVENTS"}, rows))
	b.WriteString("\n")

	if len(d.RecentEvents) > 0 {
		b.WriteString(titleStyle.Render("Recent events"))
		b.WriteString("\n")
		for _, e := range d.RecentEvents {
			level := e.Level
			if strings.EqualFold(level, model.LevelError) {
				level = errorStyle.Render(level)
			} else if strings.EqualFold(level, model.LevelWarning) {
				level = warningStyle.Render(level)
			}
			fmt.Fprintf(&b, "%s %-7s %s\n", mutedStyle.Render(e.Timestamp.Local().Format("01-02 15:04")), level, e.Message)
		}
	}
	b.WriteString(mutedStyle.Render("generated " + d.GeneratedAt.Local().Format(time.DateTime)))
	return b.String()
}

func endpointLabel(kind string, cfg map[string]any) string {
	if kind == model.EndpointModeConnection {
		if name, ok := cfg["connection_name"].(string); ok && name != "" {
			return name
		}
	}
	return kind
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
