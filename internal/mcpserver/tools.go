package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

// toolDef is a console operation exposed as an MCP tool. Method is the HTTP
// method of the matching REST route and selects the default annotations.
type toolDef struct {
	name    string
	method  string
	desc    string
	params  []mcp.ToolOption
	handler server.ToolHandlerFunc
}

type tools struct {
	svc      *core.Services
	pageSize int
}

func listParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("search", mcp.Description("Case-insensitive substring filter")),
		mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
		mcp.WithNumber("page_size", mcp.Description("Items per page (max 100)")),
		mcp.WithBoolean("refresh", mcp.Description("Fetch from the backend instead of the cached list")),
	}
}

func (t *tools) defs() []toolDef {
	idParam := func(what string) mcp.ToolOption {
		return mcp.WithString("id", mcp.Required(), mcp.Description(what+" ID"))
	}
	connParams := []mcp.ToolOption{
		mcp.WithString("name", mcp.Required(), mcp.Description("Connection name")),
		mcp.WithString("engine", mcp.Required(), mcp.Description("Database engine, e.g. mysql, mariadb, postgres, sqlserver, oracle, mongodb")),
		mcp.WithString("connection_type", mcp.Enum(model.RoleSource, model.RoleTarget), mcp.Description("Connection role, defaults to source")),
		mcp.WithString("host", mcp.Required()),
		mcp.WithString("port", mcp.Description("Port, defaults to 3306")),
		mcp.WithString("database", mcp.Required()),
		mcp.WithString("username", mcp.Required()),
		mcp.WithString("password", mcp.Required()),
		mcp.WithBoolean("ssl_enabled"),
		mcp.WithString("description"),
		mcp.WithString("schema_name"),
	}

	return []toolDef{
		{
			name: "list_connections", method: "GET",
			desc:    "List database connections.",
			params:  append(listParams(), mcp.WithString("status", mcp.Description("Last test status"))),
			handler: t.listConnections,
		},
		{
			name: "create_connection", method: "POST",
			desc:    "Create a database connection.",
			params:  connParams,
			handler: t.createConnection,
		},
		{
			name: "test_connection", method: "POST",
			desc:    "Test a saved connection. The result state is success or error.",
			params:  []mcp.ToolOption{idParam("Connection")},
			handler: t.testConnection,
		},
		{
			name: "delete_connection", method: "DELETE",
			desc:    "Delete a connection.",
			params:  []mcp.ToolOption{idParam("Connection")},
			handler: t.deleteConnection,
		},
		{
			name: "list_pipelines", method: "GET",
			desc:    "List ETL pipelines.",
			params:  append(listParams(), mcp.WithString("status", mcp.Description("Pipeline status"))),
			handler: t.listPipelines,
		},
		{
			name: "create_pipeline", method: "POST",
			desc: "Create an ETL pipeline. With source_type or target_type set to connection, the matching *_connection_id selects a saved connection.",
			params: []mcp.ToolOption{
				mcp.WithString("name", mcp.Required()),
				mcp.WithString("description"),
				mcp.WithString("source_type", mcp.Required()),
				mcp.WithString("source_connection_id"),
				mcp.WithString("source_config", mcp.Description("JSON object used when the source is not a saved connection")),
				mcp.WithString("target_type", mcp.Required()),
				mcp.WithString("target_connection_id"),
				mcp.WithString("target_config", mcp.Description("JSON object used when the target is not a saved connection")),
			},
			handler: t.createPipeline,
		},
		{
			name: "run_pipeline", method: "POST",
			desc:    "Start a pipeline run.",
			params:  []mcp.ToolOption{idParam("Pipeline")},
			handler: t.runPipeline,
		},
		{
			name: "list_runs", method: "GET",
			desc:    "List pipeline runs.",
			params:  append(listParams(), mcp.WithString("pipeline_id"), mcp.WithString("status")),
			handler: t.listRuns,
		},
		{
			name: "get_dashboard", method: "GET",
			desc:    "Replication totals for the last seven days, headline counts and recent events.",
			handler: t.dashboard,
		},
	}
}

// buildTools applies cfg to the tool definitions and drops disabled tools.
func buildTools(defs []toolDef, cfg *Config) []server.ServerTool {
	var out []server.ServerTool
	for _, d := range defs {
		if cfg.disabled(d.name) {
			continue
		}
		override, hasOverride := cfg.Overrides[d.name]
		desc := d.desc
		if hasOverride && override.Description != "" {
			desc = override.Description
		}

		opts := []mcp.ToolOption{mcp.WithDescription(desc)}
		opts = append(opts, buildAnnotations(d.method, cfg, override, hasOverride)...)
		opts = append(opts, d.params...)

		out = append(out, server.ServerTool{
			Tool:    mcp.NewTool(d.name, opts...),
			Handler: d.handler,
		})
	}
	return out
}

// buildAnnotations merges method defaults with a tool override.
func buildAnnotations(method string, cfg *Config, override ToolOverride, hasOverride bool) []mcp.ToolOption {
	var opts []mcp.ToolOption

	a := cfg.Defaults[method]
	if hasOverride {
		if override.ReadOnly != nil {
			a.ReadOnly = override.ReadOnly
		}
		if override.Destructive != nil {
			a.Destructive = override.Destructive
		}
		if override.Idempotent != nil {
			a.Idempotent = override.Idempotent
		}
	}

	if a.ReadOnly != nil {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(*a.ReadOnly))
	}
	if a.Destructive != nil {
		opts = append(opts, mcp.WithDestructiveHintAnnotation(*a.Destructive))
	}
	if a.Idempotent != nil {
		opts = append(opts, mcp.WithIdempotentHintAnnotation(*a.Idempotent))
	}

	return opts
}

// ---------- Handlers ----------

func (t *tools) listConnections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := t.svc.Connection.List(ctx, req.GetBool("refresh", false))
	if err != nil {
		return toolError(err), nil
	}
	items = filterStatus(items, req.GetString("status", ""), func(c model.Connection) string { return c.LastTestStatus })
	return jsonResult(pageOf(req, items, listview.ConnectionFields, t.pageSize))
}

func (t *tools) createConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	form := request.ConnectionForm{
		Name:           req.GetString("name", ""),
		Engine:         req.GetString("engine", ""),
		ConnectionType: req.GetString("connection_type", ""),
		Host:           req.GetString("host", ""),
		Port:           req.GetString("port", ""),
		Database:       req.GetString("database", ""),
		Username:       req.GetString("username", ""),
		Password:       req.GetString("password", ""),
		SSLEnabled:     req.GetBool("ssl_enabled", false),
		Description:    req.GetString("description", ""),
		SchemaName:     req.GetString("schema_name", ""),
	}
	conn, err := t.svc.Connection.Save(ctx, "", form)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(conn)
}

func (t *tools) testConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := t.svc.Connection.Test(ctx, core.TestTarget{ID: id})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(res)
}

func (t *tools) deleteConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.svc.Connection.Delete(ctx, id); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(`{"status":"success"}`), nil
}

func (t *tools) listPipelines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := t.svc.Pipeline.List(ctx, req.GetBool("refresh", false))
	if err != nil {
		return toolError(err), nil
	}
	items = filterStatus(items, req.GetString("status", ""), func(p model.ETLPipeline) string { return p.Status })
	return jsonResult(pageOf(req, items, listview.PipelineFields, t.pageSize))
}

func (t *tools) createPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := objectArg(req, "source_config")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := objectArg(req, "target_config")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	form := request.PipelineForm{
		Name:               req.GetString("name", ""),
		Description:        req.GetString("description", ""),
		SourceType:         req.GetString("source_type", ""),
		SourceConnectionID: req.GetString("source_connection_id", ""),
		SourceConfig:       source,
		TargetType:         req.GetString("target_type", ""),
		TargetConnectionID: req.GetString("target_connection_id", ""),
		TargetConfig:       target,
	}
	p, err := t.svc.Pipeline.Create(ctx, form)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(p)
}

func (t *tools) runPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	run, err := t.svc.Pipeline.Run(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(run)
}

func (t *tools) listRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := t.svc.Pipeline.Runs(ctx, req.GetString("pipeline_id", ""), req.GetBool("refresh", false))
	if err != nil {
		return toolError(err), nil
	}
	items = filterStatus(items, req.GetString("status", ""), func(r model.ETLRun) string { return r.Status })
	return jsonResult(pageOf(req, items, listview.RunFields, t.pageSize))
}

func (t *tools) dashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := t.svc.Dashboard.Get(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(d)
}

// ---------- Helpers ----------

func pageOf[T any](req mcp.CallToolRequest, items []T, fields listview.Fields[T], defaultSize int) listview.Page[T] {
	filtered := listview.Filter(items, req.GetString("search", ""), fields)
	return listview.Paginate(filtered, req.GetInt("page", 1), req.GetInt("page_size", defaultSize))
}

func filterStatus[T any](items []T, status string, get func(T) string) []T {
	if status == "" {
		return items
	}
	var out []T
	for _, it := range items {
		if strings.EqualFold(get(it), status) {
			out = append(out, it)
		}
	}
	return out
}

// objectArg decodes an optional JSON object argument. Clients may send the
// object itself or its JSON text.
func objectArg(req mcp.CallToolRequest, name string) (map[string]any, error) {
	raw, ok := req.GetArguments()[name]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("%s must be a JSON object: %w", name, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%s must be a JSON object", name)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError reports a service error to the client. Validation errors list
// every failing field.
func toolError(err error) *mcp.CallToolResult {
	if ve, ok := request.AsValidationError(err); ok && len(ve.Errors) > 1 {
		data, _ := json.Marshal(ve.Errors)
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", ve.Error(), data))
	}
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		return mcp.NewToolResultError(nf.Message)
	}
	return mcp.NewToolResultError(err.Error())
}
