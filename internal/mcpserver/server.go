// Package mcpserver exposes the vault to the conversational agent over
// the Model Context Protocol via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/rolodex/internal/audit"
	"github.com/starford/rolodex/internal/models"
	"github.com/starford/rolodex/internal/report"
	"github.com/starford/rolodex/internal/schedule"
	"github.com/starford/rolodex/internal/storage"
)

// Server wraps the MCP server with the Rolodex tools.
type Server struct {
	mcp      *server.MCPServer
	store    storage.Provider
	reporter *report.Reporter
	runner   *schedule.Runner

	// Cached report snapshot, invalidated by the vault watcher.
	mu     sync.Mutex
	cached []models.ReportRow
	dirty  bool
}

// New creates an MCP server with all tools registered.
func New(store storage.Provider, reporter *report.Reporter, runner *schedule.Runner) *Server {
	s := &Server{store: store, reporter: reporter, runner: runner, dirty: true}

	s.mcp = server.NewMCPServer(
		"Rolodex",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("status_report",
		mcp.WithDescription("Staleness report over all active leads and projects: "+
			"title, kind, lifecycle status, and how long since the last update."),
	), s.statusReport)

	s.mcp.AddTool(mcp.NewTool("dump_records",
		mcp.WithDescription("Dump the full text of every active record in a category, "+
			"delimited by START/END FILE markers, for summarization."),
		mcp.WithString("category", mcp.Required(),
			mcp.Description("One of: lead, project, person, outreach")),
	), s.dumpRecords)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read the full content of a record."),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("Relative path, e.g. active_leads/acme.md")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("move_record",
		mcp.WithDescription("Move a record between directories. This is how lifecycle "+
			"transitions happen: archive a lead into active_leads/archive/, complete a "+
			"project into projects/done/."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Current relative path")),
		mcp.WithString("to", mcp.Required(), mcp.Description("New relative path")),
	), s.moveRecord)

	s.mcp.AddTool(mcp.NewTool("run_schedule",
		mcp.WithDescription("Scan a document for @reminder/@calendar/@imessage tags and "+
			"execute the ones not yet in the idempotency ledger. Safe to re-run."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path of the document to scan")),
		mcp.WithBoolean("dry_run", mcp.Description("Resolve and report actions without executing them")),
	), s.runSchedule)

	s.mcp.AddTool(mcp.NewTool("audit_moves",
		mcp.WithDescription("Audit weekly plan files for open tasks and how many times "+
			"each has been carried between weeks."),
	), s.auditMoves)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the canonical record format contract. Call this "+
			"before creating or editing records."),
	), s.getRecordContract)

	s.mcp.AddResource(
		mcp.NewResource("rolodex://record-format", "Record Format Contract",
			mcp.WithResourceDescription("Canonical record layout, status block, and tag syntax."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Invalidate marks the cached report snapshot stale. Wired to the
// vault watcher.
func (s *Server) Invalidate() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

func (s *Server) statusReport(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()

	s.mu.Lock()
	rows := s.cached
	stale := s.dirty
	s.mu.Unlock()

	if stale {
		fresh, err := s.reporter.Build(now)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.mu.Lock()
		s.cached = fresh
		s.dirty = false
		s.mu.Unlock()
		rows = fresh
	}

	var sb strings.Builder
	if err := report.RenderTable(&sb, rows, now); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) dumpRecords(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind := models.Kind(category)
	var sb strings.Builder
	if err := s.reporter.Dump(&sb, kind); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) readRecord(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) moveRecord(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Move(from, to); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.Invalidate()
	return mcp.NewToolResultText(fmt.Sprintf("moved: %s -> %s", from, to)), nil
}

func (s *Server) runSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dryRun := boolArg(req, "dry_run")

	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}

	summary := s.runner.ProcessDocument(ctx, string(data), time.Now(), schedule.Options{DryRun: dryRun})

	out := struct {
		Executed int      `json:"executed"`
		Skipped  int      `json:"skipped"`
		Warnings []string `json:"warnings,omitempty"`
		Errors   []string `json:"errors,omitempty"`
	}{Executed: summary.Executed()}
	for _, r := range summary.Results {
		if r.Skipped {
			out.Skipped++
		}
	}
	for _, w := range summary.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	for _, e := range summary.Failed() {
		out.Errors = append(out.Errors, e.Error())
	}
	payload, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) auditMoves(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.store.ListWeekFiles()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docs := make([]audit.Document, 0, len(files))
	for _, f := range files {
		data, readErr := s.store.Read(f)
		if readErr != nil {
			continue
		}
		docs = append(docs, audit.Document{Name: f, Text: string(data)})
	}
	var sb strings.Builder
	if err := audit.Render(&sb, audit.Run(docs)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) getRecordContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "rolodex://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}

func boolArg(req mcp.CallToolRequest, key string) bool {
	v, ok := req.GetArguments()[key].(bool)
	return ok && v
}
