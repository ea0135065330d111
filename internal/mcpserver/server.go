// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Hermod reminder tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/hermod/internal/clock"
	"github.com/starford/hermod/internal/models"
	"github.com/starford/hermod/internal/reminder"
	"github.com/starford/hermod/internal/store"
)

// Server wraps the MCP server with Hermod tools.
type Server struct {
	mcp *server.MCPServer
	svc *reminder.Service
	st  store.ReminderStore
	clk clock.Clock
}

// New creates a new MCP server with all Hermod tools registered.
func New(svc *reminder.Service, st store.ReminderStore, clk clock.Clock) *Server {
	if clk == nil {
		clk = clock.System{}
	}
	s := &Server{svc: svc, st: st, clk: clk}

	s.mcp = server.NewMCPServer(
		"Hermod",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_reminders",
		mcp.WithDescription("List all reminders owned by an employee."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Employee id whose reminders to list")),
	), s.listReminders)

	s.mcp.AddTool(mcp.NewTool("list_due_reminders",
		mcp.WithDescription("List reminders currently due for delivery across all owners."),
	), s.listDueReminders)

	s.mcp.AddTool(mcp.NewTool("create_reminder",
		mcp.WithDescription("Create a reminder for an employee. due_at is RFC 3339. "+
			"repeat_interval is optional: daily, weekly, or monthly."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Employee id that will own the reminder")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short reminder label")),
		mcp.WithString("body", mcp.Description("Free-form note content")),
		mcp.WithString("due_at", mcp.Required(), mcp.Description("When the reminder should first fire (RFC 3339)")),
		mcp.WithString("repeat_interval", mcp.Description("daily, weekly, or monthly; omit for one-off")),
	), s.createReminder)

	s.mcp.AddTool(mcp.NewTool("complete_reminder",
		mcp.WithDescription("Complete a reminder with a follow-up note. The note is graded "+
			"by word count; read the hermod://follow-up-contract resource first."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Reminder id")),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Owning employee id")),
		mcp.WithString("note", mcp.Required(), mcp.Description("Completion note (non-empty)")),
	), s.completeReminder)

	s.mcp.AddTool(mcp.NewTool("snooze_reminder",
		mcp.WithDescription("Snooze a reminder for a number of minutes (default 15)."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Reminder id")),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Owning employee id")),
		mcp.WithNumber("minutes", mcp.Description("Snooze duration in minutes")),
	), s.snoozeReminder)

	// Resource: follow-up note contract.
	s.mcp.AddResource(
		mcp.NewResource("hermod://follow-up-contract", "Follow-Up Note Contract",
			mcp.WithResourceDescription("How completion notes are graded for reporting."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
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

func (s *Server) listReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := req.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.svc.ListByOwner(ctx, reminder.Actor{ID: owner}, owner)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDueReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.st.FindDue(s.clk.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := req.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dueRaw, err := req.RequireString("due_at")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dueAt, err := time.Parse(time.RFC3339, dueRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid due_at: %v", err)), nil
	}

	in := reminder.CreateInput{Title: title, DueAt: dueAt}
	if body, bodyErr := req.RequireString("body"); bodyErr == nil {
		in.Body = body
	}
	if rep, repErr := req.RequireString("repeat_interval"); repErr == nil && rep != "" {
		in.RepeatInterval = models.RepeatInterval(rep)
	}

	r, err := s.svc.Create(ctx, reminder.Actor{ID: owner}, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", r.ID)), nil
}

func (s *Server) completeReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	owner, err := req.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.svc.Complete(ctx, reminder.Actor{ID: owner}, id, note)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("completed: %s (%s, %d words)", r.ID, r.ResponseColor, r.WordCount)), nil
}

func (s *Server) snoozeReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	owner, err := req.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	minutes := reminder.DefaultSnoozeMinutes
	if m, mErr := req.RequireFloat("minutes"); mErr == nil && m != 0 {
		minutes = int(m)
	}

	r, err := s.svc.Snooze(ctx, reminder.Actor{ID: owner}, id, minutes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("snoozed: %s until %s", r.ID, r.SnoozedUntil.Format(time.RFC3339))), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "hermod://follow-up-contract",
			MIMEType: "text/markdown",
			Text:     FollowUpContract,
		},
	}, nil
}
