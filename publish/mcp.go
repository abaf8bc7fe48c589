package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/showgrid/broadcast/columns"
	"github.com/showgrid/broadcast/snapshot"
)

// RegisterMCP registers broadcast tools on an MCP server.
func (c *Coordinator) RegisterMCP(srv *mcp.Server) {
	c.registerPublishTool(srv)
	c.registerStatusTool(srv)
	c.registerAutoPublishTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func textResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(fmt.Errorf("marshal: %w", err))
		return &res, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) (*mcp.CallToolResult, error) {
	var res mcp.CallToolResult
	res.SetError(errors.New(err.Error()))
	return &res, nil
}

// --- publish ---

type publishReq struct {
	Title      string               `json:"title,omitempty"`
	AutoUpdate bool                 `json:"auto_update,omitempty"`
	Markup     string               `json:"markup"`
	Columns    []columns.ColumnSpec `json:"columns,omitempty"`
	DocTitle   string               `json:"doc_title,omitempty"`
}

func (c *Coordinator) registerPublishTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "broadcast_publish",
		Description: "Publish a static, read-only snapshot of the schedule table and return its share code and URL.",
		InputSchema: inputSchema(map[string]any{
			"title":       map[string]any{"type": "string", "description": "Broadcast title (defaults to the document title)"},
			"auto_update": map[string]any{"type": "boolean", "description": "Re-publish automatically on every save"},
			"markup":      map[string]any{"type": "string", "description": "The schedule table HTML fragment"},
			"columns": map[string]any{
				"type":        "array",
				"description": "Per-column visibility configuration",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"key":   map[string]any{"type": "string"},
						"print": map[string]any{"type": "boolean"},
					},
				},
			},
			"doc_title": map[string]any{"type": "string", "description": "Document title metadata"},
		}, []string{"markup"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r publishReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return errorResult(fmt.Errorf("invalid arguments: %w", err))
		}
		provider := &snapshot.StaticProvider{Source: &snapshot.Source{
			Markup:  r.Markup,
			Columns: r.Columns,
			Title:   r.DocTitle,
		}}
		result, err := c.PublishFrom(ctx, provider, Options{Title: r.Title, AutoUpdate: r.AutoUpdate})
		if err != nil {
			return errorResult(err)
		}
		return textResult(result)
	})
}

// --- status ---

func (c *Coordinator) registerStatusTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "broadcast_status",
		Description: "Report the current broadcast of this session (code, title) and the auto-publish toggle.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := map[string]any{
			"auto_publish": c.session.AutoPublishEnabled(),
			"published":    false,
		}
		if rec := c.session.CachedRecord(); rec != nil {
			resp["published"] = true
			resp["code"] = rec.Code
			resp["title"] = rec.Title
			resp["url"] = c.viewerBase + "?c=" + rec.Code
		}
		return textResult(resp)
	})
}

// --- autopublish ---

type autoPublishReq struct {
	Enabled bool `json:"enabled"`
}

func (c *Coordinator) registerAutoPublishTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "broadcast_autopublish",
		Description: "Enable or disable automatic re-publish on every save. The setting persists across restarts.",
		InputSchema: inputSchema(map[string]any{
			"enabled": map[string]any{"type": "boolean", "description": "New toggle state"},
		}, []string{"enabled"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r autoPublishReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return errorResult(fmt.Errorf("invalid arguments: %w", err))
		}
		if err := c.session.SetAutoPublish(ctx, r.Enabled); err != nil {
			return errorResult(err)
		}
		return textResult(map[string]any{"enabled": r.Enabled})
	})
}
