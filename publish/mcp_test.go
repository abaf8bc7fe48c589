package publish

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "broadcast-test", Version: "0.1.0"}

func mcpSession(t *testing.T) (*mcp.ClientSession, *env) {
	t.Helper()
	e := newEnv(t)
	srv := mcp.NewServer(testMCPImpl, nil)
	e.coord.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session, e
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_PublishAndStatus(t *testing.T) {
	session, e := mcpSession(t)

	text := mcpCallTool(t, session, "broadcast_publish", map[string]any{
		"markup":    testMarkup,
		"doc_title": "Friday Rundown",
	})
	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("unmarshal publish result: %v", err)
	}
	if len(res.Code) != 6 {
		t.Errorf("code %q should be 6 characters", res.Code)
	}
	if res.Title != "Friday Rundown" {
		t.Errorf("title = %q", res.Title)
	}
	if e.records.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", e.records.createCalls)
	}

	text = mcpCallTool(t, session, "broadcast_status", map[string]any{})
	var status struct {
		Published   bool   `json:"published"`
		Code        string `json:"code"`
		AutoPublish bool   `json:"auto_publish"`
	}
	if err := json.Unmarshal([]byte(text), &status); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if !status.Published || status.Code != res.Code {
		t.Errorf("status = %+v, want published with code %q", status, res.Code)
	}
}

func TestMCP_AutoPublishToggle(t *testing.T) {
	session, e := mcpSession(t)

	mcpCallTool(t, session, "broadcast_autopublish", map[string]any{"enabled": true})
	if !e.session.AutoPublishEnabled() {
		t.Error("toggle not applied")
	}
	if e.settings.values[AutoPublishKey] != "1" {
		t.Error("toggle not persisted")
	}

	mcpCallTool(t, session, "broadcast_autopublish", map[string]any{"enabled": false})
	if e.session.AutoPublishEnabled() {
		t.Error("toggle not cleared")
	}
}
