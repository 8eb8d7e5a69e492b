package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"granolad/internal/cachestore"
)

var testMCPImpl = &mcp.Implementation{Name: "granolad-test", Version: "0.0.1"}

func mcpSession(t *testing.T, store snapshotStore) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	testService(store).RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
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
	// GetError always returns nil on the client side; IsError is the
	// marshaled flag.
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %v", name, result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func snapshotMCPStore() *fakeStore {
	return &fakeStore{
		loadFn: func(context.Context) (*cachestore.Snapshot, error) { return testSnapshot(), nil },
	}
}

func TestMCPRecentMeetings(t *testing.T) {
	session := mcpSession(t, snapshotMCPStore())

	text := mcpCallTool(t, session, "granola_recent_meetings", map[string]any{"limit": 1})
	var payload struct {
		Meetings []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"meetings"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(payload.Meetings) != 1 || payload.Meetings[0].ID != "doc-1" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestMCPMeetingDigest(t *testing.T) {
	session := mcpSession(t, snapshotMCPStore())

	text := mcpCallTool(t, session, "granola_meeting_digest", map[string]any{})
	var payload struct {
		Period         string `json:"period"`
		TotalDocuments int    `json:"total_documents"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if payload.Period != "Last 7 days" || payload.TotalDocuments != 1 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestMCPTranscriptAndSummary(t *testing.T) {
	session := mcpSession(t, snapshotMCPStore())

	text := mcpCallTool(t, session, "granola_transcript", map[string]any{"document_id": "doc-1"})
	var transcript struct {
		Transcript string `json:"transcript"`
	}
	if err := json.Unmarshal([]byte(text), &transcript); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if transcript.Transcript != "hello world" {
		t.Fatalf("transcript = %+v", transcript)
	}

	text = mcpCallTool(t, session, "granola_summary", map[string]any{"document_id": "doc-1"})
	var summary struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if summary.Summary != "talked about goals" {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestMCPCheckOwnership(t *testing.T) {
	session := mcpSession(t, snapshotMCPStore())

	text := mcpCallTool(t, session, "granola_check_ownership", map[string]any{"document_id": "doc-3"})
	var decision struct {
		Owned bool   `json:"owned"`
		Rule  string `json:"rule"`
	}
	if err := json.Unmarshal([]byte(text), &decision); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if decision.Owned || decision.Rule != "user_id_mismatch" {
		t.Fatalf("decision = %+v", decision)
	}
}

func TestMCPToolErrors(t *testing.T) {
	session := mcpSession(t, snapshotMCPStore())

	t.Run("missing document_id", func(t *testing.T) {
		result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      "granola_transcript",
			Arguments: map[string]any{},
		})
		if err != nil {
			t.Fatalf("CallTool: %v", err)
		}
		if !result.IsError {
			t.Fatalf("expected tool error for missing document_id")
		}
	})

	t.Run("unknown document", func(t *testing.T) {
		result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      "granola_summary",
			Arguments: map[string]any{"document_id": "absent"},
		})
		if err != nil {
			t.Fatalf("CallTool: %v", err)
		}
		if !result.IsError {
			t.Fatalf("expected tool error for unknown document")
		}
	})
}
