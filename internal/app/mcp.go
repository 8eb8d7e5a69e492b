package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP exposes the digest operations as MCP tools. Every tool
// returns its result as one JSON-encoded text content block; operational
// failures become tool errors, not protocol errors.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	addTool(srv, &mcp.Tool{
		Name:        "granola_recent_meetings",
		Description: "List the user's most recently created meetings.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Maximum number of meetings to return (default 10)"},
		}, nil),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var params struct {
			Limit int `json:"limit"`
		}
		if err := unmarshalArgs(args, &params); err != nil {
			return nil, err
		}
		refs, err := s.RecentMeetings(ctx, params.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"meetings": refs}, nil
	})

	addTool(srv, &mcp.Tool{
		Name:        "granola_meeting_digest",
		Description: "Build a digest of the user's meetings from the last N days, with notes and transcripts.",
		InputSchema: inputSchema(map[string]any{
			"days_back": map[string]any{"type": "integer", "description": "Lookback window in days (default 7)"},
		}, nil),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var params struct {
			DaysBack int `json:"days_back"`
		}
		if err := unmarshalArgs(args, &params); err != nil {
			return nil, err
		}
		return s.BuildDigest(ctx, params.DaysBack)
	})

	addTool(srv, &mcp.Tool{
		Name:        "granola_transcript",
		Description: "Fetch the normalized transcript text for one meeting.",
		InputSchema: inputSchema(map[string]any{
			"document_id": map[string]any{"type": "string", "description": "Meeting document id"},
		}, []string{"document_id"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		docID, err := docIDArg(args)
		if err != nil {
			return nil, err
		}
		text, err := s.Transcript(ctx, docID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"transcript": text}, nil
	})

	addTool(srv, &mcp.Tool{
		Name:        "granola_summary",
		Description: "Fetch the resolved notes/summary text for one meeting.",
		InputSchema: inputSchema(map[string]any{
			"document_id": map[string]any{"type": "string", "description": "Meeting document id"},
		}, []string{"document_id"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		docID, err := docIDArg(args)
		if err != nil {
			return nil, err
		}
		text, err := s.Summary(ctx, docID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"summary": text}, nil
	})

	addTool(srv, &mcp.Tool{
		Name:        "granola_check_ownership",
		Description: "Explain whether a meeting document counts as the user's own and which rule decided.",
		InputSchema: inputSchema(map[string]any{
			"document_id": map[string]any{"type": "string", "description": "Meeting document id"},
		}, []string{"document_id"}),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		docID, err := docIDArg(args)
		if err != nil {
			return nil, err
		}
		return s.Ownership(ctx, docID)
	})
}

func addTool(srv *mcp.Server, tool *mcp.Tool, handler func(context.Context, json.RawMessage) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := handler(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
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

func unmarshalArgs(args json.RawMessage, target any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, target); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func docIDArg(args json.RawMessage) (string, error) {
	var params struct {
		DocumentID string `json:"document_id"`
	}
	if err := unmarshalArgs(args, &params); err != nil {
		return "", err
	}
	if params.DocumentID == "" {
		return "", fmt.Errorf("document_id is required")
	}
	return params.DocumentID, nil
}
