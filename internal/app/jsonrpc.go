package app

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSON-RPC 2.0 error codes
const (
	rpcParseError     = -32700
	rpcInvalidRequest = -32600
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleJSONRPC dispatches the digest operations over a single endpoint.
// Errors are always delivered as JSON-RPC error objects with HTTP 200;
// only an unreadable body produces a parse error response.
func (s *HTTPServer) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := decodeBody(r, &req); err != nil {
		writeRPC(w, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: rpcParseError, Message: "Parse error"},
			ID:      json.RawMessage("null"),
		})
		return
	}
	if req.Method == "" {
		writeRPC(w, rpcErrorResponse(req.ID, rpcInvalidRequest, "Invalid request"))
		return
	}

	var (
		result any
		err    error
	)
	switch req.Method {
	case "get_recent_meetings":
		var params struct {
			Limit int `json:"limit"`
		}
		if perr := decodeParams(req.Params, &params); perr != nil {
			writeRPC(w, rpcErrorResponse(req.ID, rpcInvalidParams, perr.Error()))
			return
		}
		result, err = s.service.RecentMeetings(r.Context(), params.Limit)
	case "get_transcript":
		docID, perr := meetingIDParam(req.Params)
		if perr != nil {
			writeRPC(w, rpcErrorResponse(req.ID, rpcInvalidParams, perr.Error()))
			return
		}
		var text string
		text, err = s.service.Transcript(r.Context(), docID)
		result = map[string]any{"text": text}
	case "get_summary":
		docID, perr := meetingIDParam(req.Params)
		if perr != nil {
			writeRPC(w, rpcErrorResponse(req.ID, rpcInvalidParams, perr.Error()))
			return
		}
		var text string
		text, err = s.service.Summary(r.Context(), docID)
		result = map[string]any{"text": text}
	case "get_last_7_days_content":
		var params struct {
			DaysBack int `json:"days_back"`
		}
		if perr := decodeParams(req.Params, &params); perr != nil {
			writeRPC(w, rpcErrorResponse(req.ID, rpcInvalidParams, perr.Error()))
			return
		}
		result, err = s.service.BuildDigest(r.Context(), params.DaysBack)
	default:
		writeRPC(w, rpcErrorResponse(req.ID, rpcMethodNotFound, "Method not found: "+req.Method))
		return
	}

	if err != nil {
		writeRPC(w, rpcErrorResponse(req.ID, rpcInternalError, err.Error()))
		return
	}
	writeRPC(w, rpcResponse{JSONRPC: "2.0", Result: result, ID: req.ID})
}

func decodeParams(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.New("invalid params")
	}
	return nil
}

// meetingIDParam reads the document identifier. The wire name is
// meeting_id; document_id is accepted as an alias for parity with the
// MCP tools.
func meetingIDParam(raw json.RawMessage) (string, error) {
	var params struct {
		MeetingID  string `json:"meeting_id"`
		DocumentID string `json:"document_id"`
	}
	if err := decodeParams(raw, &params); err != nil {
		return "", err
	}
	if params.MeetingID != "" {
		return params.MeetingID, nil
	}
	if params.DocumentID != "" {
		return params.DocumentID, nil
	}
	return "", errors.New("meeting_id is required")
}

func rpcErrorResponse(id json.RawMessage, code int, message string) rpcResponse {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return rpcResponse{
		JSONRPC: "2.0",
		Error:   &rpcError{Code: code, Message: message},
		ID:      id,
	}
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	if len(resp.ID) == 0 {
		resp.ID = json.RawMessage("null")
	}
	writeJSON(w, http.StatusOK, resp)
}
