package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zammad-tools/zammad-mcp/internal/zammad"
)

func newTestServer(t *testing.T, handler http.Handler) *Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := zammad.New(zammad.Options{
		URL:           srv.URL + "/api/v1",
		HTTPToken:     "test-token",
		AllowInternal: true,
	})
	if err != nil {
		t.Fatalf("New client failed: %v", err)
	}
	return NewServer(client)
}

func roundTrip(t *testing.T, server *Server, req Request) Response {
	t.Helper()
	reqBytes, _ := json.Marshal(req)
	respBytes, err := server.HandleMessage(context.Background(), reqBytes)
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return resp
}

func TestServerInitialize(t *testing.T) {
	server := NewServer(nil)

	resp := roundTrip(t, server, Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params:  json.RawMessage(`{"protocolVersion":"2024-11-05","clientInfo":{"name":"test","version":"1.0"}}`),
	})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("Expected map result, got %T", resp.Result)
	}

	if result["protocolVersion"] != ProtocolVersion {
		t.Errorf("Expected protocol version %s, got %v", ProtocolVersion, result["protocolVersion"])
	}

	caps, ok := result["capabilities"].(map[string]any)
	if !ok {
		t.Fatalf("Expected capabilities map, got %T", result["capabilities"])
	}
	for _, name := range []string{"tools", "resources", "prompts"} {
		if _, ok := caps[name]; !ok {
			t.Errorf("Expected %s capability to be advertised", name)
		}
	}
}

func TestServerInitializedNotification(t *testing.T) {
	server := NewServer(nil)

	resp, err := server.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"initialized"}`))
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if resp != nil {
		t.Errorf("Expected no response for notification, got %s", resp)
	}
}

func TestServerToolsList(t *testing.T) {
	server := NewServer(nil)

	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("Expected map result, got %T", resp.Result)
	}

	tools, ok := result["tools"].([]any)
	if !ok {
		t.Fatalf("Expected tools array, got %T", result["tools"])
	}

	if len(tools) != len(ToolRegistry) {
		t.Errorf("Expected %d tools, got %d", len(ToolRegistry), len(tools))
	}
}

func TestServerMethodNotFound(t *testing.T) {
	server := NewServer(nil)

	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "unknown/method"})

	if resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != ErrCodeMethodNotFound {
		t.Errorf("Expected error code %d, got %d", ErrCodeMethodNotFound, resp.Error.Code)
	}
}

func TestServerPing(t *testing.T) {
	server := NewServer(nil)

	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "ping"})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
}

func TestServerRejectsWrongVersion(t *testing.T) {
	server := NewServer(nil)

	respBytes, err := server.HandleMessage(context.Background(), []byte(`{"jsonrpc":"1.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidRequest {
		t.Fatalf("Expected invalid request error, got %+v", resp.Error)
	}
}

func TestServerParseError(t *testing.T) {
	server := NewServer(nil)

	respBytes, err := server.HandleMessage(context.Background(), []byte(`{not json`))
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeParse {
		t.Fatalf("Expected parse error, got %+v", resp.Error)
	}
}

func TestToolRegistry(t *testing.T) {
	// Verify all expected tools are registered
	expectedTools := []string{
		"get_ticket",
		"search_tickets",
		"create_ticket",
		"update_ticket",
		"add_article",
		"get_ticket_articles",
		"add_ticket_tag",
		"remove_ticket_tag",
		"list_ticket_tags",
		"get_user",
		"get_current_user",
		"search_users",
		"get_organization",
		"search_organizations",
		"list_groups",
		"list_ticket_states",
		"list_ticket_priorities",
		"get_ticket_stats",
		"list_attachments",
		"download_attachment",
		"refresh_cache",
	}

	toolNames := make(map[string]bool)
	for _, tool := range ToolRegistry {
		toolNames[tool.Name] = true
	}

	for _, expected := range expectedTools {
		if !toolNames[expected] {
			t.Errorf("Missing expected tool: %s", expected)
		}
	}
}

func callTool(t *testing.T, server *Server, name string, args map[string]any) ToolCallResult {
	t.Helper()
	params, _ := json.Marshal(ToolCallParams{Name: name, Arguments: args})
	resp := roundTrip(t, server, Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	if resp.Error != nil {
		t.Fatalf("Unexpected protocol error: %v", resp.Error)
	}

	raw, _ := json.Marshal(resp.Result)
	var result ToolCallResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("Failed to unmarshal tool result: %v", err)
	}
	return result
}

func TestToolCallGetTicket(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/tickets/42":
			w.Write([]byte(`{
				"id": 42, "number": "67042", "title": "Printer on fire",
				"group_id": 2, "state_id": 1, "priority_id": 2, "group": "Support",
				"created_at": "2024-05-01T10:00:00Z", "updated_at": "2024-05-02T11:30:00Z"
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	result := callTool(t, server, "get_ticket", map[string]any{
		"ticket_id":        42,
		"include_articles": false,
	})

	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, `"number": "67042"`) {
		t.Errorf("Expected ticket number in output, got %s", result.Content[0].Text)
	}
}

func TestToolCallUnknownTool(t *testing.T) {
	server := NewServer(nil)

	params, _ := json.Marshal(ToolCallParams{Name: "does_not_exist"})
	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})

	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidParams {
		t.Fatalf("Expected invalid params error, got %+v", resp.Error)
	}
}

func TestToolCallSchemaValidation(t *testing.T) {
	server := NewServer(nil)

	// ticket_id is required and must be an integer.
	result := callTool(t, server, "get_ticket", map[string]any{"ticket_id": "forty-two"})
	if !result.IsError {
		t.Fatal("Expected tool error for wrong argument type")
	}

	result = callTool(t, server, "add_ticket_tag", map[string]any{"ticket_id": 42})
	if !result.IsError {
		t.Fatal("Expected tool error for missing required argument")
	}
	if !strings.Contains(result.Content[0].Text, "tag") {
		t.Errorf("Expected the missing field to be named, got %s", result.Content[0].Text)
	}
}

func TestToolCallWithoutClient(t *testing.T) {
	server := NewServer(nil)

	result := callTool(t, server, "get_current_user", nil)

	if !result.IsError {
		t.Fatal("Expected tool error when client is not initialized")
	}
	if !strings.Contains(result.Content[0].Text, "not initialized") {
		t.Errorf("Unexpected error text: %s", result.Content[0].Text)
	}
}

func TestToolCallRemoteErrorSurfacesAsToolError(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "No lookup value found"}`))
	}))

	result := callTool(t, server, "get_ticket", map[string]any{"ticket_id": 99})

	if !result.IsError {
		t.Fatal("Expected tool error for remote 404")
	}
	if !strings.Contains(result.Content[0].Text, "No lookup value found") {
		t.Errorf("Expected remote message in error, got %s", result.Content[0].Text)
	}
}

func TestResourcesList(t *testing.T) {
	server := NewServer(nil)

	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "resources/list"})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("Expected map result, got %T", resp.Result)
	}
	resources, ok := result["resources"].([]any)
	if !ok || len(resources) != len(ResourceRegistry) {
		t.Fatalf("Expected %d resources, got %v", len(ResourceRegistry), result["resources"])
	}
}

func TestResourcesRead(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": 7, "login": "jdoe",
			"created_at": "2024-01-15T08:00:00Z", "updated_at": "2024-05-01T09:00:00Z"
		}`))
	}))

	params, _ := json.Marshal(ResourceReadParams{URI: "zammad://users/7"})
	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "resources/read", Params: params})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	raw, _ := json.Marshal(resp.Result)
	var result ResourceReadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	if len(result.Contents) != 1 || !strings.Contains(result.Contents[0].Text, `"jdoe"`) {
		t.Errorf("Unexpected resource contents: %+v", result.Contents)
	}
}

func TestResourcesReadUnknownURI(t *testing.T) {
	server := NewServer(nil)

	params, _ := json.Marshal(ResourceReadParams{URI: "file:///etc/passwd"})
	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "resources/read", Params: params})

	if resp.Error == nil {
		t.Fatal("Expected error for unknown resource scheme")
	}
}

func TestPromptsListAndGet(t *testing.T) {
	server := NewServer(nil)

	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "prompts/list"})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	params, _ := json.Marshal(PromptGetParams{
		Name:      "analyze_ticket",
		Arguments: map[string]string{"ticket_id": "42"},
	})
	resp = roundTrip(t, server, Request{JSONRPC: "2.0", ID: 2, Method: "prompts/get", Params: params})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	raw, _ := json.Marshal(resp.Result)
	var result PromptGetResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	if len(result.Messages) != 1 || !strings.Contains(result.Messages[0].Content.Text, "42") {
		t.Errorf("Expected ticket id in prompt text, got %+v", result.Messages)
	}
}

func TestPromptsGetMissingArgument(t *testing.T) {
	server := NewServer(nil)

	params, _ := json.Marshal(PromptGetParams{Name: "draft_response"})
	resp := roundTrip(t, server, Request{JSONRPC: "2.0", ID: 1, Method: "prompts/get", Params: params})

	if resp.Error == nil {
		t.Fatal("Expected error for missing required prompt argument")
	}
}
