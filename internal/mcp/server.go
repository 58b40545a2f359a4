package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/zammad-tools/zammad-mcp/internal/metrics"
	"github.com/zammad-tools/zammad-mcp/internal/models"
	"github.com/zammad-tools/zammad-mcp/internal/zammad"
)

const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "zammad-mcp"
	ServerVersion   = "1.0.0"
)

// Server handles MCP protocol messages. It is a thin dispatch layer:
// every tool delegates to the Zammad client, which owns validation,
// sanitization, and the URL policy. The server holds no state of its
// own beyond the initialization handshake.
type Server struct {
	client      *zammad.Client
	initialized bool
}

// NewServer creates a new MCP server instance backed by the given
// client. A nil client is tolerated until the first tool call so the
// protocol handshake can complete even when startup is still pending.
func NewServer(client *zammad.Client) *Server {
	return &Server{client: client}
}

// HandleMessage processes a JSON-RPC message and returns a response.
// A nil response with nil error means the message was a notification.
func (s *Server) HandleMessage(ctx context.Context, msg []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		resp := ErrorResponse(nil, ErrCodeParse, "Parse error: "+err.Error())
		return json.Marshal(resp)
	}

	if req.JSONRPC != "2.0" {
		resp := ErrorResponse(req.ID, ErrCodeInvalidRequest, "Invalid JSON-RPC version")
		return json.Marshal(resp)
	}

	var resp Response
	switch req.Method {
	case "initialize":
		resp = s.handleInitialize(req)
	case "initialized", "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil, nil
	case "tools/list":
		resp = s.handleToolsList(req)
	case "tools/call":
		resp = s.handleToolsCall(ctx, req)
	case "resources/list":
		resp = s.handleResourcesList(req)
	case "resources/read":
		resp = s.handleResourcesRead(ctx, req)
	case "prompts/list":
		resp = s.handlePromptsList(req)
	case "prompts/get":
		resp = s.handlePromptsGet(req)
	case "ping":
		resp = SuccessResponse(req.ID, map[string]string{})
	default:
		resp = ErrorResponse(req.ID, ErrCodeMethodNotFound, "Method not found: "+req.Method)
	}

	return json.Marshal(resp)
}

func (s *Server) handleInitialize(req Request) Response {
	var params InitializeParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return ErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
		}
	}

	s.initialized = true

	return SuccessResponse(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
			Prompts:   &PromptsCapability{},
		},
	})
}

func (s *Server) handleToolsList(req Request) Response {
	return SuccessResponse(req.ID, ToolsListResult{
		Tools: ToolRegistry,
	})
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return ErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
	}

	tool, ok := toolByName(params.Name)
	if !ok {
		metrics.ToolCalls.WithLabelValues(params.Name, "unknown").Inc()
		return ErrorResponse(req.ID, ErrCodeInvalidParams, "Unknown tool: "+params.Name)
	}
	if err := validateArguments(tool, params.Arguments); err != nil {
		metrics.ToolCalls.WithLabelValues(params.Name, "invalid").Inc()
		return SuccessResponse(req.ID, ToolCallResult{
			Content: []ContentBlock{TextContent("Error: " + err.Error())},
			IsError: true,
		})
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		metrics.ToolCalls.WithLabelValues(params.Name, "error").Inc()
		return SuccessResponse(req.ID, ToolCallResult{
			Content: []ContentBlock{TextContent(fmt.Sprintf("Error: %v", err))},
			IsError: true,
		})
	}

	metrics.ToolCalls.WithLabelValues(params.Name, "ok").Inc()
	return SuccessResponse(req.ID, result)
}

func (s *Server) executeTool(ctx context.Context, name string, args map[string]any) (*ToolCallResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("zammad client is not initialized")
	}

	switch name {
	case "get_ticket":
		return s.toolGetTicket(ctx, args)
	case "search_tickets":
		return s.toolSearchTickets(ctx, args)
	case "create_ticket":
		return s.toolCreateTicket(ctx, args)
	case "update_ticket":
		return s.toolUpdateTicket(ctx, args)
	case "add_article":
		return s.toolAddArticle(ctx, args)
	case "get_ticket_articles":
		return s.toolGetTicketArticles(ctx, args)
	case "add_ticket_tag":
		return s.toolAddTicketTag(ctx, args)
	case "remove_ticket_tag":
		return s.toolRemoveTicketTag(ctx, args)
	case "list_ticket_tags":
		return s.toolListTicketTags(ctx, args)
	case "get_user":
		return s.toolGetUser(ctx, args)
	case "get_current_user":
		return s.toolGetCurrentUser(ctx)
	case "search_users":
		return s.toolSearchUsers(ctx, args)
	case "get_organization":
		return s.toolGetOrganization(ctx, args)
	case "search_organizations":
		return s.toolSearchOrganizations(ctx, args)
	case "list_groups":
		return s.toolListGroups(ctx)
	case "list_ticket_states":
		return s.toolListTicketStates(ctx)
	case "list_ticket_priorities":
		return s.toolListTicketPriorities(ctx)
	case "get_ticket_stats":
		return s.toolGetTicketStats(ctx)
	case "list_attachments":
		return s.toolListAttachments(ctx, args)
	case "download_attachment":
		return s.toolDownloadAttachment(ctx, args)
	case "refresh_cache":
		return s.toolRefreshCache()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// Helper to get int from args
func getInt(args map[string]any, key string, defaultVal int) int {
	if v, ok := args[key]; ok {
		switch val := v.(type) {
		case float64:
			return int(val)
		case int:
			return val
		case json.Number:
			if i, err := val.Int64(); err == nil {
				return int(i)
			}
		}
	}
	return defaultVal
}

// Helper to get string from args
func getString(args map[string]any, key string, defaultVal string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

// Helper to get bool from args
func getBool(args map[string]any, key string, defaultVal bool) bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// jsonResult marshals v indented into a single text content block.
func jsonResult(v any) (*ToolCallResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &ToolCallResult{
		Content: []ContentBlock{TextContent(string(output))},
	}, nil
}

// Tool implementations

func (s *Server) toolGetTicket(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	ticketID := getInt(args, "ticket_id", 0)
	includeArticles := getBool(args, "include_articles", true)

	ticket, err := s.client.GetTicket(ctx, ticketID, includeArticles)
	if err != nil {
		return nil, err
	}
	return jsonResult(ticket)
}

func (s *Server) toolSearchTickets(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	perPage := getInt(args, "per_page", 25)
	if perPage > 100 {
		perPage = 100
	}

	tickets, err := s.client.SearchTickets(ctx, zammad.SearchOptions{
		Query:    getString(args, "query", ""),
		State:    getString(args, "state", ""),
		Priority: getString(args, "priority", ""),
		Group:    getString(args, "group", ""),
		Owner:    getString(args, "owner", ""),
		Customer: getString(args, "customer", ""),
		Page:     getInt(args, "page", 1),
		PerPage:  perPage,
	})
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	return jsonResult(tickets)
}

func (s *Server) toolCreateTicket(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	ticket, err := s.client.CreateTicket(ctx, zammad.CreateTicketInput{
		Title:    getString(args, "title", ""),
		Group:    getString(args, "group", ""),
		Customer: getString(args, "customer", ""),
		Body:     getString(args, "body", ""),
		State:    getString(args, "state", ""),
		Priority: getString(args, "priority", ""),
		Type:     getString(args, "article_type", "note"),
		Internal: getBool(args, "internal", false),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(ticket)
}

func (s *Server) toolUpdateTicket(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	ticketID := getInt(args, "ticket_id", 0)

	var input zammad.UpdateTicketInput
	if v := getString(args, "title", ""); v != "" {
		input.Title = &v
	}
	if v := getString(args, "state", ""); v != "" {
		input.State = &v
	}
	if v := getString(args, "priority", ""); v != "" {
		input.Priority = &v
	}
	if v := getString(args, "group", ""); v != "" {
		input.Group = &v
	}
	if v := getString(args, "owner", ""); v != "" {
		input.Owner = &v
	}

	ticket, err := s.client.UpdateTicket(ctx, ticketID, input)
	if err != nil {
		return nil, err
	}
	return jsonResult(ticket)
}

func (s *Server) toolAddArticle(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	ticketID := getInt(args, "ticket_id", 0)

	article, err := s.client.AddArticle(ctx, ticketID, zammad.AddArticleInput{
		Body:     getString(args, "body", ""),
		Type:     getString(args, "article_type", "note"),
		Internal: getBool(args, "internal", false),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(article)
}

func (s *Server) toolGetTicketArticles(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	articles, err := s.client.GetTicketArticles(ctx, getInt(args, "ticket_id", 0))
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return jsonResult(articles)
}

func (s *Server) toolAddTicketTag(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	ticketID := getInt(args, "ticket_id", 0)
	tag := getString(args, "tag", "")

	if err := s.client.AddTicketTag(ctx, ticketID, tag); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"ticket_id": ticketID,
		"tag":       tag,
		"message":   "Tag added successfully",
	})
}

func (s *Server) toolRemoveTicketTag(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	ticketID := getInt(args, "ticket_id", 0)
	tag := getString(args, "tag", "")

	if err := s.client.RemoveTicketTag(ctx, ticketID, tag); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"ticket_id": ticketID,
		"tag":       tag,
		"message":   "Tag removed successfully",
	})
}

func (s *Server) toolListTicketTags(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	tags, err := s.client.ListTicketTags(ctx, getInt(args, "ticket_id", 0))
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return jsonResult(tags)
}

func (s *Server) toolGetUser(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	user, err := s.client.GetUser(ctx, getInt(args, "user_id", 0))
	if err != nil {
		return nil, err
	}
	return jsonResult(user)
}

func (s *Server) toolGetCurrentUser(ctx context.Context) (*ToolCallResult, error) {
	user, err := s.client.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(user)
}

func (s *Server) toolSearchUsers(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	users, err := s.client.SearchUsers(ctx,
		getString(args, "query", ""),
		getInt(args, "page", 1),
		getInt(args, "per_page", 25))
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return jsonResult(users)
}

func (s *Server) toolGetOrganization(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	org, err := s.client.GetOrganization(ctx, getInt(args, "organization_id", 0))
	if err != nil {
		return nil, err
	}
	return jsonResult(org)
}

func (s *Server) toolSearchOrganizations(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	orgs, err := s.client.SearchOrganizations(ctx,
		getString(args, "query", ""),
		getInt(args, "page", 1),
		getInt(args, "per_page", 25))
	if err != nil {
		return nil, err
	}
	if orgs == nil {
		orgs = []models.Organization{}
	}
	return jsonResult(orgs)
}

func (s *Server) toolListGroups(ctx context.Context) (*ToolCallResult, error) {
	groups, err := s.client.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(groups)
}

func (s *Server) toolListTicketStates(ctx context.Context) (*ToolCallResult, error) {
	states, err := s.client.ListTicketStates(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(states)
}

func (s *Server) toolListTicketPriorities(ctx context.Context) (*ToolCallResult, error) {
	priorities, err := s.client.ListTicketPriorities(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(priorities)
}

func (s *Server) toolGetTicketStats(ctx context.Context) (*ToolCallResult, error) {
	stats, err := s.client.TicketStats(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(stats)
}

func (s *Server) toolListAttachments(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	attachments, err := s.client.ListAttachments(ctx, getInt(args, "ticket_id", 0))
	if err != nil {
		return nil, err
	}
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	return jsonResult(attachments)
}

func (s *Server) toolDownloadAttachment(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	content, err := s.client.DownloadAttachment(ctx,
		getInt(args, "ticket_id", 0),
		getInt(args, "article_id", 0),
		getInt(args, "attachment_id", 0))
	if err != nil {
		return nil, err
	}

	return &ToolCallResult{
		Content: []ContentBlock{
			TextContent(fmt.Sprintf("%s (%s, %d bytes)", content.Filename, content.ContentType, len(content.Data))),
			{
				Type:     "resource",
				Data:     base64.StdEncoding.EncodeToString(content.Data),
				MimeType: content.ContentType,
			},
		},
	}, nil
}

func (s *Server) toolRefreshCache() (*ToolCallResult, error) {
	s.client.RefreshCache()
	stats := s.client.CacheStats()
	return jsonResult(map[string]any{
		"message": "Lookup cache invalidated",
		"hits":    stats.Hits,
		"misses":  stats.Misses,
	})
}
