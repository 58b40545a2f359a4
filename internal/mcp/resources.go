package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/zammad-tools/zammad-mcp/internal/zammad"
)

// ResourceRegistry lists the readable resources. Templated URIs take a
// numeric id in the final segment.
var ResourceRegistry = []Resource{
	{
		URI:         "zammad://tickets",
		Name:        "Recent tickets",
		Description: "The first page of tickets, most recent first.",
		MimeType:    "application/json",
	},
	{
		URI:         "zammad://tickets/{id}",
		Name:        "Ticket",
		Description: "One ticket with its articles.",
		MimeType:    "application/json",
	},
	{
		URI:         "zammad://users/{id}",
		Name:        "User",
		Description: "One user account.",
		MimeType:    "application/json",
	},
	{
		URI:         "zammad://organizations/{id}",
		Name:        "Organization",
		Description: "One organization.",
		MimeType:    "application/json",
	},
	{
		URI:         "zammad://queues",
		Name:        "Groups",
		Description: "All ticket groups.",
		MimeType:    "application/json",
	},
}

func (s *Server) handleResourcesList(req Request) Response {
	return SuccessResponse(req.ID, ResourcesListResult{
		Resources: ResourceRegistry,
	})
}

func (s *Server) handleResourcesRead(ctx context.Context, req Request) Response {
	var params ResourceReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return ErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
	}

	text, err := s.readResource(ctx, params.URI)
	if err != nil {
		return ErrorResponse(req.ID, ErrCodeInternal, err.Error())
	}

	return SuccessResponse(req.ID, ResourceReadResult{
		Contents: []ResourceContents{{
			URI:      params.URI,
			MimeType: "application/json",
			Text:     text,
		}},
	})
}

func (s *Server) readResource(ctx context.Context, uri string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("zammad client is not initialized")
	}

	rest, ok := strings.CutPrefix(uri, "zammad://")
	if !ok {
		return "", fmt.Errorf("unknown resource scheme in %q", uri)
	}

	switch {
	case rest == "tickets":
		tickets, err := s.client.SearchTickets(ctx, zammad.SearchOptions{Page: 1, PerPage: 25})
		if err != nil {
			return "", err
		}
		return encodeResource(tickets)

	case rest == "queues":
		groups, err := s.client.ListGroups(ctx)
		if err != nil {
			return "", err
		}
		return encodeResource(groups)

	case strings.HasPrefix(rest, "tickets/"):
		id, err := resourceID(rest)
		if err != nil {
			return "", err
		}
		ticket, err := s.client.GetTicket(ctx, id, true)
		if err != nil {
			return "", err
		}
		return encodeResource(ticket)

	case strings.HasPrefix(rest, "users/"):
		id, err := resourceID(rest)
		if err != nil {
			return "", err
		}
		user, err := s.client.GetUser(ctx, id)
		if err != nil {
			return "", err
		}
		return encodeResource(user)

	case strings.HasPrefix(rest, "organizations/"):
		id, err := resourceID(rest)
		if err != nil {
			return "", err
		}
		org, err := s.client.GetOrganization(ctx, id)
		if err != nil {
			return "", err
		}
		return encodeResource(org)

	default:
		return "", fmt.Errorf("unknown resource %q", uri)
	}
}

func resourceID(rest string) (int, error) {
	_, raw, _ := strings.Cut(rest, "/")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("resource id %q is not a positive integer", raw)
	}
	return id, nil
}

func encodeResource(v any) (string, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode resource: %w", err)
	}
	return string(output), nil
}
