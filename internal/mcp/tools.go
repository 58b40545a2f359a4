package mcp

// ToolRegistry contains all available MCP tools for the Zammad bridge.
var ToolRegistry = []Tool{
	{
		Name:        "get_ticket",
		Description: "Get detailed information about a specific ticket, optionally including its articles/messages.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID to retrieve",
				},
				"include_articles": {
					Type:        "boolean",
					Description: "Include ticket articles/messages (default true)",
					Default:     true,
				},
			},
			Required: []string{"ticket_id"},
		},
	},
	{
		Name:        "search_tickets",
		Description: "Search tickets with a free-text query and optional filters. Returns ticket ID, number, title, state, group, and priority.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {
					Type:        "string",
					Description: "Free-text search query",
				},
				"state": {
					Type:        "string",
					Description: "Filter by state name (e.g. open, closed)",
				},
				"priority": {
					Type:        "string",
					Description: "Filter by priority name (e.g. 3 high)",
				},
				"group": {
					Type:        "string",
					Description: "Filter by group name",
				},
				"owner": {
					Type:        "string",
					Description: "Filter by owner login",
				},
				"customer": {
					Type:        "string",
					Description: "Filter by customer email",
				},
				"page": {
					Type:        "integer",
					Description: "Result page, starting at 1",
					Default:     1,
				},
				"per_page": {
					Type:        "integer",
					Description: "Results per page (default 25, max 100)",
					Default:     25,
				},
			},
		},
	},
	{
		Name:        "create_ticket",
		Description: "Create a new ticket with an initial article. Markdown bodies are rendered to HTML.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"title": {
					Type:        "string",
					Description: "Ticket title/subject",
				},
				"group": {
					Type:        "string",
					Description: "Group name to create the ticket in",
				},
				"customer": {
					Type:        "string",
					Description: "Customer email or login",
				},
				"body": {
					Type:        "string",
					Description: "Initial article body (plain text, markdown, or HTML)",
				},
				"state": {
					Type:        "string",
					Description: "Initial state name (default: new)",
				},
				"priority": {
					Type:        "string",
					Description: "Priority name (default: 2 normal)",
				},
				"article_type": {
					Type:        "string",
					Description: "Initial article type",
					Enum:        []string{"note", "email", "phone", "web"},
					Default:     "note",
				},
				"internal": {
					Type:        "boolean",
					Description: "Mark the initial article as internal (default false)",
					Default:     false,
				},
			},
			Required: []string{"title", "group", "customer", "body"},
		},
	},
	{
		Name:        "update_ticket",
		Description: "Update ticket attributes (title, state, priority, group, owner).",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID to update",
				},
				"title": {
					Type:        "string",
					Description: "New ticket title",
				},
				"state": {
					Type:        "string",
					Description: "New state name",
				},
				"priority": {
					Type:        "string",
					Description: "New priority name",
				},
				"group": {
					Type:        "string",
					Description: "Move to new group",
				},
				"owner": {
					Type:        "string",
					Description: "Assign to new owner login",
				},
			},
			Required: []string{"ticket_id"},
		},
	},
	{
		Name:        "add_article",
		Description: "Add a note/comment to an existing ticket.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID to add the article to",
				},
				"body": {
					Type:        "string",
					Description: "Article body content (plain text, markdown, or HTML)",
				},
				"article_type": {
					Type:        "string",
					Description: "Article type",
					Enum:        []string{"note", "email", "phone"},
					Default:     "note",
				},
				"internal": {
					Type:        "boolean",
					Description: "Internal note, hidden from the customer (default false)",
					Default:     false,
				},
			},
			Required: []string{"ticket_id", "body"},
		},
	},
	{
		Name:        "get_ticket_articles",
		Description: "List all articles/messages on a ticket.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID",
				},
			},
			Required: []string{"ticket_id"},
		},
	},
	{
		Name:        "add_ticket_tag",
		Description: "Attach a tag to a ticket.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID",
				},
				"tag": {
					Type:        "string",
					Description: "Tag name to attach",
				},
			},
			Required: []string{"ticket_id", "tag"},
		},
	},
	{
		Name:        "remove_ticket_tag",
		Description: "Detach a tag from a ticket.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID",
				},
				"tag": {
					Type:        "string",
					Description: "Tag name to detach",
				},
			},
			Required: []string{"ticket_id", "tag"},
		},
	},
	{
		Name:        "list_ticket_tags",
		Description: "List the tags attached to a ticket.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID",
				},
			},
			Required: []string{"ticket_id"},
		},
	},
	{
		Name:        "get_user",
		Description: "Get detailed information about a user by ID.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"user_id": {
					Type:        "integer",
					Description: "The user ID to retrieve",
				},
			},
			Required: []string{"user_id"},
		},
	},
	{
		Name:        "get_current_user",
		Description: "Get the user account the configured credentials belong to.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
		},
	},
	{
		Name:        "search_users",
		Description: "Search users by name, email, or login.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {
					Type:        "string",
					Description: "Search query string",
				},
				"page": {
					Type:        "integer",
					Description: "Result page, starting at 1",
					Default:     1,
				},
				"per_page": {
					Type:        "integer",
					Description: "Results per page (default 25)",
					Default:     25,
				},
			},
			Required: []string{"query"},
		},
	},
	{
		Name:        "get_organization",
		Description: "Get detailed information about an organization by ID.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"organization_id": {
					Type:        "integer",
					Description: "The organization ID to retrieve",
				},
			},
			Required: []string{"organization_id"},
		},
	},
	{
		Name:        "search_organizations",
		Description: "Search organizations by name or domain.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {
					Type:        "string",
					Description: "Search query string",
				},
				"page": {
					Type:        "integer",
					Description: "Result page, starting at 1",
					Default:     1,
				},
				"per_page": {
					Type:        "integer",
					Description: "Results per page (default 25)",
					Default:     25,
				},
			},
			Required: []string{"query"},
		},
	},
	{
		Name:        "list_groups",
		Description: "List all ticket groups.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
		},
	},
	{
		Name:        "list_ticket_states",
		Description: "List all ticket states.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
		},
	},
	{
		Name:        "list_ticket_priorities",
		Description: "List all ticket priorities.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
		},
	},
	{
		Name:        "get_ticket_stats",
		Description: "Get ticket counts by lifecycle: total, open, pending, closed, and escalated.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
		},
	},
	{
		Name:        "list_attachments",
		Description: "List attachment metadata for every article on a ticket. No file content is downloaded.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID",
				},
			},
			Required: []string{"ticket_id"},
		},
	},
	{
		Name:        "download_attachment",
		Description: "Download one attachment's content, returned base64-encoded.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"ticket_id": {
					Type:        "integer",
					Description: "The ticket ID",
				},
				"article_id": {
					Type:        "integer",
					Description: "The article ID the attachment belongs to",
				},
				"attachment_id": {
					Type:        "integer",
					Description: "The attachment ID",
				},
			},
			Required: []string{"ticket_id", "article_id", "attachment_id"},
		},
	},
	{
		Name:        "refresh_cache",
		Description: "Drop the cached group/state/priority tables so the next lookup refetches them.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
		},
	},
}

// toolByName returns the registered tool definition, if any.
func toolByName(name string) (Tool, bool) {
	for _, t := range ToolRegistry {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
