package zammad

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zammad-tools/zammad-mcp/internal/models"
	"github.com/zammad-tools/zammad-mcp/internal/sanitize"
)

const (
	// statsPageSize is the page size used when walking the full ticket
	// set for statistics.
	statsPageSize = 100

	// maxPages caps any pagination walk. A remote that keeps returning
	// full pages past this point is misbehaving; we stop rather than
	// loop forever.
	maxPages = 1000
)

// SearchOptions narrows a ticket search. Zero values mean "no filter".
type SearchOptions struct {
	Query    string
	State    string
	Priority string
	Group    string
	Owner    string
	Customer string
	Page     int
	PerPage  int
}

// searchQuery assembles the Zammad search expression from the free-form
// query and the structured filters.
func (o SearchOptions) searchQuery() string {
	var parts []string
	if o.Query != "" {
		parts = append(parts, o.Query)
	}
	if o.State != "" {
		parts = append(parts, "state.name:"+o.State)
	}
	if o.Priority != "" {
		parts = append(parts, "priority.name:"+o.Priority)
	}
	if o.Group != "" {
		parts = append(parts, "group.name:"+o.Group)
	}
	if o.Owner != "" {
		parts = append(parts, "owner.login:"+o.Owner)
	}
	if o.Customer != "" {
		parts = append(parts, "customer.email:"+o.Customer)
	}
	return strings.Join(parts, " AND ")
}

// GetTicket fetches one ticket by id, with reference fields expanded.
// When includeArticles is set the ticket's articles are fetched in a
// second call and attached.
func (c *Client) GetTicket(ctx context.Context, id int, includeArticles bool) (*models.Ticket, error) {
	if id <= 0 {
		return nil, &PolicyError{Reason: "ticket id must be positive"}
	}

	query := url.Values{"expand": {"true"}}
	data, err := c.get(ctx, "/tickets/"+strconv.Itoa(id), query)
	if err != nil {
		return nil, err
	}
	ticket, err := models.ParseTicket(data)
	if err != nil {
		return nil, err
	}

	if includeArticles {
		articles, err := c.GetTicketArticles(ctx, id)
		if err != nil {
			return nil, err
		}
		ticket.Articles = articles
	}
	return ticket, nil
}

// SearchTickets runs a paged ticket search. The free-form query is
// screened before any request leaves the process.
func (c *Client) SearchTickets(ctx context.Context, opts SearchOptions) ([]models.Ticket, error) {
	if err := sanitize.ValidateQuery(opts.Query); err != nil {
		return nil, &PolicyError{Reason: err.Error()}
	}

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 25
	}

	query := url.Values{
		"expand":   {"true"},
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
	if q := opts.searchQuery(); q != "" {
		query.Set("query", q)
	}

	data, err := c.get(ctx, "/tickets/search", query)
	if err != nil {
		return nil, err
	}
	return models.ParseTickets(data)
}

// CreateTicketInput carries the fields for a new ticket. Group, State,
// Priority, and Type are optional; the remote applies its defaults.
type CreateTicketInput struct {
	Title    string
	Group    string
	Customer string
	Body     string
	State    string
	Priority string
	Type     string
	Internal bool
}

// CreateTicket creates a ticket with an initial article. Markdown
// bodies are converted to HTML; plain text passes through untouched.
func (c *Client) CreateTicket(ctx context.Context, input CreateTicketInput) (*models.Ticket, error) {
	switch {
	case input.Title == "":
		return nil, &PolicyError{Reason: "ticket title is required"}
	case input.Group == "":
		return nil, &PolicyError{Reason: "ticket group is required"}
	case input.Customer == "":
		return nil, &PolicyError{Reason: "ticket customer is required"}
	case input.Body == "":
		return nil, &PolicyError{Reason: "article body is required"}
	}

	articleType := input.Type
	if articleType == "" {
		articleType = "note"
	}

	article := map[string]any{
		"type":     articleType,
		"internal": input.Internal,
	}
	body, contentType := renderBody(input.Body)
	article["body"] = body
	article["content_type"] = contentType

	payload := map[string]any{
		"title":    input.Title,
		"group":    input.Group,
		"customer": input.Customer,
		"article":  article,
	}
	if input.State != "" {
		payload["state"] = input.State
	}
	if input.Priority != "" {
		payload["priority"] = input.Priority
	}

	data, err := c.do(ctx, http.MethodPost, "/tickets", nil, payload)
	if err != nil {
		return nil, err
	}
	return models.ParseTicket(data)
}

// UpdateTicketInput carries the mutable ticket fields. Nil pointers are
// left untouched on the remote record.
type UpdateTicketInput struct {
	Title    *string
	State    *string
	Priority *string
	Group    *string
	Owner    *string
}

// UpdateTicket applies a partial update to a ticket.
func (c *Client) UpdateTicket(ctx context.Context, id int, input UpdateTicketInput) (*models.Ticket, error) {
	if id <= 0 {
		return nil, &PolicyError{Reason: "ticket id must be positive"}
	}

	payload := map[string]any{}
	if input.Title != nil {
		payload["title"] = *input.Title
	}
	if input.State != nil {
		payload["state"] = *input.State
	}
	if input.Priority != nil {
		payload["priority"] = *input.Priority
	}
	if input.Group != nil {
		payload["group"] = *input.Group
	}
	if input.Owner != nil {
		payload["owner"] = *input.Owner
	}
	if len(payload) == 0 {
		return nil, &PolicyError{Reason: "no fields to update"}
	}

	data, err := c.do(ctx, http.MethodPut, "/tickets/"+strconv.Itoa(id), url.Values{"expand": {"true"}}, payload)
	if err != nil {
		return nil, err
	}
	return models.ParseTicket(data)
}

// AddArticleInput carries the fields for a new article on an existing
// ticket.
type AddArticleInput struct {
	Body     string
	Type     string
	Internal bool
	Sender   string
}

// AddArticle appends an article (comment or note) to a ticket.
func (c *Client) AddArticle(ctx context.Context, ticketID int, input AddArticleInput) (*models.Article, error) {
	if ticketID <= 0 {
		return nil, &PolicyError{Reason: "ticket id must be positive"}
	}
	if input.Body == "" {
		return nil, &PolicyError{Reason: "article body is required"}
	}

	articleType := input.Type
	if articleType == "" {
		articleType = "note"
	}
	body, contentType := renderBody(input.Body)

	payload := map[string]any{
		"ticket_id":    ticketID,
		"type":         articleType,
		"internal":     input.Internal,
		"body":         body,
		"content_type": contentType,
	}
	if input.Sender != "" {
		payload["sender"] = input.Sender
	}

	data, err := c.do(ctx, http.MethodPost, "/ticket_articles", nil, payload)
	if err != nil {
		return nil, err
	}
	return models.ParseArticle(data)
}

// GetTicketArticles fetches all articles for a ticket.
func (c *Client) GetTicketArticles(ctx context.Context, ticketID int) ([]models.Article, error) {
	if ticketID <= 0 {
		return nil, &PolicyError{Reason: "ticket id must be positive"}
	}
	data, err := c.get(ctx, "/ticket_articles/by_ticket/"+strconv.Itoa(ticketID), nil)
	if err != nil {
		return nil, err
	}
	return models.ParseArticles(data)
}

// AddTicketTag attaches a tag to a ticket. The tag is screened before
// the request is sent.
func (c *Client) AddTicketTag(ctx context.Context, ticketID int, tag string) error {
	return c.tagOp(ctx, "/tags/add", ticketID, tag)
}

// RemoveTicketTag detaches a tag from a ticket.
func (c *Client) RemoveTicketTag(ctx context.Context, ticketID int, tag string) error {
	return c.tagOp(ctx, "/tags/remove", ticketID, tag)
}

func (c *Client) tagOp(ctx context.Context, path string, ticketID int, tag string) error {
	if ticketID <= 0 {
		return &PolicyError{Reason: "ticket id must be positive"}
	}
	if err := sanitize.ValidateTag(tag); err != nil {
		return &PolicyError{Reason: err.Error()}
	}

	payload := map[string]any{
		"object": "Ticket",
		"o_id":   ticketID,
		"item":   tag,
	}
	_, err := c.do(ctx, http.MethodPost, path, nil, payload)
	return err
}

// ListTicketTags returns the tags attached to a ticket.
func (c *Client) ListTicketTags(ctx context.Context, ticketID int) ([]string, error) {
	if ticketID <= 0 {
		return nil, &PolicyError{Reason: "ticket id must be positive"}
	}
	query := url.Values{
		"object": {"Ticket"},
		"o_id":   {strconv.Itoa(ticketID)},
	}
	data, err := c.get(ctx, "/tags", query)
	if err != nil {
		return nil, err
	}
	return models.ParseTags(data)
}

// TicketStats walks the full ticket set page by page and buckets
// tickets by lifecycle: open covers the new and open states, pending
// covers every state whose name starts with "pending", closed is
// closed, and escalated counts tickets with any escalation deadline
// set. The walk stops at the first short page.
func (c *Client) TicketStats(ctx context.Context) (*models.TicketStats, error) {
	stats := &models.TicketStats{}

	for page := 1; page <= maxPages; page++ {
		query := url.Values{
			"expand":   {"true"},
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(statsPageSize)},
		}
		data, err := c.get(ctx, "/tickets", query)
		if err != nil {
			return nil, err
		}
		tickets, err := models.ParseTickets(data)
		if err != nil {
			return nil, err
		}

		for i := range tickets {
			c.bucketTicket(ctx, &tickets[i], stats)
		}

		if len(tickets) < statsPageSize {
			return stats, nil
		}
	}
	return nil, &RemoteError{Status: 0, Message: fmt.Sprintf("ticket listing did not terminate within %d pages", maxPages)}
}

func (c *Client) bucketTicket(ctx context.Context, t *models.Ticket, stats *models.TicketStats) {
	stats.TotalCount++

	name := strings.ToLower(t.State.Display())
	if name == "" {
		// Expansion was not honored for this record; fall back to the
		// state table.
		if state, err := c.GetTicketState(ctx, t.StateID); err == nil {
			name = strings.ToLower(state.Name)
		}
	}

	switch {
	case name == "new" || name == "open":
		stats.OpenCount++
	case strings.HasPrefix(name, "pending"):
		stats.PendingCount++
	case name == "closed":
		stats.ClosedCount++
	}

	if t.Escalated() {
		stats.EscalatedCount++
	}
}

// renderBody converts markdown input to HTML and reports the article
// content type. HTML and plain text pass through unchanged.
func renderBody(body string) (string, string) {
	switch {
	case sanitize.IsHTML(body):
		return body, "text/html"
	case sanitize.IsMarkdown(body):
		return sanitize.MarkdownToHTML(body), "text/html"
	default:
		return body, "text/plain"
	}
}
