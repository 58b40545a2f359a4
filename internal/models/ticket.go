package models

import (
	"time"

	"github.com/zammad-tools/zammad-mcp/internal/sanitize"
)

// bodyPolicy sanitizes user-authored rich text during parsing. Article
// bodies and ticket notes come from end users of the helpdesk, not from
// the operator, so they are cleaned unconditionally.
var bodyPolicy = sanitize.NewHTMLSanitizer()

// Ticket is a snapshot of a remote ticket at fetch time. The expandable
// reference fields (Group, State, Priority, Owner, Customer,
// Organization) arrive as either bare strings or id+name objects; see Ref.
type Ticket struct {
	ID             int    `json:"id"`
	Number         string `json:"number"`
	Title          string `json:"title"`
	GroupID        int    `json:"group_id"`
	StateID        int    `json:"state_id"`
	PriorityID     int    `json:"priority_id"`
	CustomerID     int    `json:"customer_id"`
	OwnerID        int    `json:"owner_id"`
	OrganizationID int    `json:"organization_id"`
	Note           string `json:"note"`
	ArticleCount   int    `json:"article_count"`
	ArticleIDs     []int  `json:"article_ids"`

	Group        Ref `json:"group"`
	State        Ref `json:"state"`
	Priority     Ref `json:"priority"`
	Owner        Ref `json:"owner"`
	Customer     Ref `json:"customer"`
	Organization Ref `json:"organization"`

	FirstResponseEscalationAt *time.Time `json:"first_response_escalation_at"`
	UpdateEscalationAt        *time.Time `json:"update_escalation_at"`
	CloseEscalationAt         *time.Time `json:"close_escalation_at"`

	CreatedByID int       `json:"created_by_id"`
	UpdatedByID int       `json:"updated_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated only when articles were requested alongside the ticket.
	Articles []Article `json:"articles,omitempty"`
}

// Escalated reports whether any escalation deadline is set on the ticket.
func (t *Ticket) Escalated() bool {
	return t.FirstResponseEscalationAt != nil || t.UpdateEscalationAt != nil || t.CloseEscalationAt != nil
}

func (t *Ticket) validate() error {
	switch {
	case t.ID <= 0:
		return missingField("ticket.id", "positive integer")
	case t.Number == "":
		return missingField("ticket.number", "non-empty string")
	case t.Title == "":
		return missingField("ticket.title", "non-empty string")
	case t.GroupID <= 0:
		return missingField("ticket.group_id", "positive integer")
	case t.StateID <= 0:
		return missingField("ticket.state_id", "positive integer")
	case t.PriorityID <= 0:
		return missingField("ticket.priority_id", "positive integer")
	case t.CreatedAt.IsZero():
		return missingField("ticket.created_at", "RFC 3339 timestamp")
	case t.UpdatedAt.IsZero():
		return missingField("ticket.updated_at", "RFC 3339 timestamp")
	}
	return nil
}

func (t *Ticket) sanitize() {
	t.Note = bodyPolicy.Sanitize(t.Note)
	for i := range t.Articles {
		t.Articles[i].sanitize()
	}
}

// ParseTicket validates and normalizes a raw ticket response body.
func ParseTicket(data []byte) (*Ticket, error) {
	var t Ticket
	if err := decodeStrict("ticket", data, &t); err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	t.sanitize()
	return &t, nil
}

// ParseTickets validates and normalizes a list response. Any malformed
// element fails the whole parse; partial lists are never returned.
func ParseTickets(data []byte) ([]Ticket, error) {
	var tickets []Ticket
	if err := decodeStrict("tickets", data, &tickets); err != nil {
		return nil, err
	}
	for i := range tickets {
		if err := tickets[i].validate(); err != nil {
			return nil, err
		}
		tickets[i].sanitize()
	}
	return tickets, nil
}

// Article is a single message on a ticket. Body is sanitized on parse.
type Article struct {
	ID          int    `json:"id"`
	TicketID    int    `json:"ticket_id"`
	Type        string `json:"type"`
	Sender      string `json:"sender"`
	From        string `json:"from"`
	To          string `json:"to"`
	Cc          string `json:"cc"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
	Internal    bool   `json:"internal"`

	Attachments []Attachment `json:"attachments,omitempty"`

	CreatedByID int       `json:"created_by_id"`
	UpdatedByID int       `json:"updated_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *Article) validate() error {
	switch {
	case a.ID <= 0:
		return missingField("article.id", "positive integer")
	case a.TicketID <= 0:
		return missingField("article.ticket_id", "positive integer")
	case a.CreatedAt.IsZero():
		return missingField("article.created_at", "RFC 3339 timestamp")
	}
	return nil
}

func (a *Article) sanitize() {
	a.Body = bodyPolicy.Sanitize(a.Body)
}

// ParseArticle validates and normalizes a raw article response body.
func ParseArticle(data []byte) (*Article, error) {
	var a Article
	if err := decodeStrict("article", data, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	a.sanitize()
	return &a, nil
}

// ParseArticles validates and normalizes an article list response.
func ParseArticles(data []byte) ([]Article, error) {
	var articles []Article
	if err := decodeStrict("articles", data, &articles); err != nil {
		return nil, err
	}
	for i := range articles {
		if err := articles[i].validate(); err != nil {
			return nil, err
		}
		articles[i].sanitize()
	}
	return articles, nil
}

// TicketStats aggregates ticket counts by lifecycle bucket.
type TicketStats struct {
	TotalCount     int `json:"total_count"`
	OpenCount      int `json:"open_count"`
	ClosedCount    int `json:"closed_count"`
	PendingCount   int `json:"pending_count"`
	EscalatedCount int `json:"escalated_count"`
}
