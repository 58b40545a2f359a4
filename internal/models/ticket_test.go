package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTicketJSON = `{
	"id": 42,
	"number": "67042",
	"title": "Printer on fire",
	"group_id": 2,
	"state_id": 1,
	"priority_id": 2,
	"customer_id": 7,
	"group": "Support",
	"state": {"id": 1, "name": "new"},
	"priority": "2 normal",
	"customer": {"id": 7, "name": "Jane Doe"},
	"created_at": "2024-05-01T10:00:00Z",
	"updated_at": "2024-05-02T11:30:00Z"
}`

func TestParseTicketAcceptsBothRefShapes(t *testing.T) {
	ticket, err := ParseTicket([]byte(validTicketJSON))
	require.NoError(t, err)

	assert.Equal(t, RefString, ticket.Group.Kind)
	assert.Equal(t, "Support", ticket.Group.Display())

	assert.Equal(t, RefObject, ticket.State.Kind)
	assert.Equal(t, 1, ticket.State.ID)
	assert.Equal(t, "new", ticket.State.Display())

	assert.True(t, ticket.Owner.IsAbsent())
}

func TestParseTicketRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "missing id",
			body:  `{"number": "1", "title": "t", "group_id": 1, "state_id": 1, "priority_id": 1, "created_at": "2024-05-01T10:00:00Z", "updated_at": "2024-05-01T10:00:00Z"}`,
			field: "ticket.id",
		},
		{
			name:  "missing title",
			body:  `{"id": 1, "number": "1", "group_id": 1, "state_id": 1, "priority_id": 1, "created_at": "2024-05-01T10:00:00Z", "updated_at": "2024-05-01T10:00:00Z"}`,
			field: "ticket.title",
		},
		{
			name:  "missing created_at",
			body:  `{"id": 1, "number": "1", "title": "t", "group_id": 1, "state_id": 1, "priority_id": 1, "updated_at": "2024-05-01T10:00:00Z"}`,
			field: "ticket.created_at",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTicket([]byte(tt.body))
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestParseTicketWrongFieldType(t *testing.T) {
	body := `{"id": "not-a-number", "number": "1", "title": "t"}`

	_, err := ParseTicket([]byte(body))

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Field, "id")
}

func TestParseTicketsFailsWholeListOnBadElement(t *testing.T) {
	body := `[` + validTicketJSON + `, {"id": 43, "title": "no number"}]`

	tickets, err := ParseTickets([]byte(body))

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Nil(t, tickets, "partial lists must never be returned")
}

func TestParseTicketSanitizesNote(t *testing.T) {
	body := `{
		"id": 42, "number": "67042", "title": "t", "group_id": 1, "state_id": 1, "priority_id": 1,
		"note": "<p onclick=\"alert(1)\">note</p><script>steal()</script>",
		"created_at": "2024-05-01T10:00:00Z", "updated_at": "2024-05-01T10:00:00Z"
	}`

	ticket, err := ParseTicket([]byte(body))
	require.NoError(t, err)

	assert.NotContains(t, ticket.Note, "script")
	assert.NotContains(t, ticket.Note, "onclick")
	assert.Contains(t, ticket.Note, "note")
}

func TestParseArticleSanitizesBody(t *testing.T) {
	body := `{
		"id": 7, "ticket_id": 42, "type": "email",
		"body": "<p>hi</p><iframe src=\"https://evil.example\"></iframe>",
		"created_at": "2024-05-01T10:00:00Z", "updated_at": "2024-05-01T10:00:00Z"
	}`

	article, err := ParseArticle([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "<p>hi</p>", article.Body)
}

func TestTicketEscalated(t *testing.T) {
	ticket := Ticket{}
	assert.False(t, ticket.Escalated())

	at := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	ticket.UpdateEscalationAt = &at
	assert.True(t, ticket.Escalated())
}
