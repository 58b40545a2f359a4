package zammad

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testArticlesWithAttachments = `[
	{
		"id": 7, "ticket_id": 42, "type": "email", "body": "see attached",
		"created_at": "2024-05-01T10:00:00Z", "updated_at": "2024-05-01T10:00:00Z",
		"attachments": [
			{"id": 11, "filename": "report.pdf", "size": "52133",
			 "preferences": {"Content-Type": "application/pdf"}},
			{"id": 12, "filename": "photo.jpg", "size": 8040,
			 "preferences": {"Content-Type": "image/jpeg"}}
		]
	},
	{
		"id": 8, "ticket_id": 42, "type": "note", "body": "no files here",
		"created_at": "2024-05-01T11:00:00Z", "updated_at": "2024-05-01T11:00:00Z"
	}
]`

func TestListAttachments(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/ticket_articles/by_ticket/42", r.URL.Path)
		w.Write([]byte(testArticlesWithAttachments))
	}))

	attachments, err := client.ListAttachments(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, attachments, 2)
	assert.Equal(t, "report.pdf", attachments[0].Filename)
	assert.Equal(t, 52133, int(attachments[0].Size))
	assert.Equal(t, 42, attachments[0].TicketID)
	assert.Equal(t, 7, attachments[0].ArticleID)
	assert.Equal(t, "image/jpeg", attachments[1].MIMEType())
}

func TestDownloadAttachment(t *testing.T) {
	content := []byte("%PDF-1.7 fake")
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/ticket_articles/by_ticket/42":
			w.Write([]byte(testArticlesWithAttachments))
		case "/api/v1/ticket_attachment/42/7/11":
			w.Write(content)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	got, err := client.DownloadAttachment(context.Background(), 42, 7, 11)
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, content, got.Data)
}

func TestDownloadAttachmentUnknownID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testArticlesWithAttachments))
	}))

	_, err := client.DownloadAttachment(context.Background(), 42, 7, 999)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 404, reqErr.Status)
}

func TestDownloadAttachmentRejectsBadIDs(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := client.DownloadAttachment(context.Background(), 42, 0, 11)

	var polErr *PolicyError
	require.ErrorAs(t, err, &polErr)
	assert.Zero(t, calls)
}
