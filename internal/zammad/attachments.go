package zammad

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zammad-tools/zammad-mcp/internal/models"
)

// ListAttachments returns attachment metadata for every article on a
// ticket. Only metadata travels; binary content is fetched through
// DownloadAttachment.
func (c *Client) ListAttachments(ctx context.Context, ticketID int) ([]models.Attachment, error) {
	articles, err := c.GetTicketArticles(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var out []models.Attachment
	for i := range articles {
		for _, att := range articles[i].Attachments {
			att.TicketID = ticketID
			att.ArticleID = articles[i].ID
			out = append(out, att)
		}
	}
	return out, nil
}

// DownloadAttachment fetches one attachment's binary content. The
// download URL is constructed from the three ids, never taken from a
// server response, and still passes the URL policy before the request
// goes out.
func (c *Client) DownloadAttachment(ctx context.Context, ticketID, articleID, attachmentID int) (*models.AttachmentContent, error) {
	if ticketID <= 0 || articleID <= 0 || attachmentID <= 0 {
		return nil, &PolicyError{Reason: "ticket, article, and attachment ids must be positive"}
	}

	attachments, err := c.ListAttachments(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	var meta *models.Attachment
	for i := range attachments {
		if attachments[i].ID == attachmentID && attachments[i].ArticleID == articleID {
			meta = &attachments[i]
			break
		}
	}
	if meta == nil {
		return nil, &RequestError{Status: 404, Message: fmt.Sprintf("attachment %d not found on ticket %d article %d", attachmentID, ticketID, articleID)}
	}

	target := fmt.Sprintf("%s/ticket_attachment/%d/%d/%d", c.baseURL, ticketID, articleID, attachmentID)
	data, err := c.doURL(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	return &models.AttachmentContent{
		Filename:    meta.Filename,
		ContentType: meta.MIMEType(),
		Data:        data,
	}, nil
}
