package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt is an integer that the API sometimes serializes as a quoted
// string (attachment sizes in particular). Both shapes decode to the
// same value.
type FlexInt int

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		var err error
		s, err = strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("flexible integer: %w", err)
		}
		if s == "" {
			*f = 0
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("flexible integer: %w", err)
	}
	*f = FlexInt(n)
	return nil
}

// MarshalJSON always emits a plain number.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

// attachmentPrefs carries the content type nested under preferences.
type attachmentPrefs struct {
	ContentType string `json:"Content-Type"`
	Charset     string `json:"Charset"`
}

// Attachment is file metadata attached to an article. Listing metadata
// is cheap; the binary content is fetched only through an explicit
// download call, never as a side effect of listing.
type Attachment struct {
	ID          int             `json:"id"`
	Filename    string          `json:"filename"`
	Size        FlexInt         `json:"size"`
	Preferences attachmentPrefs `json:"preferences"`

	// Filled in during parsing so a download handle can be built
	// without re-fetching the parent article.
	TicketID  int `json:"ticket_id,omitempty"`
	ArticleID int `json:"article_id,omitempty"`
}

// MIMEType returns the declared content type, or a safe default.
func (a *Attachment) MIMEType() string {
	if a.Preferences.ContentType == "" {
		return "application/octet-stream"
	}
	return a.Preferences.ContentType
}

func (a *Attachment) validate() error {
	switch {
	case a.ID <= 0:
		return missingField("attachment.id", "positive integer")
	case a.Filename == "":
		return missingField("attachment.filename", "non-empty string")
	}
	return nil
}

// ParseAttachments validates an attachment metadata list.
func ParseAttachments(data []byte) ([]Attachment, error) {
	var attachments []Attachment
	if err := json.Unmarshal(data, &attachments); err != nil {
		return nil, decodeField("attachments", err)
	}
	for i := range attachments {
		if err := attachments[i].validate(); err != nil {
			return nil, err
		}
	}
	return attachments, nil
}

// AttachmentContent is a downloaded attachment body with the metadata a
// transport needs to hand it on. Data is raw bytes; any base64 framing
// is the transport's concern.
type AttachmentContent struct {
	Filename    string
	ContentType string
	Data        []byte
}
