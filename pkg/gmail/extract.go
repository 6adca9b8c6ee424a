package gmail

import (
	"encoding/base64"
	"log"
	"strings"

	emaildomain "inboxpilot-backend/internal/email/domain"
	"inboxpilot-backend/pkg/extract"

	"google.golang.org/api/gmail/v1"
)

// ExtractContent normalizes a Gmail payload tree into plain text, HTML,
// paragraphs, links and headings. It never panics past its boundary: any
// internal failure yields an empty content structure instead.
func ExtractContent(payload *gmail.MessagePart) (content *emaildomain.EmailContent) {
	content = &emaildomain.EmailContent{}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Gmail] Content extraction panicked, returning empty content: %v", r)
			content = &emaildomain.EmailContent{}
		}
	}()

	if payload == nil {
		return content
	}

	var textBuf, htmlBuf strings.Builder
	collectBodies(payload, &textBuf, &htmlBuf)

	return extract.BuildContent(textBuf.String(), htmlBuf.String())
}

// collectBodies walks the part tree and accumulates text/plain and text/html
// bodies independently. Each part is decoded on its own.
func collectBodies(part *gmail.MessagePart, textBuf, htmlBuf *strings.Builder) {
	if part == nil {
		return
	}

	if part.Body != nil && part.Body.Data != "" {
		data := decodeBody(part.Body.Data)
		switch part.MimeType {
		case "text/plain":
			textBuf.WriteString(data)
		case "text/html":
			htmlBuf.WriteString(data)
		}
	}

	for _, child := range part.Parts {
		collectBodies(child, textBuf, htmlBuf)
	}
}

// decodeBody decodes base64url body data, falling back to the raw string when
// decoding fails.
func decodeBody(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return data
}
