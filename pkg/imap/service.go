// Package imap implements the mail provider contract against a generic IMAP
// server, for accounts that do not use Gmail OAuth.
package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	emaildomain "inboxpilot-backend/internal/email/domain"
	"inboxpilot-backend/pkg/extract"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// connect dials the server and authenticates. A rejected login maps to
// ErrSessionExpired so the orchestrator treats it like any credential failure.
func (s *Service) connect(creds emaildomain.Credentials) (*client.Client, error) {
	port := creds.IMAPPort
	if port == 0 {
		port = 993
	}
	addr := fmt.Sprintf("%s:%d", creds.IMAPHost, port)

	var c *client.Client
	var err error
	if port == 143 {
		c, err = client.Dial(addr)
	} else {
		c, err = client.DialTLS(addr, &tls.Config{ServerName: creds.IMAPHost})
	}
	if err != nil {
		return nil, fmt.Errorf("unable to reach IMAP server %s: %w", addr, err)
	}

	if err := c.Login(creds.IMAPUsername, creds.IMAPPassword); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("%w: IMAP login rejected for %s: %v",
			emaildomain.ErrSessionExpired, creds.IMAPUsername, err)
	}

	return c, nil
}

// TestConnection verifies the server is reachable and the credentials work
func (s *Service) TestConnection(ctx context.Context, creds emaildomain.Credentials) error {
	c, err := s.connect(creds)
	if err != nil {
		return err
	}
	return c.Logout()
}

// ListRecentMessageIDs returns the UIDs of the newest messages in INBOX,
// newest first. UIDs are rendered as strings to satisfy the provider contract.
func (s *Service) ListRecentMessageIDs(ctx context.Context, creds emaildomain.Credentials, maxMessages int) ([]string, error) {
	c, err := s.connect(creds)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Logout() }()

	mbox, err := c.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("unable to select INBOX: %w", err)
	}

	if mbox.Messages == 0 {
		return []string{}, nil
	}

	if maxMessages <= 0 {
		maxMessages = 50
	}
	from := uint32(1)
	if mbox.Messages > uint32(maxMessages) {
		from = mbox.Messages - uint32(maxMessages) + 1
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(from, mbox.Messages)

	messages := make(chan *imap.Message, maxMessages)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, []imap.FetchItem{imap.FetchUid}, messages)
	}()

	uids := make([]string, 0, maxMessages)
	for msg := range messages {
		uids = append(uids, strconv.FormatUint(uint64(msg.Uid), 10))
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}

	// Higher sequence numbers are newer; reverse to get newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	return uids, nil
}

// GetMessageDetail fetches one message by UID and extracts its content
func (s *Service) GetMessageDetail(ctx context.Context, creds emaildomain.Credentials, externalID string) (*emaildomain.Email, error) {
	uid, err := strconv.ParseUint(externalID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid IMAP message id %q: %w", externalID, err)
	}

	c, err := s.connect(creds)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Logout() }()

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("unable to select INBOX: %w", err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(uid))

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchInternalDate, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, messages)
	}()

	msg := <-messages
	if err := <-done; err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %w", externalID, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("message %s not found", externalID)
	}

	return convertIMAPMessage(externalID, msg, section), nil
}

// SendMessage is not supported over plain IMAP; sending requires SMTP, which
// IMAP accounts configure separately.
func (s *Service) SendMessage(ctx context.Context, creds emaildomain.Credentials, out *emaildomain.OutgoingMessage) error {
	return fmt.Errorf("sending is not supported for IMAP accounts")
}

func convertIMAPMessage(externalID string, msg *imap.Message, section *imap.BodySectionName) *emaildomain.Email {
	email := &emaildomain.Email{
		ExternalID: externalID,
		ReceivedAt: msg.InternalDate,
		IsRead:     true,
		Labels:     emaildomain.StringArray{},
	}

	for _, flag := range msg.Flags {
		email.Labels = append(email.Labels, string(flag))
		if flag == imap.FlaggedFlag {
			email.IsImportant = true
		}
	}
	email.IsRead = hasFlag(msg.Flags, imap.SeenFlag)

	if msg.Envelope != nil {
		email.Subject = msg.Envelope.Subject
		if email.ReceivedAt.IsZero() {
			email.ReceivedAt = msg.Envelope.Date
		}
		if len(msg.Envelope.From) > 0 {
			from := msg.Envelope.From[0]
			email.FromEmail = from.Address()
			email.FromName = from.PersonalName
			if email.FromName == "" {
				email.FromName = email.FromEmail
			}
		}
	}

	var plain, rawHTML string
	if body := msg.GetBody(section); body != nil {
		plain, rawHTML = parseBody(body)
	}
	content := extract.BuildContent(plain, rawHTML)
	email.Content = content
	email.BodyText = content.Text
	email.BodyHTML = content.HTML
	email.Snippet = makeSnippet(content.Text)

	return email
}

// parseBody walks the MIME structure with go-message and accumulates the
// text/plain and text/html inline parts independently.
func parseBody(r io.Reader) (plain, rawHTML string) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		raw, readErr := io.ReadAll(r)
		if readErr != nil {
			return "", ""
		}
		return string(raw), ""
	}
	defer mr.Close()

	var textBuf, htmlBuf strings.Builder
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[IMAP] Skipping unreadable MIME part: %v", err)
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := header.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			textBuf.Write(body)
		case strings.HasPrefix(contentType, "text/html"):
			htmlBuf.Write(body)
		}
	}

	return textBuf.String(), htmlBuf.String()
}

func makeSnippet(text string) string {
	snippet := strings.Join(strings.Fields(text), " ")
	if len(snippet) > 200 {
		snippet = extract.TruncateRunes(snippet, 200) + "..."
	}
	return snippet
}

func hasFlag(flags []string, target string) bool {
	for _, flag := range flags {
		if flag == target {
			return true
		}
	}
	return false
}
