package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	emaildomain "inboxpilot-backend/internal/email/domain"
	"inboxpilot-backend/pkg/extract"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc = emaildomain.TokenUpdateFunc

// maxAuthRetries bounds the retries after the initial auth-rejected attempt
const maxAuthRetries = 3

type Service struct {
	clientID     string
	clientSecret string
	backoffBase  time.Duration
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[Gmail] Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string, backoffBase time.Duration) *Service {
	if backoffBase <= 0 {
		backoffBase = time.Second
	}
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		backoffBase:  backoffBase,
	}
}

// getGmailService creates a Gmail client with the user's token pair. The token
// source is wrapped so refreshed tokens are persisted through the callback.
func (s *Service) getGmailService(ctx context.Context, creds emaildomain.Credentials) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if creds.RefreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrappedSource := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: creds.OnTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return srv, nil
}

// isAuthError reports whether the API rejected our credentials
func isAuthError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 401 || apiErr.Code == 403
	}
	return false
}

// withAuthRetry runs fn, retrying auth rejections up to maxAuthRetries times
// with linear backoff (1x, 2x, 3x base before each retry). Exhausted retries
// map to ErrSessionExpired.
func (s *Service) withAuthRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isAuthError(err) {
			return err
		}
		if attempt == maxAuthRetries {
			break
		}
		log.Printf("[Gmail] Auth rejected (retry %d/%d): %v", attempt+1, maxAuthRetries, err)
		select {
		case <-time.After(time.Duration(attempt+1) * s.backoffBase):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", emaildomain.ErrSessionExpired, err)
}

// TestConnection validates the credentials by fetching the user's profile
func (s *Service) TestConnection(ctx context.Context, creds emaildomain.Credentials) error {
	srv, err := s.getGmailService(ctx, creds)
	if err != nil {
		return err
	}

	return s.withAuthRetry(ctx, func() error {
		_, err := srv.Users.GetProfile("me").Do()
		return err
	})
}

// ListRecentMessageIDs returns up to maxMessages message ids from the inbox,
// newest first, as the Gmail list endpoint orders them.
func (s *Service) ListRecentMessageIDs(ctx context.Context, creds emaildomain.Credentials, maxMessages int) ([]string, error) {
	srv, err := s.getGmailService(ctx, creds)
	if err != nil {
		return nil, err
	}

	if maxMessages <= 0 {
		maxMessages = 50
	}
	if maxMessages > 500 {
		maxMessages = 500 // Gmail API maximum
	}

	var resp *gmail.ListMessagesResponse
	err = s.withAuthRetry(ctx, func() error {
		var innerErr error
		resp, innerErr = srv.Users.Messages.List("me").
			LabelIds("INBOX").
			MaxResults(int64(maxMessages)).
			Do()
		return innerErr
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

// GetMessageDetail fetches one message in full and extracts its content
func (s *Service) GetMessageDetail(ctx context.Context, creds emaildomain.Credentials, externalID string) (*emaildomain.Email, error) {
	srv, err := s.getGmailService(ctx, creds)
	if err != nil {
		return nil, err
	}

	var msg *gmail.Message
	err = s.withAuthRetry(ctx, func() error {
		var innerErr error
		msg, innerErr = srv.Users.Messages.Get("me", externalID).Format("full").Do()
		return innerErr
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %w", externalID, err)
	}

	return convertMessage(msg), nil
}

// SendMessage sends an email through the Gmail API
func (s *Service) SendMessage(ctx context.Context, creds emaildomain.Credentials, out *emaildomain.OutgoingMessage) error {
	srv, err := s.getGmailService(ctx, creds)
	if err != nil {
		return err
	}

	var raw bytes.Buffer
	if out.FromName != "" && out.FromEmail != "" {
		encodedName := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(out.FromName)))
		raw.WriteString(fmt.Sprintf("From: %s <%s>\r\n", encodedName, out.FromEmail))
	}
	raw.WriteString(fmt.Sprintf("To: %s\r\n", out.To))
	if out.Cc != "" {
		raw.WriteString(fmt.Sprintf("Cc: %s\r\n", out.Cc))
	}
	if out.Bcc != "" {
		raw.WriteString(fmt.Sprintf("Bcc: %s\r\n", out.Bcc))
	}
	// Encode subject to handle non-ASCII characters (RFC 2047)
	encodedSubject := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(out.Subject)))
	raw.WriteString(fmt.Sprintf("Subject: %s\r\n", encodedSubject))
	raw.WriteString("MIME-Version: 1.0\r\n")
	if out.IsHTML {
		raw.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	} else {
		raw.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	}
	raw.WriteString(out.Body)
	raw.WriteString("\r\n")

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw.Bytes()),
	}

	err = s.withAuthRetry(ctx, func() error {
		_, innerErr := srv.Users.Messages.Send("me", msg).Do()
		return innerErr
	})
	if err != nil {
		return fmt.Errorf("unable to send message: %w", err)
	}
	return nil
}

// Helper functions

func convertMessage(msg *gmail.Message) *emaildomain.Email {
	email := &emaildomain.Email{
		ExternalID: msg.Id,
		ThreadID:   msg.ThreadId,
		Snippet:    msg.Snippet,
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
		IsRead:     !hasLabel(msg.LabelIds, "UNREAD"),
		Labels:     emaildomain.StringArray(msg.LabelIds),
	}
	email.IsImportant = hasLabel(msg.LabelIds, "IMPORTANT") || hasLabel(msg.LabelIds, "STARRED")

	if msg.Payload == nil {
		email.Content = &emaildomain.EmailContent{}
		return email
	}

	email.Subject = getHeader(msg.Payload.Headers, "Subject")
	from := getHeader(msg.Payload.Headers, "From")
	email.FromName, email.FromEmail = parseAddress(from)

	content := ExtractContent(msg.Payload)
	email.Content = content
	email.BodyText = content.Text
	email.BodyHTML = content.HTML
	if email.Snippet == "" {
		email.Snippet = makeSnippet(content.Text)
	}

	return email
}

// parseAddress splits "Name <user@example.com>" into its two parts
func parseAddress(from string) (name, address string) {
	if idx := strings.Index(from, "<"); idx >= 0 {
		name = strings.Trim(strings.TrimSpace(from[:idx]), `"`)
		address = strings.TrimRight(strings.TrimSpace(from[idx+1:]), ">")
		if name == "" {
			name = address
		}
		return name, address
	}
	return from, from
}

func makeSnippet(text string) string {
	snippet := strings.Join(strings.Fields(text), " ")
	if len(snippet) > 200 {
		snippet = extract.TruncateRunes(snippet, 200) + "..."
	}
	return snippet
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

func hasLabel(labels []string, labelID string) bool {
	for _, label := range labels {
		if label == labelID {
			return true
		}
	}
	return false
}
