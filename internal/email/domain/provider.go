package domain

import "context"

// Credentials carries whatever the provider needs to authenticate one account.
// Gmail uses the OAuth token pair; IMAP uses host/username/password.
type Credentials struct {
	AccessToken    string
	RefreshToken   string
	IMAPHost       string
	IMAPPort       int
	IMAPUsername   string
	IMAPPassword   string
	OnTokenRefresh TokenUpdateFunc
}

// OutgoingMessage is a message to be sent on behalf of the user
type OutgoingMessage struct {
	FromName  string
	FromEmail string
	To        string
	Cc        string
	Bcc       string
	Subject   string
	Body      string
	IsHTML    bool
}

// MailProvider abstracts the remote mailbox. Implementations must translate
// authentication failures into ErrSessionExpired after exhausting retries.
type MailProvider interface {
	// TestConnection verifies the credentials with a cheap call
	TestConnection(ctx context.Context, creds Credentials) error
	// ListRecentMessageIDs returns up to maxMessages external ids, newest first
	ListRecentMessageIDs(ctx context.Context, creds Credentials, maxMessages int) ([]string, error)
	// GetMessageDetail fetches one message with its content extracted
	GetMessageDetail(ctx context.Context, creds Credentials, externalID string) (*Email, error)
	// SendMessage sends an outgoing message through the provider
	SendMessage(ctx context.Context, creds Credentials, msg *OutgoingMessage) error
}
