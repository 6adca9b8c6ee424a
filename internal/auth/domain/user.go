package domain

import "time"

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"-"` // Never return password in JSON
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Provider  string `json:"provider"` // "email", "google" or "imap"

	// Gmail OAuth tokens, persisted so syncs survive restarts
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`

	// IMAP account settings; the password is stored AES-GCM encrypted
	ImapHost     string `json:"imap_host,omitempty"`
	ImapPort     int    `json:"imap_port,omitempty"`
	ImapUsername string `json:"imap_username,omitempty"`
	ImapPassword string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
