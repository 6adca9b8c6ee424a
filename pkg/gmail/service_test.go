package gmail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	emaildomain "inboxpilot-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestWithAuthRetryExhaustsAndMapsToSessionExpired(t *testing.T) {
	base := 5 * time.Millisecond
	svc := NewService("id", "secret", base)

	calls := 0
	start := time.Now()
	err := svc.withAuthRetry(context.Background(), func() error {
		calls++
		return &googleapi.Error{Code: 401, Message: "invalid credentials"}
	})
	elapsed := time.Since(start)

	// Initial attempt plus three retries, backed off 1x, 2x, 3x base
	assert.Equal(t, 4, calls)
	assert.GreaterOrEqual(t, elapsed, 6*base)
	assert.ErrorIs(t, err, emaildomain.ErrSessionExpired)
}

func TestWithAuthRetrySucceedsAfterTransientRejection(t *testing.T) {
	svc := NewService("id", "secret", time.Millisecond)

	calls := 0
	err := svc.withAuthRetry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return &googleapi.Error{Code: 403, Message: "rate limited"}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithAuthRetryDoesNotRetryOtherErrors(t *testing.T) {
	svc := NewService("id", "secret", time.Millisecond)

	calls := 0
	boom := errors.New("network down")
	err := svc.withAuthRetry(context.Background(), func() error {
		calls++
		return boom
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, emaildomain.ErrSessionExpired)
}

func TestParseAddress(t *testing.T) {
	name, addr := parseAddress(`"EDF Service Client" <noreply@edf.fr>`)
	assert.Equal(t, "EDF Service Client", name)
	assert.Equal(t, "noreply@edf.fr", addr)

	name, addr = parseAddress("noreply@edf.fr")
	assert.Equal(t, "noreply@edf.fr", name)
	assert.Equal(t, "noreply@edf.fr", addr)

	name, addr = parseAddress("<alone@example.com>")
	assert.Equal(t, "alone@example.com", name)
	assert.Equal(t, "alone@example.com", addr)
}

func TestMakeSnippetTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "lorem ipsum "
	}
	snippet := makeSnippet(long)
	assert.Len(t, snippet, 203)
	assert.True(t, len(snippet) <= 203)
}

func TestMakeSnippetKeepsRunesIntact(t *testing.T) {
	// Odd leading byte so the 200-byte cut lands inside a 2-byte rune
	long := "a" + strings.Repeat("é", 150)
	snippet := makeSnippet(long)

	assert.True(t, utf8.ValidString(snippet))
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.LessOrEqual(t, len(snippet), 203)
}
