package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := Encrypt("imap-password-123", "secret-key")
	assert.NoError(t, err)
	assert.NotEqual(t, "imap-password-123", encrypted)

	decrypted, err := Decrypt(encrypted, "secret-key")
	assert.NoError(t, err)
	assert.Equal(t, "imap-password-123", decrypted)
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	encrypted, err := Encrypt("imap-password-123", "secret-key")
	assert.NoError(t, err)

	_, err = Decrypt(encrypted, "other-key")
	assert.Error(t, err)
}

func TestDecryptGarbageFails(t *testing.T) {
	_, err := Decrypt("not base64!!", "secret-key")
	assert.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", "secret-key")
	assert.Error(t, err)
}
