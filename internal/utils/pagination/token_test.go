package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	startedAt := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(startedAt, "run-1")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedStart, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, startedAt, decodedStart)
	assert.Equal(t, "run-1", decodedID)

	// Non-UTC input is normalized to UTC
	local := time.Date(2025, 1, 15, 16, 30, 45, 0, time.FixedZone("EET", 2*60*60))
	decodedLocal, _, err := DecodeToken(EncodeToken(local, "run-2"))
	assert.NoError(t, err)
	assert.True(t, local.Equal(decodedLocal))
	assert.Equal(t, time.UTC, decodedLocal.Location())
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.StdEncoding.EncodeToString([]byte("2025-01-15T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	emptyID := base64.StdEncoding.EncodeToString([]byte("2025-01-15T00:00:00Z|"))
	_, _, err = DecodeToken(emptyID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|run-1"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "started_at parse")
}
