package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rawToken(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestEncodeDecodeToken(t *testing.T) {
	// Standard date and id
	date := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(date, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, date, decodedDate, "Date should match after decode")
	assert.Equal(t, int64(42), decodedID, "ID should match after decode")

	// Zero values
	zeroToken := EncodeToken(time.Time{}, 0)
	decodedZeroDate, decodedZeroID, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero values should not return an error")
	assert.Equal(t, time.Time{}, decodedZeroDate, "Zero date should match after decode")
	assert.Equal(t, int64(0), decodedZeroID, "Zero id should match after decode")

	// Current time round-trips through RFC3339Nano
	now := time.Now().UTC()
	nowToken := EncodeToken(now, 7)
	decodedNow, _, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current date should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separator
	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // base64 of a bare date without separator
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Invalid date component
	_, _, err = DecodeToken(rawToken("notadate|42"))
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "date parse", "Error should mention date parsing issue")

	// Invalid id component
	_, _, err = DecodeToken(rawToken(time.Now().UTC().Format(time.RFC3339Nano) + "|notanid"))
	assert.Error(t, err, "Should return an error for invalid id format")
	assert.Contains(t, err.Error(), "id parse", "Error should mention id parsing issue")
}
