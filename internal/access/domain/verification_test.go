package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestVerificationToken() *VerificationToken {
	return &VerificationToken{
		ID:          uuid.Must(uuid.NewV7()),
		SubjectID:   "alice",
		Hash:        "deadbeef",
		Host:        "app.example",
		Fingerprint: "fp-1",
		CreatedAt:   time.Now().UTC(),
		TTL:         time.Now().UTC().Add(15 * time.Minute),
	}
}

func TestVerificationToken_MatchCallback(t *testing.T) {
	t.Run("Success_AllFieldsMatch", func(t *testing.T) {
		token := newTestVerificationToken()

		assert.NoError(t, token.MatchCallback("deadbeef", "app.example", "fp-1"))
	})

	t.Run("Error_HashMismatch", func(t *testing.T) {
		token := newTestVerificationToken()

		err := token.MatchCallback("cafebabe", "app.example", "fp-1")
		assert.ErrorIs(t, err, ErrVerificationHashMismatch)
	})

	t.Run("Error_HostMismatch", func(t *testing.T) {
		token := newTestVerificationToken()

		err := token.MatchCallback("deadbeef", "other.example", "fp-1")
		assert.ErrorIs(t, err, ErrVerificationHostMismatch)
	})

	t.Run("Error_FingerprintMismatch", func(t *testing.T) {
		token := newTestVerificationToken()

		err := token.MatchCallback("deadbeef", "app.example", "fp-2")
		assert.ErrorIs(t, err, ErrVerificationFingerprintMismatch)
	})
}

func TestVerificationToken_IsExpired(t *testing.T) {
	token := newTestVerificationToken()

	assert.False(t, token.IsExpired(time.Now().UTC()))
	assert.True(t, token.IsExpired(token.TTL))
	assert.True(t, token.IsExpired(token.TTL.Add(time.Second)))
}
