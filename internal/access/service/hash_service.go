package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
)

// hmacHashService implements HashService using HMAC-SHA256.
type hmacHashService struct{}

// ComputeHash recomputes the keyed hash that binds a subject id to a host
// secret. Deterministic, no I/O, no hidden state: any change to the subject
// id or the secret changes the output.
func (h *hmacHashService) ComputeHash(subjectID string, secretHex string) (string, error) {
	key, err := decodeSecret(secretHex)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(subjectID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// decodeSecret decodes a 64-hex-character secret into key bytes.
// Case-insensitive; any other length or alphabet is an invalid key.
func decodeSecret(secretHex string) ([]byte, error) {
	if len(secretHex) != 64 {
		return nil, accessDomain.ErrInvalidKeyFormat
	}
	key, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, accessDomain.ErrInvalidKeyFormat
	}
	return key, nil
}

// NewHashService creates a new HashService using HMAC-SHA256.
func NewHashService() HashService {
	return &hmacHashService{}
}
