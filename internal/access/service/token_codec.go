package service

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/config"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// capabilityClaims is the fixed claim schema carried by every capability token.
// The actions claim is typed any because verified tokens may carry the set as
// a native list or as a JSON-encoded string; normalization happens once during
// verification.
type capabilityClaims struct {
	TokenType   string `json:"tt"`
	Version     int    `json:"ver"`
	Fingerprint string `json:"fpt,omitempty"`
	Actions     any    `json:"act,omitempty"`
	jwt.RegisteredClaims
}

// jwtTokenCodec implements TokenCodec using RS256-signed JWTs.
type jwtTokenCodec struct {
	issuer         string
	adminSubjectID string
	tokenTTL       time.Duration
	privateKey     *rsa.PrivateKey
	publicKey      *rsa.PublicKey
	now            func() time.Time
}

// NewTokenCodec creates a TokenCodec from configuration. The key material is
// base64-encoded PEM; missing or unparseable keys, an unset issuer, or a
// non-positive token duration are configuration errors that abort startup.
func NewTokenCodec(cfg *config.Config) (TokenCodec, error) {
	if cfg.IssuerName == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfig, "issuer name is unset")
	}
	if cfg.AccessTokenDuration <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrConfig, "access token duration must be positive")
	}

	privateKey, err := parsePrivateKey(cfg.AccessPrivateKey)
	if err != nil {
		return nil, err
	}
	publicKey, err := parsePublicKey(cfg.AccessPublicKey)
	if err != nil {
		return nil, err
	}

	return &jwtTokenCodec{
		issuer:         cfg.IssuerName,
		adminSubjectID: cfg.AdminSubjectID,
		tokenTTL:       cfg.AccessTokenDuration,
		privateKey:     privateKey,
		publicKey:      publicKey,
		now:            time.Now,
	}, nil
}

// Create issues a signed capability token for the subject. The fingerprint may
// be empty (token not bound to a device); the operations set is embedded as a
// native list.
func (c *jwtTokenCodec) Create(subjectID string, fingerprint string, operations []string) (string, error) {
	if c.privateKey == nil || c.issuer == "" {
		return "", apperrors.Wrap(apperrors.ErrConfig, "token codec is not configured for signing")
	}

	now := c.now().UTC()
	claims := &capabilityClaims{
		TokenType:   accessDomain.TokenTypeAccess,
		Version:     accessDomain.TokenSchemaVersion,
		Fingerprint: fingerprint,
		Actions:     operations,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.tokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.privateKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign capability token")
	}
	return signed, nil
}

// Verify checks the token's signature and every claim, in order, returning the
// first failure as a distinct domain error. Semantically bad tokens are never
// a hard failure; callers treat any non-nil, non-config result as "invalid".
func (c *jwtTokenCodec) Verify(token string, subjectID string, fingerprint string, operation string) error {
	if c.publicKey == nil {
		return apperrors.Wrap(apperrors.ErrConfig, "token codec is not configured for verification")
	}

	claims := &capabilityClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return c.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return accessDomain.ErrTokenExpired
		}
		// Malformed tokens and wrong signatures are the same failure to callers.
		return accessDomain.ErrTokenSignatureInvalid
	}

	if claims.Issuer != c.issuer {
		return accessDomain.ErrTokenIssuerMismatch
	}
	if claims.Version != accessDomain.TokenSchemaVersion {
		return accessDomain.ErrTokenVersionMismatch
	}
	if claims.TokenType != accessDomain.TokenTypeAccess {
		return accessDomain.ErrTokenTypeMismatch
	}
	if claims.Fingerprint != fingerprint {
		return accessDomain.ErrTokenFingerprintMismatch
	}
	// Subject mismatch is waived for the administrative bypass identity.
	if claims.Subject != subjectID {
		if c.adminSubjectID == "" || subjectID != c.adminSubjectID {
			return accessDomain.ErrTokenSubjectMismatch
		}
	}

	actions, err := normalizeActionsClaim(claims.Actions)
	if err != nil {
		return err
	}
	for _, action := range actions {
		if action == operation {
			return nil
		}
	}
	return accessDomain.ErrTokenOperationNotAllowed
}

// normalizeActionsClaim converts the actions claim into a list of operation
// strings. Accepts a native list or a JSON-encoded string list; anything else
// is malformed, never a crash.
func normalizeActionsClaim(raw any) ([]string, error) {
	switch value := raw.(type) {
	case nil:
		return nil, accessDomain.ErrTokenActionsMissing
	case []string:
		return value, nil
	case []any:
		actions := make([]string, 0, len(value))
		for _, item := range value {
			action, ok := item.(string)
			if !ok {
				return nil, accessDomain.ErrTokenActionsMalformed
			}
			actions = append(actions, action)
		}
		return actions, nil
	case string:
		var actions []string
		if err := json.Unmarshal([]byte(value), &actions); err != nil {
			return nil, accessDomain.ErrTokenActionsMalformed
		}
		return actions, nil
	default:
		return nil, accessDomain.ErrTokenActionsMalformed
	}
}

// parsePrivateKey decodes a base64-encoded PEM RSA private key.
func parsePrivateKey(encoded string) (*rsa.PrivateKey, error) {
	if encoded == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfig, "access private key is unset")
	}
	pemBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfig, "access private key is not valid base64")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfig, "access private key is not a valid PEM RSA key")
	}
	return key, nil
}

// parsePublicKey decodes a base64-encoded PEM RSA public key.
func parsePublicKey(encoded string) (*rsa.PublicKey, error) {
	if encoded == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfig, "access public key is unset")
	}
	pemBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfig, "access public key is not valid base64")
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfig, "access public key is not a valid PEM RSA key")
	}
	return key, nil
}
