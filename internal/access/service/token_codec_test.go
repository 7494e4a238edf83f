package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/config"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// generateKeyPair returns base64-encoded PEM key material for tests.
func generateKeyPair(t *testing.T) (privateB64 string, publicB64 string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return base64.StdEncoding.EncodeToString(privPEM), base64.StdEncoding.EncodeToString(pubPEM)
}

func testCodecConfig(t *testing.T) *config.Config {
	t.Helper()

	privateB64, publicB64 := generateKeyPair(t)
	return &config.Config{
		IssuerName:          "accessd-test",
		AccessPrivateKey:    privateB64,
		AccessPublicKey:     publicB64,
		AccessTokenDuration: 5 * time.Minute,
		AdminSubjectID:      "ops-admin",
	}
}

func newTestCodec(t *testing.T) *jwtTokenCodec {
	t.Helper()

	codec, err := NewTokenCodec(testCodecConfig(t))
	require.NoError(t, err)
	return codec.(*jwtTokenCodec)
}

func TestNewTokenCodec(t *testing.T) {
	t.Run("Success_ValidConfig", func(t *testing.T) {
		codec, err := NewTokenCodec(testCodecConfig(t))

		assert.NoError(t, err)
		assert.NotNil(t, codec)
	})

	t.Run("Error_MissingIssuer", func(t *testing.T) {
		cfg := testCodecConfig(t)
		cfg.IssuerName = ""

		_, err := NewTokenCodec(cfg)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	})

	t.Run("Error_ZeroDuration", func(t *testing.T) {
		cfg := testCodecConfig(t)
		cfg.AccessTokenDuration = 0

		_, err := NewTokenCodec(cfg)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	})

	t.Run("Error_MissingPrivateKey", func(t *testing.T) {
		cfg := testCodecConfig(t)
		cfg.AccessPrivateKey = ""

		_, err := NewTokenCodec(cfg)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	})

	t.Run("Error_KeyNotBase64", func(t *testing.T) {
		cfg := testCodecConfig(t)
		cfg.AccessPublicKey = "%%% not base64 %%%"

		_, err := NewTokenCodec(cfg)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	})

	t.Run("Error_KeyNotPEM", func(t *testing.T) {
		cfg := testCodecConfig(t)
		cfg.AccessPrivateKey = base64.StdEncoding.EncodeToString([]byte("not a pem key"))

		_, err := NewTokenCodec(cfg)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	})
}

func TestTokenCodec_CreateAndVerify(t *testing.T) {
	operations := []string{"GET/table/students", "POST/table/students"}

	t.Run("Success_RoundTrip", func(t *testing.T) {
		codec := newTestCodec(t)

		token, err := codec.Create("alice", "fp-1", operations)
		require.NoError(t, err)

		assert.NoError(t, codec.Verify(token, "alice", "fp-1", "GET/table/students"))
		assert.NoError(t, codec.Verify(token, "alice", "fp-1", "POST/table/students"))
	})

	t.Run("Success_EmptyFingerprint", func(t *testing.T) {
		codec := newTestCodec(t)

		token, err := codec.Create("alice", "", operations)
		require.NoError(t, err)

		assert.NoError(t, codec.Verify(token, "alice", "", "GET/table/students"))
	})

	t.Run("Error_OperationNotInActions", func(t *testing.T) {
		codec := newTestCodec(t)

		token, err := codec.Create("alice", "fp-1", operations)
		require.NoError(t, err)

		err = codec.Verify(token, "alice", "fp-1", "DELETE/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenOperationNotAllowed)
	})

	t.Run("Error_Expired", func(t *testing.T) {
		codec := newTestCodec(t)

		token, err := codec.Create("alice", "fp-1", operations)
		require.NoError(t, err)

		// Move the codec clock one second past expiry.
		codec.now = func() time.Time {
			return time.Now().UTC().Add(codec.tokenTTL + time.Second)
		}

		err = codec.Verify(token, "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenExpired)
	})

	t.Run("Error_WrongSignature", func(t *testing.T) {
		codec := newTestCodec(t)
		otherCodec := newTestCodec(t)

		token, err := otherCodec.Create("alice", "fp-1", operations)
		require.NoError(t, err)

		err = codec.Verify(token, "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenSignatureInvalid)
	})

	t.Run("Error_GarbageToken", func(t *testing.T) {
		codec := newTestCodec(t)

		err := codec.Verify("not.a.token", "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenSignatureInvalid)
	})

	t.Run("Error_IssuerMismatch", func(t *testing.T) {
		codec := newTestCodec(t)
		imposter := *codec
		imposter.issuer = "someone-else"

		token, err := imposter.Create("alice", "fp-1", operations)
		require.NoError(t, err)

		err = codec.Verify(token, "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenIssuerMismatch)
	})

	t.Run("Error_FingerprintMismatch", func(t *testing.T) {
		codec := newTestCodec(t)

		token, err := codec.Create("alice", "fp-1", operations)
		require.NoError(t, err)

		err = codec.Verify(token, "alice", "fp-2", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenFingerprintMismatch)
	})

	t.Run("Error_SubjectMismatch", func(t *testing.T) {
		codec := newTestCodec(t)

		token, err := codec.Create("alice", "fp-1", operations)
		require.NoError(t, err)

		err = codec.Verify(token, "bob", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenSubjectMismatch)
	})

	t.Run("Success_AdminBypassWaivesSubjectCheck", func(t *testing.T) {
		codec := newTestCodec(t)

		token, err := codec.Create("alice", "fp-1", operations)
		require.NoError(t, err)

		assert.NoError(t, codec.Verify(token, "ops-admin", "fp-1", "GET/table/students"))
	})
}

// signClaims signs arbitrary claims with the codec's private key, bypassing
// Create. Used to exercise claim-level verification failures.
func signClaims(t *testing.T, codec *jwtTokenCodec, claims *capabilityClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(codec.privateKey)
	require.NoError(t, err)
	return token
}

func baseClaims(codec *jwtTokenCodec) *capabilityClaims {
	now := time.Now().UTC()
	return &capabilityClaims{
		TokenType:   accessDomain.TokenTypeAccess,
		Version:     accessDomain.TokenSchemaVersion,
		Fingerprint: "fp-1",
		Actions:     []string{"GET/table/students"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    codec.issuer,
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		},
	}
}

func TestTokenCodec_VerifyClaimSchema(t *testing.T) {
	t.Run("Error_VersionMismatch", func(t *testing.T) {
		codec := newTestCodec(t)
		claims := baseClaims(codec)
		claims.Version = accessDomain.TokenSchemaVersion + 1

		err := codec.Verify(signClaims(t, codec, claims), "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenVersionMismatch)
	})

	t.Run("Error_TypeMismatch", func(t *testing.T) {
		codec := newTestCodec(t)
		claims := baseClaims(codec)
		claims.TokenType = "refresh"

		err := codec.Verify(signClaims(t, codec, claims), "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenTypeMismatch)
	})

	t.Run("Error_ActionsMissing", func(t *testing.T) {
		codec := newTestCodec(t)
		claims := baseClaims(codec)
		claims.Actions = nil

		err := codec.Verify(signClaims(t, codec, claims), "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenActionsMissing)
	})

	t.Run("Success_ActionsAsJSONEncodedString", func(t *testing.T) {
		codec := newTestCodec(t)
		claims := baseClaims(codec)
		claims.Actions = `["GET/table/students"]`

		err := codec.Verify(signClaims(t, codec, claims), "alice", "fp-1", "GET/table/students")
		assert.NoError(t, err)
	})

	t.Run("Error_ActionsStringNotJSON", func(t *testing.T) {
		codec := newTestCodec(t)
		claims := baseClaims(codec)
		claims.Actions = "not a json list"

		err := codec.Verify(signClaims(t, codec, claims), "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenActionsMalformed)
	})

	t.Run("Error_ActionsWrongElementType", func(t *testing.T) {
		codec := newTestCodec(t)
		claims := baseClaims(codec)
		claims.Actions = []any{"GET/table/students", 42}

		err := codec.Verify(signClaims(t, codec, claims), "alice", "fp-1", "GET/table/students")
		assert.ErrorIs(t, err, accessDomain.ErrTokenActionsMalformed)
	})
}
