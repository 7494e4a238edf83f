package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eventdesk/accessd/internal/errors"
)

func TestNewHostRegistry(t *testing.T) {
	secret := strings.Repeat("0f", 32)

	t.Run("Success_MixedSecrets", func(t *testing.T) {
		registry, err := NewHostRegistry([]HostEntry{
			{Host: "app.example", Secret: NoSecret},
			{Host: "admin.example", Secret: secret},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, registry.Len())

		open, ok := registry.Lookup("app.example")
		require.True(t, ok)
		assert.False(t, open.RequiresHash())

		locked, ok := registry.Lookup("admin.example")
		require.True(t, ok)
		assert.True(t, locked.RequiresHash())
		assert.Equal(t, secret, locked.Secret)
	})

	t.Run("Success_UnknownHostNotFound", func(t *testing.T) {
		registry, err := NewHostRegistry([]HostEntry{{Host: "app.example", Secret: NoSecret}})
		require.NoError(t, err)

		_, ok := registry.Lookup("evil.example")
		assert.False(t, ok)
	})

	t.Run("Error_ShortSecret", func(t *testing.T) {
		_, err := NewHostRegistry([]HostEntry{{Host: "app.example", Secret: "abc123"}})

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, ErrInvalidKeyFormat))
	})

	t.Run("Error_NonHexSecret", func(t *testing.T) {
		_, err := NewHostRegistry([]HostEntry{{Host: "app.example", Secret: strings.Repeat("zz", 32)}})

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, ErrInvalidKeyFormat))
	})

	t.Run("Error_EmptyHost", func(t *testing.T) {
		_, err := NewHostRegistry([]HostEntry{{Host: "", Secret: NoSecret}})

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	})
}

func TestParseHostRegistry(t *testing.T) {
	t.Run("Success_JSONList", func(t *testing.T) {
		registry, err := ParseHostRegistry(`[{"host":"app.example","secret":"none"}]`)
		require.NoError(t, err)

		_, ok := registry.Lookup("app.example")
		assert.True(t, ok)
	})

	t.Run("Error_NotJSON", func(t *testing.T) {
		_, err := ParseHostRegistry("not json")

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	})

	t.Run("Error_EmptyList", func(t *testing.T) {
		_, err := ParseHostRegistry(`[]`)

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	})
}
