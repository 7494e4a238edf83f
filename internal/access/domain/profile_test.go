package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActions(t *testing.T) {
	t.Run("Success_NativeList", func(t *testing.T) {
		actions, err := DecodeActions([]byte(`["GET/table/students","POST/table/students"]`))
		require.NoError(t, err)

		assert.Equal(t, []string{"GET/table/students", "POST/table/students"}, actions)
	})

	t.Run("Success_JSONEncodedString", func(t *testing.T) {
		actions, err := DecodeActions([]byte(`"[\"GET/table/students\"]"`))
		require.NoError(t, err)

		assert.Equal(t, []string{"GET/table/students"}, actions)
	})

	t.Run("Success_DuplicatesDropped", func(t *testing.T) {
		actions, err := DecodeActions([]byte(`["a","b","a"]`))
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, actions)
	})

	t.Run("Error_StringNotEncodingAList", func(t *testing.T) {
		_, err := DecodeActions([]byte(`"not a list"`))

		assert.ErrorIs(t, err, ErrProfileInvalidFormat)
	})

	t.Run("Error_NeitherListNorString", func(t *testing.T) {
		_, err := DecodeActions([]byte(`{"actions":true}`))

		assert.ErrorIs(t, err, ErrProfileInvalidFormat)
	})
}

func TestActionsProfile_HasAction(t *testing.T) {
	profile := &ActionsProfile{
		Profile: "student",
		Actions: []string{"GET/table/students", "POST/auth/verificationEmailSend"},
	}

	assert.True(t, profile.HasAction("GET/table/students"))
	assert.False(t, profile.HasAction("DELETE/table/students"))
	assert.False(t, profile.HasAction(""))
}

func TestAuthRecord_FindHost(t *testing.T) {
	record := &AuthRecord{
		ID: "alice",
		PermittedHosts: []PermittedHost{
			{Host: "app.example", ActionsProfile: "student"},
			{Host: "admin.example", ActionsProfile: "staff"},
		},
	}

	t.Run("Success_FirstMatchWins", func(t *testing.T) {
		permitted, ok := record.FindHost("app.example")
		require.True(t, ok)
		assert.Equal(t, "student", permitted.ActionsProfile)
	})

	t.Run("Success_AbsentHost", func(t *testing.T) {
		_, ok := record.FindHost("other.example")
		assert.False(t, ok)
	})
}
