package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/eventdesk/accessd/internal/errors"
)

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("alice"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate("\t\n"))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email.Validate("alice@example.com"))
	assert.NoError(t, Email.Validate("a.b+c@sub.example.org"))
	assert.Error(t, Email.Validate("not-an-email"))
	assert.Error(t, Email.Validate("missing@tld"))
}

func TestHexKey(t *testing.T) {
	valid := strings.Repeat("ab", 32)

	assert.NoError(t, HexKey.Validate(valid))
	assert.NoError(t, HexKey.Validate(strings.ToUpper(valid)))
	assert.Error(t, HexKey.Validate(valid[:62]))
	assert.Error(t, HexKey.Validate(valid+"cd"))
	assert.Error(t, HexKey.Validate(strings.Repeat("zz", 32)))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("alice"))
	assert.Error(t, NoWhitespace.Validate(" alice"))
	assert.Error(t, NoWhitespace.Validate("alice "))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("Success_NilStaysNil", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})

	t.Run("Success_WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
