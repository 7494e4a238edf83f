package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/access/http/dto"
	participantDomain "github.com/eventdesk/accessd/internal/participant/domain"
)

// mockAccessUseCase is a mock implementation of usecase.AccessUseCase.
type mockAccessUseCase struct {
	mock.Mock
}

func (m *mockAccessUseCase) Authorize(
	ctx context.Context,
	input *accessDomain.AuthorizeInput,
) (*accessDomain.Decision, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.Decision), args.Error(1)
}

func (m *mockAccessUseCase) SendVerification(
	ctx context.Context,
	input *accessDomain.SendVerificationInput,
) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *mockAccessUseCase) CallbackVerification(
	ctx context.Context,
	input *accessDomain.CallbackVerificationInput,
) (*accessDomain.Decision, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.Decision), args.Error(1)
}

// setupTestHandler creates a test access handler with a mocked use case.
func setupTestHandler(t *testing.T) (*AccessHandler, *mockAccessUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockAccessUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewAccessHandler(mockUseCase, logger)

	return handler, mockUseCase
}

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func TestAccessHandler_AuthorizeHandler(t *testing.T) {
	request := dto.AuthorizeRequest{
		SubjectID:   "alice",
		Hash:        "99db77b0762df8b1c0373451dc06e834b3daa4d438c21378fa5c6337fa5abb32",
		Host:        "portal.example.test",
		Fingerprint: "fp-device-1",
		Operation:   "GET/events",
	}

	t.Run("Success_Authenticated", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		decision := &accessDomain.Decision{
			Status: accessDomain.StatusAuthenticated,
			Token:  "signed-token",
		}

		mockUseCase.On("Authorize", mock.Anything, mock.MatchedBy(func(input *accessDomain.AuthorizeInput) bool {
			return input.SubjectID == request.SubjectID &&
				input.Host == request.Host &&
				input.Operation == request.Operation &&
				input.Token == ""
		})).Return(decision, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/authorize", request)

		handler.AuthorizeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DecisionResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "authenticated", response.Status)
		assert.Equal(t, "signed-token", response.Token)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_BearerTokenForwarded", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		decision := &accessDomain.Decision{Status: accessDomain.StatusAuthenticated}

		mockUseCase.On("Authorize", mock.Anything, mock.MatchedBy(func(input *accessDomain.AuthorizeInput) bool {
			return input.Token == "caller-token"
		})).Return(decision, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/authorize", request)
		c.Request.Header.Set("Authorization", "Bearer caller-token")

		handler.AuthorizeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DecisionResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Empty(t, response.Token)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_NeedsVerification", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		decision := &accessDomain.Decision{
			Status: accessDomain.StatusNeedsVerification,
			Token:  "narrow-token",
		}

		mockUseCase.On("Authorize", mock.Anything, mock.Anything).
			Return(decision, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/authorize", request)

		handler.AuthorizeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DecisionResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "needs-verification", response.Status)
		assert.Equal(t, "narrow-token", response.Token)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/access/authorize", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))

		handler.AuthorizeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		incomplete := dto.AuthorizeRequest{SubjectID: "alice"}

		c, w := createTestContext(http.MethodPost, "/v1/access/authorize", incomplete)

		handler.AuthorizeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_BadHashMapsToUnauthorized", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Authorize", mock.Anything, mock.Anything).
			Return(nil, accessDomain.ErrBadHash).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/authorize", request)

		handler.AuthorizeHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "unauthorized", response["error"])

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_OperationNotAllowedMapsToForbidden", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Authorize", mock.Anything, mock.Anything).
			Return(nil, accessDomain.ErrOperationNotAllowed).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/authorize", request)

		handler.AuthorizeHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoDefaultRecordMapsToInternalError", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Authorize", mock.Anything, mock.Anything).
			Return(nil, accessDomain.ErrNoDefaultRecord).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/authorize", request)

		handler.AuthorizeHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "internal_error", response["error"])
		assert.NotContains(t, response["message"], "default auth record")

		mockUseCase.AssertExpectations(t)
	})
}

func TestAccessHandler_SendVerificationHandler(t *testing.T) {
	request := dto.SendVerificationRequest{
		SubjectID:   "alice",
		Hash:        "99db77b0762df8b1c0373451dc06e834b3daa4d438c21378fa5c6337fa5abb32",
		Host:        "portal.example.test",
		Fingerprint: "fp-device-1",
	}

	t.Run("Success_EmailDispatched", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("SendVerification", mock.Anything, mock.MatchedBy(func(input *accessDomain.SendVerificationInput) bool {
			return input.SubjectID == request.SubjectID &&
				input.Host == request.Host &&
				input.ClientIP != ""
		})).Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/verification/send", request)

		handler.SendVerificationHandler(c)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var response dto.SendVerificationResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "sent", response.Status)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		incomplete := dto.SendVerificationRequest{SubjectID: "alice", Host: "portal.example.test"}

		c, w := createTestContext(http.MethodPost, "/v1/access/verification/send", incomplete)

		handler.SendVerificationHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UnknownParticipantMapsToNotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("SendVerification", mock.Anything, mock.Anything).
			Return(participantDomain.ErrParticipantNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/verification/send", request)

		handler.SendVerificationHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_SendFailureMapsToUpstreamUnavailable", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("SendVerification", mock.Anything, mock.Anything).
			Return(accessDomain.ErrNotificationSendFailed).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/verification/send", request)

		handler.SendVerificationHandler(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "upstream_unavailable", response["error"])

		mockUseCase.AssertExpectations(t)
	})
}

func TestAccessHandler_CallbackVerificationHandler(t *testing.T) {
	tokenID := uuid.Must(uuid.NewV7())

	request := dto.CallbackVerificationRequest{
		SubjectID:   "alice",
		Hash:        "99db77b0762df8b1c0373451dc06e834b3daa4d438c21378fa5c6337fa5abb32",
		Host:        "portal.example.test",
		Fingerprint: "fp-device-1",
		Token:       tokenID.String(),
	}

	t.Run("Success_SessionCreated", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		decision := &accessDomain.Decision{
			Status: accessDomain.StatusAuthenticated,
			Token:  "full-profile-token",
		}

		mockUseCase.On("CallbackVerification", mock.Anything, mock.MatchedBy(func(input *accessDomain.CallbackVerificationInput) bool {
			return input.SubjectID == request.SubjectID &&
				input.TokenID == tokenID.String()
		})).Return(decision, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/verification/callback", request)

		handler.CallbackVerificationHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DecisionResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "authenticated", response.Status)
		assert.Equal(t, "full-profile-token", response.Token)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MissingToken", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		incomplete := request
		incomplete.Token = ""

		c, w := createTestContext(http.MethodPost, "/v1/access/verification/callback", incomplete)

		handler.CallbackVerificationHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_TokenNotFoundMapsToNotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("CallbackVerification", mock.Anything, mock.Anything).
			Return(nil, accessDomain.ErrVerificationTokenNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/verification/callback", request)

		handler.CallbackVerificationHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_FingerprintMismatchMapsToUnauthorized", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("CallbackVerification", mock.Anything, mock.Anything).
			Return(nil, accessDomain.ErrVerificationFingerprintMismatch).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/access/verification/callback", request)

		handler.CallbackVerificationHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		mockUseCase.AssertExpectations(t)
	})
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"BearerScheme", "Bearer abc123", "abc123"},
		{"LowercaseScheme", "bearer abc123", "abc123"},
		{"MissingHeader", "", ""},
		{"WrongScheme", "Basic abc123", ""},
		{"EmptyToken", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := createTestContext(http.MethodPost, "/v1/access/authorize", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, bearerToken(c))
		})
	}
}
