package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// PermissionsHandler serves the read-only permission defaults loaded from
// configuration.
type PermissionsHandler struct {
	languages map[string]any
	logger    *slog.Logger
}

// NewPermissionsHandler parses the configured language-permission document.
// An empty document yields an empty map rather than an error.
func NewPermissionsHandler(languagePermissions string, logger *slog.Logger) (*PermissionsHandler, error) {
	languages := make(map[string]any)

	if languagePermissions != "" {
		if err := json.Unmarshal([]byte(languagePermissions), &languages); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfig, "invalid language permissions document")
		}
	}

	return &PermissionsHandler{
		languages: languages,
		logger:    logger,
	}, nil
}

// LanguagesHandler returns the language-permission defaults.
// GET /v1/access/permissions/languages
func (h *PermissionsHandler) LanguagesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.languages)
}
