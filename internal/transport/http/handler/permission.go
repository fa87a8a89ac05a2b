package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/percefons/auth-service/internal/domain"
)

type permissionLister interface {
	List(ctx context.Context) ([]*domain.Permission, error)
}

type PermissionHandler struct {
	permissions permissionLister
	logger      *slog.Logger
}

func NewPermissionHandler(permissions permissionLister, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		permissions: permissions,
		logger:      logger.With("component", "permission_handler"),
	}
}

type permissionResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	CodeName string `json:"code_name"`
}

// GET /permissions
func (h *PermissionHandler) List(c *gin.Context) {
	perms, err := h.permissions.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionResponse{ID: p.ID, Name: p.Name, CodeName: p.CodeName})
	}
	c.JSON(http.StatusOK, gin.H{"permissions": out})
}
