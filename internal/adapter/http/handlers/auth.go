package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workops/internal/adapter/http/dto"
	"workops/internal/adapter/http/middleware"
)

// AuthHandler exposes the authenticated principal back to the caller:
// useful for the client to learn its roles and for debugging claim
// normalization.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) Me(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	roles := principal.Roles
	if roles == nil {
		roles = []string{}
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		Sub:               principal.Sub,
		PreferredUsername: principal.PreferredUsername,
		Email:             principal.Email,
		Roles:             roles,
	})
}

// Claims lists every claim as {type, value} pairs sorted by type, the
// synthesized flattened roles included.
func (h *AuthHandler) Claims(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	items := make([]dto.ClaimItem, 0, len(principal.Claims))
	for _, claim := range principal.Claims {
		items = append(items, dto.ClaimItem{Type: claim.Type, Value: claim.Value})
	}

	c.JSON(http.StatusOK, items)
}
