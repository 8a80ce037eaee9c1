package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roomkeep/dataroom/internal/auth"
	"github.com/roomkeep/dataroom/internal/services"
)

// GrantHandler serves the access-management endpoints. Admin-only.
type GrantHandler struct {
	grants *services.GrantService
}

// NewGrantHandler creates the handler.
func NewGrantHandler(grants *services.GrantService) *GrantHandler {
	return &GrantHandler{grants: grants}
}

// Get returns the document id set granted to a user.
func (h *GrantHandler) Get(c *gin.Context) {
	userID, _ := auth.UserID(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	ids, err := h.grants.GrantsForUser(c.Request.Context(), userID, uint(targetID))
	if err != nil {
		respondError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"document_ids": ids})
}

type setGrantsRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

// Set replaces a user's complete grant set with the posted document
// ids.
func (h *GrantHandler) Set(c *gin.Context) {
	userID, _ := auth.UserID(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	var req setGrantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.grants.SetAccessForUser(c.Request.Context(), userID, uint(targetID), req.DocumentIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
