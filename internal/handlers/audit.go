package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roomkeep/dataroom/internal/auth"
	"github.com/roomkeep/dataroom/internal/services"
)

// AuditHandler serves the audit trail. Admin-only.
type AuditHandler struct {
	audit *services.AuditService
}

// NewAuditHandler creates the handler.
func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns audit rows, newest first, filterable by document and
// action.
func (h *AuditHandler) List(c *gin.Context) {
	userID, _ := auth.UserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	entries, total, err := h.audit.List(c.Request.Context(), userID, services.AuditFilter{
		DocumentID: c.Query("document_id"),
		Action:     c.Query("action"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": total, "page": page})
}
